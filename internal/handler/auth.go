// Package handler turns events into service calls and service results into
// response envelopes.
//
// HANDLER RESPONSIBILITIES:
//   - answer CORS preflight (OPTIONS) without touching anything else
//   - refuse to work when the store is not configured
//   - decode the body into a request variant and dispatch on it
//   - map service errors to status codes (response.go)
//
// Handlers hold only their injected dependencies, so one instance can serve
// any number of concurrent invocations.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/social-feed/internal/apperror"
	"github.com/sakif/social-feed/internal/event"
	"github.com/sakif/social-feed/internal/service"
)

// EventHandler is implemented by AuthHandler and PostsHandler.
type EventHandler interface {
	Handle(ctx context.Context, req event.Request, inv event.Invocation) event.Response
}

// AuthHandler serves register and login.
//
// DEPENDENCY CHAIN:
//   - auth   *service.AuthService → validation, hashing, store access, tokens
//   - logger *slog.Logger
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Handle processes one auth event.
//
// EVENTS:
//
//	OPTIONS                         → preflight
//	POST {"action":"register", ...} → 200 {"user": {...}, "token": "..."}
//	POST {"action":"login", ...}    → 200 {"user": {...}, "token": "..."}
//	anything else                   → 405
func (h *AuthHandler) Handle(ctx context.Context, req event.Request, inv event.Invocation) event.Response {
	method := req.Method()
	if method == http.MethodOptions {
		return preflight()
	}

	logger := invocationLogger(h.logger, inv)

	if err := h.auth.Ready(); err != nil {
		return errorResponse(logger, err)
	}
	if method != http.MethodPost {
		return errorResponse(logger, apperror.MethodNotAllowed())
	}

	r, err := decodeAuthRequest(req.Body)
	if err != nil {
		return errorResponse(logger, err)
	}

	switch r := r.(type) {
	case registerRequest:
		res, err := h.auth.Register(ctx, service.RegisterInput{
			Username: r.Username,
			Email:    r.Email,
			Password: r.Password,
			FullName: r.FullName,
		})
		if err != nil {
			return errorResponse(logger, err)
		}
		return jsonResponse(http.StatusOK, res)

	case loginRequest:
		res, err := h.auth.Login(ctx, r.Username, r.Password)
		if err != nil {
			return errorResponse(logger, err)
		}
		return jsonResponse(http.StatusOK, res)

	default:
		return errorResponse(logger, apperror.MethodNotAllowed())
	}
}

// invocationLogger tags every log line of one invocation.
func invocationLogger(logger *slog.Logger, inv event.Invocation) *slog.Logger {
	return logger.With(
		slog.String("request_id", inv.RequestID),
		slog.String("function", inv.FunctionName),
	)
}
