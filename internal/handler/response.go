package handler

// RESPONSE HELPERS:
// Every code path of every handler ends in one of these three functions, so
// the envelope shape, the CORS headers and the error body are decided in one
// place:
//
//	jsonResponse(http.StatusOK, data)  → 200, JSON body
//	preflight()                        → 200, empty body, CORS preflight headers
//	errorResponse(logger, err)         → mapped status, {"error": "..."}
//
// CONSISTENT ERROR FORMAT:
//
//	{"error": "Username or email already exists"}

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/social-feed/internal/apperror"
	"github.com/sakif/social-feed/internal/event"
)

const (
	corsAllowOrigin  = "*"
	corsAllowMethods = "GET, POST, OPTIONS"
	corsAllowHeaders = "Content-Type, X-User-Id, X-Auth-Token"
	corsMaxAge       = "86400"

	msgInternal = "Internal server error"
)

// ErrorResponse is the body of every error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// jsonResponse encodes data as the envelope body.
//
// Headers are a fresh map per response; handlers share nothing between
// invocations.
func jsonResponse(status int, data any) event.Response {
	body, err := json.Marshal(data)
	if err != nil {
		// Only reachable with an unencodable type, which is a programming error.
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		status = http.StatusInternalServerError
		body = []byte(`{"error":"` + msgInternal + `"}`)
	}

	return event.Response{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": corsAllowOrigin,
		},
		Body: string(body),
	}
}

// preflight answers an OPTIONS request. It never touches the store.
func preflight() event.Response {
	return event.Response{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Access-Control-Allow-Origin":  corsAllowOrigin,
			"Access-Control-Allow-Methods": corsAllowMethods,
			"Access-Control-Allow-Headers": corsAllowHeaders,
			"Access-Control-Max-Age":       corsMaxAge,
		},
		Body: "",
	}
}

// errorResponse maps a domain error to a status code and builds the envelope.
//
// ERROR MAPPING:
//
//	ErrValidation, ErrConflict → 400
//	ErrUnauthorized            → 401
//	ErrNotFound                → 404
//	ErrMethodNotAllowed        → 405
//	ErrNotConfigured           → 500 with its own message
//	anything else              → 500 "Internal server error"
//
// Only *apperror.AppError messages reach the caller. Store errors can carry
// SQL text or connection details, so they are logged and replaced.
func errorResponse(logger *slog.Logger, err error) event.Response {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		logger.Error("request failed", slog.String("error", err.Error()))
		return jsonResponse(http.StatusInternalServerError, ErrorResponse{Error: msgInternal})
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrConflict):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrMethodNotAllowed):
		status = http.StatusMethodNotAllowed
	case errors.Is(err, apperror.ErrNotConfigured):
		logger.Error("handler not configured", slog.String("error", appErr.Message))
	}

	if status < http.StatusInternalServerError {
		logger.Debug("request rejected",
			slog.Int("status", status),
			slog.String("error", appErr.Message),
		)
	}

	return jsonResponse(status, ErrorResponse{Error: appErr.Message})
}
