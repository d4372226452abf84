// Package server sets up the local HTTP adapter: router, middleware, routes
// and graceful shutdown.
//
// This package is the composition root. Everything is wired here:
//
//	config.Config → OpenStore → AuthService / PostService → handlers → routes
//
// ROUTES:
//
//	ANY /auth    → AuthHandler  (the handler answers 405 itself)
//	ANY /posts   → PostsHandler
//	GET /health  → store ping
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/social-feed/internal/auth"
	"github.com/sakif/social-feed/internal/config"
	"github.com/sakif/social-feed/internal/handler"
	"github.com/sakif/social-feed/internal/middleware"
	"github.com/sakif/social-feed/internal/repository"
	"github.com/sakif/social-feed/internal/service"
)

// Server owns the router and the store. The store may be nil, in which case
// every non-OPTIONS call is answered with a configuration error.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	store  repository.Store
}

// New opens the store named by cfg.DatabaseURL and wires the server.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	store, err := OpenStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if store == nil {
		logger.Warn("DATABASE_URL not set, handlers will answer 500 until it is")
	}

	s, err := NewWithStore(cfg, store, logger)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return s, nil
}

// NewWithStore wires the server around an already opened store (nil allowed).
func NewWithStore(cfg config.Config, store repository.Store, logger *slog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenIssuer(cfg.TokenSecret)
	if err != nil {
		return nil, fmt.Errorf("creating token issuer: %w", err)
	}
	passwords := auth.NewPasswordService(cfg.PasswordScheme, cfg.BcryptCost)

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		store:  store,
	}

	authHandler := handler.NewAuthHandler(service.NewAuthService(store, passwords, tokens, logger), logger)
	postsHandler := handler.NewPostsHandler(service.NewPostService(store, logger), logger)
	s.setupRoutes(authHandler, postsHandler)

	return s, nil
}

// setupRoutes configures middleware and routes.
//
// MIDDLEWARE ORDER:
//  1. RequestID: assigns the id the handlers log as request_id
//  2. RealIP: client IP from X-Forwarded-For
//  3. Recoverer: panic → 500 instead of a dead process
//  4. Logger: one line per request
//  5. Timeout: per-request deadline on the context the store calls see
//
// No CORS middleware: the handlers set CORS headers and answer OPTIONS
// themselves, and a router-level preflight would shadow that.
func (s *Server) setupRoutes(authHandler, postsHandler handler.EventHandler) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Timeout(s.config.RequestTimeout))

	s.router.HandleFunc("/auth", eventAdapter("auth", authHandler, s.logger))
	s.router.HandleFunc("/posts", eventAdapter("posts", postsHandler, s.logger))
	s.router.Get("/health", s.handleHealth)
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

type healthResponse struct {
	Status string `json:"status"`
}

// handleHealth reports whether the store answers a ping.
//
//	200 {"status":"ok"}
//	503 {"status":"unconfigured"} | {"status":"unavailable"}
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, body := http.StatusOK, healthResponse{Status: "ok"}

	switch {
	case s.store == nil:
		status, body = http.StatusServiceUnavailable, healthResponse{Status: "unconfigured"}
	default:
		if err := s.store.Ping(r.Context()); err != nil {
			s.logger.Error("health check failed", slog.String("error", err.Error()))
			status, body = http.StatusServiceUnavailable, healthResponse{Status: "unavailable"}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode health response", slog.String("error", err.Error()))
	}
}

// Start serves until SIGINT/SIGTERM, then shuts down gracefully:
//  1. stop accepting connections
//  2. wait for in-flight requests (30s)
//  3. close the store
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.config.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.Bool("store_configured", s.store != nil),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// Close releases the store.
func (s *Server) Close() {
	if s.store != nil {
		s.store.Close()
	}
}
