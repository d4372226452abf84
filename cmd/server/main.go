// Package main runs the auth and posts handlers behind a local HTTP adapter.
//
// main stays minimal:
//  1. read configuration (env + optional .env)
//  2. build the logger
//  3. wire and start the server
//
// All actual logic lives in internal/.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/sakif/social-feed/internal/config"
	"github.com/sakif/social-feed/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// Bound the initial connect so a dead database fails startup instead of
	// hanging it.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	srv, err := server.New(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.TokenSecret == "" {
		logger.Info("TOKEN_SECRET not set, issuing opaque tokens")
	}
	logger.Info("password scheme", slog.String("scheme", string(cfg.PasswordScheme)))

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
