package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sakif/social-feed/internal/repository"
	"github.com/sakif/social-feed/internal/repository/postgres"
	sqliteRepo "github.com/sakif/social-feed/internal/repository/sqlite"
)

// OpenStore picks a repository.Store implementation from the URL scheme.
//
//	postgres://... | postgresql://...  → pgx pool
//	sqlite://data/feed.db              → SQLite file (directory created)
//	file:feed.db?cache=shared          → SQLite URI, passed through
//	""                                 → nil store, nil error
//
// The empty case returns an untyped nil so service.Ready sees it as missing.
func OpenStore(ctx context.Context, databaseURL string) (repository.Store, error) {
	switch {
	case databaseURL == "":
		return nil, nil

	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		store, err := postgres.New(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil

	case strings.HasPrefix(databaseURL, "sqlite://"):
		path := strings.TrimPrefix(databaseURL, "sqlite://")
		if path == "" {
			return nil, fmt.Errorf("sqlite url %q has no path", databaseURL)
		}
		// 0755 = owner rwx, others r-x
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		db, err := sqliteRepo.New(path)
		if err != nil {
			return nil, err
		}
		return db, nil

	case strings.HasPrefix(databaseURL, "file:"):
		db, err := sqliteRepo.New(databaseURL)
		if err != nil {
			return nil, err
		}
		return db, nil
	}

	return nil, fmt.Errorf("unsupported DATABASE_URL scheme in %q", redact(databaseURL))
}

// redact drops everything after the scheme so credentials never reach a log.
func redact(databaseURL string) string {
	if i := strings.Index(databaseURL, "://"); i >= 0 {
		return databaseURL[:i+3] + "…"
	}
	return "…"
}
