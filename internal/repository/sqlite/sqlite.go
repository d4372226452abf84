// Package sqlite implements the repository interfaces on an embedded SQLite
// database.
//
// It backs local development (DATABASE_URL=sqlite://data/feed.db) and the
// end-to-end tests. Production runs on Postgres (see ../postgres); both
// implementations satisfy the same repository.Store contract.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of SQLite: no CGo, no C toolchain, and it
// cross-compiles like any other Go package.
//
// DATABASE/SQL RECAP:
//   - sql.DB:   a connection pool (NOT a single connection)
//   - sql.Conn: one dedicated connection taken from the pool
//
// A Session here wraps one *sql.Conn, so every statement of an invocation
// runs on the same connection, and Release hands it back to the pool.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	moderncsqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"

	"github.com/sakif/social-feed/internal/repository"
)

// compile-time check that *DB implements repository.Store
var _ repository.Store = (*DB)(nil)

// connPragmas are applied by the driver to EVERY connection it opens.
//
// PRAGMA foreign_keys and busy_timeout are per-connection settings. Running
// them once with db.Exec would only configure whichever pooled connection
// happened to serve that call, so they go into the DSN instead.
var connPragmas = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=busy_timeout(5000)",
	"_pragma=journal_mode(WAL)",
}

// DB wraps a sql.DB connection pool.
type DB struct {
	conn *sql.DB
}

// New opens (creating if needed) the SQLite database at path and makes sure
// the users and posts tables exist.
//
// path examples:
//   - "data/feed.db"       → file-based database
//   - "/tmp/x/test.db"     → what the tests use (t.TempDir)
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite allows a single writer. One pooled connection turns concurrent
	// writers into a queue on Acquire instead of SQLITE_BUSY errors.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.ensureSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: creating schema: %w", err)
	}

	return db, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(connPragmas, "&")
}

// Acquire takes one connection out of the pool for the caller's exclusive use.
func (db *DB) Acquire(ctx context.Context) (repository.Session, error) {
	c, err := db.conn.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlite: acquiring connection: %w", err)
	}
	return &session{conn: c}, nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.conn.Close()
}

// ensureSchema creates the tables the application expects.
//
// This exists for the embedded store only. The Postgres schema is managed
// outside this module. CREATE TABLE IF NOT EXISTS makes it safe to run on
// every start.
func (db *DB) ensureSchema() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			full_name     TEXT DEFAULT '',
			avatar        TEXT,
			is_creator    BOOLEAN NOT NULL DEFAULT FALSE
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS posts (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL REFERENCES users(id),
			content    TEXT NOT NULL,
			likes      INTEGER NOT NULL DEFAULT 0,
			comments   INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating posts table: %w", err)
	}

	return nil
}

// session is one dedicated *sql.Conn.
type session struct {
	conn *sql.Conn
}

func (s *session) Users() repository.UserRepository { return &userRepo{conn: s.conn} }
func (s *session) Posts() repository.PostRepository { return &postRepo{conn: s.conn} }

// Release returns the connection to the pool. A second call gets
// sql.ErrConnDone, which is ignored.
func (s *session) Release() {
	_ = s.conn.Close()
}

type constraint int

const (
	constraintNone constraint = iota
	constraintUnique
	constraintForeignKey
)

// constraintOf classifies a driver error by its extended result code.
func constraintOf(err error) constraint {
	var se *moderncsqlite.Error
	if !errors.As(err, &se) {
		return constraintNone
	}
	switch se.Code() {
	case sqlitelib.SQLITE_CONSTRAINT_UNIQUE, sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY:
		return constraintUnique
	case sqlitelib.SQLITE_CONSTRAINT_FOREIGNKEY:
		return constraintForeignKey
	}
	return constraintNone
}
