// Package postgres implements the repository interfaces on PostgreSQL via
// pgx's connection pool.
//
// The schema is owned outside this module; the package only issues the
// parameterized statements the handlers need.
package postgres

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/sakif/social-feed/internal/repository"
)

// SQLSTATE codes we translate into domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

var _ repository.Store = (*Store)(nil)

type Store struct {
	pool *pgxpool.Pool
}

// New creates the pool and verifies that the database answers.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "creating pgx pool failed")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "pinging postgres failed")
	}
	return &Store{pool: pool}, nil
}

// Acquire checks one connection out of the pool.
func (s *Store) Acquire(ctx context.Context) (repository.Session, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "acquiring postgres connection failed")
	}
	return &session{conn: conn}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

// querier is the slice of *pgxpool.Conn the repositories use.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type session struct {
	conn *pgxpool.Conn
	once sync.Once
}

func (s *session) Users() repository.UserRepository { return &userRepo{q: s.conn} }
func (s *session) Posts() repository.PostRepository { return &postRepo{q: s.conn} }

// Release hands the connection back to the pool exactly once.
func (s *session) Release() {
	s.once.Do(s.conn.Release)
}

// sqlState returns the SQLSTATE of a server-side error, or "".
func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
