// Package repository declares the storage contracts the service layer
// depends on. Concrete implementations live in the postgres and sqlite
// subpackages.
//
// SESSIONS:
// Every handler invocation works on exactly one store connection. A Store
// hands out a Session bound to that connection; the repositories reached
// through it all run on the same connection. WithSession is the only way the
// service layer opens one, and it releases the session on every return path,
// including errors and panics.
package repository

import (
	"context"
	"fmt"

	"github.com/sakif/social-feed/internal/model"
)

// UserRepository reads and writes user accounts.
type UserRepository interface {
	// ExistsByUsernameOrEmail reports whether any user already uses the
	// username or the email.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)

	// Create inserts a user and returns the stored row. A uniqueness
	// violation is reported as apperror.ErrConflict.
	Create(ctx context.Context, u model.NewUser) (*model.User, error)

	// GetByUsername returns the user including its password hash.
	// Returns apperror.ErrNotFound when no such user exists.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// PostRepository reads and writes posts.
type PostRepository interface {
	// ListRecent returns up to limit posts, newest first, joined with author data.
	ListRecent(ctx context.Context, limit int) ([]model.FeedPost, error)

	// Create inserts a post and returns its id. An unknown userID is
	// reported as apperror.ErrNotFound.
	Create(ctx context.Context, userID int64, content string) (int64, error)

	// Like atomically adds one to the post's like counter and returns the
	// new value. Returns apperror.ErrNotFound when the post does not exist.
	Like(ctx context.Context, postID int64) (int64, error)
}

// Session is one acquired store connection.
type Session interface {
	Users() UserRepository
	Posts() PostRepository
	// Release returns the connection. It is safe to call more than once.
	Release()
}

// Store opens sessions.
type Store interface {
	Acquire(ctx context.Context) (Session, error)
	Ping(ctx context.Context) error
	Close()
}

// WithSession acquires a session, runs fn on it and always releases it.
//
// Usage:
//
//	err := repository.WithSession(ctx, store, func(s repository.Session) error {
//	    id, err = s.Posts().Create(ctx, userID, content)
//	    return err
//	})
func WithSession(ctx context.Context, store Store, fn func(Session) error) error {
	sess, err := store.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring store session: %w", err)
	}
	defer sess.Release()

	return fn(sess)
}
