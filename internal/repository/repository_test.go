package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/social-feed/internal/repository"
)

// countingStore is a Store whose sessions only record Release calls.
type countingStore struct {
	acquireErr error
	acquired   int
	released   int
}

type countingSession struct{ store *countingStore }

func (s *countingSession) Users() repository.UserRepository { return nil }
func (s *countingSession) Posts() repository.PostRepository { return nil }
func (s *countingSession) Release()                         { s.store.released++ }

func (c *countingStore) Acquire(context.Context) (repository.Session, error) {
	if c.acquireErr != nil {
		return nil, c.acquireErr
	}
	c.acquired++
	return &countingSession{store: c}, nil
}

func (c *countingStore) Ping(context.Context) error { return nil }
func (c *countingStore) Close()                     {}

func TestWithSession_ReleasesOnSuccess(t *testing.T) {
	store := &countingStore{}

	err := repository.WithSession(context.Background(), store, func(repository.Session) error {
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, store.acquired)
	assert.Equal(t, 1, store.released)
}

func TestWithSession_ReleasesOnError(t *testing.T) {
	store := &countingStore{}
	boom := errors.New("boom")

	err := repository.WithSession(context.Background(), store, func(repository.Session) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, store.released)
}

func TestWithSession_ReleasesOnPanic(t *testing.T) {
	store := &countingStore{}

	assert.Panics(t, func() {
		_ = repository.WithSession(context.Background(), store, func(repository.Session) error {
			panic("unexpected")
		})
	})
	assert.Equal(t, 1, store.released)
}

func TestWithSession_AcquireFailure(t *testing.T) {
	store := &countingStore{acquireErr: errors.New("connection refused")}
	called := false

	err := repository.WithSession(context.Background(), store, func(repository.Session) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.False(t, called)
	assert.Equal(t, 0, store.released)
}
