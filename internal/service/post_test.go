package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/social-feed/internal/apperror"
	"github.com/sakif/social-feed/internal/model"
)

// seedUser registers a user directly in the fake store.
func seedUser(t *testing.T, store *fakeStore, username string) int64 {
	t.Helper()
	u, err := fakeUsers{store}.Create(context.Background(), model.NewUser{
		Username: username,
		Email:    username + "@example.com",
		Avatar:   model.AvatarFor(username),
	})
	require.NoError(t, err)
	return u.ID
}

func TestPostCreate_ThenFeed(t *testing.T) {
	store := newFakeStore()
	svc := NewPostService(store, quietLogger())
	uid := seedUser(t, store, "alice")

	id, err := svc.Create(context.Background(), uid, "hello")
	require.NoError(t, err)
	assert.NotZero(t, id)

	feed, err := svc.Feed(context.Background())
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "hello", feed[0].Content)
	assert.Equal(t, int64(0), feed[0].Likes)
	assert.Equal(t, "alice", feed[0].Username)
	assert.True(t, store.balanced())
}

func TestPostFeed_LimitedToFifty(t *testing.T) {
	store := newFakeStore()
	svc := NewPostService(store, quietLogger())
	uid := seedUser(t, store, "alice")

	for i := 0; i < model.FeedLimit+10; i++ {
		_, err := svc.Create(context.Background(), uid, "post")
		require.NoError(t, err)
	}

	feed, err := svc.Feed(context.Background())
	require.NoError(t, err)
	assert.Len(t, feed, model.FeedLimit)
}

func TestPostCreate_Validation(t *testing.T) {
	tests := []struct {
		name    string
		userID  int64
		content string
	}{
		{"missing user", 0, "hello"},
		{"missing content", 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			svc := NewPostService(store, quietLogger())

			_, err := svc.Create(context.Background(), tt.userID, tt.content)
			require.ErrorIs(t, err, apperror.ErrValidation)
			assert.Equal(t, "Missing user_id or content", err.Error())
			assert.Zero(t, store.acquired)
		})
	}
}

func TestPostCreate_UnknownUser(t *testing.T) {
	store := newFakeStore()
	svc := NewPostService(store, quietLogger())

	_, err := svc.Create(context.Background(), 77, "hello")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.True(t, store.balanced())
}

func TestPostLike(t *testing.T) {
	store := newFakeStore()
	svc := NewPostService(store, quietLogger())
	uid := seedUser(t, store, "alice")
	id, err := svc.Create(context.Background(), uid, "like me")
	require.NoError(t, err)

	likes, err := svc.Like(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)

	likes, err = svc.Like(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), likes)
}

func TestPostLike_Errors(t *testing.T) {
	store := newFakeStore()
	svc := NewPostService(store, quietLogger())

	_, err := svc.Like(context.Background(), 0)
	require.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "Missing post_id", err.Error())

	_, err = svc.Like(context.Background(), 99)
	require.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, "post not found with id 99", errors.Unwrap(err).Error())
	assert.True(t, store.balanced())
}

func TestPostLike_Concurrent(t *testing.T) {
	store := newFakeStore()
	svc := NewPostService(store, quietLogger())
	uid := seedUser(t, store, "alice")
	id, err := svc.Create(context.Background(), uid, "popular")
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Like(context.Background(), id)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(n), store.posts[id].Likes)
	assert.True(t, store.balanced())
}

func TestPostService_NotConfigured(t *testing.T) {
	svc := NewPostService(nil, quietLogger())

	_, err := svc.Feed(context.Background())
	assert.ErrorIs(t, err, apperror.ErrNotConfigured)

	_, err = svc.Create(context.Background(), 1, "x")
	assert.ErrorIs(t, err, apperror.ErrNotConfigured)

	_, err = svc.Like(context.Background(), 1)
	assert.ErrorIs(t, err, apperror.ErrNotConfigured)
}

func TestPostService_AcquireFailure(t *testing.T) {
	store := newFakeStore()
	store.acquireErr = errors.New("too many connections")
	svc := NewPostService(store, quietLogger())

	_, err := svc.Feed(context.Background())
	require.Error(t, err)
	assert.True(t, store.balanced())
}
