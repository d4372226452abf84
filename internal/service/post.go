// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (event layer)     → decodes events, builds envelopes
//	Service (business layer)  → validates, enforces rules, orchestrates
//	Repository (data layer)   → runs SQL on one store session
//
// Services take a repository.Store (interface), never a concrete driver, so
// tests hand them fakes and production hands them Postgres or SQLite.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/social-feed/internal/apperror"
	"github.com/sakif/social-feed/internal/model"
	"github.com/sakif/social-feed/internal/repository"
)

const (
	msgMissingPostFields = "Missing user_id or content"
	msgMissingPostID     = "Missing post_id"
)

// PostService handles the feed, post creation and likes.
type PostService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewPostService(store repository.Store, logger *slog.Logger) *PostService {
	return &PostService{store: store, logger: logger}
}

// Ready reports apperror.ErrNotConfigured when no store was configured.
func (s *PostService) Ready() error {
	return storeReady(s.store)
}

// Feed returns the model.FeedLimit most recent posts, newest first.
// There is no pagination beyond that fixed window.
func (s *PostService) Feed(ctx context.Context) ([]model.FeedPost, error) {
	if err := s.Ready(); err != nil {
		return nil, err
	}

	var posts []model.FeedPost
	err := repository.WithSession(ctx, s.store, func(sess repository.Session) error {
		var err error
		posts, err = sess.Posts().ListRecent(ctx, model.FeedLimit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing feed: %w", err)
	}
	return posts, nil
}

// Create stores a post owned by userID and returns its id.
//
// The user is not looked up first. The store's foreign key rejects unknown
// users and the repository reports that as apperror.ErrNotFound.
func (s *PostService) Create(ctx context.Context, userID int64, content string) (int64, error) {
	if userID == 0 || content == "" {
		return 0, apperror.ValidationFailed("", msgMissingPostFields)
	}
	if err := s.Ready(); err != nil {
		return 0, err
	}

	var id int64
	err := repository.WithSession(ctx, s.store, func(sess repository.Session) error {
		var err error
		id, err = sess.Posts().Create(ctx, userID, content)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("creating post for user %d: %w", userID, err)
	}

	s.logger.Info("post created",
		slog.Int64("post_id", id),
		slog.Int64("user_id", userID),
	)
	return id, nil
}

// Like adds one like to postID and returns the new count.
func (s *PostService) Like(ctx context.Context, postID int64) (int64, error) {
	if postID == 0 {
		return 0, apperror.ValidationFailed("post_id", msgMissingPostID)
	}
	if err := s.Ready(); err != nil {
		return 0, err
	}

	var likes int64
	err := repository.WithSession(ctx, s.store, func(sess repository.Session) error {
		var err error
		likes, err = sess.Posts().Like(ctx, postID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("liking post %d: %w", postID, err)
	}

	s.logger.Debug("post liked",
		slog.Int64("post_id", postID),
		slog.Int64("likes", likes),
	)
	return likes, nil
}
