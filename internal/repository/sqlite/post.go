package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/social-feed/internal/apperror"
	"github.com/sakif/social-feed/internal/model"
	"github.com/sakif/social-feed/internal/repository"
)

// compile-time check that *postRepo implements repository.PostRepository
var _ repository.PostRepository = (*postRepo)(nil)

type postRepo struct {
	conn *sql.Conn
}

// ListRecent returns the newest posts with their author's public profile.
//
// created_at has one-second resolution in SQLite, so id breaks ties: two
// posts written in the same second still come back newest first.
//
// rows MUST be closed, or the connection stays busy. defer rows.Close()
// right after the error check handles every return path.
func (r *postRepo) ListRecent(ctx context.Context, limit int) ([]model.FeedPost, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT p.id, p.content, p.likes, p.comments, p.created_at,
		        u.username, COALESCE(u.full_name, ''), COALESCE(u.avatar, ''), u.is_creator
		 FROM posts p
		 JOIN users u ON p.user_id = u.id
		 ORDER BY p.created_at DESC, p.id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	// Non-nil so an empty feed encodes as [] rather than null.
	posts := make([]model.FeedPost, 0, limit)
	for rows.Next() {
		var p model.FeedPost
		if err := rows.Scan(
			&p.ID,
			&p.Content,
			&p.Likes,
			&p.Comments,
			&p.CreatedAt,
			&p.Username,
			&p.FullName,
			&p.Avatar,
			&p.IsCreator,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating post rows: %w", err)
	}

	return posts, nil
}

// Create inserts a post owned by userID. The foreign key is the only check
// that the user exists.
func (r *postRepo) Create(ctx context.Context, userID int64, content string) (int64, error) {
	var id int64
	err := r.conn.QueryRowContext(ctx,
		`INSERT INTO posts (user_id, content) VALUES (?, ?) RETURNING id`,
		userID, content,
	).Scan(&id)
	if err != nil {
		if constraintOf(err) == constraintForeignKey {
			return 0, apperror.NotFound("user", userID)
		}
		return 0, fmt.Errorf("sqlite: inserting post for user %d: %w", userID, err)
	}
	return id, nil
}

// Like increments the counter inside the UPDATE itself. There is no
// read-modify-write in Go, so concurrent likes cannot lose updates.
func (r *postRepo) Like(ctx context.Context, postID int64) (int64, error) {
	var likes int64
	err := r.conn.QueryRowContext(ctx,
		`UPDATE posts SET likes = likes + 1 WHERE id = ? RETURNING likes`,
		postID,
	).Scan(&likes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperror.NotFound("post", postID)
		}
		return 0, fmt.Errorf("sqlite: liking post %d: %w", postID, err)
	}
	return likes, nil
}
