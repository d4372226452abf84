package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/sakif/social-feed/internal/apperror"
	"github.com/sakif/social-feed/internal/model"
	"github.com/sakif/social-feed/internal/repository"
)

var _ repository.PostRepository = (*postRepo)(nil)

type postRepo struct {
	q querier
}

func (r *postRepo) ListRecent(ctx context.Context, limit int) ([]model.FeedPost, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.content, p.likes, p.comments, p.created_at,
		       u.username, COALESCE(u.full_name, ''), COALESCE(u.avatar, ''), COALESCE(u.is_creator, false)
		FROM posts p
		JOIN users u ON p.user_id = u.id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "listing posts failed")
	}
	defer rows.Close()

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
			return nil, errors.Wrap(err, "scanning post row failed")
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating post rows failed")
	}

	return posts, nil
}

func (r *postRepo) Create(ctx context.Context, userID int64, content string) (int64, error) {
	var id int64
	err := r.q.QueryRow(ctx,
		`INSERT INTO posts (user_id, content) VALUES ($1, $2) RETURNING id`,
		userID, content,
	).Scan(&id)
	if err != nil {
		if sqlState(err) == codeForeignKeyViolation {
			return 0, apperror.NotFound("user", userID)
		}
		return 0, errors.Wrapf(err, "inserting post for user %d failed", userID)
	}
	return id, nil
}

// Like relies on the row lock taken by UPDATE: concurrent likes on the same
// post serialize inside Postgres and each sees the previous increment.
func (r *postRepo) Like(ctx context.Context, postID int64) (int64, error) {
	var likes int64
	err := r.q.QueryRow(ctx,
		`UPDATE posts SET likes = likes + 1 WHERE id = $1 RETURNING likes`,
		postID,
	).Scan(&likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperror.NotFound("post", postID)
		}
		return 0, errors.Wrapf(err, "liking post %d failed", postID)
	}
	return likes, nil
}
