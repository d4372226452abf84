package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/sakif/social-feed/internal/apperror"
	"github.com/sakif/social-feed/internal/model"
	"github.com/sakif/social-feed/internal/repository"
)

var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct {
	q querier
}

func (r *userRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var id int64
	err := r.q.QueryRow(ctx,
		`SELECT id FROM users WHERE username = $1 OR email = $2 LIMIT 1`,
		username, email,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, errors.Wrapf(err, "checking user %q failed", username)
	}
	return true, nil
}

// Create runs in autocommit mode: the row is committed when the statement
// returns.
func (r *userRepo) Create(ctx context.Context, u model.NewUser) (*model.User, error) {
	var out model.User
	err := r.q.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, full_name, avatar)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, username, email, COALESCE(full_name, ''), COALESCE(avatar, ''), COALESCE(is_creator, false)`,
		u.Username, u.Email, u.PasswordHash, u.FullName, u.Avatar,
	).Scan(&out.ID, &out.Username, &out.Email, &out.FullName, &out.Avatar, &out.IsCreator)
	if err != nil {
		if sqlState(err) == codeUniqueViolation {
			return nil, apperror.UserExists()
		}
		return nil, errors.Wrapf(err, "inserting user %q failed", u.Username)
	}
	return &out, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.q.QueryRow(ctx,
		`SELECT id, username, email, password_hash, COALESCE(full_name, ''), COALESCE(avatar, ''), COALESCE(is_creator, false)
		 FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.Avatar, &u.IsCreator)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "user not found"}
		}
		return nil, errors.Wrapf(err, "getting user %q failed", username)
	}
	return &u, nil
}
