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

// compile-time check that *userRepo implements repository.UserRepository
var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct {
	conn *sql.Conn
}

// ExistsByUsernameOrEmail checks both unique columns in one query.
func (r *userRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var id int64
	err := r.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE username = ? OR email = ? LIMIT 1`,
		username, email,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("sqlite: checking user %q: %w", username, err)
	}
	return true, nil
}

// Create inserts the user and reads the stored row back with RETURNING, so
// the store-assigned id and is_creator default come back in one round trip.
//
// The existence check in the service layer runs first, but two registrations
// can still race past it. The UNIQUE constraints catch the loser, and that
// violation is reported as a conflict like the pre-check would have been.
func (r *userRepo) Create(ctx context.Context, u model.NewUser) (*model.User, error) {
	var out model.User
	err := r.conn.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash, full_name, avatar)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id, username, email, COALESCE(full_name, ''), COALESCE(avatar, ''), is_creator`,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.FullName,
		u.Avatar,
	).Scan(
		&out.ID,
		&out.Username,
		&out.Email,
		&out.FullName,
		&out.Avatar,
		&out.IsCreator,
	)
	if err != nil {
		if constraintOf(err) == constraintUnique {
			return nil, apperror.UserExists()
		}
		return nil, fmt.Errorf("sqlite: inserting user %q: %w", u.Username, err)
	}
	return &out, nil
}

// GetByUsername returns the full row, password hash included.
func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, COALESCE(full_name, ''), COALESCE(avatar, ''), is_creator
		 FROM users WHERE username = ?`,
		username,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.Avatar,
		&u.IsCreator,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "user not found"}
		}
		return nil, fmt.Errorf("sqlite: getting user %q: %w", username, err)
	}
	return &u, nil
}
