// ACCOUNT REGISTRATION AND LOGIN
//
//	AuthHandler (event) → AuthService (rules) → repository.Session (SQL)
//	                    ↘ PasswordService / TokenIssuer
//
// The service knows nothing about events, envelopes or status codes. It
// returns apperror values and the handler maps them.

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/social-feed/internal/apperror"
	"github.com/sakif/social-feed/internal/auth"
	"github.com/sakif/social-feed/internal/model"
	"github.com/sakif/social-feed/internal/repository"
)

// Messages returned to callers. Login deliberately has a single failure
// message for "no such user" and "wrong password".
const (
	msgMissingRegisterFields = "Missing required fields"
	msgMissingLoginFields    = "Missing username or password"
	msgInvalidCredentials    = "Invalid credentials"
	msgDatabaseNotConfigured = "Database not configured"
)

// AuthService handles registration and login.
//
// DEPENDENCIES (injected via NewAuthService):
//   - store      repository.Store      → nil when DATABASE_URL is unset
//   - passwords  *auth.PasswordService → hashing/verification
//   - tokens     auth.TokenIssuer      → session tokens
//   - logger     *slog.Logger
type AuthService struct {
	store     repository.Store
	passwords *auth.PasswordService
	tokens    auth.TokenIssuer
	logger    *slog.Logger
}

func NewAuthService(
	store repository.Store,
	passwords *auth.PasswordService,
	tokens auth.TokenIssuer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:     store,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger,
	}
}

// AuthResult bundles the user and the token issued for it.
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// RegisterInput is the data a registration carries.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// Ready reports apperror.ErrNotConfigured when no store was configured.
func (s *AuthService) Ready() error {
	return storeReady(s.store)
}

// Register creates an account.
//
// FLOW:
//  1. Validate: username, email, password must be non-empty
//  2. Derive password hash and avatar
//  3. One session: SELECT (exists?) then INSERT ... RETURNING
//  4. Issue a token for the new user id
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, apperror.ValidationFailed("", msgMissingRegisterFields)
	}
	if err := s.Ready(); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.ValidationFailed("password", err.Error())
		}
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	newUser := model.NewUser{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Avatar:       model.AvatarFor(in.Username),
	}

	var user *model.User
	err = repository.WithSession(ctx, s.store, func(sess repository.Session) error {
		exists, err := sess.Users().ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
		if err != nil {
			return err
		}
		if exists {
			return apperror.UserExists()
		}

		user, err = sess.Users().Create(ctx, newUser)
		return err
	})
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			s.logger.Info("registration rejected: user exists", slog.String("username", in.Username))
			return nil, err
		}
		return nil, fmt.Errorf("registering %q: %w", in.Username, err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates username/password.
//
// Unknown user and wrong password both return the same Unauthorized error,
// so the response does not reveal which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("", msgMissingLoginFields)
	}
	if err := s.Ready(); err != nil {
		return nil, err
	}

	var user *model.User
	err := repository.WithSession(ctx, s.store, func(sess repository.Session) error {
		var err error
		user, err = sess.Users().GetByUsername(ctx, username)
		return err
	})
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized(msgInvalidCredentials)
		}
		return nil, fmt.Errorf("looking up %q: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			// A malformed stored hash is our problem, but the caller still
			// only learns that the credentials did not work.
			s.logger.Error("stored password hash unusable",
				slog.Int64("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token for user %d: %w", user.ID, err)
	}

	user.PasswordHash = ""
	s.logger.Info("user logged in", slog.Int64("user_id", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// storeReady is shared by both services.
func storeReady(store repository.Store) error {
	if store == nil {
		return apperror.NotConfigured(msgDatabaseNotConfigured)
	}
	return nil
}
