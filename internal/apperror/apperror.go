// Package apperror defines the domain errors shared by the service and
// handler layers.
//
// The service layer returns these; the handler layer maps them to response
// envelopes with errors.Is. Anything that is not an *AppError is treated as
// an internal (store) failure and never shown to the caller verbatim.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation error")
	ErrConflict         = errors.New("conflict")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrNotConfigured    = errors.New("not configured")
)

type AppError struct {
	Err     error  // sentinel, matched with errors.Is
	Message string // human-readable, sent to the caller as {"error": Message}
	Field   string // optional: request field that caused the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing row, e.g. NotFound("post", 42) →
// "post not found with id 42".
func NotFound(resource string, id int64) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %d", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation detected before or during an insert.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// UserExists is the conflict for a taken username or email. The service
// pre-check and both stores' unique-constraint paths return it, so the two
// races look the same to the caller.
func UserExists() *AppError {
	return Conflict("Username or email already exists")
}

// Unauthorized reports a credential mismatch. Callers must use the same
// message for "unknown user" and "wrong password".
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// MethodNotAllowed reports an unsupported method or an unknown action.
func MethodNotAllowed() *AppError {
	return &AppError{
		Err:     ErrMethodNotAllowed,
		Message: "Method not allowed",
	}
}

// NotConfigured reports a missing piece of process configuration, such as
// the database connection string.
func NotConfigured(message string) *AppError {
	return &AppError{
		Err:     ErrNotConfigured,
		Message: message,
	}
}
