// Package apperror holds the error kinds shared by services, repositories and
// the HTTP error handler. Callers classify with errors.Is against the Err* kinds.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateApplication = errors.New("duplicate application")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
	ErrInvalidState         = errors.New("invalid state")
	ErrValidation           = errors.New("validation failed")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrConflict             = errors.New("conflict")
)

// Error pairs a kind with the message shown to the client.
type Error struct {
	kind    error
	message string
}

func New(kind error, message string) *Error {
	return &Error{kind: kind, message: message}
}

func Newf(kind error, format string, args ...interface{}) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) Unwrap() error {
	return e.kind
}

func (e *Error) Kind() error {
	return e.kind
}

// Message returns the client-facing message for err, falling back to fallback
// when err carries none of its own.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.message
	}
	return fallback
}
