package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is; the caller-facing text lives in *Error.
var (
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrIntegrity       = errors.New("integrity violation")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrTooManyRequests = errors.New("too many requests")
)

// Error pairs one of the kinds above with the message returned to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation reports missing or malformed input.
func Validation(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}

// Conflict reports a uniqueness violation.
func Conflict(format string, args ...any) error {
	return newError(ErrConflict, format, args...)
}

// NotFound reports an identifier or listing with nothing to operate on.
func NotFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

// Integrity reports a reference that no longer resolves at read time.
func Integrity(format string, args ...any) error {
	return newError(ErrIntegrity, format, args...)
}

// Unauthorized reports a failed authentication.
func Unauthorized(format string, args ...any) error {
	return newError(ErrUnauthorized, format, args...)
}

// TooManyRequests reports a throttled caller.
func TooManyRequests(format string, args ...any) error {
	return newError(ErrTooManyRequests, format, args...)
}
