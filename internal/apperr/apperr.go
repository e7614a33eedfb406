// Package apperr defines the error kinds the API maps to HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is against these to classify a failure.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConfig       = errors.New("configuration error")
)

// Error pairs a kind with the message shown to the client.
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

// Validation returns a new validation error with the given message.
func Validation(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

// Unauthorized returns a new authorization error with the given message.
func Unauthorized(msg string) error {
	return &Error{Kind: ErrUnauthorized, Message: msg}
}

// NotFound returns a new not-found error with the given message.
func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

// Config returns a new configuration error with a formatted message.
func Config(format string, args ...any) error {
	return &Error{Kind: ErrConfig, Message: fmt.Sprintf(format, args...)}
}

// Message returns the client-facing message carried by err, or fallback
// when err is not an *Error.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}
