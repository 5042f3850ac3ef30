// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Validation errors. These are terminal: re-running identical input produces
// an identical outcome, so they are never retried.
var (
	ErrEmptyMessage        = errors.New("empty message")
	ErrFormatNotRecognized = errors.New("format not recognized")
	ErrMissingSubject      = errors.New("missing subject")
	ErrUnknownSubject      = errors.New("unknown subject")
)

// Database errors.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// ErrMaxRetries indicates that all retry attempts have been exhausted.
var ErrMaxRetries = errors.New("max retries exceeded")

// RetryableError wraps an error with retry-specific metadata. The ledger
// store classifies its own failures; everything upstream of it is terminal.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryable wraps err as a transient failure.
func NewRetryable(err error) error {
	return &RetryableError{Err: err, Retryable: true}
}

// NewTerminal wraps err as a non-retryable failure.
func NewTerminal(err error) error {
	return &RetryableError{Err: err, Retryable: false}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}
	return false
}

// IsValidation reports whether err belongs to the validation taxonomy.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyMessage) ||
		errors.Is(err, ErrFormatNotRecognized) ||
		errors.Is(err, ErrMissingSubject) ||
		errors.Is(err, ErrUnknownSubject)
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{UserMessage: userMessage, Err: err}
}
