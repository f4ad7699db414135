package domain

import (
	"errors"
	"net/http"
)

var (
	// ErrURLNotFound is returned when no mapping exists for a lookup key
	ErrURLNotFound = errors.New("URL not found")

	// ErrInvalidURL is returned when the provided URL is missing or malformed
	ErrInvalidURL = errors.New("invalid URL format")

	// ErrShortCodeTaken is returned by a store when an insert collides on short_code
	ErrShortCodeTaken = errors.New("short code already exists")

	// ErrOriginalURLTaken is returned by a store when an insert collides on original_url,
	// meaning another caller already created the mapping
	ErrOriginalURLTaken = errors.New("original URL already shortened")

	// ErrStorage marks any fault surfaced from the persistence layer
	ErrStorage = errors.New("storage error")
)

// AppError wraps errors with the HTTP status and the message safe to show a client
type AppError struct {
	Err        error  // Original error
	Message    string // User-friendly message
	StatusCode int    // HTTP status code
	Internal   bool   // Logged, never echoed to the client
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" && !e.Internal {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets storage errors match ErrStorage regardless of their cause.
func (e *AppError) Is(target error) bool {
	return target == ErrStorage && e.StatusCode == http.StatusInternalServerError
}

// NewValidationError creates a 400 validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Err:        ErrInvalidURL,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Internal:   false,
	}
}

// NewStorageError creates a 500 error for a persistence fault
func NewStorageError(err error) *AppError {
	if err == nil {
		err = ErrStorage
	}
	return &AppError{
		Err:        err,
		Message:    "internal server error",
		StatusCode: http.StatusInternalServerError,
		Internal:   true,
	}
}
