// Package errors provides the typed error taxonomy of the property engine.
// Configuration errors fail fast at construction time; per-trial predicate
// failures never surface here, they are captured as falsification results.
package errors

import (
	"errors"
	"fmt"
)

// AsType is a generic error type assertion.
// Returns the error as type T and true if the error chain contains type T.
func AsType[T error](err error) (T, bool) {
	var target T
	if errors.As(err, &target) {
		return target, true
	}
	return target, false
}

// Must panics if err is not nil, otherwise returns value.
func Must[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}

// ErrorCode represents engine error categories.
type ErrorCode string

// Error codes for all engine error categories.
const (
	// Generation errors
	ErrCodeCannotGenerate      ErrorCode = "CANNOT_GENERATE"
	ErrCodeTooManyFilterMisses ErrorCode = "TOO_MANY_FILTER_MISSES"
	ErrCodeExhaustiveTooLarge  ErrorCode = "EXHAUSTIVE_TOO_LARGE"

	// Configuration errors
	ErrCodeInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"

	// Infrastructure errors
	ErrCodeStoreFailure ErrorCode = "STORE_FAILURE"
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// AppError is the standard engine error type.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause sets the underlying cause.
func (e *AppError) WithCause(cause error) *AppError {
	e.cause = cause
	return e
}

// WithDetail adds a detail to the error.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Is checks if the error matches a target error code.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Code == t.Code
	}
	return errors.Is(e.cause, target)
}
