package errors

import (
	"errors"
	"fmt"
)

// New creates a new AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// InvalidConfiguration creates a configuration error, e.g. min > max.
func InvalidConfiguration(format string, args ...any) *AppError {
	return Newf(ErrCodeInvalidConfiguration, format, args...)
}

// CannotGenerate creates an error for arbitraries that cannot produce values.
func CannotGenerate(format string, args ...any) *AppError {
	return Newf(ErrCodeCannotGenerate, format, args...)
}

// TooManyFilterMisses creates an error for filters that reject too often.
func TooManyFilterMisses(misses int) *AppError {
	return Newf(ErrCodeTooManyFilterMisses, "filter rejected %d values in a row", misses).
		WithDetail("misses", misses)
}

// StoreFailure creates an error for failure database operations.
func StoreFailure(message string, cause error) *AppError {
	return New(ErrCodeStoreFailure, message).WithCause(cause)
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	// If already an AppError, preserve the code
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Details: appErr.Details,
			cause:   err,
		}
	}
	return New(ErrCodeInternal, message).WithCause(err)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...any) *AppError {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsCode checks if the error has the specified error code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// Is checks if any error in the chain matches the target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in the chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
