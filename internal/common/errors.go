package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Failure categories of a pipeline run. Recoverable conditions
// (ErrAIUnavailable, ErrMalformedReply) are handled by falling back to the
// deterministic extractor and only surface when the fallback cannot produce
// a usable result either.
var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrAIUnavailable     = errors.New("ai completion unavailable")
	ErrMalformedReply    = errors.New("malformed ai reply")
	ErrValidation        = errors.New("validation failed")
	ErrDatabase          = errors.New("database error")
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
)

// NewAppError creates an AppError with the given code, message and cause.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapError wraps err with a message, returning nil for a nil err.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
