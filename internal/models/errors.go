package models

import (
	"errors"
	"fmt"
)

// Error codes shared by the API server and the dashboard client
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeTransport    = "TRANSPORT"
)

// Common error types
var (
	ErrInvalid   = errors.New("invalid input")
	ErrNotFound  = errors.New("resource not found")
	ErrConflict  = errors.New("operation conflicts with current state")
	ErrTransport = errors.New("transport failure")
)

// AppError represents an application-level error with context
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrInvalidInput creates a validation error
func ErrInvalidInput(message string) error {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: message,
		Err:     ErrInvalid,
	}
}

// ErrNotFoundWithMsg creates a not found error with custom message
func ErrNotFoundWithMsg(message string) error {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
		Err:     ErrNotFound,
	}
}

// ErrConflictWithMsg creates a conflict error with custom message
func ErrConflictWithMsg(message string) error {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Err:     ErrConflict,
	}
}

// ErrTransportWithMsg creates a transport error, optionally wrapping the
// underlying network or decoding failure
func ErrTransportWithMsg(message string, cause error) error {
	err := ErrTransport
	if cause != nil {
		err = fmt.Errorf("%w: %v", ErrTransport, cause)
	}
	return &AppError{
		Code:    CodeTransport,
		Message: message,
		Err:     err,
	}
}

// UserMessage returns the message carried by an AppError in err's chain,
// or fallback when there is none.
func UserMessage(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
