package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for sprint service errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Sprint error codes
const (
	SPRINT_NOT_FOUND         ErrorCode = "SPRINT_NOT_FOUND"
	SPRINT_VALIDATION_FAILED ErrorCode = "SPRINT_VALIDATION_FAILED"
	SPRINT_STORE_FAILED      ErrorCode = "SPRINT_STORE_FAILED"
)

// SprintError represents a structured error with error code, message, and
// optional cause. It supports error wrapping and retryability hints for
// error handling logic.
type SprintError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *SprintError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
// This enables using errors.Is() and errors.As() with wrapped errors.
func (e *SprintError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is a SprintError with the same Code.
func (e *SprintError) Is(target error) bool {
	var sprintErr *SprintError
	if errors.As(target, &sprintErr) {
		return e.Code == sprintErr.Code
	}
	return false
}

// NewError creates a new non-retryable SprintError with the given code and message.
func NewError(code ErrorCode, message string) *SprintError {
	return &SprintError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     nil,
	}
}

// NewRetryableError creates a new retryable SprintError with the given code
// and message. Use this for transient errors that may succeed on retry.
func NewRetryableError(code ErrorCode, message string) *SprintError {
	return &SprintError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     nil,
	}
}

// WrapError creates a new non-retryable SprintError that wraps an existing
// error. The wrapped error is accessible via Unwrap() for chain inspection.
func WrapError(code ErrorCode, message string, cause error) *SprintError {
	return &SprintError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     cause,
	}
}

// HasCode reports whether err carries the given error code anywhere in its
// chain.
func HasCode(err error, code ErrorCode) bool {
	var sprintErr *SprintError
	if errors.As(err, &sprintErr) {
		return sprintErr.Code == code
	}
	return false
}
