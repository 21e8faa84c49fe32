// Package errors provides structured error types for treecharts.
//
// Codes let the CLI, the HTTP host and library callers tell apart the few
// conditions the engine surfaces (a missing container, an export attempted
// before the first render, a cyclic tree) from plumbing failures.
//
// # Error Codes
//
// Codes follow a hierarchical naming convention:
//   - INVALID_*: input validation failures
//   - MISSING_* / NOT_*: lifecycle misuse
//   - UNKNOWN_*: references to things that do not exist
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownNode, "no node with id %q", id)
//	if errors.Is(err, errors.ErrCodeUnknownNode) {
//	    // Handle missing node
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidFilename Code = "INVALID_FILENAME"
	ErrCodeInvalidURL      Code = "INVALID_URL"
	ErrCodeCycle           Code = "CYCLIC_TREE"

	// Lifecycle errors
	ErrCodeMissingContainer Code = "MISSING_CONTAINER"
	ErrCodeNotRendered      Code = "NOT_RENDERED"

	// Interaction errors
	ErrCodeUnknownNode    Code = "UNKNOWN_NODE"
	ErrCodeNotCollapsible Code = "NOT_COLLAPSIBLE"
	ErrCodeUnknownChart   Code = "UNKNOWN_CHART"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"
	ErrCodeTimeout  Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error code onto the status the HTTP host answers with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidFilename, ErrCodeInvalidURL, ErrCodeCycle, ErrCodeNotCollapsible:
		return 400
	case ErrCodeUnknownNode, ErrCodeUnknownChart, ErrCodeNotFound:
		return 404
	case ErrCodeNotRendered:
		return 409
	case ErrCodeTimeout:
		return 504
	default:
		return 500
	}
}
