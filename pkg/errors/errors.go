// Package errors provides structured error types for the sunburst renderer.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the host bridge and the pipeline
//   - Machine-readable error codes for programmatic handling
//   - User-facing error panels for the three render-terminal kinds
//
// # Error Codes
//
// Codes are grouped by the panel they produce:
//   - SIZE_ERROR: the container is too small to draw anything
//   - NO_DATA, MALFORMED_DATA: the host table is empty or its shape is wrong
//   - CONFIG_ERROR, INVALID_*, INTERNAL_ERROR, ...: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfig, "metric field %q not found", name)
//	if errors.Is(err, errors.ErrCodeConfig) {
//	    // Handle configuration error
//	}
//
//	switch errors.KindOf(err) {
//	case errors.KindSize:
//	    // render the resize panel
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Render-terminal data and size errors
	ErrCodeSize          Code = "SIZE_ERROR"
	ErrCodeNoData        Code = "NO_DATA"
	ErrCodeMalformedData Code = "MALFORMED_DATA"

	// Configuration and input validation errors
	ErrCodeConfig        Code = "CONFIG_ERROR"
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"

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

// Kind is the render-terminal category of an error. Each kind maps to one
// error panel.
type Kind int

const (
	// KindNone is returned for a nil error.
	KindNone Kind = iota
	// KindSize means the container is below the minimum usable size.
	KindSize
	// KindData means the host table is empty or malformed.
	KindData
	// KindGeneral is any other failure; its panel shows the error message.
	KindGeneral
)

// String returns the kind name used in logs and JSON output.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSize:
		return "size"
	case KindData:
		return "data"
	default:
		return "general"
	}
}

// KindOf classifies err into one of the render-terminal kinds.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	switch GetCode(err) {
	case ErrCodeSize:
		return KindSize
	case ErrCodeNoData, ErrCodeMalformedData:
		return KindData
	default:
		return KindGeneral
	}
}
