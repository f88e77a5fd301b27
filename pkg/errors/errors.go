// Package errors carries coded errors shared by the CLI and the HTTP API.
//
// Every [Code] belongs to a [Kind]. The server turns the kind into a status
// (validation 400, not found 404, unsupported 501, everything else 500) and
// the CLI prints the message without the code prefix.
//
//	err := errors.New(errors.ErrCodeInvalidMode, "unknown chart mode: %s", mode)
//	errors.KindOf(err) // errors.KindValidation
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

// Kind groups codes by how a caller should react to them.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnsupported
)

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidSeries   Code = "INVALID_SERIES"
	ErrCodeInvalidMode     Code = "INVALID_MODE"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidNodeType Code = "INVALID_NODE_TYPE"
	ErrCodeInvalidStatus   Code = "INVALID_STATUS"
	ErrCodeDuplicateNode   Code = "DUPLICATE_NODE"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeNodeNotFound  Code = "NODE_NOT_FOUND"
	ErrCodeChartNotFound Code = "CHART_NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

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

var kinds = map[Code]Kind{
	ErrCodeInvalidInput:    KindValidation,
	ErrCodeInvalidSeries:   KindValidation,
	ErrCodeInvalidMode:     KindValidation,
	ErrCodeInvalidFormat:   KindValidation,
	ErrCodeInvalidNodeType: KindValidation,
	ErrCodeInvalidStatus:   KindValidation,
	ErrCodeDuplicateNode:   KindValidation,
	ErrCodeInvalidPath:     KindValidation,
	ErrCodeNotFound:        KindNotFound,
	ErrCodeNodeNotFound:    KindNotFound,
	ErrCodeChartNotFound:   KindNotFound,
	ErrCodeFileNotFound:    KindNotFound,
	ErrCodeUnsupported:     KindUnsupported,
}

// Kind reports the category of c. Unknown codes are internal.
func (c Code) Kind() Kind { return kinds[c] }

// KindOf reports the category of err; uncoded errors are internal.
func KindOf(err error) Kind { return GetCode(err).Kind() }

// IsNotFound reports whether err carries any of the not-found codes.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsValidation reports whether err is an input validation failure.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }
