// Package errors provides structured error types for the Ken Burns module.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the core, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Precondition violations (degenerate geometry, bad durations, bad config)
//   - NO_ACTIVE_*: Driver misuse (interpolating before a transition exists)
//   - NOT_FOUND: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidGeometry, "viewport has no area: %v", vp)
//	if errors.Is(err, errors.ErrCodeInvalidGeometry) {
//	    // skip the frame
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "encode frame %d", i)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Codes. INVALID_* codes are precondition violations; see [IsPrecondition].
const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidGeometry Code = "INVALID_GEOMETRY"
	ErrCodeInvalidDuration Code = "INVALID_DURATION"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	ErrCodeNoActiveTransition Code = "NO_ACTIVE_TRANSITION"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error carries a [Code], a message and an optional cause.
//
// When the cause is itself an *Error, its code is left out of the formatted
// message so that a chain like plan -> transition -> geometry prints as
// "INVALID_GEOMETRY: transition 3: source rect is degenerate" rather than
// repeating the code at each level.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.detail()
}

// detail is the message chain without the outer code.
func (e *Error) detail() string {
	switch c := e.Cause.(type) {
	case nil:
		return e.Message
	case *Error:
		return e.Message + ": " + c.detail()
	default:
		return e.Message + ": " + c.Error()
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an *Error that records cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any *Error in err's chain carries code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns err's message chain without the code prefix. Errors
// that are not *Error are returned as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.detail()
	}
	return err.Error()
}

// IsPrecondition reports whether err is one of the INVALID_* precondition codes.
// Hosts use it to tell caller mistakes apart from internal failures.
func IsPrecondition(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidGeometry, ErrCodeInvalidDuration,
		ErrCodeInvalidConfig, ErrCodeInvalidFormat, ErrCodeInvalidPath:
		return true
	}
	return false
}
