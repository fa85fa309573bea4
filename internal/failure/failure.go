// Package failure defines the error taxonomy shared by persistence, import
// and the CLI.
//
// Every recoverable domain error is a *Error carrying a Code. Callers test
// the category with the Is* helpers, which see through wrapping.
package failure

import (
	"errors"
	"fmt"
)

// Code categorizes domain errors.
type Code string

const (
	// CodeNotFound indicates a referenced design or autosave does not exist.
	CodeNotFound Code = "NOT_FOUND"

	// CodePermission indicates the caller neither owns the design nor may
	// read it publicly.
	CodePermission Code = "PERMISSION_DENIED"

	// CodeMalformed indicates corrupt or schema-violating input.
	CodeMalformed Code = "MALFORMED_INPUT"

	// CodeExternal indicates the backing store or another external service
	// failed.
	CodeExternal Code = "EXTERNAL_SERVICE"
)

// Error is a categorized, user-presentable error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound creates a CodeNotFound error.
func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Permission creates a CodePermission error.
func Permission(format string, args ...any) *Error {
	return &Error{Code: CodePermission, Message: fmt.Sprintf(format, args...)}
}

// Malformed wraps err as a CodeMalformed error.
func Malformed(message string, err error) *Error {
	return &Error{Code: CodeMalformed, Message: message, Err: err}
}

// External wraps err as a CodeExternal error.
func External(message string, err error) *Error {
	return &Error{Code: CodeExternal, Message: message, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsPermission reports whether err is a permission error.
func IsPermission(err error) bool { return CodeOf(err) == CodePermission }

// IsMalformed reports whether err is a malformed-input error.
func IsMalformed(err error) bool { return CodeOf(err) == CodeMalformed }

// IsExternal reports whether err is an external-service error.
func IsExternal(err error) bool { return CodeOf(err) == CodeExternal }
