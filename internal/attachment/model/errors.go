package model

import (
	"fmt"

	errors "github.com/Laisky/errors/v2"
)

// ErrorCode identifies a machine-stable attachment error code.
type ErrorCode string

const (
	// ErrCodeInvalidArgument marks caller data that violates a structural invariant.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeNotFound marks an operation addressing an id without a metadata row.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeStorageFailure marks any persistence fault. It is never retried.
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
)

// Error captures a typed attachment error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e == nil {
		return "attachment error: <nil>"
	}

	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("attachment error: %s", e.Code)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError constructs a typed attachment error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewStorageFailure wraps a persistence fault.
//
// Typed errors already in the chain are returned as-is so a NotFound raised
// inside a transaction keeps its code.
func NewStorageFailure(err error, message string) error {
	if err == nil {
		return nil
	}
	if _, ok := AsError(err); ok {
		return err
	}
	return &Error{Code: ErrCodeStorageFailure, Message: message, Err: err}
}

// AsError extracts a typed attachment error from the error chain.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed, true
	}
	return nil, false
}

// IsCode reports whether the error chain contains the given code.
func IsCode(err error, code ErrorCode) bool {
	if typed, ok := AsError(err); ok {
		return typed.Code == code
	}
	return false
}
