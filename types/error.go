package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unified error code across the memory subsystem.
type ErrorCode string

const (
	// ErrInvalidMemory marks a programming-contract violation: importance
	// outside [0,1] or a malformed timestamp. Raised at construction time,
	// never degraded.
	ErrInvalidMemory ErrorCode = "INVALID_MEMORY"

	// ErrResolverUnavailable means the entity store is unreachable.
	// Callers degrade to identity mapping of the raw handle.
	ErrResolverUnavailable ErrorCode = "RESOLVER_UNAVAILABLE"

	// ErrPlanUnavailable means the curator timed out or misbehaved.
	// The fixed fallback plan is used instead.
	ErrPlanUnavailable ErrorCode = "PLAN_UNAVAILABLE"

	// ErrTierSourceFailure means one tier's fetch failed. The tier is
	// skipped; resolution continues with the remaining tiers.
	ErrTierSourceFailure ErrorCode = "TIER_SOURCE_FAILURE"

	// ErrStoreUnavailable means the durable memory store is unreachable.
	ErrStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"

	// ErrEntityConflict means a concurrent writer created the entity first.
	ErrEntityConflict ErrorCode = "ENTITY_CONFLICT"
)

// Error represents a structured error with code, message, and cause.
type Error struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
	Cause     error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError creates a new Error wrapping an underlying cause.
func WrapError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// IsErrorCode checks whether err carries the given code anywhere in its chain.
func IsErrorCode(err error, code ErrorCode) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Cause
		if err == nil {
			return false
		}
	}
	return false
}

// GetErrorCode extracts the outermost error code from an error.
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}
