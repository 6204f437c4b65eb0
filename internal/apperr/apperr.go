// Package apperr defines the service-wide error taxonomy. Every error that
// reaches an HTTP handler is one of these types (or wraps one), so handlers
// can map errors to status codes and machine-readable codes uniformly.
package apperr

import (
	"errors"
	"fmt"
	"time"
)

// Code is a machine-readable error code surfaced in API responses.
type Code string

const (
	CodeUnauthorized    Code = "unauthorized"
	CodeForbidden       Code = "forbidden"
	CodeValidation      Code = "validation_error"
	CodeRateLimited     Code = "rate_limited"
	CodeUpstreamFailure Code = "upstream_failure"
	CodeStorageFailure  Code = "storage_failure"
	CodeNotFound        Code = "not_found"
)

// Error is the base error type carrying a code and a human-readable message.
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

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Unauthorized reports a missing or invalid caller identity.
func Unauthorized(message string) *Error {
	if message == "" {
		message = "authentication required"
	}
	return &Error{Code: CodeUnauthorized, Message: message}
}

// Forbidden reports a valid identity lacking permission for the operation.
func Forbidden(message string) *Error {
	if message == "" {
		message = "permission denied"
	}
	return &Error{Code: CodeForbidden, Message: message}
}

// Validation reports malformed input. Terminal: never retried.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity.
func NotFound(entity string) *Error {
	return &Error{Code: CodeNotFound, Message: entity + " not found"}
}

// Storage wraps a persistence layer failure. Retryable once at the caller's
// discretion, then surfaced as 500.
func Storage(cause error) *Error {
	return &Error{Code: CodeStorageFailure, Message: "storage operation failed", Err: cause}
}

// RateLimitedError carries the retry hint alongside the standard fields.
type RateLimitedError struct {
	Message    string
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: %s (retry after %s)", CodeRateLimited, e.Message, e.RetryAfter)
}

// RateLimited reports quota exhaustion with a retry hint.
func RateLimited(retryAfter time.Duration) *RateLimitedError {
	return &RateLimitedError{
		Message:    "request limit exceeded, please try again later",
		RetryAfter: retryAfter,
	}
}

// CodeOf extracts the taxonomy code from err, walking the wrap chain.
// Unknown errors map to CodeStorageFailure's 500-class treatment upstream,
// so this returns an empty code for them.
func CodeOf(err error) Code {
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return CodeRateLimited
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
