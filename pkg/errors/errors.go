package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness. Details carries
// the individual messages of an exhaustive validation pass; it is empty for
// every other kind.
type Error struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Status  int      `json:"status"`
	Details []string `json:"details,omitempty"`
	Err     error    `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// WithDetails returns a copy of the error carrying the given sub-errors.
func WithDetails(base *Error, details []string) *Error {
	clone := *base
	clone.Details = details
	return &clone
}

// Rejection kinds for the submission pipeline. Every one is terminal for the
// current attempt; none is retried internally.
var (
	ErrBadRequest     = New("BAD_REQUEST", http.StatusBadRequest, "malformed submission payload")
	ErrNotFound       = New("NOT_FOUND", http.StatusNotFound, "form not found")
	ErrFormInactive   = New("FORM_INACTIVE", http.StatusForbidden, "form or course is inactive")
	ErrFormNotYetOpen = New("FORM_NOT_YET_OPEN", http.StatusForbidden, "form is not yet open")
	ErrFormExpired    = New("FORM_EXPIRED", http.StatusForbidden, "form is no longer available")
	ErrRateLimited    = New("RATE_LIMITED", http.StatusTooManyRequests, "a recent submission from this client already exists")
	ErrValidation     = New("VALIDATION_FAILED", http.StatusBadRequest, "submission failed validation")
	ErrPersistence    = New("PERSISTENCE_FAILED", http.StatusInternalServerError, "failed to save survey")
	ErrInternal       = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss      = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
