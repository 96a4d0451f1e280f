// Package apperr defines the operational errors surfaced to API clients.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an error with an HTTP status and a message that is safe to show to clients.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error with the given status and message.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Wrap attaches the underlying cause without exposing it in Message.
func Wrap(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

func BadRequest(message string) *Error      { return New(http.StatusBadRequest, message) }
func Unauthorized(message string) *Error    { return New(http.StatusUnauthorized, message) }
func NotFound(message string) *Error        { return New(http.StatusNotFound, message) }
func Conflict(message string) *Error        { return New(http.StatusConflict, message) }
func PayloadTooLarge(message string) *Error { return New(http.StatusRequestEntityTooLarge, message) }
func Internal(message string) *Error        { return New(http.StatusInternalServerError, message) }

// CastError reports a path value that could not be converted to its identifier type.
type CastError struct {
	Path  string
	Value string
}

func (e *CastError) Error() string {
	return fmt.Sprintf("Invalid %s: %s", e.Path, e.Value)
}

// As is a convenience over errors.As for *Error.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
