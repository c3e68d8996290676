package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dustin/go-humanize"
)

// Error represents an HTTP error with status code and message.
type Error struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	cause      error
}

// Error returns the error message string.
func (e Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the cause of the error.
func (e Error) Unwrap() error {
	return e.cause
}

// NewError creates a new Error with the specified status code and message.
func NewError(statusCode int, message string) *Error {
	return &Error{
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewErrorWithCause creates a new Error with the specified status code,
// message and underlying cause.
func NewErrorWithCause(statusCode int, message string, cause error) *Error {
	return &Error{
		StatusCode: statusCode,
		Message:    message,
		cause:      cause,
	}
}

// DeserializationError is returned when the request body can't be decoded
// into the requested type, because it's malformed or structurally different.
// It's never handled by the combinators; Serve responds with 400 Bad Request.
type DeserializationError struct {
	Err error
}

// Error implements the error interface.
func (e *DeserializationError) Error() string {
	return fmt.Sprintf("failed deserializing request body: %s", e.Err)
}

// Unwrap returns the decoding error.
func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// ErrorLevel is the detail level of error messages returned to clients.
type ErrorLevel string

// Valid ErrorLevel values.
const (
	// ErrorLevelNone replaces all messages with the status text.
	ErrorLevelNone ErrorLevel = "none"
	// ErrorLevelMinimal keeps client error messages, and replaces server error
	// messages with the status text.
	ErrorLevelMinimal ErrorLevel = "minimal"
	// ErrorLevelFull keeps all messages intact.
	ErrorLevelFull ErrorLevel = "full"
)

// ErrorLevelFromString returns the ErrorLevel with the given name.
func ErrorLevelFromString(s string) (ErrorLevel, error) {
	switch lvl := ErrorLevel(s); lvl {
	case ErrorLevelNone, ErrorLevelMinimal, ErrorLevelFull:
		return lvl, nil
	default:
		return "", fmt.Errorf("invalid error level '%s'", s)
	}
}

// toHTTPError converts any error into an *Error with a valid status code.
func toHTTPError(err error) *Error {
	var (
		maxErr *http.MaxBytesError
		desErr *DeserializationError
		terr   *Error
	)
	switch {
	case errors.As(err, &maxErr):
		return NewErrorWithCause(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds the limit of %s",
				humanize.IBytes(uint64(maxErr.Limit))), err) //nolint:gosec // The limit is never negative.
	case errors.As(err, &desErr):
		return NewErrorWithCause(http.StatusBadRequest, "invalid request body", desErr.Err)
	case errors.As(err, &terr) && terr != nil:
		if terr.StatusCode == 0 {
			return &Error{StatusCode: http.StatusInternalServerError, Message: terr.Message, cause: terr.cause}
		}
		return terr
	default:
		return NewError(http.StatusInternalServerError, err.Error())
	}
}

// sanitizeError returns a copy of terr with the message reduced to the given
// detail level.
func sanitizeError(terr *Error, lvl ErrorLevel) *Error {
	out := &Error{StatusCode: terr.StatusCode, Message: terr.Message}
	switch lvl {
	case ErrorLevelFull:
		out.Message = terr.Error()
	case ErrorLevelMinimal:
		if terr.StatusCode >= http.StatusInternalServerError {
			out.Message = http.StatusText(terr.StatusCode)
		}
	default:
		out.Message = http.StatusText(terr.StatusCode)
	}

	return out
}
