// Package apperrors defines the error taxonomy exposed at the HTTP
// boundary. Storage and library detail stays in server logs; clients only
// ever see a code and a fixed message.
package apperrors

import (
	"errors"
	"net/http"
)

type Code string

const (
	CodeValidation     Code = "VALIDATION_ERROR"
	CodeAuthentication Code = "AUTHENTICATION_ERROR"
	CodeAuthorization  Code = "AUTHORIZATION_ERROR"
	CodeNotFound       Code = "NOT_FOUND"
	CodeConflict       Code = "CONFLICT"
	CodeInternal       Code = "INTERNAL_ERROR"
)

// Error is a typed application error carrying an HTTP status, a stable code
// and an optional wrapped cause (logged, never serialized).
type Error struct {
	Code    Code
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(code Code, status int, msg string, cause error) *Error {
	return &Error{Code: code, Status: status, Message: msg, Err: cause}
}

func Validation(msg string) *Error {
	return newError(CodeValidation, http.StatusBadRequest, msg, nil)
}

func Authentication(reason string) *Error {
	return newError(CodeAuthentication, http.StatusUnauthorized, reason, nil)
}

func Authorization(reason string) *Error {
	return newError(CodeAuthorization, http.StatusForbidden, reason, nil)
}

func NotFound(msg string) *Error {
	return newError(CodeNotFound, http.StatusNotFound, msg, nil)
}

func Conflict(msg string) *Error {
	return newError(CodeConflict, http.StatusConflict, msg, nil)
}

// Internal wraps an unexpected error behind a generic client message.
func Internal(cause error) *Error {
	return newError(CodeInternal, http.StatusInternalServerError, "internal server error", cause)
}

// From extracts the *Error from err's chain, defaulting to Internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
