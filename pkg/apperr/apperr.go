// Package apperr is the single failure taxonomy shared by the auth service
// and the gateway. Every error that reaches a client is rendered as
// {status, message, data} with the status code carried by the error.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Message    string
	StatusCode int
	Status     string
	Data       map[string]any
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches two taxonomy errors of the same kind, so errors.Is(err,
// apperr.ErrBadRequest) holds for any 400.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.StatusCode == e.code() && t.Status == e.Status
}

// WithCause attaches the low level error for logging. It never reaches the
// response body.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

func (e *Error) WithData(data map[string]any) *Error {
	e.Data = data
	return e
}

func (e *Error) code() int {
	if e.StatusCode == 0 {
		return http.StatusNotFound
	}
	return e.StatusCode
}

// Kind templates for errors.Is.
var (
	ErrBadRequest     = &Error{StatusCode: http.StatusBadRequest, Status: "BadRequest"}
	ErrUnauthorized   = &Error{StatusCode: http.StatusUnauthorized, Status: "Unauthorized"}
	ErrForbidden      = &Error{StatusCode: http.StatusForbidden, Status: "Forbidden"}
	ErrNotFound       = &Error{StatusCode: http.StatusNotFound, Status: "NotFound"}
	ErrConflict       = &Error{StatusCode: http.StatusConflict, Status: "Conflict"}
	ErrValidation     = &Error{StatusCode: http.StatusUnprocessableEntity, Status: "Validation Error"}
	ErrInternalServer = &Error{StatusCode: http.StatusInternalServerError, Status: "InternalServerError"}
)

// New builds a generic error with the taxonomy default of 404.
func New(message string) *Error {
	return &Error{Message: message, StatusCode: http.StatusNotFound, Status: "error"}
}

func newKind(kind *Error, message string) *Error {
	return &Error{Message: message, StatusCode: kind.StatusCode, Status: kind.Status}
}

func BadRequest(message string) *Error   { return newKind(ErrBadRequest, message) }
func Unauthorized(message string) *Error { return newKind(ErrUnauthorized, message) }
func Forbidden(message string) *Error    { return newKind(ErrForbidden, message) }
func NotFound(message string) *Error     { return newKind(ErrNotFound, message) }
func Conflict(message string) *Error     { return newKind(ErrConflict, message) }
func Validation(message string) *Error   { return newKind(ErrValidation, message) }
func Internal(message string) *Error     { return newKind(ErrInternalServer, message) }

// From returns err as a taxonomy error. Anything unrecognised becomes a 500
// whose cause is kept for logging only.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Something went wrong").WithCause(err)
}
