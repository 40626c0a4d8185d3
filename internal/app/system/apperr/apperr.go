// Package apperr provides typed failures with machine-readable codes.
//
// Services return these; the HTTP layer maps them to status codes:
//
//	if errors.Is(err, apperr.ErrAlreadyJoined) {
//	    ...
//	}
//
//	var e *apperr.Error
//	if errors.As(err, &e) {
//	    w.WriteHeader(e.HTTPStatus())
//	}
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable failure code.
type Code string

const (
	CodeValidation         Code = "VALIDATION"
	CodeNotFound           Code = "NOT_FOUND"
	CodeNotOwner           Code = "NOT_OWNER"
	CodeNotJoined          Code = "NOT_JOINED"
	CodeAlreadyJoined      Code = "ALREADY_JOINED"
	CodeAccessDenied       Code = "ACCESS_DENIED"
	CodeNoChange           Code = "NO_CHANGE"
	CodeJoinError          Code = "JOIN_ERROR"
	CodeLeaveError         Code = "LEAVE_ERROR"
	CodeLeaveRefused       Code = "LEAVE_REFUSED"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeRateLimited        Code = "RATE_LIMITED"
	CodeUpstream           Code = "UPSTREAM"
	CodeInternal           Code = "INTERNAL"
)

// HTTPStatus returns the HTTP status for a code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeNotOwner, CodeAccessDenied:
		return http.StatusForbidden
	case CodeNotJoined, CodeAlreadyJoined, CodeNoChange, CodeLeaveRefused, CodeAlreadyExists:
		return http.StatusConflict
	case CodeUnauthorized, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a typed failure. The cause is kept for logging only.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status for this error's code.
func (e *Error) HTTPStatus() int { return e.Code.HTTPStatus() }

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, cause: err}
}

// Sentinels for errors.Is.
var (
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation error"}
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrNotOwner           = &Error{Code: CodeNotOwner, Message: "only the owner can do this"}
	ErrNotJoined          = &Error{Code: CodeNotJoined, Message: "not a member of this collection"}
	ErrAlreadyJoined      = &Error{Code: CodeAlreadyJoined, Message: "already a member of this collection"}
	ErrAccessDenied       = &Error{Code: CodeAccessDenied, Message: "access denied"}
	ErrNoChange           = &Error{Code: CodeNoChange, Message: "nothing to change"}
	ErrJoinError          = &Error{Code: CodeJoinError, Message: "could not join collection"}
	ErrLeaveError         = &Error{Code: CodeLeaveError, Message: "could not leave collection"}
	ErrLeaveRefused       = &Error{Code: CodeLeaveRefused, Message: "owner cannot leave a collection that has members"}
	ErrAlreadyExists      = &Error{Code: CodeAlreadyExists, Message: "already exists"}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "authentication token is invalid or missing"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "invalid user credentials"}
	ErrRateLimited        = &Error{Code: CodeRateLimited, Message: "too many requests"}
	ErrUpstream           = &Error{Code: CodeUpstream, Message: "metadata provider unavailable"}
	ErrInternal           = &Error{Code: CodeInternal, Message: "internal error"}
)

// Validation creates a validation error with a custom message.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// NotFound creates a not-found error with a custom message.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// Internal wraps err as an internal error.
func Internal(msg string, err error) *Error {
	return &Error{Code: CodeInternal, Message: msg, cause: err}
}

// CodeOf returns the code of err, or CodeInternal if err is not typed.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
