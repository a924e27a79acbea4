// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error type every member API response is built from.

Domain packages return plain sentinel errors; handlers translate them into an
[AppError] carrying the HTTP status, a stable [Code] for clients and a message
already resolved for the caller's language. [respond.Error] is the only writer.
*/
package apperr

import (
	"errors"
	"net/http"
)

// # Codes

// Code is the machine-readable identifier clients switch on.
type Code = string

// Generic codes, one per constructor.
const (
	CodeNotFound     Code = "NOT_FOUND"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeConflict     Code = "CONFLICT"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeTooMany      Code = "TOO_MANY_REQUESTS"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Member-domain codes refining the generic ones.
const (
	CodeLoginFailed       Code = "LOGIN_FAILED"
	CodeMemberDisabled    Code = "MEMBER_DISABLED"
	CodeDuplicatedEmail   Code = "DUPLICATED_EMAIL"
	CodeMemberNotFound    Code = "MEMBER_NOT_FOUND"
	CodeTempTokenNotFound Code = "TEMP_TOKEN_NOT_FOUND"
	CodeTempTokenExpired  Code = "TEMP_TOKEN_EXPIRED"
	CodeInvalidAuthority  Code = "INVALID_AUTHORITY"
)

// # Error Type

// AppError is a client-facing error.
//
// Cause is logged server-side and never serialized.
type AppError struct {
	Code       Code         `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError is one failed validation rule on a request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

func newError(status int, code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// # Constructors

// NotFound is a 404 for the named resource, e.g. NotFound("Member") => "Member not found".
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, resource+" not found")
}

// Unauthorized is a 401.
func Unauthorized(message string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, message)
}

// Forbidden is a 403.
func Forbidden(message string) *AppError {
	return newError(http.StatusForbidden, CodeForbidden, message)
}

// Conflict is a 409.
func Conflict(message string) *AppError {
	return newError(http.StatusConflict, CodeConflict, message)
}

// ValidationError is a 400 listing the failed fields.
func ValidationError(message string, details ...FieldError) *AppError {
	appError := newError(http.StatusBadRequest, CodeValidation, message)
	appError.Details = details
	return appError
}

// TooManyRequests is a 429.
func TooManyRequests(message string) *AppError {
	return newError(http.StatusTooManyRequests, CodeTooMany, message)
}

// Internal is a 500 with a fixed message; cause stays in the logs.
func Internal(cause error) *AppError {
	appError := newError(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred")
	appError.Cause = cause
	return appError
}

// # Builders
//
// Builders copy the receiver, so package-level errors can be refined safely.

// WithCode refines the code.
func (e *AppError) WithCode(code Code) *AppError {
	clone := *e
	clone.Code = code
	return &clone
}

// WithMessage replaces the client-facing message, typically with a localized one.
func (e *AppError) WithMessage(message string) *AppError {
	clone := *e
	clone.Message = message
	return &clone
}

// WithCause records cause for logging.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// # Helpers

// IsAppError reports whether err's chain holds an [*AppError].
func IsAppError(err error) bool {
	return As(err) != nil
}

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}
