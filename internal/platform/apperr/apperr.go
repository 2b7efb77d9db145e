// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error type that crosses the HTTP boundary.

An [AppError] carries a stable code, a client-safe message and the HTTP status
it maps to. Storage and backend failures ride along as a Cause that is logged
but never serialized.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Codes shared across packages. Domain packages declare their own with [New].
const (
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeValidation   = "VALIDATION_ERROR"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is the only error type handlers hand to the response writer.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    []FieldError

	// Cause is logged server-side only.
	Cause error
}

// FieldError is one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

// Converter is implemented by domain errors that know their own HTTP mapping.
type Converter interface {
	AppError() *AppError
}

// New creates an [AppError] with an explicit status and code.
func New(status int, code, msg string) *AppError {
	return &AppError{Code: code, Message: msg, HTTPStatus: status}
}

// NotFound reports a missing resource, e.g. NotFound("Session") reads "Session not found".
func NotFound(resource string) *AppError {
	return New(http.StatusNotFound, CodeNotFound, resource+" not found")
}

func Unauthorized(msg string) *AppError {
	return New(http.StatusUnauthorized, CodeUnauthorized, msg)
}

func Forbidden(msg string) *AppError {
	return New(http.StatusForbidden, CodeForbidden, msg)
}

// Conflict reports a unique-constraint violation.
func Conflict(msg string) *AppError {
	return New(http.StatusConflict, CodeConflict, msg)
}

// ValidationError reports rejected input, with one detail per failed field.
func ValidationError(msg string, details ...FieldError) *AppError {
	appError := New(http.StatusBadRequest, CodeValidation, msg)
	appError.Details = details
	return appError
}

func RateLimited(retryAfterSeconds int) *AppError {
	return New(http.StatusTooManyRequests, CodeRateLimited,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
}

// Internal hides cause behind a generic 500.
func Internal(cause error) *AppError {
	appError := New(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred")
	appError.Cause = cause
	return appError
}

// # Inspection

// As extracts the [*AppError] from err's chain, or nil.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}

// IsNotFound reports whether err carries a NOT_FOUND [*AppError].
func IsNotFound(err error) bool {
	appError := As(err)
	return appError != nil && appError.Code == CodeNotFound
}

/*
From resolves the [*AppError] to send for err.

A [Converter] anywhere in the chain wins over a plain [*AppError], so a
rejection keeps its own code even when it wraps a storage error. Anything
else becomes [Internal].
*/
func From(err error) *AppError {
	var converter Converter
	if errors.As(err, &converter) {
		return converter.AppError()
	}
	if appError := As(err); appError != nil {
		return appError
	}
	return Internal(err)
}
