// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authn

import (
	"context"
	"errors"
	"fmt"
)

// # Password Backends

var (
	// ErrInvalidPassword means the password did not match. It is never used to
	// signal that the username does not exist.
	ErrInvalidPassword = errors.New("authn: invalid password")

	// ErrPasswordNotSet means a local account has no stored password.
	ErrPasswordNotSet = errors.New("authn: account has no local password")
)

// Request is a single password check.
type Request struct {
	Account  *Account
	Password string
}

// Authenticator verifies a password against a system of record.
//
// Implementations return nil on success, [ErrInvalidPassword] on a mismatch,
// and a [*BackendError] when the system of record could not give an answer.
type Authenticator interface {
	Authenticate(ctx context.Context, request Request) error

	// Name identifies the backend in logs and metrics.
	Name() string
}

// BackendError is a failure of the backend itself. The credential may have been valid.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("authn: %s backend failure: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// IsBackendError reports whether err carries a [*BackendError].
func IsBackendError(err error) bool {
	var backendErr *BackendError
	return errors.As(err, &backendErr)
}
