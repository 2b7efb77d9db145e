// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles account registration.

Whether a new account needs a password depends on the sessions backend: the
local backend verifies against the stored hash, so it requires one. LDAP and
static accounts are verified elsewhere and may be created without.
*/
package account

import (
	"context"
	"net/http"

	"github.com/charted-dev/charted/internal/authn"
	"github.com/charted-dev/charted/internal/platform/apperr"
)

// # Field Identifiers

const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
)

// MinPasswordLength is the shortest password a local account accepts.
const MinPasswordLength = 8

var (
	// ErrRegistrationsDisabled is returned when the registry does not accept sign-ups.
	ErrRegistrationsDisabled = apperr.New(http.StatusForbidden, "REGISTRATIONS_DISABLED", "This instance has user registrations disabled")

	// ErrMissingPassword is returned when the local backend gets an account without a password.
	ErrMissingPassword = apperr.New(http.StatusNotAcceptable, "MISSING_PASSWORD", "The authentication backend requires a password for new accounts")
)

// Repository defines the persistence contract for new accounts.
type Repository interface {
	/*
		Create inserts the account.

		Returns:
		  - error: apperr.Conflict when the username or email is taken
	*/
	Create(context context.Context, account *authn.Account) error
}
