// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"

	"github.com/charted-dev/charted/internal/authn"
)

// # Account Data Access

// AccountRepository defines the data access contract for user accounts.
type AccountRepository interface {
	authn.AccountStore

	/*
		FindByEmail returns the account with the given email.

		Returns:
		  - *authn.Account: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByEmail(context context.Context, email string) (*authn.Account, error)
}

// # Session Data Access

// SessionRepository defines the data access contract for login sessions.
type SessionRepository interface {
	authn.SessionStore

	/*
		Create persists a session. It expires on its own after the refresh
		token lifetime.

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *authn.Session) error

	/*
		Delete removes a session. Deleting a missing session is not an error.

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, session *authn.Session) error

	// ListForUser returns the IDs of every live session owned by userID.
	ListForUser(context context.Context, userID string) ([]string, error)
}
