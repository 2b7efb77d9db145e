// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apikey manages long-lived API keys.

A raw key is shown once at creation. Only its SHA-256 digest is stored, and
lookups during authentication go through the digest.
*/
package apikey

import (
	"context"

	"github.com/charted-dev/charted/internal/authn"
	"github.com/charted-dev/charted/pkg/pagination"
)

// # API Key Data Access

// Repository defines the data access contract for API keys.
type Repository interface {
	authn.APIKeyStore

	/*
		Create persists a new key. key.TokenHash must already be set.

		Returns:
		  - error: apperr.Conflict when the owner already has a key with that name
	*/
	Create(context context.Context, key *authn.APIKey) error

	/*
		ListByOwner returns one page of the owner's keys, newest first.

		Returns:
		  - []*authn.APIKey: The page
		  - int: Total number of keys the owner has
		  - error: Database failures
	*/
	ListByOwner(context context.Context, owner string, params pagination.Params) ([]*authn.APIKey, int, error)

	// FindOwned returns a key by ID only if owner owns it.
	FindOwned(context context.Context, id, owner string) (*authn.APIKey, error)
}
