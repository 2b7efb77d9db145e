// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authn

import (
	"context"
	"time"

	"github.com/charted-dev/charted/internal/platform/sec"
)

// # Records

// Account is the subset of a user account the pipeline needs.
type Account struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"name,omitempty"`
	IsAdmin     bool      `json:"admin"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// PasswordHash is nil for externally managed accounts (LDAP, static).
	PasswordHash *string `json:"-"`
}

// Session is a login session. Access and refresh tokens share its ID as 'sid'.
type Session struct {
	ID           string    `json:"session"`
	Owner        string    `json:"owner"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	CreatedAt    time.Time `json:"created_at"`
}

// APIKey is a long-lived key owned by an account.
type APIKey struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Owner       string           `json:"owner"`
	Scopes      sec.APIKeyScopes `json:"scopes"`
	ExpiresAt   *time.Time       `json:"expires_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`

	// TokenHash is the SHA-256 digest of the raw key. The raw key is never stored.
	TokenHash string `json:"-"`
}

// IsExpired reports whether the key has an expiry at or before now.
func (key *APIKey) IsExpired(now time.Time) bool {
	return key.ExpiresAt != nil && !now.Before(*key.ExpiresAt)
}

// # Store Contracts

// Lookups return an apperr NOT_FOUND error when the record does not exist.
// Any other error is treated as the store being unavailable.

// AccountStore resolves accounts.
type AccountStore interface {
	FindByUsername(ctx context.Context, username string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
}

// SessionStore resolves sessions by the 'sid' claim.
type SessionStore interface {
	FindByID(ctx context.Context, id string) (*Session, error)
}

// APIKeyStore resolves API keys by the digest of their raw token.
type APIKeyStore interface {
	// FindByToken looks a key up by [sec.HashToken] of the raw token. A non-empty
	// owner restricts the lookup to keys owned by that account.
	FindByToken(ctx context.Context, tokenHash, owner string) (*APIKey, error)

	Delete(ctx context.Context, id string) error
}
