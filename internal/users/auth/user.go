// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account lookup and the session lifecycle.

Login verifies a password through the configured [authn.Authenticator] and
issues an access and a refresh token that share one session ID. Sessions
live in Redis; accounts live in PostgreSQL.

# Architecture

  - Service: Login, Logout and Refresh.
  - Repository: PostgreSQL accounts and Redis sessions, both satisfying the
    lookup contracts of package authn.
  - Handler: the /users/@me routes.
*/
package auth

import (
	"time"

	"github.com/charted-dev/charted/internal/authn"
)

// SessionTokens is returned to the client after login or refresh.
type SessionTokens struct {
	SessionID             string         `json:"session"`
	AccessToken           string         `json:"access_token"`
	RefreshToken          string         `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time      `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time      `json:"refresh_token_expires_at"`
	Account               *authn.Account `json:"user"`
}

// # Field Identifiers

const (
	FieldLogin     = "login"
	FieldPassword  = "password"
	FieldSessionID = "sessionID"
)
