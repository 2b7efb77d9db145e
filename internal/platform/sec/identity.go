// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Request Identity

// AuthMethod records which credential produced an [Identity].
type AuthMethod string

const (
	MethodNone    AuthMethod = "none"
	MethodBasic   AuthMethod = "basic"
	MethodSession AuthMethod = "session"
	MethodAPIKey  AuthMethod = "apikey"
)

// Identity is the validated caller of a single request.
//
// It lives only as long as the request context that carries it and is never
// cached across requests.
type Identity struct {
	// UserID is empty for anonymous callers.
	UserID   string
	Username string
	// SessionID is set only for Bearer session tokens.
	SessionID string
	IsAdmin   bool
	Method    AuthMethod
	// Scopes is set only for API key callers.
	Scopes APIKeyScopes
}

// Anonymous returns the identity used by routes that allow unauthenticated access.
func Anonymous() *Identity {
	return &Identity{Method: MethodNone}
}

// IsAnonymous reports whether no account is bound to the identity.
func (identity *Identity) IsAnonymous() bool {
	return identity == nil || identity.UserID == ""
}

// HasSession reports whether the identity came from a session token.
func (identity *Identity) HasSession() bool {
	return identity != nil && identity.SessionID != ""
}
