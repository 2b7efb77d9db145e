// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authn

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charted-dev/charted/internal/platform/apperr"
	"github.com/charted-dev/charted/internal/platform/sec"
)

// # Session Resolver

// Options are the per-route requirements passed to [Resolver.Resolve].
type Options struct {
	// AllowUnauthenticated lets requests without an Authorization header through
	// as an anonymous identity.
	AllowUnauthenticated bool

	// RequireRefreshToken only accepts a Bearer refresh token.
	RequireRefreshToken bool

	// Scopes an API key must carry. Ignored for other schemes.
	Scopes sec.APIKeyScopes

	// APIKeyOwner restricts API key lookups to keys owned by this account ID.
	APIKeyOwner string
}

// Observer receives outcome counters and backend timings.
type Observer interface {
	ObserveAttempt(scheme, outcome string)
	ObserveBackend(backend string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveAttempt(string, string)         {}
func (nopObserver) ObserveBackend(string, time.Duration) {}

// ResolverDeps groups the collaborators of a [Resolver].
type ResolverDeps struct {
	Accounts      AccountStore
	Sessions      SessionStore
	APIKeys       APIKeyStore
	Authenticator Authenticator
	Tokens        *sec.TokenService

	// EnableBasicAuth mirrors SESSIONS_ENABLE_BASIC_AUTH.
	EnableBasicAuth bool

	Logger   *slog.Logger
	Observer Observer
	Clock    func() time.Time
}

// Resolver validates a [Credential] into a [sec.Identity].
//
// It holds no per-request state and is safe for concurrent use.
type Resolver struct {
	accounts      AccountStore
	sessions      SessionStore
	apikeys       APIKeyStore
	authenticator Authenticator
	tokens        *sec.TokenService
	basicEnabled  bool
	logger        *slog.Logger
	observer      Observer
	clock         func() time.Time
}

// NewResolver creates a [Resolver].
func NewResolver(deps ResolverDeps) *Resolver {
	resolver := &Resolver{
		accounts:      deps.Accounts,
		sessions:      deps.Sessions,
		apikeys:       deps.APIKeys,
		authenticator: deps.Authenticator,
		tokens:        deps.Tokens,
		basicEnabled:  deps.EnableBasicAuth,
		logger:        deps.Logger,
		observer:      deps.Observer,
		clock:         deps.Clock,
	}
	if resolver.logger == nil {
		resolver.logger = slog.Default()
	}
	if resolver.observer == nil {
		resolver.observer = nopObserver{}
	}
	if resolver.clock == nil {
		resolver.clock = time.Now
	}
	return resolver
}

/*
Resolve validates credential against the route's options.

It returns the identity on success, or a [*Rejection] otherwise. A nil error
with an anonymous identity is only possible when AllowUnauthenticated is set.
*/
func (resolver *Resolver) Resolve(ctx context.Context, credential Credential, options Options) (*sec.Identity, error) {
	identity, err := resolver.resolve(ctx, credential, options)

	outcome := "success"
	if reason, ok := ReasonOf(err); ok {
		outcome = string(reason)
	} else if err != nil {
		outcome = "error"
	} else if identity.IsAnonymous() {
		outcome = "anonymous"
	}
	resolver.observer.ObserveAttempt(credential.Scheme.String(), outcome)

	return identity, err
}

func (resolver *Resolver) resolve(ctx context.Context, credential Credential, options Options) (*sec.Identity, error) {
	switch credential.Scheme {
	case SchemeBasic:
		return resolver.resolveBasic(ctx, credential, options)
	case SchemeBearer:
		return resolver.resolveBearer(ctx, credential, options)
	case SchemeAPIKey:
		return resolver.resolveAPIKey(ctx, credential, options)
	}

	if options.AllowUnauthenticated {
		if credential.IsMalformed() {
			resolver.logger.DebugContext(ctx, "authn_malformed_header_ignored",
				slog.Any("error", credential.Diagnostic),
			)
		}
		return sec.Anonymous(), nil
	}
	if credential.IsMalformed() {
		return nil, Reject(ReasonInvalidCredentialFormat, "", credential.Diagnostic)
	}
	return nil, Reject(ReasonMissingAuthorizationHeader, "", nil)
}

// # Basic

func (resolver *Resolver) resolveBasic(ctx context.Context, credential Credential, options Options) (*sec.Identity, error) {
	if options.RequireRefreshToken {
		return nil, Reject(ReasonRefreshTokenRequired, "basic credentials cannot act as a refresh token", nil)
	}
	if !resolver.basicEnabled {
		return nil, Reject(ReasonBasicAuthDisabled, "", nil)
	}

	// ── 1. Account ────────────────────────────────────────────────────────
	account, err := resolver.accounts.FindByUsername(ctx, credential.Username)
	if err != nil {
		if apperr.IsNotFound(err) {
			// Same answer as a wrong password so usernames cannot be probed.
			return nil, Reject(ReasonInvalidPassword, "unknown username", nil)
		}
		return nil, Reject(ReasonBackendUnavailable, "account lookup", err)
	}

	// ── 2. Password ───────────────────────────────────────────────────────
	if err := resolver.CheckPassword(ctx, account, credential.Password); err != nil {
		return nil, err
	}

	return &sec.Identity{
		UserID:   account.ID,
		Username: account.Username,
		IsAdmin:  account.IsAdmin,
		Method:   sec.MethodBasic,
	}, nil
}

// CheckPassword runs the configured [Authenticator] and maps its result to a
// [*Rejection]. Login uses it directly.
func (resolver *Resolver) CheckPassword(ctx context.Context, account *Account, password string) error {
	started := resolver.clock()
	err := resolver.authenticator.Authenticate(ctx, Request{Account: account, Password: password})
	resolver.observer.ObserveBackend(resolver.authenticator.Name(), resolver.clock().Sub(started))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidPassword):
		return Reject(ReasonInvalidPassword, "", nil)
	case errors.Is(err, ErrPasswordNotSet):
		return Reject(ReasonInvalidPassword, "account has no local password", err)
	}

	resolver.logger.ErrorContext(ctx, "authn_backend_failure",
		slog.String("backend", resolver.authenticator.Name()),
		slog.String("user_id", account.ID),
		slog.Any("error", err),
	)
	return Reject(ReasonBackendUnavailable, "", err)
}

// # Bearer

func (resolver *Resolver) resolveBearer(ctx context.Context, credential Credential, options Options) (*sec.Identity, error) {
	// ── 1. Token ──────────────────────────────────────────────────────────
	claims, err := resolver.tokens.Decode(credential.Token)
	if err != nil {
		if errors.Is(err, sec.ErrTokenExpired) {
			return nil, Reject(ReasonExpiredCredential, "", err)
		}
		return nil, Reject(ReasonInvalidCredential, "", err)
	}

	// ── 2. Session ────────────────────────────────────────────────────────
	session, err := resolver.sessions.FindByID(ctx, claims.SessionID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, Reject(ReasonExpiredCredential, "session no longer exists", nil)
		}
		return nil, Reject(ReasonBackendUnavailable, "session lookup", err)
	}
	if session.Owner != claims.UserID {
		return nil, Reject(ReasonInvalidCredential, "session owner mismatch", nil)
	}

	if options.RequireRefreshToken && credential.Token != session.RefreshToken {
		return nil, Reject(ReasonRefreshTokenRequired, "", nil)
	}

	// ── 3. Account ────────────────────────────────────────────────────────
	account, err := resolver.findOwner(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return &sec.Identity{
		UserID:    account.ID,
		Username:  account.Username,
		SessionID: session.ID,
		IsAdmin:   account.IsAdmin,
		Method:    sec.MethodSession,
	}, nil
}

// # ApiKey

func (resolver *Resolver) resolveAPIKey(ctx context.Context, credential Credential, options Options) (*sec.Identity, error) {
	if options.RequireRefreshToken {
		return nil, Reject(ReasonRefreshTokenRequired, "api keys cannot act as a refresh token", nil)
	}

	// ── 1. Key ────────────────────────────────────────────────────────────
	key, err := resolver.apikeys.FindByToken(ctx, sec.HashToken(credential.Token), options.APIKeyOwner)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, Reject(ReasonInvalidCredential, "unknown api key", nil)
		}
		return nil, Reject(ReasonBackendUnavailable, "api key lookup", err)
	}

	if key.IsExpired(resolver.clock()) {
		if err := resolver.apikeys.Delete(ctx, key.ID); err != nil && !apperr.IsNotFound(err) {
			resolver.logger.WarnContext(ctx, "apikey_expired_delete_failed",
				slog.String("apikey_id", key.ID),
				slog.Any("error", err),
			)
		}
		return nil, Reject(ReasonExpiredCredential, "api key expired", nil)
	}

	// ── 2. Scopes ─────────────────────────────────────────────────────────
	if missing := key.Scopes.Missing(options.Scopes); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, scope := range missing {
			names = append(names, scope.String())
		}
		resolver.logger.DebugContext(ctx, "apikey_missing_scopes",
			slog.String("apikey_id", key.ID),
			slog.Any("scopes", names),
		)
		return nil, Reject(ReasonInsufficientPermissions, "api key is missing scopes", nil)
	}

	// ── 3. Owner ──────────────────────────────────────────────────────────
	account, err := resolver.findOwner(ctx, key.Owner)
	if err != nil {
		return nil, err
	}

	return &sec.Identity{
		UserID:   account.ID,
		Username: account.Username,
		IsAdmin:  account.IsAdmin,
		Method:   sec.MethodAPIKey,
		Scopes:   key.Scopes,
	}, nil
}

func (resolver *Resolver) findOwner(ctx context.Context, id string) (*Account, error) {
	account, err := resolver.accounts.FindByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, Reject(ReasonUnknownAccount, "", nil)
		}
		return nil, Reject(ReasonBackendUnavailable, "account lookup", err)
	}
	return account, nil
}
