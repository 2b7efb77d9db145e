// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/charted-dev/charted/internal/authn"
	"github.com/charted-dev/charted/internal/platform/apperr"
	"github.com/charted-dev/charted/internal/platform/ctxutil"
	"github.com/charted-dev/charted/internal/platform/respond"
	"github.com/charted-dev/charted/internal/platform/sec"
)

// CredentialResolver validates an extracted credential.
//
// [*authn.Resolver] is the production implementation. Tests substitute fakes.
type CredentialResolver interface {
	Resolve(ctx context.Context, credential authn.Credential, options authn.Options) (*sec.Identity, error)
}

/*
Authenticate resolves the Authorization header and attaches the caller to the
request context.

# Flow

 1. Extract the credential from the header. Malformed headers are logged at debug.
 2. Resolve it against the route's [authn.Options].
 3. On rejection, respond with the mapped status and stop.
 4. Otherwise inject the [*sec.Identity] for downstream handlers.

Anonymous callers only pass when options.AllowUnauthenticated is set.
*/
func Authenticate(resolver CredentialResolver, options authn.Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			logger := ctxutil.GetLogger(ctx)

			// ── 1. Extraction ─────────────────────────────────────────────────
			credential := authn.Extract(request.Header)
			if credential.Diagnostic != nil {
				logger.DebugContext(ctx, "authn_credential_unusable", slog.Any("error", credential.Diagnostic))
			}

			// ── 2. Resolution ─────────────────────────────────────────────────
			identity, err := resolver.Resolve(ctx, credential, options)
			if err != nil {
				rejectRequest(writer, request, credential.Scheme, err)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			if sink, ok := writer.(identitySink); ok {
				sink.setIdentity(identity)
			}
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithIdentity(ctx, identity)))
		})
	}
}

func rejectRequest(writer http.ResponseWriter, request *http.Request, scheme authn.Scheme, err error) {
	var rejection *authn.Rejection
	if !errors.As(err, &rejection) {
		respond.Error(writer, request, err)
		return
	}

	ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "authn_rejected",
		slog.String("scheme", scheme.String()),
		slog.String("reason", string(rejection.Reason)),
		slog.Int("status", rejection.HTTPStatus()),
		slog.String("detail", rejection.Detail),
	)
	respond.Error(writer, request, rejection.AppError())
}

// RequireAuth blocks anonymous callers.
//
// Must be registered AFTER [Authenticate] on routes that allow unauthenticated
// access but still have authenticated-only sub-routes. [RequireMember] applies
// it before the membership lookup.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if GetIdentity(request.Context()).IsAnonymous() {
			respond.Error(writer, request, authn.Reject(authn.ReasonMissingAuthorizationHeader, "", nil).AppError())
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// # Member Permissions

// MemberLookup reads a caller's membership of an organization or repository.
type MemberLookup interface {
	// FindMembership returns the permissions of accountID in entityID's member
	// table, or an apperr NOT_FOUND error when the account is not a member.
	FindMembership(ctx context.Context, table, entityID, accountID string) (sec.MemberPermissions, error)
}

/*
RequireMember allows the request only when the caller is a member of the
entity named by the urlParam route parameter and holds every required
permission.

# Flow

 1. Require an authenticated identity through [RequireAuth].
 2. Look up the membership row in table ('organization_members' or 'repository_members').
 3. No row is a 403, not a 404, so membership cannot be probed.
 4. Missing any required bit is a 403.

Administrators get no bypass here.
*/
func RequireMember(lookup MemberLookup, table, urlParam string, required ...sec.MemberPermission) func(http.Handler) http.Handler {
	requiredSet := sec.NewMemberPermissions(required...)

	return func(next http.Handler) http.Handler {
		// ── 1. Authentication Check ───────────────────────────────────────────
		return RequireAuth(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			identity := GetIdentity(ctx)

			// ── 2. Membership ─────────────────────────────────────────────────
			entityID := chi.URLParam(request, urlParam)
			granted, err := lookup.FindMembership(ctx, table, entityID, identity.UserID)
			if err != nil {
				if apperr.IsNotFound(err) {
					respond.Error(writer, request, authn.Reject(authn.ReasonInsufficientPermissions, "not a member", nil).AppError())
					return
				}
				respond.Error(writer, request, authn.Reject(authn.ReasonBackendUnavailable, "membership lookup", err).AppError())
				return
			}

			// ── 3. Authorization Check ────────────────────────────────────────
			if !granted.HasAll(requiredSet) {
				ctxutil.GetLogger(ctx).InfoContext(ctx, "member_permission_denied",
					slog.String("table", table),
					slog.String("entity_id", entityID),
					slog.String("user_id", identity.UserID),
					slog.Any("required", requiredSet.Names()),
				)
				respond.Error(writer, request, authn.Reject(authn.ReasonInsufficientPermissions, "", nil).AppError())
				return
			}

			next.ServeHTTP(writer, request)
		}))
	}
}

// GetIdentity retrieves the [*sec.Identity] from the [context.Context].
//
// Returns nil when the route is not behind [Authenticate].
func GetIdentity(ctx context.Context) *sec.Identity {
	return ctxutil.GetIdentity(ctx)
}
