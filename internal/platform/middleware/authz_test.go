// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charted-dev/charted/internal/authn"
	"github.com/charted-dev/charted/internal/platform/apperr"
	"github.com/charted-dev/charted/internal/platform/constants"
	"github.com/charted-dev/charted/internal/platform/ctxutil"
	"github.com/charted-dev/charted/internal/platform/middleware"
	"github.com/charted-dev/charted/internal/platform/sec"
)

const (
	memberID = "0190f3a4-6a8e-7cc1-9d2b-3f4e5a6b7c8d"
	orgID    = "0190f3a4-6a8e-7cc1-9d2b-000000000001"
)

// fakeResolver accepts "Bearer good" and rejects everything else.
type fakeResolver struct{}

func (fakeResolver) Resolve(_ context.Context, credential authn.Credential, options authn.Options) (*sec.Identity, error) {
	switch {
	case credential.Scheme == authn.SchemeBearer && credential.Token == "good":
		return &sec.Identity{UserID: memberID, Username: "noel", Method: sec.MethodSession}, nil
	case credential.Scheme == authn.SchemeBearer && credential.Token == "wrapped":
		return nil, fmt.Errorf("account lookup: %w", authn.Reject(authn.ReasonUnknownAccount, "", nil))
	case credential.Scheme == authn.SchemeBearer:
		return nil, authn.Reject(authn.ReasonExpiredCredential, "", nil)
	case options.AllowUnauthenticated:
		return sec.Anonymous(), nil
	case credential.IsMalformed():
		return nil, authn.Reject(authn.ReasonInvalidCredentialFormat, "", credential.Diagnostic)
	}
	return nil, authn.Reject(authn.ReasonMissingAuthorizationHeader, "", nil)
}

type fakeMembers struct {
	granted map[string]sec.MemberPermissions
	err     error
}

func (lookup *fakeMembers) FindMembership(_ context.Context, table, entityID, accountID string) (sec.MemberPermissions, error) {
	if lookup.err != nil {
		return 0, lookup.err
	}
	if table != constants.TableOrganizationMembers {
		return 0, apperr.NotFound("Member")
	}
	permissions, ok := lookup.granted[entityID+"/"+accountID]
	if !ok {
		return 0, apperr.NotFound("Member")
	}
	return permissions, nil
}

func okHandler(writer http.ResponseWriter, request *http.Request) {
	identity := middleware.GetIdentity(request.Context())
	if identity.IsAnonymous() {
		writer.WriteHeader(http.StatusNoContent)
		return
	}
	_, _ = writer.Write([]byte(identity.Username))
}

func newMemberRouter(lookup middleware.MemberLookup) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(fakeResolver{}, authn.Options{}))
	router.With(middleware.RequireMember(lookup, constants.TableOrganizationMembers, "entityID", sec.MemberKick)).
		Delete("/organizations/{entityID}/members/{accountID}", okHandler)
	return router
}

func serve(handler http.Handler, method, target, authorization string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, nil)
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func errorCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool `json:"success"`
		Errors  []struct {
			Code string `json:"code"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.Len(t, body.Errors, 1)
	return body.Errors[0].Code
}

/*
TestAuthenticate verifies that rejections map to their status codes and that
accepted callers reach the handler with an identity.
*/
func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name          string
		options       authn.Options
		authorization string
		wantStatus    int
		wantCode      string
		wantBody      string
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized, wantCode: "MISSING_AUTHORIZATION_HEADER"},
		{name: "anonymous allowed", options: authn.Options{AllowUnauthenticated: true}, wantStatus: http.StatusNoContent},
		{name: "malformed header", authorization: "Basic !!!", wantStatus: http.StatusNotAcceptable, wantCode: "INVALID_CREDENTIAL_FORMAT"},
		{name: "malformed header on public route", options: authn.Options{AllowUnauthenticated: true}, authorization: "Basic !!!", wantStatus: http.StatusNoContent},
		{name: "expired token", authorization: "Bearer stale", wantStatus: http.StatusUnauthorized, wantCode: "EXPIRED_CREDENTIAL"},
		{name: "valid token", authorization: "Bearer good", wantStatus: http.StatusOK, wantBody: "noel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.Authenticate(fakeResolver{}, tt.options)(http.HandlerFunc(okHandler))

			recorder := serve(handler, http.MethodGet, "/", tt.authorization)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, recorder))
			}
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, recorder.Body.String())
			}
		})
	}
}

func TestAuthenticate_WrappedRejection(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	handler := middleware.Authenticate(fakeResolver{}, authn.Options{})(http.HandlerFunc(okHandler))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer wrapped")
	request = request.WithContext(ctxutil.WithLogger(request.Context(), logger))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "UNKNOWN_ACCOUNT", errorCode(t, recorder))
	assert.Contains(t, logs.String(), `"msg":"authn_rejected"`)
	assert.Contains(t, logs.String(), `"reason":"UNKNOWN_ACCOUNT"`)
	assert.Contains(t, logs.String(), `"status":404`)
}

func TestRequireAuth(t *testing.T) {
	handler := middleware.Authenticate(fakeResolver{}, authn.Options{AllowUnauthenticated: true})(
		middleware.RequireAuth(http.HandlerFunc(okHandler)),
	)

	recorder := serve(handler, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = serve(handler, http.MethodGet, "/", "Bearer good")
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestRequireMember verifies member permission checks on an organization route
that requires member:kick.
*/
func TestRequireMember(t *testing.T) {
	target := "/organizations/" + orgID + "/members/someone"

	tests := []struct {
		name          string
		granted       map[string]sec.MemberPermissions
		lookupErr     error
		authorization string
		wantStatus    int
		wantCode      string
	}{
		{
			name:       "anonymous caller",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "MISSING_AUTHORIZATION_HEADER",
		},
		{
			name:          "not a member",
			granted:       map[string]sec.MemberPermissions{},
			authorization: "Bearer good",
			wantStatus:    http.StatusForbidden,
			wantCode:      "ACCESS_NOT_PERMITTED",
		},
		{
			name:          "invite only",
			granted:       map[string]sec.MemberPermissions{orgID + "/" + memberID: sec.NewMemberPermissions(sec.MemberInvite)},
			authorization: "Bearer good",
			wantStatus:    http.StatusForbidden,
			wantCode:      "ACCESS_NOT_PERMITTED",
		},
		{
			name:          "invite and kick",
			granted:       map[string]sec.MemberPermissions{orgID + "/" + memberID: sec.NewMemberPermissions(sec.MemberInvite, sec.MemberKick)},
			authorization: "Bearer good",
			wantStatus:    http.StatusOK,
		},
		{
			name:          "lookup failure",
			lookupErr:     errors.New("pgx: connection reset"),
			authorization: "Bearer good",
			wantStatus:    http.StatusServiceUnavailable,
			wantCode:      "BACKEND_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newMemberRouter(&fakeMembers{granted: tt.granted, err: tt.lookupErr})

			recorder := serve(router, http.MethodDelete, target, tt.authorization)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, recorder))
			}
		})
	}
}

func TestRequireMember_AnonymousOnPublicRoute(t *testing.T) {
	lookup := &fakeMembers{err: errors.New("lookup must not run for anonymous callers")}

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(fakeResolver{}, authn.Options{AllowUnauthenticated: true}))
	router.With(middleware.RequireMember(lookup, constants.TableOrganizationMembers, "entityID")).
		Get("/organizations/{entityID}/members", okHandler)

	for _, authorization := range []string{"", "Basic !!!"} {
		recorder := serve(router, http.MethodGet, "/organizations/"+orgID+"/members", authorization)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "MISSING_AUTHORIZATION_HEADER", errorCode(t, recorder))
	}
}
