// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charted-dev/charted/internal/api"
	"github.com/charted-dev/charted/internal/authn"
	"github.com/charted-dev/charted/internal/members"
	"github.com/charted-dev/charted/internal/platform/config"
	"github.com/charted-dev/charted/internal/platform/metrics"
	"github.com/charted-dev/charted/internal/users/account"
	"github.com/charted-dev/charted/internal/users/apikey"
	"github.com/charted-dev/charted/internal/users/auth"
)

// denyAll stands in for the authentication middleware and rejects every caller.
func denyAll(authn.Options) func(http.Handler) http.Handler {
	return func(http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusUnauthorized)
		})
	}
}

func passthrough(next http.Handler) http.Handler { return next }

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	liveness, readiness := api.NewHealthHandlers(nil, logger)

	server := api.NewServer(ctx, &config.Config{ServerPort: "0", Environment: "test"}, logger, api.Handlers{
		Liveness:            liveness,
		Readiness:           readiness,
		Accounts:            account.NewHandler(nil, passthrough),
		Users:               auth.NewHandler(nil, denyAll, passthrough),
		APIKeys:             apikey.NewHandler(nil, denyAll),
		OrganizationMembers: members.NewHandler(nil, nil, denyAll, members.Organization),
		RepositoryMembers:   members.NewHandler(nil, nil, denyAll, members.Repository),
		Metrics:             metrics.New(),
	})
	return server.Handler()
}

/*
TestServer_Routes verifies that every route group is mounted where clients
expect it, and that /users/@me is not swallowed by the /users mount.
*/
func TestServer_Routes(t *testing.T) {
	handler := newTestServer(t)

	tests := []struct {
		method     string
		target     string
		body       string
		wantStatus int
	}{
		{method: http.MethodGet, target: "/health", wantStatus: http.StatusOK},
		{method: http.MethodGet, target: "/ready", wantStatus: http.StatusOK},
		{method: http.MethodGet, target: "/api/v1/users/@me", wantStatus: http.StatusUnauthorized},
		{method: http.MethodGet, target: "/api/v1/users/@me/sessions", wantStatus: http.StatusUnauthorized},
		{method: http.MethodPost, target: "/api/v1/users", body: "{", wantStatus: http.StatusBadRequest},
		{method: http.MethodGet, target: "/api/v1/apikeys", wantStatus: http.StatusUnauthorized},
		{method: http.MethodGet, target: "/api/v1/organizations/0190f3a4-6a8e-7cc1-9d2b-000000000001/members", wantStatus: http.StatusUnauthorized},
		{method: http.MethodDelete, target: "/api/v1/repositories/0190f3a4-6a8e-7cc1-9d2b-000000000002/members/x", wantStatus: http.StatusUnauthorized},
		{method: http.MethodGet, target: "/api/v1/charts", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			request := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
		})
	}
}

func TestServer_Metrics(t *testing.T) {
	handler := newTestServer(t)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `charted_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
