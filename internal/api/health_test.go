// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charted-dev/charted/internal/api"
)

func healthy(context.Context) error { return nil }

func TestReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     []api.HealthCheck
		wantStatus int
		wantState  string
	}{
		{
			name:       "all healthy",
			checks:     []api.HealthCheck{{Name: "postgres", Check: healthy}, {Name: "redis", Check: healthy}},
			wantStatus: http.StatusOK,
			wantState:  "ready",
		},
		{
			name: "redis down",
			checks: []api.HealthCheck{
				{Name: "postgres", Check: healthy},
				{Name: "redis", Check: func(context.Context) error { return errors.New("dial tcp: connection refused") }},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, readiness := api.NewHealthHandlers(tt.checks, slog.New(slog.NewTextHandler(io.Discard, nil)))

			recorder := httptest.NewRecorder()
			readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

			require.Equal(t, tt.wantStatus, recorder.Code)

			var body struct {
				Data struct {
					Status string `json:"status"`
					Checks []struct {
						Name string `json:"name"`
						OK   bool   `json:"ok"`
					} `json:"checks"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body.Data.Status)
			assert.Len(t, body.Data.Checks, len(tt.checks))
			assert.Equal(t, "postgres", body.Data.Checks[0].Name)
		})
	}
}

func TestLiveness(t *testing.T) {
	liveness, _ := api.NewHealthHandlers(nil, slog.Default())

	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"success":true,"data":{"status":"ok"}}`, recorder.Body.String())
}
