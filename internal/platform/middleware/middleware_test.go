// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/charted-dev/charted/internal/platform/ctxutil"
	"github.com/charted-dev/charted/internal/platform/middleware"
)

type corsConfig struct {
	development bool
	origins     []string
}

func (c corsConfig) IsDevelopment() bool      { return c.development }
func (c corsConfig) AllowedOrigins() []string { return c.origins }

func noContent(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusNoContent)
}

/*
TestRateLimiter verifies the per-IP bucket: a burst passes, the next request
is rejected, and another IP is unaffected.
*/
func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	limiter := middleware.NewRateLimiter(ctx, rate.Limit(0.2), 2)
	handler := limiter.Middleware(http.HandlerFunc(noContent))

	request := func(ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/users/@me/sessions/login", nil)
		r.Header.Set("X-Real-IP", ip)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, r)
		return recorder
	}

	assert.Equal(t, http.StatusNoContent, request("10.0.0.1").Code)
	assert.Equal(t, http.StatusNoContent, request("10.0.0.1").Code)

	limited := request("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "5", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, request("10.0.0.2").Code)
}

func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "INTERNAL_ERROR", errorCode(t, recorder))
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name      string
		config    corsConfig
		origin    string
		wantAllow string
	}{
		{name: "development allows any", config: corsConfig{development: true}, origin: "http://localhost:5173", wantAllow: "http://localhost:5173"},
		{name: "listed origin", config: corsConfig{origins: []string{"https://charts.noelware.org"}}, origin: "https://charts.noelware.org", wantAllow: "https://charts.noelware.org"},
		{name: "unlisted origin", config: corsConfig{origins: []string{"https://charts.noelware.org"}}, origin: "https://evil.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.CORS(tt.config)(http.HandlerFunc(noContent))

			request := httptest.NewRequest(http.MethodOptions, "/api/v1/apikeys", nil)
			request.Header.Set("Origin", tt.origin)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusNoContent, recorder.Code)
			assert.Equal(t, tt.wantAllow, recorder.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.10:51234"
	assert.Equal(t, "192.0.2.10", middleware.RealIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", middleware.RealIP(request))

	request.Header.Set("X-Real-IP", "198.51.100.3")
	assert.Equal(t, "198.51.100.3", middleware.RealIP(request))
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
		writer.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "client id kept", incoming: "helm-7f3a.2", keep: true},
		{name: "missing", incoming: ""},
		{name: "log injection", incoming: "abc\nlevel=ERROR"},
		{name: "too long", incoming: strings.Repeat("a", 65)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				request.Header.Set("X-Request-ID", tt.incoming)
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))
			if tt.keep {
				assert.Equal(t, tt.incoming, seen)
			} else {
				assert.Len(t, seen, 36)
			}
		})
	}
}
