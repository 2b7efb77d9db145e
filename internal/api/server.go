// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Authentication is not global: every route group mounts its own
authentication middleware with the options that route needs, so public
routes never resolve credentials.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/charted-dev/charted/internal/members"
	"github.com/charted-dev/charted/internal/platform/config"
	"github.com/charted-dev/charted/internal/platform/constants"
	"github.com/charted-dev/charted/internal/platform/metrics"
	"github.com/charted-dev/charted/internal/platform/middleware"
	"github.com/charted-dev/charted/internal/users/account"
	"github.com/charted-dev/charted/internal/users/apikey"
	"github.com/charted-dev/charted/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler and always returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler and returns 200 when all dependencies are healthy.
	Readiness http.HandlerFunc

	// Accounts serves registration under /users.
	Accounts *account.Handler

	// Users serves the caller's account and sessions under /users/@me.
	Users *auth.Handler

	// APIKeys serves the caller's API keys.
	APIKeys *apikey.Handler

	OrganizationMembers *members.Handler
	RepositoryMembers   *members.Handler

	// Metrics is nil when METRICS_ENABLED is false.
	Metrics *metrics.Metrics
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups. ctx bounds background work such as the rate
// limiter janitor.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	if h.Metrics != nil {
		r.Use(h.Metrics.Instrument)
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery)
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.NewRateLimiter(ctx, rate.Limit(constants.DefaultRateLimitRPS), constants.DefaultRateLimitBurst).Middleware)
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics.Handler())
	}

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/users/@me", h.Users.Routes())
		api.Mount("/users", h.Accounts.Routes())
		api.Mount("/apikeys", h.APIKeys.Routes())
		api.Mount("/organizations/{"+members.EntityParam+"}/members", h.OrganizationMembers.Routes())
		api.Mount("/repositories/{"+members.EntityParam+"}/members", h.RepositoryMembers.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
