// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/charted-dev/charted/internal/api"
	"github.com/charted-dev/charted/internal/authn"
	"github.com/charted-dev/charted/internal/members"
	"github.com/charted-dev/charted/internal/platform/config"
	"github.com/charted-dev/charted/internal/platform/constants"
	"github.com/charted-dev/charted/internal/platform/metrics"
	"github.com/charted-dev/charted/internal/platform/middleware"
	"github.com/charted-dev/charted/internal/platform/migration"
	pgstore "github.com/charted-dev/charted/internal/platform/postgres"
	redisstore "github.com/charted-dev/charted/internal/platform/redis"
	"github.com/charted-dev/charted/internal/platform/sec"
	"github.com/charted-dev/charted/internal/users/account"
	"github.com/charted-dev/charted/internal/users/apikey"
	"github.com/charted-dev/charted/internal/users/auth"
)

func newServerCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the charted API server",
		Long: `Start the charted API server.

Configuration is read from the environment, and from a .env file in the
working directory when one exists.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return runServer(ctx)
		},
	}
}

/*
runServer wires every dependency and serves until ctx is cancelled.

# Startup Sequence

 1. Load configuration and build the logger.
 2. Connect to PostgreSQL and Redis.
 3. Run database migrations (idempotent).
 4. Build the credential resolver and domain handlers.
 5. Serve HTTP until a signal arrives, then drain in-flight requests.

No business logic lives here. All wiring is explicit constructor injection.
*/
func runServer(ctx context.Context) error {
	// ── 1. Configuration & Logger ─────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := newLogger(cfg.Debug)
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("sessions_backend", cfg.Sessions.Backend),
		slog.Bool("basic_auth", cfg.Sessions.EnableBasicAuth),
	)

	// Misconfiguration should fail fast rather than hang.
	startupCtx, startupCancel := context.WithTimeout(ctx, 30*time.Second)
	defer startupCancel()

	// ── 2. Storage ────────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, pgstore.PoolOptions{
		MaxConns:         cfg.DatabaseMaxConns,
		StatementTimeout: cfg.DatabaseStatementTimeout,
	}, log)
	if err != nil {
		return startupFailure(log, "connect to postgres", err)
	}
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, cfg.RedisPoolSize, log)
	if err != nil {
		return startupFailure(log, "connect to redis", err)
	}
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 3. Migrations ─────────────────────────────────────────────────────
	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
		return startupFailure(log, "run migrations", err)
	}

	// ── 4. Authentication ─────────────────────────────────────────────────
	tokens, err := sec.NewTokenService([]byte(cfg.JWTSecretKey))
	if err != nil {
		return startupFailure(log, "initialize token service", err)
	}

	authenticator, err := authn.NewAuthenticator(cfg.Sessions, log)
	if err != nil {
		return startupFailure(log, "initialize authenticator", err)
	}

	accountRepository := auth.NewAccountRepository(pool)
	sessionRepository := auth.NewSessionRepository(rdb)
	apiKeyRepository := apikey.NewRepository(pool)
	memberStore := members.NewStore(pool)

	deps := authn.ResolverDeps{
		Accounts:        accountRepository,
		Sessions:        sessionRepository,
		APIKeys:         apiKeyRepository,
		Authenticator:   authenticator,
		Tokens:          tokens,
		EnableBasicAuth: cfg.Sessions.EnableBasicAuth,
		Logger:          log,
	}

	var collectors *metrics.Metrics
	if cfg.MetricsEnabled {
		collectors = metrics.New()
		deps.Observer = collectors
	}

	resolver := authn.NewResolver(deps)
	authenticate := func(options authn.Options) func(http.Handler) http.Handler {
		return middleware.Authenticate(resolver, options)
	}

	// ── 5. Handlers ───────────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers([]api.HealthCheck{
		{Name: "postgres", Check: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }},
		{Name: "redis", Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }},
	}, log)

	loginLimiter := middleware.NewRateLimiter(ctx, rate.Limit(constants.LoginRateLimitRPS), constants.LoginRateLimitBurst)
	memberService := members.NewService(memberStore)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Accounts: account.NewHandler(
			account.NewService(account.NewRepository(pool), registrationPolicy(cfg), log),
			loginLimiter.Middleware,
		),
		Users: auth.NewHandler(
			auth.NewService(accountRepository, sessionRepository, resolver, tokens),
			authenticate,
			loginLimiter.Middleware,
		),
		APIKeys:             apikey.NewHandler(apikey.NewService(apiKeyRepository), authenticate),
		OrganizationMembers: members.NewHandler(memberService, memberStore, authenticate, members.Organization),
		RepositoryMembers:   members.NewHandler(memberService, memberStore, authenticate, members.Repository),
		Metrics:             collectors,
	}

	server := api.NewServer(ctx, cfg, log, handlers)

	// ── 6. Serve & Graceful Shutdown ──────────────────────────────────────
	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		return startupFailure(log, "serve http", err)
	}

	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		return err
	}

	log.Info("server stopped cleanly")
	return nil
}

// startupFailure logs a structured startup error and returns it wrapped with
// the step that failed.
func startupFailure(log *slog.Logger, step string, err error) error {
	log.Error("startup failure",
		slog.String("step", step),
		slog.Any("error", err),
	)
	return fmt.Errorf("%s: %w", step, err)
}

// registrationPolicy derives who may sign up from the deployment settings.
func registrationPolicy(cfg *config.Config) account.Policy {
	return account.Policy{
		Open:            cfg.Registrations && !cfg.SingleUser,
		RequirePassword: cfg.Sessions.Backend == config.BackendLocal,
	}
}
