// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A '.env' file in the
working directory is loaded first when present.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Once loaded, configuration is read-only and passed to components through
their constructors.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the charted API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"3651"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL              string        `env:"DATABASE_URL,required"`
	DatabaseMaxConns         int32         `env:"DATABASE_MAX_CONNS"         envDefault:"10"`
	DatabaseStatementTimeout time.Duration `env:"DATABASE_STATEMENT_TIMEOUT" envDefault:"15s"`

	// MigrationPath overrides the migrations compiled into the binary with a
	// directory on disk. Empty uses the embedded set.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Session store (Redis)
	RedisURL      string `env:"REDIS_URL,required"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	// JWTSecretKey is the HMAC secret used to sign HS512 session tokens.
	JWTSecretKey string `env:"JWT_SECRET_KEY,required"`

	// Sessions configures how callers are authenticated.
	Sessions Sessions `envPrefix:"SESSIONS_"`

	// Registrations allows anyone to create an account through POST /users.
	Registrations bool `env:"REGISTRATIONS" envDefault:"true"`

	// SingleUser marks a registry with one owner; registrations are always closed.
	SingleUser bool `env:"SINGLE_USER" envDefault:"false"`

	// MetricsEnabled exposes Prometheus metrics on /metrics.
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`

	// Cross-Origin Resource Sharing
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
}

// Backend names accepted by SESSIONS_BACKEND.
const (
	BackendLocal  = "local"
	BackendLDAP   = "ldap"
	BackendStatic = "static"
)

// Sessions selects the password backend and which credential schemes are accepted.
type Sessions struct {
	Backend string `env:"BACKEND" envDefault:"local"`

	// EnableBasicAuth allows 'Authorization: Basic' on every route.
	EnableBasicAuth bool `env:"ENABLE_BASIC_AUTH" envDefault:"false"`

	// MaxConcurrentHashes bounds parallel Argon2id verifications.
	MaxConcurrentHashes int64 `env:"MAX_CONCURRENT_HASHES" envDefault:"4"`

	// StaticUsers maps usernames to Argon2id hashes, e.g. "noel:$argon2id$...;boel:$argon2id$...".
	StaticUsers map[string]string `env:"STATIC_USERS" envSeparator:";"`

	LDAP LDAP `envPrefix:"LDAP_"`
}

// LDAP configures the directory used by the 'ldap' backend.
type LDAP struct {
	// Server is an ldap:// or ldaps:// URL.
	Server string `env:"SERVER" envDefault:"ldap://localhost:389"`

	// BindDN is the DN template; '%u' is replaced with the escaped username.
	// OpenLDAP: 'uid=%u,dc=domain,dc=com'. Active Directory: '%u@domain'.
	BindDN string `env:"BIND_DN" envDefault:"uid=%u,dc=domain,dc=com"`

	StartTLS              bool          `env:"STARTTLS"                 envDefault:"false"`
	InsecureSkipTLSVerify bool          `env:"INSECURE_SKIP_TLS_VERIFY" envDefault:"false"`
	ConnectionTimeout     time.Duration `env:"CONNECTION_TIMEOUT"       envDefault:"5s"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	return Parse()
}

// Parse maps the current environment into a [Config] without reading .env files.
func Parse() (*Config, error) {
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// validate checks cross-field constraints env tags cannot express.
func (c *Config) validate() error {
	var errs []error

	if len(c.JWTSecretKey) < 32 {
		errs = append(errs, errors.New("JWT_SECRET_KEY must be at least 32 bytes"))
	}

	switch c.Sessions.Backend {
	case BackendLocal:
	case BackendLDAP:
		if c.Sessions.LDAP.Server == "" {
			errs = append(errs, errors.New("SESSIONS_LDAP_SERVER is required for the ldap backend"))
		}
		if !strings.Contains(c.Sessions.LDAP.BindDN, "%u") {
			errs = append(errs, errors.New("SESSIONS_LDAP_BIND_DN must contain the %u placeholder"))
		}
		if c.Sessions.LDAP.ConnectionTimeout <= 0 {
			errs = append(errs, errors.New("SESSIONS_LDAP_CONNECTION_TIMEOUT must be positive"))
		}
	case BackendStatic:
		if len(c.Sessions.StaticUsers) == 0 {
			errs = append(errs, errors.New("SESSIONS_STATIC_USERS must not be empty for the static backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("SESSIONS_BACKEND must be one of local, ldap, static; got %q", c.Sessions.Backend))
	}

	if c.Sessions.MaxConcurrentHashes < 1 {
		errs = append(errs, errors.New("SESSIONS_MAX_CONCURRENT_HASHES must be at least 1"))
	}

	return errors.Join(errs...)
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins lists the origins CORS accepts outside development.
func (c *Config) AllowedOrigins() []string {
	return c.ExtraOrigins
}
