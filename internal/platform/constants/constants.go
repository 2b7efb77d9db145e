// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package constants holds the fixed values shared across layers: server
// timeouts, rate limits, token lifetimes, header names and storage keys.
// Values an operator may want to change live in config instead.
package constants

import "time"

// # Metadata

const (
	AppName    = "charted-server"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout bounds how long in-flight requests may drain on shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS applies to every route, per client IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often idle IPs are forgotten.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute

	// LoginRateLimitRPS allows one login attempt every five seconds per IP on average.
	LoginRateLimitRPS = 0.2

	// LoginRateLimitBurst is the number of login attempts allowed back to back.
	LoginRateLimitBurst = 5
)

// # Sessions

const (
	// AccessTokenTTL is how long a session access token is valid.
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is how long a session refresh token, and the session itself, is valid.
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// # HTTP Headers

const (
	HeaderOrigin        = "Origin"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// # JSON Field Identifiers

const (
	FieldStatus = "status"
	FieldChecks = "checks"
)

// # Member Tables

const (
	TableOrganizationMembers = "organization_members"
	TableRepositoryMembers   = "repository_members"
)

// # Redis Prefixes

const (
	RedisPrefixSession     = "charted:sessions:"
	RedisPrefixUserSession = "charted:sessions:user:"
)
