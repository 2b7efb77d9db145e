// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ctxutil carries per-request values through [context.Context].

Middleware stores the request ID, the request-scoped logger and the resolved
caller; handlers and the response writer read them back. Keys are unexported,
so nothing outside this package can overwrite them.
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/charted-dev/charted/internal/platform/sec"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	loggerKey
	identityKey
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the X-Request-ID of the request, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the request-scoped logger, falling back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithIdentity attaches the caller resolved by the authentication middleware.
func WithIdentity(ctx context.Context, identity *sec.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity returns the caller, or nil when the route is not authenticated.
func GetIdentity(ctx context.Context) *sec.Identity {
	identity, _ := ctx.Value(identityKey).(*sec.Identity)
	return identity
}
