// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charted-dev/charted/internal/authn"
	"github.com/charted-dev/charted/internal/platform/apperr"
	"github.com/charted-dev/charted/internal/platform/constants"
	platformredis "github.com/charted-dev/charted/internal/platform/redis"
	"github.com/charted-dev/charted/internal/users/auth"
)

func newSessionRepository(t *testing.T) (*auth.RedisSessionRepository, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client, err := platformredis.NewClient(context.Background(), "redis://"+server.Addr(), 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return auth.NewSessionRepository(client), server
}

/*
TestRedisSessionRepository_Lifecycle verifies create, lookup, listing and deletion.
*/
func TestRedisSessionRepository_Lifecycle(t *testing.T) {
	repository, server := newSessionRepository(t)
	ctx := context.Background()

	session := &authn.Session{
		ID:           "0190f3a4-6a8e-7cc1-9d2b-aaaaaaaaaaaa",
		Owner:        "0190f3a4-6a8e-7cc1-9d2b-3f4e5a6b7c8d",
		AccessToken:  "access",
		RefreshToken: "refresh",
		CreatedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	// 1. Create and read back
	require.NoError(t, repository.Create(ctx, session))
	assert.True(t, server.Exists(constants.RedisPrefixSession+session.ID))
	assert.Equal(t, constants.RefreshTokenTTL, server.TTL(constants.RedisPrefixSession+session.ID))

	found, err := repository.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session, found)

	// 2. Listed under the owner
	ids, err := repository.ListForUser(ctx, session.Owner)
	require.NoError(t, err)
	assert.Equal(t, []string{session.ID}, ids)

	// 3. Delete
	require.NoError(t, repository.Delete(ctx, session))

	_, err = repository.FindByID(ctx, session.ID)
	assert.True(t, apperr.IsNotFound(err))

	ids, err = repository.ListForUser(ctx, session.Owner)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisSessionRepository_Expiry(t *testing.T) {
	repository, server := newSessionRepository(t)
	ctx := context.Background()

	session := &authn.Session{ID: "expiring", Owner: "owner"}
	require.NoError(t, repository.Create(ctx, session))

	server.FastForward(constants.RefreshTokenTTL + time.Second)

	_, err := repository.FindByID(ctx, session.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestRedisSessionRepository_ListPrunesExpired(t *testing.T) {
	repository, server := newSessionRepository(t)
	ctx := context.Background()

	require.NoError(t, repository.Create(ctx, &authn.Session{ID: "live", Owner: "owner"}))
	require.NoError(t, repository.Create(ctx, &authn.Session{ID: "gone", Owner: "owner"}))
	server.Del(constants.RedisPrefixSession + "gone")

	ids, err := repository.ListForUser(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, []string{"live"}, ids)

	members, err := server.Members(constants.RedisPrefixUserSession + "owner")
	require.NoError(t, err)
	assert.Equal(t, []string{"live"}, members)
}

func TestRedisSessionRepository_Unavailable(t *testing.T) {
	repository, server := newSessionRepository(t)
	server.Close()

	_, err := repository.FindByID(context.Background(), "anything")
	require.Error(t, err)
	assert.False(t, apperr.IsNotFound(err))
}
