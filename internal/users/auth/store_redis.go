// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/charted-dev/charted/internal/authn"
	"github.com/charted-dev/charted/internal/platform/apperr"
	"github.com/charted-dev/charted/internal/platform/constants"
)

// # Session Repository

// RedisSessionRepository implements [SessionRepository] using Redis.
//
// Each session is a JSON value under 'charted:sessions:{id}' that expires with
// the refresh token. A per-user set indexes the sessions an account owns.
type RedisSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository creates a new Redis-backed [SessionRepository].
func NewSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, ttl: constants.RefreshTokenTTL}
}

func sessionKey(id string) string {
	return constants.RedisPrefixSession + id
}

func userSessionsKey(userID string) string {
	return constants.RedisPrefixUserSession + userID
}

/*
Create stores the session and indexes it under its owner.

Parameters:
  - context: context.Context
  - session: *authn.Session

Returns:
  - error: Encoding or Redis failures
*/
func (repository *RedisSessionRepository) Create(context context.Context, session *authn.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	_, err = repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Set(context, sessionKey(session.ID), payload, repository.ttl)
		pipe.SAdd(context, userSessionsKey(session.Owner), session.ID)
		pipe.Expire(context, userSessionsKey(session.Owner), repository.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a session by its ID.

Description: Returns apperr.NotFound if the session was deleted or expired.
*/
func (repository *RedisSessionRepository) FindByID(context context.Context, id string) (*authn.Session, error) {
	payload, err := repository.client.Get(context, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	session := &authn.Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}

	return session, nil
}

// Delete removes the session and its index entry.
func (repository *RedisSessionRepository) Delete(context context.Context, session *authn.Session) error {
	_, err := repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Del(context, sessionKey(session.ID))
		pipe.SRem(context, userSessionsKey(session.Owner), session.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}

	return nil
}

// ListForUser returns the live session IDs of userID, pruning index entries
// whose session already expired.
func (repository *RedisSessionRepository) ListForUser(context context.Context, userID string) ([]string, error) {
	ids, err := repository.client.SMembers(context, userSessionsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis_session_list_failed: %w", err)
	}

	live := make([]string, 0, len(ids))
	for _, id := range ids {
		exists, err := repository.client.Exists(context, sessionKey(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("redis_session_exists_failed: %w", err)
		}
		if exists == 0 {
			_ = repository.client.SRem(context, userSessionsKey(userID), id).Err()
			continue
		}
		live = append(live, id)
	}

	return live, nil
}
