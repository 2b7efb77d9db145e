// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authn

import (
	"context"
	"log/slog"

	"github.com/charted-dev/charted/internal/platform/sec"
)

// Static verifies passwords against a fixed username to hash map from configuration.
type Static struct {
	users map[string]string
}

// NewStatic builds the map, normalizing usernames.
//
// Plaintext values are hashed at startup and logged as a warning. Argon2id and
// bcrypt values that do not parse are skipped.
func NewStatic(users map[string]string, logger *slog.Logger) *Static {
	hashed := make(map[string]string, len(users))

	for name, value := range users {
		username, err := NormalizeUsername(name)
		if err != nil {
			logger.Warn("static_user_invalid_username", slog.String("username", name), slog.Any("error", err))
			continue
		}

		if sec.IsPasswordHash(value) {
			if _, err := sec.VerifyPassword("", value); err != nil {
				logger.Warn("static_user_invalid_hash_skipped", slog.String("username", username), slog.Any("error", err))
				continue
			}
			hashed[username] = value
			continue
		}

		logger.Warn("static_user_plaintext_password",
			slog.String("username", username),
			slog.String("hint", "generate a hash with 'charted admin authz hash-password' and use it instead"),
		)

		hash, err := sec.HashPassword(value)
		if err != nil {
			logger.Warn("static_user_hash_failed", slog.String("username", username), slog.Any("error", err))
			continue
		}
		hashed[username] = hash
	}

	return &Static{users: hashed}
}

func (backend *Static) Name() string { return "static" }

// Authenticate returns [ErrInvalidPassword] both for unknown users and for mismatches.
func (backend *Static) Authenticate(_ context.Context, request Request) error {
	if request.Account == nil {
		return ErrInvalidPassword
	}

	hash, ok := backend.users[request.Account.Username]
	if !ok {
		return ErrInvalidPassword
	}

	matched, err := sec.VerifyPassword(request.Password, hash)
	if err != nil {
		return &BackendError{Backend: backend.Name(), Err: err}
	}
	if !matched {
		return ErrInvalidPassword
	}

	return nil
}
