// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authn

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/charted-dev/charted/internal/platform/sec"
)

// Local verifies passwords against the hash stored on the account.
//
// Argon2id is memory-hard, so the number of verifications running at once is
// bounded; callers beyond the bound wait or give up when their context ends.
type Local struct {
	workers *semaphore.Weighted
}

// NewLocal creates a [Local] backend allowing maxConcurrent parallel verifications.
func NewLocal(maxConcurrent int64) *Local {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Local{workers: semaphore.NewWeighted(maxConcurrent)}
}

func (backend *Local) Name() string { return "local" }

// Authenticate fails closed when the account has no stored password.
func (backend *Local) Authenticate(ctx context.Context, request Request) error {
	if request.Account == nil || request.Account.PasswordHash == nil {
		return &BackendError{Backend: backend.Name(), Err: ErrPasswordNotSet}
	}

	if err := backend.workers.Acquire(ctx, 1); err != nil {
		return &BackendError{Backend: backend.Name(), Err: err}
	}
	defer backend.workers.Release(1)

	matched, err := sec.VerifyPassword(request.Password, *request.Account.PasswordHash)
	if err != nil {
		return &BackendError{Backend: backend.Name(), Err: err}
	}
	if !matched {
		return ErrInvalidPassword
	}

	return nil
}
