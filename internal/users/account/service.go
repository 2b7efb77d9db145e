// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charted-dev/charted/internal/authn"
	"github.com/charted-dev/charted/internal/platform/sec"
	"github.com/charted-dev/charted/internal/platform/validate"
	"github.com/charted-dev/charted/pkg/uuid"
)

// Policy decides who may register and what they must provide.
type Policy struct {
	// Open is false when registrations are disabled or the registry is single-user.
	Open bool

	// RequirePassword is true for the local sessions backend.
	RequirePassword bool
}

// Service implements account registration.
type Service struct {
	repository Repository
	policy     Policy
	logger     *slog.Logger
	clock      func() time.Time
}

// NewService constructs a new [Service].
func NewService(repository Repository, policy Policy, logger *slog.Logger) *Service {
	return &Service{repository: repository, policy: policy, logger: logger, clock: time.Now}
}

// RegisterInput carries a sign-up request.
type RegisterInput struct {
	Username string
	Email    string
	Password string // Optional unless the policy requires it
}

/*
Register creates a new, non-admin account.

Description: The username is stored in its canonical form so later logins
and Basic credentials resolve to the same row.

Returns:
  - *authn.Account: The created account
  - error: REGISTRATIONS_DISABLED, MISSING_PASSWORD, VALIDATION_ERROR or CONFLICT
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*authn.Account, error) {
	// ── 1. Policy ─────────────────────────────────────────────────────────
	if !service.policy.Open {
		return nil, ErrRegistrationsDisabled
	}
	if service.policy.RequirePassword && input.Password == "" {
		return nil, ErrMissingPassword
	}

	// ── 2. Validation ─────────────────────────────────────────────────────
	username, err := authn.NormalizeUsername(input.Username)
	if err != nil {
		username = input.Username
	}

	validator := &validate.Validator{}
	validator.Name(FieldUsername, username).
		Email(FieldEmail, input.Email)
	if input.Password != "" {
		validator.MinLen(FieldPassword, input.Password, MinPasswordLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 3. Persist ────────────────────────────────────────────────────────
	now := service.clock()
	account := &authn.Account{
		ID:        uuid.New(),
		Username:  username,
		Email:     strings.TrimSpace(input.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if input.Password != "" {
		hash, err := sec.HashPassword(input.Password)
		if err != nil {
			return nil, fmt.Errorf("account_service_hash_failed: %w", err)
		}
		account.PasswordHash = &hash
	}

	if err := service.repository.Create(context, account); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "account_registered",
		slog.String("user_id", account.ID),
		slog.String("username", account.Username),
	)
	return account, nil
}
