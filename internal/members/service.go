// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package members

import (
	"context"

	"github.com/charted-dev/charted/internal/platform/apperr"
	"github.com/charted-dev/charted/internal/platform/sec"
	"github.com/charted-dev/charted/internal/platform/validate"
	"github.com/charted-dev/charted/pkg/pagination"
)

const (
	FieldAccount     = "account"
	FieldPermissions = "permissions"
)

// Service implements member management use cases.
//
// Route middleware has already checked the caller's own permission bits
// before any method here runs.
type Service struct {
	store Store
}

// NewService constructs a new [Service].
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns one page of an entity's members.
func (service *Service) List(context context.Context, kind Kind, entityID string, params pagination.Params) ([]*Member, pagination.Meta, error) {
	members, total, err := service.store.List(context, kind, entityID, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return members, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
UpdatePermissions replaces the permissions of accountID.

Description: The caller may only grant bits it holds itself, so a member with
member:update cannot escalate past its own set.

Returns:
  - *Member: The updated row
  - error: VALIDATION_ERROR, FORBIDDEN, NOT_FOUND or storage failures
*/
func (service *Service) UpdatePermissions(
	context context.Context,
	kind Kind,
	entityID string,
	caller *sec.Identity,
	accountID string,
	names []string,
) (*Member, error) {
	// ── 1. Validation ─────────────────────────────────────────────────────
	validator := &validate.Validator{}
	validator.UUID(FieldAccount, accountID)

	permissions, err := sec.ParseMemberPermissions(names)
	validator.Custom(FieldPermissions, err != nil, "Contains an unknown permission")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 2. Escalation Check ───────────────────────────────────────────────
	held, err := service.store.FindMembership(context, kind.Table, entityID, caller.UserID)
	if err != nil {
		return nil, err
	}
	if !held.HasAll(permissions) {
		return nil, apperr.Forbidden("Cannot grant permissions you do not hold")
	}

	// ── 3. Persist ────────────────────────────────────────────────────────
	return service.store.UpdatePermissions(context, kind, entityID, accountID, permissions)
}

// Kick removes accountID from the entity.
func (service *Service) Kick(context context.Context, kind Kind, entityID, accountID string) error {
	validator := &validate.Validator{}
	if err := validator.UUID(FieldAccount, accountID).Err(); err != nil {
		return err
	}
	return service.store.Delete(context, kind, entityID, accountID)
}
