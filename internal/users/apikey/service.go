// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apikey

import (
	"context"
	"fmt"
	"time"

	"github.com/charted-dev/charted/internal/authn"
	"github.com/charted-dev/charted/internal/platform/apperr"
	"github.com/charted-dev/charted/internal/platform/sec"
	"github.com/charted-dev/charted/internal/platform/validate"
	"github.com/charted-dev/charted/pkg/pagination"
	"github.com/charted-dev/charted/pkg/uuid"
)

// # Field Identifiers

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldScopes      = "scopes"
	FieldExpiresIn   = "expires_in"
)

// Service implements API key use cases.
type Service struct {
	repository Repository
	clock      func() time.Time
}

// NewService constructs a new [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository, clock: time.Now}
}

// CreateInput describes a new key.
type CreateInput struct {
	Name        string
	Description string
	Scopes      []string
	// ExpiresIn is optional; zero means the key never expires.
	ExpiresIn time.Duration
}

// Created carries the raw token, which is never retrievable again.
type Created struct {
	*authn.APIKey
	Token string `json:"token"`
}

/*
Create generates a key for owner.

Description: Scope names are validated against the known scope table. The raw
token is returned once; only its digest is stored.

Returns:
  - *Created: The key with its raw token
  - error: VALIDATION_ERROR, CONFLICT or storage failures
*/
func (service *Service) Create(context context.Context, owner string, input CreateInput) (*Created, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 64).
		MaxLen(FieldDescription, input.Description, 140).
		Custom(FieldExpiresIn, input.ExpiresIn < 0, "Must not be negative")

	scopes, err := sec.ParseAPIKeyScopes(input.Scopes)
	validator.Custom(FieldScopes, err != nil, "Contains an unknown scope")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	token, err := sec.GenerateAPIKey()
	if err != nil {
		return nil, fmt.Errorf("apikey_service_generate_failed: %w", err)
	}

	now := service.clock()
	key := &authn.APIKey{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Owner:       owner,
		Scopes:      scopes,
		CreatedAt:   now,
		TokenHash:   sec.HashToken(token),
	}
	if input.ExpiresIn > 0 {
		expiresAt := now.Add(input.ExpiresIn)
		key.ExpiresAt = &expiresAt
	}

	if err := service.repository.Create(context, key); err != nil {
		return nil, err
	}

	return &Created{APIKey: key, Token: token}, nil
}

// List returns one page of the owner's keys.
func (service *Service) List(context context.Context, owner string, params pagination.Params) ([]*authn.APIKey, pagination.Meta, error) {
	keys, total, err := service.repository.ListByOwner(context, owner, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return keys, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// Delete removes a key the owner owns. Keys owned by others look missing.
func (service *Service) Delete(context context.Context, owner, id string) error {
	key, err := service.repository.FindOwned(context, id, owner)
	if err != nil {
		return err
	}

	if err := service.repository.Delete(context, key.ID); err != nil && !apperr.IsNotFound(err) {
		return err
	}
	return nil
}
