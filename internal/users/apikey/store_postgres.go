// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apikey

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/charted-dev/charted/internal/authn"
	"github.com/charted-dev/charted/internal/platform/apperr"
	"github.com/charted-dev/charted/internal/platform/dberr"
	"github.com/charted-dev/charted/internal/platform/sec"
	"github.com/charted-dev/charted/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const selectKey = `
	SELECT id, name, description, owner, scopes, expires_at, created_at, token_hash
	FROM api_keys`

// Create inserts the key. Scopes are stored as a BIGINT bitfield.
func (repository *PostgresRepository) Create(context context.Context, key *authn.APIKey) error {
	const query = `
		INSERT INTO api_keys (id, name, description, owner, scopes, expires_at, created_at, token_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := repository.pool.Exec(context, query,
		key.ID,
		key.Name,
		key.Description,
		key.Owner,
		int64(key.Scopes.Uint64()),
		key.ExpiresAt,
		key.CreatedAt,
		key.TokenHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == dberr.UniqueViolation {
			return apperr.Conflict("An API key with this name already exists")
		}
		return fmt.Errorf("postgres_apikey_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByToken resolves a key by the digest of its raw token.

Description: When owner is non-empty, keys belonging to anyone else are
treated as missing.
*/
func (repository *PostgresRepository) FindByToken(context context.Context, tokenHash, owner string) (*authn.APIKey, error) {
	query := selectKey + ` WHERE token_hash = $1 AND ($2 = '' OR owner::text = $2)`
	return repository.findOne(context, query, tokenHash, owner)
}

// FindOwned resolves a key by ID for its owner.
func (repository *PostgresRepository) FindOwned(context context.Context, id, owner string) (*authn.APIKey, error) {
	return repository.findOne(context, selectKey+` WHERE id = $1 AND owner = $2`, id, owner)
}

// Delete removes a key by ID.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	tag, err := repository.pool.Exec(context, `DELETE FROM api_keys WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres_apikey_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("API key")
	}
	return nil
}

// ListByOwner returns a page of keys ordered by creation time, newest first.
func (repository *PostgresRepository) ListByOwner(context context.Context, owner string, params pagination.Params) ([]*authn.APIKey, int, error) {
	var total int
	if err := repository.pool.QueryRow(context, `SELECT count(*) FROM api_keys WHERE owner = $1`, owner).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_apikey_repo_count_failed: %w", err)
	}

	rows, err := repository.pool.Query(context,
		selectKey+` WHERE owner = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		owner, params.Limit, params.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_apikey_repo_list_failed: %w", err)
	}

	keys, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*authn.APIKey, error) {
		return scanKey(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_apikey_repo_list_scan_failed: %w", err)
	}

	return keys, total, nil
}

func (repository *PostgresRepository) findOne(context context.Context, query string, arguments ...any) (*authn.APIKey, error) {
	key, err := scanKey(repository.pool.QueryRow(context, query, arguments...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("API key")
		}
		return nil, fmt.Errorf("postgres_apikey_repo_find_failed: %w", err)
	}
	return key, nil
}

func scanKey(row pgx.Row) (*authn.APIKey, error) {
	key := &authn.APIKey{}
	var description *string
	var scopes int64

	err := row.Scan(
		&key.ID,
		&key.Name,
		&description,
		&key.Owner,
		&scopes,
		&key.ExpiresAt,
		&key.CreatedAt,
		&key.TokenHash,
	)
	if err != nil {
		return nil, err
	}

	if description != nil {
		key.Description = *description
	}
	key.Scopes = sec.APIKeyScopes(uint64(scopes))
	return key, nil
}
