// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/charted-dev/charted/internal/authn"
	"github.com/charted-dev/charted/internal/platform/apperr"
)

// # Account Repository

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of [AccountRepository].
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

const selectAccount = `
	SELECT id, username, email, password_hash, name, admin, created_at, updated_at
	FROM users`

// FindByID retrieves an account by its primary key.
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*authn.Account, error) {
	return repository.findOne(context, selectAccount+` WHERE id = $1`, id)
}

/*
FindByUsername retrieves an account by its canonical username.

Description: Callers pass a username already normalized by
[authn.NormalizeUsername]; the column stores the same canonical form.
*/
func (repository *PostgresAccountRepository) FindByUsername(context context.Context, username string) (*authn.Account, error) {
	return repository.findOne(context, selectAccount+` WHERE username = $1`, username)
}

// FindByEmail retrieves an account by email, compared case-insensitively.
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*authn.Account, error) {
	return repository.findOne(context, selectAccount+` WHERE lower(email) = lower($1)`, email)
}

func (repository *PostgresAccountRepository) findOne(context context.Context, query string, argument string) (*authn.Account, error) {
	account := &authn.Account{}
	err := repository.pool.QueryRow(context, query, argument).Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.DisplayName,
		&account.IsAdmin,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_failed: %w", err)
	}

	return account, nil
}
