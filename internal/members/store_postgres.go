// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package members

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/charted-dev/charted/internal/platform/apperr"
	"github.com/charted-dev/charted/internal/platform/dberr"
	"github.com/charted-dev/charted/internal/platform/sec"
	"github.com/charted-dev/charted/pkg/pagination"
)

// PostgresStore implements [Store] using pgx.
//
// Table and column names only ever come from a [Kind], never from input.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewStore creates a new PostgreSQL implementation of [Store].
func NewStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func selectMember(kind Kind) string {
	return fmt.Sprintf(`
		SELECT id, account, %s, display_name, permissions, public_visibility, joined_at, updated_at
		FROM %s`, kind.Column, kind.Table)
}

/*
FindMembership reads the permission bits of a single member row.

Description: The BIGINT column holds the bitfield reinterpreted as a signed
64-bit value, so bit 63 round-trips unchanged.
*/
func (store *PostgresStore) FindMembership(context context.Context, table, entityID, accountID string) (sec.MemberPermissions, error) {
	kind, ok := KindOf(table)
	if !ok {
		return 0, fmt.Errorf("postgres_member_store_unknown_table: %q", table)
	}

	query := fmt.Sprintf(`SELECT permissions FROM %s WHERE %s = $1 AND account = $2`, kind.Table, kind.Column)

	var permissions int64
	if err := store.pool.QueryRow(context, query, entityID, accountID).Scan(&permissions); err != nil {
		return 0, dberr.Wrap(err, "Member")
	}

	return sec.MemberPermissionsFromUint64(uint64(permissions)), nil
}

// List returns a page of members ordered by join time.
func (store *PostgresStore) List(context context.Context, kind Kind, entityID string, params pagination.Params) ([]*Member, int, error) {
	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`, kind.Table, kind.Column)
	if err := store.pool.QueryRow(context, countQuery, entityID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_member_store_count_failed: %w", err)
	}

	rows, err := store.pool.Query(context,
		selectMember(kind)+fmt.Sprintf(` WHERE %s = $1 ORDER BY joined_at ASC LIMIT $2 OFFSET $3`, kind.Column),
		entityID, params.Limit, params.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_member_store_list_failed: %w", err)
	}

	members, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Member, error) {
		return scanMember(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_member_store_list_scan_failed: %w", err)
	}

	return members, total, nil
}

// UpdatePermissions overwrites the bitfield and bumps updated_at.
func (store *PostgresStore) UpdatePermissions(context context.Context, kind Kind, entityID, accountID string, permissions sec.MemberPermissions) (*Member, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET permissions = $3, updated_at = now()
		WHERE %s = $1 AND account = $2
		RETURNING id, account, %s, display_name, permissions, public_visibility, joined_at, updated_at`,
		kind.Table, kind.Column, kind.Column)

	member, err := scanMember(store.pool.QueryRow(context, query, entityID, accountID, int64(permissions.Uint64())))
	if err != nil {
		return nil, dberr.Wrap(err, "Member")
	}
	return member, nil
}

// Delete removes the membership row.
func (store *PostgresStore) Delete(context context.Context, kind Kind, entityID, accountID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND account = $2`, kind.Table, kind.Column)

	tag, err := store.pool.Exec(context, query, entityID, accountID)
	if err != nil {
		return fmt.Errorf("postgres_member_store_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Member")
	}
	return nil
}

func scanMember(row pgx.Row) (*Member, error) {
	member := &Member{}
	var permissions int64

	err := row.Scan(
		&member.ID,
		&member.Account,
		&member.EntityID,
		&member.DisplayName,
		&permissions,
		&member.Public,
		&member.JoinedAt,
		&member.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	member.Permissions = sec.MemberPermissionsFromUint64(uint64(permissions))
	return member, nil
}
