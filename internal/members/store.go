// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package members

import (
	"context"

	"github.com/charted-dev/charted/internal/platform/sec"
	"github.com/charted-dev/charted/pkg/pagination"
)

// # Member Data Access

// Store defines the data access contract for member tables.
//
// It satisfies middleware.MemberLookup through FindMembership.
type Store interface {
	// FindMembership returns accountID's permissions, or NOT_FOUND.
	FindMembership(context context.Context, table, entityID, accountID string) (sec.MemberPermissions, error)

	/*
		List returns one page of an entity's members, oldest first.

		Returns:
		  - []*Member: The page
		  - int: Total number of members
		  - error: Database failures
	*/
	List(context context.Context, kind Kind, entityID string, params pagination.Params) ([]*Member, int, error)

	// UpdatePermissions replaces a member's permission bits and returns the row.
	UpdatePermissions(context context.Context, kind Kind, entityID, accountID string, permissions sec.MemberPermissions) (*Member, error)

	// Delete removes a member. Returns NOT_FOUND when no row matched.
	Delete(context context.Context, kind Kind, entityID, accountID string) error
}
