// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package members manages organization and repository membership.

Both entity kinds share one model. A [Kind] names the member table, the column
that references the entity, and the API key scopes each member route needs.
*/
package members

import (
	"time"

	"github.com/charted-dev/charted/internal/platform/constants"
	"github.com/charted-dev/charted/internal/platform/sec"
)

// Member is one account's membership of an organization or repository.
type Member struct {
	ID          string                `json:"id"`
	Account     string                `json:"account"`
	EntityID    string                `json:"entity_id"`
	DisplayName *string               `json:"display_name,omitempty"`
	Permissions sec.MemberPermissions `json:"permissions"`
	Public      bool                  `json:"public_visibility"`
	JoinedAt    time.Time             `json:"joined_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// # Entity Kinds

// Kind binds a member table to its entity column and route scopes.
type Kind struct {
	Table  string
	Column string

	ListScope   sec.APIKeyScope
	UpdateScope sec.APIKeyScope
	KickScope   sec.APIKeyScope
}

var (
	// Organization members live in 'organization_members'.
	Organization = Kind{
		Table:       constants.TableOrganizationMembers,
		Column:      "organization",
		ListScope:   sec.ScopeOrgMemberList,
		UpdateScope: sec.ScopeOrgMemberUpdate,
		KickScope:   sec.ScopeOrgMemberKick,
	}

	// Repository members live in 'repository_members'.
	Repository = Kind{
		Table:       constants.TableRepositoryMembers,
		Column:      "repository",
		ListScope:   sec.ScopeRepoMembersList,
		UpdateScope: sec.ScopeRepoMemberUpdate,
		KickScope:   sec.ScopeRepoMemberKick,
	}
)

// KindOf returns the [Kind] for a member table name. Only the two known tables
// are accepted, so the name is safe to interpolate into SQL.
func KindOf(table string) (Kind, bool) {
	switch table {
	case Organization.Table:
		return Organization, true
	case Repository.Table:
		return Repository, true
	}
	return Kind{}, false
}
