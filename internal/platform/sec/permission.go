// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"encoding/json"
	"fmt"
)

// # Member Permissions

// MemberPermission is a single capability granted to an organization or
// repository member. Each value has exactly one bit set.
type MemberPermission uint64

const (
	// Invite new members.
	MemberInvite   MemberPermission = 1 << 0
	// Update other members' permissions.
	MemberUpdate   MemberPermission = 1 << 1
	// Remove members.
	MemberKick     MemberPermission = 1 << 2
	// Update the entity's metadata.
	MetadataUpdate MemberPermission = 1 << 3
	// Create repositories (organizations only).
	RepoCreate     MemberPermission = 1 << 4
	// Delete repositories (organizations only).
	RepoDelete     MemberPermission = 1 << 5
	WebhookCreate  MemberPermission = 1 << 6
	WebhookUpdate  MemberPermission = 1 << 7
	WebhookDelete  MemberPermission = 1 << 8
	// Delete the entity's metadata.
	MetadataDelete MemberPermission = 1 << 9
)

var memberPermissionTable = flagTable[MemberPermission]{
	{MemberInvite, "member:invite"},
	{MemberUpdate, "member:update"},
	{MemberKick, "member:kick"},
	{MetadataUpdate, "metadata:update"},
	{RepoCreate, "repo:create"},
	{RepoDelete, "repo:delete"},
	{WebhookCreate, "webhooks:create"},
	{WebhookUpdate, "webhooks:update"},
	{WebhookDelete, "webhooks:delete"},
	{MetadataDelete, "metadata:delete"},
}

// String returns the stable wire name, e.g. "member:invite".
func (p MemberPermission) String() string {
	return memberPermissionTable.nameOf(p)
}

// ParseMemberPermission resolves a wire name into its flag.
func ParseMemberPermission(name string) (MemberPermission, error) {
	flag, ok := memberPermissionTable.parse(name)
	if !ok {
		return 0, fmt.Errorf("sec: unknown member permission %q", name)
	}
	return flag, nil
}

// MemberPermissions is a set of [MemberPermission] flags stored as the OR of
// their bits. It is persisted as a 64-bit integer column.
type MemberPermissions uint64

// NewMemberPermissions builds a set from individual flags.
func NewMemberPermissions(flags ...MemberPermission) MemberPermissions {
	return MemberPermissions(0).Union(flags...)
}

// MemberPermissionsFromUint64 restores a stored value. Unknown bits are kept
// so the value round-trips unchanged.
func MemberPermissionsFromUint64(value uint64) MemberPermissions {
	return MemberPermissions(value)
}

// AllMemberPermissions returns the set containing every known flag.
func AllMemberPermissions() MemberPermissions {
	return MemberPermissions(memberPermissionTable.all())
}

// Uint64 returns the stored integer form.
func (p MemberPermissions) Uint64() uint64 {
	return uint64(p)
}

// Union returns p with every flag in flags added.
func (p MemberPermissions) Union(flags ...MemberPermission) MemberPermissions {
	for _, flag := range flags {
		p |= MemberPermissions(flag)
	}
	return p
}

// Has reports whether a single flag is set.
func (p MemberPermissions) Has(flag MemberPermission) bool {
	return hasAll(uint64(p), uint64(flag))
}

// HasAll reports whether every flag in required is also set in p.
func (p MemberPermissions) HasAll(required MemberPermissions) bool {
	return hasAll(uint64(p), uint64(required))
}

// Flags lists the known flags contained in p.
func (p MemberPermissions) Flags() []MemberPermission {
	return memberPermissionTable.split(uint64(p))
}

// Names lists the wire names of the known flags contained in p.
func (p MemberPermissions) Names() []string {
	flags := p.Flags()
	names := make([]string, len(flags))
	for i, flag := range flags {
		names[i] = flag.String()
	}
	return names
}

// ParseMemberPermissions folds wire names into a set.
func ParseMemberPermissions(names []string) (MemberPermissions, error) {
	value, err := memberPermissionTable.parseNames("member permission", names)
	return MemberPermissions(value), err
}

// MarshalJSON encodes the set as its integer value.
func (p MemberPermissions) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint64(p))
}

// UnmarshalJSON accepts either an integer or an array of wire names.
func (p *MemberPermissions) UnmarshalJSON(data []byte) error {
	value, err := memberPermissionTable.unmarshalBits("member permission", data)
	if err != nil {
		return err
	}
	*p = MemberPermissions(value)
	return nil
}
