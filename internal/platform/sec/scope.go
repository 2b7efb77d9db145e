// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"encoding/json"
	"fmt"
)

// # API Key Scopes

// APIKeyScope is a single capability an API key may be granted.
type APIKeyScope uint64

const (
	ScopeUserAccess        APIKeyScope = 1 << 0
	ScopeUserUpdate        APIKeyScope = 1 << 1
	ScopeUserDelete        APIKeyScope = 1 << 2
	ScopeUserConnections   APIKeyScope = 1 << 3
	ScopeUserNotifications APIKeyScope = 1 << 4
	ScopeUserAvatarUpdate  APIKeyScope = 1 << 5
	ScopeUserSessionsList  APIKeyScope = 1 << 6

	ScopeRepoAccess     APIKeyScope = 1 << 7
	ScopeRepoCreate     APIKeyScope = 1 << 8
	ScopeRepoDelete     APIKeyScope = 1 << 9
	ScopeRepoUpdate     APIKeyScope = 1 << 10
	ScopeRepoWrite      APIKeyScope = 1 << 11 // Deprecated: use ScopeRepoUpdate.
	ScopeRepoIconUpdate APIKeyScope = 1 << 12

	ScopeRepoReleaseCreate APIKeyScope = 1 << 13
	ScopeRepoReleaseUpdate APIKeyScope = 1 << 14
	ScopeRepoReleaseDelete APIKeyScope = 1 << 15

	ScopeRepoMembersList        APIKeyScope = 1 << 16
	ScopeRepoMemberUpdate       APIKeyScope = 1 << 17
	ScopeRepoMemberKick         APIKeyScope = 1 << 18
	ScopeRepoMemberInviteAccess APIKeyScope = 1 << 19
	ScopeRepoMemberInviteUpdate APIKeyScope = 1 << 20 // Deprecated: invites are immutable.
	ScopeRepoMemberInviteDelete APIKeyScope = 1 << 21
	ScopeRepoWebhookList        APIKeyScope = 1 << 22
	ScopeRepoWebhookCreate      APIKeyScope = 1 << 23
	ScopeRepoWebhookUpdate      APIKeyScope = 1 << 24
	ScopeRepoWebhookDelete      APIKeyScope = 1 << 25
	ScopeRepoWebhookEventAccess APIKeyScope = 1 << 26
	ScopeRepoWebhookEventDelete APIKeyScope = 1 << 27

	ScopeAPIKeyView   APIKeyScope = 1 << 28
	ScopeAPIKeyCreate APIKeyScope = 1 << 29
	ScopeAPIKeyDelete APIKeyScope = 1 << 30
	ScopeAPIKeyUpdate APIKeyScope = 1 << 31

	ScopeOrgAccess             APIKeyScope = 1 << 32
	ScopeOrgCreate             APIKeyScope = 1 << 33
	ScopeOrgUpdate             APIKeyScope = 1 << 34
	ScopeOrgDelete             APIKeyScope = 1 << 35
	ScopeOrgMemberInvites      APIKeyScope = 1 << 36
	ScopeOrgMemberList         APIKeyScope = 1 << 37
	ScopeOrgMemberKick         APIKeyScope = 1 << 38
	ScopeOrgMemberUpdate       APIKeyScope = 1 << 39
	ScopeOrgWebhookList        APIKeyScope = 1 << 40
	ScopeOrgWebhookCreate      APIKeyScope = 1 << 41
	ScopeOrgWebhookUpdate      APIKeyScope = 1 << 42
	ScopeOrgWebhookDelete      APIKeyScope = 1 << 43
	ScopeOrgWebhookEventList   APIKeyScope = 1 << 44
	ScopeOrgWebhookEventDelete APIKeyScope = 1 << 45

	ScopeAdminStats      APIKeyScope = 1 << 46
	ScopeAdminUserCreate APIKeyScope = 1 << 47
	ScopeAdminUserDelete APIKeyScope = 1 << 48
	ScopeAdminUserUpdate APIKeyScope = 1 << 49
	ScopeAdminOrgDelete  APIKeyScope = 1 << 50
	ScopeAdminOrgUpdate  APIKeyScope = 1 << 51

	// Added after the admin scopes, hence out of order with the other apikeys:* bits.
	ScopeAPIKeyList APIKeyScope = 1 << 52
)

var apiKeyScopeTable = flagTable[APIKeyScope]{
	{ScopeUserAccess, "user:access"},
	{ScopeUserUpdate, "user:update"},
	{ScopeUserDelete, "user:delete"},
	{ScopeUserConnections, "user:connections"},
	{ScopeUserNotifications, "user:notifications"},
	{ScopeUserAvatarUpdate, "user:avatar:update"},
	{ScopeUserSessionsList, "user:sessions:list"},
	{ScopeRepoAccess, "repo:access"},
	{ScopeRepoCreate, "repo:create"},
	{ScopeRepoDelete, "repo:delete"},
	{ScopeRepoUpdate, "repo:update"},
	{ScopeRepoWrite, "repo:write"},
	{ScopeRepoIconUpdate, "repo:icon:update"},
	{ScopeRepoReleaseCreate, "repo:releases:create"},
	{ScopeRepoReleaseUpdate, "repo:releases:update"},
	{ScopeRepoReleaseDelete, "repo:releases:delete"},
	{ScopeRepoMembersList, "repo:members:list"},
	{ScopeRepoMemberUpdate, "repo:members:update"},
	{ScopeRepoMemberKick, "repo:members:kick"},
	{ScopeRepoMemberInviteAccess, "repo:members:invites:access"},
	{ScopeRepoMemberInviteUpdate, "repo:members:invites:update"},
	{ScopeRepoMemberInviteDelete, "repo:members:invites:delete"},
	{ScopeRepoWebhookList, "repo:webhooks:list"},
	{ScopeRepoWebhookCreate, "repo:webhooks:create"},
	{ScopeRepoWebhookUpdate, "repo:webhooks:update"},
	{ScopeRepoWebhookDelete, "repo:webhooks:delete"},
	{ScopeRepoWebhookEventAccess, "repo:webhooks:events:access"},
	{ScopeRepoWebhookEventDelete, "repo:webhooks:events:delete"},
	{ScopeAPIKeyView, "apikeys:view"},
	{ScopeAPIKeyCreate, "apikeys:create"},
	{ScopeAPIKeyDelete, "apikeys:delete"},
	{ScopeAPIKeyUpdate, "apikeys:update"},
	{ScopeOrgAccess, "org:access"},
	{ScopeOrgCreate, "org:create"},
	{ScopeOrgUpdate, "org:update"},
	{ScopeOrgDelete, "org:delete"},
	{ScopeOrgMemberInvites, "org:members:invites"},
	{ScopeOrgMemberList, "org:members:list"},
	{ScopeOrgMemberKick, "org:members:kick"},
	{ScopeOrgMemberUpdate, "org:members:update"},
	{ScopeOrgWebhookList, "org:webhooks:list"},
	{ScopeOrgWebhookCreate, "org:webhooks:create"},
	{ScopeOrgWebhookUpdate, "org:webhooks:update"},
	{ScopeOrgWebhookDelete, "org:webhooks:delete"},
	{ScopeOrgWebhookEventList, "org:webhooks:events:list"},
	{ScopeOrgWebhookEventDelete, "org:webhooks:events:delete"},
	{ScopeAdminStats, "admin:stats"},
	{ScopeAdminUserCreate, "admin:users:create"},
	{ScopeAdminUserDelete, "admin:users:delete"},
	{ScopeAdminUserUpdate, "admin:users:update"},
	{ScopeAdminOrgDelete, "admin:orgs:delete"},
	{ScopeAdminOrgUpdate, "admin:orgs:update"},
	{ScopeAPIKeyList, "apikeys:list"},
}

func (s APIKeyScope) String() string {
	return apiKeyScopeTable.nameOf(s)
}

// APIKeyScopes is the scope bitfield of an API key.
type APIKeyScopes uint64

// NewAPIKeyScopes builds a bitfield from individual scopes.
func NewAPIKeyScopes(scopes ...APIKeyScope) APIKeyScopes {
	var value APIKeyScopes
	for _, scope := range scopes {
		value |= APIKeyScopes(scope)
	}
	return value
}

// ParseAPIKeyScopes folds scope names such as "repo:access" into a bitfield.
func ParseAPIKeyScopes(names []string) (APIKeyScopes, error) {
	value, err := apiKeyScopeTable.parseNames("api key scope", names)
	if err != nil {
		return 0, err
	}
	return APIKeyScopes(value), nil
}

// Uint64 returns the stored integer form.
func (s APIKeyScopes) Uint64() uint64 { return uint64(s) }

// HasAll reports whether every scope in required is granted.
func (s APIKeyScopes) HasAll(required APIKeyScopes) bool {
	return hasAll(uint64(s), uint64(required))
}

// Missing returns the scopes of required that s does not grant.
func (s APIKeyScopes) Missing(required APIKeyScopes) []APIKeyScope {
	return apiKeyScopeTable.split(uint64(required) &^ uint64(s))
}

// Names lists the granted scope names.
func (s APIKeyScopes) Names() []string {
	scopes := apiKeyScopeTable.split(uint64(s))
	names := make([]string, len(scopes))
	for i, scope := range scopes {
		names[i] = scope.String()
	}
	return names
}

func (s APIKeyScopes) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint64(s))
}

func (s *APIKeyScopes) UnmarshalJSON(data []byte) error {
	value, err := apiKeyScopeTable.unmarshalBits("api key scope", data)
	if err != nil {
		return err
	}
	*s = APIKeyScopes(value)
	return nil
}

// String renders the scopes for logs.
func (s APIKeyScopes) String() string {
	return fmt.Sprint(s.Names())
}
