// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/charted-dev/charted/internal/platform/sec"
)

/*
TestVerifyPassword_Argon2id checks the primary hash format.
*/
func TestVerifyPassword_Argon2id(t *testing.T) {
	hash, err := sec.HashPassword("hunter2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.True(t, sec.IsPasswordHash(hash))

	matched, err := sec.VerifyPassword("hunter2", hash)
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = sec.VerifyPassword("hunter3", hash)
	require.NoError(t, err)
	assert.False(t, matched)
}

/*
TestVerifyPassword_Bcrypt checks that legacy bcrypt hashes are still accepted.
*/
func TestVerifyPassword_Bcrypt(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	matched, err := sec.VerifyPassword("hunter2", string(hashed))
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = sec.VerifyPassword("nope", string(hashed))
	require.NoError(t, err)
	assert.False(t, matched)
}

/*
TestVerifyPassword_Unparseable verifies that unknown or corrupt hashes fail closed.
*/
func TestVerifyPassword_Unparseable(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"plaintext", "hunter2"},
		{"empty", ""},
		{"corrupt_argon2id", "$argon2id$v=19$m=abc"},
		{"corrupt_bcrypt", "$2b$10$short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, err := sec.VerifyPassword("hunter2", tt.hash)
			assert.Error(t, err)
			assert.False(t, matched)
		})
	}
}

/*
TestHashToken verifies that token digests are deterministic and hide the raw value.
*/
func TestHashToken(t *testing.T) {
	raw, err := sec.GenerateAPIKey()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, sec.APIKeyPrefix))

	digest := sec.HashToken(raw)
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, sec.HashToken(raw))
	assert.NotContains(t, digest, raw)

	other, err := sec.GenerateAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, raw, other)
}
