// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

// # Password Hashing

// PasswordParams are the Argon2id parameters used for every new hash.
//
// m=19456 KiB, t=2, p=1 matches the OWASP minimum for Argon2id.
var PasswordParams = &argon2id.Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

var (
	// ErrUnsupportedHash is returned when a stored hash is neither Argon2id nor bcrypt.
	ErrUnsupportedHash = errors.New("sec: unsupported password hash format")
)

// HashPassword hashes a plain-text password into an Argon2id PHC string.
func HashPassword(plainTextPassword string) (string, error) {
	hash, err := argon2id.CreateHash(plainTextPassword, PasswordParams)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return hash, nil
}

// VerifyPassword compares a plain-text password with a stored hash.
//
// Argon2id PHC strings are the primary format. Bcrypt hashes written by older
// deployments are still accepted. A mismatch returns (false, nil); a hash that
// cannot be parsed returns an error so the caller can fail closed.
func VerifyPassword(plainTextPassword, existingHash string) (bool, error) {
	switch {
	case strings.HasPrefix(existingHash, "$argon2id$"):
		matched, err := argon2id.ComparePasswordAndHash(plainTextPassword, existingHash)
		if err != nil {
			return false, fmt.Errorf("sec: invalid argon2id hash: %w", err)
		}
		return matched, nil

	case isBcryptHash(existingHash):
		err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("sec: invalid bcrypt hash: %w", err)
		}
		return true, nil

	default:
		return false, ErrUnsupportedHash
	}
}

// IsPasswordHash reports whether value looks like a hash [VerifyPassword] understands.
func IsPasswordHash(value string) bool {
	return strings.HasPrefix(value, "$argon2id$") || isBcryptHash(value)
}

func isBcryptHash(value string) bool {
	return strings.HasPrefix(value, "$2a$") ||
		strings.HasPrefix(value, "$2b$") ||
		strings.HasPrefix(value, "$2y$")
}
