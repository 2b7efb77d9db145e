// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// # Opaque Tokens

// APIKeyPrefix marks every raw API key handed out to a user.
const APIKeyPrefix = "charted_"

// GenerateSecureToken returns a URL-safe random string built from length random bytes.
func GenerateSecureToken(length int) (string, error) {
	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// GenerateAPIKey returns a new raw API key. Only its [HashToken] digest is persisted.
func GenerateAPIKey() (string, error) {
	token, err := GenerateSecureToken(32)
	if err != nil {
		return "", err
	}
	return APIKeyPrefix + token, nil
}

// HashToken returns the hex-encoded SHA-256 digest of an opaque token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
