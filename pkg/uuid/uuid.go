// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuid generates the identifiers used for accounts, sessions and API
// keys. They are UUIDv7, so primary keys sort by creation time.
package uuid

import "github.com/google/uuid"

// New returns a new UUIDv7 string. It panics if the system entropy source fails.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Valid reports whether s parses as a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
