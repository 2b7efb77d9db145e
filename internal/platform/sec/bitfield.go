// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/bits"
)

// # Bitfield Tables

// namedFlag pairs a single-bit flag with its stable wire name.
type namedFlag[F ~uint64] struct {
	flag F
	name string
}

// flagTable is the ordered name table of a bitfield type.
//
// Bit positions are persisted as integers. Entries may only be appended with
// new, unused bits; existing entries are never renumbered.
type flagTable[F ~uint64] []namedFlag[F]

func (table flagTable[F]) nameOf(flag F) string {
	for _, entry := range table {
		if entry.flag == flag {
			return entry.name
		}
	}
	return fmt.Sprintf("bit(%d)", bits.TrailingZeros64(uint64(flag)))
}

func (table flagTable[F]) parse(name string) (F, bool) {
	for _, entry := range table {
		if entry.name == name {
			return entry.flag, true
		}
	}
	return 0, false
}

// split returns the known flags set in value, in table order.
func (table flagTable[F]) split(value uint64) []F {
	flags := make([]F, 0, bits.OnesCount64(value))
	for _, entry := range table {
		if value&uint64(entry.flag) != 0 {
			flags = append(flags, entry.flag)
		}
	}
	return flags
}

func (table flagTable[F]) all() uint64 {
	var value uint64
	for _, entry := range table {
		value |= uint64(entry.flag)
	}
	return value
}

// parseNames folds a list of names into a bit value, rejecting unknown names.
func (table flagTable[F]) parseNames(kind string, names []string) (uint64, error) {
	var value uint64
	for _, name := range names {
		flag, ok := table.parse(name)
		if !ok {
			return 0, fmt.Errorf("sec: unknown %s %q", kind, name)
		}
		value |= uint64(flag)
	}
	return value, nil
}

// unmarshalBits accepts either a JSON integer or an array of flag names.
func (table flagTable[F]) unmarshalBits(kind string, data []byte) (uint64, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return 0, fmt.Errorf("sec: invalid %s list: %w", kind, err)
		}
		return table.parseNames(kind, names)
	}

	var value uint64
	if err := json.Unmarshal(data, &value); err != nil {
		return 0, fmt.Errorf("sec: invalid %s bitfield: %w", kind, err)
	}
	return value, nil
}

// hasAll reports whether every bit of required is set in value.
func hasAll(value, required uint64) bool {
	return value&required == required
}
