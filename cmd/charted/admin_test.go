// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charted-dev/charted/internal/platform/sec"
)

func runHashPassword(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newHashPasswordCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return strings.TrimSpace(stdout.String()), err
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr bool
	}{
		{name: "argument", args: []string{"noeliscutieuwu"}},
		{name: "stdin", stdin: "noeliscutieuwu\n", args: []string{"--stdin"}},
		{name: "stdin without newline", stdin: "noeliscutieuwu", args: []string{"--stdin"}},
		{name: "nothing", wantErr: true},
		{name: "empty stdin", args: []string{"--stdin"}, wantErr: true},
		{name: "both", stdin: "x\n", args: []string{"--stdin", "y"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := runHashPassword(t, tt.stdin, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

			ok, err := sec.VerifyPassword("noeliscutieuwu", hash)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestMemberPermissions(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "single", args: []string{"member:invite"}, want: "1"},
		{name: "several", args: []string{"member:invite", "member:kick"}, want: strconv.FormatUint(sec.NewMemberPermissions(sec.MemberInvite, sec.MemberKick).Uint64(), 10)},
		{name: "all", args: []string{"--all"}, want: "1023"},
		{name: "unknown name", args: []string{"member:ban"}, wantErr: true},
		{name: "nothing", wantErr: true},
		{name: "names and all", args: []string{"--all", "member:kick"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newMemberPermissionsCommand()
			var stdout bytes.Buffer
			cmd.SetOut(&stdout)
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(stdout.String()))
		})
	}
}
