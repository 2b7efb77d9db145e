// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/charted-dev/charted/internal/platform/sec"
)

func newAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative tooling",
	}

	authz := &cobra.Command{
		Use:   "authz",
		Short: "Authentication and authorization helpers",
	}
	authz.AddCommand(newHashPasswordCommand(), newMemberPermissionsCommand())

	cmd.AddCommand(authz)
	return cmd
}

type hashPasswordOptions struct {
	stdin bool
}

func newHashPasswordCommand() *cobra.Command {
	options := &hashPasswordOptions{}

	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print an Argon2id hash usable in SESSIONS_STATIC_USERS",
		Example: `  charted admin authz hash-password noeliscutieuwu
  echo -n "noeliscutieuwu" | charted admin authz hash-password --stdin`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := options.password(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			hash, err := sec.HashPassword(password)
			if err != nil {
				return fmt.Errorf("unable to hash password: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().BoolVar(&options.stdin, "stdin", false, "read the password from the first line of stdin")
	return cmd
}

func (options *hashPasswordOptions) password(stdin io.Reader, args []string) (string, error) {
	if options.stdin {
		if len(args) > 0 {
			return "", errors.New("pass the password either as an argument or with --stdin, not both")
		}

		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("unable to read stdin: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return "", errors.New("stdin did not contain a password")
		}
		return line, nil
	}

	if len(args) == 0 || args[0] == "" {
		return "", errors.New("a password is required")
	}
	return args[0], nil
}

func newMemberPermissionsCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "member-permissions [permission...]",
		Short: "Print the stored integer for a set of member permissions",
		Example: `  charted admin authz member-permissions member:invite member:kick
  charted admin authz member-permissions --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				if len(args) > 0 {
					return errors.New("pass permission names or --all, not both")
				}
				fmt.Fprintln(cmd.OutOrStdout(), sec.AllMemberPermissions().Uint64())
				return nil
			}

			if len(args) == 0 {
				return errors.New("at least one permission name is required")
			}
			permissions, err := sec.ParseMemberPermissions(args)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), permissions.Uint64())
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "grant every known permission")
	return cmd
}
