// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command charted runs the charted API server and its admin tooling.
//
// # Commands
//
//	charted server                               Start the HTTP API server.
//	charted admin authz hash-password [--stdin]  Print an Argon2id hash for the static backend.
//	charted version                              Print the build version.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/charted-dev/charted/internal/platform/constants"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(ctx).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCommand(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "charted",
		Short:         "Free, open source, and reliable Helm chart registry",
		SilenceUsage: true,
	}

	cmd.AddCommand(newServerCommand(ctx))
	cmd.AddCommand(newAdminCommand())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", constants.AppName, constants.AppVersion)
		},
	})

	return cmd
}

// newLogger builds the process logger. Output is JSON so log shippers can
// parse it without configuration.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
}
