// Package main provides the entry point for the famitree CLI application.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version       = "0.1.0-dev"
	globalUser    string
	globalVerbose bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "famitree",
		Short:         "A family tree record keeper with versioned storage and an HTTP API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(globalVerbose)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&globalUser, "user", "u", "", "User to act as (overrides user.id in config)")
	rootCmd.PersistentFlags().BoolVar(&globalVerbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(
		newInitCmd(),
		newPersonCmd(),
		newRelateCmd(),
		newTreeCmd(),
		newBranchCmd(),
		newAncestorsCmd(),
		newImportCmd(),
		newExportCmd(),
		newRemindersCmd(),
		newSummaryCmd(),
		newIndexCmd(),
		newSearchCmd(),
		newHistoryCmd(),
		newUsersCmd(),
		newServeCmd(),
	)

	return rootCmd
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
