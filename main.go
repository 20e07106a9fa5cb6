// package main is the entry point for the release-draft tool
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	synccmd "github.com/alan/release-draft/cmd/sync"
	versioncmd "github.com/alan/release-draft/cmd/version"
)

func main() {
	var logLevel string
	var logFormat string

	rootCmd := &cobra.Command{
		Use:   "release-draft",
		Short: "Keep one draft release per branch in sync with merged PRs",
		Long: `release-draft is a CI tool that maintains exactly one draft release per
branch on GitHub. Each run resolves the project version from its manifest,
gathers PRs merged since the last published release, renders categorized
release notes, and creates or updates the branch's draft release.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogger(logLevel, logFormat)
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&logFormat, "log-format", "f", "text", "Log format (text, json)")

	rootCmd.AddCommand(synccmd.NewSyncCmd())
	rootCmd.AddCommand(versioncmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger(level, format string) {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
