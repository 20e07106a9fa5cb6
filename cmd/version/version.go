// Package version implements the version command: resolve and print the
// project version without touching the platform.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alan/release-draft/internal/commands"
	resolver "github.com/alan/release-draft/internal/version"
)

// VersionCommand encapsulates the version command
type VersionCommand struct {
	commands.BaseCommand
}

// NewVersionCmd creates and returns the version command
func NewVersionCmd() *cobra.Command {
	versionCmd := &VersionCommand{}

	command := &cobra.Command{
		Use:   "version",
		Short: "Resolve and print the project version from its manifest",
		Long: `Version resolves the project version from the configured language
manifests (Cargo.toml, package.json, pyproject.toml) and prints it.
Useful for checking what a sync run would release.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := versionCmd.Init(); err != nil {
				return err
			}
			return versionCmd.Run()
		},
	}

	versionCmd.Flags.Register(command)

	return command
}

// Run executes the version command
func (vc *VersionCommand) Run() error {
	resolved, err := resolver.Resolve(vc.VersionRoot(), vc.Languages())
	if err != nil {
		return err
	}

	fmt.Println(resolved)
	return nil
}
