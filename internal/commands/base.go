// Package commands provides shared initialization for release-draft
// subcommands.
package commands

import (
	"context"
	"os"
	"path/filepath"

	"github.com/alan/release-draft/cmd"
	"github.com/alan/release-draft/internal/config"
	"github.com/alan/release-draft/internal/github"
	"github.com/alan/release-draft/internal/version"
)

// BaseCommand provides common fields and initialization for all commands
type BaseCommand struct {
	Flags   cmd.Flags
	Options *cmd.Options
	Config  *config.Config
	Client  *github.Client
	Context context.Context
	Cwd     string
}

// Init resolves the invocation options and loads the release config. It is
// enough for read-only commands; commands that write call InitClient too.
func (bc *BaseCommand) Init() error {
	opts, err := cmd.Resolve(bc.Flags)
	if err != nil {
		return err
	}
	bc.Options = opts

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	bc.Cwd = cwd

	raw, err := config.Load(opts.ConfigFile, cwd)
	if err != nil {
		return err
	}
	bc.Config = raw

	bc.Context = context.Background()
	return nil
}

// InitClient validates the platform inputs and constructs the GitHub client
func (bc *BaseCommand) InitClient() error {
	if err := bc.Options.RequireRepo(); err != nil {
		return err
	}
	if err := bc.Options.RequireBranch(); err != nil {
		return err
	}
	if err := bc.Options.RequireToken(); err != nil {
		return err
	}

	bc.Client = github.NewClient(bc.Context, bc.Options.Token, bc.Options.Org, bc.Options.Repo)
	return nil
}

// Languages returns the archetypes to try: the language flag/input wins,
// then the config file's language key. Empty means all known archetypes.
func (bc *BaseCommand) Languages() []string {
	input := bc.Options.Language
	if input == "" && bc.Config != nil {
		input = bc.Config.Language
	}
	return version.ParseLanguages(input)
}

// VersionRoot is the directory version manifests are resolved from
func (bc *BaseCommand) VersionRoot() string {
	if bc.Options.Directory != "" {
		return filepath.Join(bc.Cwd, bc.Options.Directory)
	}
	return bc.Cwd
}
