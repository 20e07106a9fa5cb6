// Package cmd defines the shared invocation options for release-draft
// commands: flag values with GitHub Actions environment fallbacks.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// DefaultTagPrefix seeds the default tag template when no config overrides it
const DefaultTagPrefix = "v"

// Flags holds the raw flag values shared by subcommands
type Flags struct {
	Repo       string
	Branch     string
	Language   string
	Directory  string
	TagPrefix  string
	ConfigFile string
}

// Register adds the shared flags to a command
func (f *Flags) Register(command *cobra.Command) {
	command.Flags().StringVar(&f.Repo, "repo", "", "Repository as owner/repo (defaults to GITHUB_REPOSITORY)")
	command.Flags().StringVarP(&f.Branch, "branch", "b", "", "Branch to sync (defaults to the GitHub ref environment)")
	command.Flags().StringVar(&f.Language, "language", "", "Language archetypes to try, e.g. \"rust\" or \"rust,node\" (defaults to the config file, then all)")
	command.Flags().StringVarP(&f.Directory, "directory", "d", "", "Subdirectory holding the version manifest (relative to the repo root)")
	command.Flags().StringVar(&f.TagPrefix, "tag-prefix", "", "Prefix for the default tag template (defaults to \"v\")")
	command.Flags().StringVarP(&f.ConfigFile, "config-file", "c", "", "Release config file path (defaults to .github/release-draft.yml)")
}

// Options are the resolved invocation inputs. Fields a command requires but
// that resolved empty are that command's error to report.
type Options struct {
	Org        string
	Repo       string
	Branch     string
	Language   string
	Directory  string
	TagPrefix  string
	ConfigFile string
	Token      string
	CommitSHA  string
}

// Resolve merges flags with the GitHub Actions environment: each flag falls
// back to its INPUT_* variable, then to the workflow's GITHUB_* context.
func Resolve(f Flags) (*Options, error) {
	directory, err := NormalizeDirectory(fallback(f.Directory, "directory"))
	if err != nil {
		return nil, err
	}

	tagPrefix := fallback(f.TagPrefix, "tag-prefix")
	if strings.TrimSpace(tagPrefix) == "" {
		tagPrefix = DefaultTagPrefix
	}

	opts := &Options{
		Branch:     resolveBranch(f.Branch),
		Language:   fallback(f.Language, "language"),
		Directory:  directory,
		TagPrefix:  tagPrefix,
		ConfigFile: fallback(f.ConfigFile, "config-file"),
		Token:      resolveToken(),
		CommitSHA:  strings.TrimSpace(os.Getenv("GITHUB_SHA")),
	}

	repo := fallback(f.Repo, "")
	if repo == "" {
		repo = os.Getenv("GITHUB_REPOSITORY")
	}
	if repo != "" {
		org, name, err := splitRepository(repo)
		if err != nil {
			return nil, err
		}
		opts.Org = org
		opts.Repo = name
	}

	return opts, nil
}

// RequireRepo errors unless the repository was resolved
func (o *Options) RequireRepo() error {
	if o.Org == "" || o.Repo == "" {
		return fmt.Errorf("repository is required: pass --repo owner/repo or set GITHUB_REPOSITORY")
	}
	return nil
}

// RequireBranch errors unless the branch was resolved
func (o *Options) RequireBranch() error {
	if o.Branch == "" {
		return fmt.Errorf("branch is required: pass --branch or run under a GitHub ref environment")
	}
	return nil
}

// RequireToken errors unless a token was resolved
func (o *Options) RequireToken() error {
	if o.Token == "" {
		return fmt.Errorf("missing GitHub token: set the github-token input or GITHUB_TOKEN")
	}
	return nil
}

// ReadActionInput reads a GitHub Actions input from its INPUT_* variable,
// accepting both dashed and underscored forms
func ReadActionInput(name string) string {
	key := "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	alternate := strings.ReplaceAll(key, "-", "_")
	if alternate != key {
		if value, ok := os.LookupEnv(alternate); ok {
			return value
		}
	}
	return ""
}

// NormalizeDirectory validates and canonicalizes the directory input.
// Empty and "." mean unset; absolute paths are rejected.
func NormalizeDirectory(input string) (string, error) {
	value := strings.TrimSpace(input)
	value = strings.TrimRight(value, "/\\")
	if value == "" || value == "." {
		return "", nil
	}
	if filepath.IsAbs(value) {
		return "", fmt.Errorf("directory must be a relative path within the repository: %q", input)
	}

	value = strings.TrimPrefix(value, "./")
	if value == "" || value == "." {
		return "", nil
	}
	return value, nil
}

func fallback(flagValue, inputName string) string {
	if strings.TrimSpace(flagValue) != "" {
		return strings.TrimSpace(flagValue)
	}
	if inputName == "" {
		return ""
	}
	return strings.TrimSpace(ReadActionInput(inputName))
}

// resolveBranch prefers the flag, then the PR head ref, then the ref name,
// then a heads ref
func resolveBranch(flagValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return strings.TrimSpace(flagValue)
	}

	if head := strings.TrimSpace(os.Getenv("GITHUB_HEAD_REF")); head != "" {
		return head
	}
	if name := strings.TrimSpace(os.Getenv("GITHUB_REF_NAME")); name != "" {
		return name
	}
	if ref := strings.TrimSpace(os.Getenv("GITHUB_REF")); ref != "" {
		if branch, ok := strings.CutPrefix(ref, "refs/heads/"); ok {
			return branch
		}
	}
	return ""
}

func resolveToken() string {
	if token := strings.TrimSpace(ReadActionInput("github-token")); token != "" {
		return token
	}
	return strings.TrimSpace(os.Getenv("GITHUB_TOKEN"))
}

func splitRepository(repository string) (string, string, error) {
	org, repo, ok := strings.Cut(repository, "/")
	if !ok || org == "" || repo == "" {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/repo", repository)
	}
	return org, repo, nil
}
