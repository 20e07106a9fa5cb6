// Package sync implements the sync command: one run resolves the version,
// gathers merged PRs, renders notes, and creates or updates the branch's
// draft release.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/alan/release-draft/internal/commands"
	"github.com/alan/release-draft/internal/config"
	"github.com/alan/release-draft/internal/github"
	"github.com/alan/release-draft/internal/notes"
	"github.com/alan/release-draft/internal/release"
	"github.com/alan/release-draft/internal/version"
)

// Platform is the slice of the GitHub client the sync command uses
type Platform interface {
	ListReleases(ctx context.Context) ([]github.Release, error)
	SearchMergedPRs(ctx context.Context, branch string, since *time.Time) ([]github.PR, error)
	CreateRelease(ctx context.Context, payload github.ReleasePayload) (*github.Release, error)
	UpdateRelease(ctx context.Context, id int64, payload github.ReleasePayload) (*github.Release, error)
	ResolveCommitSHA(ctx context.Context, ref string) (string, error)
}

// SyncCommand encapsulates the sync command
type SyncCommand struct {
	commands.BaseCommand
	Platform Platform
	DryRun   bool
}

// NewSyncCmd creates and returns the sync command
func NewSyncCmd() *cobra.Command {
	syncCmd := &SyncCommand{}

	command := &cobra.Command{
		Use:   "sync",
		Short: "Create or update the branch's draft release from merged PRs",
		Long: `Sync resolves the project version from its manifest, gathers PRs merged
into the branch since the last published release, renders the release notes,
and creates or updates the branch's single draft release.

Requires a GitHub token via the github-token input or GITHUB_TOKEN.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := syncCmd.Init(); err != nil {
				return err
			}
			if err := syncCmd.InitClient(); err != nil {
				return err
			}
			syncCmd.Platform = syncCmd.Client
			return syncCmd.Run()
		},
	}

	syncCmd.Flags.Register(command)
	command.Flags().BoolVar(&syncCmd.DryRun, "dry-run", false, "Compute and print the draft payload without writing it")

	return command
}

// Run executes the sync command
func (sc *SyncCommand) Run() error {
	opts := sc.Options
	scope := release.ScopeLabel(opts.Branch, opts.Directory)
	cfg := config.Resolve(sc.Config, opts.TagPrefix, scope)

	resolved, err := version.Resolve(sc.VersionRoot(), sc.Languages())
	if err != nil {
		return err
	}
	prerelease := isPrerelease(resolved)
	slog.Info("Resolved version", "version", resolved, "prerelease", prerelease, "scope", scope)

	releases, err := sc.Platform.ListReleases(sc.Context)
	if err != nil {
		return err
	}

	latest := release.LatestPublished(releases, opts.Branch)

	if !hasDraft(releases, opts.Branch) && latest != nil && opts.CommitSHA != "" {
		matches, err := sc.publishedMatchesCommit(latest, opts.CommitSHA)
		if err != nil {
			return err
		}
		if matches {
			slog.Info("Skipping draft release: a published release already exists for the current commit",
				"scope", scope, "commit", opts.CommitSHA, "tag", latest.TagName)
			return nil
		}
	}

	prs, err := sc.Platform.SearchMergedPRs(sc.Context, opts.Branch, sinceTime(latest))
	if err != nil {
		return err
	}

	body := notes.Render(prs, resolved, cfg)

	plan, err := release.Reconcile(releases, opts.Branch, opts.Directory, resolved, body, cfg, prerelease)
	if err != nil {
		return err
	}

	if sc.DryRun {
		printPlan(plan, scope)
		return nil
	}

	switch plan.Action {
	case release.ActionCreate:
		created, err := sc.Platform.CreateRelease(sc.Context, plan.Payload)
		if err != nil {
			return err
		}
		slog.Info("Created draft release", "id", created.ID, "tag", created.TagName, "scope", scope)
	case release.ActionUpdate:
		updated, err := sc.Platform.UpdateRelease(sc.Context, plan.ReleaseID, plan.Payload)
		if err != nil {
			return err
		}
		slog.Info("Updated draft release", "id", updated.ID, "tag", updated.TagName, "scope", scope)
	}

	return nil
}

// publishedMatchesCommit reports whether the published release already
// points at the current commit, directly or through its tag
func (sc *SyncCommand) publishedMatchesCommit(published *github.Release, sha string) (bool, error) {
	if published.TargetCommitish == sha {
		return true, nil
	}

	tag := strings.TrimSpace(published.TagName)
	if tag == "" {
		return false, nil
	}

	releaseSHA, err := sc.Platform.ResolveCommitSHA(sc.Context, tag)
	if err != nil {
		return false, err
	}
	return releaseSHA == sha, nil
}

// hasDraft reports whether any draft release targets the branch
func hasDraft(releases []github.Release, branch string) bool {
	for _, r := range releases {
		if r.Draft && r.TargetCommitish == branch {
			return true
		}
	}
	return false
}

// sinceTime is the lower bound for the merged-PR search: the latest
// published release's publication time, or nil for an unbounded search
func sinceTime(published *github.Release) *time.Time {
	if published == nil {
		return nil
	}
	if published.PublishedAt != nil {
		return published.PublishedAt
	}
	t := published.CreatedAt
	return &t
}

// isPrerelease reports whether the version carries a semver prerelease
// component. Unparseable versions are treated as stable.
func isPrerelease(v string) bool {
	parsed, err := semver.NewVersion(strings.TrimPrefix(v, "v"))
	if err != nil {
		return false
	}
	return parsed.Prerelease() != ""
}

func printPlan(plan *release.Plan, scope string) {
	fmt.Printf("Action:     %s\n", plan.Action)
	if plan.Action == release.ActionUpdate {
		fmt.Printf("Release ID: %d\n", plan.ReleaseID)
	}
	fmt.Printf("Scope:      %s\n", scope)
	fmt.Printf("Tag:        %s\n", plan.Payload.TagName)
	fmt.Printf("Name:       %s\n", plan.Payload.Name)
	fmt.Printf("Prerelease: %t\n", plan.Payload.Prerelease)
	fmt.Printf("\n%s\n", plan.Payload.Body)
}
