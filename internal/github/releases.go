package github

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/go-github/v57/github"
)

// Release represents a release record from GitHub
type Release struct {
	ID              int64
	TagName         string
	Name            string
	Body            string
	Draft           bool
	Prerelease      bool
	TargetCommitish string
	CreatedAt       time.Time
	PublishedAt     *time.Time
}

// ReleasePayload is the write payload for creating or updating a release
type ReleasePayload struct {
	TagName         string
	Name            string
	Body            string
	Prerelease      bool
	TargetCommitish string
}

// ListReleases fetches all releases in the repository, drafts included
func (c *Client) ListReleases(ctx context.Context) ([]Release, error) {
	raw, err := paginatedList(func(page int) ([]*github.RepositoryRelease, *github.Response, error) {
		opts := &github.ListOptions{
			PerPage: 100,
			Page:    page,
		}
		return c.client.Repositories.ListReleases(ctx, c.org, c.repo, opts)
	})
	if err != nil {
		return nil, platformErr("list releases", err)
	}

	releases := make([]Release, 0, len(raw))
	for _, r := range raw {
		release := Release{
			ID:              r.GetID(),
			TagName:         r.GetTagName(),
			Name:            r.GetName(),
			Body:            r.GetBody(),
			Draft:           r.GetDraft(),
			Prerelease:      r.GetPrerelease(),
			TargetCommitish: r.GetTargetCommitish(),
			CreatedAt:       r.GetCreatedAt().Time,
		}
		if r.PublishedAt != nil {
			t := r.PublishedAt.Time
			release.PublishedAt = &t
		}
		releases = append(releases, release)
	}

	slog.Debug("Fetched releases", "count", len(releases))
	return releases, nil
}

// CreateRelease creates a new draft release from the payload
func (c *Client) CreateRelease(ctx context.Context, payload ReleasePayload) (*Release, error) {
	created, _, err := c.client.Repositories.CreateRelease(ctx, c.org, c.repo, releaseRequest(payload))
	if err != nil {
		return nil, platformErr("create release", err)
	}

	release := fromRepositoryRelease(created)
	return &release, nil
}

// UpdateRelease overwrites an existing release in place, keeping its identity
func (c *Client) UpdateRelease(ctx context.Context, id int64, payload ReleasePayload) (*Release, error) {
	updated, _, err := c.client.Repositories.EditRelease(ctx, c.org, c.repo, id, releaseRequest(payload))
	if err != nil {
		return nil, platformErr(fmt.Sprintf("update release %d", id), err)
	}

	release := fromRepositoryRelease(updated)
	return &release, nil
}

// ResolveCommitSHA resolves a tag or branch name to its commit SHA
func (c *Client) ResolveCommitSHA(ctx context.Context, ref string) (string, error) {
	commit, _, err := c.client.Repositories.GetCommit(ctx, c.org, c.repo, ref, nil)
	if err != nil {
		return "", platformErr(fmt.Sprintf("resolve commit for %q", ref), err)
	}
	return commit.GetSHA(), nil
}

// releaseRequest converts a payload to the go-github request type. Draft is
// always true: the tool never publishes.
func releaseRequest(payload ReleasePayload) *github.RepositoryRelease {
	return &github.RepositoryRelease{
		TagName:         github.String(payload.TagName),
		Name:            github.String(payload.Name),
		Body:            github.String(payload.Body),
		Draft:           github.Bool(true),
		Prerelease:      github.Bool(payload.Prerelease),
		TargetCommitish: github.String(payload.TargetCommitish),
	}
}

func fromRepositoryRelease(r *github.RepositoryRelease) Release {
	release := Release{
		ID:              r.GetID(),
		TagName:         r.GetTagName(),
		Name:            r.GetName(),
		Body:            r.GetBody(),
		Draft:           r.GetDraft(),
		Prerelease:      r.GetPrerelease(),
		TargetCommitish: r.GetTargetCommitish(),
		CreatedAt:       r.GetCreatedAt().Time,
	}
	if r.PublishedAt != nil {
		t := r.PublishedAt.Time
		release.PublishedAt = &t
	}
	return release
}
