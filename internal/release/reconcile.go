// Package release decides whether a branch's draft release is created or
// updated. It is pure: callers supply the already-fetched release list and
// apply the resulting plan themselves.
package release

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alan/release-draft/internal/config"
	"github.com/alan/release-draft/internal/github"
)

// Action is the write the caller must perform
type Action string

const (
	// ActionCreate means no draft exists for the branch yet
	ActionCreate Action = "create"
	// ActionUpdate means the existing draft is overwritten in place
	ActionUpdate Action = "update"
)

// ErrAmbiguousDraft indicates more than one draft release exists for the
// branch. The one-draft-per-branch invariant is corrupted; picking one to
// update would guess wrong, so the run fails instead.
var ErrAmbiguousDraft = errors.New("ambiguous draft state")

// Plan is the computed write: which action to take and the full payload.
// ReleaseID is set only for updates.
type Plan struct {
	Action    Action
	ReleaseID int64
	Payload   github.ReleasePayload
}

// Reconcile computes the create-or-update plan for the branch's draft.
// Drafts are matched by target commitish: exactly the branch the release
// points at, never its title or tag.
func Reconcile(releases []github.Release, branch, directory, version, body string, cfg *config.Config, prerelease bool) (*Plan, error) {
	payload := github.ReleasePayload{
		TagName:         RenderRef(cfg.TagTemplate, version, directory),
		Name:            RenderRef(cfg.NameTemplate, version, directory),
		Body:            body,
		Prerelease:      prerelease,
		TargetCommitish: branch,
	}

	var drafts []github.Release
	for _, r := range releases {
		if r.Draft && r.TargetCommitish == branch {
			drafts = append(drafts, r)
		}
	}

	switch len(drafts) {
	case 0:
		return &Plan{Action: ActionCreate, Payload: payload}, nil
	case 1:
		return &Plan{Action: ActionUpdate, ReleaseID: drafts[0].ID, Payload: payload}, nil
	default:
		return nil, fmt.Errorf("%w: found %d draft releases for branch %q, expected at most one", ErrAmbiguousDraft, len(drafts), branch)
	}
}

// RenderRef substitutes the tag/name template tokens: $VERSION and
// $DIRECTORY only
func RenderRef(template, version, directory string) string {
	replacer := strings.NewReplacer(
		"$VERSION", version,
		"$DIRECTORY", directory,
	)
	return replacer.Replace(template)
}

// ScopeLabel names the release train: the branch, or branch/directory when
// a subdirectory is scoped
func ScopeLabel(branch, directory string) string {
	if directory != "" {
		return branch + "/" + directory
	}
	return branch
}

// LatestPublished returns the most recently published non-draft release
// targeting the branch, or nil. Publication time falls back to creation
// time for releases that never recorded one.
func LatestPublished(releases []github.Release, branch string) *github.Release {
	var latest *github.Release
	for i := range releases {
		r := &releases[i]
		if r.Draft || r.TargetCommitish != branch {
			continue
		}
		if latest == nil || publishedKey(r).After(publishedKey(latest)) {
			latest = r
		}
	}
	return latest
}

func publishedKey(r *github.Release) time.Time {
	if r.PublishedAt != nil {
		return *r.PublishedAt
	}
	return r.CreatedAt
}
