// Package github wraps the GitHub API operations needed to keep a draft
// release in sync: listing releases, searching merged PRs, and writing the
// draft back.
package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// Client wraps the GitHub API client for a single repository
type Client struct {
	client *github.Client
	org    string
	repo   string
}

// NewClient creates a new GitHub client with token authentication
func NewClient(ctx context.Context, token, org, repo string) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		client: github.NewClient(tc),
		org:    org,
		repo:   repo,
	}
}

// PlatformError wraps a failed GitHub API call with the operation that
// attempted it. All client methods return their failures through this type.
type PlatformError struct {
	Op  string
	Err error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("github: %s: %v", e.Op, e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// platformErr wraps err unless it is nil
func platformErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PlatformError{Op: op, Err: err}
}

// paginatedList drains a paginated list endpoint, calling fetch with
// increasing page numbers until the response reports no next page
func paginatedList[T any](fetch func(page int) ([]T, *github.Response, error)) ([]T, error) {
	var all []T
	page := 1

	for {
		items, resp, err := fetch(page)
		if err != nil {
			return nil, err
		}

		all = append(all, items...)

		if resp.NextPage == 0 {
			break
		}
		page = resp.NextPage
	}

	return all, nil
}
