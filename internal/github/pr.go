package github

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
)

// PR represents a merged pull request from GitHub
type PR struct {
	Number   int
	Title    string
	Author   string
	URL      string
	Labels   []string
	MergedAt time.Time
}

// SearchMergedPRs fetches all PRs merged into the given branch, optionally
// bounded below by since. Results are ordered oldest-first by merge time.
func (c *Client) SearchMergedPRs(ctx context.Context, branch string, since *time.Time) ([]PR, error) {
	query := buildSearchQuery(c.org, c.repo, branch, since)

	issues, err := paginatedList(func(page int) ([]*github.Issue, *github.Response, error) {
		opts := &github.SearchOptions{
			ListOptions: github.ListOptions{
				PerPage: 100,
				Page:    page,
			},
		}
		slog.Debug("GitHub API: Searching merged PRs", "query", query, "page", page)
		result, resp, err := c.client.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, resp, err
		}
		return result.Issues, resp, nil
	})
	if err != nil {
		return nil, platformErr("search merged pull requests", err)
	}

	var prs []PR
	for _, issue := range issues {
		if !issue.IsPullRequest() {
			continue
		}
		prs = append(prs, issueToPR(c.org, c.repo, issue))
	}

	sortByMergeTime(prs)

	slog.Debug("Fetched merged PRs", "branch", branch, "count", len(prs))
	return prs, nil
}

// issueToPR converts a search result to a PR record. The merge time is
// taken from closed-at: the search query only matches merged PRs, and for
// those the two timestamps are equal.
func issueToPR(org, repo string, issue *github.Issue) PR {
	var labels []string
	for _, label := range issue.Labels {
		labels = append(labels, label.GetName())
	}

	author := "unknown"
	if issue.User != nil {
		author = issue.User.GetLogin()
	}

	return PR{
		Number:   issue.GetNumber(),
		Title:    issue.GetTitle(),
		Author:   author,
		URL:      prURL(org, repo, issue.GetNumber()),
		Labels:   labels,
		MergedAt: issue.GetClosedAt().Time,
	}
}

// buildSearchQuery constructs a GitHub search query for PRs merged into branch
func buildSearchQuery(org, repo, branch string, since *time.Time) string {
	parts := []string{
		fmt.Sprintf("repo:%s/%s", org, repo),
		"is:pr",
		"is:merged",
		fmt.Sprintf("base:%s", branch),
	}
	if since != nil {
		parts = append(parts, fmt.Sprintf("merged:>=%s", since.UTC().Format(time.RFC3339)))
	}
	return strings.Join(parts, " ")
}

// sortByMergeTime orders PRs oldest-first, keeping the incoming order for
// equal timestamps
func sortByMergeTime(prs []PR) {
	sort.SliceStable(prs, func(i, j int) bool {
		return prs[i].MergedAt.Before(prs[j].MergedAt)
	})
}

func prURL(org, repo string, number int) string {
	return fmt.Sprintf("https://github.com/%s/%s/pull/%d", org, repo, number)
}
