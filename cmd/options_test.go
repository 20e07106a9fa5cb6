package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearGitHubEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GITHUB_REPOSITORY", "GITHUB_HEAD_REF", "GITHUB_REF_NAME", "GITHUB_REF",
		"GITHUB_SHA", "GITHUB_TOKEN", "INPUT_GITHUB-TOKEN", "INPUT_GITHUB_TOKEN",
		"INPUT_LANGUAGE", "INPUT_DIRECTORY", "INPUT_TAG-PREFIX", "INPUT_TAG_PREFIX",
		"INPUT_CONFIG-FILE", "INPUT_CONFIG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestResolveFromFlags(t *testing.T) {
	clearGitHubEnv(t)

	opts, err := Resolve(Flags{
		Repo:      "testorg/testrepo",
		Branch:    "release-2.0",
		Language:  "rust",
		Directory: "services/api/",
		TagPrefix: "app-",
	})
	require.NoError(t, err)

	assert.Equal(t, "testorg", opts.Org)
	assert.Equal(t, "testrepo", opts.Repo)
	assert.Equal(t, "release-2.0", opts.Branch)
	assert.Equal(t, "rust", opts.Language)
	assert.Equal(t, "services/api", opts.Directory)
	assert.Equal(t, "app-", opts.TagPrefix)
}

func TestResolveEnvFallbacks(t *testing.T) {
	clearGitHubEnv(t)
	t.Setenv("GITHUB_REPOSITORY", "envorg/envrepo")
	t.Setenv("GITHUB_REF", "refs/heads/main")
	t.Setenv("GITHUB_SHA", "abc123")
	t.Setenv("GITHUB_TOKEN", "env-token")
	t.Setenv("INPUT_LANGUAGE", "node")

	opts, err := Resolve(Flags{})
	require.NoError(t, err)

	assert.Equal(t, "envorg", opts.Org)
	assert.Equal(t, "envrepo", opts.Repo)
	assert.Equal(t, "main", opts.Branch)
	assert.Equal(t, "abc123", opts.CommitSHA)
	assert.Equal(t, "env-token", opts.Token)
	assert.Equal(t, "node", opts.Language)
	assert.Equal(t, DefaultTagPrefix, opts.TagPrefix)
}

func TestResolveBranchPrecedence(t *testing.T) {
	clearGitHubEnv(t)
	t.Setenv("GITHUB_HEAD_REF", "feature/pr-head")
	t.Setenv("GITHUB_REF_NAME", "merge-ref")
	t.Setenv("GITHUB_REF", "refs/heads/other")

	opts, err := Resolve(Flags{})
	require.NoError(t, err)
	assert.Equal(t, "feature/pr-head", opts.Branch)

	opts, err = Resolve(Flags{Branch: "explicit"})
	require.NoError(t, err)
	assert.Equal(t, "explicit", opts.Branch)
}

func TestResolveInvalidRepository(t *testing.T) {
	clearGitHubEnv(t)

	_, err := Resolve(Flags{Repo: "no-slash"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner/repo")
}

func TestReadActionInputDashAndUnderscore(t *testing.T) {
	t.Setenv("INPUT_TAG_PREFIX", "release-")
	assert.Equal(t, "release-", ReadActionInput("tag-prefix"))

	t.Setenv("INPUT_TAG-PREFIX", "dashed-")
	assert.Equal(t, "dashed-", ReadActionInput("tag-prefix"))
}

func TestNormalizeDirectory(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "empty", input: "", expected: ""},
		{name: "dot", input: ".", expected: ""},
		{name: "dot slash", input: "./", expected: ""},
		{name: "plain", input: "services/api", expected: "services/api"},
		{name: "trailing slash", input: "services/api/", expected: "services/api"},
		{name: "leading dot slash", input: "./services/api", expected: "services/api"},
		{name: "absolute rejected", input: "/etc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDirectory(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRequireHelpers(t *testing.T) {
	opts := &Options{}
	assert.Error(t, opts.RequireRepo())
	assert.Error(t, opts.RequireBranch())
	assert.Error(t, opts.RequireToken())

	opts = &Options{Org: "o", Repo: "r", Branch: "main", Token: "t"}
	assert.NoError(t, opts.RequireRepo())
	assert.NoError(t, opts.RequireBranch())
	assert.NoError(t, opts.RequireToken())
}
