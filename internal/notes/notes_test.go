package notes

import (
	"testing"

	"github.com/alan/release-draft/internal/config"
	"github.com/alan/release-draft/internal/github"
	"github.com/stretchr/testify/assert"
)

func resolved(cfg *config.Config) *config.Config {
	return config.Resolve(cfg, "v", "main")
}

func TestRenderChangeTemplateSubstitution(t *testing.T) {
	cfg := resolved(&config.Config{
		ChangeTemplate: "* $TITLE @$AUTHOR ($NUMBER)",
		Template:       "$CHANGES",
	})
	prs := []github.PR{
		{Number: 7, Title: "Fix bug", Author: "alice", URL: "https://x/pr/7"},
	}

	body := Render(prs, "1.0.0", cfg)

	assert.Equal(t, "* Fix bug @alice (https://x/pr/7)", body)
}

func TestRenderDefaultTemplate(t *testing.T) {
	cfg := resolved(nil)
	prs := []github.PR{
		{Number: 1, Title: "First change"},
		{Number: 2, Title: "Second change"},
	}

	body := Render(prs, "1.0.0", cfg)

	assert.Equal(t, "## Changes\n\nFirst change\nSecond change", body)
}

func TestRenderDeterministic(t *testing.T) {
	cfg := resolved(&config.Config{
		Categories: []config.Category{
			{Title: "Features", Labels: []string{"feature"}},
			{Title: "Fixes", Labels: []string{"bug"}},
		},
	})
	prs := []github.PR{
		{Number: 1, Title: "Add thing", Labels: []string{"feature"}},
		{Number: 2, Title: "Fix thing", Labels: []string{"bug"}},
		{Number: 3, Title: "Tidy docs"},
	}

	first := Render(prs, "2.0.0", cfg)
	second := Render(prs, "2.0.0", cfg)

	assert.Equal(t, first, second)
}

func TestRenderCategories(t *testing.T) {
	cfg := resolved(&config.Config{
		Categories: []config.Category{
			{Title: "Features", Labels: []string{"feature"}},
			{Title: "Fixes", Labels: []string{"bug", "hotfix"}},
			{Title: "Docs", Labels: []string{"documentation"}},
		},
		Template: "$CHANGES",
	})
	prs := []github.PR{
		{Number: 1, Title: "New widget", Labels: []string{"feature"}},
		{Number: 2, Title: "Patch crash", Labels: []string{"hotfix"}},
		{Number: 3, Title: "Chore work"},
	}

	body := Render(prs, "1.0.0", cfg)

	expected := "### Features\nNew widget\n\n" +
		"### Fixes\nPatch crash\n\n" +
		"### Other Changes\nChore work"
	assert.Equal(t, expected, body)
	// Docs matched nothing: no empty header
	assert.NotContains(t, body, "### Docs")
}

func TestRenderFirstCategoryWins(t *testing.T) {
	cfg := resolved(&config.Config{
		Categories: []config.Category{
			{Title: "Features", Labels: []string{"feature"}},
			{Title: "Fixes", Labels: []string{"bug"}},
		},
		Template: "$CHANGES",
	})
	// PR matches both categories; it must appear under Features only
	prs := []github.PR{
		{Number: 1, Title: "Dual label", Labels: []string{"bug", "feature"}},
	}

	body := Render(prs, "1.0.0", cfg)

	assert.Equal(t, "### Features\nDual label", body)
}

func TestRenderExcludeLabels(t *testing.T) {
	cfg := resolved(&config.Config{
		Categories: []config.Category{
			{Title: "Fixes", Labels: []string{"bug"}},
		},
		ExcludeLabels: []string{"skip-changelog"},
		Template:      "$CHANGES",
	})
	// Excluded regardless of also matching a category
	prs := []github.PR{
		{Number: 1, Title: "Hidden fix", Labels: []string{"bug", "skip-changelog"}},
		{Number: 2, Title: "Visible fix", Labels: []string{"bug"}},
	}

	body := Render(prs, "1.0.0", cfg)

	assert.Equal(t, "### Fixes\nVisible fix", body)
	assert.NotContains(t, body, "Hidden fix")
}

func TestRenderLabelMatchingCaseInsensitive(t *testing.T) {
	cfg := resolved(&config.Config{
		Categories: []config.Category{
			{Title: "Fixes", Labels: []string{"bug"}},
		},
		Template: "$CHANGES",
	})
	prs := []github.PR{
		{Number: 1, Title: "Case fix", Labels: []string{" BUG "}},
	}

	body := Render(prs, "1.0.0", cfg)

	assert.Equal(t, "### Fixes\nCase fix", body)
}

func TestRenderExcludeUncategorized(t *testing.T) {
	cfg := resolved(&config.Config{
		Categories: []config.Category{
			{Title: "Fixes", Labels: []string{"bug"}},
		},
		ExcludeUncategorized: true,
		Template:             "$CHANGES",
	})
	prs := []github.PR{
		{Number: 1, Title: "Fix", Labels: []string{"bug"}},
		{Number: 2, Title: "Unlabeled"},
	}

	body := Render(prs, "1.0.0", cfg)

	assert.Equal(t, "### Fixes\nFix", body)
}

func TestRenderCustomUncategorizedTitle(t *testing.T) {
	cfg := resolved(&config.Config{
		Categories: []config.Category{
			{Title: "Fixes", Labels: []string{"bug"}},
		},
		UncategorizedTitle: "Misc",
		Template:           "$CHANGES",
	})
	prs := []github.PR{
		{Number: 1, Title: "Unlabeled"},
	}

	assert.Equal(t, "### Misc\nUnlabeled", Render(prs, "1.0.0", cfg))
}

func TestRenderZeroPRs(t *testing.T) {
	cfg := resolved(nil)

	body := Render(nil, "1.0.0", cfg)

	assert.Equal(t, "## Changes\n\n", body)
}

func TestRenderDuplicatePRNumbers(t *testing.T) {
	cfg := resolved(&config.Config{Template: "$CHANGES"})
	prs := []github.PR{
		{Number: 1, Title: "Original"},
		{Number: 1, Title: "Duplicate"},
	}

	assert.Equal(t, "Original", Render(prs, "1.0.0", cfg))
}

func TestRenderPreservesInputOrder(t *testing.T) {
	cfg := resolved(&config.Config{Template: "$CHANGES"})
	prs := []github.PR{
		{Number: 3, Title: "c"},
		{Number: 1, Title: "a"},
		{Number: 2, Title: "b"},
	}

	assert.Equal(t, "c\na\nb", Render(prs, "1.0.0", cfg))
}

func TestRenderVersionInTemplate(t *testing.T) {
	cfg := resolved(&config.Config{
		Template: "# Release $VERSION\n\n$CHANGES",
	})
	prs := []github.PR{{Number: 1, Title: "Change"}}

	assert.Equal(t, "# Release 1.2.3\n\nChange", Render(prs, "1.2.3", cfg))
}

func TestRenderTitleTokensNotReExpanded(t *testing.T) {
	cfg := resolved(&config.Config{
		ChangeTemplate: "$TITLE by $AUTHOR",
		Template:       "$CHANGES",
	})
	prs := []github.PR{
		{Number: 1, Title: "Mention $AUTHOR literally", Author: "alice"},
	}

	assert.Equal(t, "Mention $AUTHOR literally by alice", Render(prs, "1.0.0", cfg))
}
