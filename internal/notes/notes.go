// Package notes turns a list of merged pull requests into categorized,
// templated release-note text.
//
// Template substitution is a closed replacement over an enumerated token
// set per template kind: change templates know $TITLE, $AUTHOR, and
// $NUMBER; the top-level template knows $VERSION and $CHANGES. $NUMBER
// substitutes the PR URL (the name is historical, and existing templates
// depend on it).
package notes

import (
	"strings"

	"github.com/alan/release-draft/internal/config"
	"github.com/alan/release-draft/internal/github"
)

// Render produces the release body for the given PRs. The input order is
// preserved: the upstream fetch delivers PRs oldest-first by merge time and
// nothing here re-sorts them. Rendering the same input twice yields
// byte-identical output.
func Render(prs []github.PR, version string, cfg *config.Config) string {
	changes := buildChanges(prs, cfg)

	replacer := strings.NewReplacer(
		"$VERSION", version,
		"$CHANGES", changes,
	)
	return replacer.Replace(cfg.Template)
}

func buildChanges(prs []github.PR, cfg *config.Config) string {
	eligible := filterEligible(prs, cfg.ExcludeLabels)
	buckets := categorize(eligible, cfg.Categories)

	var blocks []string
	for i, category := range cfg.Categories {
		if len(buckets[i]) == 0 {
			continue
		}
		blocks = append(blocks, renderBlock(category.Title, buckets[i], cfg.ChangeTemplate))
	}

	uncategorized := buckets[len(cfg.Categories)]
	if len(uncategorized) > 0 && !cfg.ExcludeUncategorized {
		if len(cfg.Categories) > 0 {
			blocks = append(blocks, renderBlock(cfg.UncategorizedTitle, uncategorized, cfg.ChangeTemplate))
		} else {
			blocks = append(blocks, renderLines(uncategorized, cfg.ChangeTemplate))
		}
	}

	return strings.Join(blocks, "\n\n")
}

// filterEligible drops duplicate PR numbers (first occurrence wins) and any
// PR carrying an exclude label
func filterEligible(prs []github.PR, excludeLabels []string) []github.PR {
	seen := make(map[int]bool)
	var eligible []github.PR

	for _, pr := range prs {
		if seen[pr.Number] {
			continue
		}
		seen[pr.Number] = true

		if hasAnyLabel(pr, excludeLabels) {
			continue
		}
		eligible = append(eligible, pr)
	}
	return eligible
}

// categorize assigns each PR to the first category whose labels intersect
// its own. The returned slice has one bucket per category plus a trailing
// uncategorized bucket.
func categorize(prs []github.PR, categories []config.Category) [][]github.PR {
	buckets := make([][]github.PR, len(categories)+1)

	for _, pr := range prs {
		assigned := false
		for i, category := range categories {
			if hasAnyLabel(pr, category.Labels) {
				buckets[i] = append(buckets[i], pr)
				assigned = true
				break
			}
		}
		if !assigned {
			buckets[len(categories)] = append(buckets[len(categories)], pr)
		}
	}
	return buckets
}

func hasAnyLabel(pr github.PR, labels []string) bool {
	if len(labels) == 0 {
		return false
	}

	prLabels := make(map[string]bool, len(pr.Labels))
	for _, label := range config.NormalizeLabels(pr.Labels) {
		prLabels[label] = true
	}

	for _, label := range labels {
		if prLabels[label] {
			return true
		}
	}
	return false
}

func renderBlock(title string, prs []github.PR, changeTemplate string) string {
	return "### " + title + "\n" + renderLines(prs, changeTemplate)
}

func renderLines(prs []github.PR, changeTemplate string) string {
	lines := make([]string, 0, len(prs))
	for _, pr := range prs {
		lines = append(lines, applyChangeTemplate(changeTemplate, pr))
	}
	return strings.Join(lines, "\n")
}

// applyChangeTemplate substitutes the change-template tokens in a single
// pass, so token-looking text inside PR titles is never re-expanded
func applyChangeTemplate(template string, pr github.PR) string {
	replacer := strings.NewReplacer(
		"$TITLE", pr.Title,
		"$AUTHOR", pr.Author,
		"$NUMBER", pr.URL,
	)
	return replacer.Replace(template)
}
