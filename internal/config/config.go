// Package config loads the release template configuration and resolves its
// defaults, so downstream code only ever sees fully-populated values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the conventional config location inside .github/
const ConfigFileName = "release-draft.yml"

// Default template values applied by Resolve
const (
	DefaultChangeTemplate     = "$TITLE"
	DefaultTemplate           = "## Changes\n\n$CHANGES"
	DefaultUncategorizedTitle = "Other Changes"
)

// Category groups PRs under a title by matching labels. A PR belongs to the
// first category in declared order whose labels intersect its own.
type Category struct {
	Title  string
	Labels []string
}

// Config is the resolved release configuration. After Resolve, every
// template field is non-empty.
type Config struct {
	Language             string
	TagTemplate          string
	NameTemplate         string
	Categories           []Category
	ExcludeLabels        []string
	ChangeTemplate       string
	Template             string
	UncategorizedTitle   string
	ExcludeUncategorized bool
}

// ParseError indicates a config file that exists but is not valid YAML.
// It is distinct from the file simply being absent.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid config file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type rawConfig struct {
	Language             string        `yaml:"language"`
	TagTemplate          string        `yaml:"tag-template"`
	NameTemplate         string        `yaml:"name-template"`
	Categories           []rawCategory `yaml:"categories"`
	ExcludeLabels        []string      `yaml:"exclude-labels"`
	ChangeTemplate       string        `yaml:"change-template"`
	Template             string        `yaml:"template"`
	UncategorizedTitle   string        `yaml:"uncategorized-title"`
	ExcludeUncategorized bool          `yaml:"exclude-uncategorized"`
}

// rawCategory accepts both declaration forms: a labels list, a single
// label, or both combined
type rawCategory struct {
	Title  string   `yaml:"title"`
	Labels []string `yaml:"labels"`
	Label  string   `yaml:"label"`
}

// Load finds and parses the release config. Discovery order: the explicit
// path if given (must exist), then $HOME/.github/release-draft.yml, then
// <cwd>/.github/release-draft.yml. Returns nil when no config exists.
func Load(explicit, cwd string) (*Config, error) {
	if strings.TrimSpace(explicit) != "" {
		path, err := resolvePath(explicit, cwd)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return readConfig(path)
	}

	if home := os.Getenv("HOME"); home != "" {
		path := filepath.Join(home, ".github", ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return readConfig(path)
		}
	}

	path := filepath.Join(cwd, ".github", ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return readConfig(path)
	}

	return nil, nil
}

// Resolve applies defaults so that every field is populated. A nil receiver
// yields the all-defaults config. tagPrefix seeds the default tag template;
// scopeLabel (branch, or branch/directory) seeds the default release name.
func Resolve(cfg *Config, tagPrefix, scopeLabel string) *Config {
	resolved := Config{}
	if cfg != nil {
		resolved = *cfg
	}

	if resolved.TagTemplate == "" {
		resolved.TagTemplate = strings.TrimSpace(tagPrefix) + "$VERSION"
	}
	if resolved.NameTemplate == "" {
		resolved.NameTemplate = fmt.Sprintf("%s (%s)", resolved.TagTemplate, scopeLabel)
	}
	if resolved.ChangeTemplate == "" {
		resolved.ChangeTemplate = DefaultChangeTemplate
	}
	if resolved.Template == "" {
		resolved.Template = DefaultTemplate
	}
	if resolved.UncategorizedTitle == "" {
		resolved.UncategorizedTitle = DefaultUncategorizedTitle
	}

	return &resolved
}

func readConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Config path comes from a flag or a fixed convention
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return fromRaw(raw), nil
}

func fromRaw(raw rawConfig) *Config {
	var categories []Category
	for _, rc := range raw.Categories {
		labels := append([]string{}, rc.Labels...)
		if rc.Label != "" {
			labels = append(labels, rc.Label)
		}
		categories = append(categories, Category{
			Title:  rc.Title,
			Labels: NormalizeLabels(labels),
		})
	}

	return &Config{
		Language:             strings.ToLower(strings.TrimSpace(raw.Language)),
		TagTemplate:          strings.TrimSpace(raw.TagTemplate),
		NameTemplate:         strings.TrimSpace(raw.NameTemplate),
		Categories:           categories,
		ExcludeLabels:        NormalizeLabels(raw.ExcludeLabels),
		ChangeTemplate:       strings.TrimSpace(raw.ChangeTemplate),
		Template:             strings.TrimSpace(raw.Template),
		UncategorizedTitle:   strings.TrimSpace(raw.UncategorizedTitle),
		ExcludeUncategorized: raw.ExcludeUncategorized,
	}
}

// NormalizeLabels trims, lowercases, and drops empty label names. Label
// matching throughout the tool is case-insensitive.
func NormalizeLabels(labels []string) []string {
	var normalized []string
	for _, label := range labels {
		label = strings.ToLower(strings.TrimSpace(label))
		if label != "" {
			normalized = append(normalized, label)
		}
	}
	return normalized
}

func resolvePath(input, cwd string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "~" || strings.HasPrefix(input, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			return "", fmt.Errorf("cannot expand %q: HOME is not set", input)
		}
		if input == "~" {
			return home, nil
		}
		return filepath.Join(home, strings.TrimPrefix(input, "~/")), nil
	}

	if filepath.IsAbs(input) {
		return input, nil
	}
	return filepath.Join(cwd, input), nil
}
