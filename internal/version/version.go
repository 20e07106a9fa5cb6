// Package version resolves the project version from language-specific
// manifest files. Archetypes are tried in order; the first manifest that
// yields a non-empty version wins.
package version

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
)

// ErrVersionNotFound indicates that no tried archetype produced a version:
// every manifest was either missing or present without a version field.
var ErrVersionNotFound = errors.New("version not found")

// ManifestParseError indicates a manifest file that exists but cannot be
// parsed as its expected format. This is a hard error, never skipped: a
// malformed manifest is a real problem, not a missing one.
type ManifestParseError struct {
	Path string
	Err  error
}

func (e *ManifestParseError) Error() string {
	return fmt.Sprintf("failed to parse manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestParseError) Unwrap() error {
	return e.Err
}

// archetype is one per-language convention for where the version lives.
// extract returns the empty string when the manifest parses but declares
// no version.
type archetype struct {
	language string
	manifest string
	extract  func(path string) (string, error)
}

// archetypes in default resolution order
var archetypes = []archetype{
	{language: "rust", manifest: "Cargo.toml", extract: extractCargoVersion},
	{language: "node", manifest: "package.json", extract: extractPackageJSONVersion},
	{language: "python", manifest: "pyproject.toml", extract: extractPyprojectVersion},
}

// Languages returns the known language tags in default resolution order
func Languages() []string {
	tags := make([]string, 0, len(archetypes))
	for _, a := range archetypes {
		tags = append(tags, a.language)
	}
	return tags
}

// ParseLanguages splits a language input on whitespace, commas, and plus
// signs, lowercasing each tag
func ParseLanguages(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '+'
	})

	var languages []string
	for _, field := range fields {
		field = strings.ToLower(strings.TrimSpace(field))
		if field != "" {
			languages = append(languages, field)
		}
	}
	return languages
}

// Resolve extracts the version from the first matching manifest under root.
// An empty languages list tries every known archetype in default order; a
// non-empty list tries exactly those, in the given order. Unknown tags are
// rejected up front.
func Resolve(root string, languages []string) (string, error) {
	attempts, err := selectArchetypes(languages)
	if err != nil {
		return "", err
	}

	var tried []string
	for _, a := range attempts {
		tried = append(tried, a.language)

		path := filepath.Join(root, a.manifest)
		if _, err := os.Stat(path); err != nil {
			continue
		}

		version, err := a.extract(path)
		if err != nil {
			return "", err
		}
		if version != "" {
			return version, nil
		}
	}

	return "", fmt.Errorf("%w: no version in manifests for %s", ErrVersionNotFound, strings.Join(tried, ", "))
}

func selectArchetypes(languages []string) ([]archetype, error) {
	if len(languages) == 0 {
		return archetypes, nil
	}

	byLanguage := make(map[string]archetype, len(archetypes))
	for _, a := range archetypes {
		byLanguage[a.language] = a
	}

	var selected []archetype
	var unknown []string
	for _, language := range languages {
		a, ok := byLanguage[language]
		if !ok {
			unknown = append(unknown, language)
			continue
		}
		selected = append(selected, a)
	}

	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown language archetype(s): %s", strings.Join(unknown, ", "))
	}
	return selected, nil
}

func extractCargoVersion(path string) (string, error) {
	var manifest struct {
		Package struct {
			Version string `toml:"version"`
		} `toml:"package"`
	}
	if _, err := toml.DecodeFile(path, &manifest); err != nil {
		return "", &ManifestParseError{Path: path, Err: err}
	}
	return strings.TrimSpace(manifest.Package.Version), nil
}

func extractPackageJSONVersion(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Manifest path is a fixed name under the version root
	if err != nil {
		return "", fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var manifest struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", &ManifestParseError{Path: path, Err: err}
	}
	return strings.TrimSpace(manifest.Version), nil
}

func extractPyprojectVersion(path string) (string, error) {
	var manifest struct {
		Project struct {
			Version string `toml:"version"`
		} `toml:"project"`
	}
	if _, err := toml.DecodeFile(path, &manifest); err != nil {
		return "", &ManifestParseError{Path: path, Err: err}
	}
	return strings.TrimSpace(manifest.Project.Version), nil
}
