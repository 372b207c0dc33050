package source

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is the YAML frontmatter of a skill's documentation file.
// Authors write these by hand, so every field tolerates sloppy typing:
// tags may be a list, a comma-separated string, or a list of
// comma-separated strings.
type Manifest struct {
	Name        string
	Description string
	Tags        []string
}

// rawManifest uses loose types so a malformed field degrades to its zero
// value instead of failing the whole document.
type rawManifest struct {
	Name        any `yaml:"name"`
	Description any `yaml:"description"`
	Tags        any `yaml:"tags"`
}

// parseFrontmatter splits a markdown document into its YAML frontmatter
// and body. Documents without a leading "---" block, or with frontmatter
// that does not parse, return an empty manifest and the full content as
// body.
func parseFrontmatter(content string) (Manifest, string) {
	if !strings.HasPrefix(content, "---") {
		return Manifest{}, content
	}

	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 {
		return Manifest{}, content
	}

	var raw rawManifest
	if err := yaml.Unmarshal([]byte(parts[1]), &raw); err != nil {
		return Manifest{}, content
	}

	return Manifest{
		Name:        safeString(raw.Name),
		Description: safeString(raw.Description),
		Tags:        normalizeTags(raw.Tags),
	}, strings.TrimSpace(parts[2])
}

// safeString coerces a loosely typed YAML scalar into a plain string.
// Lists join their scalar elements; maps and nil collapse to "".
func safeString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case int, int64, float64, bool:
		return fmt.Sprint(v)
	case []any:
		var parts []string
		for _, item := range v {
			switch item.(type) {
			case string, int, int64, float64:
				parts = append(parts, safeString(item))
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// normalizeTags flattens tags into lowercase strings, splitting any
// comma-separated entries.
func normalizeTags(val any) []string {
	var flat []string
	switch v := val.(type) {
	case string:
		flat = append(flat, strings.Split(v, ",")...)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				flat = append(flat, strings.Split(s, ",")...)
			} else if s := safeString(item); s != "" {
				flat = append(flat, s)
			}
		}
	default:
		return nil
	}

	var tags []string
	for _, t := range flat {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
