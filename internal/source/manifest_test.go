package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFrontmatter(t *testing.T) {
	content := `---
name: game-light-tracker
description: Sync Hue lights with live sports scores
tags:
  - hue
  - sports, home-assistant
---
# Game Light Tracker

Tracks live games.`

	manifest, body := parseFrontmatter(content)

	assert.Equal(t, "game-light-tracker", manifest.Name)
	assert.Equal(t, "Sync Hue lights with live sports scores", manifest.Description)
	assert.Equal(t, []string{"hue", "sports", "home-assistant"}, manifest.Tags)
	assert.Contains(t, body, "# Game Light Tracker")
	assert.NotContains(t, body, "---")
}

func TestParseFrontmatter_NoFrontmatter(t *testing.T) {
	content := "# Just a readme\n\nNo metadata here."

	manifest, body := parseFrontmatter(content)

	assert.Empty(t, manifest.Name)
	assert.Empty(t, manifest.Tags)
	assert.Equal(t, content, body)
}

func TestParseFrontmatter_MalformedYAML(t *testing.T) {
	content := "---\nname: [unclosed\n---\nbody"

	manifest, body := parseFrontmatter(content)

	assert.Empty(t, manifest.Name)
	assert.Equal(t, content, body)
}

func TestParseFrontmatter_SloppyTypes(t *testing.T) {
	content := `---
name: 42
description:
  - part one
  - part two
tags: "git, CLI , "
---
body`

	manifest, _ := parseFrontmatter(content)

	assert.Equal(t, "42", manifest.Name)
	assert.Equal(t, "part one, part two", manifest.Description)
	assert.Equal(t, []string{"git", "cli"}, manifest.Tags)
}

func TestParseFrontmatter_MapFieldCollapses(t *testing.T) {
	content := `---
name:
  TODO: fill this in
---
body`

	manifest, _ := parseFrontmatter(content)
	assert.Empty(t, manifest.Name)
}
