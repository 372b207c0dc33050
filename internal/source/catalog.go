package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Seed layouts. A recursive_author seed stores skills as
// {path}/{author}/{skill}/, a flat seed as {path}/{skill}/ with the
// repository owner as author.
const (
	SeedTypeRecursiveAuthor = "recursive_author"
	SeedTypeFlat            = "flat"
)

// docFilePriority lists accepted documentation filenames, preferred
// first.
var docFilePriority = []string{"skill.md", "readme.md"}

// Seed points the scanner at one repository subtree to harvest.
type Seed struct {
	// Repo is the "owner/name" repository slug.
	Repo string `json:"repo"`

	// Path is the subtree prefix that holds skills.
	Path string `json:"path"`

	// Type is the seed layout, SeedTypeRecursiveAuthor or SeedTypeFlat.
	Type string `json:"type"`
}

// DiscoveredSkill is one skill located in a repository tree, before its
// documentation has been downloaded.
type DiscoveredSkill struct {
	Author    string
	SkillName string
	DocPath   string
	DocSHA    string
}

// Scanner harvests skill records from seeded GitHub repositories and
// shapes them into the loosely typed records the sync ingestor accepts.
type Scanner struct {
	client *GitHubClient
	logger zerolog.Logger
}

// NewScanner creates a new catalog scanner.
func NewScanner(client *GitHubClient, logger zerolog.Logger) *Scanner {
	return &Scanner{client: client, logger: logger}
}

// Scan walks every seed and returns sync-ready records. Seeds that fail
// are logged and skipped so one broken repository does not starve the
// rest of the catalog; a rate-limit error aborts the scan since every
// remaining call would fail the same way.
func (s *Scanner) Scan(ctx context.Context, seeds []Seed) ([]map[string]any, error) {
	// Later seeds win when two produce the same skill ID.
	byID := make(map[string]map[string]any)
	var order []string

	for _, seed := range seeds {
		records, err := s.scanSeed(ctx, seed)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrRateLimited) {
				return nil, err
			}
			s.logger.Error().Err(err).Str("repo", seed.Repo).Msg("seed scan failed")
			continue
		}
		for _, record := range records {
			id := record["id"].(string)
			if _, seen := byID[id]; !seen {
				order = append(order, id)
			}
			byID[id] = record
		}
	}

	results := make([]map[string]any, 0, len(order))
	for _, id := range order {
		results = append(results, byID[id])
	}
	return results, nil
}

func (s *Scanner) scanSeed(ctx context.Context, seed Seed) ([]map[string]any, error) {
	tree, branch, truncated, err := s.client.RepoTree(ctx, seed.Repo)
	if err != nil {
		return nil, err
	}
	if truncated {
		s.logger.Warn().Str("repo", seed.Repo).Msg("repository tree truncated, some skills may be missing")
	}

	discovered := discoverSkills(tree, seed)
	s.logger.Info().
		Str("repo", seed.Repo).
		Int("skills", len(discovered)).
		Msg("discovered documented skills")

	info, err := s.client.RepoInfo(ctx, seed.Repo)
	if err != nil {
		return nil, err
	}

	var records []map[string]any
	for _, skill := range discovered {
		content, err := s.client.RawFile(ctx, seed.Repo, branch, skill.DocPath)
		if err != nil {
			s.logger.Warn().Err(err).Str("path", skill.DocPath).Msg("skipping skill, download failed")
			continue
		}
		records = append(records, buildRecord(skill, seed, branch, info.Stars, content))
	}
	return records, nil
}

// discoverSkills walks a recursive tree and pairs each skill directory
// with its best documentation file.
func discoverSkills(tree []TreeEntry, seed Seed) []DiscoveredSkill {
	prefix := seed.Path + "/"

	type docFile struct {
		path string
		sha  string
	}
	// (author, skill) -> filename -> doc file
	files := make(map[[2]string]map[string]docFile)
	var order [][2]string

	for _, entry := range tree {
		if entry.Type != "blob" || !strings.HasPrefix(entry.Path, prefix) {
			continue
		}

		parts := strings.Split(entry.Path[len(prefix):], "/")

		var author, skillName, filename string
		switch seed.Type {
		case SeedTypeRecursiveAuthor:
			if len(parts) != 3 {
				continue
			}
			author, skillName, filename = parts[0], parts[1], parts[2]
		case SeedTypeFlat:
			if len(parts) != 2 {
				continue
			}
			skillName, filename = parts[0], parts[1]
			author = strings.SplitN(seed.Repo, "/", 2)[0]
		default:
			continue
		}

		name := strings.ToLower(filename)
		for _, accepted := range docFilePriority {
			if name == accepted {
				key := [2]string{author, skillName}
				if files[key] == nil {
					files[key] = make(map[string]docFile)
					order = append(order, key)
				}
				files[key][name] = docFile{path: entry.Path, sha: entry.SHA}
			}
		}
	}

	var results []DiscoveredSkill
	for _, key := range order {
		for _, preferred := range docFilePriority {
			if doc, ok := files[key][preferred]; ok {
				results = append(results, DiscoveredSkill{
					Author:    key[0],
					SkillName: key[1],
					DocPath:   doc.path,
					DocSHA:    doc.sha,
				})
				break
			}
		}
	}
	return results
}

// BuildSkillID derives the stable catalog ID for a skill. Skills from
// the official repositories get the official- prefix; everything else is
// namespaced by its source repository.
func BuildSkillID(author, skillName string, seed Seed) string {
	if seed.Repo == "openclaw/skills" || seed.Repo == "openclaw/openclaw" {
		return strings.ToLower(fmt.Sprintf("official-%s-%s", author, skillName))
	}
	safeRepo := strings.ReplaceAll(seed.Repo, "/", "-")
	return strings.ToLower(fmt.Sprintf("community-%s-%s", safeRepo, skillName))
}

// buildRecord shapes one discovered skill into a sync record, the same
// loosely typed JSON object the sync endpoint accepts from external
// publishers.
func buildRecord(skill DiscoveredSkill, seed Seed, branch string, stars int, content string) map[string]any {
	manifest, body := parseFrontmatter(content)

	name := manifest.Name
	if name == "" {
		name = titleize(skill.SkillName)
	}
	shortDesc := manifest.Description
	if shortDesc == "" {
		shortDesc = "Skill by " + skill.Author
	}

	skillDir := skill.DocPath
	if idx := strings.LastIndex(skillDir, "/"); idx >= 0 {
		skillDir = skillDir[:idx]
	}

	record := map[string]any{
		"id":          BuildSkillID(skill.Author, skill.SkillName, seed),
		"name":        name,
		"shortDesc":   shortDesc,
		"longDesc":    body,
		"author":      skill.Author,
		"authorUrl":   "https://github.com/" + skill.Author,
		"stars":       float64(stars),
		"lastUpdated": time.Now().UTC().Format("2006-01-02"),
		"command":     fmt.Sprintf("clawhub install %s/%s", seed.Repo, skillDir),
		"file_sha":    skill.DocSHA,
		"downloadUrl": fmt.Sprintf("https://github.com/%s/tree/%s/%s", seed.Repo, branch, skillDir),
		"source_repo": seed.Repo,
		"source_path": skillDir,
	}
	if len(manifest.Tags) > 0 {
		tags := make([]any, len(manifest.Tags))
		for i, t := range manifest.Tags {
			tags[i] = t
		}
		record["tags"] = tags
	}
	return record
}

// titleize turns a hyphenated directory name into a display name.
func titleize(s string) string {
	words := strings.Split(strings.ReplaceAll(s, "-", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
