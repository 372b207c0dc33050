package worker_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getclawkit/clawkit/internal/skills"
	"github.com/getclawkit/clawkit/internal/source"
	"github.com/getclawkit/clawkit/internal/worker"
)

// fakeGitHub answers the handful of GitHub URLs a one-seed scan needs.
type fakeGitHub struct{}

func (fakeGitHub) Do(req *http.Request) (*http.Response, error) {
	url := req.URL.String()

	reply := func(status int, body string) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(bytes.NewReader([]byte(body))),
			Header:     http.Header{},
		}, nil
	}

	switch {
	case strings.Contains(url, "git/ref/heads/main"):
		return reply(http.StatusOK, `{"object":{"sha":"head"}}`)
	case strings.Contains(url, "git/trees/head"):
		return reply(http.StatusOK, `{"tree":[
			{"path":"skills/octocat/git-helper/skill.md","type":"blob","sha":"s1"},
			{"path":"skills/hubber/weather/readme.md","type":"blob","sha":"s2"}
		]}`)
	case strings.Contains(url, "api.github.com/repos/openclaw/skills"):
		return reply(http.StatusOK, `{"stargazers_count":7,"default_branch":"main"}`)
	case strings.Contains(url, "raw.githubusercontent.com"):
		return reply(http.StatusOK, "---\nname: Fetched Skill\ndescription: does things\n---\nBody.")
	default:
		return reply(http.StatusNotFound, "")
	}
}

func TestCatalogSyncJob_HarvestsAndIngests(t *testing.T) {
	client := source.NewGitHubClient(source.GitHubClientConfig{HTTPClient: fakeGitHub{}})
	scanner := source.NewScanner(client, zerolog.Nop())

	repo := skills.NewMemoryRepository()
	job := worker.NewCatalogSyncJob(worker.CatalogSyncJobConfig{
		Scanner:  scanner,
		Ingestor: skills.NewIngestor(repo, zerolog.Nop()),
		Seeds: []source.Seed{
			{Repo: "openclaw/skills", Path: "skills", Type: source.SeedTypeRecursiveAuthor},
		},
		Logger: zerolog.Nop(),
	})

	summary, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 0, summary.Failed)

	skill, err := repo.Get(context.Background(), "official-octocat-git-helper")
	require.NoError(t, err)
	assert.Equal(t, "Fetched Skill", skill.Name)
	assert.Equal(t, 7, skill.Stars)
	require.NotNil(t, skill.SourceRepo)
	assert.Equal(t, "openclaw/skills", *skill.SourceRepo)

	// Re-running updates in place.
	summary, err = job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 2, summary.Updated)

	lastRun, lastSum := job.LastRun()
	assert.False(t, lastRun.IsZero())
	assert.Equal(t, 2, lastSum.Updated)
}
