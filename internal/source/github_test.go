package source

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routeDoer serves canned responses by URL substring and records calls.
type routeDoer struct {
	routes map[string]response
	calls  []string
}

type response struct {
	status int
	body   string
}

func (d *routeDoer) Do(req *http.Request) (*http.Response, error) {
	url := req.URL.String()
	d.calls = append(d.calls, url)
	for substr, resp := range d.routes {
		if strings.Contains(url, substr) {
			return &http.Response{
				StatusCode: resp.status,
				Body:       io.NopCloser(bytes.NewReader([]byte(resp.body))),
				Header:     http.Header{},
			}, nil
		}
	}
	return &http.Response{
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Header:     http.Header{},
	}, nil
}

func TestGitHubClient_RepoTreeFallsBackToMaster(t *testing.T) {
	doer := &routeDoer{routes: map[string]response{
		"git/ref/heads/master": {http.StatusOK, `{"object":{"sha":"head-sha"}}`},
		"git/trees/head-sha":   {http.StatusOK, `{"tree":[{"path":"skills/a/b/skill.md","type":"blob","sha":"s1"}],"truncated":false}`},
	}}
	client := NewGitHubClient(GitHubClientConfig{HTTPClient: doer})

	tree, branch, truncated, err := client.RepoTree(context.Background(), "openclaw/skills")
	require.NoError(t, err)

	assert.Equal(t, "master", branch)
	assert.False(t, truncated)
	require.Len(t, tree, 1)
	assert.Equal(t, "skills/a/b/skill.md", tree[0].Path)
}

func TestGitHubClient_RateLimitSurfacesAsError(t *testing.T) {
	doer := &routeDoer{routes: map[string]response{
		"git/ref/heads/main": {http.StatusForbidden, `{"message":"rate limit exceeded"}`},
	}}
	client := NewGitHubClient(GitHubClientConfig{HTTPClient: doer})

	_, _, _, err := client.RepoTree(context.Background(), "openclaw/skills")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestGitHubClient_RepoInfoIsCachedPerRepo(t *testing.T) {
	doer := &routeDoer{routes: map[string]response{
		"repos/openclaw/skills": {http.StatusOK, `{"stargazers_count":1234,"default_branch":"main"}`},
	}}
	client := NewGitHubClient(GitHubClientConfig{HTTPClient: doer})

	first, err := client.RepoInfo(context.Background(), "openclaw/skills")
	require.NoError(t, err)
	second, err := client.RepoInfo(context.Background(), "openclaw/skills")
	require.NoError(t, err)

	assert.Equal(t, 1234, first.Stars)
	assert.Same(t, first, second)
	assert.Len(t, doer.calls, 1)
}

func TestGitHubClient_RawFile(t *testing.T) {
	doer := &routeDoer{routes: map[string]response{
		"raw.githubusercontent.com/openclaw/skills/main/skills/a/b/skill.md": {
			http.StatusOK, "---\nname: b\n---\nbody",
		},
	}}
	client := NewGitHubClient(GitHubClientConfig{HTTPClient: doer})

	content, err := client.RawFile(context.Background(), "openclaw/skills", "main", "skills/a/b/skill.md")
	require.NoError(t, err)
	assert.Contains(t, content, "name: b")
}

func TestGitHubClient_TokenHeader(t *testing.T) {
	var gotAuth string
	doer := doerFunc(func(req *http.Request) (*http.Response, error) {
		gotAuth = req.Header.Get("Authorization")
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader([]byte(`{}`))),
			Header:     http.Header{},
		}, nil
	})

	client := NewGitHubClient(GitHubClientConfig{HTTPClient: doer, Token: "ghp_secret"})
	_, err := client.RepoInfo(context.Background(), "openclaw/skills")
	require.NoError(t, err)
	assert.Equal(t, "token ghp_secret", gotAuth)
}

type doerFunc func(req *http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }
