package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
)

const (
	apiBaseURL = "https://api.github.com"
	rawBaseURL = "https://raw.githubusercontent.com"

	sourceUserAgent = "ClawKit-Catalog-Sync/1.0"
)

// ErrRateLimited is returned when GitHub answers 403, which on the REST
// API almost always means the rate limit is exhausted.
var ErrRateLimited = errors.New("github rate limit exhausted")

// GitHubClient reads skill repositories through the GitHub REST API.
// Discovery uses the Git Trees API so a repository of any size costs two
// API calls; file content comes from raw.githubusercontent.com, which
// does not count against the API quota.
type GitHubClient struct {
	httpClient HTTPDoer
	token      string

	mu        sync.Mutex
	repoCache map[string]*RepoInfo
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// GitHubClientConfig holds configuration for the GitHub client.
type GitHubClientConfig struct {
	// HTTPClient to use. If nil, a FetchClient with defaults is created.
	HTTPClient HTTPDoer

	// Token is an optional GitHub API token. Unauthenticated clients get
	// 60 requests per hour, which is only enough for small catalogs.
	Token string
}

// NewGitHubClient creates a new GitHub source client.
func NewGitHubClient(cfg GitHubClientConfig) *GitHubClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = NewFetchClient(FetchClientConfig{Name: "github"})
	}
	return &GitHubClient{
		httpClient: httpClient,
		token:      cfg.Token,
		repoCache:  make(map[string]*RepoInfo),
	}
}

// TreeEntry is one item of a recursive repository tree.
type TreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
}

// RepoInfo is the subset of repository metadata the catalog uses.
type RepoInfo struct {
	Stars         int    `json:"stargazers_count"`
	DefaultBranch string `json:"default_branch"`
}

type refResponse struct {
	Object struct {
		SHA string `json:"sha"`
	} `json:"object"`
}

type treeResponse struct {
	Tree      []TreeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

// RepoTree fetches the full recursive tree of a repository. It resolves
// the default branch by probing main then master, then requests the
// recursive tree for that branch's head commit. Returns the entries, the
// branch name, and whether GitHub truncated the listing.
func (c *GitHubClient) RepoTree(ctx context.Context, repo string) ([]TreeEntry, string, bool, error) {
	var branch, commitSHA string
	for _, candidate := range []string{"main", "master"} {
		var ref refResponse
		err := c.apiGet(ctx, fmt.Sprintf("%s/repos/%s/git/ref/heads/%s", apiBaseURL, repo, candidate), &ref)
		if err == nil && ref.Object.SHA != "" {
			branch = candidate
			commitSHA = ref.Object.SHA
			break
		}
		if errors.Is(err, ErrRateLimited) {
			return nil, "", false, err
		}
	}
	if branch == "" {
		return nil, "", false, fmt.Errorf("no default branch found for %s", repo)
	}

	var tree treeResponse
	url := fmt.Sprintf("%s/repos/%s/git/trees/%s?recursive=1", apiBaseURL, repo, commitSHA)
	if err := c.apiGet(ctx, url, &tree); err != nil {
		return nil, branch, false, fmt.Errorf("fetching tree for %s: %w", repo, err)
	}

	return tree.Tree, branch, tree.Truncated, nil
}

// RawFile downloads file content from raw.githubusercontent.com.
func (c *GitHubClient) RawFile(ctx context.Context, repo, branch, path string) (string, error) {
	url := fmt.Sprintf("%s/%s/%s/%s", rawBaseURL, repo, branch, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", sourceUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// RepoInfo fetches repository metadata, cached per client so stars cost
// one API call per repository rather than one per skill.
func (c *GitHubClient) RepoInfo(ctx context.Context, repo string) (*RepoInfo, error) {
	c.mu.Lock()
	if info, ok := c.repoCache[repo]; ok {
		c.mu.Unlock()
		return info, nil
	}
	c.mu.Unlock()

	var info RepoInfo
	if err := c.apiGet(ctx, fmt.Sprintf("%s/repos/%s", apiBaseURL, repo), &info); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.repoCache[repo] = &info
	c.mu.Unlock()
	return &info, nil
}

// apiGet performs an authenticated GET against the REST API and decodes
// the JSON response into out.
func (c *GitHubClient) apiGet(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", sourceUserAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("github api: status %d for %s", resp.StatusCode, url)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
