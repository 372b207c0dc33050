package skills_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getclawkit/clawkit/internal/skills"
)

func seedSkills(t *testing.T, repo skills.Repository, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := repo.Upsert(context.Background(), &skills.Skill{
			ID:          fmt.Sprintf("skill-%03d", i),
			Name:        fmt.Sprintf("Skill %03d", i),
			ShortDesc:   "a test skill",
			Author:      "octocat",
			Stars:       i,
			LastUpdated: time.Now(),
		})
		require.NoError(t, err)
	}
}

func TestService_ListOrdersByStarsDescending(t *testing.T) {
	repo := skills.NewMemoryRepository()
	seedSkills(t, repo, 10)
	service := skills.NewService(repo, zerolog.Nop())

	result, err := service.List(context.Background(), skills.ListOptions{})
	require.NoError(t, err)

	assert.Equal(t, 10, result.Total)
	require.NotEmpty(t, result.Items)
	for i := 1; i < len(result.Items); i++ {
		assert.GreaterOrEqual(t, result.Items[i-1].Stars, result.Items[i].Stars)
	}
}

func TestService_ListClampsPagination(t *testing.T) {
	repo := skills.NewMemoryRepository()
	seedSkills(t, repo, 5)
	service := skills.NewService(repo, zerolog.Nop())

	// Garbage values fall back to sane ones instead of erroring.
	result, err := service.List(context.Background(), skills.ListOptions{
		Page:     -3,
		PageSize: 100000,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Total)
	assert.Len(t, result.Items, 5)

	// A page past the end is empty, not an error.
	result, err = service.List(context.Background(), skills.ListOptions{Page: 99})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Equal(t, 5, result.Total)
}

func TestService_ListSearch(t *testing.T) {
	repo := skills.NewMemoryRepository()
	require.NoError(t, repo.Upsert(context.Background(), &skills.Skill{
		ID: "git-helper", Name: "Git Helper", ShortDesc: "automates rebases",
		Author: "octocat", Tags: []string{"git", "cli"},
	}))
	require.NoError(t, repo.Upsert(context.Background(), &skills.Skill{
		ID: "weather", Name: "Weather", ShortDesc: "forecasts",
		Author: "meteorologist",
	}))
	service := skills.NewService(repo, zerolog.Nop())

	tests := []struct {
		search string
		want   int
	}{
		{"GIT", 1},     // case-insensitive name match
		{"rebases", 1}, // short description match
		{"meteor", 1},  // author match
		{"cli", 1},     // exact tag match
		{"nothing", 0},
		{"", 2},  // empty search matches all
		{"%", 0}, // wildcard characters are literal, not patterns
		{"_", 0},
	}

	for _, tt := range tests {
		result, err := service.List(context.Background(), skills.ListOptions{Search: tt.search})
		require.NoError(t, err)
		assert.Equal(t, tt.want, result.Total, "search %q", tt.search)
	}
}

func TestService_RandomClampsCount(t *testing.T) {
	repo := skills.NewMemoryRepository()
	seedSkills(t, repo, 100)
	service := skills.NewService(repo, zerolog.Nop())

	items, err := service.Random(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, items, skills.DefaultRandomCount)

	items, err = service.Random(context.Background(), 9999)
	require.NoError(t, err)
	assert.Len(t, items, skills.MaxRandomCount)
}

func TestService_RandomExcludesPlaceholderNames(t *testing.T) {
	repo := skills.NewMemoryRepository()
	require.NoError(t, repo.Upsert(context.Background(), &skills.Skill{ID: "short", Name: "ab"}))
	require.NoError(t, repo.Upsert(context.Background(), &skills.Skill{ID: "real", Name: "Real Skill"}))
	service := skills.NewService(repo, zerolog.Nop())

	items, err := service.Random(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "real", items[0].ID)
}

func TestService_SitemapPagination(t *testing.T) {
	repo := skills.NewMemoryRepository()
	seedSkills(t, repo, 3)
	service := skills.NewService(repo, zerolog.Nop())

	entries, total, err := service.SitemapPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, entries, 3)

	// Ordered by ID for stable pagination.
	assert.Equal(t, "skill-000", entries[0].ID)
	assert.Equal(t, "skill-002", entries[2].ID)

	// Past the end: empty, not an error.
	entries, total, err = service.SitemapPage(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, entries)
}

func TestService_GetMissingSkill(t *testing.T) {
	service := skills.NewService(skills.NewMemoryRepository(), zerolog.Nop())

	_, err := service.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, skills.ErrSkillNotFound)
}
