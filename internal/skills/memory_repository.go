package skills

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepository is an in-memory implementation of Repository used for
// tests and local development without a database.
type MemoryRepository struct {
	mu     sync.RWMutex
	skills map[string]*Skill
}

// NewMemoryRepository creates a new in-memory skill repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		skills: make(map[string]*Skill),
	}
}

// Get retrieves a skill by ID.
func (r *MemoryRepository) Get(_ context.Context, id string) (*Skill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	skill, ok := r.skills[id]
	if !ok {
		return nil, ErrSkillNotFound
	}
	copied := *skill
	return &copied, nil
}

// Exists reports whether a skill with the given ID is present.
func (r *MemoryRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.skills[id]
	return ok, nil
}

// Upsert inserts the skill or fully replaces the existing record.
func (r *MemoryRepository) Upsert(_ context.Context, skill *Skill) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	copied := *skill
	copied.UpdatedAt = now
	if existing, ok := r.skills[skill.ID]; ok {
		copied.CreatedAt = existing.CreatedAt
	} else {
		copied.CreatedAt = now
	}
	r.skills[skill.ID] = &copied
	return nil
}

// List returns one page of skills ordered by stars descending.
func (r *MemoryRepository) List(_ context.Context, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Skill
	for _, skill := range r.skills {
		if matchesSearch(skill, opts.Search) {
			matched = append(matched, skill)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Stars != matched[j].Stars {
			return matched[i].Stars > matched[j].Stars
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	start := (opts.Page - 1) * opts.PageSize
	if start > total {
		start = total
	}
	end := start + opts.PageSize
	if end > total {
		end = total
	}

	items := make([]*Skill, 0, end-start)
	for _, skill := range matched[start:end] {
		copied := *skill
		items = append(items, &copied)
	}

	return &ListResult{Items: items, Total: total}, nil
}

// Count returns the total number of catalogued skills.
func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.skills), nil
}

// Random returns up to n randomly sampled skills with names longer than
// two characters.
func (r *MemoryRepository) Random(_ context.Context, n int) ([]*Skill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var eligible []*Skill
	for _, skill := range r.skills {
		if len(skill.Name) > 2 {
			eligible = append(eligible, skill)
		}
	}

	rand.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	if n > len(eligible) {
		n = len(eligible)
	}
	items := make([]*Skill, 0, n)
	for _, skill := range eligible[:n] {
		copied := *skill
		items = append(items, &copied)
	}
	return items, nil
}

// SitemapEntries returns id and lastUpdated for a window of the catalog.
func (r *MemoryRepository) SitemapEntries(_ context.Context, offset, limit int) ([]SitemapEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.skills))
	for id := range r.skills {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if offset > len(ids) {
		offset = len(ids)
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}

	entries := make([]SitemapEntry, 0, end-offset)
	for _, id := range ids[offset:end] {
		entries = append(entries, SitemapEntry{
			ID:          id,
			LastUpdated: r.skills[id].LastUpdated,
		})
	}
	return entries, nil
}

// matchesSearch mirrors the SQL search: case-insensitive substring on
// name, short description, or author, or exact lowercase tag match.
func matchesSearch(skill *Skill, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(skill.Name), needle) ||
		strings.Contains(strings.ToLower(skill.ShortDesc), needle) ||
		strings.Contains(strings.ToLower(skill.Author), needle) {
		return true
	}
	for _, tag := range skill.Tags {
		if tag == needle {
			return true
		}
	}
	return false
}

// Ensure MemoryRepository implements Repository interface.
var _ Repository = (*MemoryRepository)(nil)
