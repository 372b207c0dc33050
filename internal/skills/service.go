package skills

import (
	"context"

	"github.com/rs/zerolog"
)

// Read-side limits. Out-of-range client values are clamped, never
// rejected.
const (
	DefaultPageSize = 30
	MaxPageSize     = 100
	MaxSearchLength = 100

	DefaultRandomCount = 6
	MaxRandomCount     = 50

	// SitemapPageSize is the number of entries per sitemap page.
	SitemapPageSize = 1000
)

// Service provides skill catalog queries for the API layer.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService creates a new skill catalog service.
func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Get retrieves a single skill by ID.
func (s *Service) Get(ctx context.Context, id string) (*Skill, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of skills ordered by stars descending, after
// clamping pagination and truncating oversized search terms.
func (s *Service) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = DefaultPageSize
	}
	if opts.PageSize > MaxPageSize {
		opts.PageSize = MaxPageSize
	}
	if len(opts.Search) > MaxSearchLength {
		opts.Search = opts.Search[:MaxSearchLength]
	}

	return s.repo.List(ctx, opts)
}

// Random returns up to count randomly sampled skills.
func (s *Service) Random(ctx context.Context, count int) ([]*Skill, error) {
	if count < 1 {
		count = DefaultRandomCount
	}
	if count > MaxRandomCount {
		count = MaxRandomCount
	}
	return s.repo.Random(ctx, count)
}

// SitemapPage returns one fixed-size page of sitemap entries plus the
// total catalog size. Page is 1-based; a page past the end returns an
// empty slice, not an error.
func (s *Service) SitemapPage(ctx context.Context, page int) ([]SitemapEntry, int, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	entries, err := s.repo.SitemapEntries(ctx, (page-1)*SitemapPageSize, SitemapPageSize)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
