// Package skills provides the persistent skill catalog: read-side queries
// for the site and the idempotent bulk-sync ingestion path.
package skills

import (
	"errors"
	"time"
)

// Package errors.
var (
	// ErrSkillNotFound is returned when a skill does not exist.
	ErrSkillNotFound = errors.New("skill not found")
)

// Skill is one catalogued plugin. ID is the sole identity key: a record
// with a given ID is either created or fully overwritten, never merged.
type Skill struct {
	ID          string
	Name        string
	ShortDesc   string
	LongDesc    string
	Author      string
	AuthorURL   *string
	Stars       int
	LastUpdated time.Time
	Command     string
	Tags        []string
	FileSHA     *string
	SourceRepo  *string
	SourcePath  *string
	DownloadURL *string
	SEOTitle    *string
	SEODesc     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SitemapEntry is the minimal projection used for sitemap enumeration.
type SitemapEntry struct {
	ID          string
	LastUpdated time.Time
}

// ListOptions controls paginated listing.
type ListOptions struct {
	// Page is 1-based.
	Page int

	// PageSize is the number of records per page.
	PageSize int

	// Search filters by case-insensitive substring on name, short
	// description, or author, or by exact lowercase tag match.
	Search string
}

// ListResult holds one page of skills plus the total match count.
type ListResult struct {
	Items []*Skill
	Total int
}
