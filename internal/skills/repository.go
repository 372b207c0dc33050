package skills

import "context"

// Repository defines skill catalog persistence.
//
// Upsert has total-replace semantics: when a record with the same ID
// exists, every mutable field is overwritten with the new values. It is
// never a partial merge.
type Repository interface {
	// Get retrieves a skill by ID. Returns ErrSkillNotFound if absent.
	Get(ctx context.Context, id string) (*Skill, error)

	// Exists reports whether a skill with the given ID is present.
	Exists(ctx context.Context, id string) (bool, error)

	// Upsert inserts the skill or fully replaces the existing record
	// with the same ID.
	Upsert(ctx context.Context, skill *Skill) error

	// List returns one page of skills ordered by stars descending,
	// plus the total number of matches.
	List(ctx context.Context, opts ListOptions) (*ListResult, error)

	// Count returns the total number of catalogued skills.
	Count(ctx context.Context) (int, error)

	// Random returns up to n randomly sampled skills whose name is
	// longer than two characters.
	Random(ctx context.Context, n int) ([]*Skill, error)

	// SitemapEntries returns id and lastUpdated for a window of the
	// catalog, ordered by ID for stable pagination.
	SitemapEntries(ctx context.Context, offset, limit int) ([]SitemapEntry, error)
}
