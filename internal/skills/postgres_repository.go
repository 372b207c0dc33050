package skills

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL skill repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const skillColumns = `
	id, name, short_desc, long_desc, author, author_url,
	stars, last_updated, command, tags,
	file_sha, source_repo, source_path, download_url,
	seo_title, seo_desc, created_at, updated_at
`

// Get retrieves a skill by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM skills WHERE id = $1`

	skill, err := scanSkill(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}
	return skill, nil
}

// Exists reports whether a skill with the given ID is present.
func (r *PostgresRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM skills WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// Upsert inserts the skill or fully replaces the existing record with
// the same ID. Every mutable column is overwritten.
func (r *PostgresRepository) Upsert(ctx context.Context, skill *Skill) error {
	query := `
		INSERT INTO skills (
			id, name, short_desc, long_desc, author, author_url,
			stars, last_updated, command, tags,
			file_sha, source_repo, source_path, download_url,
			seo_title, seo_desc, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			short_desc = EXCLUDED.short_desc,
			long_desc = EXCLUDED.long_desc,
			author = EXCLUDED.author,
			author_url = EXCLUDED.author_url,
			stars = EXCLUDED.stars,
			last_updated = EXCLUDED.last_updated,
			command = EXCLUDED.command,
			tags = EXCLUDED.tags,
			file_sha = EXCLUDED.file_sha,
			source_repo = EXCLUDED.source_repo,
			source_path = EXCLUDED.source_path,
			download_url = EXCLUDED.download_url,
			seo_title = EXCLUDED.seo_title,
			seo_desc = EXCLUDED.seo_desc,
			updated_at = EXCLUDED.updated_at
	`

	now := time.Now()
	_, err := r.pool.Exec(ctx, query,
		skill.ID,
		skill.Name,
		skill.ShortDesc,
		skill.LongDesc,
		skill.Author,
		skill.AuthorURL,
		skill.Stars,
		skill.LastUpdated,
		skill.Command,
		skill.Tags,
		skill.FileSHA,
		skill.SourceRepo,
		skill.SourcePath,
		skill.DownloadURL,
		skill.SEOTitle,
		skill.SEODesc,
		now,
		now,
	)
	return err
}

// List returns one page of skills ordered by stars descending.
func (r *PostgresRepository) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	where := ``
	args := []interface{}{}
	if opts.Search != "" {
		// $1 is the escaped term for the substring matches, $2 the raw
		// term for the exact tag match.
		where = `
			WHERE name ILIKE '%' || $1 || '%'
			   OR short_desc ILIKE '%' || $1 || '%'
			   OR author ILIKE '%' || $1 || '%'
			   OR lower($2) = ANY(tags)
		`
		args = append(args, escapeLike(opts.Search), opts.Search)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM skills` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, err
	}

	offset := (opts.Page - 1) * opts.PageSize
	query := `SELECT ` + skillColumns + ` FROM skills` + where +
		` ORDER BY stars DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, opts.PageSize, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := collectSkills(rows)
	if err != nil {
		return nil, err
	}

	return &ListResult{Items: items, Total: total}, nil
}

// Count returns the total number of catalogued skills.
func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM skills`).Scan(&count)
	return count, err
}

// Random returns up to n randomly sampled skills. Records with names of
// two characters or fewer are placeholder rows and are excluded.
func (r *PostgresRepository) Random(ctx context.Context, n int) ([]*Skill, error) {
	query := `SELECT ` + skillColumns + `
		FROM skills
		WHERE length(name) > 2
		ORDER BY RANDOM()
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSkills(rows)
}

// SitemapEntries returns id and lastUpdated for a window of the catalog.
func (r *PostgresRepository) SitemapEntries(ctx context.Context, offset, limit int) ([]SitemapEntry, error) {
	query := `SELECT id, last_updated FROM skills ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []SitemapEntry
	for rows.Next() {
		var entry SitemapEntry
		if err := rows.Scan(&entry.ID, &entry.LastUpdated); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// likeEscaper neutralizes LIKE pattern metacharacters so a search term
// always matches literally, the same way the in-memory repository does.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// rowScanner covers pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanSkill scans a full skill row.
func scanSkill(row rowScanner) (*Skill, error) {
	var skill Skill
	err := row.Scan(
		&skill.ID,
		&skill.Name,
		&skill.ShortDesc,
		&skill.LongDesc,
		&skill.Author,
		&skill.AuthorURL,
		&skill.Stars,
		&skill.LastUpdated,
		&skill.Command,
		&skill.Tags,
		&skill.FileSHA,
		&skill.SourceRepo,
		&skill.SourcePath,
		&skill.DownloadURL,
		&skill.SEOTitle,
		&skill.SEODesc,
		&skill.CreatedAt,
		&skill.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

// collectSkills scans all remaining rows.
func collectSkills(rows pgx.Rows) ([]*Skill, error) {
	var items []*Skill
	for rows.Next() {
		skill, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
