// Package worker provides background job processing for ClawKit.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/getclawkit/clawkit/internal/skills"
	"github.com/getclawkit/clawkit/internal/source"
)

// DefaultSeeds lists the repositories harvested when no explicit seed
// configuration is provided.
func DefaultSeeds() []source.Seed {
	return []source.Seed{
		{Repo: "openclaw/skills", Path: "skills", Type: source.SeedTypeRecursiveAuthor},
		{Repo: "openclaw/openclaw", Path: "skills", Type: source.SeedTypeFlat},
	}
}

// CatalogSyncJob harvests skill records from the seeded repositories and
// ingests them into the catalog.
type CatalogSyncJob struct {
	scanner  *source.Scanner
	ingestor *skills.Ingestor
	seeds    []source.Seed
	logger   zerolog.Logger

	mu      sync.Mutex
	lastRun time.Time
	lastSum skills.SyncSummary
}

// CatalogSyncJobConfig holds configuration for the catalog sync job.
type CatalogSyncJobConfig struct {
	Scanner  *source.Scanner
	Ingestor *skills.Ingestor

	// Seeds to harvest. If empty, DefaultSeeds is used.
	Seeds []source.Seed

	Logger zerolog.Logger
}

// NewCatalogSyncJob creates a new catalog sync job.
func NewCatalogSyncJob(cfg CatalogSyncJobConfig) *CatalogSyncJob {
	seeds := cfg.Seeds
	if len(seeds) == 0 {
		seeds = DefaultSeeds()
	}
	return &CatalogSyncJob{
		scanner:  cfg.Scanner,
		ingestor: cfg.Ingestor,
		seeds:    seeds,
		logger:   cfg.Logger,
	}
}

// Run scans every seed and syncs the harvested records. The scan can
// fail outright (rate limit, cancellation); ingestion cannot, since the
// ingestor absorbs per-record failures into its summary.
func (j *CatalogSyncJob) Run(ctx context.Context) (skills.SyncSummary, error) {
	start := time.Now()

	records, err := j.scanner.Scan(ctx, j.seeds)
	if err != nil {
		return skills.SyncSummary{}, err
	}

	summary := j.ingestor.SyncBatch(ctx, records)

	j.mu.Lock()
	j.lastRun = time.Now()
	j.lastSum = summary
	j.mu.Unlock()

	j.logger.Info().
		Int("seeds", len(j.seeds)).
		Int("records", len(records)).
		Int("created", summary.Created).
		Int("updated", summary.Updated).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Dur("duration", time.Since(start)).
		Msg("catalog sync job completed")

	return summary, nil
}

// LastRun returns when the job last completed and its summary.
func (j *CatalogSyncJob) LastRun() (time.Time, skills.SyncSummary) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastRun, j.lastSum
}
