package skills

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// BatchSize is the number of records processed concurrently per group.
// Groups run strictly sequentially so a large sync never opens more
// than BatchSize database operations at once.
const BatchSize = 50

// RecordOutcome classifies what happened to a single sync record.
type RecordOutcome string

// Record outcomes.
const (
	OutcomeCreated RecordOutcome = "created"
	OutcomeUpdated RecordOutcome = "updated"
	OutcomeSkipped RecordOutcome = "skipped"
	OutcomeFailed  RecordOutcome = "failed"
)

// RecordResult is the outcome of one record within a sync.
type RecordResult struct {
	ID      string
	Outcome RecordOutcome
	Err     error
}

// SyncSummary aggregates a whole sync run. Total always equals
// Created + Updated + Skipped + Failed.
type SyncSummary struct {
	Total   int
	Created int
	Updated int
	Skipped int
	Failed  int
	Errors  []string
}

// Ingestor runs idempotent bulk catalog syncs against a Repository.
type Ingestor struct {
	repo   Repository
	logger zerolog.Logger
}

// NewIngestor creates a new sync ingestor.
func NewIngestor(repo Repository, logger zerolog.Logger) *Ingestor {
	return &Ingestor{repo: repo, logger: logger}
}

// SyncBatch ingests a full catalog snapshot. Records are processed in
// groups of BatchSize; within a group each record runs in its own
// goroutine, and the next group does not start until the current one has
// fully settled. Per-record failures are absorbed into the summary, so
// one bad record never aborts the rest of the sync.
//
// Re-running the same payload is idempotent: records that were created
// on the first run report as updated on the second, and the stored rows
// are identical.
func (ing *Ingestor) SyncBatch(ctx context.Context, records []map[string]any) SyncSummary {
	start := time.Now()
	now := time.Now()

	results := make([]RecordResult, len(records))

	for offset := 0; offset < len(records); offset += BatchSize {
		end := offset + BatchSize
		if end > len(records) {
			end = len(records)
		}

		var wg sync.WaitGroup
		for i := offset; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = ing.syncRecord(ctx, records[i], now)
			}(i)
		}
		wg.Wait()
	}

	summary := SyncSummary{Total: len(records)}
	for _, res := range results {
		switch res.Outcome {
		case OutcomeCreated:
			summary.Created++
		case OutcomeUpdated:
			summary.Updated++
		case OutcomeSkipped:
			summary.Skipped++
		case OutcomeFailed:
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", res.ID, res.Err))
		}
	}

	ing.logger.Info().
		Int("total", summary.Total).
		Int("created", summary.Created).
		Int("updated", summary.Updated).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Dur("duration", time.Since(start)).
		Msg("catalog sync completed")

	return summary
}

// syncRecord normalizes and upserts one record. The created/updated
// distinction comes from an existence check before the upsert; inside a
// group two records with the same ID may race that check, but the final
// stored row is still whichever upsert ran last.
func (ing *Ingestor) syncRecord(ctx context.Context, record map[string]any, now time.Time) RecordResult {
	skill, err := normalizeRecord(record, now)
	if err != nil {
		if errors.Is(err, ErrMissingID) {
			return RecordResult{Outcome: OutcomeSkipped}
		}
		return RecordResult{ID: stringField(record, "id"), Outcome: OutcomeFailed, Err: err}
	}

	existed, err := ing.repo.Exists(ctx, skill.ID)
	if err != nil {
		return RecordResult{ID: skill.ID, Outcome: OutcomeFailed, Err: err}
	}

	if err := ing.repo.Upsert(ctx, skill); err != nil {
		ing.logger.Error().Err(err).Str("skill_id", skill.ID).Msg("failed to upsert skill")
		return RecordResult{ID: skill.ID, Outcome: OutcomeFailed, Err: err}
	}

	if existed {
		return RecordResult{ID: skill.ID, Outcome: OutcomeUpdated}
	}
	return RecordResult{ID: skill.ID, Outcome: OutcomeCreated}
}
