package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/getclawkit/clawkit/internal/status"
)

// Job types accepted on the worker subscription.
const (
	JobCatalogSync = "catalog_sync"
	JobStatusSweep = "status_sweep"
)

// JobMessage is the envelope published to trigger worker jobs.
type JobMessage struct {
	JobType string `json:"job_type"`
}

// PubSubHandler consumes job messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	syncJob          *CatalogSyncJob
	statusService    *status.Service
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	SyncJob          *CatalogSyncJob
	StatusService    *status.Service
	Logger           zerolog.Logger
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Catalog syncs are long-running, keep the lease extended and
	// process one at a time.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 1
	subscriber.ReceiveSettings.MaxExtension = 30 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		syncJob:          cfg.SyncJob,
		statusService:    cfg.StatusService,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing job messages. Blocks until ctx is cancelled.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	start := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	var job JobMessage
	if err := json.Unmarshal(msg.Data, &job); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	var err error
	switch job.JobType {
	case JobCatalogSync:
		err = h.handleCatalogSync(ctx)
	case JobStatusSweep:
		err = h.handleStatusSweep(ctx)
	default:
		logger.Warn().Str("job_type", job.JobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	if err != nil {
		logger.Error().Err(err).Str("job_type", job.JobType).Msg("job failed")
		msg.Nack()
		return
	}

	logger.Info().
		Str("job_type", job.JobType).
		Dur("duration", time.Since(start)).
		Msg("job completed successfully")

	msg.Ack()
}

func (h *PubSubHandler) handleCatalogSync(ctx context.Context) error {
	summary, err := h.syncJob.Run(ctx)
	if err != nil {
		return err
	}

	// A sync where more records failed than landed is a failure worth
	// redelivering.
	landed := summary.Created + summary.Updated
	if summary.Failed > landed {
		return fmt.Errorf("too many sync failures: %d/%d", summary.Failed, summary.Total)
	}
	return nil
}

// handleStatusSweep forces a fresh probe round so the next status read
// starts from a warm cache.
func (h *PubSubHandler) handleStatusSweep(ctx context.Context) error {
	h.statusService.InvalidateCache()
	report := h.statusService.Report(ctx)

	for _, svc := range report.Services {
		if svc.State == status.StateDown {
			h.logger.Warn().
				Str("target", svc.ID).
				Msg("status sweep found service down")
		}
	}
	return nil
}
