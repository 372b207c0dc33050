// Package main provides the entrypoint for the ClawKit background worker.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/getclawkit/clawkit/internal/database"
	"github.com/getclawkit/clawkit/internal/skills"
	"github.com/getclawkit/clawkit/internal/source"
	"github.com/getclawkit/clawkit/internal/status"
	"github.com/getclawkit/clawkit/internal/telemetry"
	"github.com/getclawkit/clawkit/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "clawkit-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting ClawKit worker")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Enabled:        os.Getenv("OTEL_ENABLED") == "true",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Catalog sync pipeline
	githubToken := os.Getenv("GITHUB_TOKEN")
	if githubToken == "" {
		log.Warn().Msg("GITHUB_TOKEN not set - catalog syncs will be rate limited quickly")
	}
	githubClient := source.NewGitHubClient(source.GitHubClientConfig{Token: githubToken})
	scanner := source.NewScanner(githubClient, log)

	skillRepo := skills.NewPostgresRepository(pool)
	ingestor := skills.NewIngestor(skillRepo, log)

	syncJob := worker.NewCatalogSyncJob(worker.CatalogSyncJobConfig{
		Scanner:  scanner,
		Ingestor: ingestor,
		Seeds:    seedsFromEnv(log),
		Logger:   log,
	})

	// Status service for sweep jobs
	statusService := status.NewService(status.ServiceConfig{Logger: log})

	// Pub/Sub subscription
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscription := os.Getenv("PUBSUB_SUBSCRIPTION")
	if subscription == "" {
		subscription = "clawkit-worker-jobs"
	}

	var pubsubHandler *worker.PubSubHandler
	if projectID != "" {
		pubsubHandler, err = worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			SyncJob:          syncJob,
			StatusService:    statusService,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer pubsubHandler.Close()

		go func() {
			if recvErr := pubsubHandler.Start(ctx); recvErr != nil && ctx.Err() == nil {
				log.Error().Err(recvErr).Msg("pubsub receive stopped")
				cancel()
			}
		}()
	} else {
		log.Warn().Msg("PUBSUB_PROJECT_ID not set - running in one-shot sync mode")
		go func() {
			if _, syncErr := syncJob.Run(ctx); syncErr != nil {
				log.Error().Err(syncErr).Msg("one-shot catalog sync failed")
			}
			cancel()
		}()
	}

	// Health endpoint for the container platform
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":%q}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if serveErr := server.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			log.Error().Err(serveErr).Msg("health server error")
		}
	}()

	// Wait for interrupt or job completion
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}

// seedsFromEnv reads the seed list from SYNC_SEEDS, a JSON array of
// {repo, path, type} objects. Falls back to the built-in seeds.
func seedsFromEnv(log zerolog.Logger) []source.Seed {
	raw := os.Getenv("SYNC_SEEDS")
	if raw == "" {
		return nil
	}
	var seeds []source.Seed
	if err := json.Unmarshal([]byte(raw), &seeds); err != nil {
		log.Warn().Err(err).Msg("invalid SYNC_SEEDS, using default seeds")
		return nil
	}
	return seeds
}
