// Package main provides the entrypoint for the AeroGrid ingestion worker.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/aerogrid/aerogrid/internal/config"
	"github.com/aerogrid/aerogrid/internal/database"
	"github.com/aerogrid/aerogrid/internal/ingest"
	"github.com/aerogrid/aerogrid/internal/ingest/gencat"
	"github.com/aerogrid/aerogrid/internal/measurement"
	"github.com/aerogrid/aerogrid/internal/station"
	"github.com/aerogrid/aerogrid/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "aerogrid-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting AeroGrid worker")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	stationRepo := station.NewPostgresRepository(pool)
	measurementRepo := measurement.NewPostgresRepository(pool)

	provider := gencat.NewClient(gencat.ClientConfig{
		BaseURL:  cfg.GencatBaseURL,
		AppToken: cfg.GencatAppToken,
	})

	reconciler := ingest.NewReconciler(ingest.ReconcilerConfig{
		Stations:     stationRepo,
		Measurements: measurementRepo,
		Logger:       log,
	})

	scheduler := ingest.NewScheduler(ingest.SchedulerConfig{
		Providers:    []ingest.Provider{provider},
		Reconciler:   reconciler,
		Measurements: measurementRepo,
		Logger:       log,
		Pacing:       cfg.BackfillPacing,
	})

	// Close any gap since the last run before the periodic schedule kicks
	// in. Writes are idempotent, so a crash mid-run is harmless.
	scheduler.RunStartupReconciliation(ctx)

	cron := gocron.NewScheduler(time.UTC)
	if _, err := cron.Every(cfg.ImportInterval).Do(func() {
		scheduler.RunPeriodicImport(ctx)
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule periodic import")
	}
	cron.StartAsync()
	log.Info().Dur("interval", cfg.ImportInterval).Msg("periodic import scheduled")

	// Operator endpoints for manual imports and backfills.
	admin := worker.NewAdminServer(scheduler, log)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      admin.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("admin server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("admin server error")
		}
	}()

	// Optional Pub/Sub job subscription.
	if cfg.PubSubProjectID != "" && cfg.PubSubSubscription != "" {
		pubsubHandler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        cfg.PubSubProjectID,
			SubscriptionName: cfg.PubSubSubscription,
			Scheduler:        scheduler,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer pubsubHandler.Close()

		go func() {
			if err := pubsubHandler.Start(ctx); err != nil {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
	} else {
		log.Info().Msg("pubsub not configured, job subscription disabled")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()
	cron.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("admin server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
