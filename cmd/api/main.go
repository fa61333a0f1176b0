// Package main provides the entrypoint for the AeroGrid API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aerogrid/aerogrid/internal/api"
	"github.com/aerogrid/aerogrid/internal/apikey"
	"github.com/aerogrid/aerogrid/internal/config"
	"github.com/aerogrid/aerogrid/internal/database"
	"github.com/aerogrid/aerogrid/internal/ingest"
	"github.com/aerogrid/aerogrid/internal/measurement"
	"github.com/aerogrid/aerogrid/internal/station"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "aerogrid-api"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting AeroGrid API")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx := context.Background()

	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	stationRepo := station.NewPostgresRepository(pool)
	measurementRepo := measurement.NewPostgresRepository(pool)
	apikeyRepo := apikey.NewPostgresRepository(pool)

	citizenService := ingest.NewCitizenService(ingest.CitizenServiceConfig{
		Keys:         apikeyRepo,
		Measurements: measurementRepo,
		Logger:       log,
	})

	router := api.NewRouter(api.RouterConfig{
		Logger:         log,
		Stations:       stationRepo,
		Measurements:   measurementRepo,
		CitizenService: citizenService,
		DB:             pool,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
