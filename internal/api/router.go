// Package api provides the HTTP API for AeroGrid.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/aerogrid/aerogrid/internal/api/handler"
	"github.com/aerogrid/aerogrid/internal/api/middleware"
	"github.com/aerogrid/aerogrid/internal/ingest"
	"github.com/aerogrid/aerogrid/internal/measurement"
	"github.com/aerogrid/aerogrid/internal/station"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger         zerolog.Logger
	Stations       station.Repository
	Measurements   measurement.Repository
	CitizenService *ingest.CitizenService
	// DB provides the readiness ping; nil disables the check.
	DB handler.Pinger
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.RequireJSON)

	stationHandler := handler.NewStationHandler(cfg.Stations, cfg.Logger)
	measurementHandler := handler.NewMeasurementHandler(cfg.Stations, cfg.Measurements, cfg.Logger)
	ingestHandler := handler.NewIngestHandler(cfg.CitizenService, cfg.Logger)
	opsHandler := handler.NewOpsHandler(cfg.DB)

	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)
	ingestRateLimit := middleware.RateLimitByIP(middleware.IngestRateLimit)

	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Read endpoints (public) - standard rate limiting
		r.Group(func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/stations", stationHandler.ListStations)
			r.Get("/stations/{code}", stationHandler.GetStation)
			r.Get("/measurements", measurementHandler.ListMeasurements)
		})

		// Citizen ingestion - authenticated by API key inside the handler
		r.With(ingestRateLimit).Post("/ingest", ingestHandler.Ingest)
	})

	return r
}
