package ingest

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aerogrid/aerogrid/internal/measurement"
)

// DefaultPacing is the delay between per-provider calls during a manual
// backfill, to respect upstream rate limits.
const DefaultPacing = 500 * time.Millisecond

// Scheduler decides which date ranges need (re)importing and drives the
// Reconciler across the configured providers. It keeps no state of its
// own: the range is always derived from the latest persisted measurement
// timestamp, which makes every run restart-safe on top of the store's
// idempotent writes.
type Scheduler struct {
	providers    []Provider
	reconciler   *Reconciler
	measurements measurement.Repository
	logger       zerolog.Logger
	pacing       time.Duration
	now          func() time.Time
}

// SchedulerConfig holds dependencies for a Scheduler.
type SchedulerConfig struct {
	Providers    []Provider
	Reconciler   *Reconciler
	Measurements measurement.Repository
	Logger       zerolog.Logger
	// Pacing is the inter-call delay during backfills (default 500ms).
	Pacing time.Duration
	// Now overrides the clock; used by tests. Defaults to time.Now.
	Now func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	pacing := cfg.Pacing
	if pacing == 0 {
		pacing = DefaultPacing
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		providers:    cfg.Providers,
		reconciler:   cfg.Reconciler,
		measurements: cfg.Measurements,
		logger:       cfg.Logger,
		pacing:       pacing,
		now:          now,
	}
}

// RunStartupReconciliation imports all station catalogs and closes any
// measurement gap between the latest persisted day and today, oldest day
// first. Invoked once per process lifetime, at boot.
func (s *Scheduler) RunStartupReconciliation(ctx context.Context) {
	s.logger.Info().Msg("starting ingestion reconciliation")

	s.importAllStations(ctx)

	today := s.today()
	start := today

	latest, err := s.measurements.LatestTimestamp(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read latest measurement timestamp, importing today only")
	} else if latest != nil {
		start = truncateToDay(*latest)
		s.logger.Info().
			Time("last_measurement_day", start).
			Time("today", today).
			Msg("resuming from last persisted day")
	} else {
		s.logger.Info().Msg("no measurements found, importing today only")
	}

	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		s.importDay(ctx, day)
	}

	s.logger.Info().Msg("ingestion reconciliation completed")
}

// RunPeriodicImport refreshes station catalogs and imports the current
// window for every provider. A failing provider never blocks the others.
func (s *Scheduler) RunPeriodicImport(ctx context.Context) {
	s.logger.Info().Msg("starting periodic ingestion run")

	for _, p := range s.providers {
		s.importStations(ctx, p)
		s.importMeasurements(ctx, p, s.today())
	}

	s.logger.Info().Msg("periodic ingestion run completed")
}

// RunBackfill walks backward day by day from the latest persisted day (or
// today when the store is empty) for daysBack iterations, with pacing
// between provider calls. Safe to invoke concurrently with the periodic
// run: overlapping writes collapse on the store's uniqueness constraint.
func (s *Scheduler) RunBackfill(ctx context.Context, daysBack int) {
	s.logger.Info().Int("days_back", daysBack).Msg("starting backfill")

	s.importAllStations(ctx)

	start := s.today()
	if latest, err := s.measurements.LatestTimestamp(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to read latest measurement timestamp, starting from today")
	} else if latest != nil {
		start = truncateToDay(*latest)
	}

	for i := 0; i < daysBack; i++ {
		target := start.AddDate(0, 0, -i)
		s.logger.Info().
			Int("day", i+1).
			Int("of", daysBack).
			Time("date", target).
			Msg("backfilling day")

		for _, p := range s.providers {
			s.importMeasurements(ctx, p, target)
			time.Sleep(s.pacing)
		}
	}

	s.logger.Info().Msg("backfill completed")
}

func (s *Scheduler) importAllStations(ctx context.Context) {
	for _, p := range s.providers {
		s.importStations(ctx, p)
	}
}

func (s *Scheduler) importStations(ctx context.Context, p Provider) {
	raws, err := p.FetchStations(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("provider", p.Name()).Msg("station catalog fetch failed")
		return
	}

	summary := s.reconciler.ImportStations(ctx, raws)
	s.logger.Info().
		Str("provider", p.Name()).
		Int("added", summary.StationsAdded).
		Int("skipped", summary.Skipped).
		Msg("station import completed")
}

func (s *Scheduler) importDay(ctx context.Context, day time.Time) {
	for _, p := range s.providers {
		s.importMeasurements(ctx, p, day)
	}
}

func (s *Scheduler) importMeasurements(ctx context.Context, p Provider, day time.Time) {
	raws, err := p.FetchMeasurements(ctx, day)
	if err != nil {
		s.logger.Error().Err(err).
			Str("provider", p.Name()).
			Time("date", day).
			Msg("measurement fetch failed")
		return
	}

	if len(raws) == 0 {
		s.logger.Warn().Str("provider", p.Name()).Time("date", day).Msg("no measurement data for day")
		return
	}

	summary := s.reconciler.ImportMeasurements(ctx, raws)
	s.logger.Info().
		Str("provider", p.Name()).
		Time("date", day).
		Int("records", len(raws)).
		Int("measurements_added", summary.MeasurementsAdded).
		Int("stations_added", summary.StationsAdded).
		Int("skipped", summary.Skipped).
		Msg("measurement import completed")
}

func (s *Scheduler) today() time.Time {
	return truncateToDay(s.now())
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
