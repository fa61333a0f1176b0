package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/aerogrid/aerogrid/internal/aqi"
	"github.com/aerogrid/aerogrid/internal/measurement"
	"github.com/aerogrid/aerogrid/internal/station"
)

// Reconciler is the single place where normalized provider data becomes
// persisted state. Batch imports are best-effort: individual bad records
// are logged and skipped so one noisy row never aborts a run.
type Reconciler struct {
	stations     station.Repository
	measurements measurement.Repository
	mapper       *Mapper
	logger       zerolog.Logger
}

// ReconcilerConfig holds dependencies for a Reconciler.
type ReconcilerConfig struct {
	Stations     station.Repository
	Measurements measurement.Repository
	Mapper       *Mapper
	Logger       zerolog.Logger
}

// NewReconciler creates a new Reconciler.
func NewReconciler(cfg ReconcilerConfig) *Reconciler {
	mapper := cfg.Mapper
	if mapper == nil {
		mapper = NewMapper(cfg.Logger)
	}
	return &Reconciler{
		stations:     cfg.Stations,
		measurements: cfg.Measurements,
		mapper:       mapper,
		logger:       cfg.Logger,
	}
}

// Summary reports what a single import call did. Counters are returned,
// never shared, so concurrent runs cannot interfere with each other.
type Summary struct {
	StationsAdded     int
	MeasurementsAdded int
	Skipped           int
}

// stationDirectory is a per-run snapshot of known stations keyed by code.
// It is rebuilt from the store at the start of each measurement import and
// discarded afterwards.
type stationDirectory map[string]*station.Station

func (r *Reconciler) loadStationDirectory(ctx context.Context) (stationDirectory, error) {
	all, err := r.stations.List(ctx)
	if err != nil {
		return nil, err
	}

	dir := make(stationDirectory, len(all))
	for _, s := range all {
		dir[s.Code] = s
	}
	return dir, nil
}

// ImportStations persists the station catalog entries that do not exist
// yet. Existing codes and individually failing rows are skipped.
func (r *Reconciler) ImportStations(ctx context.Context, raws []*RawRecord) Summary {
	var summary Summary

	for _, raw := range raws {
		data := r.mapper.ToStation(raw)
		if r.createStation(ctx, data) {
			summary.StationsAdded++
		} else {
			summary.Skipped++
		}
	}

	return summary
}

// createStation persists a station if its code is unknown. Reports whether
// a new station was written.
func (r *Reconciler) createStation(ctx context.Context, data StationData) bool {
	if data.Code == "" {
		r.logger.Warn().Str("name", data.Name).Msg("station record without code, skipping")
		return false
	}

	_, err := r.stations.GetByCode(ctx, data.Code)
	if err == nil {
		return false
	}
	if !errors.Is(err, station.ErrStationNotFound) {
		r.logger.Error().Err(err).Str("code", data.Code).Msg("station lookup failed, skipping")
		return false
	}

	s := &station.Station{
		Code:         data.Code,
		Name:         data.Name,
		Municipality: data.Municipality,
		Source:       station.SourceType(data.Source),
		IsActive:     true,
	}
	if data.Latitude != nil {
		s.Latitude = *data.Latitude
	}
	if data.Longitude != nil {
		s.Longitude = *data.Longitude
	}

	if err := r.stations.Create(ctx, s); err != nil {
		// A concurrent run may have won the race on the code constraint;
		// both outcomes leave the station present, so just log and move on.
		r.logger.Error().Err(err).Str("code", data.Code).Msg("station insert failed, skipping")
		return false
	}

	r.logger.Debug().Str("code", s.Code).Msg("new station added")
	return true
}

// ImportMeasurements expands each raw batch record into hourly readings
// and persists them with conflict-tolerant writes. Stations referenced by
// a record but missing from the directory are created on the fly; records
// whose station cannot be resolved or whose pollutant is unrecognized are
// skipped.
func (r *Reconciler) ImportMeasurements(ctx context.Context, raws []*RawRecord) Summary {
	var summary Summary

	dir, err := r.loadStationDirectory(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to load station directory")
		summary.Skipped = len(raws)
		return summary
	}

	for _, raw := range raws {
		st, ok := r.resolveStation(ctx, dir, raw, &summary)
		if !ok {
			summary.Skipped++
			continue
		}

		pollutant, ok := aqi.ParsePollutant(raw.Pollutant)
		if !ok {
			summary.Skipped++
			continue
		}

		readings, err := r.mapper.ToMeasurements(raw)
		if err != nil {
			r.logger.Warn().Err(err).
				Str("station", raw.StationCode).
				Str("date", raw.Date).
				Msg("unparseable batch date, skipping record")
			summary.Skipped++
			continue
		}

		for _, reading := range readings {
			if r.persistReading(ctx, st, pollutant, reading.Value, reading.Timestamp) {
				summary.MeasurementsAdded++
			}
		}
	}

	return summary
}

// resolveStation looks up the record's station in the per-run directory,
// creating it from the record's own metadata on a miss.
func (r *Reconciler) resolveStation(ctx context.Context, dir stationDirectory, raw *RawRecord, summary *Summary) (*station.Station, bool) {
	if st, ok := dir[raw.StationCode]; ok {
		return st, true
	}

	r.logger.Info().Str("code", raw.StationCode).Msg("unknown station in measurement feed, creating it")

	if r.createStation(ctx, r.mapper.ToStation(raw)) {
		summary.StationsAdded++
	}

	st, err := r.stations.GetByCode(ctx, raw.StationCode)
	if err != nil {
		r.logger.Error().Err(err).Str("code", raw.StationCode).Msg("station creation did not stick, skipping record")
		return nil, false
	}

	dir[raw.StationCode] = st
	return st, true
}

// persistReading computes the AQI best-effort and writes one measurement
// row. Duplicate triples are silently dropped by the store.
func (r *Reconciler) persistReading(ctx context.Context, st *station.Station, pollutant aqi.Pollutant, value float64, ts time.Time) bool {
	m := &measurement.Measurement{
		StationID: st.ID,
		Pollutant: pollutant,
		Value:     value,
		Timestamp: ts,
	}
	if level, ok := aqi.Classify(pollutant, value); ok {
		m.AQI = &level
	}

	inserted, err := r.measurements.Insert(ctx, m)
	if err != nil {
		r.logger.Error().Err(err).
			Str("station", st.Code).
			Str("pollutant", string(pollutant)).
			Time("timestamp", ts).
			Msg("measurement insert failed, skipping")
		return false
	}

	return inserted
}
