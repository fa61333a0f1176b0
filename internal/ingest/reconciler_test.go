package ingest_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerogrid/aerogrid/internal/ingest"
	"github.com/aerogrid/aerogrid/internal/measurement"
	"github.com/aerogrid/aerogrid/internal/station"
)

func newReconciler(t *testing.T) (*ingest.Reconciler, *station.InMemoryRepository, *measurement.InMemoryRepository) {
	t.Helper()
	stations := station.NewInMemoryRepository()
	measurements := measurement.NewInMemoryRepository(stations)
	r := ingest.NewReconciler(ingest.ReconcilerConfig{
		Stations:     stations,
		Measurements: measurements,
		Logger:       zerolog.Nop(),
	})
	return r, stations, measurements
}

func officialRecord() *ingest.RawRecord {
	return &ingest.RawRecord{
		StationCode:  "08019043",
		StationName:  "Barcelona (Eixample)",
		Municipality: "Barcelona",
		Latitude:     "41.385342",
		Longitude:    "2.153800",
		Date:         "2026-01-29T00:00:00",
		Pollutant:    "NO2",
		HourlyValues: []ingest.HourSlot{
			{Key: "h01", Value: "35"},
			{Key: "h02", Value: "120"},
		},
	}
}

func TestReconciler_ImportStations(t *testing.T) {
	r, stations, _ := newReconciler(t)
	ctx := context.Background()

	summary := r.ImportStations(ctx, []*ingest.RawRecord{officialRecord()})

	assert.Equal(t, 1, summary.StationsAdded)
	assert.Equal(t, 0, summary.Skipped)

	s, err := stations.GetByCode(ctx, "08019043")
	require.NoError(t, err)
	assert.Equal(t, station.SourceOfficial, s.Source)
	assert.True(t, s.IsActive)
	assert.InDelta(t, 41.385342, s.Latitude, 1e-9)
}

func TestReconciler_ImportStations_ExistingCodeSkipped(t *testing.T) {
	r, _, _ := newReconciler(t)
	ctx := context.Background()

	first := r.ImportStations(ctx, []*ingest.RawRecord{officialRecord()})
	second := r.ImportStations(ctx, []*ingest.RawRecord{officialRecord()})

	assert.Equal(t, 1, first.StationsAdded)
	assert.Equal(t, 0, second.StationsAdded)
	assert.Equal(t, 1, second.Skipped)
}

func TestReconciler_ImportMeasurements(t *testing.T) {
	r, _, measurements := newReconciler(t)
	ctx := context.Background()

	r.ImportStations(ctx, []*ingest.RawRecord{officialRecord()})
	summary := r.ImportMeasurements(ctx, []*ingest.RawRecord{officialRecord()})

	assert.Equal(t, 2, summary.MeasurementsAdded)

	rows := measurements.All()
	require.Len(t, rows, 2)
	for _, m := range rows {
		require.NotNil(t, m.AQI, "every classified pollutant reading gets an AQI")
	}
}

func TestReconciler_ImportMeasurements_Idempotent(t *testing.T) {
	r, _, measurements := newReconciler(t)
	ctx := context.Background()

	first := r.ImportMeasurements(ctx, []*ingest.RawRecord{officialRecord()})
	second := r.ImportMeasurements(ctx, []*ingest.RawRecord{officialRecord()})

	assert.Equal(t, 2, first.MeasurementsAdded)
	assert.Equal(t, 0, second.MeasurementsAdded)
	assert.Len(t, measurements.All(), 2)
}

func TestReconciler_ImportMeasurements_CreatesMissingStation(t *testing.T) {
	r, stations, _ := newReconciler(t)
	ctx := context.Background()

	// No prior catalog import; the measurement record carries enough
	// metadata to create the station on the fly.
	summary := r.ImportMeasurements(ctx, []*ingest.RawRecord{officialRecord()})

	assert.Equal(t, 1, summary.StationsAdded)
	assert.Equal(t, 2, summary.MeasurementsAdded)

	_, err := stations.GetByCode(ctx, "08019043")
	assert.NoError(t, err)
}

func TestReconciler_ImportMeasurements_UnrecognizedPollutantSkipped(t *testing.T) {
	r, _, measurements := newReconciler(t)
	ctx := context.Background()

	raw := officialRecord()
	raw.Pollutant = "NOX"

	summary := r.ImportMeasurements(ctx, []*ingest.RawRecord{raw})

	assert.Equal(t, 0, summary.MeasurementsAdded)
	assert.Equal(t, 1, summary.Skipped)
	assert.Empty(t, measurements.All())
}

func TestReconciler_ImportMeasurements_BadDateSkipsRecordOnly(t *testing.T) {
	r, _, measurements := newReconciler(t)
	ctx := context.Background()

	bad := officialRecord()
	bad.Date = "not-a-date"
	good := officialRecord()

	summary := r.ImportMeasurements(ctx, []*ingest.RawRecord{bad, good})

	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 2, summary.MeasurementsAdded)
	assert.Len(t, measurements.All(), 2)
}
