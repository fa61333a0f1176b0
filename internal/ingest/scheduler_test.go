package ingest_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerogrid/aerogrid/internal/ingest"
	"github.com/aerogrid/aerogrid/internal/measurement"
	"github.com/aerogrid/aerogrid/internal/station"
)

// fakeProvider records the dates it was asked to fetch.
type fakeProvider struct {
	mu            sync.Mutex
	name          string
	stationErr    error
	fetchedDates  []time.Time
	stationCalls  int
	measureRecord []*ingest.RawRecord
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) FetchStations(context.Context) ([]*ingest.RawRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stationCalls++
	if p.stationErr != nil {
		return nil, p.stationErr
	}
	return nil, nil
}

func (p *fakeProvider) FetchMeasurements(_ context.Context, date time.Time) ([]*ingest.RawRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetchedDates = append(p.fetchedDates, date)
	return p.measureRecord, nil
}

func (p *fakeProvider) dates() []time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]time.Time(nil), p.fetchedDates...)
}

func newSchedulerFixture(t *testing.T, provider *fakeProvider, now time.Time) (*ingest.Scheduler, *measurement.InMemoryRepository) {
	t.Helper()

	stations := station.NewInMemoryRepository()
	measurements := measurement.NewInMemoryRepository(stations)
	reconciler := ingest.NewReconciler(ingest.ReconcilerConfig{
		Stations:     stations,
		Measurements: measurements,
		Logger:       zerolog.Nop(),
	})

	scheduler := ingest.NewScheduler(ingest.SchedulerConfig{
		Providers:    []ingest.Provider{provider},
		Reconciler:   reconciler,
		Measurements: measurements,
		Logger:       zerolog.Nop(),
		Pacing:       time.Millisecond,
		Now:          func() time.Time { return now },
	})
	return scheduler, measurements
}

func TestScheduler_StartupReconciliation_EmptyStore(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	provider := &fakeProvider{name: "fake"}
	scheduler, _ := newSchedulerFixture(t, provider, now)

	scheduler.RunStartupReconciliation(context.Background())

	// Nothing persisted yet, so only today is imported.
	dates := provider.dates()
	require.Len(t, dates, 1)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, 1, provider.stationCalls)
}

func TestScheduler_StartupReconciliation_ClosesGapOldestFirst(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	provider := &fakeProvider{name: "fake"}
	scheduler, measurements := newSchedulerFixture(t, provider, now)

	_, err := measurements.Insert(context.Background(), &measurement.Measurement{
		StationID: 1,
		Pollutant: "NO2",
		Value:     10,
		Timestamp: time.Date(2026, 1, 29, 15, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	scheduler.RunStartupReconciliation(context.Background())

	// Jan 29 through Feb 1, oldest first.
	dates := provider.dates()
	require.Len(t, dates, 4)
	assert.Equal(t, time.Date(2026, 1, 29, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC), dates[1])
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), dates[2])
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), dates[3])
}

func TestScheduler_Backfill_WalksBackwardFromLatest(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	provider := &fakeProvider{name: "fake"}
	scheduler, measurements := newSchedulerFixture(t, provider, now)

	_, err := measurements.Insert(context.Background(), &measurement.Measurement{
		StationID: 1,
		Pollutant: "NO2",
		Value:     10,
		Timestamp: time.Date(2026, 1, 30, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	scheduler.RunBackfill(context.Background(), 3)

	dates := provider.dates()
	require.Len(t, dates, 3)
	assert.Equal(t, time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2026, 1, 29, 0, 0, 0, 0, time.UTC), dates[1])
	assert.Equal(t, time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC), dates[2])
}

func TestScheduler_PeriodicImport_ProviderFailureIsolated(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	failing := &fakeProvider{name: "broken", stationErr: errors.New("upstream down")}
	healthy := &fakeProvider{name: "fake"}

	stations := station.NewInMemoryRepository()
	measurements := measurement.NewInMemoryRepository(stations)
	reconciler := ingest.NewReconciler(ingest.ReconcilerConfig{
		Stations:     stations,
		Measurements: measurements,
		Logger:       zerolog.Nop(),
	})
	scheduler := ingest.NewScheduler(ingest.SchedulerConfig{
		Providers:    []ingest.Provider{failing, healthy},
		Reconciler:   reconciler,
		Measurements: measurements,
		Logger:       zerolog.Nop(),
		Now:          func() time.Time { return now },
	})

	scheduler.RunPeriodicImport(context.Background())

	// The broken provider's catalog fetch fails, but the healthy one still
	// gets its full run.
	assert.Equal(t, 1, healthy.stationCalls)
	assert.Len(t, healthy.dates(), 1)
}

func TestScheduler_ImportPersistsThroughReconciler(t *testing.T) {
	now := time.Date(2026, 1, 29, 10, 0, 0, 0, time.UTC)
	provider := &fakeProvider{
		name:          "fake",
		measureRecord: []*ingest.RawRecord{officialRecord()},
	}
	scheduler, measurements := newSchedulerFixture(t, provider, now)

	scheduler.RunPeriodicImport(context.Background())

	assert.Len(t, measurements.All(), 2)
}
