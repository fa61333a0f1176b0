package ingest_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerogrid/aerogrid/internal/apikey"
	"github.com/aerogrid/aerogrid/internal/ingest"
	"github.com/aerogrid/aerogrid/internal/measurement"
	"github.com/aerogrid/aerogrid/internal/station"
)

type citizenFixture struct {
	service      *ingest.CitizenService
	measurements *measurement.InMemoryRepository
	key          string
}

func newCitizenFixture(t *testing.T, active bool) *citizenFixture {
	t.Helper()

	stations := station.NewInMemoryRepository()
	measurements := measurement.NewInMemoryRepository(stations)
	keys := apikey.NewInMemoryRepository(stations)

	ctx := context.Background()
	s := &station.Station{
		Code:     station.GenerateCode(),
		Name:     "Balcony sensor",
		Source:   station.SourceCitizen,
		IsActive: true,
	}
	require.NoError(t, stations.Create(ctx, s))

	key := apikey.Generate()
	require.NoError(t, keys.Create(ctx, &apikey.Key{
		Key:       key,
		StationID: s.ID,
		IsActive:  active,
	}))

	service := ingest.NewCitizenService(ingest.CitizenServiceConfig{
		Keys:         keys,
		Measurements: measurements,
		Logger:       zerolog.Nop(),
		Now:          func() time.Time { return time.Date(2026, 2, 1, 12, 30, 0, 0, time.UTC) },
	})

	return &citizenFixture{service: service, measurements: measurements, key: key}
}

func TestCitizenService_Ingest(t *testing.T) {
	f := newCitizenFixture(t, true)

	reading, err := f.service.Ingest(context.Background(), f.key, "PM2.5", 30)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 2, 1, 12, 30, 0, 0, time.UTC), reading.Timestamp)
	require.NotNil(t, reading.AQI)
	assert.Equal(t, 4, *reading.AQI) // PM25 at 30 sits in the 25-50 band

	rows := f.measurements.All()
	require.Len(t, rows, 1)
	assert.Equal(t, 30.0, rows[0].Value)
}

func TestCitizenService_Ingest_UnknownKey(t *testing.T) {
	f := newCitizenFixture(t, true)

	_, err := f.service.Ingest(context.Background(), "sk_bogus", "PM2.5", 30)
	assert.ErrorIs(t, err, ingest.ErrInvalidAPIKey)
	assert.Empty(t, f.measurements.All())
}

func TestCitizenService_Ingest_InactiveKey(t *testing.T) {
	f := newCitizenFixture(t, false)

	_, err := f.service.Ingest(context.Background(), f.key, "PM2.5", 30)
	assert.ErrorIs(t, err, ingest.ErrInvalidAPIKey)
	assert.Empty(t, f.measurements.All())
}

func TestCitizenService_Ingest_UnknownPollutant(t *testing.T) {
	f := newCitizenFixture(t, true)

	_, err := f.service.Ingest(context.Background(), f.key, "NOX", 30)
	assert.ErrorIs(t, err, ingest.ErrUnknownPollutant)
	assert.Empty(t, f.measurements.All())
}

func TestCitizenService_Ingest_UnclassifiedPollutantStillStored(t *testing.T) {
	f := newCitizenFixture(t, true)

	// PM1 is a recognized pollutant without an AQI scale.
	reading, err := f.service.Ingest(context.Background(), f.key, "PM1", 12)
	require.NoError(t, err)

	assert.Nil(t, reading.AQI)
	assert.Len(t, f.measurements.All(), 1)
}
