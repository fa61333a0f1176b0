package ingest_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerogrid/aerogrid/internal/ingest"
)

func TestCaptureHourSlots(t *testing.T) {
	row := map[string]string{
		"codi_eoi":    "08019043",
		"contaminant": "NO2",
		"h24":         "20",
		"h01":         "10",
		"h13":         "15",
		"hora":        "ignored",
		"h1":          "ignored",
		"h001":        "ignored",
	}

	slots := ingest.CaptureHourSlots(row)

	require.Len(t, slots, 3)
	assert.Equal(t, ingest.HourSlot{Key: "h01", Value: "10"}, slots[0])
	assert.Equal(t, ingest.HourSlot{Key: "h13", Value: "15"}, slots[1])
	assert.Equal(t, ingest.HourSlot{Key: "h24", Value: "20"}, slots[2])
}

func TestMapper_ToMeasurements_ExpandsHourSlots(t *testing.T) {
	mapper := ingest.NewMapper(zerolog.Nop())

	raw := &ingest.RawRecord{
		StationCode: "08019043",
		Pollutant:   "NO2",
		Date:        "2026-01-29T00:00:00",
		HourlyValues: []ingest.HourSlot{
			{Key: "h01", Value: "10"},
			{Key: "h13", Value: "not-a-number"},
			{Key: "h24", Value: "20"},
		},
	}

	readings, err := mapper.ToMeasurements(raw)
	require.NoError(t, err)

	// The malformed h13 slot is dropped, the rest survive.
	require.Len(t, readings, 2)

	base := time.Date(2026, 1, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, base, readings[0].Timestamp) // h01 is hour zero
	assert.Equal(t, 10.0, readings[0].Value)
	assert.Equal(t, base.Add(23*time.Hour), readings[1].Timestamp) // h24 is hour 23
	assert.Equal(t, 20.0, readings[1].Value)

	for _, r := range readings {
		assert.Equal(t, "08019043", r.StationCode)
		assert.Equal(t, "NO2", r.Pollutant)
	}
}

func TestMapper_ToMeasurements_FractionalSecondsDate(t *testing.T) {
	mapper := ingest.NewMapper(zerolog.Nop())

	raw := &ingest.RawRecord{
		StationCode:  "08019043",
		Pollutant:    "O3",
		Date:         "2026-01-29T00:00:00.000",
		HourlyValues: []ingest.HourSlot{{Key: "h05", Value: "42.5"}},
	}

	readings, err := mapper.ToMeasurements(raw)
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Equal(t, time.Date(2026, 1, 29, 4, 0, 0, 0, time.UTC), readings[0].Timestamp)
}

func TestMapper_ToMeasurements_BadDate(t *testing.T) {
	mapper := ingest.NewMapper(zerolog.Nop())

	raw := &ingest.RawRecord{
		StationCode:  "08019043",
		Pollutant:    "NO2",
		Date:         "29/01/2026",
		HourlyValues: []ingest.HourSlot{{Key: "h01", Value: "10"}},
	}

	_, err := mapper.ToMeasurements(raw)
	assert.Error(t, err)
}

func TestMapper_ToStation(t *testing.T) {
	mapper := ingest.NewMapper(zerolog.Nop())

	raw := &ingest.RawRecord{
		StationCode:  "08019043",
		StationName:  "Barcelona (Eixample)",
		Municipality: "Barcelona",
		Latitude:     "41.385342",
		Longitude:    "2.153800",
	}

	data := mapper.ToStation(raw)

	assert.Equal(t, "08019043", data.Code)
	assert.Equal(t, "Barcelona (Eixample)", data.Name)
	assert.Equal(t, "OFFICIAL", data.Source)
	require.NotNil(t, data.Latitude)
	require.NotNil(t, data.Longitude)
	assert.InDelta(t, 41.385342, *data.Latitude, 1e-9)
	assert.InDelta(t, 2.1538, *data.Longitude, 1e-9)
}

func TestMapper_ToStation_MalformedCoordinates(t *testing.T) {
	mapper := ingest.NewMapper(zerolog.Nop())

	data := mapper.ToStation(&ingest.RawRecord{
		StationCode: "08019043",
		Latitude:    "n/a",
		Longitude:   "",
	})

	assert.Nil(t, data.Latitude)
	assert.Nil(t, data.Longitude)
}
