package ingest

import (
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// batchDateLayouts cover the provider's zone-less ISO-8601 date-times,
// with and without fractional seconds ("2026-01-29T00:00:00.000").
var batchDateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
}

func parseBatchDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range batchDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Mapper converts raw provider records into the common station and
// measurement shapes.
type Mapper struct {
	logger zerolog.Logger
}

// NewMapper creates a new Mapper.
func NewMapper(logger zerolog.Logger) *Mapper {
	return &Mapper{logger: logger}
}

// ToStation maps a raw record's station metadata to the common shape.
// Batch records always describe official stations.
func (m *Mapper) ToStation(raw *RawRecord) StationData {
	return StationData{
		Code:         raw.StationCode,
		Name:         raw.StationName,
		Municipality: raw.Municipality,
		Latitude:     parseCoordinate(raw.Latitude),
		Longitude:    parseCoordinate(raw.Longitude),
		Source:       "OFFICIAL",
	}
}

// ToMeasurements expands a raw record's hourly columns into individual
// readings. Slot hNN becomes batch date + (N-1) hours, so h01 is the batch
// day's hour zero. A slot whose value fails numeric parsing is logged and
// skipped; it never aborts the remaining slots.
func (m *Mapper) ToMeasurements(raw *RawRecord) ([]MeasurementData, error) {
	baseDate, err := parseBatchDate(raw.Date)
	if err != nil {
		return nil, err
	}

	measurements := make([]MeasurementData, 0, len(raw.HourlyValues))
	for _, slot := range raw.HourlyValues {
		hour, err := strconv.Atoi(slot.Key[1:])
		if err != nil {
			m.logger.Warn().
				Str("station", raw.StationCode).
				Str("slot", slot.Key).
				Msg("malformed hour slot key, skipping")
			continue
		}

		value, err := strconv.ParseFloat(slot.Value, 64)
		if err != nil {
			m.logger.Warn().
				Str("station", raw.StationCode).
				Str("slot", slot.Key).
				Str("value", slot.Value).
				Msg("unparseable hour slot value, skipping")
			continue
		}

		measurements = append(measurements, MeasurementData{
			StationCode: raw.StationCode,
			Pollutant:   raw.Pollutant,
			Value:       value,
			Timestamp:   baseDate.Add(time.Duration(hour-1) * time.Hour),
		})
	}

	return measurements, nil
}

func parseCoordinate(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
