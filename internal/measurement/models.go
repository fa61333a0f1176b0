// Package measurement provides the append-only pollutant time series.
package measurement

import (
	"time"

	"github.com/aerogrid/aerogrid/internal/aqi"
)

// Measurement is a single pollutant reading at a station. The store
// enforces uniqueness over (station, timestamp, pollutant); measurements
// are never updated or deleted once written.
type Measurement struct {
	ID        int64
	StationID int64
	Pollutant aqi.Pollutant
	// Value is the measured concentration; the unit depends on the
	// pollutant (µg/m³, mg/m³ for CO).
	Value     float64
	Timestamp time.Time
	// AQI is the computed 1-6 index, nil when no breakpoint table applies.
	AQI *int
}
