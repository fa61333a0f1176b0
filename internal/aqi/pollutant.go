// Package aqi provides the pollutant catalog and the Air Quality Index
// classifier used across ingestion and the read API.
package aqi

import "strings"

// Pollutant represents an air quality pollutant species.
type Pollutant string

// Recognized pollutant species.
const (
	PollutantNO2  Pollutant = "NO2"
	PollutantPM10 Pollutant = "PM10"
	PollutantPM25 Pollutant = "PM25"
	PollutantPM1  Pollutant = "PM1"
	PollutantO3   Pollutant = "O3"
	PollutantCO   Pollutant = "CO"
	PollutantSO2  Pollutant = "SO2"
	PollutantH2S  Pollutant = "H2S"
	PollutantC6H6 Pollutant = "C6H6"
)

// pollutantNames maps provider-supplied identifiers to catalog entries.
// Providers label fine particulate matter "PM2.5" on the wire.
var pollutantNames = map[string]Pollutant{
	"NO2":   PollutantNO2,
	"PM10":  PollutantPM10,
	"PM2.5": PollutantPM25,
	"PM1":   PollutantPM1,
	"O3":    PollutantO3,
	"CO":    PollutantCO,
	"SO2":   PollutantSO2,
	"H2S":   PollutantH2S,
	"C6H6":  PollutantC6H6,
}

// ParsePollutant normalizes a raw pollutant identifier to a catalog entry.
// Matching is case- and surrounding-whitespace-insensitive. An empty or
// unrecognized identifier returns ok=false; callers skip such records
// rather than treating them as errors.
func ParsePollutant(raw string) (Pollutant, bool) {
	p, ok := pollutantNames[strings.ToUpper(strings.TrimSpace(raw))]
	return p, ok
}

// All returns every recognized pollutant species.
func All() []Pollutant {
	return []Pollutant{
		PollutantNO2, PollutantPM10, PollutantPM25, PollutantPM1,
		PollutantO3, PollutantCO, PollutantSO2, PollutantH2S, PollutantC6H6,
	}
}
