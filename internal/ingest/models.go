// Package ingest reconciles raw provider readings into the persistent
// station directory and measurement time series.
package ingest

import (
	"regexp"
	"sort"
	"time"
)

// HourSlot is one hourly column from a provider batch record: the slot
// key ("h01".."h24") and its raw text value.
type HourSlot struct {
	Key   string
	Value string
}

// RawRecord is the provider-native batch shape: station metadata together
// with one day of hourly values for a single pollutant. Coordinates stay
// as text until mapping; providers ship them unparsed and occasionally
// malformed.
type RawRecord struct {
	StationCode  string
	StationName  string
	Municipality string
	Latitude     string
	Longitude    string
	StationType  string
	// Date is the batch day as an ISO-8601 date-time string.
	Date      string
	Pollutant string
	Units     string
	// HourlyValues holds the captured hNN columns in slot order.
	HourlyValues []HourSlot
}

var hourSlotPattern = regexp.MustCompile(`^h\d{2}$`)

// CaptureHourSlots extracts the hourly columns from a decoded provider
// row. The dataset exposes them as open-ended top-level keys, so they are
// collected after parsing by the fixed "h" + two digits pattern and
// returned in slot order.
func CaptureHourSlots(row map[string]string) []HourSlot {
	var slots []HourSlot
	for k, v := range row {
		if hourSlotPattern.MatchString(k) {
			slots = append(slots, HourSlot{Key: k, Value: v})
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Key < slots[j].Key })
	return slots
}

// StationData is the provider-independent station shape produced by the
// mapper. Coordinates are nil when the raw text was absent or unparseable.
type StationData struct {
	Code         string
	Name         string
	Municipality string
	Latitude     *float64
	Longitude    *float64
	// Source is the station source kind as text ("OFFICIAL"/"CITIZEN").
	Source string
}

// MeasurementData is one expanded hourly reading, still carrying the raw
// pollutant identifier; the reconciler normalizes it against the catalog.
type MeasurementData struct {
	StationCode string
	Pollutant   string
	Value       float64
	Timestamp   time.Time
}
