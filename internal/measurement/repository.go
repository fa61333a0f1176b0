package measurement

import (
	"context"
	"time"
)

// Repository defines the interface for measurement persistence.
type Repository interface {
	// Insert writes a measurement if no row exists for the same
	// (station, timestamp, pollutant) triple. It reports whether a row
	// was written; a conflicting duplicate is a silent no-op, never an
	// error. Implementations must use a single conflict-tolerant write,
	// not a read-then-write, so concurrent import runs stay safe.
	Insert(ctx context.Context, m *Measurement) (inserted bool, err error)

	// LatestTimestamp returns the most recent measurement timestamp in
	// the store, or nil when no measurements exist.
	LatestTimestamp(ctx context.Context) (*time.Time, error)

	// ListByStationBetween retrieves measurements for a station code
	// within [from, to], ordered by timestamp ascending.
	ListByStationBetween(ctx context.Context, stationCode string, from, to time.Time) ([]*Measurement, error)
}
