package ingest

import (
	"context"
	"time"
)

// Provider defines the interface for open-data measurement providers.
// Implementations must return an empty slice, not an error, when no data
// exists for a window, and must tolerate result sets in the tens of
// thousands of rows.
type Provider interface {
	// Name identifies the provider in logs and summaries.
	Name() string

	// FetchStations retrieves the provider's station catalog. Only the
	// station metadata fields of the returned records are populated.
	FetchStations(ctx context.Context) ([]*RawRecord, error)

	// FetchMeasurements retrieves measurement records from the given
	// calendar day onward.
	FetchMeasurements(ctx context.Context, date time.Time) ([]*RawRecord, error)
}
