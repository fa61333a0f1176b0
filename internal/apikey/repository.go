package apikey

import (
	"context"

	"github.com/aerogrid/aerogrid/internal/station"
)

// Repository defines the interface for API key persistence.
type Repository interface {
	// ResolveActive looks up an active key and returns its owning
	// station. Unknown or deactivated keys yield ErrKeyNotFound.
	ResolveActive(ctx context.Context, key string) (*station.Station, error)

	// Create persists a new key for a station.
	Create(ctx context.Context, k *Key) error
}
