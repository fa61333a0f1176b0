package station

import "context"

// Repository defines the interface for station persistence.
type Repository interface {
	// GetByCode retrieves a station by its unique code.
	GetByCode(ctx context.Context, code string) (*Station, error)

	// List retrieves all stations.
	List(ctx context.Context) ([]*Station, error)

	// ListInBoundingBox retrieves active stations inside a viewport.
	ListInBoundingBox(ctx context.Context, box BoundingBox) ([]*Station, error)

	// ListStatuses retrieves all active stations with their most recent
	// AQI and the pollutant that produced it.
	ListStatuses(ctx context.Context) ([]*Status, error)

	// Create persists a new station and fills in its generated ID.
	Create(ctx context.Context, s *Station) error
}
