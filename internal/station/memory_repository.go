package station

import (
	"context"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	nextID   int64
	stations map[string]*Station
}

// NewInMemoryRepository creates a new in-memory station repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		nextID:   1,
		stations: make(map[string]*Station),
	}
}

// GetByCode retrieves a station by its unique code.
func (r *InMemoryRepository) GetByCode(_ context.Context, code string) (*Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stations[code]
	if !ok {
		return nil, ErrStationNotFound
	}

	cpy := *s
	return &cpy, nil
}

// List retrieves all stations.
func (r *InMemoryRepository) List(_ context.Context) ([]*Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stations := make([]*Station, 0, len(r.stations))
	for _, s := range r.stations {
		cpy := *s
		stations = append(stations, &cpy)
	}
	return stations, nil
}

// ListInBoundingBox retrieves active stations inside the viewport.
func (r *InMemoryRepository) ListInBoundingBox(_ context.Context, box BoundingBox) ([]*Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stations []*Station
	for _, s := range r.stations {
		if !s.IsActive {
			continue
		}
		if s.Latitude < box.MinLat || s.Latitude > box.MaxLat {
			continue
		}
		if s.Longitude < box.MinLon || s.Longitude > box.MaxLon {
			continue
		}
		cpy := *s
		stations = append(stations, &cpy)
	}
	return stations, nil
}

// ListStatuses retrieves active stations without AQI enrichment; the
// in-memory repository has no measurement join.
func (r *InMemoryRepository) ListStatuses(_ context.Context) ([]*Status, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var statuses []*Status
	for _, s := range r.stations {
		if !s.IsActive {
			continue
		}
		statuses = append(statuses, &Status{
			ID:        s.ID,
			Code:      s.Code,
			Name:      s.Name,
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
		})
	}
	return statuses, nil
}

// Create persists a new station.
func (r *InMemoryRepository) Create(_ context.Context, s *Station) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.stations[s.Code]; exists {
		return ErrDuplicateCode
	}

	s.ID = r.nextID
	r.nextID++
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	cpy := *s
	r.stations[s.Code] = &cpy
	return nil
}

// Ensure InMemoryRepository implements Repository.
var _ Repository = (*InMemoryRepository)(nil)
