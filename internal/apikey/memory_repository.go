package apikey

import (
	"context"
	"sync"
	"time"

	"github.com/aerogrid/aerogrid/internal/station"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	nextID   int64
	keys     map[string]*Key
	stations station.Repository
}

// NewInMemoryRepository creates a new in-memory API key repository backed
// by the given station repository for key-to-station resolution.
func NewInMemoryRepository(stations station.Repository) *InMemoryRepository {
	return &InMemoryRepository{
		nextID:   1,
		keys:     make(map[string]*Key),
		stations: stations,
	}
}

// ResolveActive looks up an active key and returns its owning station.
func (r *InMemoryRepository) ResolveActive(ctx context.Context, key string) (*station.Station, error) {
	r.mu.RLock()
	k, ok := r.keys[key]
	r.mu.RUnlock()

	if !ok || !k.IsActive {
		return nil, ErrKeyNotFound
	}

	stations, err := r.stations.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range stations {
		if s.ID == k.StationID {
			return s, nil
		}
	}
	return nil, ErrKeyNotFound
}

// Create persists a new key.
func (r *InMemoryRepository) Create(_ context.Context, k *Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k.ID = r.nextID
	r.nextID++
	k.CreatedAt = time.Now()

	cpy := *k
	r.keys[k.Key] = &cpy
	return nil
}

// Ensure InMemoryRepository implements Repository.
var _ Repository = (*InMemoryRepository)(nil)
