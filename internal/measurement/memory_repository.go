package measurement

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aerogrid/aerogrid/internal/aqi"
	"github.com/aerogrid/aerogrid/internal/station"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[key]*Measurement
	// stations resolves codes for ListByStationBetween; may be nil when a
	// test never queries by code.
	stations station.Repository
}

type key struct {
	stationID int64
	timestamp time.Time
	pollutant aqi.Pollutant
}

// NewInMemoryRepository creates a new in-memory measurement repository.
func NewInMemoryRepository(stations station.Repository) *InMemoryRepository {
	return &InMemoryRepository{
		nextID:   1,
		rows:     make(map[key]*Measurement),
		stations: stations,
	}
}

// Insert writes a measurement unless the triple already exists.
func (r *InMemoryRepository) Insert(_ context.Context, m *Measurement) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{stationID: m.StationID, timestamp: m.Timestamp, pollutant: m.Pollutant}
	if _, exists := r.rows[k]; exists {
		return false, nil
	}

	cpy := *m
	cpy.ID = r.nextID
	r.nextID++
	r.rows[k] = &cpy
	return true, nil
}

// LatestTimestamp returns the most recent timestamp, or nil when empty.
func (r *InMemoryRepository) LatestTimestamp(_ context.Context) (*time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *time.Time
	for _, m := range r.rows {
		if latest == nil || m.Timestamp.After(*latest) {
			ts := m.Timestamp
			latest = &ts
		}
	}
	return latest, nil
}

// ListByStationBetween retrieves a station's measurements in a range.
func (r *InMemoryRepository) ListByStationBetween(ctx context.Context, stationCode string, from, to time.Time) ([]*Measurement, error) {
	if r.stations == nil {
		return nil, nil
	}

	s, err := r.stations.GetByCode(ctx, stationCode)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var measurements []*Measurement
	for _, m := range r.rows {
		if m.StationID != s.ID {
			continue
		}
		if m.Timestamp.Before(from) || m.Timestamp.After(to) {
			continue
		}
		cpy := *m
		measurements = append(measurements, &cpy)
	}

	sort.Slice(measurements, func(i, j int) bool {
		return measurements[i].Timestamp.Before(measurements[j].Timestamp)
	})

	return measurements, nil
}

// All returns every stored measurement; test helper.
func (r *InMemoryRepository) All() []*Measurement {
	r.mu.RLock()
	defer r.mu.RUnlock()

	measurements := make([]*Measurement, 0, len(r.rows))
	for _, m := range r.rows {
		cpy := *m
		measurements = append(measurements, &cpy)
	}
	return measurements
}

// Ensure InMemoryRepository implements Repository.
var _ Repository = (*InMemoryRepository)(nil)
