package apikey

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aerogrid/aerogrid/internal/station"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL API key repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ResolveActive looks up an active key and fetches its station in one
// round trip.
func (r *PostgresRepository) ResolveActive(ctx context.Context, key string) (*station.Station, error) {
	query := `
		SELECT
			s.id, s.code, s.name, s.municipality,
			ST_Y(s.location::geometry) AS latitude,
			ST_X(s.location::geometry) AS longitude,
			s.source_type, s.trust_score, s.is_active, s.owner_id, s.created_at, s.updated_at
		FROM station_api_keys k
		JOIN stations s ON s.id = k.station_id
		WHERE k.api_key = $1 AND k.is_active = true
	`

	var s station.Station
	err := r.pool.QueryRow(ctx, query, key).Scan(
		&s.ID, &s.Code, &s.Name, &s.Municipality,
		&s.Latitude, &s.Longitude,
		&s.Source, &s.TrustScore, &s.IsActive, &s.OwnerID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}

	return &s, nil
}

// Create persists a new key for a station.
func (r *PostgresRepository) Create(ctx context.Context, k *Key) error {
	query := `
		INSERT INTO station_api_keys (api_key, station_id, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	return r.pool.QueryRow(ctx, query, k.Key, k.StationID, k.IsActive).
		Scan(&k.ID, &k.CreatedAt)
}

// Ensure PostgresRepository implements Repository.
var _ Repository = (*PostgresRepository)(nil)
