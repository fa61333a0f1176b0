package station

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL/PostGIS implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL station repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const stationColumns = `
	id, code, name, municipality,
	ST_Y(location::geometry) AS latitude,
	ST_X(location::geometry) AS longitude,
	source_type, trust_score, is_active, owner_id, created_at, updated_at
`

// GetByCode retrieves a station by its unique code.
func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (*Station, error) {
	query := `SELECT ` + stationColumns + ` FROM stations WHERE code = $1`

	var s Station
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&s.ID, &s.Code, &s.Name, &s.Municipality,
		&s.Latitude, &s.Longitude,
		&s.Source, &s.TrustScore, &s.IsActive, &s.OwnerID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}

	return &s, nil
}

// List retrieves all stations.
func (r *PostgresRepository) List(ctx context.Context) ([]*Station, error) {
	query := `SELECT ` + stationColumns + ` FROM stations ORDER BY code`
	return r.queryStations(ctx, query)
}

// ListInBoundingBox retrieves active stations whose location overlaps the
// given viewport, using the PostGIS envelope operator.
func (r *PostgresRepository) ListInBoundingBox(ctx context.Context, box BoundingBox) ([]*Station, error) {
	query := `
		SELECT ` + stationColumns + `
		FROM stations
		WHERE location && ST_MakeEnvelope($1, $2, $3, $4, 4326)
		AND is_active = true
	`
	return r.queryStations(ctx, query, box.MinLon, box.MinLat, box.MaxLon, box.MaxLat)
}

func (r *PostgresRepository) queryStations(ctx context.Context, query string, args ...any) ([]*Station, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []*Station
	for rows.Next() {
		var s Station
		err := rows.Scan(
			&s.ID, &s.Code, &s.Name, &s.Municipality,
			&s.Latitude, &s.Longitude,
			&s.Source, &s.TrustScore, &s.IsActive, &s.OwnerID, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		stations = append(stations, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stations, nil
}

// ListStatuses retrieves all active stations with their latest AQI reading.
func (r *PostgresRepository) ListStatuses(ctx context.Context) ([]*Status, error) {
	query := `
		SELECT
			s.id, s.code, s.name,
			ST_Y(s.location::geometry) AS latitude,
			ST_X(s.location::geometry) AS longitude,
			latest.aqi, latest.pollutant
		FROM stations s
		LEFT JOIN LATERAL (
			SELECT m.aqi, m.pollutant
			FROM measurements m
			WHERE m.station_id = s.id
			ORDER BY m.timestamp DESC
			LIMIT 1
		) latest ON true
		WHERE s.is_active = true
		ORDER BY s.code
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []*Status
	for rows.Next() {
		var st Status
		err := rows.Scan(
			&st.ID, &st.Code, &st.Name,
			&st.Latitude, &st.Longitude,
			&st.CurrentAQI, &st.WorstPollutant,
		)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, &st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return statuses, nil
}

// Create persists a new station. The location point is built from the
// longitude/latitude pair with SRID 4326.
func (r *PostgresRepository) Create(ctx context.Context, s *Station) error {
	query := `
		INSERT INTO stations (code, name, municipality, location, source_type, trust_score, is_active, owner_id)
		VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326), $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		s.Code, s.Name, s.Municipality,
		s.Longitude, s.Latitude,
		s.Source, s.TrustScore, s.IsActive, s.OwnerID,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation on the code constraint
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateCode
		}
		return err
	}

	return nil
}

// Ensure PostgresRepository implements Repository.
var _ Repository = (*PostgresRepository)(nil)
