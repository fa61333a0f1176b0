package measurement

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL measurement repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Insert writes a measurement, ignoring conflicts on the
// (station_id, timestamp, pollutant) uniqueness constraint. Re-fetched
// provider windows and overlapping import runs land here concurrently;
// the constraint is the arbiter and the loser is silently dropped.
func (r *PostgresRepository) Insert(ctx context.Context, m *Measurement) (bool, error) {
	query := `
		INSERT INTO measurements (station_id, pollutant, value, timestamp, aqi)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (station_id, timestamp, pollutant) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query,
		m.StationID, m.Pollutant, m.Value, m.Timestamp, m.AQI,
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// LatestTimestamp returns the most recent measurement timestamp, or nil
// when the store is empty.
func (r *PostgresRepository) LatestTimestamp(ctx context.Context) (*time.Time, error) {
	query := `SELECT MAX(timestamp) FROM measurements`

	var ts *time.Time
	if err := r.pool.QueryRow(ctx, query).Scan(&ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// ListByStationBetween retrieves a station's measurements within a time
// range, ordered oldest first.
func (r *PostgresRepository) ListByStationBetween(ctx context.Context, stationCode string, from, to time.Time) ([]*Measurement, error) {
	query := `
		SELECT m.id, m.station_id, m.pollutant, m.value, m.timestamp, m.aqi
		FROM measurements m
		JOIN stations s ON s.id = m.station_id
		WHERE s.code = $1 AND m.timestamp BETWEEN $2 AND $3
		ORDER BY m.timestamp ASC
	`

	rows, err := r.pool.Query(ctx, query, stationCode, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var measurements []*Measurement
	for rows.Next() {
		var m Measurement
		err := rows.Scan(&m.ID, &m.StationID, &m.Pollutant, &m.Value, &m.Timestamp, &m.AQI)
		if err != nil {
			return nil, err
		}
		measurements = append(measurements, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return measurements, nil
}

// Ensure PostgresRepository implements Repository.
var _ Repository = (*PostgresRepository)(nil)
