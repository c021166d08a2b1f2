package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/theoremus-urban-solutions/entur-deviations/deviation"
)

const upsertDeviationSQL = `
INSERT INTO deviations (
	"timestamp", realtime,
	aimed_arrival, aimed_departure, expected_arrival, expected_departure,
	quay_id, line_id, line_name, transport_mode,
	expected_delay_seconds, timestamp_delay_seconds
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (aimed_arrival, line_id) DO UPDATE SET
	"timestamp" = EXCLUDED."timestamp",
	realtime = EXCLUDED.realtime,
	aimed_departure = EXCLUDED.aimed_departure,
	expected_arrival = EXCLUDED.expected_arrival,
	expected_departure = EXCLUDED.expected_departure,
	quay_id = EXCLUDED.quay_id,
	line_name = EXCLUDED.line_name,
	transport_mode = EXCLUDED.transport_mode,
	expected_delay_seconds = EXCLUDED.expected_delay_seconds,
	timestamp_delay_seconds = EXCLUDED.timestamp_delay_seconds`

const listDeviationsSQL = `
SELECT "timestamp", realtime,
	aimed_arrival, aimed_departure, expected_arrival, expected_departure,
	quay_id, line_id, line_name, transport_mode,
	expected_delay_seconds, timestamp_delay_seconds, created_at
FROM deviations
WHERE aimed_arrival >= $1 AND aimed_arrival < $2
ORDER BY aimed_arrival, line_id`

// PostgresStore persists deviations in a Postgres deviations table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects a pool and verifies the connection.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

// Migrate creates the deviations table and its indexes if missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// UpsertDeviation inserts or updates the row for the record's business key.
func (s *PostgresStore) UpsertDeviation(ctx context.Context, rec deviation.Record) error {
	_, err := s.pool.Exec(ctx, upsertDeviationSQL,
		rec.Timestamp, rec.Realtime,
		rec.AimedArrival, rec.AimedDeparture, rec.ExpectedArrival, rec.ExpectedDeparture,
		rec.QuayID, rec.LineID, rec.LineName, rec.TransportMode,
		rec.ExpectedDelaySeconds, rec.TimestampDelaySeconds,
	)
	if err != nil {
		return &StorageError{Key: rec.Key(), Err: err}
	}
	return nil
}

// ListDeviations returns records with aimed_arrival in [from, to).
func (s *PostgresStore) ListDeviations(ctx context.Context, from, to time.Time) ([]deviation.Record, error) {
	rows, err := s.pool.Query(ctx, listDeviationsSQL, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []deviation.Record
	for rows.Next() {
		var rec deviation.Record
		if err := rows.Scan(
			&rec.Timestamp, &rec.Realtime,
			&rec.AimedArrival, &rec.AimedDeparture, &rec.ExpectedArrival, &rec.ExpectedDeparture,
			&rec.QuayID, &rec.LineID, &rec.LineName, &rec.TransportMode,
			&rec.ExpectedDelaySeconds, &rec.TimestampDelaySeconds, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
