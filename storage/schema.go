package storage

// Schema for the deviations table. One row per scheduled departure,
// keyed by (aimed_arrival, line_id); created_at is set on first insert
// and never touched by the upsert.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS deviations (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		"timestamp" TIMESTAMPTZ NOT NULL,
		realtime BOOLEAN NOT NULL,
		aimed_arrival TIMESTAMPTZ NOT NULL,
		aimed_departure TIMESTAMPTZ NOT NULL,
		expected_arrival TIMESTAMPTZ NOT NULL,
		expected_departure TIMESTAMPTZ NOT NULL,
		quay_id TEXT NOT NULL,
		line_id TEXT NOT NULL,
		line_name TEXT NOT NULL,
		transport_mode TEXT NOT NULL,
		expected_delay_seconds BIGINT NOT NULL,
		timestamp_delay_seconds BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT deviations_aimed_arrival_line_id_key UNIQUE (aimed_arrival, line_id)
	)`,
	`CREATE INDEX IF NOT EXISTS deviations_line_id_idx ON deviations (line_id)`,
	`CREATE INDEX IF NOT EXISTS deviations_aimed_arrival_idx ON deviations (aimed_arrival)`,
	`CREATE INDEX IF NOT EXISTS deviations_timestamp_idx ON deviations ("timestamp")`,
}
