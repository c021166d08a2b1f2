// Package storage persists deviation records in the deviations table,
// upserting on the (aimed_arrival, line_id) business key.
//
// The Postgres implementation is the production store; the in-memory
// implementation shares the same upsert semantics and backs tests and
// dry runs.
package storage
