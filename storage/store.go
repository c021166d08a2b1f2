package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/theoremus-urban-solutions/entur-deviations/deviation"
)

// StorageError reports that a single record could not be persisted.
// The record is considered not stored; the batch continues.
type StorageError struct {
	Key deviation.Key
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: upsert %s/%s: %v",
		e.Key.LineID, e.Key.AimedArrival.Format(time.RFC3339), e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store persists deviation records.
type Store interface {
	// UpsertDeviation inserts the record, or overwrites all non-key
	// fields except CreatedAt when a row with the same business key
	// already exists.
	UpsertDeviation(ctx context.Context, rec deviation.Record) error

	// ListDeviations returns records with aimed_arrival in [from, to),
	// ordered by aimed_arrival then line id.
	ListDeviations(ctx context.Context, from, to time.Time) ([]deviation.Record, error)

	Close()
}
