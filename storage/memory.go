package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/theoremus-urban-solutions/entur-deviations/deviation"
)

// MemoryStore holds deviation records in memory with the same upsert
// semantics as the Postgres store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[deviation.Key]deviation.Record
	now  func() time.Time
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[deviation.Key]deviation.Record),
		now:  time.Now,
	}
}

// UpsertDeviation inserts or overwrites the record for its business key,
// preserving CreatedAt across updates.
func (s *MemoryStore) UpsertDeviation(ctx context.Context, rec deviation.Record) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	key := rec.Key()
	if existing, ok := s.data[key]; ok {
		rec.CreatedAt = existing.CreatedAt
	} else {
		rec.CreatedAt = s.now().UTC()
	}
	s.data[key] = rec
	return nil
}

// ListDeviations returns records with aimed arrival in [from, to),
// ordered by aimed arrival then line id.
func (s *MemoryStore) ListDeviations(ctx context.Context, from, to time.Time) ([]deviation.Record, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []deviation.Record
	for _, rec := range s.data {
		if rec.AimedArrival.Before(from) || !rec.AimedArrival.Before(to) {
			continue
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].AimedArrival.Equal(records[j].AimedArrival) {
			return records[i].AimedArrival.Before(records[j].AimedArrival)
		}
		return records[i].LineID < records[j].LineID
	})
	return records, nil
}

// Len returns the number of stored rows.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Get returns the stored record for a key.
func (s *MemoryStore) Get(key deviation.Key) (deviation.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.data[key]
	return rec, ok
}

// Close is a no-op.
func (s *MemoryStore) Close() {}
