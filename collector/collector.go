package collector

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/theoremus-urban-solutions/entur-deviations/config"
	"github.com/theoremus-urban-solutions/entur-deviations/deviation"
	"github.com/theoremus-urban-solutions/entur-deviations/entur"
	"github.com/theoremus-urban-solutions/entur-deviations/storage"
)

// Fetcher returns the ordered estimated calls for the configured stop
// place together with the raw response body.
type Fetcher interface {
	Departures(ctx context.Context) ([]entur.EstimatedCall, []byte, error)
}

// BatchResult tallies one collection batch.
type BatchResult struct {
	Observed int
	Stored   int
	Skipped  int
	Failed   int
}

// Collector runs the fetch-transform-load pipeline.
type Collector struct {
	fetcher  Fetcher
	store    storage.Store
	archiver *Archiver
	redis    *redis.Client
	channel  string

	lineFilter   map[string]struct{}
	realtimeOnly bool

	now func() time.Time
}

// New constructs a Collector. archiver and redisClient may be nil.
func New(fetcher Fetcher, store storage.Store, cfg config.EnturConfig) *Collector {
	var filter map[string]struct{}
	if len(cfg.LineFilter) > 0 {
		filter = make(map[string]struct{}, len(cfg.LineFilter))
		for _, id := range cfg.LineFilter {
			filter[id] = struct{}{}
		}
	}
	return &Collector{
		fetcher:      fetcher,
		store:        store,
		lineFilter:   filter,
		realtimeOnly: cfg.RealtimeOnlyEnabled(),
		now:          time.Now,
	}
}

// WithArchiver enables raw snapshot archiving.
func (c *Collector) WithArchiver(a *Archiver) *Collector {
	c.archiver = a
	return c
}

// WithRedis enables live fan-out of stored records to a pub/sub channel.
func (c *Collector) WithRedis(client *redis.Client, channel string) *Collector {
	c.redis = client
	c.channel = channel
	return c
}

// RunOnce executes a single batch. A fetch failure aborts the batch and
// is returned; validation and storage failures are counted and logged
// but do not stop the remaining records.
func (c *Collector) RunOnce(ctx context.Context) (BatchResult, error) {
	var res BatchResult

	calls, raw, err := c.fetcher.Departures(ctx)
	if err != nil {
		fetchFailures.Inc()
		return res, err
	}

	observedAt := c.now().UTC()
	if c.archiver != nil {
		if err := c.archiver.WriteSnapshot(raw, observedAt); err != nil {
			log.Printf("snapshot write failed: %v", err)
		}
	}

	for _, call := range calls {
		res.Observed++
		callsObserved.Inc()

		if c.realtimeOnly && !call.Realtime {
			res.Skipped++
			recordsSkipped.Inc()
			continue
		}
		if c.lineFilter != nil {
			if _, ok := c.lineFilter[call.ServiceJourney.JourneyPattern.Line.ID]; !ok {
				res.Skipped++
				recordsSkipped.Inc()
				continue
			}
		}

		rec, err := deviation.FromEstimatedCall(call, observedAt)
		if err != nil {
			var verr *deviation.ValidationError
			if errors.As(err, &verr) {
				res.Skipped++
				recordsSkipped.Inc()
				log.Printf("call skipped: %v", err)
				continue
			}
			return res, err
		}

		if err := c.store.UpsertDeviation(ctx, rec); err != nil {
			res.Failed++
			storeFailures.Inc()
			log.Printf("upsert failed: %v", err)
			continue
		}
		res.Stored++
		recordsStored.Inc()
		c.publish(ctx, rec)
	}

	lastBatchEpoch.Set(float64(observedAt.Unix()))
	setLastBatch(observedAt)
	return res, nil
}

func (c *Collector) publish(ctx context.Context, rec deviation.Record) {
	if c.redis == nil {
		return
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := c.redis.Publish(ctx, c.channel, payload).Err(); err != nil {
		log.Printf("redis publish failed: %v", err)
	}
}
