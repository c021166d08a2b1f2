package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/theoremus-urban-solutions/entur-deviations/config"
)

// Scheduler runs batches at a fixed interval within a daily window.
type Scheduler struct {
	collector *Collector
	cfg       config.ScheduleConfig
	now       func() time.Time
}

// NewScheduler constructs a Scheduler.
func NewScheduler(collector *Collector, cfg config.ScheduleConfig) *Scheduler {
	return &Scheduler{collector: collector, cfg: cfg, now: time.Now}
}

// Run waits for the window to open, runs one batch per interval tick and
// returns when the window closes or the context is cancelled. With no
// window configured it collects until cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	var start, end time.Time
	if s.cfg.Start != "" || s.cfg.End != "" {
		var err error
		start, end, err = windowBounds(s.cfg.Start, s.cfg.End, s.now())
		if err != nil {
			return err
		}
		if wait := time.Until(start); !start.IsZero() && wait > 0 {
			log.Printf("waiting %s for collection window to open", wait.Round(time.Second))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if !end.IsZero() && now.After(end) {
				log.Printf("collection window finished")
				return nil
			}
			res, err := s.collector.RunOnce(ctx)
			if err != nil {
				log.Printf("batch failed: %v", err)
				continue
			}
			log.Printf("batch done: observed=%d stored=%d skipped=%d failed=%d",
				res.Observed, res.Stored, res.Skipped, res.Failed)
		}
	}
}

// windowBounds resolves "HH:MM" window strings against ref's date. An
// empty bound stays zero; an end before the start means the window
// crosses midnight.
func windowBounds(startStr, endStr string, ref time.Time) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error
	if startStr != "" {
		if start, err = atClock(startStr, ref); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("schedule start: %w", err)
		}
	}
	if endStr != "" {
		if end, err = atClock(endStr, ref); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("schedule end: %w", err)
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

func atClock(value string, ref time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour(), t.Minute(), 0, 0, ref.Location()), nil
}
