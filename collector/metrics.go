package collector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	callsObserved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "entur_collector_calls_observed_total",
		Help: "Total number of estimated calls received from the journey-planner API.",
	})
	recordsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "entur_collector_records_stored_total",
		Help: "Total number of deviation records successfully upserted.",
	})
	recordsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "entur_collector_records_skipped_total",
		Help: "Total number of calls skipped by validation or filtering.",
	})
	fetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "entur_collector_fetch_failures_total",
		Help: "Total number of failed fetches against the journey-planner API.",
	})
	storeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "entur_collector_store_failures_total",
		Help: "Total number of records that failed to upsert.",
	})
	lastBatchEpoch = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "entur_collector_last_batch_epoch",
		Help: "Unix time of the last successful batch.",
	})
)
