package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kniga_catalog_fetch_total",
		Help: "Total number of catalog listing fetches by outcome",
	}, []string{"status"})

	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kniga_catalog_fetch_duration_seconds",
		Help:    "Duration of catalog listing fetches in seconds",
		Buckets: prometheus.DefBuckets,
	})

	StaleDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kniga_catalog_stale_dropped_total",
		Help: "Listing responses discarded because a newer query superseded them",
	})
)
