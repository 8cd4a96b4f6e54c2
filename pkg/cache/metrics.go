package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Hits tracks cache hits.
	Hits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gradesync_cache_hits_total",
			Help: "Total number of Canvas response cache hits",
		},
	)

	// Misses tracks cache misses.
	Misses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gradesync_cache_misses_total",
			Help: "Total number of Canvas response cache misses",
		},
	)

	// NotModified tracks 304 revalidations served from cache.
	NotModified = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gradesync_cache_304_total",
			Help: "Total number of 304 Not Modified revalidations",
		},
	)

	// Errors tracks cache operation errors.
	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gradesync_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "touch", "delete"
	)
)
