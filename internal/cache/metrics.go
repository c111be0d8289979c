package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Cache-level Prometheus metrics. Hit and miss counters carry a
// "key_type" label naming the key family that was looked up ("product",
// "all", "category"); the coordinator increments them because only it
// knows which family a key belongs to. The operation histogram carries
// an "operation" label ("get", "set", "del", "ping") and is recorded by
// the instrumented wrapper around every adapter call.
var (
	// HitsTotal counts successful cache lookups per key family.
	HitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits.",
		},
		[]string{"key_type"},
	)

	// MissesTotal counts failed cache lookups per key family.
	MissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses.",
		},
		[]string{"key_type"},
	)

	// OperationDuration observes the wall-clock duration of cache operations.
	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_operation_duration_seconds",
			Help:    "Latency of cache operations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(
		HitsTotal,
		MissesTotal,
		OperationDuration,
	)
}
