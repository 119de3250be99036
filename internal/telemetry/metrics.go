package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// APIRequests counts network attempts against the NVD API by outcome
	// (ok, rate_limited, timeout, error).
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "threatlens",
			Name:      "nvd_requests_total",
			Help:      "Total number of NVD API request attempts",
		},
		[]string{"outcome"},
	)

	// RateLimitRetries counts backoff sleeps taken after a 429 response
	RateLimitRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "threatlens",
			Name:      "nvd_rate_limit_retries_total",
			Help:      "Total number of retries performed after a 429 response",
		},
	)

	// CacheHits counts searches answered from the local TTL cache
	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "threatlens",
			Name:      "cache_hits_total",
			Help:      "Total number of searches served from the response cache",
		},
	)

	// CacheMisses counts searches that had to go to the network
	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "threatlens",
			Name:      "cache_misses_total",
			Help:      "Total number of searches not found in the response cache",
		},
	)

	// DemoFallbacks counts searches degraded to the bundled dataset after an
	// absorbed network failure
	DemoFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "threatlens",
			Name:      "demo_fallbacks_total",
			Help:      "Total number of searches served from the bundled dataset after a failure",
		},
	)

	// RecordsNormalized counts raw records successfully normalized
	RecordsNormalized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "threatlens",
			Name:      "records_normalized_total",
			Help:      "Total number of vulnerability records normalized",
		},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry
// This function is idempotent and can be called multiple times safely
func InitMetrics() {
	once.Do(func() {
		// Register metrics, ignoring errors if already registered
		// This prevents panics when metrics are already in the registry
		prometheus.DefaultRegisterer.Register(APIRequests)
		prometheus.DefaultRegisterer.Register(RateLimitRetries)
		prometheus.DefaultRegisterer.Register(CacheHits)
		prometheus.DefaultRegisterer.Register(CacheMisses)
		prometheus.DefaultRegisterer.Register(DemoFallbacks)
		prometheus.DefaultRegisterer.Register(RecordsNormalized)
	})
}
