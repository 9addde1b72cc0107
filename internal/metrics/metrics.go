// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DiscoveryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenplate_discovery_requests_total",
			Help: "Discovery requests by route taken",
		},
		[]string{"route"},
	)

	DiscoveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "greenplate_discovery_duration_seconds",
			Help:    "Duration of discovery requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	InvariantViolations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenplate_invariant_violations_total",
			Help: "Data quality violations detected in precomputed similarity rows",
		},
		[]string{"kind"},
	)

	InteractionMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenplate_interaction_mutations_total",
			Help: "Bookmark and rating mutations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenplate_store_errors_total",
			Help: "Backing store failures surfaced as store-unavailable",
		},
		[]string{"operation"},
	)

	SimilarityCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "greenplate_similarity_cache_hits_total",
			Help: "Similarity rows served from the cache",
		},
	)

	SimilarityCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "greenplate_similarity_cache_misses_total",
			Help: "Similarity rows loaded from the catalog store",
		},
	)

	HistogramRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenplate_histogram_refreshes_total",
			Help: "Emissions histogram refreshes by status",
		},
		[]string{"status"},
	)

	HistogramRecipes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "greenplate_histogram_recipes",
			Help: "Recipes included in the current emissions histogram",
		},
	)

	JobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenplate_job_runs_total",
			Help: "Background job runs by worker and outcome",
		},
		[]string{"worker", "outcome"},
	)

	JobLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "greenplate_job_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run per worker",
		},
		[]string{"worker"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "greenplate_http_requests_total",
			Help: "HTTP requests by method, route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "greenplate_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordDiscovery records one served discovery request.
func RecordDiscovery(route string, d time.Duration) {
	DiscoveryRequests.WithLabelValues(route).Inc()
	DiscoveryDuration.WithLabelValues(route).Observe(d.Seconds())
}

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
