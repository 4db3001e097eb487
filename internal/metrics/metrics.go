// Package metrics exposes Prometheus counters for cache lookups and upstream
// API calls.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lookup results.
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultStale = "stale"
	ResultError = "error"
)

var (
	lookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cityexplorer_lookups_total",
			Help: "Category lookups by cache result",
		},
		[]string{"category", "result"},
	)

	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cityexplorer_upstream_requests_total",
			Help: "Upstream API requests by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cityexplorer_upstream_request_duration_seconds",
			Help:    "Upstream API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
)

func RecordLookup(category, result string) {
	lookupsTotal.WithLabelValues(category, result).Inc()
}

// RecordUpstream counts one upstream request. outcome is "ok" or "error".
func RecordUpstream(provider, outcome string, elapsed time.Duration) {
	upstreamRequestsTotal.WithLabelValues(provider, outcome).Inc()
	upstreamRequestDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
