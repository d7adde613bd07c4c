// Package metrics exposes Prometheus instrumentation for the API server and
// the statistics aggregator.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RecomputeTotal counts aggregate recomputations by outcome.
	RecomputeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scoutline",
		Name:      "recompute_total",
		Help:      "Aggregate recomputations by outcome.",
	}, []string{"outcome"})

	// RecomputeDuration observes how long a single-team recompute takes.
	RecomputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scoutline",
		Name:      "recompute_duration_seconds",
		Help:      "Duration of single-team aggregate recomputation.",
		Buckets:   prometheus.DefBuckets,
	})

	// HTTPRequestsTotal counts API requests by method and status class.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scoutline",
		Name:      "http_requests_total",
		Help:      "API requests by method and status class.",
	}, []string{"method", "class"})
)

// Handler returns the /metrics scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
