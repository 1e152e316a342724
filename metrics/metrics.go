// Package metrics provides Prometheus collectors for the command surface and the resolution pipeline.
//
// HTTP:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// Pipeline:
//   - substance_resolutions_total: Counter by outcome (found, not_found, query_failed)
//   - upstream_query_duration_seconds: Histogram of knowledge-base calls by result
//   - translation_fallback_total: Counter by fallback result
//   - substance_suggestions_total: Counter by whether any suggestion cleared the cutoff
//   - alias_table_entries, active_view_sessions, rate_limiter_buckets_total: Gauges
//
// All collectors are registered with the Prometheus default registry during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (callers seen since last cleanup)",
		},
	)

	SubstanceResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "substance_resolutions_total",
			Help: "Substance resolution pipeline runs by outcome",
		},
		[]string{"outcome"},
	)

	UpstreamQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_query_duration_seconds",
			Help:    "Knowledge-base query latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"result"},
	)

	TranslationFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translation_fallback_total",
			Help: "Translation fallback attempts by result",
		},
		[]string{"result"},
	)

	Suggestions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "substance_suggestions_total",
			Help: "Suggestion searches by whether anything cleared the cutoff",
		},
		[]string{"matched"},
	)

	AliasTableEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "alias_table_entries",
			Help: "Number of entries in the alias table",
		},
	)

	ActiveViewSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_view_sessions",
			Help: "Interactive ROA views that have not expired yet",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(SubstanceResolutions)
	prometheus.MustRegister(UpstreamQueryDuration)
	prometheus.MustRegister(TranslationFallbacks)
	prometheus.MustRegister(Suggestions)
	prometheus.MustRegister(AliasTableEntries)
	prometheus.MustRegister(ActiveViewSessions)
}
