// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// InferenceDuration tracks inference call duration.
	InferenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inference_duration_seconds",
			Help:    "Inference call duration",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 15, 20, 30},
		},
		[]string{"operation", "status"},
	)

	// InferenceTokensTotal tracks tokens processed by the inference endpoint.
	InferenceTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inference_tokens_total",
			Help: "Total inference tokens processed",
		},
		[]string{"model", "direction"},
	)

	// MessagesTotal tracks conversation turns appended, by role.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_total",
			Help: "Total conversation messages appended",
		},
		[]string{"role"},
	)

	// MessagesDropped tracks invalid messages discarded by validation.
	MessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "messages_dropped_total",
			Help: "Messages discarded by accumulator validation",
		},
	)

	// CacheEvictions tracks snapshot cache evictions by kind.
	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_cache_evictions_total",
			Help: "Entries evicted from session snapshot caches",
		},
		[]string{"kind"},
	)

	// CacheDegraded tracks sessions that fell back to in-memory state.
	CacheDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_cache_degraded_total",
			Help: "Sessions operating without persisted snapshots",
		},
	)

	// ImageUploads tracks frames uploaded to the content store.
	ImageUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_uploads_total",
			Help: "Captured frames uploaded to the content store",
		},
		[]string{"status"},
	)

	// QuotesSaved tracks quote finalizations.
	QuotesSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotes_saved_total",
			Help: "Quote finalizations",
		},
		[]string{"mode"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordInference records metrics for an inference call.
func RecordInference(operation, status string, duration float64) {
	InferenceDuration.WithLabelValues(operation, status).Observe(duration)
}

// RecordTokens records token usage for a completion.
func RecordTokens(model string, tokensIn, tokensOut int) {
	InferenceTokensTotal.WithLabelValues(model, "in").Add(float64(tokensIn))
	InferenceTokensTotal.WithLabelValues(model, "out").Add(float64(tokensOut))
}
