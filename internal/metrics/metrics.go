// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider lookup outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeNoResult = "no_result"
	OutcomeRejected = "rejected"
	OutcomeSkipped  = "skipped"
)

// Recorder outcomes.
const (
	RecorderPublished     = "published"
	RecorderPublishFailed = "publish_failed"
	RecorderPersisted     = "persisted"
	RecorderPersistFailed = "persist_failed"
	RecorderDecodeFailed  = "decode_failed"
)

var (
	// Provider Metrics
	ProviderLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vantage_provider_lookups_total",
			Help: "Geolocation provider lookups by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	ProviderLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vantage_provider_lookup_duration_seconds",
			Help:    "Geolocation provider lookup latency in seconds",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5},
		},
		[]string{"provider"},
	)

	GeoCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vantage_geoip_cache_hits_total",
			Help: "Aggregated lookups served from the in-memory cache",
		},
	)

	GeoCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vantage_geoip_cache_misses_total",
			Help: "Aggregated lookups that required a provider fan-out",
		},
	)

	AggregatorSelections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vantage_aggregator_selections_total",
			Help: "Winning record source per aggregated lookup",
		},
		[]string{"source"},
	)

	AggregatorScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vantage_aggregator_score",
			Help:    "Completeness score of the selected record (0-7)",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 6, 7},
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Estimation Metrics
	SignalConfidence = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vantage_signal_confidence",
			Help:    "Confidence reported by each signal estimator",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"algorithm"},
	)

	StealthConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vantage_stealth_confidence",
			Help:    "Confidence of the blended stealth estimate",
			Buckets: prometheus.LinearBuckets(0, 10, 10),
		},
	)

	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vantage_pipeline_duration_seconds",
			Help:    "End-to-end estimation time in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5},
		},
	)

	MovementClassifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vantage_movement_classifications_total",
			Help: "Movement analyses by movement type",
		},
		[]string{"movement_type"},
	)

	// Persistence Metrics
	RecorderEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vantage_recorder_events_total",
			Help: "Asynchronous result recording events by outcome",
		},
		[]string{"outcome"},
	)

	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vantage_store_operations_total",
			Help: "Session store operations by operation and result",
		},
		[]string{"operation", "result"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordProviderLookup records one provider call.
func RecordProviderLookup(provider, outcome string, duration time.Duration) {
	ProviderLookups.WithLabelValues(provider, outcome).Inc()
	if outcome != OutcomeSkipped && outcome != OutcomeRejected {
		ProviderLookupDuration.WithLabelValues(provider).Observe(duration.Seconds())
	}
}

// RecordCacheLookup records a geolocation cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		GeoCacheHits.Inc()
	} else {
		GeoCacheMisses.Inc()
	}
}

// RecordSelection records the winning source and its score.
func RecordSelection(source string, score int) {
	AggregatorSelections.WithLabelValues(source).Inc()
	AggregatorScore.Observe(float64(score))
}

// RecordSignal records one estimator's confidence.
func RecordSignal(algorithm string, confidence int) {
	SignalConfidence.WithLabelValues(algorithm).Observe(float64(confidence))
}

// RecordEstimate records the blended confidence and total pipeline time.
func RecordEstimate(stealthConfidence int, duration time.Duration) {
	StealthConfidence.Observe(float64(stealthConfidence))
	PipelineDuration.Observe(duration.Seconds())
}

// RecordMovement records a movement classification.
func RecordMovement(movementType string) {
	MovementClassifications.WithLabelValues(movementType).Inc()
}

// RecordRecorderEvent records an asynchronous persistence event.
func RecordRecorderEvent(outcome string) {
	RecorderEvents.WithLabelValues(outcome).Inc()
}

// RecordStoreOperation records a store operation; err == nil is success.
func RecordStoreOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	StoreOperations.WithLabelValues(operation, result).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// SetAppInfo publishes the build version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}
