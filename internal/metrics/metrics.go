// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
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
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
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

	// Globe Session Metrics
	GlobeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "globe_sessions",
			Help: "Current number of interactive globe sessions",
		},
	)

	GlobeFramesRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "globe_frames_rendered_total",
			Help: "Total number of globe frames rendered",
		},
		[]string{"kind"}, // "globe", "skeleton"
	)

	GlobeRenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "globe_render_duration_seconds",
			Help:    "Time spent projecting and serializing one globe frame",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
	)

	GlobeDragSessions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "globe_drag_sessions_total",
			Help: "Total number of drag sessions started",
		},
	)

	GlobeStateTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "globe_state_transitions_total",
			Help: "Total number of interaction state transitions",
		},
		[]string{"from_state", "to_state"},
	)

	GlobeHitTests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "globe_hit_tests_total",
			Help: "Total number of pointer hit tests by outcome",
		},
		[]string{"result"}, // "marker", "unmarked", "ocean", "off_globe"
	)

	GlobeCountryPicks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "globe_country_picks_total",
			Help: "Total number of countries picked by click",
		},
	)

	// Dataset Metrics
	DatasetRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "choropleth_rows",
			Help: "Number of country rows in the current snapshot",
		},
	)

	DatasetMaxVisitors = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "choropleth_max_visitors",
			Help: "Largest visitor count in the current snapshot (floored at 1)",
		},
	)

	DatasetVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "choropleth_snapshot_version",
			Help: "Version of the current row snapshot",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (capacity or TTL)",
		},
		[]string{"cache_type"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of WebSocket messages received",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Upstream Metrics
	UpstreamFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "upstream_fetch_duration_seconds",
			Help:    "Duration of country metric fetches from the analytics API",
			Buckets: prometheus.DefBuckets,
		},
	)

	UpstreamFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_fetches_total",
			Help: "Total number of upstream fetches by outcome",
		},
		[]string{"result"}, // "success", "error", "rejected", "throttled"
	)

	UpstreamLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "upstream_last_success_timestamp_seconds",
			Help: "Unix time of the last successful upstream fetch",
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
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Store Metrics
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total number of persistence operations",
		},
		[]string{"operation", "result"},
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

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRender records one rendered frame.
func RecordRender(skeleton bool, duration time.Duration) {
	kind := "globe"
	if skeleton {
		kind = "skeleton"
	}
	GlobeFramesRendered.WithLabelValues(kind).Inc()
	GlobeRenderDuration.Observe(duration.Seconds())
}

// RecordHitTest records the outcome of a pointer hit test.
func RecordHitTest(result string) {
	GlobeHitTests.WithLabelValues(result).Inc()
}

// RecordStateTransition records a drag controller state change.
func RecordStateTransition(from, to string) {
	GlobeStateTransitions.WithLabelValues(from, to).Inc()
	if to == "dragging" {
		GlobeDragSessions.Inc()
	}
}

// UpdateDataset sets the snapshot gauges.
func UpdateDataset(rows int, maxVisitors int64, version uint64) {
	DatasetRows.Set(float64(rows))
	DatasetMaxVisitors.Set(float64(maxVisitors))
	DatasetVersion.Set(float64(version))
}

// RecordUpstreamFetch records an upstream fetch and its outcome.
func RecordUpstreamFetch(duration time.Duration, err error) {
	UpstreamFetchDuration.Observe(duration.Seconds())
	if err != nil {
		UpstreamFetches.WithLabelValues(upstreamErrorType(err)).Inc()
		return
	}
	UpstreamFetches.WithLabelValues("success").Inc()
	UpstreamLastSuccess.Set(float64(time.Now().Unix()))
}

func upstreamErrorType(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "circuit breaker"):
		return "rejected"
	case strings.Contains(msg, "rate limit"):
		return "throttled"
	default:
		return "error"
	}
}

// RecordStoreOperation records a persistence call.
func RecordStoreOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	StoreOperations.WithLabelValues(operation, result).Inc()
}
