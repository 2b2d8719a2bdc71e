// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

/*
Package metrics provides Prometheus instrumentation for the globe service.

All collectors are registered with the default registry through promauto and
exported by the /metrics endpoint.

# Metric Families

API:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Globe interaction:
  - globe_sessions
  - globe_frames_rendered_total{kind}
  - globe_render_duration_seconds
  - globe_drag_sessions_total
  - globe_state_transitions_total{from_state,to_state}
  - globe_hit_tests_total{result}
  - globe_country_picks_total

Data:
  - choropleth_rows, choropleth_max_visitors, choropleth_snapshot_version
  - upstream_fetch_duration_seconds, upstream_fetches_total{result}
  - upstream_last_success_timestamp_seconds
  - circuit_breaker_state{name}, circuit_breaker_requests_total{name,result}
  - circuit_breaker_state_transitions_total{name,from_state,to_state}
  - store_operations_total{operation,result}

Transport and caching:
  - websocket_connections, websocket_messages_sent_total,
    websocket_messages_received_total, websocket_errors_total{error_type}
  - cache_hits_total, cache_misses_total, cache_entries,
    cache_evictions_total (all labelled by cache_type)

# Usage

	start := time.Now()
	svg := renderer.Render(rotation, snap, selected, vp)
	metrics.RecordRender(snap.Loading(), time.Since(start))

Label values are bounded: endpoints are chi route patterns, never raw paths.
*/
package metrics
