// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

// Package upstream polls the analytics API for per-country rows.
//
// The stack is Client (token bucket plus 429 backoff), wrapped by
// CircuitBreakerClient (sony/gobreaker), driven by Poller, which publishes
// accepted rows to the choropleth store and persists them. Rows are
// validated before they are published; a rejected payload leaves the
// current snapshot in place.
package upstream
