// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

// Package main is the Globeview server: an interactive rotatable globe that
// shades countries by visitor count.
//
// Startup order:
//
//  1. Configuration (koanf: defaults, config.yaml, environment)
//  2. Logging (zerolog)
//  3. Country dataset (embedded unless DATASET_PATH is set) and renderer
//  4. BadgerDB store; the last persisted row set is restored
//  5. WebSocket hub and session manager
//  6. Upstream poller, when UPSTREAM_ENABLED=true
//  7. chi router and HTTP server
//  8. suture supervisor tree, until SIGINT or SIGTERM
//
// Without an upstream and without persisted rows the globe starts with an
// empty row set; rows can then be pushed with PUT /api/v1/countries/metrics.
// With an upstream the globe shows the loading skeleton until the first
// successful poll.
//
// Example:
//
//	export UPSTREAM_ENABLED=true
//	export UPSTREAM_URL=https://analytics.example.com/api/v1/countries
//	export UPSTREAM_API_KEY=...
//	export CORS_ORIGINS=https://dashboard.example.com
//	./globeview
package main
