// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

/*
Package api provides the HTTP layer of Globeview: static globe renders, hit
tests, visitor-metric ingest, health probes and the WebSocket upgrade that
starts an interactive globe session.

Routes:

	GET  /api/v1/health            service status (always 200)
	GET  /api/v1/health/live       liveness probe
	GET  /api/v1/health/ready      503 until dataset and rows are loaded
	GET  /api/v1/globe.svg         static render (image/svg+xml, ETag, LRU cached)
	GET  /api/v1/globe/frame       same render in the JSON envelope
	GET  /api/v1/globe/hit         shape, marker and tooltip under (x, y)
	GET  /api/v1/countries/metrics current rows and MaxVisitors
	PUT  /api/v1/countries/metrics replace rows ({"rows": [...]})
	GET  /api/v1/countries/legend  legend stops
	GET  /api/v1/countries/{code}  localized name, fill and row
	GET  /ws                       interactive session (gorilla/websocket)
	GET  /metrics                  Prometheus

JSON endpoints answer with the APIResponse envelope:

	{"success": true, "data": {...}, "metadata": {"request_id": "...", "timestamp": "...", "duration_ms": 0}}
	{"success": false, "error": {"code": "VALIDATION_ERROR", "message": "...", "details": {...}}, "metadata": {...}}

Error codes are VALIDATION_ERROR, BAD_REQUEST, NOT_FOUND, METHOD_NOT_ALLOWED,
RATE_LIMITED, SERVICE_UNAVAILABLE and INTERNAL_ERROR.

Query parameters are parsed into request structs and checked with
go-playground/validator through the validation package, so a bad lon and a
bad country code fail the same way.

Middleware: request IDs, real IP, panic recovery and go-chi/cors globally;
go-chi/httprate limits per route group; Prometheus request metrics and gzip
on /api/v1. Rejected requests count toward api_rate_limit_hits_total.

Usage:

	handler := api.NewHandler(cfg, renderer, rows, manager, hub, badgerStore)
	handler.SetUpstream(poller)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security))
	srv := &http.Server{Addr: ":3857", Handler: router.SetupChi()}
*/
package api
