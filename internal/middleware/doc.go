// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

/*
Package middleware provides the HTTP middleware shared by the API router.

Key Components:

  - RequestID: X-Request-ID propagation into the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge labeled by
    chi route pattern
  - Compression: pooled gzip for SVG and JSON responses

All three are func(http.Handler) http.Handler and plug straight into chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.With(middleware.Compression).Get("/globe.svg", h.GlobeSVG)
	})

PrometheusMetrics and Compression both wrap the ResponseWriter. The metrics
wrapper forwards Hijack so it can sit in front of the /ws upgrade;
Compression skips upgrade requests entirely.
*/
package middleware
