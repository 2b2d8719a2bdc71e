// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

/*
Package config provides centralized configuration management for Globeview.

# Configuration Sources

Configuration is layered with Koanf v2, later sources winning:

  - Built-in defaults (defaultConfig)
  - YAML file: CONFIG_PATH, else config.yaml / config.yml in the working
    directory, else /etc/globeview/config.yaml
  - Environment variables, through an explicit name mapping

Only mapped environment variables are read; anything else in the process
environment is ignored.

# Configuration Structure

  - ServerConfig: listen address, timeouts, environment
  - SecurityConfig: CORS origins and inbound rate limiting
  - LoggingConfig: zerolog level, format, caller
  - GlobeConfig: auto-rotate speed, drag sensitivity, resume delay, frame rate
  - ChoroplethConfig: fill colors, legend steps, tooltip locale
  - DatasetConfig: country geometry file (embedded dataset when empty)
  - UpstreamConfig: analytics API poller, rate limit and circuit breaker
  - StoreConfig: badger path, session TTL, value log GC
  - CacheConfig: rendered frame LRU
  - WebSocketConfig: handshake and persistence timeouts

# Common Environment Variables

	HTTP_PORT=3857
	CORS_ORIGINS=https://dash.example.com
	LOG_LEVEL=debug
	GLOBE_RESUME_DELAY=2500ms
	UPSTREAM_ENABLED=true
	UPSTREAM_URL=https://analytics.example.com/api/v1/countries
	UPSTREAM_API_KEY=secret
	STORE_PATH=/data/globeview

Durations accept Go syntax (30s, 5m). Slice fields take comma-separated
values in the environment and YAML lists in the file.

# Validation

Load validates every section and returns the first problem, naming the
environment variable to change:

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
