// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values for every setting
//  2. Config File: optional YAML file (CONFIG_PATH or config.yaml)
//  3. Environment Variables: override any setting, see envTransformFunc
//
// Configuration Categories:
//
//  1. Serving: Server, Security, WebSocket
//  2. Globe: Globe (rotation engine and drag controller), Choropleth, Dataset
//  3. Data: Upstream (analytics API poller), Store (badger), Cache (frames)
//  4. Observability: Logging
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
	Globe      GlobeConfig      `koanf:"globe"`
	Choropleth ChoroplethConfig `koanf:"choropleth"`
	Dataset    DatasetConfig    `koanf:"dataset"`
	Upstream   UpstreamConfig   `koanf:"upstream"`
	Store      StoreConfig      `koanf:"store"`
	Cache      CacheConfig      `koanf:"cache"`
	WebSocket  WebSocketConfig  `koanf:"websocket"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"
}

// SecurityConfig holds CORS and inbound rate limiting. Authentication is
// handled in front of this service.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// GlobeConfig tunes the rotation engine, the drag controller and session
// frame pacing.
//
// Environment Variables:
//   - GLOBE_AUTO_ROTATE_SPEED: degrees of longitude per second (default: 14)
//   - GLOBE_DRAG_SENSITIVITY: degrees per pixel of drag (default: 0.5)
//   - GLOBE_RESUME_DELAY: idle time before auto-rotation resumes (default: 2.5s)
//   - GLOBE_FRAME_RATE: max frames per second per session (default: 30)
//   - GLOBE_DEFAULT_WIDTH, GLOBE_DEFAULT_HEIGHT: viewport when the client sends none
type GlobeConfig struct {
	AutoRotateSpeed float64       `koanf:"auto_rotate_speed"`
	DragSensitivity float64       `koanf:"drag_sensitivity"`
	ResumeDelay     time.Duration `koanf:"resume_delay"`
	FrameRate       int           `koanf:"frame_rate"`
	DefaultWidth    float64       `koanf:"default_width"`
	DefaultHeight   float64       `koanf:"default_height"`
}

// ChoroplethConfig holds the fill colors, legend resolution and tooltip locale.
type ChoroplethConfig struct {
	NoDataColor    string `koanf:"no_data_color"`
	HighlightColor string `koanf:"highlight_color"`
	AccentColor    string `koanf:"accent_color"`
	LegendSteps    int    `koanf:"legend_steps"`
	Locale         string `koanf:"locale"`
}

// DatasetConfig selects the country geometry. An empty path uses the
// embedded world dataset.
type DatasetConfig struct {
	Path string `koanf:"path"`
}

// UpstreamConfig configures polling of the analytics API for visitor rows.
//
// Environment Variables:
//   - UPSTREAM_ENABLED: enable polling (default: false)
//   - UPSTREAM_URL: endpoint returning the country rows (required when enabled)
//   - UPSTREAM_API_KEY: bearer token (optional)
//   - UPSTREAM_INTERVAL: poll interval (default: 1m)
//   - UPSTREAM_RATE_LIMIT, UPSTREAM_BURST: outbound request rate
//   - UPSTREAM_BREAKER_*: circuit breaker thresholds
type UpstreamConfig struct {
	Enabled           bool          `koanf:"enabled"`
	URL               string        `koanf:"url"`
	APIKey            string        `koanf:"api_key"`
	Interval          time.Duration `koanf:"interval"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	MaxRetries        int           `koanf:"max_retries"`
	RetryBaseDelay    time.Duration `koanf:"retry_base_delay"`
	Breaker           BreakerConfig `koanf:"breaker"`
}

// BreakerConfig holds circuit breaker thresholds for the upstream client.
type BreakerConfig struct {
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MaxRequests  uint32        `koanf:"max_requests"`
}

// StoreConfig configures the badger store holding session rotations and the
// last good row snapshot.
type StoreConfig struct {
	Path        string        `koanf:"path"`
	InMemory    bool          `koanf:"in_memory"`
	SyncWrites  bool          `koanf:"sync_writes"`
	Compression bool          `koanf:"compression"`
	SessionTTL  time.Duration `koanf:"session_ttl"`
	GCInterval  time.Duration `koanf:"gc_interval"`
	GCRatio     float64       `koanf:"gc_ratio"`
}

// CacheConfig sizes the rendered frame cache behind GET /api/v1/globe.svg.
type CacheConfig struct {
	FrameCapacity int           `koanf:"frame_capacity"`
	FrameTTL      time.Duration `koanf:"frame_ttl"`
	QuantizeStep  float64       `koanf:"quantize_step"`
}

// WebSocketConfig holds /ws settings. Allowed origins come from
// Security.CORSOrigins.
type WebSocketConfig struct {
	HandshakeTimeout time.Duration `koanf:"handshake_timeout"`
	StoreTimeout     time.Duration `koanf:"store_timeout"`
}

// Load reads configuration from (in order of increasing priority):
//  1. Built-in defaults
//  2. Config file (config.yaml if exists, or path specified in CONFIG_PATH env var)
//  3. Environment variables
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
