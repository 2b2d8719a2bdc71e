// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/globeview/config.yaml",
	"/etc/globeview/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3857,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Globe: GlobeConfig{
			AutoRotateSpeed: 14,
			DragSensitivity: 0.5,
			ResumeDelay:     2500 * time.Millisecond,
			FrameRate:       30,
			DefaultWidth:    800,
			DefaultHeight:   600,
		},
		Choropleth: ChoroplethConfig{
			NoDataColor:    "#d1d5db",
			HighlightColor: "#f59e0b",
			AccentColor:    "#2563eb",
			LegendSteps:    5,
			Locale:         "en",
		},
		Dataset: DatasetConfig{
			Path: "", // embedded world dataset
		},
		Upstream: UpstreamConfig{
			Enabled:           false,
			Interval:          time.Minute,
			Timeout:           30 * time.Second,
			RequestsPerSecond: 1,
			Burst:             1,
			MaxRetries:        5,
			RetryBaseDelay:    time.Second,
			Breaker: BreakerConfig{
				MinRequests:  10,
				FailureRatio: 0.6,
				Interval:     time.Minute,
				Timeout:      2 * time.Minute,
				MaxRequests:  3,
			},
		},
		Store: StoreConfig{
			Path:        "/data/globeview",
			InMemory:    false,
			SyncWrites:  false,
			Compression: true,
			SessionTTL:  24 * time.Hour,
			GCInterval:  10 * time.Minute,
			GCRatio:     0.5,
		},
		Cache: CacheConfig{
			FrameCapacity: 512,
			FrameTTL:      10 * time.Minute,
			QuantizeStep:  0.5,
		},
		WebSocket: WebSocketConfig{
			HandshakeTimeout: 10 * time.Second,
			StoreTimeout:     2 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources.
//
// Loading order (later sources override earlier ones):
//  1. Built-in defaults (defaultConfig)
//  2. Config file (CONFIG_PATH, or the first of DefaultConfigPaths that exists)
//  3. Environment variables, through the explicit mapping in envTransformFunc
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue // unset, or already a slice from YAML
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Variables not listed here are ignored.
var envMappings = map[string]string{
	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"server_timeout":   "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Globe
	"globe_auto_rotate_speed": "globe.auto_rotate_speed",
	"globe_drag_sensitivity":  "globe.drag_sensitivity",
	"globe_resume_delay":      "globe.resume_delay",
	"globe_frame_rate":        "globe.frame_rate",
	"globe_default_width":     "globe.default_width",
	"globe_default_height":    "globe.default_height",

	// Choropleth
	"choropleth_no_data_color":   "choropleth.no_data_color",
	"choropleth_highlight_color": "choropleth.highlight_color",
	"choropleth_accent_color":    "choropleth.accent_color",
	"choropleth_legend_steps":    "choropleth.legend_steps",
	"choropleth_locale":          "choropleth.locale",

	// Dataset
	"dataset_path":   "dataset.path",
	"countries_path": "dataset.path", // legacy name

	// Upstream analytics API
	"upstream_enabled":               "upstream.enabled",
	"upstream_url":                   "upstream.url",
	"upstream_api_key":               "upstream.api_key",
	"upstream_interval":              "upstream.interval",
	"upstream_timeout":               "upstream.timeout",
	"upstream_rate_limit":            "upstream.requests_per_second",
	"upstream_burst":                 "upstream.burst",
	"upstream_max_retries":           "upstream.max_retries",
	"upstream_retry_delay":           "upstream.retry_base_delay",
	"upstream_breaker_min_requests":  "upstream.breaker.min_requests",
	"upstream_breaker_failure_ratio": "upstream.breaker.failure_ratio",
	"upstream_breaker_interval":      "upstream.breaker.interval",
	"upstream_breaker_timeout":       "upstream.breaker.timeout",
	"upstream_breaker_max_requests":  "upstream.breaker.max_requests",

	// Store
	"store_path":        "store.path",
	"badger_path":       "store.path", // legacy name
	"store_in_memory":   "store.in_memory",
	"store_sync_writes": "store.sync_writes",
	"store_compression": "store.compression",
	"store_session_ttl": "store.session_ttl",
	"store_gc_interval": "store.gc_interval",
	"store_gc_ratio":    "store.gc_ratio",

	// Frame cache
	"frame_cache_size": "cache.frame_capacity",
	"frame_cache_ttl":  "cache.frame_ttl",
	"frame_cache_step": "cache.quantize_step",

	// WebSocket
	"ws_handshake_timeout": "websocket.handshake_timeout",
	"ws_store_timeout":     "websocket.store_timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - GLOBE_RESUME_DELAY -> globe.resume_delay
//   - UPSTREAM_BREAKER_TIMEOUT -> upstream.breaker.timeout
//   - BADGER_PATH -> store.path
//
// Unmapped variables return "" and are skipped, so unrelated environment
// variables never leak into the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
