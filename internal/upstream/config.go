// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package upstream

import (
	"fmt"
	"net/url"
	"time"
)

// Config describes the analytics API endpoint that serves country rows.
type Config struct {
	// Enabled turns polling on. When off, rows only arrive through the REST API.
	Enabled bool

	// URL returns the row list, either as a bare JSON array or wrapped in
	// {"data": [...]}.
	URL string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Interval is the time between polls.
	Interval time.Duration

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// RequestsPerSecond and Burst configure the outbound token bucket.
	RequestsPerSecond float64
	Burst             int

	// MaxRetries is the number of retries after HTTP 429.
	MaxRetries int

	// RetryBaseDelay is the first backoff delay; it doubles per retry.
	RetryBaseDelay time.Duration

	Breaker BreakerConfig
}

// BreakerConfig tunes the circuit breaker around the client.
type BreakerConfig struct {
	// MinRequests is how many requests the breaker needs to see in one
	// interval before it may trip.
	MinRequests uint32

	// FailureRatio trips the breaker once reached.
	FailureRatio float64

	// Interval resets the counts while closed.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration

	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32
}

// DefaultConfig returns polling disabled with production-ready settings.
func DefaultConfig() Config {
	return Config{
		Enabled:           false,
		Interval:          time.Minute,
		Timeout:           30 * time.Second,
		RequestsPerSecond: 1,
		Burst:             1,
		MaxRetries:        5,
		RetryBaseDelay:    time.Second,
		Breaker:           DefaultBreakerConfig(),
	}
}

// DefaultBreakerConfig opens after a 60% failure rate over at least ten
// requests and waits two minutes before probing again.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MinRequests:  10,
		FailureRatio: 0.6,
		Interval:     time.Minute,
		Timeout:      2 * time.Minute,
		MaxRequests:  3,
	}
}

// Validate checks the configuration. A disabled config is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.URL == "" {
		return fmt.Errorf("upstream URL is required when polling is enabled")
	}
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("upstream URL must be an absolute http(s) URL, got %q", c.URL)
	}
	if c.Interval < time.Second {
		return fmt.Errorf("upstream interval must be at least 1s, got %s", c.Interval)
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("upstream requests per second must be positive, got %v", c.RequestsPerSecond)
	}
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		return fmt.Errorf("breaker failure ratio must be in (0, 1], got %v", c.Breaker.FailureRatio)
	}
	return nil
}
