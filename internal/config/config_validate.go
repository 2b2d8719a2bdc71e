// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateSecurity,
		c.validateLogging,
		c.validateGlobe,
		c.validateChoropleth,
		c.validateUpstream,
		c.validateStore,
		c.validateCache,
		c.validateWebSocket,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateSecurity validates CORS and rate limiting configuration
func (c *Config) validateSecurity() error {
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production. " +
			"Set specific origins: CORS_ORIGINS=https://yourdomain.com,https://app.yourdomain.com " +
			"or use ENVIRONMENT=development for testing purposes")
	}

	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports whether the CORS configuration deserves a
// startup warning. Wildcard origins also let any page open globe sessions.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	format := strings.ToLower(c.Logging.Format)
	if format != "json" && format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}

// Globe bounds
const (
	maxFrameRate     = 120
	maxViewportPixel = 8192
)

// validateGlobe validates rotation engine and frame pacing settings
func (c *Config) validateGlobe() error {
	g := c.Globe
	if g.AutoRotateSpeed < 0 || g.AutoRotateSpeed > 360 {
		return fmt.Errorf("GLOBE_AUTO_ROTATE_SPEED must be between 0 and 360 degrees per second")
	}
	if g.DragSensitivity <= 0 || g.DragSensitivity > 10 {
		return fmt.Errorf("GLOBE_DRAG_SENSITIVITY must be in (0, 10] degrees per pixel")
	}
	if g.ResumeDelay < 0 {
		return fmt.Errorf("GLOBE_RESUME_DELAY must not be negative")
	}
	if g.FrameRate < 1 || g.FrameRate > maxFrameRate {
		return fmt.Errorf("GLOBE_FRAME_RATE must be between 1 and %d", maxFrameRate)
	}
	if g.DefaultWidth <= 0 || g.DefaultWidth > maxViewportPixel ||
		g.DefaultHeight <= 0 || g.DefaultHeight > maxViewportPixel {
		return fmt.Errorf("GLOBE_DEFAULT_WIDTH and GLOBE_DEFAULT_HEIGHT must be in (0, %d]", maxViewportPixel)
	}
	return nil
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// validateChoropleth validates colors, legend steps and locale
func (c *Config) validateChoropleth() error {
	colors := []struct {
		env, value string
	}{
		{"CHOROPLETH_NO_DATA_COLOR", c.Choropleth.NoDataColor},
		{"CHOROPLETH_HIGHLIGHT_COLOR", c.Choropleth.HighlightColor},
		{"CHOROPLETH_ACCENT_COLOR", c.Choropleth.AccentColor},
	}
	for _, col := range colors {
		if !hexColor.MatchString(col.value) {
			return fmt.Errorf("%s must be a #rrggbb color, got %q", col.env, col.value)
		}
	}
	if c.Choropleth.LegendSteps < 1 || c.Choropleth.LegendSteps > 20 {
		return fmt.Errorf("CHOROPLETH_LEGEND_STEPS must be between 1 and 20")
	}
	if _, err := language.Parse(c.Choropleth.Locale); err != nil {
		return fmt.Errorf("CHOROPLETH_LOCALE %q is not a BCP 47 tag: %w", c.Choropleth.Locale, err)
	}
	return nil
}

// validateUpstream validates the analytics API poller (only if enabled)
func (c *Config) validateUpstream() error {
	u := c.Upstream
	if !u.Enabled {
		return nil
	}
	if u.URL == "" {
		return fmt.Errorf("UPSTREAM_URL is required when UPSTREAM_ENABLED=true")
	}
	if err := validateHTTPURL(u.URL, "UPSTREAM_URL"); err != nil {
		return err
	}
	if u.Interval < time.Second {
		return fmt.Errorf("UPSTREAM_INTERVAL must be at least 1s")
	}
	if u.Timeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	if u.RequestsPerSecond <= 0 || u.Burst < 1 {
		return fmt.Errorf("UPSTREAM_RATE_LIMIT must be positive and UPSTREAM_BURST at least 1")
	}
	if u.MaxRetries < 0 {
		return fmt.Errorf("UPSTREAM_MAX_RETRIES must not be negative")
	}
	if u.Breaker.FailureRatio <= 0 || u.Breaker.FailureRatio > 1 {
		return fmt.Errorf("UPSTREAM_BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	if u.Breaker.Timeout <= 0 {
		return fmt.Errorf("UPSTREAM_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

// validateStore validates badger settings
func (c *Config) validateStore() error {
	s := c.Store
	if !s.InMemory && s.Path == "" {
		return fmt.Errorf("STORE_PATH is required unless STORE_IN_MEMORY=true")
	}
	if s.SessionTTL <= 0 {
		return fmt.Errorf("STORE_SESSION_TTL must be positive")
	}
	if s.GCInterval <= 0 {
		return fmt.Errorf("STORE_GC_INTERVAL must be positive")
	}
	if s.GCRatio <= 0 || s.GCRatio >= 1 {
		return fmt.Errorf("STORE_GC_RATIO must be between 0 and 1 (exclusive)")
	}
	return nil
}

// validateCache validates the frame cache
func (c *Config) validateCache() error {
	if c.Cache.FrameCapacity < 1 {
		return fmt.Errorf("FRAME_CACHE_SIZE must be at least 1")
	}
	if c.Cache.FrameTTL <= 0 {
		return fmt.Errorf("FRAME_CACHE_TTL must be positive")
	}
	if c.Cache.QuantizeStep < 0 || c.Cache.QuantizeStep > 10 {
		return fmt.Errorf("FRAME_CACHE_STEP must be between 0 and 10 degrees")
	}
	return nil
}

// validateWebSocket validates /ws timeouts
func (c *Config) validateWebSocket() error {
	if c.WebSocket.HandshakeTimeout <= 0 {
		return fmt.Errorf("WS_HANDSHAKE_TIMEOUT must be positive")
	}
	if c.WebSocket.StoreTimeout <= 0 {
		return fmt.Errorf("WS_STORE_TIMEOUT must be positive")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
// Production mode is determined by the ENVIRONMENT environment variable.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}
