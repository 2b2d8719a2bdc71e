// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/globeview/internal/choropleth"
)

// maxBodyBytes caps the response size; a world of rows is well under this.
const maxBodyBytes = 8 << 20

// ErrUnexpectedStatus is returned for non-200 responses other than 429.
var ErrUnexpectedStatus = errors.New("unexpected upstream status")

// RowFetcher returns the current country rows.
type RowFetcher interface {
	FetchRows(ctx context.Context) ([]choropleth.Row, error)
}

// Client fetches country rows from the analytics API.
type Client struct {
	url            string
	apiKey         string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a client for cfg.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	return &Client{
		url:            cfg.URL,
		apiKey:         cfg.APIKey,
		client:         &http.Client{Timeout: timeout},
		limiter:        rate.NewLimiter(limit, burst),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
	}
}

// FetchRows retrieves and validates the row list. Invalid rows fail the
// whole fetch so a bad payload never replaces good data.
func (c *Client) FetchRows(ctx context.Context) ([]choropleth.Row, error) {
	resp, err := c.doRequestWithRateLimit(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch rows: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	rows, err := decodeRows(body)
	if err != nil {
		return nil, err
	}
	normalized, err := choropleth.NormalizeRows(rows)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream rows: %w", err)
	}
	return normalized, nil
}

// decodeRows accepts a bare array or a {"data": [...]} envelope.
func decodeRows(body []byte) ([]choropleth.Row, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("decode rows: empty body")
	}

	var rows []choropleth.Row
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("decode rows: %w", err)
		}
		return rows, nil
	}

	var envelope struct {
		Data *[]choropleth.Row `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("decode rows: missing data field")
	}
	return *envelope.Data, nil
}

// doRequestWithRateLimit waits on the token bucket, then performs the GET,
// retrying HTTP 429 with exponential backoff (or Retry-After when sent).
func (c *Client) doRequestWithRateLimit(ctx context.Context) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if s := resp.Header.Get("Retry-After"); s != "" {
			if seconds, err := strconv.Atoi(s); err == nil && seconds >= 0 {
				delay = time.Duration(seconds) * time.Second
			}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}
