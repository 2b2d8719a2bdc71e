// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/globeview/internal/choropleth"
	"github.com/tomtom215/globeview/internal/config"
	"github.com/tomtom215/globeview/internal/geo"
	"github.com/tomtom215/globeview/internal/globe"
	"github.com/tomtom215/globeview/internal/logging"
	"github.com/tomtom215/globeview/internal/metrics"
	"github.com/tomtom215/globeview/internal/store"
	"github.com/tomtom215/globeview/internal/upstream"
)

// loadDataset returns the embedded world dataset unless a path is configured.
func loadDataset(cfg config.DatasetConfig) (*geo.Dataset, error) {
	if cfg.Path == "" {
		return geo.Default()
	}
	return geo.LoadFile(cfg.Path)
}

func paletteFromConfig(cfg config.ChoroplethConfig) (choropleth.Palette, error) {
	p := choropleth.Palette{
		NoData:    cfg.NoDataColor,
		Highlight: cfg.HighlightColor,
		Accent:    cfg.AccentColor,
	}
	if err := p.Validate(); err != nil {
		return choropleth.Palette{}, fmt.Errorf("choropleth palette: %w", err)
	}
	return p, nil
}

func globeOptions(cfg config.GlobeConfig) globe.Options {
	opts := globe.DefaultOptions()
	if cfg.AutoRotateSpeed > 0 {
		opts.AutoRotateSpeed = cfg.AutoRotateSpeed
	}
	if cfg.DragSensitivity > 0 {
		opts.DragSensitivity = cfg.DragSensitivity
	}
	if cfg.ResumeDelay > 0 {
		opts.ResumeDelay = cfg.ResumeDelay
	}
	return opts
}

func storeConfig(cfg config.StoreConfig) store.Config {
	sc := store.DefaultConfig()
	sc.Path = cfg.Path
	sc.InMemory = cfg.InMemory
	sc.SyncWrites = cfg.SyncWrites
	sc.Compression = cfg.Compression
	if cfg.SessionTTL > 0 {
		sc.SessionTTL = cfg.SessionTTL
	}
	if cfg.GCInterval > 0 {
		sc.GCInterval = cfg.GCInterval
	}
	if cfg.GCRatio > 0 {
		sc.GCRatio = cfg.GCRatio
	}
	return sc
}

func upstreamConfig(cfg config.UpstreamConfig) upstream.Config {
	return upstream.Config{
		Enabled:           cfg.Enabled,
		URL:               cfg.URL,
		APIKey:            cfg.APIKey,
		Interval:          cfg.Interval,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		MaxRetries:        cfg.MaxRetries,
		RetryBaseDelay:    cfg.RetryBaseDelay,
		Breaker: upstream.BreakerConfig{
			MinRequests:  cfg.Breaker.MinRequests,
			FailureRatio: cfg.Breaker.FailureRatio,
			Interval:     cfg.Breaker.Interval,
			Timeout:      cfg.Breaker.Timeout,
			MaxRequests:  cfg.Breaker.MaxRequests,
		},
	}
}

// newPoller builds client, breaker and poller. Fetched rows are published to
// rows and saved to persist.
func newPoller(cfg config.UpstreamConfig, rows *choropleth.Store, persist upstream.RowsPersister) (*upstream.Poller, error) {
	ucfg := upstreamConfig(cfg)
	if err := ucfg.Validate(); err != nil {
		return nil, fmt.Errorf("upstream: %w", err)
	}
	breaker := upstream.NewCircuitBreakerClient("upstream", upstream.NewClient(ucfg), ucfg.Breaker)
	return upstream.NewPoller(breaker, rows, persist, ucfg.Interval), nil
}

// restoreRows publishes the last persisted row set. It reports whether a
// snapshot was restored; a missing record is not an error.
func restoreRows(ctx context.Context, db *store.BadgerStore, rows *choropleth.Store) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rec, err := db.LoadRows(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	snap, err := rows.Restore(rec.Rows, rec.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("restore persisted rows: %w", err)
	}
	metrics.UpdateDataset(snap.Len(), snap.MaxVisitors(), snap.Version())
	logging.Info().
		Int("rows", snap.Len()).
		Time("updated_at", rec.UpdatedAt).
		Msg("Restored persisted country rows")
	return true, nil
}
