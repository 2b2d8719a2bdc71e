// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/globeview/internal/api"
	"github.com/tomtom215/globeview/internal/choropleth"
	"github.com/tomtom215/globeview/internal/config"
	"github.com/tomtom215/globeview/internal/logging"
	"github.com/tomtom215/globeview/internal/render"
	"github.com/tomtom215/globeview/internal/store"
	"github.com/tomtom215/globeview/internal/supervisor"
	"github.com/tomtom215/globeview/internal/supervisor/services"
	ws "github.com/tomtom215/globeview/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Str("version", version).Msg("Starting Globeview with supervisor tree")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS is configured with a wildcard origin (CORS_ORIGINS=*): any site may open globe sessions and replace rows")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dataset, err := loadDataset(cfg.Dataset)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Dataset.Path).Msg("Failed to load country dataset")
	}
	palette, err := paletteFromConfig(cfg.Choropleth)
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid choropleth colors")
	}
	renderer := render.NewRenderer(dataset, palette)
	logging.Info().Int("shapes", dataset.Len()).Msg("Country dataset loaded")

	rows := choropleth.NewStore()

	db, err := store.Open(storeConfig(cfg.Store))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	restored, err := restoreRows(ctx, db, rows)
	if err != nil {
		logging.Warn().Err(err).Msg("Ignoring persisted rows")
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	hub := ws.NewHub()
	unwatch := hub.WatchRows(rows)
	defer unwatch()

	sessions, err := ws.NewManager(ws.ManagerConfig{
		Renderer:     renderer,
		Rows:         rows,
		Hub:          hub,
		Rotations:    db,
		FrameRate:    cfg.Globe.FrameRate,
		Options:      globeOptions(cfg.Globe),
		StoreTimeout: cfg.WebSocket.StoreTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create session manager")
	}

	handler := api.NewHandler(cfg, renderer, rows, sessions, hub, db)
	handler.SetVersion(version)

	switch {
	case cfg.Upstream.Enabled:
		poller, err := newPoller(cfg.Upstream, rows, db)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to configure upstream poller")
		}
		handler.SetUpstream(poller)
		tree.AddIngestService(services.NewPollerService(poller))
		logging.Info().Dur("interval", cfg.Upstream.Interval).Msg("Upstream poller added to supervisor tree")
	case !restored:
		// Nothing will ever publish rows; draw the globe without data
		// instead of the loading skeleton.
		if _, err := rows.Replace(nil); err != nil {
			logging.Fatal().Err(err).Msg("Failed to publish empty row set")
		}
		logging.Info().Msg("Upstream disabled and no persisted rows: rows arrive via PUT /api/v1/countries/metrics")
	}

	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security))
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree.AddStorageService(services.NewCompactorService(store.NewCompactor(db)))
	tree.AddStorageService(services.NewCacheJanitorService("frame-cache", handler.FrameCache(), cfg.Cache.FrameTTL))
	tree.AddSessionService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}
	logging.Info().Msg("Globeview stopped")
}
