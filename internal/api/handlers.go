// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/globeview/internal/cache"
	"github.com/tomtom215/globeview/internal/choropleth"
	"github.com/tomtom215/globeview/internal/config"
	"github.com/tomtom215/globeview/internal/logging"
	"github.com/tomtom215/globeview/internal/render"
	ws "github.com/tomtom215/globeview/internal/websocket"
)

// RowsPersister saves a replaced row set so it survives restarts.
type RowsPersister interface {
	SaveRows(ctx context.Context, rows []choropleth.Row, updatedAt time.Time) error
}

// UpstreamStatus reports the analytics poller for health checks.
type UpstreamStatus interface {
	IsRunning() bool
	LastResult() (time.Time, error)
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, WebSocket upgrade (this file)
//   - handlers_helpers.go: Shared helper functions
//   - handlers_health.go: Health and probe endpoints
//   - handlers_globe.go: Static renders and hit tests
//   - handlers_countries.go: Row ingest, legend and country lookup
type Handler struct {
	config    *config.Config
	renderer  *render.Renderer
	rows      *choropleth.Store
	frames    *cache.LRU[string]
	sessions  *ws.Manager
	wsHub     *ws.Hub
	persist   RowsPersister
	upstream  UpstreamStatus
	events    *logging.EventLogger
	version   string
	startTime time.Time
}

// NewHandler creates a new API handler.
//
// Dependencies:
//   - cfg: Application configuration (nil uses built-in defaults)
//   - renderer: Shared globe renderer with the loaded dataset and palette
//   - rows: The choropleth row store every session reads
//   - sessions: WebSocket session manager; nil disables /ws
//   - wsHub: Hub the sessions register with
//   - persist: Optional row persistence for PUT /countries/metrics
//
// Static renders are cached in an LRU sized by cfg.Cache.
func NewHandler(cfg *config.Config, renderer *render.Renderer, rows *choropleth.Store, sessions *ws.Manager, wsHub *ws.Hub, persist RowsPersister) *Handler {
	capacity, ttl := 0, time.Duration(0)
	if cfg != nil {
		capacity, ttl = cfg.Cache.FrameCapacity, cfg.Cache.FrameTTL
	}
	return &Handler{
		config:    cfg,
		renderer:  renderer,
		rows:      rows,
		frames:    cache.NewLRU[string]("frame", capacity, ttl),
		sessions:  sessions,
		wsHub:     wsHub,
		persist:   persist,
		events:    logging.NewEventLogger(),
		version:   "dev",
		startTime: time.Now(),
	}
}

// SetUpstream registers the poller reported by Health. Call once during
// startup, before serving.
func (h *Handler) SetUpstream(u UpstreamStatus) {
	h.upstream = u
}

// SetVersion sets the build version reported by Health.
func (h *Handler) SetVersion(v string) {
	if v != "" {
		h.version = v
	}
}

// FrameCache exposes the static frame cache so a janitor can expire it.
func (h *Handler) FrameCache() *cache.LRU[string] {
	return h.frames
}

func (h *Handler) defaultWidth() float64 {
	if h.config == nil || h.config.Globe.DefaultWidth <= 0 {
		return 800
	}
	return h.config.Globe.DefaultWidth
}

func (h *Handler) defaultHeight() float64 {
	if h.config == nil || h.config.Globe.DefaultHeight <= 0 {
		return 600
	}
	return h.config.Globe.DefaultHeight
}

func (h *Handler) quantizeStep() float64 {
	if h.config == nil {
		return 0.5
	}
	return h.config.Cache.QuantizeStep
}

func (h *Handler) legendSteps() int {
	if h.config == nil || h.config.Choropleth.LegendSteps <= 0 {
		return 5
	}
	return h.config.Choropleth.LegendSteps
}

func (h *Handler) locale(requested string) string {
	if requested != "" {
		return requested
	}
	if h.config != nil {
		return h.config.Choropleth.Locale
	}
	return ""
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout against slow clients.
func (h *Handler) getUpgrader() websocket.Upgrader {
	timeout := 10 * time.Second
	if h.config != nil && h.config.WebSocket.HandshakeTimeout > 0 {
		timeout = h.config.WebSocket.HandshakeTimeout
	}
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  4096,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: timeout,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browsers always send Origin on WebSocket upgrades; accepting an empty
	// one would bypass CORS entirely.
	if origin == "" {
		h.events.LogOriginRejected(r.Context(), "", r.RemoteAddr)
		return false
	}

	// No config: allow, for tests and development.
	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}

	h.events.LogOriginRejected(r.Context(), origin, r.RemoteAddr)
	return false
}

// WebSocket upgrades the connection and attaches an interactive globe
// session. Query: session (reconnect id), width, height, selected, locale.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if h.sessions == nil || h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: session manager not initialized")
		NewResponseWriter(w, r).ServiceUnavailable("WebSocket service unavailable")
		return
	}

	q := newQueryParams(r)
	req := WebSocketRequest{
		Session:  q.str("session"),
		Width:    q.float("width", h.defaultWidth()),
		Height:   q.float("height", h.defaultHeight()),
		Selected: strings.ToUpper(q.str("selected")),
		Locale:   h.locale(q.str("locale")),
	}
	if !parseAndValidate(w, r, q, &req) {
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		logging.Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.sessions.Serve(conn, ws.SessionParams{
		ID:       req.Session,
		Viewport: render.Viewport{Width: req.Width, Height: req.Height},
		Selected: req.Selected,
		Locale:   req.Locale,
	})
}
