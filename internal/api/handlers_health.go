// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status          string          `json:"status"`
	Version         string          `json:"version"`
	Uptime          float64         `json:"uptime_seconds"`
	DatasetShapes   int             `json:"dataset_shapes"`
	Rows            int             `json:"rows"`
	SnapshotVersion uint64          `json:"snapshot_version"`
	Loading         bool            `json:"loading"`
	Sessions        int             `json:"sessions"`
	WebSocketConns  int             `json:"websocket_connections"`
	Upstream        *UpstreamHealth `json:"upstream,omitempty"`
}

// UpstreamHealth reports the analytics poller.
type UpstreamHealth struct {
	Running   bool       `json:"running"`
	LastPoll  *time.Time `json:"last_poll,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

// Health returns the service status. It is "degraded" while the row
// snapshot is loading or the last upstream poll failed; it always answers
// 200 so dashboards can read the body.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	status := HealthStatus{
		Status:  "healthy",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Seconds(),
	}
	if h.renderer != nil {
		status.DatasetShapes = h.renderer.Dataset().Len()
	}
	if h.rows != nil {
		snap := h.rows.Current()
		status.Rows = snap.Len()
		status.SnapshotVersion = snap.Version()
		status.Loading = snap.Loading()
	}
	if h.sessions != nil {
		status.Sessions = h.sessions.ActiveSessions()
	}
	if h.wsHub != nil {
		status.WebSocketConns = h.wsHub.GetClientCount()
	}
	if h.upstream != nil {
		up := &UpstreamHealth{Running: h.upstream.IsRunning()}
		if at, err := h.upstream.LastResult(); !at.IsZero() {
			up.LastPoll = &at
			if err != nil {
				up.LastError = sanitizeLogValue(err.Error())
			}
		}
		status.Upstream = up
	}

	if status.Loading || (status.Upstream != nil && status.Upstream.LastError != "") {
		status.Status = "degraded"
	}

	NewResponseWriter(w, r).Success(status)
}

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// The service is ready once a dataset is loaded and the row snapshot has
// left the loading state; until then it answers 503.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	datasetLoaded := h.renderer != nil && h.renderer.Dataset().Len() > 0
	rowsLoaded := h.rows != nil && !h.rows.Current().Loading()

	body := map[string]interface{}{
		"ready":          datasetLoaded && rowsLoaded,
		"dataset_loaded": datasetLoaded,
		"rows_loaded":    rowsLoaded,
	}
	if datasetLoaded && rowsLoaded {
		NewResponseWriter(w, r).Success(body)
		return
	}
	NewResponseWriter(w, r).ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Service not ready", body)
}
