// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package api

import (
	"net/http"

	"github.com/tomtom215/globeview/internal/cache"
	"github.com/tomtom215/globeview/internal/choropleth"
	"github.com/tomtom215/globeview/internal/globe"
	"github.com/tomtom215/globeview/internal/render"
)

// FrameResponse is the body of GET /globe/frame.
type FrameResponse struct {
	Rotation globe.RotationVector `json:"rotation"`
	Width    float64              `json:"width"`
	Height   float64              `json:"height"`
	Selected string               `json:"selected,omitempty"`
	Loading  bool                 `json:"loading"`
	SVG      string               `json:"svg"`
}

// HitResponse is the body of GET /globe/hit.
type HitResponse struct {
	render.HitResult
	Tooltip *render.TooltipView `json:"tooltip,omitempty"`
}

// frame is a rendered static globe and the key it was cached under.
type frame struct {
	key      string
	rotation globe.RotationVector
	snap     *choropleth.Snapshot
	svg      string
	hit      bool
}

// renderFrame renders req against the current snapshot. The rotation is
// quantized to the cache step so a cached frame and a fresh one for the
// same key are identical. Loading snapshots render the skeleton and bypass
// the cache.
func (h *Handler) renderFrame(req *GlobeViewRequest) frame {
	snap := h.rows.Current()
	rot := req.Rotation()
	key := cache.NewFrameKey(rot.Longitude, rot.Latitude, int(req.Width), int(req.Height), req.Selected, snap.Version(), h.quantizeStep())
	f := frame{
		key:      key.String(),
		rotation: globe.NewRotation(key.Longitude, key.Latitude),
		snap:     snap,
	}

	if snap.Loading() {
		f.svg = h.renderer.Render(f.rotation, snap, req.Selected, req.Viewport())
		return f
	}
	f.svg, f.hit = h.frames.GetOrAdd(f.key, func() string {
		return h.renderer.Render(f.rotation, snap, req.Selected, req.Viewport())
	})
	return f
}

func cacheLabel(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// GlobeSVG serves a static render as image/svg+xml.
//
// Query: lon, lat, width, height, selected. Responses carry the frame key
// as a strong ETag and answer If-None-Match with 304.
func (h *Handler) GlobeSVG(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	q := newQueryParams(r)
	req := h.parseGlobeView(q)
	if !parseAndValidate(w, r, q, &req) {
		return
	}

	f := h.renderFrame(&req)

	hdr := w.Header()
	hdr.Set("Content-Type", "image/svg+xml; charset=utf-8")
	hdr.Set("X-Cache", cacheLabel(f.hit))
	if f.snap.Loading() {
		hdr.Set("Cache-Control", "no-store")
	} else {
		etag := `"` + f.key + `"`
		hdr.Set("ETag", etag)
		hdr.Set("Cache-Control", "public, max-age=60")
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(f.svg))
}

// GlobeFrame serves the same render as GlobeSVG inside the JSON envelope,
// with the normalized rotation it was drawn at.
func (h *Handler) GlobeFrame(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	q := newQueryParams(r)
	req := h.parseGlobeView(q)
	if !parseAndValidate(w, r, q, &req) {
		return
	}

	f := h.renderFrame(&req)
	meta := &APIMeta{SnapshotVersion: f.snap.Version()}
	if !f.snap.Loading() {
		meta.Cache = cacheLabel(f.hit)
	}
	NewResponseWriter(w, r).SuccessWithMeta(FrameResponse{
		Rotation: f.rotation,
		Width:    req.Width,
		Height:   req.Height,
		Selected: req.Selected,
		Loading:  f.snap.Loading(),
		SVG:      f.svg,
	}, meta)
}

// GlobeHit resolves a container position for a rotation: the shape under
// it, its code marker and, for marked countries, the tooltip a session
// would show there.
//
// Query: lon, lat, x, y, width, height, locale.
func (h *Handler) GlobeHit(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	q := newQueryParams(r)
	req := HitTestRequest{
		GlobeViewRequest: h.parseGlobeView(q),
		X:                q.float("x", -1),
		Y:                q.float("y", -1),
		Locale:           q.str("locale"),
	}
	if !parseAndValidate(w, r, q, &req) {
		return
	}

	snap := h.rows.Current()
	vp := req.Viewport()
	res := HitResponse{HitResult: h.renderer.HitTest(req.Rotation(), snap, vp, req.X, req.Y)}
	if res.Code != "" {
		tip := &globe.Tooltip{CountryCode: res.Code, X: req.X, Y: req.Y}
		res.Tooltip = render.DescribeTooltip(tip, snap, vp, render.DefaultTooltipLayout(), h.locale(req.Locale))
	}
	NewResponseWriter(w, r).SuccessWithMeta(res, &APIMeta{SnapshotVersion: snap.Version()})
}
