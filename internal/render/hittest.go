// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package render

import (
	"github.com/tomtom215/globeview/internal/choropleth"
	"github.com/tomtom215/globeview/internal/globe"
	"github.com/tomtom215/globeview/internal/metrics"
)

// Hit test outcomes, also used as metric labels.
const (
	HitMarker   = "marker"
	HitUnmarked = "unmarked"
	HitOcean    = "ocean"
	HitOffGlobe = "off_globe"
)

// HitResult describes what lies under a container position.
type HitResult struct {
	Result     string  `json:"result"`
	ShapeIndex int     `json:"shape_index"`
	ShapeID    string  `json:"shape_id,omitempty"`
	Code       string  `json:"country_code,omitempty"`
	Longitude  float64 `json:"longitude_deg"`
	Latitude   float64 `json:"latitude_deg"`
}

// HasMarker reports whether a shape with the given code carries a code
// marker: the code must be mapped and have a row in the current snapshot.
func HasMarker(snap *choropleth.Snapshot, code string) bool {
	return code != "" && !snap.Loading() && snap.Has(code)
}

// HitTest resolves (x, y) to a shape with one inverse projection and one
// index lookup, then reads the shape's marker. Points on the hidden
// hemisphere are never hit because the inverse only covers the visible disk.
func (r *Renderer) HitTest(v globe.RotationVector, snap *choropleth.Snapshot, vp Viewport, x, y float64) HitResult {
	res := r.hitTest(v.Normalized(), snap, vp, x, y)
	metrics.RecordHitTest(res.Result)
	return res
}

func (r *Renderer) hitTest(v globe.RotationVector, snap *choropleth.Snapshot, vp Viewport, x, y float64) HitResult {
	res := HitResult{Result: HitOffGlobe, ShapeIndex: -1}
	if !vp.Valid() {
		return res
	}

	proj := newProjection(v, vp)
	lon, lat, ok := proj.Invert(x, y)
	if !ok {
		return res
	}
	res.Longitude, res.Latitude = lon, lat

	idx := r.dataset.Locate(lon, lat)
	if idx < 0 {
		res.Result = HitOcean
		return res
	}
	shape := r.dataset.Shape(idx)
	res.ShapeIndex = idx
	res.ShapeID = shape.ID
	if HasMarker(snap, shape.Code) {
		res.Result = HitMarker
		res.Code = shape.Code
	} else {
		res.Result = HitUnmarked
	}
	return res
}

// SessionHitTester adapts a Renderer to globe.HitTester for one session.
// Snapshot and Viewport are updated by the goroutine that owns the session's
// controller, so no locking is needed.
type SessionHitTester struct {
	Renderer *Renderer
	Snapshot *choropleth.Snapshot
	Viewport Viewport
}

// MarkerAt returns the code marker under (x, y), or "".
func (h *SessionHitTester) MarkerAt(v globe.RotationVector, x, y float64) string {
	if h.Snapshot == nil {
		return ""
	}
	return h.Renderer.HitTest(v, h.Snapshot, h.Viewport, x, y).Code
}
