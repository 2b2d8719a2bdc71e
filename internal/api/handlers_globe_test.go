// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/globeview/internal/render"
)

func TestGlobeSVG_CachesAndRevalidates(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, sampleRows())

	const target = "/api/v1/globe.svg?lon=10.1&lat=20&width=300&height=300"
	first := s.do(t, http.MethodGet, target, nil, nil)
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", first.Code, first.Body.String())
	}
	if ct := first.Header().Get("Content-Type"); !strings.HasPrefix(ct, "image/svg+xml") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(first.Body.String(), "<svg") {
		t.Errorf("body does not start with <svg: %.60s", first.Body.String())
	}
	if got := first.Header().Get("X-Cache"); got != "miss" {
		t.Errorf("first X-Cache = %q, want miss", got)
	}
	etag := first.Header().Get("ETag")
	if etag == "" || strings.HasPrefix(etag, "W/") {
		t.Fatalf("ETag = %q, want strong validator", etag)
	}

	// 10.1 and 10.2 quantize to the same key.
	second := s.do(t, http.MethodGet, "/api/v1/globe.svg?lon=10.2&lat=20&width=300&height=300", nil, nil)
	if got := second.Header().Get("X-Cache"); got != "hit" {
		t.Errorf("second X-Cache = %q, want hit", got)
	}
	if second.Body.String() != first.Body.String() {
		t.Error("cached frame differs from the first render")
	}

	notModified := s.do(t, http.MethodGet, target, nil, http.Header{"If-None-Match": {etag}})
	if notModified.Code != http.StatusNotModified {
		t.Errorf("If-None-Match status = %d, want 304", notModified.Code)
	}
	if notModified.Body.Len() != 0 {
		t.Error("304 carried a body")
	}
}

func TestGlobeSVG_NewSnapshotChangesETag(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, sampleRows())

	const target = "/api/v1/globe.svg?lon=0&lat=0"
	before := s.do(t, http.MethodGet, target, nil, nil).Header().Get("ETag")
	if _, err := s.rows.Replace(sampleRows()[:1]); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	after := s.do(t, http.MethodGet, target, nil, nil)

	if after.Header().Get("ETag") == before {
		t.Error("ETag unchanged after the rows were replaced")
	}
	if after.Header().Get("X-Cache") != "miss" {
		t.Errorf("X-Cache = %q, want miss for a new snapshot", after.Header().Get("X-Cache"))
	}
}

func TestGlobeSVG_LoadingSkeleton(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/v1/globe.svg", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
	if w.Header().Get("ETag") != "" {
		t.Error("loading frame carried an ETag")
	}
	if !strings.Contains(w.Body.String(), "globe-skeleton") {
		t.Errorf("loading frame is not the skeleton: %.120s", w.Body.String())
	}
	if s.handler.FrameCache().Len() != 0 {
		t.Error("loading frame was cached")
	}
}

func TestGlobeSVG_InvalidParams(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, sampleRows())

	tests := []struct {
		name  string
		query string
		field string
	}{
		{"longitude out of range", "lon=400", "lon"},
		{"longitude not a number", "lon=abc", "lon"},
		{"latitude not finite", "lat=NaN", "lat"},
		{"zero width", "width=0", "width"},
		{"bad selection", "selected=123", "selected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/api/v1/globe.svg?"+tt.query, nil, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			response := decodeEnvelope(t, w)
			if response.Error == nil || response.Error.Code != ErrCodeValidation {
				t.Fatalf("error = %+v", response.Error)
			}
			details, _ := response.Error.Details.(map[string]interface{})
			if details["field"] != tt.field {
				t.Errorf("field = %v, want %s", details["field"], tt.field)
			}
		})
	}
}

func TestGlobeFrame_RotationClamped(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, sampleRows())

	w := s.do(t, http.MethodGet, "/api/v1/globe/frame?lon=30&lat=89&selected=de", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Data     FrameResponse `json:"data"`
		Metadata APIMeta       `json:"metadata"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if body.Data.Rotation.Latitude != 85 || body.Data.Rotation.Longitude != 30 {
		t.Errorf("Rotation = %+v, want latitude clamped to 85", body.Data.Rotation)
	}
	if body.Data.Selected != "DE" || body.Data.Loading {
		t.Errorf("frame = %+v", body.Data)
	}
	if !strings.Contains(body.Data.SVG, `class="selected"`) {
		t.Error("selected country not highlighted")
	}
	if body.Metadata.SnapshotVersion != s.rows.Current().Version() || body.Metadata.Cache != "miss" {
		t.Errorf("Metadata = %+v", body.Metadata)
	}
}

func TestGlobeHit_CenteredCountry(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, sampleRows())

	// Rotating by (100, -40) brings the contiguous US to the center.
	w := s.do(t, http.MethodGet, "/api/v1/globe/hit?lon=100&lat=-40&width=400&height=400&x=200&y=200", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Data HitResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if body.Data.Result != render.HitMarker || body.Data.Code != "US" {
		t.Fatalf("hit = %+v, want marker on US", body.Data.HitResult)
	}
	tip := body.Data.Tooltip
	if tip == nil {
		t.Fatal("marked country has no tooltip")
	}
	if tip.CountryCode != "US" || tip.Visitors != 1200 || tip.Name == "" {
		t.Errorf("tooltip = %+v", tip)
	}
}

func TestGlobeHit_OffGlobeAndMissingPosition(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, sampleRows())

	w := s.do(t, http.MethodGet, "/api/v1/globe/hit?width=400&height=400&x=1&y=1", nil, nil)
	var body struct {
		Data HitResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if body.Data.Result != render.HitOffGlobe || body.Data.Tooltip != nil {
		t.Errorf("corner hit = %+v", body.Data)
	}

	missing := s.do(t, http.MethodGet, "/api/v1/globe/hit?x=10", nil, nil)
	if missing.Code != http.StatusBadRequest {
		t.Errorf("missing y status = %d, want 400", missing.Code)
	}
}

func TestGlobeEndpoints_MethodNotAllowed(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, sampleRows())

	for _, path := range []string{"/api/v1/globe.svg", "/api/v1/globe/frame", "/api/v1/globe/hit"} {
		w := s.do(t, http.MethodPost, path, nil, nil)
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s status = %d, want 405", path, w.Code)
		}
	}
}
