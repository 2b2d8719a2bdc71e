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

	"github.com/tomtom215/globeview/internal/choropleth"
)

func TestCountryMetrics_Get(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, sampleRows())

	w := s.do(t, http.MethodGet, "/api/v1/countries/metrics", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Data MetricsResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if body.Data.MaxVisitors != 1200 || len(body.Data.Rows) != 3 || body.Data.Loading {
		t.Errorf("metrics = %+v", body.Data)
	}
	if body.Data.UpdatedAt == nil {
		t.Error("UpdatedAt missing for a published snapshot")
	}
}

func TestCountryMetrics_LoadingHasEmptyRows(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/v1/countries/metrics", nil, nil)
	if !strings.Contains(w.Body.String(), `"rows":[]`) {
		t.Errorf("loading snapshot should report an empty rows array: %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"loading":true`) {
		t.Errorf("loading flag missing: %s", w.Body.String())
	}
}

func TestReplaceCountryMetrics_Valid(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	before := s.rows.Current().Version()

	body := `{"rows":[{"country_code":"fr","visitors":50,"bounce_rate":12.5,"avg_duration_seconds":30},{"country_code":"JP","visitors":500}]}`
	w := s.do(t, http.MethodPut, "/api/v1/countries/metrics", strings.NewReader(body), http.Header{"Content-Type": {"application/json"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	snap := s.rows.Current()
	if snap.Version() <= before || snap.Loading() {
		t.Errorf("snapshot version %d loading %v after replace (was %d)", snap.Version(), snap.Loading(), before)
	}
	if !snap.Has("FR") || snap.MaxVisitors() != 500 {
		t.Errorf("snapshot rows not normalized: has FR %v, max %d", snap.Has("FR"), snap.MaxVisitors())
	}
	if s.persist.count() != 1 {
		t.Errorf("SaveRows calls = %d, want 1", s.persist.count())
	}

	response := decodeEnvelope(t, w)
	if response.Metadata == nil || response.Metadata.SnapshotVersion != snap.Version() {
		t.Errorf("Metadata = %+v", response.Metadata)
	}
}

func TestReplaceCountryMetrics_PersistFailureStillServes(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, nil)
	s.persist.err = errUpstreamDown

	w := s.do(t, http.MethodPut, "/api/v1/countries/metrics", strings.NewReader(`{"rows":[]}`), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if s.rows.Current().Loading() {
		t.Error("empty replace left the store loading")
	}
}

func TestReplaceCountryMetrics_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		code string
		tag  string
	}{
		{"malformed json", `{"rows":[`, ErrCodeBadRequest, ""},
		{"unknown field", `{"rows":[],"extra":true}`, ErrCodeBadRequest, ""},
		{"bad country code", `{"rows":[{"country_code":"USA","visitors":1}]}`, ErrCodeValidation, "country_code"},
		{"bounce rate over 100", `{"rows":[{"country_code":"US","visitors":1,"bounce_rate":101}]}`, ErrCodeValidation, "lte"},
		{"negative visitors", `{"rows":[{"country_code":"US","visitors":-1}]}`, ErrCodeValidation, "gte"},
		{"duplicate code", `{"rows":[{"country_code":"US","visitors":1},{"country_code":"us","visitors":2}]}`, ErrCodeValidation, "unique"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestServer(t, sampleRows())
			before := s.rows.Current().Version()

			w := s.do(t, http.MethodPut, "/api/v1/countries/metrics", strings.NewReader(tt.body), nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
			response := decodeEnvelope(t, w)
			if response.Error == nil || response.Error.Code != tt.code {
				t.Fatalf("error = %+v, want %s", response.Error, tt.code)
			}
			if tt.tag != "" {
				details, _ := response.Error.Details.(map[string]interface{})
				if details["tag"] != tt.tag {
					t.Errorf("tag = %v, want %s", details["tag"], tt.tag)
				}
			}
			if s.rows.Current().Version() != before {
				t.Error("rejected body changed the snapshot")
			}
			if s.persist.count() != 0 {
				t.Error("rejected body was persisted")
			}
		})
	}
}

func TestCountryLegend(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, sampleRows())

	w := s.do(t, http.MethodGet, "/api/v1/countries/legend?steps=3", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Data []choropleth.LegendStop `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(body.Data) == 0 {
		t.Fatal("empty legend")
	}
	if last := body.Data[len(body.Data)-1]; last.Visitors != 1200 {
		t.Errorf("last stop = %+v, want MaxVisitors", last)
	}

	if w := s.do(t, http.MethodGet, "/api/v1/countries/legend?steps=0", nil, nil); w.Code != http.StatusBadRequest {
		t.Errorf("steps=0 status = %d, want 400", w.Code)
	}
}

func TestCountryDetail(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, sampleRows())

	w := s.do(t, http.MethodGet, "/api/v1/countries/de?locale=de", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Data CountryResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	d := body.Data
	if d.CountryCode != "DE" || d.Name != "Deutschland" {
		t.Errorf("country = %s %q, want DE Deutschland", d.CountryCode, d.Name)
	}
	if !d.OnMap || !d.Marked || d.Row == nil || d.Row.Visitors != 300 {
		t.Errorf("detail = %+v", d)
	}

	unmarked := s.do(t, http.MethodGet, "/api/v1/countries/FR", nil, nil)
	var fr struct {
		Data CountryResponse `json:"data"`
	}
	if err := json.Unmarshal(unmarked.Body.Bytes(), &fr); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if fr.Data.Marked || fr.Data.Row != nil || fr.Data.Fill.Color != choropleth.DefaultPalette().NoData {
		t.Errorf("FR without a row = %+v", fr.Data)
	}
}

func TestCountryDetail_Errors(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, sampleRows())

	tests := []struct {
		path   string
		status int
	}{
		{"/api/v1/countries/QQ", http.StatusNotFound},
		{"/api/v1/countries/123", http.StatusBadRequest},
		{"/api/v1/countries/USA", http.StatusBadRequest},
		{"/api/v1/countries/DE?selected=x", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if w := s.do(t, http.MethodGet, tt.path, nil, nil); w.Code != tt.status {
			t.Errorf("GET %s status = %d, want %d", tt.path, w.Code, tt.status)
		}
	}
}
