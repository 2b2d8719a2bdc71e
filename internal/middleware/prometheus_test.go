// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/globeview/internal/metrics"
)

func TestPrometheusMetrics_RoutePatternLabel(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/api/v1/countries/{code}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "code") == "ZZ" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	counter := func(status string) float64 {
		return testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/api/v1/countries/{code}", status))
	}
	okBefore, nfBefore := counter("200"), counter("404")

	for _, path := range []string{"/api/v1/countries/DE", "/api/v1/countries/FR", "/api/v1/countries/ZZ"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := counter("200") - okBefore; got != 2 {
		t.Errorf("200 count delta = %v, want 2", got)
	}
	if got := counter("404") - nfBefore; got != 1 {
		t.Errorf("404 count delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.APIActiveRequests); got != 0 {
		t.Errorf("active requests = %v after completion, want 0", got)
	}
}

func TestPrometheusMetrics_OutsideRouter(t *testing.T) {
	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("POST", "unmatched", "500"))

	h := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.WriteHeader(http.StatusOK) // superfluous, must not change the label
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/anything", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	after := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("POST", "unmatched", "500"))
	if after-before != 1 {
		t.Errorf("unmatched 500 delta = %v, want 1", after-before)
	}
}

func TestMetricsResponseWriter_HijackUnsupported(t *testing.T) {
	t.Parallel()

	rw := &metricsResponseWriter{ResponseWriter: httptest.NewRecorder()}
	if _, _, err := rw.Hijack(); err != http.ErrNotSupported {
		t.Errorf("Hijack() error = %v, want ErrNotSupported", err)
	}
	if rw.Unwrap() == nil {
		t.Error("Unwrap() = nil")
	}
}
