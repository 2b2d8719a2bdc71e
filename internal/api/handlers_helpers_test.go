// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"line\nbreak", `line\x0abreak`},
		{"tab\there", `tab\x09here`},
		{"del\x7f", `del\x7f`},
	}
	for _, tt := range tests {
		if got := sanitizeLogValue(tt.input); got != tt.expected {
			t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestQueryParams(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/?lon=12.5&lat=+-3&steps=4&bad=abc&inf=Inf&selected=+de+", nil)
	q := newQueryParams(r)

	if got := q.float("lon", 0); got != 12.5 {
		t.Errorf("float(lon) = %v", got)
	}
	if got := q.float("missing", 7); got != 7 {
		t.Errorf("float(missing) = %v, want default", got)
	}
	if got := q.int("steps", 1); got != 4 {
		t.Errorf("int(steps) = %v", got)
	}
	if got := q.str("selected"); got != "de" {
		t.Errorf("str(selected) = %q", got)
	}
	if q.err != nil {
		t.Fatalf("unexpected error before bad params: %v", q.err)
	}

	q.float("bad", 0)
	q.float("inf", 0)
	if q.err == nil || q.err.name != "bad" {
		t.Fatalf("err = %v, want first failure on bad", q.err)
	}
	apiErr := q.err.toAPIError()
	if apiErr.Code != ErrCodeValidation || apiErr.Details["field"] != "bad" {
		t.Errorf("toAPIError() = %+v", apiErr)
	}
}

func TestRequireMethod(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	if requireMethod(w, httptest.NewRequest(http.MethodPost, "/", nil), http.MethodGet) {
		t.Fatal("requireMethod accepted POST")
	}
	if w.Code != http.StatusMethodNotAllowed || w.Header().Get("Allow") != http.MethodGet {
		t.Errorf("got %d Allow=%q", w.Code, w.Header().Get("Allow"))
	}

	if !requireMethod(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), http.MethodGet) {
		t.Error("requireMethod rejected GET")
	}
}

func TestDecodeJSONBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"rows":[{"country_code":"DE","visitors":1}]}`, false},
		{"unknown field", `{"rows":[],"extra":1}`, true},
		{"malformed", `{"rows":`, true},
		{"too large", `{"rows":[` + strings.Repeat(" ", maxBodyBytes) + `]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(tt.body))
			var req ReplaceRowsRequest
			err := decodeJSONBody(httptest.NewRecorder(), r, &req)
			if (err != nil) != tt.wantErr {
				t.Errorf("decodeJSONBody() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRespondError_WritesEnvelope(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "failed", errTest("disk\nfull"))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "disk") {
		t.Errorf("internal error text leaked to client: %s", w.Body.String())
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
