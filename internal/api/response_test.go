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

	"github.com/goccy/go-json"

	"github.com/tomtom215/globeview/internal/logging"
	"github.com/tomtom215/globeview/internal/validation"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var response APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v (body %s)", err, w.Body.String())
	}
	return response
}

func TestResponseWriter_Success(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/test", nil)
	r = r.WithContext(logging.ContextWithRequestID(r.Context(), "req-1"))

	NewResponseWriter(w, r).SuccessWithMeta(map[string]string{"message": "hello"}, &APIMeta{SnapshotVersion: 4})

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	response := decodeEnvelope(t, w)
	if !response.Success || response.Error != nil {
		t.Errorf("unexpected envelope: %+v", response)
	}
	if response.Metadata == nil || response.Metadata.Timestamp.IsZero() {
		t.Fatal("Expected metadata with a timestamp")
	}
	if response.Metadata.RequestID != "req-1" || response.Metadata.SnapshotVersion != 4 {
		t.Errorf("Metadata = %+v", response.Metadata)
	}
	if !strings.Contains(w.Body.String(), `"metadata":`) {
		t.Errorf("envelope must use the metadata key: %s", w.Body.String())
	}
}

func TestResponseWriter_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		write  func(rw *ResponseWriter)
		status int
		code   string
	}{
		{"bad request", func(rw *ResponseWriter) { rw.BadRequest("bad") }, http.StatusBadRequest, ErrCodeBadRequest},
		{"not found", func(rw *ResponseWriter) { rw.NotFound("gone") }, http.StatusNotFound, ErrCodeNotFound},
		{"method", func(rw *ResponseWriter) { rw.MethodNotAllowed() }, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed},
		{"rate limited", func(rw *ResponseWriter) { rw.TooManyRequests("slow down") }, http.StatusTooManyRequests, ErrCodeRateLimited},
		{"internal", func(rw *ResponseWriter) { rw.InternalError("boom") }, http.StatusInternalServerError, ErrCodeInternalError},
		{"unavailable", func(rw *ResponseWriter) { rw.ServiceUnavailable("later") }, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/test", nil)
			tt.write(NewResponseWriter(w, r))

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			response := decodeEnvelope(t, w)
			if response.Success || response.Error == nil || response.Error.Code != tt.code {
				t.Errorf("envelope = %+v, want error code %s", response, tt.code)
			}
			if response.Data != nil {
				t.Errorf("error envelope carries data: %v", response.Data)
			}
		})
	}
}

func TestResponseWriter_ValidationError(t *testing.T) {
	t.Parallel()

	verr := validation.ValidateVar("code", "usa", "country_code")
	if verr == nil {
		t.Fatal("ValidateVar() accepted usa")
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/test", nil)
	NewResponseWriter(w, r).ValidationError(verr.ToAPIError())

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	response := decodeEnvelope(t, w)
	if response.Error == nil || response.Error.Code != ErrCodeValidation {
		t.Fatalf("envelope = %+v", response)
	}
	details, ok := response.Error.Details.(map[string]interface{})
	if !ok || details["field"] != "code" {
		t.Errorf("Details = %#v, want field code", response.Error.Details)
	}
}

func TestResponseWriter_ETagAndContentType(t *testing.T) {
	t.Parallel()

	write := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		NewResponseWriter(w, httptest.NewRequest(http.MethodGet, "/test", nil)).writeJSON(http.StatusOK, map[string]int{"a": 1})
		return w
	}
	a, b := write(), write()

	if ct := a.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if a.Header().Get("ETag") == "" || a.Header().Get("ETag") != b.Header().Get("ETag") {
		t.Errorf("ETags %q and %q should be equal and non-empty", a.Header().Get("ETag"), b.Header().Get("ETag"))
	}
}

func TestGenerateETag(t *testing.T) {
	t.Parallel()

	if generateETag([]byte("a")) == generateETag([]byte("b")) {
		t.Error("different bodies produced the same ETag")
	}
	if got := generateETag(nil); !strings.HasPrefix(got, `W/"`) {
		t.Errorf("generateETag(nil) = %q, want weak validator", got)
	}
}

func TestConvenienceFunctions(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	WriteSuccess(w, httptest.NewRequest(http.MethodGet, "/", nil), "ok")
	if w.Code != http.StatusOK || !decodeEnvelope(t, w).Success {
		t.Errorf("WriteSuccess wrote %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	WriteError(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusTeapot, ErrCodeBadRequest, "no")
	if w.Code != http.StatusTeapot || decodeEnvelope(t, w).Error.Code != ErrCodeBadRequest {
		t.Errorf("WriteError wrote %d %s", w.Code, w.Body.String())
	}
}
