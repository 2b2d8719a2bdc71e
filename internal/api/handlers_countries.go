// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/globeview/internal/choropleth"
	"github.com/tomtom215/globeview/internal/logging"
	"github.com/tomtom215/globeview/internal/metrics"
	"github.com/tomtom215/globeview/internal/validation"
)

// MetricsResponse is the current row snapshot.
type MetricsResponse struct {
	Version     uint64           `json:"version"`
	Loading     bool             `json:"loading"`
	UpdatedAt   *time.Time       `json:"updated_at,omitempty"`
	MaxVisitors int64            `json:"max_visitors"`
	Rows        []choropleth.Row `json:"rows"`
}

func newMetricsResponse(snap *choropleth.Snapshot) MetricsResponse {
	resp := MetricsResponse{
		Version:     snap.Version(),
		Loading:     snap.Loading(),
		MaxVisitors: snap.MaxVisitors(),
		Rows:        snap.Rows(),
	}
	if at := snap.UpdatedAt(); !at.IsZero() {
		resp.UpdatedAt = &at
	}
	if resp.Rows == nil {
		resp.Rows = []choropleth.Row{}
	}
	return resp
}

// CountryResponse describes one country as the globe would draw it.
type CountryResponse struct {
	CountryCode string          `json:"country_code"`
	Name        string          `json:"name"`
	OnMap       bool            `json:"on_map"`
	Marked      bool            `json:"marked"`
	Fill        choropleth.Fill `json:"fill"`
	Row         *choropleth.Row `json:"row,omitempty"`
}

// CountryMetrics returns the current rows and MaxVisitors.
func (h *Handler) CountryMetrics(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	snap := h.rows.Current()
	NewResponseWriter(w, r).SuccessWithMeta(newMetricsResponse(snap), &APIMeta{SnapshotVersion: snap.Version()})
}

// ReplaceCountryMetrics replaces the row set with the request body
// {"rows": [...]}. Every row is validated; the whole set is rejected on the
// first bad code, bounce rate or duplicate. The accepted snapshot is
// persisted when a persister is configured and broadcast to sessions by the
// store's subscribers.
func (h *Handler) ReplaceCountryMetrics(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPut) {
		return
	}
	rw := NewResponseWriter(w, r)

	var req ReplaceRowsRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		rw.BadRequest("Invalid request body: expected {\"rows\": [...]}")
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr)
		return
	}

	snap, err := h.rows.Replace(req.Rows)
	if err != nil {
		var verr *validation.RequestValidationError
		switch {
		case errors.As(err, &verr):
			rw.ValidationError(verr.ToAPIError())
		case errors.Is(err, choropleth.ErrDuplicateCode):
			rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidation, err.Error(), map[string]interface{}{"tag": "unique"})
		default:
			respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to replace rows", err)
		}
		return
	}

	metrics.UpdateDataset(snap.Len(), snap.MaxVisitors(), snap.Version())
	h.events.LogRowsReplaced(r.Context(), "api", snap.Version(), snap.Len())

	if h.persist != nil {
		if err := h.persist.SaveRows(r.Context(), snap.Rows(), snap.UpdatedAt()); err != nil {
			// The snapshot is live; only the restart copy is stale.
			logging.Ctx(r.Context()).Warn().Err(err).Msg("failed to persist replaced rows")
		}
	}

	rw.SuccessWithMeta(newMetricsResponse(snap), &APIMeta{SnapshotVersion: snap.Version()})
}

// CountryLegend returns the color legend for the current MaxVisitors.
// Query: steps (1..20, default from config).
func (h *Handler) CountryLegend(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	q := newQueryParams(r)
	req := LegendRequest{Steps: q.int("steps", h.legendSteps())}
	if !parseAndValidate(w, r, q, &req) {
		return
	}

	snap := h.rows.Current()
	NewResponseWriter(w, r).SuccessWithMeta(h.renderer.Palette().Legend(snap, req.Steps), &APIMeta{SnapshotVersion: snap.Version()})
}

// CountryDetail returns the localized name, fill and row of one country.
// Query: selected, locale. A code that is neither drawn nor has a row is 404.
func (h *Handler) CountryDetail(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	q := newQueryParams(r)
	req := CountryRequest{
		Code:     strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code"))),
		Selected: strings.ToUpper(q.str("selected")),
		Locale:   q.str("locale"),
	}
	if !parseAndValidate(w, r, q, &req) {
		return
	}

	snap := h.rows.Current()
	_, onMap := h.renderer.Dataset().IndexOf(req.Code)
	row, hasRow := snap.Row(req.Code)
	if !onMap && !hasRow {
		NewResponseWriter(w, r).NotFound("Unknown country: " + req.Code)
		return
	}

	resp := CountryResponse{
		CountryCode: req.Code,
		Name:        choropleth.LocalizedRegionName(h.locale(req.Locale), req.Code),
		OnMap:       onMap,
		Marked:      onMap && hasRow && !snap.Loading(),
		Fill:        h.renderer.Palette().Fill(snap, req.Selected, req.Code),
	}
	if hasRow {
		resp.Row = &row
	}
	NewResponseWriter(w, r).SuccessWithMeta(resp, &APIMeta{SnapshotVersion: snap.Version()})
}
