// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/globeview/internal/choropleth"
	"github.com/tomtom215/globeview/internal/globe"
	"github.com/tomtom215/globeview/internal/render"
)

// Request structs carry go-playground/validator tags. JSON tags name the
// query parameters so validation messages match what the client sent.

// GlobeViewRequest is the rotation, size and selection of a static render.
//
// Longitude is accepted in [-360, 360]; latitude is clamped by
// globe.NewRotation after validation.
type GlobeViewRequest struct {
	Longitude float64 `json:"lon" validate:"gte=-360,lte=360"`
	Latitude  float64 `json:"lat" validate:"gte=-90,lte=90"`
	Width     float64 `json:"width" validate:"gt=0,lte=4096"`
	Height    float64 `json:"height" validate:"gt=0,lte=4096"`
	Selected  string  `json:"selected" validate:"omitempty,country_code"`
}

// Rotation returns the normalized rotation vector.
func (g *GlobeViewRequest) Rotation() globe.RotationVector {
	return globe.NewRotation(g.Longitude, g.Latitude)
}

// Viewport returns the render viewport.
func (g *GlobeViewRequest) Viewport() render.Viewport {
	return render.Viewport{Width: g.Width, Height: g.Height}
}

// HitTestRequest adds the container position to a view.
type HitTestRequest struct {
	GlobeViewRequest
	X      float64 `json:"x" validate:"gte=0"`
	Y      float64 `json:"y" validate:"gte=0"`
	Locale string  `json:"locale" validate:"omitempty,max=35"`
}

// LegendRequest selects the number of accent stops.
type LegendRequest struct {
	Steps int `json:"steps" validate:"min=1,max=20"`
}

// CountryRequest looks up one country.
type CountryRequest struct {
	Code     string `json:"code" validate:"required,country_code"`
	Selected string `json:"selected" validate:"omitempty,country_code"`
	Locale   string `json:"locale" validate:"omitempty,max=35"`
}

// ReplaceRowsRequest is the PUT /countries/metrics body. Individual rows
// are validated by choropleth.NormalizeRows.
type ReplaceRowsRequest struct {
	Rows []choropleth.Row `json:"rows" validate:"max=400"`
}

// WebSocketRequest is the query of a /ws upgrade.
type WebSocketRequest struct {
	Session  string  `json:"session" validate:"omitempty,max=128,printascii"`
	Width    float64 `json:"width" validate:"gt=0,lte=4096"`
	Height   float64 `json:"height" validate:"gt=0,lte=4096"`
	Selected string  `json:"selected" validate:"omitempty,country_code"`
	Locale   string  `json:"locale" validate:"omitempty,max=35"`
}

// parseGlobeView reads lon, lat, width, height and selected. Missing sizes
// fall back to the configured defaults.
func (h *Handler) parseGlobeView(q *queryParams) GlobeViewRequest {
	return GlobeViewRequest{
		Longitude: q.float("lon", 0),
		Latitude:  q.float("lat", 0),
		Width:     q.float("width", h.defaultWidth()),
		Height:    q.float("height", h.defaultHeight()),
		Selected:  strings.ToUpper(q.str("selected")),
	}
}

// parseAndValidate runs parse, then writes the first parse or validation
// failure. It returns false when a response has been written.
func parseAndValidate(w http.ResponseWriter, r *http.Request, q *queryParams, req interface{}) bool {
	rw := NewResponseWriter(w, r)
	if q != nil && q.err != nil {
		rw.ValidationError(q.err.toAPIError())
		return false
	}
	if apiErr := validateRequest(req); apiErr != nil {
		rw.ValidationError(apiErr)
		return false
	}
	return true
}
