// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built on first use and shared by the API
// handlers and the upstream row ingest. Field names in error messages come
// from json tags, so a failure inside a PUT body reads
// "rows[2].bounce_rate must be less than or equal to 100".
//
// # Custom Tags
//
//   - country_code: exactly two upper-case ASCII letters (ISO-3166 alpha-2 shape)
//
// # Usage
//
//	type HitRequest struct {
//	    Longitude float64 `json:"lon" validate:"gte=-1e6,lte=1e6"`
//	    Latitude  float64 `json:"lat" validate:"gte=-85,lte=85"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// Single values are checked with ValidateVar, which reports the failure under
// the supplied field name:
//
//	if verr := validation.ValidateVar("code", code, "country_code"); verr != nil {
//	    ...
//	}
package validation
