// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/globeview/internal/logging"
	"github.com/tomtom215/globeview/internal/validation"
)

// maxBodyBytes caps JSON request bodies. A full row set for every ISO
// country is well under this.
const maxBodyBytes = 1 << 20

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondError logs err, if any, and writes an error envelope.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Str("code", sanitizeLogValue(code)).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}
	NewResponseWriter(w, r).Error(status, code, message)
}

// requireMethod writes a 405 and returns false unless r uses method.
func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	NewResponseWriter(w, r).MethodNotAllowed()
	return false
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes.
//
// Example:
//
//	req := LegendRequest{Steps: newQueryParams(r).int("steps", 5)}
//	if apiErr := validateRequest(&req); apiErr != nil {
//	    NewResponseWriter(w, r).ValidationError(apiErr)
//	    return
//	}
func validateRequest(v interface{}) *validation.APIError {
	if verr := validation.ValidateStruct(v); verr != nil {
		return verr.ToAPIError()
	}
	return nil
}

// paramError is a query parameter that failed to parse.
type paramError struct {
	name  string
	value string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("%s: %q is not a number", e.name, e.value)
}

// toAPIError reports the parameter the way validation failures are reported.
func (e *paramError) toAPIError() *validation.APIError {
	return &validation.APIError{
		Code:    ErrCodeValidation,
		Message: e.name + " must be a number",
		Details: map[string]interface{}{"field": e.name, "tag": "number", "value": e.value},
	}
}

// queryParams parses numeric query parameters, remembering the first failure.
type queryParams struct {
	r   *http.Request
	err *paramError
}

func newQueryParams(r *http.Request) *queryParams {
	return &queryParams{r: r}
}

// float returns the parameter as a finite float64, or def when absent.
func (q *queryParams) float(name string, def float64) float64 {
	raw := strings.TrimSpace(q.r.URL.Query().Get(name))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		if q.err == nil {
			q.err = &paramError{name: name, value: raw}
		}
		return def
	}
	return v
}

// int returns the parameter as an int, or def when absent.
func (q *queryParams) int(name string, def int) int {
	raw := strings.TrimSpace(q.r.URL.Query().Get(name))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		if q.err == nil {
			q.err = &paramError{name: name, value: raw}
		}
		return def
	}
	return v
}

func (q *queryParams) str(name string) string {
	return strings.TrimSpace(q.r.URL.Query().Get(name))
}

// decodeJSONBody decodes a size-limited JSON body into dst, rejecting
// unknown fields.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}
