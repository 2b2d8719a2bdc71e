// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package cache

import (
	"crypto/sha256"
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

// GenerateKey creates a compact cache key from a prefix and the JSON form of
// params.
func GenerateKey(prefix string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", prefix, params)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", prefix, hash[:16])
}

// FrameKey identifies a rendered globe frame. Rotations that differ by less
// than the quantization step share a key.
type FrameKey struct {
	Longitude float64 `json:"lon"`
	Latitude  float64 `json:"lat"`
	Width     int     `json:"w"`
	Height    int     `json:"h"`
	Selected  string  `json:"sel"`
	Version   uint64  `json:"v"`
}

// NewFrameKey quantizes the rotation to step degrees and wraps longitude into
// [0, 360). A non-positive step disables quantization.
func NewFrameKey(lon, lat float64, width, height int, selected string, version uint64, step float64) FrameKey {
	return FrameKey{
		Longitude: wrap360(Quantize(lon, step)),
		Latitude:  Quantize(lat, step),
		Width:     width,
		Height:    height,
		Selected:  selected,
		Version:   version,
	}
}

// String returns the hashed key.
func (k FrameKey) String() string {
	return GenerateKey("frame", k)
}

// Quantize rounds v to the nearest multiple of step.
func Quantize(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	q := math.Round(v/step) * step
	if q == 0 {
		return 0
	}
	return q
}

func wrap360(v float64) float64 {
	v = math.Mod(v, 360)
	if v < 0 {
		v += 360
	}
	return v
}
