// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package globe

import (
	"math"
	"time"

	"github.com/goccy/go-json"
)

const (
	// MaxLatitude bounds the latitude component in both directions.
	MaxLatitude = 85.0

	// DefaultAutoRotateSpeed is the auto-rotation rate in degrees per second.
	DefaultAutoRotateSpeed = 14.0

	// DefaultDragSensitivity is degrees of rotation per pixel of pointer motion.
	DefaultDragSensitivity = 0.5

	// DefaultResumeDelay is the idle time after a drag before auto-rotation resumes.
	DefaultResumeDelay = 2500 * time.Millisecond
)

// RotationVector is the globe rotation in degrees. Longitude is unbounded,
// latitude is kept within [-MaxLatitude, MaxLatitude] and roll is always 0.
type RotationVector struct {
	Longitude float64 `json:"longitude_deg"`
	Latitude  float64 `json:"latitude_deg"`
	Roll      float64 `json:"roll_deg"`
}

// NewRotation returns a rotation with latitude clamped.
func NewRotation(lon, lat float64) RotationVector {
	return RotationVector{Longitude: finite(lon), Latitude: ClampLatitude(lat)}
}

// Normalized returns v with latitude clamped, roll zeroed and non-finite
// components replaced by 0.
func (v RotationVector) Normalized() RotationVector {
	return NewRotation(v.Longitude, v.Latitude)
}

// UnmarshalJSON decodes a rotation and normalizes it, so a restored vector
// always satisfies the latitude bound and never carries a roll.
func (v *RotationVector) UnmarshalJSON(data []byte) error {
	type plain RotationVector
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*v = RotationVector(p).Normalized()
	return nil
}

// ClampLatitude limits lat to [-MaxLatitude, MaxLatitude]. NaN becomes 0.
func ClampLatitude(lat float64) float64 {
	if math.IsNaN(lat) {
		return 0
	}
	return math.Max(-MaxLatitude, math.Min(MaxLatitude, lat))
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Options tunes the rotation engine and drag controller.
type Options struct {
	// AutoRotateSpeed is in degrees per second.
	AutoRotateSpeed float64
	// DragSensitivity is in degrees per pixel.
	DragSensitivity float64
	// ResumeDelay is how long auto-rotation stays paused after a drag.
	ResumeDelay time.Duration
	// Initial is the starting rotation.
	Initial RotationVector
}

// DefaultOptions returns the standard interaction constants.
func DefaultOptions() Options {
	return Options{
		AutoRotateSpeed: DefaultAutoRotateSpeed,
		DragSensitivity: DefaultDragSensitivity,
		ResumeDelay:     DefaultResumeDelay,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.AutoRotateSpeed <= 0 {
		o.AutoRotateSpeed = d.AutoRotateSpeed
	}
	if o.DragSensitivity <= 0 {
		o.DragSensitivity = d.DragSensitivity
	}
	if o.ResumeDelay <= 0 {
		o.ResumeDelay = d.ResumeDelay
	}
	o.Initial = o.Initial.Normalized()
	return o
}
