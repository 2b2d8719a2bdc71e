// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package geo

import "math"

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi

	// fitRatio leaves a small margin between the sphere outline and the viewport.
	fitRatio = 0.96
)

// Orthographic projects the sphere onto a viewport as seen from infinitely
// far away. A rotation of (lon, lat) brings the geographic point (-lon, -lat)
// to the center of the view, so increasing lon moves content to the right
// and increasing lat tilts the southern hemisphere into view.
type Orthographic struct {
	cx, cy  float64
	radius  float64
	lambda0 float64
	sinPhi0 float64
	cosPhi0 float64
}

// NewOrthographic builds a projection centered in a width x height viewport.
func NewOrthographic(width, height, rotLonDeg, rotLatDeg float64) *Orthographic {
	phi0 := -rotLatDeg * degToRad
	return &Orthographic{
		cx:      width / 2,
		cy:      height / 2,
		radius:  math.Min(width, height) / 2 * fitRatio,
		lambda0: -rotLonDeg * degToRad,
		sinPhi0: math.Sin(phi0),
		cosPhi0: math.Cos(phi0),
	}
}

// Center returns the screen position of the sphere center.
func (o *Orthographic) Center() (x, y float64) {
	return o.cx, o.cy
}

// Radius returns the screen radius of the sphere.
func (o *Orthographic) Radius() float64 {
	return o.radius
}

// planar returns unit-sphere plane coordinates (y up) and cos of the angular
// distance from the view center. cosc < 0 means the far hemisphere.
func (o *Orthographic) planar(lonDeg, latDeg float64) (x, y, cosc float64) {
	phi := latDeg * degToRad
	dl := lonDeg*degToRad - o.lambda0
	sinPhi, cosPhi := math.Sincos(phi)
	sinDl, cosDl := math.Sincos(dl)

	cosc = o.sinPhi0*sinPhi + o.cosPhi0*cosPhi*cosDl
	x = cosPhi * sinDl
	y = o.cosPhi0*sinPhi - o.sinPhi0*cosPhi*cosDl
	return x, y, cosc
}

// Project maps a coordinate to screen space. visible is false for points on
// the far hemisphere.
func (o *Orthographic) Project(lonDeg, latDeg float64) (sx, sy float64, visible bool) {
	x, y, cosc := o.planar(lonDeg, latDeg)
	return o.cx + x*o.radius, o.cy - y*o.radius, cosc >= 0
}

// ProjectClamped behaves like Project but pushes far-side points onto the
// visible limb, so a ring that crosses the horizon stays closed.
func (o *Orthographic) ProjectClamped(lonDeg, latDeg float64) (sx, sy float64, visible bool) {
	x, y, cosc := o.planar(lonDeg, latDeg)
	if cosc >= 0 {
		return o.cx + x*o.radius, o.cy - y*o.radius, true
	}
	norm := math.Hypot(x, y)
	if norm == 0 {
		x, y, norm = 1, 0, 1
	}
	x, y = x/norm, y/norm
	return o.cx + x*o.radius, o.cy - y*o.radius, false
}

// Invert maps a screen position back to a coordinate. ok is false when the
// position lies outside the sphere outline.
func (o *Orthographic) Invert(sx, sy float64) (lonDeg, latDeg float64, ok bool) {
	x := (sx - o.cx) / o.radius
	y := (o.cy - sy) / o.radius
	rho := math.Hypot(x, y)
	if rho > 1 {
		return 0, 0, false
	}
	if rho == 0 {
		return normalizeLon(o.lambda0 * radToDeg), math.Asin(o.sinPhi0) * radToDeg, true
	}

	c := math.Asin(rho)
	sinC, cosC := math.Sincos(c)
	phi := math.Asin(cosC*o.sinPhi0 + y*sinC*o.cosPhi0/rho)
	lambda := o.lambda0 + math.Atan2(x*sinC, rho*cosC*o.cosPhi0-y*sinC*o.sinPhi0)
	return normalizeLon(lambda * radToDeg), phi * radToDeg, true
}

// normalizeLon wraps a longitude into [-180, 180).
func normalizeLon(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}
