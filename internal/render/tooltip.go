// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package render

import (
	"github.com/tomtom215/globeview/internal/choropleth"
	"github.com/tomtom215/globeview/internal/geo"
	"github.com/tomtom215/globeview/internal/globe"
)

// TooltipLayout sizes and positions the tooltip box.
type TooltipLayout struct {
	Width  float64
	Height float64
	// Offset is the gap between the pointer and the box.
	Offset float64
	// Margin is kept between the box and the container's right edge.
	Margin float64
	// FlipRatio is the fraction of the height below which the box is drawn
	// above the pointer.
	FlipRatio float64
}

// DefaultTooltipLayout returns the standard tooltip geometry.
func DefaultTooltipLayout() TooltipLayout {
	return TooltipLayout{
		Width:     180,
		Height:    72,
		Offset:    12,
		Margin:    8,
		FlipRatio: 0.6,
	}
}

// Placement is the top-left corner of the tooltip box.
type Placement struct {
	Left  float64 `json:"left"`
	Top   float64 `json:"top"`
	Above bool    `json:"above"`
}

// Place positions the box next to the pointer at (x, y). The right edge never
// exceeds width-Margin, and when the pointer is in the lower 40% of the
// container the box is flipped above it.
func (l TooltipLayout) Place(x, y float64, vp Viewport) Placement {
	left := x + l.Offset
	if maxLeft := vp.Width - l.Margin - l.Width; left > maxLeft {
		left = maxLeft
	}

	p := Placement{Left: left, Top: y + l.Offset}
	if y > vp.Height*l.FlipRatio {
		p.Top = y - l.Offset - l.Height
		p.Above = true
	}
	return p
}

// TooltipView is the tooltip content sent to clients.
type TooltipView struct {
	CountryCode        string    `json:"country_code"`
	Name               string    `json:"name"`
	Visitors           int64     `json:"visitors"`
	Pageviews          *int64    `json:"pageviews,omitempty"`
	BounceRate         float64   `json:"bounce_rate"`
	AvgDurationSeconds float64   `json:"avg_duration_seconds"`
	X                  float64   `json:"x"`
	Y                  float64   `json:"y"`
	Placement          Placement `json:"placement"`
}

// DescribeTooltip builds the view for a controller tooltip, or nil when there
// is none or its country no longer has a row.
func DescribeTooltip(tip *globe.Tooltip, snap *choropleth.Snapshot, vp Viewport, layout TooltipLayout, locale string) *TooltipView {
	if tip == nil || snap == nil {
		return nil
	}
	row, ok := snap.Row(tip.CountryCode)
	if !ok {
		return nil
	}
	return &TooltipView{
		CountryCode:        tip.CountryCode,
		Name:               choropleth.LocalizedRegionName(locale, tip.CountryCode),
		Visitors:           row.Visitors,
		Pageviews:          row.Pageviews,
		BounceRate:         row.BounceRate,
		AvgDurationSeconds: row.AvgDurationSeconds,
		X:                  tip.X,
		Y:                  tip.Y,
		Placement:          layout.Place(tip.X, tip.Y, vp),
	}
}

func newProjection(v globe.RotationVector, vp Viewport) *geo.Orthographic {
	return geo.NewOrthographic(vp.Width, vp.Height, v.Longitude, v.Latitude)
}
