// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package choropleth

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// MinAlpha is the accent alpha of the smallest non-zero country.
	MinAlpha = 0.12
	// AlphaRange is added to MinAlpha in proportion to visitors/MaxVisitors.
	AlphaRange = 0.88
)

// Default colors.
const (
	DefaultNoDataColor    = "#e5e7eb"
	DefaultHighlightColor = "#f59e0b"
	DefaultAccentColor    = "#2563eb"
)

// Fill is a solid color with an opacity.
type Fill struct {
	Color string  `json:"color"`
	Alpha float64 `json:"alpha"`
}

// AlphaString formats the opacity with three decimals, the precision used in
// rendered SVG.
func (f Fill) AlphaString() string {
	return strconv.FormatFloat(f.Alpha, 'f', 3, 64)
}

// Palette holds the three choropleth colors as #rrggbb strings.
type Palette struct {
	NoData    string `json:"no_data"`
	Highlight string `json:"highlight"`
	Accent    string `json:"accent"`
}

// DefaultPalette returns the built-in colors.
func DefaultPalette() Palette {
	return Palette{
		NoData:    DefaultNoDataColor,
		Highlight: DefaultHighlightColor,
		Accent:    DefaultAccentColor,
	}
}

// Validate checks that every color is a #rrggbb hex string.
func (p Palette) Validate() error {
	for name, c := range map[string]string{
		"no_data":   p.NoData,
		"highlight": p.Highlight,
		"accent":    p.Accent,
	} {
		if !isHexColor(c) {
			return fmt.Errorf("palette %s color %q must be #rrggbb", name, c)
		}
	}
	return nil
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, ch := range strings.ToLower(s[1:]) {
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'f') {
			return false
		}
	}
	return true
}

// Intensity maps a visitor count to the accent alpha:
// 0.12 + 0.88 * visitors/max. max is floored at 1 and visitors clamped to
// [0, max], so the result is always within [0.12, 1].
func Intensity(visitors, maxVisitors int64) float64 {
	if maxVisitors < 1 {
		maxVisitors = 1
	}
	v := math.Max(0, math.Min(float64(visitors), float64(maxVisitors)))
	return MinAlpha + AlphaRange*v/float64(maxVisitors)
}

// Fill returns the fill for the shape with the given code. An empty code
// denotes an unmapped shape and always gets the no-data color. The selected
// country is highlighted even when it has no row or zero visitors.
func (p Palette) Fill(s *Snapshot, selected, code string) Fill {
	if code == "" {
		return Fill{Color: p.NoData, Alpha: 1}
	}
	if selected != "" && strings.EqualFold(code, selected) {
		return Fill{Color: p.Highlight, Alpha: 1}
	}
	row, ok := s.Row(code)
	if !ok || row.Visitors <= 0 {
		return Fill{Color: p.NoData, Alpha: 1}
	}
	return Fill{Color: p.Accent, Alpha: Intensity(row.Visitors, s.MaxVisitors())}
}

// LegendStop is one entry of the color legend.
type LegendStop struct {
	Visitors int64   `json:"visitors"`
	Color    string  `json:"color"`
	Alpha    float64 `json:"alpha"`
	Label    string  `json:"label"`
}

// Legend returns a no-data stop followed by steps accent stops evenly spaced
// up to the snapshot's MaxVisitors. Duplicate visitor values are collapsed.
func (p Palette) Legend(s *Snapshot, steps int) []LegendStop {
	if steps < 1 {
		steps = 1
	}
	maxV := s.MaxVisitors()
	stops := []LegendStop{{Visitors: 0, Color: p.NoData, Alpha: 1, Label: "No data"}}

	var last int64
	for i := 1; i <= steps; i++ {
		v := int64(math.Ceil(float64(maxV) * float64(i) / float64(steps)))
		if v <= last {
			continue
		}
		last = v
		stops = append(stops, LegendStop{
			Visitors: v,
			Color:    p.Accent,
			Alpha:    Intensity(v, maxV),
			Label:    strconv.FormatInt(v, 10),
		})
	}
	return stops
}
