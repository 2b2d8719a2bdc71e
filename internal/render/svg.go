// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package render

import (
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/globeview/internal/choropleth"
	"github.com/tomtom215/globeview/internal/geo"
	"github.com/tomtom215/globeview/internal/globe"
	"github.com/tomtom215/globeview/internal/metrics"
)

const (
	sphereFill   = "#f8fafc"
	sphereStroke = "#cbd5e1"
	borderStroke = "#ffffff"

	// skeletonAspect is height/width of the loading placeholder.
	skeletonAspect = 1.0
)

// Viewport is the container size in CSS pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether both dimensions are positive.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0
}

// Renderer draws the choropleth globe. It holds only immutable inputs and
// is safe for concurrent use.
type Renderer struct {
	dataset *geo.Dataset
	palette choropleth.Palette
}

// NewRenderer creates a renderer for ds using palette p.
func NewRenderer(ds *geo.Dataset, p choropleth.Palette) *Renderer {
	return &Renderer{dataset: ds, palette: p}
}

// Dataset returns the geometry the renderer draws.
func (r *Renderer) Dataset() *geo.Dataset {
	return r.dataset
}

// Palette returns the fill colors.
func (r *Renderer) Palette() choropleth.Palette {
	return r.palette
}

// Render returns the SVG document for one frame. The output depends only on
// the arguments, so equal inputs always produce identical bytes. A loading
// snapshot yields the skeleton instead of the globe. selected is matched
// case-insensitively, for both the highlight fill and the selected class.
func (r *Renderer) Render(v globe.RotationVector, snap *choropleth.Snapshot, selected string, vp Viewport) string {
	selected = strings.ToUpper(selected)
	start := time.Now()
	var out string
	if snap.Loading() {
		out = Skeleton(vp)
	} else {
		out = r.renderGlobe(v.Normalized(), snap, selected, vp)
	}
	metrics.RecordRender(snap.Loading(), time.Since(start))
	return out
}

func (r *Renderer) renderGlobe(v globe.RotationVector, snap *choropleth.Snapshot, selected string, vp Viewport) string {
	proj := newProjection(v, vp)
	cx, cy := proj.Center()

	var b strings.Builder
	b.Grow(16 * 1024)
	openSVG(&b, vp, "globe")

	b.WriteString(`<circle class="sphere" cx="`)
	b.WriteString(num(cx))
	b.WriteString(`" cy="`)
	b.WriteString(num(cy))
	b.WriteString(`" r="`)
	b.WriteString(num(proj.Radius()))
	b.WriteString(`" fill="` + sphereFill + `" stroke="` + sphereStroke + `"/>`)

	b.WriteString(`<g class="countries" stroke="` + borderStroke + `" stroke-width="0.5">`)
	shapes := r.dataset.Shapes()
	for i := range shapes {
		r.writeShape(&b, proj, &shapes[i], snap, selected)
	}
	b.WriteString(`</g></svg>`)
	return b.String()
}

func (r *Renderer) writeShape(b *strings.Builder, proj *geo.Orthographic, s *geo.Shape, snap *choropleth.Snapshot, selected string) {
	d := shapePath(proj, s)
	if d == "" {
		return
	}
	fill := r.palette.Fill(snap, selected, s.Code)

	b.WriteString(`<path d="`)
	b.WriteString(d)
	b.WriteString(`" fill="`)
	b.WriteString(html.EscapeString(fill.Color))
	b.WriteString(`" fill-opacity="`)
	b.WriteString(fill.AlphaString())
	b.WriteString(`" fill-rule="evenodd" data-id="`)
	b.WriteString(html.EscapeString(s.ID))
	b.WriteByte('"')
	if HasMarker(snap, s.Code) {
		b.WriteString(` data-code="`)
		b.WriteString(html.EscapeString(s.Code))
		b.WriteByte('"')
	}
	if s.Code != "" && s.Code == selected {
		b.WriteString(` class="selected"`)
	}
	b.WriteString(`/>`)
}

// shapePath returns the SVG path data of the visible rings of s, or "" when
// the whole shape is on the far side.
func shapePath(proj *geo.Orthographic, s *geo.Shape) string {
	var b strings.Builder
	for _, poly := range s.Polygons {
		for _, ring := range poly.Rings {
			writeRing(&b, proj, ring)
		}
	}
	return b.String()
}

func writeRing(b *strings.Builder, proj *geo.Orthographic, ring geo.Ring) {
	anyVisible := false
	for _, p := range ring {
		if _, _, ok := proj.Project(p.Lon, p.Lat); ok {
			anyVisible = true
			break
		}
	}
	if !anyVisible {
		return
	}
	for i, p := range ring {
		x, y, _ := proj.ProjectClamped(p.Lon, p.Lat)
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		b.WriteString(num(x))
		b.WriteByte(',')
		b.WriteString(num(y))
	}
	b.WriteByte('Z')
}

// Skeleton is the fixed-aspect placeholder shown while data loads.
func Skeleton(vp Viewport) string {
	w := vp.Width
	h := w * skeletonAspect
	if vp.Height > 0 && h > vp.Height {
		h = vp.Height
	}
	size := h
	if w < size {
		size = w
	}
	r := size / 2 * 0.96

	var b strings.Builder
	openSVG(&b, Viewport{Width: w, Height: h}, "globe globe-skeleton")
	b.WriteString(`<circle cx="`)
	b.WriteString(num(w / 2))
	b.WriteString(`" cy="`)
	b.WriteString(num(h / 2))
	b.WriteString(`" r="`)
	b.WriteString(num(r))
	b.WriteString(`" fill="` + choropleth.DefaultNoDataColor + `"><animate attributeName="opacity" values="1;0.5;1" dur="1.5s" repeatCount="indefinite"/></circle></svg>`)
	return b.String()
}

func openSVG(b *strings.Builder, vp Viewport, class string) {
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" class="`)
	b.WriteString(class)
	b.WriteString(`" width="`)
	b.WriteString(num(vp.Width))
	b.WriteString(`" height="`)
	b.WriteString(num(vp.Height))
	b.WriteString(`" viewBox="0 0 `)
	b.WriteString(num(vp.Width))
	b.WriteByte(' ')
	b.WriteString(num(vp.Height))
	b.WriteString(`">`)
}

// num formats a coordinate with one decimal, enough for sub-pixel paths.
func num(f float64) string {
	s := strconv.FormatFloat(f, 'f', 1, 64)
	if s == "-0.0" {
		return "0.0"
	}
	return s
}
