// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package geo

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/goccy/go-json"
)

// ErrInvalidDataset is returned when a geometry file cannot be decoded.
var ErrInvalidDataset = errors.New("invalid country dataset")

//go:embed data/countries.geojson
var embeddedCountries []byte

// Point is a geographic coordinate in degrees.
type Point struct {
	Lon float64
	Lat float64
}

// Ring is a closed sequence of points. The closing point may be omitted.
type Ring []Point

// BBox is a lon/lat bounding box.
type BBox struct {
	MinLon, MinLat float64
	MaxLon, MaxLat float64
}

// Polygon is an outer ring followed by zero or more holes.
type Polygon struct {
	Rings []Ring
	BBox  BBox
}

// Shape is one country feature of the dataset.
type Shape struct {
	// ID is the normalized numeric topology id ("840").
	ID string
	// Code is the alpha-2 code, empty when the id has no mapping.
	Code     string
	Polygons []Polygon
	BBox     BBox
}

// Dataset is the immutable country geometry shared by every globe session.
type Dataset struct {
	shapes []Shape
	byCode map[string]int
	index  *GridIndex
}

var (
	defaultOnce    sync.Once
	defaultDataset *Dataset
	defaultErr     error
)

// Default returns the embedded Natural Earth 110m dataset, decoded on first
// use.
func Default() (*Dataset, error) {
	defaultOnce.Do(func() {
		defaultDataset, defaultErr = Load(embeddedCountries)
	})
	return defaultDataset, defaultErr
}

// LoadFile reads a GeoJSON FeatureCollection or TopoJSON Topology from disk.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	ds, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}
	return ds, nil
}

// Load decodes a dataset, detecting the format from its top-level type.
func Load(data []byte) (*Dataset, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}

	var (
		shapes []Shape
		err    error
	)
	switch head.Type {
	case "FeatureCollection":
		shapes, err = decodeGeoJSON(data)
	case "Topology":
		shapes, err = decodeTopoJSON(data)
	default:
		return nil, fmt.Errorf("%w: unexpected type %q", ErrInvalidDataset, head.Type)
	}
	if err != nil {
		return nil, err
	}
	if len(shapes) == 0 {
		return nil, fmt.Errorf("%w: no polygon features", ErrInvalidDataset)
	}
	return newDataset(shapes), nil
}

func newDataset(shapes []Shape) *Dataset {
	ds := &Dataset{
		shapes: shapes,
		byCode: make(map[string]int, len(shapes)),
	}
	for i := range ds.shapes {
		if code := ds.shapes[i].Code; code != "" {
			if _, dup := ds.byCode[code]; !dup {
				ds.byCode[code] = i
			}
		}
	}
	ds.index = NewGridIndex(defaultCellSizeDeg, ds.shapes)
	return ds
}

// Len returns the number of shapes.
func (d *Dataset) Len() int {
	return len(d.shapes)
}

// Shape returns shape i. The returned value shares storage with the dataset
// and must not be modified.
func (d *Dataset) Shape(i int) *Shape {
	return &d.shapes[i]
}

// Shapes returns every shape in dataset order.
func (d *Dataset) Shapes() []Shape {
	return d.shapes
}

// CodeAt returns the alpha-2 code of shape i, empty when unmapped.
func (d *Dataset) CodeAt(i int) string {
	if i < 0 || i >= len(d.shapes) {
		return ""
	}
	return d.shapes[i].Code
}

// IndexOf returns the first shape carrying code.
func (d *Dataset) IndexOf(code string) (int, bool) {
	i, ok := d.byCode[code]
	return i, ok
}

// Locate returns the index of the shape containing the coordinate, or -1.
func (d *Dataset) Locate(lon, lat float64) int {
	return d.index.Locate(d.shapes, lon, lat)
}

// ===== GeoJSON =====

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	ID         json.RawMessage   `json:"id"`
	Properties featureProperties `json:"properties"`
	Geometry   *geometry         `json:"geometry"`
}

type featureProperties struct {
	ID     json.RawMessage `json:"id"`
	ISON3  json.RawMessage `json:"iso_n3"`
	ISOA2  string          `json:"iso_a2"`
	Name   string          `json:"name"`
	Status string          `json:"status"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

func decodeGeoJSON(data []byte) ([]Shape, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("%w: decode feature collection: %v", ErrInvalidDataset, err)
	}

	shapes := make([]Shape, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		polys, err := f.Geometry.polygons()
		if err != nil {
			return nil, fmt.Errorf("%w: feature %d: %v", ErrInvalidDataset, i, err)
		}
		if len(polys) == 0 {
			continue
		}
		id := rawID(f.ID)
		if id == "" {
			id = rawID(f.Properties.ID)
		}
		if id == "" {
			id = rawID(f.Properties.ISON3)
		}
		shapes = append(shapes, newShape(id, polys))
	}
	return shapes, nil
}

func (g *geometry) polygons() ([]Polygon, error) {
	switch g.Type {
	case "Polygon":
		var coords [][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("decode polygon: %w", err)
		}
		if poly, ok := buildPolygon(coords); ok {
			return []Polygon{poly}, nil
		}
		return nil, nil
	case "MultiPolygon":
		var coords [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("decode multipolygon: %w", err)
		}
		polys := make([]Polygon, 0, len(coords))
		for _, raw := range coords {
			if poly, ok := buildPolygon(raw); ok {
				polys = append(polys, poly)
			}
		}
		return polys, nil
	default:
		return nil, nil
	}
}

// rawID accepts ids encoded as JSON strings or numbers.
func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return fmt.Sprintf("%d", i)
		}
		return n.String()
	}
	return strings.Trim(string(raw), `"`)
}

func newShape(id string, polys []Polygon) Shape {
	id = NormalizeNumericID(id)
	code, _ := AlphaForNumeric(id)
	box := newEmptyBox()
	for _, p := range polys {
		box.include(p.BBox)
	}
	return Shape{ID: id, Code: code, Polygons: polys, BBox: box}
}

func buildPolygon(raw [][][]float64) (Polygon, bool) {
	rings := make([]Ring, 0, len(raw))
	box := newEmptyBox()
	for _, segment := range raw {
		pts := make(Ring, 0, len(segment))
		for _, coord := range segment {
			if len(coord) < 2 {
				continue
			}
			p := Point{Lon: coord[0], Lat: coord[1]}
			pts = append(pts, p)
			box.expand(p)
		}
		if len(pts) >= 3 {
			rings = append(rings, pts)
		}
	}
	if len(rings) == 0 || !box.valid() {
		return Polygon{}, false
	}
	return Polygon{Rings: rings, BBox: box}, true
}

// ===== bounding boxes =====

func newEmptyBox() BBox {
	return BBox{
		MinLon: math.Inf(1),
		MinLat: math.Inf(1),
		MaxLon: math.Inf(-1),
		MaxLat: math.Inf(-1),
	}
}

func (b *BBox) expand(p Point) {
	b.MinLon = math.Min(b.MinLon, p.Lon)
	b.MaxLon = math.Max(b.MaxLon, p.Lon)
	b.MinLat = math.Min(b.MinLat, p.Lat)
	b.MaxLat = math.Max(b.MaxLat, p.Lat)
}

func (b *BBox) include(other BBox) {
	if !other.valid() {
		return
	}
	b.MinLon = math.Min(b.MinLon, other.MinLon)
	b.MaxLon = math.Max(b.MaxLon, other.MaxLon)
	b.MinLat = math.Min(b.MinLat, other.MinLat)
	b.MaxLat = math.Max(b.MaxLat, other.MaxLat)
}

func (b BBox) valid() bool {
	return b.MinLon <= b.MaxLon && b.MinLat <= b.MaxLat
}

// Contains reports whether the coordinate lies inside the box.
func (b BBox) Contains(lon, lat float64) bool {
	return lon >= b.MinLon && lon <= b.MaxLon && lat >= b.MinLat && lat <= b.MaxLat
}

func (b BBox) area() float64 {
	return (b.MaxLon - b.MinLon) * (b.MaxLat - b.MinLat)
}

// ===== point in polygon =====

// Contains reports whether the coordinate is inside the outer ring and
// outside every hole.
func (p *Polygon) Contains(lon, lat float64) bool {
	if len(p.Rings) == 0 || !p.BBox.Contains(lon, lat) {
		return false
	}
	if !pointInRing(p.Rings[0], lon, lat) {
		return false
	}
	for _, hole := range p.Rings[1:] {
		if pointInRing(hole, lon, lat) {
			return false
		}
	}
	return true
}

// Contains reports whether any polygon of the shape contains the coordinate.
func (s *Shape) Contains(lon, lat float64) bool {
	if !s.BBox.Contains(lon, lat) {
		return false
	}
	for i := range s.Polygons {
		if s.Polygons[i].Contains(lon, lat) {
			return true
		}
	}
	return false
}

func pointInRing(r Ring, lon, lat float64) bool {
	if len(r) < 3 {
		return false
	}
	inside := false
	j := len(r) - 1
	for i := 0; i < len(r); i++ {
		pi, pj := r[i], r[j]
		if (pi.Lat > lat) != (pj.Lat > lat) {
			crossLon := (pj.Lon-pi.Lon)*(lat-pi.Lat)/(pj.Lat-pi.Lat) + pi.Lon
			if lon < crossLon {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
