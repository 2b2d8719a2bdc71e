// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package geo

import (
	"fmt"
	"sort"

	"github.com/goccy/go-json"
)

// preferredTopologyObject is the object name used by world-atlas files.
const preferredTopologyObject = "countries"

type topology struct {
	Type      string                    `json:"type"`
	Transform *topoTransform            `json:"transform"`
	Arcs      [][][]float64             `json:"arcs"`
	Objects   map[string]topoCollection `json:"objects"`
}

type topoTransform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

type topoCollection struct {
	Type       string         `json:"type"`
	Geometries []topoGeometry `json:"geometries"`
}

type topoGeometry struct {
	Type       string            `json:"type"`
	ID         json.RawMessage   `json:"id"`
	Properties featureProperties `json:"properties"`
	Arcs       json.RawMessage   `json:"arcs"`
}

func decodeTopoJSON(data []byte) ([]Shape, error) {
	var topo topology
	if err := json.Unmarshal(data, &topo); err != nil {
		return nil, fmt.Errorf("%w: decode topology: %v", ErrInvalidDataset, err)
	}

	obj, ok := topo.Objects[preferredTopologyObject]
	if !ok {
		names := make([]string, 0, len(topo.Objects))
		for name := range topo.Objects {
			names = append(names, name)
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: topology has no objects", ErrInvalidDataset)
		}
		sort.Strings(names)
		obj = topo.Objects[names[0]]
	}

	arcs := topo.decodeArcs()
	shapes := make([]Shape, 0, len(obj.Geometries))
	for i, g := range obj.Geometries {
		polys, err := g.polygons(arcs)
		if err != nil {
			return nil, fmt.Errorf("%w: geometry %d: %v", ErrInvalidDataset, i, err)
		}
		if len(polys) == 0 {
			continue
		}
		id := rawID(g.ID)
		if id == "" {
			id = rawID(g.Properties.ID)
		}
		shapes = append(shapes, newShape(id, polys))
	}
	return shapes, nil
}

// decodeArcs converts quantized, delta-encoded arcs into absolute coordinates.
func (t *topology) decodeArcs() [][]Point {
	out := make([][]Point, len(t.Arcs))
	for i, arc := range t.Arcs {
		pts := make([]Point, 0, len(arc))
		var x, y float64
		for _, pos := range arc {
			if len(pos) < 2 {
				continue
			}
			if t.Transform != nil {
				x += pos[0]
				y += pos[1]
				pts = append(pts, Point{
					Lon: x*t.Transform.Scale[0] + t.Transform.Translate[0],
					Lat: y*t.Transform.Scale[1] + t.Transform.Translate[1],
				})
				continue
			}
			pts = append(pts, Point{Lon: pos[0], Lat: pos[1]})
		}
		out[i] = pts
	}
	return out
}

func (g *topoGeometry) polygons(arcs [][]Point) ([]Polygon, error) {
	switch g.Type {
	case "Polygon":
		var rings [][]int
		if err := json.Unmarshal(g.Arcs, &rings); err != nil {
			return nil, fmt.Errorf("decode polygon arcs: %w", err)
		}
		poly, ok, err := stitchPolygon(rings, arcs)
		if err != nil || !ok {
			return nil, err
		}
		return []Polygon{poly}, nil
	case "MultiPolygon":
		var multi [][][]int
		if err := json.Unmarshal(g.Arcs, &multi); err != nil {
			return nil, fmt.Errorf("decode multipolygon arcs: %w", err)
		}
		polys := make([]Polygon, 0, len(multi))
		for _, rings := range multi {
			poly, ok, err := stitchPolygon(rings, arcs)
			if err != nil {
				return nil, err
			}
			if ok {
				polys = append(polys, poly)
			}
		}
		return polys, nil
	default:
		return nil, nil
	}
}

func stitchPolygon(rings [][]int, arcs [][]Point) (Polygon, bool, error) {
	raw := make([][][]float64, 0, len(rings))
	for _, ringArcs := range rings {
		ring, err := stitchRing(ringArcs, arcs)
		if err != nil {
			return Polygon{}, false, err
		}
		coords := make([][]float64, len(ring))
		for i, p := range ring {
			coords[i] = []float64{p.Lon, p.Lat}
		}
		raw = append(raw, coords)
	}
	poly, ok := buildPolygon(raw)
	return poly, ok, nil
}

// stitchRing joins arcs into one ring. A negative index ~i walks arc i in
// reverse. The first point of every arc after the first duplicates the last
// point of its predecessor and is dropped.
func stitchRing(indexes []int, arcs [][]Point) (Ring, error) {
	var ring Ring
	for n, idx := range indexes {
		reversed := idx < 0
		if reversed {
			idx = ^idx
		}
		if idx >= len(arcs) {
			return nil, fmt.Errorf("arc index %d out of range", idx)
		}
		arc := arcs[idx]
		pts := make([]Point, len(arc))
		copy(pts, arc)
		if reversed {
			for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
				pts[i], pts[j] = pts[j], pts[i]
			}
		}
		if n > 0 && len(pts) > 0 {
			pts = pts[1:]
		}
		ring = append(ring, pts...)
	}
	return ring, nil
}
