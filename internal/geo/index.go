// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package geo

import "math"

// defaultCellSizeDeg keeps roughly 650 cells over the whole sphere.
const defaultCellSizeDeg = 10.0

// CellKey identifies a grid cell.
type CellKey struct {
	X, Y int
}

// GridIndex buckets shapes by the lon/lat cells their bounding boxes cover.
// A lookup only runs point-in-polygon tests for shapes registered in the one
// cell under the query point instead of scanning every country.
//
// The index is built once and never mutated, so it needs no locking.
type GridIndex struct {
	cellSize float64
	cells    map[CellKey][]int
}

// NewGridIndex registers every shape in the cells its bounding box overlaps.
func NewGridIndex(cellSizeDeg float64, shapes []Shape) *GridIndex {
	if cellSizeDeg <= 0 {
		cellSizeDeg = defaultCellSizeDeg
	}
	g := &GridIndex{
		cellSize: cellSizeDeg,
		cells:    make(map[CellKey][]int),
	}
	for i := range shapes {
		b := shapes[i].BBox
		if !b.valid() {
			continue
		}
		lo := g.cellKey(b.MinLon, b.MinLat)
		hi := g.cellKey(b.MaxLon, b.MaxLat)
		for x := lo.X; x <= hi.X; x++ {
			for y := lo.Y; y <= hi.Y; y++ {
				key := CellKey{X: x, Y: y}
				g.cells[key] = append(g.cells[key], i)
			}
		}
	}
	return g
}

// cellKey returns the cell for a coordinate. Longitude is expected in
// [-180, 180]; the upper edge folds into the last cell.
func (g *GridIndex) cellKey(lon, lat float64) CellKey {
	x := int(math.Floor((lon + 180) / g.cellSize))
	y := int(math.Floor((lat + 90) / g.cellSize))
	maxX := int(math.Ceil(360/g.cellSize)) - 1
	maxY := int(math.Ceil(180/g.cellSize)) - 1
	return CellKey{X: clampInt(x, 0, maxX), Y: clampInt(y, 0, maxY)}
}

// Candidates returns the shapes registered in the cell under the coordinate.
func (g *GridIndex) Candidates(lon, lat float64) []int {
	return g.cells[g.cellKey(normalizeLon(lon), lat)]
}

// Locate returns the shape containing the coordinate, or -1. When coarse
// geometry overlaps, the shape with the smaller bounding box wins.
func (g *GridIndex) Locate(shapes []Shape, lon, lat float64) int {
	lon = normalizeLon(lon)
	best := -1
	bestArea := math.Inf(1)
	for _, i := range g.cells[g.cellKey(lon, lat)] {
		s := &shapes[i]
		if !s.Contains(lon, lat) {
			continue
		}
		if a := s.BBox.area(); a < bestArea {
			best, bestArea = i, a
		}
	}
	return best
}

// CellCount returns the number of non-empty cells.
func (g *GridIndex) CellCount() int {
	return len(g.cells)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
