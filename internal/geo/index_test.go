// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package geo

import "testing"

func TestGridIndex_Candidates(t *testing.T) {
	t.Parallel()

	ds, err := Load([]byte(testSquaresGeoJSON))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	g := NewGridIndex(10, ds.Shapes())

	if got := g.Candidates(5, 45); len(got) == 0 {
		t.Error("Candidates(5, 45) should include the first square")
	}
	if got := g.Candidates(-120, -60); len(got) != 0 {
		t.Errorf("Candidates(-120, -60) = %v, want none", got)
	}
	if g.CellCount() == 0 {
		t.Error("CellCount() = 0")
	}
}

func TestGridIndex_PrefersSmallerShape(t *testing.T) {
	t.Parallel()

	const nested = `{"type":"FeatureCollection","features":[
{"type":"Feature","id":"710","geometry":{"type":"Polygon","coordinates":[[[0,0],[30,0],[30,30],[0,30],[0,0]]]}},
{"type":"Feature","id":"426","geometry":{"type":"Polygon","coordinates":[[[10,10],[12,10],[12,12],[10,12],[10,10]]]}}
]}`
	ds, err := Load([]byte(nested))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := ds.CodeAt(ds.Locate(11, 11)); got != "LS" {
		t.Errorf("Locate(11, 11) = %q, want LS", got)
	}
	if got := ds.CodeAt(ds.Locate(20, 20)); got != "ZA" {
		t.Errorf("Locate(20, 20) = %q, want ZA", got)
	}
}

func TestGridIndex_EdgeCoordinates(t *testing.T) {
	t.Parallel()

	g := NewGridIndex(0, nil)
	for _, p := range [][2]float64{{180, 90}, {-180, -90}, {179.999, 89.999}} {
		k := g.cellKey(p[0], p[1])
		if k.X < 0 || k.X > 35 || k.Y < 0 || k.Y > 17 {
			t.Errorf("cellKey(%v, %v) = %+v, out of grid", p[0], p[1], k)
		}
	}
}
