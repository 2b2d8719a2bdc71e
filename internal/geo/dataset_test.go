// Globeview - Interactive Globe Visualization for Visitor Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/globeview

package geo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const testSquaresGeoJSON = `{"type":"FeatureCollection","features":[
{"type":"Feature","id":"276","properties":{},"geometry":{"type":"Polygon","coordinates":[[[10,40],[10,50],[0,50],[0,40],[10,40]]]}},
{"type":"Feature","id":250,"properties":{},"geometry":{"type":"Polygon","coordinates":[[[10,40],[20,40],[20,50],[10,50],[10,40]]]}}
]}`

// Same two squares, sharing the x=10 edge as arc 0.
const testSquaresTopoJSON = `{"type":"Topology",
"transform":{"scale":[1,1],"translate":[0,0]},
"arcs":[
 [[10,40],[0,10]],
 [[10,50],[-10,0],[0,-10],[10,0]],
 [[10,40],[10,0],[0,10],[-10,0]]
],
"objects":{"countries":{"type":"GeometryCollection","geometries":[
 {"type":"Polygon","id":"276","arcs":[[0,1]]},
 {"type":"Polygon","id":250,"arcs":[[2,-1]]}
]}}}`

func TestDefault_EmbeddedDataset(t *testing.T) {
	t.Parallel()

	ds, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if ds.Len() < 170 {
		t.Errorf("Len() = %d, want at least 170 shapes", ds.Len())
	}

	again, _ := Default()
	if again != ds {
		t.Error("Default() should return the same dataset on every call")
	}
}

func TestDefault_CountryCoverage(t *testing.T) {
	t.Parallel()

	ds, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	mapped := 0
	for _, s := range ds.Shapes() {
		if s.Code != "" {
			mapped++
		}
	}
	if mapped < 170 {
		t.Errorf("%d shapes carry a country code, want at least 170", mapped)
	}

	small := []struct {
		code     string
		lon, lat float64
	}{
		{"CH", 8.5, 47.4},
		{"AT", 14.5, 47.5},
		{"BE", 4.5, 50.8},
		{"NL", 5.5, 52.3},
		{"KR", 127.8, 36.5},
		{"AE", 54.5, 24},
		{"NZ", 172.5, -43.5},
		{"CL", -71, -35},
		{"QA", 51.2, 25.3},
	}
	for _, c := range small {
		if _, ok := ds.IndexOf(c.code); !ok {
			t.Errorf("IndexOf(%s) not found", c.code)
			continue
		}
		if got := ds.CodeAt(ds.Locate(c.lon, c.lat)); got != c.code {
			t.Errorf("Locate(%v, %v) = %q, want %q", c.lon, c.lat, got, c.code)
		}
	}
}

func TestDataset_Locate(t *testing.T) {
	t.Parallel()

	ds, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	tests := []struct {
		name     string
		lon, lat float64
		want     string
	}{
		{"united states", -100, 40, "US"},
		{"alaska", -150, 65, "US"},
		{"germany", 10, 51, "DE"},
		{"france", 2, 47, "FR"},
		{"australia", 135, -25, "AU"},
		{"japan", 139.7, 36, "JP"},
		{"brazil", -60, -10, "BR"},
		{"lesotho inside south africa hole", 28.2, -29.7, "LS"},
		{"south africa", 24, -30, "ZA"},
		{"longitude wraps", 10 + 360, 51, "DE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := ds.Locate(tt.lon, tt.lat)
			if i < 0 {
				t.Fatalf("Locate(%v, %v) found nothing, want %s", tt.lon, tt.lat, tt.want)
			}
			if got := ds.CodeAt(i); got != tt.want {
				t.Errorf("Locate(%v, %v) code = %q, want %q", tt.lon, tt.lat, got, tt.want)
			}
		})
	}
}

func TestDataset_LocateOcean(t *testing.T) {
	t.Parallel()

	ds, _ := Default()
	if i := ds.Locate(-40, 30); i != -1 {
		t.Errorf("Locate(mid Atlantic) = %d (%s), want -1", i, ds.CodeAt(i))
	}
}

func TestDataset_UnmappedShapeHasNoCode(t *testing.T) {
	t.Parallel()

	ds, _ := Default()
	i := ds.Locate(21, 42.5)
	if i < 0 {
		t.Fatal("expected the disputed shape to be located")
	}
	s := ds.Shape(i)
	if s.ID != "-99" {
		t.Errorf("shape ID = %q, want -99", s.ID)
	}
	if s.Code != "" {
		t.Errorf("shape Code = %q, want empty for an unmapped id", s.Code)
	}
}

func TestDataset_IndexOf(t *testing.T) {
	t.Parallel()

	ds, _ := Default()
	i, ok := ds.IndexOf("DE")
	if !ok {
		t.Fatal("IndexOf(DE) not found")
	}
	if ds.Shape(i).ID != "276" {
		t.Errorf("DE shape ID = %q, want 276", ds.Shape(i).ID)
	}
	if _, ok := ds.IndexOf("ZZ"); ok {
		t.Error("IndexOf(ZZ) should not be found")
	}
}

func TestLoad_TopoJSONMatchesGeoJSON(t *testing.T) {
	t.Parallel()

	geo, err := Load([]byte(testSquaresGeoJSON))
	if err != nil {
		t.Fatalf("Load(geojson) error = %v", err)
	}
	topo, err := Load([]byte(testSquaresTopoJSON))
	if err != nil {
		t.Fatalf("Load(topojson) error = %v", err)
	}

	if geo.Len() != 2 || topo.Len() != 2 {
		t.Fatalf("Len() geojson=%d topojson=%d, want 2 and 2", geo.Len(), topo.Len())
	}

	points := []struct {
		lon, lat float64
		want     string
	}{
		{5, 45, "DE"},
		{15, 45, "FR"},
		{25, 45, ""},
	}
	for _, p := range points {
		for name, ds := range map[string]*Dataset{"geojson": geo, "topojson": topo} {
			got := ds.CodeAt(ds.Locate(p.lon, p.lat))
			if got != p.want {
				t.Errorf("%s Locate(%v, %v) = %q, want %q", name, p.lon, p.lat, got, p.want)
			}
		}
	}

	if topo.Shape(1).ID != "250" {
		t.Errorf("numeric id should normalize to \"250\", got %q", topo.Shape(1).ID)
	}
}

func TestLoad_StitchesReversedArcs(t *testing.T) {
	t.Parallel()

	ds, err := Load([]byte(testSquaresTopoJSON))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	ring := ds.Shape(1).Polygons[0].Rings[0]
	if len(ring) != 5 {
		t.Fatalf("ring has %d points, want 5", len(ring))
	}
	first, last := ring[0], ring[len(ring)-1]
	if first != last {
		t.Errorf("ring not closed: first=%v last=%v", first, last)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"not json", "{"},
		{"unknown type", `{"type":"GeometryCollection"}`},
		{"no polygons", `{"type":"FeatureCollection","features":[{"type":"Feature","id":"1","geometry":{"type":"Point","coordinates":[0,0]}}]}`},
		{"topology without objects", `{"type":"Topology","arcs":[],"objects":{}}`},
		{"arc out of range", `{"type":"Topology","arcs":[],"objects":{"x":{"type":"GeometryCollection","geometries":[{"type":"Polygon","id":"1","arcs":[[3]]}]}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data))
			if !errors.Is(err, ErrInvalidDataset) {
				t.Errorf("Load() error = %v, want ErrInvalidDataset", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "countries.json")
	if err := os.WriteFile(path, []byte(testSquaresTopoJSON), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	ds, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if ds.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ds.Len())
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadFile(missing) should fail")
	}
}
