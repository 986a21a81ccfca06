package routing

import "testing"

func TestIsInPolygonSquare(t *testing.T) {
	square := []Pos{{0, 0}, {0, 10}, {10, 10}, {10, 0}}
	if !isInPolygon(5, 5, square) {
		t.Fatal("expected center of square to be inside")
	}
	if isInPolygon(20, 20, square) {
		t.Fatal("expected far point to be outside")
	}
}

func TestAllwaysSeaMask(t *testing.T) {
	m := NewAllwaysSeaMask()
	if !m.IsSea(45, -60) {
		t.Fatal("allways-sea mask should report every point as sea")
	}
}

func TestForbidZoneOverridesAllwaysSea(t *testing.T) {
	m := NewAllwaysSeaMask()
	m.AddForbidZone(ForbidZone{Vertices: []Pos{{0, 0}, {0, 10}, {10, 10}, {10, 0}}})
	if m.IsSea(5, 5) {
		t.Fatal("expected point inside forbid zone to be non-navigable")
	}
	if !m.IsSea(50, 50) {
		t.Fatal("expected point outside forbid zone to remain navigable")
	}
}

func TestSegmentCrossesForbidCatchesPassThrough(t *testing.T) {
	m := NewAllwaysSeaMask()
	m.AddForbidZone(ForbidZone{Vertices: []Pos{{4, 4}, {4, 6}, {6, 6}, {6, 4}}})
	if !m.SegmentCrossesForbid(Pos{Lat: 0, Lon: 5}, Pos{Lat: 10, Lon: 5}) {
		t.Fatal("expected a segment straddling the forbid zone to be flagged")
	}
	if m.SegmentCrossesForbid(Pos{Lat: 0, Lon: 20}, Pos{Lat: 10, Lon: 20}) {
		t.Fatal("expected a segment nowhere near the forbid zone to pass")
	}
}
