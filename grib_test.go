package routing

import "testing"

func TestZoneInZoneAntemeridian(t *testing.T) {
	z := Zone{LatMin: -10, LatMax: 10, LonLeft: 170, LonRight: -170, AnteMeridian: true}
	if !z.inZone(0, 179) {
		t.Fatal("expected 179E to be in an antemeridian zone spanning 170..-170")
	}
	if !z.inZone(0, -179) {
		t.Fatal("expected 179W to be in an antemeridian zone spanning 170..-170")
	}
	if z.inZone(0, 0) {
		t.Fatal("expected 0E to be outside an antemeridian zone spanning 170..-170")
	}
}

func TestConstWindSample(t *testing.T) {
	g := &Grib{Zone: Zone{LatMin: -90, LatMax: 90, LonLeft: -180, LonRight: 180, LatStep: 1, LonStep: 1, NbLat: 181, NbLon: 361, Timestamps: []float64{0}}}
	g.cells = make([]FlowCell, 181*361)
	fc, err := g.Sample(45, -10, 0, &ConstFlow{Speed: 15, Dir: 270})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	twd := fTwd(fc.U, fc.V)
	if !floatsClose(twd, 270, 1e-6) {
		t.Fatalf("expected constant wind twd 270, got %f", twd)
	}
	tws := fTws(fc.U, fc.V)
	if !floatsClose(tws, 15, 1e-6) {
		t.Fatalf("expected constant wind tws 15, got %f", tws)
	}
}

func TestStepForDerivesFromPointCount(t *testing.T) {
	if s := stepFor(10, 41); !floatsClose(s, 0.25, 1e-9) {
		t.Fatalf("expected a 0.25-degree step for a 41-point 10-degree span, got %f", s)
	}
	if s := stepFor(5, 1); s != 0 {
		t.Fatalf("expected zero step for a single point, got %f", s)
	}
}

func TestOnGridToleratesRounding(t *testing.T) {
	if !onGrid(0.7500001, 0.25) {
		t.Fatal("expected a near-exact multiple of the step to be on-grid")
	}
	if onGrid(0.1, 0.25) {
		t.Fatal("expected an off-grid offset to be reported as such")
	}
}

func TestSampleOutOfBounds(t *testing.T) {
	g := &Grib{Zone: Zone{LatMin: 0, LatMax: 10, LonLeft: 0, LonRight: 10, LatStep: 1, LonStep: 1, NbLat: 11, NbLon: 11, Timestamps: []float64{0}}}
	g.cells = make([]FlowCell, 11*11)
	if _, err := g.Sample(50, 50, 0, nil); err == nil {
		t.Fatal("expected GridOutOfBounds error")
	} else if re, ok := err.(*RouteError); !ok || re.Kind != GridOutOfBounds {
		t.Fatalf("expected GridOutOfBounds, got %v", err)
	}
}
