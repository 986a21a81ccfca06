package routing

import (
	"strings"
	"testing"
)

const testPolarCSV = `0,10,20,30
0,0,0,0,0
45,0,4,6,7
90,0,5,7,8
135,0,3,5,6
180,0,0,0,0
`

func TestLoadPolarAndSpeed(t *testing.T) {
	p, _, err := LoadPolar(strings.NewReader(testPolarCSV))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if s := p.Speed(45, 0); s != 0 {
		t.Fatalf("expected zero speed at zero wind, got %f", s)
	}
	if s := p.Speed(90, 20); !floatsClose(s, 7, 1e-9) {
		t.Fatalf("expected exact cell value 7, got %f", s)
	}
}

func TestPolarSymmetric(t *testing.T) {
	p, _, err := LoadPolar(strings.NewReader(testPolarCSV))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if a, b := p.Speed(45, 20), p.Speed(-45, 20); !floatsClose(a, b, 1e-9) {
		t.Fatalf("expected symmetric lookup, got %f vs %f", a, b)
	}
	if a, b := p.Speed(45, 20), p.Speed(315, 20); !floatsClose(a, b, 1e-9) {
		t.Fatalf("expected 360-twa fold, got %f vs %f", a, b)
	}
}

func TestPolarMonotoneInTws(t *testing.T) {
	p, _, err := LoadPolar(strings.NewReader(testPolarCSV))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	prev := 0.0
	for _, tws := range []float64{0, 10, 20} {
		s := p.Speed(90, tws)
		if s < prev {
			t.Fatalf("expected non-decreasing speed with tws, got %f after %f", s, prev)
		}
		prev = s
	}
}

func TestLoadPolarRejectsTooSmall(t *testing.T) {
	if _, _, err := LoadPolar(strings.NewReader("0,10\n0,0,0\n")); err == nil {
		t.Fatal("expected PolarInvalid for a 1-row table")
	}
}

func TestLoadPolarFlagsNonUnimodalRow(t *testing.T) {
	const dippedCSV = `0,10,20,30
0,0,0,0,0
45,0,4,6,7
90,0,7,3,8
135,0,3,5,6
180,0,0,0,0
`
	_, report, err := LoadPolar(strings.NewReader(dippedCSV))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(report.NonUnimodalRows) != 1 || report.NonUnimodalRows[0] != 90 {
		t.Fatalf("expected the TWA-90 row flagged as non-unimodal, got %v", report.NonUnimodalRows)
	}
}

func TestBestVMG(t *testing.T) {
	p, _, err := LoadPolar(strings.NewReader(testPolarCSV))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	angle, vmg := p.BestVMG(20, true)
	if angle <= 0 || angle >= 180 {
		t.Fatalf("expected a plausible upwind angle, got %f", angle)
	}
	if vmg <= 0 {
		t.Fatalf("expected positive upwind vmg, got %f", vmg)
	}
}
