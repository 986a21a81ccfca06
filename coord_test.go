package routing

import "testing"

func TestLatLonToStrFormats(t *testing.T) {
	if s := latToStr(45.5, CoordDM); s != "45°30.00'N" {
		t.Fatalf("latToStr DM = %q, want 45°30.00'N", s)
	}
	if s := latToStr(-45.5, CoordDM); s != "45°30.00'S" {
		t.Fatalf("latToStr DM negative = %q, want 45°30.00'S", s)
	}
	if s := lonToStr(-3.25, CoordDM); s != "003°15.00'W" {
		t.Fatalf("lonToStr DM = %q, want 003°15.00'W", s)
	}
	if s := latToStr(91, CoordDM); s != "lat error" {
		t.Fatalf("expected out-of-range latitude to report an error, got %q", s)
	}
}

func TestDurationToStr(t *testing.T) {
	if s := durationToStr(9.5); s != "09:30" {
		t.Fatalf("durationToStr(9.5) = %q, want 09:30", s)
	}
	if s := durationToStr(36.25); s != "1 Days 12:15" {
		t.Fatalf("durationToStr(36.25) = %q, want 1 Days 12:15", s)
	}
}

func TestGetCoordParsesBareAndDMS(t *testing.T) {
	if v := getCoord("45.5", minLat, maxLat); !floatsClose(v, 45.5, 1e-6) {
		t.Fatalf("getCoord bare = %f, want 45.5", v)
	}
	if v := getCoord("45°30'S", minLat, maxLat); !floatsClose(v, -45.5, 1e-6) {
		t.Fatalf("getCoord DM south = %f, want -45.5", v)
	}
	if v := getCoord("3°15'30\"W", minLon, maxLon); !floatsClose(v, -(3+15.0/60+30.0/3600), 1e-6) {
		t.Fatalf("getCoord DMS west = %f", v)
	}
}

func TestAnalyseCoordBareDecimal(t *testing.T) {
	pos, ok := AnalyseCoord("45.5,-3.25")
	if !ok {
		t.Fatal("expected a decimal pair to parse")
	}
	if !floatsClose(pos.Lat, 45.5, 1e-6) || !floatsClose(pos.Lon, -3.25, 1e-6) {
		t.Fatalf("unexpected position %+v", pos)
	}
}

func TestAnalyseCoordDMS(t *testing.T) {
	pos, ok := AnalyseCoord("45°30'N, 3°15'W")
	if !ok {
		t.Fatal("expected a DMS pair to parse")
	}
	if !floatsClose(pos.Lat, 45.5, 1e-6) {
		t.Fatalf("unexpected lat %f", pos.Lat)
	}
	if !floatsClose(pos.Lon, -3.25, 1e-6) {
		t.Fatalf("unexpected lon %f", pos.Lon)
	}
}

func TestAnalyseCoordRejectsNonNumeric(t *testing.T) {
	if _, ok := AnalyseCoord("not a coordinate"); ok {
		t.Fatal("expected a non-numeric string to fail to parse")
	}
}
