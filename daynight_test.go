package routing

import "testing"

func TestIsDayLightMidLatitudes(t *testing.T) {
	if !isDayLight(0, 45, 0, 12, 6) {
		t.Fatal("expected noon to be daylight at mid latitude")
	}
	if isDayLight(0, 45, 0, 2, 6) {
		t.Fatal("expected 2am to be night at mid latitude")
	}
}

func TestIsDayLightPolarSummer(t *testing.T) {
	if !isDayLight(0, 80, 0, 2, 7) {
		t.Fatal("expected polar summer to be daylight regardless of clock hour")
	}
	if isDayLight(0, 80, 0, 2, 12) {
		t.Fatal("expected polar winter to be night regardless of clock hour")
	}
}

func TestEfficiencyAtSelectsDayOrNight(t *testing.T) {
	p := DefaultParams()
	p.DayEfficiency = 1
	p.NightEfficiency = 0.8
	if e := efficiencyAt(0, 45, 0, 12, 6, p); e != 1 {
		t.Fatalf("expected day efficiency 1, got %f", e)
	}
	if e := efficiencyAt(0, 45, 0, 2, 6, p); e != 0.8 {
		t.Fatalf("expected night efficiency 0.8, got %f", e)
	}
}
