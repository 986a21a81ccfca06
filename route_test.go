package routing

import "testing"

func sampleRunResult() *RunResult {
	origin := Pos{Lat: 48, Lon: -5}
	mid := Pos{Lat: 48.2, Lon: -5.3}
	dest := Pos{Lat: 48.4, Lon: -5.6}
	iso0 := []Pp{{Id: 0, Father: -1, Pos: origin, Dist: orthoDist(origin, dest)}}
	iso1 := []Pp{{Id: 0, Father: 0, Pos: mid, Dist: orthoDist(mid, dest), Course: 300, Amure: Port}}
	iso2 := []Pp{{Id: 0, Father: 0, Pos: dest, Dist: 0, Course: 300, Amure: Starboard}}
	return &RunResult{
		State:        StateReached,
		Isochrones:   [][]Pp{iso0, iso1, iso2},
		ReachedIsoc:  2,
		ReachedIndex: 0,
		LastStepDuration: 0.5,
	}
}

func TestBuildRouteReached(t *testing.T) {
	result := sampleRunResult()
	route, err := BuildRoute(result, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(route.Legs) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(route.Legs))
	}
	if !route.Reached {
		t.Fatal("expected route to be marked reached")
	}
	if route.TackCount+route.GybeCount != 1 {
		t.Fatalf("expected one tack/gybe transition, got tacks=%d gybes=%d", route.TackCount, route.GybeCount)
	}
	if route.Legs[1].DurationH != 0.5 {
		t.Fatalf("expected final leg duration to use LastStepDuration, got %f", route.Legs[1].DurationH)
	}
}

func TestBuildRouteEmptyResult(t *testing.T) {
	if _, err := BuildRoute(&RunResult{}, 1.0); err == nil {
		t.Fatal("expected error for empty result")
	}
}

func TestBuildRouteFailedState(t *testing.T) {
	result := &RunResult{State: StateFailed, Isochrones: [][]Pp{{{Id: 0, Father: -1}}}}
	if _, err := BuildRoute(result, 1.0); err == nil {
		t.Fatal("expected error for failed state")
	}
}
