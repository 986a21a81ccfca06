package routing

import "fmt"

// Leg is one sailed segment of a reconstructed route.
type Leg struct {
	From, To   Pos
	Course     float64
	Tws, Twd   float64
	Gust, Wave float64
	Sog        float64 // speed over ground, knots
	Amure      Amure
	Sail       int
	Motor      bool
	DistOrtho  float64
	DistLoxo   float64
	DurationH  float64
}

// SailRoute is a fully reconstructed route from one engine run.
type SailRoute struct {
	Legs               []Leg
	TotalDist          float64
	TotalDurationH     float64
	Reached            bool
	CompetitorIndex    int
	MotorHours         float64
	MotorDist          float64
	PortTackDist       float64
	StarboardTackDist  float64
	TackCount          int
	GybeCount          int
	SailChangeCount    int
	AvgTws, MaxTws     float64
	AvgGust, MaxGust   float64
	AvgWave, MaxWave   float64
	AvgSog, MaxSog     float64
}

// BuildRoute walks the father pointers of a RunResult's isochrones back to
// the origin and assembles the sailed legs in chronological order.
func BuildRoute(result *RunResult, tStep float64) (*SailRoute, error) {
	if result == nil || len(result.Isochrones) == 0 {
		return nil, &RouteError{Kind: NoSolution, Msg: "empty run result"}
	}

	isoc, idx := len(result.Isochrones)-1, 0
	switch result.State {
	case StateReached:
		idx = result.ReachedIndex
	case StateExhausted, StateStopped:
		isoc, idx = result.ClosestIsoc, result.ClosestIndex
	default:
		return nil, &RouteError{Kind: NoSolution, Msg: fmt.Sprintf("no route for run state %s", result.State)}
	}

	var chain []Pp
	for isoc >= 0 {
		node := result.Isochrones[isoc][idx]
		chain = append(chain, node)
		if node.Father < 0 {
			break
		}
		idx = node.Father
		isoc--
	}
	// chain is destination-to-origin; reverse it.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	route := &SailRoute{Reached: result.State == StateReached}
	var sumTws, sumGust, sumWave float64
	for i := 1; i < len(chain); i++ {
		prev, cur := chain[i-1], chain[i]
		distLoxo := loxoDist(prev.Pos, cur.Pos)
		leg := Leg{
			From: prev.Pos, To: cur.Pos,
			Course: cur.Course, Tws: cur.Tws, Twd: cur.Twd,
			Gust: cur.Gust, Wave: cur.Wave,
			Amure: cur.Amure, Sail: cur.Sail, Motor: cur.Motor,
			DistOrtho: orthoDist(prev.Pos, cur.Pos), DistLoxo: distLoxo,
			DurationH: tStep,
		}
		if leg.DurationH > 0 {
			leg.Sog = distLoxo / leg.DurationH
		}
		route.Legs = append(route.Legs, leg)
		route.TotalDist += leg.DistLoxo
		route.TotalDurationH += leg.DurationH
		if leg.Motor {
			route.MotorHours += leg.DurationH
			route.MotorDist += leg.DistLoxo
		} else if leg.Amure == Port {
			route.PortTackDist += leg.DistLoxo
		} else {
			route.StarboardTackDist += leg.DistLoxo
		}
		sumTws += leg.Tws
		sumGust += leg.Gust
		sumWave += leg.Wave
		if leg.Tws > route.MaxTws {
			route.MaxTws = leg.Tws
		}
		if leg.Gust > route.MaxGust {
			route.MaxGust = leg.Gust
		}
		if leg.Wave > route.MaxWave {
			route.MaxWave = leg.Wave
		}
		if i > 1 {
			prevLeg := route.Legs[len(route.Legs)-2]
			if prevLeg.Amure != leg.Amure {
				if prevLeg.Course < 90 || prevLeg.Course > 270 {
					route.TackCount++
				} else {
					route.GybeCount++
				}
			}
			if prevLeg.Sail != leg.Sail {
				route.SailChangeCount++
			}
		}
	}
	if result.State == StateReached && result.LastStepDuration > 0 && len(route.Legs) > 0 {
		last := len(route.Legs) - 1
		route.TotalDurationH += result.LastStepDuration - route.Legs[last].DurationH
		route.Legs[last].DurationH = result.LastStepDuration
		if route.Legs[last].DurationH > 0 {
			route.Legs[last].Sog = route.Legs[last].DistLoxo / route.Legs[last].DurationH
		}
	}
	if n := len(route.Legs); n > 0 {
		var sumSog float64
		for _, leg := range route.Legs {
			sumSog += leg.Sog
			if leg.Sog > route.MaxSog {
				route.MaxSog = leg.Sog
			}
		}
		route.AvgTws = sumTws / float64(n)
		route.AvgGust = sumGust / float64(n)
		route.AvgWave = sumWave / float64(n)
		route.AvgSog = sumSog / float64(n)
	}
	return route, nil
}

// String renders a compact human-readable summary of the route.
func (r *SailRoute) String() string {
	if len(r.Legs) == 0 {
		return fmt.Sprintf("route: 0 legs, %.1f NM, %s", r.TotalDist, durationToStr(r.TotalDurationH))
	}
	from := r.Legs[0].From
	to := r.Legs[len(r.Legs)-1].To
	return fmt.Sprintf("route: %d legs, %.1f NM, %s (motor %.1f h, %d tacks, %d gybes) from %s %s to %s %s",
		len(r.Legs), r.TotalDist, durationToStr(r.TotalDurationH), r.MotorHours, r.TackCount, r.GybeCount,
		latToStr(from.Lat, CoordDM), lonToStr(from.Lon, CoordDM),
		latToStr(to.Lat, CoordDM), lonToStr(to.Lon, CoordDM))
}
