package routing

import "fmt"

// LegResult is the outcome of routing one competitor over one waypoint leg.
type LegResult struct {
	FromIndex, ToIndex int
	Run                *RunResult
	Route              *SailRoute
}

// DriveWaypoints routes sequentially over every leg of a waypoint list,
// reusing the same engine (and therefore the same loaded grib) across legs,
// feeding each leg's arrival time as the next leg's departure time.
func DriveWaypoints(e *Engine, wp *WaypointList, startTime float64) ([]LegResult, error) {
	legs := wp.Legs()
	if len(legs) == 0 {
		return nil, &RouteError{Kind: NoSolution, Msg: "waypoint list has no legs"}
	}
	results := make([]LegResult, 0, len(legs))
	t := startTime
	for i, leg := range legs {
		run, err := e.Run(leg[0], leg[1], t, i+1)
		if err != nil {
			return results, err
		}
		route, err := BuildRoute(run, e.Params.TStep)
		if err != nil {
			return results, err
		}
		results = append(results, LegResult{FromIndex: i, ToIndex: i + 1, Run: run, Route: route})
		if run.State != StateReached {
			return results, &RouteError{Kind: Unreached, Msg: fmt.Sprintf("leg %d did not reach its waypoint", i)}
		}
		t += route.TotalDurationH
	}
	return results, nil
}

// DriveCompetitors runs one engine expansion per competitor's current
// position toward a shared destination, advancing each competitor's state
// from the resulting route and returning the per-competitor results.
func DriveCompetitors(e *Engine, competitors *CompetitorList, destination Pos, startTime float64) ([]*LegResult, error) {
	runs := make([]*LegResult, len(competitors.Competitors))
	for i, c := range competitors.Competitors {
		if competitors.RunIndex < 0 {
			break
		}
		if c.DestinationReached {
			competitors.Advance()
			continue
		}
		run, err := e.Run(c.Origin, destination, startTime, 0)
		if err != nil {
			return runs, err
		}
		route, err := BuildRoute(run, e.Params.TStep)
		if err != nil {
			runs[i] = &LegResult{FromIndex: i, Run: run}
			competitors.Advance()
			continue
		}
		route.CompetitorIndex = i
		runs[i] = &LegResult{FromIndex: i, Run: run, Route: route}
		c.DistToDestination = route.TotalDist
		c.Duration += route.TotalDurationH
		if run.State == StateReached {
			c.DestinationReached = true
			c.ETA = startTime + route.TotalDurationH
		} else if len(route.Legs) > 0 {
			c.Origin = route.Legs[len(route.Legs)-1].To
		}
		if e.stopRequested() {
			return runs, nil
		}
		competitors.Advance()
	}
	return runs, nil
}

// BestDeparture sweeps a grid of candidate departure times and returns the
// index (into candidates) and run whose arrival time (for a run that
// actually reaches destination) is earliest; ties favour the earlier
// candidate.
func BestDeparture(e *Engine, origin, destination Pos, candidates []float64) (bestIdx int, bestRun *RunResult, err error) {
	bestIdx = -1
	var bestArrival float64
	for i, t0 := range candidates {
		if e.stopRequested() {
			break
		}
		run, runErr := e.Run(origin, destination, t0, 0)
		if runErr != nil {
			continue
		}
		if run.State != StateReached {
			continue
		}
		route, routeErr := BuildRoute(run, e.Params.TStep)
		if routeErr != nil {
			continue
		}
		arrival := t0 + route.TotalDurationH
		if bestIdx == -1 || arrival < bestArrival {
			bestIdx, bestArrival, bestRun = i, arrival, run
		}
	}
	if bestIdx == -1 {
		return -1, nil, &RouteError{Kind: NoSolution, Msg: "no candidate departure reached destination"}
	}
	return bestIdx, bestRun, nil
}
