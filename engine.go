package routing

import (
	"os"
	"sort"
	"sync/atomic"

	kitlog "github.com/go-kit/kit/log"
)

const (
	maxSizeIsoc = 2000
	maxNIsoc    = 2000
)

// RunState is the lifecycle of one routing run.
type RunState uint8

const (
	// StateIdle is the zero value, before Run has been called.
	StateIdle RunState = iota
	// StateRunning marks an in-progress expansion.
	StateRunning
	// StateReached marks a run that reached its destination.
	StateReached
	// StateExhausted marks a run that ran out of grib timestamps or
	// isochrones without reaching the destination.
	StateExhausted
	// StateFailed marks a run whose very first expansion found nothing.
	StateFailed
	// StateStopped marks an externally cancelled run.
	StateStopped
)

func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateReached:
		return "reached"
	case StateExhausted:
		return "exhausted"
	case StateFailed:
		return "failed"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Pp is one node of an isochrone.
type Pp struct {
	Id        int
	Father    int // index into the previous isochrone, -1 at the origin
	Amure     Amure
	Sail      int
	Motor     bool
	Sector    int
	ToWpIndex int
	Pos       Pos
	Dist      float64 // orthodromic distance to the current target
	Vmc       float64
	Tws, Twd  float64
	Gust      float64
	Wave      float64
	Course    float64
}

// IsoDesc carries the per-isochrone metadata the route builder consults.
type IsoDesc struct {
	ClosestIndex int
	BestVmcIndex int
	Size         int
	FocalLat     float64
	FocalLon     float64
	ToWpIndex    int
}

// RunResult is the full output of one engine run.
type RunResult struct {
	State            RunState
	Isochrones       [][]Pp
	IsoDescs         []IsoDesc
	ReachedIsoc      int
	ReachedIndex     int
	ClosestIsoc      int
	ClosestIndex     int
	LastStepDuration float64
}

// Engine expands isochrones from an origin toward a destination, consulting
// a wind field, an optional current field, a boat polar, and an optional
// land/forbid mask.
type Engine struct {
	Wind         *Grib
	Current      *Grib
	Mask         *LandMask
	Boat         *Boat
	Params       Params
	RefHourOfDay int
	RefMonth     int

	stop   atomic.Bool
	logger kitlog.Logger
}

// NewEngine returns an engine with an initialised logger.
func NewEngine(wind, current *Grib, mask *LandMask, boat *Boat, p Params) *Engine {
	if mask == nil {
		mask = NewAllwaysSeaMask()
	}
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	return &Engine{Wind: wind, Current: current, Mask: mask, Boat: boat, Params: p, logger: klog}
}

// RequestStop asks a running (or future) Run call to return StateStopped as
// soon as it next polls, retaining whatever isochrones were built so far.
func (e *Engine) RequestStop() {
	e.stop.Store(true)
}

// stopRequested reports whether RequestStop has been called, letting
// orchestration-level loops (multi-competitor, best-departure sweep) bail
// out between runs instead of only between isochrones.
func (e *Engine) stopRequested() bool {
	return e.stop.Load()
}

// Run expands isochrones from origin toward destination, starting at
// startTime hours since the wind grib's reference, targeting waypoint index
// toWpIndex (purely informational, recorded on emitted nodes).
func (e *Engine) Run(origin, destination Pos, startTime float64, toWpIndex int) (*RunResult, error) {
	result := &RunResult{State: StateRunning}

	origin0 := Pp{Id: 0, Father: -1, Pos: origin, Dist: orthoDist(origin, destination), ToWpIndex: toWpIndex}
	result.Isochrones = [][]Pp{{origin0}}
	result.IsoDescs = []IsoDesc{{ClosestIndex: 0, BestVmcIndex: 0, Size: 1, FocalLat: origin.Lat, FocalLon: origin.Lon, ToWpIndex: toWpIndex}}

	lastTimestamp := 0.0
	if len(e.Wind.Zone.Timestamps) > 0 {
		lastTimestamp = e.Wind.Zone.Timestamps[len(e.Wind.Zone.Timestamps)-1]
	}

	for k := 0; ; k++ {
		if e.stop.Load() {
			result.State = StateStopped
			e.recordClosest(result)
			return result, nil
		}
		if len(result.Isochrones) > maxNIsoc {
			result.State = StateExhausted
			e.recordClosest(result)
			return result, nil
		}
		t := startTime + float64(k)*e.Params.TStep
		if t+e.Params.TStep > lastTimestamp && lastTimestamp > 0 {
			result.State = StateExhausted
			e.recordClosest(result)
			return result, nil
		}

		candidates, reached, lastStepDuration, err := e.expand(result.Isochrones[k], destination, t)
		if err != nil {
			return result, err
		}
		if reached != nil {
			result.State = StateReached
			result.ReachedIsoc = k + 2
			result.ReachedIndex = 0
			result.LastStepDuration = lastStepDuration
			result.Isochrones = append(result.Isochrones, []Pp{*reached})
			result.IsoDescs = append(result.IsoDescs, IsoDesc{ClosestIndex: 0, BestVmcIndex: 0, Size: 1, ToWpIndex: toWpIndex})
			// The final node sits on the destination itself, one
			// LastStepDuration after the reaching candidate.
			arrival := *reached
			arrival.Id, arrival.Father, arrival.Pos, arrival.Dist = 0, 0, destination, 0
			result.Isochrones = append(result.Isochrones, []Pp{arrival})
			result.IsoDescs = append(result.IsoDescs, IsoDesc{ClosestIndex: 0, BestVmcIndex: 0, Size: 1, ToWpIndex: toWpIndex})
			e.logger.Log("level", "info", "event", "reached", "isoc", k+2, "duration", result.LastStepDuration)
			return result, nil
		}
		if len(candidates) == 0 {
			if k == 0 {
				result.State = StateFailed
				return result, &RouteError{Kind: NoSolution, Msg: "no reachable candidates from origin"}
			}
			result.State = StateExhausted
			e.recordClosest(result)
			return result, nil
		}

		pruned := e.prune(candidates, destination)
		if len(pruned) > maxSizeIsoc {
			return result, &RouteError{Kind: CapacityExceeded, Msg: "isochrone exceeded maximum size"}
		}
		result.Isochrones = append(result.Isochrones, pruned)
		result.IsoDescs = append(result.IsoDescs, e.describe(pruned, toWpIndex))
		e.logger.Log("level", "debug", "event", "isochrone", "index", k+1, "size", len(pruned))
	}
}

func (e *Engine) describe(iso []Pp, toWpIndex int) IsoDesc {
	desc := IsoDesc{Size: len(iso), ToWpIndex: toWpIndex}
	bestDist := iso[0].Dist
	bestVmc := iso[0].Vmc
	var sumLat, sumLon float64
	for i, p := range iso {
		if p.Dist < bestDist {
			bestDist = p.Dist
			desc.ClosestIndex = i
		}
		if p.Vmc > bestVmc {
			bestVmc = p.Vmc
			desc.BestVmcIndex = i
		}
		sumLat += p.Pos.Lat
		sumLon += p.Pos.Lon
	}
	desc.FocalLat = sumLat / float64(len(iso))
	desc.FocalLon = sumLon / float64(len(iso))
	return desc
}

func (e *Engine) recordClosest(result *RunResult) {
	bestDist := result.Isochrones[0][0].Dist
	result.ClosestIsoc, result.ClosestIndex = 0, 0
	for k, iso := range result.Isochrones {
		for i, p := range iso {
			if p.Dist < bestDist {
				bestDist = p.Dist
				result.ClosestIsoc, result.ClosestIndex = k, i
			}
		}
	}
}

// expand generates every successor candidate from the given isochrone. If
// any candidate reaches destination within one time step, it is returned
// alone (with its own father pointer already set) and candidates/err are nil.
func (e *Engine) expand(iso []Pp, destination Pos, t float64) (candidates []Pp, reached *Pp, lastStepDuration float64, err error) {
	nextID := 0
	for parentIdx, parent := range iso {
		fc, sampleErr := e.Wind.Sample(parent.Pos.Lat, parent.Pos.Lon, t, e.constWindOverride())
		if sampleErr != nil {
			continue // parent off-grid; no successors from it
		}
		twd := fTwd(fc.U, fc.V)
		tws := fTws(fc.U, fc.V)
		if tws > e.Params.MaxWind {
			continue
		}
		eff := efficiencyAt(t, parent.Pos.Lat, parent.Pos.Lon, e.RefHourOfDay, e.RefMonth, e.Params)

		seen := map[int]bool{}
		for off := -e.Params.RangeCog; off <= e.Params.RangeCog; off += e.Params.CogStep {
			course := mod360(twd + off)
			key := int(course * 100)
			if seen[key] {
				continue
			}
			seen[key] = true

			wave := e.waveAt(fc)
			twa := fTwa(course, twd)
			speed, sail, motor := e.Boat.speedAt(twa, tws, wave, eff, e.Params)
			if speed <= 0 {
				continue
			}
			amure := Starboard
			if mod360(twd-course) < 180 {
				amure = Port
			}
			penalty := tackPenalty(parent.Amure, amure, parent.Twa(), twa, parent.Sail, sail, e.Params)
			effDist := speed * (e.Params.TStep - penalty)
			if effDist <= 0 {
				continue
			}

			newPos := destPoint(parent.Pos, course, effDist)
			constCur := e.constCurrentOverride()
			if e.Current != nil || constCur != nil {
				if cc, cerr := e.Current.Sample(parent.Pos.Lat, parent.Pos.Lon, t, constCur); cerr == nil {
					curDir := fTwd(cc.U, cc.V)
					curSpeed := fTws(cc.U, cc.V)
					// curDir is the from-direction; the boat drifts the opposite way.
					newPos = destPoint(newPos, mod360(curDir+180), curSpeed*e.Params.TStep)
				}
			}
			if !e.Mask.IsSea(newPos.Lat, newPos.Lon) || e.Mask.SegmentCrossesForbid(parent.Pos, newPos) {
				continue
			}

			dist := orthoDist(newPos, destination)
			vmc := (parent.Dist - dist) / e.Params.TStep

			cand := Pp{
				Id: nextID, Father: parentIdx, Amure: amure, Sail: sail, Motor: motor,
				ToWpIndex: parent.ToWpIndex, Pos: newPos, Dist: dist, Vmc: vmc,
				Tws: tws, Twd: twd, Gust: fc.Gust, Wave: wave, Course: course,
			}
			nextID++

			if dist <= speed*e.Params.TStep {
				duration := dist / speed
				reached = &cand
				lastStepDuration = duration
				return nil, reached, lastStepDuration, nil
			}
			candidates = append(candidates, cand)
		}
	}
	return candidates, nil, 0, nil
}

func (e *Engine) constWindOverride() *ConstFlow {
	if e.Params.ConstWindTws != 0 || e.Params.ConstWindTwd != 0 {
		return &ConstFlow{Speed: e.Params.ConstWindTws, Dir: e.Params.ConstWindTwd}
	}
	return nil
}

// constCurrentOverride mirrors constWindOverride for current: a non-zero
// ConstCurrentS/D lets a run inject a uniform current even when no current
// grib was loaded at all.
func (e *Engine) constCurrentOverride() *ConstFlow {
	if e.Params.ConstCurrentS != 0 || e.Params.ConstCurrentD != 0 {
		return &ConstFlow{Speed: e.Params.ConstCurrentS, Dir: e.Params.ConstCurrentD}
	}
	return nil
}

// waveAt returns the significant wave height to feed the boat's speed
// lookup: the sampled grib value, or Params.ConstWave when a constant
// override is set.
func (e *Engine) waveAt(fc FlowCell) float64 {
	if e.Params.ConstWave != 0 {
		return e.Params.ConstWave
	}
	return fc.Wave
}

// Twa recovers the true wind angle this node sailed at.
func (p Pp) Twa() float64 {
	return fTwa(p.Course, p.Twd)
}

// prune keeps at most NSectors survivors, one per angular sector around the
// destination, selected per Params.Opt.
func (e *Engine) prune(candidates []Pp, destination Pos) []Pp {
	if e.Params.Opt == 0 || e.Params.NSectors <= 0 {
		return candidates
	}
	sectorWidth := 360.0 / float64(e.Params.NSectors)
	best := make(map[int]Pp)
	bestScore := make(map[int]float64)
	for _, c := range candidates {
		bearing := orthoCap(destination, c.Pos)
		sector := int(bearing / sectorWidth)
		c.Sector = sector
		score := e.score(c)
		if prev, ok := best[sector]; !ok || score > bestScore[sector] || (score == bestScore[sector] && c.Id < prev.Id) {
			best[sector] = c
			bestScore[sector] = score
		}
	}
	sectors := make([]int, 0, len(best))
	for s := range best {
		sectors = append(sectors, s)
	}
	sort.Ints(sectors)
	out := make([]Pp, 0, len(best))
	for _, s := range sectors {
		out = append(out, best[s])
	}
	return out
}

func (e *Engine) score(c Pp) float64 {
	switch e.Params.Opt {
	case 1:
		return -c.Dist
	case 2:
		return c.Vmc
	default:
		return e.Params.JFactor*c.Vmc - e.Params.KFactor*c.Dist
	}
}
