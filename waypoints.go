package routing

import "fmt"

// WaypointList is an ordered set of intermediate points between an origin
// and a final destination, with cached aggregate distances.
type WaypointList struct {
	Points    []Pos
	orthoDist float64
	loxoDist  float64
	cached    bool
}

// NewWaypointList builds a waypoint list from origin, the intermediate
// points (possibly empty), and the destination.
func NewWaypointList(origin Pos, intermediate []Pos, destination Pos) *WaypointList {
	pts := make([]Pos, 0, len(intermediate)+2)
	pts = append(pts, origin)
	pts = append(pts, intermediate...)
	pts = append(pts, destination)
	return &WaypointList{Points: pts}
}

// Legs returns the (from, to) pairs the engine must route in sequence.
func (w *WaypointList) Legs() [][2]Pos {
	legs := make([][2]Pos, 0, len(w.Points)-1)
	for i := 0; i < len(w.Points)-1; i++ {
		legs = append(legs, [2]Pos{w.Points[i], w.Points[i+1]})
	}
	return legs
}

// TotalOrthoDist returns the sum of orthodromic leg distances, in NM.
func (w *WaypointList) TotalOrthoDist() float64 {
	w.ensureCached()
	return w.orthoDist
}

// TotalLoxoDist returns the sum of loxodromic leg distances, in NM.
func (w *WaypointList) TotalLoxoDist() float64 {
	w.ensureCached()
	return w.loxoDist
}

func (w *WaypointList) ensureCached() {
	if w.cached {
		return
	}
	for _, leg := range w.Legs() {
		w.orthoDist += orthoDist(leg[0], leg[1])
		w.loxoDist += loxoDist(leg[0], leg[1])
	}
	w.cached = true
}

func (w *WaypointList) String() string {
	s := ""
	for i, p := range w.Points {
		if i > 0 {
			s += " -> "
		}
		s += fmt.Sprintf("(%s %s)", latToStr(p.Lat, CoordDM), lonToStr(p.Lon, CoordDM))
	}
	return s
}

// Competitor is an alternate starting position routed against the same
// grib and polar as the primary run.
type Competitor struct {
	ColorIndex int
	Origin     Pos
	Name       string

	DistToDestination float64
	Duration          float64
	ETA               float64
	DestinationReached bool
}

// CompetitorList tracks the progress of a multi-competitor run. RunIndex is
// the index of the last competitor still being routed; -1 once all have
// finished (or the list is empty).
type CompetitorList struct {
	Competitors []*Competitor
	RunIndex    int
}

// NewCompetitorList builds a competitor list, seeded to start at competitor 0.
func NewCompetitorList(competitors []*Competitor) *CompetitorList {
	idx := -1
	if len(competitors) > 0 {
		idx = 0
	}
	return &CompetitorList{Competitors: competitors, RunIndex: idx}
}

// Advance moves RunIndex to the next unrouted competitor, or -1 when done.
func (c *CompetitorList) Advance() {
	if c.RunIndex < 0 {
		return
	}
	c.RunIndex++
	if c.RunIndex >= len(c.Competitors) {
		c.RunIndex = -1
	}
}
