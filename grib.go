package routing

import (
	"io"
	"math"
	"sort"
	"time"

	"github.com/mmp/squall"
)

// Zone describes a grib field's spatial and temporal grid.
type Zone struct {
	LatMin, LatMax   float64
	LonLeft, LonRight float64
	LatStep, LonStep  float64
	NbLat, NbLon      int
	AnteMeridian      bool
	Reference         time.Time
	Timestamps        []float64 // hours since Reference, strictly increasing

	IntervalBegin float64 // hours, first timestamp
	IntervalEnd   float64 // hours, last timestamp
	IntervalLimit float64 // hours, nominal spacing between consecutive timestamps
}

// FlowCell holds the decoded scalar fields at one (time, lat, lon) grid point.
type FlowCell struct {
	U, V   float64 // m/s, east/north
	Gust   float64
	Wave   float64
	Msl    float64
	Prate  float64
	Missing bool
}

// Grib holds a fully decoded, time-stepped flow grid.
type Grib struct {
	Zone  Zone
	cells []FlowCell // indexed by k*NbLat*NbLon + iLat*NbLon + iLon
}

// DecodeReport summarises data-quality issues found while decoding.
type DecodeReport struct {
	MissingCount        int
	OutOfRangeCount     int
	OutOfZoneCount      int
	ShortNames          map[string]bool
	LatStepInconsistent bool // a decoded latitude didn't land on a latStep multiple
	LonStepInconsistent bool // a decoded longitude didn't land on a lonStep multiple
	NonUniformCadence   bool // consecutive timestamps don't all match IntervalLimit
}

// LoadGrib decodes a binary grib2 stream into a Grib field plus a quality
// report. An error of kind InvalidGrib is returned for multi-date files,
// files missing either wind component, or files with no timestamps.
func LoadGrib(r io.Reader) (*Grib, *DecodeReport, error) {
	records, err := squall.Read(r)
	if err != nil {
		return nil, nil, &RouteError{Kind: InvalidGrib, Msg: err.Error()}
	}
	if len(records) == 0 {
		return nil, nil, &RouteError{Kind: InvalidGrib, Msg: "no records decoded"}
	}

	report := &DecodeReport{ShortNames: make(map[string]bool)}

	// First pass: determine the zone bounds, reference date and the set of
	// distinct forecast timestamps. The distinct latitudes/longitudes seen in
	// the first record give the grid's actual point spacing, rather than
	// assuming any particular source resolution.
	var latMin, latMax, lonLeft, lonRight = 90.0, -90.0, 360.0, -360.0
	referenceSet := false
	var reference time.Time
	tsSet := map[float64]bool{}
	latSet := map[float64]bool{}
	lonSet := map[float64]bool{}

	for recIdx, rec := range records {
		report.ShortNames[rec.Parameter.ShortName()] = true
		if !referenceSet {
			reference = rec.ReferenceTime.UTC()
			referenceSet = true
		} else if !rec.ReferenceTime.UTC().Equal(reference) {
			return nil, nil, &RouteError{Kind: InvalidGrib, Msg: "grib file carries more than one reference date/time"}
		}
		hrs := rec.ForecastTime.Sub(reference).Hours()
		tsSet[hrs] = true
		for i := 0; i < rec.NumPoints; i++ {
			lat := rec.Latitudes[i]
			lon := rec.Longitudes[i]
			if lon > 180 {
				lon -= 360
			}
			if lat < latMin {
				latMin = lat
			}
			if lat > latMax {
				latMax = lat
			}
			if lon < lonLeft {
				lonLeft = lon
			}
			if lon > lonRight {
				lonRight = lon
			}
			if recIdx == 0 {
				latSet[math.Round(lat*1e6)/1e6] = true
				lonSet[math.Round(lon*1e6)/1e6] = true
			}
		}
	}
	if !referenceSet || len(tsSet) == 0 {
		return nil, nil, &RouteError{Kind: InvalidGrib, Msg: "no forecast timestamps found"}
	}
	if !report.ShortNames["10u"] && !report.ShortNames["ucurr"] {
		return nil, nil, &RouteError{Kind: InvalidGrib, Msg: "grib file has no u wind component"}
	}
	if !report.ShortNames["10v"] && !report.ShortNames["vcurr"] {
		return nil, nil, &RouteError{Kind: InvalidGrib, Msg: "grib file has no v wind component"}
	}

	timestamps := make([]float64, 0, len(tsSet))
	for t := range tsSet {
		timestamps = append(timestamps, t)
	}
	sort.Float64s(timestamps)

	var intervalLimit float64
	if len(timestamps) > 1 {
		intervalLimit = timestamps[1] - timestamps[0]
		const cadenceTol = 1e-6
		for i := 2; i < len(timestamps); i++ {
			if math.Abs((timestamps[i]-timestamps[i-1])-intervalLimit) > cadenceTol {
				report.NonUniformCadence = true
			}
		}
	}

	anteMeridian := (lonRight - lonLeft) > 300
	nbLat := len(latSet)
	nbLon := len(lonSet)
	if nbLat < 1 {
		nbLat = 1
	}
	if nbLon < 1 {
		nbLon = 1
	}
	latStep := stepFor(latMax-latMin, nbLat)
	lonStep := stepFor(lonRight-lonLeft, nbLon)
	if latStep > 0 {
		for lat := range latSet {
			if !onGrid(lat-latMin, latStep) {
				report.LatStepInconsistent = true
				break
			}
		}
	}
	if lonStep > 0 {
		for lon := range lonSet {
			if !onGrid(lon-lonLeft, lonStep) {
				report.LonStepInconsistent = true
				break
			}
		}
	}

	zone := Zone{
		LatMin: latMin, LatMax: latMax,
		LonLeft: lonLeft, LonRight: lonRight,
		LatStep: latStep, LonStep: lonStep,
		NbLat: nbLat, NbLon: nbLon,
		AnteMeridian: anteMeridian,
		Reference:    reference,
		Timestamps:   timestamps,
		IntervalBegin: timestamps[0],
		IntervalEnd:   timestamps[len(timestamps)-1],
		IntervalLimit: intervalLimit,
	}

	cells := make([]FlowCell, len(timestamps)*nbLat*nbLon)
	for i := range cells {
		cells[i] = FlowCell{Missing: true}
	}
	timeIndex := make(map[float64]int, len(timestamps))
	for i, t := range timestamps {
		timeIndex[t] = i
	}

	// Second pass: dispatch each record's values into the dense grid.
	for _, rec := range records {
		k := timeIndex[rec.ForecastTime.Sub(reference).Hours()]
		for i := 0; i < rec.NumPoints; i++ {
			lat := rec.Latitudes[i]
			lon := rec.Longitudes[i]
			if lon > 180 {
				lon -= 360
			}
			iLat := int(math.Round((lat - latMin) / latStep))
			iLon := int(math.Round((lon - lonLeft) / lonStep))
			if iLat < 0 || iLat >= nbLat || iLon < 0 || iLon >= nbLon {
				report.OutOfZoneCount++
				continue
			}
			idx := k*nbLat*nbLon + iLat*nbLon + iLon
			v := rec.Data[i]
			if v > 9e20 {
				report.MissingCount++
				continue
			}
			c := &cells[idx]
			c.Missing = false
			switch rec.Parameter.ShortName() {
			case "10u", "ucurr":
				c.U = v
				if math.Abs(v) > 100 {
					report.OutOfRangeCount++
				}
			case "10v", "vcurr":
				c.V = v
				if math.Abs(v) > 100 {
					report.OutOfRangeCount++
				}
			case "gust":
				c.Gust = v
			case "msl", "prmsl":
				c.Msl = v
			case "prate":
				c.Prate = v
			case "swh":
				c.Wave = v
			}
		}
	}

	return &Grib{Zone: zone, cells: cells}, report, nil
}

// stepFor derives a grid step from an observed span and point count,
// satisfying span = step*(n-1) exactly by construction.
func stepFor(span float64, n int) float64 {
	if n <= 1 {
		return 0
	}
	return span / float64(n-1)
}

// onGrid reports whether offset lands on a step multiple within tolerance.
func onGrid(offset, step float64) bool {
	if step == 0 {
		return true
	}
	n := offset / step
	return math.Abs(n-math.Round(n)) < 1e-3
}

func (z *Zone) inZone(lat, lon float64) bool {
	return isInZone(lat, lon, z.LatMin, z.LatMax, z.LonLeft, z.LonRight, z.AnteMeridian)
}

func (z *Zone) cellIndex(lat, lon float64) (iLat, iLon int) {
	if z.AnteMeridian {
		lon = lonNormalize(lon)
		left := lonNormalize(z.LonLeft)
		if lon < left {
			lon += 360
		}
		lon -= left
		iLat = int(math.Round((lat - z.LatMin) / z.LatStep))
		iLon = int(math.Round(lon / z.LonStep))
	} else {
		iLat = int(math.Round((lat - z.LatMin) / z.LatStep))
		iLon = int(math.Round((lon - z.LonLeft) / z.LonStep))
	}
	if iLat < 0 {
		iLat = 0
	}
	if iLat >= z.NbLat {
		iLat = z.NbLat - 1
	}
	if iLon < 0 {
		iLon = 0
	}
	if iLon >= z.NbLon {
		iLon = z.NbLon - 1
	}
	return
}

// ConstFlow, when non-zero, overrides grid sampling with a uniform flow —
// a constant wind or a constant current, both expressed as a speed (knots)
// and a from-direction (degrees).
type ConstFlow struct {
	Speed, Dir float64
}

// Sample returns the interpolated flow values at (lat, lon, t), t in hours
// since the grib's reference. An error of kind GridOutOfBounds is returned
// when the point falls outside the zone and no constant override applies.
func (g *Grib) Sample(lat, lon, t float64, override *ConstFlow) (FlowCell, error) {
	if override != nil && (override.Speed != 0 || override.Dir != 0) {
		dirRad := Deg2rad(override.Dir)
		u := -override.Speed * 1852 / 3600 * math.Sin(dirRad)
		v := -override.Speed * 1852 / 3600 * math.Cos(dirRad)
		return FlowCell{U: u, V: v}, nil
	}
	if !g.Zone.inZone(lat, lon) {
		return FlowCell{}, &RouteError{Kind: GridOutOfBounds, Msg: "point outside grib zone"}
	}
	if t < 0 {
		return FlowCell{}, &RouteError{Kind: GridOutOfBounds, Msg: "negative time offset"}
	}
	ts := g.Zone.Timestamps
	t0Idx, t1Idx := binarySearch(ts, t)

	c0 := g.sampleAtTime(t0Idx, lat, lon)
	if t0Idx == t1Idx {
		return c0, nil
	}
	c1 := g.sampleAtTime(t1Idx, lat, lon)
	frac := interpolate(t, ts[t0Idx], ts[t1Idx], 0, 1)
	return FlowCell{
		U:     interpolate(frac, 0, 1, c0.U, c1.U),
		V:     interpolate(frac, 0, 1, c0.V, c1.V),
		Gust:  interpolate(frac, 0, 1, c0.Gust, c1.Gust),
		Wave:  interpolate(frac, 0, 1, c0.Wave, c1.Wave),
		Msl:   interpolate(frac, 0, 1, c0.Msl, c1.Msl),
		Prate: interpolate(frac, 0, 1, c0.Prate, c1.Prate),
	}, nil
}

func (g *Grib) sampleAtTime(k int, lat, lon float64) FlowCell {
	z := &g.Zone
	iLat, iLon := z.cellIndex(lat, lon)
	iLat1 := iLat + 1
	if iLat1 >= z.NbLat {
		iLat1 = iLat
	}
	iLon1 := iLon + 1
	if iLon1 >= z.NbLon {
		iLon1 = iLon
	}
	c00 := g.cellAt(k, iLat, iLon)
	c01 := g.cellAt(k, iLat, iLon1)
	c10 := g.cellAt(k, iLat1, iLon)
	c11 := g.cellAt(k, iLat1, iLon1)

	latFrac := 0.0
	if iLat1 != iLat {
		latFrac = (lat - (z.LatMin + float64(iLat)*z.LatStep)) / z.LatStep
	}
	lonFrac := 0.0
	if iLon1 != iLon {
		lonFrac = (lon - (z.LonLeft + float64(iLon)*z.LonStep)) / z.LonStep
	}

	bilerp := func(f00, f01, f10, f11 float64) float64 {
		top := f00 + (f01-f00)*lonFrac
		bot := f10 + (f11-f10)*lonFrac
		return top + (bot-top)*latFrac
	}

	return FlowCell{
		U:     bilerp(c00.U, c01.U, c10.U, c11.U),
		V:     bilerp(c00.V, c01.V, c10.V, c11.V),
		Gust:  bilerp(c00.Gust, c01.Gust, c10.Gust, c11.Gust),
		Wave:  bilerp(c00.Wave, c01.Wave, c10.Wave, c11.Wave),
		Msl:   bilerp(c00.Msl, c01.Msl, c10.Msl, c11.Msl),
		Prate: bilerp(c00.Prate, c01.Prate, c10.Prate, c11.Prate),
	}
}

func (g *Grib) cellAt(k, iLat, iLon int) FlowCell {
	c := g.cells[k*g.Zone.NbLat*g.Zone.NbLon+iLat*g.Zone.NbLon+iLon]
	if c.Missing {
		return FlowCell{}
	}
	return c
}
