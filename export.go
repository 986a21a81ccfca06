package routing

import (
	"fmt"
	"os"
	"time"
)

// RoutePoint is one streamed sample of a reconstructed route, suitable for
// CSV export or live plotting.
type RoutePoint struct {
	T      time.Time
	Lat    float64
	Lon    float64
	Twd    float64
	Tws    float64
	Course float64
	Speed  float64
	Sail   int
	Motor  bool
	Amure  Amure
}

// ExportConfig configures CSV streaming of a route.
type ExportConfig struct {
	Filename     string
	Timestamp    bool
	CSVAppend    func(p RoutePoint) string // custom columns; no leading comma
	CSVAppendHdr func() string             // header for the custom columns
}

// IsUseless reports whether this config would produce no output file.
func (c ExportConfig) IsUseless() bool {
	return c.Filename == ""
}

func createRouteCSVFile(conf ExportConfig, start time.Time) (*os.File, error) {
	outputDir := routingConfig().OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	var filename string
	if conf.Timestamp {
		t := time.Now()
		filename = fmt.Sprintf("%s/route-%s-%d-%02d-%02dT%02d.%02d.%02d.csv", outputDir, conf.Filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	} else {
		filename = fmt.Sprintf("%s/route-%s.csv", outputDir, conf.Filename)
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, &RouteError{Kind: InvalidGrib, Msg: err.Error()}
	}
	f.WriteString(fmt.Sprintf("# Creation date (UTC): %s\n# Simulation start (UTC): %s\ntime,lat,lon,twd,tws,course,speed,sail,motor,amure", time.Now().UTC(), start.UTC()))
	if conf.CSVAppendHdr != nil {
		f.WriteString(conf.CSVAppendHdr())
	}
	return f, nil
}

// StreamRoutePoints drains pointChan into a CSV file, one row per point,
// closing the file once the channel is closed.
func StreamRoutePoints(conf ExportConfig, pointChan <-chan RoutePoint) error {
	if conf.IsUseless() {
		for range pointChan {
			// Drain without writing.
		}
		return nil
	}

	var f *os.File
	var first time.Time
	for p := range pointChan {
		if f == nil {
			first = p.T
			var err error
			if f, err = createRouteCSVFile(conf, first); err != nil {
				return err
			}
			defer f.Close()
		}
		row := fmt.Sprintf("\n%s,%.5f,%.5f,%.1f,%.1f,%.1f,%.2f,%d,%v,%s",
			p.T.UTC().Format("2006-01-02 15:04:05"), p.Lat, p.Lon, p.Twd, p.Tws, p.Course, p.Speed, p.Sail, p.Motor, p.Amure)
		if conf.CSVAppend != nil {
			row += "," + conf.CSVAppend(p)
		}
		if _, err := f.WriteString(row); err != nil {
			return &RouteError{Kind: InvalidGrib, Msg: err.Error()}
		}
	}
	if f != nil {
		f.WriteString(fmt.Sprintf("\n# Simulation end (UTC): %s\n", time.Now().UTC()))
	}
	return nil
}

// ExportRoute feeds every leg of route as a RoutePoint and streams it to
// CSV, using reference as the leg-zero wall-clock time and each leg's
// DurationH (hours) to advance the clock from one leg to the next.
func ExportRoute(route *SailRoute, reference time.Time, conf ExportConfig) error {
	ch := make(chan RoutePoint)
	go func() {
		defer close(ch)
		elapsed := 0.0
		for _, leg := range route.Legs {
			ch <- RoutePoint{
				T:      reference.Add(time.Duration(elapsed * float64(time.Hour))),
				Lat:    leg.To.Lat,
				Lon:    leg.To.Lon,
				Twd:    leg.Twd,
				Tws:    leg.Tws,
				Course: leg.Course,
				Speed:  leg.DistLoxo / leg.DurationH,
				Sail:   leg.Sail,
				Motor:  leg.Motor,
				Amure:  leg.Amure,
			}
			elapsed += leg.DurationH
		}
	}()
	return StreamRoutePoints(conf, ch)
}
