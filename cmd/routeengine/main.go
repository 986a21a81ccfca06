package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/rigault/simplerouting-sub001"
)

const defaultScenario = "~~unset~~"

const (
	exitReached = 0
	exitClosest = 1
	exitUsage   = 2
	exitIOError = 3
)

var (
	scenario    string
	gribPath    string
	polarPath   string
	originStr   string
	destStr     string
	landMaskPath string
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "routing scenario TOML file")
	flag.StringVar(&gribPath, "grib", "", "GRIB2 wind file")
	flag.StringVar(&polarPath, "polar", "", "boat polar CSV file")
	flag.StringVar(&originStr, "origin", "", "origin as lat,lon")
	flag.StringVar(&destStr, "dest", "", "destination as lat,lon")
	flag.StringVar(&landMaskPath, "landmask", "", "optional land/sea bitmap file")
}

func main() {
	flag.Parse()
	if gribPath == "" || polarPath == "" || originStr == "" || destStr == "" {
		log.Print("[error] -grib, -polar, -origin and -dest are all required")
		os.Exit(exitUsage)
	}

	params := routing.DefaultParams()
	if scenario != defaultScenario {
		dir, name := splitConfigPath(scenario)
		loaded, err := routing.LoadParams(dir, name)
		if err != nil {
			log.Printf("[error] could not read scenario `%s`: %s", scenario, err)
			os.Exit(exitIOError)
		}
		params = loaded
	}

	origin, err := parsePos(originStr)
	if err != nil {
		log.Printf("[error] origin: %s", err)
		os.Exit(exitUsage)
	}
	destination, err := parsePos(destStr)
	if err != nil {
		log.Printf("[error] destination: %s", err)
		os.Exit(exitUsage)
	}

	gribFile, err := os.Open(gribPath)
	if err != nil {
		log.Printf("[error] opening grib: %s", err)
		os.Exit(exitIOError)
	}
	defer gribFile.Close()
	grib, report, err := routing.LoadGrib(gribFile)
	if err != nil {
		log.Printf("[error] decoding grib: %s", err)
		os.Exit(exitIOError)
	}
	log.Printf("[info] loaded grib: %d missing, %d out-of-range, %d out-of-zone samples", report.MissingCount, report.OutOfRangeCount, report.OutOfZoneCount)
	if report.LatStepInconsistent || report.LonStepInconsistent || report.NonUniformCadence {
		log.Printf("[warn] grib grid irregularities: latStep=%v lonStep=%v cadence=%v", report.LatStepInconsistent, report.LonStepInconsistent, report.NonUniformCadence)
	}

	polarFile, err := os.Open(polarPath)
	if err != nil {
		log.Printf("[error] opening polar: %s", err)
		os.Exit(exitIOError)
	}
	defer polarFile.Close()
	polar, polarReport, err := routing.LoadPolar(polarFile)
	if err != nil {
		log.Printf("[error] parsing polar: %s", err)
		os.Exit(exitIOError)
	}
	if n := len(polarReport.NonUnimodalRows) + len(polarReport.NonUnimodalCols); n > 0 {
		log.Printf("[warn] polar table has %d non-unimodal rows, %d non-unimodal columns", len(polarReport.NonUnimodalRows), len(polarReport.NonUnimodalCols))
	}
	boat := routing.NewBoat(scenario, polar)

	mask := routing.NewAllwaysSeaMask()
	if landMaskPath != "" {
		maskFile, err := os.Open(landMaskPath)
		if err != nil {
			log.Printf("[error] opening land mask: %s", err)
			os.Exit(exitIOError)
		}
		defer maskFile.Close()
		mask, err = routing.LoadLandMask(maskFile)
		if err != nil {
			log.Printf("[error] parsing land mask: %s", err)
			os.Exit(exitIOError)
		}
	}

	engine := routing.NewEngine(grib, nil, mask, boat, params)
	result, err := engine.Run(origin, destination, 0, 0)
	if err != nil {
		log.Printf("[error] routing: %s", err)
		os.Exit(exitIOError)
	}

	route, err := routing.BuildRoute(result, params.TStep)
	if err != nil {
		log.Printf("[error] building route: %s", err)
		os.Exit(exitIOError)
	}
	fmt.Println(route.String())

	if result.State == routing.StateReached {
		os.Exit(exitReached)
	}
	os.Exit(exitClosest)
}

func splitConfigPath(scenario string) (dir, name string) {
	scenario = strings.TrimSuffix(scenario, ".toml")
	idx := strings.LastIndex(scenario, "/")
	if idx < 0 {
		return ".", scenario
	}
	return scenario[:idx], scenario[idx+1:]
}

// parsePos accepts either a bare "lat,lon" decimal pair or a free-form
// coordinate string such as "45°30'N, 3°15'W".
func parsePos(s string) (routing.Pos, error) {
	if pos, ok := routing.AnalyseCoord(s); ok {
		return pos, nil
	}
	return routing.Pos{}, fmt.Errorf("expected lat,lon (decimal or DMS), got %q", s)
}
