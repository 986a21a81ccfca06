package routing

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = Params{}
)

// Params holds every tunable the engine and orchestration layer consult.
// Field names mirror the keys recognised by the parameter file.
type Params struct {
	TStep           float64 // isochrone interval, hours
	CogStep         float64 // course discretisation, degrees
	RangeCog        float64 // +/- range around current twd, degrees
	NSectors        int     // sector-pruning width
	Opt             int     // 0 = no prune; 1 = dist; 2 = vmc; >=3 = weighted
	JFactor         float64
	KFactor         float64
	Penalty0        float64 // tack penalty, minutes
	Penalty1        float64 // gybe penalty, minutes
	Penalty2        float64 // sail-change penalty, minutes
	MotorSpeed      float64
	Threshold       float64 // boat speed below which the motor kicks in
	XWind           float64
	MaxWind         float64
	ConstWindTws    float64
	ConstWindTwd    float64
	ConstCurrentS   float64
	ConstCurrentD   float64
	ConstWave       float64
	DayEfficiency   float64
	NightEfficiency float64
	AllwaysSea      bool
	OutputDir       string // directory export.go writes CSV routes into
}

// DefaultParams returns the tuning defaults applied before a parameter file
// is read, matching the original engine's built-in fallbacks.
func DefaultParams() Params {
	return Params{
		TStep:           1,
		CogStep:         5,
		RangeCog:        90,
		NSectors:        30,
		Opt:             1,
		JFactor:         300,
		KFactor:         1,
		XWind:           1,
		MaxWind:         50,
		DayEfficiency:   1,
		NightEfficiency: 1,
		OutputDir:       ".",
	}
}

// LoadParams reads and merges a TOML parameter file over the defaults.
func LoadParams(dir, name string) (Params, error) {
	p := DefaultParams()
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		return p, fmt.Errorf("%s/%s.toml not found: %w", dir, name, err)
	}
	if err := v.Unmarshal(&p); err != nil {
		return p, fmt.Errorf("could not parse parameter file: %w", err)
	}
	return p, nil
}

// SaveParams writes the parameter set back out as TOML, so a tuned run can
// be replayed later.
func SaveParams(p Params, dir, name string) error {
	v := viper.New()
	v.SetConfigType("toml")
	v.Set("tstep", p.TStep)
	v.Set("cogstep", p.CogStep)
	v.Set("rangecog", p.RangeCog)
	v.Set("nsectors", p.NSectors)
	v.Set("opt", p.Opt)
	v.Set("jfactor", p.JFactor)
	v.Set("kfactor", p.KFactor)
	v.Set("penalty0", p.Penalty0)
	v.Set("penalty1", p.Penalty1)
	v.Set("penalty2", p.Penalty2)
	v.Set("motorspeed", p.MotorSpeed)
	v.Set("threshold", p.Threshold)
	v.Set("xwind", p.XWind)
	v.Set("maxwind", p.MaxWind)
	v.Set("constwindtws", p.ConstWindTws)
	v.Set("constwindtwd", p.ConstWindTwd)
	v.Set("constcurrents", p.ConstCurrentS)
	v.Set("constcurrentd", p.ConstCurrentD)
	v.Set("constwave", p.ConstWave)
	v.Set("dayefficiency", p.DayEfficiency)
	v.Set("nightefficiency", p.NightEfficiency)
	v.Set("allwayssea", p.AllwaysSea)
	v.Set("outputdir", p.OutputDir)
	return v.WriteConfigAs(fmt.Sprintf("%s/%s.toml", dir, name))
}

// routingConfig returns the process-wide parameter set, lazily loaded from
// the directory named by ROUTING_CONFIG.
func routingConfig() Params {
	if cfgLoaded {
		return config
	}
	confPath := os.Getenv("ROUTING_CONFIG")
	if confPath == "" {
		confPath = "."
	}
	p, err := LoadParams(confPath, "routing")
	if err != nil {
		p = DefaultParams()
	}
	cfgLoaded = true
	config = p
	return config
}
