package routing

import (
	"os"

	kitlog "github.com/go-kit/kit/log"
)

// Amure is the sailing tack.
type Amure uint8

const (
	// Port tack.
	Port Amure = iota
	// Starboard tack.
	Starboard
)

func (a Amure) String() string {
	if a == Port {
		return "port"
	}
	return "starboard"
}

// Boat couples a polar table with the logging identity used throughout a
// routing run.
type Boat struct {
	Name   string
	Polar  *Polar
	WavePolar *Polar // optional speed-multiplier polar keyed by wave height
	logger kitlog.Logger
}

// BoatLogInit initialises a logfmt logger bound to the boat's name.
func BoatLogInit(name string) kitlog.Logger {
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	return kitlog.With(klog, "boat", name)
}

// NewBoat returns a boat with an initialised logger.
func NewBoat(name string, polar *Polar) *Boat {
	return &Boat{Name: name, Polar: polar, logger: BoatLogInit(name)}
}

// speedAt returns the propulsion speed, sail index and motor flag for the
// given true wind angle/speed, after wave attenuation, day/night efficiency
// and the motor-threshold fallback have been applied.
func (b *Boat) speedAt(twa, tws, waveHeight, efficiency float64, p Params) (speed float64, sail int, motor bool) {
	speed, sail = b.Polar.SpeedAndSail(twa, tws)
	speed *= efficiency * p.XWind
	if b.WavePolar != nil {
		mult, _ := b.WavePolar.SpeedAndSail(0, waveHeight)
		speed *= mult
	}
	if speed < p.Threshold && p.MotorSpeed > 0 {
		speed = p.MotorSpeed
		motor = true
		sail = 0
	}
	return
}

// tackPenalty returns the time penalty, in hours, incurred switching tack
// from a leg at fromTwa to one at toTwa (tacking when both legs are upwind
// of beam, gybing when both are downwind of it), plus any sail-change
// penalty when the sail index changes and a sail was actually selected.
func tackPenalty(fromAmure, toAmure Amure, fromTwa, toTwa float64, fromSail, toSail int, p Params) float64 {
	penalty := 0.0
	if fromAmure != toAmure {
		if fromTwa < 90 && toTwa < 90 {
			penalty += p.Penalty0 / 60
		} else {
			penalty += p.Penalty1 / 60
		}
	}
	if fromSail != 0 && toSail != 0 && fromSail != toSail {
		penalty += p.Penalty2 / 60
	}
	return penalty
}
