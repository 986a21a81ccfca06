package routing

import (
	"math"

	"github.com/gonum/floats"
)

const (
	deg2rad = math.Pi / 180
	rad2deg = 1 / deg2rad
)

// Sign returns the sign of a given number, treating zero as positive.
func Sign(v float64) float64 {
	if floats.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// Deg2rad converts degrees to radians.
func Deg2rad(a float64) float64 {
	return a * deg2rad
}

// Rad2deg converts radians to degrees.
func Rad2deg(a float64) float64 {
	return a * rad2deg
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// interpolate performs linear interpolation of y at x between (x0,y0) and (x1,y1).
func interpolate(x, x0, x1, y0, y1 float64) float64 {
	if floats.EqualWithinAbs(x0, x1, 1e-9) {
		return y0
	}
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}
