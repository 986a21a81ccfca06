package routing

import "math"

// isDayLight reports whether the given UTC hour-of-day offset t (hours since
// the grib reference) corresponds to daylight at (lat, lon), using the
// simplified theoretical-local-time rule: above +/-75 degrees latitude,
// day/night is governed by month; otherwise daylight holds for a local
// solar hour between 6 and 18.
func isDayLight(t, lat, lon float64, refHourOfDay, refMonth int) bool {
	localHour := math.Mod(float64(refHourOfDay)+t+lon/15.0, 24)
	if localHour < 0 {
		localHour += 24
	}
	if math.Abs(lat) > 75 {
		summer := refMonth >= 4 && refMonth <= 9
		if lat > 0 {
			return summer
		}
		return !summer
	}
	return localHour >= 6 && localHour <= 18
}

// efficiencyAt returns the day or night crew-efficiency multiplier for the
// given sample point and time.
func efficiencyAt(t, lat, lon float64, refHourOfDay, refMonth int, p Params) float64 {
	if isDayLight(t, lat, lon, refHourOfDay, refMonth) {
		return p.DayEfficiency
	}
	return p.NightEfficiency
}
