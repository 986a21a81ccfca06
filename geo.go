package routing

import "math"

// Pos is a geographic position in degrees.
type Pos struct {
	Lat, Lon float64
}

// lonCanonize returns lon folded into (-180, 180].
func lonCanonize(lon float64) float64 {
	c := math.Remainder(lon, 360)
	if c == -180 {
		return 180
	}
	return c
}

// lonNormalize returns lon folded into [0, 360).
func lonNormalize(lon float64) float64 {
	n := math.Mod(lon, 360)
	if n < 0 {
		n += 360
	}
	return n
}

// isInZone reports whether (lat, lon) lies within the rectangle described by
// the zone's bounds, respecting an antemeridian-crossing zone.
func isInZone(lat, lon float64, latMin, latMax, lonLeft, lonRight float64, anteMeridian bool) bool {
	if lat < latMin || lat > latMax {
		return false
	}
	if anteMeridian {
		l := lonCanonize(lon)
		return l >= lonCanonize(lonLeft) || l <= lonCanonize(lonRight)
	}
	return lon >= lonLeft && lon <= lonRight
}

// fTwd returns true wind direction in degrees from (u, v) components in m/s.
func fTwd(u, v float64) float64 {
	twd := Rad2deg(math.Atan2(-u, -v))
	if twd < 0 {
		twd += 360
	}
	return twd
}

// fTws returns true wind speed in knots from (u, v) components in m/s.
func fTws(u, v float64) float64 {
	return math.Hypot(u, v) * 3600 / 1852
}

// fTwa returns the true wind angle (0..180) given heading and true wind direction.
func fTwa(heading, twd float64) float64 {
	twa := math.Abs(twd - heading)
	if twa > 180 {
		twa = 360 - twa
	}
	return twa
}

// fAwaAws returns apparent wind angle and speed given true wind angle, true
// wind speed and boat speed, all in knots/degrees.
func fAwaAws(twa, tws, sog float64) (awa, aws float64) {
	twaRad := Deg2rad(twa)
	x := tws*math.Cos(twaRad) + sog
	y := tws * math.Sin(twaRad)
	aws = math.Hypot(x, y)
	awa = Rad2deg(math.Atan2(y, x))
	if awa < 0 {
		awa += 360
	}
	return
}

// givry returns the Givry correction (degrees) to turn a loxodromic bearing
// into an initial orthodromic bearing.
func givry(lat1, lon1, lat2, lon2 float64) float64 {
	meanLat := Deg2rad((lat1 + lat2) / 2)
	dLon := Deg2rad(lonCanonize(lon1 - lon2))
	return Rad2deg(dLon / 2 * math.Sin(meanLat))
}

// directCap returns the loxodromic (rhumb-line) initial bearing from p1 to p2.
func directCap(p1, p2 Pos) float64 {
	dLon := Deg2rad(lonCanonize(p2.Lon - p1.Lon))
	phi1 := Deg2rad(p1.Lat)
	phi2 := Deg2rad(p2.Lat)
	dPhi := phi2 - phi1
	dPsi := math.Log(math.Tan(phi2/2+math.Pi/4) / math.Tan(phi1/2+math.Pi/4))
	var q float64
	if math.IsNaN(dPsi) || math.IsInf(dPsi, 0) || math.Abs(dPsi) < 1e-12 {
		q = math.Cos(phi1)
	} else {
		q = dPhi / dPsi
	}
	cap := Rad2deg(math.Atan2(q*dLon, dPhi))
	if cap < 0 {
		cap += 360
	}
	_ = dPhi
	return cap
}

// orthoCap returns the initial orthodromic (great-circle) bearing from p1 to
// p2, obtained by applying the Givry correction to the loxodromic bearing.
func orthoCap(p1, p2 Pos) float64 {
	cap := directCap(p1, p2) + givry(p1.Lat, p1.Lon, p2.Lat, p2.Lon)
	cap = math.Mod(cap, 360)
	if cap < 0 {
		cap += 360
	}
	return cap
}

// loxoDist returns the rhumb-line distance in nautical miles between p1 and p2.
func loxoDist(p1, p2 Pos) float64 {
	phi1 := Deg2rad(p1.Lat)
	phi2 := Deg2rad(p2.Lat)
	dPhi := phi2 - phi1
	dLon := Deg2rad(lonCanonize(p2.Lon - p1.Lon))
	dPsi := math.Log(math.Tan(phi2/2+math.Pi/4) / math.Tan(phi1/2+math.Pi/4))
	var q float64
	if math.IsNaN(dPsi) || math.IsInf(dPsi, 0) || math.Abs(dPsi) < 1e-12 {
		q = math.Cos((phi1 + phi2) / 2)
	} else {
		q = dPhi / dPsi
	}
	dist := math.Hypot(dPhi, q*dLon)
	return Rad2deg(dist) * 60
}

// orthoDist returns the great-circle distance in nautical miles between p1
// and p2 using the spherical law of cosines.
func orthoDist(p1, p2 Pos) float64 {
	phi1 := Deg2rad(p1.Lat)
	phi2 := Deg2rad(p2.Lat)
	dLon := Deg2rad(lonCanonize(p2.Lon - p1.Lon))
	cosC := clamp(math.Sin(phi1)*math.Sin(phi2)+math.Cos(phi1)*math.Cos(phi2)*math.Cos(dLon), -1, 1)
	return Rad2deg(math.Acos(cosC)) * 60
}

// destPoint advances from p by distance (NM) on bearing cap (degrees),
// returning the resulting rhumb-line position.
func destPoint(p Pos, cap, distNM float64) Pos {
	d := Deg2rad(distNM / 60)
	capRad := Deg2rad(cap)
	phi1 := Deg2rad(p.Lat)
	phi2 := phi1 + d*math.Cos(capRad)
	dPsi := math.Log(math.Tan(phi2/2+math.Pi/4) / math.Tan(phi1/2+math.Pi/4))
	var q float64
	if math.IsNaN(dPsi) || math.IsInf(dPsi, 0) || math.Abs(dPsi) < 1e-12 {
		q = math.Cos(phi1)
	} else {
		q = (phi2 - phi1) / dPsi
	}
	dLon := d * math.Sin(capRad) / q
	if math.IsNaN(dLon) {
		dLon = 0
	}
	lon2 := p.Lon + Rad2deg(dLon)
	return Pos{Lat: Rad2deg(phi2), Lon: lonCanonize(lon2)}
}
