package routing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// CoordFormat selects how latToStr/lonToStr render a coordinate.
type CoordFormat int

const (
	CoordBasic CoordFormat = iota // signed decimal degrees, e.g. "-45.50°"
	CoordDD                       // unsigned decimal degrees with hemisphere, e.g. "045.50°S"
	CoordDM                       // degrees and decimal minutes, e.g. "45°30.00'S"
	CoordDMS                      // degrees, minutes and seconds, e.g. "45°30'00\"S"
)

const (
	minLat = -90.0
	maxLat = 90.0
	minLon = -180.0
	maxLon = 180.0
)

// latToStr renders a latitude in the given CoordFormat.
func latToStr(lat float64, format CoordFormat) string {
	if lat > maxLat || lat < minLat {
		return "lat error"
	}
	c := byte('N')
	if lat < 0 {
		c = 'S'
	}
	return dmsString(lat, c, 2, format)
}

// lonToStr renders a longitude in the given CoordFormat.
func lonToStr(lon float64, format CoordFormat) string {
	if lon > maxLon || lon < minLon {
		return "lon error"
	}
	c := byte('E')
	if lon < 0 {
		c = 'W'
	}
	return dmsString(lon, c, 3, format)
}

// dmsString formats the magnitude of v as degrees/minutes/seconds, with
// degWidth digits of degree padding (2 for latitude, 3 for longitude).
func dmsString(v float64, hemisphere byte, degWidth int, format CoordFormat) string {
	a := math.Abs(v)
	deg := int(a)
	mn := 60 * (a - float64(deg))
	sec := 3600*a - 3600*float64(deg) - 60*float64(int(mn))
	switch format {
	case CoordDD:
		return fmt.Sprintf("%06.2f°%c", a, hemisphere)
	case CoordDM:
		return fmt.Sprintf("%0*d°%05.2f'%c", degWidth, deg, mn, hemisphere)
	case CoordDMS:
		return fmt.Sprintf("%0*d°%02d'%02.0f\"%c", degWidth, deg, int(mn), sec, hemisphere)
	default:
		return fmt.Sprintf("%.2f°", v)
	}
}

// durationToStr renders a duration in hours as "HH:MM", or "N Days HH:MM"
// once it spans a full day.
func durationToStr(duration float64) string {
	days := int(duration / 24)
	hours := int(math.Mod(duration, 24))
	minutes := int(60 * math.Mod(duration, 1))
	if days == 0 {
		return fmt.Sprintf("%02d:%02d", hours, minutes)
	}
	return fmt.Sprintf("%d Days %02d:%02d", days, hours, minutes)
}

var leadingFloat = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?`)

// parseLeadingFloat parses the numeric prefix of s, returning 0 if s has none.
func parseLeadingFloat(s string) float64 {
	m := leadingFloat.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

const coordNegHemisphere = "SsWwOo"

// getCoord parses a free-form coordinate token such as "45", "45.5S",
// "45°30'S" or "45°30'15\"S" into a signed decimal degree value clamped to
// [minLimit, maxLimit].
func getCoord(str string, minLimit, maxLimit float64) float64 {
	sign := 1.0
	if strings.ContainsAny(str, coordNegHemisphere) {
		sign = -1
	}
	i := 0
	for i < len(str) && !(isDigit(str[i]) || str[i] == '-' || str[i] == '+') {
		i++
	}
	deg := parseLeadingFloat(str[i:])
	if deg < 0 {
		sign = -1
	}
	deg = math.Abs(deg)

	var minutes, seconds float64
	if strings.ContainsRune(str, '\'') {
		var rest string
		if dIdx := strings.Index(str, "°"); dIdx >= 0 {
			rest = str[dIdx+len("°"):]
		} else if negIdx := strings.IndexAny(str, coordNegHemisphere); negIdx >= 0 {
			rest = str[negIdx+1:]
		}
		if rest != "" {
			minutes = parseLeadingFloat(rest)
		}
		if secIdx := strings.IndexByte(str, '\''); secIdx >= 0 && strings.ContainsRune(str[secIdx:], '"') {
			seconds = parseLeadingFloat(str[secIdx+1:])
		}
	}
	return clamp(sign*(deg+minutes/60+seconds/3600), minLimit, maxLimit)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isNumber(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

// AnalyseCoord parses a free-form "lat,lon" coordinate string, where each
// side may be a bare decimal degree or a DMS token like "45°30'N". It
// returns false if strCoord does not contain two numeric parts.
func AnalyseCoord(strCoord string) (Pos, bool) {
	str := strings.TrimSpace(strCoord)
	if !isNumber(str) {
		return Pos{}, false
	}
	sep := strings.IndexByte(str, ',')
	if sep < 0 {
		sep = strings.IndexByte(str, '-')
	}
	if sep < 0 || sep == len(str)-1 || !isNumber(str[sep+1:]) {
		return Pos{}, false
	}
	lon := getCoord(str[sep+1:], minLon, maxLon)
	lat := getCoord(str[:sep], minLat, maxLat)
	return Pos{Lat: lat, Lon: lon}, true
}
