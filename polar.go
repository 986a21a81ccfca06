package routing

import (
	"bufio"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/gonum/matrix/mat64"
)

const (
	maxPolarRows = 128
	maxPolarCols = 128
)

// Polar holds a TWA x TWS boat-speed table, and optionally a same-shaped
// table of sail indices.
type Polar struct {
	twa     []float64 // strictly increasing, row headers
	tws     []float64 // strictly increasing, column headers
	speed   *mat64.Dense
	sailMat *mat64.Dense // nil if no sail polar was loaded
}

// PolarReport flags rows/columns that do not rise to a maximum then fall,
// as required by the polar-matrix invariant in §3. A non-empty report does
// not fail the load; the matrix is still usable as loaded.
type PolarReport struct {
	NonUnimodalRows []float64 // TWA values whose row isn't rise-then-fall across TWS
	NonUnimodalCols []float64 // TWS values whose column isn't rise-then-fall across TWA
}

// LoadPolar parses a polar table in the row/column text format: the first
// line holds the TWS column headers, each subsequent line starts with a TWA
// value followed by one boat speed per TWS column. Both comma and semicolon
// separators are accepted, and both '.' and ',' are accepted as the decimal
// point. Lines starting with '#', and blank lines, are skipped.
func LoadPolar(r io.Reader) (*Polar, *PolarReport, error) {
	rows, err := readPolarMatrix(r)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) < 3 || len(rows[0]) < 3 {
		return nil, nil, &RouteError{Kind: PolarInvalid, Msg: "polar table needs at least 2 rows and 2 columns"}
	}
	if len(rows) > maxPolarRows || len(rows[0]) > maxPolarCols {
		return nil, nil, &RouteError{Kind: CapacityExceeded, Msg: "polar table exceeds maximum size"}
	}
	nRows := len(rows) - 1
	nCols := len(rows[0])
	tws := rows[0]
	twa := make([]float64, nRows)
	data := make([]float64, nRows*nCols)
	for i := 1; i < len(rows); i++ {
		twa[i-1] = rows[i][0]
		for j := 1; j <= nCols; j++ {
			data[(i-1)*nCols+(j-1)] = rows[i][j]
		}
	}
	p := &Polar{twa: twa, tws: tws, speed: mat64.NewDense(nRows, nCols, data)}
	return p, checkUnimodal(p), nil
}

// checkUnimodal reports every row and column of p's speed matrix that does
// not rise to a single maximum and then fall.
func checkUnimodal(p *Polar) *PolarReport {
	report := &PolarReport{}
	nRows, nCols := p.speed.Dims()
	for i := 0; i < nRows; i++ {
		row := make([]float64, nCols)
		for j := 0; j < nCols; j++ {
			row[j] = p.speed.At(i, j)
		}
		if !isUnimodal(row) {
			report.NonUnimodalRows = append(report.NonUnimodalRows, p.twa[i])
		}
	}
	for j := 0; j < nCols; j++ {
		col := make([]float64, nRows)
		for i := 0; i < nRows; i++ {
			col[i] = p.speed.At(i, j)
		}
		if !isUnimodal(col) {
			report.NonUnimodalCols = append(report.NonUnimodalCols, p.tws[j])
		}
	}
	return report
}

// isUnimodal reports whether values rises to a maximum and then falls
// (allowing a flat run at either end or at the peak).
func isUnimodal(values []float64) bool {
	i := 0
	for i+1 < len(values) && values[i+1] >= values[i] {
		i++
	}
	for i+1 < len(values) && values[i+1] <= values[i] {
		i++
	}
	return i == len(values)-1
}

// LoadSailMatrix attaches a sail-index matrix to an already-loaded polar.
// The matrix must share the polar's TWA/TWS axes.
func (p *Polar) LoadSailMatrix(r io.Reader) error {
	rows, err := readPolarMatrix(r)
	if err != nil {
		return err
	}
	nRows := len(rows) - 1
	nCols := len(rows[0])
	if nRows != len(p.twa) || nCols != len(p.tws) {
		return &RouteError{Kind: PolarInvalid, Msg: "sail matrix shape does not match speed matrix"}
	}
	data := make([]float64, nRows*nCols)
	for i := 1; i < len(rows); i++ {
		for j := 1; j <= nCols; j++ {
			data[(i-1)*nCols+(j-1)] = rows[i][j]
		}
	}
	p.sailMat = mat64.NewDense(nRows, nCols, data)
	return nil
}

func readPolarMatrix(r io.Reader) ([][]float64, error) {
	var rows [][]float64
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sep := ";"
		if !strings.Contains(line, ";") {
			sep = ","
		}
		fields := strings.Split(line, sep)
		if len(fields) < 2 {
			continue
		}
		row := make([]float64, len(fields))
		for i, f := range fields {
			f = strings.ReplaceAll(strings.TrimSpace(f), ",", ".")
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, &RouteError{Kind: PolarInvalid, Msg: "could not parse polar value: " + f}
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// binarySearch finds the index i such that xs[i] <= x <= xs[i+1], clamped at
// the ends of the slice.
func binarySearch(xs []float64, x float64) (lo, hi int) {
	i := sort.Search(len(xs), func(i int) bool { return xs[i] >= x })
	if i == 0 {
		return 0, 0
	}
	if i >= len(xs) {
		return len(xs) - 1, len(xs) - 1
	}
	return i - 1, i
}

func linearScanRow(twa []float64, a float64) (lo, hi int) {
	if a <= twa[0] {
		return 0, 0
	}
	for i := 1; i < len(twa); i++ {
		if twa[i] >= a {
			return i - 1, i
		}
	}
	return len(twa) - 1, len(twa) - 1
}

func foldTwa(twa float64) float64 {
	if twa < 0 {
		twa = -twa
	}
	twa = mod360(twa)
	if twa > 180 {
		twa = 360 - twa
	}
	return twa
}

func mod360(a float64) float64 {
	for a < 0 {
		a += 360
	}
	for a >= 360 {
		a -= 360
	}
	return a
}

// Speed returns the interpolated boat speed in knots for the given TWA (any
// sign/range, folded to [0,180]) and TWS.
func (p *Polar) Speed(twa, tws float64) float64 {
	s, _ := p.SpeedAndSail(twa, tws)
	return s
}

// SpeedAndSail returns the interpolated boat speed and the nearest-cell sail
// index (0 if no sail matrix was loaded).
func (p *Polar) SpeedAndSail(twa, tws float64) (speed float64, sail int) {
	a := foldTwa(twa)
	rLo, rHi := linearScanRow(p.twa, a)
	cLo, cHi := binarySearch(p.tws, tws)

	s00 := p.speed.At(rLo, cLo)
	s01 := p.speed.At(rLo, cHi)
	s10 := p.speed.At(rHi, cLo)
	s11 := p.speed.At(rHi, cHi)

	sLo := interpolate(tws, p.tws[cLo], p.tws[cHi], s00, s01)
	sHi := interpolate(tws, p.tws[cLo], p.tws[cHi], s10, s11)
	speed = interpolate(a, p.twa[rLo], p.twa[rHi], sLo, sHi)

	if p.sailMat != nil {
		r := rLo
		if a-p.twa[rLo] > p.twa[rHi]-a {
			r = rHi
		}
		c := cLo
		if tws-p.tws[cLo] > p.tws[cHi]-tws {
			c = cHi
		}
		sail = int(p.sailMat.At(r, c))
	}
	return
}

// BestVMG returns the TWA and resulting VMG (boat speed * cos(twa)) that
// maximises progress upwind (upwind=true) or downwind (upwind=false) at the
// given TWS.
func (p *Polar) BestVMG(tws float64, upwind bool) (angle, vmg float64) {
	bestVMG := -1e18
	for a := 0.0; a <= 180; a += 0.5 {
		s := p.Speed(a, tws)
		var v float64
		if upwind {
			v = s * cosDeg(a)
		} else {
			v = s * -cosDeg(a)
		}
		if v > bestVMG {
			bestVMG = v
			angle = a
		}
	}
	vmg = bestVMG
	return
}

// MaxSpeed returns the maximum boat speed across all TWA at the given TWS.
func (p *Polar) MaxSpeed(tws float64) float64 {
	best := 0.0
	for a := 0.0; a <= 180; a += 0.5 {
		if s := p.Speed(a, tws); s > best {
			best = s
		}
	}
	return best
}

func cosDeg(d float64) float64 {
	return math.Cos(Deg2rad(d))
}
