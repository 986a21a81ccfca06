package routing

import (
	"math"
	"testing"
)

func TestLonCanonize(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{180, 180},
		{-180, 180},
		{190, -170},
		{-190, 170},
		{360, 0},
	}
	for _, c := range cases {
		if got := lonCanonize(c.in); !floatsClose(got, c.want, 1e-9) {
			t.Fatalf("lonCanonize(%f) = %f, want %f", c.in, got, c.want)
		}
	}
	// idempotence
	for lon := -540.0; lon < 540; lon += 17 {
		once := lonCanonize(lon)
		twice := lonCanonize(once)
		if !floatsClose(once, twice, 1e-9) {
			t.Fatalf("lonCanonize not idempotent at %f: %f vs %f", lon, once, twice)
		}
	}
}

func TestOrthoDistIdentityAndSymmetry(t *testing.T) {
	a := Pos{45, -10}
	b := Pos{46, -9}
	if d := orthoDist(a, a); !floatsClose(d, 0, 1e-9) {
		t.Fatalf("orthoDist(a,a) = %f, want 0", d)
	}
	if d1, d2 := orthoDist(a, b), orthoDist(b, a); !floatsClose(d1, d2, 1e-9) {
		t.Fatalf("orthoDist not symmetric: %f vs %f", d1, d2)
	}
}

func TestOrthoDistAntipodal(t *testing.T) {
	a := Pos{0, 0}
	b := Pos{0, 180}
	d := orthoDist(a, b)
	want := 180 * 60.0
	if !floatsClose(d, want, 1e-6) {
		t.Fatalf("antipodal distance = %f, want %f", d, want)
	}
}

func TestLoxoNotShorterThanOrtho(t *testing.T) {
	pairs := []struct{ a, b Pos }{
		{Pos{45, -10}, Pos{46, -9}},
		{Pos{0, 0}, Pos{10, 50}},
		{Pos{60, 5}, Pos{61, 5}},
	}
	for _, p := range pairs {
		lox := loxoDist(p.a, p.b)
		ortho := orthoDist(p.a, p.b)
		if lox < ortho-1e-6 {
			t.Fatalf("loxoDist (%f) shorter than orthoDist (%f) for %+v", lox, ortho, p)
		}
	}
}

func TestFTwdFTws(t *testing.T) {
	// wind blowing from the north (v negative, u zero) has twd 0
	if twd := fTwd(0, -10); !floatsClose(twd, 0, 1e-6) {
		t.Fatalf("twd from north wind = %f, want 0", twd)
	}
	tws := fTws(0, -10)
	want := 10 * 3600 / 1852.0
	if !floatsClose(tws, want, 1e-6) {
		t.Fatalf("tws = %f, want %f", tws, want)
	}
}

func TestFTwaSymmetric(t *testing.T) {
	if a := fTwa(0, 45); !floatsClose(a, 45, 1e-9) {
		t.Fatalf("twa = %f, want 45", a)
	}
	if a := fTwa(0, -45); !floatsClose(a, 45, 1e-9) {
		t.Fatalf("twa (negative) = %f, want 45", a)
	}
}

func TestDestPointAdvancesEastward(t *testing.T) {
	p := Pos{0, 0}
	q := destPoint(p, 90, 60)
	if !floatsClose(q.Lat, 0, 1e-6) {
		t.Fatalf("expected latitude unchanged sailing due east, got %f", q.Lat)
	}
	if !floatsClose(math.Abs(q.Lon-1), 0, 1e-3) {
		t.Fatalf("expected roughly 1 degree of longitude advance, got %f", q.Lon)
	}
}
