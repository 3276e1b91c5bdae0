package ink

import (
	"math"
	"testing"

	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

func straight(n int) []state.Sample {
	pts := make([]geom.Vec, n)
	for i := range pts {
		pts[i] = geom.Pt(float64(i)*4, 0)
	}
	return line(pts...)
}

func TestPressureWidth(t *testing.T) {
	if got := PressureWidth(10, 0); math.Abs(got-4) > 1e-12 {
		t.Errorf("PressureWidth(10, 0) = %v, want 4", got)
	}
	if got := PressureWidth(10, 1); math.Abs(got-16) > 1e-12 {
		t.Errorf("PressureWidth(10, 1) = %v, want 16", got)
	}
	prev := PressureWidth(10, 0)
	for p := 0.05; p <= 1; p += 0.05 {
		w := PressureWidth(10, p)
		if w <= prev {
			t.Errorf("PressureWidth not increasing at %v", p)
		}
		prev = w
	}
	if PressureWidth(10, 3) != PressureWidth(10, 1) {
		t.Error("pressure above 1 should clamp")
	}
}

func TestOutlinePointCount(t *testing.T) {
	for _, n := range []int{2, 3, 10, 57} {
		got := len(Tessellate(straight(n), 3))
		if want := 2*(n-2) + 2*CapSamples; got != want {
			t.Errorf("n=%d: len(outline) = %d, want %d", n, got, want)
		}
	}
	if got := len(Tessellate(straight(1), 3)); got != dotSegments {
		t.Errorf("single point outline = %d points, want %d", got, dotSegments)
	}
	if Tessellate(nil, 3) != nil {
		t.Error("empty stroke should have no outline")
	}
}

func TestOutlineCaps(t *testing.T) {
	pts := straight(5)
	env := BuildEnvelope(pts, 4)
	r := env.Radii[0]
	out := env.Outline()
	c := pts[0].Pos()

	// The start cap runs from the right side, around the back, to the left.
	checks := []struct {
		idx  int
		want geom.Vec
	}{
		{0, geom.Pt(c.X, c.Y-r)},
		{18, geom.Pt(c.X-r, c.Y)},
		{36, geom.Pt(c.X, c.Y+r)},
	}
	for _, ch := range checks {
		if geom.Distance(out[ch.idx], ch.want) > 1e-9 {
			t.Errorf("outline[%d] = %v, want %v", ch.idx, out[ch.idx], ch.want)
		}
	}
	// The end cap passes in front of the last point.
	end := pts[len(pts)-1].Pos()
	mid := out[CapSamples+len(pts)-2+18]
	if geom.Distance(mid, geom.Pt(end.X+r, end.Y)) > 1e-9 {
		t.Errorf("end cap apex = %v, want %v", mid, geom.Pt(end.X+r, end.Y))
	}
}

func TestOutlineStaysInsideEnvelope(t *testing.T) {
	pts := line(geom.Pt(0, 0), geom.Pt(5, 3), geom.Pt(9, 9), geom.Pt(10, 15), geom.Pt(8, 20))
	env := BuildEnvelope(pts, 6)
	maxR := 0.0
	for _, r := range env.Radii {
		maxR = math.Max(maxR, r)
	}
	for _, p := range env.Outline() {
		near := math.Inf(1)
		for _, c := range env.Centers {
			near = math.Min(near, geom.Distance(p, c))
		}
		if near > maxR+1e-9 {
			t.Errorf("outline point %v is %v from the centerline, radius %v", p, near, maxR)
		}
	}
	for i, n := range env.Normals {
		if math.Abs(math.Hypot(n.X, n.Y)-1) > 1e-9 {
			t.Errorf("normal %d = %v is not unit", i, n)
		}
	}
}

func TestEnvelopeDegenerateTangent(t *testing.T) {
	pts := line(geom.Pt(2, 2), geom.Pt(2, 2), geom.Pt(2, 2))
	env := BuildEnvelope(pts, 3)
	for i, n := range env.Normals {
		if n != geom.Pt(0, 1) {
			t.Errorf("normal %d = %v, want fallback (0, 1)", i, n)
		}
	}
}

func TestTangentWindow(t *testing.T) {
	tests := []struct {
		width float64
		want  int
	}{
		{4, 10},
		{8, 10},
		{12, 10},
		{20, 16},
		{30, 24},
	}
	for _, tt := range tests {
		if got := tangentWindow(tt.width); got != tt.want {
			t.Errorf("tangentWindow(%v) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestBlendNormalAtCorner(t *testing.T) {
	last := geom.Pt(0, 1)
	corner := geom.Pt(1, 0)
	// A turn whose dot product with last is 0.99: inside the narrow
	// tolerance, outside the wide one.
	slight := geom.Pt(math.Sqrt(1-0.99*0.99), 0.99)

	tests := []struct {
		name   string
		normal geom.Vec
		width  float64
		want   geom.Vec
	}{
		{"narrow corner", corner, 4, geom.Unit(geom.Pt(0.6, 0.4))},
		{"wide corner", corner, 12, geom.Unit(geom.Pt(0.35, 0.65))},
		{"width 8 is narrow", corner, 8, geom.Unit(geom.Pt(0.6, 0.4))},
		{"narrow slight turn", slight, 4, slight},
		{"wide slight turn", slight, 12, geom.Unit(geom.Lerp(last, slight, 0.35))},
		{"no turn", last, 12, last},
	}
	for _, tt := range tests {
		got := blendNormal(last, tt.normal, tt.width)
		if geom.Distance(got, tt.want) > 1e-12 {
			t.Errorf("%s: blendNormal() = %v, want %v", tt.name, got, tt.want)
		}
		if math.Abs(math.Hypot(got.X, got.Y)-1) > 1e-12 {
			t.Errorf("%s: blendNormal() = %v is not unit", tt.name, got)
		}
	}

	narrow := blendNormal(last, corner, 4)
	wide := blendNormal(last, corner, 12)
	if geom.Angle(narrow) >= geom.Angle(wide) {
		t.Errorf("wide normal %v turned at least as far as narrow %v", wide, narrow)
	}
}

func TestEnvelopeBlendsHairpin(t *testing.T) {
	var pts []geom.Vec
	for i := range 30 {
		pts = append(pts, geom.Pt(float64(i)*2, 0))
	}
	// Double back along y = 4 so the averaged tangent flips.
	for i := range 30 {
		pts = append(pts, geom.Pt(58-float64(i)*2, 4))
	}
	samples := line(pts...)

	envs := map[float64]Envelope{}
	for _, width := range []float64{4, 12} {
		env := BuildEnvelope(samples, width)
		for i := 1; i < len(env.Normals); i++ {
			raw := geom.Perp(windowTangent(env.Centers, i, tangentWindow(width)))
			want := blendNormal(env.Normals[i-1], raw, width)
			if geom.Distance(env.Normals[i], want) > 1e-12 {
				t.Errorf("width %v: normal %d = %v, want %v", width, i, env.Normals[i], want)
			}
		}
		envs[width] = env
	}
	differ := false
	for i := range envs[4].Normals {
		if geom.Distance(envs[4].Normals[i], envs[12].Normals[i]) > 1e-9 {
			differ = true
		}
	}
	if !differ {
		t.Errorf("widths 4 and 12 produced identical normals around a hairpin")
	}
}
