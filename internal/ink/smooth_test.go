package ink

import (
	"math"
	"testing"

	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

func line(pts ...geom.Vec) []state.Sample {
	out := make([]state.Sample, len(pts))
	for i, p := range pts {
		out[i] = state.SampleAt(p, 0.5, sample(0, 0, 0).Time)
	}
	return out
}

func TestSmoothKeepsEndpoints(t *testing.T) {
	in := line(geom.Pt(0, 0), geom.Pt(10, 5), geom.Pt(20, -3), geom.Pt(31, 7))
	for _, iters := range []int{1, 2, 3} {
		out := Smooth(in, iters)
		if out[0] != in[0] || out[len(out)-1] != in[len(in)-1] {
			t.Errorf("Smooth(%d) moved an endpoint: %v .. %v", iters, out[0], out[len(out)-1])
		}
	}
	if got := len(Smooth(in, 1)); got != 2*(len(in)-1)+2 {
		t.Errorf("len(Smooth(1)) = %d", got)
	}
	if &Smooth(in, 1)[0] == &in[0] {
		t.Error("Smooth aliased its input")
	}
}

func TestSmoothShortInput(t *testing.T) {
	in := line(geom.Pt(0, 0), geom.Pt(5, 5))
	out := Smooth(in, 3)
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Errorf("Smooth(two points) = %v", out)
	}
	if got := Smooth(nil, 3); len(got) != 0 {
		t.Errorf("Smooth(nil) = %v", got)
	}
}

func TestSmoothCutsCorners(t *testing.T) {
	in := line(geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10))
	out := Smooth(in, 1)
	want := []geom.Vec{
		geom.Pt(0, 0), geom.Pt(2.5, 0), geom.Pt(7.5, 0),
		geom.Pt(10, 2.5), geom.Pt(10, 7.5), geom.Pt(10, 10),
	}
	if len(out) != len(want) {
		t.Fatalf("len = %d, want %d", len(out), len(want))
	}
	for i, w := range want {
		if geom.Distance(out[i].Pos(), w) > 1e-9 {
			t.Errorf("point %d = %v, want %v", i, out[i].Pos(), w)
		}
	}
}

func TestPressureSmooth(t *testing.T) {
	in := line(geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(2, 0), geom.Pt(3, 0))
	in[0].Pressure, in[1].Pressure, in[2].Pressure, in[3].Pressure = 0, 1, 0, 1
	out := PressureSmooth(in)
	want := []float64{0, 0.5, 0.5, 1}
	for i, w := range want {
		if math.Abs(out[i].Pressure-w) > 1e-12 {
			t.Errorf("pressure %d = %v, want %v", i, out[i].Pressure, w)
		}
	}
	if in[1].Pressure != 1 {
		t.Error("PressureSmooth modified its input")
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		in    []geom.Vec
		first geom.Vec
		last  geom.Vec
		n     int
	}{
		{
			name:  "leading hook",
			in:    []geom.Vec{geom.Pt(3, 0), geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(20, 0)},
			first: geom.Pt(0, 0), last: geom.Pt(20, 0), n: 3,
		},
		{
			name:  "trailing hook",
			in:    []geom.Vec{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(20, 0), geom.Pt(17, 0)},
			first: geom.Pt(0, 0), last: geom.Pt(20, 0), n: 3,
		},
		{
			name:  "close neighbours",
			in:    []geom.Vec{geom.Pt(0, 0), geom.Pt(0.1, 0), geom.Pt(10, 0), geom.Pt(19.9, 0), geom.Pt(20, 0)},
			first: geom.Pt(0, 0), last: geom.Pt(20, 0), n: 3,
		},
		{
			name:  "clean",
			in:    []geom.Vec{geom.Pt(0, 0), geom.Pt(10, 1), geom.Pt(20, 0)},
			first: geom.Pt(0, 0), last: geom.Pt(20, 0), n: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Sanitize(line(tt.in...), 1)
			if len(out) != tt.n {
				t.Fatalf("len = %d, want %d", len(out), tt.n)
			}
			if out[0].Pos() != tt.first || out[len(out)-1].Pos() != tt.last {
				t.Errorf("ends = %v .. %v, want %v .. %v", out[0].Pos(), out[len(out)-1].Pos(), tt.first, tt.last)
			}
		})
	}
}

func TestSanitizeScalesWithZoom(t *testing.T) {
	in := line(geom.Pt(0, 0), geom.Pt(0.1, 0), geom.Pt(10, 0))
	if got := len(Sanitize(in, 10)); got != 3 {
		t.Errorf("len at zoom 10 = %d, want 3", got)
	}
	if got := len(Sanitize(in, 1)); got != 2 {
		t.Errorf("len at zoom 1 = %d, want 2", got)
	}
}
