package ink

import (
	"math"
	"testing"
	"time"

	"InkBoard/internal/config"
	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

func sample(x, y, p float64) state.Sample {
	return state.Sample{X: x, Y: y, Pressure: p, Time: time.Unix(0, 0)}
}

func TestStreamlineFactor(t *testing.T) {
	tests := []struct {
		stab, zoom, want float64
	}{
		{0.5, 1, 0.49},
		{0.5, 3, 0.29},
		{0.5, 10, 0.09},
		{0.1, 5, 0},
		{0, 1, 0},
		{2, 1, 0.98},
	}
	for _, tt := range tests {
		if got := StreamlineFactor(tt.stab, tt.zoom); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("StreamlineFactor(%v, %v) = %v, want %v", tt.stab, tt.zoom, got, tt.want)
		}
	}
}

func TestStabilizerRejectsJump(t *testing.T) {
	cfg := config.Default()
	var s Stabilizer
	s.Begin(sample(0, 0, 0.5), cfg)
	if s.Feed(sample(100, 0, 0.9), cfg, 1) {
		t.Fatal("Feed accepted a sample 100 units away")
	}
	if s.Feed(sample(101, 0, 0.9), cfg, 1) == false {
		t.Error("Feed rejected a small step after a jump")
	}
}

func TestStabilizerDecimation(t *testing.T) {
	cfg := config.Default()
	var s Stabilizer
	s.Begin(sample(0, 0, 0.5), cfg)
	// Minimum move at zoom 1 is max(0.2, 3*0.1) = 0.3.
	if s.Feed(sample(0.25, 0, 0.5), cfg, 1) {
		t.Error("accepted a sample inside the decimation gap")
	}
	if !s.Feed(sample(0.35, 0, 0.5), cfg, 1) {
		t.Error("rejected a sample outside the decimation gap")
	}
	// At zoom 10 the gap floors at 0.2.
	if got := MinMove(cfg, 10); got != 0.2 {
		t.Errorf("MinMove(zoom 10) = %v, want 0.2", got)
	}
}

func TestStabilizerJitter(t *testing.T) {
	cfg := config.Default()
	var s Stabilizer
	s.Begin(sample(0, 0, 0.5), cfg)
	s.Feed(sample(5, 0, 0.5), cfg, 1)
	if s.Feed(sample(4, 0, 0.5), cfg, 1) {
		t.Error("accepted a short reversal")
	}
	if !s.Feed(sample(0, 0, 0.5), cfg, 1) {
		t.Error("rejected a long reversal")
	}
}

func TestStabilizerPressureFilter(t *testing.T) {
	cfg := config.Default()
	cfg.Stabilization = 0
	var s Stabilizer
	s.Begin(sample(0, 0, 0.2), cfg)
	s.Feed(sample(10, 0, 1), cfg, 1)
	if got, want := s.Pressure(), 0.2+0.8*0.25; math.Abs(got-want) > 1e-12 {
		t.Errorf("Pressure() = %v, want %v", got, want)
	}
	pts := s.Points()
	if pts[1].Pos() != geom.Pt(10, 0) {
		t.Errorf("unstabilized point = %v, want (10, 0)", pts[1].Pos())
	}

	cfg.PressureEnabled = false
	s.Begin(sample(0, 0, 0.9), cfg)
	if got := s.Pressure(); got != state.DefaultPressure {
		t.Errorf("Pressure() with pressure off = %v", got)
	}
}

func TestStabilizerStreamlines(t *testing.T) {
	cfg := config.Default()
	cfg.Stabilization = 0.5
	var s Stabilizer
	s.Begin(sample(0, 0, 0.5), cfg)
	s.Feed(sample(10, 0, 0.5), cfg, 1)
	pts := s.Points()
	// factor 0.49 keeps 49% of the previous point.
	if got := pts[1].X; math.Abs(got-5.1) > 1e-9 {
		t.Errorf("streamlined X = %v, want 5.1", got)
	}
}

func TestStabilizerEnd(t *testing.T) {
	cfg := config.Default()
	var s Stabilizer
	s.Begin(sample(0, 0, 0.5), cfg)
	pts := s.End(sample(100, 0, 0.9), cfg)
	if len(pts) != 3 {
		t.Fatalf("End() returned %d points, want 3", len(pts))
	}
	if geom.Distance(pts[1].Pos(), geom.Pt(80, 0)) > 1e-9 || pts[2].Pos() != geom.Pt(100, 0) {
		t.Errorf("End() = %v", pts)
	}
	if pts[2].Pressure <= pts[0].Pressure {
		t.Errorf("end pressure %v not above start %v", pts[2].Pressure, pts[0].Pressure)
	}

	s.Begin(sample(0, 0, 0.5), cfg)
	if got := s.End(sample(0.1, 0, 0.5), cfg); len(got) != 1 {
		t.Errorf("End() near the last point added %d points", len(got)-1)
	}
}
