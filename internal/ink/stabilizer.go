package ink

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"InkBoard/internal/config"
	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

const (
	// maxJump rejects samples that teleport away from the previous one,
	// which pointer-capture glitches produce.
	maxJump = 80.0
	// minMoveFloor is the smallest decimation gap at any zoom.
	minMoveFloor = 0.2
	// jitterDot marks a near-reversal between consecutive raw segments.
	jitterDot = -0.8
	// pressureAlpha is the exponential pressure filter weight.
	pressureAlpha = 0.25
	// streamlineScale caps the user stabilization amount.
	streamlineScale = 0.98
	// maxDampZoom and dampPerZoom reduce stabilization when zoomed in.
	maxDampZoom = 5.0
	dampPerZoom = 0.1
	// catchUpFraction places the pointer-up catch-up point.
	catchUpFraction = 0.8
)

// Stabilizer filters raw pointer samples into a reduced, streamlined point
// sequence with smoothed pressure. One instance serves one capture session.
type Stabilizer struct {
	raw       []state.Sample // accepted, unfiltered
	points    []state.Sample // streamlined output
	lastInput geom.Vec       // last sample seen, accepted or not
	pressure  float64
}

// StreamlineFactor returns how much of the previous streamlined point is
// kept for a new sample. Stabilization is scaled by 0.98 and reduced by 0.1
// per zoom level above 1 (up to 5x) so precise work at high zoom is not
// over-smoothed.
func StreamlineFactor(stabilization, zoom float64) float64 {
	hi := geom.Clamp01(stabilization) * streamlineScale
	damp := (math.Min(zoom, maxDampZoom) - 1) * dampPerZoom
	return math.Max(0, math.Min(hi, hi-damp))
}

// MinMove returns the decimation gap for the given settings and zoom. It
// keeps point density roughly constant in screen space.
func MinMove(cfg config.Settings, zoom float64) float64 {
	return math.Max(minMoveFloor, cfg.BaseWidth*cfg.Decimation/zoom)
}

func pressureOf(p float64, cfg config.Settings) float64 {
	if !cfg.PressureEnabled {
		return state.DefaultPressure
	}
	return state.NormalizePressure(p)
}

func validZoom(zoom float64) float64 {
	if math.IsNaN(zoom) || zoom <= 0 {
		return 1
	}
	return zoom
}

// Begin seeds the stabilizer with the pointer-down sample.
func (s *Stabilizer) Begin(sm state.Sample, cfg config.Settings) {
	sm.Pressure = pressureOf(sm.Pressure, cfg)
	s.raw = []state.Sample{sm}
	s.points = []state.Sample{sm}
	s.lastInput = sm.Pos()
	s.pressure = sm.Pressure
}

// Feed offers a pointer-move sample. It reports whether the sample was
// accepted into the output sequence.
func (s *Stabilizer) Feed(sm state.Sample, cfg config.Settings, zoom float64) bool {
	if len(s.raw) == 0 {
		return false
	}
	zoom = validZoom(zoom)
	pos := sm.Pos()

	prevInput := s.lastInput
	s.lastInput = pos
	if geom.Distance(pos, prevInput) > maxJump {
		return false
	}

	last := s.raw[len(s.raw)-1].Pos()
	step := geom.Distance(pos, last)
	if step < MinMove(cfg, zoom) {
		return false
	}

	if len(s.raw) >= 2 {
		prev := s.raw[len(s.raw)-2].Pos()
		turn := r2.Dot(geom.Unit(r2.Sub(last, prev)), geom.Unit(r2.Sub(pos, last)))
		if turn < jitterDot && step < cfg.BaseWidth/2 {
			return false
		}
	}

	in := pressureOf(sm.Pressure, cfg)
	s.pressure += (in - s.pressure) * pressureAlpha

	raw := sm
	raw.Pressure = in
	s.raw = append(s.raw, raw)

	k := StreamlineFactor(cfg.Stabilization, zoom)
	lastOut := s.points[len(s.points)-1].Pos()
	next := geom.Lerp(lastOut, pos, 1-k)
	s.points = append(s.points, state.SampleAt(next, s.pressure, sm.Time))
	return true
}

// End closes the sequence at the pointer-up sample. Streamlining lags
// behind the pointer, so a catch-up point is placed 80% of the way to the
// final position, followed by the final position itself.
func (s *Stabilizer) End(sm state.Sample, cfg config.Settings) []state.Sample {
	out := s.Points()
	if len(out) == 0 {
		return nil
	}
	pos := sm.Pos()
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) {
		return out
	}
	last := out[len(out)-1].Pos()
	if geom.Distance(last, pos) <= minMoveFloor {
		return out
	}
	s.pressure += (pressureOf(sm.Pressure, cfg) - s.pressure) * pressureAlpha
	catch := geom.Lerp(last, pos, catchUpFraction)
	return append(out,
		state.SampleAt(catch, s.pressure, sm.Time),
		state.SampleAt(pos, s.pressure, sm.Time),
	)
}

// Points returns a copy of the streamlined sequence.
func (s *Stabilizer) Points() []state.Sample {
	return append([]state.Sample(nil), s.points...)
}

// Raw returns a copy of the accepted raw samples.
func (s *Stabilizer) Raw() []state.Sample {
	return append([]state.Sample(nil), s.raw...)
}

// Pressure returns the current smoothed pressure.
func (s *Stabilizer) Pressure() float64 { return s.pressure }
