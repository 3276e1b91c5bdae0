package ink

import (
	"time"

	"InkBoard/internal/state"
)

const (
	// StraightenDelay is how long the pointer must hold still.
	StraightenDelay = 500 * time.Millisecond
	// StraightenMinPoints is the raw point count required to straighten.
	StraightenMinPoints = 20
)

// Straightener detects a held pointer. Every accepted sample reschedules
// the hold timer; when it fires with enough raw points the stroke
// collapses to a two-point line.
type Straightener struct {
	clock    Clock
	timer    Timer
	gen      uint64
	straight bool
}

// NewStraightener returns a straightener driven by clock.
func NewStraightener(clock Clock) *Straightener {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Straightener{clock: clock}
}

// Schedule (re)arms the hold timer. fire receives the generation it was
// armed with so a stale callback can be told apart from the current one.
func (s *Straightener) Schedule(fire func(gen uint64)) {
	s.Cancel()
	s.gen++
	gen := s.gen
	s.timer = s.clock.AfterFunc(StraightenDelay, func() { fire(gen) })
}

// Cancel disarms the hold timer.
func (s *Straightener) Cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Current reports whether gen is the latest armed generation.
func (s *Straightener) Current(gen uint64) bool { return gen == s.gen }

// Straight reports whether the session has been collapsed.
func (s *Straightener) Straight() bool { return s.straight }

// Reset returns to freeform drawing for a new session.
func (s *Straightener) Reset() {
	s.Cancel()
	s.straight = false
}

// Collapse turns st into a two-point line from the first to the last raw
// sample when enough raw points were captured. The replaced points are kept
// in OriginalPoints.
func (s *Straightener) Collapse(st *state.Stroke, raw []state.Sample) bool {
	if s.straight || len(raw) < StraightenMinPoints {
		return false
	}
	first, last := raw[0], raw[len(raw)-1]
	if n := len(st.Points); n > 0 {
		first.Pressure = st.Points[0].Pressure
		last.Pressure = st.Points[n-1].Pressure
	}
	st.OriginalPoints = st.Points
	st.Points = []state.Sample{first, last}
	st.Straightened = true
	s.straight = true
	return true
}

// Drag moves the free end of a collapsed line.
func (s *Straightener) Drag(st *state.Stroke, sm state.Sample) {
	if !s.straight || len(st.Points) < 2 {
		return
	}
	sm.Pressure = st.Points[1].Pressure
	st.Points[1] = sm
}
