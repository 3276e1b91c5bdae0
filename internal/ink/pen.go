// Package ink turns pointer input into smoothed, pressure-sensitive
// strokes. A Pen owns one capture session at a time: samples are
// stabilized as they arrive, a held pointer straightens the stroke, and
// pointer-up runs the final cleanup and smoothing passes.
package ink

import (
	"math"
	"sync"

	"InkBoard/internal/config"
	"InkBoard/internal/geom"
	"InkBoard/internal/logging"
	"InkBoard/internal/state"
)

// Pen is the freehand drawing tool. It is safe for concurrent use; the
// straightening timer may fire on another goroutine.
type Pen struct {
	Kind  state.Kind
	Owner string
	// OnRepaint is called, outside the pen lock, when the live stroke
	// changes without a pointer event.
	OnRepaint func()

	mu       sync.Mutex
	clock    Clock
	stab     Stabilizer
	straight *Straightener
	live     *state.Stroke
	cfg      config.Settings
	zoom     float64
	last     state.Sample
	drawing  bool
}

// NewPen returns a pen producing strokes of kind (pen or highlighter).
func NewPen(kind state.Kind, owner string, clock Clock) *Pen {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Pen{Kind: kind, Owner: owner, clock: clock, straight: NewStraightener(clock), zoom: 1}
}

func badPos(p geom.Vec) bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0)
}

// PointerDown starts a session at pos. A position without coordinates is
// ignored.
func (p *Pen) PointerDown(pos geom.Vec, pressure float64, cfg config.Settings) {
	if badPos(pos) {
		return
	}
	cfg = cfg.Normalize()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drawing {
		p.straight.Cancel()
	}
	sm := state.SampleAt(pos, pressure, p.clock.Now())
	p.stab.Begin(sm, cfg)
	p.straight.Reset()
	p.cfg = cfg
	p.zoom = 1
	p.last = sm
	p.drawing = true
	p.live = p.newStroke(cfg)
	p.live.Points = p.stab.Points()
	p.straight.Schedule(p.onHold)
	logging.Logger().Debug("ink: stroke started", "id", p.live.ID, "kind", p.Kind)
}

func (p *Pen) newStroke(cfg config.Settings) *state.Stroke {
	st := &state.Stroke{
		ID:        state.NewID(),
		OwnerID:   p.Owner,
		Kind:      p.Kind,
		BaseWidth: cfg.BaseWidth,
		Color:     cfg.Color,
		Opacity:   cfg.Opacity,
		LineStyle: cfg.LineStyle,
	}
	if p.Kind == state.KindHighlighter {
		st.BaseWidth = cfg.HighlighterWidth
		st.Opacity = cfg.HighlighterOpacity
		st.LineStyle = state.LineSolid
	}
	return st
}

// PointerMove feeds a sample at the given zoom. It reports whether the live
// stroke changed.
func (p *Pen) PointerMove(pos geom.Vec, pressure float64, cfg config.Settings, zoom float64) bool {
	if badPos(pos) {
		return false
	}
	cfg = cfg.Normalize()

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.drawing {
		return false
	}
	p.cfg = cfg
	p.zoom = validZoom(zoom)
	sm := state.SampleAt(pos, pressure, p.clock.Now())
	p.last = sm

	if p.straight.Straight() {
		p.straight.Drag(p.live, sm)
		return true
	}
	if !p.stab.Feed(sm, cfg, p.zoom) {
		return false
	}
	p.live.Points = Smooth(p.stab.Points(), PreviewIterations)
	p.straight.Schedule(p.onHold)
	return true
}

func (p *Pen) onHold(gen uint64) {
	p.mu.Lock()
	if !p.drawing || !p.straight.Current(gen) {
		p.mu.Unlock()
		return
	}
	ok := p.straight.Collapse(p.live, p.stab.Raw())
	id := p.live.ID
	repaint := p.OnRepaint
	p.mu.Unlock()

	if !ok {
		return
	}
	logging.Logger().Debug("ink: stroke straightened", "id", id)
	if repaint != nil {
		repaint()
	}
}

// PointerUp ends the session and returns the finished stroke, or nil when
// no session was active.
func (p *Pen) PointerUp(pos geom.Vec, pressure float64, cfg config.Settings) *state.Stroke {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.drawing {
		return nil
	}
	end := p.last
	if !badPos(pos) {
		end = state.SampleAt(pos, pressure, p.clock.Now())
	}
	return p.finish(end, cfg.Normalize())
}

// Cancel ends the session as if the pointer was released at its last known
// position. Hosts call it when the pointer leaves capture without an up
// event.
func (p *Pen) Cancel() *state.Stroke {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.drawing {
		return nil
	}
	return p.finish(p.last, p.cfg)
}

func (p *Pen) finish(end state.Sample, cfg config.Settings) *state.Stroke {
	p.straight.Cancel()
	p.drawing = false
	st := p.live
	p.live = nil

	if p.straight.Straight() {
		p.straight.Drag(st, end)
	} else {
		pts := p.stab.End(end, cfg)
		pts = Sanitize(pts, p.zoom)
		pts = PressureSmooth(pts)
		st.Points = Smooth(pts, FinalIterations)
	}
	logging.Logger().Debug("ink: stroke finished", "id", st.ID, "points", len(st.Points), "straightened", st.Straightened)
	return st
}

// Live returns a copy of the in-progress stroke, or nil when idle.
func (p *Pen) Live() *state.Stroke {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.live == nil {
		return nil
	}
	return p.live.Clone()
}

// Drawing reports whether a session is active.
func (p *Pen) Drawing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.drawing
}
