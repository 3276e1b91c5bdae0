package erase

import (
	"math"
	"sync"
	"time"

	"InkBoard/internal/config"
	"InkBoard/internal/geom"
)

// Eraser is the eraser tool: it tracks the previous pointer position so
// each move erases along the swept segment, and feeds the cursor trail.
type Eraser struct {
	Engine *Engine
	Trail  *Trail

	mu     sync.Mutex
	last   geom.Vec
	active bool
}

// NewEraser returns an eraser tool over engine.
func NewEraser(engine *Engine) *Eraser {
	return &Eraser{Engine: engine, Trail: NewTrail()}
}

// PointerDown erases at pos.
func (e *Eraser) PointerDown(pos geom.Vec, cfg config.Settings, now time.Time) Result {
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) {
		return Result{}
	}
	e.mu.Lock()
	e.last = pos
	e.active = true
	e.mu.Unlock()

	e.Trail.Add(pos, now)
	return e.sweep(pos, pos, cfg)
}

// PointerMove erases along the segment from the previous position to pos.
// Moves without a preceding PointerDown only update the trail.
func (e *Eraser) PointerMove(pos geom.Vec, cfg config.Settings, now time.Time) Result {
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) {
		return Result{}
	}
	e.Trail.Add(pos, now)

	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return Result{}
	}
	from := e.last
	e.last = pos
	e.mu.Unlock()

	return e.sweep(from, pos, cfg)
}

// PointerUp ends the sweep.
func (e *Eraser) PointerUp() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = false
}

// Active reports whether a sweep is in progress.
func (e *Eraser) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

func (e *Eraser) sweep(from, to geom.Vec, cfg config.Settings) Result {
	cfg = cfg.Normalize()
	return e.Engine.Sweep(from, to, cfg.EraserRadius, cfg.EraserMode)
}
