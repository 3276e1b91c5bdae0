// Package erase implements the geometric eraser: a disc swept between two
// pointer positions either deletes whole entities (object mode) or cuts
// pen and highlighter strokes into surviving fragments (partial mode).
package erase

import (
	"sync/atomic"

	"InkBoard/internal/config"
	"InkBoard/internal/geom"
	"InkBoard/internal/logging"
	"InkBoard/internal/state"
)

// broadPad is added to the eraser radius when padding the swept box.
const broadPad = 2

// Store is the entity collection the engine mutates. Update must apply
// fn's result as one atomic replace.
type Store interface {
	Update(fn func([]state.Entity) []state.Entity)
	Bounds(e state.Entity) geom.Box
}

// Result lists the ids an erase step removed and the fragment ids it added.
type Result struct {
	Removed []string
	Added   []string
}

// Empty reports whether the step changed nothing.
func (r Result) Empty() bool { return len(r.Removed) == 0 && len(r.Added) == 0 }

// Engine runs erase sweeps against a Store.
type Engine struct {
	Store  Store
	Shapes ShapeGeometry

	narrow atomic.Int64
}

// NewEngine returns an engine using DefaultShapes when shapes is nil.
func NewEngine(store Store, shapes ShapeGeometry) *Engine {
	if shapes == nil {
		shapes = DefaultShapes{}
	}
	return &Engine{Store: store, Shapes: shapes}
}

// NarrowChecks returns how many narrow-phase tests have run.
func (e *Engine) NarrowChecks() int64 { return e.narrow.Load() }

// SweepBox is the broad-phase box of the eraser moving from-to.
func SweepBox(from, to geom.Vec, radius float64) geom.Box {
	return geom.Pad(geom.SegmentBox(from, to), radius+broadPad)
}

// Sweep erases along the segment from-to in the given mode. The store sees
// a single replace per call.
func (e *Engine) Sweep(from, to geom.Vec, radius float64, mode config.EraserMode) Result {
	var res Result
	box := SweepBox(from, to, radius)
	e.Store.Update(func(cur []state.Entity) []state.Entity {
		next := make([]state.Entity, 0, len(cur))
		for _, ent := range cur {
			if ent.IsLocked() || !geom.Overlaps(e.Store.Bounds(ent), box) {
				next = append(next, ent)
				continue
			}
			if mode == config.EraserPartial {
				next = e.partial(next, ent, from, to, radius, &res)
				continue
			}
			e.narrow.Add(1)
			if e.hit(ent, from, to, radius) {
				res.Removed = append(res.Removed, ent.EntityID())
				continue
			}
			next = append(next, ent)
		}
		if res.Empty() {
			return cur
		}
		return next
	})
	if !res.Empty() {
		logging.Logger().Debug("erase: sweep", "mode", mode, "removed", len(res.Removed), "added", len(res.Added))
	}
	return res
}

func (e *Engine) partial(next []state.Entity, ent state.Entity, from, to geom.Vec, radius float64, res *Result) []state.Entity {
	if !Splittable(ent) {
		return append(next, ent)
	}
	st := ent.(*state.Stroke)
	e.narrow.Add(1)
	frags, cut := Split(st, from, to, EffectiveRadius(radius, st))
	if !cut {
		return append(next, ent)
	}
	res.Removed = append(res.Removed, st.ID)
	for _, f := range frags {
		res.Added = append(res.Added, f.ID)
		next = append(next, f)
	}
	return next
}
