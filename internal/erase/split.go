package erase

import (
	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

// Splittable reports whether partial erasing applies to e.
func Splittable(e state.Entity) bool {
	st, ok := e.(*state.Stroke)
	return ok && (st.Kind == state.KindPen || st.Kind == state.KindHighlighter)
}

// Split cuts st around the eraser swept from-to with effective radius eff.
// A point is cut when it lies within eff of the swept segment, or when the
// segment reaching it from a surviving point passes within eff of the
// sweep.
// Surviving runs of two or more points become fragments with fresh ids. If
// no point is cut, cut is false and st should be kept as is.
func Split(st *state.Stroke, from, to geom.Vec, eff float64) (fragments []*state.Stroke, cut bool) {
	var run []state.Sample
	flush := func() {
		if len(run) >= 2 {
			fragments = append(fragments, st.Fragment(state.NewID(), run))
		}
		run = nil
	}

	prevCut := false
	for i, p := range st.Points {
		pos := p.Pos()
		hit := geom.PointToSegmentDistance(pos, from, to) <= eff
		if !hit && i > 0 && !prevCut {
			prev := st.Points[i-1].Pos()
			hit = geom.LineSegmentIntersectsCircle(prev, pos, to, eff) ||
				geom.SegmentToSegmentDistance(prev, pos, from, to) <= eff
		}
		if hit {
			cut = true
			flush()
		} else {
			run = append(run, p)
		}
		prevCut = hit
	}
	if !cut {
		return nil, false
	}
	flush()
	return fragments, true
}
