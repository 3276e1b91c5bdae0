package erase

import (
	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

// EffectiveRadius is the eraser radius plus half the entity's stroke width.
func EffectiveRadius(radius float64, e state.Entity) float64 {
	return radius + e.StrokeWidth()/2
}

// polylineHits reports whether any segment of pts passes within eff of the
// swept segment from-to. A single point is tested on its own.
func polylineHits(pts []geom.Vec, from, to geom.Vec, eff float64) bool {
	switch len(pts) {
	case 0:
		return false
	case 1:
		return geom.PointToSegmentDistance(pts[0], from, to) <= eff
	}
	for i := 1; i < len(pts); i++ {
		if geom.SegmentToSegmentDistance(pts[i-1], pts[i], from, to) <= eff {
			return true
		}
	}
	return false
}

// hit runs the narrow-phase test for one entity.
func (e *Engine) hit(ent state.Entity, from, to geom.Vec, radius float64) bool {
	eff := EffectiveRadius(radius, ent)
	switch v := ent.(type) {
	case *state.Stroke:
		return polylineHits(v.Positions(), from, to, eff)
	case *state.Line:
		return polylineHits(v.Polyline(), from, to, eff)
	case *state.Shape:
		if e.Shapes.Contains(v, from) || e.Shapes.Contains(v, to) {
			return true
		}
		verts := e.Shapes.Vertices(v)
		for i := range verts {
			a, b := verts[i], verts[(i+1)%len(verts)]
			if geom.SegmentToSegmentDistance(a, b, from, to) <= eff {
				return true
			}
		}
		return false
	}
	return false
}
