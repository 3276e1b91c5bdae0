// Package render draws board entities onto a vector Surface. The ink
// pipeline produces geometry; this package decides how it is painted:
// filled envelopes for pen strokes, fixed-width centerlines for
// highlighters, dash and wave patterns, and the rainbow gradient.
package render

import (
	"image/color"

	"InkBoard/internal/geom"
)

// Cap is a line cap style.
type Cap int

const (
	CapButt Cap = iota
	CapRound
	CapSquare
)

// Stop is a gradient colour stop at offset in [0, 1].
type Stop struct {
	Offset float64
	Color  color.Color
}

// Surface is the path-based drawing target. Fill and Stroke consume the
// current path. Dash patterns and the view transform are not part of it:
// dashes are cut into separate subpaths before they reach a Surface, and
// the transform is fixed per frame by the owner of the backend.
type Surface interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticTo(cx, cy, x, y float64)
	// Circle adds a closed circle of radius r around (cx, cy) as its own
	// subpath.
	Circle(cx, cy, r float64)
	ClosePath()

	SetColor(c color.Color)
	SetLinearGradient(from, to geom.Vec, stops []Stop)
	SetLineWidth(w float64)
	SetLineCap(c Cap)
	SetRoundJoin()

	Fill() error
	Stroke() error
}

func polygon(s Surface, pts []geom.Vec) {
	if len(pts) == 0 {
		return
	}
	s.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		s.LineTo(p.X, p.Y)
	}
	s.ClosePath()
}

func polyline(s Surface, pts []geom.Vec) {
	if len(pts) == 0 {
		return
	}
	s.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		s.LineTo(p.X, p.Y)
	}
}

// midpointCurve traces pts with quadratic segments through segment
// midpoints, using each interior point as the control point.
func midpointCurve(s Surface, pts []geom.Vec) {
	switch len(pts) {
	case 0:
		return
	case 1, 2:
		polyline(s, pts)
		return
	}
	s.MoveTo(pts[0].X, pts[0].Y)
	for i := 1; i < len(pts)-1; i++ {
		m := geom.Lerp(pts[i], pts[i+1], 0.5)
		s.QuadraticTo(pts[i].X, pts[i].Y, m.X, m.Y)
	}
	last := pts[len(pts)-1]
	s.LineTo(last.X, last.Y)
}
