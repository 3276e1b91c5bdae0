package render

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"InkBoard/internal/geom"
	"InkBoard/internal/logging"
	"InkBoard/internal/state"
)

const (
	arrowMinLength  = 10
	arrowWidthScale = 4
	arrowHalfAngle  = 25 * math.Pi / 180
)

// Entity draws any board entity.
func Entity(s Surface, e state.Entity) error {
	switch v := e.(type) {
	case *state.Stroke:
		return Final(s, v)
	case *state.Line:
		return Line(s, v)
	case *state.Shape:
		return Shape(s, v)
	}
	return nil
}

// Board draws entities in order, then the live stroke on top. A failing
// entity is logged and skipped; the joined errors are returned.
func Board(s Surface, entities []state.Entity, live *state.Stroke) error {
	var errs []error
	for _, e := range entities {
		if err := Entity(s, e); err != nil {
			logging.Logger().Warn("render: entity failed", "id", e.EntityID(), "err", err)
			errs = append(errs, err)
		}
	}
	if err := Preview(s, live); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Line draws a connector, with a filled head for arrows.
func Line(s Surface, l *state.Line) error {
	pts := l.Polyline()
	w := l.StrokeWidth()
	box := l.Extent()

	paint(s, l.Color, 1, box)
	s.SetLineWidth(w)
	s.SetLineCap(CapRound)
	s.SetRoundJoin()
	polyline(s, pts)
	if err := s.Stroke(); err != nil {
		return err
	}
	if l.Kind != state.KindArrow || len(pts) < 2 {
		return nil
	}
	paint(s, l.Color, 1, box)
	polygon(s, ArrowHead(pts[len(pts)-2], pts[len(pts)-1], w))
	return s.Fill()
}

// ArrowHead returns the head triangle pointing at tip from the direction of
// from.
func ArrowHead(from, tip geom.Vec, width float64) []geom.Vec {
	dir := geom.Unit(r2.Sub(tip, from))
	if dir == (geom.Vec{}) {
		dir = geom.Pt(1, 0)
	}
	length := math.Max(arrowMinLength, arrowWidthScale*width)
	back := r2.Scale(-length, dir)
	return []geom.Vec{
		tip,
		r2.Add(tip, r2.Rotate(back, arrowHalfAngle, geom.Vec{})),
		r2.Add(tip, r2.Rotate(back, -arrowHalfAngle, geom.Vec{})),
	}
}

// Shape fills (when a fill colour is set) and outlines a closed shape.
func Shape(s Surface, sh *state.Shape) error {
	verts := sh.Vertices()
	box := sh.Extent()
	if sh.FillColor != "" {
		paint(s, sh.FillColor, 1, box)
		polygon(s, verts)
		if err := s.Fill(); err != nil {
			return err
		}
	}
	paint(s, sh.Color, 1, box)
	s.SetLineWidth(sh.StrokeWidth())
	s.SetRoundJoin()
	polygon(s, verts)
	return s.Stroke()
}
