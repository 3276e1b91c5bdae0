package render

import (
	"errors"

	"InkBoard/internal/geom"
	"InkBoard/internal/ink"
	"InkBoard/internal/state"
)

const (
	// sealWidth is the hairline stroked around opaque envelopes.
	sealWidth     = 0.3
	sealThreshold = 0.95
)

// Final draws a committed stroke.
func Final(s Surface, st *state.Stroke) error {
	return drawStroke(s, st, true)
}

// Preview draws the in-progress stroke. It skips the seal pass.
func Preview(s Surface, st *state.Stroke) error {
	return drawStroke(s, st, false)
}

func drawStroke(s Surface, st *state.Stroke, final bool) error {
	if st == nil || len(st.Points) == 0 {
		return nil
	}
	pts := st.Positions()
	box := st.Extent()

	var errs []error
	if st.Filled && st.FillColor != "" && len(pts) >= 3 {
		paint(s, st.FillColor, st.Opacity, box)
		polygon(s, pts)
		errs = append(errs, s.Fill())
	}
	switch {
	case st.Kind == state.KindHighlighter:
		errs = append(errs, highlight(s, st, pts, box))
	case st.LineStyle != "" && st.LineStyle != state.LineSolid:
		errs = append(errs, patterned(s, st, pts, box))
	default:
		errs = append(errs, envelope(s, st, box, final))
	}
	return errors.Join(errs...)
}

// envelope fills the pressure-sensitive outline.
func envelope(s Surface, st *state.Stroke, box geom.Box, final bool) error {
	outline := ink.Tessellate(st.Points, st.StrokeWidth())
	paint(s, st.Color, st.Opacity, box)
	polygon(s, outline)
	if err := s.Fill(); err != nil {
		return err
	}
	if !final || st.Opacity <= sealThreshold {
		return nil
	}
	paint(s, st.Color, st.Opacity, box)
	s.SetLineWidth(sealWidth)
	s.SetRoundJoin()
	polygon(s, outline)
	return s.Stroke()
}

// highlight strokes the centerline at a constant width with flat ends.
func highlight(s Surface, st *state.Stroke, pts []geom.Vec, box geom.Box) error {
	paint(s, st.Color, st.Opacity, box)
	if len(pts) == 1 {
		polygon(s, ink.Dot(pts[0], st.StrokeWidth()/2))
		return s.Fill()
	}
	s.SetLineWidth(st.StrokeWidth())
	s.SetLineCap(CapButt)
	s.SetRoundJoin()
	midpointCurve(s, pts)
	return s.Stroke()
}

// patterned strokes the dashed, dotted or wavy rendition of the centerline.
func patterned(s Surface, st *state.Stroke, pts []geom.Vec, box geom.Box) error {
	w := st.StrokeWidth()
	paint(s, st.Color, st.Opacity, box)
	if len(pts) == 1 {
		polygon(s, ink.Dot(pts[0], w/2))
		return s.Fill()
	}
	runs := ink.Styled(pts, st.LineStyle, w)
	if len(runs) == 0 {
		return nil
	}
	s.SetLineWidth(w)
	s.SetLineCap(CapRound)
	s.SetRoundJoin()
	for _, r := range runs {
		polyline(s, r)
	}
	return s.Stroke()
}
