// Package export writes boards to PDF. Entities go through the same
// render pipeline as the screen, onto a gofpdf-backed surface, so pen
// strokes land in the document as their filled envelopes.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"
	"gonum.org/v1/gonum/spatial/r2"

	"InkBoard/internal/geom"
	"InkBoard/internal/logging"
	"InkBoard/internal/render"
	"InkBoard/internal/state"
)

// ErrNoEntities is returned when exporting an empty board.
var ErrNoEntities = errors.New("nothing to export")

// pageMargin is 10 mm in points.
const pageMargin = 28.35

// PDF writes entities onto one A4 page, scaled to fit inside the margins.
// Wide boards get a landscape page.
func PDF(w io.Writer, entities []state.Entity) error {
	if len(entities) == 0 {
		return ErrNoEntities
	}
	box := geom.EmptyBox()
	for _, e := range entities {
		box = geom.Union(box, e.Extent())
	}
	orientation := "P"
	if size := box.Size(); size.X > size.Y {
		orientation = "L"
	}

	pdf := gofpdf.New(orientation, "pt", "A4", "")
	pdf.SetTitle("InkBoard", true)
	pdf.AddPage()
	pw, ph := pdf.GetPageSize()
	s := newSurface(pdf, fitBox(box, pw, ph))

	var errs []error
	for _, e := range entities {
		if err := render.Entity(s, e); err != nil {
			logging.Logger().Warn("export: entity failed", "id", e.EntityID(), "err", err)
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	logging.Logger().Info("export: wrote pdf", "entities", len(entities), "orientation", orientation)
	return nil
}

// WriteFile exports entities to a PDF file at path.
func WriteFile(path string, entities []state.Entity) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return PDF(f, entities)
}

// fit maps board coordinates onto the page.
type fit struct {
	origin geom.Vec
	offset geom.Vec
	scale  float64
}

func fitBox(box geom.Box, pw, ph float64) fit {
	size := box.Size()
	availW, availH := pw-2*pageMargin, ph-2*pageMargin
	scale := 1.0
	if size.X > 0 && size.Y > 0 {
		scale = min(availW/size.X, availH/size.Y)
	}
	return fit{
		origin: box.Min,
		scale:  scale,
		offset: geom.Pt(pageMargin+(availW-size.X*scale)/2, pageMargin+(availH-size.Y*scale)/2),
	}
}

func (f fit) apply(p geom.Vec) geom.Vec {
	return r2.Add(f.offset, r2.Scale(f.scale, r2.Sub(p, f.origin)))
}

// pathOp is one buffered path command. Paths are replayed on Fill and
// Stroke because gradient bands clip between path construction and paint.
type pathOp struct {
	kind byte // 'M', 'L', 'Q', 'C' or 'Z'
	ctrl geom.Vec
	to   geom.Vec
	r    float64
}

// band is one solid slice of a gradient, clipped to strip.
type band struct {
	strip []gofpdf.PointType
	color color.NRGBA
}

// surface is a render.Surface over a gofpdf page.
type surface struct {
	pdf   *gofpdf.Fpdf
	fit   fit
	path  []pathOp
	color color.NRGBA
	bands []band
	width float64
	cap   string
	join  string
}

func newSurface(pdf *gofpdf.Fpdf, f fit) *surface {
	return &surface{pdf: pdf, fit: f, color: color.NRGBA{A: 255}, width: 1, cap: "butt", join: "miter"}
}

func (s *surface) MoveTo(x, y float64) {
	s.path = append(s.path, pathOp{kind: 'M', to: s.fit.apply(geom.Pt(x, y))})
}

func (s *surface) LineTo(x, y float64) {
	s.path = append(s.path, pathOp{kind: 'L', to: s.fit.apply(geom.Pt(x, y))})
}

func (s *surface) QuadraticTo(cx, cy, x, y float64) {
	s.path = append(s.path, pathOp{kind: 'Q', ctrl: s.fit.apply(geom.Pt(cx, cy)), to: s.fit.apply(geom.Pt(x, y))})
}

func (s *surface) Circle(cx, cy, r float64) {
	s.path = append(s.path, pathOp{kind: 'C', to: s.fit.apply(geom.Pt(cx, cy)), r: r * s.fit.scale})
}

func (s *surface) ClosePath() { s.path = append(s.path, pathOp{kind: 'Z'}) }

func (s *surface) SetColor(c color.Color) {
	s.color = color.NRGBAModel.Convert(c).(color.NRGBA)
	s.bands = nil
}

func (s *surface) SetLineWidth(w float64) { s.width = w }
func (s *surface) SetRoundJoin()          { s.join = "round" }

func (s *surface) SetLineCap(c render.Cap) {
	switch c {
	case render.CapRound:
		s.cap = "round"
	case render.CapSquare:
		s.cap = "square"
	default:
		s.cap = "butt"
	}
}

// SetLinearGradient approximates the gradient with one solid band per stop
// interval, each coloured with the interval's midpoint. The outer bands
// reach past the axis ends so padded outlines stay covered.
func (s *surface) SetLinearGradient(from, to geom.Vec, stops []render.Stop) {
	s.bands = nil
	if len(stops) == 0 {
		return
	}
	f, t := s.fit.apply(from), s.fit.apply(to)
	d := r2.Sub(t, f)
	reach := r2.Norm(d)
	if len(stops) == 1 || reach == 0 {
		s.SetColor(stops[0].Color)
		return
	}
	n := r2.Scale(reach, geom.Perp(geom.Unit(d)))
	for i := 0; i < len(stops)-1; i++ {
		lo, hi := stops[i].Offset, stops[i+1].Offset
		if i == 0 {
			lo = -0.5
		}
		if i == len(stops)-2 {
			hi = 1.5
		}
		a := r2.Add(f, r2.Scale(lo, d))
		b := r2.Add(f, r2.Scale(hi, d))
		s.bands = append(s.bands, band{
			strip: []gofpdf.PointType{
				point(r2.Add(a, n)), point(r2.Add(b, n)),
				point(r2.Sub(b, n)), point(r2.Sub(a, n)),
			},
			color: mix(stops[i].Color, stops[i+1].Color),
		})
	}
}

func (s *surface) Fill() error   { return s.draw("F") }
func (s *surface) Stroke() error { return s.draw("D") }

func (s *surface) draw(style string) error {
	defer func() { s.path = s.path[:0] }()
	if len(s.path) == 0 {
		return s.pdf.Error()
	}
	if s.bands == nil {
		s.paint(s.color, style)
		s.replay()
		s.pdf.DrawPath(style)
		return s.pdf.Error()
	}
	for _, b := range s.bands {
		s.pdf.ClipPolygon(b.strip, false)
		s.paint(b.color, style)
		s.replay()
		s.pdf.DrawPath(style)
		s.pdf.ClipEnd()
	}
	return s.pdf.Error()
}

func (s *surface) paint(c color.NRGBA, style string) {
	if style == "F" {
		s.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	} else {
		s.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
		s.pdf.SetLineWidth(s.width * s.fit.scale)
		s.pdf.SetLineCapStyle(s.cap)
		s.pdf.SetLineJoinStyle(s.join)
	}
	s.pdf.SetAlpha(float64(c.A)/255, "Normal")
}

func (s *surface) replay() {
	for _, op := range s.path {
		switch op.kind {
		case 'M':
			s.pdf.MoveTo(op.to.X, op.to.Y)
		case 'L':
			s.pdf.LineTo(op.to.X, op.to.Y)
		case 'Q':
			s.pdf.CurveTo(op.ctrl.X, op.ctrl.Y, op.to.X, op.to.Y)
		case 'C':
			s.pdf.MoveTo(op.to.X+op.r, op.to.Y)
			s.pdf.ArcTo(op.to.X, op.to.Y, op.r, op.r, 0, 0, 360)
			s.pdf.ClosePath()
		case 'Z':
			s.pdf.ClosePath()
		}
	}
}

func point(v geom.Vec) gofpdf.PointType { return gofpdf.PointType{X: v.X, Y: v.Y} }

func mix(a, b color.Color) color.NRGBA {
	ca := color.NRGBAModel.Convert(a).(color.NRGBA)
	cb := color.NRGBAModel.Convert(b).(color.NRGBA)
	avg := func(x, y uint8) uint8 { return uint8((int(x) + int(y) + 1) / 2) }
	return color.NRGBA{R: avg(ca.R, cb.R), G: avg(ca.G, cb.G), B: avg(ca.B, cb.B), A: avg(ca.A, cb.A)}
}
