package render

import (
	"image/color"
	"testing"
	"time"

	"InkBoard/internal/erase"
	"InkBoard/internal/geom"
	"InkBoard/internal/ink"
	"InkBoard/internal/state"
)

// call is one Fill or Stroke with the paint state in effect.
type call struct {
	op       string
	color    color.Color
	stops    []Stop
	width    float64
	cap      Cap
	points   int
	subpaths int
	quads    int
	circles  int
}

// recorder is a Surface that records draw calls instead of rasterizing.
type recorder struct {
	color    color.Color
	stops    []Stop
	width    float64
	cap      Cap
	points   int
	subpaths int
	quads    int
	circles  int
	calls    []call
}

func (r *recorder) MoveTo(x, y float64)            { r.points++; r.subpaths++ }
func (r *recorder) LineTo(x, y float64)            { r.points++ }
func (r *recorder) QuadraticTo(_, _, _, _ float64) { r.points++; r.quads++ }
func (r *recorder) Circle(_, _, _ float64)         { r.subpaths++; r.circles++ }
func (r *recorder) ClosePath()                     {}
func (r *recorder) SetColor(c color.Color)         { r.color, r.stops = c, nil }
func (r *recorder) SetLineWidth(w float64)         { r.width = w }
func (r *recorder) SetLineCap(c Cap)               { r.cap = c }
func (r *recorder) SetRoundJoin()                  {}
func (r *recorder) Fill() error                    { r.flush("fill"); return nil }
func (r *recorder) Stroke() error                  { r.flush("stroke"); return nil }

func (r *recorder) SetLinearGradient(_, _ geom.Vec, stops []Stop) {
	r.color, r.stops = nil, stops
}

func (r *recorder) flush(op string) {
	r.calls = append(r.calls, call{op, r.color, r.stops, r.width, r.cap, r.points, r.subpaths, r.quads, r.circles})
	r.points, r.subpaths, r.quads, r.circles = 0, 0, 0, 0
}

func penStroke(n int) *state.Stroke {
	st := &state.Stroke{ID: "s", Kind: state.KindPen, BaseWidth: 4, Color: "#ff0000", Opacity: 1}
	for i := range n {
		st.Points = append(st.Points, state.SampleAt(geom.Pt(float64(i)*5, float64(i%3)), 0.5, time.Time{}))
	}
	return st
}

func TestFinalPenStroke(t *testing.T) {
	var r recorder
	st := penStroke(12)
	if err := Final(&r, st); err != nil {
		t.Fatal(err)
	}
	if len(r.calls) != 2 || r.calls[0].op != "fill" || r.calls[1].op != "stroke" {
		t.Fatalf("calls = %+v, want fill then seal stroke", r.calls)
	}
	if want := 2*(12-2) + 2*ink.CapSamples; r.calls[0].points != want {
		t.Errorf("envelope has %d points, want %d", r.calls[0].points, want)
	}
	if r.calls[1].width != sealWidth {
		t.Errorf("seal width = %v", r.calls[1].width)
	}
	if got := r.calls[0].color; got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("fill colour = %v", got)
	}
}

func TestTranslucentAndPreviewSkipSeal(t *testing.T) {
	var r recorder
	st := penStroke(6)
	st.Opacity = 0.5
	Final(&r, st)
	if len(r.calls) != 1 {
		t.Errorf("translucent stroke made %d calls, want 1", len(r.calls))
	}
	if c := r.calls[0].color.(color.NRGBA); c.A != 128 {
		t.Errorf("alpha = %d, want 128", c.A)
	}

	r = recorder{}
	Preview(&r, penStroke(6))
	if len(r.calls) != 1 {
		t.Errorf("preview made %d calls, want 1", len(r.calls))
	}
}

func TestHighlighter(t *testing.T) {
	var r recorder
	st := penStroke(8)
	st.Kind = state.KindHighlighter
	st.BaseWidth = 16
	st.Opacity = 0.4
	Final(&r, st)
	if len(r.calls) != 1 || r.calls[0].op != "stroke" {
		t.Fatalf("calls = %+v", r.calls)
	}
	c := r.calls[0]
	if c.width != 16 || c.cap != CapButt || c.quads == 0 {
		t.Errorf("highlighter call = %+v", c)
	}
}

func TestPatternedStroke(t *testing.T) {
	var r recorder
	st := penStroke(2)
	st.Points[1] = state.SampleAt(geom.Pt(100, 0), 0.5, time.Time{})
	st.LineStyle = state.LineDashed
	Final(&r, st)
	if len(r.calls) != 1 || r.calls[0].op != "stroke" {
		t.Fatalf("calls = %+v", r.calls)
	}
	// 100 units at dash 12 / gap 8.
	if got := r.calls[0].subpaths; got != 5 {
		t.Errorf("dashes = %d, want 5", got)
	}
	if r.calls[0].cap != CapRound {
		t.Errorf("cap = %v, want round", r.calls[0].cap)
	}
}

func TestRainbowAndBadColour(t *testing.T) {
	var r recorder
	st := penStroke(5)
	st.Color = "rainbow"
	Final(&r, st)
	if len(r.calls[0].stops) != len(rainbowHues) {
		t.Errorf("rainbow stops = %d", len(r.calls[0].stops))
	}
	if r.calls[0].stops[0].Color.(color.NRGBA).R != 255 {
		t.Errorf("first stop = %v, want red", r.calls[0].stops[0].Color)
	}

	r = recorder{}
	st.Color = "not-a-colour"
	Final(&r, st)
	if got := r.calls[0].color; got != (color.NRGBA{A: 255}) {
		t.Errorf("fallback colour = %v, want black", got)
	}
}

func TestFilledStroke(t *testing.T) {
	var r recorder
	st := penStroke(6)
	st.Filled = true
	st.FillColor = "#00ff00"
	Final(&r, st)
	if len(r.calls) != 3 || r.calls[0].op != "fill" || r.calls[0].points != 6 {
		t.Fatalf("calls = %+v", r.calls)
	}
	if r.calls[0].color != (color.NRGBA{G: 255, A: 255}) {
		t.Errorf("fill colour = %v", r.calls[0].color)
	}
}

func TestLineAndArrow(t *testing.T) {
	var r recorder
	l := &state.Line{ID: "l", Kind: state.KindArrow, From: geom.Pt(0, 0), To: geom.Pt(50, 0), Width: 3, Color: "#0000ff"}
	if err := Entity(&r, l); err != nil {
		t.Fatal(err)
	}
	if len(r.calls) != 2 || r.calls[0].op != "stroke" || r.calls[1].op != "fill" || r.calls[1].points != 3 {
		t.Errorf("calls = %+v", r.calls)
	}
	head := ArrowHead(l.From, l.To, 3)
	if head[0] != l.To || head[1].X >= 50 || head[2].X >= 50 || head[1].Y*head[2].Y >= 0 {
		t.Errorf("ArrowHead() = %v", head)
	}

	r = recorder{}
	l.Kind = state.KindLine
	Entity(&r, l)
	if len(r.calls) != 1 {
		t.Errorf("plain line made %d calls", len(r.calls))
	}
}

func TestShape(t *testing.T) {
	var r recorder
	sh := &state.Shape{ID: "h", Shape: state.ShapeHexagon, W: 40, H: 40, Color: "#000000", FillColor: "#ffff00", Width: 2}
	Entity(&r, sh)
	if len(r.calls) != 2 || r.calls[0].op != "fill" || r.calls[1].op != "stroke" || r.calls[1].points != 6 {
		t.Errorf("calls = %+v", r.calls)
	}
}

func TestBoardDrawsLiveLast(t *testing.T) {
	var r recorder
	ents := []state.Entity{
		&state.Line{ID: "l", Kind: state.KindLine, From: geom.Pt(0, 0), To: geom.Pt(10, 0), Color: "#000000"},
	}
	live := penStroke(4)
	live.Color = "#00ff00"
	if err := Board(&r, ents, live); err != nil {
		t.Fatal(err)
	}
	last := r.calls[len(r.calls)-1]
	if last.op != "fill" || last.color != (color.NRGBA{G: 255, A: 255}) {
		t.Errorf("last call = %+v, want the live stroke", last)
	}
}

func TestDrawTrail(t *testing.T) {
	var r recorder
	pts := []erase.FadingPoint{{Pos: geom.Pt(0, 0), Alpha: 1}, {Pos: geom.Pt(4, 0), Alpha: 0.5}}
	DrawTrail(&r, pts, 10, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	if len(r.calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(r.calls))
	}
	if a := r.calls[1].color.(color.NRGBA).A; a != 128 {
		t.Errorf("faded alpha = %d, want 128", a)
	}
	for i, c := range r.calls {
		if c.circles != 1 || c.points != 0 {
			t.Errorf("call %d: %d circles and %d path points, want one circle", i, c.circles, c.points)
		}
	}
}

func TestGGCircle(t *testing.T) {
	g := NewGG(40, 40)
	defer g.Close()
	g.Clear(color.White)
	g.SetColor(color.Black)
	g.Circle(20, 20, 8)
	if err := g.Fill(); err != nil {
		t.Fatalf("Fill() = %v", err)
	}
	img := g.Image()
	if r, _, _, _ := img.At(20, 20).RGBA(); r > 0x1000 {
		t.Errorf("centre pixel = %v, want black", img.At(20, 20))
	}
	if r, _, _, _ := img.At(2, 2).RGBA(); r < 0xf000 {
		t.Errorf("corner pixel = %v, want white", img.At(2, 2))
	}
}

func TestGGSurface(t *testing.T) {
	g := NewGG(64, 64)
	defer g.Close()
	g.Clear(color.White)
	st := &state.Stroke{ID: "s", Kind: state.KindPen, BaseWidth: 6, Color: "#000000", Opacity: 1}
	for i := range 10 {
		st.Points = append(st.Points, state.SampleAt(geom.Pt(8+float64(i)*5, 32), 0.5, time.Time{}))
	}
	if err := Final(g, st); err != nil {
		t.Fatalf("Final() = %v", err)
	}
	img := g.Image()
	r, gr, b, _ := img.At(32, 32).RGBA()
	if r > 0x8000 || gr > 0x8000 || b > 0x8000 {
		t.Errorf("pixel on the stroke = %v, want dark", img.At(32, 32))
	}
	r, gr, b, _ = img.At(32, 5).RGBA()
	if r < 0x8000 || gr < 0x8000 || b < 0x8000 {
		t.Errorf("pixel off the stroke = %v, want light", img.At(32, 5))
	}
}
