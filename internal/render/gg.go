package render

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"

	"InkBoard/internal/geom"
)

// GG is a Surface backed by a gogpu/gg raster context.
type GG struct {
	ctx *gg.Context
}

// NewGG returns a w x h surface cleared to transparent.
func NewGG(w, h int) *GG {
	ctx := gg.NewContext(w, h)
	ctx.SetFillRule(gg.FillRuleNonZero)
	return &GG{ctx: ctx}
}

// View maps board coordinates to pixels: scaled by zoom, then shifted by
// pan.
func (g *GG) View(pan geom.Vec, zoom float64) {
	g.ctx.Identity()
	g.ctx.Translate(pan.X, pan.Y)
	if zoom > 0 {
		g.ctx.Scale(zoom, zoom)
	}
}

// Clear fills the surface with c.
func (g *GG) Clear(c color.Color) {
	g.ctx.ClearWithColor(gg.FromColor(c))
}

func (g *GG) MoveTo(x, y float64)              { g.ctx.MoveTo(x, y) }
func (g *GG) LineTo(x, y float64)              { g.ctx.LineTo(x, y) }
func (g *GG) QuadraticTo(cx, cy, x, y float64) { g.ctx.QuadraticTo(cx, cy, x, y) }
func (g *GG) Circle(cx, cy, r float64)         { g.ctx.DrawCircle(cx, cy, r) }
func (g *GG) ClosePath()                       { g.ctx.ClosePath() }
func (g *GG) SetColor(c color.Color)           { g.ctx.SetColor(c) }
func (g *GG) SetLineWidth(w float64)           { g.ctx.SetLineWidth(w) }
func (g *GG) SetRoundJoin()                    { g.ctx.SetLineJoin(gg.LineJoinRound) }
func (g *GG) Fill() error                      { return g.ctx.Fill() }
func (g *GG) Stroke() error                    { return g.ctx.Stroke() }

func (g *GG) SetLineCap(c Cap) {
	switch c {
	case CapRound:
		g.ctx.SetLineCap(gg.LineCapRound)
	case CapSquare:
		g.ctx.SetLineCap(gg.LineCapSquare)
	default:
		g.ctx.SetLineCap(gg.LineCapButt)
	}
}

func (g *GG) SetLinearGradient(from, to geom.Vec, stops []Stop) {
	b := gg.NewLinearGradientBrush(from.X, from.Y, to.X, to.Y)
	for _, st := range stops {
		b.AddColorStop(st.Offset, gg.FromColor(st.Color))
	}
	g.ctx.SetFillBrush(b)
}

// Image returns the rendered pixels.
func (g *GG) Image() image.Image { return g.ctx.Image() }

// Close releases the context.
func (g *GG) Close() error { return g.ctx.Close() }
