package ui

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"gonum.org/v1/gonum/spatial/r2"

	"InkBoard/internal/config"
	"InkBoard/internal/erase"
	"InkBoard/internal/geom"
	"InkBoard/internal/ink"
	"InkBoard/internal/logging"
	"InkBoard/internal/render"
	"InkBoard/internal/state"
)

// Tool selects what the primary button does on the board.
type Tool int

const (
	ToolPen Tool = iota
	ToolHighlighter
	ToolEraser
)

func (t Tool) String() string {
	switch t {
	case ToolHighlighter:
		return "highlighter"
	case ToolEraser:
		return "eraser"
	}
	return "pen"
}

const (
	minZoom  = 0.1
	maxZoom  = 8
	zoomStep = 1.1
)

var (
	paperColor = color.NRGBA{R: 250, G: 250, B: 248, A: 255}
	trailColor = color.NRGBA{R: 150, G: 150, B: 150, A: 160}
)

// fyneClock runs timer callbacks on the fyne main goroutine.
type fyneClock struct{}

func (fyneClock) Now() time.Time { return time.Now() }

func (fyneClock) AfterFunc(d time.Duration, f func()) ink.Timer {
	return time.AfterFunc(d, func() { fyne.Do(f) })
}

// BoardWidget is the drawing surface. Primary-button input goes to the
// active tool, secondary-button drags pan and the scroll wheel zooms about
// the pointer. The board is painted through the gg renderer into a raster.
type BoardWidget struct {
	widget.BaseWidget
	Board         *state.Board
	LocalClientID string
	OnStatus      func(text string)

	mu          sync.Mutex
	tool        Tool
	settings    config.Settings
	pen         *ink.Pen
	highlighter *ink.Pen
	eraser      *erase.Eraser
	pan         geom.Vec
	zoom        float64
	panning     bool
	fade        *time.Timer

	raster *canvas.Raster
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

// NewBoardWidget returns a widget drawing on board as owner.
func NewBoardWidget(board *state.Board, owner string) *BoardWidget {
	b := &BoardWidget{
		Board:         board,
		LocalClientID: owner,
		settings:      config.Default(),
		zoom:          1,
	}
	b.pen = ink.NewPen(state.KindPen, owner, fyneClock{})
	b.highlighter = ink.NewPen(state.KindHighlighter, owner, fyneClock{})
	b.pen.OnRepaint = b.Refresh
	b.highlighter.OnRepaint = b.Refresh
	b.eraser = erase.NewEraser(erase.NewEngine(board, nil))
	b.raster = canvas.NewRaster(b.draw)

	board.OnChange = func() { fyne.Do(b.Refresh) }
	b.ExtendBaseWidget(b)
	return b
}

// SetLocalClientID changes the owner stamped on new strokes.
func (b *BoardWidget) SetLocalClientID(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.LocalClientID = id
	b.pen.Owner = id
	b.highlighter.Owner = id
}

// SetStatus reports text through OnStatus.
func (b *BoardWidget) SetStatus(text string) {
	if b.OnStatus != nil {
		fyne.Do(func() { b.OnStatus(text) })
	}
}

// Settings returns the current tool settings.
func (b *BoardWidget) Settings() config.Settings {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.settings
}

// SetSettings replaces the tool settings.
func (b *BoardWidget) SetSettings(s config.Settings) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settings = s.Normalize()
}

// Tool returns the active tool.
func (b *BoardWidget) Tool() Tool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tool
}

// SetTool switches tools, committing any stroke in progress.
func (b *BoardWidget) SetTool(t Tool) {
	b.commit(b.activePen().Cancel())
	b.eraser.PointerUp()
	b.mu.Lock()
	b.tool = t
	b.mu.Unlock()
	logging.Logger().Debug("ui: tool selected", "tool", t)
	b.Refresh()
}

// Zoom returns the current zoom factor.
func (b *BoardWidget) Zoom() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.zoom
}

// ResetView restores zoom 1 with no pan.
func (b *BoardWidget) ResetView() {
	b.mu.Lock()
	b.pan, b.zoom = geom.Vec{}, 1
	b.mu.Unlock()
	b.Refresh()
}

// ClearMine removes every entity this participant drew.
func (b *BoardWidget) ClearMine() int {
	b.mu.Lock()
	owner := b.LocalClientID
	b.mu.Unlock()
	return b.Board.Clear(owner)
}

func (b *BoardWidget) activePen() *ink.Pen {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.tool == ToolHighlighter {
		return b.highlighter
	}
	return b.pen
}

// toBoard converts a widget position to board coordinates.
func (b *BoardWidget) toBoard(p fyne.Position) geom.Vec {
	b.mu.Lock()
	defer b.mu.Unlock()
	return r2.Scale(1/b.zoom, r2.Sub(geom.Pt(float64(p.X), float64(p.Y)), b.pan))
}

func (b *BoardWidget) commit(st *state.Stroke) {
	if st == nil || len(st.Points) == 0 {
		return
	}
	b.Board.Add(st)
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonSecondary {
		b.mu.Lock()
		b.panning = true
		b.mu.Unlock()
		return
	}
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	pos := b.toBoard(e.Position)
	cfg := b.Settings()
	if b.Tool() == ToolEraser {
		b.eraser.PointerDown(pos, cfg, time.Now())
		b.scheduleFade()
	} else {
		b.activePen().PointerDown(pos, 0, cfg)
	}
	b.Refresh()
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	b.mu.Lock()
	b.panning = false
	b.mu.Unlock()
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	if b.Tool() == ToolEraser {
		b.eraser.PointerUp()
		return
	}
	b.commit(b.activePen().PointerUp(b.toBoard(e.Position), 0, b.Settings()))
	b.Refresh()
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.mu.Lock()
	if b.panning {
		b.pan = r2.Add(b.pan, geom.Pt(float64(e.Dragged.DX), float64(e.Dragged.DY)))
		b.mu.Unlock()
		b.Refresh()
		return
	}
	zoom := b.zoom
	b.mu.Unlock()

	pos := b.toBoard(e.Position)
	if b.Tool() == ToolEraser {
		res := b.eraser.PointerMove(pos, b.Settings(), time.Now())
		if !res.Empty() {
			logging.Logger().Debug("ui: erased", "removed", len(res.Removed), "added", len(res.Added))
		}
		b.scheduleFade()
		b.Refresh()
		return
	}
	if b.activePen().PointerMove(pos, 0, b.Settings(), zoom) {
		b.Refresh()
	}
}

func (b *BoardWidget) DragEnd() {}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	if b.Tool() != ToolEraser {
		return
	}
	b.eraser.PointerMove(b.toBoard(e.Position), b.Settings(), time.Now())
	b.scheduleFade()
	b.Refresh()
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}

// MouseOut ends a stroke whose pointer left the board.
func (b *BoardWidget) MouseOut() {
	if b.Tool() == ToolEraser {
		b.eraser.PointerUp()
		return
	}
	b.commit(b.activePen().Cancel())
	b.Refresh()
}

// Scrolled zooms about the pointer.
func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	if e.Scrolled.DY == 0 {
		return
	}
	b.mu.Lock()
	factor := zoomStep
	if e.Scrolled.DY < 0 {
		factor = 1 / zoomStep
	}
	next := math.Max(minZoom, math.Min(maxZoom, b.zoom*factor))
	at := geom.Pt(float64(e.Position.X), float64(e.Position.Y))
	// Keep the board point under the pointer fixed.
	b.pan = r2.Add(at, r2.Scale(next/b.zoom, r2.Sub(b.pan, at)))
	b.zoom = next
	b.mu.Unlock()
	b.Refresh()
}

// scheduleFade repaints once the trail has faded out.
func (b *BoardWidget) scheduleFade() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fade != nil {
		b.fade.Stop()
	}
	b.fade = time.AfterFunc(b.eraser.Trail.Lifetime, func() { fyne.Do(b.Refresh) })
}

// draw renders the board at w x h pixels.
func (b *BoardWidget) draw(w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if w <= 0 || h <= 0 {
		return out
	}
	b.mu.Lock()
	scale := 1.0
	if size := b.Size(); size.Width > 0 {
		scale = float64(w) / float64(size.Width)
	}
	pan, zoom, tool := r2.Scale(scale, b.pan), b.zoom*scale, b.tool
	radius := b.settings.EraserRadius
	b.mu.Unlock()

	g := render.NewGG(w, h)
	defer g.Close()
	g.Clear(paperColor)
	g.View(pan, zoom)

	var live *state.Stroke
	if tool != ToolEraser {
		live = b.activePen().Live()
	}
	if err := render.Board(g, b.Board.Entities(), live); err != nil {
		logging.Logger().Warn("ui: board render incomplete", "err", err)
	}
	if tool == ToolEraser {
		b.drawTrail(g, radius)
	}
	draw.Draw(out, out.Bounds(), g.Image(), image.Point{}, draw.Src)
	return out
}

// drawTrail paints the eraser cursor trail onto s.
func (b *BoardWidget) drawTrail(s render.Surface, radius float64) {
	if err := render.DrawTrail(s, b.eraser.Trail.Visible(time.Now()), radius, trailColor); err != nil {
		logging.Logger().Warn("ui: trail render failed", "err", err)
	}
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return &boardWidgetRenderer{board: b}
}

type boardWidgetRenderer struct {
	board *BoardWidget
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.board.raster}
}

func (r *boardWidgetRenderer) Refresh() {
	r.board.raster.Refresh()
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.board.raster.Resize(size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Destroy() {}
