package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"InkBoard/internal/config"
	"InkBoard/internal/render"
	"InkBoard/internal/state"
)

// palette is the swatch row, in display order.
var palette = []string{"#1e1e1e", "#e53935", "#43a047", "#1e88e5", "#fdd835", config.Rainbow}

var lineStyles = []string{
	string(state.LineSolid), string(state.LineDashed), string(state.LineDotted),
	string(state.LineDashDot), string(state.LineWavy),
}

type colorSwatch struct {
	widget.BaseWidget
	Color    string
	OnTapped func(string)
}

func newColorSwatch(c string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	var fill fyne.CanvasObject
	if config.IsRainbow(s.Color) {
		stops := render.RainbowStops(1)
		g := canvas.NewHorizontalGradient(stops[0].Color, stops[len(stops)-1].Color)
		g.SetMinSize(fyne.NewSize(32, 32))
		fill = g
	} else {
		c, err := config.ParseColor(s.Color)
		if err != nil {
			c = color.NRGBA{A: 255}
		}
		rect := canvas.NewRectangle(c)
		rect.SetMinSize(fyne.NewSize(32, 32))
		fill = rect
	}

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(fill, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// Toolbar edits the board widget's tool and settings. Every change is
// written back to prefs when set.
type Toolbar struct {
	board *BoardWidget
	prefs fyne.Preferences

	Width      *widget.Slider
	Style      *widget.Select
	EraserMode *widget.Check
}

// update applies fn to the board settings and persists them.
func (t *Toolbar) update(fn func(*config.Settings)) {
	s := t.board.Settings()
	fn(&s)
	t.board.SetSettings(s)
	if t.prefs != nil {
		config.ToPreferences(t.prefs, t.board.Settings())
	}
}

// NewToolbar builds the tool row for board. prefs may be nil.
func NewToolbar(board *BoardWidget, prefs fyne.Preferences) *Toolbar {
	t := &Toolbar{board: board, prefs: prefs}
	cur := board.Settings()

	t.Width = widget.NewSlider(1.0, 50.0)
	t.Width.SetValue(cur.BaseWidth)
	t.Width.OnChanged = func(val float64) {
		t.update(func(s *config.Settings) {
			if board.Tool() == ToolHighlighter {
				s.HighlighterWidth = val
			} else {
				s.BaseWidth = val
			}
		})
	}

	t.Style = widget.NewSelect(lineStyles, func(v string) {
		t.update(func(s *config.Settings) { s.LineStyle = state.LineStyle(v) })
	})
	t.Style.SetSelected(string(cur.LineStyle))

	t.EraserMode = widget.NewCheck("Split strokes", func(on bool) {
		t.update(func(s *config.Settings) {
			s.EraserMode = config.EraserObject
			if on {
				s.EraserMode = config.EraserPartial
			}
		})
	})
	t.EraserMode.SetChecked(cur.EraserMode == config.EraserPartial)
	return t
}

// SelectTool switches board to tool and moves the width slider to the
// width that tool draws with.
func (t *Toolbar) SelectTool(tool Tool) {
	t.board.SetTool(tool)
	s := t.board.Settings()
	w := s.BaseWidth
	if tool == ToolHighlighter {
		w = s.HighlighterWidth
	}
	if tool != ToolEraser {
		t.Width.SetValue(w)
	}
}

// SelectColor sets the ink colour and leaves the eraser.
func (t *Toolbar) SelectColor(c string) {
	t.update(func(s *config.Settings) { s.Color = c })
	if t.board.Tool() == ToolEraser {
		t.SelectTool(ToolPen)
	}
}

// Object assembles the toolbar widgets.
func (t *Toolbar) Object() fyne.CanvasObject {
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() { t.SelectTool(ToolPen) }),
		widget.NewToolbarAction(theme.ColorPaletteIcon(), func() { t.SelectTool(ToolHighlighter) }),
		widget.NewToolbarAction(theme.DeleteIcon(), func() { t.SelectTool(ToolEraser) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomFitIcon(), t.board.ResetView),
	)

	swatches := make([]fyne.CanvasObject, 0, len(palette))
	for _, c := range palette {
		swatches = append(swatches, newColorSwatch(c, t.SelectColor))
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), t.Width)

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		tb,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		container.NewHBox(swatches...),
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		t.Style,
		t.EraserMode,
		layout.NewSpacer(),
	)
}
