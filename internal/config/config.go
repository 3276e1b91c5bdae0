// Package config holds the drawing settings consumed by the ink and eraser
// tools, loaded from defaults, a TOML file or fyne preferences.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/BurntSushi/toml"

	"InkBoard/internal/logging"
	"InkBoard/internal/state"
)

// ErrInvalidSettings is returned when a settings value cannot be used.
var ErrInvalidSettings = errors.New("invalid settings")

// EraserMode selects whole-entity or split erasing.
type EraserMode string

const (
	EraserObject  EraserMode = "object"
	EraserPartial EraserMode = "partial"
)

// Settings is everything the tools read per pointer event.
type Settings struct {
	BaseWidth          float64         `toml:"base_width"`
	Opacity            float64         `toml:"opacity"`
	Color              string          `toml:"color"`
	LineStyle          state.LineStyle `toml:"line_style"`
	PressureEnabled    bool            `toml:"pressure_enabled"`
	Stabilization      float64         `toml:"stabilization"`
	Decimation         float64         `toml:"decimation"`
	EraserMode         EraserMode      `toml:"eraser_mode"`
	EraserRadius       float64         `toml:"eraser_radius"`
	HighlighterWidth   float64         `toml:"highlighter_width"`
	HighlighterOpacity float64         `toml:"highlighter_opacity"`
}

// Default returns the stock settings.
func Default() Settings {
	return Settings{
		BaseWidth:          3,
		Opacity:            1,
		Color:              "#1e1e1e",
		LineStyle:          state.LineSolid,
		PressureEnabled:    true,
		Stabilization:      0.5,
		Decimation:         0.10,
		EraserMode:         EraserObject,
		EraserRadius:       10,
		HighlighterWidth:   16,
		HighlighterOpacity: 0.4,
	}
}

// Normalize clamps numeric fields into range and fills empty enums. Widths,
// opacities and the eraser radius fall back to their defaults when zero,
// negative or NaN, since none of them can draw anything at zero.
func (s Settings) Normalize() Settings {
	d := Default()
	if !(s.BaseWidth > 0) {
		s.BaseWidth = d.BaseWidth
	}
	if !(s.HighlighterWidth > 0) {
		s.HighlighterWidth = d.HighlighterWidth
	}
	if !(s.EraserRadius > 0) {
		s.EraserRadius = d.EraserRadius
	}
	if !(s.Decimation >= 0) {
		s.Decimation = d.Decimation
	}
	if !(s.Opacity > 0) {
		s.Opacity = d.Opacity
	}
	if !(s.HighlighterOpacity > 0) {
		s.HighlighterOpacity = d.HighlighterOpacity
	}
	s.Opacity = clamp01(s.Opacity)
	s.HighlighterOpacity = clamp01(s.HighlighterOpacity)
	s.Stabilization = clamp01(s.Stabilization)
	if s.LineStyle == "" {
		s.LineStyle = state.LineSolid
	}
	if s.EraserMode == "" {
		s.EraserMode = EraserObject
	}
	if s.Color == "" {
		s.Color = d.Color
	}
	return s
}

// Validate reports unusable enum or colour values.
func (s Settings) Validate() error {
	if _, err := state.ParseLineStyle(string(s.LineStyle)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	switch s.EraserMode {
	case EraserObject, EraserPartial:
	default:
		return fmt.Errorf("%w: unknown eraser mode %q", ErrInvalidSettings, s.EraserMode)
	}
	if _, err := ParseColor(s.Color); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}

// Load reads a TOML settings file on top of Default.
func Load(path string) (Settings, error) {
	s := Default()
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return Default(), fmt.Errorf("could not read settings %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		logging.Logger().Warn("unknown settings key", "path", path, "key", key.String())
	}
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return Default(), err
	}
	return s, nil
}

// Save writes s as TOML.
func Save(path string, s Settings) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create settings file: %w", err)
	}
	return encodeAndClose(f, s)
}

// encodeAndClose writes s to wc and closes it. A failed close is reported
// when the encode itself succeeded.
func encodeAndClose(wc io.WriteCloser, s Settings) (err error) {
	defer func() {
		if cerr := wc.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("could not close settings file: %w", cerr)
		}
	}()
	if err := toml.NewEncoder(wc).Encode(s); err != nil {
		return fmt.Errorf("could not encode settings: %w", err)
	}
	return nil
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
