package config

import (
	"fyne.io/fyne/v2"

	"InkBoard/internal/state"
)

const (
	prefWidth          = "ink.base_width"
	prefOpacity        = "ink.opacity"
	prefColor          = "ink.color"
	prefLineStyle      = "ink.line_style"
	prefPressure       = "ink.pressure_enabled"
	prefStabilization  = "ink.stabilization"
	prefDecimation     = "ink.decimation"
	prefEraserMode     = "eraser.mode"
	prefEraserRadius   = "eraser.radius"
	prefHighlightWidth = "highlighter.width"
	prefHighlightAlpha = "highlighter.opacity"
)

// FromPreferences overlays values stored in p on base. Missing keys keep
// base's value.
func FromPreferences(p fyne.Preferences, base Settings) Settings {
	s := Settings{
		BaseWidth:          p.FloatWithFallback(prefWidth, base.BaseWidth),
		Opacity:            p.FloatWithFallback(prefOpacity, base.Opacity),
		Color:              p.StringWithFallback(prefColor, base.Color),
		LineStyle:          state.LineStyle(p.StringWithFallback(prefLineStyle, string(base.LineStyle))),
		PressureEnabled:    p.BoolWithFallback(prefPressure, base.PressureEnabled),
		Stabilization:      p.FloatWithFallback(prefStabilization, base.Stabilization),
		Decimation:         p.FloatWithFallback(prefDecimation, base.Decimation),
		EraserMode:         EraserMode(p.StringWithFallback(prefEraserMode, string(base.EraserMode))),
		EraserRadius:       p.FloatWithFallback(prefEraserRadius, base.EraserRadius),
		HighlighterWidth:   p.FloatWithFallback(prefHighlightWidth, base.HighlighterWidth),
		HighlighterOpacity: p.FloatWithFallback(prefHighlightAlpha, base.HighlighterOpacity),
	}
	s = s.Normalize()
	if s.Validate() != nil {
		return base
	}
	return s
}

// ToPreferences stores s in p.
func ToPreferences(p fyne.Preferences, s Settings) {
	p.SetFloat(prefWidth, s.BaseWidth)
	p.SetFloat(prefOpacity, s.Opacity)
	p.SetString(prefColor, s.Color)
	p.SetString(prefLineStyle, string(s.LineStyle))
	p.SetBool(prefPressure, s.PressureEnabled)
	p.SetFloat(prefStabilization, s.Stabilization)
	p.SetFloat(prefDecimation, s.Decimation)
	p.SetString(prefEraserMode, string(s.EraserMode))
	p.SetFloat(prefEraserRadius, s.EraserRadius)
	p.SetFloat(prefHighlightWidth, s.HighlighterWidth)
	p.SetFloat(prefHighlightAlpha, s.HighlighterOpacity)
}
