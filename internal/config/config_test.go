package config

import (
	"bytes"
	"errors"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"

	"InkBoard/internal/state"
)

func TestDefaultIsValid(t *testing.T) {
	d := Default()
	if err := d.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if d.Decimation != 0.10 {
		t.Errorf("Decimation = %v, want 0.10", d.Decimation)
	}
}

func TestNormalize(t *testing.T) {
	s := Settings{BaseWidth: -1, Opacity: 3, Stabilization: -0.5, Decimation: -1}.Normalize()
	d := Default()
	if s.BaseWidth != d.BaseWidth {
		t.Errorf("BaseWidth = %v, want %v", s.BaseWidth, d.BaseWidth)
	}
	if s.Opacity != 1 || s.Stabilization != 0 {
		t.Errorf("Opacity/Stabilization = %v/%v, want 1/0", s.Opacity, s.Stabilization)
	}
	if s.Decimation != d.Decimation {
		t.Errorf("Decimation = %v, want %v", s.Decimation, d.Decimation)
	}
	if s.LineStyle != state.LineSolid || s.EraserMode != EraserObject {
		t.Errorf("enums = %q/%q", s.LineStyle, s.EraserMode)
	}
}

func TestNormalizeZeroOpacity(t *testing.T) {
	d := Default()
	tests := []struct {
		name       string
		in         float64
		want       float64
		highlight  float64
		wantHilite float64
	}{
		{"zero falls back", 0, d.Opacity, 0, d.HighlighterOpacity},
		{"negative falls back", -0.2, d.Opacity, -1, d.HighlighterOpacity},
		{"NaN falls back", math.NaN(), d.Opacity, math.NaN(), d.HighlighterOpacity},
		{"in range kept", 0.25, 0.25, 0.7, 0.7},
		{"above one clamped", 2, 1, 5, 1},
	}
	for _, tt := range tests {
		s := d
		s.Opacity, s.HighlighterOpacity = tt.in, tt.highlight
		s = s.Normalize()
		if s.Opacity != tt.want || s.HighlighterOpacity != tt.wantHilite {
			t.Errorf("%s: opacities = %v/%v, want %v/%v", tt.name, s.Opacity, s.HighlighterOpacity, tt.want, tt.wantHilite)
		}
	}
}

type failingCloser struct {
	bytes.Buffer
	err error
}

func (f *failingCloser) Close() error { return f.err }

func TestSaveReportsCloseError(t *testing.T) {
	errDisk := errors.New("disk full")
	wc := &failingCloser{err: errDisk}
	if err := encodeAndClose(wc, Default()); !errors.Is(err, errDisk) {
		t.Errorf("encodeAndClose() = %v, want the close error", err)
	}
	if wc.Len() == 0 {
		t.Error("nothing was encoded before closing")
	}
	if err := encodeAndClose(&failingCloser{}, Default()); err != nil {
		t.Errorf("encodeAndClose() = %v, want nil", err)
	}
}

func TestSaveToMissingDir(t *testing.T) {
	if err := Save(filepath.Join(t.TempDir(), "no", "such", "ink.toml"), Default()); err == nil {
		t.Error("Save() into a missing directory should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"line style", func(s *Settings) { s.LineStyle = "zigzag" }},
		{"eraser mode", func(s *Settings) { s.EraserMode = "vacuum" }},
		{"colour", func(s *Settings) { s.Color = "#12" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("Validate() = %v, want ErrInvalidSettings", err)
			}
		})
	}
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ink.toml")
	body := `
base_width = 6.5
color = "rainbow"
line_style = "dashed"
eraser_mode = "partial"
stabilization = 0.8
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if s.BaseWidth != 6.5 || s.Color != Rainbow || s.LineStyle != state.LineDashed ||
		s.EraserMode != EraserPartial || s.Stabilization != 0.8 {
		t.Errorf("Load() = %+v", s)
	}
	if s.Decimation != 0.10 {
		t.Errorf("unset Decimation = %v, want default", s.Decimation)
	}

	out := filepath.Join(dir, "out.toml")
	if err := Save(out, s); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	back, err := Load(out)
	if err != nil {
		t.Fatalf("Load(saved) = %v", err)
	}
	if back != s {
		t.Errorf("reloaded = %+v, want %+v", back, s)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load(missing) should fail")
	}
	path := filepath.Join(t.TempDir(), "bad.toml")
	os.WriteFile(path, []byte(`eraser_mode = "vacuum"`), 0o644)
	if _, err := Load(path); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("Load(bad mode) = %v, want ErrInvalidSettings", err)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	p := a.Preferences()

	want := Default()
	want.BaseWidth = 9
	want.Color = "#ff0000"
	want.EraserMode = EraserPartial
	want.PressureEnabled = false
	ToPreferences(p, want)

	if got := FromPreferences(p, Default()); got != want {
		t.Errorf("FromPreferences() = %+v, want %+v", got, want)
	}
}

func TestFromPreferencesRejectsGarbage(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	p := a.Preferences()
	p.SetString(prefLineStyle, "zigzag")
	base := Default()
	if got := FromPreferences(p, base); got != base {
		t.Errorf("FromPreferences() = %+v, want base", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#ff0000", color.NRGBA{R: 255, A: 255}},
		{"#0f0", color.NRGBA{G: 255, A: 255}},
		{"#0000ff80", color.NRGBA{B: 255, A: 128}},
		{"Blue", color.NRGBA{B: 255, A: 255}},
		{"rainbow", color.NRGBA{A: 255}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseColor(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	for _, bad := range []string{"", "ff0000", "#ggg", "#12345"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) should fail", bad)
		}
	}
	if got := FormatColor(color.NRGBA{R: 1, G: 2, B: 3, A: 255}); got != "#010203" {
		t.Errorf("FormatColor() = %q", got)
	}
}
