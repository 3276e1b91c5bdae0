package render

import (
	"image/color"
	"math"

	"github.com/gogpu/gg"

	"InkBoard/internal/config"
	"InkBoard/internal/geom"
	"InkBoard/internal/logging"
)

// rainbowHues are the gradient hues in degrees, red through violet.
var rainbowHues = []float64{0, 30, 60, 120, 200, 260, 300}

// RainbowStops returns the rainbow gradient at the given opacity.
func RainbowStops(opacity float64) []Stop {
	out := make([]Stop, len(rainbowHues))
	for i, h := range rainbowHues {
		c := gg.HSL(h, 1, 0.5)
		c.A = geom.Clamp01(opacity)
		out[i] = Stop{Offset: float64(i) / float64(len(rainbowHues)-1), Color: c.Color()}
	}
	return out
}

// withAlpha scales c's alpha by opacity.
func withAlpha(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * geom.Clamp01(opacity)))
	return c
}

// paint selects the brush for col. The rainbow sentinel becomes a
// gradient across box, so each stroke carries its own full spectrum.
func paint(s Surface, col string, opacity float64, box geom.Box) {
	if config.IsRainbow(col) {
		if geom.IsEmpty(box) {
			box = geom.Box{}
		}
		box = geom.Pad(box, 1)
		s.SetLinearGradient(box.Min, box.Max, RainbowStops(opacity))
		return
	}
	c, err := config.ParseColor(col)
	if err != nil {
		logging.Logger().Warn("render: unusable colour, drawing black", "color", col, "err", err)
		c = color.NRGBA{A: 255}
	}
	s.SetColor(withAlpha(c, opacity))
}
