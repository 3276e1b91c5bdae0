package render

import (
	"image/color"

	"InkBoard/internal/erase"
)

// DrawTrail paints the fading eraser cursor: one disc of the eraser radius
// per trail point, its alpha following the point's remaining life.
func DrawTrail(s Surface, pts []erase.FadingPoint, radius float64, c color.Color) error {
	base := color.NRGBAModel.Convert(c).(color.NRGBA)
	for _, p := range pts {
		s.SetColor(withAlpha(base, p.Alpha))
		s.Circle(p.Pos.X, p.Pos.Y, radius)
		if err := s.Fill(); err != nil {
			return err
		}
	}
	return nil
}
