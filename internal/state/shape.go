package state

import (
	"math"

	"InkBoard/internal/geom"
)

const (
	ellipseSegments = 72
	starInnerRatio  = 0.4
)

// Vertices returns the closed outline of the shape in board coordinates,
// rotation applied. Unknown shape kinds fall back to the frame rectangle.
func (s *Shape) Vertices() []geom.Vec {
	var pts []geom.Vec
	c := s.Center()
	rx, ry := s.W/2, s.H/2
	switch s.Shape {
	case ShapeEllipse:
		pts = radial(c, rx, ry, ellipseSegments, 0, nil)
	case ShapeTriangle:
		pts = []geom.Vec{
			geom.Pt(c.X, s.Y),
			geom.Pt(s.X+s.W, s.Y+s.H),
			geom.Pt(s.X, s.Y+s.H),
		}
	case ShapeDiamond:
		pts = []geom.Vec{
			geom.Pt(c.X, s.Y),
			geom.Pt(s.X+s.W, c.Y),
			geom.Pt(c.X, s.Y+s.H),
			geom.Pt(s.X, c.Y),
		}
	case ShapeStar:
		pts = radial(c, rx, ry, 10, -math.Pi/2, func(i int) float64 {
			if i%2 == 1 {
				return starInnerRatio
			}
			return 1
		})
	case ShapeHexagon:
		pts = radial(c, rx, ry, 6, 0, nil)
	default:
		pts = []geom.Vec{
			geom.Pt(s.X, s.Y),
			geom.Pt(s.X+s.W, s.Y),
			geom.Pt(s.X+s.W, s.Y+s.H),
			geom.Pt(s.X, s.Y+s.H),
		}
	}
	if s.Rotation != 0 {
		for i, p := range pts {
			pts[i] = geom.RotateAbout(p, c, s.Rotation)
		}
	}
	return pts
}

// radial places n points around c on an ellipse of radii rx, ry starting
// at angle start. scale, if set, shrinks individual points.
func radial(c geom.Vec, rx, ry float64, n int, start float64, scale func(int) float64) []geom.Vec {
	out := make([]geom.Vec, n)
	for i := range out {
		a := start + 2*math.Pi*float64(i)/float64(n)
		k := 1.0
		if scale != nil {
			k = scale(i)
		}
		out[i] = geom.Pt(c.X+k*rx*math.Cos(a), c.Y+k*ry*math.Sin(a))
	}
	return out
}

// Contains reports whether p lies inside the shape.
func (s *Shape) Contains(p geom.Vec) bool {
	return geom.PointInPolygon(p, s.Vertices())
}
