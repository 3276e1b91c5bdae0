// Package geom provides the pure geometric helpers used by ink capture,
// tessellation and erasing. Every function is side-effect free; degenerate
// input (zero-length segments, parallel lines, collinear triangles) resolves
// to a documented fallback instead of an error.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a point or displacement in board coordinates.
type Vec = r2.Vec

// Pt is a convenience constructor for Vec.
func Pt(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// SquaredDistance returns the squared distance between a and b. Use it on
// comparison paths where the square root is not needed.
func SquaredDistance(a, b Vec) float64 {
	return r2.Norm2(r2.Sub(a, b))
}

// Lerp interpolates from a (t=0) to b (t=1).
func Lerp(a, b Vec, t float64) Vec {
	return r2.Add(a, r2.Scale(t, r2.Sub(b, a)))
}

// Unit returns v scaled to length 1, or the zero vector when v has no
// length.
func Unit(v Vec) Vec {
	n := r2.Norm(v)
	if n == 0 {
		return Vec{}
	}
	return r2.Scale(1/n, v)
}

// Perp returns v rotated 90 degrees counter-clockwise.
func Perp(v Vec) Vec {
	return Vec{X: -v.Y, Y: v.X}
}

// Angle returns the direction of v in radians.
func Angle(v Vec) float64 {
	return math.Atan2(v.Y, v.X)
}

// FromAngle returns the point at distance r from c in direction a.
func FromAngle(c Vec, a, r float64) Vec {
	return Vec{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
}

// RotateAbout rotates p by angle radians around center.
func RotateAbout(p, center Vec, angle float64) Vec {
	if angle == 0 {
		return p
	}
	return r2.Rotate(p, angle, center)
}

// Clamp01 limits t to [0, 1].
func Clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

// PointToSegmentDistance returns the distance from p to the closest point of
// the closed segment ab. A degenerate segment (a == b) falls back to the
// point distance.
func PointToSegmentDistance(p, a, b Vec) float64 {
	ab := r2.Sub(b, a)
	l2 := r2.Norm2(ab)
	if l2 == 0 {
		return Distance(p, a)
	}
	t := Clamp01(r2.Dot(r2.Sub(p, a), ab) / l2)
	return Distance(p, r2.Add(a, r2.Scale(t, ab)))
}

// parallelEpsilon is the denominator below which two segments are treated
// as parallel by SegmentToSegmentDistance.
const parallelEpsilon = 1e-4

// zeroLength is the squared length below which a segment is a point.
const zeroLength = 1e-12

// SegmentToSegmentDistance returns the minimum distance between segments
// p1q1 and p2q2 using the closed-form closest-point solution. Zero-length
// segments reduce to point/segment or point/point distance; a parallel (or
// numerically singular) system clamps the first parameter to 0 and projects
// from there.
func SegmentToSegmentDistance(p1, q1, p2, q2 Vec) float64 {
	d1 := r2.Sub(q1, p1)
	d2 := r2.Sub(q2, p2)
	r := r2.Sub(p1, p2)
	a := r2.Dot(d1, d1)
	e := r2.Dot(d2, d2)
	f := r2.Dot(d2, r)

	var s, t float64
	switch {
	case a <= zeroLength && e <= zeroLength:
		return Distance(p1, p2)
	case a <= zeroLength:
		s = 0
		t = Clamp01(f / e)
	default:
		c := r2.Dot(d1, r)
		if e <= zeroLength {
			t = 0
			s = Clamp01(-c / a)
			break
		}
		b := r2.Dot(d1, d2)
		denom := a*e - b*b
		if denom > parallelEpsilon {
			s = Clamp01((b*f - c*e) / denom)
		}
		t = (b*s + f) / e
		if t < 0 {
			t = 0
			s = Clamp01(-c / a)
		} else if t > 1 {
			t = 1
			s = Clamp01((b - c) / a)
		}
	}

	c1 := r2.Add(p1, r2.Scale(s, d1))
	c2 := r2.Add(p2, r2.Scale(t, d2))
	return Distance(c1, c2)
}
