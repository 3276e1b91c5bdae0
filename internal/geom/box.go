package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Box is an axis-aligned bounding box.
type Box = r2.Box

// EmptyBox returns a box that any Extend call will replace.
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{Min: Vec{X: inf, Y: inf}, Max: Vec{X: -inf, Y: -inf}}
}

// IsEmpty reports whether b contains no point.
func IsEmpty(b Box) bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Extend grows b to include p.
func Extend(b Box, p Vec) Box {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
	return b
}

// BoundsOf returns the bounding box of pts. An empty slice yields an empty
// box.
func BoundsOf(pts []Vec) Box {
	b := EmptyBox()
	for _, p := range pts {
		b = Extend(b, p)
	}
	return b
}

// SegmentBox returns the bounding box of segment ab.
func SegmentBox(a, b Vec) Box {
	return Extend(Extend(EmptyBox(), a), b)
}

// Pad grows b by d on every side.
func Pad(b Box, d float64) Box {
	if IsEmpty(b) {
		return b
	}
	b.Min.X -= d
	b.Min.Y -= d
	b.Max.X += d
	b.Max.Y += d
	return b
}

// Union returns the smallest box containing a and b.
func Union(a, b Box) Box {
	if IsEmpty(a) {
		return b
	}
	if IsEmpty(b) {
		return a
	}
	return Extend(Extend(a, b.Min), b.Max)
}

// Overlaps reports whether a and b share at least one point. Touching edges
// count as overlap.
func Overlaps(a, b Box) bool {
	if IsEmpty(a) || IsEmpty(b) {
		return false
	}
	return !(a.Max.X < b.Min.X || b.Max.X < a.Min.X ||
		a.Max.Y < b.Min.Y || b.Max.Y < a.Min.Y)
}

// Center returns the midpoint of b.
func Center(b Box) Vec {
	return r2.Scale(0.5, r2.Add(b.Min, b.Max))
}

// PointInPolygon reports whether p lies inside the closed polygon using the
// even-odd rule.
func PointInPolygon(p Vec, poly []Vec) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}
