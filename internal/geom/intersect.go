package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// IntersectEpsilon keeps SegmentIntersection from reporting hits that sit on
// a segment endpoint.
const IntersectEpsilon = 1e-6

// LineSegmentIntersectsCircle reports whether the segment from start to end
// touches the circle (center, radius). It is true when either root of the
// parametric quadratic lies in [0, 1], or when the whole segment lies inside
// the circle.
func LineSegmentIntersectsCircle(start, end, center Vec, radius float64) bool {
	d := r2.Sub(end, start)
	f := r2.Sub(start, center)
	a := r2.Dot(d, d)
	c := r2.Dot(f, f) - radius*radius
	if a == 0 {
		return c <= 0
	}
	b := 2 * r2.Dot(f, d)
	disc := b*b - 4*a*c
	if disc < 0 {
		return false
	}
	disc = math.Sqrt(disc)
	t1 := (-b - disc) / (2 * a)
	t2 := (-b + disc) / (2 * a)
	if t1 >= 0 && t1 <= 1 {
		return true
	}
	if t2 >= 0 && t2 <= 1 {
		return true
	}
	return t1 < 0 && t2 > 1
}

// LineIntersection returns the intersection of the infinite lines through
// a1a2 and b1b2 together with the interpolation parameters along each. ok
// is false for parallel or degenerate lines.
func LineIntersection(a1, a2, b1, b2 Vec) (p Vec, ta, tb float64, ok bool) {
	da := r2.Sub(a2, a1)
	db := r2.Sub(b2, b1)
	det := r2.Cross(da, db)
	if math.Abs(det) < 1e-12 {
		return Vec{}, 0, 0, false
	}
	w := r2.Sub(b1, a1)
	ta = r2.Cross(w, db) / det
	tb = r2.Cross(w, da) / det
	return r2.Add(a1, r2.Scale(ta, da)), ta, tb, true
}

// SegmentIntersection returns the crossing point of segments a1a2 and b1b2.
// Both parameters must lie strictly inside (eps, 1-eps); touching endpoints
// do not count.
func SegmentIntersection(a1, a2, b1, b2 Vec) (Vec, bool) {
	p, ta, tb, ok := LineIntersection(a1, a2, b1, b2)
	if !ok {
		return Vec{}, false
	}
	const eps = IntersectEpsilon
	if ta <= eps || ta >= 1-eps || tb <= eps || tb >= 1-eps {
		return Vec{}, false
	}
	return p, true
}

// collinearEpsilon is the determinant magnitude below which three points
// are treated as collinear.
const collinearEpsilon = 1e-4

// Circumcircle returns the circle through a, b and c. ok is false when the
// points are (nearly) collinear; callers fall back to a straight connection.
func Circumcircle(a, b, c Vec) (center Vec, radius float64, ok bool) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < collinearEpsilon {
		return Vec{}, 0, false
	}
	a2 := r2.Norm2(a)
	b2 := r2.Norm2(b)
	c2 := r2.Norm2(c)
	center = Vec{
		X: (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d,
		Y: (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d,
	}
	return center, Distance(center, a), true
}

// ArcThrough returns points along the circular arc from a through b to c,
// sampled every step radians. Collinear input yields the straight
// connection [a, c].
func ArcThrough(a, b, c Vec, step float64) []Vec {
	center, r, ok := Circumcircle(a, b, c)
	if !ok || step <= 0 {
		return []Vec{a, c}
	}
	start := Angle(r2.Sub(a, center))
	mid := Angle(r2.Sub(b, center))
	end := Angle(r2.Sub(c, center))

	sweep := normAngle(end - start)
	// Go the other way round when b is not on the positive sweep.
	if normAngle(mid-start) > sweep {
		sweep -= 2 * math.Pi
	}
	n := int(math.Ceil(math.Abs(sweep) / step))
	if n < 1 {
		n = 1
	}
	out := make([]Vec, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, FromAngle(center, start+sweep*float64(i)/float64(n), r))
	}
	out[0] = a
	out[n] = c
	return out
}

// normAngle maps a into [0, 2π).
func normAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
