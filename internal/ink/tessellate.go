package ink

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

const (
	// CapSamples is the number of points on each semicircular end cap,
	// one every 5 degrees including both ends.
	CapSamples = 37
	capStep    = math.Pi / 36

	// dotSegments is the polygon resolution of a single-point stroke.
	dotSegments = 72

	minWindow    = 10
	windowFactor = 0.8

	wideStroke      = 8.0
	wideThreshold   = 0.995
	narrowThreshold = 0.98
	wideBlend       = 0.35
	narrowBlend     = 0.6
)

// PressureWidth maps pressure to a stroke width of 0.4x base at no
// pressure up to 1.6x base at full pressure.
func PressureWidth(base, pressure float64) float64 {
	return base * (0.4 + 1.2*geom.Clamp01(pressure))
}

// Envelope is the per-point geometry of a variable-width stroke.
type Envelope struct {
	Centers []geom.Vec
	Radii   []float64
	Normals []geom.Vec
	Angles  []float64
}

// BuildEnvelope computes center, half-width, unit normal and tangent angle
// for every point. Tangents are averaged over a window of neighbouring
// segments; consecutive normals that turn too sharply are blended toward
// the previous one.
func BuildEnvelope(points []state.Sample, baseWidth float64) Envelope {
	n := len(points)
	env := Envelope{
		Centers: make([]geom.Vec, n),
		Radii:   make([]float64, n),
		Normals: make([]geom.Vec, n),
		Angles:  make([]float64, n),
	}
	for i, p := range points {
		env.Centers[i] = p.Pos()
		env.Radii[i] = PressureWidth(baseWidth, p.Pressure) / 2
	}
	if n == 0 {
		return env
	}

	window := tangentWindow(baseWidth)
	prev := geom.Pt(1, 0)
	for i := range n {
		t := windowTangent(env.Centers, i, window)
		if t == (geom.Vec{}) {
			t = prev
		}
		prev = t
		normal := geom.Perp(t)
		if i > 0 {
			normal = blendNormal(env.Normals[i-1], normal, baseWidth)
		}
		env.Normals[i] = normal
		env.Angles[i] = geom.Angle(geom.Pt(normal.Y, -normal.X))
	}
	return env
}

// tangentWindow is how many points on each side of a point its tangent
// averages over.
func tangentWindow(baseWidth float64) int {
	return int(math.Max(minWindow, baseWidth*windowFactor))
}

// blendNormal pulls normal toward last when the two turn apart more than
// the width allows. Wide strokes tolerate less turning and blend harder.
func blendNormal(last, normal geom.Vec, baseWidth float64) geom.Vec {
	threshold, blend := narrowThreshold, narrowBlend
	if baseWidth > wideStroke {
		threshold, blend = wideThreshold, wideBlend
	}
	if r2.Dot(normal, last) >= threshold {
		return normal
	}
	if m := geom.Unit(geom.Lerp(last, normal, blend)); m != (geom.Vec{}) {
		return m
	}
	return normal
}

// windowTangent sums the unit directions of the segments within window
// points on either side of i.
func windowTangent(c []geom.Vec, i, window int) geom.Vec {
	lo := max(0, i-window)
	hi := min(len(c)-1, i+window)
	var sum geom.Vec
	for j := lo; j < hi; j++ {
		sum = r2.Add(sum, geom.Unit(r2.Sub(c[j+1], c[j])))
	}
	return geom.Unit(sum)
}

// Outline returns the closed polygon around the envelope: the start cap,
// the left side forward, the end cap and the right side backward. It holds
// 2*(n-2) + 2*CapSamples points for n >= 2, and a circle for one point.
func (e Envelope) Outline() []geom.Vec {
	n := len(e.Centers)
	switch n {
	case 0:
		return nil
	case 1:
		return Dot(e.Centers[0], e.Radii[0])
	}

	out := make([]geom.Vec, 0, 2*(n-2)+2*CapSamples)
	a0 := geom.Angle(e.Normals[0])
	for k := range CapSamples {
		out = append(out, geom.FromAngle(e.Centers[0], a0+math.Pi-float64(k)*capStep, e.Radii[0]))
	}
	for i := 1; i < n-1; i++ {
		out = append(out, r2.Add(e.Centers[i], r2.Scale(e.Radii[i], e.Normals[i])))
	}
	aN := geom.Angle(e.Normals[n-1])
	for k := range CapSamples {
		out = append(out, geom.FromAngle(e.Centers[n-1], aN-float64(k)*capStep, e.Radii[n-1]))
	}
	for i := n - 2; i >= 1; i-- {
		out = append(out, r2.Sub(e.Centers[i], r2.Scale(e.Radii[i], e.Normals[i])))
	}
	return out
}

// Tessellate returns the fill polygon for a pressure-sensitive stroke.
func Tessellate(points []state.Sample, baseWidth float64) []geom.Vec {
	return BuildEnvelope(points, baseWidth).Outline()
}

// Dot returns a circle polygon of radius r around c.
func Dot(c geom.Vec, r float64) []geom.Vec {
	out := make([]geom.Vec, dotSegments)
	for i := range out {
		out[i] = geom.FromAngle(c, 2*math.Pi*float64(i)/dotSegments, r)
	}
	return out
}
