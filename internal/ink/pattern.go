package ink

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

const (
	// FlattenStep is the maximum segment length patterns are computed on.
	FlattenStep = 2.0
	// dotLength is the "on" length of a dot; round caps make it visible.
	dotLength = 0.1
)

// Flatten subdivides pts so no segment is longer than maxLen.
func Flatten(pts []geom.Vec, maxLen float64) []geom.Vec {
	if len(pts) < 2 || maxLen <= 0 {
		return append([]geom.Vec(nil), pts...)
	}
	out := []geom.Vec{pts[0]}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		steps := int(math.Ceil(geom.Distance(a, b) / maxLen))
		for k := 1; k < steps; k++ {
			out = append(out, geom.Lerp(a, b, float64(k)/float64(steps)))
		}
		out = append(out, b)
	}
	return out
}

// DashPattern returns the on/off lengths for style at width w, or nil for
// styles drawn as a continuous path.
func DashPattern(style state.LineStyle, w float64) []float64 {
	switch style {
	case state.LineDashed:
		return []float64{3 * w, 2 * w}
	case state.LineDotted:
		return []float64{dotLength, 2 * w}
	case state.LineDashDot:
		return []float64{3 * w, 2 * w, dotLength, 2 * w}
	}
	return nil
}

// Dashes walks pts by arc length and returns the "on" runs of pattern,
// which alternates on and off lengths starting with on.
func Dashes(pts []geom.Vec, pattern []float64) [][]geom.Vec {
	if len(pts) < 2 || len(pattern) == 0 {
		return nil
	}
	for _, l := range pattern {
		if l <= 0 {
			return [][]geom.Vec{append([]geom.Vec(nil), pts...)}
		}
	}

	var runs [][]geom.Vec
	idx, left := 0, pattern[0]
	run := []geom.Vec{pts[0]}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		segLen := geom.Distance(a, b)
		pos := 0.0
		for segLen-pos > 1e-9 {
			step := math.Min(left, segLen-pos)
			pos += step
			left -= step
			p := geom.Lerp(a, b, pos/segLen)
			on := idx%2 == 0
			if on {
				run = append(run, p)
			}
			if left > 1e-9 {
				continue
			}
			if on && len(run) >= 2 {
				runs = append(runs, run)
			}
			run = nil
			idx = (idx + 1) % len(pattern)
			left = pattern[idx]
			if idx%2 == 0 {
				run = []geom.Vec{p}
			}
		}
	}
	if len(run) >= 2 {
		runs = append(runs, run)
	}
	return runs
}

// Wave displaces pts sideways by a sine of the given amplitude and
// wavelength measured along the path.
func Wave(pts []geom.Vec, amplitude, wavelength float64) []geom.Vec {
	flat := Flatten(pts, FlattenStep)
	if len(flat) < 2 || wavelength <= 0 {
		return flat
	}
	out := make([]geom.Vec, len(flat))
	s := 0.0
	for i, p := range flat {
		if i > 0 {
			s += geom.Distance(flat[i-1], p)
		}
		a, b := flat[max(0, i-1)], flat[min(len(flat)-1, i+1)]
		n := geom.Perp(geom.Unit(r2.Sub(b, a)))
		out[i] = r2.Add(p, r2.Scale(amplitude*math.Sin(2*math.Pi*s/wavelength), n))
	}
	return out
}

// Styled returns the polylines that draw centerline pts in style at width
// w. Solid and unknown styles return the centerline as a single run.
func Styled(pts []geom.Vec, style state.LineStyle, w float64) [][]geom.Vec {
	if len(pts) < 2 {
		return nil
	}
	if style == state.LineWavy {
		return [][]geom.Vec{Wave(pts, 1.5*w, 6*w)}
	}
	if pattern := DashPattern(style, w); pattern != nil {
		return Dashes(Flatten(pts, FlattenStep), pattern)
	}
	return [][]geom.Vec{append([]geom.Vec(nil), pts...)}
}
