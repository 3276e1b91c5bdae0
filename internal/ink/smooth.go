package ink

import (
	"gonum.org/v1/gonum/spatial/r2"

	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

const (
	// PreviewIterations is the Chaikin pass count for the live stroke.
	PreviewIterations = 1
	// FinalIterations is the Chaikin pass count for a committed stroke.
	FinalIterations = 3

	// hookDot marks an endpoint that doubles back on the rest of the stroke.
	hookDot = -0.7
	// minGap is the screen-space gap below which an endpoint neighbour is
	// merged away.
	minGap = 0.4
)

// Smooth applies corner-cutting subdivision (quarter/three-quarter points
// of every segment) iterations times. The first and last samples are kept
// exactly; sequences of two or fewer points are returned unchanged.
func Smooth(points []state.Sample, iterations int) []state.Sample {
	out := append([]state.Sample(nil), points...)
	if len(out) <= 2 {
		return out
	}
	for range iterations {
		next := make([]state.Sample, 0, 2*len(out))
		next = append(next, out[0])
		for i := 0; i < len(out)-1; i++ {
			a, b := out[i], out[i+1]
			next = append(next, cut(a, b, 0.25), cut(a, b, 0.75))
		}
		next = append(next, out[len(out)-1])
		out = next
	}
	return out
}

func cut(a, b state.Sample, t float64) state.Sample {
	p := geom.Lerp(a.Pos(), b.Pos(), t)
	s := state.SampleAt(p, a.Pressure+(b.Pressure-a.Pressure)*t, a.Time)
	if t >= 0.5 {
		s.Time = b.Time
	}
	return s
}

// PressureSmooth replaces every interior pressure with the weighted mean
// (prev + 2*cur + next) / 4. End pressures are untouched.
func PressureSmooth(points []state.Sample) []state.Sample {
	out := append([]state.Sample(nil), points...)
	for i := 1; i < len(out)-1; i++ {
		out[i].Pressure = (points[i-1].Pressure + 2*points[i].Pressure + points[i+1].Pressure) / 4
	}
	return out
}

// Sanitize trims the artifacts pointer capture leaves at stroke ends: a
// reversal hook on either end is dropped, and an interior neighbour closer
// than 0.4 screen units to an endpoint is merged into it. The exact first
// and last positions survive unless they form a hook.
func Sanitize(points []state.Sample, zoom float64) []state.Sample {
	out := append([]state.Sample(nil), points...)
	gap := minGap / validZoom(zoom)
	for len(out) > 2 {
		n := len(out)
		switch {
		case geom.Distance(out[0].Pos(), out[1].Pos()) < gap:
			out = append(out[:1], out[2:]...)
		case hooked(out[0].Pos(), out[1].Pos(), out[2].Pos()):
			out = out[1:]
		case geom.Distance(out[n-1].Pos(), out[n-2].Pos()) < gap:
			out = append(out[:n-2], out[n-1])
		case hooked(out[n-1].Pos(), out[n-2].Pos(), out[n-3].Pos()):
			out = out[:n-1]
		default:
			return out
		}
	}
	return out
}

// hooked reports whether the segment end->next runs against next->after.
func hooked(end, next, after geom.Vec) bool {
	d1 := geom.Unit(r2.Sub(next, end))
	d2 := geom.Unit(r2.Sub(after, next))
	return r2.Dot(d1, d2) < hookDot
}
