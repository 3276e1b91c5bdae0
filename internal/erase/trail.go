package erase

import (
	"sync"
	"time"

	"InkBoard/internal/geom"
)

// TrailLifetime is how long a trail point stays visible.
const TrailLifetime = 300 * time.Millisecond

// TrailPoint is one eraser cursor position.
type TrailPoint struct {
	Pos geom.Vec
	At  time.Time
}

// FadingPoint is a trail point with its remaining opacity in (0, 1].
type FadingPoint struct {
	Pos   geom.Vec
	Alpha float64
}

// Trail is the fading eraser cursor. It never touches board data.
type Trail struct {
	Lifetime time.Duration

	mu     sync.Mutex
	points []TrailPoint
}

// NewTrail returns a trail with the default lifetime.
func NewTrail() *Trail {
	return &Trail{Lifetime: TrailLifetime}
}

// Add records the cursor at p.
func (t *Trail) Add(p geom.Vec, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.points = append(t.points, TrailPoint{Pos: p, At: now})
}

// Visible drops expired points and returns the rest, oldest first, with
// opacity decaying linearly over the lifetime.
func (t *Trail) Visible(now time.Time) []FadingPoint {
	t.mu.Lock()
	defer t.mu.Unlock()
	life := t.Lifetime
	if life <= 0 {
		life = TrailLifetime
	}
	keep := t.points[:0]
	out := make([]FadingPoint, 0, len(t.points))
	for _, p := range t.points {
		age := now.Sub(p.At)
		if age >= life {
			continue
		}
		keep = append(keep, p)
		out = append(out, FadingPoint{Pos: p.Pos, Alpha: 1 - float64(max(age, 0))/float64(life)})
	}
	t.points = keep
	return out
}

// Len returns the number of retained points.
func (t *Trail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.points)
}

// Reset clears the trail.
func (t *Trail) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.points = nil
}
