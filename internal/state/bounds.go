package state

import (
	"sync"

	"InkBoard/internal/geom"
)

type cachedBox struct {
	entity Entity
	box    geom.Box
}

// Bounds is a side table of entity bounding boxes keyed by entity id. Boxes
// are computed on first use and dropped when the entity is replaced or
// removed, so entities never carry hidden cached fields.
type Bounds struct {
	mu    sync.Mutex
	boxes map[string]cachedBox
}

// NewBounds creates an empty table.
func NewBounds() *Bounds {
	return &Bounds{boxes: make(map[string]cachedBox)}
}

// Of returns the bounding box of e, computing it if the cached entry is
// missing or belongs to a different value with the same id.
func (b *Bounds) Of(e Entity) geom.Box {
	id := e.EntityID()
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.boxes[id]; ok && c.entity == e {
		return c.box
	}
	box := e.Extent()
	b.boxes[id] = cachedBox{entity: e, box: box}
	return box
}

// Invalidate drops the cached box for id. Call it whenever the entity's
// geometry changes in place.
func (b *Bounds) Invalidate(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.boxes, id)
}

// Reset drops every cached box.
func (b *Bounds) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.boxes = make(map[string]cachedBox)
}

// Len returns the number of cached boxes.
func (b *Bounds) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.boxes)
}
