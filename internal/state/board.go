package state

import (
	"fmt"
	"sync"

	"InkBoard/internal/geom"
	"InkBoard/internal/logging"
)

// OwnerAll clears every entity regardless of owner.
const OwnerAll = "all"

// Board is the in-memory object store. It owns the ordered entity list and
// stamps every local change as an Op for peers. Callbacks run after the lock
// is released.
type Board struct {
	siteID   string
	clock    Clock
	mu       sync.RWMutex
	entities []Entity
	applied  map[string]uint64 // highest Lamport applied, per remote site
	bounds   *Bounds

	OnLocalOp func(Op)
	OnChange  func()
}

// NewBoard creates an empty board with a random site id.
func NewBoard() *Board {
	return &Board{
		siteID:  NewID(),
		applied: make(map[string]uint64),
		bounds:  NewBounds(),
	}
}

// Site returns this board's site id.
func (b *Board) Site() string { return b.siteID }

// Entities returns a snapshot of the entity list. The slice is fresh; the
// entities are shared and must be treated as immutable.
func (b *Board) Entities() []Entity {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Entity(nil), b.entities...)
}

// Len returns the number of entities.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entities)
}

// Find returns the entity with the given id.
func (b *Board) Find(id string) (Entity, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i := indexOf(b.entities, id)
	if i < 0 {
		return nil, false
	}
	return b.entities[i], true
}

// Bounds returns the cached bounding box of e.
func (b *Board) Bounds(e Entity) geom.Box {
	return b.bounds.Of(e)
}

// Add appends e and emits an insert op.
func (b *Board) Add(e Entity) {
	b.Update(func(cur []Entity) []Entity {
		return append(cur, e)
	})
}

// Remove deletes the entity with the given id.
func (b *Board) Remove(id string) bool {
	removed := false
	b.Update(func(cur []Entity) []Entity {
		i := indexOf(cur, id)
		if i < 0 {
			return cur
		}
		removed = true
		return append(cur[:i:i], cur[i+1:]...)
	})
	return removed
}

// Update replaces the entity list with fn's result as one atomic step:
// readers see either the old or the new list, never a partial one. fn gets
// its own copy of the slice and must not mutate the entities it holds.
// Inserted and removed ids are diffed and emitted as ops.
func (b *Board) Update(fn func([]Entity) []Entity) {
	b.mu.Lock()
	prev := b.entities
	next := fn(append([]Entity(nil), prev...))

	before := make(map[string]Entity, len(prev))
	for _, e := range prev {
		before[e.EntityID()] = e
	}
	after := make(map[string]bool, len(next))
	var ops []Op
	for _, e := range next {
		id := e.EntityID()
		after[id] = true
		old, existed := before[id]
		if existed && old == e {
			continue
		}
		if existed {
			b.bounds.Invalidate(id)
			ops = append(ops, b.stamp(DeleteOp(id)))
		}
		ops = append(ops, b.stamp(InsertOp(e)))
	}
	for _, e := range prev {
		id := e.EntityID()
		if !after[id] {
			b.bounds.Invalidate(id)
			ops = append(ops, b.stamp(DeleteOp(id)))
		}
	}
	b.entities = next
	b.mu.Unlock()

	if len(ops) == 0 {
		return
	}
	b.emit(ops)
}

// Clear removes every entity owned by owner, or all of them for OwnerAll.
func (b *Board) Clear(owner string) int {
	b.mu.Lock()
	n := b.clearLocked(owner)
	op := b.stamp(Op{Type: OpClear, Owner: owner})
	b.mu.Unlock()

	b.emit([]Op{op})
	return n
}

func (b *Board) clearLocked(owner string) int {
	if owner == OwnerAll {
		n := len(b.entities)
		b.entities = nil
		b.bounds.Reset()
		return n
	}
	kept := make([]Entity, 0, len(b.entities))
	for _, e := range b.entities {
		if e.Owner() != owner {
			kept = append(kept, e)
			continue
		}
		b.bounds.Invalidate(e.EntityID())
	}
	n := len(b.entities) - len(kept)
	b.entities = kept
	return n
}

// Apply merges an op received from a peer. It reports whether the board
// changed. Ops from one site arrive in stamp order, so an op at or below
// the highest Lamport time applied for its site is a replay and is ignored,
// as are ops stamped by this site. Memory grows with sites, not ops.
func (b *Board) Apply(op Op) bool {
	b.mu.Lock()
	if op.Site == b.siteID || (op.Site != "" && op.Lamport <= b.applied[op.Site]) {
		b.mu.Unlock()
		return false
	}
	if op.Site != "" {
		b.applied[op.Site] = op.Lamport
	}
	b.clock.Update(op.Lamport)

	changed := false
	switch op.Type {
	case OpInsert:
		e := op.Entity()
		if e != nil && indexOf(b.entities, e.EntityID()) < 0 {
			b.entities = append(b.entities[:len(b.entities):len(b.entities)], e)
			changed = true
		}
	case OpDelete:
		if i := indexOf(b.entities, op.Target); i >= 0 {
			next := make([]Entity, 0, len(b.entities)-1)
			next = append(next, b.entities[:i]...)
			b.entities = append(next, b.entities[i+1:]...)
			b.bounds.Invalidate(op.Target)
			changed = true
		}
	case OpClear:
		changed = b.clearLocked(op.Owner) > 0
	}
	b.mu.Unlock()

	logging.Logger().Debug("remote op applied", "op", op.ID, "type", op.Type, "changed", changed)
	if changed && b.OnChange != nil {
		b.OnChange()
	}
	return changed
}

// Snapshot returns insert ops recreating the current board, for peers that
// join late.
func (b *Board) Snapshot() []Op {
	b.mu.Lock()
	defer b.mu.Unlock()
	ops := make([]Op, 0, len(b.entities))
	for _, e := range b.entities {
		ops = append(ops, b.stamp(InsertOp(e)))
	}
	return ops
}

// stamp assigns site, Lamport time and id. Callers hold b.mu.
func (b *Board) stamp(op Op) Op {
	op.Lamport = b.clock.Tick()
	op.Site = b.siteID
	op.ID = fmt.Sprintf("%s-%d", b.siteID, op.Lamport)
	return op
}

func (b *Board) emit(ops []Op) {
	if b.OnLocalOp != nil {
		for _, op := range ops {
			b.OnLocalOp(op)
		}
	}
	if b.OnChange != nil {
		b.OnChange()
	}
}

func indexOf(entities []Entity, id string) int {
	for i, e := range entities {
		if e.EntityID() == id {
			return i
		}
	}
	return -1
}
