package state

// OpType names a board mutation.
type OpType string

const (
	OpInsert OpType = "insert"
	OpDelete OpType = "delete"
	OpClear  OpType = "clear"
)

// Op is one board mutation as exchanged between peers. Exactly one of
// Stroke, Line or Shape is set for inserts.
type Op struct {
	ID      string  `json:"id"`
	Type    OpType  `json:"type"`
	Stroke  *Stroke `json:"stroke,omitempty"`
	Line    *Line   `json:"line,omitempty"`
	Shape   *Shape  `json:"shape,omitempty"`
	Target  string  `json:"target,omitempty"`
	Owner   string  `json:"owner,omitempty"`
	Lamport uint64  `json:"lamport"`
	Site    string  `json:"site"`
}

// InsertOp wraps e in an insert operation. Stamping is left to the board.
func InsertOp(e Entity) Op {
	op := Op{Type: OpInsert, Target: e.EntityID()}
	switch v := e.(type) {
	case *Stroke:
		op.Stroke = v
	case *Line:
		op.Line = v
	case *Shape:
		op.Shape = v
	}
	return op
}

// DeleteOp removes the entity with the given id.
func DeleteOp(id string) Op {
	return Op{Type: OpDelete, Target: id}
}

// Entity returns the inserted entity, or nil.
func (op Op) Entity() Entity {
	switch {
	case op.Stroke != nil:
		return op.Stroke
	case op.Line != nil:
		return op.Line
	case op.Shape != nil:
		return op.Shape
	}
	return nil
}
