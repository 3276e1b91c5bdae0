package erase

import (
	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

// ShapeGeometry enumerates shape outlines and answers point-in-shape
// queries for the narrow phase.
type ShapeGeometry interface {
	Vertices(s *state.Shape) []geom.Vec
	Contains(s *state.Shape, p geom.Vec) bool
}

// DefaultShapes uses the outlines defined on state.Shape.
type DefaultShapes struct{}

func (DefaultShapes) Vertices(s *state.Shape) []geom.Vec       { return s.Vertices() }
func (DefaultShapes) Contains(s *state.Shape, p geom.Vec) bool { return s.Contains(p) }
