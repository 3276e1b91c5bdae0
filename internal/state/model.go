package state

import (
	"fmt"
	"math"
	"time"

	"InkBoard/internal/geom"
)

// Sample is one pointer reading.
type Sample struct {
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Pressure float64   `json:"p"`
	Time     time.Time `json:"t"`
}

// Pos returns the sample position.
func (s Sample) Pos() geom.Vec { return geom.Pt(s.X, s.Y) }

// SampleAt builds a sample at p.
func SampleAt(p geom.Vec, pressure float64, t time.Time) Sample {
	return Sample{X: p.X, Y: p.Y, Pressure: pressure, Time: t}
}

// DefaultPressure is used when the device reports none.
const DefaultPressure = 0.5

// NormalizePressure maps a raw device reading into [0, 1]. Devices that do
// not report pressure send 0 (or NaN); those readings become
// DefaultPressure.
func NormalizePressure(p float64) float64 {
	if math.IsNaN(p) || p <= 0 {
		return DefaultPressure
	}
	if p > 1 {
		return 1
	}
	return p
}

// Kind tags the entity variants stored on a board.
type Kind string

const (
	KindPen         Kind = "pen"
	KindHighlighter Kind = "highlighter"
	KindLine        Kind = "line"
	KindArrow       Kind = "arrow"
	KindShape       Kind = "shape"
)

// LineStyle selects how a stroke centerline is drawn.
type LineStyle string

const (
	LineSolid   LineStyle = "solid"
	LineDashed  LineStyle = "dashed"
	LineDotted  LineStyle = "dotted"
	LineDashDot LineStyle = "dash-dot"
	LineWavy    LineStyle = "wavy"
)

// ParseLineStyle validates s. The empty string means solid.
func ParseLineStyle(s string) (LineStyle, error) {
	switch ls := LineStyle(s); ls {
	case "":
		return LineSolid, nil
	case LineSolid, LineDashed, LineDotted, LineDashDot, LineWavy:
		return ls, nil
	}
	return "", fmt.Errorf("unknown line style %q", s)
}

// DefaultEntityWidth is the stroke width assumed for entities without one.
const DefaultEntityWidth = 2.0

// Entity is the closed set of drawable board objects: *Stroke, *Line and
// *Shape.
type Entity interface {
	EntityID() string
	EntityKind() Kind
	Owner() string
	IsLocked() bool
	// StrokeWidth returns the outline width, DefaultEntityWidth when unset.
	StrokeWidth() float64
	// Extent returns the geometric bounding box including the outline.
	Extent() geom.Box

	isEntity()
}

func widthOr(w float64) float64 {
	if w <= 0 {
		return DefaultEntityWidth
	}
	return w
}

// Stroke is a freehand ink entity.
type Stroke struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	Kind           Kind      `json:"kind"`
	Points         []Sample  `json:"points"`
	BaseWidth      float64   `json:"width"`
	Color          string    `json:"color"`
	Opacity        float64   `json:"opacity"`
	LineStyle      LineStyle `json:"line_style,omitempty"`
	Filled         bool      `json:"filled,omitempty"`
	FillColor      string    `json:"fill_color,omitempty"`
	Straightened   bool      `json:"straightened,omitempty"`
	OriginalPoints []Sample  `json:"original_points,omitempty"`
	Locked         bool      `json:"locked,omitempty"`
}

func (s *Stroke) EntityID() string     { return s.ID }
func (s *Stroke) EntityKind() Kind     { return s.Kind }
func (s *Stroke) Owner() string        { return s.OwnerID }
func (s *Stroke) IsLocked() bool       { return s.Locked }
func (s *Stroke) StrokeWidth() float64 { return widthOr(s.BaseWidth) }
func (*Stroke) isEntity()              {}

// Extent pads the point bounds by the full base width, which covers the
// widest pressure-mapped envelope.
func (s *Stroke) Extent() geom.Box {
	return geom.Pad(geom.BoundsOf(s.Positions()), s.StrokeWidth())
}

// Positions returns the point coordinates.
func (s *Stroke) Positions() []geom.Vec {
	out := make([]geom.Vec, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Pos()
	}
	return out
}

// Clone returns a deep copy.
func (s *Stroke) Clone() *Stroke {
	c := *s
	c.Points = append([]Sample(nil), s.Points...)
	if s.OriginalPoints != nil {
		c.OriginalPoints = append([]Sample(nil), s.OriginalPoints...)
	}
	return &c
}

// Fragment returns a new stroke with the same style carrying pts under a
// fresh identity.
func (s *Stroke) Fragment(id string, pts []Sample) *Stroke {
	return &Stroke{
		ID:        id,
		OwnerID:   s.OwnerID,
		Kind:      s.Kind,
		Points:    append([]Sample(nil), pts...),
		BaseWidth: s.BaseWidth,
		Color:     s.Color,
		Opacity:   s.Opacity,
		LineStyle: s.LineStyle,
		Filled:    s.Filled,
		FillColor: s.FillColor,
		Locked:    s.Locked,
	}
}

// Line is a straight or bent connector, optionally with an arrow head.
type Line struct {
	ID      string    `json:"id"`
	OwnerID string    `json:"owner_id"`
	Kind    Kind      `json:"kind"`
	From    geom.Vec  `json:"from"`
	To      geom.Vec  `json:"to"`
	Via     *geom.Vec `json:"via,omitempty"`
	Width   float64   `json:"width"`
	Color   string    `json:"color"`
	Locked  bool      `json:"locked,omitempty"`
}

func (l *Line) EntityID() string     { return l.ID }
func (l *Line) EntityKind() Kind     { return l.Kind }
func (l *Line) Owner() string        { return l.OwnerID }
func (l *Line) IsLocked() bool       { return l.Locked }
func (l *Line) StrokeWidth() float64 { return widthOr(l.Width) }
func (*Line) isEntity()              {}

func (l *Line) Extent() geom.Box {
	return geom.Pad(geom.BoundsOf(l.Polyline()), l.StrokeWidth()/2)
}

// arcStep is the sampling step for bent lines.
const arcStep = math.Pi / 36

// Polyline returns the points of the line. A bent line follows the circular
// arc through From, Via and To; a collinear Via degrades to a straight
// connection.
func (l *Line) Polyline() []geom.Vec {
	if l.Via == nil {
		return []geom.Vec{l.From, l.To}
	}
	return geom.ArcThrough(l.From, *l.Via, l.To, arcStep)
}

// ShapeKind names a closed shape.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeEllipse   ShapeKind = "ellipse"
	ShapeTriangle  ShapeKind = "triangle"
	ShapeDiamond   ShapeKind = "diamond"
	ShapeStar      ShapeKind = "star"
	ShapeHexagon   ShapeKind = "hexagon"
)

// Shape is a closed shape inscribed in the rectangle (X, Y, W, H) and
// rotated by Rotation radians about its center.
type Shape struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Shape     ShapeKind `json:"shape"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	W         float64   `json:"w"`
	H         float64   `json:"h"`
	Rotation  float64   `json:"rotation,omitempty"`
	Width     float64   `json:"width"`
	Color     string    `json:"color"`
	FillColor string    `json:"fill_color,omitempty"`
	Locked    bool      `json:"locked,omitempty"`
}

func (s *Shape) EntityID() string     { return s.ID }
func (s *Shape) EntityKind() Kind     { return KindShape }
func (s *Shape) Owner() string        { return s.OwnerID }
func (s *Shape) IsLocked() bool       { return s.Locked }
func (s *Shape) StrokeWidth() float64 { return widthOr(s.Width) }
func (*Shape) isEntity()              {}

// Center returns the rotation center.
func (s *Shape) Center() geom.Vec {
	return geom.Pt(s.X+s.W/2, s.Y+s.H/2)
}

// Extent covers the rotated frame.
func (s *Shape) Extent() geom.Box {
	c := s.Center()
	corners := []geom.Vec{
		geom.Pt(s.X, s.Y), geom.Pt(s.X+s.W, s.Y),
		geom.Pt(s.X+s.W, s.Y+s.H), geom.Pt(s.X, s.Y+s.H),
	}
	for i, p := range corners {
		corners[i] = geom.RotateAbout(p, c, s.Rotation)
	}
	return geom.Pad(geom.BoundsOf(corners), s.StrokeWidth()/2)
}
