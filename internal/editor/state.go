package editor

import (
	"github.com/example/markshot/internal/annotation"
	"github.com/example/markshot/internal/geom"
)

// Kind selects which shape a new drag draws.
type Kind int

const (
	KindArrow Kind = iota
	KindLine
	KindRectangle
	KindBlur
	KindCrop
)

// pointerState is a closed sum over what the pointer is currently doing.
// Exactly one state holds at a time, which makes combinations like
// "moving while editing a handle" unrepresentable.
type pointerState interface{ isPointerState() }

type idle struct{}

// drawing is an in-progress drag creating a new shape. The kind was fixed
// by the modifiers held at pointer-down and is not re-sampled mid-drag.
type drawing struct {
	kind    Kind
	origin  geom.Point
	current geom.Point
}

// editingHandle reshapes one annotation by a handle drag. The shape is
// always recomputed from the pre-drag snapshot so flips stay stable.
type editingHandle struct {
	index  int
	handle annotation.Handle
	before annotation.Annotation
}

// movingAnnotation translates one annotation incrementally.
type movingAnnotation struct {
	index  int
	before annotation.Annotation
	last   geom.Point
}

// editingText is an open inline text buffer, either over an existing text
// annotation (target >= 0) or a new one (target == -1).
type editingText struct {
	buffer   string
	target   int
	origin   geom.Point
	width    float64
	fontSize float64
}

func (idle) isPointerState()             {}
func (drawing) isPointerState()          {}
func (editingHandle) isPointerState()    {}
func (movingAnnotation) isPointerState() {}
func (editingText) isPointerState()      {}

// draftAnnotation builds the shape an active drawing drag would commit.
func draftAnnotation(kind Kind, origin, current geom.Point) annotation.Annotation {
	switch kind {
	case KindLine:
		return annotation.Line{From: origin, To: current}
	case KindRectangle:
		return annotation.Rectangle{Rect: geom.RectFromCorners(origin, current)}
	case KindBlur:
		return annotation.Blur{Rect: geom.RectFromCorners(origin, current)}
	case KindCrop:
		return annotation.Crop{Rect: geom.RectFromCorners(origin, current)}
	default:
		return annotation.Arrow{From: origin, To: current}
	}
}

// TextEdit describes the live text buffer for presentation.
type TextEdit struct {
	Buffer   string
	Origin   geom.Point
	Width    float64
	FontSize float64
	// Target is the index of the text annotation being edited, or -1 when
	// the buffer will become a new annotation.
	Target int
}
