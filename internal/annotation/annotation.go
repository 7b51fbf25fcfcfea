// Package annotation defines the in-memory model of user-drawn marks and
// the pure geometry operations on them: handle enumeration, handle drags,
// translation and body hit-testing.
package annotation

import (
	"github.com/example/markshot/internal/geom"
)

// MinTextWidth is the smallest width a text annotation can be resized to,
// in image logical units.
const MinTextWidth = 20

// Handle names a draggable control point on an annotation.
type Handle int

const (
	HandleStart Handle = iota // first endpoint of an arrow or line
	HandleEnd                 // second endpoint of an arrow or line
	HandleTopLeft
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
	HandleLeft  // left edge of a text block
	HandleRight // right edge of a text block
)

// HandlePoint pairs a handle with its current position in image space.
type HandlePoint struct {
	Handle Handle
	Point  geom.Point
}

// Annotation is one user-drawn mark. The set of implementations is closed:
// Arrow, Line, Rectangle, Crop, Blur and Text.
type Annotation interface {
	// Handles returns the editable control points, recomputed from the
	// annotation's current fields.
	Handles() []HandlePoint
	// Moving returns a copy with one handle relocated to the given point.
	// Unknown handles leave the annotation unchanged.
	Moving(h Handle, to geom.Point) Annotation
	// OffsetBy returns a copy translated by (dx, dy).
	OffsetBy(dx, dy float64) Annotation
}

// Arrow is a directed mark from From to To, drawn with an arrowhead at To.
type Arrow struct {
	From, To geom.Point
}

// Line is an undirected segment.
type Line struct {
	From, To geom.Point
}

// Rectangle is an outlined box.
type Rectangle struct {
	Rect geom.Rect
}

// Crop marks the region the exported image is trimmed to. At most one crop
// exists in an annotation list at a time; the editor enforces this.
type Crop struct {
	Rect geom.Rect
}

// Blur pixelates the covered region of the source screenshot on export.
type Blur struct {
	Rect geom.Rect
}

// Text is a wrapped text block. Its height is derived from a layout
// measurement of Content at Width and FontSize, never stored.
type Text struct {
	Origin   geom.Point
	Width    float64
	Content  string
	FontSize float64
}

func segmentHandles(from, to geom.Point) []HandlePoint {
	return []HandlePoint{
		{HandleStart, from},
		{HandleEnd, to},
	}
}

func movedSegment(from, to geom.Point, h Handle, p geom.Point) (geom.Point, geom.Point) {
	switch h {
	case HandleStart:
		return p, to
	case HandleEnd:
		return from, p
	}
	return from, to
}

func (a Arrow) Handles() []HandlePoint { return segmentHandles(a.From, a.To) }

func (a Arrow) Moving(h Handle, to geom.Point) Annotation {
	a.From, a.To = movedSegment(a.From, a.To, h, to)
	return a
}

func (a Arrow) OffsetBy(dx, dy float64) Annotation {
	a.From = a.From.Add(geom.Pt(dx, dy))
	a.To = a.To.Add(geom.Pt(dx, dy))
	return a
}

func (l Line) Handles() []HandlePoint { return segmentHandles(l.From, l.To) }

func (l Line) Moving(h Handle, to geom.Point) Annotation {
	l.From, l.To = movedSegment(l.From, l.To, h, to)
	return l
}

func (l Line) OffsetBy(dx, dy float64) Annotation {
	l.From = l.From.Add(geom.Pt(dx, dy))
	l.To = l.To.Add(geom.Pt(dx, dy))
	return l
}

func rectHandles(r geom.Rect) []HandlePoint {
	return []HandlePoint{
		{HandleTopLeft, geom.Pt(r.X, r.Y)},
		{HandleTopRight, geom.Pt(r.X+r.W, r.Y)},
		{HandleBottomLeft, geom.Pt(r.X, r.Y+r.H)},
		{HandleBottomRight, geom.Pt(r.X+r.W, r.Y+r.H)},
	}
}

// movedRect rebuilds the rectangle from the corner opposite the dragged
// handle and the new position. Dragging past the anchor flips the rect
// naturally: the result is always normalized.
func movedRect(r geom.Rect, h Handle, to geom.Point) geom.Rect {
	var anchor geom.Point
	switch h {
	case HandleTopLeft:
		anchor = geom.Pt(r.X+r.W, r.Y+r.H)
	case HandleTopRight:
		anchor = geom.Pt(r.X, r.Y+r.H)
	case HandleBottomLeft:
		anchor = geom.Pt(r.X+r.W, r.Y)
	case HandleBottomRight:
		anchor = geom.Pt(r.X, r.Y)
	default:
		return r
	}
	return geom.RectFromCorners(anchor, to)
}

func (r Rectangle) Handles() []HandlePoint { return rectHandles(r.Rect) }

func (r Rectangle) Moving(h Handle, to geom.Point) Annotation {
	r.Rect = movedRect(r.Rect, h, to)
	return r
}

func (r Rectangle) OffsetBy(dx, dy float64) Annotation {
	r.Rect = r.Rect.Translate(dx, dy)
	return r
}

func (c Crop) Handles() []HandlePoint { return rectHandles(c.Rect) }

func (c Crop) Moving(h Handle, to geom.Point) Annotation {
	c.Rect = movedRect(c.Rect, h, to)
	return c
}

func (c Crop) OffsetBy(dx, dy float64) Annotation {
	c.Rect = c.Rect.Translate(dx, dy)
	return c
}

func (b Blur) Handles() []HandlePoint { return rectHandles(b.Rect) }

func (b Blur) Moving(h Handle, to geom.Point) Annotation {
	b.Rect = movedRect(b.Rect, h, to)
	return b
}

func (b Blur) OffsetBy(dx, dy float64) Annotation {
	b.Rect = b.Rect.Translate(dx, dy)
	return b
}

func (t Text) Handles() []HandlePoint {
	return []HandlePoint{
		{HandleLeft, t.Origin},
		{HandleRight, geom.Pt(t.Origin.X+t.Width, t.Origin.Y)},
	}
}

// Moving resizes the text block horizontally. The left handle keeps the
// right edge fixed, the right handle keeps the origin fixed; either way the
// width is clamped to MinTextWidth. Vertical position and height are derived
// and not independently editable.
func (t Text) Moving(h Handle, to geom.Point) Annotation {
	switch h {
	case HandleLeft:
		right := t.Origin.X + t.Width
		width := right - to.X
		if width < MinTextWidth {
			width = MinTextWidth
		}
		t.Origin.X = right - width
		t.Width = width
	case HandleRight:
		width := to.X - t.Origin.X
		if width < MinTextWidth {
			width = MinTextWidth
		}
		t.Width = width
	}
	return t
}

func (t Text) OffsetBy(dx, dy float64) Annotation {
	t.Origin = t.Origin.Add(geom.Pt(dx, dy))
	return t
}
