package annotation

import "github.com/example/markshot/internal/geom"

// BodyContains reports whether p hits the body of a. Segments compare the
// point-to-segment distance against radius; rect-shaped annotations use
// plain containment; text uses its derived bounding rect. The measurer is
// only consulted for text.
func BodyContains(m *Measurer, a Annotation, p geom.Point, radius float64) bool {
	switch a := a.(type) {
	case Arrow:
		return geom.DistToSegment(p, a.From, a.To) <= radius
	case Line:
		return geom.DistToSegment(p, a.From, a.To) <= radius
	case Rectangle:
		return a.Rect.Contains(p)
	case Crop:
		return a.Rect.Contains(p)
	case Blur:
		return a.Rect.Contains(p)
	case Text:
		return m.BoundingRect(a).Contains(p)
	}
	return false
}

// Bounds returns the bounding rectangle of a in image space.
func Bounds(m *Measurer, a Annotation) geom.Rect {
	switch a := a.(type) {
	case Arrow:
		return geom.RectFromCorners(a.From, a.To)
	case Line:
		return geom.RectFromCorners(a.From, a.To)
	case Rectangle:
		return a.Rect
	case Crop:
		return a.Rect
	case Blur:
		return a.Rect
	case Text:
		return m.BoundingRect(a)
	}
	return geom.Rect{}
}
