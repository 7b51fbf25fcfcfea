package editor

import (
	"github.com/example/markshot/internal/annotation"
	"github.com/example/markshot/internal/geom"
)

// hit describes what a pointer position resolved to.
type hit struct {
	index    int
	handle   annotation.Handle
	isHandle bool
}

// hitAt resolves p (image space) against the annotation list. Annotations
// are tested topmost-first; within each annotation handles are tested
// before the body, since handles are small targets layered over a body
// that would otherwise swallow the hit. The first match wins, so a tie on
// a shared handle point resolves to the topmost annotation.
func (s *Session) hitAt(p geom.Point) (hit, bool) {
	handleTol := s.transform.ImageLength(handleTolerance)
	bodyTol := s.transform.ImageLength(bodyTolerance)
	for i := len(s.annotations) - 1; i >= 0; i-- {
		a := s.annotations[i]
		if h, ok := nearestHandle(a, p, handleTol); ok {
			return hit{index: i, handle: h, isHandle: true}, true
		}
		if annotation.BodyContains(s.measurer, a, p, bodyTol) {
			return hit{index: i}, true
		}
	}
	return hit{}, false
}

// nearestHandle returns the closest handle of a within tol of p.
func nearestHandle(a annotation.Annotation, p geom.Point, tol float64) (annotation.Handle, bool) {
	var best annotation.Handle
	bestDist := tol
	found := false
	for _, hp := range a.Handles() {
		if d := hp.Point.Dist(p); d <= bestDist {
			best = hp.Handle
			bestDist = d
			found = true
		}
	}
	return best, found
}
