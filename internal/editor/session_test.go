package editor

import (
	"image"
	"testing"

	"golang.org/x/mobile/event/key"

	"github.com/example/markshot/internal/annotation"
	"github.com/example/markshot/internal/geom"
)

// newTestSession returns a session with a 1:1 view/image transform so test
// coordinates can be written directly in image units.
func newTestSession(t *testing.T) *Session {
	t.Helper()
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	return NewSession(src, geom.Size{W: 200, H: 100}, geom.Size{W: 200, H: 100})
}

func TestDrawCommitsArrow(t *testing.T) {
	s := newTestSession(t)
	s.PointerDown(geom.Pt(10, 10), 0)
	s.PointerDrag(geom.Pt(50, 40))
	s.PointerUp(geom.Pt(50, 40))

	anns := s.Annotations()
	if len(anns) != 1 {
		t.Fatalf("got %d annotations, want 1", len(anns))
	}
	a, ok := anns[0].(annotation.Arrow)
	if !ok {
		t.Fatalf("got %T, want Arrow", anns[0])
	}
	if a.From != geom.Pt(10, 10) || a.To != geom.Pt(50, 40) {
		t.Fatalf("arrow = %+v", a)
	}
}

func TestModifierSelectsTool(t *testing.T) {
	s := newTestSession(t)
	s.PointerDown(geom.Pt(10, 10), key.ModShift)
	s.PointerUp(geom.Pt(60, 10))
	anns := s.Annotations()
	if len(anns) != 1 {
		t.Fatalf("got %d annotations, want 1", len(anns))
	}
	if _, ok := anns[0].(annotation.Line); !ok {
		t.Fatalf("shift drag produced %T, want Line", anns[0])
	}
}

func TestDegenerateDragDiscarded(t *testing.T) {
	s := newTestSession(t)
	s.PointerDown(geom.Pt(10, 10), 0)
	s.PointerUp(geom.Pt(11, 10))
	if n := len(s.Annotations()); n != 0 {
		t.Fatalf("degenerate drag committed %d annotations", n)
	}
	if s.Undo() {
		t.Fatal("nothing should be undoable after a discarded drag")
	}
}

func TestHandleDragFlipsAndCommitsOnce(t *testing.T) {
	s := newTestSession(t)
	s.SetAnnotations([]annotation.Annotation{
		annotation.Rectangle{Rect: geom.Rect{X: 10, Y: 20, W: 80, H: 60}},
	})

	s.PointerDown(geom.Pt(10, 20), 0) // top-left handle
	if !s.Dragging() {
		t.Fatal("expected a handle drag to start")
	}
	s.PointerDrag(geom.Pt(100, 90))
	s.PointerUp(geom.Pt(100, 90))

	got := s.Annotations()[0].(annotation.Rectangle).Rect
	want := geom.Rect{X: 90, Y: 80, W: 10, H: 10}
	if got != want {
		t.Fatalf("rect after flip = %+v, want %+v", got, want)
	}

	if !s.Undo() {
		t.Fatal("handle drag should be undoable")
	}
	back := s.Annotations()[0].(annotation.Rectangle).Rect
	if back != (geom.Rect{X: 10, Y: 20, W: 80, H: 60}) {
		t.Fatalf("undo restored %+v", back)
	}
	if s.Undo() {
		t.Fatal("a whole drag must be one undo step")
	}
}

func TestMoveCommitsReplace(t *testing.T) {
	s := newTestSession(t)
	s.SetAnnotations([]annotation.Annotation{
		annotation.Rectangle{Rect: geom.Rect{X: 40, Y: 40, W: 30, H: 20}},
	})

	s.PointerDown(geom.Pt(55, 50), 0) // body, no modifier
	s.PointerDrag(geom.Pt(65, 55))
	s.PointerDrag(geom.Pt(75, 60))
	s.PointerUp(geom.Pt(75, 60))

	got := s.Annotations()[0].(annotation.Rectangle).Rect
	want := geom.Rect{X: 60, Y: 50, W: 30, H: 20}
	if got != want {
		t.Fatalf("moved rect = %+v, want %+v", got, want)
	}
	if !s.Undo() {
		t.Fatal("move should be undoable")
	}
	if s.Undo() {
		t.Fatal("move must be a single undo step")
	}
}

func TestClickWithModifierDrawsOverBody(t *testing.T) {
	s := newTestSession(t)
	s.SetAnnotations([]annotation.Annotation{
		annotation.Rectangle{Rect: geom.Rect{X: 40, Y: 40, W: 60, H: 40}},
	})
	s.PointerDown(geom.Pt(55, 55), key.ModShift)
	s.PointerUp(geom.Pt(95, 75))
	anns := s.Annotations()
	if len(anns) != 2 {
		t.Fatalf("got %d annotations, want 2", len(anns))
	}
	if _, ok := anns[1].(annotation.Line); !ok {
		t.Fatalf("modifier drag over a body produced %T, want Line", anns[1])
	}
}

func TestCropExclusivity(t *testing.T) {
	s := newTestSession(t)
	crop := func(x float64) {
		s.PointerDown(geom.Pt(x, 10), key.ModControl|key.ModShift)
		s.PointerUp(geom.Pt(x+40, 50))
	}
	crop(10)
	crop(70)

	count := 0
	var last annotation.Crop
	for _, a := range s.Annotations() {
		if c, ok := a.(annotation.Crop); ok {
			count++
			last = c
		}
	}
	if count != 1 {
		t.Fatalf("found %d crops, want 1", count)
	}
	if last.Rect.X != 70 {
		t.Fatalf("surviving crop = %+v, want the second one", last.Rect)
	}

	// One undo restores the first crop, never zero or two.
	if !s.Undo() {
		t.Fatal("crop replacement should be undoable")
	}
	count = 0
	for _, a := range s.Annotations() {
		if c, ok := a.(annotation.Crop); ok {
			count++
			last = c
		}
	}
	if count != 1 || last.Rect.X != 10 {
		t.Fatalf("after undo: %d crops, first = %+v", count, last.Rect)
	}

	// Undoing the initial crop leaves none.
	if !s.Undo() {
		t.Fatal("first crop should be undoable")
	}
	if len(s.Annotations()) != 0 {
		t.Fatalf("expected empty list, got %+v", s.Annotations())
	}
}

func TestCropAffectsExportNotPreview(t *testing.T) {
	s := newTestSession(t)
	s.PointerDown(geom.Pt(20, 10), key.ModControl|key.ModShift)
	s.PointerDrag(geom.Pt(80, 60))
	s.PointerUp(geom.Pt(80, 60))

	exported, err := s.Composite()
	if err != nil {
		t.Fatalf("composite: %v", err)
	}
	if exported.Bounds().Dx() != 60 || exported.Bounds().Dy() != 50 {
		t.Fatalf("export bounds = %v, want 60x50", exported.Bounds())
	}

	// The view keeps rendering the whole surface, and the transform keeps
	// mapping over the full image, so overlays and hit tests stay aligned.
	preview, err := s.Preview()
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.Bounds().Dx() != 200 || preview.Bounds().Dy() != 100 {
		t.Fatalf("preview bounds = %v, want 200x100", preview.Bounds())
	}
	if got := s.Transform().Image; got != (geom.Size{W: 200, H: 100}) {
		t.Fatalf("transform image size = %+v, want {200 100}", got)
	}
}

func TestDeleteHoveredAnnotation(t *testing.T) {
	s := newTestSession(t)
	s.SetAnnotations([]annotation.Annotation{
		annotation.Line{From: geom.Pt(10, 10), To: geom.Pt(100, 10)},
		annotation.Rectangle{Rect: geom.Rect{X: 40, Y: 40, W: 30, H: 20}},
	})

	s.PointerMove(geom.Pt(50, 50))
	if s.HoverIndex() != 1 {
		t.Fatalf("hover = %d, want 1", s.HoverIndex())
	}
	s.KeyPress(key.Event{Code: key.CodeDeleteBackspace})
	if len(s.Annotations()) != 1 {
		t.Fatalf("delete left %d annotations", len(s.Annotations()))
	}
	if _, ok := s.Annotations()[0].(annotation.Line); !ok {
		t.Fatal("wrong annotation deleted")
	}
	if !s.Undo() {
		t.Fatal("delete should be undoable")
	}
	if len(s.Annotations()) != 2 {
		t.Fatal("undo did not restore the deleted annotation")
	}
}

func TestDeleteWithoutHoverIsNoOp(t *testing.T) {
	s := newTestSession(t)
	s.SetAnnotations([]annotation.Annotation{
		annotation.Line{From: geom.Pt(10, 10), To: geom.Pt(100, 10)},
	})
	s.PointerMove(geom.Pt(190, 90))
	s.KeyPress(key.Event{Code: key.CodeDeleteBackspace})
	if len(s.Annotations()) != 1 {
		t.Fatal("delete with no hover removed an annotation")
	}
}

func TestPointerExitClearsHover(t *testing.T) {
	s := newTestSession(t)
	s.SetAnnotations([]annotation.Annotation{
		annotation.Rectangle{Rect: geom.Rect{X: 40, Y: 40, W: 30, H: 20}},
	})
	s.PointerMove(geom.Pt(50, 50))
	s.PointerExit()
	if s.HoverIndex() != -1 {
		t.Fatalf("hover = %d after exit, want -1", s.HoverIndex())
	}
}
