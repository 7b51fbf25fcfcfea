package annotation

import (
	"testing"

	"github.com/example/markshot/internal/geom"
)

func TestHandleCounts(t *testing.T) {
	cases := []struct {
		name string
		a    Annotation
		want int
	}{
		{"arrow", Arrow{From: geom.Pt(0, 0), To: geom.Pt(10, 10)}, 2},
		{"line", Line{From: geom.Pt(0, 0), To: geom.Pt(10, 10)}, 2},
		{"rectangle", Rectangle{Rect: geom.Rect{X: 1, Y: 2, W: 3, H: 4}}, 4},
		{"crop", Crop{Rect: geom.Rect{X: 1, Y: 2, W: 3, H: 4}}, 4},
		{"blur", Blur{Rect: geom.Rect{X: 1, Y: 2, W: 3, H: 4}}, 4},
		{"text", Text{Origin: geom.Pt(5, 5), Width: 100, Content: "hi", FontSize: 16}, 2},
	}
	for _, tc := range cases {
		if got := len(tc.a.Handles()); got != tc.want {
			t.Errorf("%s: %d handles, want %d", tc.name, got, tc.want)
		}
	}
}

func TestHandlePositions(t *testing.T) {
	r := Rectangle{Rect: geom.Rect{X: 10, Y: 20, W: 80, H: 60}}
	want := map[Handle]geom.Point{
		HandleTopLeft:     geom.Pt(10, 20),
		HandleTopRight:    geom.Pt(90, 20),
		HandleBottomLeft:  geom.Pt(10, 80),
		HandleBottomRight: geom.Pt(90, 80),
	}
	for _, hp := range r.Handles() {
		if hp.Point != want[hp.Handle] {
			t.Errorf("handle %v at %+v, want %+v", hp.Handle, hp.Point, want[hp.Handle])
		}
	}

	txt := Text{Origin: geom.Pt(50, 100), Width: 300}
	hs := txt.Handles()
	if hs[0].Point != geom.Pt(50, 100) || hs[1].Point != geom.Pt(350, 100) {
		t.Fatalf("text handles = %+v", hs)
	}
}

func TestRectangleCornerFlip(t *testing.T) {
	r := Rectangle{Rect: geom.Rect{X: 10, Y: 20, W: 80, H: 60}}
	// Dragging topLeft past the bottomRight anchor flips and normalizes.
	moved := r.Moving(HandleTopLeft, geom.Pt(100, 90)).(Rectangle)
	want := geom.Rect{X: 90, Y: 80, W: 10, H: 10}
	if moved.Rect != want {
		t.Fatalf("flipped rect = %+v, want %+v", moved.Rect, want)
	}
}

func TestRectangleAnchorStaysFixed(t *testing.T) {
	orig := geom.Rect{X: 10, Y: 20, W: 80, H: 60}
	anchors := map[Handle]geom.Point{
		HandleTopLeft:     geom.Pt(90, 80),
		HandleTopRight:    geom.Pt(10, 80),
		HandleBottomLeft:  geom.Pt(90, 20),
		HandleBottomRight: geom.Pt(10, 20),
	}
	targets := []geom.Point{geom.Pt(0, 0), geom.Pt(200, 200), geom.Pt(50, 50), geom.Pt(-5, 300)}
	for h, anchor := range anchors {
		for _, p := range targets {
			moved := Rectangle{Rect: orig}.Moving(h, p).(Rectangle)
			r := moved.Rect
			if r.W < 0 || r.H < 0 {
				t.Fatalf("handle %v to %+v produced negative size %+v", h, p, r)
			}
			corners := []geom.Point{
				geom.Pt(r.X, r.Y), geom.Pt(r.X+r.W, r.Y),
				geom.Pt(r.X, r.Y+r.H), geom.Pt(r.X+r.W, r.Y+r.H),
			}
			found := false
			for _, c := range corners {
				if c == anchor {
					found = true
				}
			}
			if !found {
				t.Fatalf("handle %v to %+v lost anchor %+v: rect %+v", h, p, anchor, r)
			}
		}
	}
}

func TestSegmentMoving(t *testing.T) {
	a := Arrow{From: geom.Pt(1, 2), To: geom.Pt(3, 4)}
	moved := a.Moving(HandleEnd, geom.Pt(9, 9)).(Arrow)
	if moved.From != a.From {
		t.Fatalf("fixed endpoint moved: %+v", moved.From)
	}
	if moved.To != geom.Pt(9, 9) {
		t.Fatalf("endpoint = %+v, want (9,9)", moved.To)
	}
}

func TestTextWidthClamp(t *testing.T) {
	txt := Text{Origin: geom.Pt(50, 100), Width: 300, Content: "x", FontSize: 16}

	grown := txt.Moving(HandleRight, geom.Pt(400, 120)).(Text)
	if grown.Width != 350 || grown.Origin != txt.Origin {
		t.Fatalf("grow: width=%v origin=%+v", grown.Width, grown.Origin)
	}

	shrunk := txt.Moving(HandleRight, geom.Pt(55, 120)).(Text)
	if shrunk.Width != MinTextWidth {
		t.Fatalf("shrink: width=%v, want %v", shrunk.Width, MinTextWidth)
	}

	// Left handle keeps the right edge fixed.
	left := txt.Moving(HandleLeft, geom.Pt(100, 0)).(Text)
	if got := left.Origin.X + left.Width; got != 350 {
		t.Fatalf("right edge moved to %v, want 350", got)
	}
	if left.Width != 250 {
		t.Fatalf("left drag width = %v, want 250", left.Width)
	}
}

func TestOffsetByRoundTrip(t *testing.T) {
	anns := []Annotation{
		Arrow{From: geom.Pt(1, 2), To: geom.Pt(3, 4)},
		Line{From: geom.Pt(5, 6), To: geom.Pt(7, 8)},
		Rectangle{Rect: geom.Rect{X: 1, Y: 2, W: 3, H: 4}},
		Crop{Rect: geom.Rect{X: 1, Y: 2, W: 3, H: 4}},
		Blur{Rect: geom.Rect{X: 1, Y: 2, W: 3, H: 4}},
		Text{Origin: geom.Pt(9, 9), Width: 50, Content: "hello", FontSize: 12},
	}
	for _, a := range anns {
		back := a.OffsetBy(13, -7).OffsetBy(-13, 7)
		if back != a {
			t.Errorf("round trip changed %T: %+v -> %+v", a, a, back)
		}
	}
}

func TestBodyContainsSegment(t *testing.T) {
	m := NewMeasurer()
	l := Line{From: geom.Pt(0, 0), To: geom.Pt(100, 0)}
	if !BodyContains(m, l, geom.Pt(50, 3), 5) {
		t.Fatal("expected point near segment to hit")
	}
	if BodyContains(m, l, geom.Pt(50, 8), 5) {
		t.Fatal("expected point past radius to miss")
	}
	// Zero-length segment degrades to point distance.
	dot := Line{From: geom.Pt(10, 10), To: geom.Pt(10, 10)}
	if !BodyContains(m, dot, geom.Pt(13, 14), 5) {
		t.Fatal("expected degenerate segment to hit within radius")
	}
}

func TestBodyContainsText(t *testing.T) {
	m := NewMeasurer()
	txt := Text{Origin: geom.Pt(10, 10), Width: 200, Content: "hello world", FontSize: 16}
	if !BodyContains(m, txt, geom.Pt(100, 20), 0) {
		t.Fatal("expected point inside text body to hit")
	}
	if BodyContains(m, txt, geom.Pt(250, 20), 0) {
		t.Fatal("expected point right of text body to miss")
	}
}
