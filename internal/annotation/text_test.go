package annotation

import (
	"strings"
	"testing"

	"github.com/example/markshot/internal/geom"
)

func TestLayoutHeightFloor(t *testing.T) {
	m := NewMeasurer()
	l := m.Layout("", 100, 16)
	if l.Height < 24 {
		t.Fatalf("height = %v, want at least fontSize*1.5 = 24", l.Height)
	}
}

func TestLayoutWrapsLongText(t *testing.T) {
	m := NewMeasurer()
	content := strings.Repeat("word ", 40)
	narrow := m.Layout(content, 80, 16)
	wide := m.Layout(content, 2000, 16)
	if len(narrow.Lines) <= len(wide.Lines) {
		t.Fatalf("narrow layout has %d lines, wide has %d; expected more lines when narrow",
			len(narrow.Lines), len(wide.Lines))
	}
	if narrow.Height <= wide.Height {
		t.Fatalf("narrow height %v should exceed wide height %v", narrow.Height, wide.Height)
	}
}

func TestLayoutRespectsNewlines(t *testing.T) {
	m := NewMeasurer()
	l := m.Layout("a\nb\nc", 500, 16)
	if len(l.Lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(l.Lines), l.Lines)
	}
}

func TestLayoutMemoized(t *testing.T) {
	m := NewMeasurer()
	first := m.Layout("hello world", 120, 16)
	if len(m.layout) != 1 {
		t.Fatalf("cache size = %d, want 1", len(m.layout))
	}
	second := m.Layout("hello world", 120, 16)
	if len(m.layout) != 1 {
		t.Fatalf("repeat measurement grew the cache to %d", len(m.layout))
	}
	if first.Height != second.Height || len(first.Lines) != len(second.Lines) {
		t.Fatal("memoized layout differs from first measurement")
	}
	// A different key measures fresh.
	m.Layout("hello world", 121, 16)
	if len(m.layout) != 2 {
		t.Fatalf("cache size = %d, want 2", len(m.layout))
	}
}

func TestBoundingRectUsesDerivedHeight(t *testing.T) {
	m := NewMeasurer()
	txt := Text{Origin: geom.Pt(50, 100), Width: 300, Content: "hi", FontSize: 16}
	r := m.BoundingRect(txt)
	if r.X != 50 || r.Y != 100 || r.W != 300 {
		t.Fatalf("bounding rect = %+v", r)
	}
	if r.H < 24 {
		t.Fatalf("bounding height = %v, want >= 24", r.H)
	}
}
