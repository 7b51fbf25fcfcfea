package annotation

import (
	"log"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/markshot/internal/geom"
)

var baseFont *opentype.Font

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	baseFont = f
}

// Layout is the measured shape of a wrapped text block.
type Layout struct {
	Lines      []string
	LineHeight float64
	Height     float64
}

type measureKey struct {
	width    float64
	content  string
	fontSize float64
}

// Measurer wraps and measures text blocks. Results are memoized by
// (width, content, fontSize) since the same measurement is recomputed many
// times during a drag or hover. The cache is unbounded; a measurer lives
// only as long as its editing session.
type Measurer struct {
	faces  map[float64]font.Face
	layout map[measureKey]Layout
}

// NewMeasurer returns an empty Measurer.
func NewMeasurer() *Measurer {
	return &Measurer{
		faces:  make(map[float64]font.Face),
		layout: make(map[measureKey]Layout),
	}
}

// Face returns a font face for the given size in logical points.
func (m *Measurer) Face(size float64) font.Face {
	if f, ok := m.faces[size]; ok {
		return f
	}
	f, err := opentype.NewFace(baseFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// NewFace on a parsed font only fails for invalid options.
		log.Fatalf("font face: %v", err)
	}
	m.faces[size] = f
	return f
}

// Layout wraps content to the given width at fontSize and returns the
// resulting lines and measured height. The height never drops below
// fontSize * 1.5 so an empty or single short line still has a visible,
// clickable body.
func (m *Measurer) Layout(content string, width, fontSize float64) Layout {
	key := measureKey{width: width, content: content, fontSize: fontSize}
	if l, ok := m.layout[key]; ok {
		return l
	}

	face := m.Face(fontSize)
	metrics := face.Metrics()
	lineHeight := fixedToFloat(metrics.Height)
	if lineHeight <= 0 {
		lineHeight = fontSize
	}

	var lines []string
	for _, para := range strings.Split(content, "\n") {
		lines = append(lines, wrapLine(face, para, width)...)
	}

	height := float64(len(lines)) * lineHeight
	if min := fontSize * 1.5; height < min {
		height = min
	}
	l := Layout{Lines: lines, LineHeight: lineHeight, Height: height}
	m.layout[key] = l
	return l
}

// BoundingRect returns the derived bounding rectangle of a text annotation.
func (m *Measurer) BoundingRect(t Text) geom.Rect {
	l := m.Layout(t.Content, t.Width, t.FontSize)
	return geom.Rect{X: t.Origin.X, Y: t.Origin.Y, W: t.Width, H: l.Height}
}

// wrapLine greedily packs words into lines no wider than width. A single
// word wider than the line gets a line of its own rather than being split.
func wrapLine(face font.Face, s string, width float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{s}
	}
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if measure(face, candidate) <= width {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = w
	}
	return append(lines, current)
}

func measure(face font.Face, s string) float64 {
	return fixedToFloat(font.MeasureString(face, s))
}

// fixedToFloat converts a 26.6 fixed-point value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
