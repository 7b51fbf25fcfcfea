// Package compositor rasterizes the final exported image: the source
// screenshot at full pixel resolution with the annotation list drawn over
// it in z-order. Compositing the same inputs twice produces byte-identical
// output; nothing here depends on time or randomness.
package compositor

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/example/markshot/internal/annotation"
	"github.com/example/markshot/internal/geom"
)

// Style carries the stroke appearance shared by all drawn annotations.
// Widths are in logical points and scale with the output resolution.
type Style struct {
	Stroke      color.RGBA
	StrokeWidth float64
}

// DefaultStyle matches the stock red two-point stroke.
func DefaultStyle() Style {
	return Style{Stroke: color.RGBA{255, 0, 0, 255}, StrokeWidth: 2}
}

// Compose renders anns over src and returns the export bitmap. src is the
// untouched capture at device-pixel resolution; logical is its point size,
// so the ratio of the two is the pixels-per-point scale all annotation
// coordinates are converted with. The blur pass runs first and always
// samples src; the crop, when present, trims the finished surface as the
// final step and is never drawn itself.
func Compose(src *image.RGBA, logical geom.Size, anns []annotation.Annotation, m *annotation.Measurer, style Style) (*image.RGBA, error) {
	return compose(src, logical, anns, m, style, true)
}

// Preview renders the same surface as Compose but leaves the crop
// unapplied. The editing view renders from this so a committed crop never
// changes what is on screen or how view coordinates map to the image; the
// caller marks the crop region with an overlay instead.
func Preview(src *image.RGBA, logical geom.Size, anns []annotation.Annotation, m *annotation.Measurer, style Style) (*image.RGBA, error) {
	return compose(src, logical, anns, m, style, false)
}

func compose(src *image.RGBA, logical geom.Size, anns []annotation.Annotation, m *annotation.Measurer, style Style, applyCrop bool) (*image.RGBA, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, fmt.Errorf("compose: empty source image")
	}
	if logical.W <= 0 || logical.H <= 0 {
		return nil, fmt.Errorf("compose: invalid logical size %+v", logical)
	}

	bounds := image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy())
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, src, src.Bounds().Min, draw.Src)

	scale := float64(bounds.Dx()) / logical.W

	// Pass one: blur regions, sampled from the original pixels.
	for _, a := range anns {
		b, ok := a.(annotation.Blur)
		if !ok {
			continue
		}
		r := pixelRect(b.Rect, scale).Intersect(bounds)
		if r.Empty() {
			continue
		}
		draw.Draw(out, r, mosaic(src, r), image.Point{}, draw.Src)
	}

	// Pass two: everything except blur and crop, in list order.
	pn := newPen(style, scale)
	for _, a := range anns {
		switch a := a.(type) {
		case annotation.Arrow:
			pn.strokeArrow(out, pixelPoint(a.From, scale), pixelPoint(a.To, scale))
		case annotation.Line:
			pn.strokeSegment(out, pixelPoint(a.From, scale), pixelPoint(a.To, scale))
		case annotation.Rectangle:
			pn.strokeOutline(out, pixelRect(a.Rect, scale))
		case annotation.Text:
			drawText(out, a, m, scale, style.Stroke)
		}
	}

	// Final step: crop the finished surface. Skipped for the preview so the
	// view transform stays valid for the full image.
	if applyCrop {
		for _, a := range anns {
			if c, ok := a.(annotation.Crop); ok {
				r := pixelRect(c.Rect, scale).Intersect(bounds)
				if !r.Empty() {
					out = cropRGBA(out, r)
				}
				break
			}
		}
	}
	return out, nil
}

func pixelPoint(p geom.Point, scale float64) image.Point {
	return image.Pt(int(math.Round(p.X*scale)), int(math.Round(p.Y*scale)))
}

func pixelRect(r geom.Rect, scale float64) image.Rectangle {
	min := pixelPoint(r.Min(), scale)
	max := pixelPoint(r.Max(), scale)
	return image.Rect(min.X, min.Y, max.X, max.Y)
}

// drawText renders a wrapped text block. Wrapping is decided at logical
// resolution so the export breaks lines exactly where the editor did, then
// each line is drawn with a face scaled to pixel resolution.
func drawText(dst *image.RGBA, t annotation.Text, m *annotation.Measurer, scale float64, col color.RGBA) {
	layout := m.Layout(t.Content, t.Width, t.FontSize)
	face := m.Face(t.FontSize * scale)
	ascent := float64(face.Metrics().Ascent) / 64
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
	for i, line := range layout.Lines {
		y := t.Origin.Y*scale + ascent + float64(i)*layout.LineHeight*scale
		d.Dot = fixed.Point26_6{
			X: fixed.Int26_6(math.Round(t.Origin.X * scale * 64)),
			Y: fixed.Int26_6(math.Round(y * 64)),
		}
		d.DrawString(line)
	}
}

// cropRGBA returns a zero-based copy of rect cut from img.
func cropRGBA(img *image.RGBA, rect image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), img, rect.Min, draw.Src)
	return out
}
