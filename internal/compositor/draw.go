package compositor

import (
	"image"
	"image/color"
	"math"
)

// pen carries the stroke state for the segment primitives. The logical
// stroke width is converted to pixels once, at construction, so every
// stamp along a stroke is the same size.
type pen struct {
	color color.RGBA
	width int
}

func newPen(style Style, scale float64) pen {
	w := int(math.Round(style.StrokeWidth * scale))
	if w < 1 {
		w = 1
	}
	return pen{color: style.Stroke, width: w}
}

// stamp covers a width-sized square centered on at, clipped to the image.
func (p pen) stamp(img *image.RGBA, at image.Point) {
	r := p.width / 2
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			q := at.Add(image.Pt(dx, dy))
			if q.In(img.Bounds()) {
				img.SetRGBA(q.X, q.Y, p.color)
			}
		}
	}
}

// strokeSegment walks the Bresenham line from a to b, stamping the pen at
// every step. Both endpoints are stamped.
func (p pen) strokeSegment(img *image.RGBA, a, b image.Point) {
	dx := intAbs(b.X - a.X)
	dy := -intAbs(b.Y - a.Y)
	sx := 1
	if a.X > b.X {
		sx = -1
	}
	sy := 1
	if a.Y > b.Y {
		sy = -1
	}
	e := dx + dy
	for {
		p.stamp(img, a)
		if a == b {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			a.X += sx
		}
		if e2 <= dx {
			e += dx
			a.Y += sy
		}
	}
}

// strokeArrow draws the shaft plus two head strokes angled thirty degrees
// off it at the target end. The head length grows with the pen width so it
// stays proportionate at high export resolutions.
func (p pen) strokeArrow(img *image.RGBA, from, to image.Point) {
	p.strokeSegment(img, from, to)
	shaft := math.Atan2(float64(to.Y-from.Y), float64(to.X-from.X))
	length := float64(6 + p.width*2)
	for _, a := range [2]float64{shaft + math.Pi/6, shaft - math.Pi/6} {
		tip := image.Pt(
			to.X-int(math.Cos(a)*length),
			to.Y-int(math.Sin(a)*length),
		)
		p.strokeSegment(img, to, tip)
	}
}

func (p pen) strokeOutline(img *image.RGBA, rect image.Rectangle) {
	tl := rect.Min
	br := rect.Max.Sub(image.Pt(1, 1))
	tr := image.Pt(br.X, tl.Y)
	bl := image.Pt(tl.X, br.Y)
	p.strokeSegment(img, tl, tr)
	p.strokeSegment(img, tr, br)
	p.strokeSegment(img, br, bl)
	p.strokeSegment(img, bl, tl)
}

func intAbs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
