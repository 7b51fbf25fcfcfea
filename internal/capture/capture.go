// Package capture acquires the source bitmap an editing session works on,
// together with its logical size. On high-density displays the bitmap holds
// more pixels than logical units; the scale factor relates the two.
package capture

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/example/markshot/internal/geom"
)

// Source is a bitmap paired with the logical size annotations are expressed in.
type Source struct {
	Image   *image.RGBA
	Logical geom.Size
}

// Provider produces the source bitmap for an editing session.
type Provider interface {
	Acquire() (Source, error)
}

// FileProvider loads the source from an image file on disk. Scale is the
// pixel density factor; 2 means the file holds 2x2 pixels per logical unit.
type FileProvider struct {
	Path  string
	Scale float64
}

func (p FileProvider) Acquire() (Source, error) {
	img, err := imaging.Open(p.Path, imaging.AutoOrientation(true))
	if err != nil {
		return Source{}, fmt.Errorf("open %s: %w", p.Path, err)
	}
	return newSource(img, p.Scale)
}

// ClipboardProvider reads the source from the system clipboard.
type ClipboardProvider struct {
	Scale float64
}

func (p ClipboardProvider) Acquire() (Source, error) {
	img, err := readClipboardImage()
	if err != nil {
		return Source{}, err
	}
	return newSource(img, p.Scale)
}

func newSource(img image.Image, scale float64) (Source, error) {
	if scale <= 0 {
		scale = 1
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return Source{}, fmt.Errorf("source image is empty")
	}
	rgba := toRGBA(img)
	return Source{
		Image:   rgba,
		Logical: geom.Size{W: float64(b.Dx()) / scale, H: float64(b.Dy()) / scale},
	}, nil
}

// toRGBA copies the image into a zero-based *image.RGBA.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
