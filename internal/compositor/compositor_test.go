package compositor

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/example/markshot/internal/annotation"
	"github.com/example/markshot/internal/geom"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

func TestComposeBaseLayerUnchanged(t *testing.T) {
	white := color.RGBA{255, 255, 255, 255}
	src := solid(80, 40, white)
	out, err := Compose(src, geom.Size{W: 80, H: 40}, nil, annotation.NewMeasurer(), DefaultStyle())
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !out.Bounds().Eq(src.Bounds()) {
		t.Fatalf("bounds changed: %v vs %v", out.Bounds(), src.Bounds())
	}
	if !bytes.Equal(out.Pix, src.Pix) {
		t.Fatal("empty annotation list must reproduce the source exactly")
	}
}

func TestComposeDeterministic(t *testing.T) {
	src := solid(100, 60, color.RGBA{30, 60, 90, 255})
	anns := []annotation.Annotation{
		annotation.Blur{Rect: geom.Rect{X: 10, Y: 10, W: 30, H: 20}},
		annotation.Arrow{From: geom.Pt(5, 5), To: geom.Pt(90, 50)},
		annotation.Rectangle{Rect: geom.Rect{X: 50, Y: 5, W: 40, H: 30}},
		annotation.Text{Origin: geom.Pt(10, 35), Width: 80, Content: "hello", FontSize: 12},
	}
	m := annotation.NewMeasurer()
	first, err := Compose(src, geom.Size{W: 100, H: 60}, anns, m, DefaultStyle())
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	second, err := Compose(src, geom.Size{W: 100, H: 60}, anns, m, DefaultStyle())
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Fatal("same inputs produced different pixels")
	}
}

func TestBlurSamplesOriginalPixels(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	src := solid(100, 100, red)
	region := geom.Rect{X: 20, Y: 20, W: 40, H: 40}
	// The rectangle sits below the blur in z-order; the blur must still
	// sample the untouched source, not a surface the outline was drawn on.
	anns := []annotation.Annotation{
		annotation.Rectangle{Rect: region},
		annotation.Blur{Rect: region},
	}
	out, err := Compose(src, geom.Size{W: 100, H: 100}, anns, annotation.NewMeasurer(), DefaultStyle())
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	// An interior pixel well away from the outline: desaturated source.
	px := out.RGBAAt(40, 40)
	if px.R != px.G || px.G != px.B {
		t.Fatalf("blur interior %v is not grayscale", px)
	}
	if px == red {
		t.Fatal("blur region kept the original saturated color")
	}
}

func TestComposeCropTrimsOutput(t *testing.T) {
	src := solid(100, 50, color.RGBA{10, 200, 30, 255})
	anns := []annotation.Annotation{
		annotation.Crop{Rect: geom.Rect{X: 10, Y: 5, W: 30, H: 20}},
	}
	out, err := Compose(src, geom.Size{W: 100, H: 50}, anns, annotation.NewMeasurer(), DefaultStyle())
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if out.Bounds().Dx() != 30 || out.Bounds().Dy() != 20 {
		t.Fatalf("cropped bounds = %v, want 30x20", out.Bounds())
	}
	if got := out.RGBAAt(0, 0); got != src.RGBAAt(10, 5) {
		t.Fatalf("crop origin pixel = %v, want %v", got, src.RGBAAt(10, 5))
	}
}

func TestPreviewLeavesSurfaceUncropped(t *testing.T) {
	src := solid(100, 50, color.RGBA{10, 200, 30, 255})
	anns := []annotation.Annotation{
		annotation.Crop{Rect: geom.Rect{X: 10, Y: 5, W: 30, H: 20}},
	}
	out, err := Preview(src, geom.Size{W: 100, H: 50}, anns, annotation.NewMeasurer(), DefaultStyle())
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if out.Bounds() != src.Bounds() {
		t.Fatalf("preview bounds = %v, want %v", out.Bounds(), src.Bounds())
	}
	// The crop is an export trim only; the preview surface is untouched.
	if got := out.RGBAAt(0, 0); got != src.RGBAAt(0, 0) {
		t.Fatalf("preview origin pixel = %v, want %v", got, src.RGBAAt(0, 0))
	}
}

func TestComposeScalesLogicalCoordinates(t *testing.T) {
	// 2 device pixels per logical point.
	src := solid(400, 200, color.RGBA{255, 255, 255, 255})
	style := DefaultStyle()
	anns := []annotation.Annotation{
		annotation.Line{From: geom.Pt(10, 10), To: geom.Pt(50, 10)},
	}
	out, err := Compose(src, geom.Size{W: 200, H: 100}, anns, annotation.NewMeasurer(), style)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if got := out.RGBAAt(60, 20); got != style.Stroke {
		t.Fatalf("pixel (60,20) = %v, want stroke %v", got, style.Stroke)
	}
	if got := out.RGBAAt(60, 40); got == style.Stroke {
		t.Fatal("stroke leaked outside the scaled line position")
	}
}

func TestComposeRejectsEmptySource(t *testing.T) {
	if _, err := Compose(nil, geom.Size{W: 10, H: 10}, nil, annotation.NewMeasurer(), DefaultStyle()); err == nil {
		t.Fatal("expected error for nil source")
	}
	if _, err := Compose(image.NewRGBA(image.Rectangle{}), geom.Size{W: 10, H: 10}, nil, annotation.NewMeasurer(), DefaultStyle()); err == nil {
		t.Fatal("expected error for empty source")
	}
	if _, err := Compose(solid(10, 10, color.RGBA{}), geom.Size{}, nil, annotation.NewMeasurer(), DefaultStyle()); err == nil {
		t.Fatal("expected error for zero logical size")
	}
}
