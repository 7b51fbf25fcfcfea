package geom

// Transform maps between view space (the on-screen editing surface as seen
// by input devices) and image logical space. The mapping is a uniform scale
// with no rotation, so a single factor converts lengths in either direction.
type Transform struct {
	Image Size
	View  Size
}

// Scale returns the number of image points per view point.
func (t Transform) Scale() float64 {
	if t.View.W == 0 {
		return 1
	}
	return t.Image.W / t.View.W
}

// ViewToImage converts a view-space position to image logical space. The
// result is clamped to [0, imageSize] on both axes since the pointer can
// leave the view bounds mid-drag.
func (t Transform) ViewToImage(p Point) Point {
	s := t.Scale()
	out := Point{p.X * s, p.Y * s}
	if out.X < 0 {
		out.X = 0
	} else if out.X > t.Image.W {
		out.X = t.Image.W
	}
	if out.Y < 0 {
		out.Y = 0
	} else if out.Y > t.Image.H {
		out.Y = t.Image.H
	}
	return out
}

// ImageToView converts an image-space position to view space. Unlike
// ViewToImage the result is not clamped.
func (t Transform) ImageToView(p Point) Point {
	s := t.Scale()
	if s == 0 {
		return p
	}
	return Point{p.X / s, p.Y / s}
}

// ImageLength converts a length given in view points to image points.
// Hit-test tolerances are specified in view space so they stay visually
// constant regardless of image resolution or window size.
func (t Transform) ImageLength(l float64) float64 {
	return l * t.Scale()
}
