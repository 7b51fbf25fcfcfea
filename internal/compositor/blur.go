package compositor

import (
	"image"

	"github.com/disintegration/imaging"
)

// mosaicDivisor sets the pixelation block size relative to the larger
// dimension of the blurred region.
const mosaicDivisor = 40

// mosaic produces the censored replacement for rect: the region is cut
// from src, desaturated, then box-averaged down and scaled back up with
// nearest-neighbor so the result is a hard-edged grayscale mosaic.
//
// src must be the ORIGINAL screenshot, never the partially composited
// output, so the pixelation reflects real screen content rather than
// annotations that happen to be drawn first.
func mosaic(src image.Image, rect image.Rectangle) image.Image {
	region := imaging.Crop(src, rect)
	region = imaging.Grayscale(region)

	block := rect.Dx()
	if rect.Dy() > block {
		block = rect.Dy()
	}
	block /= mosaicDivisor
	if block < 1 {
		block = 1
	}
	dw := rect.Dx() / block
	if dw < 1 {
		dw = 1
	}
	dh := rect.Dy() / block
	if dh < 1 {
		dh = 1
	}
	down := imaging.Resize(region, dw, dh, imaging.Box)
	return imaging.Resize(down, rect.Dx(), rect.Dy(), imaging.NearestNeighbor)
}
