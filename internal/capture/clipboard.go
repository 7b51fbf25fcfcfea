package capture

import (
	"image"

	"github.com/example/markshot/internal/clipboard"
)

func readClipboardImage() (image.Image, error) {
	return clipboard.ReadImage()
}
