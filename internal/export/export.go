// Package export persists a composited image to its destination.
package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"

	"github.com/example/markshot/internal/clipboard"
)

// Destination names where a composited image ends up.
type Destination int

const (
	// DestinationFile writes the image to disk.
	DestinationFile Destination = iota
	// DestinationClipboard publishes the image to the system clipboard.
	DestinationClipboard
)

func (d Destination) String() string {
	switch d {
	case DestinationFile:
		return "file"
	case DestinationClipboard:
		return "clipboard"
	}
	return fmt.Sprintf("Destination(%d)", int(d))
}

// ParseDestination maps a configuration value to a Destination.
func ParseDestination(name string) (Destination, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "file":
		return DestinationFile, nil
	case "clipboard", "clip":
		return DestinationClipboard, nil
	}
	return 0, fmt.Errorf("unknown destination %q", name)
}

// Sink writes a composited image somewhere and returns a human-readable
// detail string for notifications.
type Sink interface {
	Export(img *image.RGBA) (string, error)
}

// FileSink writes the image to Path, or to a timestamped file under Dir when
// Path is empty. The extension selects the codec: .webp uses WebP, anything
// else PNG.
type FileSink struct {
	Path string
	Dir  string

	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (s FileSink) Export(img *image.RGBA) (string, error) {
	path := s.Path
	if path == "" {
		now := time.Now
		if s.Now != nil {
			now = s.Now
		}
		name := fmt.Sprintf("markshot-%s.png", now().Format("20060102-150405"))
		path = filepath.Join(s.Dir, name)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create output %q: %w", path, err)
	}
	if err := encode(f, path, img); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %q: %w", path, err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, nil
}

func encode(f *os.File, path string, img *image.RGBA) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		return webp.Encode(f, img, &webp.Options{Lossless: true})
	default:
		return png.Encode(f, img)
	}
}

// ClipboardSink publishes the image to the system clipboard.
type ClipboardSink struct{}

func (ClipboardSink) Export(img *image.RGBA) (string, error) {
	if err := clipboard.WriteImage(img); err != nil {
		return "", err
	}
	return "image", nil
}
