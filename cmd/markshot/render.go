package main

import (
	"flag"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/markshot/internal/annotation"
	"github.com/example/markshot/internal/capture"
	"github.com/example/markshot/internal/compositor"
	"github.com/example/markshot/internal/export"
	"github.com/example/markshot/internal/geom"
)

// renderCmd composites a single annotation onto an image without opening a
// window.
type renderCmd struct {
	file          string
	output        string
	fromClipboard bool
	toClipboard   bool
	colorSpec     string
	color         color.RGBA
	width         float64
	textSize      float64
	textWidth     float64
	scale         float64
	shape         string
	coords        []float64
	text          string
	*root
	fs *flag.FlagSet
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	c := &renderCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "input image file")
	fs.StringVar(&c.output, "output", "", "output file path (defaults to input file)")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "read the input image from the clipboard")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.StringVar(&c.colorSpec, "color", "red", "stroke color name or hex value")
	fs.Float64Var(&c.width, "width", 2, "stroke width in logical units")
	fs.Float64Var(&c.textSize, "text-size", 16, "text size in points")
	fs.Float64Var(&c.scale, "scale", 1, "pixels per logical unit in the input image")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	positionals := fs.Args()
	if len(positionals) < 1 {
		return nil, &UsageError{of: c}
	}
	c.shape = strings.ToLower(positionals[0])
	remaining := positionals[1:]

	var err error
	switch c.shape {
	case "arrow", "line", "rect", "blur", "crop":
		c.coords, err = expectFloats(remaining, 4, c.shape)
	case "text":
		if len(remaining) < 4 {
			return nil, fmt.Errorf("text requires x y width and content")
		}
		c.coords, err = expectFloats(remaining[:3], 3, c.shape)
		if err != nil {
			return nil, err
		}
		c.textWidth = c.coords[2]
		c.coords = c.coords[:2]
		c.text = strings.Join(remaining[3:], " ")
		if strings.TrimSpace(c.text) == "" {
			return nil, fmt.Errorf("text content cannot be empty")
		}
	default:
		return nil, fmt.Errorf("unsupported shape %q", c.shape)
	}
	if err != nil {
		return nil, err
	}

	c.color, err = parseColor(c.colorSpec)
	if err != nil {
		return nil, err
	}
	if c.fromClipboard {
		if c.output == "" {
			if c.file == "" {
				return nil, fmt.Errorf("output file is required when reading from the clipboard")
			}
			c.output = c.file
		}
	} else {
		if c.file == "" {
			return nil, fmt.Errorf("input file is required")
		}
		if c.output == "" {
			c.output = c.file
		}
	}
	if c.width <= 0 {
		c.width = 1
	}
	if c.textSize <= 0 {
		c.textSize = 16
	}
	return c, nil
}

func (c *renderCmd) Run() error {
	var provider capture.Provider
	if c.fromClipboard {
		provider = capture.ClipboardProvider{Scale: c.scale}
	} else {
		provider = capture.FileProvider{Path: c.file, Scale: c.scale}
	}
	src, err := provider.Acquire()
	if err != nil {
		return err
	}

	ann, err := c.annotation()
	if err != nil {
		return err
	}

	style := compositor.Style{Stroke: c.color, StrokeWidth: c.width}
	out, err := compositor.Compose(src.Image, src.Logical, []annotation.Annotation{ann}, annotation.NewMeasurer(), style)
	if err != nil {
		return err
	}

	saved, err := export.FileSink{Path: c.output}.Export(out)
	if err != nil {
		return err
	}
	fmt.Printf("saved %s\n", saved)
	c.notifySave(saved)
	if c.toClipboard {
		detail, err := (export.ClipboardSink{}).Export(out)
		if err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Printf("copied %s to clipboard\n", detail)
		c.notifyCopy(detail)
	}
	return nil
}

func (c *renderCmd) annotation() (annotation.Annotation, error) {
	switch c.shape {
	case "arrow":
		return annotation.Arrow{From: geom.Pt(c.coords[0], c.coords[1]), To: geom.Pt(c.coords[2], c.coords[3])}, nil
	case "line":
		return annotation.Line{From: geom.Pt(c.coords[0], c.coords[1]), To: geom.Pt(c.coords[2], c.coords[3])}, nil
	case "rect":
		return annotation.Rectangle{Rect: geom.RectFromCorners(geom.Pt(c.coords[0], c.coords[1]), geom.Pt(c.coords[2], c.coords[3]))}, nil
	case "blur":
		return annotation.Blur{Rect: geom.RectFromCorners(geom.Pt(c.coords[0], c.coords[1]), geom.Pt(c.coords[2], c.coords[3]))}, nil
	case "crop":
		return annotation.Crop{Rect: geom.RectFromCorners(geom.Pt(c.coords[0], c.coords[1]), geom.Pt(c.coords[2], c.coords[3]))}, nil
	case "text":
		return annotation.Text{
			Origin:   geom.Pt(c.coords[0], c.coords[1]),
			Width:    c.textWidth,
			Content:  c.text,
			FontSize: c.textSize,
		}, nil
	}
	return nil, fmt.Errorf("unhandled shape %q", c.shape)
}

func parseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	if strings.HasPrefix(spec, "#") && (len(spec) == 7 || len(spec) == 9) {
		r, err := strconv.ParseUint(spec[1:3], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		g, err := strconv.ParseUint(spec[3:5], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		b, err := strconv.ParseUint(spec[5:7], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		a := uint64(255)
		if len(spec) == 9 {
			val, err := strconv.ParseUint(spec[7:9], 16, 8)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("invalid color %q", s)
			}
			a = val
		}
		return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}

func expectFloats(args []string, n int, shape string) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d numeric arguments", shape, n)
	}
	vals := make([]float64, n)
	for i, raw := range args {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		vals[i] = v
	}
	return vals, nil
}
