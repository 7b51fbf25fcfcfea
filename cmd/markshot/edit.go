package main

import (
	"flag"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/markshot/internal/annotation"
	"github.com/example/markshot/internal/capture"
	"github.com/example/markshot/internal/compositor"
	"github.com/example/markshot/internal/editor"
	"github.com/example/markshot/internal/export"
	"github.com/example/markshot/internal/geom"
)

// editCmd opens the annotation window.
type editCmd struct {
	file          string
	output        string
	fromClipboard bool
	scale         float64
	*root
	fs *flag.FlagSet
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(e)
	fs.StringVar(&e.file, "file", "", "image file to annotate")
	fs.StringVar(&e.output, "output", "", "output file path (default: timestamped file in the save directory)")
	fs.BoolVar(&e.fromClipboard, "from-clipboard", false, "load the input image from the clipboard")
	fs.Float64Var(&e.scale, "scale", 1, "pixels per logical unit in the input image")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if e.file == "" && !e.fromClipboard {
		return nil, &UsageError{of: e}
	}
	return e, nil
}

func (e *editCmd) Run() error {
	var provider capture.Provider
	if e.fromClipboard {
		provider = capture.ClipboardProvider{Scale: e.scale}
	} else {
		provider = capture.FileProvider{Path: e.file, Scale: e.scale}
	}
	src, err := provider.Acquire()
	if err != nil {
		return err
	}

	bindings, err := e.bindings()
	if err != nil {
		return err
	}
	resolver, err := e.saveResolver()
	if err != nil {
		return err
	}

	style := compositor.DefaultStyle()
	if e.config != nil {
		style = compositor.Style{Stroke: e.config.StrokeColor, StrokeWidth: e.config.StrokeWidth}
	}
	fontSize := 16.0
	if e.config != nil && e.config.FontSize > 0 {
		fontSize = e.config.FontSize
	}

	win := &editWindow{
		src:      src,
		bindings: bindings,
		resolver: resolver,
		style:    style,
		fontSize: fontSize,
		output:   e.output,
		saveDir:  e.configSaveDir(),
		root:     e.root,
	}
	driver.Main(win.main)
	return nil
}

func (e *editCmd) configSaveDir() string {
	if e.config == nil {
		return "."
	}
	if e.config.SaveDir == "" {
		return "."
	}
	return e.config.SaveDir
}

type editWindow struct {
	src      capture.Source
	bindings editor.Bindings
	resolver *export.Resolver
	style    compositor.Style
	fontSize float64
	output   string
	saveDir  string
	root     *root

	session   *editor.Session
	width     int
	height    int
	winWidth  int
	winHeight int
}

func (ew *editWindow) main(s screen.Screen) {
	ew.width = int(math.Round(ew.src.Logical.W))
	ew.height = int(math.Round(ew.src.Logical.H))
	ew.winWidth = ew.width
	ew.winHeight = ew.height
	w, err := s.NewWindow(&screen.NewWindowOptions{
		Width:  ew.width,
		Height: ew.height,
		Title:  "MarkShot",
	})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()

	ew.session = editor.NewSession(ew.src.Image, ew.src.Logical,
		geom.Size{W: float64(ew.width), H: float64(ew.height)},
		editor.WithBindings(ew.bindings),
		editor.WithStyle(ew.style),
		editor.WithFontSize(ew.fontSize),
	)

	var leftDown bool
	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				ew.session.FinalizeText()
				return
			}
		case size.Event:
			ew.winWidth = e.WidthPx
			ew.winHeight = e.HeightPx
			ew.width, ew.height = fitViewSize(e.WidthPx, e.HeightPx, ew.src.Logical)
			ew.session.SetViewSize(geom.Size{W: float64(ew.width), H: float64(ew.height)})
			w.Send(paint.Event{})
		case paint.Event:
			ew.renderFrame(s, w)
		case mouse.Event:
			p := geom.Pt(float64(e.X), float64(e.Y))
			switch {
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
				leftDown = true
				ew.session.PointerDown(p, e.Modifiers)
				w.Send(paint.Event{})
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
				leftDown = false
				ew.session.PointerUp(p)
				w.Send(paint.Event{})
			case e.Direction == mouse.DirNone:
				if leftDown {
					ew.session.PointerDrag(p)
					w.Send(paint.Event{})
				} else {
					ew.session.PointerMove(p)
				}
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if ew.handleKey(w, e) {
				return
			}
			w.Send(paint.Event{})
		}
	}
}

// handleKey routes one key press. It returns true when the window should
// close.
func (ew *editWindow) handleKey(w screen.Window, e key.Event) bool {
	if _, open := ew.session.TextEditing(); open {
		ew.session.KeyPress(e)
		return false
	}
	if e.Modifiers&key.ModControl != 0 {
		switch e.Rune {
		case 'z':
			ew.session.Undo()
			return false
		case 'y':
			ew.session.Redo()
			return false
		case 's':
			ew.save(e.Modifiers &^ key.ModControl)
			return false
		}
	}
	switch e.Rune {
	case 't':
		ew.session.SetTextMode(!ew.session.TextMode())
		return false
	case 'q':
		ew.session.FinalizeText()
		return true
	}
	if e.Code == key.CodeEscape {
		return true
	}
	ew.session.KeyPress(e)
	return false
}

func (ew *editWindow) save(mods key.Modifiers) {
	img, err := ew.session.Composite()
	if err != nil {
		log.Printf("save: %v", err)
		return
	}
	var sink export.Sink
	dest := ew.resolver.Resolve(mods)
	switch dest {
	case export.DestinationClipboard:
		sink = export.ClipboardSink{}
	default:
		sink = export.FileSink{Path: ew.output, Dir: ew.saveDir}
	}
	detail, err := sink.Export(img)
	if err != nil {
		log.Printf("save: %v", err)
		return
	}
	log.Printf("exported %s to %s", detail, dest)
	switch dest {
	case export.DestinationClipboard:
		ew.root.notifyCopy(detail)
	default:
		ew.root.notifySave(detail)
	}
}

// fitViewSize fits the image aspect ratio inside the window, so the view
// keeps a uniform scale after a non-proportional resize. The unused window
// area is letterboxed.
func fitViewSize(winW, winH int, logical geom.Size) (int, int) {
	if winW <= 0 || winH <= 0 || logical.W <= 0 || logical.H <= 0 {
		return winW, winH
	}
	aspect := logical.W / logical.H
	w := winW
	h := int(math.Round(float64(winW) / aspect))
	if h > winH {
		h = winH
		w = int(math.Round(float64(winH) * aspect))
	}
	return w, h
}

func (ew *editWindow) renderFrame(s screen.Screen, w screen.Window) {
	comp, err := ew.session.Preview()
	if err != nil {
		log.Printf("render: %v", err)
		return
	}
	view := imaging.Resize(comp, ew.width, ew.height, imaging.Box)

	b, err := s.NewBuffer(image.Point{X: ew.winWidth, Y: ew.winHeight})
	if err != nil {
		log.Printf("render: %v", err)
		return
	}
	defer b.Release()
	rgba := b.RGBA()
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(letterboxColor), image.Point{}, draw.Src)
	draw.Draw(rgba, image.Rect(0, 0, ew.width, ew.height), view, image.Point{}, draw.Src)

	ew.drawOverlays(rgba)

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

var (
	handleFill     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	handleBorder   = color.RGBA{A: 255}
	marqueeColor   = color.RGBA{R: 64, G: 160, B: 255, A: 255}
	letterboxColor = color.RGBA{R: 32, G: 32, B: 32, A: 255}
)

func (ew *editWindow) drawOverlays(dst *image.RGBA) {
	tr := ew.session.Transform()

	for i, a := range ew.session.Annotations() {
		// The preview never trims the surface, so the committed crop is
		// shown as a marquee like the in-progress one.
		if c, ok := a.(annotation.Crop); ok {
			dashRect(dst, viewRect(tr, c.Rect), marqueeColor)
		}
		hovered := i == ew.session.HoverIndex()
		for _, hp := range a.Handles() {
			vp := tr.ImageToView(hp.Point)
			half := 3
			if hovered {
				half = 4
			}
			fillSquare(dst, int(vp.X), int(vp.Y), half, handleFill)
			strokeSquare(dst, int(vp.X), int(vp.Y), half, handleBorder)
		}
	}

	if draft, ok := ew.session.Draft(); ok {
		ew.drawDraft(dst, tr, draft)
	}

	if te, open := ew.session.TextEditing(); open {
		origin := tr.ImageToView(te.Origin)
		width := int(te.Width / tr.Scale())
		layout := ew.session.Measurer().Layout(te.Buffer, te.Width, te.FontSize)
		height := int(layout.Height / tr.Scale())
		r := image.Rect(int(origin.X), int(origin.Y), int(origin.X)+width, int(origin.Y)+height)
		strokeRect(dst, r, marqueeColor)
		drawUIText(dst, int(origin.X)+2, int(origin.Y)+12, te.Buffer+"_", ew.style.Stroke)
	}
}

func (ew *editWindow) drawDraft(dst *image.RGBA, tr geom.Transform, draft annotation.Annotation) {
	switch d := draft.(type) {
	case annotation.Arrow:
		drawViewLine(dst, tr.ImageToView(d.From), tr.ImageToView(d.To), ew.style.Stroke)
	case annotation.Line:
		drawViewLine(dst, tr.ImageToView(d.From), tr.ImageToView(d.To), ew.style.Stroke)
	case annotation.Rectangle:
		strokeRect(dst, viewRect(tr, d.Rect), ew.style.Stroke)
	case annotation.Blur:
		strokeRect(dst, viewRect(tr, d.Rect), ew.style.Stroke)
	case annotation.Crop:
		dashRect(dst, viewRect(tr, d.Rect), marqueeColor)
	}
}

func viewRect(tr geom.Transform, r geom.Rect) image.Rectangle {
	min := tr.ImageToView(r.Min())
	max := tr.ImageToView(r.Max())
	return image.Rect(int(min.X), int(min.Y), int(max.X), int(max.Y))
}

func fillSquare(dst *image.RGBA, cx, cy, half int, col color.RGBA) {
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			setPixel(dst, x, y, col)
		}
	}
}

func strokeSquare(dst *image.RGBA, cx, cy, half int, col color.RGBA) {
	strokeRect(dst, image.Rect(cx-half, cy-half, cx+half+1, cy+half+1), col)
}

func strokeRect(dst *image.RGBA, r image.Rectangle, col color.RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		setPixel(dst, x, r.Min.Y, col)
		setPixel(dst, x, r.Max.Y-1, col)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		setPixel(dst, r.Min.X, y, col)
		setPixel(dst, r.Max.X-1, y, col)
	}
}

// dashRect draws the rectangle outline with a 4 on, 4 off dash pattern.
func dashRect(dst *image.RGBA, r image.Rectangle, col color.RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		if (x/4)%2 == 0 {
			setPixel(dst, x, r.Min.Y, col)
			setPixel(dst, x, r.Max.Y-1, col)
		}
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		if (y/4)%2 == 0 {
			setPixel(dst, r.Min.X, y, col)
			setPixel(dst, r.Max.X-1, y, col)
		}
	}
}

func drawViewLine(dst *image.RGBA, from, to geom.Point, col color.RGBA) {
	x0, y0 := int(from.X), int(from.Y)
	x1, y1 := int(to.X), int(to.Y)
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		setPixel(dst, x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func drawUIText(dst *image.RGBA, x, y int, text string, col color.RGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func setPixel(dst *image.RGBA, x, y int, col color.RGBA) {
	if image.Pt(x, y).In(dst.Bounds()) {
		dst.SetRGBA(x, y, col)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
