// Package editor implements the interaction state machine of an editing
// session: it resolves pointer and key events into annotation mutations,
// tracks hover, and owns the undo log. One session corresponds to one
// screenshot; nothing here is persisted or shared across goroutines.
package editor

import (
	"image"
	"strings"

	"golang.org/x/mobile/event/key"

	"github.com/example/markshot/internal/annotation"
	"github.com/example/markshot/internal/compositor"
	"github.com/example/markshot/internal/geom"
	"github.com/example/markshot/internal/history"
)

// Hit-test tolerances and the degenerate-drag threshold, in view points.
// They are converted to image space per event so the felt size stays
// constant across zoom levels and image resolutions.
const (
	handleTolerance = 10
	bodyTolerance   = 5
	dragThreshold   = 2
)

// Session is one editing session over a captured screenshot.
type Session struct {
	src       *image.RGBA
	transform geom.Transform

	annotations []annotation.Annotation
	log         history.Log
	state       pointerState
	hover       int

	measurer *annotation.Measurer
	bindings Bindings
	style    compositor.Style
	textMode bool
	fontSize float64
}

// Option configures a Session during creation.
type Option func(*Session)

// WithBindings replaces the default tool bindings.
func WithBindings(b Bindings) Option { return func(s *Session) { s.bindings = b } }

// WithStyle sets the stroke style used when compositing.
func WithStyle(st compositor.Style) Option { return func(s *Session) { s.style = st } }

// WithFontSize sets the font size new text annotations start with.
func WithFontSize(size float64) Option { return func(s *Session) { s.fontSize = size } }

// NewSession creates a session for src. logical is the screenshot's point
// size (its pixel size divided by the display scale); view is the size of
// the on-screen editing surface.
func NewSession(src *image.RGBA, logical, view geom.Size, opts ...Option) *Session {
	s := &Session{
		src:       src,
		transform: geom.Transform{Image: logical, View: view},
		state:     idle{},
		hover:     -1,
		measurer:  annotation.NewMeasurer(),
		bindings:  DefaultBindings(),
		style:     compositor.DefaultStyle(),
		fontSize:  16,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SetViewSize updates the transform after the editing surface resizes.
func (s *Session) SetViewSize(view geom.Size) {
	s.transform.View = view
}

// Transform returns the active view/image mapping.
func (s *Session) Transform() geom.Transform { return s.transform }

// Annotations returns a copy of the current annotation list in z-order.
func (s *Session) Annotations() []annotation.Annotation {
	out := make([]annotation.Annotation, len(s.annotations))
	copy(out, s.annotations)
	return out
}

// SetAnnotations replaces the annotation list and resets history and
// interaction state. Intended for tests that need a known scene without
// simulating full gesture sequences.
func (s *Session) SetAnnotations(anns []annotation.Annotation) {
	s.annotations = append([]annotation.Annotation(nil), anns...)
	s.log = history.Log{}
	s.state = idle{}
	s.hover = -1
}

// Measurer exposes the session's text measurer for presentation code.
func (s *Session) Measurer() *annotation.Measurer { return s.measurer }

// SetTextMode toggles whether an unmodified click opens a text buffer
// instead of starting an arrow drag.
func (s *Session) SetTextMode(on bool) { s.textMode = on }

// TextMode reports whether text mode is active.
func (s *Session) TextMode() bool { return s.textMode }

// HoverIndex returns the index of the annotation under the pointer, or -1.
func (s *Session) HoverIndex() int { return s.hover }

// Dragging reports whether a press-drag interaction is in progress.
func (s *Session) Dragging() bool {
	switch s.state.(type) {
	case drawing, editingHandle, movingAnnotation:
		return true
	}
	return false
}

// Draft returns the in-progress shape of an active drawing drag.
func (s *Session) Draft() (annotation.Annotation, bool) {
	d, ok := s.state.(drawing)
	if !ok {
		return nil, false
	}
	return draftAnnotation(d.kind, d.origin, d.current), true
}

// TextEditing returns the open text buffer, if any.
func (s *Session) TextEditing() (TextEdit, bool) {
	t, ok := s.state.(editingText)
	if !ok {
		return TextEdit{}, false
	}
	return TextEdit{
		Buffer:   t.buffer,
		Origin:   t.origin,
		Width:    t.width,
		FontSize: t.fontSize,
		Target:   t.target,
	}, true
}

// PointerDown starts an interaction. p is in view space; mods are the
// modifiers held at press time, which fix the tool for the whole drag.
func (s *Session) PointerDown(p geom.Point, mods key.Modifiers) {
	// An open text buffer absorbs clicks inside its bounds; a click
	// outside finalizes it first, then the press is processed normally.
	if t, ok := s.state.(editingText); ok {
		ip := s.transform.ViewToImage(p)
		bounds := s.textBounds(t)
		if bounds.Contains(ip) {
			return
		}
		s.FinalizeText()
	}

	ip := s.transform.ViewToImage(p)

	if h, ok := s.hitAt(ip); ok && h.isHandle {
		s.state = editingHandle{index: h.index, handle: h.handle, before: s.annotations[h.index]}
		return
	} else if ok && mods == 0 {
		s.state = movingAnnotation{index: h.index, before: s.annotations[h.index], last: ip}
		return
	}

	if mods == 0 && s.textMode {
		s.state = editingText{buffer: "", target: -1, origin: ip, width: defaultTextWidth, fontSize: s.fontSize}
		return
	}

	if kind, ok := s.bindings.Tools[mods]; ok {
		s.state = drawing{kind: kind, origin: ip, current: ip}
		return
	}
	s.state = idle{}
}

// defaultTextWidth is the initial wrap width of a freshly opened buffer.
const defaultTextWidth = 240

// PointerDrag continues the active interaction at p (view space).
func (s *Session) PointerDrag(p geom.Point) {
	ip := s.transform.ViewToImage(p)
	switch st := s.state.(type) {
	case drawing:
		st.current = ip
		s.state = st
	case editingHandle:
		if st.index < 0 || st.index >= len(s.annotations) {
			return
		}
		// Recompute from the snapshot so crossing the anchor flips
		// cleanly instead of compounding.
		s.annotations[st.index] = st.before.Moving(st.handle, ip)
	case movingAnnotation:
		if st.index < 0 || st.index >= len(s.annotations) {
			return
		}
		d := ip.Sub(st.last)
		s.annotations[st.index] = s.annotations[st.index].OffsetBy(d.X, d.Y)
		st.last = ip
		s.state = st
	}
}

// PointerUp ends the active interaction at p (view space) and commits or
// discards its result.
func (s *Session) PointerUp(p geom.Point) {
	ip := s.transform.ViewToImage(p)
	switch st := s.state.(type) {
	case drawing:
		s.state = idle{}
		threshold := s.transform.ImageLength(dragThreshold)
		if st.origin.Dist(ip) < threshold {
			return // degenerate drag, nothing to commit
		}
		a := draftAnnotation(st.kind, st.origin, ip)
		if c, ok := a.(annotation.Crop); ok {
			s.commitCrop(c)
			return
		}
		s.insert(a)
	case editingHandle:
		s.state = idle{}
		if st.index < 0 || st.index >= len(s.annotations) {
			return
		}
		after := s.annotations[st.index]
		if after != st.before {
			s.log.Record(history.Replace(st.index, st.before, after))
		}
	case movingAnnotation:
		s.state = idle{}
		if st.index < 0 || st.index >= len(s.annotations) {
			return
		}
		after := s.annotations[st.index]
		if after == st.before {
			// A click, not a drag. Clicking a text annotation reopens
			// its buffer for editing.
			if t, ok := after.(annotation.Text); ok {
				s.state = editingText{
					buffer:   t.Content,
					target:   st.index,
					origin:   t.Origin,
					width:    t.Width,
					fontSize: t.FontSize,
				}
			}
			return
		}
		s.log.Record(history.Replace(st.index, st.before, after))
	}
}

// PointerMove updates hover tracking. Call this for motion without an
// active drag; hover feeds the delete key and cursor hints.
func (s *Session) PointerMove(p geom.Point) {
	ip := s.transform.ViewToImage(p)
	if h, ok := s.hitAt(ip); ok {
		s.hover = h.index
		return
	}
	s.hover = -1
}

// PointerExit clears hover when the pointer leaves the editing surface.
func (s *Session) PointerExit() {
	s.hover = -1
}

// KeyPress routes a key event. An open text buffer intercepts plain
// keystrokes; otherwise only the delete binding is handled here, with
// shortcuts like undo/redo left to the surrounding application.
func (s *Session) KeyPress(e key.Event) {
	if t, ok := s.state.(editingText); ok {
		s.textKey(t, e)
		return
	}
	if e.Code == s.bindings.Delete && s.hover >= 0 && s.hover < len(s.annotations) {
		removed := s.annotations[s.hover]
		idx := s.hover
		s.annotations = append(s.annotations[:idx], s.annotations[idx+1:]...)
		s.log.Record(history.Remove(idx, removed))
		s.hover = -1
	}
}

func (s *Session) textKey(t editingText, e key.Event) {
	switch e.Code {
	case key.CodeReturnEnter:
		if e.Modifiers&key.ModShift != 0 {
			t.buffer += "\n"
			s.state = t
			return
		}
		s.FinalizeText()
		return
	case key.CodeEscape:
		s.FinalizeText()
		return
	case key.CodeDeleteBackspace:
		if len(t.buffer) > 0 {
			r := []rune(t.buffer)
			t.buffer = string(r[:len(r)-1])
		}
		s.state = t
		return
	}
	if e.Modifiers&key.ModControl != 0 {
		// Font size adjustments apply to the live buffer and are
		// remeasured on the next layout query.
		switch e.Rune {
		case '+', '=':
			t.fontSize += 2
			s.state = t
		case '-':
			if t.fontSize > 6 {
				t.fontSize -= 2
			}
			s.state = t
		}
		return
	}
	if e.Rune > 0 {
		t.buffer += string(e.Rune)
		s.state = t
	}
}

// FinalizeText closes the open text buffer: an empty buffer over an
// existing annotation removes it, an empty new buffer is discarded, and a
// non-empty buffer inserts or replaces as one undoable step. It is a no-op
// when no buffer is open. The surrounding application also calls this on
// window close.
func (s *Session) FinalizeText() {
	t, ok := s.state.(editingText)
	if !ok {
		return
	}
	s.state = idle{}

	empty := strings.TrimSpace(t.buffer) == ""
	existing := t.target >= 0 && t.target < len(s.annotations)
	switch {
	case empty && existing:
		removed := s.annotations[t.target]
		s.annotations = append(s.annotations[:t.target], s.annotations[t.target+1:]...)
		s.log.Record(history.Remove(t.target, removed))
	case empty:
		// Never typed anything: discard silently.
	case existing:
		before := s.annotations[t.target]
		after := annotation.Text{Origin: t.origin, Width: t.width, Content: t.buffer, FontSize: t.fontSize}
		s.annotations[t.target] = after
		s.log.Record(history.Replace(t.target, before, after))
	default:
		s.insert(annotation.Text{Origin: t.origin, Width: t.width, Content: t.buffer, FontSize: t.fontSize})
	}
}

// Undo reverts the most recent committed action. Ignored mid-drag since
// the active snapshot would reference stale indices.
func (s *Session) Undo() bool {
	if _, ok := s.state.(idle); !ok {
		return false
	}
	list, ok := s.log.Undo(s.annotations)
	s.annotations = list
	s.hover = -1
	return ok
}

// Redo re-applies the most recently undone action.
func (s *Session) Redo() bool {
	if _, ok := s.state.(idle); !ok {
		return false
	}
	list, ok := s.log.Redo(s.annotations)
	s.annotations = list
	s.hover = -1
	return ok
}

// Composite renders the final exported bitmap from the source screenshot
// and the committed annotation list.
func (s *Session) Composite() (*image.RGBA, error) {
	return compositor.Compose(s.src, s.transform.Image, s.annotations, s.measurer, s.style)
}

// Preview renders the surface the editing view displays. A committed crop
// is left unapplied so the view always shows the full image and the
// view/image transform stays valid.
func (s *Session) Preview() (*image.RGBA, error) {
	return compositor.Preview(s.src, s.transform.Image, s.annotations, s.measurer, s.style)
}

func (s *Session) insert(a annotation.Annotation) {
	idx := len(s.annotations)
	s.annotations = append(s.annotations, a)
	s.log.Record(history.Insert(idx, a))
}

// commitCrop appends a new crop, removing any existing one inside the same
// undo group so a single undo restores the previous crop state.
func (s *Session) commitCrop(c annotation.Crop) {
	s.log.Begin()
	for i, a := range s.annotations {
		if _, ok := a.(annotation.Crop); ok {
			s.annotations = append(s.annotations[:i], s.annotations[i+1:]...)
			s.log.Record(history.Remove(i, a))
			break
		}
	}
	idx := len(s.annotations)
	s.annotations = append(s.annotations, c)
	s.log.Record(history.Insert(idx, c))
	s.log.End()
}

func (s *Session) textBounds(t editingText) geom.Rect {
	l := s.measurer.Layout(t.buffer, t.width, t.fontSize)
	return geom.Rect{X: t.origin.X, Y: t.origin.Y, W: t.width, H: l.Height}
}
