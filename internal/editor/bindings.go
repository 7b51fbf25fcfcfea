package editor

import (
	"fmt"
	"strings"

	"golang.org/x/mobile/event/key"
)

// Bindings maps modifier combinations held at pointer-down to drawing
// tools, and names the key that deletes the hovered annotation. The
// mapping is configuration, not engine policy; the only hard rule is that
// each combination selects at most one tool.
type Bindings struct {
	Tools  map[key.Modifiers]Kind
	Delete key.Code
}

// DefaultBindings returns the stock tool bindings: a bare drag draws an
// arrow, shift a line, control a rectangle, alt a blur and control+shift a
// crop.
func DefaultBindings() Bindings {
	return Bindings{
		Tools: map[key.Modifiers]Kind{
			0:                             KindArrow,
			key.ModShift:                  KindLine,
			key.ModControl:                KindRectangle,
			key.ModAlt:                    KindBlur,
			key.ModControl | key.ModShift: KindCrop,
		},
		Delete: key.CodeDeleteBackspace,
	}
}

var modifierNames = map[string]key.Modifiers{
	"shift": key.ModShift,
	"ctrl":  key.ModControl,
	"alt":   key.ModAlt,
	"meta":  key.ModMeta,
	"none":  0,
}

var toolNames = map[string]Kind{
	"arrow":     KindArrow,
	"line":      KindLine,
	"rect":      KindRectangle,
	"rectangle": KindRectangle,
	"blur":      KindBlur,
	"crop":      KindCrop,
}

// ParseModifiers parses a combination like "ctrl+shift" or "none".
func ParseModifiers(s string) (key.Modifiers, error) {
	var mods key.Modifiers
	for _, part := range strings.Split(strings.ToLower(strings.TrimSpace(s)), "+") {
		part = strings.TrimSpace(part)
		m, ok := modifierNames[part]
		if !ok {
			return 0, fmt.Errorf("unknown modifier %q", part)
		}
		mods |= m
	}
	return mods, nil
}

// ParseTool resolves a tool name used in configuration files.
func ParseTool(s string) (Kind, error) {
	k, ok := toolNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown tool %q", s)
	}
	return k, nil
}

// BindTool adds one modifier-to-tool binding, rejecting a combination that
// is already taken so the mapping stays unambiguous.
func (b *Bindings) BindTool(mods key.Modifiers, k Kind) error {
	if b.Tools == nil {
		b.Tools = make(map[key.Modifiers]Kind)
	}
	if existing, ok := b.Tools[mods]; ok && existing != k {
		return fmt.Errorf("modifier combination already bound to another tool")
	}
	b.Tools[mods] = k
	return nil
}
