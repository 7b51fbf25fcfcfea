package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
)

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Config holds the application configuration.
type Config struct {
	StrokeColor color.RGBA
	StrokeWidth float64
	FontSize    float64
	SaveDir     string
	Notify      Notify

	// Tools maps a modifier combination ("ctrl+shift") to a tool name.
	// Save maps a modifier combination to a destination name. Both are
	// kept as strings here and bound by the caller.
	Tools map[string]string
	Save  map[string]string
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		StrokeColor: color.RGBA{R: 255, A: 255},
		StrokeWidth: 2,
		FontSize:    16,
		Notify: Notify{
			Save: false,
			Copy: false,
		},
		Tools: make(map[string]string),
		Save:  make(map[string]string),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	fmt.Fprintf(&sb, "stroke_color = %s\n", toHex(c.StrokeColor))
	fmt.Fprintf(&sb, "stroke_width = %g\n", c.StrokeWidth)
	fmt.Fprintf(&sb, "font_size = %g\n", c.FontSize)
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	writeMapSection(&sb, "tools", c.Tools)
	writeMapSection(&sb, "save", c.Save)

	return sb.String()
}

// writeMapSection emits a section with sorted keys for deterministic output.
func writeMapSection(sb *strings.Builder, name string, m map[string]string) {
	if len(m) == 0 {
		return
	}
	fmt.Fprintf(sb, "[%s]\n", name)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, "%s = %s\n", k, m[k])
	}
	sb.WriteString("\n")
}

func toHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
