package main

import (
	"flag"
	"fmt"
	"strings"
)

// HelpData is implemented by every command that can render usage text.
type HelpData interface {
	Program() string
	Usage() string
	FlagSet() *flag.FlagSet
}

// UsageError carries the command whose usage should be printed.
type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.of.Usage())
	if fs := e.of.FlagSet(); fs != nil {
		var flags []string
		fs.VisitAll(func(f *flag.Flag) {
			flags = append(flags, fmt.Sprintf("  -%s (default %q)\n        %s", f.Name, f.DefValue, f.Usage))
		})
		if len(flags) > 0 {
			sb.WriteString("\nFlags:\n")
			sb.WriteString(strings.Join(flags, "\n"))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func usageFunc(h HelpData) func() {
	return func() {
		fmt.Println((&UsageError{of: h}).Error())
	}
}

func (r *root) Usage() string {
	return fmt.Sprintf(`Usage: %s [flags] <command> [args]

Commands:
  edit      open an image in the annotation window
  render    draw a single annotation onto an image without a window
  version   print the version
`, r.program)
}

func (e *editCmd) Usage() string {
	return fmt.Sprintf(`Usage: %s edit [flags]

Opens the annotation window. Drag to draw; the modifiers held when the
drag starts pick the tool. Press t to place text, Ctrl+Z / Ctrl+Y to
undo and redo, Ctrl+S to save and q to quit.
`, e.program)
}

func (c *renderCmd) Usage() string {
	return fmt.Sprintf(`Usage: %s render [flags] <shape> <args>

Shapes:
  arrow x0 y0 x1 y1
  line x0 y0 x1 y1
  rect x0 y0 x1 y1
  blur x0 y0 x1 y1
  crop x0 y0 x1 y1
  text x y width content...
`, c.program)
}

func (v *versionCmd) Usage() string {
	return fmt.Sprintf("Usage: %s version\n", v.r.program)
}

func (v *versionCmd) Program() string { return v.r.program }

func (v *versionCmd) FlagSet() *flag.FlagSet { return nil }
