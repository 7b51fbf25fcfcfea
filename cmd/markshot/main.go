package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/example/markshot/internal/config"
	"github.com/example/markshot/internal/editor"
	"github.com/example/markshot/internal/export"
	"github.com/example/markshot/internal/notify"
)

var (
	version            = "dev"
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs         *flag.FlagSet
	program    string
	config     *config.Config
	notifier   *notify.Notifier
	saveAlerts bool
	copyAlerts bool
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("markshot", flag.ExitOnError),
		program:  "markshot",
		notifier: notify.New(prefs),
		config:   cfg,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "edit":
		cmd, err = parseEditCmd(subArgs, r)
	case "render":
		cmd, err = parseRenderCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

// bindings builds the tool bindings from the [tools] config section.
func (r *root) bindings() (editor.Bindings, error) {
	b := editor.DefaultBindings()
	if r.config == nil {
		return b, nil
	}
	for modSpec, toolName := range r.config.Tools {
		mods, err := editor.ParseModifiers(modSpec)
		if err != nil {
			return b, fmt.Errorf("config [tools] %s: %w", modSpec, err)
		}
		kind, err := editor.ParseTool(toolName)
		if err != nil {
			return b, fmt.Errorf("config [tools] %s: %w", modSpec, err)
		}
		b.Tools[mods] = kind
	}
	return b, nil
}

// saveResolver builds the save-destination resolver from the [save] section.
func (r *root) saveResolver() (*export.Resolver, error) {
	res := export.NewResolver()
	if r.config == nil {
		return res, nil
	}
	for modSpec, destName := range r.config.Save {
		mods, err := editor.ParseModifiers(modSpec)
		if err != nil {
			return nil, fmt.Errorf("config [save] %s: %w", modSpec, err)
		}
		dest, err := export.ParseDestination(destName)
		if err != nil {
			return nil, fmt.Errorf("config [save] %s: %w", modSpec, err)
		}
		res.Bind(mods, dest)
	}
	return res, nil
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}
