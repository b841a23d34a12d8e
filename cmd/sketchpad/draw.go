package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/example/sketchpad/internal/appstate"
	"github.com/example/sketchpad/internal/clipboard"
	"github.com/example/sketchpad/internal/session"
)

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// drawCmd opens the drawing window.
type drawCmd struct {
	*root
	fs       *flag.FlagSet
	width    int
	height   int
	output   string
	stickers stringList
}

func (r *root) subcommand(name string) *root {
	sub := *r
	sub.program = strings.TrimSpace(r.program + " " + name)
	return &sub
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r.subcommand("draw"), fs: fs}
	def := r.sessionConfig()
	fs.IntVar(&d.width, "width", def.Width, "canvas width in points")
	fs.IntVar(&d.height, "height", def.Height, "canvas height in points")
	fs.StringVar(&d.output, "output", "", "export path for E (default: time-stamped file in the save dir)")
	fs.Var(&d.stickers, "sticker", "image file to add as a sticker (repeatable)")
	fs.Usage = usageFunc(d)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: d}
	}
	if d.width <= 0 || d.height <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %dx%d", d.width, d.height)
	}
	return d, nil
}

func (d *drawCmd) Run() error {
	title := appstate.ProgramTitle
	if d.output != "" {
		title += " - " + d.output
	}
	app := appstate.New(
		appstate.WithTitle(title),
		appstate.WithOutput(d.output),
		appstate.WithTheme(d.activeTheme),
		appstate.WithStickerFiles(d.stickers...),
	)
	cfg := d.sessionConfig()
	cfg.Width, cfg.Height = d.width, d.height
	sess, err := d.newSession(cfg,
		session.WithPost(app.Post),
		session.WithClipboard(clipboard.System{}),
	)
	if err != nil {
		return err
	}
	app.Run(sess)
	return nil
}
