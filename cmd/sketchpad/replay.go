package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/example/sketchpad/internal/clipboard"
	"github.com/example/sketchpad/internal/session"
)

// replayCmd runs a drawing script without a window.
type replayCmd struct {
	*root
	fs           *flag.FlagSet
	script       string
	output       string
	exportWidth  int
	exportHeight int
	toClipboard  bool
	stdin        io.Reader
}

func (c *replayCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseReplayCmd(args []string, r *root) (*replayCmd, error) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	c := &replayCmd{root: r.subcommand("replay"), fs: fs, stdin: os.Stdin}
	def := r.sessionConfig()
	fs.StringVar(&c.script, "script", "", "script file, or - for stdin")
	fs.StringVar(&c.output, "output", "", "export the final drawing to this PNG or PDF")
	fs.IntVar(&c.exportWidth, "export-width", def.ExportWidth, "export width in pixels (default: canvas size)")
	fs.IntVar(&c.exportHeight, "export-height", def.ExportHeight, "export height in pixels (default: canvas size)")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the final drawing to the clipboard")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch {
	case c.script == "" && fs.NArg() == 1:
		c.script = fs.Arg(0)
	case fs.NArg() != 0:
		return nil, &UsageError{of: c}
	}
	if c.script == "" {
		return nil, &UsageError{of: c}
	}
	if c.exportWidth < 0 || c.exportHeight < 0 {
		return nil, fmt.Errorf("export size must not be negative")
	}
	return c, nil
}

func (c *replayCmd) Run() error {
	var in io.Reader = c.stdin
	if c.script != "-" {
		f, err := os.Open(c.script)
		if err != nil {
			return fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		in = f
	}

	cfg := c.sessionConfig()
	cfg.ExportWidth, cfg.ExportHeight = c.exportWidth, c.exportHeight
	var opts []session.Option
	if c.toClipboard {
		opts = append(opts, session.WithClipboard(clipboard.System{}))
	}
	sess, err := c.newSession(cfg, opts...)
	if err != nil {
		return err
	}
	if err := sess.RunScript(in); err != nil {
		return fmt.Errorf("%s: %w", c.script, err)
	}

	if c.output != "" {
		if err := sess.Save(c.output); err != nil {
			return fmt.Errorf("failed to export %s: %w", c.output, err)
		}
		log.Printf("saved %s", c.output)
	}
	if c.toClipboard {
		if err := sess.Copy(); err != nil {
			return fmt.Errorf("failed to copy drawing: %w", err)
		}
		log.Print("image copied to clipboard")
	}
	h := sess.History()
	fmt.Fprintf(c.stdout, "%d strokes, %d undone\n", h.Len(), h.RedoLen())
	return nil
}
