package main

import (
	"flag"
	"fmt"

	"github.com/example/sketchpad/internal/tool"
)

type toolsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseToolsCmd(args []string, r *root) (*toolsCmd, error) {
	fs := flag.NewFlagSet("tools", flag.ExitOnError)
	cmd := &toolsCmd{root: r.subcommand("tools"), fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *toolsCmd) Run() error {
	sess, err := c.newSession(c.sessionConfig())
	if err != nil {
		return err
	}
	reg := sess.Tools()
	fmt.Fprintln(c.stdout, "available tools (* marks the starting tool):")
	for _, t := range reg.Tools() {
		marker := " "
		if t == reg.Current() {
			marker = "*"
		}
		st := t.Style()
		fmt.Fprintf(c.stdout, "%s %-16s %-7s %s scale %g\n", marker, t.Name, t.Shortcut, tool.FormatColor(st.Color), st.Scale)
	}
	fmt.Fprintln(c.stdout, "actions:")
	for _, kb := range sess.Keys() {
		fmt.Fprintf(c.stdout, "  %-16s %s\n", kb.Action, kb.Code)
	}
	return nil
}

func (c *toolsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *toolsCmd) Template() string {
	return "tools.txt"
}

// startStyles returns the styles the configured tools start with.
func (r *root) startStyles() ([]tool.PaletteColor, []float64, error) {
	sess, err := r.newSession(r.sessionConfig())
	if err != nil {
		return nil, nil, err
	}
	var cols []tool.PaletteColor
	var widths []float64
	for _, t := range sess.Tools().Tools() {
		if t.Kind == tool.KindSticker {
			continue
		}
		st := t.Style()
		cols = append(cols, tool.PaletteColor{Name: t.Name, Color: st.Color})
		widths = append(widths, st.Scale)
	}
	return cols, widths, nil
}

type colorsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ExitOnError)
	cmd := &colorsCmd{root: r.subcommand("colors"), fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) Run() error {
	starts, _, err := c.startStyles()
	if err != nil {
		return err
	}
	palette := tool.Palette()
	fmt.Fprintln(c.stdout, "available palette colors (* marks a tool's starting color):")
	for idx, entry := range palette {
		marker := " "
		for _, s := range starts {
			if s.Color == entry.Color {
				marker = "*"
			}
		}
		hex := tool.FormatColor(entry.Color)
		block := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", entry.Color.R, entry.Color.G, entry.Color.B)
		fmt.Fprintf(c.stdout, "%s %2d: %-12s %s %s\n", marker, idx, entry.Name, hex, block)
	}
	return nil
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *colorsCmd) Template() string {
	return "colors.txt"
}

type widthsCmd struct {
	*root
	fs *flag.FlagSet
}

func parseWidthsCmd(args []string, r *root) (*widthsCmd, error) {
	fs := flag.NewFlagSet("widths", flag.ExitOnError)
	cmd := &widthsCmd{root: r.subcommand("widths"), fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *widthsCmd) Run() error {
	_, starts, err := c.startStyles()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "available brush widths (* marks a tool's starting width):")
	for _, w := range tool.WidthOptions() {
		marker := " "
		for _, s := range starts {
			if s == w {
				marker = "*"
			}
		}
		fmt.Fprintf(c.stdout, "%s %4gpx\n", marker, w)
	}
	return nil
}

func (c *widthsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *widthsCmd) Template() string {
	return "widths.txt"
}
