package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/sketchpad/internal/theme"
	"github.com/example/sketchpad/internal/tool"
)

// Notify holds notification settings.
type Notify struct {
	Export  bool
	Copy    bool
	Sticker bool
}

// ToolStyle overrides a tool's starting colour and scale. Zero values keep
// the tool's default.
type ToolStyle struct {
	Color    color.RGBA
	HasColor bool
	Scale    float64
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string

	CanvasWidth  int
	CanvasHeight int
	DPR          float64
	// Background is the canvas clear colour; the zero value is transparent.
	Background   color.RGBA
	ExportWidth  int
	ExportHeight int
	// Shadow adds a drop shadow to loaded stickers.
	Shadow bool

	Notify Notify
	Tools  map[string]*ToolStyle
	// Keys maps an action or tool name to a key code.
	Keys   map[string]string
	Themes map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Default to empty to allow fallback to Env/Default
		Notify: Notify{
			Export:  false,
			Copy:    false,
			Sticker: false,
		},
		Tools:  make(map[string]*ToolStyle),
		Keys:   make(map[string]string),
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.CanvasWidth > 0 {
		fmt.Fprintf(&sb, "canvas_width = %d\n", c.CanvasWidth)
	}
	if c.CanvasHeight > 0 {
		fmt.Fprintf(&sb, "canvas_height = %d\n", c.CanvasHeight)
	}
	if c.DPR > 0 {
		fmt.Fprintf(&sb, "dpr = %g\n", c.DPR)
	}
	if c.Background.A != 0 {
		fmt.Fprintf(&sb, "background = %s\n", tool.FormatColor(c.Background))
	}
	if c.ExportWidth > 0 {
		fmt.Fprintf(&sb, "export_width = %d\n", c.ExportWidth)
	}
	if c.ExportHeight > 0 {
		fmt.Fprintf(&sb, "export_height = %d\n", c.ExportHeight)
	}
	if c.Shadow {
		sb.WriteString("shadow = true\n")
	}
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "sticker = %v\n", c.Notify.Sticker)
	sb.WriteString("\n")

	for _, name := range sortedKeys(c.Tools) {
		ts := c.Tools[name]
		fmt.Fprintf(&sb, "[tool.%s]\n", name)
		if ts.HasColor {
			fmt.Fprintf(&sb, "color = %s\n", tool.FormatColor(ts.Color))
		}
		if ts.Scale > 0 {
			fmt.Fprintf(&sb, "scale = %g\n", ts.Scale)
		}
		sb.WriteString("\n")
	}

	if len(c.Keys) > 0 {
		sb.WriteString("[keys]\n")
		for _, action := range sortedKeys(c.Keys) {
			fmt.Fprintf(&sb, "%s = %s\n", action, c.Keys[action])
		}
		sb.WriteString("\n")
	}

	// Themes sections
	for _, name := range sortedKeys(c.Themes) {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		sb.WriteString(c.Themes[name].String())
		sb.WriteString("\n")
	}

	return sb.String()
}

// Style returns the override for the named tool, or nil.
func (c *Config) Style(name string) *ToolStyle {
	if c == nil {
		return nil
	}
	return c.Tools[name]
}

// Sorted for deterministic output.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
