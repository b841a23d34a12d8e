package tool

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/colornames"
)

// PaletteColor is a named drawing colour.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

var (
	paletteMu sync.RWMutex
	palette   = []PaletteColor{
		{"Black", color.RGBA{0, 0, 0, 255}},
		{"White", color.RGBA{255, 255, 255, 255}},
		{"Red", color.RGBA{255, 0, 0, 255}},
		{"Lime", color.RGBA{0, 255, 0, 255}},
		{"Blue", color.RGBA{0, 0, 255, 255}},
		{"Yellow", color.RGBA{255, 255, 0, 255}},
		{"Cyan", color.RGBA{0, 255, 255, 255}},
		{"Magenta", color.RGBA{255, 0, 255, 255}},
		{"Maroon", color.RGBA{128, 0, 0, 255}},
		{"Green", color.RGBA{0, 128, 0, 255}},
		{"Navy", color.RGBA{0, 0, 128, 255}},
		{"Olive", color.RGBA{128, 128, 0, 255}},
		{"Teal", color.RGBA{0, 128, 128, 255}},
		{"Purple", color.RGBA{128, 0, 128, 255}},
		{"Silver", color.RGBA{192, 192, 192, 255}},
		{"Gray", color.RGBA{128, 128, 128, 255}},
	}
)

var (
	widthsMu sync.RWMutex
	widths   = []float64{1, 2, 4, 8, 16, 32}
)

// Palette returns a copy of the named drawing colours.
func Palette() []PaletteColor {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	out := make([]PaletteColor, len(palette))
	copy(out, palette)
	return out
}

// EnsurePaletteColor makes sure col is in the palette and returns its index.
func EnsurePaletteColor(col color.RGBA, name string) int {
	paletteMu.Lock()
	defer paletteMu.Unlock()
	for idx, existing := range palette {
		if existing.Color == col {
			if name != "" && existing.Name == "" {
				palette[idx].Name = name
			}
			return idx
		}
	}
	if name == "" {
		name = FormatColor(col)
	}
	palette = append(palette, PaletteColor{Name: name, Color: col})
	return len(palette) - 1
}

// WidthOptions returns a copy of the stroke scale presets.
func WidthOptions() []float64 {
	widthsMu.RLock()
	defer widthsMu.RUnlock()
	out := make([]float64, len(widths))
	copy(out, widths)
	return out
}

// EnsureWidth makes sure w is one of the presets and returns its index.
func EnsureWidth(w float64) int {
	if w <= 0 {
		w = 1
	}
	widthsMu.Lock()
	defer widthsMu.Unlock()
	for idx, existing := range widths {
		if existing == w {
			return idx
		}
	}
	widths = append(widths, w)
	sort.Float64s(widths)
	for idx, existing := range widths {
		if existing == w {
			return idx
		}
	}
	return 0
}

// ParseColor accepts an SVG colour name, a palette name, or #RRGGBB[AA].
func ParseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	for _, entry := range Palette() {
		if strings.EqualFold(entry.Name, spec) {
			return entry.Color, nil
		}
	}
	if strings.HasPrefix(spec, "#") && (len(spec) == 7 || len(spec) == 9) {
		var parts [4]uint8
		parts[3] = 255
		for i := 0; i < (len(spec)-1)/2; i++ {
			v, err := strconv.ParseUint(spec[1+2*i:3+2*i], 16, 8)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("invalid color %q", s)
			}
			parts[i] = uint8(v)
		}
		return color.RGBA{parts[0], parts[1], parts[2], parts[3]}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}

// FormatColor renders c as #RRGGBB, or #RRGGBBAA when not opaque.
func FormatColor(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
