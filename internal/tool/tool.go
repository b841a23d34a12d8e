// Package tool holds the drawing tools and the registry that tracks which one
// is active. A tool turns a pointer-down into a fresh command; selecting a
// tool or editing its style never touches history.
package tool

import (
	"fmt"
	"image/color"

	"github.com/example/sketchpad/internal/command"
	"github.com/example/sketchpad/internal/sticker"
)

// Kind selects the command a tool produces.
type Kind int

const (
	KindPencil Kind = iota
	KindMarker
	KindSticker
)

func (k Kind) String() string {
	switch k {
	case KindPencil:
		return "pencil"
	case KindMarker:
		return "marker"
	case KindSticker:
		return "sticker"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Tool is a named command factory with a mutable style.
type Tool struct {
	Name    string
	Icon    string
	Tooltip string
	// Shortcut is a key code such as "KeyP" or "Digit1".
	Shortcut string
	Kind     Kind
	// CanLeaveCanvas keeps the stroke open when the pointer leaves the
	// drawing area.
	CanLeaveCanvas bool
	// Sticker is set for KindSticker tools.
	Sticker *sticker.Sticker

	style command.Style
	reg   *Registry
}

var _ command.Factory = (*Tool)(nil)

// Style returns the current colour and scale.
func (t *Tool) Style() command.Style { return t.style }

// SetColor changes the colour used for future commands.
func (t *Tool) SetColor(c color.RGBA) {
	t.style.Color = c
	t.changed()
}

// SetScale changes the scale used for future commands. Non-positive values
// are ignored.
func (t *Tool) SetScale(s float64) {
	if s <= 0 {
		return
	}
	t.style.Scale = s
	t.changed()
}

func (t *Tool) changed() {
	if t.reg != nil {
		t.reg.notify(t)
	}
}

// MakeCommand returns a new command for a pointer-down at p, with p already
// recorded.
func (t *Tool) MakeCommand(p command.Point, st command.Style) command.Command {
	switch t.Kind {
	case KindSticker:
		if t.Sticker == nil {
			return nil
		}
		scale := st.Scale
		if scale <= 0 {
			scale = 1
		}
		return command.NewSticker(p, t.Sticker.Label, t.Sticker.Image, t.Sticker.Scale*scale)
	case KindMarker:
		f := command.NewFreehand(command.BrushMarker)
		f.RecordPoint(p, st)
		return f
	default:
		f := command.NewFreehand(command.BrushPencil)
		f.RecordPoint(p, st)
		return f
	}
}

func (t *Tool) String() string { return t.Name }

// Pencil returns the default fine freehand tool.
func Pencil() *Tool {
	return &Tool{
		Name:     "pencil",
		Icon:     "P",
		Tooltip:  "Pencil (P)",
		Shortcut: "KeyP",
		Kind:     KindPencil,
		style:    command.Style{Color: color.RGBA{0x11, 0x11, 0x11, 0xFF}, Scale: 2},
	}
}

// Marker returns the default broad freehand tool.
func Marker() *Tool {
	return &Tool{
		Name:     "marker",
		Icon:     "M",
		Tooltip:  "Marker (M)",
		Shortcut: "KeyM",
		Kind:     KindMarker,
		style:    command.Style{Color: color.RGBA{255, 0, 0, 255}, Scale: 8},
	}
}

// ForSticker returns a stamping tool for s.
func ForSticker(s *sticker.Sticker) *Tool {
	return &Tool{
		Name:    "sticker:" + s.Label,
		Icon:    s.Label,
		Tooltip: "Sticker " + s.Label,
		Kind:    KindSticker,
		Sticker: s,
		style:   command.Style{Color: color.RGBA{A: 255}, Scale: 1},
	}
}
