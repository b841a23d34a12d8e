package command

import "github.com/example/sketchpad/internal/surface"

const (
	// PreviewSize is the edge of the scratch surface a cursor preview is
	// drawn on.
	PreviewSize = 256
	// PreviewAlpha is the opacity the preview is composited with.
	PreviewAlpha = 0.8
)

// Cursor previews what the active tool would draw at the pointer. It is
// transient and never committed to history.
type Cursor struct {
	base
	at   Point
	tool Factory
}

// NewCursor returns a preview of tool at at.
func NewCursor(at Point, tool Factory) *Cursor {
	return &Cursor{base: newBase(), at: at, tool: tool}
}

func (c *Cursor) Kind() Kind { return KindCursor }

// At returns the last known pointer position.
func (c *Cursor) At() Point { return c.at }

// Tool returns the previewed tool.
func (c *Cursor) Tool() Factory { return c.tool }

// SetTool swaps the previewed tool.
func (c *Cursor) SetTool(tool Factory) { c.tool = tool }

// RecordPoint moves the preview.
func (c *Cursor) RecordPoint(p Point, _ Style) { c.at = p }

// Freeze is a no-op; a cursor follows the pointer for its whole life.
func (c *Cursor) Freeze() {}

func (c *Cursor) Frozen() bool { return false }

// Execute renders a fresh command from the tool onto an isolated scratch
// surface and composites it centred on the pointer.
func (c *Cursor) Execute(s surface.Surface) {
	if c.tool == nil {
		return
	}
	scratch := s.Offscreen(PreviewSize, PreviewSize)
	scratch.Clear()
	half := float64(PreviewSize) / 2
	preview := c.tool.MakeCommand(Point{X: half, Y: half}, c.tool.Style())
	preview.Execute(scratch)
	snap := scratch.Snapshot()
	// The snapshot is in device pixels; scale it back to PreviewSize points.
	scale := 1.0
	if w := snap.Bounds().Dx(); w > 0 {
		scale = float64(PreviewSize) / float64(w)
	}
	s.Blit(snap, c.at.X-half, c.at.Y-half, scale, PreviewAlpha)
}
