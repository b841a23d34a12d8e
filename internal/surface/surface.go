// Package surface provides the raster target that drawing commands replay
// onto. The core only relies on the Surface interface; Canvas is the
// production implementation backed by fogleman/gg.
package surface

import (
	"image"
	"image/color"
)

// Surface is the minimal set of drawing primitives a command may use.
//
// Coordinates are logical points. Implementations map them to device pixels
// themselves, so commands never need to know about the device pixel ratio.
type Surface interface {
	// Size reports the logical width and height.
	Size() (w, h int)
	// Clear fills the whole surface with its background.
	Clear()
	// MoveTo starts a new sub-path at (x, y).
	MoveTo(x, y float64)
	// LineTo extends the current sub-path to (x, y).
	LineTo(x, y float64)
	// Stroke paints the current path with round caps and joins, then
	// discards it.
	Stroke(c color.Color, width float64)
	// FillCircle paints a filled disc of radius r centred at (x, y).
	FillCircle(x, y, r float64, c color.Color)
	// Blit composites img with its top-left corner at (x, y), scaled by
	// scale and faded by alpha in [0, 1].
	Blit(img image.Image, x, y, scale, alpha float64)
	// Offscreen returns an isolated, transparent scratch surface.
	Offscreen(w, h int) Surface
	// Snapshot returns a copy of the current pixels.
	Snapshot() *image.RGBA
}
