// Package surfacetest provides a Surface that records the primitives invoked
// on it, for asserting call order without rasterising.
package surfacetest

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/example/sketchpad/internal/surface"
)

// Recorder implements surface.Surface by appending one line per call.
type Recorder struct {
	W, H  int
	Calls []string
	// Scratch holds every surface handed out by Offscreen, in order.
	Scratch []*Recorder
}

// New returns a recorder reporting the given logical size.
func New(w, h int) *Recorder { return &Recorder{W: w, H: h} }

var _ surface.Surface = (*Recorder)(nil)

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) Clear() { r.add("clear") }

func (r *Recorder) MoveTo(x, y float64) { r.add("move %g,%g", x, y) }

func (r *Recorder) LineTo(x, y float64) { r.add("line %g,%g", x, y) }

func (r *Recorder) Stroke(c color.Color, width float64) {
	r.add("stroke %s %g", hex(c), width)
}

func (r *Recorder) FillCircle(x, y, rad float64, c color.Color) {
	r.add("circle %g,%g r=%g %s", x, y, rad, hex(c))
}

func (r *Recorder) Blit(img image.Image, x, y, scale, alpha float64) {
	b := image.Rectangle{}
	if img != nil {
		b = img.Bounds()
	}
	r.add("blit %dx%d at %g,%g scale=%g alpha=%g", b.Dx(), b.Dy(), x, y, scale, alpha)
}

func (r *Recorder) Offscreen(w, h int) surface.Surface {
	s := New(w, h)
	r.Scratch = append(r.Scratch, s)
	r.add("offscreen %dx%d", w, h)
	return s
}

func (r *Recorder) Snapshot() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, r.W, r.H))
}

// Reset forgets every recorded call.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Scratch = nil
}

// String joins the recorded calls with newlines.
func (r *Recorder) String() string { return strings.Join(r.Calls, "\n") }

func (r *Recorder) add(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

func hex(c color.Color) string {
	if c == nil {
		return "<nil>"
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return fmt.Sprintf("#%02X%02X%02X%02X", rgba.R, rgba.G, rgba.B, rgba.A)
}
