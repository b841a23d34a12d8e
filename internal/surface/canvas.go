package surface

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/fogleman/gg"
)

// Canvas is a Surface backed by an RGBA image and a gg drawing context.
type Canvas struct {
	img        *image.RGBA
	dc         *gg.Context
	w, h       int
	pw, ph     int
	dpr        float64
	background color.Color
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithDPR sets the device pixel ratio. The backing image is scaled by it
// while commands keep drawing in logical points.
func WithDPR(dpr float64) Option {
	return func(c *Canvas) {
		if dpr > 0 {
			c.dpr = dpr
		}
	}
}

// WithBackground sets the colour Clear fills with. Transparent is allowed.
func WithBackground(col color.Color) Option {
	return func(c *Canvas) {
		if col != nil {
			c.background = col
		}
	}
}

// WithPixelSize fixes the backing image size instead of deriving it from
// the logical size and ratio. Export uses it to hit exact target dimensions.
func WithPixelSize(w, h int) Option {
	return func(c *Canvas) {
		if w > 0 && h > 0 {
			c.pw, c.ph = w, h
		}
	}
}

// NewCanvas creates a canvas of w by h logical points.
func NewCanvas(w, h int, opts ...Option) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{w: w, h: h, dpr: 1, background: color.Transparent}
	for _, o := range opts {
		o(c)
	}
	pw, ph := c.pw, c.ph
	if pw == 0 {
		pw = int(float64(w)*c.dpr + 0.5)
		ph = int(float64(h)*c.dpr + 0.5)
	}
	if pw < 1 {
		pw = 1
	}
	if ph < 1 {
		ph = 1
	}
	c.img = image.NewRGBA(image.Rect(0, 0, pw, ph))
	c.dc = gg.NewContextForRGBA(c.img)
	c.dc.Scale(c.dpr, c.dpr)
	c.Clear()
	return c
}

// Size implements Surface.
func (c *Canvas) Size() (int, int) { return c.w, c.h }

// DPR returns the device pixel ratio of the canvas.
func (c *Canvas) DPR() float64 { return c.dpr }

// Background returns the clear colour.
func (c *Canvas) Background() color.Color { return c.background }

// Clear implements Surface.
func (c *Canvas) Clear() {
	c.dc.ClearPath()
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(c.background), image.Point{}, draw.Src)
}

// MoveTo implements Surface.
func (c *Canvas) MoveTo(x, y float64) { c.dc.MoveTo(x, y) }

// LineTo implements Surface.
func (c *Canvas) LineTo(x, y float64) { c.dc.LineTo(x, y) }

// Stroke implements Surface. gg does not scale the line width with the
// current matrix so the device pixel ratio is applied here.
func (c *Canvas) Stroke(col color.Color, width float64) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width * c.dpr)
	c.dc.SetLineCap(gg.LineCapRound)
	c.dc.SetLineJoin(gg.LineJoinRound)
	c.dc.Stroke()
}

// FillCircle implements Surface.
func (c *Canvas) FillCircle(x, y, r float64, col color.Color) {
	c.dc.ClearPath()
	c.dc.DrawCircle(x, y, r)
	c.dc.SetColor(col)
	c.dc.Fill()
}

// Blit implements Surface.
func (c *Canvas) Blit(img image.Image, x, y, scale, alpha float64) {
	if img == nil || img.Bounds().Empty() || alpha <= 0 || scale <= 0 {
		return
	}
	src := img
	if alpha < 1 {
		src = fade(img, alpha)
	}
	c.dc.Push()
	c.dc.Translate(x, y)
	c.dc.Scale(scale, scale)
	c.dc.DrawImage(src, 0, 0)
	c.dc.Pop()
}

// Offscreen implements Surface. Scratch surfaces share the canvas ratio, so
// their snapshot holds w*DPR by h*DPR pixels.
func (c *Canvas) Offscreen(w, h int) Surface {
	return NewCanvas(w, h, WithDPR(c.dpr))
}

// Snapshot implements Surface.
func (c *Canvas) Snapshot() *image.RGBA {
	out := image.NewRGBA(c.img.Bounds())
	copy(out.Pix, c.img.Pix)
	return out
}

// RGBA exposes the live backing image. Callers must not retain it across
// redraws.
func (c *Canvas) RGBA() *image.RGBA { return c.img }

// EncodePNG writes the current pixels as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.img)
}

func fade(img image.Image, alpha float64) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	mask := image.NewUniform(color.Alpha{A: uint8(alpha*255 + 0.5)})
	draw.DrawMask(out, out.Bounds(), img, b.Min, mask, image.Point{}, draw.Src)
	return out
}
