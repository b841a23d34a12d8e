package sticker

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures the drop shadow baked into an ingested sticker.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadowOptions returns a soft shadow sized for sticker-scale images.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  4,
		Offset:  image.Pt(3, 3),
		Opacity: 0.45,
	}
}

// WithShadow returns a copy of s whose image carries a blurred drop shadow.
// The sticker content keeps its top-left position; the image grows to make
// room for the shadow.
func WithShadow(s *Sticker, opts ShadowOptions) *Sticker {
	if s == nil {
		return nil
	}
	return &Sticker{Label: s.Label, Image: ApplyShadow(s.Image, opts), Scale: s.Scale}
}

// ApplyShadow composites img over a blurred copy of its alpha channel. The
// result has a zero origin. Negative offsets are clamped to zero so the
// sticker anchor still marks the content's top-left corner.
func ApplyShadow(img *image.RGBA, opts ShadowOptions) *image.RGBA {
	if img == nil || img.Bounds().Empty() || opts.Opacity <= 0 {
		return img
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := opts.Radius
	if radius < 0 {
		radius = 0
	}
	offset := opts.Offset
	if offset.X < 0 {
		offset.X = 0
	}
	if offset.Y < 0 {
		offset.Y = 0
	}

	src := img.Bounds()
	w := src.Dx() + offset.X + radius
	h := src.Dy() + offset.Y + radius

	// Alpha mask at the shadow position, padded so the blur can spread.
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	for y := 0; y < src.Dy(); y++ {
		for x := 0; x < src.Dx(); x++ {
			a := img.RGBAAt(src.Min.X+x, src.Min.Y+y).A
			if a == 0 {
				continue
			}
			mask.SetAlpha(x+offset.X, y+offset.Y, color.Alpha{A: a})
		}
	}
	blurred := boxBlur(mask, radius)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	shade := image.NewUniform(color.RGBA{A: uint8(opacity*255 + 0.5)})
	draw.DrawMask(dst, dst.Bounds(), shade, image.Point{}, blurred, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(0, 0, src.Dx(), src.Dy()), img, src.Min, draw.Over)
	return dst
}

// boxBlur runs a separable box blur over an alpha mask using running prefix
// sums per row and column.
func boxBlur(src *image.Alpha, radius int) *image.Alpha {
	b := src.Bounds()
	if radius <= 0 {
		out := image.NewAlpha(b)
		copy(out.Pix, src.Pix)
		return out
	}
	w, h := b.Dx(), b.Dy()
	tmp := image.NewAlpha(b)
	dst := image.NewAlpha(b)

	prefix := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		row := y * src.Stride
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(src.Pix[row+x])
		}
		for x := 0; x < w; x++ {
			x0, x1 := max(x-radius, 0), min(x+radius, w-1)
			tmp.Pix[y*tmp.Stride+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0, y1 := max(y-radius, 0), min(y+radius, h-1)
			dst.Pix[y*dst.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
	return dst
}
