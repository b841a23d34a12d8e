package command

import (
	"image"

	"github.com/example/sketchpad/internal/surface"
)

// Sticker stamps a shared image at an anchor point. The image belongs to the
// sticker library; the command only references it.
type Sticker struct {
	base
	label  string
	image  image.Image
	anchor Point
	scale  float64
}

// NewSticker places img with its top-left corner at at, scaled by scale.
func NewSticker(at Point, label string, img image.Image, scale float64) *Sticker {
	if scale <= 0 {
		scale = 1
	}
	return &Sticker{base: newBase(), label: label, image: img, anchor: at, scale: scale}
}

func (s *Sticker) Kind() Kind { return KindSticker }

// Label names the stamped sticker.
func (s *Sticker) Label() string { return s.label }

// Anchor returns the placement point.
func (s *Sticker) Anchor() Point { return s.anchor }

// Scale returns the placement scale.
func (s *Sticker) Scale() float64 { return s.scale }

// Image returns the referenced image.
func (s *Sticker) Image() image.Image { return s.image }

// RecordPoint moves the anchor; style is ignored.
func (s *Sticker) RecordPoint(p Point, _ Style) {
	s.mustBeOpen()
	s.anchor = p
}

func (s *Sticker) Execute(dst surface.Surface) {
	dst.Blit(s.image, s.anchor.X, s.anchor.Y, s.scale, 1)
}
