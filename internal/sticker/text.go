package sticker

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultTextSize is the point size FromText uses when given zero.
const DefaultTextSize = 48

var (
	textFontOnce sync.Once
	textFont     *opentype.Font
	textFontErr  error
)

func parsedFont() (*opentype.Font, error) {
	textFontOnce.Do(func() {
		textFont, textFontErr = opentype.Parse(goregular.TTF)
	})
	return textFont, textFontErr
}

// FromText renders label into a sticker image. The label doubles as the
// sticker's name.
func FromText(label string, size float64, col color.Color) (*Sticker, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrEmptyLabel
	}
	if size <= 0 {
		size = DefaultTextSize
	}
	if col == nil {
		col = color.Black
	}
	f, err := parsedFont()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	defer face.Close()

	d := &font.Drawer{Face: face}
	width := d.MeasureString(label).Ceil()
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	height := ascent + metrics.Descent.Ceil()
	pad := int(size / 8)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %q renders no glyphs", ErrEmptyImage, label)
	}

	img := image.NewRGBA(image.Rect(0, 0, width+2*pad, height+2*pad))
	d.Dst = img
	d.Src = image.NewUniform(col)
	d.Dot = fixed.P(pad, pad+ascent)
	d.DrawString(label)
	return &Sticker{Label: label, Image: img, Scale: 1}, nil
}
