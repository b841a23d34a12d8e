// Package sticker manages the decoded images the sticker tools stamp onto
// the canvas. Stickers are loaded outside the drawing core and handed over
// ready to use; a sticker that fails validation never reaches the library.
package sticker

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var (
	// ErrEmptyImage reports a nil or zero-sized image.
	ErrEmptyImage = errors.New("sticker: empty image")
	// ErrEmptyLabel reports a sticker without a label.
	ErrEmptyLabel = errors.New("sticker: empty label")
	// ErrDuplicateLabel reports a label already present in a library.
	ErrDuplicateLabel = errors.New("sticker: duplicate label")
)

// Sticker is a ready-to-draw image resource.
type Sticker struct {
	Label string
	// Image always has a zero origin.
	Image *image.RGBA
	// Scale is the sticker's own size factor, applied on top of the tool
	// scale when stamped.
	Scale float64
}

// New validates img and copies it into a zero-origin RGBA image.
func New(label string, img image.Image, scale float64) (*Sticker, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrEmptyLabel
	}
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %q", ErrEmptyImage, label)
	}
	if scale <= 0 {
		scale = 1
	}
	return &Sticker{Label: label, Image: toRGBA(img), Scale: scale}, nil
}

// Decode reads an encoded image (PNG, JPEG, GIF, BMP or WebP).
func Decode(r io.Reader, label string) (*Sticker, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode sticker %q: %w", label, err)
	}
	s, err := New(label, img, 1)
	if err != nil {
		return nil, fmt.Errorf("decode sticker %q (%s): %w", label, format, err)
	}
	return s, nil
}

// Load decodes the image at path. An empty label defaults to the file name
// without extension.
func Load(path, label string) (*Sticker, error) {
	if strings.TrimSpace(label) == "" {
		label = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, label)
}

// Library is an ordered set of stickers keyed by label.
type Library struct {
	items []*Sticker
	index map[string]*Sticker
}

// NewLibrary returns a library holding stickers, skipping invalid entries.
func NewLibrary(stickers ...*Sticker) *Library {
	l := &Library{index: make(map[string]*Sticker)}
	for _, s := range stickers {
		_ = l.Add(s)
	}
	return l
}

// Add appends s. Nothing is modified when s is invalid or its label is
// taken.
func (l *Library) Add(s *Sticker) error {
	if err := l.Check(s); err != nil {
		return err
	}
	if l.index == nil {
		l.index = make(map[string]*Sticker)
	}
	l.items = append(l.items, s)
	l.index[s.Label] = s
	return nil
}

// Check reports whether s could be added.
func (l *Library) Check(s *Sticker) error {
	if s == nil || s.Image == nil || s.Image.Bounds().Empty() {
		return ErrEmptyImage
	}
	if strings.TrimSpace(s.Label) == "" {
		return ErrEmptyLabel
	}
	if _, ok := l.index[s.Label]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateLabel, s.Label)
	}
	return nil
}

// Lookup returns the sticker with label.
func (l *Library) Lookup(label string) (*Sticker, bool) {
	s, ok := l.index[label]
	return s, ok
}

// List returns the stickers in insertion order.
func (l *Library) List() []*Sticker {
	out := make([]*Sticker, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of stickers.
func (l *Library) Len() int { return len(l.items) }

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
