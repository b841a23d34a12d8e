package sticker

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestNewNormalizesOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 14, 23))
	src.Set(10, 20, color.RGBA{R: 255, A: 255})
	s, err := New(" box ", src, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Label != "box" || s.Scale != 1 {
		t.Fatalf("got label %q scale %v", s.Label, s.Scale)
	}
	if s.Image.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("bounds = %v", s.Image.Bounds())
	}
	if s.Image.RGBAAt(0, 0).R != 255 {
		t.Fatal("pixel not copied to origin")
	}
}

func TestNewRejectsInvalid(t *testing.T) {
	if _, err := New("", solid(1, 1, color.RGBA{A: 255}), 1); !errors.Is(err, ErrEmptyLabel) {
		t.Fatalf("err = %v, want ErrEmptyLabel", err)
	}
	if _, err := New("x", image.NewRGBA(image.Rect(0, 0, 0, 5)), 1); !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("err = %v, want ErrEmptyImage", err)
	}
	if _, err := New("x", nil, 1); !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("err = %v, want ErrEmptyImage", err)
	}
}

func TestLoadDefaultsLabelToFileName(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(3, 2, color.RGBA{G: 200, A: 255})); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "leaf.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Label != "leaf" || s.Image.Bounds().Dx() != 3 {
		t.Fatalf("got %q %v", s.Label, s.Image.Bounds())
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("not an image")), "junk"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestLibraryAddLeavesStateOnFailure(t *testing.T) {
	l := NewLibrary()
	a := &Sticker{Label: "a", Image: solid(2, 2, color.RGBA{A: 255}), Scale: 1}
	if err := l.Add(a); err != nil {
		t.Fatalf("Add: %v", err)
	}
	tests := []struct {
		name string
		s    *Sticker
		want error
	}{
		{"nil", nil, ErrEmptyImage},
		{"empty image", &Sticker{Label: "b", Image: image.NewRGBA(image.Rect(0, 0, 0, 0))}, ErrEmptyImage},
		{"no label", &Sticker{Image: solid(1, 1, color.RGBA{A: 255})}, ErrEmptyLabel},
		{"duplicate", &Sticker{Label: "a", Image: solid(1, 1, color.RGBA{A: 255})}, ErrDuplicateLabel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := l.Add(tt.s); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if l.Len() != 1 {
				t.Fatalf("Len = %d after failed add", l.Len())
			}
		})
	}
	if got, ok := l.Lookup("a"); !ok || got != a {
		t.Fatal("lookup lost the original sticker")
	}
}

func TestBuiltinsAreDistinctAndDrawn(t *testing.T) {
	l := NewLibrary(Builtins()...)
	if l.Len() != 3 {
		t.Fatalf("Len = %d, want 3", l.Len())
	}
	for _, s := range l.List() {
		if s.Image.Bounds().Dx() != BuiltinSize {
			t.Fatalf("%s: size %v", s.Label, s.Image.Bounds())
		}
		c := s.Image.RGBAAt(BuiltinSize/2, BuiltinSize/2+4)
		if c.A == 0 {
			t.Fatalf("%s: centre pixel is transparent", s.Label)
		}
	}
}

func TestFromText(t *testing.T) {
	s, err := FromText("Hi", 24, color.RGBA{B: 255, A: 255})
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	if s.Label != "Hi" {
		t.Fatalf("label = %q", s.Label)
	}
	b := s.Image.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		t.Fatalf("bounds = %v", b)
	}
	inked := false
	for i := 3; i < len(s.Image.Pix); i += 4 {
		if s.Image.Pix[i] != 0 {
			inked = true
			break
		}
	}
	if !inked {
		t.Fatal("no glyph pixels drawn")
	}
	if _, err := FromText("   ", 24, nil); !errors.Is(err, ErrEmptyLabel) {
		t.Fatalf("err = %v, want ErrEmptyLabel", err)
	}
}

func TestApplyShadow(t *testing.T) {
	img := solid(10, 10, color.RGBA{R: 255, A: 255})
	opts := ShadowOptions{Radius: 2, Offset: image.Pt(4, 4), Opacity: 0.5}
	out := ApplyShadow(img, opts)
	if out.Bounds() != image.Rect(0, 0, 16, 16) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if got := out.RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("content pixel = %v", got)
	}
	sh := out.RGBAAt(12, 12)
	if sh.A == 0 || sh.R != 0 {
		t.Fatalf("shadow pixel = %v", sh)
	}
	if out.RGBAAt(15, 0).A != 0 {
		t.Fatal("expected transparent corner")
	}
}

func TestApplyShadowFollowsShape(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.SetRGBA(2, 2, color.RGBA{G: 255, A: 255})
	out := ApplyShadow(img, ShadowOptions{Radius: 2, Offset: image.Pt(4, 4), Opacity: 0.5})
	for _, p := range []image.Point{{0, 0}, {15, 0}, {0, 15}, {15, 15}, {2, 9}} {
		if a := out.RGBAAt(p.X, p.Y).A; a != 0 {
			t.Errorf("pixel %v alpha = %d, want transparent", p, a)
		}
	}
	if a := out.RGBAAt(6, 6).A; a == 0 {
		t.Error("no shadow under the offset content")
	}
	if got := out.RGBAAt(2, 2); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("content pixel = %v", got)
	}
}

func TestApplyShadowDisabled(t *testing.T) {
	img := solid(2, 2, color.RGBA{A: 255})
	if ApplyShadow(img, ShadowOptions{}) != img {
		t.Fatal("zero opacity should return the input")
	}
	if WithShadow(nil, DefaultShadowOptions()) != nil {
		t.Fatal("nil sticker should stay nil")
	}
}
