package surface

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestCanvasClearUsesBackground(t *testing.T) {
	bg := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	c := NewCanvas(8, 8, WithBackground(bg))
	c.FillCircle(4, 4, 3, color.RGBA{R: 255, A: 255})
	c.Clear()
	img := c.RGBA()
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := img.RGBAAt(x, y); got != bg {
				t.Fatalf("pixel (%d,%d) = %+v, want %+v", x, y, got, bg)
			}
		}
	}
}

func TestCanvasDPRScalesBackingImage(t *testing.T) {
	c := NewCanvas(10, 20, WithDPR(2))
	if w, h := c.Size(); w != 10 || h != 20 {
		t.Fatalf("logical size = %dx%d", w, h)
	}
	if b := c.RGBA().Bounds(); b.Dx() != 20 || b.Dy() != 40 {
		t.Fatalf("backing bounds = %v, want 20x40", b)
	}
	c.FillCircle(5, 10, 2, color.RGBA{B: 255, A: 255})
	if got := c.RGBA().RGBAAt(10, 20); got.B == 0 {
		t.Fatalf("expected fill at scaled centre, got %+v", got)
	}
}

func TestCanvasOffscreenSharesDPR(t *testing.T) {
	c := NewCanvas(10, 10, WithDPR(2))
	scratch := c.Offscreen(4, 3)
	if w, h := scratch.Size(); w != 4 || h != 3 {
		t.Fatalf("logical size = %dx%d", w, h)
	}
	if b := scratch.Snapshot().Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Fatalf("scratch pixels = %v, want 8x6", b)
	}
}

func TestCanvasStrokeRoundCaps(t *testing.T) {
	c := NewCanvas(40, 20)
	c.MoveTo(10, 10)
	c.LineTo(30, 10)
	c.Stroke(color.RGBA{R: 255, A: 255}, 6)
	img := c.RGBA()
	if img.RGBAAt(20, 10).A == 0 {
		t.Fatal("expected stroke coverage on the line")
	}
	// Round caps extend past the end points by half the width.
	if img.RGBAAt(8, 10).A == 0 {
		t.Fatal("expected round cap before the first point")
	}
	if img.RGBAAt(20, 2).A != 0 {
		t.Fatal("stroke bled outside its width")
	}
}

func TestCanvasBlitAlpha(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	c := NewCanvas(10, 10)
	c.Blit(src, 2, 2, 1, 0.5)
	got := c.RGBA().RGBAAt(3, 3)
	if got.A < 120 || got.A > 135 {
		t.Fatalf("alpha = %d, want about 128", got.A)
	}
	if c.RGBA().RGBAAt(8, 8).A != 0 {
		t.Fatal("blit wrote outside the image area")
	}
}

func TestCanvasSnapshotIsCopy(t *testing.T) {
	c := NewCanvas(4, 4)
	snap := c.Snapshot()
	c.FillCircle(2, 2, 2, color.Black)
	if snap.RGBAAt(2, 2).A != 0 {
		t.Fatal("snapshot aliases the live image")
	}
}

func TestCanvasEncodePNG(t *testing.T) {
	c := NewCanvas(3, 5, WithBackground(color.White))
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 5 {
		t.Fatalf("bounds = %v", b)
	}
}
