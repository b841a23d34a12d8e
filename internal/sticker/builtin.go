package sticker

import (
	"image"
	"math"

	"github.com/fogleman/gg"
)

// BuiltinSize is the edge length of the default sticker images.
const BuiltinSize = 64

// Builtins returns the default sticker set.
func Builtins() []*Sticker {
	return []*Sticker{
		{Label: "star", Image: drawStar(), Scale: 1},
		{Label: "heart", Image: drawHeart(), Scale: 1},
		{Label: "smile", Image: drawSmile(), Scale: 1},
	}
}

func newBuiltinContext() (*gg.Context, *image.RGBA) {
	img := image.NewRGBA(image.Rect(0, 0, BuiltinSize, BuiltinSize))
	return gg.NewContextForRGBA(img), img
}

func drawStar() *image.RGBA {
	dc, img := newBuiltinContext()
	cx, cy := float64(BuiltinSize)/2, float64(BuiltinSize)/2
	outer, inner := 30.0, 12.0
	for i := 0; i < 10; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		x, y := cx+r*math.Cos(a), cy+r*math.Sin(a)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	dc.SetRGB255(255, 200, 0)
	dc.FillPreserve()
	dc.SetRGB255(180, 120, 0)
	dc.SetLineWidth(2)
	dc.Stroke()
	return img
}

func drawHeart() *image.RGBA {
	dc, img := newBuiltinContext()
	dc.MoveTo(32, 56)
	dc.CubicTo(4, 36, 6, 8, 32, 20)
	dc.CubicTo(58, 8, 60, 36, 32, 56)
	dc.ClosePath()
	dc.SetRGB255(220, 30, 60)
	dc.Fill()
	return img
}

func drawSmile() *image.RGBA {
	dc, img := newBuiltinContext()
	dc.DrawCircle(32, 32, 29)
	dc.SetRGB255(255, 220, 60)
	dc.FillPreserve()
	dc.SetRGB255(60, 40, 0)
	dc.SetLineWidth(2)
	dc.Stroke()
	dc.DrawCircle(22, 24, 4)
	dc.DrawCircle(42, 24, 4)
	dc.Fill()
	dc.DrawArc(32, 34, 16, 0.15*math.Pi, 0.85*math.Pi)
	dc.SetLineWidth(3)
	dc.SetLineCap(gg.LineCapRound)
	dc.Stroke()
	return img
}
