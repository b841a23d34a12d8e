package session

import "github.com/example/sketchpad/internal/command"

// Viewport maps screen coordinates onto the drawing surface. Left, Top,
// Width and Height are the surface's on-screen box; SurfaceW and SurfaceH
// are its backing size in device pixels and DPR the device pixel ratio.
type Viewport struct {
	Left, Top          float64
	Width, Height      float64
	SurfaceW, SurfaceH float64
	DPR                float64
}

// IdentityViewport returns the mapping for a w by h surface drawn at the
// screen origin with ratio dpr, in which screen and surface points agree.
func IdentityViewport(w, h int, dpr float64) Viewport {
	if dpr <= 0 {
		dpr = 1
	}
	return Viewport{
		Width:    float64(w),
		Height:   float64(h),
		SurfaceW: float64(w) * dpr,
		SurfaceH: float64(h) * dpr,
		DPR:      dpr,
	}
}

func (v Viewport) factors() (fx, fy float64) {
	dpr := v.DPR
	if dpr <= 0 {
		dpr = 1
	}
	fx, fy = 1/dpr, 1/dpr
	if v.Width > 0 && v.SurfaceW > 0 {
		fx = v.SurfaceW / v.Width / dpr
	}
	if v.Height > 0 && v.SurfaceH > 0 {
		fy = v.SurfaceH / v.Height / dpr
	}
	return fx, fy
}

// ToSurface converts a screen position to surface-local logical points.
func (v Viewport) ToSurface(x, y float64) command.Point {
	fx, fy := v.factors()
	return command.Point{X: (x - v.Left) * fx, Y: (y - v.Top) * fy}
}

// ToScreen is the inverse of ToSurface.
func (v Viewport) ToScreen(p command.Point) (x, y float64) {
	fx, fy := v.factors()
	return p.X/fx + v.Left, p.Y/fy + v.Top
}

// Contains reports whether the screen position lies inside the box.
func (v Viewport) Contains(x, y float64) bool {
	return x >= v.Left && y >= v.Top && x < v.Left+v.Width && y < v.Top+v.Height
}
