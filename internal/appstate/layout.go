package appstate

import (
	"image"

	"github.com/example/sketchpad/internal/session"
)

const (
	headerHeight = 24
	statusHeight = 24
	buttonHeight = 24
	swatchSize   = 16
	widthRow     = 16
	minToolbar   = 96
)

// layout splits the window into header, toolbar, status line and the
// on-screen canvas box.
type layout struct {
	width, height int
	header        image.Rectangle
	toolbar       image.Rectangle
	status        image.Rectangle
	canvas        image.Rectangle
	zoom          float64
}

// computeLayout anchors the canvas just right of the toolbar and scales it
// to fit the remaining area, never above 1:1 device pixels.
func computeLayout(winW, winH, toolbarW int, surface image.Point) layout {
	l := layout{width: winW, height: winH}
	l.header = image.Rect(0, 0, winW, headerHeight)
	l.status = image.Rect(0, winH-statusHeight, winW, winH)
	l.toolbar = image.Rect(0, headerHeight, toolbarW, winH-statusHeight)
	area := image.Rect(toolbarW, headerHeight, winW, winH-statusHeight)
	l.zoom = fitZoom(surface, area.Dx(), area.Dy())
	w := int(float64(surface.X) * l.zoom)
	h := int(float64(surface.Y) * l.zoom)
	l.canvas = image.Rect(area.Min.X, area.Min.Y, area.Min.X+w, area.Min.Y+h)
	return l
}

func fitZoom(surface image.Point, availW, availH int) float64 {
	if surface.X <= 0 || surface.Y <= 0 || availW <= 0 || availH <= 0 {
		return 1
	}
	zx := float64(availW) / float64(surface.X)
	zy := float64(availH) / float64(surface.Y)
	z := zx
	if zy < z {
		z = zy
	}
	if z > 1 {
		z = 1
	}
	return z
}

// viewport maps the on-screen canvas box onto a surface of the given
// device-pixel size.
func (l layout) viewport(surface image.Point, dpr float64) session.Viewport {
	return session.Viewport{
		Left:     float64(l.canvas.Min.X),
		Top:      float64(l.canvas.Min.Y),
		Width:    float64(l.canvas.Dx()),
		Height:   float64(l.canvas.Dy()),
		SurfaceW: float64(surface.X),
		SurfaceH: float64(surface.Y),
		DPR:      dpr,
	}
}

// windowSize is the initial window size that shows the surface unscaled.
func windowSize(toolbarW int, surface image.Point, toolbarContent int) (int, int) {
	w := toolbarW + surface.X
	h := headerHeight + statusHeight + surface.Y
	if floor := headerHeight + statusHeight + toolbarContent; h < floor {
		h = floor
	}
	return w, h
}

// toolbar is a vertical strip of buttons with hover and press tracking.
type toolbar struct {
	buttons []Button
	hover   int
	pressed int
}

func newToolbar() *toolbar { return &toolbar{hover: -1, pressed: -1} }

func (tb *toolbar) set(buttons []Button) {
	tb.buttons = buttons
	tb.hover, tb.pressed = -1, -1
}

func (tb *toolbar) hit(p image.Point) int {
	for i, b := range tb.buttons {
		if p.In(b.Rect()) {
			return i
		}
	}
	return -1
}

// setHover reports whether the hovered button changed.
func (tb *toolbar) setHover(p image.Point) bool {
	i := tb.hit(p)
	if i == tb.hover {
		return false
	}
	tb.hover = i
	return true
}

func (tb *toolbar) press(p image.Point) {
	tb.pressed = tb.hit(p)
}

// release activates the button under p when it is also the one pressed.
func (tb *toolbar) release(p image.Point) bool {
	i := tb.hit(p)
	pressed := tb.pressed
	tb.pressed = -1
	if i < 0 || i != pressed {
		return false
	}
	tb.buttons[i].Activate()
	return true
}

func (tb *toolbar) draw(dst *image.RGBA, selected func(Button) bool) {
	for i, b := range tb.buttons {
		state := StateDefault
		switch {
		case selected != nil && selected(b), i == tb.pressed:
			state = StatePressed
		case i == tb.hover:
			state = StateHover
		}
		b.Draw(dst, state)
	}
}
