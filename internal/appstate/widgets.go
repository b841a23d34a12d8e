package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/sketchpad/internal/theme"
	"github.com/example/sketchpad/internal/tool"
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

func buttonFill(th *theme.Theme, state ButtonState) color.RGBA {
	switch state {
	case StateHover:
		return th.ButtonBackgroundHover
	case StatePressed:
		return th.ButtonBackgroundPress
	}
	return th.ButtonBackground
}

// ActionButton runs a callback, e.g. undo or export.
type ActionButton struct {
	label      string
	theme      *theme.Theme
	rect       image.Rectangle
	onActivate func()
}

func (ab *ActionButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, ab.rect, &image.Uniform{buttonFill(ab.theme, state)}, image.Point{}, draw.Src)
	drawRect(dst, ab.rect, ab.theme.ButtonBorder)
	drawLabel(dst, ab.label, ab.rect.Min.X+4, ab.rect.Min.Y+16, ab.theme.ButtonText)
}

func (ab *ActionButton) Rect() image.Rectangle     { return ab.rect }
func (ab *ActionButton) SetRect(r image.Rectangle) { ab.rect = r }

func (ab *ActionButton) Activate() {
	if ab.onActivate != nil {
		ab.onActivate()
	}
}

// ToolButton selects a registry tool. Sticker tools show a thumbnail of
// their image.
type ToolButton struct {
	tool     *tool.Tool
	theme    *theme.Theme
	rect     image.Rectangle
	onSelect func()
}

func (tb *ToolButton) Draw(dst *image.RGBA, state ButtonState) {
	fill := buttonFill(tb.theme, state)
	if state == StatePressed {
		fill = tb.theme.ButtonSelected
	}
	draw.Draw(dst, tb.rect, &image.Uniform{fill}, image.Point{}, draw.Src)
	x := tb.rect.Min.X + 4
	if st := tb.tool.Sticker; st != nil {
		thumb := image.Rect(x, tb.rect.Min.Y+2, x+tb.rect.Dy()-4, tb.rect.Max.Y-2)
		xdraw.ApproxBiLinear.Scale(dst, fitRect(thumb, st.Image.Bounds()), st.Image, st.Image.Bounds(), draw.Over, nil)
		x = thumb.Max.X + 4
	}
	drawLabel(dst, toolLabel(tb.tool), x, tb.rect.Min.Y+16, tb.theme.ButtonText)
}

func (tb *ToolButton) Rect() image.Rectangle     { return tb.rect }
func (tb *ToolButton) SetRect(r image.Rectangle) { tb.rect = r }

func (tb *ToolButton) Activate() {
	if tb.onSelect != nil {
		tb.onSelect()
	}
}

// toolLabel renders "P:pencil" for tools with a letter shortcut and
// "1:star" for digit shortcuts.
func toolLabel(t *tool.Tool) string {
	name := t.Name
	if t.Sticker != nil {
		name = t.Sticker.Label
	}
	if k := shortcutKey(t.Shortcut); k != "" {
		return k + ":" + name
	}
	return name
}

func shortcutKey(code string) string {
	switch {
	case len(code) == 4 && code[:3] == "Key":
		return code[3:]
	case len(code) == 6 && code[:5] == "Digit":
		return code[5:]
	}
	return ""
}

// SwatchButton picks a palette colour.
type SwatchButton struct {
	color    tool.PaletteColor
	theme    *theme.Theme
	rect     image.Rectangle
	selected func() bool
	onSelect func()
}

func (sb *SwatchButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, sb.rect, &image.Uniform{sb.color.Color}, image.Point{}, draw.Src)
	if state == StateHover {
		draw.Draw(dst, sb.rect, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
	}
	if sb.selected != nil && sb.selected() {
		drawRect(dst, sb.rect, sb.theme.Foreground)
		drawRect(dst, sb.rect.Inset(1), sb.theme.ToolbarBackground)
		return
	}
	drawRect(dst, sb.rect, sb.theme.ButtonBorder)
}

func (sb *SwatchButton) Rect() image.Rectangle     { return sb.rect }
func (sb *SwatchButton) SetRect(r image.Rectangle) { sb.rect = r }

func (sb *SwatchButton) Activate() {
	if sb.onSelect != nil {
		sb.onSelect()
	}
}

// WidthButton picks a brush scale and previews it in the current colour.
type WidthButton struct {
	width    float64
	theme    *theme.Theme
	rect     image.Rectangle
	color    func() color.RGBA
	selected func() bool
	onSelect func()
}

func (wb *WidthButton) Draw(dst *image.RGBA, state ButtonState) {
	if wb.selected != nil && wb.selected() {
		state = StatePressed
	}
	draw.Draw(dst, wb.rect, &image.Uniform{buttonFill(wb.theme, state)}, image.Point{}, draw.Src)
	drawLabel(dst, fmt.Sprintf("%g", wb.width), wb.rect.Min.X+4, wb.rect.Min.Y+12, wb.theme.ButtonText)
	col := color.RGBA{A: 255}
	if wb.color != nil {
		col = wb.color()
	}
	thick := int(wb.width)
	if limit := wb.rect.Dy() - 4; thick > limit {
		thick = limit
	}
	if thick < 1 {
		thick = 1
	}
	cy := wb.rect.Min.Y + wb.rect.Dy()/2
	line := image.Rect(wb.rect.Min.X+30, cy-thick/2, wb.rect.Max.X-4, cy-thick/2+thick)
	draw.Draw(dst, line, &image.Uniform{col}, image.Point{}, draw.Over)
}

func (wb *WidthButton) Rect() image.Rectangle     { return wb.rect }
func (wb *WidthButton) SetRect(r image.Rectangle) { wb.rect = r }

func (wb *WidthButton) Activate() {
	if wb.onSelect != nil {
		wb.onSelect()
	}
}

func drawLabel(dst *image.RGBA, s string, x, y int, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

func labelWidth(s string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	return d.MeasureString(s).Ceil()
}

// drawRect outlines rect one pixel wide.
func drawRect(dst *image.RGBA, r image.Rectangle, col color.Color) {
	if r.Empty() {
		return
	}
	u := &image.Uniform{col}
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if (((x-rect.Min.X)/size)+((y-rect.Min.Y)/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

// fitRect returns the largest rectangle with src's aspect ratio centred in
// box.
func fitRect(box, src image.Rectangle) image.Rectangle {
	if src.Empty() || box.Empty() {
		return image.Rectangle{}
	}
	w, h := box.Dx(), box.Dy()
	if src.Dx()*h > src.Dy()*w {
		h = src.Dy() * w / src.Dx()
	} else {
		w = src.Dx() * h / src.Dy()
	}
	x := box.Min.X + (box.Dx()-w)/2
	y := box.Min.Y + (box.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}
