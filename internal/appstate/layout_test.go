package appstate

import (
	"image"
	"testing"

	"github.com/example/sketchpad/internal/command"
	"github.com/example/sketchpad/internal/theme"
	"github.com/example/sketchpad/internal/tool"
)

func TestComputeLayout(t *testing.T) {
	l := computeLayout(300, 200, 100, image.Pt(400, 100))
	if l.zoom != 0.5 {
		t.Fatalf("zoom = %v, want 0.5", l.zoom)
	}
	if want := image.Rect(100, headerHeight, 300, headerHeight+50); l.canvas != want {
		t.Fatalf("canvas = %v, want %v", l.canvas, want)
	}
	if l.status != image.Rect(0, 200-statusHeight, 300, 200) {
		t.Fatalf("status = %v", l.status)
	}

	vp := l.viewport(image.Pt(400, 100), 1)
	got := vp.ToSurface(150, float64(headerHeight)+10)
	if got != (command.Point{X: 100, Y: 20}) {
		t.Fatalf("ToSurface = %+v", got)
	}
}

func TestFitZoomNeverMagnifies(t *testing.T) {
	if z := fitZoom(image.Pt(10, 10), 1000, 1000); z != 1 {
		t.Fatalf("zoom = %v, want 1", z)
	}
	if z := fitZoom(image.Point{}, 10, 10); z != 1 {
		t.Fatalf("zoom for empty surface = %v, want 1", z)
	}
}

func TestWindowSizeFitsToolbar(t *testing.T) {
	w, h := windowSize(100, image.Pt(200, 50), 400)
	if w != 300 || h != headerHeight+statusHeight+400 {
		t.Fatalf("size = %dx%d", w, h)
	}
}

func TestArrange(t *testing.T) {
	th := theme.Default()
	buttons := []Button{
		&ActionButton{label: "a", theme: th},
		&ActionButton{label: "b", theme: th},
		&SwatchButton{theme: th},
		&SwatchButton{theme: th},
		&SwatchButton{theme: th},
		&WidthButton{width: 2, theme: th},
	}
	if got := arrange(buttons, image.Point{}, 48); got != 108 {
		t.Fatalf("height = %d, want 108", got)
	}
	if r := buttons[1].Rect(); r != image.Rect(0, 24, 48, 48) {
		t.Fatalf("second action = %v", r)
	}
	if r := buttons[4].Rect(); r != image.Rect(4, 70, 20, 86) {
		t.Fatalf("wrapped swatch = %v", r)
	}
	if r := buttons[5].Rect(); r != image.Rect(0, 92, 48, 108) {
		t.Fatalf("width row = %v", r)
	}
}

func TestToolbarActivatesOnMatchingRelease(t *testing.T) {
	var hits int
	tb := newToolbar()
	tb.set([]Button{
		&ActionButton{rect: image.Rect(0, 0, 10, 10), onActivate: func() { hits++ }},
		&ActionButton{rect: image.Rect(0, 10, 10, 20)},
	})
	tb.press(image.Pt(5, 5))
	if tb.release(image.Pt(5, 15)) {
		t.Fatalf("release over another button activated")
	}
	tb.press(image.Pt(5, 5))
	if !tb.release(image.Pt(5, 5)) || hits != 1 {
		t.Fatalf("hits = %d, want 1", hits)
	}
	if !tb.setHover(image.Pt(5, 15)) || tb.setHover(image.Pt(6, 15)) {
		t.Fatalf("hover change reporting is wrong")
	}
}

func TestToolLabel(t *testing.T) {
	if got := toolLabel(tool.Pencil()); got != "P:pencil" {
		t.Fatalf("pencil label = %q", got)
	}
	if got := shortcutKey("Digit3"); got != "3" {
		t.Fatalf("shortcutKey = %q", got)
	}
	if got := shortcutKey("Escape"); got != "" {
		t.Fatalf("shortcutKey(Escape) = %q", got)
	}
}
