package session

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/sketchpad/internal/command"
	"github.com/example/sketchpad/internal/history"
	"github.com/example/sketchpad/internal/sticker"
	"github.com/example/sketchpad/internal/tool"
)

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	return New(Config{Width: 100, Height: 80}, opts...)
}

func points(t *testing.T, c command.Command) []command.Point {
	t.Helper()
	f, ok := c.(*command.Freehand)
	if !ok {
		t.Fatalf("command %T is not freehand", c)
	}
	var out []command.Point
	for _, p := range f.Stroke().Points() {
		out = append(out, p.Point())
	}
	return out
}

func TestViewportRoundTrip(t *testing.T) {
	vps := []Viewport{
		IdentityViewport(100, 80, 1),
		IdentityViewport(100, 80, 2),
		{Left: 48, Top: 24, Width: 200, Height: 160, SurfaceW: 400, SurfaceH: 320, DPR: 2},
		{Left: 10.5, Top: 3, Width: 300, Height: 100, SurfaceW: 150, SurfaceH: 50, DPR: 1.25},
	}
	for _, v := range vps {
		for _, p := range []command.Point{{X: 0, Y: 0}, {X: 13.25, Y: 70}, {X: 99, Y: 1}} {
			x, y := v.ToScreen(p)
			got := v.ToSurface(x, y)
			if math.Abs(got.X-p.X) > 1e-9 || math.Abs(got.Y-p.Y) > 1e-9 {
				t.Fatalf("%+v: %v -> (%v,%v) -> %v", v, p, x, y, got)
			}
		}
	}
	v := Viewport{Left: 48, Top: 24, Width: 200, Height: 160, SurfaceW: 400, SurfaceH: 320, DPR: 2}
	if got := v.ToSurface(148, 104); got != (command.Point{X: 100, Y: 80}) {
		t.Fatalf("ToSurface = %v", got)
	}
	if !v.Contains(48, 24) || v.Contains(248, 30) {
		t.Fatal("Contains")
	}
}

func TestScenarioByScript(t *testing.T) {
	s := newSession(t)
	script := `
# pencil stroke
tool pencil
color #111111
scale 2
down 10 10
move 20 10
move 20 20
up
`
	if err := s.RunScript(strings.NewReader(script)); err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	h := s.History()
	if h.Len() != 1 {
		t.Fatalf("committed = %d", h.Len())
	}
	c := h.Committed()[0]
	want := []command.Point{{X: 10, Y: 10}, {X: 20, Y: 10}, {X: 20, Y: 20}}
	if got := points(t, c); !equalPoints(got, want) {
		t.Fatalf("points = %v", got)
	}
	f := c.(*command.Freehand)
	if st := f.Stroke().At(0).Style(); st.Color != (color.RGBA{0x11, 0x11, 0x11, 0xFF}) || st.Scale != 2 {
		t.Fatalf("style = %+v", st)
	}

	if err := s.RunScript(strings.NewReader("undo")); err != nil {
		t.Fatal(err)
	}
	if h.Len() != 0 || h.RedoLen() != 1 {
		t.Fatalf("after undo committed=%d redo=%d", h.Len(), h.RedoLen())
	}
	if err := s.RunScript(strings.NewReader("redo")); err != nil {
		t.Fatal(err)
	}
	if h.Len() != 1 || !equalPoints(points(t, h.Committed()[0]), want) {
		t.Fatal("redo did not restore the stroke")
	}
}

func equalPoints(a, b []command.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScriptErrorsCarryLine(t *testing.T) {
	s := newSession(t)
	err := s.RunScript(strings.NewReader("down 1 1\nup\nbogus\n"))
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("err = %v", err)
	}
	err = s.RunScript(strings.NewReader("tool eraser"))
	if !errors.Is(err, tool.ErrUnknownTool) {
		t.Fatalf("err = %v, want ErrUnknownTool", err)
	}
}

func TestPointerMapsThroughViewport(t *testing.T) {
	s := newSession(t)
	s.SetViewport(Viewport{Left: 50, Top: 20, Width: 200, Height: 160, SurfaceW: 100, SurfaceH: 80, DPR: 1})
	s.PointerDown(60, 40)
	s.PointerMove(250, 180)
	s.PointerUp(250, 180)
	got := points(t, s.History().Committed()[0])
	want := []command.Point{{X: 5, Y: 10}, {X: 100, Y: 80}}
	if !equalPoints(got, want) {
		t.Fatalf("points = %v", got)
	}
}

func TestLeaveEndsStroke(t *testing.T) {
	s := newSession(t)
	s.PointerDown(1, 1)
	s.PointerMove(5, 5)
	s.PointerLeave()
	if s.History().State() != history.Idle {
		t.Fatal("leave should end the stroke")
	}
	if s.Loop().Hovering() {
		t.Fatal("preview still shown after leave")
	}
	s.PointerEnter(10, 10, true)
	if s.History().State() != history.Drawing || s.History().Len() != 2 {
		t.Fatalf("enter with button held: state=%v len=%d", s.History().State(), s.History().Len())
	}
	s.PointerMove(12, 12)
	s.PointerUp(12, 12)
	got := points(t, s.History().Committed()[1])
	if !equalPoints(got, []command.Point{{X: 10, Y: 10}, {X: 12, Y: 12}}) {
		t.Fatalf("resumed stroke = %v", got)
	}

	s.PointerEnter(1, 1, false)
	if s.History().State() != history.Idle {
		t.Fatal("enter without button must not draw")
	}
}

func TestLeaveKeepsStrokeForRoamingTool(t *testing.T) {
	r := tool.Default()
	roam := tool.Marker()
	roam.Name = "roam"
	roam.Shortcut = ""
	roam.CanLeaveCanvas = true
	if err := r.Register(roam); err != nil {
		t.Fatal(err)
	}
	s := New(Config{Width: 50, Height: 50}, WithRegistry(r))
	if err := s.SelectTool("roam"); err != nil {
		t.Fatal(err)
	}
	s.PointerDown(1, 1)
	s.PointerLeave()
	if s.History().State() != history.Drawing {
		t.Fatal("roaming tool stroke ended on leave")
	}
	s.PointerMove(60, 60)
	s.PointerUp(60, 60)
	if n := len(points(t, s.History().Committed()[0])); n != 2 {
		t.Fatalf("points = %d", n)
	}
}

func TestKeysRouteToActions(t *testing.T) {
	s := newSession(t)
	s.PointerDown(1, 1)
	s.PointerUp(1, 1)
	s.PointerDown(2, 2)
	s.PointerUp(2, 2)

	press := func(code string) {
		t.Helper()
		ok, err := s.Key(code)
		if err != nil || !ok {
			t.Fatalf("Key(%s) = %v, %v", code, ok, err)
		}
	}
	press("KeyZ")
	if s.History().Len() != 1 {
		t.Fatal("KeyZ did not undo")
	}
	press("KeyY")
	if s.History().Len() != 2 {
		t.Fatal("KeyY did not redo")
	}
	press("KeyM")
	if s.Tools().Current().Name != "marker" {
		t.Fatal("KeyM did not select the marker")
	}
	press("KeyC")
	if s.History().Len() != 0 || s.History().RedoLen() != 0 {
		t.Fatal("KeyC did not clear")
	}
	if ok, _ := s.Key("KeyQ"); ok {
		t.Fatal("KeyQ should be unbound")
	}

	if err := s.BindKey("u", ActionUndo); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.Key("KeyZ"); ok {
		t.Fatal("rebinding undo should release KeyZ")
	}
	for _, b := range s.Keys() {
		if b.Action == ActionUndo && b.Code != "KeyU" {
			t.Fatalf("undo bound to %s", b.Code)
		}
	}
}

func TestNormalizeKeyCode(t *testing.T) {
	tests := map[string]string{"c": "KeyC", "Z": "KeyZ", "3": "Digit3", "Keyq": "KeyQ", "Digit9": "Digit9"}
	for in, want := range tests {
		if got, err := NormalizeKeyCode(in); err != nil || got != want {
			t.Errorf("NormalizeKeyCode(%q) = %q, %v", in, got, err)
		}
	}
	for _, bad := range []string{"", "Enter", "Digitx"} {
		if _, err := NormalizeKeyCode(bad); err == nil {
			t.Errorf("NormalizeKeyCode(%q) succeeded", bad)
		}
	}
}

func TestToolEditsDoNotRepaintHistory(t *testing.T) {
	s := newSession(t)
	s.PointerDown(10, 10)
	s.PointerMove(60, 10)
	s.PointerUp(60, 10)
	s.PointerLeave()
	before := s.Canvas().Snapshot()

	s.SetColor(color.RGBA{B: 255, A: 255})
	s.SetScale(30)
	s.Loop().Redraw()
	if string(before.Pix) != string(s.Canvas().RGBA().Pix) {
		t.Fatal("style edit changed the committed stroke")
	}
}

func TestCursorPreviewFollowsPointer(t *testing.T) {
	s := newSession(t)
	s.PointerEnter(30, 30, false)
	if !s.Loop().Hovering() {
		t.Fatal("not hovering after enter")
	}
	s.PointerMove(40, 40)
	c := s.Loop().Cursor().(*command.Cursor)
	if c.At() != (command.Point{X: 40, Y: 40}) {
		t.Fatalf("cursor at %v", c.At())
	}
	if s.Canvas().RGBA().RGBAAt(40, 40).A == 0 {
		t.Fatal("preview not drawn under the pointer")
	}
	if s.History().Len() != 0 {
		t.Fatal("preview must never be committed")
	}
	_ = s.SelectTool("marker")
	if c.Tool().(*tool.Tool).Name != "marker" {
		t.Fatal("preview did not follow the tool change")
	}
}

type notes struct{ exports, copies, stickers []string }

func (n *notes) Export(path string)                  { n.exports = append(n.exports, path) }
func (n *notes) Copy(detail string)                  { n.copies = append(n.copies, detail) }
func (n *notes) Sticker(label string, _ image.Image) { n.stickers = append(n.stickers, label) }

func TestSaveAndExport(t *testing.T) {
	n := &notes{}
	dir := t.TempDir()
	s := New(Config{Width: 40, Height: 20, ExportWidth: 80, ExportHeight: 40, SaveDir: dir}, WithNotifier(n))
	s.PointerDown(5, 5)
	s.PointerUp(5, 5)

	var buf bytes.Buffer
	if err := s.ExportPNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil || img.Bounds().Dx() != 80 {
		t.Fatalf("png %v %v", img.Bounds(), err)
	}
	buf.Reset()
	if err := s.ExportPDF(&buf); err != nil || !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("pdf: %v", err)
	}

	if err := s.Do(ActionExport); err != nil {
		t.Fatalf("export action: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "sketch-*.png"))
	if len(matches) != 1 || len(n.exports) != 1 || n.exports[0] != matches[0] {
		t.Fatalf("files %v notes %v", matches, n.exports)
	}
	if _, err := os.Stat(matches[0]); err != nil {
		t.Fatal(err)
	}

	called := false
	s.OnAction(ActionExport, func() error { called = true; return nil })
	if _, err := s.Key("KeyE"); err != nil || !called {
		t.Fatal("custom export handler not used")
	}
}

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	return img
}

func TestStickerPlacement(t *testing.T) {
	n := &notes{}
	s := newSession(t, WithNotifier(n), WithStickers(&sticker.Sticker{Label: "box", Image: solid(4, 4), Scale: 1}))
	if len(n.stickers) != 1 {
		t.Fatalf("notes %v", n.stickers)
	}
	ok, err := s.Key("Digit1")
	if err != nil || !ok || s.Tools().Current().Name != "sticker:box" {
		t.Fatalf("Digit1 -> %v %v %v", s.Tools().Current(), ok, err)
	}
	s.SetScale(2)
	s.PointerDown(10, 10)
	s.PointerMove(20, 30)
	s.PointerUp(20, 30)
	c, ok := s.History().Committed()[0].(*command.Sticker)
	if !ok || c.Anchor() != (command.Point{X: 20, Y: 30}) || c.Scale() != 2 {
		t.Fatalf("sticker command %+v", s.History().Committed()[0])
	}
	s.Loop().SetHover(false)
	s.Loop().Redraw()
	if s.Canvas().RGBA().RGBAAt(27, 37).A == 0 || s.Canvas().RGBA().RGBAAt(28, 38).A != 0 {
		t.Fatal("sticker not drawn 8x8 at the anchor")
	}
}

type queue struct{ fns []func() }

func (q *queue) post(fn func()) { q.fns = append(q.fns, fn) }

func (q *queue) drain(t *testing.T) {
	t.Helper()
	if len(q.fns) == 0 {
		t.Fatal("nothing posted")
	}
	for _, fn := range q.fns {
		fn()
	}
	q.fns = nil
}

func TestLoadStickerAsync(t *testing.T) {
	q := &queue{}
	posted := make(chan struct{}, 1)
	s := newSession(t, WithPost(func(fn func()) {
		q.post(fn)
		posted <- struct{}{}
	}))
	before := len(s.Tools().Tools())

	var gotTool *tool.Tool
	var gotErr error
	s.LoadStickerAsync(func() (*sticker.Sticker, error) {
		return sticker.New("late", solid(3, 3), 1)
	}, func(tl *tool.Tool, err error) { gotTool, gotErr = tl, err })
	<-posted
	if len(s.Tools().Tools()) != before {
		t.Fatal("registry changed before the posted callback ran")
	}
	q.drain(t)
	if gotErr != nil || gotTool == nil || gotTool.Name != "sticker:late" {
		t.Fatalf("done(%v, %v)", gotTool, gotErr)
	}

	boom := errors.New("boom")
	s.LoadStickerAsync(func() (*sticker.Sticker, error) { return nil, boom },
		func(tl *tool.Tool, err error) { gotTool, gotErr = tl, err })
	<-posted
	q.drain(t)
	if !errors.Is(gotErr, boom) || gotTool != nil {
		t.Fatalf("done(%v, %v)", gotTool, gotErr)
	}
	if len(s.Tools().Tools()) != before+1 || s.History().Len() != 0 {
		t.Fatal("failed load changed registry or history")
	}
}

func TestLoadStickerDuplicateFails(t *testing.T) {
	s := newSession(t)
	if _, err := s.AddSticker(&sticker.Sticker{Label: "a", Image: solid(1, 1), Scale: 1}); err != nil {
		t.Fatal(err)
	}
	var gotErr error
	s.LoadStickerAsync(func() (*sticker.Sticker, error) {
		return &sticker.Sticker{Label: "a", Image: solid(2, 2), Scale: 1}, nil
	}, func(_ *tool.Tool, err error) { gotErr = err })
	if !errors.Is(gotErr, sticker.ErrDuplicateLabel) {
		t.Fatalf("err = %v", gotErr)
	}
	if s.Tools().Stickers().Len() != 1 {
		t.Fatal("duplicate reached the library")
	}
}

type fakeClipboard struct {
	img    image.Image
	text   string
	wrote  image.Image
	noData error
}

func (f *fakeClipboard) WriteImage(img image.Image) error { f.wrote = img; return nil }

func (f *fakeClipboard) ReadImage() (image.Image, error) {
	if f.img == nil {
		return nil, f.noData
	}
	return f.img, nil
}

func (f *fakeClipboard) ReadText() (string, error) {
	if f.text == "" {
		return "", f.noData
	}
	return f.text, nil
}

func TestCopyAndPaste(t *testing.T) {
	n := &notes{}
	cb := &fakeClipboard{noData: errors.New("empty")}
	s := newSession(t, WithClipboard(cb), WithNotifier(n))
	if err := s.Do(ActionCopy); err != nil {
		t.Fatal(err)
	}
	if cb.wrote == nil || cb.wrote.Bounds().Dx() != 100 || len(n.copies) != 1 {
		t.Fatal("copy did not write the flattened drawing")
	}

	var failed error
	_ = s.Paste(func(_ *tool.Tool, err error) { failed = err })
	if failed == nil {
		t.Fatal("paste from an empty clipboard should fail")
	}

	cb.img = solid(2, 2)
	if err := s.Do(ActionPaste); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Tools().Lookup("sticker:pasted-1"); !ok {
		t.Fatal("pasted image not added as pasted-1 after a failed paste")
	}
	if err := s.Do(ActionPaste); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Tools().Lookup("sticker:pasted-2"); !ok {
		t.Fatal("second pasted image not numbered pasted-2")
	}

	cb.img, cb.text = nil, "hello"
	var name string
	if err := s.Paste(func(tl *tool.Tool, err error) {
		if err == nil {
			name = tl.Name
		}
	}); err != nil {
		t.Fatal(err)
	}
	if name != "sticker:hello" {
		t.Fatalf("pasted text tool = %q", name)
	}

	cb.text = ""
	var pasteErr error
	_ = s.Paste(func(_ *tool.Tool, err error) { pasteErr = err })
	if pasteErr == nil {
		t.Fatal("empty clipboard should report an error")
	}

	bare := newSession(t)
	if err := bare.Copy(); !errors.Is(err, ErrNoClipboard) {
		t.Fatalf("err = %v", err)
	}
}

func TestShadowedStickers(t *testing.T) {
	s := New(Config{Width: 20, Height: 20, Shadow: true})
	tl, err := s.AddSticker(&sticker.Sticker{Label: "s", Image: solid(4, 4), Scale: 1})
	if err != nil {
		t.Fatal(err)
	}
	if tl.Sticker.Image.Bounds().Dx() <= 4 {
		t.Fatal("shadow not applied")
	}

	// A small opaque corner inside a larger transparent sticker.
	sparse := image.NewRGBA(image.Rect(0, 0, 6, 6))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			sparse.SetRGBA(x, y, color.RGBA{B: 255, A: 255})
		}
	}
	tl, err = s.AddSticker(&sticker.Sticker{Label: "sparse", Image: sparse, Scale: 1})
	if err != nil {
		t.Fatal(err)
	}
	img := tl.Sticker.Image
	b := img.Bounds()
	far := []image.Point{{b.Max.X - 1, 0}, {0, b.Max.Y - 1}, {b.Max.X - 1, b.Max.Y - 1}}
	for _, p := range far {
		if _, _, _, a := img.At(p.X, p.Y).RGBA(); a != 0 {
			t.Errorf("pixel %v away from the shadow is shaded (alpha %d)", p, a)
		}
	}
	if _, _, _, a := img.At(4, 4).RGBA(); a == 0 {
		t.Error("no shadow behind the opaque corner")
	}
}

func TestTextScriptAndExport(t *testing.T) {
	dir := t.TempDir()
	s := newSession(t)
	out := filepath.Join(dir, "out.png")
	script := "color red\ntext Hi\ntool sticker:Hi\ndown 5 5\nup\nexport " + out + "\n"
	if err := s.RunScript(strings.NewReader(script)); err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if _, ok := s.History().Committed()[0].(*command.Sticker); !ok {
		t.Fatal("text sticker not placed")
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatal(err)
	}
}
