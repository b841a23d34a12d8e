// Package appstate is the desktop window around a sketch session. It turns
// shiny window events into session calls and paints the toolbar, canvas and
// status line.
package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/sketchpad/internal/capture"
	"github.com/example/sketchpad/internal/command"
	"github.com/example/sketchpad/internal/history"
	"github.com/example/sketchpad/internal/session"
	"github.com/example/sketchpad/internal/sticker"
	"github.com/example/sketchpad/internal/theme"
	"github.com/example/sketchpad/internal/tool"
)

// ProgramTitle is shown in the header and the window title.
const ProgramTitle = "Sketchpad"

const messageDuration = 2 * time.Second

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 24, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

// AppState holds the window configuration.
type AppState struct {
	Output   string
	Title    string
	Theme    *theme.Theme
	Stickers []string

	posted   chan func()
	updateCh chan struct{}
	done     chan struct{}

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithOutput fixes the export path. Without it exports get a time-stamped
// name in the save directory.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithTheme sets the chrome colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithStickerFiles loads the images as stickers once the window is open.
func WithStickerFiles(paths ...string) Option {
	return func(a *AppState) { a.Stickers = append(a.Stickers, paths...) }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		Title:    ProgramTitle,
		posted:   make(chan func(), 16),
		updateCh: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

// Post queues fn to run on the window's event loop. It is the session's
// post function; calls made before the window opens wait for it and calls
// made after it closes are dropped.
func (a *AppState) Post(fn func()) {
	select {
	case a.posted <- fn:
	case <-a.done:
	}
}

// NotifyChanged requests a repaint.
func (a *AppState) NotifyChanged() {
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		close(a.done)
		if a.onClose != nil {
			a.onClose()
		}
	})
}

type postEvent struct{ fn func() }

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run(sess *session.Session) {
	driver.Main(func(s screen.Screen) { a.Main(s, sess) })
}

// Main runs the window until it is closed.
func (a *AppState) Main(s screen.Screen, sess *session.Session) {
	u := newWindowUI(a, sess)
	u.buildToolbar()
	surf := u.surfaceSize()
	width, height := windowSize(u.toolbarW, surf, u.contentHeight())
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.Title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	go func() {
		for {
			select {
			case fn := <-a.posted:
				w.Send(postEvent{fn: fn})
			case <-a.updateCh:
				w.Send(paint.Event{})
			case <-a.done:
				return
			}
		}
	}()

	sess.Loop().AfterRedraw(a.NotifyChanged)
	defer sess.Tools().OnToolChanged(func(*tool.Tool) { a.NotifyChanged() })()
	u.installActions()
	u.resize(width, height)
	for _, p := range a.Stickers {
		sess.LoadStickerFile(p, "", u.stickerDone)
	}

	for {
		switch e := w.NextEvent().(type) {
		case postEvent:
			e.fn()
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff && u.inside {
				u.inside = false
				sess.PointerLeave()
			}
		case size.Event:
			u.resize(e.WidthPx, e.HeightPx)
			w.Send(paint.Event{})
		case paint.Event:
			u.paint(s, w)
		case mouse.Event:
			if u.mouse(e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if u.key(e) == winQuit {
				return
			}
			w.Send(paint.Event{})
		}
	}
}

// windowUI is the event-loop state of one open window.
type windowUI struct {
	app  *AppState
	sess *session.Session
	th   *theme.Theme

	tb        *toolbar
	toolbarW  int
	toolCount int
	lay       layout
	checker   *image.RGBA

	held   bool
	inside bool
	grabs  int

	message      string
	messageUntil time.Time
}

func newWindowUI(a *AppState, sess *session.Session) *windowUI {
	return &windowUI{app: a, sess: sess, th: a.Theme, tb: newToolbar()}
}

func (u *windowUI) surfaceSize() image.Point {
	return u.sess.Canvas().RGBA().Bounds().Size()
}

func (u *windowUI) resize(w, h int) {
	u.lay = computeLayout(w, h, u.toolbarW, u.surfaceSize())
	u.sess.SetViewport(u.lay.viewport(u.surfaceSize(), u.sess.Config().DPR))
	arrange(u.tb.buttons, u.lay.toolbar.Min, u.toolbarW)
}

func (u *windowUI) flash(format string, args ...interface{}) {
	u.message = fmt.Sprintf(format, args...)
	u.messageUntil = time.Now().Add(messageDuration)
	log.Print(u.message)
	time.AfterFunc(messageDuration, u.app.NotifyChanged)
}

// installActions routes export, copy and paste through the window so the
// outcome shows in the status overlay.
func (u *windowUI) installActions() {
	u.sess.OnAction(session.ActionExport, func() error {
		path := u.app.Output
		if path == "" {
			path = u.sess.DefaultExportPath(time.Now())
		}
		if err := u.sess.Save(path); err != nil {
			return err
		}
		u.flash("saved %s", path)
		return nil
	})
	u.sess.OnAction(session.ActionCopy, func() error {
		if err := u.sess.Copy(); err != nil {
			return err
		}
		u.flash("image copied to clipboard")
		return nil
	})
	u.sess.OnAction(session.ActionPaste, func() error {
		return u.sess.Paste(u.stickerDone)
	})
}

func (u *windowUI) stickerDone(t *tool.Tool, err error) {
	if err != nil {
		u.flash("sticker: %v", err)
		return
	}
	u.flash("added %s", toolLabel(t))
	u.app.NotifyChanged()
}

// grab asks the portal for a screen region and adds it as a sticker.
func (u *windowUI) grab() {
	u.grabs++
	label := fmt.Sprintf("grab-%d", u.grabs)
	u.sess.LoadStickerAsync(func() (*sticker.Sticker, error) {
		img, err := capture.Region(capture.Options{})
		if err != nil {
			return nil, fmt.Errorf("capture region: %w", err)
		}
		return sticker.New(label, img, 1)
	}, u.stickerDone)
}

func (u *windowUI) do(a session.Action) {
	if err := u.sess.Do(a); err != nil {
		u.flash("%s: %v", a, err)
	}
}

func (u *windowUI) keyLabel(a session.Action) string {
	for _, kb := range u.sess.Keys() {
		if kb.Action == a {
			return shortcutKey(kb.Code) + ":" + string(a)
		}
	}
	return string(a)
}

// buildToolbar lays out tool buttons, actions, the palette and widths.
func (u *windowUI) buildToolbar() {
	var bs []Button
	tools := u.sess.Tools().Tools()
	widest := minToolbar
	for _, t := range tools {
		t := t
		tb := &ToolButton{tool: t, theme: u.th, onSelect: func() {
			if err := u.sess.SelectTool(t.Name); err != nil {
				log.Printf("select %s: %v", t.Name, err)
			}
		}}
		bs = append(bs, &CacheButton{Button: tb})
		lw := labelWidth(toolLabel(t)) + 8
		if t.Sticker != nil {
			lw += buttonHeight
		}
		if lw > widest {
			widest = lw
		}
	}
	actions := append(session.Actions(), "grab")
	for _, a := range actions {
		a := a
		label := u.keyLabel(a)
		run := func() { u.do(a) }
		if a == "grab" {
			label, run = "G:grab", u.grab
		}
		bs = append(bs, &CacheButton{Button: &ActionButton{label: label, theme: u.th, onActivate: run}})
		if lw := labelWidth(label) + 8; lw > widest {
			widest = lw
		}
	}
	current := func() command.Style {
		if t := u.sess.Tools().Current(); t != nil {
			return t.Style()
		}
		return command.Style{}
	}
	for _, pc := range tool.Palette() {
		pc := pc
		bs = append(bs, &SwatchButton{color: pc, theme: u.th,
			selected: func() bool { return current().Color == pc.Color },
			onSelect: func() { u.sess.SetColor(pc.Color) }})
	}
	for _, wd := range tool.WidthOptions() {
		wd := wd
		bs = append(bs, &WidthButton{width: wd, theme: u.th,
			color:    func() color.RGBA { return current().Color },
			selected: func() bool { return current().Scale == wd },
			onSelect: func() { u.sess.SetScale(wd) }})
	}
	u.tb.set(bs)
	u.toolbarW = widest
	u.toolCount = len(tools)
}

func (u *windowUI) contentHeight() int {
	return arrange(u.tb.buttons, image.Point{}, u.toolbarW)
}

// mouse reports whether the window needs a repaint beyond what the
// session's own redraw triggers.
func (u *windowUI) mouse(e mouse.Event) bool {
	x, y := float64(e.X), float64(e.Y)
	p := image.Pt(int(e.X), int(e.Y))
	wasHeld := u.held
	left := e.Button == mouse.ButtonLeft
	if left && e.Direction == mouse.DirPress {
		u.held = true
	}
	if left && e.Direction == mouse.DirRelease {
		u.held = false
	}

	over := u.sess.Viewport().Contains(x, y)
	if over != u.inside {
		u.inside = over
		if over {
			u.sess.PointerEnter(x, y, wasHeld && e.Direction != mouse.DirPress)
		} else {
			u.sess.PointerLeave()
		}
	}

	drawing := u.sess.History().State() == history.Drawing
	switch {
	case over && left && e.Direction == mouse.DirPress:
		u.sess.PointerDown(x, y)
		return false
	case left && e.Direction == mouse.DirRelease && (over || drawing):
		u.sess.PointerUp(x, y)
		if over {
			return false
		}
	case e.Direction == mouse.DirNone && (over || drawing):
		u.sess.PointerMove(x, y)
		return false
	}

	switch {
	case left && e.Direction == mouse.DirPress:
		u.tb.press(p)
		return true
	case left && e.Direction == mouse.DirRelease:
		u.tb.release(p)
		return true
	case e.Direction == mouse.DirNone:
		return u.tb.setHover(p)
	}
	return false
}

func (u *windowUI) key(e key.Event) windowKey {
	code := keyCode(e)
	if code != "" {
		ok, err := u.sess.Key(code)
		if err != nil {
			u.flash("%s: %v", code, err)
		}
		if ok {
			return winNone
		}
	}
	switch act := windowAction(e, code); act {
	case winGrab:
		u.grab()
		return winNone
	default:
		return act
	}
}

func (u *windowUI) selected(b Button) bool {
	cb, ok := b.(*CacheButton)
	if !ok {
		return false
	}
	tb, ok := cb.Button.(*ToolButton)
	return ok && tb.tool == u.sess.Tools().Current()
}

func (u *windowUI) paint(s screen.Screen, w screen.Window) {
	if len(u.sess.Tools().Tools()) != u.toolCount {
		u.buildToolbar()
		u.resize(u.lay.width, u.lay.height)
	}
	b, err := s.NewBuffer(image.Point{u.lay.width, u.lay.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()
	u.render(dst)
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// render draws one frame into dst.
func (u *windowUI) render(dst *image.RGBA) {
	th := u.th
	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)

	draw.Draw(dst, u.lay.header, &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	drawLabel(dst, ProgramTitle, 4, 16, th.Foreground)
	if t := u.sess.Tools().Current(); t != nil {
		drawLabel(dst, t.Tooltip, u.lay.toolbar.Max.X+4, 16, th.Foreground)
	}

	draw.Draw(dst, u.lay.toolbar, &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	u.tb.draw(dst, u.selected)

	box := u.lay.canvas
	if !box.Empty() {
		if u.checker == nil || u.checker.Bounds().Size() != box.Size() {
			u.checker = image.NewRGBA(image.Rectangle{Max: box.Size()})
			drawCheckerboard(u.checker, u.checker.Bounds(), 8, th.CheckerLight, th.CheckerDark)
		}
		draw.Draw(dst, box, u.checker, image.Point{}, draw.Src)
		src := u.sess.Canvas().RGBA()
		if box.Size() == src.Bounds().Size() {
			draw.Draw(dst, box, src, src.Bounds().Min, draw.Over)
		} else {
			xdraw.ApproxBiLinear.Scale(dst, box, src, src.Bounds(), draw.Over, nil)
		}
		drawRect(dst, box.Inset(-1), th.CanvasBorder)
	}

	draw.Draw(dst, u.lay.status, &image.Uniform{th.StatusBackground}, image.Point{}, draw.Src)
	drawLabel(dst, statusText(u.sess, u.lay.zoom), 4, u.lay.status.Min.Y+16, th.StatusText)

	if u.message != "" && time.Now().Before(u.messageUntil) {
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: messageFace}
		wmsg := d.MeasureString(u.message).Ceil()
		ascent := messageFace.Metrics().Ascent.Ceil()
		descent := messageFace.Metrics().Descent.Ceil()
		px := (u.lay.width - wmsg) / 2
		py := (u.lay.height-ascent-descent)/2 + ascent
		rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
		draw.Draw(dst, rect, &image.Uniform{th.StatusBackground}, image.Point{}, draw.Over)
		drawRect(dst, rect, th.Foreground)
		d.Dot = fixed.P(px, py)
		d.DrawString(u.message)
	}
}

// statusText summarises the current tool and history.
func statusText(sess *session.Session, zoom float64) string {
	name, col, scale := "none", "-", 0.0
	if t := sess.Tools().Current(); t != nil {
		st := t.Style()
		name, col, scale = t.Name, tool.FormatColor(st.Color), st.Scale
	}
	h := sess.History()
	s := fmt.Sprintf("%s  %s  scale %g  strokes %d  redo %d  %.0f%%", name, col, scale, h.Len(), h.RedoLen(), zoom*100)
	if h.State() == history.Drawing {
		s += "  drawing"
	}
	return s
}

// arrange assigns toolbar rectangles top to bottom starting at origin and
// returns the height used. Swatches flow in a grid, everything else takes a
// full-width row.
func arrange(buttons []Button, origin image.Point, width int) int {
	x, y := origin.X, origin.Y
	inGrid := false
	for _, b := range buttons {
		if _, ok := b.(*SwatchButton); ok {
			if !inGrid {
				inGrid = true
				x = origin.X + 4
				y += 4
			}
			if x+swatchSize > origin.X+width {
				x = origin.X + 4
				y += swatchSize + 2
			}
			b.SetRect(image.Rect(x, y, x+swatchSize, y+swatchSize))
			x += swatchSize + 2
			continue
		}
		if inGrid {
			inGrid = false
			y += swatchSize + 6
		}
		h := buttonHeight
		if _, ok := b.(*WidthButton); ok {
			h = widthRow
		}
		b.SetRect(image.Rect(origin.X, y, origin.X+width, y+h))
		y += h
	}
	if inGrid {
		y += swatchSize + 2
	}
	return y - origin.Y
}
