// Package session is the event-handling layer of the drawing surface. A
// Session owns the tool registry, the history engine and the render loop,
// and turns pointer, key and script input into history transitions.
//
// A Session is not safe for concurrent use. Everything runs on the caller's
// event loop; background sticker loads hand their result back through the
// post function given to New.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/example/sketchpad/internal/command"
	"github.com/example/sketchpad/internal/export"
	"github.com/example/sketchpad/internal/history"
	"github.com/example/sketchpad/internal/render"
	"github.com/example/sketchpad/internal/sticker"
	"github.com/example/sketchpad/internal/surface"
	"github.com/example/sketchpad/internal/tool"
)

// ErrNoClipboard is returned by clipboard actions when no clipboard is
// attached.
var ErrNoClipboard = errors.New("session: no clipboard")

// Config holds the canvas geometry and export defaults.
type Config struct {
	Width, Height int
	DPR           float64
	Background    color.Color
	// ExportWidth and ExportHeight default to the canvas size.
	ExportWidth, ExportHeight int
	// SaveDir receives files written by the export action.
	SaveDir string
	// Shadow bakes a drop shadow into every added sticker.
	Shadow bool
}

// DefaultConfig returns an 800x600 transparent canvas.
func DefaultConfig() Config {
	return Config{Width: 800, Height: 600, DPR: 1, Background: color.Transparent, SaveDir: "."}
}

// Notifier receives user-visible outcomes. *notify.Notifier satisfies it.
type Notifier interface {
	Export(path string)
	Copy(detail string)
	Sticker(label string, img image.Image)
}

// Clipboard is the system clipboard as seen by the copy and paste actions.
type Clipboard interface {
	WriteImage(img image.Image) error
	ReadImage() (image.Image, error)
	ReadText() (string, error)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger routes session, tool and history logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRegistry replaces the default pencil and marker registry.
func WithRegistry(r *tool.Registry) Option {
	return func(s *Session) { s.tools = r }
}

// WithStickers adds stickers at start-up. Invalid ones are logged and
// skipped.
func WithStickers(st ...*sticker.Sticker) Option {
	return func(s *Session) { s.initial = append(s.initial, st...) }
}

// WithNotifier reports exports, copies and loaded stickers to n.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithClipboard enables the copy and paste actions.
func WithClipboard(c Clipboard) Option {
	return func(s *Session) { s.clip = c }
}

// WithPost sets how background work rejoins the event loop. Without it
// sticker loads run synchronously.
func WithPost(post func(func())) Option {
	return func(s *Session) { s.post = post }
}

// Session is the single state object owned by the event layer.
type Session struct {
	cfg      Config
	tools    *tool.Registry
	hist     *history.Engine
	canvas   *surface.Canvas
	loop     *render.Loop
	cursor   *command.Cursor
	vp       Viewport
	keys     map[string]Action
	handlers map[Action]func() error

	held   bool
	inside bool

	initial  []*sticker.Sticker
	notifier Notifier
	clip     Clipboard
	post     func(func())
	pasted   int
	log      *slog.Logger
}

// New builds a session from cfg.
func New(cfg Config, opts ...Option) *Session {
	def := DefaultConfig()
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = def.Width, def.Height
	}
	if cfg.DPR <= 0 {
		cfg.DPR = 1
	}
	if cfg.Background == nil {
		cfg.Background = def.Background
	}
	if cfg.SaveDir == "" {
		cfg.SaveDir = def.SaveDir
	}
	s := &Session{
		cfg:      cfg,
		keys:     DefaultKeys(),
		handlers: make(map[Action]func() error),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(s)
	}
	if s.tools == nil {
		s.tools = tool.Default(tool.WithLogger(s.log))
	}
	s.hist = history.New(history.WithLogger(s.log))
	s.canvas = surface.NewCanvas(cfg.Width, cfg.Height,
		surface.WithDPR(cfg.DPR), surface.WithBackground(cfg.Background))
	s.loop = render.NewLoop(s.canvas, s.hist)
	s.loop.Watch(s.hist)
	s.cursor = command.NewCursor(command.Point{}, s.currentFactory())
	s.loop.SetCursor(s.cursor)
	s.vp = IdentityViewport(cfg.Width, cfg.Height, cfg.DPR)
	s.tools.OnToolChanged(func(*tool.Tool) {
		s.cursor.SetTool(s.currentFactory())
		s.loop.Redraw()
	})
	for _, st := range s.initial {
		if _, err := s.AddSticker(st); err != nil {
			s.log.Warn("skipping sticker", "err", err)
		}
	}
	s.initial = nil
	s.loop.Redraw()
	return s
}

func (s *Session) currentFactory() command.Factory {
	if t := s.tools.Current(); t != nil {
		return t
	}
	return nil
}

// Config returns the effective configuration.
func (s *Session) Config() Config { return s.cfg }

// Tools returns the tool registry.
func (s *Session) Tools() *tool.Registry { return s.tools }

// History returns the history engine.
func (s *Session) History() *history.Engine { return s.hist }

// Loop returns the render loop.
func (s *Session) Loop() *render.Loop { return s.loop }

// Canvas returns the on-screen surface.
func (s *Session) Canvas() *surface.Canvas { return s.canvas }

// Viewport returns the screen mapping.
func (s *Session) Viewport() Viewport { return s.vp }

// SetViewport replaces the screen mapping, e.g. after the window moves the
// canvas.
func (s *Session) SetViewport(v Viewport) { s.vp = v }

// Hovering reports whether the pointer is over the canvas.
func (s *Session) Hovering() bool { return s.inside }

// ButtonHeld reports whether the primary button is down as far as the
// session has been told.
func (s *Session) ButtonHeld() bool { return s.held }

// PointerDown starts a stroke with the current tool.
func (s *Session) PointerDown(x, y float64) {
	p := s.vp.ToSurface(x, y)
	s.held = true
	s.inside = true
	s.loop.SetHover(true)
	s.cursor.RecordPoint(p, command.Style{})
	s.begin(p)
}

func (s *Session) begin(p command.Point) {
	t := s.tools.Current()
	if t == nil {
		s.loop.Redraw()
		return
	}
	if s.hist.Begin(t, p, t.Style()) == nil {
		s.loop.Redraw()
	}
}

// PointerMove extends the stroke in progress, or just moves the preview.
func (s *Session) PointerMove(x, y float64) {
	p := s.vp.ToSurface(x, y)
	s.cursor.RecordPoint(p, command.Style{})
	if s.hist.State() == history.Drawing {
		t := s.tools.Current()
		st := command.Style{}
		if t != nil {
			st = t.Style()
		}
		s.hist.Extend(p, st)
		return
	}
	s.loop.Redraw()
}

// PointerUp finalizes the stroke.
func (s *Session) PointerUp(x, y float64) {
	s.cursor.RecordPoint(s.vp.ToSurface(x, y), command.Style{})
	s.held = false
	if !s.hist.End() {
		s.loop.Redraw()
	}
}

// PointerEnter shows the preview again. When the primary button is still
// held a new stroke starts at the entry point.
func (s *Session) PointerEnter(x, y float64, buttonHeld bool) {
	p := s.vp.ToSurface(x, y)
	s.inside = true
	s.held = buttonHeld
	s.loop.SetHover(true)
	s.cursor.RecordPoint(p, command.Style{})
	if buttonHeld && s.hist.State() == history.Idle {
		s.begin(p)
		return
	}
	s.loop.Redraw()
}

// PointerLeave hides the preview and ends the stroke unless the current
// tool may leave the canvas.
func (s *Session) PointerLeave() {
	s.inside = false
	s.loop.SetHover(false)
	if s.hist.State() == history.Drawing {
		if t := s.tools.Current(); t == nil || !t.CanLeaveCanvas {
			s.hist.End()
			return
		}
	}
	s.loop.Redraw()
}

// Clear removes every command.
func (s *Session) Clear() { s.hist.ClearAll() }

// Undo reverts the newest command.
func (s *Session) Undo() bool {
	ok := s.hist.Undo()
	if ok {
		s.held = false
	}
	return ok
}

// Redo restores the most recently undone command.
func (s *Session) Redo() bool { return s.hist.Redo() }

// SelectTool makes name the current tool.
func (s *Session) SelectTool(name string) error { return s.tools.Select(name) }

// SetColor changes the colour of the current tool.
func (s *Session) SetColor(c color.RGBA) {
	if t := s.tools.Current(); t != nil {
		t.SetColor(c)
	}
}

// SetScale changes the scale of the current tool.
func (s *Session) SetScale(v float64) {
	if t := s.tools.Current(); t != nil {
		t.SetScale(v)
	}
}

// ExportOptions returns the geometry used by the export methods.
func (s *Session) ExportOptions() export.Options {
	return export.Options{
		SourceWidth:  s.cfg.Width,
		SourceHeight: s.cfg.Height,
		Width:        s.cfg.ExportWidth,
		Height:       s.cfg.ExportHeight,
		Background:   s.cfg.Background,
		Logger:       s.log,
	}
}

// ExportPNG writes the committed drawing as PNG.
func (s *Session) ExportPNG(w io.Writer) error {
	return export.PNG(w, s.hist.Committed(), s.ExportOptions())
}

// ExportPDF writes the committed drawing as a one-page PDF.
func (s *Session) ExportPDF(w io.Writer) error {
	return export.PDF(w, s.hist.Committed(), s.ExportOptions())
}

// Flatten renders the committed drawing at export size.
func (s *Session) Flatten() (*image.RGBA, error) {
	return export.Render(s.hist.Committed(), s.ExportOptions())
}

// Save exports to path and sends the export notification.
func (s *Session) Save(path string) error {
	if err := export.Save(path, s.hist.Committed(), s.ExportOptions()); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.Export(path)
	}
	return nil
}

// DefaultExportPath names a time-stamped PNG in the save directory.
func (s *Session) DefaultExportPath(now time.Time) string {
	return filepath.Join(s.cfg.SaveDir, "sketch-"+now.Format("20060102-150405")+".png")
}

// OnAction overrides the handler of a. A nil fn restores the default.
func (s *Session) OnAction(a Action, fn func() error) {
	if fn == nil {
		delete(s.handlers, a)
		return
	}
	s.handlers[a] = fn
}

// Do runs an action. A name that is not a built-in action selects the tool
// of that name.
func (s *Session) Do(a Action) error {
	if fn, ok := s.handlers[a]; ok {
		return fn()
	}
	switch a {
	case ActionClear:
		s.Clear()
	case ActionUndo:
		s.Undo()
	case ActionRedo:
		s.Redo()
	case ActionExport:
		return s.Save(s.DefaultExportPath(time.Now()))
	case ActionCopy:
		return s.Copy()
	case ActionPaste:
		return s.Paste(nil)
	default:
		if _, ok := s.tools.Lookup(string(a)); ok {
			return s.SelectTool(string(a))
		}
		return fmt.Errorf("unknown action %q", a)
	}
	return nil
}

// Copy puts the flattened drawing on the clipboard.
func (s *Session) Copy() error {
	if s.clip == nil {
		return ErrNoClipboard
	}
	img, err := s.Flatten()
	if err != nil {
		return err
	}
	if err := s.clip.WriteImage(img); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	if s.notifier != nil {
		s.notifier.Copy("drawing")
	}
	return nil
}

// Paste turns the clipboard contents into a sticker: an image directly,
// text through FromText in the current colour. done, when non-nil, receives
// the outcome on the event loop.
func (s *Session) Paste(done func(*tool.Tool, error)) error {
	if s.clip == nil {
		return ErrNoClipboard
	}
	col := color.RGBA{A: 255}
	if t := s.tools.Current(); t != nil {
		col = t.Style().Color
	}
	clip := s.clip
	// Set by the load when the clipboard held an image. The number is taken
	// only after the add succeeds.
	var fromImage *sticker.Sticker
	load := func(context.Context) (*sticker.Sticker, error) {
		if img, err := clip.ReadImage(); err == nil && img != nil {
			st, err := sticker.New("pasted", img, 1)
			fromImage = st
			return st, err
		}
		text, err := clip.ReadText()
		if err != nil {
			return nil, fmt.Errorf("paste: %w", err)
		}
		return sticker.FromText(text, sticker.DefaultTextSize, col)
	}
	name := func(st *sticker.Sticker) func() {
		if st != fromImage {
			return nil
		}
		n := s.pasted + 1
		st.Label = fmt.Sprintf("pasted-%d", n)
		return func() { s.pasted = n }
	}
	s.loadSticker(context.Background(), load, name, done)
	return nil
}
