package tool

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/example/sketchpad/internal/sticker"
)

var (
	// ErrUnknownTool is returned when selecting a name that was never
	// registered.
	ErrUnknownTool = errors.New("tool: unknown tool")
	// ErrDuplicateTool is returned when registering a name twice.
	ErrDuplicateTool = errors.New("tool: duplicate tool")
)

// maxStickerShortcuts is how many sticker tools get a digit shortcut.
const maxStickerShortcuts = 9

// Option configures a Registry.
type Option func(*Registry)

// WithLogger routes registry logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

type observer struct {
	id int
	fn func(*Tool)
}

// Registry is the ordered set of tools plus the current selection.
type Registry struct {
	tools     []*Tool
	byName    map[string]*Tool
	current   *Tool
	stickers  *sticker.Library
	observers []observer
	nextObs   int
	log       *slog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		byName:   make(map[string]*Tool),
		stickers: sticker.NewLibrary(),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Default returns a registry holding the pencil and marker with the pencil
// selected.
func Default(opts ...Option) *Registry {
	r := NewRegistry(opts...)
	_ = r.Register(Pencil())
	_ = r.Register(Marker())
	return r
}

// Register appends t. The first registered tool becomes current.
func (r *Registry) Register(t *Tool) error {
	if t == nil || t.Name == "" {
		return fmt.Errorf("%w: empty name", ErrUnknownTool)
	}
	if _, ok := r.byName[t.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, t.Name)
	}
	t.reg = r
	r.tools = append(r.tools, t)
	r.byName[t.Name] = t
	if r.current == nil {
		r.current = t
	}
	r.log.Debug("tool registered", "tool", t.Name, "kind", t.Kind)
	return nil
}

// Lookup returns the tool called name.
func (r *Registry) Lookup(name string) (*Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// ByShortcut returns the tool bound to the key code.
func (r *Registry) ByShortcut(code string) (*Tool, bool) {
	if code == "" {
		return nil, false
	}
	for _, t := range r.tools {
		if t.Shortcut == code {
			return t, true
		}
	}
	return nil, false
}

// Select makes name the current tool. Selecting only changes which tool
// future pointer-downs use.
func (r *Registry) Select(name string) error {
	t, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	r.current = t
	r.log.Debug("tool selected", "tool", name)
	r.notify(t)
	return nil
}

// Current returns the active tool, or nil for an empty registry.
func (r *Registry) Current() *Tool { return r.current }

// Tools returns the tools in registration order.
func (r *Registry) Tools() []*Tool {
	out := make([]*Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Stickers returns the library backing the sticker tools.
func (r *Registry) Stickers() *sticker.Library { return r.stickers }

// AddSticker adds s to the library and registers a stamping tool for it.
// Nothing changes when s is invalid or its label is already used.
func (r *Registry) AddSticker(s *sticker.Sticker) (*Tool, error) {
	if err := r.stickers.Check(s); err != nil {
		return nil, err
	}
	t := ForSticker(s)
	if _, ok := r.byName[t.Name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, t.Name)
	}
	if n := r.stickers.Len(); n < maxStickerShortcuts {
		t.Shortcut = fmt.Sprintf("Digit%d", n+1)
		t.Tooltip = fmt.Sprintf("%s (%d)", t.Tooltip, n+1)
	}
	if err := r.stickers.Add(s); err != nil {
		return nil, err
	}
	if err := r.Register(t); err != nil {
		return nil, err
	}
	r.log.Info("sticker added", "label", s.Label, "shortcut", t.Shortcut)
	return t, nil
}

// OnToolChanged registers fn to run synchronously whenever a tool is
// selected or its style changes. The returned func removes it.
func (r *Registry) OnToolChanged(fn func(*Tool)) (cancel func()) {
	id := r.nextObs
	r.nextObs++
	r.observers = append(r.observers, observer{id: id, fn: fn})
	return func() {
		// Never edit the slice in place: a dispatch may be ranging over it.
		kept := make([]observer, 0, len(r.observers))
		for _, o := range r.observers {
			if o.id != id {
				kept = append(kept, o)
			}
		}
		r.observers = kept
	}
}

func (r *Registry) notify(t *Tool) {
	for _, o := range r.observers {
		o.fn(t)
	}
}
