// Package render rebuilds the canvas from the command log. Every change
// triggers a full replay; nothing is drawn incrementally.
package render

import (
	"github.com/example/sketchpad/internal/command"
	"github.com/example/sketchpad/internal/history"
	"github.com/example/sketchpad/internal/surface"
)

// Source supplies the committed commands, oldest first.
type Source interface {
	Committed() []command.Command
}

// Replay clears s and executes cmds in order. It only reads cmds.
func Replay(s surface.Surface, cmds []command.Command) {
	s.Clear()
	for _, c := range cmds {
		if c != nil {
			c.Execute(s)
		}
	}
}

// Loop redraws a surface from a Source, with an optional cursor preview on
// top.
type Loop struct {
	surface surface.Surface
	src     Source
	cursor  command.Command
	hover   bool
	frames  int
	after   []func()
}

// NewLoop returns a loop drawing src onto s.
func NewLoop(s surface.Surface, src Source) *Loop {
	return &Loop{surface: s, src: src}
}

// Surface returns the target surface.
func (l *Loop) Surface() surface.Surface { return l.surface }

// SetSurface swaps the target, e.g. after a resize, and redraws.
func (l *Loop) SetSurface(s surface.Surface) {
	l.surface = s
	l.Redraw()
}

// Redraw clears the surface, replays every committed command and finally
// the cursor preview when the pointer hovers the surface.
func (l *Loop) Redraw() {
	if l.surface == nil {
		return
	}
	var cmds []command.Command
	if l.src != nil {
		cmds = l.src.Committed()
	}
	Replay(l.surface, cmds)
	if l.cursor != nil && l.hover {
		l.cursor.Execute(l.surface)
	}
	l.frames++
	for _, fn := range l.after {
		fn()
	}
}

// Frames counts completed redraws.
func (l *Loop) Frames() int { return l.frames }

// SetCursor installs the preview command; nil removes it.
func (l *Loop) SetCursor(c command.Command) { l.cursor = c }

// Cursor returns the preview command.
func (l *Loop) Cursor() command.Command { return l.cursor }

// SetHover records whether the pointer is over the surface.
func (l *Loop) SetHover(h bool) { l.hover = h }

// Hovering reports the last SetHover value.
func (l *Loop) Hovering() bool { return l.hover }

// AfterRedraw registers fn to run at the end of every redraw.
func (l *Loop) AfterRedraw(fn func()) { l.after = append(l.after, fn) }

// Watch redraws on every history change until the returned func is called.
func (l *Loop) Watch(e *history.Engine) (cancel func()) {
	return e.Subscribe(func(history.Change) { l.Redraw() })
}
