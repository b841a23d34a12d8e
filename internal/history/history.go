// Package history is the command log behind the canvas: an ordered list of
// committed commands and a redo buffer, driven by a two-state machine.
//
// Only the Engine's transition methods mutate the two stacks. Observers run
// synchronously, before the transition method returns.
package history

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/example/sketchpad/internal/command"
)

// State is the stroke state.
type State int

const (
	Idle State = iota
	Drawing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Op names the transition that produced a Change.
type Op int

const (
	OpBegin Op = iota
	OpExtend
	OpEnd
	OpUndo
	OpRedo
	OpClear
)

func (o Op) String() string {
	switch o {
	case OpBegin:
		return "begin"
	case OpExtend:
		return "extend"
	case OpEnd:
		return "end"
	case OpUndo:
		return "undo"
	case OpRedo:
		return "redo"
	case OpClear:
		return "clear"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Change describes a completed transition.
type Change struct {
	Op Op
	// Command is the command affected, nil for OpClear.
	Command command.Command
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes engine logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

type observer struct {
	id int
	fn func(Change)
}

// Engine owns the committed list and the redo buffer.
type Engine struct {
	committed []command.Command
	redo      []command.Command
	state     State
	observers []observer
	nextObs   int
	log       *slog.Logger
}

// New returns an empty, idle engine.
func New(opts ...Option) *Engine {
	e := &Engine{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, o := range opts {
		o(e)
	}
	return e
}

// State reports whether a stroke is in progress.
func (e *Engine) State() State { return e.state }

// Len is the number of committed commands, including one in progress.
func (e *Engine) Len() int { return len(e.committed) }

// RedoLen is the number of undone commands available to redo.
func (e *Engine) RedoLen() int { return len(e.redo) }

// Committed returns the committed commands oldest first. The slice is a
// copy; the commands are shared.
func (e *Engine) Committed() []command.Command {
	out := make([]command.Command, len(e.committed))
	copy(out, e.committed)
	return out
}

// RedoBuffer returns the undone commands, most recently undone last.
func (e *Engine) RedoBuffer() []command.Command {
	out := make([]command.Command, len(e.redo))
	copy(out, e.redo)
	return out
}

// InProgress returns the command being drawn, or nil when idle.
func (e *Engine) InProgress() command.Command {
	if e.state != Drawing || len(e.committed) == 0 {
		return nil
	}
	return e.committed[len(e.committed)-1]
}

// Begin starts a stroke with a command made by f at p. A stroke already in
// progress is ended first. It returns nil, and changes nothing, when f makes
// no command.
func (e *Engine) Begin(f command.Factory, p command.Point, st command.Style) command.Command {
	if f == nil {
		return nil
	}
	c := f.MakeCommand(p, st)
	if c == nil {
		return nil
	}
	if e.state == Drawing {
		e.End()
	}
	e.committed = append(e.committed, c)
	e.state = Drawing
	e.log.Debug("stroke begin", "id", c.ID(), "kind", c.Kind(), "x", p.X, "y", p.Y)
	e.emit(Change{Op: OpBegin, Command: c})
	return c
}

// Extend records p on the in-progress command. It reports false when idle.
func (e *Engine) Extend(p command.Point, st command.Style) bool {
	c := e.InProgress()
	if c == nil {
		return false
	}
	c.RecordPoint(p, st)
	e.emit(Change{Op: OpExtend, Command: c})
	return true
}

// End finalizes the in-progress command and drops the redo buffer. It
// reports false when idle.
func (e *Engine) End() bool {
	c := e.InProgress()
	if c == nil {
		return false
	}
	c.Freeze()
	e.state = Idle
	e.redo = nil
	e.log.Debug("stroke end", "id", c.ID(), "committed", len(e.committed))
	e.emit(Change{Op: OpEnd, Command: c})
	return true
}

// Undo moves the newest committed command onto the redo buffer. An
// in-progress command is frozen and undone, leaving the engine idle. It
// reports false when nothing is committed.
func (e *Engine) Undo() bool {
	n := len(e.committed)
	if n == 0 {
		return false
	}
	c := e.committed[n-1]
	if e.state == Drawing {
		c.Freeze()
		e.state = Idle
	}
	e.committed[n-1] = nil
	e.committed = e.committed[:n-1]
	e.redo = append(e.redo, c)
	e.log.Debug("undo", "id", c.ID(), "committed", len(e.committed), "redo", len(e.redo))
	e.emit(Change{Op: OpUndo, Command: c})
	return true
}

// Redo moves the most recently undone command back onto the committed list.
// It reports false while drawing or when the buffer is empty.
func (e *Engine) Redo() bool {
	n := len(e.redo)
	if e.state == Drawing || n == 0 {
		return false
	}
	c := e.redo[n-1]
	e.redo[n-1] = nil
	e.redo = e.redo[:n-1]
	e.committed = append(e.committed, c)
	e.log.Debug("redo", "id", c.ID(), "committed", len(e.committed), "redo", len(e.redo))
	e.emit(Change{Op: OpRedo, Command: c})
	return true
}

// ClearAll drops every command, cancelling any stroke in progress.
func (e *Engine) ClearAll() {
	if c := e.InProgress(); c != nil {
		c.Freeze()
	}
	e.committed = nil
	e.redo = nil
	e.state = Idle
	e.log.Debug("clear")
	e.emit(Change{Op: OpClear})
}

// Subscribe registers fn for every transition. The returned func removes it.
func (e *Engine) Subscribe(fn func(Change)) (cancel func()) {
	id := e.nextObs
	e.nextObs++
	e.observers = append(e.observers, observer{id: id, fn: fn})
	return func() {
		// Never edit the slice in place: a dispatch may be ranging over it.
		kept := make([]observer, 0, len(e.observers))
		for _, o := range e.observers {
			if o.id != id {
				kept = append(kept, o)
			}
		}
		e.observers = kept
	}
}

func (e *Engine) emit(c Change) {
	for _, o := range e.observers {
		o.fn(c)
	}
}
