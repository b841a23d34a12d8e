// Package command holds the replayable drawing actions that make up a
// canvas history.
//
// The variant set is closed: Freehand, Sticker and Cursor are the only
// implementations of Command. Every variant renders itself through the
// surface.Surface primitives and may be re-executed any number of times with
// identical output.
package command

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/sketchpad/internal/surface"
)

// ErrFrozen is the panic value (wrapped) raised when a point is recorded on
// a command that has already been finalized.
var ErrFrozen = errors.New("command: point recorded on frozen command")

// Kind identifies a Command variant.
type Kind int

const (
	KindFreehand Kind = iota
	KindSticker
	KindCursor
)

func (k Kind) String() string {
	switch k {
	case KindFreehand:
		return "freehand"
	case KindSticker:
		return "sticker"
	case KindCursor:
		return "cursor"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Command is a self-contained, replayable drawing action.
type Command interface {
	// ID is unique per command instance.
	ID() string
	Kind() Kind
	// Execute renders the current state onto s without mutating the
	// command.
	Execute(s surface.Surface)
	// RecordPoint appends a point (Freehand) or moves the anchor (Sticker,
	// Cursor). It panics with ErrFrozen after Freeze.
	RecordPoint(p Point, st Style)
	// Freeze finalizes the command; further RecordPoint calls panic.
	Freeze()
	Frozen() bool

	sealed()
}

// Factory produces a fresh command for a pointer-down at p. Tools implement
// it; the cursor preview uses it to draw a miniature of the active tool.
type Factory interface {
	MakeCommand(p Point, st Style) Command
	Style() Style
}

type base struct {
	id     string
	frozen bool
}

func newBase() base { return base{id: uuid.NewString()} }

func (b *base) ID() string   { return b.id }
func (b *base) Frozen() bool { return b.frozen }
func (b *base) Freeze()      { b.frozen = true }
func (b *base) sealed()      {}

func (b *base) mustBeOpen() {
	if b.frozen {
		panic(fmt.Errorf("%w: %s", ErrFrozen, b.id))
	}
}
