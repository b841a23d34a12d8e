package command

import (
	"fmt"

	"github.com/example/sketchpad/internal/surface"
)

// Brush tags the freehand style a stroke was drawn with.
type Brush int

const (
	BrushPencil Brush = iota
	BrushMarker
)

func (b Brush) String() string {
	switch b {
	case BrushPencil:
		return "pencil"
	case BrushMarker:
		return "marker"
	}
	return fmt.Sprintf("Brush(%d)", int(b))
}

// Freehand is a pencil or marker stroke.
type Freehand struct {
	base
	brush  Brush
	stroke Stroke
}

// NewFreehand returns an empty stroke for brush.
func NewFreehand(brush Brush) *Freehand {
	return &Freehand{base: newBase(), brush: brush}
}

func (f *Freehand) Kind() Kind { return KindFreehand }

// Brush returns the brush tag fixed at creation.
func (f *Freehand) Brush() Brush { return f.brush }

// Stroke exposes the recorded points read-only.
func (f *Freehand) Stroke() *Stroke { return &f.stroke }

// RecordPoint appends p with st.
func (f *Freehand) RecordPoint(p Point, st Style) {
	f.mustBeOpen()
	f.stroke.append(p, st)
}

// Execute draws nothing for an empty stroke, a dot of diameter scale for a
// single point, and otherwise one polyline whose colour and width come from
// the first recorded point.
func (f *Freehand) Execute(s surface.Surface) {
	n := f.stroke.Len()
	if n == 0 {
		return
	}
	first := f.stroke.At(0)
	if n == 1 {
		s.FillCircle(first.X, first.Y, first.Scale/2, first.Color)
		return
	}
	s.MoveTo(first.X, first.Y)
	for i := 1; i < n; i++ {
		p := f.stroke.At(i)
		s.LineTo(p.X, p.Y)
	}
	s.Stroke(first.Color, first.Scale)
}
