package command

import "image/color"

// Point is a position in surface-local logical coordinates.
type Point struct {
	X, Y float64
}

// Style is the set of tool parameters captured with each recorded point.
type Style struct {
	Color color.RGBA
	Scale float64
}

// StylizedPoint is a point together with the style that was active when it
// was recorded. It is stored by value so later tool edits cannot reach it.
type StylizedPoint struct {
	X, Y  float64
	Color color.RGBA
	Scale float64
}

// Point returns the position without style.
func (p StylizedPoint) Point() Point { return Point{X: p.X, Y: p.Y} }

// Style returns the style fields.
func (p StylizedPoint) Style() Style { return Style{Color: p.Color, Scale: p.Scale} }

// Stroke is an append-only sequence of stylized points.
type Stroke struct {
	points []StylizedPoint
}

// Len returns the number of recorded points.
func (s *Stroke) Len() int { return len(s.points) }

// Points returns a copy of the recorded points in order.
func (s *Stroke) Points() []StylizedPoint {
	out := make([]StylizedPoint, len(s.points))
	copy(out, s.points)
	return out
}

// At returns the i-th point.
func (s *Stroke) At(i int) StylizedPoint { return s.points[i] }

func (s *Stroke) append(p Point, st Style) {
	s.points = append(s.points, StylizedPoint{X: p.X, Y: p.Y, Color: st.Color, Scale: st.Scale})
}
