package view

// Point is a 2D coordinate or vector in surface cells.
type Point struct {
	X, Y float64
}

// Size is a width/height pair in surface cells.
type Size struct {
	W, H float64
}

// Layout positions a view inside its surface. Anchors are fractions of the
// surface size; offsets extend the anchored rect in cells.
type Layout struct {
	AnchorMin Point
	AnchorMax Point
	OffsetMin Point
	OffsetMax Point
	Position  Point
	Scale     float64
}

// FullRect is a layout stretched over the whole surface.
func FullRect() Layout {
	return Layout{
		AnchorMin: Point{0, 0},
		AnchorMax: Point{1, 1},
		Scale:     1,
	}
}

// Normalized keeps the anchors and drops offsets, position and scale.
// A layout with a degenerate zero anchor rect becomes FullRect.
func (l Layout) Normalized() Layout {
	if l.AnchorMin == (Point{}) && l.AnchorMax == (Point{}) {
		return FullRect()
	}
	return Layout{
		AnchorMin: l.AnchorMin,
		AnchorMax: l.AnchorMax,
		Scale:     1,
	}
}

func (l Layout) scale() float64 {
	if l.Scale == 0 {
		return 1
	}
	return l.Scale
}

// Size resolves the layout against the parent surface size.
func (l Layout) Size(parent Size) Size {
	s := l.scale()
	w := ((l.AnchorMax.X-l.AnchorMin.X)*parent.W + (l.OffsetMax.X - l.OffsetMin.X)) * s
	h := ((l.AnchorMax.Y-l.AnchorMin.Y)*parent.H + (l.OffsetMax.Y - l.OffsetMin.Y)) * s
	return Size{W: max(w, 0), H: max(h, 0)}
}

// Origin resolves the top-left corner against the parent surface size.
func (l Layout) Origin(parent Size) Point {
	return Point{
		X: l.AnchorMin.X*parent.W + l.OffsetMin.X + l.Position.X,
		Y: l.AnchorMin.Y*parent.H + l.OffsetMin.Y + l.Position.Y,
	}
}
