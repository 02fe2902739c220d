package geotable

import "math"

// Bounds is an x/y bounding box. For geographic tables X is longitude
// and Y latitude, in decimal degrees.
type Bounds struct {
	MinX float64
	MaxX float64
	MinY float64
	MaxY float64
}

// Contains returns true if the point (x, y) is within the bounds.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX &&
		y >= b.MinY && y <= b.MaxY
}

// Intersects returns true if the given bounds intersects with this bounds.
func (b Bounds) Intersects(other Bounds) bool {
	return !(other.MaxX < b.MinX ||
		other.MinX > b.MaxX ||
		other.MaxY < b.MinY ||
		other.MinY > b.MaxY)
}

// Expand returns a new Bounds expanded by the given margin in all directions.
func (b Bounds) Expand(margin float64) Bounds {
	return Bounds{
		MinX: b.MinX - margin,
		MaxX: b.MaxX + margin,
		MinY: b.MinY - margin,
		MaxY: b.MaxY + margin,
	}
}

// IsEmpty reports whether the bounds hold no point.
func (b Bounds) IsEmpty() bool {
	return !(b.MinX <= b.MaxX && b.MinY <= b.MaxY)
}

// Bounds returns the x/y extent of the segment, from its first two
// columns. It is empty when the segment has fewer than two columns or no
// finite values.
func (s *Segment) Bounds() Bounds {
	if len(s.Min) < 2 {
		return Bounds{MinX: math.Inf(1), MaxX: math.Inf(-1), MinY: math.Inf(1), MaxY: math.Inf(-1)}
	}
	return Bounds{MinX: s.Min[0], MaxX: s.Max[0], MinY: s.Min[1], MaxY: s.Max[1]}
}

// Bounds returns the x/y extent of the table.
func (t *Table) Bounds() Bounds {
	if len(t.Min) < 2 {
		return Bounds{MinX: math.Inf(1), MaxX: math.Inf(-1), MinY: math.Inf(1), MaxY: math.Inf(-1)}
	}
	return Bounds{MinX: t.Min[0], MaxX: t.Max[0], MinY: t.Min[1], MaxY: t.Max[1]}
}
