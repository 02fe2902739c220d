package geotable

import (
	"math"
	"slices"

	"github.com/beetlebugorg/geotable/internal/coltype"
	"github.com/beetlebugorg/geotable/internal/geo"
	"github.com/beetlebugorg/geotable/internal/ogr"
)

// Segment is a run of records sharing one optional header line.
//
// Values are stored column by column: Columns[c][row]. A segment owns its
// arrays and attribute values; nothing is shared with other segments.
type Segment struct {
	ID        int    // position in the table when it was read
	Header    string // header text without the segment marker
	HasHeader bool

	Columns [][]float64
	Text    []string // per-row trailing text; nil for numeric tables

	// Min and Max hold per-column extents. Columns without finite values
	// have Min = +Inf and Max = -Inf.
	Min, Max []float64

	Pole Pole // polygon segments that enclose a pole
	Hole bool // polygon segments marked as holes

	// Attributes holds the feature values bound to this segment, one per
	// declared field, when the table carries embedded metadata.
	Attributes []Value

	rows int
}

// NewSegment creates an empty segment with cols columns and room for
// rows records. With text the segment also keeps trailing text.
func NewSegment(cols, rows int, text bool) *Segment {
	s := &Segment{
		Columns: make([][]float64, cols),
		Min:     make([]float64, cols),
		Max:     make([]float64, cols),
	}
	for c := range s.Columns {
		s.Columns[c] = make([]float64, 0, rows)
		s.Min[c] = math.Inf(1)
		s.Max[c] = math.Inf(-1)
	}
	if text {
		s.Text = make([]string, 0, rows)
	}
	return s
}

// NumRows returns the number of records.
func (s *Segment) NumRows() int { return s.rows }

// NumColumns returns the number of numeric columns.
func (s *Segment) NumColumns() int { return len(s.Columns) }

// HasText reports whether the segment keeps trailing text.
func (s *Segment) HasText() bool { return s.Text != nil }

// AppendRow adds one record. Missing values are stored as NaN and values
// beyond NumColumns are dropped. Extents are widened as values arrive;
// SetMinMax recomputes them exactly.
func (s *Segment) AppendRow(vals []float64, text string) {
	for c := range s.Columns {
		v := math.NaN()
		if c < len(vals) {
			v = vals[c]
		}
		s.Columns[c] = append(s.Columns[c], v)
		if v < s.Min[c] {
			s.Min[c] = v
		}
		if v > s.Max[c] {
			s.Max[c] = v
		}
	}
	if s.Text != nil {
		s.Text = append(s.Text, text)
	}
	s.rows++
}

// Row copies record i into dst (grown as needed) and returns it.
func (s *Segment) Row(i int, dst []float64) []float64 {
	dst = slices.Grow(dst[:0], len(s.Columns))[:len(s.Columns)]
	for c, col := range s.Columns {
		dst[c] = col[i]
	}
	return dst
}

// Clone returns a deep copy of the segment.
func (s *Segment) Clone() *Segment {
	c := *s
	c.Columns = make([][]float64, len(s.Columns))
	for i, col := range s.Columns {
		c.Columns[i] = slices.Clone(col)
	}
	c.Text = slices.Clone(s.Text)
	c.Min = slices.Clone(s.Min)
	c.Max = slices.Clone(s.Max)
	c.Attributes = cloneValues(s.Attributes)
	return &c
}

func cloneValues(vals []Value) []Value {
	if vals == nil {
		return nil
	}
	return ogr.Feature{Values: vals}.Clone().Values
}

// enableText starts keeping trailing text, with "" for existing rows.
func (s *Segment) enableText() {
	if s.Text == nil {
		s.Text = make([]string, s.rows, max(s.rows, 8))
	}
}

// adjustColumns grows or shrinks the segment to n columns. New columns
// are filled with zeros and carry the empty extent.
func (s *Segment) adjustColumns(n int) {
	if n <= len(s.Columns) {
		clear(s.Columns[n:])
		s.Columns = s.Columns[:n]
		s.Min = s.Min[:n]
		s.Max = s.Max[:n]
		return
	}
	for c := len(s.Columns); c < n; c++ {
		s.Columns = append(s.Columns, make([]float64, s.rows))
		s.Min = append(s.Min, math.Inf(1))
		s.Max = append(s.Max, math.Inf(-1))
	}
}

// SetMinMax recomputes the extents of every column. Longitude columns
// (per types, input direction) use the quadrant rule so that a segment
// crossing the dateline gets a compact range; def breaks ties. For
// polygon segments in geographic coordinates the enclosed pole is also
// determined, and a polar cap gets longitude extent [0, 360] and a
// latitude bound of ±90.
func (s *Segment) SetMinMax(types *coltype.System, def LonRange, polygon bool) {
	for c, col := range s.Columns {
		if types != nil && types.Type(coltype.In, c) == coltype.Lon {
			if lo, hi, ok := geo.LonMinMax(col, def); ok {
				s.Min[c], s.Max[c] = lo, hi
				continue
			}
			s.Min[c], s.Max[c] = math.Inf(1), math.Inf(-1)
			continue
		}
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, v := range col {
			if math.IsNaN(v) {
				continue
			}
			lo = min(lo, v)
			hi = max(hi, v)
		}
		s.Min[c], s.Max[c] = lo, hi
	}

	s.Pole = geo.NotPolar
	if !polygon || !isGeographic(types) || len(s.Columns) < 2 {
		return
	}
	s.Pole = geo.DeterminePole(s.Columns[0], s.Columns[1])
	switch s.Pole {
	case geo.North:
		s.Min[0], s.Max[0] = 0, 360
		s.Max[1] = 90
	case geo.South:
		s.Min[0], s.Max[0] = 0, 360
		s.Min[1] = -90
	}
}

// IsClosed reports whether the first and last vertex coincide.
func (s *Segment) IsClosed(geographic bool) bool {
	if len(s.Columns) < 2 || s.rows < 2 {
		return true
	}
	return !geo.IsOpen(s.Columns[0], s.Columns[1], geographic)
}

// Close appends a copy of the first record when the ring is open.
func (s *Segment) Close(geographic bool) bool {
	if s.IsClosed(geographic) {
		return false
	}
	text := ""
	if s.Text != nil {
		text = s.Text[0]
	}
	s.AppendRow(s.Row(0, nil), text)
	return true
}

// Release drops the segment's arrays. The segment is empty afterwards.
func (s *Segment) Release() {
	s.Columns = nil
	s.Text = nil
	s.Min = nil
	s.Max = nil
	s.Attributes = nil
	s.rows = 0
}

func isGeographic(types *coltype.System) bool {
	return types != nil &&
		types.Type(coltype.In, 0) == coltype.Lon &&
		types.Type(coltype.In, 1) == coltype.Lat
}
