package geotable

import (
	"math"
	"slices"
	"sync"

	"github.com/beetlebugorg/geotable/internal/coltype"
)

// Table is an ordered list of segments read from one source, with the
// source's header lines and, when present, its embedded metadata.
type Table struct {
	ID       int
	Name     string
	Headers  []string
	Segments []*Segment

	// Min and Max fold the extents of all segments.
	Min, Max []float64

	// Metadata is non-nil when the source carried embedded OGR-style
	// metadata.
	Metadata *Metadata

	// Types records the column types the table was read with.
	Types *coltype.System

	// LonRange breaks ties when longitude extents are computed.
	LonRange LonRange

	cols int
	text bool

	// index is built lazily by SegmentsInBounds and dropped by every
	// mutator. indexMu lets concurrent readers of a shared table query it.
	indexMu sync.Mutex
	index   *segmentIndex
}

// NewTable creates an empty table of cols columns, keeping trailing text
// when text is set.
func NewTable(cols int, text bool) *Table {
	t := &Table{
		Types:    coltype.NewSystem(),
		LonRange: LonRangeM180To180,
		cols:     cols,
		text:     text,
	}
	t.Min, t.Max = emptyExtent(cols)
	return t
}

func emptyExtent(n int) ([]float64, []float64) {
	lo := make([]float64, n)
	hi := make([]float64, n)
	for c := range lo {
		lo[c] = math.Inf(1)
		hi[c] = math.Inf(-1)
	}
	return lo, hi
}

// NumColumns returns the number of numeric columns.
func (t *Table) NumColumns() int { return t.cols }

// HasText reports whether records keep trailing text.
func (t *Table) HasText() bool { return t.text }

// NumSegments returns the number of segments.
func (t *Table) NumSegments() int { return len(t.Segments) }

// NumRecords returns the number of records over all segments.
func (t *Table) NumRecords() int {
	n := 0
	for _, s := range t.Segments {
		n += s.NumRows()
	}
	return n
}

// AddSegment starts a new segment and returns it.
func (t *Table) AddSegment(header string, hasHeader bool) *Segment {
	s := NewSegment(t.cols, 0, t.text)
	s.ID = len(t.Segments)
	s.Header = header
	s.HasHeader = hasHeader
	t.Segments = append(t.Segments, s)
	t.resetIndex()
	return s
}

// AppendRow adds a record to the last segment, starting one if the table
// has none.
func (t *Table) AppendRow(vals []float64, text string) {
	if len(t.Segments) == 0 {
		t.AddSegment("", false)
	}
	t.Segments[len(t.Segments)-1].AppendRow(vals, text)
	t.resetIndex()
}

// EnableText makes the table and its segments keep trailing text.
func (t *Table) EnableText() {
	t.text = true
	for _, s := range t.Segments {
		s.enableText()
	}
}

// AdjustColumns changes the number of columns of the table and every
// segment. Added columns hold zeros and an empty extent; dropped columns
// are released.
func (t *Table) AdjustColumns(n int) {
	if n < 0 {
		n = 0
	}
	for _, s := range t.Segments {
		s.adjustColumns(n)
	}
	if n <= t.cols {
		t.Min, t.Max = t.Min[:n], t.Max[:n]
	} else {
		lo, hi := emptyExtent(n - t.cols)
		t.Min = append(t.Min, lo...)
		t.Max = append(t.Max, hi...)
	}
	t.cols = n
	t.resetIndex()
}

// RemoveEmptySegments drops segments without records and renumbers the
// rest.
func (t *Table) RemoveEmptySegments() int {
	before := len(t.Segments)
	t.Segments = slices.DeleteFunc(t.Segments, func(s *Segment) bool { return s.NumRows() == 0 })
	for i, s := range t.Segments {
		s.ID = i
	}
	t.resetIndex()
	return before - len(t.Segments)
}

// polygonal reports whether the metadata declares polygon geometry.
func (t *Table) polygonal() bool {
	return t.Metadata != nil && t.Metadata.Geometry.IsPolygon()
}

// SetMinMax recomputes every segment's extents and folds them into the
// table's.
func (t *Table) SetMinMax() {
	t.resetIndex()
	t.Min, t.Max = emptyExtent(t.cols)
	polygon := t.polygonal()
	for _, s := range t.Segments {
		s.SetMinMax(t.Types, t.LonRange, polygon)
		foldExtent(t.Min, t.Max, s.Min, s.Max)
	}
}

func foldExtent(lo, hi, slo, shi []float64) {
	for c := range lo {
		if c < len(slo) && slo[c] < lo[c] {
			lo[c] = slo[c]
		}
		if c < len(shi) && shi[c] > hi[c] {
			hi[c] = shi[c]
		}
	}
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := &Table{
		ID:       t.ID,
		Name:     t.Name,
		LonRange: t.LonRange,
		cols:     t.cols,
		text:     t.text,
	}
	c.Headers = slices.Clone(t.Headers)
	c.Segments = make([]*Segment, len(t.Segments))
	for i, s := range t.Segments {
		c.Segments[i] = s.Clone()
	}
	c.Min = slices.Clone(t.Min)
	c.Max = slices.Clone(t.Max)
	if t.Metadata != nil {
		c.Metadata = t.Metadata.Clone()
	}
	if t.Types != nil {
		c.Types = t.Types.Clone()
	}
	return c
}

// Release frees every segment. The table is empty afterwards.
func (t *Table) Release() {
	for _, s := range t.Segments {
		s.Release()
	}
	t.Segments = nil
	t.Headers = nil
	t.Metadata = nil
	t.resetIndex()
}

// Dataset is an ordered collection of tables with a common column count.
type Dataset struct {
	Tables   []*Table
	Min, Max []float64

	cols int
}

// NewDataset groups tables. The dataset's column count is the widest
// table's; narrower tables are widened.
func NewDataset(tables ...*Table) *Dataset {
	d := &Dataset{}
	for _, t := range tables {
		d.cols = max(d.cols, t.NumColumns())
	}
	for _, t := range tables {
		d.Add(t)
	}
	return d
}

// Add appends a table, widening either side so the column counts agree.
func (d *Dataset) Add(t *Table) {
	t.ID = len(d.Tables)
	switch {
	case t.NumColumns() < d.cols:
		t.AdjustColumns(d.cols)
	case t.NumColumns() > d.cols:
		d.AdjustColumns(t.NumColumns())
	}
	d.Tables = append(d.Tables, t)
	d.SetMinMax()
}

// NumColumns returns the common column count.
func (d *Dataset) NumColumns() int { return d.cols }

// NumSegments returns the number of segments over all tables.
func (d *Dataset) NumSegments() int {
	n := 0
	for _, t := range d.Tables {
		n += t.NumSegments()
	}
	return n
}

// NumRecords returns the number of records over all tables.
func (d *Dataset) NumRecords() int {
	n := 0
	for _, t := range d.Tables {
		n += t.NumRecords()
	}
	return n
}

// AdjustColumns changes the column count of every table.
func (d *Dataset) AdjustColumns(n int) {
	for _, t := range d.Tables {
		t.AdjustColumns(n)
	}
	d.cols = n
	d.SetMinMax()
}

// SetMinMax folds the table extents. Table extents are taken as they
// are; call Table.SetMinMax first after modifying records.
func (d *Dataset) SetMinMax() {
	d.Min, d.Max = emptyExtent(d.cols)
	for _, t := range d.Tables {
		foldExtent(d.Min, d.Max, t.Min, t.Max)
	}
}

// Release frees every table.
func (d *Dataset) Release() {
	for _, t := range d.Tables {
		t.Release()
	}
	d.Tables = nil
}
