package parser

import (
	"github.com/beetlebugorg/geotable/internal/coltype"
	"github.com/beetlebugorg/geotable/internal/geo"
	"github.com/beetlebugorg/geotable/internal/logging"
	"github.com/beetlebugorg/geotable/internal/ogr"
)

// Region is the longitude window used to unwrap periodic coordinates
// while reading.
type Region struct {
	West, East float64
}

// RowRange selects data records by their 0-based ordinal in the table.
// Last < 0 means "to the end".
type RowRange struct {
	First, Last int
}

// Contains reports whether row n falls inside the range.
func (r RowRange) Contains(n int) bool {
	return n >= r.First && (r.Last < 0 || n <= r.Last)
}

// ValueRange keeps records whose logical column lies in [Min, Max], or
// outside it when Invert is set. NaN never matches.
type ValueRange struct {
	Column   int
	Min, Max float64
	Invert   bool
}

// Config holds the per-session settings of a table reader.
type Config struct {
	Separators     string // bytes that split ASCII fields
	SegmentMarker  byte   // first byte of a segment header line
	HeaderMarker   byte   // first byte of a table header line
	HeaderLines    int    // leading lines that are headers regardless of content
	HeaderBytes    int    // leading bytes skipped in binary input
	BlankIsSegment bool   // blank lines break segments instead of being skipped
	NaNIsSegment   bool   // all-NaN ASCII records break segments
	VariableWidth  bool   // allow the numeric width to change per record

	// Binary selects binary input when non-empty; see codec.ParseFormat.
	Binary string
	Swap   bool
	// SegmentWindow is the number of leading binary columns that must all
	// be NaN for a record to act as a segment header. 0 means every column.
	SegmentWindow int

	// Types carries the column types, locks and selection. Readers clone
	// it so inferred types never leak between sessions.
	Types *coltype.System

	MissingValue   *float64 // value that stands for "no data"
	Required       []int    // logical columns that must parse for the record to count
	NaNRecords     bool     // keep records whose required columns failed to parse
	SkipDuplicates bool     // drop records repeating the previous x,y
	SwapXY         bool

	Gaps        GapPolicy
	Rows        []RowRange
	InvertRows  bool
	ValueRanges []ValueRange

	// TrailingWord keeps only the given 0-based word of the trailing
	// text; -1 keeps all of it.
	TrailingWord int

	LonRange geo.Range // applied to longitude columns when Region is nil
	Region   *Region

	Associations []ogr.Association
	Logger       *logging.Logger
	Name         string // table name used in diagnostics
}

// DefaultConfig returns the settings for plain whitespace or comma
// separated ASCII tables.
func DefaultConfig() Config {
	return Config{
		Separators:    " \t,",
		SegmentMarker: '>',
		HeaderMarker:  '#',
		Required:      []int{0, 1},
		TrailingWord:  -1,
		LonRange:      geo.RangeNone,
	}
}

func (c *Config) types() *coltype.System {
	if c.Types == nil {
		return coltype.NewSystem()
	}
	return c.Types.Clone()
}

func (c *Config) logger() *logging.Logger {
	return logging.OrNoop(c.Logger).WithTable(c.Name)
}
