package geotable

import (
	"log/slog"

	"github.com/beetlebugorg/geotable/internal/coltype"
	"github.com/beetlebugorg/geotable/internal/logging"
	"github.com/beetlebugorg/geotable/internal/ogr"
	"github.com/beetlebugorg/geotable/internal/parser"
)

// ReadOptions configures how a table is read.
type ReadOptions struct {
	Separators     string
	SegmentMarker  byte
	HeaderMarker   byte
	HeaderLines    int
	BlankIsSegment bool
	NaNIsSegment   bool
	VariableWidth  bool

	// Binary selects binary input, e.g. "3d" or "2f,1i+B"; HeaderBytes
	// are skipped first.
	Binary      string
	Swap        bool
	HeaderBytes int

	// Columns declares input column types, e.g. "g", "0x,1y,2T".
	Columns string
	// Select picks and reorders input columns, e.g. "1,0,2l".
	Select string

	MissingValue   *float64
	Required       []int
	NaNRecords     bool
	SkipDuplicates bool
	SwapXY         bool

	// Gaps are gap rules such as "d50" or "2z+10"; prefix the first with
	// "a" to require all of them.
	Gaps        []string
	Rows        []RowRange
	InvertRows  bool
	ValueRanges []ValueRange

	TrailingWord int
	LonRange     LonRange
	Region       *Region

	// Attributes maps embedded feature attributes to columns, e.g.
	// "2=depth,T=name".
	Attributes string

	ClosePolygons bool // append the first vertex to open polygon rings
	KeepEmpty     bool // keep segments without records
	AllowEmpty    bool // return an empty table instead of ErrNoSegments

	Name   string
	Logger *slog.Logger
}

// DefaultReadOptions returns options for whitespace or comma separated
// ASCII tables.
func DefaultReadOptions() ReadOptions {
	cfg := parser.DefaultConfig()
	return ReadOptions{
		Separators:    cfg.Separators,
		SegmentMarker: cfg.SegmentMarker,
		HeaderMarker:  cfg.HeaderMarker,
		Required:      cfg.Required,
		TrailingWord:  cfg.TrailingWord,
		LonRange:      LonRangeNone,
		ClosePolygons: true,
	}
}

func wrapLogger(l *slog.Logger) *logging.Logger {
	if l == nil {
		return nil
	}
	return &logging.Logger{Logger: l}
}

// config converts the options into a reader session configuration.
func (o ReadOptions) config() (parser.Config, error) {
	cfg := parser.DefaultConfig()
	if o.Separators != "" {
		cfg.Separators = o.Separators
	}
	if o.SegmentMarker != 0 {
		cfg.SegmentMarker = o.SegmentMarker
	}
	if o.HeaderMarker != 0 {
		cfg.HeaderMarker = o.HeaderMarker
	}
	cfg.HeaderLines = o.HeaderLines
	cfg.HeaderBytes = o.HeaderBytes
	cfg.BlankIsSegment = o.BlankIsSegment
	cfg.NaNIsSegment = o.NaNIsSegment
	cfg.VariableWidth = o.VariableWidth
	cfg.Binary = o.Binary
	cfg.Swap = o.Swap
	cfg.MissingValue = o.MissingValue
	if o.Required != nil {
		cfg.Required = o.Required
	}
	cfg.NaNRecords = o.NaNRecords
	cfg.SkipDuplicates = o.SkipDuplicates
	cfg.SwapXY = o.SwapXY
	cfg.Rows = o.Rows
	cfg.InvertRows = o.InvertRows
	cfg.ValueRanges = o.ValueRanges
	cfg.TrailingWord = o.TrailingWord
	cfg.LonRange = o.LonRange
	cfg.Region = o.Region
	cfg.Name = o.Name
	cfg.Logger = wrapLogger(o.Logger)

	types, err := columnTypes(coltype.In, o.Columns, o.Select)
	if err != nil {
		return cfg, err
	}
	cfg.Types = types

	if len(o.Gaps) > 0 {
		g, err := parser.ParseGapPolicy(o.Gaps...)
		if err != nil {
			return cfg, &ErrOption{Option: "gap rule", Value: o.Gaps[0], Err: err}
		}
		cfg.Gaps = g
	}
	if o.Attributes != "" {
		assoc, err := ogr.ParseAssociations(o.Attributes)
		if err != nil {
			return cfg, &ErrOption{Option: "attributes", Value: o.Attributes, Err: err}
		}
		cfg.Associations = assoc
	}
	return cfg, nil
}

func columnTypes(dir coltype.Direction, columns, selection string) (*coltype.System, error) {
	types := coltype.NewSystem()
	if columns != "" {
		if err := types.ParseFlags(dir, columns); err != nil {
			return nil, &ErrOption{Option: "column types", Value: columns, Err: err}
		}
	}
	if selection != "" {
		sel, err := coltype.ParseSelection(selection)
		if err != nil {
			return nil, &ErrOption{Option: "column selection", Value: selection, Err: err}
		}
		types.Select(dir, sel)
	}
	return types, nil
}

// Compression selects the stream compression of written tables.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// WriteOptions configures how a table is written.
type WriteOptions struct {
	Separator     string
	SegmentMarker byte
	FloatFormat   byte // strconv verb: 'g', 'f', 'e'
	Precision     int  // -1 is the shortest exact representation

	// Columns declares output column types, e.g. "0x,1y,2T"; Select
	// picks and reorders output columns.
	Columns  string
	Select   string
	LonRange LonRange
	SwapXY   bool

	SkipNaN     NaNSkip
	SkipColumns []int

	Binary string
	Swap   bool

	// Metadata writes the embedded metadata block and per-segment
	// feature lines of tables that carry them.
	Metadata bool
	// SegmentHeaders forces a header line for every segment; otherwise
	// single-segment tables without header text are written bare.
	SegmentHeaders bool

	Compression Compression

	Name   string
	Logger *slog.Logger
}

// DefaultWriteOptions returns tab-separated ASCII output.
func DefaultWriteOptions() WriteOptions {
	cfg := parser.DefaultWriteConfig()
	return WriteOptions{
		Separator:     cfg.Separator,
		SegmentMarker: cfg.SegmentMarker,
		FloatFormat:   cfg.FloatFormat,
		Precision:     cfg.Precision,
		Metadata:      true,
	}
}

func (o WriteOptions) config() (parser.WriteConfig, error) {
	cfg := parser.DefaultWriteConfig()
	if o.Separator != "" {
		cfg.Separator = o.Separator
	}
	if o.SegmentMarker != 0 {
		cfg.SegmentMarker = o.SegmentMarker
	}
	if o.FloatFormat != 0 {
		cfg.FloatFormat = o.FloatFormat
	}
	cfg.Precision = o.Precision
	cfg.LonRange = o.LonRange
	cfg.SwapXY = o.SwapXY
	cfg.SkipNaN = o.SkipNaN
	cfg.SkipColumns = o.SkipColumns
	cfg.Binary = o.Binary
	cfg.Swap = o.Swap
	cfg.Name = o.Name
	cfg.Logger = wrapLogger(o.Logger)

	types, err := columnTypes(coltype.Out, o.Columns, o.Select)
	if err != nil {
		return cfg, err
	}
	cfg.Types = types
	return cfg, nil
}
