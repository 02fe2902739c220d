package parser

import (
	"bufio"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/beetlebugorg/geotable/internal/codec"
	"github.com/beetlebugorg/geotable/internal/coltype"
	"github.com/beetlebugorg/geotable/internal/geo"
	"github.com/beetlebugorg/geotable/internal/logging"
	"github.com/beetlebugorg/geotable/internal/ogr"
	"github.com/beetlebugorg/geotable/internal/scan"
)

// NaNSkip controls which records a writer suppresses for holding NaN.
type NaNSkip int

const (
	SkipNone NaNSkip = iota
	SkipAny          // drop a record if any considered column is NaN
	SkipAll          // drop a record only if every considered column is NaN
)

// WriteConfig holds the per-session settings of a table writer.
type WriteConfig struct {
	Separator     string
	SegmentMarker byte
	FloatFormat   byte // strconv.FormatFloat verb
	Precision     int  // -1 is the shortest exact representation

	// Types supplies output column types and an optional output
	// selection (coltype.Out).
	Types    *coltype.System
	LonRange geo.Range
	SwapXY   bool

	SkipNaN     NaNSkip
	SkipColumns []int // columns considered by SkipNaN; nil means all

	// Binary selects binary output when non-empty.
	Binary string
	Swap   bool

	Logger *logging.Logger
	Name   string
}

// DefaultWriteConfig returns tab-separated ASCII output.
func DefaultWriteConfig() WriteConfig {
	return WriteConfig{
		Separator:     "\t",
		SegmentMarker: '>',
		FloatFormat:   'g',
		Precision:     -1,
	}
}

// Writer emits tables in the format a Reader consumes.
type Writer interface {
	WriteTableHeader(text string) error
	WriteSegmentHeader(text string) error
	WriteRecord(vals []float64, text string) error
	WriteMetadata(h *ogr.Header) error
	WriteFeature(h *ogr.Header, f ogr.Feature) error
	Flush() error
}

// NewWriter returns an ASCII or binary writer depending on cfg.Binary.
func NewWriter(w io.Writer, cfg WriteConfig) (Writer, error) {
	if cfg.Binary != "" {
		return NewBinaryWriter(w, cfg)
	}
	return NewASCIIWriter(w, cfg), nil
}

// output holds the record preparation shared by both writers.
type output struct {
	cfg     WriteConfig
	types   *coltype.System
	sel     *coltype.Selection
	buf     []float64
	log     *logging.Logger
	skipped int
}

func newOutput(cfg WriteConfig, component string) output {
	types := cfg.Types
	if types == nil {
		types = coltype.NewSystem()
	}
	return output{
		cfg:   cfg,
		types: types,
		sel:   types.Selection(coltype.Out),
		log:   logging.OrNoop(cfg.Logger).WithTable(cfg.Name).WithComponent(component),
	}
}

// prepare routes vals through the output selection and applies the
// coordinate swap. It returns nil when the record is to be skipped.
func (o *output) prepare(vals []float64) []float64 {
	n := len(vals)
	if o.sel != nil {
		n = o.sel.Len()
	}
	o.buf = slices.Grow(o.buf[:0], n)[:n]
	if o.sel != nil {
		o.sel.Route(vals, o.buf)
	} else {
		copy(o.buf, vals)
	}
	if o.cfg.SwapXY && n >= 2 {
		o.buf[0], o.buf[1] = o.buf[1], o.buf[0]
	}
	if o.skip(o.buf) {
		o.skipped++
		return nil
	}
	return o.buf
}

func (o *output) skip(vals []float64) bool {
	if o.cfg.SkipNaN == SkipNone {
		return false
	}
	nan, considered := 0, 0
	check := func(c int) {
		if c < len(vals) {
			considered++
			if math.IsNaN(vals[c]) {
				nan++
			}
		}
	}
	if o.cfg.SkipColumns == nil {
		for c := range vals {
			check(c)
		}
	} else {
		for _, c := range o.cfg.SkipColumns {
			check(c)
		}
	}
	if o.cfg.SkipNaN == SkipAny {
		return nan > 0
	}
	return considered > 0 && nan == considered
}

func (o *output) columnType(c int) coltype.Type {
	if o.sel != nil {
		if t := o.sel.Column(c).Type; t != coltype.Unknown {
			return t
		}
	}
	return o.types.Type(coltype.Out, c)
}

// ASCIIWriter writes delimited text tables.
type ASCIIWriter struct {
	output
	w    *bufio.Writer
	line []byte
}

// NewASCIIWriter wraps w.
func NewASCIIWriter(w io.Writer, cfg WriteConfig) *ASCIIWriter {
	if cfg.Separator == "" {
		cfg.Separator = "\t"
	}
	if cfg.SegmentMarker == 0 {
		cfg.SegmentMarker = '>'
	}
	if cfg.FloatFormat == 0 {
		cfg.FloatFormat = 'g'
	}
	return &ASCIIWriter{output: newOutput(cfg, "ascii-writer"), w: bufio.NewWriter(w)}
}

// WriteTableHeader writes a header line, adding the "# " prefix when the
// text lacks one.
func (a *ASCIIWriter) WriteTableHeader(text string) error {
	if !strings.HasPrefix(text, "#") {
		text = "# " + text
	}
	_, err := a.w.WriteString(text + "\n")
	return err
}

// WriteSegmentHeader writes a segment marker followed by text.
func (a *ASCIIWriter) WriteSegmentHeader(text string) error {
	a.line = append(a.line[:0], a.cfg.SegmentMarker)
	if text != "" {
		a.line = append(a.line, ' ')
		a.line = append(a.line, text...)
	}
	a.line = append(a.line, '\n')
	_, err := a.w.Write(a.line)
	return err
}

// WriteRecord writes one record followed by its trailing text.
func (a *ASCIIWriter) WriteRecord(vals []float64, text string) error {
	out := a.prepare(vals)
	if out == nil {
		return nil
	}
	a.line = a.line[:0]
	for c, v := range out {
		if c > 0 {
			a.line = append(a.line, a.cfg.Separator...)
		}
		a.line = a.appendValue(a.line, c, v)
	}
	if text != "" {
		if len(out) > 0 {
			a.line = append(a.line, a.cfg.Separator...)
		}
		a.line = append(a.line, text...)
	}
	a.line = append(a.line, '\n')
	_, err := a.w.Write(a.line)
	return err
}

func (a *ASCIIWriter) appendValue(dst []byte, c int, v float64) []byte {
	if math.IsNaN(v) {
		return append(dst, "NaN"...)
	}
	switch a.columnType(c) {
	case coltype.AbsTime:
		return append(dst, scan.FormatAbsTime(v)...)
	case coltype.Lon:
		v = geo.AdjustLon(a.cfg.LonRange, v)
	}
	return strconv.AppendFloat(dst, v, a.cfg.FloatFormat, a.cfg.Precision, 64)
}

// WriteMetadata writes the embedded metadata header block.
func (a *ASCIIWriter) WriteMetadata(h *ogr.Header) error {
	return ogr.WriteHeader(a.w, h)
}

// WriteFeature writes the attribute line of a feature.
func (a *ASCIIWriter) WriteFeature(h *ogr.Header, f ogr.Feature) error {
	return ogr.WriteFeature(a.w, h, f)
}

// Flush writes buffered output.
func (a *ASCIIWriter) Flush() error {
	if a.skipped > 0 {
		a.log.Debug("records skipped for NaN", "count", a.skipped)
		a.skipped = 0
	}
	return a.w.Flush()
}

// BinaryWriter writes fixed-size binary records. Segment headers become
// all-NaN records; table headers and metadata have no binary form and
// are dropped.
type BinaryWriter struct {
	output
	w      *bufio.Writer
	format *codec.Format
	rec    []byte
	nan    []float64
}

// NewBinaryWriter parses cfg.Binary and wraps w.
func NewBinaryWriter(w io.Writer, cfg WriteConfig) (*BinaryWriter, error) {
	f, err := codec.ParseFormat(cfg.Binary, cfg.Swap)
	if err != nil {
		return nil, err
	}
	nan := make([]float64, f.Len())
	for i := range nan {
		nan[i] = math.NaN()
	}
	return &BinaryWriter{
		output: newOutput(cfg, "binary-writer"),
		w:      bufio.NewWriter(w),
		format: f,
		rec:    make([]byte, f.Size()),
		nan:    nan,
	}, nil
}

func (b *BinaryWriter) WriteTableHeader(string) error { return nil }

func (b *BinaryWriter) WriteMetadata(*ogr.Header) error { return nil }

func (b *BinaryWriter) WriteFeature(*ogr.Header, ogr.Feature) error { return nil }

// WriteSegmentHeader writes an all-NaN record.
func (b *BinaryWriter) WriteSegmentHeader(string) error {
	b.format.Encode(b.nan, b.rec)
	_, err := b.w.Write(b.rec)
	return err
}

// WriteRecord encodes vals; trailing text is dropped.
func (b *BinaryWriter) WriteRecord(vals []float64, _ string) error {
	out := b.prepare(vals)
	if out == nil {
		return nil
	}
	b.format.Encode(out, b.rec)
	_, err := b.w.Write(b.rec)
	return err
}

// Flush writes buffered output.
func (b *BinaryWriter) Flush() error {
	return b.w.Flush()
}
