package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/beetlebugorg/geotable/internal/codec"
)

// BinaryReader reads fixed-size binary records described by a codec
// format. A record whose leading window of columns is all NaN marks a
// segment boundary.
type BinaryReader struct {
	*pipeline
	rd     *bufio.Reader
	format *codec.Format
	rec    []byte
	phys   []float64
	recNo  int
	done   bool
	window int
}

// NewBinaryReader parses cfg.Binary and wraps r.
func NewBinaryReader(r io.Reader, cfg Config) (*BinaryReader, error) {
	f, err := codec.ParseFormat(cfg.Binary, cfg.Swap)
	if err != nil {
		return nil, err
	}
	p := newPipeline(cfg, "binary")
	b := &BinaryReader{
		pipeline: p,
		rd:       bufio.NewReaderSize(r, 64*1024),
		format:   f,
		rec:      make([]byte, f.Size()),
		phys:     make([]float64, f.Len()),
		window:   f.Len(),
	}
	if cfg.SegmentWindow > 0 && cfg.SegmentWindow < f.Len() {
		b.window = cfg.SegmentWindow
	}
	if cfg.HeaderBytes > 0 {
		if _, err := b.rd.Discard(cfg.HeaderBytes); err != nil {
			return nil, fmt.Errorf("failed to skip %d header bytes: %w", cfg.HeaderBytes, err)
		}
	}
	return b, nil
}

// Kind is always numeric for binary tables.
func (b *BinaryReader) Kind() Kind { return KindNumeric }

// Width returns the logical number of columns.
func (b *BinaryReader) Width() int { return b.logicalWidth(b.format.Len()) }

// Format returns the record layout.
func (b *BinaryReader) Format() *codec.Format { return b.format }

// Next returns the next event of the table.
func (b *BinaryReader) Next() (Event, error) {
	for !b.done {
		_, err := io.ReadFull(b.rd, b.rec)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			b.done = true
			b.summarize()
			continue
		case errors.Is(err, io.ErrUnexpectedEOF):
			b.once.Report("partial binary record at end of input",
				"record", b.recNo+1, "size", b.format.Size())
			b.done = true
			b.summarize()
			continue
		default:
			return Event{}, &ErrRead{Table: b.cfg.Name, Line: b.recNo + 1, Err: err}
		}
		b.recNo++
		b.pos = b.recNo

		b.format.Decode(b.rec, b.phys)
		if codec.AllNaN(b.phys[:b.window]) {
			return b.startSegment("", false), nil
		}
		if !b.rowSelected() {
			b.stats.Filtered++
			continue
		}
		if k := b.firstBadColumn(); k >= 0 {
			b.reportBad("record", b.recNo, "column", k)
			continue
		}
		if ev, ok := b.complete(b.route(b.phys), "", StatusData); ok {
			return ev, nil
		}
	}
	return Event{Status: StatusEOF, Line: b.recNo}, nil
}

// firstBadColumn returns the first required column holding NaN, or -1.
// Binary values cannot fail to parse, so NaN stands in for a failure.
func (b *BinaryReader) firstBadColumn() int {
	if b.cfg.NaNRecords {
		return -1
	}
	for k, v := range b.phys {
		if math.IsNaN(v) && b.required(k) {
			return k
		}
	}
	return -1
}
