package geotable

import (
	"fmt"
	"io"
	"os"

	"github.com/beetlebugorg/geotable/internal/ogr"
	"github.com/beetlebugorg/geotable/internal/parser"
)

// ReadTable reads one table from r.
//
// Segments are finalized as the table completes: empty segments are
// dropped (unless KeepEmpty), open polygon rings are closed (with
// ClosePolygons and polygon metadata), and extents and pole flags are
// computed. A source without data records yields ErrNoSegments unless
// AllowEmpty is set.
func ReadTable(r io.Reader, opts ReadOptions) (*Table, error) {
	cfg, err := opts.config()
	if err != nil {
		return nil, err
	}
	rd, err := parser.NewReader(r, cfg)
	if err != nil {
		return nil, err
	}

	b := &tableBuilder{t: NewTable(0, false)}
	b.t.Name = opts.Name
	if err := parser.ReadAll(rd, b.add); err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", opts.Name, err)
	}
	t := b.t
	t.Types = rd.Types()
	if h := rd.Metadata(); h != nil {
		t.Metadata = h.Clone()
	}
	return finishTable(t, opts)
}

// ReadFile reads the table stored in path. Compressed files are
// recognized by their magic bytes.
func ReadFile(path string, opts ReadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	rc, err := Decompress(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	defer rc.Close()
	if opts.Name == "" {
		opts.Name = path
	}
	return ReadTable(rc, opts)
}

func finishTable(t *Table, opts ReadOptions) (*Table, error) {
	if !opts.KeepEmpty {
		t.RemoveEmptySegments()
	}
	if t.NumRecords() == 0 && !opts.AllowEmpty {
		return nil, fmt.Errorf("%s: %w", opts.Name, ErrNoSegments)
	}
	if opts.ClosePolygons && t.polygonal() {
		geographic := isGeographic(t.Types)
		for _, s := range t.Segments {
			s.Close(geographic)
		}
	}
	if opts.LonRange != LonRangeNone {
		t.LonRange = opts.LonRange
	}
	t.SetMinMax()
	return t, nil
}

// tableBuilder turns reader events into segments.
type tableBuilder struct {
	t *Table
}

func (b *tableBuilder) add(ev parser.Event) error {
	switch ev.Status {
	case parser.StatusTableHeader:
		b.t.Headers = append(b.t.Headers, ev.Header)
		return nil
	case parser.StatusSegmentHeader:
		b.t.AddSegment(ev.Header, ev.HasHeader)
		return nil
	case parser.StatusGap:
		b.t.AddSegment("", false)
	}
	if !ev.Status.HasRecord() {
		return nil
	}

	rec := ev.Record
	if n := len(rec.Values); n > b.t.NumColumns() {
		b.t.AdjustColumns(n)
	}
	if rec.Text != "" && !b.t.HasText() {
		b.t.EnableText()
	}
	if len(b.t.Segments) == 0 {
		b.t.AddSegment("", false)
	}
	seg := b.t.Segments[len(b.t.Segments)-1]
	if ev.Feature != nil {
		seg.Attributes = cloneValues(ev.Feature.Values)
		seg.Hole = ev.Feature.PolMode == ogr.Hole
	}
	seg.AppendRow(rec.Values, rec.Text)
	return nil
}
