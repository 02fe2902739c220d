package geotable

import (
	"fmt"
	"io"
	"os"

	"github.com/beetlebugorg/geotable/internal/coltype"
	"github.com/beetlebugorg/geotable/internal/ogr"
	"github.com/beetlebugorg/geotable/internal/parser"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// WriteTable writes t to w in the format ReadTable consumes.
//
// Output column types default to the types the table was read with, so
// longitudes are wrapped into opts.LonRange and absolute times are
// written as ISO timestamps. Tables with more than one segment, or with
// segment header text, get a header line per segment.
func WriteTable(w io.Writer, t *Table, opts WriteOptions) error {
	return writeTables(w, []*Table{t}, opts)
}

// WriteDataset writes every table of d to w as one stream.
func WriteDataset(w io.Writer, d *Dataset, opts WriteOptions) error {
	return writeTables(w, d.Tables, opts)
}

// WriteFile writes t to path, creating or truncating it.
func WriteFile(path string, t *Table, opts WriteOptions) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create table file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close table file: %w", cerr)
		}
	}()
	if opts.Name == "" {
		opts.Name = path
	}
	return WriteTable(f, t, opts)
}

// compressor returns w wrapped in the requested compression and a
// function that finishes the stream.
func compressor(w io.Writer, c Compression) (io.Writer, func() error, error) {
	switch c {
	case CompressionNone:
		return w, func() error { return nil }, nil
	case CompressionGzip:
		zw := gzip.NewWriter(w)
		return zw, zw.Close, nil
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		return zw, zw.Close, nil
	case CompressionLZ4:
		zw := lz4.NewWriter(w)
		return zw, zw.Close, nil
	default:
		return nil, nil, &ErrOption{Option: "compression", Value: fmt.Sprint(int(c)), Err: fmt.Errorf("unknown compression")}
	}
}

func writeTables(w io.Writer, tables []*Table, opts WriteOptions) (err error) {
	cfg, err := opts.config()
	if err != nil {
		return err
	}
	out, finish, err := compressor(w, opts.Compression)
	if err != nil {
		return err
	}
	defer func() {
		if ferr := finish(); err == nil && ferr != nil {
			err = fmt.Errorf("failed to finish %s stream: %w", opts.Compression, ferr)
		}
	}()

	for _, t := range tables {
		tcfg := cfg
		if opts.Columns == "" && t.Types != nil {
			tcfg.Types = cfg.Types.Clone()
			for c := range t.NumColumns() {
				if typ := t.Types.Type(coltype.In, c); typ != coltype.Unknown {
					tcfg.Types.Set(coltype.Out, c, typ)
				}
			}
		}
		tw, err := parser.NewWriter(out, tcfg)
		if err != nil {
			return err
		}
		if err := writeTable(tw, t, opts); err != nil {
			return fmt.Errorf("failed to write table %s: %w", t.Name, err)
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("failed to write table %s: %w", t.Name, err)
		}
	}
	return nil
}

func writeTable(tw parser.Writer, t *Table, opts WriteOptions) error {
	for _, h := range t.Headers {
		if err := tw.WriteTableHeader(h); err != nil {
			return err
		}
	}
	meta := opts.Metadata && t.Metadata != nil
	if meta {
		if err := tw.WriteMetadata(t.Metadata); err != nil {
			return err
		}
	}

	headers := opts.SegmentHeaders || meta || len(t.Segments) > 1
	row := make([]float64, 0, t.NumColumns())
	for _, s := range t.Segments {
		if headers || s.HasHeader {
			if err := tw.WriteSegmentHeader(s.Header); err != nil {
				return err
			}
		}
		if meta {
			f := ogr.Feature{Values: s.Attributes}
			if s.Hole {
				f.PolMode = ogr.Hole
			}
			if err := tw.WriteFeature(t.Metadata, f); err != nil {
				return err
			}
		}
		for i := range s.NumRows() {
			row = s.Row(i, row)
			text := ""
			if s.Text != nil {
				text = s.Text[i]
			}
			if err := tw.WriteRecord(row, text); err != nil {
				return err
			}
		}
	}
	return nil
}
