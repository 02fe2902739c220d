package parser

import (
	"io"

	"github.com/beetlebugorg/geotable/internal/coltype"
	"github.com/beetlebugorg/geotable/internal/ogr"
)

// Reader streams the records of one table.
//
// Next returns events in input order. I/O failures are returned as errors;
// malformed records never are: they are counted, reported once through
// the configured logger and skipped. After StatusEOF every further call
// returns StatusEOF again.
type Reader interface {
	Next() (Event, error)

	// Kind and Width describe the table once the first data record has
	// been read. Width counts logical numeric columns.
	Kind() Kind
	Width() int

	// Types returns the session's column types, including those
	// inferred from the first record.
	Types() *coltype.System

	// Metadata returns the embedded table metadata, or nil when the table
	// carries none.
	Metadata() *ogr.Header

	Stats() Stats
}

// NewReader returns an ASCII or binary reader depending on cfg.Binary.
func NewReader(r io.Reader, cfg Config) (Reader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Binary != "" {
		return NewBinaryReader(r, cfg)
	}
	return NewASCIIReader(r, cfg), nil
}

// ReadAll drains r, calling fn for every event except StatusEOF.
func ReadAll(r Reader, fn func(Event) error) error {
	for {
		ev, err := r.Next()
		if err != nil {
			return err
		}
		if ev.Status == StatusEOF {
			return nil
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
}
