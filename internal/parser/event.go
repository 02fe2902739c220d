package parser

import "github.com/beetlebugorg/geotable/internal/ogr"

// Status classifies what a call to Reader.Next produced.
type Status int

const (
	StatusData          Status = iota // a data record
	StatusSegmentHeader               // a segment boundary, with or without header text
	StatusTableHeader                 // a table header line
	StatusGap                         // a data record that starts a new segment
	StatusMismatch                    // a data record whose column count differs from the locked width
	StatusEOF                         // end of input
)

func (s Status) String() string {
	switch s {
	case StatusData:
		return "data"
	case StatusSegmentHeader:
		return "segment header"
	case StatusTableHeader:
		return "table header"
	case StatusGap:
		return "gap"
	case StatusMismatch:
		return "mismatch"
	case StatusEOF:
		return "EOF"
	default:
		return "unknown"
	}
}

// HasRecord reports whether the event carries a data record.
func (s Status) HasRecord() bool {
	return s == StatusData || s == StatusGap || s == StatusMismatch
}

// Kind describes the shape of the records in a table, fixed by the first
// data record.
type Kind int

const (
	KindUnknown Kind = iota
	KindNumeric      // numbers only
	KindText         // no leading numbers
	KindMixed        // leading numbers then trailing text
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	case KindMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// Record is one data row. Values is owned by the reader and stays valid
// until the following call to Next; copy it to keep it.
type Record struct {
	Values []float64
	Text   string
}

// Event is one step of a table read.
type Event struct {
	Status Status
	Record Record

	// Header is the text of a table header line (verbatim) or of a
	// segment header (marker stripped, trimmed).
	Header    string
	HasHeader bool

	// Feature is set on the first record of each segment when the table
	// carries embedded feature metadata.
	Feature *ogr.Feature

	Line int // 1-based line (ASCII) or record (binary) number
}

// Stats counts what a reader did with its input.
type Stats struct {
	Records    int // records returned
	Bad        int // records rejected because a required column failed to parse
	Filtered   int // records dropped by row or value selection
	Duplicates int // records dropped as repeats of the previous x,y
	Mismatches int // records whose column count differed from the locked width
	Segments   int // segment boundaries seen
}
