// Package geotable reads, holds and writes multi-segment geoscience tables.
//
// A Table is an ordered list of Segments read from one source; a Segment
// is a run of records stored column by column, with an optional header
// line, per-column extents and, for tables carrying embedded OGR-style
// metadata, the attribute values of its feature. A Dataset groups tables.
//
// Reading a table:
//
//	t, err := geotable.ReadFile("track.txt", geotable.DefaultReadOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, seg := range t.Segments {
//	    fmt.Println(seg.Header, seg.NumRows(), seg.Min, seg.Max)
//	}
//
// Tables may be plain or gzip/zstd/lz4 compressed files, or objects in
// S3-compatible storage (see ObjectSource). LoadDataset reads many of
// them in parallel.
package geotable

import (
	"github.com/beetlebugorg/geotable/internal/geo"
	"github.com/beetlebugorg/geotable/internal/ogr"
	"github.com/beetlebugorg/geotable/internal/parser"
)

// LonRange selects how longitudes are normalized.
type LonRange = geo.Range

const (
	LonRangeNone           = geo.RangeNone
	LonRange0To360         = geo.Range0To360
	LonRange0ToBelow360    = geo.Range0ToBelow360
	LonRangeM360To0        = geo.RangeM360To0
	LonRangeAboveM360To0   = geo.RangeAboveM360To0
	LonRangeM180To180      = geo.RangeM180To180
	LonRangeM180ToBelow180 = geo.RangeM180ToBelow180
	LonRangeM180ToBelow270 = geo.RangeM180ToBelow270
)

// Pole reports which pole, if any, a polygon segment encloses.
type Pole = geo.Pole

const (
	SouthPole = geo.South
	NotPolar  = geo.NotPolar
	NorthPole = geo.North
)

// Region, RowRange and ValueRange configure reading; see ReadOptions.
type (
	Region     = parser.Region
	RowRange   = parser.RowRange
	ValueRange = parser.ValueRange
	NaNSkip    = parser.NaNSkip
)

const (
	SkipNone = parser.SkipNone
	SkipAny  = parser.SkipAny
	SkipAll  = parser.SkipAll
)

// Metadata is the table-level declaration of an OGR-style table:
// geometry, extent, projections and attribute fields.
type Metadata = ogr.Header

// Value is one attribute value of a feature.
type Value = ogr.Value

// Geometry kinds declared by embedded metadata.
type Geometry = ogr.Geometry

const (
	GeometryNone    = ogr.GeometryNone
	Point           = ogr.Point
	LineString      = ogr.LineString
	Polygon         = ogr.Polygon
	MultiPoint      = ogr.MultiPoint
	MultiLineString = ogr.MultiLineString
	MultiPolygon    = ogr.MultiPolygon
)
