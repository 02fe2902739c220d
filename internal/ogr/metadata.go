// Package ogr parses and writes the GMT/OGR embedded-metadata dialect:
// "# @..." comment tags that declare a geometry kind, spatial reference,
// extent and typed attribute fields for a table, and per-feature
// attribute values for each segment.
package ogr

import (
	"fmt"
	"math"
	"strings"

	"github.com/beetlebugorg/geotable/internal/scan"
)

// Geometry is the declared vector geometry of a table.
type Geometry int

const (
	GeometryNone Geometry = iota
	Point
	LineString
	Polygon
	MultiPoint
	MultiLineString
	MultiPolygon
)

func (g Geometry) String() string {
	switch g {
	case Point:
		return "POINT"
	case LineString:
		return "LINESTRING"
	case Polygon:
		return "POLYGON"
	case MultiPoint:
		return "MULTIPOINT"
	case MultiLineString:
		return "MULTILINESTRING"
	case MultiPolygon:
		return "MULTIPOLYGON"
	default:
		return "NONE"
	}
}

// IsPolygon reports whether g is a polygon or multi-polygon.
func (g Geometry) IsPolygon() bool {
	return g == Polygon || g == MultiPolygon
}

// IsMulti reports whether g is one of the multi-part variants.
func (g Geometry) IsMulti() bool {
	return g >= MultiPoint
}

// parseGeometry matches the start of an @G payload.
func parseGeometry(s string) (Geometry, bool) {
	multi := strings.HasPrefix(s, "MULTI")
	s = strings.TrimPrefix(s, "MULTI")
	var g Geometry
	switch {
	case strings.HasPrefix(s, "POINT"):
		g = Point
	case strings.HasPrefix(s, "LINESTRING"):
		g = LineString
	case strings.HasPrefix(s, "POLYGON"):
		g = Polygon
	default:
		return GeometryNone, false
	}
	if multi {
		g += MultiPoint - Point
	}
	return g, true
}

// FieldType is the declared type of an attribute field.
type FieldType int

const (
	TypeUnknown FieldType = iota
	Double
	Float
	Integer
	Char
	String
	DateTime
	Logical
)

var fieldTypeNames = [...]string{
	TypeUnknown: "unknown",
	Double:      "double",
	Float:       "float",
	Integer:     "integer",
	Char:        "char",
	String:      "string",
	DateTime:    "datetime",
	Logical:     "logical",
}

func (t FieldType) String() string {
	if t >= 0 && int(t) < len(fieldTypeNames) {
		return fieldTypeNames[t]
	}
	return fmt.Sprintf("FieldType(%d)", int(t))
}

// IsNumeric reports whether values of type t convert with a plain
// number scan.
func (t FieldType) IsNumeric() bool {
	switch t {
	case Double, Float, Integer, Char, Logical:
		return true
	}
	return false
}

// ParseFieldType accepts the all-lower or all-upper type names.
func ParseFieldType(s string) FieldType {
	for t, name := range fieldTypeNames {
		if t == int(TypeUnknown) {
			continue
		}
		if s == name || s == strings.ToUpper(name) {
			return FieldType(t)
		}
	}
	return TypeUnknown
}

// Projection flavors of @J tags.
const (
	ProjEPSG = iota
	ProjGMT
	ProjProj4
	ProjWKT
)

const projFlavors = "egpw"

// Header is the table-level metadata block.
type Header struct {
	Version  string
	Geometry Geometry
	Region   string
	Proj     [4]string
	Names    []string
	Types    []FieldType
}

// NumFields returns the declared attribute field count.
func (h *Header) NumFields() int {
	return max(len(h.Names), len(h.Types))
}

// Index returns the position of the field called name, or -1.
func (h *Header) Index(name string) int {
	for i, n := range h.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of h.
func (h *Header) Clone() *Header {
	if h == nil {
		return nil
	}
	c := *h
	c.Names = append([]string(nil), h.Names...)
	c.Types = append([]FieldType(nil), h.Types...)
	return &c
}

// normalize pads names and types to the same length.
func (h *Header) normalize() {
	n := h.NumFields()
	for len(h.Names) < n {
		h.Names = append(h.Names, "")
	}
	for len(h.Types) < n {
		h.Types = append(h.Types, String)
	}
}

// PolMode marks a polygon segment as perimeter or hole.
type PolMode int

const (
	Perimeter PolMode = iota
	Hole
)

func (m PolMode) String() string {
	if m == Hole {
		return "hole"
	}
	return "perimeter"
}

// Value is one attribute value: its text as written and its numeric
// interpretation (NaN for text fields or unparsable numbers).
type Value struct {
	Type   FieldType
	Text   string
	Number float64
}

// NewValue converts text according to t.
func NewValue(t FieldType, text string) Value {
	v := Value{Type: t, Text: text, Number: math.NaN()}
	switch {
	case t.IsNumeric():
		if f, ok := scan.Float(text); ok {
			v.Number = f
		}
	case t == DateTime:
		if f, ok := scan.AbsTime(text); ok {
			v.Number = f
		}
	}
	return v
}

// Feature holds the per-segment attribute values and polygon role.
type Feature struct {
	Values  []Value
	PolMode PolMode
}

// Clone returns an owned copy of f.
func (f Feature) Clone() Feature {
	f.Values = append([]Value(nil), f.Values...)
	return f
}
