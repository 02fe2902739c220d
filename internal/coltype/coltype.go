// Package coltype maintains the semantic tag of every table column, per
// direction, and the mapping between requested (logical) columns and the
// physical columns of a record.
package coltype

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// MaxColumns is the hard limit on numeric fields in one record.
const MaxColumns = 4096

// Type is the semantic classification of a column.
type Type uint8

const (
	Unknown Type = iota
	Float
	Lon
	Lat
	Geo
	RelTime
	AbsTime
	Duration
	Dimension
	GeoDimension
	Azimuth
	Angle
	Text
)

var typeNames = [...]string{
	Unknown:      "unknown",
	Float:        "float",
	Lon:          "longitude",
	Lat:          "latitude",
	Geo:          "geographic",
	RelTime:      "reltime",
	AbsTime:      "abstime",
	Duration:     "duration",
	Dimension:    "dimension",
	GeoDimension: "geodimension",
	Azimuth:      "azimuth",
	Angle:        "angle",
	Text:         "text",
}

// String returns the lower-case name of the type.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// IsGeographic reports whether t is a longitude, latitude or generic
// geographic coordinate.
func (t Type) IsGeographic() bool {
	return t == Lon || t == Lat || t == Geo
}

// IsTime reports whether t is a relative or absolute time.
func (t Type) IsTime() bool {
	return t == RelTime || t == AbsTime
}

// Direction selects the input or output half of the type system.
type Direction int

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == Out {
		return "output"
	}
	return "input"
}

// System holds the per-direction column types, their lock bits and the
// optional column selections.
//
// A System is session configuration: readers clone it before learning
// types from data so that concurrent tables never share inferred state.
type System struct {
	types [2][]Type
	locks [2]*roaring.Bitmap
	sel   [2]*Selection
}

// NewSystem returns a system with every column Unknown and unlocked.
func NewSystem() *System {
	return &System{
		locks: [2]*roaring.Bitmap{roaring.New(), roaring.New()},
	}
}

// Type returns the tag of column col in direction dir.
func (s *System) Type(dir Direction, col int) Type {
	if col < 0 || col >= len(s.types[dir]) {
		return Unknown
	}
	return s.types[dir][col]
}

// Set assigns t to column col unless the column is locked. It reports
// whether the assignment happened.
func (s *System) Set(dir Direction, col int, t Type) bool {
	if col < 0 || col >= MaxColumns {
		return false
	}
	if s.locks[dir].Contains(uint32(col)) {
		return false
	}
	s.grow(dir, col)
	s.types[dir][col] = t
	return true
}

// Lock prevents later Set calls from changing column col.
func (s *System) Lock(dir Direction, col int) {
	if col >= 0 && col < MaxColumns {
		s.locks[dir].Add(uint32(col))
	}
}

// Unlock clears the lock bit of column col.
func (s *System) Unlock(dir Direction, col int) {
	if col >= 0 {
		s.locks[dir].Remove(uint32(col))
	}
}

// Locked reports whether column col is locked.
func (s *System) Locked(dir Direction, col int) bool {
	return col >= 0 && s.locks[dir].Contains(uint32(col))
}

// Force unlocks, assigns and relocks column col.
func (s *System) Force(dir Direction, col int, t Type) {
	s.Unlock(dir, col)
	s.Set(dir, col, t)
	s.Lock(dir, col)
}

func (s *System) grow(dir Direction, col int) {
	if col < len(s.types[dir]) {
		return
	}
	n := make([]Type, col+1)
	copy(n, s.types[dir])
	s.types[dir] = n
}

// Select installs (or, with nil, removes) a column selection.
func (s *System) Select(dir Direction, sel *Selection) {
	s.sel[dir] = sel
}

// Selection returns the active selection for dir, or nil.
func (s *System) Selection(dir Direction) *Selection {
	return s.sel[dir]
}

// PhysicalType returns the logical type of physical column k: when a
// selection routes k to one or more logical positions, the type declared
// for the first of them; otherwise the type of column k itself.
func (s *System) PhysicalType(dir Direction, k int) Type {
	if sel := s.sel[dir]; sel != nil {
		if logical := sel.Logical(k); len(logical) > 0 {
			if t := sel.cols[logical[0]].Type; t != Unknown {
				return t
			}
			return s.Type(dir, logical[0])
		}
	}
	return s.Type(dir, k)
}

// Clone returns a deep copy of the system.
func (s *System) Clone() *System {
	c := &System{sel: s.sel}
	for d := range s.types {
		c.types[d] = append([]Type(nil), s.types[d]...)
		c.locks[d] = s.locks[d].Clone()
	}
	return c
}

// SetGeographic forces columns 0 and 1 of dir to longitude and latitude.
func (s *System) SetGeographic(dir Direction) {
	s.Force(dir, 0, Lon)
	s.Force(dir, 1, Lat)
}

// ParseFlags applies a comma separated list of column type flags such as
// "0x,1y,2T" or the shorthands "g" (geographic x/y) and "c" (Cartesian
// x/y). Columns may be ranges ("2-4t"). Each assignment is locked.
func (s *System) ParseFlags(dir Direction, spec string) error {
	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		switch item {
		case "":
			continue
		case "g":
			s.SetGeographic(dir)
			continue
		case "c":
			s.Force(dir, 0, Float)
			s.Force(dir, 1, Float)
			continue
		}
		code := item[len(item)-1]
		t, ok := flagTypes[code]
		if !ok {
			return &ErrBadSpec{Spec: item, Reason: fmt.Sprintf("unknown type code %q", code)}
		}
		lo, hi, err := parseRange(item[:len(item)-1])
		if err != nil {
			return &ErrBadSpec{Spec: item, Reason: err.Error()}
		}
		for c := lo; c <= hi; c++ {
			s.Force(dir, c, t)
		}
	}
	return nil
}

var flagTypes = map[byte]Type{
	'f': Float,
	'x': Lon,
	'y': Lat,
	'g': Geo,
	't': RelTime,
	'T': AbsTime,
	'd': Dimension,
	'a': Azimuth,
	's': Text,
}

func parseRange(s string) (int, int, error) {
	if s == "" {
		return 0, 0, fmt.Errorf("missing column number")
	}
	a, b, isRange := strings.Cut(s, "-")
	lo, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, fmt.Errorf("bad column %q", a)
	}
	hi := lo
	if isRange {
		if hi, err = strconv.Atoi(b); err != nil {
			return 0, 0, fmt.Errorf("bad column %q", b)
		}
	}
	if lo < 0 || hi < lo || hi >= MaxColumns {
		return 0, 0, &ErrColumnLimit{Column: hi, Limit: MaxColumns}
	}
	return lo, hi, nil
}
