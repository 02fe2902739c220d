package coltype

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// Column is one entry of a column selection: which physical column feeds
// the logical position, and how its values are transformed.
type Column struct {
	Physical int
	Log10    bool
	Scale    float64
	Offset   float64
	// Type overrides the column type for this logical position when set.
	Type Type
}

// Apply transforms v as log10 (if requested), then scale, then offset.
func (c Column) Apply(v float64) float64 {
	if c.Log10 {
		v = math.Log10(v)
	}
	return v*c.Scale + c.Offset
}

// Identity reports whether Apply leaves values unchanged.
func (c Column) Identity() bool {
	return !c.Log10 && c.Scale == 1 && c.Offset == 0
}

// Selection maps logical columns (positions in the requested order) to
// physical columns of the record. A physical column may feed several
// logical positions; physical columns that feed none are skipped.
type Selection struct {
	cols       []Column
	byPhysical map[int][]int
	used       *roaring.Bitmap
	maxPhys    int
}

// NewSelection builds a selection from columns in logical order.
func NewSelection(cols []Column) (*Selection, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("empty column selection")
	}
	if len(cols) > MaxColumns {
		return nil, &ErrColumnLimit{Column: len(cols), Limit: MaxColumns}
	}
	s := &Selection{
		cols:       append([]Column(nil), cols...),
		byPhysical: make(map[int][]int, len(cols)),
		used:       roaring.New(),
		maxPhys:    -1,
	}
	for i, c := range s.cols {
		if c.Physical < 0 || c.Physical >= MaxColumns {
			return nil, &ErrColumnLimit{Column: c.Physical, Limit: MaxColumns}
		}
		if c.Scale == 0 {
			s.cols[i].Scale = 1
		}
		s.byPhysical[c.Physical] = append(s.byPhysical[c.Physical], i)
		s.used.Add(uint32(c.Physical))
		if c.Physical > s.maxPhys {
			s.maxPhys = c.Physical
		}
	}
	return s, nil
}

// ParseSelection parses a list such as "1,0,2l,3s0.001o10,4-6" into a
// selection. Suffix l takes log10, s<scale> multiplies and o<offset>
// adds, in that order.
func ParseSelection(spec string) (*Selection, error) {
	var cols []Column
	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		end := 0
		for end < len(item) && (item[end] == '-' || (item[end] >= '0' && item[end] <= '9')) {
			end++
		}
		lo, hi, err := parseRange(item[:end])
		if err != nil {
			return nil, &ErrBadSpec{Spec: item, Reason: err.Error()}
		}
		proto := Column{Scale: 1}
		if err := parseModifiers(item[end:], &proto); err != nil {
			return nil, &ErrBadSpec{Spec: item, Reason: err.Error()}
		}
		for c := lo; c <= hi; c++ {
			col := proto
			col.Physical = c
			cols = append(cols, col)
		}
	}
	return NewSelection(cols)
}

func parseModifiers(s string, c *Column) error {
	for len(s) > 0 {
		flag := s[0]
		s = s[1:]
		if flag == 'l' {
			c.Log10 = true
			continue
		}
		end := 0
		for end < len(s) && strings.IndexByte("+-.0123456789eE", s[end]) >= 0 {
			end++
		}
		v, err := strconv.ParseFloat(s[:end], 64)
		if err != nil {
			return fmt.Errorf("bad %c modifier value %q", flag, s[:end])
		}
		s = s[end:]
		switch flag {
		case 's':
			c.Scale = v
		case 'o':
			c.Offset = v
		default:
			return fmt.Errorf("unknown modifier %q", flag)
		}
	}
	return nil
}

// Len returns the number of logical columns.
func (s *Selection) Len() int { return len(s.cols) }

// Column returns logical column i.
func (s *Selection) Column(i int) Column { return s.cols[i] }

// Logical returns the logical positions fed by physical column k.
func (s *Selection) Logical(k int) []int { return s.byPhysical[k] }

// Consumes reports whether physical column k feeds any logical position.
func (s *Selection) Consumes(k int) bool {
	return k >= 0 && s.used.Contains(uint32(k))
}

// MaxPhysical returns the highest physical column referenced.
func (s *Selection) MaxPhysical() int { return s.maxPhys }

// Route copies the physical values into dst in logical order, applying
// each column's transform. dst must have Len() elements. Physical
// columns beyond the end of phys produce NaN.
func (s *Selection) Route(phys, dst []float64) {
	for i, c := range s.cols {
		if c.Physical >= len(phys) {
			dst[i] = math.NaN()
			continue
		}
		dst[i] = c.Apply(phys[c.Physical])
	}
}
