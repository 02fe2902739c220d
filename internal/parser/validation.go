package parser

import (
	"fmt"

	"github.com/beetlebugorg/geotable/internal/coltype"
	"github.com/beetlebugorg/geotable/internal/geo"
)

// ValidateRegion checks that a periodic longitude window is usable.
func ValidateRegion(r Region) error {
	if !(r.West < r.East) || r.East-r.West > 360.0 {
		return &ErrInvalidRegion{West: r.West, East: r.East}
	}
	return nil
}

// Validate checks the configuration before a reader is built.
func (c *Config) Validate() error {
	if c.Binary == "" && c.Separators == "" {
		return &ErrInvalidConfig{Field: "separators", Reason: "ASCII input needs at least one separator"}
	}
	if c.SegmentMarker == 0 {
		return &ErrInvalidConfig{Field: "segment marker", Reason: "must not be NUL"}
	}
	if c.SegmentMarker == c.HeaderMarker {
		return &ErrInvalidConfig{Field: "segment marker", Reason: "must differ from the header marker"}
	}
	if c.HeaderLines < 0 || c.HeaderBytes < 0 || c.SegmentWindow < 0 {
		return &ErrInvalidConfig{Field: "header", Reason: "counts must not be negative"}
	}
	if c.Region != nil {
		if err := ValidateRegion(*c.Region); err != nil {
			return err
		}
	}
	if c.LonRange < geo.RangeNone || c.LonRange > geo.RangeM180ToBelow270 {
		return &ErrInvalidConfig{Field: "longitude range", Reason: fmt.Sprintf("unknown range %d", c.LonRange)}
	}
	for _, col := range c.Required {
		if col < 0 || col >= coltype.MaxColumns {
			return &ErrInvalidConfig{Field: "required columns", Reason: fmt.Sprintf("column %d out of range", col)}
		}
	}
	for i, r := range c.Rows {
		if r.First < 0 || (r.Last >= 0 && r.Last < r.First) {
			return &ErrInvalidConfig{Field: "row ranges", Reason: fmt.Sprintf("range %d is empty: %d-%d", i, r.First, r.Last)}
		}
	}
	for _, v := range c.ValueRanges {
		if v.Column < 0 || v.Max < v.Min {
			return &ErrInvalidConfig{Field: "value ranges", Reason: fmt.Sprintf("column %d: [%g, %g]", v.Column, v.Min, v.Max)}
		}
	}
	return c.Gaps.Validate()
}
