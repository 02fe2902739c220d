package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// GapMode selects how the change between consecutive records is measured.
type GapMode int

const (
	GapAbs      GapMode = iota // |curr - prev| > threshold
	GapIncrease                // curr - prev > threshold
	GapDecrease                // prev - curr > threshold
)

// DistanceColumn is the GapRule column that measures the x,y distance
// between consecutive records instead of a single column.
const DistanceColumn = -1

// GapRule declares a data gap when the change in one logical column (or
// the x,y distance) exceeds Threshold.
type GapRule struct {
	Column     int
	Mode       GapMode
	Threshold  float64
	Geographic bool // wrap x differences into [-180, 180) for distance rules
}

// GapPolicy combines gap rules. By default any rule triggers a gap; with
// MatchAll every rule must.
type GapPolicy struct {
	Rules    []GapRule
	MatchAll bool
}

// Enabled reports whether the policy has any rules.
func (g GapPolicy) Enabled() bool { return len(g.Rules) > 0 }

// Validate checks every rule.
func (g GapPolicy) Validate() error {
	for _, r := range g.Rules {
		if r.Column < DistanceColumn {
			return &ErrInvalidConfig{Field: "gap rule", Reason: fmt.Sprintf("column %d", r.Column)}
		}
		if !(r.Threshold >= 0) {
			return &ErrInvalidConfig{Field: "gap rule", Reason: "threshold must be non-negative"}
		}
	}
	return nil
}

// Detect reports whether curr starts a new segment after prev.
func (g GapPolicy) Detect(prev, curr []float64) bool {
	if len(g.Rules) == 0 {
		return false
	}
	for _, r := range g.Rules {
		hit := r.exceeded(prev, curr)
		if hit && !g.MatchAll {
			return true
		}
		if !hit && g.MatchAll {
			return false
		}
	}
	return g.MatchAll
}

func (r GapRule) exceeded(prev, curr []float64) bool {
	var d float64
	if r.Column == DistanceColumn {
		if len(prev) < 2 || len(curr) < 2 {
			return false
		}
		dx := curr[0] - prev[0]
		if r.Geographic {
			dx = math.Mod(dx+540.0, 360.0) - 180.0
		}
		d = math.Hypot(dx, curr[1]-prev[1])
		return d > r.Threshold
	}
	if r.Column >= len(prev) || r.Column >= len(curr) {
		return false
	}
	d = curr[r.Column] - prev[r.Column]
	switch r.Mode {
	case GapIncrease:
		return d > r.Threshold
	case GapDecrease:
		return -d > r.Threshold
	default:
		return math.Abs(d) > r.Threshold
	}
}

// ParseGapRule parses one rule: x|y|d|<col>z followed by an optional
// + or - and the threshold, e.g. "x0.5", "d100", "2z+10".
func ParseGapRule(spec string) (GapRule, error) {
	r := GapRule{}
	s := spec
	switch {
	case strings.HasPrefix(s, "x"):
		r.Column, s = 0, s[1:]
	case strings.HasPrefix(s, "y"):
		r.Column, s = 1, s[1:]
	case strings.HasPrefix(s, "d"):
		r.Column, s = DistanceColumn, s[1:]
	default:
		i := strings.IndexByte(s, 'z')
		if i < 0 {
			return r, &ErrInvalidConfig{Field: "gap rule", Reason: fmt.Sprintf("%q has no column", spec)}
		}
		r.Column = 2
		if i > 0 {
			col, err := strconv.Atoi(s[:i])
			if err != nil || col < 0 {
				return r, &ErrInvalidConfig{Field: "gap rule", Reason: fmt.Sprintf("%q has a bad column", spec)}
			}
			r.Column = col
		}
		s = s[i+1:]
	}
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if r.Column == DistanceColumn {
			return r, &ErrInvalidConfig{Field: "gap rule", Reason: "distance rules take no sign"}
		}
		if s[0] == '+' {
			r.Mode = GapIncrease
		} else {
			r.Mode = GapDecrease
		}
		s = s[1:]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return r, &ErrInvalidConfig{Field: "gap rule", Reason: fmt.Sprintf("%q has a bad threshold", spec)}
	}
	r.Threshold = v
	return r, nil
}

// ParseGapPolicy parses several rules. A leading "a" on the first rule
// requires all of them to match.
func ParseGapPolicy(specs ...string) (GapPolicy, error) {
	var g GapPolicy
	for i, s := range specs {
		if i == 0 && strings.HasPrefix(s, "a") {
			g.MatchAll = true
			s = s[1:]
		}
		r, err := ParseGapRule(s)
		if err != nil {
			return GapPolicy{}, err
		}
		g.Rules = append(g.Rules, r)
	}
	return g, nil
}
