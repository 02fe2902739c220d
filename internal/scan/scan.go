// Package scan converts single text tokens into numbers according to an
// expected column type, and infers column types from unannotated tokens.
package scan

import (
	"math"
	"strconv"
	"strings"

	"github.com/beetlebugorg/geotable/internal/coltype"
)

// IsNaN reports whether tok is the literal (case-insensitive) "nan".
func IsNaN(tok string) bool {
	return strings.EqualFold(tok, "nan")
}

// Token scans tok as a value of type expect. It returns the value, the
// type actually recognized (which may be more specific than expect, e.g.
// Lon for a token carrying a W suffix) and whether the scan succeeded.
// Literal NaN is not accepted here; callers test IsNaN separately.
func Token(tok string, expect coltype.Type) (float64, coltype.Type, bool) {
	if tok == "" || !numericStart(tok) {
		return math.NaN(), expect, false
	}
	switch expect {
	case coltype.Float, coltype.Duration, coltype.Azimuth, coltype.Angle:
		v, ok := Float(tok)
		return v, expect, ok
	case coltype.RelTime:
		v, ok := RelTime(tok)
		return v, expect, ok
	case coltype.AbsTime:
		v, ok := AbsTime(tok)
		return v, expect, ok
	case coltype.Dimension:
		v, ok := Dimension(tok)
		return v, expect, ok
	case coltype.GeoDimension:
		v, ok := GeoDimension(tok)
		return v, expect, ok
	case coltype.Text:
		return math.NaN(), expect, false
	default:
		v, t, ok := Geo(tok)
		if ok && expect != coltype.Unknown && t == coltype.Float {
			t = expect
		}
		return v, t, ok
	}
}

// Infer scans a token whose column type is not yet known. Absolute time
// is tried first, then the geographic scanner which also recognizes
// plain floats.
func Infer(tok string) (float64, coltype.Type, bool) {
	if tok == "" || !numericStart(tok) {
		return math.NaN(), coltype.Unknown, false
	}
	if LooksLikeAbsTime(tok) {
		if v, ok := AbsTime(tok); ok {
			return v, coltype.AbsTime, true
		}
	}
	return Geo(tok)
}

// numericStart rejects tokens that begin with a letter, except a clock
// string such as "T12:00".
func numericStart(tok string) bool {
	c := tok[0]
	if !isLetter(c) {
		return true
	}
	return c == 'T' && len(tok) > 1 && isDigit(tok[1])
}

func isLetter(c byte) bool { return (c|0x20) >= 'a' && (c|0x20) <= 'z' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// fortran rewrites d/D exponent markers as e.
func fortran(s string) string {
	if strings.IndexAny(s, "dD") < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == 'd' || r == 'D' {
			return 'e'
		}
		return r
	}, s)
}

// Float parses a plain floating point number. Fortran style exponents
// ("1.5D3") are accepted.
func Float(tok string) (float64, bool) {
	v, err := strconv.ParseFloat(fortran(strings.TrimSpace(tok)), 64)
	if err != nil {
		return math.NaN(), false
	}
	return v, true
}

// Geo parses a geographic coordinate or plain number. It understands a
// hemisphere suffix (W and S negate), a G or D suffix marking a generic
// geographic value, and dd:mm[:ss.s] notation.
func Geo(tok string) (float64, coltype.Type, bool) {
	s := strings.TrimSpace(tok)
	if s == "" {
		return math.NaN(), coltype.Unknown, false
	}
	t := coltype.Float
	negate := false
	switch s[len(s)-1] {
	case 'W', 'w':
		t, negate = coltype.Lon, true
	case 'E', 'e':
		t = coltype.Lon
	case 'S', 's':
		t, negate = coltype.Lat, true
	case 'N', 'n':
		t = coltype.Lat
	case 'G', 'g', 'D', 'd':
		t = coltype.Geo
	case '.':
	default:
		if !isDigit(s[len(s)-1]) {
			return math.NaN(), coltype.Unknown, false
		}
	}
	if t != coltype.Float {
		s = s[:len(s)-1]
		if s == "" {
			return math.NaN(), coltype.Unknown, false
		}
	}

	var v float64
	if strings.Contains(s, ":") {
		var ok bool
		if v, ok = sexagesimal(s); !ok {
			return math.NaN(), coltype.Unknown, false
		}
		if t == coltype.Float {
			t = coltype.Geo
		}
	} else {
		var err error
		if v, err = strconv.ParseFloat(fortran(s), 64); err != nil {
			return math.NaN(), coltype.Unknown, false
		}
	}
	if negate {
		v = -v
	}
	return v, t, true
}

// sexagesimal parses dd:mm or dd:mm:ss.s. The sign of the degree part
// applies to the whole value, including "-0:30".
func sexagesimal(s string) (float64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, false
	}
	negative := strings.HasPrefix(parts[0], "-")
	total := 0.0
	div := 1.0
	for i, p := range parts {
		v, err := strconv.ParseFloat(fortran(p), 64)
		if err != nil {
			return 0, false
		}
		if i > 0 && (v < 0 || v >= 60) {
			return 0, false
		}
		total += math.Abs(v) / div
		div *= 60
	}
	if negative {
		total = -total
	}
	return total, true
}

// RelTime parses a relative time: a float with an optional trailing t.
func RelTime(tok string) (float64, bool) {
	s := strings.TrimSuffix(strings.TrimSpace(tok), "t")
	return Float(s)
}

// Dimension parses a length with an optional unit suffix (c, i, m or p)
// and returns it in inches.
func Dimension(tok string) (float64, bool) {
	s := strings.TrimSpace(tok)
	if s == "" {
		return math.NaN(), false
	}
	scale := 1.0
	switch s[len(s)-1] {
	case 'c':
		scale = 1 / 2.54
	case 'i':
	case 'm':
		scale = 1 / 0.0254
	case 'p':
		scale = 1.0 / 72
	default:
		v, ok := Float(s)
		return v, ok
	}
	v, ok := Float(s[:len(s)-1])
	return v * scale, ok
}

// GeoDimension parses an arc length with an optional d, m or s suffix
// (degrees, arc minutes, arc seconds) and returns degrees.
func GeoDimension(tok string) (float64, bool) {
	s := strings.TrimSpace(tok)
	if s == "" {
		return math.NaN(), false
	}
	div := 1.0
	switch s[len(s)-1] {
	case 'd':
	case 'm':
		div = 60
	case 's':
		div = 3600
	default:
		v, ok := Float(s)
		return v, ok
	}
	v, ok := Float(s[:len(s)-1])
	return v / div, ok
}
