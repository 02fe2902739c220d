package scan

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// LooksLikeAbsTime reports whether tok has the shape of an absolute time:
// a calendar and/or clock joined by T ("2020-01-15T12:00", "T06:30"), or
// a bare calendar date without the T separator ("2020-01-15").
func LooksLikeAbsTime(tok string) bool {
	if i := strings.IndexByte(tok, 'T'); i >= 0 {
		before, after := tok[:i], tok[i+1:]
		if before == "" {
			return after != "" && isDigit(after[0])
		}
		return isDigit(before[0]) && (after == "" || isDigit(after[0]))
	}
	return looksLikeDate(tok)
}

// looksLikeDate matches yyyy-mm, yyyy-jjj and yyyy-mm-dd.
func looksLikeDate(s string) bool {
	var pattern string
	switch len(s) {
	case 7:
		pattern = "dddd-dd"
	case 8:
		pattern = "dddd-ddd"
	case 10:
		pattern = "dddd-dd-dd"
	default:
		return false
	}
	for i := 0; i < len(s); i++ {
		if pattern[i] == '-' {
			if s[i] != '-' {
				return false
			}
		} else if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// AbsTime parses [calendar][T[clock]] and returns seconds since
// 1970-01-01T00:00:00Z. The calendar is yyyy[-mm[-dd]] or yyyy-jjj and
// the clock is hh[:mm[:ss[.sss]]]. A calendar date without the T is
// accepted as midnight of that day.
func AbsTime(tok string) (float64, bool) {
	s := strings.TrimSpace(tok)
	cal, clock, hasT := strings.Cut(s, "T")
	if !hasT && !looksLikeDate(s) {
		return math.NaN(), false
	}
	if cal == "" && clock == "" {
		return math.NaN(), false
	}

	var days float64
	if cal != "" {
		t, ok := parseCalendar(cal)
		if !ok {
			return math.NaN(), false
		}
		days = float64(t.Unix())
	}
	var secs float64
	if clock != "" {
		var ok bool
		if secs, ok = parseClock(clock); !ok {
			return math.NaN(), false
		}
	}
	return days + secs, true
}

func parseCalendar(cal string) (time.Time, bool) {
	parts := strings.Split(cal, "-")
	nums := make([]int, len(parts))
	for i, p := range parts {
		if p == "" {
			return time.Time{}, false
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return time.Time{}, false
		}
		nums[i] = n
	}
	switch len(parts) {
	case 1:
		return time.Date(nums[0], time.January, 1, 0, 0, 0, 0, time.UTC), true
	case 2:
		if len(parts[1]) == 3 {
			// Day of year
			if nums[1] < 1 || nums[1] > 366 {
				return time.Time{}, false
			}
			return time.Date(nums[0], time.January, nums[1], 0, 0, 0, 0, time.UTC), true
		}
		if nums[1] < 1 || nums[1] > 12 {
			return time.Time{}, false
		}
		return time.Date(nums[0], time.Month(nums[1]), 1, 0, 0, 0, 0, time.UTC), true
	case 3:
		if nums[1] < 1 || nums[1] > 12 || nums[2] < 1 || nums[2] > 31 {
			return time.Time{}, false
		}
		return time.Date(nums[0], time.Month(nums[1]), nums[2], 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func parseClock(clock string) (float64, bool) {
	parts := strings.Split(clock, ":")
	if len(parts) > 3 {
		return 0, false
	}
	limits := []float64{25, 60, 62}
	mult := []float64{3600, 60, 1}
	total := 0.0
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 || v >= limits[i] {
			return 0, false
		}
		if i < len(parts)-1 && v != math.Trunc(v) {
			return 0, false
		}
		total += v * mult[i]
	}
	return total, true
}

// FormatAbsTime renders seconds since the Unix epoch as an ISO calendar
// and clock string, with fractional seconds only when present.
func FormatAbsTime(secs float64) string {
	if math.IsNaN(secs) {
		return "NaN"
	}
	whole := math.Floor(secs)
	frac := secs - whole
	t := time.Unix(int64(whole), 0).UTC()
	s := t.Format("2006-01-02T15:04:05")
	if f := strconv.FormatFloat(frac, 'f', 3, 64); f[0] == '0' {
		if tail := strings.TrimRight(f[1:], "0"); tail != "." {
			s += tail
		}
	}
	return s
}
