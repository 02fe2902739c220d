// Package geo holds the longitude bookkeeping used to keep geographic
// extents self-consistent: range normalization, the quadrant accumulator
// that picks a wrap-free longitude representation, and polar-cap
// detection for polygon rings.
package geo

import "math"

// Range names a longitude normalization interval.
type Range int

const (
	// RangeNone leaves longitudes untouched.
	RangeNone Range = iota
	// Range0To360 is 0 <= lon <= 360.
	Range0To360
	// Range0ToBelow360 is 0 <= lon < 360.
	Range0ToBelow360
	// RangeM360To0 is -360 <= lon <= 0.
	RangeM360To0
	// RangeAboveM360To0 is -360 < lon <= 0.
	RangeAboveM360To0
	// RangeM180To180 is -180 <= lon <= 180.
	RangeM180To180
	// RangeM180ToBelow180 is -180 <= lon < 180.
	RangeM180ToBelow180
	// RangeM180ToBelow270 is -180 <= lon < 270.
	RangeM180ToBelow270
)

func (r Range) String() string {
	switch r {
	case Range0To360:
		return "[0,360]"
	case Range0ToBelow360:
		return "[0,360)"
	case RangeM360To0:
		return "[-360,0]"
	case RangeAboveM360To0:
		return "(-360,0]"
	case RangeM180To180:
		return "[-180,180]"
	case RangeM180ToBelow180:
		return "[-180,180)"
	case RangeM180ToBelow270:
		return "[-180,270)"
	default:
		return "none"
	}
}

// AdjustLon moves lon by multiples of 360 into range r.
func AdjustLon(r Range, lon float64) float64 {
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return lon
	}
	switch r {
	case Range0To360:
		lon = raiseTo(lon, 0, false)
		lon = lowerTo(lon, 360, true)
	case Range0ToBelow360:
		lon = raiseTo(lon, 0, false)
		lon = lowerTo(lon, 360, false)
	case RangeM360To0:
		lon = raiseTo(lon, -360, false)
		lon = lowerTo(lon, 0, true)
	case RangeAboveM360To0:
		lon = raiseTo(lon, -360, true)
		lon = lowerTo(lon, 0, true)
	case RangeM180To180:
		lon = raiseTo(lon, -180, false)
		lon = lowerTo(lon, 180, true)
	case RangeM180ToBelow180:
		lon = raiseTo(lon, -180, false)
		lon = lowerTo(lon, 180, false)
	case RangeM180ToBelow270:
		lon = raiseTo(lon, -180, false)
		lon = lowerTo(lon, 270, false)
	}
	return lon
}

// raiseTo adds the fewest multiples of 360 that bring lon to at least
// lo, or above lo when strict. Values already there are returned as is.
func raiseTo(lon, lo float64, strict bool) float64 {
	if lon > lo || (lon == lo && !strict) {
		return lon
	}
	r := math.Mod(lo-lon, 360)
	if r == 0 && !strict {
		return lo
	}
	v := lo + 360 - r
	if v < lo || (v == lo && strict) {
		v += 360
	}
	return v
}

// lowerTo subtracts the fewest multiples of 360 that bring lon to at
// most hi when inclusive, or below hi otherwise.
func lowerTo(lon, hi float64, inclusive bool) float64 {
	if lon < hi || (lon == hi && inclusive) {
		return lon
	}
	d := math.Mod(lon-hi, 360)
	if d == 0 && inclusive {
		return hi
	}
	v := hi - 360 + d
	if v > hi || (v == hi && !inclusive) {
		v -= 360
	}
	return v
}

// AdjustPeriodic shifts lon by multiples of 360 toward the region
// [west, east]. Values that cannot be brought inside stay on the side
// they started on.
func AdjustPeriodic(lon, west, east float64) float64 {
	if math.IsNaN(lon) || math.IsInf(lon, 0) || math.IsNaN(west) || math.IsNaN(east) {
		return lon
	}
	if lon > east {
		v := lowerTo(lon, east, true)
		if v >= west {
			return v
		}
		// nearest value still at or above west
		return min(v+360, lon)
	}
	if lon < west {
		v := raiseTo(lon, west, false)
		if v <= east {
			return v
		}
		return max(v-360, lon)
	}
	return lon
}
