package geo

import "math"

// Pole tells whether a polygon ring encloses a geographic pole.
type Pole int

const (
	South    Pole = -1
	NotPolar Pole = 0
	North    Pole = 1
)

func (p Pole) String() string {
	switch p {
	case South:
		return "south"
	case North:
		return "north"
	default:
		return "none"
	}
}

// Tolerance is the slack used when comparing accumulated angles and
// ring closure.
const Tolerance = 1e-8

// DeterminePole walks the ring (lon, lat) summing the signed longitude
// increments between consecutive vertices, taking the short way across
// Greenwich or the date line. A total of +/-360 degrees means the ring
// encloses a pole, and the sign of the summed latitudes picks which one.
// An open ring is closed virtually at its first vertex. A ring touching
// both poles is not treated as polar.
func DeterminePole(lon, lat []float64) Pole {
	n := len(lon)
	if len(lat) < n {
		n = len(lat)
	}
	if n < 3 {
		return NotPolar
	}
	if !IsOpen(lon[:n], lat[:n], true) {
		n-- // drop the repeated closing vertex
	}

	touchesNorth, touchesSouth := false, false
	lonSum, latSum := 0.0, 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		dlon := lon[j] - lon[i]
		if math.Abs(dlon) > 180 {
			dlon = math.Copysign(360-math.Abs(dlon), -dlon)
		}
		lonSum += dlon
		latSum += lat[i]
		if math.Abs(lat[i]-90) < Tolerance {
			touchesNorth = true
		}
		if math.Abs(lat[i]+90) < Tolerance {
			touchesSouth = true
		}
	}
	if touchesNorth && touchesSouth {
		return NotPolar
	}
	if math.Abs(math.Abs(lonSum)-360) > Tolerance*360 {
		return NotPolar
	}
	if latSum < 0 {
		return South
	}
	return North
}

// IsOpen reports whether the first and last vertices of a ring differ.
// For geographic rings, vertices at the same pole count as equal whatever
// their longitudes, and longitudes that differ by a multiple of 360 count
// as equal.
func IsOpen(x, y []float64, geographic bool) bool {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n < 2 {
		return false
	}
	x0, y0, x1, y1 := x[0], y[0], x[n-1], y[n-1]
	if math.Abs(y0-y1) > Tolerance {
		return true
	}
	dx := math.Abs(x0 - x1)
	if dx < Tolerance {
		return false
	}
	if !geographic {
		return true
	}
	if math.Abs(math.Abs(y0)-90) < Tolerance {
		return false
	}
	return math.Abs(math.Mod(dx, 360)) > Tolerance && math.Abs(math.Mod(dx, 360)-360) > Tolerance
}
