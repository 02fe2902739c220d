package geo

import "math"

// Representation indices used by Quad.
const (
	WayM180To180 = 0
	Way0To360    = 1
)

// Quad accumulates longitudes in both the -180..180 and 0..360
// representations and records which 90 degree quadrants of the 0..360
// representation were visited.
type Quad struct {
	min, max [2]float64
	quad     [4]bool
	n        int
}

// NewQuad returns an empty accumulator.
func NewQuad() *Quad {
	q := &Quad{}
	q.Reset()
	return q
}

// Reset empties the accumulator.
func (q *Quad) Reset() {
	q.min = [2]float64{math.MaxFloat64, math.MaxFloat64}
	q.max = [2]float64{-math.MaxFloat64, -math.MaxFloat64}
	q.quad = [4]bool{}
	q.n = 0
}

// Add records one longitude. NaN is ignored.
func (q *Quad) Add(x float64) {
	if math.IsNaN(x) {
		return
	}
	ranges := [2]Range{RangeM180To180, Range0To360}
	for way, r := range ranges {
		x = AdjustLon(r, x)
		q.min[way] = math.Min(q.min[way], x)
		q.max[way] = math.Max(q.max[way], x)
	}
	// x is now in 0..360
	n := int(math.Floor(x / 90))
	if n == 4 {
		n = 0
	}
	q.quad[n] = true
	q.n++
}

// Count returns the number of longitudes added.
func (q *Quad) Count() int { return q.n }

// Finalize picks the representation without a wrap artifact and returns
// its extent and index (WayM180To180 or Way0To360). Samples on both sides
// of Greenwich force -180..180; samples on both sides of the date line
// force 0..360; two opposite quadrants pick the smaller span; otherwise
// def decides (0..360 for Range0To360, -180..180 for anything else).
func (q *Quad) Finalize(def Range) (lo, hi float64, way int) {
	if q.n == 0 {
		return math.NaN(), math.NaN(), WayM180To180
	}
	visited := 0
	for _, v := range q.quad {
		if v {
			visited++
		}
	}
	switch {
	case q.quad[0] && q.quad[3]:
		way = WayM180To180
	case q.quad[1] && q.quad[2]:
		way = Way0To360
	case visited == 2 && ((q.quad[0] && q.quad[2]) || (q.quad[1] && q.quad[3])):
		if q.max[0]-q.min[0] < q.max[1]-q.min[1] {
			way = WayM180To180
		} else {
			way = Way0To360
		}
	case def == Range0To360:
		way = Way0To360
	default:
		way = WayM180To180
	}
	lo, hi = q.min[way], q.max[way]
	if lo > hi {
		lo -= 360
	}
	if lo < 0 && hi < 0 {
		lo += 360
		hi += 360
	}
	return lo, hi, way
}

// LonMinMax returns the wrap-free extent of lons. ok is false when lons
// holds no finite value.
func LonMinMax(lons []float64, def Range) (lo, hi float64, ok bool) {
	q := NewQuad()
	for _, x := range lons {
		q.Add(x)
	}
	if q.Count() == 0 {
		return math.NaN(), math.NaN(), false
	}
	lo, hi, _ = q.Finalize(def)
	return lo, hi, true
}
