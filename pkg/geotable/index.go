package geotable

import (
	"github.com/dhconnelly/rtreego"
)

// segmentIndex provides O(log n) extent queries over a table's segments.
type segmentIndex struct {
	rtree *rtreego.Rtree
}

// indexedSegment wraps a segment for R-tree storage.
type indexedSegment struct {
	segment *Segment
	bounds  Bounds
}

// Bounds implements rtreego.Spatial interface.
func (s *indexedSegment) Bounds() rtreego.Rect {
	point := rtreego.Point{s.bounds.MinX, s.bounds.MinY}

	// R-tree rectangles need non-zero sides; single points and straight
	// meridians get a small epsilon.
	const epsilon = 0.0001
	xLength := max(s.bounds.MaxX-s.bounds.MinX, epsilon)
	yLength := max(s.bounds.MaxY-s.bounds.MinY, epsilon)

	rect, _ := rtreego.NewRect(point, []float64{xLength, yLength})
	return rect
}

// Index builds the R-tree over the segments' current extents. It is
// rebuilt automatically by SegmentsInBounds after the table changes;
// call SetMinMax first so the extents are exact.
//
// Building the index up front lets a table shared between goroutines,
// such as one returned by TableCache, serve queries without any of them
// paying for the build.
func (t *Table) Index() {
	idx := t.buildIndex()
	t.indexMu.Lock()
	t.index = idx
	t.indexMu.Unlock()
}

// spatialIndex returns the current index, building it if needed.
func (t *Table) spatialIndex() *segmentIndex {
	t.indexMu.Lock()
	defer t.indexMu.Unlock()
	if t.index == nil {
		t.index = t.buildIndex()
	}
	return t.index
}

func (t *Table) resetIndex() {
	t.indexMu.Lock()
	t.index = nil
	t.indexMu.Unlock()
}

func (t *Table) buildIndex() *segmentIndex {
	rtree := rtreego.NewTree(2, 25, 50)
	for _, s := range t.Segments {
		b := s.Bounds()
		if b.IsEmpty() {
			continue
		}
		rtree.Insert(&indexedSegment{segment: s, bounds: b})
	}
	return &segmentIndex{rtree: rtree}
}

// SegmentsInBounds returns the segments whose x/y extent intersects b.
// It is safe for concurrent use as long as no goroutine mutates the
// table.
//
// Example:
//
//	bounds := geotable.Bounds{MinX: -10, MaxX: 5, MinY: 40, MaxY: 50}
//	for _, seg := range t.SegmentsInBounds(bounds) {
//		fmt.Println(seg.ID, seg.Header)
//	}
func (t *Table) SegmentsInBounds(b Bounds) []*Segment {
	if b.IsEmpty() {
		return nil
	}
	idx := t.spatialIndex()

	point := rtreego.Point{b.MinX, b.MinY}
	lengths := []float64{
		max(b.MaxX-b.MinX, 1e-12),
		max(b.MaxY-b.MinY, 1e-12),
	}
	queryRect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		return t.segmentsInBoundsLinear(b)
	}

	spatials := idx.rtree.SearchIntersect(queryRect)
	result := make([]*Segment, 0, len(spatials))
	for _, spatial := range spatials {
		result = append(result, spatial.(*indexedSegment).segment)
	}
	return result
}

// segmentsInBoundsLinear is the fallback when no query rectangle can be
// built.
func (t *Table) segmentsInBoundsLinear(b Bounds) []*Segment {
	var result []*Segment
	for _, s := range t.Segments {
		if sb := s.Bounds(); !sb.IsEmpty() && b.Intersects(sb) {
			result = append(result, s)
		}
	}
	return result
}

// SegmentsInBounds returns the segments of every table whose extent
// intersects b.
func (d *Dataset) SegmentsInBounds(b Bounds) []*Segment {
	var result []*Segment
	for _, t := range d.Tables {
		result = append(result, t.SegmentsInBounds(b)...)
	}
	return result
}
