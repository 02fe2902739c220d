package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/geotable/pkg/geotable"
)

func describe(seg *geotable.Segment) string {
	switch seg.Pole {
	case geotable.NorthPole:
		return "north polar cap"
	case geotable.SouthPole:
		return "south polar cap"
	}
	if seg.Hole {
		return "hole"
	}
	return "perimeter"
}

func main() {
	opts := geotable.DefaultReadOptions()
	opts.Columns = "g"
	opts.ClosePolygons = true

	table, err := geotable.ReadFile("ice_shelves.gmt", opts)
	if err != nil {
		log.Fatal(err)
	}

	if table.Metadata == nil || !table.Metadata.Geometry.IsPolygon() {
		log.Fatal("expected a polygon table")
	}

	for _, seg := range table.Segments {
		fmt.Printf("Polygon %d: %s\n", seg.ID, describe(seg))
		fmt.Printf("  Vertices: %d (closed=%v)\n", seg.NumRows(), seg.IsClosed(true))
		fmt.Printf("  Longitude: %.4f to %.4f\n", seg.Min[0], seg.Max[0])
		fmt.Printf("  Latitude: %.4f to %.4f\n", seg.Min[1], seg.Max[1])
	}

	// Longitude extents of segments crossing the dateline stay compact
	// (e.g. 179 to 181) instead of spanning the globe
	b := table.Bounds()
	fmt.Printf("\nTable extent: [%.4f,%.4f] to [%.4f,%.4f]\n", b.MinX, b.MinY, b.MaxX, b.MaxY)
}
