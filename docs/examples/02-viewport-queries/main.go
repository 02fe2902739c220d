package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/geotable/pkg/geotable"
)

func main() {
	opts := geotable.DefaultReadOptions()
	opts.Columns = "g" // longitude, latitude

	table, err := geotable.ReadFile("coastlines.txt", opts)
	if err != nil {
		log.Fatal(err)
	}

	// Define viewport (Boston Harbor area)
	viewport := geotable.Bounds{
		MinX: -71.1, MaxX: -71.0,
		MinY: 42.3, MaxY: 42.4,
	}

	// Query R-tree index for visible segments (O(log n))
	segments := table.SegmentsInBounds(viewport)

	fmt.Printf("Visible segments: %d\n", len(segments))

	for _, seg := range segments {
		fmt.Printf("  #%d %s: %d vertices\n", seg.ID, seg.Header, seg.NumRows())
	}
}
