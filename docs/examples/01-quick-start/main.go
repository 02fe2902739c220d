package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/geotable/pkg/geotable"
)

func main() {
	// Read a whitespace or comma separated table
	table, err := geotable.ReadFile("track.txt", geotable.DefaultReadOptions())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Table: %s\n", table.Name)
	fmt.Printf("Segments: %d\n", table.NumSegments())
	fmt.Printf("Records: %d\n", table.NumRecords())

	for _, seg := range table.Segments {
		fmt.Printf("  %q: %d rows, x [%g, %g], y [%g, %g]\n",
			seg.Header, seg.NumRows(),
			seg.Min[0], seg.Max[0], seg.Min[1], seg.Max[1])
	}
}
