package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/geotable/pkg/geotable"
)

func main() {
	opts := geotable.DefaultReadOptions()
	// Copy the "depth" attribute into column 2 and append "name" to the
	// trailing text of every record
	opts.Attributes = "2=depth,T=name"

	table, err := geotable.ReadFile("areas.gmt", opts)
	if err != nil {
		log.Fatal(err)
	}

	meta := table.Metadata
	if meta == nil {
		log.Fatal("table carries no embedded metadata")
	}

	fmt.Printf("Geometry: %s\n", meta.Geometry)
	fmt.Printf("Fields: %v\n", meta.Names)

	for _, seg := range table.Segments {
		fmt.Printf("Segment %d (hole=%v):\n", seg.ID, seg.Hole)
		for i, v := range seg.Attributes {
			name := ""
			if i < len(meta.Names) {
				name = meta.Names[i]
			}
			fmt.Printf("  %s = %s\n", name, v.Text)
		}
		if seg.HasText() && seg.NumRows() > 0 {
			fmt.Printf("  first record text: %q\n", seg.Text[0])
		}
	}

	// Look up a field by name
	if idx := meta.Index("depth"); idx >= 0 {
		for _, seg := range table.Segments {
			if idx < len(seg.Attributes) {
				fmt.Printf("Segment %d depth: %g\n", seg.ID, seg.Attributes[idx].Number)
			}
		}
	}
}
