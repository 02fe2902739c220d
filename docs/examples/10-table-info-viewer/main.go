package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/beetlebugorg/geotable/pkg/geotable"
)

func main() {
	tablePath := flag.String("table", "", "Path to table file")
	columns := flag.String("f", "", "Column types, e.g. g or 0x,1y,2T")
	binary := flag.String("b", "", "Binary record format, e.g. 3d")
	flag.Parse()

	if *tablePath == "" {
		log.Fatal("Please provide -table path")
	}

	opts := geotable.DefaultReadOptions()
	opts.Columns = *columns
	opts.Binary = *binary
	table, err := geotable.ReadFile(*tablePath, opts)
	if err != nil {
		log.Fatal(err)
	}

	// Print summary
	fmt.Printf("=== Table Information ===\n")
	fmt.Printf("Name: %s\n", table.Name)
	fmt.Printf("Columns: %d\n", table.NumColumns())
	fmt.Printf("Segments: %d\n", table.NumSegments())
	fmt.Printf("Records: %d\n", table.NumRecords())
	fmt.Printf("Trailing text: %v\n\n", table.HasText())

	for _, h := range table.Headers {
		fmt.Println(h)
	}

	// Print extents
	fmt.Printf("\n=== Column Extents ===\n")
	for c := range table.NumColumns() {
		fmt.Printf("%d: %g to %g\n", c, table.Min[c], table.Max[c])
	}

	if meta := table.Metadata; meta != nil {
		fmt.Printf("\n=== Metadata ===\n")
		fmt.Printf("Geometry: %s\n", meta.Geometry)
		if meta.Region != "" {
			fmt.Printf("Region: %s\n", meta.Region)
		}
		for i, name := range meta.Names {
			fmt.Printf("%-10s: %s\n", name, meta.Types[i])
		}
	}
}
