package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/beetlebugorg/geotable/pkg/geotable"
)

// Find tables covering a location
func findTablesForLocation(ds *geotable.Dataset, lon, lat float64) []*geotable.Table {
	var matches []*geotable.Table
	for _, t := range ds.Tables {
		if t.Bounds().Contains(lon, lat) {
			matches = append(matches, t)
		}
	}
	return matches
}

func main() {
	names := []string{"leg01.txt", "leg02.txt.gz", "leg03.txt.zst", "missing.txt"}

	opts := geotable.DefaultLoadOptions()
	opts.Read.Columns = "g"
	opts.Workers = 4
	opts.ErrorLog = os.Stderr
	opts.Progress = func(loaded, total int) {
		fmt.Printf("Loaded %d/%d\n", loaded, total)
	}

	ds, errs := geotable.LoadDataset(context.Background(), geotable.FileSource{Root: "surveys"}, names, opts)
	if ds == nil {
		log.Fatal(errs[0])
	}
	fmt.Printf("Catalog contains %d tables (%d failed)\n\n", len(ds.Tables), len(errs))

	for _, t := range ds.Tables {
		b := t.Bounds()
		fmt.Printf("Table: %s\n", t.Name)
		fmt.Printf("  Segments: %d\n", t.NumSegments())
		fmt.Printf("  Records: %d\n", t.NumRecords())
		fmt.Printf("  Bounds: [%.4f,%.4f] to [%.4f,%.4f]\n", b.MinX, b.MinY, b.MaxX, b.MaxY)
	}

	// Example location query
	lon, lat := -71.05, 42.35
	matches := findTablesForLocation(ds, lon, lat)
	fmt.Printf("\nTables containing location %.4f, %.4f: %d\n", lon, lat, len(matches))
}
