package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/geotable/pkg/geotable"
)

// Keep soundings between 5 and 20 meters, skipping the first 100 records
func readShallowSoundings(path string) (*geotable.Table, error) {
	opts := geotable.DefaultReadOptions()
	opts.Columns = "g"
	opts.Rows = []geotable.RowRange{{First: 100, Last: -1}}
	opts.ValueRanges = []geotable.ValueRange{
		{Column: 2, Min: 5, Max: 20},
	}
	opts.SkipDuplicates = true

	return geotable.ReadFile(path, opts)
}

// Split a ship track wherever consecutive fixes are more than 2 km apart
func readTrackWithGaps(path string) (*geotable.Table, error) {
	opts := geotable.DefaultReadOptions()
	opts.Columns = "g"
	opts.Gaps = []string{"d2000"}

	return geotable.ReadFile(path, opts)
}

func main() {
	fmt.Println("=== Shallow soundings ===")
	soundings, err := readShallowSoundings("soundings.txt")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Records kept: %d\n", soundings.NumRecords())

	fmt.Println("\n=== Track split at gaps ===")
	track, err := readTrackWithGaps("track.txt")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Segments: %d\n", track.NumSegments())
}
