package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math"

	"github.com/beetlebugorg/geotable/pkg/geotable"
)

func safeReadTable(path string, opts geotable.ReadOptions) (*geotable.Table, error) {
	table, err := geotable.ReadFile(path, opts)
	if err != nil {
		// Check if file exists
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("table file not found: %s", path)
		}

		var optErr *geotable.ErrOption
		if errors.As(err, &optErr) {
			return nil, fmt.Errorf("bad %s option: %w", optErr.Option, err)
		}

		if errors.Is(err, geotable.ErrNoSegments) {
			log.Printf("Warning: %s contains no records", path)
			return nil, err
		}
		return nil, err
	}

	// Validate extents
	b := table.Bounds()
	if math.IsInf(b.MinX, 0) || b.MinX == b.MaxX || b.MinY == b.MaxY {
		log.Printf("Warning: %s has degenerate bounds", path)
	}

	return table, nil
}

func main() {
	// Try to read a table
	table, err := safeReadTable("track.txt", geotable.DefaultReadOptions())
	if err != nil {
		log.Printf("Error: %v", err)
		return
	}
	fmt.Printf("Successfully loaded table: %s\n", table.Name)
	fmt.Printf("Records: %d\n", table.NumRecords())

	// Try a malformed column type specification
	opts := geotable.DefaultReadOptions()
	opts.Columns = "0q"
	if _, err := safeReadTable("track.txt", opts); err != nil {
		log.Printf("Expected error: %v", err)
	}

	// Try to read a non-existent table
	if _, err := safeReadTable("NONEXISTENT.txt", geotable.DefaultReadOptions()); err != nil {
		log.Printf("Expected error: %v", err)
	}
}
