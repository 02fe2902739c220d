package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/geotable/pkg/geotable"
)

func main() {
	table, err := geotable.ReadFile("track.txt", geotable.DefaultReadOptions())
	if err != nil {
		log.Fatal(err)
	}

	// Write one copy per compression
	for _, c := range []geotable.Compression{
		geotable.CompressionGzip,
		geotable.CompressionZstd,
		geotable.CompressionLZ4,
	} {
		path := "track.txt." + c.String()
		opts := geotable.DefaultWriteOptions()
		opts.Compression = c
		if err := geotable.WriteFile(path, table, opts); err != nil {
			log.Fatal(err)
		}

		// Compression is detected from the stream, not the file name
		back, err := geotable.ReadFile(path, geotable.DefaultReadOptions())
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s: %d segments, %d records\n", path, back.NumSegments(), back.NumRecords())
	}
}
