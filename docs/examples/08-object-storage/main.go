package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/beetlebugorg/geotable/pkg/geotable"
)

func main() {
	ctx := context.Background()

	src, err := geotable.DialObjectSource(
		"localhost:9000",
		os.Getenv("MINIO_ACCESS_KEY"),
		os.Getenv("MINIO_SECRET_KEY"),
		false,
		"surveys",
		"2024/",
	)
	if err != nil {
		log.Fatal(err)
	}

	names, err := src.List(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Objects: %d\n", len(names))

	opts := geotable.DefaultLoadOptions()
	opts.Workers = 8
	ds, errs := geotable.LoadDataset(ctx, src, names, opts)
	for _, err := range errs {
		log.Printf("skipped: %v", err)
	}
	if ds == nil {
		return
	}

	fmt.Printf("Tables: %d\n", len(ds.Tables))
	fmt.Printf("Segments: %d\n", ds.NumSegments())
	fmt.Printf("Records: %d\n", ds.NumRecords())
}
