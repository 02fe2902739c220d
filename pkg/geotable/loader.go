package geotable

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// LoadOptions controls parallel loading behavior and error handling.
//
// The zero value loads serially and stops at the first failure. Start from
// DefaultLoadOptions to load in parallel and keep going past bad tables.
type LoadOptions struct {
	// Read is applied to every table; its Name is replaced by the table's.
	Read ReadOptions

	// Parallel enables concurrent table loading.
	Parallel bool

	// Workers specifies the number of parallel loader goroutines.
	// If 0, defaults to runtime.NumCPU().
	Workers int

	// SkipErrors causes loading to continue when individual tables fail.
	// Failed tables are skipped and their errors collected. When false,
	// the first error cancels the remaining loads and is returned.
	SkipErrors bool

	// Progress is called after each table is loaded (successfully or
	// not) with the number processed so far and the total.
	Progress func(loaded, total int)

	// ErrorLog receives one line per failed table.
	ErrorLog io.Writer
}

// DefaultLoadOptions returns load options with sensible defaults:
// parallel loading on every CPU, default read options, and failed tables
// skipped.
//
// Example:
//
//	opts := geotable.DefaultLoadOptions()
//	opts.Workers = 4
//	opts.Read.Columns = "0x,1y"
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Read:       DefaultReadOptions(),
		Parallel:   true,
		Workers:    runtime.NumCPU(),
		SkipErrors: true,
	}
}

// LoadTable opens name from src and reads it.
//
// The stream is decompressed as the source dictates and closed before
// LoadTable returns. opts.Name is set to name, so diagnostics logged
// while reading carry the table name.
//
// Example:
//
//	src := geotable.FileSource{Root: "surveys"}
//	t, err := geotable.LoadTable(ctx, src, "leg01.txt.gz", geotable.DefaultReadOptions())
//	if errors.Is(err, geotable.ErrNotFound) {
//	    // no such leg
//	}
func LoadTable(ctx context.Context, src Source, name string, opts ReadOptions) (*Table, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	opts.Name = name
	return ReadTable(rc, opts)
}

// LoadDataset reads the named tables from src into one Dataset, keeping
// the order of names.
//
// Tables are read by up to Workers goroutines when Parallel is set and
// one at a time otherwise. Each table gets its position in names as its
// ID, whatever order the reads finish in.
//
// The function respects LoadOptions:
//   - Parallel: Enable/disable parallel loading
//   - Workers: Number of concurrent loaders (defaults to NumCPU)
//   - SkipErrors: Continue loading despite individual table failures
//   - Progress: Optional callback for progress updates
//   - ErrorLog: Optional writer for error details
//
// With SkipErrors the dataset holds every table that loaded and the
// returned slice lists the failures. Without it the first failure
// cancels the remaining work and is returned alone, with a nil dataset.
// Cancelling ctx does the same.
//
// Example:
//
//	src := geotable.FileSource{Root: "surveys"}
//	ds, errs := geotable.LoadDataset(ctx, src, []string{"a.txt", "b.txt.gz"}, geotable.LoadOptions{
//	    Read:       geotable.DefaultReadOptions(),
//	    Parallel:   true,
//	    Workers:    4,
//	    SkipErrors: true,
//	    Progress: func(loaded, total int) {
//	        fmt.Printf("\rLoading: %d/%d", loaded, total)
//	    },
//	    ErrorLog: os.Stderr,
//	})
//
//	if len(errs) > 0 {
//	    fmt.Printf("\nSkipped %d tables due to errors\n", len(errs))
//	}
//	fmt.Printf("\nLoaded %d records\n", ds.NumRecords())
func LoadDataset(ctx context.Context, src Source, names []string, opts LoadOptions) (*Dataset, []error) {
	if len(names) == 0 {
		return NewDataset(), nil
	}

	workers := 1
	if opts.Parallel {
		workers = opts.Workers
		if workers <= 0 {
			workers = runtime.NumCPU()
		}
	}
	workers = min(workers, len(names))

	tables := make([]*Table, len(names))
	failures := make([]error, len(names))

	var mu sync.Mutex
	loaded := 0
	done := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		loaded++
		if err != nil && opts.ErrorLog != nil {
			fmt.Fprintf(opts.ErrorLog, "Error loading table: %v\n", err)
		}
		if opts.Progress != nil {
			opts.Progress(loaded, len(names))
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := LoadTable(gctx, src, name, opts.Read)
			if err != nil {
				err = fmt.Errorf("%s: %w", name, err)
				done(err)
				if opts.SkipErrors {
					failures[i] = err
					return nil
				}
				return err
			}
			tables[i] = t
			done(nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, []error{err}
	}

	ds := NewDataset()
	var errs []error
	for i, t := range tables {
		if t != nil {
			ds.Add(t)
		}
		if failures[i] != nil {
			errs = append(errs, failures[i])
		}
	}
	return ds, errs
}
