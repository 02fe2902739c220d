package geotable

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSegments is returned when a source holds no data records.
	ErrNoSegments = errors.New("geotable: table has no data records")
	// ErrNotFound is returned when a source has no table of that name.
	ErrNotFound = errors.New("geotable: table not found")
)

// ErrOption indicates a malformed reader or writer option.
type ErrOption struct {
	Option string
	Value  string
	Err    error
}

func (e *ErrOption) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Option, e.Value, e.Err)
}

func (e *ErrOption) Unwrap() error { return e.Err }
