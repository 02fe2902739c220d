package parser

import (
	"fmt"
)

// ErrInvalidRegion indicates a longitude window that cannot unwrap
// periodic coordinates.
type ErrInvalidRegion struct {
	West, East float64
}

func (e *ErrInvalidRegion) Error() string {
	return fmt.Sprintf("invalid region: west=%g east=%g (need west < east and east-west <= 360)",
		e.West, e.East)
}

// ErrInvalidConfig indicates a reader or writer setting out of range.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ErrRead wraps an I/O failure with the position it occurred at.
type ErrRead struct {
	Table string
	Line  int
	Err   error
}

func (e *ErrRead) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s: read failed at record %d: %v", e.Table, e.Line, e.Err)
	}
	return fmt.Sprintf("read failed at record %d: %v", e.Line, e.Err)
}

func (e *ErrRead) Unwrap() error { return e.Err }
