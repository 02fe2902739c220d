package coltype

import "fmt"

// ErrColumnLimit indicates a column index beyond the field-count limit
type ErrColumnLimit struct {
	Column int
	Limit  int
}

func (e *ErrColumnLimit) Error() string {
	return fmt.Sprintf("column %d exceeds the limit of %d columns", e.Column, e.Limit)
}

// ErrBadSpec indicates an unparsable column type or selection list
type ErrBadSpec struct {
	Spec   string
	Reason string
}

func (e *ErrBadSpec) Error() string {
	return fmt.Sprintf("bad column specification %q: %s", e.Spec, e.Reason)
}
