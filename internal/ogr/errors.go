package ogr

import "fmt"

// ErrDemoted describes the tag that made a table fall back to plain text
type ErrDemoted struct {
	Tag    string
	Reason string
}

func (e *ErrDemoted) Error() string {
	return fmt.Sprintf("bad OGR/GMT metadata at @%s: %s", e.Tag, e.Reason)
}
