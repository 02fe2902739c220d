package codec

import "fmt"

// ErrBadFormat indicates an unparsable binary record layout
type ErrBadFormat struct {
	Spec   string
	Reason string
}

func (e *ErrBadFormat) Error() string {
	return fmt.Sprintf("bad binary format %q: %s", e.Spec, e.Reason)
}

// ErrSwapWidth indicates a byte-swap group size other than 2, 4 or 8
type ErrSwapWidth struct {
	Width int
}

func (e *ErrSwapWidth) Error() string {
	return fmt.Sprintf("invalid swap width %d (must be 2, 4 or 8)", e.Width)
}

// ErrSwapLength indicates a swap window not made of whole groups
type ErrSwapLength struct {
	Length int64
	Width  int
}

func (e *ErrSwapLength) Error() string {
	return fmt.Sprintf("swap length %d is not a multiple of the swap width %d", e.Length, e.Width)
}
