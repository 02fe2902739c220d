package geotable

import (
	"io"
	"log/slog"

	"github.com/beetlebugorg/geotable/internal/codec"
)

// SwapOptions configures SwapBytes.
type SwapOptions struct {
	// Width is the group size in bytes: 2, 4 or 8.
	Width int
	// Offset bytes are copied through unchanged before swapping starts.
	Offset int64
	// Length limits the swapped window; 0 swaps to end of input.
	Length int64

	Logger *slog.Logger
}

// DefaultSwapOptions swaps 4-byte groups over the whole input.
func DefaultSwapOptions() SwapOptions {
	return SwapOptions{Width: 4}
}

// SwapBytes copies src to dst, reversing the byte order of every
// Width-sized group in the window. Both streams are closed on return.
func SwapBytes(dst io.WriteCloser, src io.ReadCloser, opts SwapOptions) error {
	return codec.SwapStream(dst, src, codec.SwapOptions{
		Width:  opts.Width,
		Offset: opts.Offset,
		Length: opts.Length,
		Logger: wrapLogger(opts.Logger),
	})
}
