package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/beetlebugorg/geotable/internal/logging"
)

// DefaultSwapBuffer is the streaming buffer size of SwapStream. It is a
// multiple of every swap width.
const DefaultSwapBuffer = 64 * 1024

// SwapOptions configures SwapStream.
type SwapOptions struct {
	// Width is the group size in bytes: 2, 4 or 8.
	Width int

	// Offset is the number of leading bytes copied through unchanged.
	Offset int64

	// Length is the size of the swapped window; 0 swaps to end of input.
	Length int64

	// BufferSize overrides DefaultSwapBuffer. It is rounded down to a
	// multiple of 8.
	BufferSize int

	Logger *logging.Logger
}

// SwapBytes reverses the byte order of each width-sized group in b.
// Trailing bytes that do not fill a group are left alone.
func SwapBytes(b []byte, width int) {
	for i := 0; i+width <= len(b); i += width {
		g := b[i : i+width]
		for l, r := 0, width-1; l < r; l, r = l+1, r-1 {
			g[l], g[r] = g[r], g[l]
		}
	}
}

// SwapStream copies src to dst, reversing the bytes of every Width-sized
// group inside the window [Offset, Offset+Length). All other bytes pass
// through unchanged.
//
// SwapStream owns both streams and closes them on every return path. A
// Length that is not a whole number of groups is rejected before anything
// is written. If the input ends inside a group, the partial group is
// written unswapped and a warning is logged.
func SwapStream(dst io.WriteCloser, src io.ReadCloser, opts SwapOptions) (err error) {
	defer func() {
		rerr := src.Close()
		werr := dst.Close()
		if err == nil && werr != nil {
			err = fmt.Errorf("failed to close output: %w", werr)
		}
		if err == nil && rerr != nil {
			err = fmt.Errorf("failed to close input: %w", rerr)
		}
	}()

	log := logging.OrNoop(opts.Logger).WithComponent("swab")
	switch opts.Width {
	case 2, 4, 8:
	default:
		return &ErrSwapWidth{Width: opts.Width}
	}
	if opts.Length < 0 || opts.Length%int64(opts.Width) != 0 {
		return &ErrSwapLength{Length: opts.Length, Width: opts.Width}
	}
	if opts.Offset < 0 {
		return fmt.Errorf("negative swap offset %d", opts.Offset)
	}

	size := opts.BufferSize
	if size <= 0 {
		size = DefaultSwapBuffer
	}
	size -= size % 8
	if size == 0 {
		size = 8
	}
	buf := make([]byte, size)

	if opts.Offset > 0 {
		n, err := io.CopyBuffer(dst, io.LimitReader(src, opts.Offset), buf)
		if err != nil {
			return fmt.Errorf("failed to copy leading bytes: %w", err)
		}
		if n < opts.Offset {
			log.Warn("input ended before the swap window", "offset", opts.Offset, "read", n)
			return nil
		}
	}

	remaining := opts.Length
	toEOF := opts.Length == 0
	for toEOF || remaining > 0 {
		want := int64(len(buf))
		if !toEOF && remaining < want {
			want = remaining
		}
		n, rerr := io.ReadFull(src, buf[:want])
		if tail := n % opts.Width; tail != 0 {
			log.Warn("partial group at end of input left unswapped", "bytes", tail, "width", opts.Width)
		}
		SwapBytes(buf[:n], opts.Width)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return fmt.Errorf("failed to write swapped bytes: %w", err)
			}
		}
		remaining -= int64(n)
		if errors.Is(rerr, io.EOF) || errors.Is(rerr, io.ErrUnexpectedEOF) {
			if !toEOF && remaining > 0 {
				log.Warn("input ended inside the swap window", "missing", remaining)
			}
			return nil
		}
		if rerr != nil {
			return fmt.Errorf("failed to read input: %w", rerr)
		}
	}

	if _, err := io.CopyBuffer(dst, src, buf); err != nil {
		return fmt.Errorf("failed to copy trailing bytes: %w", err)
	}
	return nil
}
