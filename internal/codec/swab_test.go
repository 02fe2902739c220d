package codec

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closingReader struct {
	io.Reader
	closed bool
}

func (r *closingReader) Close() error {
	r.closed = true
	return nil
}

type closingWriter struct {
	bytes.Buffer
	closed bool
	fail   bool
}

func (w *closingWriter) Write(p []byte) (int, error) {
	if w.fail {
		return 0, errors.New("disk full")
	}
	return w.Buffer.Write(p)
}

func (w *closingWriter) Close() error {
	w.closed = true
	return nil
}

func swap(t *testing.T, in []byte, opts SwapOptions) ([]byte, error) {
	t.Helper()
	src := &closingReader{Reader: bytes.NewReader(in)}
	dst := &closingWriter{}
	err := SwapStream(dst, src, opts)
	assert.True(t, src.closed, "input must be closed")
	assert.True(t, dst.closed, "output must be closed")
	return dst.Bytes(), err
}

func sequence(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func TestSwapStreamWindow(t *testing.T) {
	in := sequence(16)
	out, err := swap(t, in, SwapOptions{Width: 4, Offset: 2, Length: 8})
	require.NoError(t, err)

	want := []byte{0, 1, 5, 4, 3, 2, 9, 8, 7, 6, 10, 11, 12, 13, 14, 15}
	assert.Equal(t, want, out)
}

func TestSwapStreamToEOF(t *testing.T) {
	in := sequence(8)
	out, err := swap(t, in, SwapOptions{Width: 2})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 3, 2, 5, 4, 7, 6}, out)
}

func TestSwapStreamTwiceIsIdentity(t *testing.T) {
	in := sequence(1000)
	for _, width := range []int{2, 4, 8} {
		opts := SwapOptions{Width: width, Offset: 16, Length: 800, BufferSize: 24}
		once, err := swap(t, in, opts)
		require.NoError(t, err)
		assert.NotEqual(t, in, once)
		twice, err := swap(t, once, opts)
		require.NoError(t, err)
		assert.Equal(t, in, twice, "width %d", width)
	}
}

func TestSwapStreamBadLength(t *testing.T) {
	out, err := swap(t, sequence(16), SwapOptions{Width: 4, Length: 6})
	var lenErr *ErrSwapLength
	require.ErrorAs(t, err, &lenErr)
	assert.Empty(t, out, "nothing may be written")
}

func TestSwapStreamBadWidth(t *testing.T) {
	_, err := swap(t, sequence(16), SwapOptions{Width: 3})
	var widthErr *ErrSwapWidth
	assert.ErrorAs(t, err, &widthErr)
}

func TestSwapStreamPartialTail(t *testing.T) {
	out, err := swap(t, sequence(10), SwapOptions{Width: 4})
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 2, 1, 0, 7, 6, 5, 4, 8, 9}, out)
}

func TestSwapStreamShortInput(t *testing.T) {
	out, err := swap(t, sequence(4), SwapOptions{Width: 2, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, sequence(4), out)
}

func TestSwapStreamWriteError(t *testing.T) {
	src := &closingReader{Reader: bytes.NewReader(sequence(16))}
	dst := &closingWriter{fail: true}
	err := SwapStream(dst, src, SwapOptions{Width: 2})
	assert.Error(t, err)
	assert.True(t, src.closed)
	assert.True(t, dst.closed)
}
