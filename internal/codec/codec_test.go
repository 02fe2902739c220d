package codec

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// representable returns sample values exactly representable by kind.
func representable(k Kind) []float64 {
	switch k {
	case Int8:
		return []float64{0, 1, -1, math.MinInt8, math.MaxInt8}
	case Uint8:
		return []float64{0, 1, 200, math.MaxUint8}
	case Int16:
		return []float64{0, -300, math.MinInt16, math.MaxInt16}
	case Uint16:
		return []float64{0, 300, math.MaxUint16}
	case Int32:
		return []float64{0, -70000, math.MinInt32, math.MaxInt32}
	case Uint32:
		return []float64{0, 70000, math.MaxUint32}
	case Int64:
		return []float64{0, -1 << 40, math.MinInt64, 1 << 62}
	case Uint64:
		return []float64{0, 1 << 40, 1 << 63}
	case Float32:
		return []float64{0, 1.5, -2.25, math.MaxFloat32, math.Inf(1)}
	case Float64:
		return []float64{0, 1.0 / 3, -1e300, math.SmallestNonzeroFloat64, math.Inf(-1)}
	}
	return nil
}

func TestRoundTrip(t *testing.T) {
	for _, k := range Kinds {
		for _, swap := range []bool{false, true} {
			c, err := New(k, swap)
			require.NoError(t, err)
			assert.Equal(t, k, c.Kind())
			assert.Equal(t, k.Size(), c.Size())

			vals := representable(k)
			buf := make([]byte, len(vals)*c.Size())
			EncodeN(c, vals, buf)
			got := make([]float64, len(vals))
			DecodeN(c, buf, got)
			assert.Equal(t, vals, got, "kind %s swap=%v", k, swap)
		}
	}
}

func TestFloatNaNRoundTrip(t *testing.T) {
	for _, k := range []Kind{Float32, Float64} {
		c, err := New(k, false)
		require.NoError(t, err)
		buf := make([]byte, c.Size())
		c.Encode(buf, math.NaN())
		assert.True(t, math.IsNaN(c.Decode(buf)))
	}
}

func TestIntegerSaturation(t *testing.T) {
	tests := []struct {
		kind Kind
		in   float64
		want float64
	}{
		{Int8, 1000, math.MaxInt8},
		{Int8, -1000, math.MinInt8},
		{Int8, 12.9, 12},
		{Int8, -12.9, -12},
		{Uint8, -5, 0},
		{Uint16, 1e9, math.MaxUint16},
		{Int32, math.Inf(1), math.MaxInt32},
		{Uint32, math.NaN(), 0},
		{Int64, 1e30, math.MaxInt64},
		{Uint64, 1e30, math.MaxUint64},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			c, err := New(tt.kind, false)
			require.NoError(t, err)
			buf := make([]byte, c.Size())
			c.Encode(buf, tt.in)
			assert.Equal(t, tt.want, c.Decode(buf))
		})
	}
}

func TestUnknownKind(t *testing.T) {
	_, err := New('z', false)
	assert.True(t, errors.Is(err, ErrUnknownType))
	assert.Equal(t, 0, Kind('z').Size())
}

// A swapped reader over big-endian bytes sees what an unswapped reader
// sees over the host's own order.
func TestSwappedFloat32Record(t *testing.T) {
	vals := []float64{1.5, -42.25}
	native := make([]byte, 8)
	foreign := make([]byte, 8)
	for i, v := range vals {
		binary.NativeEndian.PutUint32(native[i*4:], math.Float32bits(float32(v)))
		Order(true).PutUint32(foreign[i*4:], math.Float32bits(float32(v)))
	}

	plain, err := Uniform(Float32, 2, false)
	require.NoError(t, err)
	swapped, err := Uniform(Float32, 2, true)
	require.NoError(t, err)

	a := make([]float64, 2)
	b := make([]float64, 2)
	plain.Decode(native, a)
	swapped.Decode(foreign, b)
	assert.Equal(t, vals, a)
	assert.Equal(t, a, b)

	// Pinned little endian is host independent
	le, err := ParseFormat("2f+L", false)
	require.NoError(t, err)
	leBytes := make([]byte, 8)
	binary.LittleEndian.PutUint32(leBytes, math.Float32bits(1.5))
	binary.LittleEndian.PutUint32(leBytes[4:], math.Float32bits(-42.25))
	c := make([]float64, 2)
	le.Decode(leBytes, c)
	assert.Equal(t, vals, c)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("4x,2d,1i,3x", false)
	require.NoError(t, err)
	require.Equal(t, 3, f.Len())
	assert.Equal(t, 4+16+4+3, f.Size())
	assert.Equal(t, 4, f.Fields[0].Pre)
	assert.Equal(t, 3, f.Fields[2].Post)

	vals := []float64{1.25, -7, 99}
	rec := make([]byte, f.Size())
	f.Encode(vals, rec)
	assert.Equal(t, []byte("    "), rec[:4])
	assert.Equal(t, []byte("   "), rec[len(rec)-3:])

	got := make([]float64, 3)
	f.Decode(rec, got)
	assert.Equal(t, vals, got)

	bare, err := ParseFormat("3", false)
	require.NoError(t, err)
	assert.Equal(t, 24, bare.Size())

	w, err := ParseFormat("1dw", false)
	require.NoError(t, err)
	assert.Equal(t, Order(true), w.Fields[0].Codec.(float64Codec).order)
}

func TestParseFormatErrors(t *testing.T) {
	for _, spec := range []string{"", "+L", "4x", "2q", "0d", "2dd"} {
		_, err := ParseFormat(spec, false)
		assert.Error(t, err, "spec %q", spec)
	}
}

func TestAllNaN(t *testing.T) {
	nan := math.NaN()
	assert.True(t, AllNaN([]float64{nan, nan}))
	assert.False(t, AllNaN([]float64{nan, 1}))
	assert.False(t, AllNaN(nil))
}

func BenchmarkDecodeFloat64(b *testing.B) {
	f, _ := Uniform(Float64, 8, false)
	rec := make([]byte, f.Size())
	dst := make([]float64, f.Len())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Decode(rec, dst)
	}
}
