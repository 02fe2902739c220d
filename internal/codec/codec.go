// Package codec converts between the primitive binary field types of a
// fixed-format table record and float64, and byte-swaps raw streams.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrUnknownType is returned for a type code outside c/u/h/H/i/I/l/L/f/d.
var ErrUnknownType = errors.New("codec: unknown binary type code")

// Kind is the one-letter code of a primitive binary field type.
type Kind byte

const (
	Int8    Kind = 'c'
	Uint8   Kind = 'u'
	Int16   Kind = 'h'
	Uint16  Kind = 'H'
	Int32   Kind = 'i'
	Uint32  Kind = 'I'
	Int64   Kind = 'l'
	Uint64  Kind = 'L'
	Float32 Kind = 'f'
	Float64 Kind = 'd'
)

// Kinds lists every supported type code.
var Kinds = []Kind{Int8, Uint8, Int16, Uint16, Int32, Uint32, Int64, Uint64, Float32, Float64}

// Size returns the width in bytes of one value, or 0 for an unknown code.
func (k Kind) Size() int {
	switch k {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	}
	return 0
}

func (k Kind) String() string {
	switch k {
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Int64:
		return "int64"
	case Uint64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	}
	return fmt.Sprintf("Kind(%q)", byte(k))
}

// Codec reads and writes one primitive type, widening to and narrowing
// from float64. src and dst must hold at least Size() bytes.
type Codec interface {
	Kind() Kind
	Size() int
	Decode(src []byte) float64
	Encode(dst []byte, v float64)
}

// New returns the codec for kind. The unswapped byte order is the
// host's; swap selects the opposite order.
func New(kind Kind, swap bool) (Codec, error) {
	return NewWithOrder(kind, Order(swap))
}

// NewWithOrder returns the codec for kind using an explicit byte order.
func NewWithOrder(kind Kind, order binary.ByteOrder) (Codec, error) {
	switch kind {
	case Int8:
		return int8Codec{}, nil
	case Uint8:
		return uint8Codec{}, nil
	case Int16:
		return int16Codec{order}, nil
	case Uint16:
		return uint16Codec{order}, nil
	case Int32:
		return int32Codec{order}, nil
	case Uint32:
		return uint32Codec{order}, nil
	case Int64:
		return int64Codec{order}, nil
	case Uint64:
		return uint64Codec{order}, nil
	case Float32:
		return float32Codec{order}, nil
	case Float64:
		return float64Codec{order}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, byte(kind))
}

var hostLittle = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// Order returns the host byte order, or the opposite one when swap is set.
func Order(swap bool) binary.ByteOrder {
	if hostLittle != swap {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// DecodeN decodes len(dst) consecutive values from src.
func DecodeN(c Codec, src []byte, dst []float64) {
	size := c.Size()
	for i := range dst {
		dst[i] = c.Decode(src[i*size:])
	}
}

// EncodeN encodes src into consecutive values of dst.
func EncodeN(c Codec, src []float64, dst []byte) {
	size := c.Size()
	for i, v := range src {
		c.Encode(dst[i*size:], v)
	}
}

// narrow truncates v toward zero and clamps it into [lo, hi]. NaN
// becomes 0.
func narrow(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Trunc(v)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type int8Codec struct{}

func (int8Codec) Kind() Kind                { return Int8 }
func (int8Codec) Size() int                 { return 1 }
func (int8Codec) Decode(src []byte) float64 { return float64(int8(src[0])) }
func (int8Codec) Encode(dst []byte, v float64) {
	dst[0] = byte(int8(narrow(v, math.MinInt8, math.MaxInt8)))
}

type uint8Codec struct{}

func (uint8Codec) Kind() Kind                { return Uint8 }
func (uint8Codec) Size() int                 { return 1 }
func (uint8Codec) Decode(src []byte) float64 { return float64(src[0]) }
func (uint8Codec) Encode(dst []byte, v float64) {
	dst[0] = uint8(narrow(v, 0, math.MaxUint8))
}

type int16Codec struct{ order binary.ByteOrder }

func (int16Codec) Kind() Kind { return Int16 }
func (int16Codec) Size() int  { return 2 }
func (c int16Codec) Decode(src []byte) float64 {
	return float64(int16(c.order.Uint16(src)))
}
func (c int16Codec) Encode(dst []byte, v float64) {
	c.order.PutUint16(dst, uint16(int16(narrow(v, math.MinInt16, math.MaxInt16))))
}

type uint16Codec struct{ order binary.ByteOrder }

func (uint16Codec) Kind() Kind { return Uint16 }
func (uint16Codec) Size() int  { return 2 }
func (c uint16Codec) Decode(src []byte) float64 {
	return float64(c.order.Uint16(src))
}
func (c uint16Codec) Encode(dst []byte, v float64) {
	c.order.PutUint16(dst, uint16(narrow(v, 0, math.MaxUint16)))
}

type int32Codec struct{ order binary.ByteOrder }

func (int32Codec) Kind() Kind { return Int32 }
func (int32Codec) Size() int  { return 4 }
func (c int32Codec) Decode(src []byte) float64 {
	return float64(int32(c.order.Uint32(src)))
}
func (c int32Codec) Encode(dst []byte, v float64) {
	c.order.PutUint32(dst, uint32(int32(narrow(v, math.MinInt32, math.MaxInt32))))
}

type uint32Codec struct{ order binary.ByteOrder }

func (uint32Codec) Kind() Kind { return Uint32 }
func (uint32Codec) Size() int  { return 4 }
func (c uint32Codec) Decode(src []byte) float64 {
	return float64(c.order.Uint32(src))
}
func (c uint32Codec) Encode(dst []byte, v float64) {
	c.order.PutUint32(dst, uint32(narrow(v, 0, math.MaxUint32)))
}

// 2^63 and 2^64 are exact in float64; MaxInt64 and MaxUint64 are not.
const (
	two63 = 9223372036854775808.0
	two64 = 18446744073709551616.0
)

type int64Codec struct{ order binary.ByteOrder }

func (int64Codec) Kind() Kind { return Int64 }
func (int64Codec) Size() int  { return 8 }
func (c int64Codec) Decode(src []byte) float64 {
	return float64(int64(c.order.Uint64(src)))
}
func (c int64Codec) Encode(dst []byte, v float64) {
	var n int64
	switch v = narrow(v, -two63, two63); {
	case v >= two63:
		n = math.MaxInt64
	default:
		n = int64(v)
	}
	c.order.PutUint64(dst, uint64(n))
}

type uint64Codec struct{ order binary.ByteOrder }

func (uint64Codec) Kind() Kind { return Uint64 }
func (uint64Codec) Size() int  { return 8 }
func (c uint64Codec) Decode(src []byte) float64 {
	return float64(c.order.Uint64(src))
}
func (c uint64Codec) Encode(dst []byte, v float64) {
	var n uint64
	switch v = narrow(v, 0, two64); {
	case v >= two64:
		n = math.MaxUint64
	default:
		n = uint64(v)
	}
	c.order.PutUint64(dst, n)
}

type float32Codec struct{ order binary.ByteOrder }

func (float32Codec) Kind() Kind { return Float32 }
func (float32Codec) Size() int  { return 4 }
func (c float32Codec) Decode(src []byte) float64 {
	return float64(math.Float32frombits(c.order.Uint32(src)))
}
func (c float32Codec) Encode(dst []byte, v float64) {
	c.order.PutUint32(dst, math.Float32bits(float32(v)))
}

type float64Codec struct{ order binary.ByteOrder }

func (float64Codec) Kind() Kind { return Float64 }
func (float64Codec) Size() int  { return 8 }
func (c float64Codec) Decode(src []byte) float64 {
	return math.Float64frombits(c.order.Uint64(src))
}
func (c float64Codec) Encode(dst []byte, v float64) {
	c.order.PutUint64(dst, math.Float64bits(v))
}
