package codec

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/beetlebugorg/geotable/internal/coltype"
)

// Field is one column of a fixed-format binary record: its codec and
// the number of filler bytes skipped before and after it.
type Field struct {
	Codec Codec
	Pre   int
	Post  int
}

// Format describes the layout of one binary record.
type Format struct {
	Fields []Field
	size   int
}

// Uniform returns a format of n columns of the same kind.
func Uniform(kind Kind, n int, swap bool) (*Format, error) {
	c, err := New(kind, swap)
	if err != nil {
		return nil, err
	}
	fields := make([]Field, n)
	for i := range fields {
		fields[i].Codec = c
	}
	return newFormat(fields), nil
}

func newFormat(fields []Field) *Format {
	f := &Format{Fields: fields}
	for _, fd := range fields {
		f.size += fd.Pre + fd.Codec.Size() + fd.Post
	}
	return f
}

// ParseFormat parses a layout such as "3d", "2f,1i", "4x,2d,8x" or
// "2dw,1I+B".
//
// Each item is [count]kind[w]. Kind x means count filler bytes, which
// are attached as a pre-skip to the next column or as a post-skip to
// the last one. A w suffix swaps that item's bytes relative to swap. A
// trailing +L or +B pins the whole record to little or big endian and
// overrides swap. A bare count means that many float64 columns.
func ParseFormat(spec string, swap bool) (*Format, error) {
	spec = strings.TrimSpace(spec)
	var pinned binary.ByteOrder
	switch {
	case strings.HasSuffix(spec, "+L"):
		pinned = binary.LittleEndian
		spec = strings.TrimSuffix(spec, "+L")
	case strings.HasSuffix(spec, "+B"):
		pinned = binary.BigEndian
		spec = strings.TrimSuffix(spec, "+B")
	}
	if spec == "" {
		return nil, &ErrBadFormat{Spec: spec, Reason: "empty format"}
	}

	var fields []Field
	pending := 0
	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		end := 0
		for end < len(item) && item[end] >= '0' && item[end] <= '9' {
			end++
		}
		count := 1
		if end > 0 {
			n, err := strconv.Atoi(item[:end])
			if err != nil || n <= 0 {
				return nil, &ErrBadFormat{Spec: item, Reason: "bad repeat count"}
			}
			count = n
		}
		rest := item[end:]
		if rest == "" {
			rest = string(Float64)
		}
		if rest == "x" {
			pending += count
			continue
		}
		itemSwap := swap
		if len(rest) == 2 && rest[1] == 'w' {
			itemSwap = !swap
			rest = rest[:1]
		}
		if len(rest) != 1 {
			return nil, &ErrBadFormat{Spec: item, Reason: "expected one type letter"}
		}
		order := Order(itemSwap)
		if pinned != nil {
			order = pinned
		}
		c, err := NewWithOrder(Kind(rest[0]), order)
		if err != nil {
			return nil, &ErrBadFormat{Spec: item, Reason: err.Error()}
		}
		for i := 0; i < count; i++ {
			fields = append(fields, Field{Codec: c, Pre: pending})
			pending = 0
		}
		if len(fields) > coltype.MaxColumns {
			return nil, &coltype.ErrColumnLimit{Column: len(fields), Limit: coltype.MaxColumns}
		}
	}
	if len(fields) == 0 {
		return nil, &ErrBadFormat{Spec: spec, Reason: "no columns"}
	}
	fields[len(fields)-1].Post += pending
	return newFormat(fields), nil
}

// Len returns the number of columns.
func (f *Format) Len() int { return len(f.Fields) }

// Size returns the record length in bytes, skips included.
func (f *Format) Size() int { return f.size }

// Decode decodes one record of Size() bytes into dst, which must hold
// Len() values.
func (f *Format) Decode(rec []byte, dst []float64) {
	off := 0
	for i, fd := range f.Fields {
		off += fd.Pre
		dst[i] = fd.Codec.Decode(rec[off:])
		off += fd.Codec.Size() + fd.Post
	}
}

// Encode writes src into rec, filling skipped bytes with spaces. Missing
// trailing values are written as NaN.
func (f *Format) Encode(src []float64, rec []byte) {
	off := 0
	for i, fd := range f.Fields {
		off += fill(rec[off : off+fd.Pre])
		v := math.NaN()
		if i < len(src) {
			v = src[i]
		}
		fd.Codec.Encode(rec[off:], v)
		off += fd.Codec.Size()
		off += fill(rec[off : off+fd.Post])
	}
}

func fill(b []byte) int {
	for i := range b {
		b[i] = ' '
	}
	return len(b)
}

// AllNaN reports whether every value in vals is NaN. Binary tables mark
// segment boundaries this way. An empty window is never a boundary.
func AllNaN(vals []float64) bool {
	if len(vals) == 0 {
		return false
	}
	for _, v := range vals {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}
