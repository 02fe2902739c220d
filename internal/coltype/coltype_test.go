package coltype

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetRespectsLock(t *testing.T) {
	s := NewSystem()

	assert.True(t, s.Set(In, 2, Lat))
	assert.Equal(t, Lat, s.Type(In, 2))

	s.Lock(In, 2)
	assert.False(t, s.Set(In, 2, Float), "locked column must keep its type")
	assert.Equal(t, Lat, s.Type(In, 2))

	// Output direction is independent
	assert.True(t, s.Set(Out, 2, Float))
	assert.Equal(t, Float, s.Type(Out, 2))

	s.Force(In, 2, AbsTime)
	assert.Equal(t, AbsTime, s.Type(In, 2))
	assert.True(t, s.Locked(In, 2))
}

func TestTypeDefaultsToUnknown(t *testing.T) {
	s := NewSystem()
	assert.Equal(t, Unknown, s.Type(In, 0))
	assert.Equal(t, Unknown, s.Type(Out, 4095))
	assert.Equal(t, Unknown, s.Type(In, -1))
	assert.False(t, s.Set(In, MaxColumns, Float))
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewSystem()
	s.Force(In, 0, Lon)
	c := s.Clone()
	c.Set(In, 1, Lat)
	c.Unlock(In, 0)

	assert.Equal(t, Unknown, s.Type(In, 1))
	assert.True(t, s.Locked(In, 0))
	assert.False(t, c.Locked(In, 0))
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    map[int]Type
		wantErr bool
	}{
		{"geographic shorthand", "g", map[int]Type{0: Lon, 1: Lat}, false},
		{"explicit list", "0x,1y,2T", map[int]Type{0: Lon, 1: Lat, 2: AbsTime}, false},
		{"range", "2-4t", map[int]Type{2: RelTime, 3: RelTime, 4: RelTime}, false},
		{"cartesian", "c", map[int]Type{0: Float, 1: Float}, false},
		{"bad code", "0q", nil, true},
		{"missing column", "x", nil, true},
		{"too many columns", "5000f", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSystem()
			err := s.ParseFlags(In, tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for col, want := range tt.want {
				assert.Equal(t, want, s.Type(In, col), "column %d", col)
				assert.True(t, s.Locked(In, col))
			}
		})
	}
}

func TestSelectionRouting(t *testing.T) {
	sel, err := ParseSelection("2,0,0s2o1")
	require.NoError(t, err)
	require.Equal(t, 3, sel.Len())

	assert.Equal(t, []int{1, 2}, sel.Logical(0))
	assert.Equal(t, []int{0}, sel.Logical(2))
	assert.Empty(t, sel.Logical(1))
	assert.True(t, sel.Consumes(0))
	assert.False(t, sel.Consumes(1))
	assert.Equal(t, 2, sel.MaxPhysical())

	dst := make([]float64, sel.Len())
	sel.Route([]float64{10, 20, 30}, dst)
	assert.Equal(t, []float64{30, 10, 21}, dst)

	sel.Route([]float64{10}, dst)
	assert.True(t, math.IsNaN(dst[0]))
}

func TestSelectionLog10(t *testing.T) {
	sel, err := ParseSelection("0l,1-2")
	require.NoError(t, err)
	assert.Equal(t, 3, sel.Len())

	dst := make([]float64, 3)
	sel.Route([]float64{1000, 5, 6}, dst)
	assert.InDelta(t, 3.0, dst[0], 1e-12)
	assert.Equal(t, 5.0, dst[1])
	assert.Equal(t, 6.0, dst[2])
}

func TestPhysicalType(t *testing.T) {
	s := NewSystem()
	s.Force(In, 0, Lat)
	s.Force(In, 1, Lon)

	sel, err := ParseSelection("1,0")
	require.NoError(t, err)
	s.Select(In, sel)

	// Physical column 1 is logical column 0
	assert.Equal(t, Lat, s.PhysicalType(In, 1))
	assert.Equal(t, Lon, s.PhysicalType(In, 0))
	// Unselected physical columns fall back to their own tag
	assert.Equal(t, Unknown, s.PhysicalType(In, 5))
}

func TestParseSelectionErrors(t *testing.T) {
	for _, spec := range []string{"", "a", "3-1", "0q1", "0s"} {
		_, err := ParseSelection(spec)
		assert.Error(t, err, "spec %q", spec)
	}
}
