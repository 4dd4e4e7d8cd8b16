package ndshape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonpy/dtype"
)

var f64 = dtype.Dtype{Kind: dtype.Float64}

func TestSizeCheckedScalarIsOne(t *testing.T) {
	n, ok := SizeChecked(f64, nil)
	require.True(t, ok)
	assert.Equal(t, 1, n)
}

func TestSizeCheckedZeroDim(t *testing.T) {
	n, ok := SizeChecked(f64, []int{3, 0, 4})
	require.True(t, ok)
	assert.Equal(t, 0, n)
}

func TestSizeCheckedProduct(t *testing.T) {
	n, ok := SizeChecked(f64, []int{3, 4})
	require.True(t, ok)
	assert.Equal(t, 12, n)
}

func TestSizeCheckedOverflow(t *testing.T) {
	_, ok := SizeChecked(f64, []int{1 << 40, 1 << 40, 1 << 40})
	assert.False(t, ok)
}

func TestStridesForCOrder(t *testing.T) {
	strides := StridesFor([]int{2, 3, 4}, RowMajor)
	assert.Equal(t, []int{12, 4, 1}, strides)
	assert.Equal(t, 1, strides[len(strides)-1])
}

func TestStridesForFOrder(t *testing.T) {
	strides := StridesFor([]int{2, 3, 4}, ColumnMajor)
	assert.Equal(t, []int{1, 2, 6}, strides)
	assert.Equal(t, 1, strides[0])
}

func TestStridesForZeroDim(t *testing.T) {
	strides := StridesFor([]int{2, 0, 4}, RowMajor)
	assert.Equal(t, []int{0, 0, 0}, strides)
}

func TestStridesForEmpty(t *testing.T) {
	assert.Equal(t, []int{}, StridesFor(nil, RowMajor))
}

func TestNewFixed2DimensionMismatch(t *testing.T) {
	_, err := NewFixed2(f64, []int{1, 2, 3}, RowMajor)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestNewFixed3RoundTrip(t *testing.T) {
	s, err := NewFixed3(f64, []int{2, 3, 4}, RowMajor)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, s.Dims())
	assert.Equal(t, 24, s.NumElements())
}

// TestStrideInvariant checks spec.md §8 item 3: for every valid index
// tuple, the dot product of idx and strides lies in [0, num_elements).
func TestStrideInvariant(t *testing.T) {
	dims := []int{2, 3, 4}
	for _, order := range []Order{RowMajor, ColumnMajor} {
		strides := StridesFor(dims, order)
		n := 1
		for _, d := range dims {
			n *= d
		}
		for a := 0; a < dims[0]; a++ {
			for b := 0; b < dims[1]; b++ {
				for c := 0; c < dims[2]; c++ {
					off := a*strides[0] + b*strides[1] + c*strides[2]
					assert.GreaterOrEqual(t, off, 0)
					assert.Less(t, off, n)
				}
			}
		}
	}
}
