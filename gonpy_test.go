package gonpy

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonpy/ndarray"
)

func TestNewWriteReadRoundTrips(t *testing.T) {
	a, err := New[float64](Dtype{Kind: Float64}, []int{2, 2}, RowMajor)
	require.NoError(t, err)
	require.NoError(t, a.Set([]int{0, 0}, 1))
	require.NoError(t, a.Set([]int{1, 1}, 2))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, a, Dtype{Kind: Float64}))

	back, err := Read[float64](&buf)
	require.NoError(t, err)
	v00, err := back.Get([]int{0, 0})
	require.NoError(t, err)
	v11, err := back.Get([]int{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 1.0, v00)
	assert.Equal(t, 2.0, v11)
}

func TestReadSliceIsZeroCopyAndReadOnly(t *testing.T) {
	a, err := New[int32](Dtype{Kind: Int32}, []int{3}, RowMajor)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, a, Dtype{Kind: Int32}))

	b := buf.Bytes()
	ro, err := ReadSlice[int32](b)
	require.NoError(t, err)
	assert.ErrorIs(t, ro.Set([]int{0}, 1), ndarray.ErrReadOnly)

	// Overwriting the last element's bytes in b must show through ro.
	copy(b[len(b)-4:], []byte{1, 1, 1, 1})
	v, err := ro.Get([]int{2})
	require.NoError(t, err)
	assert.EqualValues(t, 0x01010101, v)
}

func TestToDenseFromDenseRoundTrips(t *testing.T) {
	a, err := New[float64](Dtype{Kind: Float64}, []int{2, 2}, RowMajor)
	require.NoError(t, err)
	require.NoError(t, a.Set([]int{0, 1}, 5))

	dense, err := ToDense(a)
	require.NoError(t, err)
	assert.Equal(t, 5.0, dense.At(0, 1))

	back, err := FromDense(dense)
	require.NoError(t, err)
	v, err := back.Get([]int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}
