package ndarray

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonpy/dtype"
	"gonpy/ndshape"
	"gonpy/ndslice"
)

// TestInitFixedBuildsFixedRankShape wires the fixed-rank half of spec.md
// §4.F through Array/AsView: InitFixed must actually select a
// ndshape.Fixed3 (not Dynamic) and its View must read/write correctly.
func TestInitFixedBuildsFixedRankShape(t *testing.T) {
	a, err := InitFixed[int32](dtype.Dtype{Kind: dtype.Int32}, []int{2, 3, 4}, ndshape.RowMajor)
	require.NoError(t, err)

	_, isFixed3 := a.Shape().(*ndshape.Fixed3)
	assert.True(t, isFixed3, "InitFixed(rank 3) should build an ndshape.Fixed3, got %T", a.Shape())

	require.NoError(t, a.Set([]int{1, 2, 3}, 7))
	view := a.AsView()
	v, err := view.Get([]int{1, 2, 3})
	require.NoError(t, err)
	assert.EqualValues(t, 7, v)
}

func TestInitFixedRejectsUnsupportedRank(t *testing.T) {
	_, err := InitFixed[int32](dtype.Dtype{Kind: dtype.Int32}, []int{2}, ndshape.RowMajor)
	assert.ErrorIs(t, err, ndshape.ErrDimensionMismatch)
}

func TestInitZeroFillsAndReportsShape(t *testing.T) {
	a, err := Init[float64](dtype.Dtype{Kind: dtype.Float64}, []int{2, 3}, ndshape.RowMajor)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, a.Shape().Dims())
	v, err := a.Get([]int{1, 2})
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestSetThenGetRoundTrips(t *testing.T) {
	a, err := Init[int32](dtype.Dtype{Kind: dtype.Int32}, []int{2, 2}, ndshape.RowMajor)
	require.NoError(t, err)
	require.NoError(t, a.Set([]int{0, 1}, 42))
	v, err := a.Get([]int{0, 1})
	require.NoError(t, err)
	assert.EqualValues(t, 42, v)
}

func TestGetRankMismatch(t *testing.T) {
	a, err := Init[int32](dtype.Dtype{Kind: dtype.Int32}, []int{2, 2}, ndshape.RowMajor)
	require.NoError(t, err)
	_, err = a.Get([]int{0})
	assert.ErrorIs(t, err, ErrRankMismatch)
}

func TestGetIndexOutOfRange(t *testing.T) {
	a, err := Init[int32](dtype.Dtype{Kind: dtype.Int32}, []int{2, 2}, ndshape.RowMajor)
	require.NoError(t, err)
	_, err = a.Get([]int{0, 5})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestFromByteBufferIsReadOnly(t *testing.T) {
	dt := dtype.Dtype{Kind: dtype.Float64}
	src, err := Init[float64](dt, []int{2}, ndshape.RowMajor)
	require.NoError(t, err)
	require.NoError(t, src.Set([]int{0}, 3.5))

	var buf bytes.Buffer
	require.NoError(t, src.Write(&buf, dt))

	a, err := FromByteBuffer[float64](buf.Bytes())
	require.NoError(t, err)
	assert.True(t, a.ReadOnly())
	v, err := a.Get([]int{0})
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)
	err = a.Set([]int{0}, 1.0)
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestFromReaderThenWriteRoundTrips(t *testing.T) {
	dt := dtype.Dtype{Kind: dtype.Int16}
	src, err := Init[int16](dt, []int{3}, ndshape.RowMajor)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, src.Write(&buf, dt))

	a, err := FromReader[int16](bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.NoError(t, a.Set([]int{0}, 7))

	var out bytes.Buffer
	require.NoError(t, a.Write(&out, dt))

	b2, err := FromReader[int16](bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	v, err := b2.Get([]int{0})
	require.NoError(t, err)
	assert.EqualValues(t, 7, v)
}

func TestViewSliceSharesStorage(t *testing.T) {
	a, err := Init[int32](dtype.Dtype{Kind: dtype.Int32}, []int{4}, ndshape.RowMajor)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		require.NoError(t, a.Set([]int{i}, int32(i)))
	}

	view := a.AsView()
	sub, err := view.Slice([]ndslice.Spec{ndslice.Range(1, 0, true, false, -1)})
	require.NoError(t, err)
	require.NoError(t, sub.Set([]int{0}, 99))

	v, err := a.Get([]int{1})
	require.NoError(t, err)
	assert.EqualValues(t, 99, v)
}
