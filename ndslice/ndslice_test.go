package ndslice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestApplyIndexEllipsisIndex is scenario S6 from spec.md §8: a (2,2,3)
// C-order array, slices [Index(1), Ellipsis, Index(1)].
func TestApplyIndexEllipsisIndex(t *testing.T) {
	dims := []int{2, 2, 3}
	strides := []int{6, 3, 1}

	outDims, outStrides, offset, err := Apply(dims, strides, []Spec{Index(1), Ellipsis(), Index(1)})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, outDims)
	assert.Equal(t, []int{3}, outStrides)
	assert.Equal(t, 7, offset)

	data := make([]int, 12)
	for i := range data {
		data[i] = i + 1
	}
	var got []int
	for i := 0; i < outDims[0]; i++ {
		got = append(got, data[offset+i*outStrides[0]])
	}
	assert.Equal(t, []int{8, 11}, got)
}

// TestApplyNegativeStepRange is scenario S7: a view of (4,) with elements
// 0..3, range(start=nil, end=0, step=-1).
func TestApplyNegativeStepRange(t *testing.T) {
	dims := []int{4}
	strides := []int{1}

	outDims, outStrides, offset, err := Apply(dims, strides, []Spec{Range(0, 0, false, true, -1)})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, outDims)
	assert.Equal(t, []int{-1}, outStrides)

	data := []int{0, 1, 2, 3}
	var got []int
	for i := 0; i < outDims[0]; i++ {
		got = append(got, data[offset+i*outStrides[0]])
	}
	assert.Equal(t, []int{3, 2, 1}, got)
}

// TestApplyEllipsisAloneIsIdentity is spec.md §8 item 7: view.slice([Ellipsis])
// yields the same dims as the input view.
func TestApplyEllipsisAloneIsIdentity(t *testing.T) {
	dims := []int{2, 3}
	strides := []int{3, 1}

	outDims, outStrides, offset, err := Apply(dims, strides, []Spec{Ellipsis()})
	require.NoError(t, err)
	assert.Equal(t, dims, outDims)
	assert.Equal(t, strides, outStrides)
	assert.Equal(t, 0, offset)
}

func TestApplyMultipleEllipsisRejected(t *testing.T) {
	_, _, _, err := Apply([]int{2, 3}, []int{3, 1}, []Spec{Ellipsis(), Ellipsis()})
	assert.ErrorIs(t, err, ErrMultipleEllipsis)
}

func TestApplyDimensionMismatch(t *testing.T) {
	_, _, _, err := Apply([]int{2, 3}, []int{3, 1}, []Spec{Index(0)})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestApplyIndexOutOfRange(t *testing.T) {
	_, _, _, err := Apply([]int{2}, []int{1}, []Spec{Index(5)})
	assert.ErrorIs(t, err, ErrInvalidIndexValue)
}

func TestApplyNegativeIndex(t *testing.T) {
	outDims, _, offset, err := Apply([]int{4}, []int{1}, []Spec{Index(-1)})
	require.NoError(t, err)
	assert.Empty(t, outDims)
	assert.Equal(t, 3, offset)
}

func TestApplyRangeZeroStepRejected(t *testing.T) {
	_, _, _, err := Apply([]int{4}, []int{1}, []Spec{Range(0, 4, true, true, 0)})
	assert.ErrorIs(t, err, ErrInvalidRangeValues)
}

func TestApplyNewAxis(t *testing.T) {
	outDims, outStrides, offset, err := Apply([]int{4}, []int{1}, []Spec{NewAxis(), FullRange(1)})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4}, outDims)
	assert.Equal(t, []int{0, 1}, outStrides)
	assert.Equal(t, 0, offset)
}

func TestApplyZeroDimAxis(t *testing.T) {
	outDims, outStrides, _, err := Apply([]int{0}, []int{0}, []Spec{FullRange(1)})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, outDims)
	assert.Equal(t, []int{0}, outStrides)
}
