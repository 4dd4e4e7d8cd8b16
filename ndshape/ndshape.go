// Package ndshape computes and validates row-major (C) and column-major
// (F) strides for a set of dimensions, and exposes both a dynamic-rank
// and a small family of fixed-rank Shape implementations.
//
// Go has no const generics, so "rank known at compile time" (spec.md §9)
// cannot be a single type parameterized over an integer length; instead
// Fixed2/Fixed3/Fixed4 cover the common tensor ranks with in-place arrays,
// and Dynamic covers everything else with heap slices. Both satisfy the
// Shape interface, so calling code is written once against it.
package ndshape

import (
	"math"

	"github.com/pkg/errors"

	"gonpy/dtype"
)

// Order is the memory layout of a Shape: row-major (C) or column-major
// (Fortran).
type Order byte

const (
	RowMajor    Order = iota // C order
	ColumnMajor              // Fortran order
)

func (o Order) String() string {
	if o == ColumnMajor {
		return "F"
	}
	return "C"
}

// ErrShapeSizeOverflow is returned when the product of dims, or that
// product times the element byte width, cannot be represented.
var ErrShapeSizeOverflow = errors.New("ndshape: shape size overflow")

// ErrDimensionMismatch is returned by fixed-rank constructors when the
// supplied dims slice does not match the fixed rank.
var ErrDimensionMismatch = errors.New("ndshape: dimension count mismatch")

// maxSignedWord mirrors spec.md §3: num_elements * width must not exceed
// the maximum positive signed platform word, so stride arithmetic never
// overflows a signed offset.
const maxSignedWord = math.MaxInt64

// SizeChecked returns the product of dims (1 for a 0-length dims, i.e.
// the scalar shape; 0 if any dim is 0), or ok=false if the element count
// overflows a platform unsigned word, or num_elements*width exceeds the
// maximum positive signed word.
func SizeChecked(dt dtype.Dtype, dims []int) (numElements int, ok bool) {
	n := uint64(1)
	for _, d := range dims {
		if d < 0 {
			return 0, false
		}
		if d == 0 {
			return 0, true
		}
		next := n * uint64(d)
		if d != 0 && next/uint64(d) != n {
			return 0, false
		}
		n = next
	}
	if n > math.MaxInt64 {
		return 0, false
	}
	width := uint64(dt.ByteWidth())
	bytes := n * width
	if width != 0 && bytes/width != n {
		return 0, false
	}
	if bytes > maxSignedWord {
		return 0, false
	}
	return int(n), true
}

// StridesFor computes element-unit strides for dims under the given
// order. When any dim is 0 every stride is 0 (spec.md §3 zero-element
// policy). An empty dims returns an empty strides slice.
func StridesFor(dims []int, order Order) []int {
	n := len(dims)
	strides := make([]int, n)
	if n == 0 {
		return strides
	}
	for _, d := range dims {
		if d == 0 {
			return strides // left all-zero
		}
	}
	switch order {
	case RowMajor:
		acc := 1
		for i := n - 1; i >= 0; i-- {
			strides[i] = acc
			acc *= dims[i]
		}
	case ColumnMajor:
		acc := 1
		for i := 0; i < n; i++ {
			strides[i] = acc
			acc *= dims[i]
		}
	}
	return strides
}

// Shape is the capability every concrete shape (dynamic or fixed-rank)
// implements: dims, strides, memory order and cached element count.
type Shape interface {
	Dims() []int
	Strides() []int
	Order() Order
	NumElements() int
}

// Dynamic is the heap-allocated, runtime-rank Shape: the only form that
// can represent a shape whose rank is not known until a file is parsed.
type Dynamic struct {
	dims, strides []int
	order         Order
	numElements   int
}

var _ Shape = Dynamic{}

// NewDynamic validates dims against dt and constructs a Dynamic shape
// with freshly computed strides.
func NewDynamic(dt dtype.Dtype, dims []int, order Order) (Dynamic, error) {
	n, ok := SizeChecked(dt, dims)
	if !ok {
		return Dynamic{}, ErrShapeSizeOverflow
	}
	d := make([]int, len(dims))
	copy(d, dims)
	return Dynamic{
		dims:        d,
		strides:     StridesFor(d, order),
		order:       order,
		numElements: n,
	}, nil
}

func (s Dynamic) Dims() []int      { return s.dims }
func (s Dynamic) Strides() []int   { return s.strides }
func (s Dynamic) Order() Order     { return s.order }
func (s Dynamic) NumElements() int { return s.numElements }

// fixed is the shared representation behind Fixed2/Fixed3/Fixed4: a
// compile-time-known-length backing array, sliced down to the active
// rank (which for these constructors always equals R).
type fixed struct {
	dims, strides []int
	order         Order
	numElements   int
}

func (s fixed) Dims() []int      { return s.dims }
func (s fixed) Strides() []int   { return s.strides }
func (s fixed) Order() Order     { return s.order }
func (s fixed) NumElements() int { return s.numElements }

// Fixed2 is a fixed-rank-2 Shape backed by in-place [2]int arrays.
type Fixed2 struct {
	fixed
	dimsArr, stridesArr [2]int
}

var _ Shape = (*Fixed2)(nil)

// NewFixed2 validates dims (len(dims) must be 2) and constructs a Fixed2.
func NewFixed2(dt dtype.Dtype, dims []int, order Order) (*Fixed2, error) {
	if len(dims) != 2 {
		return nil, ErrDimensionMismatch
	}
	n, ok := SizeChecked(dt, dims)
	if !ok {
		return nil, ErrShapeSizeOverflow
	}
	s := &Fixed2{}
	copy(s.dimsArr[:], dims)
	copy(s.stridesArr[:], StridesFor(dims, order))
	s.fixed = fixed{dims: s.dimsArr[:], strides: s.stridesArr[:], order: order, numElements: n}
	return s, nil
}

// Fixed3 is a fixed-rank-3 Shape backed by in-place [3]int arrays.
type Fixed3 struct {
	fixed
	dimsArr, stridesArr [3]int
}

var _ Shape = (*Fixed3)(nil)

// NewFixed3 validates dims (len(dims) must be 3) and constructs a Fixed3.
func NewFixed3(dt dtype.Dtype, dims []int, order Order) (*Fixed3, error) {
	if len(dims) != 3 {
		return nil, ErrDimensionMismatch
	}
	n, ok := SizeChecked(dt, dims)
	if !ok {
		return nil, ErrShapeSizeOverflow
	}
	s := &Fixed3{}
	copy(s.dimsArr[:], dims)
	copy(s.stridesArr[:], StridesFor(dims, order))
	s.fixed = fixed{dims: s.dimsArr[:], strides: s.stridesArr[:], order: order, numElements: n}
	return s, nil
}

// Fixed4 is a fixed-rank-4 Shape backed by in-place [4]int arrays.
type Fixed4 struct {
	fixed
	dimsArr, stridesArr [4]int
}

var _ Shape = (*Fixed4)(nil)

// NewFixed4 validates dims (len(dims) must be 4) and constructs a Fixed4.
func NewFixed4(dt dtype.Dtype, dims []int, order Order) (*Fixed4, error) {
	if len(dims) != 4 {
		return nil, ErrDimensionMismatch
	}
	n, ok := SizeChecked(dt, dims)
	if !ok {
		return nil, ErrShapeSizeOverflow
	}
	s := &Fixed4{}
	copy(s.dimsArr[:], dims)
	copy(s.stridesArr[:], StridesFor(dims, order))
	s.fixed = fixed{dims: s.dimsArr[:], strides: s.stridesArr[:], order: order, numElements: n}
	return s, nil
}
