// Package gonpy reads and writes NumPy .npy arrays.
//
// Grounded on the teacher's own top-level npy.Read/npy.Write pair
// (vendor/github.com/sbinet/npyio/npy/npy.go), generalized from npyio's
// reflect-driven single entry point into explicit generic functions over
// gonpy/ndarray.Array, since spec.md's type taxonomy (§4.A) is closed and
// known at the call site rather than discovered through reflection.
//
//	f, _ := os.Open("data.npy")
//	a, err := gonpy.Read[float64](f)
//
//	var buf bytes.Buffer
//	err = gonpy.Write(&buf, a, dtype.Dtype{Kind: dtype.Float64})
package gonpy

import (
	"io"

	"gonum.org/v1/gonum/mat"

	"gonpy/dtype"
	"gonpy/elembuf"
	"gonpy/header"
	"gonpy/ndarray"
	"gonpy/ndshape"
	"gonpy/ndslice"
)

// Re-exported so callers of this package need not import the component
// packages directly for the common path, mirroring npyio's single-package
// surface.
type (
	Dtype  = dtype.Dtype
	Kind   = dtype.Kind
	Endian = dtype.Endian
	Order  = ndshape.Order
	Header = header.Header
	Spec   = ndslice.Spec
)

const (
	Bool       = dtype.Bool
	Int8       = dtype.Int8
	UInt8      = dtype.UInt8
	Int16      = dtype.Int16
	UInt16     = dtype.UInt16
	Int32      = dtype.Int32
	UInt32     = dtype.UInt32
	Int64      = dtype.Int64
	UInt64     = dtype.UInt64
	Float32    = dtype.Float32
	Float64    = dtype.Float64
	Float128   = dtype.Float128
	Complex64  = dtype.Complex64
	Complex128 = dtype.Complex128

	RowMajor    = ndshape.RowMajor
	ColumnMajor = ndshape.ColumnMajor
)

// Read parses a complete .npy stream from r into a new, fully-owned Array.
// The returned type is ndarray.Array[T] directly: Go cannot alias a
// generic type generically before 1.24, so this module targets 1.21 and
// callers spell the array type as ndarray.Array[T].
func Read[T elembuf.Elem](r io.Reader) (*ndarray.Array[T], error) {
	return ndarray.FromReader[T](r)
}

// ReadSlice parses a .npy image already held in memory into a read-only,
// zero-copy Array that aliases buf.
func ReadSlice[T elembuf.Elem](buf []byte) (*ndarray.Array[T], error) {
	return ndarray.FromByteBuffer[T](buf)
}

// Write emits a's header and element data to w at dt (always at native
// endianness; see dtype.Emit).
func Write[T elembuf.Elem](w io.Writer, a *ndarray.Array[T], dt Dtype) error {
	return a.Write(w, dt)
}

// New allocates a fresh, zero-valued, mutable Array of the given
// dtype/dims/order.
func New[T elembuf.Elem](dt Dtype, dims []int, order Order) (*ndarray.Array[T], error) {
	return ndarray.Init[T](dt, dims, order)
}

// ToDense converts a rank-2 float64 Array to a *mat.Dense, the same
// conversion the teacher performs implicitly when Read's destination is a
// *mat.Dense.
func ToDense(a *ndarray.Array[float64]) (*mat.Dense, error) {
	return ndarray.ToDense(a)
}

// FromDense converts a *mat.Dense into a new, mutable, C-order float64
// Array.
func FromDense(m *mat.Dense) (*ndarray.Array[float64], error) {
	return ndarray.FromDense(m)
}
