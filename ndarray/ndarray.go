// Package ndarray composes ndshape, ndslice and elembuf into the owning
// Array and non-owning View values of spec.md §4.F/§4.G: shape-and-strides
// plus typed contiguous storage, and a non-owning (dims, strides, base)
// reference into that storage.
//
// Grounded on the teacher's own *mat.Dense special case in npyio's
// reader.go/writer.go (the ToDense/FromDense bridge below mirrors that
// exact pattern, generalized into a stand-alone pair of functions instead
// of a type-switch case), and on spec.md §4.F/§4.G/§9 for the
// mutable/read-only and dynamic/fixed-rank dualities, which npyio never
// needed because it only ever decodes directly into caller-supplied Go
// slices.
package ndarray

import (
	"io"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"gonpy/dtype"
	"gonpy/elembuf"
	"gonpy/header"
	"gonpy/ndshape"
	"gonpy/ndslice"
)

// ErrReadOnly is returned by Set on an array/view constructed read-only.
var ErrReadOnly = errors.New("ndarray: array is read-only")

// ErrRankMismatch is returned by At/Get when idx's length does not match
// the view's rank.
var ErrRankMismatch = errors.New("ndarray: index rank does not match view rank")

// ErrIndexOutOfRange is returned by At/Get/Set when an index component is
// outside its dimension's bounds.
var ErrIndexOutOfRange = errors.New("ndarray: index out of range")

// View is the non-owning (dims, strides, base) reference of spec.md §4.G.
// It never assumes contiguity and never runs teardown on the storage it
// points into. Mutability of a View matches the mutability of its source
// Array: Set returns ErrReadOnly on a view built from a read-only array.
type View[T elembuf.Elem] struct {
	dims, strides []int
	base          int // element-unit offset into storage, may be negative
	storage       []T
	readOnly      bool
}

// newView constructs a view directly from its four logical fields; it
// performs no validation of dims/strides against storage, mirroring how a
// systems-language View is a thin non-owning handle.
func newView[T elembuf.Elem](dims, strides []int, base int, storage []T, readOnly bool) View[T] {
	return View[T]{dims: dims, strides: strides, base: base, storage: storage, readOnly: readOnly}
}

func (v View[T]) Dims() []int    { return v.dims }
func (v View[T]) Strides() []int { return v.strides }
func (v View[T]) Rank() int      { return len(v.dims) }
func (v View[T]) ReadOnly() bool { return v.readOnly }

// offsetOf computes the element-unit storage offset for idx, or an error
// if idx's rank or bounds are invalid.
func (v View[T]) offsetOf(idx []int) (int, error) {
	if len(idx) != len(v.dims) {
		return 0, ErrRankMismatch
	}
	off := v.base
	for i, k := range idx {
		if k < 0 || k >= v.dims[i] {
			return 0, errors.WithMessagef(ErrIndexOutOfRange, "axis %d: index %d, dim %d", i, k, v.dims[i])
		}
		off += k * v.strides[i]
	}
	return off, nil
}

// At returns a pointer to the element at idx, or nil and an error if idx
// is the wrong rank or out of bounds.
func (v View[T]) At(idx []int) (*T, error) {
	off, err := v.offsetOf(idx)
	if err != nil {
		return nil, err
	}
	return &v.storage[off], nil
}

// Get reads the element at idx.
func (v View[T]) Get(idx []int) (T, error) {
	p, err := v.At(idx)
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// Set writes value at idx. It fails with ErrReadOnly on a read-only view.
func (v View[T]) Set(idx []int, value T) error {
	if v.readOnly {
		return ErrReadOnly
	}
	off, err := v.offsetOf(idx)
	if err != nil {
		return err
	}
	v.storage[off] = value
	return nil
}

// Slice applies the ndslice algebra to this view and returns a new View
// sharing the same storage. The resulting base is computed by signed
// element-offset arithmetic from v's base (spec.md §4.G pointer
// arithmetic rule); Go's slice/array addressing already performs the
// unsigned-wrap-equivalent indexing a systems implementation must do
// explicitly with raw pointers.
func (v View[T]) Slice(specs []ndslice.Spec) (View[T], error) {
	dims, strides, off, err := ndslice.Apply(v.dims, v.strides, specs)
	if err != nil {
		return View[T]{}, err
	}
	return newView(dims, strides, v.base+off, v.storage, v.readOnly), nil
}

// Array is the owning value of spec.md §4.F: a Shape plus typed
// contiguous storage. The same type serves all four flavours the spec
// describes (dynamic/fixed rank × mutable/read-only): rank is carried by
// the embedded ndshape.Shape (Dynamic or Fixed2/3/4), mutability by the
// unexported readOnly flag, per spec.md §9's "storage mode, not method
// set" guidance.
type Array[T elembuf.Elem] struct {
	shape    ndshape.Shape
	storage  []T
	readOnly bool
}

// Init allocates a new mutable Array of the given dims/order. Contents
// are zero-valued (Go's make always zero-fills; a systems allocator may
// leave them unspecified per spec.md §4.F, but zero-filling is always a
// safe superset of that contract).
func Init[T elembuf.Elem](dt dtype.Dtype, dims []int, order ndshape.Order) (*Array[T], error) {
	shape, err := ndshape.NewDynamic(dt, dims, order)
	if err != nil {
		return nil, err
	}
	return &Array[T]{
		shape:   shape,
		storage: make([]T, shape.NumElements()),
	}, nil
}

// InitFixed allocates a new mutable Array backed by a fixed-rank Shape
// (ndshape.Fixed2/Fixed3/Fixed4, selected by len(dims)) instead of the
// heap-allocated Dynamic shape Init uses. This is the fixed-rank half of
// spec.md §4.F/§9's rank-known-at-compile-time duality: the dims/strides
// backing arrays live in-place inside the Shape value rather than on the
// heap. Returns ndshape.ErrDimensionMismatch for any rank InitFixed does
// not cover.
func InitFixed[T elembuf.Elem](dt dtype.Dtype, dims []int, order ndshape.Order) (*Array[T], error) {
	shape, err := newFixedShape(dt, dims, order)
	if err != nil {
		return nil, err
	}
	return &Array[T]{
		shape:   shape,
		storage: make([]T, shape.NumElements()),
	}, nil
}

// newFixedShape dispatches to the fixed-rank Shape constructor matching
// len(dims).
func newFixedShape(dt dtype.Dtype, dims []int, order ndshape.Order) (ndshape.Shape, error) {
	switch len(dims) {
	case 2:
		return ndshape.NewFixed2(dt, dims, order)
	case 3:
		return ndshape.NewFixed3(dt, dims, order)
	case 4:
		return ndshape.NewFixed4(dt, dims, order)
	default:
		return nil, ndshape.ErrDimensionMismatch
	}
}

// FromByteBuffer parses a Header from the head of buf and constructs a
// borrowing Array: the array owns only its shape metadata, not the
// element bytes, which alias buf for as long as the caller keeps buf
// alive (spec.md §3 Lifecycle / §4.F "metadata only" disposer — Go's GC
// makes an explicit disposer unnecessary, but Release is still provided
// for API symmetry with the spec's lifecycle language).
func FromByteBuffer[T elembuf.Elem](buf []byte) (*Array[T], error) {
	h, r, err := header.ReadFromSlice(buf)
	if err != nil {
		return nil, err
	}
	shape, err := ndshape.NewDynamic(h.Dtype, h.Shape, h.Order)
	if err != nil {
		return nil, err
	}
	body := buf[r.Position():]
	storage, err := elembuf.AsTypedSlice[T](body, shape.NumElements(), h.Dtype)
	if err != nil {
		return nil, err
	}
	return &Array[T]{shape: shape, storage: storage, readOnly: true}, nil
}

// FromReader parses the header from r and reads the element data into a
// freshly allocated, fully-owned Array, byte-swapping per elembuf.ReadInto
// if the header's dtype carries a non-native endianness tag.
func FromReader[T elembuf.Elem](r io.Reader) (*Array[T], error) {
	h, err := header.ReadFromPull(elembuf.IOPullReader{R: r})
	if err != nil {
		return nil, err
	}
	shape, err := ndshape.NewDynamic(h.Dtype, h.Shape, h.Order)
	if err != nil {
		return nil, err
	}
	storage := make([]T, shape.NumElements())
	if err := elembuf.ReadInto(storage, elembuf.IOPullReader{R: r}, h.Dtype); err != nil {
		return nil, err
	}
	return &Array[T]{shape: shape, storage: storage}, nil
}

// Shape exposes the array's Shape value.
func (a *Array[T]) Shape() ndshape.Shape { return a.shape }

// ReadOnly reports whether this array forbids Set.
func (a *Array[T]) ReadOnly() bool { return a.readOnly }

// AsView returns a non-owning View over a's storage. It never allocates:
// for a Dynamic shape the view borrows the already-heap-allocated
// dims/strides slices; for a fixed-rank shape it borrows the slices
// backed by the shape's in-place arrays.
func (a *Array[T]) AsView() View[T] {
	return newView(a.shape.Dims(), a.shape.Strides(), 0, a.storage, a.readOnly)
}

// Get reads the element at idx.
func (a *Array[T]) Get(idx []int) (T, error) {
	return a.AsView().Get(idx)
}

// Set writes value at idx; fails with ErrReadOnly on a read-only array.
func (a *Array[T]) Set(idx []int, value T) error {
	return a.AsView().Set(idx, value)
}

// Write emits a's header and element data (native order, per spec.md
// §4.E/§9 open question 3) to w.
func (a *Array[T]) Write(w io.Writer, dt dtype.Dtype) error {
	if _, err := header.Write(w, dt, a.shape.Order(), a.shape.Dims()); err != nil {
		return err
	}
	return elembuf.WriteSlice(w, a.storage)
}

// Release is a no-op under Go's garbage collector. It documents the point
// at which a systems-language implementation would run the array's
// disposer (full disposer for FromReader/Init, metadata-only disposer for
// FromByteBuffer, per spec.md §3 Lifecycle).
func (a *Array[T]) Release() {}

// ToDense converts a 2-D float64 Array to a *mat.Dense, directly mirroring
// npyio's own special-cased *mat.Dense read path (reader.go's "case
// *mat.Dense"), which honors Fortran/C order the same way.
func ToDense(a *Array[float64]) (*mat.Dense, error) {
	dims := a.shape.Dims()
	if len(dims) != 2 {
		return nil, errors.Errorf("ndarray: ToDense requires rank 2, got %d", len(dims))
	}
	nrows, ncols := dims[0], dims[1]
	view := a.AsView()
	dense := mat.NewDense(nrows, ncols, nil)
	for i := 0; i < nrows; i++ {
		for j := 0; j < ncols; j++ {
			v, err := view.Get([]int{i, j})
			if err != nil {
				return nil, err
			}
			dense.Set(i, j, v)
		}
	}
	return dense, nil
}

// FromDense converts a *mat.Dense into a new mutable, C-order float64
// Array, the write-side mirror of npyio's *mat.Dense support in writer.go.
func FromDense(m *mat.Dense) (*Array[float64], error) {
	nrows, ncols := m.Dims()
	arr, err := Init[float64](dtype.Dtype{Kind: dtype.Float64}, []int{nrows, ncols}, ndshape.RowMajor)
	if err != nil {
		return nil, err
	}
	view := arr.AsView()
	for i := 0; i < nrows; i++ {
		for j := 0; j < ncols; j++ {
			if err := view.Set([]int{i, j}, m.At(i, j)); err != nil {
				return nil, err
			}
		}
	}
	return arr, nil
}
