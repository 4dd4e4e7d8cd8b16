// Package elembuf validates and reinterprets a raw byte range as a typed
// element sequence, honoring dtype compatibility, endianness, length and
// alignment, and (for booleans) the {0,1} value domain.
//
// The endianness-aware decode loops are grounded directly on the
// teacher's per-kind case blocks in npyio's reader.go/writer.go
// (binary.Read/order.PutUintNN for every scalar kind); the zero-copy
// reinterpretation and alignment check are new, required by spec.md §4.E
// and §9's "guarded transmute" design note, which the teacher never needs
// because it always decodes through an intermediate copy.
package elembuf

import (
	"io"
	"unsafe"

	"github.com/pkg/errors"

	"gonpy/dtype"
)

var (
	// ErrTypeMismatch is returned when a dtype's Kind does not match the
	// requested static element type.
	ErrTypeMismatch = errors.New("elembuf: dtype does not match requested element type")
	// ErrInvalidBool is returned when a bool buffer contains a byte other
	// than 0 or 1.
	ErrInvalidBool = errors.New("elembuf: bool element byte not in {0,1}")
	// ErrEndiannessMismatch is returned when a dtype's explicit endianness
	// tag does not match native order, for a path that cannot byte-swap.
	ErrEndiannessMismatch = errors.New("elembuf: explicit endianness does not match native order")
	// ErrLengthOverflow is returned when expectedLen*width overflows.
	ErrLengthOverflow = errors.New("elembuf: length*width overflows")
	// ErrMissingBytes is returned when raw_bytes is shorter than required.
	ErrMissingBytes = errors.New("elembuf: not enough bytes for requested length")
	// ErrExtraBytes is returned when raw_bytes is longer than required.
	ErrExtraBytes = errors.New("elembuf: more bytes supplied than requested length needs")
	// ErrMisaligned is returned when a non-empty byte slice's base address
	// is not a multiple of the target type's alignment.
	ErrMisaligned = errors.New("elembuf: byte slice base address is misaligned")
)

// kindOf maps a Go scalar type to the dtype.Kind it stores as, used to
// perform the "type tag check" generically.
func kindOf[T Elem]() dtype.Kind {
	var zero T
	switch any(zero).(type) {
	case bool:
		return dtype.Bool
	case int8:
		return dtype.Int8
	case uint8:
		return dtype.UInt8
	case int16:
		return dtype.Int16
	case uint16:
		return dtype.UInt16
	case int32:
		return dtype.Int32
	case uint32:
		return dtype.UInt32
	case int64:
		return dtype.Int64
	case uint64:
		return dtype.UInt64
	case float32:
		return dtype.Float32
	case float64:
		return dtype.Float64
	case complex64:
		return dtype.Complex64
	case complex128:
		return dtype.Complex128
	}
	panic("elembuf: unreachable kind")
}

// Elem is the set of Go types elembuf can reinterpret bytes as. Float128
// has no native Go arithmetic type (spec.md §4.A) and is not part of this
// constraint, so elembuf cannot read or write Float128 elements.
type Elem interface {
	~bool | ~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 |
		~int64 | ~uint64 | ~float32 | ~float64 | ~complex64 | ~complex128
}

func alignOf[T Elem]() uintptr {
	var zero T
	return unsafe.Alignof(zero)
}

func sizeOf[T Elem]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// AsTypedSlice validates raw and, if it passes every check, reinterprets
// it in place as a []T of length expectedLen with no copy (spec.md
// §4.E/§9: "guarded transmute").
func AsTypedSlice[T Elem](raw []byte, expectedLen int, dt dtype.Dtype) ([]T, error) {
	if dt.Kind != kindOf[T]() {
		return nil, errors.WithMessagef(ErrTypeMismatch, "dtype kind %v vs requested %T", dt.Kind, *new(T))
	}

	width := sizeOf[T]()

	if dt.Kind == dtype.Bool {
		if err := validateBoolBytes(raw); err != nil {
			return nil, err
		}
	} else if dt.Kind.IsSingleByte() {
		// single-byte integer kinds: no endianness check needed.
	} else if dt.Endian != dtype.Unspecified && dt.Endian != dtype.NativeEndian() {
		return nil, errors.WithMessagef(ErrEndiannessMismatch,
			"dtype endian %v != native %v", dt.Endian, dtype.NativeEndian())
	}

	need, overflow := mulOverflows(expectedLen, width)
	if overflow {
		return nil, ErrLengthOverflow
	}
	switch {
	case len(raw) < need:
		return nil, ErrMissingBytes
	case len(raw) > need:
		return nil, ErrExtraBytes
	}

	// Empty fast path (spec.md §4.E point 5): by this point length has
	// already been validated against expectedLen, so an empty result only
	// happens when raw is also empty; there is no address left to check
	// for alignment, so the sentinel slice below stands in for it.
	if expectedLen == 0 {
		return emptyTypedSlice[T](), nil
	}

	if uintptr(unsafe.Pointer(&raw[0]))%alignOf[T]() != 0 {
		return nil, ErrMisaligned
	}

	return unsafe.Slice((*T)(unsafe.Pointer(&raw[0])), expectedLen), nil
}

// emptyTypedSlice returns a zero-length []T attached to a validly
// aligned, never-dereferenced sentinel, so downstream pointer arithmetic
// over an empty slice remains well-defined (spec.md §4.E point 5, §9).
func emptyTypedSlice[T Elem]() []T {
	var sentinel T
	return unsafe.Slice(&sentinel, 0)
}

func mulOverflows(n, width int) (product int, overflow bool) {
	if n < 0 || width < 0 {
		return 0, true
	}
	if n == 0 || width == 0 {
		return 0, false
	}
	p := n * width
	if p/width != n {
		return 0, true
	}
	return p, false
}

func validateBoolBytes(raw []byte) error {
	var or byte
	for _, b := range raw {
		or |= b
	}
	if or&0b1111_1110 != 0 {
		return ErrInvalidBool
	}
	return nil
}

// PullReader is the pull-reader interface of spec.md §6: read_exact
// semantics over an io.Reader-shaped source.
type PullReader interface {
	ReadExact(dst []byte) error
}

// IOPullReader adapts an io.Reader to PullReader using io.ReadFull,
// translating io.EOF/io.ErrUnexpectedEOF into ErrMissingBytes so callers
// see the taxonomy kind rather than a raw io error.
type IOPullReader struct {
	R io.Reader
}

func (p IOPullReader) ReadExact(dst []byte) error {
	_, err := io.ReadFull(p.R, dst)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.WithMessage(ErrMissingBytes, err.Error())
	}
	return err
}

// ReadInto reads len(dst)*width(T) bytes from r into dst, performing the
// type-tag check first. If dt carries an explicit endianness tag that
// disagrees with native order, every element is byte-swapped in place
// after the read (spec.md §4.E; complex kinds swap each half
// independently). This is the only elembuf operation that recovers from
// an endianness mismatch rather than failing.
func ReadInto[T Elem](dst []T, r PullReader, dt dtype.Dtype) error {
	if dt.Kind != kindOf[T]() {
		return errors.WithMessagef(ErrTypeMismatch, "dtype kind %v vs requested %T", dt.Kind, *new(T))
	}
	if len(dst) == 0 {
		return nil
	}

	width := sizeOf[T]()
	raw := make([]byte, len(dst)*width)
	if err := r.ReadExact(raw); err != nil {
		return err
	}

	if dt.Kind == dtype.Bool {
		if err := validateBoolBytes(raw); err != nil {
			return err
		}
	}

	needSwap := dt.Endian != dtype.Unspecified && dt.Endian != dtype.NativeEndian() && !dt.Kind.IsSingleByte()
	if needSwap {
		byteSwapInPlace(raw, halfWidth(dt.Kind, width))
	}

	copy(unsafe.Slice((*byte)(unsafe.Pointer(&dst[0])), len(raw)), raw)
	return nil
}

// halfWidth returns the sub-value width to swap within each element: for
// complex kinds the real and imaginary halves are swapped independently
// (spec.md §4.E point "Write path"/ReadInto variant), for everything else
// it is the full element width.
func halfWidth(k dtype.Kind, width int) int {
	if k == dtype.Complex64 || k == dtype.Complex128 {
		return width / 2
	}
	return width
}

func byteSwapInPlace(raw []byte, chunk int) {
	for off := 0; off < len(raw); off += chunk {
		lo, hi := off, off+chunk-1
		for lo < hi {
			raw[lo], raw[hi] = raw[hi], raw[lo]
			lo++
			hi--
		}
	}
}

// WriteSlice emits the element bytes of src in native order; dtype
// endianness is always labeled native by the write path (spec.md §4.E
// Write path, §9 open question 3).
func WriteSlice[T Elem](w io.Writer, src []T) error {
	if len(src) == 0 {
		return nil
	}
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&src[0])), len(src)*sizeOf[T]())
	_, err := w.Write(raw)
	return err
}
