package main

import (
	"io"

	"github.com/pkg/errors"

	"gonpy"
	"gonpy/dtype"
	"gonpy/elembuf"
	"gonpy/header"
	"gonpy/ndarray"
	"gonpy/pretty"
)

// errFloat128Unsupported mirrors elembuf.Elem's constraint: Float128 has
// no native Go arithmetic type, so the CLI cannot load it into a typed
// array (spec.md §4.A note on Float128).
var errFloat128Unsupported = errors.New("gonpy: float128 has no native Go type; cannot load into a typed array")

// printBuf renders the array encoded in buf, dispatching on the parsed
// header's dtype kind to the matching generic instantiation. Go's
// generics require the element type at compile time, so unlike the core
// library's Read[T] the CLI pays for a runtime type switch over every
// supported kind, here and in convertBuf.
func printBuf(buf []byte, opts ...pretty.Option) (string, error) {
	h, _, err := header.ReadFromSlice(buf)
	if err != nil {
		return "", err
	}

	switch h.Dtype.Kind {
	case dtype.Bool:
		a, err := gonpy.ReadSlice[bool](buf)
		if err != nil {
			return "", err
		}
		return pretty.Sprint[bool](a.AsView(), opts...), nil
	case dtype.Int8:
		a, err := gonpy.ReadSlice[int8](buf)
		if err != nil {
			return "", err
		}
		return pretty.Sprint[int8](a.AsView(), opts...), nil
	case dtype.UInt8:
		a, err := gonpy.ReadSlice[uint8](buf)
		if err != nil {
			return "", err
		}
		return pretty.Sprint[uint8](a.AsView(), opts...), nil
	case dtype.Int16:
		a, err := gonpy.ReadSlice[int16](buf)
		if err != nil {
			return "", err
		}
		return pretty.Sprint[int16](a.AsView(), opts...), nil
	case dtype.UInt16:
		a, err := gonpy.ReadSlice[uint16](buf)
		if err != nil {
			return "", err
		}
		return pretty.Sprint[uint16](a.AsView(), opts...), nil
	case dtype.Int32:
		a, err := gonpy.ReadSlice[int32](buf)
		if err != nil {
			return "", err
		}
		return pretty.Sprint[int32](a.AsView(), opts...), nil
	case dtype.UInt32:
		a, err := gonpy.ReadSlice[uint32](buf)
		if err != nil {
			return "", err
		}
		return pretty.Sprint[uint32](a.AsView(), opts...), nil
	case dtype.Int64:
		a, err := gonpy.ReadSlice[int64](buf)
		if err != nil {
			return "", err
		}
		return pretty.Sprint[int64](a.AsView(), opts...), nil
	case dtype.UInt64:
		a, err := gonpy.ReadSlice[uint64](buf)
		if err != nil {
			return "", err
		}
		return pretty.Sprint[uint64](a.AsView(), opts...), nil
	case dtype.Float32:
		a, err := gonpy.ReadSlice[float32](buf)
		if err != nil {
			return "", err
		}
		return pretty.Sprint[float32](a.AsView(), opts...), nil
	case dtype.Float64:
		a, err := gonpy.ReadSlice[float64](buf)
		if err != nil {
			return "", err
		}
		return pretty.Sprint[float64](a.AsView(), opts...), nil
	case dtype.Complex64:
		a, err := gonpy.ReadSlice[complex64](buf)
		if err != nil {
			return "", err
		}
		return pretty.Sprint[complex64](a.AsView(), opts...), nil
	case dtype.Complex128:
		a, err := gonpy.ReadSlice[complex128](buf)
		if err != nil {
			return "", err
		}
		return pretty.Sprint[complex128](a.AsView(), opts...), nil
	case dtype.Float128:
		return "", errFloat128Unsupported
	default:
		return "", errors.Errorf("gonpy: unhandled dtype kind %v", h.Dtype.Kind)
	}
}

// convertBuf re-encodes buf's array with the same dtype and element data
// but the requested memory order, dispatching the same way printBuf does.
func convertBuf(buf []byte, w io.Writer, order gonpy.Order) error {
	h, _, err := header.ReadFromSlice(buf)
	if err != nil {
		return err
	}

	switch h.Dtype.Kind {
	case dtype.Bool:
		return convertAs[bool](buf, w, h.Dtype, order)
	case dtype.Int8:
		return convertAs[int8](buf, w, h.Dtype, order)
	case dtype.UInt8:
		return convertAs[uint8](buf, w, h.Dtype, order)
	case dtype.Int16:
		return convertAs[int16](buf, w, h.Dtype, order)
	case dtype.UInt16:
		return convertAs[uint16](buf, w, h.Dtype, order)
	case dtype.Int32:
		return convertAs[int32](buf, w, h.Dtype, order)
	case dtype.UInt32:
		return convertAs[uint32](buf, w, h.Dtype, order)
	case dtype.Int64:
		return convertAs[int64](buf, w, h.Dtype, order)
	case dtype.UInt64:
		return convertAs[uint64](buf, w, h.Dtype, order)
	case dtype.Float32:
		return convertAs[float32](buf, w, h.Dtype, order)
	case dtype.Float64:
		return convertAs[float64](buf, w, h.Dtype, order)
	case dtype.Complex64:
		return convertAs[complex64](buf, w, h.Dtype, order)
	case dtype.Complex128:
		return convertAs[complex128](buf, w, h.Dtype, order)
	case dtype.Float128:
		return errFloat128Unsupported
	default:
		return errors.Errorf("gonpy: unhandled dtype kind %v", h.Dtype.Kind)
	}
}

func convertAs[T elembuf.Elem](buf []byte, w io.Writer, dt gonpy.Dtype, order gonpy.Order) error {
	src, err := gonpy.ReadSlice[T](buf)
	if err != nil {
		return err
	}
	dims := src.Shape().Dims()
	dst, err := gonpy.New[T](dt, dims, order)
	if err != nil {
		return err
	}
	idx := make([]int, len(dims))
	if err := copyAll(src.AsView(), dst, idx, 0); err != nil {
		return err
	}
	return gonpy.Write(w, dst, dt)
}

// copyAll walks every index tuple of src/dst (identical dims) and copies
// element by element; order conversion only ever changes strides, never
// element count, so a full index walk is always in bounds on both sides.
func copyAll[T elembuf.Elem](src ndarray.View[T], dst *ndarray.Array[T], idx []int, axis int) error {
	dims := src.Dims()
	if axis == len(dims) {
		v, err := src.Get(idx)
		if err != nil {
			return err
		}
		return dst.Set(idx, v)
	}
	for i := 0; i < dims[axis]; i++ {
		idx[axis] = i
		if err := copyAll(src, dst, idx, axis+1); err != nil {
			return err
		}
	}
	return nil
}
