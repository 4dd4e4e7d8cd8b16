// Package ndslice implements the NumPy-style slicing algebra of spec.md
// §4.D: given an input (dims, strides) and a list of slice specifiers, it
// produces new (dims, strides, base-offset) values.
//
// This has no analogue in the teacher's vendored npyio, which never
// slices arrays; it is built directly from spec.md's grammar.
package ndslice

import (
	"github.com/pkg/errors"
)

// ErrDimensionMismatch is returned when the dimension-consuming specifier
// count does not match the input rank after ellipsis expansion.
var ErrDimensionMismatch = errors.New("ndslice: dimension count mismatch")

// ErrInvalidRangeValues is returned for a Range with step == 0.
var ErrInvalidRangeValues = errors.New("ndslice: invalid range values")

// ErrInvalidIndexValue is returned when an Index specifier, after
// negative-index normalization, falls outside [0, dim).
var ErrInvalidIndexValue = errors.New("ndslice: index out of range")

// ErrMultipleEllipsis is returned when more than one Ellipsis specifier
// appears in a single slice list.
var ErrMultipleEllipsis = errors.New("ndslice: multiple ellipsis specifiers")

// Kind tags a Spec's variant.
type Kind byte

const (
	KindIndex Kind = iota
	KindRange
	KindNewAxis
	KindEllipsis
)

// Spec is a single slice specifier: a tagged union over Index, Range,
// NewAxis and Ellipsis. Use the constructors below rather than building a
// Spec literal.
type Spec struct {
	kind Kind

	index int // KindIndex

	hasStart, hasEnd bool // KindRange
	start, end       int
	step             int
}

// Index collapses one input dimension at k; negative k counts from the
// end of that dimension.
func Index(k int) Spec { return Spec{kind: KindIndex, index: k} }

// NewAxis inserts an output dimension of size 1 with stride 0; it
// consumes no input dimension.
func NewAxis() Spec { return Spec{kind: KindNewAxis} }

// Ellipsis expands to as many default Range specifiers as needed to make
// the dimension-consuming specifier count equal the input rank. At most
// one may appear in a Spec list.
func Ellipsis() Spec { return Spec{kind: KindEllipsis} }

// Range produces one output dimension from [start, end) stepped by step
// (step must be non-zero; negative steps walk backwards). Pass
// hasStart/hasEnd false to take the step-sign-dependent default.
func Range(start, end int, hasStart, hasEnd bool, step int) Spec {
	return Spec{kind: KindRange, start: start, end: end, hasStart: hasStart, hasEnd: hasEnd, step: step}
}

// FullRange is Range(_, _, false, false, step): the default range for the
// given step sign, consuming the whole input axis.
func FullRange(step int) Spec {
	return Range(0, 0, false, false, step)
}

func ceilDiv(num, den int) int {
	if num <= 0 {
		return 0
	}
	return (num + den - 1) / den
}

// Apply computes the output (dims, strides, offset) for applying specs to
// an input described by dims/strides (in element units). offset is a
// signed element count; ndarray.View adds it to its own element-unit base
// and indexes its typed storage with the result.
func Apply(dims, strides []int, specs []Spec) (outDims, outStrides []int, offset int, err error) {
	expanded, err := expandEllipsis(dims, specs)
	if err != nil {
		return nil, nil, 0, err
	}

	inAxis := 0
	for _, s := range expanded {
		if s.kind == KindIndex || s.kind == KindRange {
			inAxis++
		}
	}
	if inAxis != len(dims) {
		return nil, nil, 0, errors.WithMessagef(ErrDimensionMismatch,
			"specs consume %d input dims, have %d", inAxis, len(dims))
	}

	outDims = make([]int, 0, len(expanded))
	outStrides = make([]int, 0, len(expanded))
	inAxis = 0
	offset = 0

	for _, s := range expanded {
		switch s.kind {
		case KindIndex:
			ni := dims[inAxis]
			abs := s.index
			if abs < 0 {
				abs += ni
			}
			if abs < 0 || abs >= ni {
				return nil, nil, 0, errors.WithMessagef(ErrInvalidIndexValue,
					"index %d out of range for dim of size %d", s.index, ni)
			}
			offset += abs * strides[inAxis]
			inAxis++

		case KindRange:
			ni := dims[inAxis]
			if s.step == 0 {
				return nil, nil, 0, ErrInvalidRangeValues
			}
			start, end := s.start, s.end
			if !s.hasStart {
				if s.step > 0 {
					start = 0
				} else {
					start = ni - 1
				}
			}
			if !s.hasEnd {
				if s.step > 0 {
					end = ni
				} else {
					end = -ni - 1
				}
			}
			if start < 0 {
				start += ni
			}
			if end < 0 {
				end += ni
			}

			var size int
			if ni == 0 {
				start = 0
				size = 0
			} else if s.step > 0 {
				if start < 0 {
					start = 0
				}
				if start > ni-1 {
					start = ni - 1
				}
				if end < -1 {
					end = -1
				}
				if end > ni {
					end = ni
				}
				size = ceilDiv(maxInt(0, end-start), s.step)
			} else {
				if start < 0 {
					start = 0
				}
				if start > ni-1 {
					start = ni - 1
				}
				if end < -1 {
					end = -1
				}
				if end > ni {
					end = ni
				}
				size = ceilDiv(maxInt(0, start-end), -s.step)
			}

			outDims = append(outDims, size)
			outStrides = append(outStrides, strides[inAxis]*s.step)
			if ni != 0 {
				offset += start * strides[inAxis]
			}
			inAxis++

		case KindNewAxis:
			outDims = append(outDims, 1)
			outStrides = append(outStrides, 0)
		}
	}

	return outDims, outStrides, offset, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// expandEllipsis rewrites at most one Ellipsis specifier into exactly
// N-d default Range entries, where N is the input rank and d is the
// number of dimension-consuming specifiers already present (spec.md §4.D
// and §9: ellipsis is a pre-processing rewrite, never interleaved with
// offset computation).
func expandEllipsis(dims []int, specs []Spec) ([]Spec, error) {
	ellipsisAt := -1
	consumed := 0
	for i, s := range specs {
		switch s.kind {
		case KindEllipsis:
			if ellipsisAt >= 0 {
				return nil, ErrMultipleEllipsis
			}
			ellipsisAt = i
		case KindIndex, KindRange:
			consumed++
		}
	}

	if ellipsisAt < 0 {
		return specs, nil
	}

	need := len(dims) - consumed
	if need < 0 {
		return nil, errors.WithMessagef(ErrDimensionMismatch,
			"specs already consume more dims (%d) than input rank %d", consumed, len(dims))
	}

	out := make([]Spec, 0, len(specs)-1+need)
	out = append(out, specs[:ellipsisAt]...)
	for i := 0; i < need; i++ {
		out = append(out, FullRange(1))
	}
	out = append(out, specs[ellipsisAt+1:]...)
	return out, nil
}
