// Package dtype describes the element types a NumPy .npy file can carry:
// their kind, byte width and (optional) endianness tag, and the grammar
// used to parse and emit the "descr" field of a .npy header dictionary.
package dtype

import (
	"fmt"
	"unsafe"

	"github.com/pkg/errors"
)

// Endian is the endianness tag carried by a Dtype. Unspecified means
// "interpret as native": it is not an error, and single-byte kinds never
// carry anything else.
type Endian byte

const (
	Unspecified Endian = iota
	Little
	Big
)

func (e Endian) String() string {
	switch e {
	case Little:
		return "little"
	case Big:
		return "big"
	default:
		return "unspecified"
	}
}

// Kind enumerates the element kinds this library understands. It mirrors
// the type table of npyio's newDtype, extended with the full spread of
// kinds spec.md requires (Float128, both complex widths).
type Kind byte

const (
	Bool Kind = iota
	Int8
	UInt8
	Int16
	UInt16
	Int32
	UInt32
	Int64
	UInt64
	Float32
	Float64
	Float128
	Complex64
	Complex128
)

// widths holds the fixed byte width of every kind, in declaration order.
// Invariant (spec.md §3): every kind supported by the core has a non-zero
// width.
var widths = [...]int{
	Bool:       1,
	Int8:       1,
	UInt8:      1,
	Int16:      2,
	UInt16:     2,
	Int32:      4,
	UInt32:     4,
	Int64:      8,
	UInt64:     8,
	Float32:    4,
	Float64:    8,
	Float128:   16,
	Complex64:  8,
	Complex128: 16,
}

var kindNames = [...]string{
	Bool:       "bool",
	Int8:       "int8",
	UInt8:      "uint8",
	Int16:      "int16",
	UInt16:     "uint16",
	Int32:      "int32",
	UInt32:     "uint32",
	Int64:      "int64",
	UInt64:     "uint64",
	Float32:    "float32",
	Float64:    "float64",
	Float128:   "float128",
	Complex64:  "complex64",
	Complex128: "complex128",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// IsSingleByte reports whether a kind's endianness is never meaningful.
func (k Kind) IsSingleByte() bool {
	return k == Bool || k == Int8 || k == UInt8
}

// Dtype is a tagged Kind plus an (optional) endianness tag. Two Dtypes
// with the same Kind but different Endian are distinct values, but they
// share the same ByteWidth.
type Dtype struct {
	Kind   Kind
	Endian Endian
}

// ByteWidth returns the fixed byte width of d's Kind.
func (d Dtype) ByteWidth() int {
	return widths[d.Kind]
}

// WithEndian returns a copy of d carrying the given endianness tag.
// Single-byte kinds always normalize to Unspecified: endianness has no
// meaning for a one-byte element.
func (d Dtype) WithEndian(e Endian) Dtype {
	if d.Kind.IsSingleByte() {
		e = Unspecified
	}
	return Dtype{Kind: d.Kind, Endian: e}
}

func (d Dtype) String() string {
	return fmt.Sprintf("%s<%s>", d.Kind, d.Endian)
}

// ErrUnsupportedDescrType is returned by Parse when the descr string does
// not name a recognized dtype, or names an unsupported byte width.
var ErrUnsupportedDescrType = errors.New("dtype: unsupported or malformed descr string")

var kindTokens = map[string]Kind{
	"b1": Bool,
	"i1": Int8,
	"u1": UInt8,
	"i2": Int16,
	"u2": UInt16,
	"i4": Int32,
	"u4": UInt32,
	"i8": Int64,
	"u8": UInt64,
	"f4": Float32,
	"f8": Float64,
	"f16": Float128,
	"c8": Complex64,
	"c16": Complex128,
}

// Parse reads a NumPy "descr" string of the form <endian><kind><bytes>
// where endian is one of '<' (little), '>' (big), '=' or '|' or empty
// (none), and <kind><bytes> names one of the enumerated kinds.
// Single-byte kinds ignore any endianness prefix they carry.
func Parse(s string) (Dtype, error) {
	if s == "" {
		return Dtype{}, errors.WithMessage(ErrUnsupportedDescrType, "empty descr")
	}

	endian := Unspecified
	rest := s
	switch s[0] {
	case '<':
		endian = Little
		rest = s[1:]
	case '>':
		endian = Big
		rest = s[1:]
	case '=':
		endian = Unspecified
		rest = s[1:]
	case '|':
		endian = Unspecified
		rest = s[1:]
	}

	kind, ok := kindTokens[rest]
	if !ok {
		return Dtype{}, errors.WithMessagef(ErrUnsupportedDescrType, "unrecognized kind %q", s)
	}

	dt := Dtype{Kind: kind, Endian: endian}
	if kind.IsSingleByte() {
		dt.Endian = Unspecified
	}
	return dt, nil
}

var kindToken = map[Kind]string{
	Bool:       "b1",
	Int8:       "i1",
	UInt8:      "u1",
	Int16:      "i2",
	UInt16:     "u2",
	Int32:      "i4",
	UInt32:     "u4",
	Int64:      "i8",
	UInt64:     "u8",
	Float32:    "f4",
	Float64:    "f8",
	Float128:   "f16",
	Complex64:  "c8",
	Complex128: "c16",
}

// Emit renders d as a NumPy descr string at native endianness (spec.md
// §4.A / §9 open question 3: the write path always labels native order).
func Emit(d Dtype) (string, error) {
	tok, ok := kindToken[d.Kind]
	if !ok {
		return "", errors.WithMessagef(ErrUnsupportedDescrType, "unknown kind %v", d.Kind)
	}
	if d.Kind.IsSingleByte() {
		return "|" + tok, nil
	}
	if NativeEndian() == Little {
		return "<" + tok, nil
	}
	return ">" + tok, nil
}

// NativeEndian reports this platform's native byte order, probed in the
// package init by reading the first in-memory byte of uint16(1).
func NativeEndian() Endian {
	return nativeEndian
}

var nativeEndian Endian

func init() {
	v := uint16(1)
	switch *(*byte)(unsafe.Pointer(&v)) {
	case 1:
		nativeEndian = Little
	case 0:
		nativeEndian = Big
	}
}
