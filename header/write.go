package header

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"gonpy/dtype"
	"gonpy/ndshape"
)

// dataAlignment is the NumPy convention for aligning the data-start offset
// (magic + version + header-length field + header dict) to a 64-byte
// boundary. The teacher's npyio aligns to 16 bytes; spec.md §4.B/§6
// require 64.
const dataAlignment = 64

// Writer carries no state and has no methods; the package-level Write
// emits the .npy wire framing (magic, version, header dict), choosing
// major version 1 unless the padded header dictionary is too long for
// the 2-byte length field, in which case it uses version 2. Version 3 is
// never emitted: the dictionary this library writes is always ASCII.
type Writer struct{}

// ShapeString renders shape as the Python tuple literal NumPy expects:
// "()" for a scalar, "(n,)" for rank 1, "(a, b, ...)" otherwise.
func ShapeString(shape []int) string {
	switch len(shape) {
	case 0:
		return "()"
	case 1:
		return fmt.Sprintf("(%d,)", shape[0])
	default:
		parts := make([]string, len(shape))
		for i, d := range shape {
			parts[i] = strconv.Itoa(d)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
}

// Write emits a complete .npy header for (dt, order, shape) to w,
// returning the total byte count written (the data start offset).
func Write(w io.Writer, dt dtype.Dtype, order ndshape.Order, shape []int) (int, error) {
	descr, err := dtype.Emit(dt)
	if err != nil {
		return 0, err
	}

	fortran := "False"
	if order == ndshape.ColumnMajor {
		fortran = "True"
	}

	dict := fmt.Sprintf("{'descr': '%s', 'fortran_order': %s, 'shape': %s, }",
		descr, fortran, ShapeString(shape))

	// Try major version 1 first (2-byte length field); only promote to
	// version 2 if the header does not fit in a uint16.
	major := byte(1)
	lenWidth := 2
	prefix := len(Magic) + 2 + lenWidth
	padded := padDictTo(dict, prefix)
	if len(padded) > 0xFFFF {
		major = 2
		lenWidth = 4
		prefix = len(Magic) + 2 + lenWidth
		padded = padDictTo(dict, prefix)
	}

	var buf bytes.Buffer
	buf.Write(Magic[:])
	buf.WriteByte(major)
	buf.WriteByte(0)

	hdrLen := len(padded)
	lenBytes := make([]byte, lenWidth)
	for i := 0; i < lenWidth; i++ {
		lenBytes[i] = byte(hdrLen >> (8 * i))
	}
	buf.Write(lenBytes)
	buf.WriteString(padded)

	n, err := w.Write(buf.Bytes())
	if err != nil {
		return n, errors.WithMessage(ErrIoError, err.Error())
	}
	return n, nil
}

// padDictTo pads dict with spaces and a trailing newline so that
// prefixLen+len(result) is a multiple of dataAlignment.
func padDictTo(dict string, prefixLen int) string {
	total := prefixLen + len(dict) + 1 // +1 for the newline
	pad := (dataAlignment - total%dataAlignment) % dataAlignment
	var b strings.Builder
	b.WriteString(dict)
	for i := 0; i < pad; i++ {
		b.WriteByte(' ')
	}
	b.WriteByte('\n')
	return b.String()
}
