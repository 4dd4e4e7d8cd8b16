// Package pretty renders a View as a multi-line, NumPy-style bracketed
// expression with ellipsis truncation of long axes.
//
// Grounded on spec.md §4.H, which has no analogue in the teacher's
// vendored npyio (npyio has no printer at all). The element-formatting
// rules (float precision switch, complex R±Ij, boolean alignment) and the
// per-axis truncation limits are taken directly from spec.md §4.H and
// §9's "visual fidelity, not byte equality" framing: this package is
// informational, so unlike every other package in this module it is
// intentionally built without a teacher to imitate.
package pretty

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonpy/elembuf"
	"gonpy/ndarray"
)

// Limits bundles the tunable truncation thresholds of spec.md §4.H.
// Defaults mirror common array-printing tooling.
type Limits struct {
	StackedAxis int // max leading+trailing slices shown per stacked (≥3-D) axis
	Columns     int // max leading+trailing columns shown per row
	Rows        int // max leading+trailing rows shown per 2-D block
	Threshold   int // total element count below which truncation never applies
}

// DefaultLimits are spec.md §4.H's defaults.
var DefaultLimits = Limits{StackedAxis: 6, Columns: 11, Rows: 11, Threshold: 500}

// Option adjusts a Limits value; used by callers (the CLI layer) that load
// tunables from a config file instead of accepting the defaults outright.
type Option func(*Limits)

// WithStackedAxis overrides the per-axis stacked limit.
func WithStackedAxis(n int) Option { return func(l *Limits) { l.StackedAxis = n } }

// WithColumns overrides the column limit.
func WithColumns(n int) Option { return func(l *Limits) { l.Columns = n } }

// WithRows overrides the row limit.
func WithRows(n int) Option { return func(l *Limits) { l.Rows = n } }

// WithThreshold overrides the element-count threshold below which no
// truncation is ever applied regardless of shape.
func WithThreshold(n int) Option { return func(l *Limits) { l.Threshold = n } }

func resolve(opts []Option) Limits {
	l := DefaultLimits
	for _, o := range opts {
		o(&l)
	}
	return l
}

// Fprint renders view to w using the given options, walking axes
// outermost-first and formatting scalar leaves with formatElem.
func Fprint[T elembuf.Elem](w io.Writer, view ndarray.View[T], opts ...Option) error {
	l := resolve(opts)
	total := 1
	for _, d := range view.Dims() {
		total *= d
	}
	truncate := total > l.Threshold

	var b strings.Builder
	printAxis(&b, view, nil, l, truncate, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

// Sprint is Fprint rendered to a string, for callers (tests, CLI) that
// want the text without managing a Writer.
func Sprint[T elembuf.Elem](view ndarray.View[T], opts ...Option) string {
	var b strings.Builder
	_ = Fprint[T](&b, view, opts...)
	return b.String()
}

// printAxis recursively renders dimension `axis` of view, given the index
// prefix already fixed by enclosing axes.
func printAxis[T elembuf.Elem](b *strings.Builder, view ndarray.View[T], prefix []int, l Limits, truncate bool, depth int) {
	dims := view.Dims()
	axis := len(prefix)
	indent := strings.Repeat(" ", depth)

	if axis == len(dims) {
		v, err := view.Get(prefix)
		if err != nil {
			b.WriteString("<err>")
			return
		}
		b.WriteString(formatElem(v))
		return
	}

	n := dims[axis]
	isLastAxis := axis == len(dims)-1
	limit := l.StackedAxis
	if isLastAxis {
		limit = l.Columns
	} else if axis == len(dims)-2 {
		limit = l.Rows
	}

	b.WriteByte('[')
	ellipsize := truncate && n > limit && limit >= 2
	half := limit / 2

	written := 0
	for i := 0; i < n; i++ {
		if ellipsize && i >= half && i < n-(limit-half) {
			if i == half {
				if isLastAxis {
					b.WriteString(" ... ")
				} else {
					b.WriteString(indent + " ...\n")
				}
			}
			continue
		}
		if written > 0 {
			if isLastAxis {
				b.WriteString(" ")
			} else {
				b.WriteString(",\n" + indent + " ")
			}
		}
		printAxis(b, view, append(append([]int{}, prefix...), i), l, truncate, depth+1)
		written++
	}
	b.WriteByte(']')
}

// formatElem applies spec.md §4.H's per-kind scalar formatting rules.
func formatElem(v any) string {
	switch x := v.(type) {
	case bool:
		if x {
			return " True"
		}
		return "False"
	case float32:
		return formatFloat(float64(x))
	case float64:
		return formatFloat(x)
	case complex64:
		return formatComplex(complex128(x))
	case complex128:
		return formatComplex(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// formatFloat renders one decimal place for a value that is a small exact
// integer, else eight significant digits, per spec.md §4.H.
func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e6 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'g', 8, 64)
}

// formatComplex renders "R±Ij" per spec.md §4.H.
func formatComplex(c complex128) string {
	re, im := real(c), imag(c)
	sign := "+"
	if im < 0 {
		sign = "-"
		im = -im
	}
	return fmt.Sprintf("%s%s%sj", formatFloat(re), sign, formatFloat(im))
}
