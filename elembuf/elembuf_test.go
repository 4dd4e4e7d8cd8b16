package elembuf

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonpy/dtype"
)

func TestAsTypedSliceHappyPath(t *testing.T) {
	raw := make([]byte, 16)
	binary.LittleEndian.PutUint64(raw[0:8], 0x3FF0000000000000) // 1.0 as float64 bits
	binary.LittleEndian.PutUint64(raw[8:16], 0x4000000000000000)
	dt := dtype.Dtype{Kind: dtype.Float64, Endian: dtype.NativeEndian()}
	got, err := AsTypedSlice[float64](raw, 2, dt)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestAsTypedSliceTypeMismatch(t *testing.T) {
	raw := make([]byte, 8)
	dt := dtype.Dtype{Kind: dtype.Int64}
	_, err := AsTypedSlice[float64](raw, 1, dt)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestAsTypedSliceMissingBytes(t *testing.T) {
	raw := make([]byte, 4)
	dt := dtype.Dtype{Kind: dtype.Float64}
	_, err := AsTypedSlice[float64](raw, 2, dt)
	assert.ErrorIs(t, err, ErrMissingBytes)
}

func TestAsTypedSliceExtraBytes(t *testing.T) {
	raw := make([]byte, 24)
	dt := dtype.Dtype{Kind: dtype.Float64}
	_, err := AsTypedSlice[float64](raw, 2, dt)
	assert.ErrorIs(t, err, ErrExtraBytes)
}

func TestAsTypedSliceEndiannessMismatch(t *testing.T) {
	other := dtype.Big
	if dtype.NativeEndian() == dtype.Big {
		other = dtype.Little
	}
	raw := make([]byte, 8)
	dt := dtype.Dtype{Kind: dtype.Float64, Endian: other}
	_, err := AsTypedSlice[float64](raw, 1, dt)
	assert.ErrorIs(t, err, ErrEndiannessMismatch)
}

func TestAsTypedSliceEmptyFastPath(t *testing.T) {
	dt := dtype.Dtype{Kind: dtype.Float64}
	got, err := AsTypedSlice[float64](nil, 0, dt)
	require.NoError(t, err)
	assert.Len(t, got, 0)
}

// TestAsTypedSliceBoolAcceptsZeroOne and RejectsOther are spec.md §8 item
// 10 and scenario S5.
func TestAsTypedSliceBoolAcceptsZeroOne(t *testing.T) {
	raw := []byte{0, 1, 1, 0}
	dt := dtype.Dtype{Kind: dtype.Bool}
	got, err := AsTypedSlice[bool](raw, 4, dt)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, true, false}, got)
}

func TestAsTypedSliceBoolRejectsOther(t *testing.T) {
	raw := []byte{0, 2, 1, 0}
	dt := dtype.Dtype{Kind: dtype.Bool}
	_, err := AsTypedSlice[bool](raw, 4, dt)
	assert.ErrorIs(t, err, ErrInvalidBool)
}

type byteReader struct{ buf *bytes.Buffer }

func (b byteReader) ReadExact(dst []byte) error {
	n, err := b.buf.Read(dst)
	if n < len(dst) {
		return ErrMissingBytes
	}
	return err
}

func TestReadIntoSwapsOnEndiannessMismatch(t *testing.T) {
	other := dtype.Big
	if dtype.NativeEndian() == dtype.Big {
		other = dtype.Little
	}
	const want = uint64(0x0102030405060708)
	raw := make([]byte, 8)
	if other == dtype.Big {
		binary.BigEndian.PutUint64(raw, want)
	} else {
		binary.LittleEndian.PutUint64(raw, want)
	}

	dst := make([]uint64, 1)
	dt := dtype.Dtype{Kind: dtype.UInt64, Endian: other}
	err := ReadInto(dst, byteReader{bytes.NewBuffer(raw)}, dt)
	require.NoError(t, err)
	assert.Equal(t, want, dst[0])
}

func TestWriteSliceThenAsTypedSliceRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	src := []int32{1, 2, 3, 4}
	require.NoError(t, WriteSlice(&buf, src))

	dt := dtype.Dtype{Kind: dtype.Int32, Endian: dtype.NativeEndian()}
	got, err := AsTypedSlice[int32](buf.Bytes(), 4, dt)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}
