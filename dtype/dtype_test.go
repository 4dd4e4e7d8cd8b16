package dtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKnownDescr(t *testing.T) {
	cases := []struct {
		descr string
		want  Dtype
	}{
		{"<f8", Dtype{Kind: Float64, Endian: Little}},
		{">f8", Dtype{Kind: Float64, Endian: Big}},
		{"=f4", Dtype{Kind: Float32, Endian: Unspecified}},
		{"|b1", Dtype{Kind: Bool, Endian: Unspecified}},
		{"<b1", Dtype{Kind: Bool, Endian: Unspecified}}, // single-byte: endian ignored
		{"|i1", Dtype{Kind: Int8, Endian: Unspecified}},
		{"|u1", Dtype{Kind: UInt8, Endian: Unspecified}},
		{"<i8", Dtype{Kind: Int64, Endian: Little}},
		{"<c16", Dtype{Kind: Complex128, Endian: Little}},
	}
	for _, c := range cases {
		got, err := Parse(c.descr)
		require.NoError(t, err, c.descr)
		assert.Equal(t, c.want, got, c.descr)
	}
}

func TestParseRejectsUnknown(t *testing.T) {
	for _, bad := range []string{"", "<q9", "garbage", "<f3"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrUnsupportedDescrType, bad)
	}
}

func TestByteWidthNonZeroForEveryKind(t *testing.T) {
	for k := Bool; k <= Complex128; k++ {
		assert.Greater(t, Dtype{Kind: k}.ByteWidth(), 0, k.String())
	}
}

func TestWithEndianNormalizesSingleByte(t *testing.T) {
	d := Dtype{Kind: Bool}.WithEndian(Big)
	assert.Equal(t, Unspecified, d.Endian)
}

func TestEmitRoundTripsNativeEndian(t *testing.T) {
	for k := Bool; k <= Complex128; k++ {
		d := Dtype{Kind: k}
		s, err := Emit(d)
		require.NoError(t, err)
		got, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, k, got.Kind)
	}
}
