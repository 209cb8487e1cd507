package vint_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ebmlio/container/ebmlerr"
	"github.com/ebmlio/container/vint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeClassTransitions(t *testing.T) {
	values := []uint64{0x7E, 0x7F, 0x80, 0x3FFE, 0x3FFF, 0x4000}
	wantWidths := []int{1, 1, 2, 2, 2, 3}
	for i, v := range values {
		assert.Equal(t, wantWidths[i], vint.Size(v), "value %#x", v)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 0x7E, 0x7F, 0x80, 0x3FFF, 0x4000, 1 << 20, vint.MaxValue}
	for _, v := range values {
		buf, err := vint.Encode(v)
		require.NoError(t, err)
		require.Equal(t, vint.Size(v), len(buf))

		got, consumed, err := vint.Decode(buf)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, len(buf), consumed)
	}
}

func TestEncodeRequiredWidth(t *testing.T) {
	buf, err := vint.Encode(5, 4)
	require.NoError(t, err)
	assert.Len(t, buf, 4)
	got, consumed, err := vint.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), got)
	assert.Equal(t, 4, consumed)

	_, err = vint.Encode(0x4000, 2)
	require.Error(t, err)
	kind, ok := ebmlerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ebmlerr.SpecSizeTooSmall, kind)
}

func TestEncodeTooBig(t *testing.T) {
	_, err := vint.Encode(vint.Reserved)
	require.Error(t, err)
	kind, _ := ebmlerr.KindOf(err)
	assert.Equal(t, ebmlerr.VarIntTooBig, kind)
}

func TestDecodeInvalidLeadingZero(t *testing.T) {
	_, _, err := vint.Decode([]byte{0x00, 0x01})
	require.Error(t, err)
	kind, _ := ebmlerr.KindOf(err)
	assert.Equal(t, ebmlerr.InvalidVarInt, kind)
}

func TestDecodeBufferTooSmall(t *testing.T) {
	_, _, err := vint.Decode([]byte{0x20}) // 3-byte marker, only 1 byte given
	require.Error(t, err)
	kind, _ := ebmlerr.KindOf(err)
	assert.Equal(t, ebmlerr.BufferTooSmall, kind)
}

func TestWriteReadStream(t *testing.T) {
	var buf bytes.Buffer
	n, err := vint.Write(&buf, 300000)
	require.NoError(t, err)
	assert.Equal(t, buf.Len(), n)

	got, consumed, err := vint.Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(300000), got)
	assert.Equal(t, n, consumed)
}

func TestReadShortStream(t *testing.T) {
	_, _, err := vint.Read(bytes.NewReader([]byte{0x20})) // promises 2 more bytes
	require.Error(t, err)
	require.True(t, errors.Is(err, &ebmlerr.Error{Kind: ebmlerr.ReadError}))
}

func TestUnknownSizeMarker(t *testing.T) {
	buf := vint.EncodeUnknown(8)
	assert.Equal(t, []byte{0x01, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, buf)

	value, consumed, err := vint.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, 8, consumed)
	assert.True(t, vint.IsUnknown(value, consumed))
	assert.Equal(t, vint.Reserved, value)
}
