package ids_test

import (
	"bytes"
	"testing"

	"github.com/ebmlio/container/ebmlerr"
	"github.com/ebmlio/container/ids"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeClasses(t *testing.T) {
	cases := []struct {
		id   ids.ID
		size int
	}{
		{0x80, 1}, {0x81, 1}, {0xFE, 1},
		{0x4000, 2}, {0x7FFE, 2},
		{0x200000, 3}, {0x3FFFFE, 3},
		{0x10000000, 4}, {0x1FFFFFFE, 4},
		{0x1A45DFA3, 4},
	}
	for _, c := range cases {
		got, err := ids.Size(c.id)
		require.NoError(t, err)
		assert.Equal(t, c.size, got, "id %#x", c.id)
	}
}

func TestReservedAndZeroInvalid(t *testing.T) {
	for _, id := range []ids.ID{0, 0xFF, 0x7FFF, 0x3FFFFF, 0x1FFFFFFF} {
		_, err := ids.Size(id)
		require.Error(t, err, "id %#x should be invalid", id)
		kind, ok := ebmlerr.KindOf(err)
		require.True(t, ok)
		assert.Equal(t, ebmlerr.InvalidEbmlID, kind)
		assert.False(t, ids.Validate(id))
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, id := range []ids.ID{0x80, 0x97, 0xC0, 0xFE, 0x4000, 0x4B35, 0x7FFE, 0x1A45DFA3} {
		buf, err := ids.Encode(id)
		require.NoError(t, err)

		got, consumed, err := ids.Decode(buf)
		require.NoError(t, err)
		assert.Equal(t, id, got)
		assert.Equal(t, len(buf), consumed)
	}
}

func TestEncodeKnownBytes(t *testing.T) {
	buf, err := ids.Encode(0x1A45DFA3)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1A, 0x45, 0xDF, 0xA3}, buf)
}

func TestWriteReadStream(t *testing.T) {
	var buf bytes.Buffer
	n, err := ids.Write(&buf, 0x18538067)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	got, consumed, err := ids.Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, ids.ID(0x18538067), got)
	assert.Equal(t, 4, consumed)
}
