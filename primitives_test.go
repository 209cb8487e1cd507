package ebml_test

import (
	"io"
	"testing"
	"time"

	"github.com/ebmlio/container/ebml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntRoundTrip(t *testing.T) {
	e, err := ebml.NewInt(0x80, 0)
	require.NoError(t, err)
	e.Value = -129

	s := newSeekBuffer()
	require.NoError(t, ebml.WriteElement(s, e))

	_, err = s.Seek(0, io.SeekStart)
	require.NoError(t, err)
	id, _, err := readID(s)
	require.NoError(t, err)
	assert.Equal(t, e.ID(), id)

	got, err := ebml.NewInt(0x80, 0)
	require.NoError(t, err)
	require.NoError(t, got.Read(s))
	assert.Equal(t, int64(-129), got.Value)
}

func TestIntDefaultElision(t *testing.T) {
	e, err := ebml.NewInt(0x80, 7)
	require.NoError(t, err)
	assert.True(t, e.IsDefault())
	e.Value = 8
	assert.False(t, e.IsDefault())
}

func TestUintRoundTrip(t *testing.T) {
	e, err := ebml.NewUint(0x80, 0)
	require.NoError(t, err)
	e.Value = 1 << 40

	s := newSeekBuffer()
	require.NoError(t, ebml.WriteElement(s, e))

	_, err = s.Seek(0, io.SeekStart)
	require.NoError(t, err)
	_, _, err = readID(s)
	require.NoError(t, err)

	got, err := ebml.NewUint(0x80, 0)
	require.NoError(t, err)
	require.NoError(t, got.Read(s))
	assert.Equal(t, uint64(1<<40), got.Value)
}

func TestFloatRoundTripSingleAndDouble(t *testing.T) {
	for _, double := range []bool{false, true} {
		e, err := ebml.NewFloat(0x80, 0, double)
		require.NoError(t, err)
		e.Value = 3.5

		s := newSeekBuffer()
		require.NoError(t, ebml.WriteElement(s, e))

		_, err = s.Seek(0, io.SeekStart)
		require.NoError(t, err)
		_, _, err = readID(s)
		require.NoError(t, err)

		got, err := ebml.NewFloat(0x80, 0, double)
		require.NoError(t, err)
		require.NoError(t, got.Read(s))
		assert.Equal(t, 3.5, got.Value)
		assert.Equal(t, double, got.Double)
	}
}

func TestStringPadding(t *testing.T) {
	e, err := ebml.NewString(0x80, "")
	require.NoError(t, err)
	e.Value = "ab"
	e.PadWidth = 5

	s := newSeekBuffer()
	require.NoError(t, ebml.WriteElement(s, e))

	_, err = s.Seek(0, io.SeekStart)
	require.NoError(t, err)
	_, _, err = readID(s)
	require.NoError(t, err)

	got, err := ebml.NewString(0x80, "")
	require.NoError(t, err)
	require.NoError(t, got.Read(s))
	assert.Equal(t, "ab", got.Value)
}

func TestBinaryRoundTrip(t *testing.T) {
	e, err := ebml.NewBinary(0x80)
	require.NoError(t, err)
	e.Value = []byte{0x01, 0x02, 0x03}

	s := newSeekBuffer()
	require.NoError(t, ebml.WriteElement(s, e))

	_, err = s.Seek(0, io.SeekStart)
	require.NoError(t, err)
	_, _, err = readID(s)
	require.NoError(t, err)

	got, err := ebml.NewBinary(0x80)
	require.NoError(t, err)
	require.NoError(t, got.Read(s))
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, got.Value)
}

func TestDateRoundTrip(t *testing.T) {
	when := time.Date(2020, time.March, 4, 5, 6, 7, 0, time.UTC)
	e, err := ebml.NewDate(0x80, when)
	require.NoError(t, err)

	s := newSeekBuffer()
	require.NoError(t, ebml.WriteElement(s, e))

	_, err = s.Seek(0, io.SeekStart)
	require.NoError(t, err)
	_, _, err = readID(s)
	require.NoError(t, err)

	got, err := ebml.NewDate(0x80, time.Time{})
	require.NoError(t, err)
	require.NoError(t, got.Read(s))
	assert.True(t, when.Equal(got.Value))
}

func TestDateReadBodyRejectsWrongSize(t *testing.T) {
	e, err := ebml.NewDate(0x80, time.Time{})
	require.NoError(t, err)

	s := newSeekBuffer()
	_, err = s.Write(make([]byte, 5))
	require.NoError(t, err)
	_, err = s.Seek(0, io.SeekStart)
	require.NoError(t, err)

	err = e.ReadBody(s, 5)
	require.Error(t, err)
	kind, ok := ebml.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ebml.KindBadElementLength, kind)
}
