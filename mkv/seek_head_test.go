package mkv_test

import (
	"testing"

	"github.com/ebmlio/container/mkv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeekHeadInsertFindErase(t *testing.T) {
	sh := mkv.NewSeekHead()
	infoID := [4]byte{0x15, 0x49, 0xA9, 0x66}
	tracksID := [4]byte{0x16, 0x54, 0xAE, 0x6B}

	sh.Insert(infoID, 100)
	sh.Insert(tracksID, 250)

	off, ok := sh.Find(infoID)
	require.True(t, ok)
	assert.Equal(t, uint64(100), off)

	sh.Erase(infoID)
	_, ok = sh.Find(infoID)
	assert.False(t, ok)

	off, ok = sh.Find(tracksID)
	require.True(t, ok)
	assert.Equal(t, uint64(250), off)
}

func TestSeekHeadRoundTrip(t *testing.T) {
	sh := mkv.NewSeekHead()
	sh.Insert([4]byte{0x15, 0x49, 0xA9, 0x66}, 42)
	sh.Insert([4]byte{0x1F, 0x43, 0xB6, 0x75}, 999)

	s := newSeekBuffer()
	require.NoError(t, sh.StartWrite(s))
	require.NoError(t, sh.FinishWrite(s))

	got := mkv.NewSeekHead()
	replayElement(t, s, got)

	require.Len(t, got.Entries, 2)
	off, ok := got.Find([4]byte{0x1F, 0x43, 0xB6, 0x75})
	require.True(t, ok)
	assert.Equal(t, uint64(999), off)
}

func TestSeekHeadFindReturnsFirstMatch(t *testing.T) {
	sh := mkv.NewSeekHead()
	id := [4]byte{0x11, 0x4D, 0x9B, 0x74}
	sh.Insert(id, 10)
	sh.Insert(id, 20)

	off, ok := sh.Find(id)
	require.True(t, ok)
	assert.Equal(t, uint64(10), off)
}
