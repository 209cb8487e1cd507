package mkv_test

import (
	"testing"

	"github.com/ebmlio/container/ebml"
	"github.com/ebmlio/container/ebmlerr"
	"github.com/ebmlio/container/mkv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockNoneLacingRoundTrip(t *testing.T) {
	b, err := mkv.NewBlock(0xA3)
	require.NoError(t, err)
	b.TrackNumber = 1
	b.Timecode = -5
	b.Frames = [][]byte{{0x01, 0x02, 0x03}}

	s := newSeekBuffer()
	require.NoError(t, ebml.WriteElement(s, b))

	got, err := mkv.NewBlock(0xA3)
	require.NoError(t, err)
	replayElement(t, s, got)
	assert.Equal(t, uint64(1), got.TrackNumber)
	assert.Equal(t, int16(-5), got.Timecode)
	assert.Equal(t, mkv.LacingNone, got.Lacing)
	assert.Equal(t, [][]byte{{0x01, 0x02, 0x03}}, got.Frames)
}

func TestBlockFixedLacingRoundTrip(t *testing.T) {
	b, err := mkv.NewBlock(0xA3)
	require.NoError(t, err)
	b.TrackNumber = 2
	b.Lacing = mkv.LacingFixed
	b.Frames = [][]byte{{0x01, 0x02}, {0x03, 0x04}, {0x05, 0x06}}

	s := newSeekBuffer()
	require.NoError(t, ebml.WriteElement(s, b))

	got, err := mkv.NewBlock(0xA3)
	require.NoError(t, err)
	replayElement(t, s, got)
	assert.Equal(t, b.Frames, got.Frames)
}

// TestBlockEBMLLacingScenario4 matches the worked example: frames of
// length 2, 1, 3 on track 1 at timecode +100 lace to n-1=2, vint(2),
// biased svint(-1), then the concatenated frame bytes.
func TestBlockEBMLLacingScenario4(t *testing.T) {
	b, err := mkv.NewBlock(0xA3)
	require.NoError(t, err)
	b.TrackNumber = 1
	b.Timecode = 100
	b.Lacing = mkv.LacingEBML
	b.Frames = [][]byte{{0x41, 0x42}, {0x43}, {0x44, 0x45, 0x46}}

	s := newSeekBuffer()
	require.NoError(t, ebml.WriteElement(s, b))
	assert.Equal(t, []byte{
		0xA3, 0x8D, // SimpleBlock ID, body size 13
		0x81, 0x00, 0x64, 0x60, // track 1, timecode +100, EBML lacing flags
		0x02, 0x82, 0xBE, // n-1, vint(2), biased svint(-1)
		0x41, 0x42, 0x43, 0x44, 0x45, 0x46,
	}, s.Bytes())

	got, err := mkv.NewBlock(0xA3)
	require.NoError(t, err)
	replayElement(t, s, got)
	assert.Equal(t, uint64(1), got.TrackNumber)
	assert.Equal(t, int16(100), got.Timecode)
	assert.Equal(t, mkv.LacingEBML, got.Lacing)
	assert.Equal(t, b.Frames, got.Frames)
}

func TestBlockNoneLacingRejectsMultipleFrames(t *testing.T) {
	b, err := mkv.NewBlock(0xA3)
	require.NoError(t, err)
	b.TrackNumber = 1
	b.Frames = [][]byte{{0x01}, {0x02}}

	_, err = b.BodyStoredSize()
	require.Error(t, err)
	kind, ok := ebmlerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ebmlerr.BadLacedFrameSize, kind)
}

func TestBlockFixedLacingRejectsUnevenFrames(t *testing.T) {
	b, err := mkv.NewBlock(0xA3)
	require.NoError(t, err)
	b.TrackNumber = 1
	b.Lacing = mkv.LacingFixed
	b.Frames = [][]byte{{0x01, 0x02}, {0x03}}

	_, err = b.BodyStoredSize()
	require.Error(t, err)
	kind, ok := ebmlerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ebmlerr.BadLacedFrameSize, kind)
}

func TestBlockRejectsEmptyFrame(t *testing.T) {
	b, err := mkv.NewBlock(0xA3)
	require.NoError(t, err)
	b.TrackNumber = 1
	b.Frames = [][]byte{{}}

	_, err = b.BodyStoredSize()
	require.Error(t, err)
	kind, ok := ebmlerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ebmlerr.EmptyFrame, kind)
}
