package mkv_test

import (
	"testing"

	"github.com/ebmlio/container/mkv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentEncodingsCompressionRoundTrip(t *testing.T) {
	comp := mkv.NewCompression(0)
	enc := mkv.NewContentEncoding(0, 0)
	enc.Compression = comp

	encodings := mkv.NewContentEncodings()
	encodings.Add(enc)

	te := mkv.NewTrackEntry(1, mkv.TrackTypeVideo, "V_TEST")
	te.ContentEncodings = encodings

	s := newSeekBuffer()
	require.NoError(t, te.StartWrite(s))
	require.NoError(t, te.FinishWrite(s))

	got := mkv.NewTrackEntry(0, 0, "")
	replayElement(t, s, got)

	require.NotNil(t, got.ContentEncodings)
	require.Len(t, got.ContentEncodings.Encodings, 1)
	assert.Equal(t, uint64(0), got.ContentEncodings.Encodings[0].Order.Value)
	require.NotNil(t, got.ContentEncodings.Encodings[0].Compression)
	assert.Equal(t, uint64(0), got.ContentEncodings.Encodings[0].Compression.Algo.Value)
}

func TestContentEncodingsEncryptionRoundTrip(t *testing.T) {
	encr := mkv.NewEncryption()
	enc := mkv.NewContentEncoding(0, 1)
	enc.Encryption = encr

	encodings := mkv.NewContentEncodings()
	encodings.Add(enc)

	te := mkv.NewTrackEntry(1, mkv.TrackTypeAudio, "A_TEST")
	te.ContentEncodings = encodings

	s := newSeekBuffer()
	require.NoError(t, te.StartWrite(s))
	require.NoError(t, te.FinishWrite(s))

	got := mkv.NewTrackEntry(0, 0, "")
	replayElement(t, s, got)

	require.NotNil(t, got.ContentEncodings)
	require.Len(t, got.ContentEncodings.Encodings, 1)
	assert.Equal(t, uint64(1), got.ContentEncodings.Encodings[0].Type.Value)
	assert.NotNil(t, got.ContentEncodings.Encodings[0].Encryption)
}

func TestTrackOperationJoinBlocksRoundTrip(t *testing.T) {
	op := mkv.NewTrackOperation()
	op.AddJoinBlock(10)
	op.AddJoinBlock(11)

	te := mkv.NewTrackEntry(3, mkv.TrackTypeVideo, "V_JOIN")
	te.TrackOperation = op

	s := newSeekBuffer()
	require.NoError(t, te.StartWrite(s))
	require.NoError(t, te.FinishWrite(s))

	got := mkv.NewTrackEntry(0, 0, "")
	replayElement(t, s, got)

	require.NotNil(t, got.TrackOperation)
	require.NotNil(t, got.TrackOperation.JoinBlocks)
	require.Len(t, got.TrackOperation.JoinBlocks.UIDs, 2)
	assert.Equal(t, uint64(10), got.TrackOperation.JoinBlocks.UIDs[0].Value)
	assert.Equal(t, uint64(11), got.TrackOperation.JoinBlocks.UIDs[1].Value)
}

func TestTrackOperationCombinePlanesRoundTrip(t *testing.T) {
	op := mkv.NewTrackOperation()
	op.AddCombinePlane(1, 0)
	op.AddCombinePlane(2, 1)

	te := mkv.NewTrackEntry(4, mkv.TrackTypeVideo, "V_COMBINE")
	te.TrackOperation = op

	s := newSeekBuffer()
	require.NoError(t, te.StartWrite(s))
	require.NoError(t, te.FinishWrite(s))

	got := mkv.NewTrackEntry(0, 0, "")
	replayElement(t, s, got)

	require.NotNil(t, got.TrackOperation)
	require.Len(t, got.TrackOperation.CombinePlanes, 2)
	assert.Equal(t, uint64(1), got.TrackOperation.CombinePlanes[0].UID.Value)
	assert.Equal(t, uint64(1), got.TrackOperation.CombinePlanes[1].Type.Value)
}

func TestChapterTranslateRoundTripOnSegmentInfo(t *testing.T) {
	si := mkv.NewSegmentInfo("test-muxer")
	si.Translate = append(si.Translate, mkv.NewChapterTranslate(1, []byte{0x01, 0x02}))

	s := newSeekBuffer()
	require.NoError(t, si.StartWrite(s))
	require.NoError(t, si.FinishWrite(s))

	got := mkv.NewSegmentInfo("")
	replayElement(t, s, got)

	require.Len(t, got.Translate, 1)
	assert.Equal(t, uint64(1), got.Translate[0].Codec.Value)
	assert.Equal(t, []byte{0x01, 0x02}, got.Translate[0].TranslateID.Value)
}
