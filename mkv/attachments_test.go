package mkv_test

import (
	"testing"

	"github.com/ebmlio/container/ebmlerr"
	"github.com/ebmlio/container/mkv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachedFileRoundTrip(t *testing.T) {
	file := mkv.NewAttachedFile("cover.jpg", "image/jpeg", []byte{0xFF, 0xD8, 0xFF}, 42)
	require.NoError(t, file.Validate())

	s := newSeekBuffer()
	require.NoError(t, file.StartWrite(s))
	require.NoError(t, file.FinishWrite(s))

	got := mkv.NewAttachedFile("", "", nil, 1)
	replayElement(t, s, got)

	assert.Equal(t, "cover.jpg", got.FileName.Value)
	assert.Equal(t, "image/jpeg", got.FileMimeType.Value)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, got.FileData.Value)
	assert.Equal(t, uint64(42), got.FileUID.Value)
}

func TestAttachedFileRejectsZeroUID(t *testing.T) {
	file := mkv.NewAttachedFile("a.bin", "application/octet-stream", []byte{1}, 0)
	err := file.Validate()
	require.Error(t, err)
	kind, ok := ebmlerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ebmlerr.ValueOutOfRange, kind)
}

func TestAttachedFileRejectsEmptyData(t *testing.T) {
	file := mkv.NewAttachedFile("a.bin", "application/octet-stream", nil, 7)
	err := file.Validate()
	require.Error(t, err)
	kind, ok := ebmlerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, ebmlerr.ValueSizeOutOfRange, kind)
}

func TestAttachmentsAddValidatesBeforeAppend(t *testing.T) {
	atts := mkv.NewAttachments()
	bad := mkv.NewAttachedFile("a.bin", "application/octet-stream", nil, 7)
	require.Error(t, atts.Add(bad))
	assert.Empty(t, atts.Files)

	good := mkv.NewAttachedFile("a.bin", "application/octet-stream", []byte{1, 2, 3}, 7)
	require.NoError(t, atts.Add(good))
	assert.Len(t, atts.Files, 1)
}

func TestAttachmentsRoundTripEmpty(t *testing.T) {
	atts := mkv.NewAttachments()
	s := newSeekBuffer()
	require.NoError(t, atts.StartWrite(s))
	require.NoError(t, atts.FinishWrite(s))

	got := mkv.NewAttachments()
	replayElement(t, s, got)
	assert.Empty(t, got.Files)
}
