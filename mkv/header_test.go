package mkv_test

import (
	"testing"

	"github.com/ebmlio/container/mkv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := mkv.NewHeader("containertest")

	s := newSeekBuffer()
	require.NoError(t, h.StartWrite(s))
	require.NoError(t, h.FinishWrite(s))

	got := mkv.NewHeader("")
	replayElement(t, s, got)

	assert.Equal(t, uint64(1), got.EBMLVersion.Value)
	assert.Equal(t, uint64(1), got.EBMLReadVersion.Value)
	assert.Equal(t, uint64(4), got.EBMLMaxIDLength.Value)
	assert.Equal(t, uint64(8), got.EBMLMaxSizeLength.Value)
	assert.Equal(t, "containertest", got.DocType.Value)
	assert.Equal(t, uint64(1), got.DocTypeVersion.Value)
	assert.Equal(t, uint64(1), got.DocTypeReadVersion.Value)
}

func TestHeaderFieldsSurviveAtDefaults(t *testing.T) {
	// Every Header field is required, so even a value equal to its
	// constructor default must still be emitted (no elision).
	h := mkv.NewHeader("d")
	h.EBMLVersion.Value = 1 // already the default

	s := newSeekBuffer()
	require.NoError(t, h.StartWrite(s))
	require.NoError(t, h.FinishWrite(s))
	assert.NotZero(t, len(s.Bytes()))

	got := mkv.NewHeader("")
	replayElement(t, s, got)
	assert.Equal(t, uint64(1), got.EBMLVersion.Value)
}
