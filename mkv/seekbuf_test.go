package mkv_test

import (
	"errors"
	"io"
	"testing"

	"github.com/ebmlio/container/ebml"
	"github.com/ebmlio/container/ids"
	"github.com/stretchr/testify/require"
)

// seekBuffer is an in-memory io.ReadWriteSeeker test double: writes
// overwrite in place from the current position (growing as needed) so
// that back-patching (seek to an earlier offset, write, seek back) works
// the same way a real file would.
type seekBuffer struct {
	data []byte
	pos  int64
}

func newSeekBuffer() *seekBuffer { return &seekBuffer{} }

func (b *seekBuffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if end > int64(len(b.data)) {
		grown := make([]byte, end)
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[b.pos:end], p)
	b.pos = end
	return len(p), nil
}

func (b *seekBuffer) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = b.pos
	case io.SeekEnd:
		base = int64(len(b.data))
	default:
		return 0, errors.New("seekBuffer: invalid whence")
	}
	b.pos = base + offset
	return b.pos, nil
}

func (b *seekBuffer) Bytes() []byte { return b.data }

// replayElement rewinds s to the start, consumes the element's ID, and
// reads el's size and body from the remainder, the same sequence a
// caller driving the two-phase read protocol performs.
func replayElement(t *testing.T, s *seekBuffer, el ebml.Element) {
	t.Helper()
	_, err := s.Seek(0, io.SeekStart)
	require.NoError(t, err)
	_, _, err = ids.Read(s)
	require.NoError(t, err)
	require.NoError(t, el.Read(s))
}
