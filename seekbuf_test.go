package ebml_test

import (
	"errors"
	"io"

	"github.com/ebmlio/container/ids"
)

// seekBuffer is an in-memory io.ReadWriteSeeker test double backed by a
// plain growable byte slice, so that writes at an earlier position (the
// back-patching the two-phase write protocol relies on) overwrite in
// place rather than just appending, which a *bytes.Buffer cannot do.
type seekBuffer struct {
	data []byte
	pos  int64
}

func newSeekBuffer() *seekBuffer {
	return &seekBuffer{}
}

func newSeekBufferFrom(data []byte) *seekBuffer {
	cp := make([]byte, len(data))
	copy(cp, data)
	return &seekBuffer{data: cp}
}

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

func readID(s *seekBuffer) (ids.ID, int, error) {
	return ids.Read(s)
}
