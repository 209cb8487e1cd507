package mkv

import (
	"encoding/binary"
	"io"

	"github.com/ebmlio/container/ebml"
	"github.com/ebmlio/container/ebmlerr"
	"github.com/ebmlio/container/ids"
	"github.com/ebmlio/container/vint"
)

// Block is the shared framing of the SimpleBlock and BlockGroup's Block
// child (§3.7, §6.2): track number, a cluster-relative signed timecode,
// flags, and an ordered, non-empty vector of frames.
type Block struct {
	ebml.ElementBase
	TrackNumber uint64
	Timecode    int16
	Invisible   bool
	KeyFrame    bool // caller bit (flags bit 7); SimpleBlock's "keyframe" flag
	Lacing      LacingMode
	Frames      [][]byte
}

// NewBlock constructs an unlaced, empty Block for id (the caller's
// SimpleBlock or Block element ID).
func NewBlock(id ids.ID) (*Block, error) {
	b := &Block{Lacing: LacingNone}
	base, err := ebml.NewElementBase(id, b)
	if err != nil {
		return nil, err
	}
	b.ElementBase = base
	return b, nil
}

// Init rebinds a freshly reflect.New'd Block to the SimpleBlock ID, so
// the Master engine can mint repeated Block children directly (Cluster
// only carries SimpleBlock-framed blocks, never the BlockGroup wrapper).
func (b *Block) Init() {
	b.ElementBase, _ = ebml.NewElementBase(SimpleBlockID, b)
}

func (b *Block) validate() error {
	if len(b.Frames) == 0 {
		return ebmlerr.New(ebmlerr.EmptyFrame, "track", b.TrackNumber)
	}
	for _, f := range b.Frames {
		if len(f) == 0 {
			return ebmlerr.New(ebmlerr.EmptyFrame, "track", b.TrackNumber)
		}
	}
	switch b.Lacing {
	case LacingNone:
		if len(b.Frames) != 1 {
			return ebmlerr.New(ebmlerr.BadLacedFrameSize, "observed", len(b.Frames), "lacing", "none")
		}
	case LacingFixed:
		want := len(b.Frames[0])
		for _, f := range b.Frames {
			if len(f) != want {
				return ebmlerr.New(ebmlerr.BadLacedFrameSize, "observed", len(f), "expected", want)
			}
		}
	}
	return nil
}

func (b *Block) headerFlags() byte {
	flags := b.Lacing.wireCode() << 5
	if b.Invisible {
		flags |= 0x10
	}
	if b.KeyFrame {
		flags |= 0x80
	}
	return flags
}

func (b *Block) BodyStoredSize() (uint64, error) {
	if err := b.validate(); err != nil {
		return 0, err
	}
	size := uint64(vint.Size(b.TrackNumber)) + 2 + 1
	switch b.Lacing {
	case LacingNone:
		size += uint64(len(b.Frames[0]))
	case LacingFixed:
		size++
		for _, f := range b.Frames {
			size += uint64(len(f))
		}
	case LacingEBML:
		header, err := encodeEBMLLaceHeader(b.Frames)
		if err != nil {
			return 0, err
		}
		size += uint64(len(header))
		for _, f := range b.Frames {
			size += uint64(len(f))
		}
	}
	return size, nil
}

func (b *Block) StartBody(s ebml.Stream) (uint64, error) {
	if err := b.validate(); err != nil {
		return 0, err
	}
	written := 0
	n, err := vint.Write(s, b.TrackNumber)
	if err != nil {
		return 0, err
	}
	written += n

	var tc [2]byte
	binary.BigEndian.PutUint16(tc[:], uint16(b.Timecode))
	if _, err := s.Write(tc[:]); err != nil {
		return 0, ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
	}
	written += 2

	if _, err := s.Write([]byte{b.headerFlags()}); err != nil {
		return 0, ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
	}
	written++

	switch b.Lacing {
	case LacingNone:
		nw, err := s.Write(b.Frames[0])
		if err != nil {
			return 0, ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
		}
		written += nw
	case LacingFixed:
		if _, err := s.Write([]byte{byte(len(b.Frames) - 1)}); err != nil {
			return 0, ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
		}
		written++
		for _, f := range b.Frames {
			nw, err := s.Write(f)
			if err != nil {
				return 0, ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
			}
			written += nw
		}
	case LacingEBML:
		header, err := encodeEBMLLaceHeader(b.Frames)
		if err != nil {
			return 0, err
		}
		if _, err := s.Write(header); err != nil {
			return 0, ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
		}
		written += len(header)
		for _, f := range b.Frames {
			nw, err := s.Write(f)
			if err != nil {
				return 0, ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
			}
			written += nw
		}
	}
	return uint64(written), nil
}

func (b *Block) FinishBody(s ebml.Stream) error { return nil }

func (b *Block) ReadBody(s ebml.Stream, size uint64) (err error) {
	saved := *b
	defer func() {
		if err != nil {
			*b = saved
		}
	}()
	const headerMin = 4 // track-number vint's minimum 1 byte + 2-byte timecode + 1 flags byte, checked below
	if size < headerMin {
		return ebmlerr.New(ebmlerr.BadElementLength, "observed", size, "allowed", "at least 4")
	}
	raw := make([]byte, size)
	if _, err := io.ReadFull(s, raw); err != nil {
		return ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
	}

	trackNum, n, err := vint.Decode(raw)
	if err != nil {
		return err
	}
	pos := n
	if pos+3 > len(raw) {
		return ebmlerr.New(ebmlerr.BadElementLength, "observed", size, "allowed", "header truncated")
	}
	timecode := int16(binary.BigEndian.Uint16(raw[pos : pos+2]))
	pos += 2
	flags := raw[pos]
	pos++

	lacing, err := lacingFromWireCode((flags >> 5) & 0x03)
	if err != nil {
		return err
	}

	b.TrackNumber = trackNum
	b.Timecode = timecode
	b.Invisible = flags&0x10 != 0
	b.KeyFrame = flags&0x80 != 0
	b.Lacing = lacing

	switch lacing {
	case LacingNone:
		b.Frames = [][]byte{append([]byte(nil), raw[pos:]...)}
	case LacingFixed:
		if pos >= len(raw) {
			return ebmlerr.New(ebmlerr.BadLacedFrameSize, "observed", "missing frame count")
		}
		count := int(raw[pos]) + 1
		pos++
		remaining := len(raw) - pos
		if count <= 0 || remaining%count != 0 {
			return ebmlerr.New(ebmlerr.BadLacedFrameSize, "observed", remaining, "frames", count)
		}
		frameSize := remaining / count
		if frameSize <= 0 {
			return ebmlerr.New(ebmlerr.BadLacedFrameSize, "observed", frameSize)
		}
		frames := make([][]byte, count)
		for i := 0; i < count; i++ {
			frames[i] = append([]byte(nil), raw[pos:pos+frameSize]...)
			pos += frameSize
		}
		b.Frames = frames
	case LacingEBML:
		if pos >= len(raw) {
			return ebmlerr.New(ebmlerr.BadLacedFrameSize, "observed", "missing frame count")
		}
		count := int(raw[pos]) + 1
		pos++
		sizes, consumed, err := decodeEBMLLaceSizes(raw[pos:], count)
		if err != nil {
			return err
		}
		pos += consumed
		sum := 0
		for i := 0; i < count-1; i++ {
			sum += sizes[i]
		}
		last := len(raw) - pos - sum
		if last <= 0 {
			return ebmlerr.New(ebmlerr.BadLacedFrameSize, "observed", last)
		}
		sizes[count-1] = last
		frames := make([][]byte, count)
		for i, sz := range sizes {
			if sz <= 0 || pos+sz > len(raw) {
				return ebmlerr.New(ebmlerr.BadLacedFrameSize, "observed", sz)
			}
			frames[i] = append([]byte(nil), raw[pos:pos+sz]...)
			pos += sz
		}
		b.Frames = frames
	}
	return b.validate()
}
