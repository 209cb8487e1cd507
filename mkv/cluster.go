package mkv

import (
	"io"

	"github.com/ebmlio/container/ebml"
	"github.com/ebmlio/container/ebmlerr"
	"github.com/ebmlio/container/ids"
	"github.com/ebmlio/container/vint"
)

// SilentTrackNumber is one track number silenced for this cluster.
type SilentTrackNumber struct {
	*ebml.Master
	Value *ebml.Uint `ebml:"58D7,required"`
}

func NewSilentTrackNumber(trackNumber uint64) *SilentTrackNumber {
	s := &SilentTrackNumber{}
	s.Value, _ = ebml.NewUint(SilentTrackNumID, trackNumber)
	s.Init()
	return s
}

func (s *SilentTrackNumber) Init() {
	s.Master, _ = ebml.NewMaster(SilentTrackNumID, s, false)
}

// SilentTracks lists the track numbers silenced for the containing cluster.
type SilentTracks struct {
	*ebml.Master
	Numbers []*SilentTrackNumber `ebml:"58D7"`
}

func NewSilentTracks() *SilentTracks {
	st := &SilentTracks{}
	st.Init()
	return st
}

func (st *SilentTracks) Init() {
	st.Master, _ = ebml.NewMaster(SilentTracksID, st, false)
}

// Cluster is a fully materialized, single-pass cluster of blocks (§3.8):
// a required timecode, an optional silenced-track list, an optional
// segment-relative position and previous-cluster size, and the ordered
// SimpleBlock vector. This is the memory-buffered counterpart to
// FileCluster's streamed two-phase write.
type Cluster struct {
	*ebml.Master
	Timecode     *ebml.Uint    `ebml:"E7,required"`
	SilentTracks *SilentTracks `ebml:"5854"`
	Position     *ebml.Uint    `ebml:"A7"`
	PrevSize     *ebml.Uint    `ebml:"AB"`
	Blocks       []*Block      `ebml:"A3"`
}

// NewCluster builds a Cluster at the given timecode; its blocks' timecodes
// are relative to this one.
func NewCluster(timecode uint64) *Cluster {
	c := &Cluster{}
	c.Timecode, _ = ebml.NewUint(TimecodeID, timecode)
	c.Init()
	return c
}

func (c *Cluster) Init() {
	c.Master, _ = ebml.NewMaster(ClusterID, c, false)
}

// SetPosition attaches the cluster's segment-relative byte position.
func (c *Cluster) SetPosition(pos uint64) {
	c.Position, _ = ebml.NewUint(PositionID, pos)
}

// SetPrevSize attaches the previous cluster's total stored size.
func (c *Cluster) SetPrevSize(size uint64) {
	c.PrevSize, _ = ebml.NewUint(PrevSizeID, size)
}

// AddBlock appends a SimpleBlock-framed block to the cluster.
func (c *Cluster) AddBlock(b *Block) {
	c.Blocks = append(c.Blocks, b)
}

// NewSimpleBlock builds an unlaced SimpleBlock carrying a single frame.
func NewSimpleBlock(trackNumber uint64, timecode int16, keyFrame bool, frame []byte) (*Block, error) {
	b, err := NewBlock(SimpleBlockID)
	if err != nil {
		return nil, err
	}
	b.TrackNumber = trackNumber
	b.Timecode = timecode
	b.KeyFrame = keyFrame
	b.Frames = [][]byte{frame}
	return b, nil
}

// clusterStartWidth is the width reserved for a streamed cluster's size
// vint, matching the segment body-size placeholder convention (§4.8):
// wide enough that any realistic cluster body fits without reallocation.
const clusterStartWidth = 8

// clusterState tracks where a FileCluster sits in its two-phase write.
type clusterState int

const (
	clusterIdle clusterState = iota
	clusterWriting
	clusterFinalised
	clusterRead
)

// FileCluster is the genuine two-phase streaming counterpart to Cluster
// (§4.7): StartWrite reserves a wide size placeholder and emits the fixed
// metadata, PushBack streams one block at a time directly to the
// underlying file, and FinishWrite back-patches the true body size. It
// implements ebml.Element directly rather than embedding ElementBase,
// since its body is never fully buffered in memory the way Master's is.
type FileCluster struct {
	id            ids.ID
	offset        int64
	state         clusterState
	timecode      uint64
	silentTracks  []uint64
	position      *uint64
	prevSize      *uint64
	sizePos       int64
	bodyStart     int64
	curWritePos   int64
	finalBodySize uint64

	// blockOffsets holds the cluster-relative byte position of each
	// SimpleBlock's ID, recorded by Read's initial scan (§4.7); Iterator
	// dereferences this list lazily, one seek-and-decode per Next call,
	// rather than materialising every block up front.
	blockOffsets []int64
}

// NewFileCluster begins describing a cluster at the given timecode; call
// StartWrite to open the stream for writing.
func NewFileCluster(timecode uint64) *FileCluster {
	return &FileCluster{id: ClusterID, offset: ebml.NoOffset, timecode: timecode}
}

func (c *FileCluster) ID() ids.ID    { return c.id }
func (c *FileCluster) Offset() int64 { return c.offset }

// SetPosition records the cluster's own segment-relative offset once known.
func (c *FileCluster) SetPosition(pos uint64) { c.position = &pos }

// SetPrevSize records the previous cluster's total stored size.
func (c *FileCluster) SetPrevSize(size uint64) { c.prevSize = &size }

// Position returns the cluster's own segment-relative offset, if set.
func (c *FileCluster) Position() (uint64, bool) {
	if c.position == nil {
		return 0, false
	}
	return *c.position, true
}

// PrevSize returns the previous cluster's total stored size, if set.
func (c *FileCluster) PrevSize() (uint64, bool) {
	if c.prevSize == nil {
		return 0, false
	}
	return *c.prevSize, true
}

// SilentTrackNumbers returns the track numbers silenced for this cluster.
func (c *FileCluster) SilentTrackNumbers() []uint64 { return c.silentTracks }

// AddSilentTrack appends a silenced track number, emitted as part of the
// fixed metadata at StartWrite; calling this after StartWrite has no
// effect on the stream already written.
func (c *FileCluster) AddSilentTrack(trackNumber uint64) {
	c.silentTracks = append(c.silentTracks, trackNumber)
}

// StoredSize is only meaningful once the cluster has been finalised or read.
func (c *FileCluster) StoredSize() (uint64, error) {
	if c.state != clusterFinalised && c.state != clusterRead {
		return 0, ebmlerr.New(ebmlerr.NotWriting, "id", c.id)
	}
	idSize, err := ids.Size(c.id)
	if err != nil {
		return 0, err
	}
	return uint64(idSize) + clusterStartWidth + c.finalBodySize, nil
}

// Timecode returns the cluster's own timecode, valid once Read or
// StartWrite has populated it.
func (c *FileCluster) Timecode() uint64 { return c.timecode }

// Read opens an existing cluster for streamed access (§4.7): it scans the
// body once, decoding the fixed Timecode/SilentTracks/Position/PrevSize
// metadata and recording the cluster-relative offset of every SimpleBlock
// without decoding the blocks themselves. Call Iterator afterward to read
// blocks one at a time, on demand. The stream is left positioned just past
// the end of the cluster's body, as every other Read implementation in
// this module leaves it.
func (c *FileCluster) Read(s ebml.Stream) error {
	if c.state != clusterIdle {
		return ebmlerr.New(ebmlerr.NotWriting, "id", c.id)
	}
	pos, err := ebml.Tell(s)
	if err != nil {
		return err
	}
	idSize, err := ids.Size(c.id)
	if err != nil {
		return err
	}
	bodySize, _, err := vint.Read(s)
	if err != nil {
		return err
	}
	bodyStart, err := ebml.Tell(s)
	if err != nil {
		return err
	}
	end := bodyStart + int64(bodySize)

	var (
		timecode     uint64
		haveTimecode bool
		silentTracks []uint64
		position     *uint64
		prevSize     *uint64
		blockOffsets []int64
	)

	for {
		cur, err := ebml.Tell(s)
		if err != nil {
			return err
		}
		if cur >= end {
			break
		}
		childID, _, err := ids.Read(s)
		if err != nil {
			return err
		}
		switch childID {
		case TimecodeID:
			tc, err := ebml.NewUint(TimecodeID, 0)
			if err != nil {
				return err
			}
			if err := tc.Read(s); err != nil {
				return err
			}
			timecode = tc.Value
			haveTimecode = true
		case SilentTracksID:
			st := NewSilentTracks()
			if err := st.Read(s); err != nil {
				return err
			}
			for _, n := range st.Numbers {
				silentTracks = append(silentTracks, n.Value.Value)
			}
		case PositionID:
			p, err := ebml.NewUint(PositionID, 0)
			if err != nil {
				return err
			}
			if err := p.Read(s); err != nil {
				return err
			}
			v := p.Value
			position = &v
		case PrevSizeID:
			p, err := ebml.NewUint(PrevSizeID, 0)
			if err != nil {
				return err
			}
			if err := p.Read(s); err != nil {
				return err
			}
			v := p.Value
			prevSize = &v
		case SimpleBlockID:
			blockOffsets = append(blockOffsets, cur-bodyStart)
			size, _, err := vint.Read(s)
			if err != nil {
				return err
			}
			if _, err := s.Seek(int64(size), io.SeekCurrent); err != nil {
				return ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
			}
		default:
			return ebmlerr.New(ebmlerr.InvalidChildID, "child", childID, "parent", c.id)
		}
	}

	if !haveTimecode {
		return ebmlerr.New(ebmlerr.MissingChild, "id", TimecodeID, "parent", c.id)
	}
	if _, err := s.Seek(end, io.SeekStart); err != nil {
		return ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
	}

	c.timecode = timecode
	c.silentTracks = silentTracks
	c.position = position
	c.prevSize = prevSize
	c.bodyStart = bodyStart
	c.blockOffsets = blockOffsets
	c.finalBodySize = bodySize
	c.offset = pos - int64(idSize)
	c.state = clusterRead
	return nil
}

// Iterator returns a forward iterator over this cluster's blocks (§4.7,
// §9's "Iterator design for clusters"). Valid only after Read; s must be
// the same stream (or an equivalent seekable handle onto the same
// underlying file) the cluster was read from.
func (c *FileCluster) Iterator(s ebml.Stream) (*Iterator, error) {
	if c.state != clusterRead {
		return nil, ebmlerr.New(ebmlerr.NotWriting, "id", c.id)
	}
	return &Iterator{s: s, bodyStart: c.bodyStart, offsets: c.blockOffsets}, nil
}

// Iterator walks a FileCluster's blocks forward, one at a time, reading
// each directly from the source stream at its recorded offset instead of
// holding the whole cluster in memory (§4.7). The zero value is not
// usable; obtain one from FileCluster.Read via Iterator.
type Iterator struct {
	s         ebml.Stream
	bodyStart int64
	offsets   []int64
	idx       int
	cur       *Block
	err       error
}

// Next advances to the next block, reading it from the stream. It
// returns false once every block has been consumed or a read fails; call
// Err to distinguish the two.
func (it *Iterator) Next() bool {
	if it.err != nil || it.idx >= len(it.offsets) {
		return false
	}
	if _, err := it.s.Seek(it.bodyStart+it.offsets[it.idx], io.SeekStart); err != nil {
		it.err = ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
		return false
	}
	id, _, err := ids.Read(it.s)
	if err != nil {
		it.err = err
		return false
	}
	b, err := NewBlock(id)
	if err != nil {
		it.err = err
		return false
	}
	if err := b.Read(it.s); err != nil {
		it.err = err
		return false
	}
	it.cur = b
	it.idx++
	return true
}

// Block returns the block most recently produced by Next.
func (it *Iterator) Block() *Block { return it.cur }

// Err returns the first error encountered by Next, if any.
func (it *Iterator) Err() error { return it.err }

// StartWrite opens the cluster for streaming: writes the ID, an 8-byte
// wide size placeholder, then the fixed timecode/silent-tracks/position/
// prev-size metadata every block write follows.
func (c *FileCluster) StartWrite(s ebml.Stream) error {
	if c.state != clusterIdle {
		return ebmlerr.New(ebmlerr.NotWriting, "id", c.id)
	}
	pos, err := ebml.Tell(s)
	if err != nil {
		return err
	}
	if _, err := ids.Write(s, c.id); err != nil {
		return err
	}
	sizePos, err := ebml.Tell(s)
	if err != nil {
		return err
	}
	if _, err := vint.Write(s, 0, clusterStartWidth); err != nil {
		return err
	}
	bodyStart, err := ebml.Tell(s)
	if err != nil {
		return err
	}

	tc, err := ebml.NewUint(TimecodeID, c.timecode)
	if err != nil {
		return err
	}
	if err := ebml.WriteElement(s, tc); err != nil {
		return err
	}

	if len(c.silentTracks) > 0 {
		st := NewSilentTracks()
		for _, n := range c.silentTracks {
			st.Numbers = append(st.Numbers, NewSilentTrackNumber(n))
		}
		if err := ebml.WriteElement(s, st); err != nil {
			return err
		}
	}
	if c.position != nil {
		posEl, err := ebml.NewUint(PositionID, *c.position)
		if err != nil {
			return err
		}
		if err := ebml.WriteElement(s, posEl); err != nil {
			return err
		}
	}
	if c.prevSize != nil {
		psEl, err := ebml.NewUint(PrevSizeID, *c.prevSize)
		if err != nil {
			return err
		}
		if err := ebml.WriteElement(s, psEl); err != nil {
			return err
		}
	}

	c.offset = pos
	c.sizePos = sizePos
	c.bodyStart = bodyStart
	curPos, err := ebml.Tell(s)
	if err != nil {
		return err
	}
	c.curWritePos = curPos
	c.state = clusterWriting
	return nil
}

// PushBack writes one block directly to the stream. Valid only between
// StartWrite and FinishWrite.
func (c *FileCluster) PushBack(s ebml.Stream, b *Block) error {
	if c.state != clusterWriting {
		return ebmlerr.New(ebmlerr.NotWriting, "id", c.id)
	}
	lastGood := c.curWritePos
	if err := ebml.WriteElement(s, b); err != nil {
		// The block may have been partially written; the caller can
		// recover by seeking back to lastGood before abandoning or
		// retrying (§4.7's "failure semantics" recovery path).
		log.Warnw("push_back failed, cluster left with incomplete trailing block",
			"track", b.TrackNumber, "lastGood", lastGood, "err", err)
		return err
	}
	pos, err := ebml.Tell(s)
	if err != nil {
		return err
	}
	c.curWritePos = pos
	return nil
}

// FinishWrite computes the final body size and back-patches the
// placeholder written by StartWrite, then restores the stream's write
// position to the end of the cluster.
func (c *FileCluster) FinishWrite(s ebml.Stream) error {
	if c.state != clusterWriting {
		return ebmlerr.New(ebmlerr.NotWriting, "id", c.id)
	}
	bodySize := uint64(c.curWritePos - c.bodyStart)
	if err := ebml.BackpatchSize(s, c.sizePos, clusterStartWidth, bodySize, c.curWritePos); err != nil {
		return err
	}
	c.finalBodySize = bodySize
	c.state = clusterFinalised
	return nil
}
