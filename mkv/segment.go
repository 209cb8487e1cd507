package mkv

import (
	"io"

	"github.com/ebmlio/container/ebml"
	"github.com/ebmlio/container/ebmlerr"
	"github.com/ebmlio/container/ids"
	"github.com/ebmlio/container/vint"
)

// segmentSizeWidth is the width reserved for the segment's own size
// placeholder, the same convention FileCluster uses for its body.
const segmentSizeWidth = 8

// seekHeadReserve is the number of bytes StartWrite reserves, as a Void
// element, right after the initial seek-head, so FinishWrite can rewrite
// the seek-head with every recorded offset in place.
const seekHeadReserve = 256

// durationReserveWidth is the fixed width a Duration child is padded to
// on the segment's first write, so finalisation can safely overwrite it
// in place (§4.8: "reserving exactly that space on the first write").
// A double-precision float is always 8 bytes regardless of value, so no
// padding is actually needed for Duration itself; the constant documents
// the invariant finalise relies on rather than changing encoding width.
const durationReserveWidth = 8

type segmentState int

const (
	segmentIdle segmentState = iota
	segmentWriting
	// segmentFinalised covers both terminal states: a write completed by
	// FinishWrite, and a read completed by Read. Either way the segment's
	// body size and child offsets are fully known.
	segmentFinalised
)

// Segment is the document's single top-level container (§3.9, §4.8): a
// genuine two-phase streamed element like FileCluster, since its body
// size is unknown until every cluster has been written and its
// seek-head/segment-info need rewriting in place at finalisation.
type Segment struct {
	id     ids.ID
	offset int64
	state  segmentState

	Info        *SegmentInfo
	Tracks      *Tracks
	Attachments *Attachments
	SeekHead    *SeekHead

	// ClusterOffsets holds the segment-relative byte offset of every
	// cluster found by Read, in stream order; OpenCluster dereferences
	// one on demand rather than materialising every cluster up front.
	ClusterOffsets []int64

	sizePos        int64
	bodyStart      int64
	infoPos        int64
	infoSize       uint64
	tracksPos      int64
	attachmentsPos int64
	seekHeadPos    int64
	seekHeadSize   uint64
	clustersStart  int64
	curWritePos    int64
	finalBodySize  uint64
}

// NewSegment builds a Segment around the given metadata; Tracks and
// SeekHead are required by the schema, Attachments is optional.
func NewSegment(info *SegmentInfo, tracks *Tracks) *Segment {
	if info.Duration == nil {
		// Reserve the Duration child's space on the first write (§4.8):
		// a double is always 8 bytes regardless of value, so writing a
		// 0 placeholder now guarantees FinalizeDuration's later in-place
		// rewrite never changes the info element's encoded size.
		info.SetDuration(0)
	}
	return &Segment{
		id:       SegmentID,
		offset:   ebml.NoOffset,
		Info:     info,
		Tracks:   tracks,
		SeekHead: NewSeekHead(),
	}
}

func (sg *Segment) ID() ids.ID    { return sg.id }
func (sg *Segment) Offset() int64 { return sg.offset }

func (sg *Segment) StoredSize() (uint64, error) {
	if sg.state != segmentFinalised {
		return 0, ebmlerr.New(ebmlerr.NotWriting, "id", sg.id)
	}
	idSize, err := ids.Size(sg.id)
	if err != nil {
		return 0, err
	}
	return uint64(idSize) + segmentSizeWidth + sg.finalBodySize, nil
}

// Read opens an existing segment (§3.9, §4.8): it walks the body once,
// decoding segment-info, tracks, the optional attachments, and the
// seek-head in full, and recording the segment-relative offset of every
// cluster without decoding its blocks. Call OpenCluster (or Seek, using
// the decoded seek-head) afterward to dereference a particular cluster.
func (sg *Segment) Read(s ebml.Stream) error {
	if sg.state != segmentIdle {
		return ebmlerr.New(ebmlerr.NotWriting, "id", sg.id)
	}
	pos, err := ebml.Tell(s)
	if err != nil {
		return err
	}
	idSize, err := ids.Size(sg.id)
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
		info           *SegmentInfo
		tracks         *Tracks
		attachments    *Attachments
		seekHead       *SeekHead
		clusterOffsets []int64
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
		case InfoID:
			info = &SegmentInfo{}
			info.Init()
			if err := info.Read(s); err != nil {
				return err
			}
		case TracksID:
			tracks = &Tracks{}
			tracks.Init()
			if err := tracks.Read(s); err != nil {
				return err
			}
		case AttachmentsID:
			attachments = &Attachments{}
			attachments.Init()
			if err := attachments.Read(s); err != nil {
				return err
			}
		case SeekHeadID:
			seekHead = &SeekHead{}
			seekHead.Init()
			if err := seekHead.Read(s); err != nil {
				return err
			}
		case ClusterID, VoidID:
			size, _, err := vint.Read(s)
			if err != nil {
				return err
			}
			if childID == ClusterID {
				clusterOffsets = append(clusterOffsets, cur-bodyStart)
			}
			if _, err := s.Seek(int64(size), io.SeekCurrent); err != nil {
				return ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
			}
		default:
			return ebmlerr.New(ebmlerr.InvalidChildID, "child", childID, "parent", sg.id)
		}
	}

	if info == nil {
		return ebmlerr.New(ebmlerr.MissingChild, "id", InfoID, "parent", sg.id)
	}
	if tracks == nil {
		return ebmlerr.New(ebmlerr.MissingChild, "id", TracksID, "parent", sg.id)
	}
	if seekHead == nil {
		seekHead = NewSeekHead()
	}
	if _, err := s.Seek(end, io.SeekStart); err != nil {
		return ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
	}

	sg.Info = info
	sg.Tracks = tracks
	sg.Attachments = attachments
	sg.SeekHead = seekHead
	sg.ClusterOffsets = clusterOffsets
	sg.bodyStart = bodyStart
	sg.offset = pos - int64(idSize)
	sg.finalBodySize = bodySize
	sg.state = segmentFinalised
	return nil
}

// Seek positions s at the segment-relative offset the seek-head records
// for id (§4.8: "used on open to jump directly to tracks and the first
// cluster"), returning the absolute stream offset it moved to. ok is
// false if the seek-head carries no entry for id, in which case s is left
// untouched.
func (sg *Segment) Seek(s ebml.Stream, id ids.ID) (abs int64, ok bool, err error) {
	off, found := sg.SeekHead.Find(idBytes4(id))
	if !found {
		return 0, false, nil
	}
	abs = sg.bodyStart + int64(off)
	if _, err := s.Seek(abs, io.SeekStart); err != nil {
		return 0, false, ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
	}
	return abs, true, nil
}

// OpenCluster seeks to the segment-relative cluster offset recorded by
// Read (one entry of ClusterOffsets) and reads its fixed metadata and
// block index, returning a FileCluster ready for Iterator.
func (sg *Segment) OpenCluster(s ebml.Stream, offset int64) (*FileCluster, error) {
	if sg.state != segmentFinalised {
		return nil, ebmlerr.New(ebmlerr.NotWriting, "id", sg.id)
	}
	if _, err := s.Seek(sg.bodyStart+offset, io.SeekStart); err != nil {
		return nil, ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
	}
	childID, _, err := ids.Read(s)
	if err != nil {
		return nil, err
	}
	if childID != ClusterID {
		return nil, ebmlerr.New(ebmlerr.InvalidChildID, "child", childID, "parent", sg.id)
	}
	fc := NewFileCluster(0)
	if err := fc.Read(s); err != nil {
		return nil, err
	}
	return fc, nil
}

// StartWrite opens the segment, writes the size placeholder, then the
// segment-info, tracks, and (if set) attachments, reserving a SeekHead
// placeholder to be rewritten at FinishWrite.
func (sg *Segment) StartWrite(s ebml.Stream) error {
	if sg.state != segmentIdle {
		return ebmlerr.New(ebmlerr.NotWriting, "id", sg.id)
	}
	pos, err := ebml.Tell(s)
	if err != nil {
		return err
	}
	if _, err := ids.Write(s, sg.id); err != nil {
		return err
	}
	sizePos, err := ebml.Tell(s)
	if err != nil {
		return err
	}
	if _, err := vint.Write(s, 0, segmentSizeWidth); err != nil {
		return err
	}
	bodyStart, err := ebml.Tell(s)
	if err != nil {
		return err
	}

	infoPos, err := ebml.Tell(s)
	if err != nil {
		return err
	}
	if err := ebml.WriteElement(s, sg.Info); err != nil {
		return err
	}
	infoSize, err := sg.Info.StoredSize()
	if err != nil {
		return err
	}

	tracksPos, err := ebml.Tell(s)
	if err != nil {
		return err
	}
	if err := ebml.WriteElement(s, sg.Tracks); err != nil {
		return err
	}

	var attachmentsPos int64 = ebml.NoOffset
	if sg.Attachments != nil {
		attachmentsPos, err = ebml.Tell(s)
		if err != nil {
			return err
		}
		if err := ebml.WriteElement(s, sg.Attachments); err != nil {
			return err
		}
	}

	// Reserve the SeekHead slot: written once now (likely empty or
	// incomplete) and followed by a Void element of seekHeadReserve
	// bytes, so that FinishWrite can rewrite it with the final offsets in
	// place and pad whatever part of the slot the rewrite leaves unused.
	seekHeadPos, err := ebml.Tell(s)
	if err != nil {
		return err
	}
	if err := ebml.WriteElement(s, sg.SeekHead); err != nil {
		return err
	}
	seekHeadSize, err := sg.SeekHead.StoredSize()
	if err != nil {
		return err
	}
	reserve, err := voidPaddingBytes(seekHeadReserve)
	if err != nil {
		return err
	}
	if _, err := s.Write(reserve); err != nil {
		return ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
	}
	seekHeadSize += seekHeadReserve

	clustersStart, err := ebml.Tell(s)
	if err != nil {
		return err
	}

	sg.offset = pos
	sg.sizePos = sizePos
	sg.bodyStart = bodyStart
	sg.infoPos = infoPos
	sg.infoSize = infoSize
	sg.tracksPos = tracksPos
	sg.attachmentsPos = attachmentsPos
	sg.seekHeadPos = seekHeadPos
	sg.seekHeadSize = seekHeadSize
	sg.clustersStart = clustersStart
	sg.curWritePos = clustersStart
	sg.state = segmentWriting
	return nil
}

// WriteCluster writes c as one complete cluster element (timecode, silent
// tracks, position and previous size) and records its segment-relative
// offset in the seek-head index. c is started and finalised within this
// call, so the written cluster carries no blocks.
func (sg *Segment) WriteCluster(s ebml.Stream, c *FileCluster) error {
	if sg.state != segmentWriting {
		return ebmlerr.New(ebmlerr.NotWriting, "id", sg.id)
	}
	clusterStart, err := ebml.Tell(s)
	if err != nil {
		return err
	}
	c.SetPosition(uint64(clusterStart - sg.bodyStart))
	if err := c.StartWrite(s); err != nil {
		return err
	}
	return sg.finishCluster(s, c, clusterStart)
}

func (sg *Segment) finishCluster(s ebml.Stream, c *FileCluster, clusterStart int64) error {
	if err := c.FinishWrite(s); err != nil {
		return err
	}
	pos, err := ebml.Tell(s)
	if err != nil {
		return err
	}
	sg.curWritePos = pos
	sg.SeekHead.Insert(idBytes4(ClusterID), uint64(clusterStart-sg.bodyStart))
	return nil
}

// FinishWrite computes the segment's final body size, back-patches the
// size placeholder, and rewrites the seek-head in place; the
// segment-info is rewritten separately, by FinalizeDuration. Returns
// BodySizeOverflow if the rewritten seek-head no longer
// fits the space reserved for it at StartWrite.
func (sg *Segment) FinishWrite(s ebml.Stream) error {
	if sg.state != segmentWriting {
		return ebmlerr.New(ebmlerr.NotWriting, "id", sg.id)
	}

	sg.SeekHead.Insert(idBytes4(InfoID), uint64(sg.infoPos-sg.bodyStart))
	sg.SeekHead.Insert(idBytes4(TracksID), uint64(sg.tracksPos-sg.bodyStart))
	if sg.attachmentsPos != ebml.NoOffset {
		sg.SeekHead.Insert(idBytes4(AttachmentsID), uint64(sg.attachmentsPos-sg.bodyStart))
	}

	newSeekHeadSize, err := sg.SeekHead.StoredSize()
	if err != nil {
		return err
	}
	if newSeekHeadSize > sg.seekHeadSize {
		return ebmlerr.New(ebmlerr.BodySizeOverflow, "id", SeekHeadID, "reserved", sg.seekHeadSize, "required", newSeekHeadSize)
	}
	padding, err := voidPaddingBytes(int(sg.seekHeadSize - newSeekHeadSize))
	if err != nil {
		return err
	}

	restorePos := sg.curWritePos
	if _, err := s.Seek(sg.seekHeadPos, io.SeekStart); err != nil {
		return ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
	}
	if err := ebml.WriteElement(s, sg.SeekHead); err != nil {
		return err
	}
	if len(padding) > 0 {
		if _, err := s.Write(padding); err != nil {
			return ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
		}
	}
	if _, err := s.Seek(restorePos, io.SeekStart); err != nil {
		return ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
	}
	log.Debugw("seek-head rewritten", "entries", len(sg.SeekHead.Entries), "reserved", sg.seekHeadSize, "used", newSeekHeadSize)

	bodySize := uint64(sg.curWritePos - sg.bodyStart)
	if err := ebml.BackpatchSize(s, sg.sizePos, segmentSizeWidth, bodySize, sg.curWritePos); err != nil {
		return err
	}
	sg.finalBodySize = bodySize
	sg.state = segmentFinalised
	log.Debugw("segment finalised", "bodySize", bodySize)
	return nil
}

// FinalizeDuration rewrites the segment-info's Duration in place once
// every cluster has been written, failing with BodySizeOverflow if the
// info element's encoded size would change (it can't: Duration is
// always a fixed-width double, so this only guards future additions to
// SegmentInfo's finalised fields).
func (sg *Segment) FinalizeDuration(s ebml.Stream, d float64) error {
	if sg.state != segmentWriting {
		return ebmlerr.New(ebmlerr.NotWriting, "id", sg.id)
	}
	sg.Info.SetDuration(d)
	newSize, err := sg.Info.StoredSize()
	if err != nil {
		return err
	}
	if newSize != sg.infoSize {
		return ebmlerr.New(ebmlerr.BodySizeOverflow, "id", InfoID, "reserved", sg.infoSize, "required", newSize)
	}
	restorePos := sg.curWritePos
	if _, err := s.Seek(sg.infoPos, io.SeekStart); err != nil {
		return ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
	}
	if err := ebml.WriteElement(s, sg.Info); err != nil {
		return err
	}
	if _, err := s.Seek(restorePos, io.SeekStart); err != nil {
		return ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
	}
	return nil
}

func idBytes4(id ids.ID) [4]byte {
	return [4]byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
}

// voidPaddingBytes returns a Void element (§3.9's reserved padding
// element) whose total encoded size is exactly total bytes, letting a
// rewritten SeekHead shrink without leaving an unframed gap behind it.
// Returns an error if total is positive but too small to frame (the
// minimum Void element is 2 bytes: a 1-byte ID and a 1-byte zero size).
func voidPaddingBytes(total int) ([]byte, error) {
	if total == 0 {
		return nil, nil
	}
	idBuf, err := ids.Encode(VoidID)
	if err != nil {
		return nil, err
	}
	for width := 1; width <= 8; width++ {
		body := total - len(idBuf) - width
		if body < 0 {
			break
		}
		if vint.Size(uint64(body)) > width {
			continue
		}
		sizeBuf, err := vint.Encode(uint64(body), width)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, 0, total)
		buf = append(buf, idBuf...)
		buf = append(buf, sizeBuf...)
		buf = append(buf, make([]byte, body)...)
		return buf, nil
	}
	return nil, ebmlerr.New(ebmlerr.BodySizeOverflow, "id", VoidID, "required", total)
}
