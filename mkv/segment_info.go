package mkv

import (
	"math"
	"time"

	"github.com/ebmlio/container/ebml"
	"github.com/google/uuid"
)

// defaultTimecodeScale is the conventional 1ms-per-unit scale (in
// nanoseconds) used when a caller doesn't specify one.
const defaultTimecodeScale = 1000000

// SegmentInfo is the segment's metadata element (§3.9): identity,
// optional links to a previous/next segment in a sequence, the
// timecode scale all cluster/block timecodes are expressed in, the
// segment's duration (unknown until all clusters are written), and the
// producing application's identity.
type SegmentInfo struct {
	*ebml.Master
	SegmentUID         *ebml.Binary `ebml:"73A4,required"`
	SegmentFilename    *ebml.String `ebml:"7384"`
	PrevUID            *ebml.Binary `ebml:"3CB923"`
	PrevFilename       *ebml.String `ebml:"3C83AB"`
	NextUID            *ebml.Binary `ebml:"3EB923"`
	NextFilename       *ebml.String `ebml:"3E83BB"`
	TimecodeScale      *ebml.Uint   `ebml:"2AD7B1,required"`
	Duration           *ebml.Float  `ebml:"4489"`
	DateUTC            *ebml.Date  `ebml:"4461"`
	Title              *ebml.String `ebml:"7BA9"`
	MuxingApp          *ebml.String `ebml:"4D80,required"`
	WritingApp         *ebml.String `ebml:"5741,required"`
	Translate          []*ChapterTranslate `ebml:"6924"`
}

// NewSegmentInfo builds a SegmentInfo with a fresh random SegmentUID
// (§9: UUID generation is delegated, here to google/uuid) and the given
// application identity recorded as both MuxingApp and WritingApp. The
// remaining fields (filenames, previous/next links, title, duration,
// date) are left nil and are omitted from the wire until the caller
// sets them.
func NewSegmentInfo(appName string) *SegmentInfo {
	si := &SegmentInfo{}
	si.SegmentUID, _ = ebml.NewBinary(SegmentUIDID)
	si.SegmentUID.Value = newUUIDBytes()
	si.TimecodeScale, _ = ebml.NewUint(TimecodeScaleID, defaultTimecodeScale)
	si.MuxingApp, _ = ebml.NewString(MuxingAppID, appName)
	si.WritingApp, _ = ebml.NewString(WritingAppID, appName)
	si.Init()
	return si
}

// SetDuration attaches a Duration child, stored as a double-precision
// float in timecode-scale units. Default is pinned to NaN rather than 0
// so the value is never elided as a default on write: a Segment reserves
// this child's 8-byte width at its first write, before the true duration
// is known, and must see it occupy the same space at every later rewrite
// (§4.8), including while it still holds the zero placeholder.
func (si *SegmentInfo) SetDuration(d float64) {
	si.Duration, _ = ebml.NewFloat(DurationID, math.NaN(), true)
	si.Duration.Value = d
}

// SetDateUTC attaches a DateUTC child recording when the segment was
// created.
func (si *SegmentInfo) SetDateUTC(when time.Time) {
	si.DateUTC, _ = ebml.NewDate(DateUTCID, when)
}

func (si *SegmentInfo) Init() {
	si.Master, _ = ebml.NewMaster(InfoID, si, false)
}

func newUUIDBytes() []byte {
	id := uuid.New()
	return id[:]
}
