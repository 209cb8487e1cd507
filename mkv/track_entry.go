package mkv

import (
	"github.com/ebmlio/container/ebml"
	"github.com/google/uuid"
)

// Track type codes from the wider Matroska family (not re-derived here;
// this document format only cares that the value round-trips).
const (
	TrackTypeVideo    uint64 = 1
	TrackTypeAudio    uint64 = 2
	TrackTypeComplex  uint64 = 3
	TrackTypeLogo     uint64 = 16
	TrackTypeSubtitle uint64 = 17
	TrackTypeControl  uint64 = 32
)

// TrackEntry describes one stream carried by the segment's clusters.
type TrackEntry struct {
	*ebml.Master
	TrackNumber   *ebml.Uint   `ebml:"D7,required"`
	TrackUID      *ebml.Uint   `ebml:"73C5,required"`
	TrackType     *ebml.Uint   `ebml:"83,required"`
	FlagEnabled   *ebml.Uint   `ebml:"B9"`
	FlagDefault   *ebml.Uint   `ebml:"88"`
	FlagForced    *ebml.Uint   `ebml:"55AA"`
	FlagLacing    *ebml.Uint   `ebml:"9C"`
	Name          *ebml.String `ebml:"536E"`
	Language      *ebml.String `ebml:"22B59C"`
	CodecID       *ebml.String `ebml:"86,required"`
	CodecPrivate  *ebml.Binary `ebml:"63A2"`
	CodecName     *ebml.String `ebml:"258688"`

	Translate        []*TrackTranslate `ebml:"6624"`
	TrackOperation   *TrackOperation    `ebml:"E2"`
	ContentEncodings *ContentEncodings  `ebml:"6D80"`
}

// NewTrackEntry builds a TrackEntry for trackNumber with a freshly
// generated TrackUID (delegated to google/uuid, truncated to the 64 bits
// an unsigned integer element can hold).
func NewTrackEntry(trackNumber uint64, trackType uint64, codecID string) *TrackEntry {
	t := &TrackEntry{}
	t.TrackNumber, _ = ebml.NewUint(TrackNumberID, trackNumber)
	t.TrackUID, _ = ebml.NewUint(TrackUIDID, newTrackUID())
	t.TrackType, _ = ebml.NewUint(TrackTypeID, trackType)
	t.FlagEnabled, _ = ebml.NewUint(FlagEnabledID, 1)
	t.FlagDefault, _ = ebml.NewUint(FlagDefaultID, 1)
	t.FlagForced, _ = ebml.NewUint(FlagForcedID, 0)
	t.FlagLacing, _ = ebml.NewUint(FlagLacingID, 1)
	t.CodecID, _ = ebml.NewString(CodecIDID, codecID)
	t.Init()
	return t
}

func (t *TrackEntry) Init() {
	t.Master, _ = ebml.NewMaster(TrackEntryID, t, false)
}

func newTrackUID() uint64 {
	id := uuid.New()
	var v uint64
	for _, b := range id[:8] {
		v = v<<8 | uint64(b)
	}
	if v == 0 {
		v = 1
	}
	return v
}

// Tracks is the segment-level container of TrackEntry children (§3.9
// "tracks": mapping from track number to track entry).
type Tracks struct {
	*ebml.Master
	Entries []*TrackEntry `ebml:"AE,required"`
}

// NewTracks builds an empty Tracks container.
func NewTracks() *Tracks {
	t := &Tracks{}
	t.Init()
	return t
}

func (t *Tracks) Init() {
	t.Master, _ = ebml.NewMaster(TracksID, t, false)
}

// Add appends entry to the track list.
func (t *Tracks) Add(entry *TrackEntry) {
	t.Entries = append(t.Entries, entry)
}
