package mkv

import "github.com/ebmlio/container/ebml"

// Seek is one SeekHead entry: the ID of an indexed level-1 element and
// its segment-relative byte offset.
type Seek struct {
	*ebml.Master
	SeekIDValue  *ebml.Binary `ebml:"53AB,required"`
	SeekPosition *ebml.Uint   `ebml:"53AC,required"`
}

// NewSeek builds a Seek entry pointing id at offset.
func NewSeek(id [4]byte, offset uint64) *Seek {
	s := &Seek{}
	s.SeekIDValue, _ = ebml.NewBinary(SeekIDChildID)
	s.SeekIDValue.Value = append([]byte(nil), id[:]...)
	s.SeekPosition, _ = ebml.NewUint(SeekPositionID, offset)
	s.Init()
	return s
}

func (s *Seek) Init() {
	s.Master, _ = ebml.NewMaster(SeekID, s, false)
}

// SeekHead is the segment's element-offset index (§3.9, §4.8): an
// ordered multimap from element ID to segment-relative offset. Entries
// are kept as an ordered slice, not a Go map, so Find returns the first
// inserted offset and iteration order survives a round trip.
type SeekHead struct {
	*ebml.Master
	Entries []*Seek `ebml:"4DBB"`
}

// NewSeekHead builds an empty index.
func NewSeekHead() *SeekHead {
	sh := &SeekHead{}
	sh.Init()
	return sh
}

func (sh *SeekHead) Init() {
	sh.Master, _ = ebml.NewMaster(SeekHeadID, sh, false)
}

// Insert records that id is located at offset, appending to the end of
// the ordered entry list.
func (sh *SeekHead) Insert(id [4]byte, offset uint64) {
	sh.Entries = append(sh.Entries, NewSeek(id, offset))
}

// Find returns the first recorded offset for id, or ok=false if absent.
func (sh *SeekHead) Find(id [4]byte) (offset uint64, ok bool) {
	for _, e := range sh.Entries {
		if seekIDEqual(e.SeekIDValue.Value, id) {
			return e.SeekPosition.Value, true
		}
	}
	return 0, false
}

// Erase removes every entry recorded for id.
func (sh *SeekHead) Erase(id [4]byte) {
	kept := sh.Entries[:0]
	for _, e := range sh.Entries {
		if !seekIDEqual(e.SeekIDValue.Value, id) {
			kept = append(kept, e)
		}
	}
	sh.Entries = kept
}

func seekIDEqual(v []byte, id [4]byte) bool {
	if len(v) != 4 {
		return false
	}
	return v[0] == id[0] && v[1] == id[1] && v[2] == id[2] && v[3] == id[3]
}
