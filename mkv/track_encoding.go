package mkv

import "github.com/ebmlio/container/ebml"

// ChapterTranslate maps this segment's own edition/chapter identifiers to
// the equivalent ones understood by another menu/chapter codec (§SUPPLEMENTED
// FEATURES; carried as a passthrough child of SegmentInfo, same as the
// wider Matroska family, with no interpretation of Codec/ID beyond the
// round-trip itself).
type ChapterTranslate struct {
	*ebml.Master
	EditionUID *ebml.Uint   `ebml:"69FC"`
	Codec      *ebml.Uint   `ebml:"69BF,required"`
	TranslateID *ebml.Binary `ebml:"69A5,required"`
}

func NewChapterTranslate(codec uint64, translateID []byte) *ChapterTranslate {
	c := &ChapterTranslate{}
	c.Codec, _ = ebml.NewUint(ChapterTranslateCodecID, codec)
	c.TranslateID, _ = ebml.NewBinary(ChapterTranslateIDID)
	c.TranslateID.Value = translateID
	c.Init()
	return c
}

func (c *ChapterTranslate) Init() {
	c.Master, _ = ebml.NewMaster(ChapterTranslateID, c, false)
}

// TrackTranslate is TrackEntry's counterpart to ChapterTranslate: it maps
// this track's identifier to the one used by another chapter codec.
type TrackTranslate struct {
	*ebml.Master
	EditionUID  *ebml.Uint   `ebml:"66FC"`
	Codec       *ebml.Uint   `ebml:"66BF,required"`
	TranslateID *ebml.Binary `ebml:"66A5,required"`
}

func NewTrackTranslate(codec uint64, translateID []byte) *TrackTranslate {
	t := &TrackTranslate{}
	t.Codec, _ = ebml.NewUint(TrackTranslateCodecID, codec)
	t.TranslateID, _ = ebml.NewBinary(TrackTranslateTrackIDID)
	t.TranslateID.Value = translateID
	t.Init()
	return t
}

func (t *TrackTranslate) Init() {
	t.Master, _ = ebml.NewMaster(TrackTranslateID, t, false)
}

// TrackPlane names one source track combined with others into a virtual
// multi-plane track (§SUPPLEMENTED FEATURES, grounded on tide's
// `track_operation.h`).
type TrackPlane struct {
	*ebml.Master
	UID  *ebml.Uint `ebml:"E5,required"`
	Type *ebml.Uint `ebml:"E6,required"`
}

func NewTrackPlane(uid uint64, planeType uint64) *TrackPlane {
	p := &TrackPlane{}
	p.UID, _ = ebml.NewUint(TrackPlaneUIDID, uid)
	p.Type, _ = ebml.NewUint(TrackPlaneTypeID, planeType)
	p.Init()
	return p
}

func (p *TrackPlane) Init() {
	p.Master, _ = ebml.NewMaster(TrackPlaneID, p, false)
}

// TrackJoinBlocks lists the source tracks whose blocks are appended, in
// order, to form this virtual track's timeline (tide's `JoinBlocks`
// container, `E9` wrapping repeated `ED` UID children).
type TrackJoinBlocks struct {
	*ebml.Master
	UIDs []*ebml.Uint `ebml:"ED"`
}

func NewTrackJoinBlocks() *TrackJoinBlocks {
	j := &TrackJoinBlocks{}
	j.Init()
	return j
}

func (j *TrackJoinBlocks) Init() {
	j.Master, _ = ebml.NewMaster(TrackJoinBlocksID, j, false)
}

// Add records one source track's UID, in join order.
func (j *TrackJoinBlocks) Add(trackUID uint64) {
	u, _ := ebml.NewUint(TrackJoinUIDID, trackUID)
	j.UIDs = append(j.UIDs, u)
}

// TrackOperation describes how this virtual track is assembled from other
// tracks, either by combining video planes or by joining blocks end to
// end. No join-time or combine-time merging is performed here: the track
// numbers are carried faithfully so a consumer can apply the operation
// itself (§SUPPLEMENTED FEATURES).
type TrackOperation struct {
	*ebml.Master
	CombinePlanes []*TrackPlane    `ebml:"E4"`
	JoinBlocks    *TrackJoinBlocks `ebml:"E9"`
}

func NewTrackOperation() *TrackOperation {
	o := &TrackOperation{}
	o.Init()
	return o
}

func (o *TrackOperation) Init() {
	o.Master, _ = ebml.NewMaster(TrackOperationID, o, false)
}

// AddCombinePlane records one source track contributing a video plane.
func (o *TrackOperation) AddCombinePlane(uid uint64, planeType uint64) {
	o.CombinePlanes = append(o.CombinePlanes, NewTrackPlane(uid, planeType))
}

// AddJoinBlock records one source track whose blocks are appended, in
// argument order, to this virtual track's timeline.
func (o *TrackOperation) AddJoinBlock(trackUID uint64) {
	if o.JoinBlocks == nil {
		o.JoinBlocks = NewTrackJoinBlocks()
	}
	o.JoinBlocks.Add(trackUID)
}

// Compression describes one algorithm applied to this track's frames
// before they reach the codec; Settings carries algorithm-specific
// parameters (e.g. a header-stripping prefix) as opaque bytes.
type Compression struct {
	*ebml.Master
	Algo     *ebml.Uint   `ebml:"4254,required"`
	Settings *ebml.Binary `ebml:"4255"`
}

func NewCompression(algo uint64) *Compression {
	c := &Compression{}
	c.Algo, _ = ebml.NewUint(ContentCompAlgoID, algo)
	c.Init()
	return c
}

func (c *Compression) Init() {
	c.Master, _ = ebml.NewMaster(ContentCompressionID, c, false)
}

// Encryption describes one encryption/signature scheme applied to this
// track's frames. As with Compression, no cryptographic operation is
// performed here: the key/signature material is carried through
// faithfully (codec and cipher interpretation are Non-goals).
type Encryption struct {
	*ebml.Master
	EncAlgo     *ebml.Uint   `ebml:"47E1"`
	EncKeyID    *ebml.Binary `ebml:"47E2"`
	Signature   *ebml.Binary `ebml:"47E3"`
	SigKeyID    *ebml.Binary `ebml:"47E4"`
	SigAlgo     *ebml.Uint   `ebml:"47E5"`
	SigHashAlgo *ebml.Uint   `ebml:"47E6"`
}

func NewEncryption() *Encryption {
	e := &Encryption{}
	e.Init()
	return e
}

func (e *Encryption) Init() {
	e.Master, _ = ebml.NewMaster(ContentEncryptionID, e, false)
}

// ContentEncoding is one entry in a track's encoding pipeline: Order fixes
// where it applies relative to sibling entries, Scope says which parts of
// the track it covers, and Type distinguishes compression from
// encryption.
type ContentEncoding struct {
	*ebml.Master
	Order       *ebml.Uint   `ebml:"5031,required"`
	Scope       *ebml.Uint   `ebml:"5032"`
	Type        *ebml.Uint   `ebml:"5033,required"`
	Compression *Compression `ebml:"5034"`
	Encryption  *Encryption  `ebml:"5035"`
}

func NewContentEncoding(order uint64, encodingType uint64) *ContentEncoding {
	c := &ContentEncoding{}
	c.Order, _ = ebml.NewUint(ContentEncodingOrderID, order)
	c.Type, _ = ebml.NewUint(ContentEncodingTypeID, encodingType)
	c.Init()
	return c
}

func (c *ContentEncoding) Init() {
	c.Master, _ = ebml.NewMaster(ContentEncodingID, c, false)
}

// ContentEncodings is the ordered pipeline of encodings applied to a
// track's frames, each undone in Order on decode (Non-goal: this module
// never performs that undoing itself).
type ContentEncodings struct {
	*ebml.Master
	Encodings []*ContentEncoding `ebml:"6240,required"`
}

func NewContentEncodings() *ContentEncodings {
	c := &ContentEncodings{}
	c.Init()
	return c
}

func (c *ContentEncodings) Init() {
	c.Master, _ = ebml.NewMaster(ContentEncodingsID, c, false)
}

// Add appends one encoding stage to the pipeline.
func (c *ContentEncodings) Add(enc *ContentEncoding) {
	c.Encodings = append(c.Encodings, enc)
}
