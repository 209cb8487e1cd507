// Package mkv implements the Matroska-like document schema (header,
// segment, tracks, clusters, blocks) on top of the root ebml package's
// element framing, primitive types, and reflect-driven Master engine.
package mkv

import "github.com/ebmlio/container/ids"

// Element IDs, per §6.1 of the design and the wider Matroska family this
// document format derives from.
const (
	HeaderID ids.ID = 0x1A45DFA3

	EBMLVersionID        ids.ID = 0x4286
	EBMLReadVersionID    ids.ID = 0x42F7
	EBMLMaxIDLengthID    ids.ID = 0x42F2
	EBMLMaxSizeLengthID  ids.ID = 0x42F3
	DocTypeID            ids.ID = 0x4282
	DocTypeVersionID     ids.ID = 0x4287
	DocTypeReadVersionID ids.ID = 0x4285

	SegmentID ids.ID = 0x18538067

	SeekHeadID     ids.ID = 0x114D9B74
	SeekID         ids.ID = 0x4DBB
	SeekIDChildID  ids.ID = 0x53AB
	SeekPositionID ids.ID = 0x53AC

	InfoID               ids.ID = 0x1549A966
	SegmentUIDID         ids.ID = 0x73A4
	SegmentFilenameID    ids.ID = 0x7384
	PrevUIDID            ids.ID = 0x3CB923
	PrevFilenameID       ids.ID = 0x3C83AB
	NextUIDID            ids.ID = 0x3EB923
	NextFilenameID       ids.ID = 0x3E83BB
	TimecodeScaleID      ids.ID = 0x2AD7B1
	DurationID           ids.ID = 0x4489
	DateUTCID            ids.ID = 0x4461
	TitleID              ids.ID = 0x7BA9
	MuxingAppID          ids.ID = 0x4D80
	WritingAppID         ids.ID = 0x5741

	TracksID             ids.ID = 0x1654AE6B
	TrackEntryID         ids.ID = 0xAE
	TrackNumberID        ids.ID = 0xD7
	TrackUIDID           ids.ID = 0x73C5
	TrackTypeID          ids.ID = 0x83
	FlagEnabledID        ids.ID = 0xB9
	FlagDefaultID        ids.ID = 0x88
	FlagForcedID         ids.ID = 0x55AA
	FlagLacingID         ids.ID = 0x9C
	TrackNameID          ids.ID = 0x536E
	TrackLanguageID      ids.ID = 0x22B59C
	CodecIDID            ids.ID = 0x86
	CodecPrivateID       ids.ID = 0x63A2
	CodecNameID          ids.ID = 0x258688

	TrackTranslateID           ids.ID = 0x6624
	TrackTranslateEditionUIDID ids.ID = 0x66FC
	TrackTranslateCodecID      ids.ID = 0x66BF
	TrackTranslateTrackIDID    ids.ID = 0x66A5

	TrackOperationID     ids.ID = 0xE2
	TrackCombinePlanesID ids.ID = 0xE3
	TrackPlaneID         ids.ID = 0xE4
	TrackPlaneUIDID      ids.ID = 0xE5
	TrackPlaneTypeID     ids.ID = 0xE6
	TrackJoinBlocksID    ids.ID = 0xE9
	TrackJoinUIDID       ids.ID = 0xED

	ContentEncodingsID       ids.ID = 0x6D80
	ContentEncodingID        ids.ID = 0x6240
	ContentEncodingOrderID   ids.ID = 0x5031
	ContentEncodingScopeID   ids.ID = 0x5032
	ContentEncodingTypeID    ids.ID = 0x5033
	ContentCompressionID     ids.ID = 0x5034
	ContentCompAlgoID        ids.ID = 0x4254
	ContentCompSettingsID    ids.ID = 0x4255
	ContentEncryptionID      ids.ID = 0x5035
	ContentEncAlgoID         ids.ID = 0x47E1
	ContentEncKeyIDID        ids.ID = 0x47E2
	ContentSignatureID       ids.ID = 0x47E3
	ContentSigKeyIDID        ids.ID = 0x47E4
	ContentSigAlgoID         ids.ID = 0x47E5
	ContentSigHashAlgoID     ids.ID = 0x47E6

	ChapterTranslateID           ids.ID = 0x6924
	ChapterTranslateEditionUIDID ids.ID = 0x69FC
	ChapterTranslateCodecID      ids.ID = 0x69BF
	ChapterTranslateIDID         ids.ID = 0x69A5

	ClusterID          ids.ID = 0x1F43B675
	TimecodeID         ids.ID = 0xE7
	SilentTracksID     ids.ID = 0x5854
	SilentTrackNumID   ids.ID = 0x58D7
	PositionID         ids.ID = 0xA7
	PrevSizeID         ids.ID = 0xAB
	SimpleBlockID      ids.ID = 0xA3
	BlockGroupID       ids.ID = 0xA0
	BlockID            ids.ID = 0xA1

	AttachmentsID      ids.ID = 0x1941A469
	AttachedFileID     ids.ID = 0x61A7
	FileDescriptionID  ids.ID = 0x467E
	FileNameID         ids.ID = 0x466E
	FileMimeTypeID     ids.ID = 0x4660
	FileDataID         ids.ID = 0x465C
	FileUIDID          ids.ID = 0x46AE

	CRC32ID ids.ID = 0xBF
	VoidID  ids.ID = 0xEC
)
