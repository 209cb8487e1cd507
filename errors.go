package ebml

import "github.com/ebmlio/container/ebmlerr"

// Kind and Error are re-exported from ebmlerr so that callers of the
// top-level package do not need a second import for error handling; the
// vint, ebmlint and ids packages use ebmlerr directly since they sit below
// this package in the dependency order (§2).
type (
	Kind  = ebmlerr.Kind
	Error = ebmlerr.Error
)

const (
	KindInvalidEbmlID       = ebmlerr.InvalidEbmlID
	KindInvalidVarInt       = ebmlerr.InvalidVarInt
	KindVarIntTooBig        = ebmlerr.VarIntTooBig
	KindSpecSizeTooSmall    = ebmlerr.SpecSizeTooSmall
	KindBufferTooSmall      = ebmlerr.BufferTooSmall
	KindReadError           = ebmlerr.ReadError
	KindWriteError          = ebmlerr.WriteError
	KindBadElementLength    = ebmlerr.BadElementLength
	KindBadBodySize         = ebmlerr.BadBodySize
	KindInvalidChildID      = ebmlerr.InvalidChildID
	KindMissingChild        = ebmlerr.MissingChild
	KindValueOutOfRange     = ebmlerr.ValueOutOfRange
	KindValueSizeOutOfRange = ebmlerr.ValueSizeOutOfRange
	KindBadCrc              = ebmlerr.BadCrc
	KindEmptyFrame          = ebmlerr.EmptyFrame
	KindBadLacedFrameSize   = ebmlerr.BadLacedFrameSize
	KindNotWriting          = ebmlerr.NotWriting
	KindBodySizeOverflow    = ebmlerr.BodySizeOverflow
)

var newError = ebmlerr.New

// KindOf extracts the Kind of err if it is, or wraps, an *Error.
func KindOf(err error) (Kind, bool) { return ebmlerr.KindOf(err) }
