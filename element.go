package ebml

import (
	"io"

	"github.com/ebmlio/container/ebmlerr"
	"github.com/ebmlio/container/ids"
	"github.com/ebmlio/container/vint"
)

// Stream is a seekable byte sink: the two-phase write protocol and offset
// tracking both need precise control of the write/read position, so the
// element framework never wraps its stream in a buffering layer that would
// hide that position (§9 "Stream position as a capability"). Callers pass
// an *os.File, a bytes.Reader wrapped with a Seek-capable adapter, or any
// other io.ReadWriteSeeker; the library never opens, closes or buffers it.
type Stream = io.ReadWriteSeeker

// NoOffset is the sentinel Offset value for an element that has not yet
// been read from or written to a stream.
const NoOffset int64 = -1

// Element is the contract every EBML element in this module satisfies:
// framing (ID + size + body) plus the two-phase write protocol of §4.2.
type Element interface {
	// ID returns the element's identifier.
	ID() ids.ID
	// Offset returns the byte position of the element's ID in the last
	// stream it was read from or written to, or NoOffset.
	Offset() int64
	// StoredSize returns size(id) + vint_size(body_size) + body_size.
	StoredSize() (uint64, error)
	// Read reads the element starting at its size field; the caller has
	// already consumed the ID. On any error the element's in-memory value
	// is left unchanged (atomicity, §7).
	Read(s Stream) error
	// StartWrite begins writing the element: ID, size, and (for a
	// single-pass element) its entire body.
	StartWrite(s Stream) error
	// FinishWrite completes a write begun by StartWrite, back-patching the
	// size field if necessary. Calling FinishWrite on an element that was
	// not started, or twice, returns a NotWriting error.
	FinishWrite(s Stream) error
}

// Hooks is the small set of operations a concrete element type supplies;
// ElementBase provides the shared framing (ID/size/offset bookkeeping,
// back-patching) in terms of them. This is the Go restatement of the
// design's "curiously shared implementation base" note (§9): a plain
// interface instead of a CRTP template, with the framing implemented once
// in ElementBase's Read/StartWrite/FinishWrite below rather than per element.
type Hooks interface {
	// BodyStoredSize returns the number of bytes the body occupies on the
	// wire.
	BodyStoredSize() (uint64, error)
	// ReadBody consumes exactly size bytes as the element's body.
	ReadBody(s Stream, size uint64) error
	// StartBody writes the element's body (or its leading portion, for a
	// master that lets the caller stream in children directly) and
	// returns the number of bytes written.
	StartBody(s Stream) (uint64, error)
	// FinishBody completes a body write; a no-op for single-pass elements.
	FinishBody(s Stream) error
}

// ElementBase implements Element in terms of a Hooks implementation,
// tracking ID, offset and the write-in-progress state shared by every
// element type. Embed it and supply Hooks via SetHooks (normally done once,
// in the concrete type's constructor).
type ElementBase struct {
	id      ids.ID
	offset  int64
	hooks   Hooks
	writing bool
	bodyPos int64 // stream position of the size field, recorded at StartWrite
}

// NewElementBase constructs an ElementBase for id, validating it per §3.1.
func NewElementBase(id ids.ID, hooks Hooks) (ElementBase, error) {
	if !ids.Validate(id) {
		return ElementBase{}, ebmlerr.New(ebmlerr.InvalidEbmlID, "id", id)
	}
	return ElementBase{id: id, offset: NoOffset, hooks: hooks}, nil
}

func (e *ElementBase) ID() ids.ID    { return e.id }
func (e *ElementBase) Offset() int64 { return e.offset }

// rebindID lets Master.ReadBody give a freshly reflect.New'd primitive
// element (one with no constructor call, hence a zero id and no hooks) its
// schema id and its own Hooks, via ElementBase's promoted method - so a
// decoded-then-rewritten document emits the right element id instead of 0.
// Master-embedding types bind their id through Initer instead, since they
// also need to re-point the Master's schema at the new struct.
func (e *ElementBase) rebindID(id ids.ID, hooks Hooks) { e.id, e.hooks = id, hooks }

func (e *ElementBase) StoredSize() (uint64, error) {
	body, err := e.hooks.BodyStoredSize()
	if err != nil {
		return 0, err
	}
	idSize, err := ids.Size(e.id)
	if err != nil {
		return 0, err
	}
	return uint64(idSize) + uint64(vint.Size(body)) + body, nil
}

// Tell returns the current stream position.
func Tell(s Stream) (int64, error) {
	pos, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
	}
	return pos, nil
}

// Read implements Element.Read: the stream is positioned at the first byte
// of the size field (the caller already consumed the ID).
func (e *ElementBase) Read(s Stream) error {
	pos, err := Tell(s)
	if err != nil {
		return err
	}
	idSize, err := ids.Size(e.id)
	if err != nil {
		return err
	}
	bodySize, _, err := vint.Read(s)
	if err != nil {
		return err
	}
	if err := e.hooks.ReadBody(s, bodySize); err != nil {
		return err
	}
	e.offset = pos - int64(idSize)
	return nil
}

// StartWrite implements Element.StartWrite.
func (e *ElementBase) StartWrite(s Stream) error {
	pos, err := Tell(s)
	if err != nil {
		return err
	}
	if _, err := ids.Write(s, e.id); err != nil {
		return err
	}
	bodySize, err := e.hooks.BodyStoredSize()
	if err != nil {
		return err
	}
	sizePos, err := Tell(s)
	if err != nil {
		return err
	}
	if _, err := vint.Write(s, bodySize); err != nil {
		return err
	}
	if _, err := e.hooks.StartBody(s); err != nil {
		return err
	}
	e.offset = pos
	e.bodyPos = sizePos
	e.writing = true
	return nil
}

// FinishWrite implements Element.FinishWrite. Single-pass elements (every
// Hooks implementation in this module except the streamed cluster types,
// which do not use ElementBase) wrote their complete size up front in
// StartWrite, so FinishWrite here only needs to validate write-state and
// delegate to FinishBody.
func (e *ElementBase) FinishWrite(s Stream) error {
	if !e.writing {
		return ebmlerr.New(ebmlerr.NotWriting, "id", e.id)
	}
	e.writing = false
	return e.hooks.FinishBody(s)
}

// WriteElement runs the full start+finish write of el against s in one
// call, for elements that have nothing to stream in between (the common
// case for every element except Cluster). This is the "scoped writer"
// idiom recommended in §5: callers that need start/finish split (to
// stream children) call StartWrite/FinishWrite directly instead.
func WriteElement(s Stream, el Element) error {
	if err := el.StartWrite(s); err != nil {
		return err
	}
	return el.FinishWrite(s)
}

// BackpatchSize overwrites the size vint at sizePos (preserving its
// original width) with the true body size, then restores the stream's
// write position to restorePos.
func BackpatchSize(s Stream, sizePos int64, width int, bodySize uint64, restorePos int64) error {
	if _, err := s.Seek(sizePos, io.SeekStart); err != nil {
		return ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
	}
	if _, err := vint.Write(s, bodySize, width); err != nil {
		return err
	}
	if _, err := s.Seek(restorePos, io.SeekStart); err != nil {
		return ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
	}
	return nil
}
