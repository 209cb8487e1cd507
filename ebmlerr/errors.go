// Package ebmlerr defines the shared tagged-error model used across the
// container codec: a closed set of Kinds (one per §7 of the design) and a
// single Error type carrying a machine-readable Kind plus a bag of named
// context values. It has no other dependents' imports, so every leaf
// codec package (vint, ebmlint, ids) and the root engine package can
// depend on it without a cycle.
package ebmlerr

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a container error.
type Kind int

const (
	_ Kind = iota
	InvalidEbmlID
	InvalidVarInt
	VarIntTooBig
	SpecSizeTooSmall
	BufferTooSmall
	ReadError
	WriteError
	BadElementLength
	BadBodySize
	InvalidChildID
	MissingChild
	ValueOutOfRange
	ValueSizeOutOfRange
	BadCrc
	EmptyFrame
	BadLacedFrameSize
	NotWriting
	// BodySizeOverflow is raised when a segment's finalised values (e.g.
	// duration) no longer fit the space reserved for them on the first
	// write (§4.8); not part of the original error table, added for
	// segment finalisation.
	BodySizeOverflow
)

var kindNames = map[Kind]string{
	InvalidEbmlID:       "InvalidEbmlId",
	InvalidVarInt:       "InvalidVarInt",
	VarIntTooBig:        "VarIntTooBig",
	SpecSizeTooSmall:    "SpecSizeTooSmall",
	BufferTooSmall:      "BufferTooSmall",
	ReadError:           "ReadError",
	WriteError:          "WriteError",
	BadElementLength:    "BadElementLength",
	BadBodySize:         "BadBodySize",
	InvalidChildID:      "InvalidChildId",
	MissingChild:        "MissingChild",
	ValueOutOfRange:     "ValueOutOfRange",
	ValueSizeOutOfRange: "ValueSizeOutOfRange",
	BadCrc:              "BadCrc",
	EmptyFrame:          "EmptyFrame",
	BadLacedFrameSize:   "BadLacedFrameSize",
	NotWriting:          "NotWriting",
	BodySizeOverflow:    "BodySizeOverflow",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Error is the single error type raised anywhere in the container codec.
// Context carries the named payload the design calls for (e.g. "id",
// "position", "value", "required", "specified").
type Error struct {
	Kind    Kind
	Context map[string]any
}

// New constructs an Error from a flat key/value pair list, e.g.
// New(BadCrc, "id", id) or New(BadBodySize, "id", id, "declared", d, "actual", a).
func New(kind Kind, pairs ...any) *Error {
	ctx := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		ctx[key] = pairs[i+1]
	}
	return &Error{Kind: kind, Context: ctx}
}

func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("ebml: %s", e.Kind)
	}
	return fmt.Sprintf("ebml: %s %v", e.Kind, e.Context)
}

// Is supports errors.Is(err, &ebmlerr.Error{Kind: ebmlerr.BadCrc}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf extracts the Kind of err if it is, or wraps, an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
