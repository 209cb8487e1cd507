// Package ids implements the EBML element ID codec (§3.1 of the design).
// An ID is a vint whose numeric value already carries its class/length
// marker bits — unlike a plain vint, ids.Size/Encode/Decode never strip or
// add payload-marker bits, they just determine how many raw bytes a given
// ID's magnitude requires and move it as a big-endian integer. This
// mirrors tide's ids::encode/decode (original_source/test/test_id_utils.cpp),
// where e.g. the EBML header ID is literally 0x1A45DFA3, not a "payload"
// under that marker.
package ids

import (
	"io"

	"github.com/ebmlio/container/ebmlerr"
)

// ID is an EBML element identifier.
type ID uint32

// Class boundaries, §3.1: Class A (1 byte, <2^7-1), B (2 bytes, <2^14-1),
// C (3 bytes, <2^21-1), D (4 bytes, <2^28-1). The upper bound of each
// class is reserved (all payload bits 1) and excluded; zero is always
// invalid.
const (
	classAMin = 0x80
	classAMax = 0xFE
	classBMin = 0x4000
	classBMax = 0x7FFE
	classCMin = 0x200000
	classCMax = 0x3FFFFE
	classDMin = 0x10000000
	classDMax = 0x1FFFFFFE
)

// Size returns the number of bytes the wire encoding of id occupies.
func Size(id ID) (int, error) {
	switch {
	case id == 0:
		return 0, ebmlerr.New(ebmlerr.InvalidEbmlID, "id", id)
	case id >= classAMin && id <= classAMax:
		return 1, nil
	case id >= classBMin && id <= classBMax:
		return 2, nil
	case id >= classCMin && id <= classCMax:
		return 3, nil
	case id >= classDMin && id <= classDMax:
		return 4, nil
	default:
		return 0, ebmlerr.New(ebmlerr.InvalidEbmlID, "id", id)
	}
}

// Validate reports whether id is a valid (non-reserved, non-zero) element
// identifier.
func Validate(id ID) bool {
	_, err := Size(id)
	return err == nil
}

// Encode returns the big-endian wire bytes of id.
func Encode(id ID) ([]byte, error) {
	size, err := Size(id)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	v := uint32(id)
	for i := size - 1; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	return buf, nil
}

// Decode reads an ID from the front of buf, returning the ID and the
// number of bytes consumed.
func Decode(buf []byte) (ID, int, error) {
	if len(buf) == 0 {
		return 0, 0, ebmlerr.New(ebmlerr.BufferTooSmall, "bufsize", 0, "required", 1)
	}
	width, ok := classWidth(buf[0])
	if !ok {
		return 0, 0, ebmlerr.New(ebmlerr.InvalidEbmlID, "byte", buf[0])
	}
	if len(buf) < width {
		return 0, 0, ebmlerr.New(ebmlerr.BufferTooSmall, "bufsize", len(buf), "required", width)
	}
	var v uint32
	for i := 0; i < width; i++ {
		v = v<<8 | uint32(buf[i])
	}
	id := ID(v)
	if !Validate(id) {
		return 0, 0, ebmlerr.New(ebmlerr.InvalidEbmlID, "id", id)
	}
	return id, width, nil
}

func classWidth(first byte) (int, bool) {
	switch {
	case first&0x80 != 0:
		return 1, true
	case first&0x40 != 0:
		return 2, true
	case first&0x20 != 0:
		return 3, true
	case first&0x10 != 0:
		return 4, true
	default:
		return 0, false
	}
}

// Write encodes id and writes it to w, returning the number of bytes
// written.
func Write(w io.Writer, id ID) (int, error) {
	buf, err := Encode(id)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(buf)
	if err != nil {
		return n, ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
	}
	return n, nil
}

// Read reads one ID from r, returning the ID and the number of bytes
// consumed.
func Read(r io.Reader) (ID, int, error) {
	var first [1]byte
	if _, err := io.ReadFull(r, first[:]); err != nil {
		return 0, 0, ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
	}
	width, ok := classWidth(first[0])
	if !ok {
		return 0, 0, ebmlerr.New(ebmlerr.InvalidEbmlID, "byte", first[0])
	}
	buf := make([]byte, width)
	buf[0] = first[0]
	if width > 1 {
		if _, err := io.ReadFull(r, buf[1:]); err != nil {
			return 0, 0, ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
		}
	}
	var v uint32
	for i := 0; i < width; i++ {
		v = v<<8 | uint32(buf[i])
	}
	id := ID(v)
	if !Validate(id) {
		return 0, 0, ebmlerr.New(ebmlerr.InvalidEbmlID, "id", id)
	}
	return id, width, nil
}
