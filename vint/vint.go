// Package vint implements the EBML variable-length integer codec: an
// unsigned integer 0 <= n < 2^56-1 encoded in 1-8 bytes with a unary
// length prefix in the first byte's high bits (§3.2 of the design).
//
// The encode/decode shape mirrors tide's vint.cpp (see
// original_source/src/vint.cpp): a width table keyed by the leading byte's
// highest set bit, rather than the teacher's (pixelbender-go-matroska)
// bit-mask/rest-table scan, since the writer side needs the inverse
// (coded-size-from-value) table that tide already carries.
package vint

import (
	"io"

	"github.com/ebmlio/container/ebmlerr"
)

// Reserved is the all-ones payload of an 8-byte vint: the "unknown size"
// marker used by streamed elements. Decoders accept and propagate it;
// callers that need a concrete size must reject it explicitly.
const Reserved = uint64(1)<<56 - 1

// MaxValue is the largest value a vint can encode (2^56 - 2; 2^56-1 is
// reserved).
const MaxValue = Reserved - 1

var lenMarker = [9]byte{0, 0x80, 0x40, 0x20, 0x10, 0x08, 0x04, 0x02, 0x01}

// Size returns the number of bytes needed to encode n, the minimum width
// satisfying the unary prefix. It panics-free; VarIntTooBig is returned by
// Encode/Write instead, since Size has no error return in the design.
func Size(n uint64) int {
	switch {
	case n < 1<<7:
		return 1
	case n < 1<<14:
		return 2
	case n < 1<<21:
		return 3
	case n < 1<<28:
		return 4
	case n < 1<<35:
		return 5
	case n < 1<<42:
		return 6
	case n < 1<<49:
		return 7
	default:
		return 8
	}
}

// Encode returns the vint encoding of n. If requiredWidth > 0, the value is
// padded to that width (SpecSizeTooSmall if requiredWidth is narrower than
// the natural size).
func Encode(n uint64, requiredWidth ...int) ([]byte, error) {
	if n > MaxValue {
		return nil, ebmlerr.New(ebmlerr.VarIntTooBig, "value", n)
	}
	width := Size(n)
	if len(requiredWidth) > 0 && requiredWidth[0] > 0 {
		rw := requiredWidth[0]
		if rw < width {
			return nil, ebmlerr.New(ebmlerr.SpecSizeTooSmall, "required", width, "specified", rw)
		}
		width = rw
	}
	buf := make([]byte, width)
	shifts := width - 1
	for i := shifts; i > 0; i-- {
		buf[i] = byte(n >> ((shifts - i) * 8))
	}
	buf[0] = byte(n>>(shifts*8)) | lenMarker[width]
	return buf, nil
}

// Decode reads a vint from the front of buf, returning the value and the
// number of bytes consumed.
func Decode(buf []byte) (value uint64, consumed int, err error) {
	if len(buf) == 0 {
		return 0, 0, ebmlerr.New(ebmlerr.BufferTooSmall, "bufsize", 0, "required", 1)
	}
	width, first := widthOf(buf[0])
	if width == 0 {
		return 0, 0, ebmlerr.New(ebmlerr.InvalidVarInt)
	}
	if len(buf) < width {
		return 0, 0, ebmlerr.New(ebmlerr.BufferTooSmall, "bufsize", len(buf), "required", width)
	}
	v := uint64(first)
	for i := 1; i < width; i++ {
		v = v<<8 | uint64(buf[i])
	}
	return v, width, nil
}

// widthOf returns the vint width implied by the leading byte, and the
// value bits already present in that byte (with the length prefix
// stripped). width == 0 means an invalid (all-zero) leading byte.
func widthOf(b byte) (width int, valueBits byte) {
	switch {
	case b&0x80 != 0:
		return 1, b & 0x7F
	case b&0x40 != 0:
		return 2, b & 0x3F
	case b&0x20 != 0:
		return 3, b & 0x1F
	case b&0x10 != 0:
		return 4, b & 0x0F
	case b&0x08 != 0:
		return 5, b & 0x07
	case b&0x04 != 0:
		return 6, b & 0x03
	case b&0x02 != 0:
		return 7, b & 0x01
	case b&0x01 != 0:
		return 8, 0
	default:
		return 0, 0
	}
}

// Write encodes n and writes it to w, returning the number of bytes
// written.
func Write(w io.Writer, n uint64, requiredWidth ...int) (int, error) {
	buf, err := Encode(n, requiredWidth...)
	if err != nil {
		return 0, err
	}
	nw, err := w.Write(buf)
	if err != nil {
		return nw, ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
	}
	return nw, nil
}

// Read reads one vint from r, returning the value and the number of bytes
// consumed.
func Read(r io.Reader) (value uint64, consumed int, err error) {
	var first [1]byte
	if _, err = io.ReadFull(r, first[:]); err != nil {
		return 0, 0, ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
	}
	width, v := widthOf(first[0])
	if width == 0 {
		return 0, 0, ebmlerr.New(ebmlerr.InvalidVarInt)
	}
	value = uint64(v)
	if width > 1 {
		rest := make([]byte, width-1)
		if _, err = io.ReadFull(r, rest); err != nil {
			return 0, 0, ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
		}
		for _, b := range rest {
			value = value<<8 | uint64(b)
		}
	}
	return value, width, nil
}

// unknownPayload is the decoded value of an all-ones vint of the given
// width: every bit after the unary length prefix set to 1.
func unknownPayload(width int) uint64 {
	return uint64(1)<<(7*uint(width)) - 1
}

// IsUnknown reports whether a decoded value is the reserved "unknown size"
// marker (an all-ones payload) for the given width.
func IsUnknown(value uint64, width int) bool {
	return value == unknownPayload(width)
}

// EncodeUnknown returns the width-byte wire encoding of the "unknown size"
// marker, used when starting a streamed (size-unknown) element: the unary
// length prefix for width, followed by payload bits that are all 1.
func EncodeUnknown(width int) []byte {
	buf := make([]byte, width)
	for i := range buf {
		buf[i] = 0xFF
	}
	buf[0] = lenMarker[width] | (lenMarker[width] - 1)
	return buf
}
