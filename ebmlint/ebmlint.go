// Package ebmlint implements the EBML integer codec (§3.3 of the design):
// signed or unsigned integers stored as 0-8 big-endian bytes at minimum
// width, with zero encoding to the empty byte sequence. This is distinct
// from vint (§3.2): an ebmlint has no unary length prefix of its own — its
// width is carried externally, by the enclosing element's body size.
package ebmlint

import (
	"io"

	"github.com/ebmlio/container/ebmlerr"
)

// SizeU returns the minimum number of bytes needed to hold n, big-endian,
// with no leading zero byte (0 needs zero bytes).
func SizeU(n uint64) int {
	size := 0
	for v := n; v > 0; v >>= 8 {
		size++
	}
	return size
}

// SizeS returns the minimum number of bytes needed to hold a signed value
// in two's complement such that the sign bit is preserved, e.g. -1 needs 1
// byte (0xFF), -129 needs 2 bytes (0xFF 0x7F).
func SizeS(n int64) int {
	if n == 0 {
		return 0
	}
	size := 1
	for {
		lo := int64(-1) << (uint(size)*8 - 1)
		hi := -lo - 1
		if n >= lo && n <= hi {
			return size
		}
		size++
		if size > 8 {
			return 8
		}
	}
}

// EncodeU encodes n as a big-endian unsigned integer in the minimum number
// of bytes (0 bytes for n == 0).
func EncodeU(n uint64) []byte {
	size := SizeU(n)
	buf := make([]byte, size)
	for i := size - 1; i >= 0; i-- {
		buf[i] = byte(n)
		n >>= 8
	}
	return buf
}

// EncodeS encodes n as a two's complement big-endian signed integer in the
// minimum number of bytes that preserves its sign bit.
func EncodeS(n int64) []byte {
	size := SizeS(n)
	buf := make([]byte, size)
	u := uint64(n)
	for i := size - 1; i >= 0; i-- {
		buf[i] = byte(u)
		u >>= 8
	}
	return buf
}

// DecodeU decodes a big-endian unsigned integer of 0-8 bytes.
func DecodeU(buf []byte) (uint64, error) {
	if len(buf) > 8 {
		return 0, ebmlerr.New(ebmlerr.BadElementLength, "observed", len(buf), "allowed", 8)
	}
	var v uint64
	for _, b := range buf {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

// DecodeS decodes a two's complement big-endian signed integer of 0-8
// bytes, sign-extending from the stored width.
func DecodeS(buf []byte) (int64, error) {
	if len(buf) > 8 {
		return 0, ebmlerr.New(ebmlerr.BadElementLength, "observed", len(buf), "allowed", 8)
	}
	if len(buf) == 0 {
		return 0, nil
	}
	var v int64
	if buf[0]&0x80 != 0 {
		v = -1
	}
	for _, b := range buf {
		v = v<<8 | int64(b)
	}
	return v, nil
}

// WriteU writes n as a big-endian unsigned integer using exactly width
// bytes (0 means the codec's natural minimum width).
func WriteU(w io.Writer, n uint64, width int) (int, error) {
	if width <= 0 {
		width = SizeU(n)
	}
	buf := make([]byte, width)
	v := n
	for i := width - 1; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	nw, err := w.Write(buf)
	if err != nil {
		return nw, ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
	}
	return nw, nil
}

// WriteS writes n as a big-endian two's complement signed integer using
// exactly width bytes (0 means the codec's natural minimum width).
func WriteS(w io.Writer, n int64, width int) (int, error) {
	if width <= 0 {
		width = SizeS(n)
	}
	buf := EncodeS(n)
	if len(buf) < width {
		pad := make([]byte, width-len(buf))
		fill := byte(0x00)
		if n < 0 {
			fill = 0xFF
		}
		for i := range pad {
			pad[i] = fill
		}
		buf = append(pad, buf...)
	}
	nw, err := w.Write(buf)
	if err != nil {
		return nw, ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
	}
	return nw, nil
}

// ReadU reads width bytes from r and decodes them as an unsigned integer.
func ReadU(r io.Reader, width int) (uint64, error) {
	if width == 0 {
		return 0, nil
	}
	buf := make([]byte, width)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
	}
	return DecodeU(buf)
}

// ReadS reads width bytes from r and decodes them as a signed integer.
func ReadS(r io.Reader, width int) (int64, error) {
	if width == 0 {
		return 0, nil
	}
	buf := make([]byte, width)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, ebmlerr.New(ebmlerr.ReadError, "cause", err.Error())
	}
	return DecodeS(buf)
}
