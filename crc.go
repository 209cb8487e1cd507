package ebml

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/ebmlio/container/ebmlerr"
	"github.com/ebmlio/container/ids"
)

// CRC32ID is the element ID of the CRC-32 sub-element that, when present,
// is always the first child of its master and covers the remaining bytes
// of that master's body (§6.3).
const CRC32ID ids.ID = 0xBF

// crc32Checksum computes the CRC-32 over body using the reflected IEEE
// polynomial, init 0xFFFFFFFF, final xor 0xFFFFFFFF, exactly as the
// standard library's hash/crc32.IEEE table already computes it - the
// specification explicitly delegates CRC-32 to a standard CRC-32
// implementation, so no ecosystem replacement was sought (see
// SPEC_FULL.md's Domain Stack table).
func crc32Checksum(body []byte) uint32 {
	return crc32.ChecksumIEEE(body)
}

// writeCRC32Element writes the 6-byte CRC-32 sub-element (ID + 1-byte
// size + 4-byte little-endian value) covering body.
func writeCRC32Element(s Stream, body []byte) error {
	if _, err := ids.Write(s, CRC32ID); err != nil {
		return err
	}
	if _, err := s.Write([]byte{0x84}); err != nil { // vint(4), 1 byte width
		return ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], crc32Checksum(body))
	if _, err := s.Write(buf[:]); err != nil {
		return ebmlerr.New(ebmlerr.WriteError, "cause", err.Error())
	}
	return nil
}

// crc32ElementSize is the fixed wire size of the CRC-32 sub-element: 1
// byte ID + 1 byte size + 4 byte value.
const crc32ElementSize = 6
