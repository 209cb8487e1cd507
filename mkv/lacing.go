package mkv

import (
	"github.com/ebmlio/container/ebmlerr"
	"github.com/ebmlio/container/vint"
)

// LacingMode selects how a Block packs multiple frames (§4.5/§4.6).
type LacingMode int

const (
	LacingNone LacingMode = iota
	LacingFixed
	LacingEBML
)

// wireCode returns the 2-bit flags-byte encoding of m (bits 6-5); 0b01 is
// reserved and never produced.
func (m LacingMode) wireCode() byte {
	switch m {
	case LacingFixed:
		return 0x02
	case LacingEBML:
		return 0x03
	default:
		return 0x00
	}
}

func lacingFromWireCode(c byte) (LacingMode, error) {
	switch c {
	case 0x00:
		return LacingNone, nil
	case 0x02:
		return LacingFixed, nil
	case 0x03:
		return LacingEBML, nil
	default:
		return 0, ebmlerr.New(ebmlerr.BadLacedFrameSize, "reserved lacing code", c)
	}
}

// encodeEBMLLaceHeader builds the count byte plus the frame_count-1 size
// vints for EBML-differential lacing: the first is the plain length of
// frame 0, each subsequent one is a signed, bias-encoded delta from the
// previous frame's length (§4.5). The last frame's length is never
// written; the reader infers it from the remaining body bytes.
func encodeEBMLLaceHeader(frames [][]byte) ([]byte, error) {
	n := len(frames)
	header := []byte{byte(n - 1)}
	prev := 0
	for i := 0; i < n-1; i++ {
		length := len(frames[i])
		if i == 0 {
			enc, err := vint.Encode(uint64(length))
			if err != nil {
				return nil, err
			}
			header = append(header, enc...)
		} else {
			enc, err := encodeBiasedDelta(length - prev)
			if err != nil {
				return nil, err
			}
			header = append(header, enc...)
		}
		prev = length
	}
	return header, nil
}

// encodeBiasedDelta picks the smallest vint width w that can hold delta
// once biased into [0, 2^(7w)-2], per the `u = s + (2^(7w-1) - 1)` rule.
func encodeBiasedDelta(delta int) ([]byte, error) {
	for w := 1; w <= 8; w++ {
		limit := int64(1)<<(uint(7*w-1)) - 1
		if int64(delta) >= -limit && int64(delta) <= limit {
			u := uint64(int64(delta) + limit)
			return vint.Encode(u, w)
		}
	}
	return nil, ebmlerr.New(ebmlerr.BadLacedFrameSize, "delta", delta)
}

// decodeEBMLLaceSizes reads the frameCount-1 explicit sizes from buf,
// returning them plus the number of bytes consumed. The final frame's
// size is left for the caller to infer.
func decodeEBMLLaceSizes(buf []byte, frameCount int) ([]int, int, error) {
	sizes := make([]int, frameCount)
	prev := 0
	consumed := 0
	for i := 0; i < frameCount-1; i++ {
		if consumed >= len(buf) {
			return nil, 0, ebmlerr.New(ebmlerr.BadLacedFrameSize, "observed", "truncated lace header")
		}
		v, n, err := vint.Decode(buf[consumed:])
		if err != nil {
			return nil, 0, err
		}
		if i == 0 {
			sizes[0] = int(v)
		} else {
			limit := int64(1)<<(uint(7*n-1)) - 1
			sizes[i] = prev + int(int64(v)-limit)
		}
		prev = sizes[i]
		consumed += n
	}
	return sizes, consumed, nil
}
