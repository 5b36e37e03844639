package wflz

import (
	"encoding/binary"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

const (
	tokenSize = 4
	// minMatch is the shortest back-reference; token lengths are stored minus
	// (minMatch - 1).
	minMatch = 5
)

// decodeBlock inflates b into dst, which has exactly b.DecompressedSize bytes.
func decodeBlock(b Block, dst []byte) error {
	switch b.Magic {
	case BlockMagicCOPY:
		if len(b.Payload) != len(dst) {
			return fmt.Errorf("%w: stored block has %d bytes, declares %d", ErrDecodedSizeMismatch, len(b.Payload), len(dst))
		}
		copy(dst, b.Payload)
		return nil
	case BlockMagicLZ4:
		n, err := lz4.UncompressBlock(b.Payload, dst)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrLZ4Decode, err)
		}
		if n != len(dst) {
			return fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, len(dst), n)
		}
		return nil
	case BlockMagicWFLZ:
		return decodeTokens(b.Payload, dst)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBlockMagic, b.Magic)
	}
}

// decodeTokens expands a wfLZ token stream. Each 4-byte token is
// {distance u16, length u8, literal count u8}: a non-zero length copies
// length+minMatch-1 bytes from distance bytes back, otherwise the token is
// followed by that many literal bytes. An all-zero token ends the block.
func decodeTokens(src, dst []byte) error {
	in, out := 0, 0
	for {
		if in+tokenSize > len(src) {
			if out == len(dst) {
				return nil
			}
			return fmt.Errorf("%w: token at %d", ErrTruncated, in)
		}
		dist := int(binary.LittleEndian.Uint16(src[in:]))
		length := int(src[in+2])
		literals := int(src[in+3])
		in += tokenSize

		switch {
		case length != 0:
			n := length + minMatch - 1
			if dist == 0 || dist > out {
				return fmt.Errorf("%w: distance %d at output %d", ErrBadDistance, dist, out)
			}
			if out+n > len(dst) {
				return fmt.Errorf("%w: match of %d at output %d", ErrDecodeOverrun, n, out)
			}
			// Byte-wise so overlapping matches repeat the pattern.
			for i := 0; i < n; i++ {
				dst[out+i] = dst[out-dist+i]
			}
			out += n
		case literals != 0:
			if in+literals > len(src) {
				return fmt.Errorf("%w: %d literals at %d", ErrTruncated, literals, in)
			}
			if out+literals > len(dst) {
				return fmt.Errorf("%w: %d literals at output %d", ErrDecodeOverrun, literals, out)
			}
			copy(dst[out:], src[in:in+literals])
			in += literals
			out += literals
		default:
			if out != len(dst) {
				return fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, len(dst), out)
			}
			return nil
		}
	}
}
