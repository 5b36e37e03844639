/*
Package wflz decompresses the chunk-framed LZ streams embedded in texture records.

A stream is either one block or a "ZLFW" chunk header followed by blocks. Every
block starts with a 12-byte header {magic, compressed size, decompressed size}.
Blocks inside a chunk stream are padded, so the next block is found by scanning
forward for a known magic. Decompressed blocks concatenated in stream order form
the record payload.

WFLZ token blocks are decoded as 4-byte tokens {distance u16, length u8,
literal count u8} where a token is either a back-reference or a literal run,
never both. No reference decoder was available to confirm this layout, so a
WFLZ block that fails with ErrBadDistance, ErrDecodeOverrun or
ErrDecodedSizeMismatch on real assets most likely means the token layout
differs. COPY and LZ4 blocks do not depend on it.
*/
package wflz

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	// ChunkMagic starts a multi-block stream.
	ChunkMagic = "ZLFW"
	// BlockMagicWFLZ marks a wfLZ token block.
	BlockMagicWFLZ = "WFLZ"
	// BlockMagicLZ4 marks a raw LZ4 block.
	BlockMagicLZ4 = "LZ4 "
	// BlockMagicCOPY marks a stored block.
	BlockMagicCOPY = "COPY"

	blockHeaderSize = 12
	chunkHeaderSize = 16

	// MaxDecompressedSize bounds a single stream to keep garbage headers from
	// triggering huge allocations.
	MaxDecompressedSize = 256 << 20
)

// Block is one compressed block located inside a stream.
type Block struct {
	Offset           int
	Magic            string
	CompressedSize   uint32
	DecompressedSize uint32
	Payload          []byte
}

type chunkHeader struct {
	Magic            [4]byte
	CompressedSize   uint32
	DecompressedSize uint32
	NumChunks        uint32
}

type blockHeader struct {
	Magic            [4]byte
	CompressedSize   uint32
	DecompressedSize uint32
}

func isBlockMagic(m string) bool {
	return m == BlockMagicWFLZ || m == BlockMagicLZ4 || m == BlockMagicCOPY
}

// DecompressedSize returns the size declared by the stream's own framing.
func DecompressedSize(stream []byte) (uint32, error) {
	if len(stream) < 4 {
		return 0, ErrNoStream
	}
	magic := string(stream[:4])
	switch {
	case magic == ChunkMagic:
		if len(stream) < chunkHeaderSize {
			return 0, fmt.Errorf("%w: chunk header", ErrTruncated)
		}
	case isBlockMagic(magic):
		if len(stream) < blockHeaderSize {
			return 0, fmt.Errorf("%w: block header", ErrTruncated)
		}
	default:
		return 0, fmt.Errorf("%w: %q", ErrNoStream, magic)
	}
	return binary.LittleEndian.Uint32(stream[8:12]), nil
}

// Blocks returns the blocks of stream in yield order.
func Blocks(stream []byte) ([]Block, error) {
	if len(stream) < 4 {
		return nil, ErrNoStream
	}
	magic := string(stream[:4])
	if isBlockMagic(magic) {
		b, err := readBlock(stream, 0)
		if err != nil {
			return nil, err
		}
		return []Block{b}, nil
	}
	if magic != ChunkMagic {
		return nil, fmt.Errorf("%w: %q", ErrNoStream, magic)
	}

	var hdr chunkHeader
	if err := binary.Read(bytes.NewReader(stream), binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: chunk header: %v", ErrTruncated, err)
	}

	blocks := make([]Block, 0, min(int(hdr.NumChunks), len(stream)/blockHeaderSize))
	var total uint64
	pos := chunkHeaderSize
	for i := uint32(0); i < hdr.NumChunks; i++ {
		next := scanBlock(stream, pos)
		if next < 0 {
			return nil, fmt.Errorf("%w: %d of %d", ErrMissingBlock, i+1, hdr.NumChunks)
		}
		b, err := readBlock(stream, next)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
		total += uint64(b.DecompressedSize)
		pos = next + blockHeaderSize + len(b.Payload)
	}
	if total != uint64(hdr.DecompressedSize) {
		return nil, fmt.Errorf("%w: chunk declares %d, blocks sum to %d", ErrDecodedSizeMismatch, hdr.DecompressedSize, total)
	}

	return blocks, nil
}

// scanBlock finds the next block magic at or after pos, or -1.
func scanBlock(stream []byte, pos int) int {
	for i := pos; i+4 <= len(stream); i++ {
		if isBlockMagic(string(stream[i : i+4])) {
			return i
		}
	}
	return -1
}

func readBlock(stream []byte, off int) (Block, error) {
	if off+blockHeaderSize > len(stream) {
		return Block{}, fmt.Errorf("%w: block header at %d", ErrTruncated, off)
	}
	var hdr blockHeader
	if err := binary.Read(bytes.NewReader(stream[off:off+blockHeaderSize]), binary.LittleEndian, &hdr); err != nil {
		return Block{}, fmt.Errorf("%w: block header at %d: %v", ErrTruncated, off, err)
	}
	start := off + blockHeaderSize
	if uint64(hdr.CompressedSize) > uint64(len(stream)-start) {
		return Block{}, fmt.Errorf("%w: block at %d needs %d payload bytes, have %d", ErrTruncated, off, hdr.CompressedSize, len(stream)-start)
	}
	return Block{
		Offset:           off,
		Magic:            string(hdr.Magic[:]),
		CompressedSize:   hdr.CompressedSize,
		DecompressedSize: hdr.DecompressedSize,
		Payload:          stream[start : start+int(hdr.CompressedSize)],
	}, nil
}

// Decompress inflates a whole stream into one flat buffer sized by its framing.
func Decompress(stream []byte) ([]byte, error) {
	size, err := DecompressedSize(stream)
	if err != nil {
		return nil, err
	}
	if size > MaxDecompressedSize {
		return nil, fmt.Errorf("%w: declared size %d exceeds limit", ErrDecodeOverrun, size)
	}
	blocks, err := Blocks(stream)
	if err != nil {
		return nil, err
	}

	out := make([]byte, size)
	pos := 0
	for i, b := range blocks {
		if uint64(pos)+uint64(b.DecompressedSize) > uint64(len(out)) {
			return nil, fmt.Errorf("%w: block %d", ErrDecodeOverrun, i)
		}
		dst := out[pos : pos+int(b.DecompressedSize)]
		if err := decodeBlock(b, dst); err != nil {
			return nil, fmt.Errorf("block %d at %d: %w", i, b.Offset, err)
		}
		pos += len(dst)
	}
	if pos != len(out) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, len(out), pos)
	}

	return out, nil
}
