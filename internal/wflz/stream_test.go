package wflz

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/pierrec/lz4/v4"
)

func block(magic string, payload []byte, decompressed int) []byte {
	var buf bytes.Buffer
	buf.WriteString(magic)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(decompressed))
	buf.Write(payload)
	return buf.Bytes()
}

func chunk(decompressed int, blocks ...[]byte) []byte {
	var body bytes.Buffer
	for _, b := range blocks {
		body.Write(b)
		// chunks are 16-byte aligned with zero padding
		for body.Len()%16 != 0 {
			body.WriteByte(0)
		}
	}
	var buf bytes.Buffer
	buf.WriteString(ChunkMagic)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(body.Len()))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(decompressed))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(blocks)))
	buf.Write(body.Bytes())
	return buf.Bytes()
}

func token(dist uint16, length, literals byte) []byte {
	return []byte{byte(dist), byte(dist >> 8), length, literals}
}

func TestDecompressCopyBlock(t *testing.T) {
	t.Parallel()

	data := []byte("hello, sprite")
	out, err := Decompress(block(BlockMagicCOPY, data, len(data)))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("Decompress() = %q, want %q", out, data)
	}
}

func TestDecompressLZ4Chunks(t *testing.T) {
	t.Parallel()

	first := bytes.Repeat([]byte{1, 2, 3, 4, 5, 6, 7, 8}, 512)
	second := bytes.Repeat([]byte("frame"), 300)

	compress := func(src []byte) []byte {
		dst := make([]byte, lz4.CompressBlockBound(len(src)))
		n, err := lz4.CompressBlock(src, dst, nil)
		if err != nil || n == 0 {
			t.Fatalf("CompressBlock: n=%d err=%v", n, err)
		}
		return dst[:n]
	}

	stream := chunk(len(first)+len(second),
		block(BlockMagicLZ4, compress(first), len(first)),
		block(BlockMagicCOPY, second, len(second)),
	)

	size, err := DecompressedSize(stream)
	if err != nil || int(size) != len(first)+len(second) {
		t.Fatalf("DecompressedSize() = %d, %v", size, err)
	}

	out, err := Decompress(stream)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, append(append([]byte{}, first...), second...)) {
		t.Fatalf("chunked round-trip mismatch")
	}
}

func TestDecodeTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tokens [][]byte
		want   string
	}{
		{
			name:   "literals-then-match",
			tokens: [][]byte{token(0, 0, 4), []byte("abcd"), token(4, 1, 0), token(0, 0, 0)},
			want:   "abcdabcda",
		},
		{
			name:   "overlapping-match",
			tokens: [][]byte{token(0, 0, 1), []byte("a"), token(1, 3, 0), token(0, 0, 0)},
			want:   "aaaaaaaa",
		},
		{
			name:   "no-terminator",
			tokens: [][]byte{token(0, 0, 2), []byte("ok")},
			want:   "ok",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			payload := bytes.Join(tc.tokens, nil)
			out, err := Decompress(block(BlockMagicWFLZ, payload, len(tc.want)))
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if string(out) != tc.want {
				t.Fatalf("Decompress() = %q, want %q", out, tc.want)
			}
		})
	}
}

func TestDecompressErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		stream  []byte
		wantErr error
	}{
		{name: "empty", stream: nil, wantErr: ErrNoStream},
		{name: "garbage", stream: []byte("JUNKJUNKJUNK"), wantErr: ErrNoStream},
		{name: "truncated-payload", stream: block(BlockMagicCOPY, []byte("abc"), 3)[:13], wantErr: ErrTruncated},
		{name: "copy-size-mismatch", stream: block(BlockMagicCOPY, []byte("abc"), 4), wantErr: ErrDecodedSizeMismatch},
		{name: "bad-distance", stream: block(BlockMagicWFLZ, token(9, 1, 0), 5), wantErr: ErrBadDistance},
		{name: "match-overrun", stream: block(BlockMagicWFLZ, bytes.Join([][]byte{token(0, 0, 1), []byte("a"), token(1, 9, 0)}, nil), 4), wantErr: ErrDecodeOverrun},
		{name: "missing-chunk-block", stream: chunk(3, block(BlockMagicCOPY, []byte("abc"), 3))[:16], wantErr: ErrMissingBlock},
		{name: "chunk-size-mismatch", stream: chunk(10, block(BlockMagicCOPY, []byte("abc"), 3)), wantErr: ErrDecodedSizeMismatch},
		{name: "bad-lz4", stream: block(BlockMagicLZ4, []byte{0xff, 0xff, 0xff}, 64), wantErr: ErrLZ4Decode},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decompress(tc.stream)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestBlocksScansPastPadding(t *testing.T) {
	t.Parallel()

	stream := chunk(6,
		block(BlockMagicCOPY, []byte("ab"), 2),
		block(BlockMagicCOPY, []byte("cdef"), 4),
	)
	blocks, err := Blocks(stream)
	if err != nil {
		t.Fatalf("Blocks: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("Blocks() returned %d blocks, want 2", len(blocks))
	}
	if blocks[1].Offset%16 != 0 {
		t.Fatalf("second block at %d, want 16-byte aligned", blocks[1].Offset)
	}
	if string(blocks[1].Payload) != "cdef" {
		t.Fatalf("second block payload = %q", blocks[1].Payload)
	}
}
