// Package fixture builds small synthetic containers for tests.
package fixture

import (
	"bytes"
	"encoding/binary"
)

// le packs values little-endian with no padding.
func le(values ...any) []byte {
	var buf bytes.Buffer
	for _, v := range values {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			panic(err)
		}
	}
	return buf.Bytes()
}

// Stream wraps payload in a single stored block.
func Stream(payload []byte) []byte {
	return append(le([4]byte{'C', 'O', 'P', 'Y'}, uint32(len(payload)), uint32(len(payload))), payload...)
}

// ChunkStream frames payloads as stored blocks inside a chunk header,
// padding every block to 16 bytes.
func ChunkStream(payloads ...[]byte) []byte {
	var body []byte
	total := 0
	for _, p := range payloads {
		body = append(body, Stream(p)...)
		for len(body)%16 != 0 {
			body = append(body, 0)
		}
		total += len(p)
	}
	head := le([4]byte{'Z', 'L', 'F', 'W'}, uint32(len(body)), uint32(total), uint32(len(payloads)))
	return append(head, body...)
}

// DXT1Solid returns DXT1 blocks that decode to a single opaque colour.
// c is RGB565; 0xFFFF is white and 0 is black.
func DXT1Solid(w, h int, c uint16) []byte {
	n := ((w + 3) / 4) * ((h + 3) / 4)
	out := make([]byte, 0, n*8)
	for i := 0; i < n; i++ {
		out = append(out, le(c, uint16(0), uint32(0))...)
	}
	return out
}

// DXT5Solid returns DXT5 blocks that decode to a single colour with alpha a.
func DXT5Solid(w, h int, c uint16, a uint8) []byte {
	n := ((w + 3) / 4) * ((h + 3) / 4)
	out := make([]byte, 0, n*16)
	for i := 0; i < n; i++ {
		out = append(out, a, a, 0, 0, 0, 0, 0, 0)
		out = append(out, le(c, uint16(0), uint32(0))...)
	}
	return out
}

// Palette returns a palette payload: 256 RGBA entries then the index bytes.
func Palette(entries [][4]byte, indices []byte) []byte {
	pal := make([]byte, 256*4)
	for i, e := range entries {
		copy(pal[i*4:], e[:])
	}
	return append(pal, indices...)
}

// writer appends sections and patches offsets into them later.
type writer struct {
	buf []byte
}

func (w *writer) pos() int { return len(w.buf) }

func (w *writer) write(b []byte) int {
	off := len(w.buf)
	w.buf = append(w.buf, b...)
	return off
}

func (w *writer) align(n int) {
	for len(w.buf)%n != 0 {
		w.buf = append(w.buf, 0)
	}
}

func (w *writer) put32(at int, v uint32) { binary.LittleEndian.PutUint32(w.buf[at:], v) }
func (w *writer) put64(at int, v uint64) { binary.LittleEndian.PutUint64(w.buf[at:], v) }
