// Package sprite decodes ANB sprite animation containers and lays their
// frames out on a sprite sheet.
package sprite

import (
	"wfextract/internal/container"
)

// Header is the 40-byte file header at offset 0.
type Header struct {
	HeaderSize    uint32
	Unknown0      uint32
	NumFrames     uint32
	NumAnimations uint32
	Unknown2      uint32
	Unknown3      uint32
	FrameTable    uint64
	AnimTable     uint64
}

// FrameDesc is the 40-byte record a frame table entry points to.
type FrameDesc struct {
	Unknown0    [4]int32
	Texture     uint64
	TextureSize int32
	Unknown1    int32
	Pieces      uint64
}

// AnimHeader is the 32-byte record an animation table entry points to.
type AnimHeader struct {
	Hash      uint32
	NumFrames uint32
	Unknown0  [2]uint32
	FrameList uint64
	Unknown1  [2]uint32
}

// AnimFrame is one 44-byte animation frame entry.
type AnimFrame struct {
	FrameNo uint32
	Unknown [10]int32
}

const (
	headerSize    = 40
	frameDescSize = 40
	pieceSize     = 32
)

// Probe recognizes the sprite container, which has no signature, by checking
// that its header describes tables lying inside the file.
var Probe = container.Probe{Variant: container.VariantSprite, Match: looksLikeSprite}

func looksLikeSprite(b *container.Buffer) bool {
	var h Header
	if b.Len() < headerSize || b.Read(0, "header", &h) != nil {
		return false
	}
	if h.NumFrames == 0 || h.FrameTable < headerSize || h.AnimTable < headerSize {
		return false
	}
	frames, err := b.Offset(h.FrameTable, "frame table")
	if err != nil {
		return false
	}
	offs, err := b.OffsetTable(frames, uint64(h.NumFrames), "frame table")
	if err != nil {
		return false
	}
	anims, err := b.Offset(h.AnimTable, "animation table")
	if err != nil {
		return false
	}
	if _, err := b.OffsetTable(anims, uint64(h.NumAnimations), "animation table"); err != nil {
		return false
	}
	return b.Check(offs[0], frameDescSize, "frame") == nil
}
