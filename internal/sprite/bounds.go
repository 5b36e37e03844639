package sprite

import (
	"fmt"

	"github.com/chewxy/math32"

	"wfextract/internal/container"
	"wfextract/internal/texture"
	"wfextract/internal/wflz"
)

// Vec2 is a point in frame space (y up) or texture space.
type Vec2 struct {
	X, Y float32
}

// Piece maps the UV rectangle of a texture onto a frame-space rectangle.
type Piece struct {
	TopLeft       Vec2
	TopLeftUV     Vec2
	BottomRight   Vec2
	BottomRightUV Vec2
}

// Box is a frame-space bounding box. UpperLeft holds the minimum x and
// maximum y, BottomRight the maximum x and minimum y.
type Box struct {
	UpperLeft   Vec2
	BottomRight Vec2
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float32 { return b.BottomRight.X - b.UpperLeft.X }

// Height returns the vertical extent of the box.
func (b Box) Height() float32 { return b.UpperLeft.Y - b.BottomRight.Y }

// Check rejects boxes whose canvas would be non-finite or larger than any
// texture the decoder accepts.
func (b Box) Check() error {
	const limit = float32(wflz.MaxDecompressedSize)
	w, h := b.Width(), b.Height()
	if !(w <= limit && h <= limit) {
		return fmt.Errorf("sprite: box %gx%g out of range", w, h)
	}
	return texture.CheckDimensions(uint64(math32.Ceil(max(w, 0))), uint64(math32.Ceil(max(h, 0))))
}

// Union returns the smallest box containing b and o.
func (b Box) Union(o Box) Box {
	return Box{
		UpperLeft:   Vec2{min(b.UpperLeft.X, o.UpperLeft.X), max(b.UpperLeft.Y, o.UpperLeft.Y)},
		BottomRight: Vec2{max(b.BottomRight.X, o.BottomRight.X), min(b.BottomRight.Y, o.BottomRight.Y)},
	}
}

// PieceBox returns the union of the pieces' destination rectangles.
// ok is false when there are no pieces.
func PieceBox(pieces []Piece) (box Box, ok bool) {
	for i, p := range pieces {
		pb := Box{UpperLeft: p.TopLeft, BottomRight: p.BottomRight}
		if i == 0 {
			box = pb
			continue
		}
		box = box.Union(pb)
	}
	return box, len(pieces) > 0
}

// TextureBox is the box of a whole w×h texture placed with its top-left at the origin.
func TextureBox(w, h int) Box {
	return Box{BottomRight: Vec2{float32(w), -float32(h)}}
}

// Aggregate builds an animation from its ordered frame indices, unioning the
// boxes of the frames it references.
func Aggregate(frames []Frame, hash uint32, indices []int) (Animation, error) {
	anim := Animation{Hash: hash, Frames: indices}
	for i, idx := range indices {
		if idx < 0 || idx >= len(frames) {
			return Animation{}, fmt.Errorf("%w: animation %08x references frame %d of %d", container.ErrOutOfBounds, hash, idx, len(frames))
		}
		if i == 0 {
			anim.Box = frames[idx].Box
			continue
		}
		anim.Box = anim.Box.Union(frames[idx].Box)
	}
	return anim, nil
}
