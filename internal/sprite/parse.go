package sprite

import (
	"wfextract/internal/container"
	"wfextract/internal/texture"
)

// Frame is one sprite frame: a texture, the pieces cut from it and the
// union of their destination rectangles.
type Frame struct {
	Index   int
	Offset  int64
	Texture texture.Record
	Pieces  []Piece
	Box     Box
}

// Animation is an ordered list of frame indices sharing one hash.
type Animation struct {
	Hash   uint32
	Frames []int
	Box    Box
}

// File is a parsed sprite container. Texture payloads stay compressed in
// the buffer until decoded.
type File struct {
	Header     Header
	Frames     []Frame
	Animations []Animation
}

// Parse reads the header, frame table and animation table of buf.
func Parse(buf *container.Buffer) (*File, error) {
	f := &File{}
	if err := buf.Read(0, "header", &f.Header); err != nil {
		return nil, err
	}

	frameTable, err := buf.Offset(f.Header.FrameTable, "frame table")
	if err != nil {
		return nil, err
	}
	frameOffs, err := buf.OffsetTable(frameTable, uint64(f.Header.NumFrames), "frame table")
	if err != nil {
		return nil, err
	}
	f.Frames = make([]Frame, 0, len(frameOffs))
	for i, off := range frameOffs {
		frame, err := parseFrame(buf, off)
		if err != nil {
			return nil, err
		}
		frame.Index = i
		f.Frames = append(f.Frames, frame)
	}

	animTable, err := buf.Offset(f.Header.AnimTable, "animation table")
	if err != nil {
		return nil, err
	}
	animOffs, err := buf.OffsetTable(animTable, uint64(f.Header.NumAnimations), "animation table")
	if err != nil {
		return nil, err
	}
	f.Animations = make([]Animation, 0, len(animOffs))
	for _, off := range animOffs {
		anim, err := parseAnimation(buf, off, f.Frames)
		if err != nil {
			return nil, err
		}
		f.Animations = append(f.Animations, anim)
	}

	return f, nil
}

func parseFrame(buf *container.Buffer, off int64) (Frame, error) {
	var desc FrameDesc
	if err := buf.Read(off, "frame", &desc); err != nil {
		return Frame{}, err
	}

	texOff, err := buf.Offset(desc.Texture, "frame texture")
	if err != nil {
		return Frame{}, err
	}
	rec, err := texture.ReadRecord(buf, texOff)
	if err != nil {
		return Frame{}, err
	}

	pieceOff, err := buf.Offset(desc.Pieces, "frame pieces")
	if err != nil {
		return Frame{}, err
	}
	n, err := buf.Uint32(pieceOff, "pieces")
	if err != nil {
		return Frame{}, err
	}
	if err := buf.Check(pieceOff+4, int64(n)*pieceSize, "pieces"); err != nil {
		return Frame{}, err
	}
	pieces := make([]Piece, n)
	if err := buf.Read(pieceOff+4, "pieces", pieces); err != nil {
		return Frame{}, err
	}

	box, ok := PieceBox(pieces)
	if !ok {
		box = TextureBox(rec.Width, rec.Height)
	}
	if err := box.Check(); err != nil {
		return Frame{}, buf.Fail(container.ErrDecodeFailure, pieceOff, "pieces", err)
	}
	return Frame{Offset: off, Texture: rec, Pieces: pieces, Box: box}, nil
}

func parseAnimation(buf *container.Buffer, off int64, frames []Frame) (Animation, error) {
	var hdr AnimHeader
	if err := buf.Read(off, "animation", &hdr); err != nil {
		return Animation{}, err
	}
	listOff, err := buf.Offset(hdr.FrameList, "animation frame list")
	if err != nil {
		return Animation{}, err
	}
	entries, err := buf.OffsetTable(listOff, uint64(hdr.NumFrames), "animation frame list")
	if err != nil {
		return Animation{}, err
	}

	indices := make([]int, 0, len(entries))
	for _, e := range entries {
		var af AnimFrame
		if err := buf.Read(e, "animation frame", &af); err != nil {
			return Animation{}, err
		}
		indices = append(indices, int(af.FrameNo))
	}

	anim, err := Aggregate(frames, hdr.Hash, indices)
	if err != nil {
		return Animation{}, buf.Fail(container.ErrOutOfBounds, off, "animation", err)
	}
	if err := anim.Box.Check(); err != nil {
		return Animation{}, buf.Fail(container.ErrDecodeFailure, off, "animation", err)
	}
	return anim, nil
}
