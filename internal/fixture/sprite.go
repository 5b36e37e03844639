package fixture

// Vec2 is a float pair in frame or texture space.
type Vec2 [2]float32

// Piece maps a UV rectangle of the texture to a frame-space rectangle.
type Piece struct {
	TopLeft       Vec2
	TopLeftUV     Vec2
	BottomRight   Vec2
	BottomRightUV Vec2
}

// Texture is a sprite texture record. Payload is stored uncompressed in a COPY stream.
type Texture struct {
	Type    uint32
	Width   uint32
	Height  uint32
	Payload []byte
}

// Frame is one sprite frame.
type Frame struct {
	Texture Texture
	Pieces  []Piece
}

// Animation lists frame indices under one hash.
type Animation struct {
	Hash   uint32
	Frames []uint32
}

// ANB lays out a sprite animation container.
func ANB(frames []Frame, anims []Animation) []byte {
	w := &writer{}
	hdr := w.write(le(uint32(40), uint32(0), uint32(len(frames)), uint32(len(anims)), uint32(0x100), uint32(0x77f), uint64(0), uint64(0)))

	frameTable := w.write(make([]byte, 8*len(frames)))
	animTable := w.write(make([]byte, 8*len(anims)))
	w.put64(hdr+24, uint64(frameTable))
	w.put64(hdr+32, uint64(animTable))

	for i, f := range frames {
		w.align(8)
		desc := w.write(le([4]int32{}, uint64(0), int32(0), int32(0), uint64(0)))
		w.put64(frameTable+8*i, uint64(desc))

		pieces := w.write(le(uint32(len(f.Pieces))))
		for _, p := range f.Pieces {
			w.write(le(p.TopLeft, p.TopLeftUV, p.BottomRight, p.BottomRightUV))
		}
		w.put64(desc+40-8, uint64(pieces))

		w.align(8)
		tex := w.write(le(f.Texture.Type, f.Texture.Width, f.Texture.Height, [5]uint32{}))
		stream := Stream(f.Texture.Payload)
		w.write(stream)
		w.put64(desc+16, uint64(tex))
		w.put32(desc+24, uint32(len(stream)+32))
	}

	for i, a := range anims {
		w.align(8)
		head := w.write(le(a.Hash, uint32(len(a.Frames)), [2]uint32{}, uint64(0), [2]uint32{}))
		w.put64(animTable+8*i, uint64(head))

		list := w.write(make([]byte, 8*len(a.Frames)))
		w.put64(head+16, uint64(list))
		for j, idx := range a.Frames {
			entry := w.write(le(idx, [10]int32{}))
			w.put64(list+8*j, uint64(entry))
		}
	}
	return w.buf
}
