// Package texture decodes compressed texture records into RGBA images.
package texture

import (
	"fmt"
	"image"

	"wfextract/internal/container"
	"wfextract/internal/wflz"
)

// Type is the texture tag stored in a sprite texture header.
type Type uint32

const (
	// TypePalette is 256 RGBA palette entries followed by one index byte per pixel.
	TypePalette Type = 1
	// TypeDXT1 is a single DXT1 colour layer.
	TypeDXT1 Type = 2
	// TypeDXT5 is a single DXT5 colour layer.
	TypeDXT5 Type = 3
	// TypeDXT1Mask is a DXT1 colour layer with a DXT1 mask in the second half of the payload.
	TypeDXT1Mask Type = 5
	// TypeDXT5Mask is a DXT1 colour layer with a DXT5 mask at width*height/2, using mask alpha.
	TypeDXT5Mask Type = 6
)

func (t Type) String() string {
	switch t {
	case TypePalette:
		return "palette"
	case TypeDXT1:
		return "dxt1"
	case TypeDXT5:
		return "dxt5"
	case TypeDXT1Mask:
		return "dxt1+dxt1-mask"
	case TypeDXT5Mask:
		return "dxt1+dxt5-mask"
	default:
		return fmt.Sprintf("type(%d)", uint32(t))
	}
}

// Model image tags.
const (
	ModelDXT1 uint32 = 0x31
	ModelDXT5 uint32 = 0x64
)

// Header is the packed 32-byte header preceding a sprite texture stream.
type Header struct {
	Type    uint32
	Width   uint32
	Height  uint32
	Unknown [5]uint32
}

// HeaderSize is the packed size of Header.
const HeaderSize = 32

// Record locates one texture. Offset is the absolute start of its compressed stream.
type Record struct {
	Type   Type
	Width  int
	Height int
	Offset int64
}

// CheckDimensions rejects images whose RGBA pixels would not fit in one
// decompressed stream.
func CheckDimensions(w, h uint64) error {
	if w > wflz.MaxDecompressedSize || h > wflz.MaxDecompressedSize || w*h*4 > wflz.MaxDecompressedSize {
		return fmt.Errorf("texture: %dx%d image exceeds %d bytes", w, h, wflz.MaxDecompressedSize)
	}
	return nil
}

func checkSize(w, h int) error {
	if w < 0 || h < 0 {
		return fmt.Errorf("texture: negative size %dx%d", w, h)
	}
	return CheckDimensions(uint64(w), uint64(h))
}

// ReadRecord reads the sprite texture header at off.
func ReadRecord(buf *container.Buffer, off int64) (Record, error) {
	var h Header
	if err := buf.Read(off, "texture header", &h); err != nil {
		return Record{}, err
	}
	if err := CheckDimensions(uint64(h.Width), uint64(h.Height)); err != nil {
		return Record{}, buf.Fail(container.ErrDecodeFailure, off, "texture header", err).WithTag(h.Type)
	}
	return Record{
		Type:   Type(h.Type),
		Width:  int(h.Width),
		Height: int(h.Height),
		Offset: off + HeaderSize,
	}, nil
}

// Bounds returns the pixel rectangle of the texture.
func (r Record) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}
