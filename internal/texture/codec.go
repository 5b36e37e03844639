package texture

import (
	"fmt"
	"image"
	"strings"

	"github.com/woozymasta/bcn"
	"golang.org/x/image/draw"
)

// Codec selects a block-compression scheme.
type Codec int

const (
	CodecDXT1 Codec = iota + 1
	CodecDXT3
	CodecDXT5
)

// ParseCodec accepts "dxt1", "dxt3" or "dxt5" in any case.
func ParseCodec(s string) (Codec, error) {
	switch strings.ToLower(s) {
	case "dxt1":
		return CodecDXT1, nil
	case "dxt3":
		return CodecDXT3, nil
	case "dxt5":
		return CodecDXT5, nil
	}
	return 0, fmt.Errorf("texture: unknown codec %q", s)
}

func (c Codec) String() string {
	switch c {
	case CodecDXT1:
		return "dxt1"
	case CodecDXT3:
		return "dxt3"
	case CodecDXT5:
		return "dxt5"
	default:
		return "unknown"
	}
}

// DataLength is the byte length of a w×h image in this codec.
func (c Codec) DataLength(w, h uint32) uint64 {
	blocks := (uint64(w) + 3) / 4 * ((uint64(h) + 3) / 4)
	if c == CodecDXT1 {
		return blocks * 8
	}
	return blocks * 16
}

func (c Codec) format() bcn.Format {
	switch c {
	case CodecDXT1:
		return bcn.FormatDXT1
	case CodecDXT3:
		return bcn.FormatDXT3
	case CodecDXT5:
		return bcn.FormatDXT5
	default:
		return bcn.FormatUnknown
	}
}

// BlockDecoder expands block-compressed pixel data.
type BlockDecoder interface {
	DecodeBlocks(data []byte, w, h int, c Codec) (*image.NRGBA, error)
}

// BCn decodes DXT blocks with github.com/woozymasta/bcn.
type BCn struct {
	Options *bcn.DecodeOptions
}

// DecodeBlocks implements BlockDecoder.
func (d BCn) DecodeBlocks(data []byte, w, h int, c Codec) (*image.NRGBA, error) {
	if c.format() == bcn.FormatUnknown {
		return nil, fmt.Errorf("texture: unsupported codec %d", int(c))
	}
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	need := c.DataLength(uint32(w), uint32(h))
	if uint64(len(data)) < need {
		return nil, fmt.Errorf("texture: %s %dx%d needs %d bytes, have %d", c, w, h, need, len(data))
	}
	img, err := bcn.DecodeImageWithOptions(data[:need], w, h, c.format(), d.Options)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", c, err)
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any image to a zero-origin NRGBA image.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
