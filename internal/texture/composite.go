package texture

import (
	"fmt"
	"image"
)

const paletteEntries = 256

// DecodePalette expands a palette payload: 256 RGBA entries followed by one
// index byte per pixel, row-major.
func DecodePalette(data []byte, w, h int) (*image.NRGBA, error) {
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	need := paletteEntries*4 + w*h
	if len(data) < need {
		return nil, fmt.Errorf("texture: palette image %dx%d needs %d bytes, have %d", w, h, need, len(data))
	}
	palette := data[:paletteEntries*4]
	indices := data[paletteEntries*4 : need]

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, idx := range indices {
		copy(img.Pix[i*4:i*4+4], palette[int(idx)*4:int(idx)*4+4])
	}
	return img, nil
}

// Multiply darkens color by the green channel of mask.
// Pixels whose colour alpha is not fully opaque become black with the mask's
// green value as alpha. Opaque pixels are scaled by (255-green)/255 and keep
// full alpha, or take the mask's alpha when dualAlpha is set. Channel products
// truncate.
func Multiply(color, mask *image.NRGBA, dualAlpha bool) *image.NRGBA {
	b := color.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.Pix[color.PixOffset(x, y):]
			var m []uint8
			if (image.Point{x, y}).In(mask.Bounds()) {
				m = mask.Pix[mask.PixOffset(x, y):]
			} else {
				m = []uint8{0, 0, 0, 0}
			}
			o := out.Pix[out.PixOffset(x, y):]

			if c[3] != 255 {
				o[0], o[1], o[2], o[3] = 0, 0, 0, m[1]
				continue
			}
			f := float32(255-m[1]) / 255
			o[0] = uint8(float32(c[0]) * f)
			o[1] = uint8(float32(c[1]) * f)
			o[2] = uint8(float32(c[2]) * f)
			if dualAlpha {
				o[3] = m[3]
			} else {
				o[3] = 255
			}
		}
	}
	return out
}
