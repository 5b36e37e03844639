// Package postprocess holds image fix-ups applied after decoding.
package postprocess

import (
	"image"

	"github.com/disintegration/imaging"
)

// AlphaBounds returns the smallest rectangle holding every pixel with
// non-zero alpha. It is empty when the image is fully transparent.
func AlphaBounds(img *image.NRGBA) image.Rectangle {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			if row[x*4+3] == 0 {
				continue
			}
			minX, maxX = min(minX, b.Min.X+x), max(maxX, b.Min.X+x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Crop returns the r portion of img as a new zero-origin image.
func Crop(img *image.NRGBA, r image.Rectangle) *image.NRGBA {
	return imaging.Crop(img, r)
}

// FlipVertical mirrors an image top-to-bottom.
func FlipVertical(img image.Image) *image.NRGBA {
	return imaging.FlipV(img)
}
