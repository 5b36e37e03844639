package sprite

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// ReconstructOptions tunes piece reconstruction.
type ReconstructOptions struct {
	// Margin is added on every side of the canvas to absorb rounding.
	Margin int
	// Epsilon widens UV crops so boundary texels are kept.
	Epsilon float32
	// OpaqueBackground fills the canvas with opaque black before pasting.
	OpaqueBackground bool
}

// DefaultReconstructOptions returns a 3 pixel margin and a 0.001 epsilon.
func DefaultReconstructOptions() ReconstructOptions {
	return ReconstructOptions{Margin: 3, Epsilon: 0.001}
}

// Canvas allocates the blank canvas for box.
func Canvas(box Box, opts ReconstructOptions) *image.NRGBA {
	w := int(math32.Ceil(box.Width())) + 2*opts.Margin
	h := int(math32.Ceil(box.Height())) + 2*opts.Margin
	if opts.OpaqueBackground {
		return imaging.New(max(w, 0), max(h, 0), color.NRGBA{A: 255})
	}
	return image.NewNRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
}

// CropRect converts a piece's UV rectangle into texture pixels, rounding the
// top-left down and the bottom-right up after an epsilon inset, clamped to bounds.
func CropRect(p Piece, bounds image.Rectangle, eps float32) image.Rectangle {
	w, h := float32(bounds.Dx()), float32(bounds.Dy())
	r := image.Rect(
		int(math32.Floor(p.TopLeftUV.X*w+eps)),
		int(math32.Floor(p.TopLeftUV.Y*h+eps)),
		int(math32.Ceil(p.BottomRightUV.X*w-eps)),
		int(math32.Ceil(p.BottomRightUV.Y*h-eps)),
	)
	return r.Add(bounds.Min).Intersect(bounds)
}

// Destination maps a frame-space point to canvas pixels.
func Destination(pt Vec2, box Box, margin int) image.Point {
	return image.Pt(
		int(math32.Round(float32(margin)+pt.X-box.UpperLeft.X)),
		int(math32.Round(float32(margin)+box.UpperLeft.Y-pt.Y)),
	)
}

// Reconstruct rebuilds one frame by pasting each piece's crop of src at its
// destination inside a canvas sized for box. Pieces are pasted in order and
// overwrite earlier ones. A nil src yields the empty canvas.
func Reconstruct(src *image.NRGBA, pieces []Piece, box Box, opts ReconstructOptions) *image.NRGBA {
	canvas := Canvas(box, opts)
	if src == nil {
		return canvas
	}
	for _, p := range pieces {
		crop := CropRect(p, src.Bounds(), opts.Epsilon)
		if crop.Empty() {
			continue
		}
		at := Destination(p.TopLeft, box, opts.Margin)
		draw.Draw(canvas, image.Rectangle{Min: at, Max: at.Add(crop.Size())}, src, crop.Min, draw.Src)
	}
	return canvas
}
