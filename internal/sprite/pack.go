package sprite

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Packer lays animations out on a sheet, one animation per block of rows,
// wrapping an animation onto further rows when it grows too wide.
type Packer struct {
	// HGap separates frames in a row and pads the left edge.
	HGap int
	// VGap separates animations; wrapped rows and the top edge use half of it.
	VGap int
	// Background fills the sheet.
	Background color.NRGBA
}

// DefaultPacker returns the packer used when nothing is configured.
func DefaultPacker() Packer {
	return Packer{HGap: 1, VGap: 2, Background: color.NRGBA{R: 0, G: 128, B: 128, A: 255}}
}

// Cell is the placement of one frame of one animation.
type Cell struct {
	Anim  int
	Frame int
	Rect  image.Rectangle
}

// Threshold returns the row width past which an animation wraps: twice the
// average unwrapped animation width when there are more than five
// animations, otherwise twice the widest.
func (p Packer) Threshold(sizes [][]image.Point) int {
	if len(sizes) == 0 {
		return 0
	}
	total, widest := 0, 0
	for _, frames := range sizes {
		w := 0
		for _, sz := range frames {
			w += sz.X + p.HGap
		}
		total += w
		widest = max(widest, w)
	}
	if len(sizes) > 5 {
		return 2 * (total / len(sizes))
	}
	return 2 * widest
}

// walk visits every frame in animation then frame order and reports where it
// goes. Measuring and placing both run through it so they cannot disagree.
func (p Packer) walk(sizes [][]image.Point, threshold int, place func(Cell)) (width, height int) {
	y := p.VGap / 2
	width = p.HGap
	for a, frames := range sizes {
		x, rowH, inRow := p.HGap, 0, 0
		for f, sz := range frames {
			if inRow > 0 && x+sz.X+p.HGap > threshold {
				y += rowH + p.VGap/2
				x, rowH, inRow = p.HGap, 0, 0
			}
			if place != nil {
				place(Cell{Anim: a, Frame: f, Rect: image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x+sz.X, y+sz.Y)}})
			}
			x += sz.X + p.HGap
			rowH = max(rowH, sz.Y)
			width = max(width, x)
			inRow++
		}
		y += rowH + p.VGap
	}
	return width, y
}

// Layout returns the sheet size and every frame's cell.
func (p Packer) Layout(sizes [][]image.Point) (image.Point, []Cell) {
	var cells []Cell
	w, h := p.walk(sizes, p.Threshold(sizes), func(c Cell) { cells = append(cells, c) })
	return image.Pt(w, h), cells
}

// Measure returns the sheet size without placing anything.
func (p Packer) Measure(sizes [][]image.Point) image.Point {
	w, h := p.walk(sizes, p.Threshold(sizes), nil)
	return image.Pt(w, h)
}

// Pack pastes frames onto a new sheet. frames[a][f] is frame f of animation a.
func (p Packer) Pack(frames [][]*image.NRGBA) *image.NRGBA {
	sizes := make([][]image.Point, len(frames))
	for a, anim := range frames {
		sizes[a] = make([]image.Point, len(anim))
		for f, img := range anim {
			sizes[a][f] = img.Bounds().Size()
		}
	}

	threshold := p.Threshold(sizes)
	size := p.Measure(sizes)
	sheet := imaging.New(size.X, size.Y, p.Background)
	p.walk(sizes, threshold, func(c Cell) {
		img := frames[c.Anim][c.Frame]
		draw.Draw(sheet, c.Rect, img, img.Bounds().Min, draw.Src)
	})
	return sheet
}
