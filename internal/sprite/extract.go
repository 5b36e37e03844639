package sprite

import (
	"image"

	"github.com/rs/zerolog"

	"wfextract/internal/container"
	"wfextract/internal/postprocess"
	"wfextract/internal/texture"
)

// Layer names a sprite sheet produced from one file.
type Layer string

const (
	LayerComposite Layer = ""
	LayerColor     Layer = "color"
	LayerMask      Layer = "mask"
)

// Options control how a sprite container is turned into sheets.
type Options struct {
	Reconstruct ReconstructOptions
	Packer      Packer
	// PerFrameBounds reconstructs each frame against its own box instead of
	// its animation's union box.
	PerFrameBounds bool
	// NoPiece emits whole textures instead of reconstructing from pieces.
	NoPiece bool
	// Crop trims transparent edges from every frame before packing.
	Crop bool
	// Separate writes colour and mask sheets instead of the composite.
	Separate  bool
	ColorOnly bool
	MaskOnly  bool
}

// Layers returns the sheets these options produce.
func (o Options) Layers() []Layer {
	switch {
	case o.ColorOnly:
		return []Layer{LayerColor}
	case o.MaskOnly:
		return []Layer{LayerMask}
	case o.Separate:
		return []Layer{LayerColor, LayerMask}
	default:
		return []Layer{LayerComposite}
	}
}

// decodeOptions skips the texture layer that no sheet uses.
func (o Options) decodeOptions() texture.Options {
	layers := o.Layers()
	if len(layers) != 1 {
		return texture.Options{}
	}
	return texture.Options{ColorOnly: layers[0] == LayerColor, MaskOnly: layers[0] == LayerMask}
}

// Sheet is one packed output image.
type Sheet struct {
	Layer  Layer
	Image  *image.NRGBA
	Frames int
}

// Extract parses buf, decodes every frame's texture once, reconstructs each
// animation frame and packs the results into one sheet per layer. Frames
// whose texture cannot be decoded are logged and left out.
func Extract(buf *container.Buffer, dec *texture.Decoder, opts Options, log zerolog.Logger) ([]Sheet, error) {
	f, err := Parse(buf)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("file", buf.Name()).Int("frames", len(f.Frames)).Int("animations", len(f.Animations)).Msg("parsed sprite container")

	decoded := make([]*texture.Decoded, len(f.Frames))
	decOpts := opts.decodeOptions()
	for i, fr := range f.Frames {
		d, err := dec.Decode(buf, fr.Texture, decOpts)
		if err != nil {
			if !container.Recoverable(err) {
				return nil, err
			}
			log.Warn().Err(err).Str("file", buf.Name()).Int("frame", i).
				Int64("offset", fr.Texture.Offset).Uint32("tag", uint32(fr.Texture.Type)).Msg("skipping frame")
			continue
		}
		decoded[i] = &d
	}

	layers := opts.Layers()
	cells := make(map[Layer][][]*image.NRGBA, len(layers))
	for _, l := range layers {
		cells[l] = make([][]*image.NRGBA, len(f.Animations))
	}

	count := 0
	for a, anim := range f.Animations {
		for _, idx := range anim.Frames {
			d := decoded[idx]
			if d == nil {
				continue
			}
			fr := f.Frames[idx]
			box := anim.Box
			if opts.PerFrameBounds {
				box = fr.Box
			}

			imgs := make(map[Layer]*image.NRGBA, len(layers))
			for _, l := range layers {
				imgs[l] = renderFrame(layerImage(*d, l), fr, box, l, opts)
			}
			if opts.Crop {
				cropLayers(imgs, layers)
			}
			for _, l := range layers {
				cells[l][a] = append(cells[l][a], imgs[l])
			}
			count++
		}
	}

	if count == 0 {
		log.Warn().Str("file", buf.Name()).Msg("no frames to pack")
		return nil, nil
	}

	sheets := make([]Sheet, 0, len(layers))
	for _, l := range layers {
		sheets = append(sheets, Sheet{Layer: l, Image: opts.Packer.Pack(cells[l]), Frames: count})
	}
	return sheets, nil
}

func layerImage(d texture.Decoded, l Layer) *image.NRGBA {
	switch l {
	case LayerColor:
		return d.Color
	case LayerMask:
		return d.Mask
	default:
		return d.Composite()
	}
}

// renderFrame produces one frame of one layer. A layer the texture does not
// have renders as an empty canvas of the same size so the sheets line up.
func renderFrame(src *image.NRGBA, fr Frame, box Box, l Layer, opts Options) *image.NRGBA {
	ropts := opts.Reconstruct
	ropts.OpaqueBackground = l == LayerMask

	if opts.NoPiece || len(fr.Pieces) == 0 {
		if src != nil {
			return src
		}
		ropts.Margin = 0
		return Canvas(TextureBox(fr.Texture.Width, fr.Texture.Height), ropts)
	}
	return Reconstruct(src, fr.Pieces, box, ropts)
}

// cropLayers trims every layer by the alpha bounds of the first one that has
// any, keeping the layers the same size.
func cropLayers(imgs map[Layer]*image.NRGBA, layers []Layer) {
	var r image.Rectangle
	for _, l := range layers {
		if l == LayerMask {
			continue
		}
		if r = postprocess.AlphaBounds(imgs[l]); !r.Empty() {
			break
		}
	}
	if r.Empty() {
		return
	}
	for _, l := range layers {
		img := imgs[l]
		if r.In(img.Bounds()) && r != img.Bounds() {
			imgs[l] = postprocess.Crop(img, r)
		}
	}
}
