package texture

import (
	"errors"
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"wfextract/internal/container"
	"wfextract/internal/wflz"
)

// Options restricts which layers of a dual-layer texture are decoded.
type Options struct {
	ColorOnly bool
	MaskOnly  bool
}

// Decoded holds the layers of one texture. Mask is nil for single-layer types.
type Decoded struct {
	Color     *image.NRGBA
	Mask      *image.NRGBA
	DualAlpha bool
}

// Composite returns the final image: the multiplied layers when both are
// present, otherwise whichever layer was decoded.
func (d Decoded) Composite() *image.NRGBA {
	switch {
	case d.Color != nil && d.Mask != nil:
		return Multiply(d.Color, d.Mask, d.DualAlpha)
	case d.Color != nil:
		return d.Color
	default:
		return d.Mask
	}
}

// Decoder turns texture records into images.
type Decoder struct {
	Blocks BlockDecoder
	// Hint is used for model textures whose tag is not recognized.
	Hint Codec
	Log  zerolog.Logger
}

// NewDecoder returns a Decoder backed by the bcn block decoder.
func NewDecoder(hint Codec, log zerolog.Logger) *Decoder {
	return &Decoder{Blocks: BCn{}, Hint: hint, Log: log}
}

// Payload decompresses the stream starting at off.
func (d *Decoder) Payload(buf *container.Buffer, off int64, record string) ([]byte, error) {
	stream, err := buf.Tail(off, record)
	if err != nil {
		return nil, err
	}
	data, err := wflz.Decompress(stream)
	if err != nil {
		return nil, buf.Fail(container.ErrDecodeFailure, off, record, err)
	}
	return data, nil
}

// Decode decodes a sprite texture record.
func (d *Decoder) Decode(buf *container.Buffer, rec Record, opts Options) (Decoded, error) {
	switch rec.Type {
	case TypePalette, TypeDXT1, TypeDXT5, TypeDXT1Mask, TypeDXT5Mask:
	default:
		return Decoded{}, buf.Fail(container.ErrUnknownRecordType, rec.Offset, "texture", nil).WithTag(uint32(rec.Type))
	}

	fail := func(err error) (Decoded, error) {
		return Decoded{}, buf.Fail(container.ErrDecodeFailure, rec.Offset, "texture", err).WithTag(uint32(rec.Type))
	}
	if err := checkSize(rec.Width, rec.Height); err != nil {
		return fail(err)
	}

	data, err := d.Payload(buf, rec.Offset, "texture")
	if err != nil {
		return Decoded{}, tagged(err, uint32(rec.Type))
	}

	var out Decoded
	switch rec.Type {
	case TypePalette:
		if out.Color, err = DecodePalette(data, rec.Width, rec.Height); err != nil {
			return fail(err)
		}
	case TypeDXT1, TypeDXT5:
		codec := CodecDXT1
		if rec.Type == TypeDXT5 {
			codec = CodecDXT5
		}
		if out.Color, err = d.Blocks.DecodeBlocks(data, rec.Width, rec.Height, codec); err != nil {
			return fail(err)
		}
	case TypeDXT1Mask, TypeDXT5Mask:
		maskCodec, maskStart := CodecDXT1, len(data)/2
		if rec.Type == TypeDXT5Mask {
			maskCodec, maskStart = CodecDXT5, rec.Width*rec.Height/2
			out.DualAlpha = true
		}
		if maskStart > len(data) {
			return fail(fmt.Errorf("mask layer at %d past payload of %d bytes", maskStart, len(data)))
		}
		if !opts.MaskOnly {
			if out.Color, err = d.Blocks.DecodeBlocks(data, rec.Width, rec.Height, CodecDXT1); err != nil {
				return fail(err)
			}
		}
		if !opts.ColorOnly {
			if out.Mask, err = d.Blocks.DecodeBlocks(data[maskStart:], rec.Width, rec.Height, maskCodec); err != nil {
				return fail(err)
			}
		}
	}
	return out, nil
}

// DecodeModel decodes a model texture whose compressed stream starts at off.
// Unrecognized tags fall back to the decoder's codec hint.
func (d *Decoder) DecodeModel(buf *container.Buffer, tag uint32, w, h int, off int64) (*image.NRGBA, error) {
	var codec Codec
	switch tag {
	case ModelDXT1:
		codec = CodecDXT1
	case ModelDXT5:
		codec = CodecDXT5
	default:
		codec = d.Hint
		d.Log.Warn().Str("file", buf.Name()).Int64("offset", off).Uint32("tag", tag).
			Stringer("codec", codec).Msg("unknown image type, using codec hint")
	}

	data, err := d.Payload(buf, off, "model texture")
	if err != nil {
		return nil, tagged(err, tag)
	}
	img, err := d.Blocks.DecodeBlocks(data, w, h, codec)
	if err != nil {
		return nil, buf.Fail(container.ErrDecodeFailure, off, "model texture", err).WithTag(tag)
	}
	return img, nil
}

// tagged attaches tag to a located error.
func tagged(err error, tag uint32) error {
	var cerr *container.Error
	if errors.As(err, &cerr) {
		cerr.WithTag(tag)
	}
	return err
}
