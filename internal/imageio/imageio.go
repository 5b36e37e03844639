// Package imageio writes decoded images to disk in the supported output
// formats.
package imageio

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/ftrvxmtrx/tga"
)

// Format is an output image format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
	FormatTGA  Format = "tga"
)

// ParseFormat accepts a format name, case-insensitively, with or without a
// leading dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(s), "."))
	switch f {
	case FormatPNG, FormatWebP, FormatTGA:
		return f, nil
	}
	return "", fmt.Errorf("imageio: unknown format %q", s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// Encoder returns the encoder writing this format.
func (f Format) Encoder() (imgio.Encoder, error) {
	switch f {
	case FormatPNG:
		return imgio.PNGEncoder(), nil
	case FormatWebP:
		return encodeWebP, nil
	case FormatTGA:
		return tga.Encode, nil
	}
	return nil, fmt.Errorf("imageio: unknown format %q", string(f))
}

func encodeWebP(w io.Writer, img image.Image) error {
	return nativewebp.Encode(w, img, nil)
}

// Save writes img to path in format f, creating parent directories.
func Save(path string, img image.Image, f Format) error {
	enc, err := f.Encoder()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("imageio: create dir for %s: %w", path, err)
	}
	if err := imgio.Save(path, img, enc); err != nil {
		return fmt.Errorf("imageio: save %s: %w", path, err)
	}
	return nil
}
