package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"
)

func checker() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 10, B: 30, A: 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{G: 128, B: 128, A: 255})
			}
		}
	}
	return img
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		decode func(io.Reader) (image.Image, error)
	}{
		{format: FormatPNG, decode: png.Decode},
		{format: FormatWebP, decode: webp.Decode},
		{format: FormatTGA, decode: tga.Decode},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(string(tc.format), func(t *testing.T) {
			t.Parallel()

			src := checker()
			path := filepath.Join(t.TempDir(), "nested", "out"+tc.format.Ext())
			if err := Save(path, src, tc.format); err != nil {
				t.Fatalf("Save: %v", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			got, err := tc.decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("decode %s: %v", tc.format, err)
			}
			if got.Bounds().Size() != src.Bounds().Size() {
				t.Fatalf("decoded size = %v, want %v", got.Bounds().Size(), src.Bounds().Size())
			}
			for y := 0; y < 3; y++ {
				for x := 0; x < 4; x++ {
					b := got.Bounds().Min
					want := src.NRGBAAt(x, y)
					if c := color.NRGBAModel.Convert(got.At(b.X+x, b.Y+y)).(color.NRGBA); c != want {
						t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, c, want)
					}
				}
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "png", want: FormatPNG},
		{in: ".WEBP", want: FormatWebP},
		{in: "Tga", want: FormatTGA},
		{in: "jpeg", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("ParseFormat(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSaveUnknownFormat(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.bmp")
	if err := Save(path, checker(), Format("bmp")); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("nothing should be written for an unknown format, stat = %v", err)
	}
}
