package sprite

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/rs/zerolog"

	"wfextract/internal/container"
	"wfextract/internal/fixture"
	"wfextract/internal/texture"
)

var (
	red   = [4]byte{255, 0, 0, 255}
	blue  = [4]byte{0, 0, 255, 255}
	green = [4]byte{0, 255, 0, 255}
)

// sampleANB has three frames: a 4x4 palette texture cut into two pieces, a
// frame with an unknown texture tag, and a pieceless 2x2 palette texture.
func sampleANB() []byte {
	quad := fixture.Palette([][4]byte{red, blue}, []byte{
		0, 0, 1, 1,
		0, 0, 1, 1,
		0, 0, 1, 1,
		0, 0, 1, 1,
	})
	small := fixture.Palette([][4]byte{green}, []byte{0, 0, 0, 0})

	frames := []fixture.Frame{
		{
			Texture: fixture.Texture{Type: 1, Width: 4, Height: 4, Payload: quad},
			Pieces: []fixture.Piece{
				// Blue half on the left, red half on the right.
				{TopLeft: fixture.Vec2{-2, 2}, BottomRight: fixture.Vec2{0, -2}, TopLeftUV: fixture.Vec2{0.5, 0}, BottomRightUV: fixture.Vec2{1, 1}},
				{TopLeft: fixture.Vec2{0, 2}, BottomRight: fixture.Vec2{2, -2}, TopLeftUV: fixture.Vec2{0, 0}, BottomRightUV: fixture.Vec2{0.5, 1}},
			},
		},
		{Texture: fixture.Texture{Type: 9, Width: 4, Height: 4, Payload: []byte{1, 2, 3}}},
		{Texture: fixture.Texture{Type: 1, Width: 2, Height: 2, Payload: small}},
	}
	anims := []fixture.Animation{
		{Hash: 0xaabbccdd, Frames: []uint32{0, 1}},
		{Hash: 0x11223344, Frames: []uint32{2, 0}},
	}
	return fixture.ANB(frames, anims)
}

func testOptions() Options {
	return Options{Reconstruct: DefaultReconstructOptions(), Packer: DefaultPacker()}
}

func TestParse(t *testing.T) {
	t.Parallel()

	f, err := Parse(container.New("sample.anb", sampleANB()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Frames) != 3 || len(f.Animations) != 2 {
		t.Fatalf("Parse() = %d frames, %d animations", len(f.Frames), len(f.Animations))
	}

	fr := f.Frames[0]
	if fr.Texture.Type != texture.TypePalette || fr.Texture.Width != 4 || len(fr.Pieces) != 2 {
		t.Fatalf("frame 0 = %+v", fr)
	}
	if fr.Box != (Box{UpperLeft: Vec2{-2, 2}, BottomRight: Vec2{2, -2}}) {
		t.Fatalf("frame 0 box = %+v", fr.Box)
	}
	if got := f.Frames[2].Box; got != TextureBox(2, 2) {
		t.Fatalf("pieceless frame box = %+v, want texture bounds", got)
	}

	anim := f.Animations[1]
	if anim.Hash != 0x11223344 || len(anim.Frames) != 2 || anim.Frames[0] != 2 {
		t.Fatalf("animation 1 = %+v", anim)
	}
	if anim.Box != (Box{UpperLeft: Vec2{-2, 2}, BottomRight: Vec2{2, -2}}) {
		t.Fatalf("animation 1 box = %+v", anim.Box)
	}
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	frames := []Frame{
		{Box: Box{UpperLeft: Vec2{-1, 5}, BottomRight: Vec2{3, 0}}},
		{Box: Box{UpperLeft: Vec2{2, 1}, BottomRight: Vec2{7, -4}}},
	}
	anim, err := Aggregate(frames, 7, []int{1, 0, 1})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if anim.Box != (Box{UpperLeft: Vec2{-1, 5}, BottomRight: Vec2{7, -4}}) {
		t.Fatalf("Aggregate() box = %+v", anim.Box)
	}

	if _, err := Aggregate(frames, 7, []int{0, 2}); !errors.Is(err, container.ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestParseRejectsDanglingFrameIndex(t *testing.T) {
	t.Parallel()

	data := fixture.ANB(
		[]fixture.Frame{{Texture: fixture.Texture{Type: 1, Width: 1, Height: 1, Payload: fixture.Palette(nil, []byte{0})}}},
		[]fixture.Animation{{Hash: 1, Frames: []uint32{4}}},
	)
	_, err := Parse(container.New("bad.anb", data))
	var cerr *container.Error
	if !errors.Is(err, container.ErrOutOfBounds) || !errors.As(err, &cerr) || cerr.File != "bad.anb" {
		t.Fatalf("expected located ErrOutOfBounds, got %v", err)
	}
}

func TestParseRejectsOversizedBoxes(t *testing.T) {
	t.Parallel()

	tex := fixture.Texture{Type: 1, Width: 1, Height: 1, Payload: fixture.Palette(nil, []byte{0})}
	piece := func(x float32) fixture.Piece {
		return fixture.Piece{TopLeft: fixture.Vec2{x, 1}, BottomRight: fixture.Vec2{x + 1, 0}, BottomRightUV: fixture.Vec2{1, 1}}
	}
	nan := math32.NaN()

	tests := []struct {
		name   string
		frames []fixture.Frame
		anims  []fixture.Animation
		record string
	}{
		{
			name:   "huge-piece",
			frames: []fixture.Frame{{Texture: tex, Pieces: []fixture.Piece{{TopLeft: fixture.Vec2{-1e30, 1e30}, BottomRight: fixture.Vec2{1e30, -1e30}}}}},
			record: "pieces",
		},
		{
			name:   "nan-piece",
			frames: []fixture.Frame{{Texture: tex, Pieces: []fixture.Piece{{TopLeft: fixture.Vec2{nan, 0}, BottomRight: fixture.Vec2{1, -1}}}}},
			record: "pieces",
		},
		{
			name:   "distant-frames",
			frames: []fixture.Frame{{Texture: tex, Pieces: []fixture.Piece{piece(-1e8)}}, {Texture: tex, Pieces: []fixture.Piece{piece(1e8)}}},
			anims:  []fixture.Animation{{Hash: 7, Frames: []uint32{0, 1}}},
			record: "animation",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(container.New("bad.anb", fixture.ANB(tc.frames, tc.anims)))
			var cerr *container.Error
			if !errors.Is(err, container.ErrDecodeFailure) || !errors.As(err, &cerr) || cerr.Record != tc.record {
				t.Fatalf("expected ErrDecodeFailure in %s, got %v", tc.record, err)
			}
		})
	}
}

func TestProbe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want container.Variant
	}{
		{name: "sprite", data: sampleANB(), want: container.VariantSprite},
		{name: "short", data: make([]byte, 16), want: container.VariantUnknown},
		{name: "zeroes", data: make([]byte, 256), want: container.VariantUnknown},
		{name: "model", data: append([]byte("WFSN"), make([]byte, 60)...), want: container.VariantUnknown},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, _ := container.Detect(container.New(tc.name, tc.data), Probe)
			if got != tc.want {
				t.Fatalf("Detect() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExtractSkipsUnknownTexture(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	log := zerolog.New(&logs)
	buf := container.New("sample.anb", sampleANB())

	sheets, err := Extract(buf, texture.NewDecoder(texture.CodecDXT1, log), testOptions(), log)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(sheets) != 1 || sheets[0].Layer != LayerComposite {
		t.Fatalf("Extract() = %d sheets", len(sheets))
	}
	if sheets[0].Frames != 3 {
		t.Fatalf("Extract() packed %d frames, want 3", sheets[0].Frames)
	}
	if !strings.Contains(logs.String(), "skipping frame") || !strings.Contains(logs.String(), `"tag":9`) {
		t.Fatalf("expected a warning naming the tag, got %q", logs.String())
	}

	// The first animation keeps only frame 0. Its box shares the upper-left
	// corner (-2,2) with the frame, so the pieces start 3 pixels of margin
	// inside the cell at (1,1).
	sheet := sheets[0].Image
	at := func(x, y int) color.NRGBA { return sheet.NRGBAAt(1+3+x, 1+3+y) }
	if got := at(0, 0); got != (color.NRGBA{B: 255, A: 255}) {
		t.Fatalf("left half = %v, want blue", got)
	}
	if got := at(3, 3); got != (color.NRGBA{R: 255, A: 255}) {
		t.Fatalf("right half = %v, want red", got)
	}
	if got := sheet.NRGBAAt(1, 1); got.A != 0 {
		t.Fatalf("frame margin = %v, want transparent", got)
	}
}

func TestExtractSeparateLayersShareLayout(t *testing.T) {
	t.Parallel()

	opts := testOptions()
	opts.Separate = true
	buf := container.New("sample.anb", sampleANB())

	sheets, err := Extract(buf, texture.NewDecoder(texture.CodecDXT1, zerolog.Nop()), opts, zerolog.Nop())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(sheets) != 2 || sheets[0].Layer != LayerColor || sheets[1].Layer != LayerMask {
		t.Fatalf("Extract() layers = %+v", sheets)
	}
	if sheets[0].Image.Bounds() != sheets[1].Image.Bounds() {
		t.Fatalf("layer sizes differ: %v vs %v", sheets[0].Image.Bounds(), sheets[1].Image.Bounds())
	}
	// Palette textures have no mask, so the mask sheet holds opaque black frames.
	if got := sheets[1].Image.NRGBAAt(1, 1); got != (color.NRGBA{A: 255}) {
		t.Fatalf("mask frame = %v, want opaque black", got)
	}
}

func TestExtractCropAndNoPiece(t *testing.T) {
	t.Parallel()

	buf := container.New("sample.anb", sampleANB())
	dec := texture.NewDecoder(texture.CodecDXT1, zerolog.Nop())

	plain, err := Extract(buf, dec, testOptions(), zerolog.Nop())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	opts := testOptions()
	opts.Crop = true
	cropped, err := Extract(buf, dec, opts, zerolog.Nop())
	if err != nil {
		t.Fatalf("Extract crop: %v", err)
	}
	c, p := cropped[0].Image.Bounds(), plain[0].Image.Bounds()
	if c.Dx() >= p.Dx() || c.Dy() >= p.Dy() {
		t.Fatalf("cropped sheet %v should be smaller than %v", c, p)
	}
	if got := cropped[0].Image.NRGBAAt(1, 1); got != (color.NRGBA{B: 255, A: 255}) {
		t.Fatalf("cropped frame starts with %v, want blue", got)
	}

	opts = testOptions()
	opts.NoPiece = true
	whole, err := Extract(buf, dec, opts, zerolog.Nop())
	if err != nil {
		t.Fatalf("Extract nopiece: %v", err)
	}
	// Whole textures: frame 0 unpieced has red on the left.
	if got := whole[0].Image.NRGBAAt(1, 1); got != (color.NRGBA{R: 255, A: 255}) {
		t.Fatalf("unpieced frame starts with %v, want red", got)
	}
}
