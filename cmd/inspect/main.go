package main

import (
	"flag"
	"fmt"
	"os"

	"wfextract/internal/container"
	"wfextract/internal/scene"
	"wfextract/internal/sprite"
)

func main() {
	depth := flag.Int("depth", scene.DefaultMaxDepth, "Maximum node tree depth")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: inspect [-depth n] files...")
		os.Exit(2)
	}

	failed := 0
	for _, arg := range flag.Args() {
		if err := inspect(arg, *depth); err != nil {
			fmt.Fprintf(os.Stderr, "Error %s: %v\n", arg, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func inspect(path string, depth int) error {
	buf, err := container.Open(path)
	if err != nil {
		return err
	}
	variant, err := container.Detect(buf, scene.Probe, sprite.Probe)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== %s (%s, %d bytes) ===\n", path, variant, buf.Len())
	switch variant {
	case container.VariantModel:
		return scene.Dump(os.Stdout, buf, depth)
	case container.VariantSprite:
		f, err := sprite.Parse(buf)
		if err != nil {
			return err
		}
		printSprite(f)
	}
	return nil
}

func printSprite(f *sprite.File) {
	h := f.Header
	fmt.Printf("Frames: %d, Animations: %d, frame table 0x%x, animation table 0x%x\n",
		h.NumFrames, h.NumAnimations, h.FrameTable, h.AnimTable)

	for _, fr := range f.Frames {
		t := fr.Texture
		fmt.Printf("  Frame[%d] @0x%x: texture %s %dx%d @0x%x, pieces=%d box=(%.1f,%.1f)-(%.1f,%.1f)\n",
			fr.Index, fr.Offset, t.Type, t.Width, t.Height, t.Offset, len(fr.Pieces),
			fr.Box.UpperLeft.X, fr.Box.UpperLeft.Y, fr.Box.BottomRight.X, fr.Box.BottomRight.Y)
		for i, p := range fr.Pieces {
			fmt.Printf("    Piece[%d]: dest (%.2f,%.2f)-(%.2f,%.2f) uv (%.4f,%.4f)-(%.4f,%.4f)\n", i,
				p.TopLeft.X, p.TopLeft.Y, p.BottomRight.X, p.BottomRight.Y,
				p.TopLeftUV.X, p.TopLeftUV.Y, p.BottomRightUV.X, p.BottomRightUV.Y)
		}
	}
	for i, a := range f.Animations {
		fmt.Printf("  Anim[%d] hash=%08x frames=%v box=%.1fx%.1f\n",
			i, a.Hash, a.Frames, a.Box.Width(), a.Box.Height())
	}
}
