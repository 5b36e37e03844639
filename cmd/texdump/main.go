package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"wfextract/internal/container"
	"wfextract/internal/scene"
	"wfextract/internal/sprite"
	"wfextract/internal/texture"
)

type texRecord struct {
	name   string
	offset int64
	info   string
}

func records(buf *container.Buffer) ([]texRecord, error) {
	variant, err := container.Detect(buf, scene.Probe, sprite.Probe)
	if err != nil {
		return nil, err
	}

	var out []texRecord
	switch variant {
	case container.VariantSprite:
		f, err := sprite.Parse(buf)
		if err != nil {
			return nil, err
		}
		for _, fr := range f.Frames {
			t := fr.Texture
			out = append(out, texRecord{
				name:   fmt.Sprintf("frame%03d", fr.Index),
				offset: t.Offset,
				info:   fmt.Sprintf("%s %dx%d", t.Type, t.Width, t.Height),
			})
		}
	case container.VariantModel:
		sc, err := scene.Load(buf, 0, zerolog.Nop())
		if err != nil {
			return nil, err
		}
		for i, t := range sc.Textures {
			out = append(out, texRecord{
				name:   fmt.Sprintf("tex%03d_%s", i, t.File("")),
				offset: t.Stream,
				info:   fmt.Sprintf("type 0x%x %dx%d", t.Tag, t.Width, t.Height),
			})
		}
	}
	return out, nil
}

func dumpFile(path, outDir string, dec *texture.Decoder) error {
	buf, err := container.Open(path)
	if err != nil {
		return err
	}
	recs, err := records(buf)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	errors := 0
	for _, r := range recs {
		payload, err := dec.Payload(buf, r.offset, "texture")
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERR %s %s: %v\n", path, r.name, err)
			errors++
			continue
		}
		dst := filepath.Join(outDir, fmt.Sprintf("%s_%s.bin", base, r.name))
		if err := os.WriteFile(dst, payload, 0644); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
		fmt.Printf("OK  %s %s (%s) -> %s  (%d bytes)\n", path, r.name, r.info, dst, len(payload))
	}
	if errors > 0 {
		return fmt.Errorf("%d texture(s) failed", errors)
	}
	return nil
}

func main() {
	outDir := flag.String("output", "texdump", "Output directory")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: texdump [-output dir] files...")
		os.Exit(2)
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dec := texture.NewDecoder(texture.CodecDXT1, zerolog.Nop())
	errors := 0
	for _, arg := range flag.Args() {
		if err := dumpFile(arg, *outDir, dec); err != nil {
			fmt.Fprintf(os.Stderr, "ERR %s: %v\n", arg, err)
			errors++
		}
	}
	if errors > 0 {
		fmt.Printf("\nDone with %d error(s).\n", errors)
		os.Exit(1)
	}
	fmt.Println("\nDone. All textures extracted.")
}
