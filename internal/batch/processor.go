package batch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"wfextract/internal/config"
	"wfextract/internal/container"
	"wfextract/internal/imageio"
	"wfextract/internal/mesh"
	"wfextract/internal/postprocess"
	"wfextract/internal/scene"
	"wfextract/internal/sprite"
	"wfextract/internal/texture"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir    string
	Format       imageio.Format
	Decoder      *texture.Decoder
	Sprite       sprite.Options
	MaxTreeDepth int
	Log          zerolog.Logger
}

// NewConfig builds a batch Config from resolved settings.
func NewConfig(c config.Config, log zerolog.Logger) (Config, error) {
	format, err := imageio.ParseFormat(c.ImageFormat)
	if err != nil {
		return Config{}, err
	}
	hint, err := texture.ParseCodec(c.CodecHint)
	if err != nil {
		return Config{}, err
	}
	bg, err := c.Background()
	if err != nil {
		return Config{}, err
	}

	return Config{
		OutputDir: c.OutputDir,
		Format:    format,
		Decoder:   texture.NewDecoder(hint, log),
		Sprite: sprite.Options{
			Reconstruct:    sprite.ReconstructOptions{Margin: c.CanvasMargin, Epsilon: c.UVEpsilon},
			Packer:         sprite.Packer{HGap: c.FrameGap, VGap: c.RowGap, Background: bg},
			PerFrameBounds: c.PerFrameBounds,
			NoPiece:        c.NoPiece,
			Crop:           c.Crop,
			Separate:       c.Separate,
			ColorOnly:      c.ColorOnly,
			MaskOnly:       c.MaskOnly,
		},
		MaxTreeDepth: c.MaxTreeDepth,
		Log:          log,
	}, nil
}

// Result holds the outcome of processing one input file.
type Result struct {
	Input   string   `json:"input"`
	Variant string   `json:"variant"`
	Outputs []string `json:"outputs"`
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
}

// Run processes every input in order. A failed file is recorded in its
// Result and the run moves on to the next one.
func Run(cfg Config, paths []string) []Result {
	results := make([]Result, len(paths))
	start := time.Now()

	for i, path := range paths {
		results[i] = processFile(cfg, path)
		ev := cfg.Log.Info()
		if !results[i].Success {
			ev = cfg.Log.Error()
		}
		ev.Str("file", path).Str("variant", results[i].Variant).Int("outputs", len(results[i].Outputs)).
			Str("error", results[i].Error).Msgf("[%d/%d]", i+1, len(paths))
	}

	cfg.Log.Info().Int("files", len(paths)).Dur("elapsed", time.Since(start)).Msg("batch finished")
	return results
}

func processFile(cfg Config, path string) Result {
	res := Result{Input: path, Variant: container.VariantUnknown.String()}

	buf, err := container.Open(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	variant, err := container.Detect(buf, scene.Probe, sprite.Probe)
	res.Variant = variant.String()
	if err != nil {
		res.Error = err.Error()
		return res
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch variant {
	case container.VariantSprite:
		res.Outputs, err = extractSprite(cfg, buf, base)
	case container.VariantModel:
		res.Outputs, err = extractModel(cfg, buf, base)
	}
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = true
	return res
}

func extractSprite(cfg Config, buf *container.Buffer, base string) ([]string, error) {
	sheets, err := sprite.Extract(buf, cfg.Decoder, cfg.Sprite, cfg.Log)
	if err != nil {
		return nil, err
	}

	var outputs []string
	for _, s := range sheets {
		name := base
		if s.Layer != sprite.LayerComposite {
			name += "_" + string(s.Layer)
		}
		name += cfg.Format.Ext()
		if err := imageio.Save(filepath.Join(cfg.OutputDir, name), s.Image, cfg.Format); err != nil {
			return outputs, err
		}
		outputs = append(outputs, name)
	}
	return outputs, nil
}

func extractModel(cfg Config, buf *container.Buffer, base string) ([]string, error) {
	sc, err := scene.Load(buf, cfg.MaxTreeDepth, cfg.Log)
	if err != nil {
		return nil, err
	}
	ext := cfg.Format.Ext()

	var outputs []string
	for _, t := range sc.Textures {
		img, err := cfg.Decoder.DecodeModel(buf, t.Tag, t.Width, t.Height, t.Stream)
		if err != nil {
			if !container.Recoverable(err) {
				return outputs, err
			}
			cfg.Log.Warn().Err(err).Str("file", buf.Name()).Int64("offset", t.Node).Msg("skipping texture")
			continue
		}
		name := t.File(ext)
		// Model textures are stored bottom-up.
		if err := imageio.Save(filepath.Join(cfg.OutputDir, name), postprocess.FlipVertical(img), cfg.Format); err != nil {
			return outputs, err
		}
		outputs = append(outputs, name)
	}

	subs := sc.Submeshes(ext, cfg.Log)
	mtl := base + ".mtl"
	files := []sidecar{
		{base + ".obj", func(w io.Writer) error { return mesh.WriteOBJ(w, base, mtl, subs) }},
		{mtl, func(w io.Writer) error { return mesh.WriteMTL(w, subs) }},
	}
	for i, bones := range sc.Bones {
		name := fmt.Sprintf("%s%d.bones", base, i+1)
		files = append(files, sidecar{name, func(w io.Writer) error { return mesh.WriteBones(w, bones) }})
	}
	files = append(files, sidecar{base + ".bonenames", func(w io.Writer) error { return mesh.WriteBoneNames(w, sc.BoneNames) }})

	for _, f := range files {
		if err := writeFile(filepath.Join(cfg.OutputDir, f.name), f.write); err != nil {
			return outputs, err
		}
		outputs = append(outputs, f.name)
	}
	return outputs, nil
}

// sidecar is one non-image output of a model.
type sidecar struct {
	name  string
	write func(io.Writer) error
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("batch: create dir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("batch: create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("batch: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("batch: close %s: %w", path, err)
	}
	return nil
}
