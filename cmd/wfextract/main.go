package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"wfextract/internal/batch"
	"wfextract/internal/config"
)

func main() {
	fs := flag.NewFlagSet("wfextract", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: wfextract [flags] files...\n\n")
		fs.PrintDefaults()
	}

	// CLI flags
	configFile := fs.String("config", "", "Path to config.json file")
	outputDir := fs.String("output", "", "Output directory (default: output)")
	format := fs.String("format", "", "Image format: png, webp or tga (default: png)")
	verbose := fs.Bool("v", false, "Verbose logging")
	manifest := fs.Bool("manifest", false, "Write manifest.json to the output directory")
	separate := fs.Bool("separate", false, "Write colour and mask sheets instead of the composite")
	noPiece := fs.Bool("nopiece", false, "Emit whole textures instead of reconstructing frames")
	crop := fs.Bool("crop", false, "Trim transparent frame edges")

	// The last codec and layer flag given wins.
	var codec string
	var colorOnly, maskOnly bool
	for _, c := range []string{"dxt1", "dxt3", "dxt5"} {
		fs.BoolFunc(c, "Decode unknown texture types as "+c, func(string) error {
			codec = c
			return nil
		})
	}
	fs.BoolFunc("col-only", "Write only the colour sheet", func(string) error {
		colorOnly, maskOnly = true, false
		return nil
	})
	fs.BoolFunc("mul-only", "Write only the mask sheet", func(string) error {
		colorOnly, maskOnly = false, true
		return nil
	})

	paths := parseInterleaved(fs, os.Args[1:])
	if len(paths) == 0 {
		fs.Usage()
		os.Exit(2)
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		OutputDir: *outputDir,
		Format:    *format,
		CodecHint: codec,
		Verbose:   *verbose,
		Manifest:  *manifest,
		Separate:  *separate,
		ColorOnly: colorOnly,
		MaskOnly:  maskOnly,
		NoPiece:   *noPiece,
		Crop:      *crop,
	})

	level, err := cfg.Level()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).With().Timestamp().Logger()

	batchCfg, err := batch.NewConfig(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.OutputDir).Msg("cannot create output directory")
	}

	log.Info().Int("files", len(paths)).Str("output", cfg.OutputDir).Str("format", cfg.ImageFormat).
		Str("codec", cfg.CodecHint).Msg("wfextract")

	results := batch.Run(batchCfg, paths)

	// Count results
	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	log.Info().Int("extracted", len(results)-failed).Int("failed", failed).Msg("done")

	// Write manifest
	if cfg.Manifest {
		manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
		if err := batch.WriteManifest(manifestPath, results); err != nil {
			log.Warn().Err(err).Msg("manifest write failed")
		} else {
			log.Info().Str("path", manifestPath).Msg("manifest written")
		}
	}
}

// parseInterleaved parses flags that may appear between file arguments and
// returns the files in order.
func parseInterleaved(fs *flag.FlagSet, args []string) []string {
	var files []string
	for {
		// ExitOnError: Parse never returns an error.
		_ = fs.Parse(args)
		args = fs.Args()
		if len(args) == 0 {
			return files
		}
		files = append(files, args[0])
		args = args[1:]
	}
}
