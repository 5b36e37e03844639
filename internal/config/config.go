package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"
)

// Config holds all configurable output paths and extraction settings.
type Config struct {
	// Output
	OutputDir   string `json:"output_dir"`
	ImageFormat string `json:"image_format"`
	Manifest    bool   `json:"manifest"`

	// Sprite sheets
	CanvasMargin    int     `json:"canvas_margin"`
	UVEpsilon       float32 `json:"uv_epsilon"`
	FrameGap        int     `json:"frame_gap"`
	RowGap          int     `json:"row_gap"`
	SheetBackground string  `json:"sheet_background"`
	PerFrameBounds  bool    `json:"per_frame_bounds"`
	Separate        bool    `json:"separate"`
	ColorOnly       bool    `json:"color_only"`
	MaskOnly        bool    `json:"mask_only"`
	NoPiece         bool    `json:"no_piece"`
	Crop            bool    `json:"crop"`

	// Decoding
	CodecHint    string `json:"codec_hint"`
	MaxTreeDepth int    `json:"max_tree_depth"`

	LogLevel string `json:"log_level"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.ImageFormat = flags.Format
	}
	if flags.CodecHint != "" {
		c.CodecHint = flags.CodecHint
	}
	if flags.Verbose {
		c.LogLevel = zerolog.LevelDebugValue
	}
	c.Manifest = c.Manifest || flags.Manifest
	c.Separate = c.Separate || flags.Separate
	c.ColorOnly = c.ColorOnly || flags.ColorOnly
	c.MaskOnly = c.MaskOnly || flags.MaskOnly
	c.NoPiece = c.NoPiece || flags.NoPiece
	c.Crop = c.Crop || flags.Crop

	// The layer options are exclusive and colour wins.
	if c.ColorOnly {
		c.MaskOnly = false
	}
	// A single layer is a separated sheet.
	if c.ColorOnly || c.MaskOnly {
		c.Separate = true
	}

	// Defaults
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.ImageFormat == "" {
		c.ImageFormat = "png"
	}
	if c.CanvasMargin <= 0 {
		c.CanvasMargin = 3
	}
	if c.UVEpsilon <= 0 {
		c.UVEpsilon = 0.001
	}
	if c.FrameGap <= 0 {
		c.FrameGap = 1
	}
	if c.RowGap <= 0 {
		c.RowGap = 2
	}
	if c.SheetBackground == "" {
		c.SheetBackground = "#008080"
	}
	if c.CodecHint == "" {
		c.CodecHint = "dxt1"
	}
	if c.MaxTreeDepth <= 0 {
		c.MaxTreeDepth = 64
	}
	if c.LogLevel == "" {
		c.LogLevel = zerolog.LevelInfoValue
	}
}

// Background parses SheetBackground as an opaque hex colour.
func (c Config) Background() (color.NRGBA, error) {
	col, err := colorful.Hex(c.SheetBackground)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("config: sheet_background %q: %w", c.SheetBackground, err)
	}
	r, g, b := col.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("config: log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir string
	Format    string
	CodecHint string
	Verbose   bool
	Manifest  bool
	Separate  bool
	ColorOnly bool
	MaskOnly  bool
	NoPiece   bool
	Crop      bool
}
