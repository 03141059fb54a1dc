package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gogpu/gg"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"branchmesh/internal/generate"
)

// Config holds output paths, preview settings and the tree parameters.
type Config struct {
	// Paths
	BaseDir     string `json:"base_dir" toml:"base_dir" yaml:"base_dir"`
	OutputDir   string `json:"output_dir" toml:"output_dir" yaml:"output_dir"`
	BarkTexture string `json:"bark_texture" toml:"bark_texture" yaml:"bark_texture"`
	Name        string `json:"name" toml:"name" yaml:"name"`

	// Outputs
	Preview      bool   `json:"preview" toml:"preview" yaml:"preview"`
	Sketch       bool   `json:"sketch" toml:"sketch" yaml:"sketch"`
	SketchFormat string `json:"sketch_format" toml:"sketch_format" yaml:"sketch_format"`
	Variants     int    `json:"variants" toml:"variants" yaml:"variants"`

	// Render settings
	RenderSize  int     `json:"render_size" toml:"render_size" yaml:"render_size"`
	Supersample int     `json:"supersample" toml:"supersample" yaml:"supersample"`
	WebPQuality int     `json:"webp_quality" toml:"webp_quality" yaml:"webp_quality"`
	Workers     int     `json:"workers" toml:"workers" yaml:"workers"`
	CameraYaw   float64 `json:"camera_yaw" toml:"camera_yaw" yaml:"camera_yaw"`
	CameraPitch float64 `json:"camera_pitch" toml:"camera_pitch" yaml:"camera_pitch"`

	// Background is a hex color the preview is flattened onto; empty keeps it transparent.
	Background string `json:"background" toml:"background" yaml:"background"`

	Tree generate.Params `json:"tree" toml:"tree" yaml:"tree"`
}

// Default returns a config that builds one stock tree with a preview.
func Default() Config {
	return Config{
		Name:         "tree",
		Preview:      true,
		SketchFormat: "png",
		Variants:     1,
		CameraYaw:    30,
		CameraPitch:  -15,
		Tree:         generate.Defaults(),
	}
}

// Load reads a preset by extension: .json, .toml, .yaml or .yml.
// Fields not set in the file keep their Default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("config: %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = filepath.Dir(path)
	}
	if err := cfg.Tree.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies CLI overrides, expands paths and fills empty fields.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) error {
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Quality > 0 {
		c.WebPQuality = flags.Quality
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Variants > 0 {
		c.Variants = flags.Variants
	}
	if flags.SeedSet {
		c.Tree.Seed = flags.Seed
	}
	if flags.Background != "" {
		c.Background = flags.Background
	}
	if flags.NoPreview {
		c.Preview = false
	}
	if flags.Sketch {
		c.Sketch = true
	}

	var err error
	if c.BaseDir, err = homedir.Expand(c.BaseDir); err != nil {
		return fmt.Errorf("config: expand %s: %w", c.BaseDir, err)
	}
	if c.OutputDir == "" {
		c.OutputDir = "out"
	}
	if c.OutputDir, err = c.path(c.OutputDir); err != nil {
		return err
	}
	if c.BarkTexture != "" {
		if c.BarkTexture, err = c.path(c.BarkTexture); err != nil {
			return err
		}
	}

	if c.Background != "" && !validHex(c.Background) {
		return fmt.Errorf("config: background %q is not a hex color", c.Background)
	}

	if c.Name == "" {
		c.Name = "tree"
	}
	if c.SketchFormat != "webp" {
		c.SketchFormat = "png"
	}
	if c.Variants <= 0 {
		c.Variants = 1
	}
	if c.RenderSize <= 0 {
		c.RenderSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.WebPQuality <= 0 {
		c.WebPQuality = 90
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return nil
}

// BackgroundColor returns the preview background, or the zero color when
// the preview stays transparent.
func (c *Config) BackgroundColor() color.NRGBA {
	if c.Background == "" {
		return color.NRGBA{}
	}
	return gg.Hex(c.Background).Color().(color.NRGBA)
}

func validHex(s string) bool {
	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// path expands ~ and anchors relative paths at BaseDir.
func (c *Config) path(p string) (string, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return p, fmt.Errorf("config: expand %s: %w", p, err)
	}
	if !filepath.IsAbs(expanded) && c.BaseDir != "" && p == expanded {
		expanded = filepath.Join(c.BaseDir, expanded)
	}
	return expanded, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir  string
	Quality    int
	Workers    int
	Size       int
	Variants   int
	Seed       int64
	SeedSet    bool
	NoPreview  bool
	Sketch     bool
	Background string
}
