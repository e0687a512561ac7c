// Package config loads the settings shared by the riif commands.
//
// Settings live in a YAML file:
//
//	compression:
//	  level: 9
//	parallel:
//	  workers: 0
//	  grain: 64
//	view:
//	  width: 0
//	  zoom: 0
//	decode:
//	  format: png
//	  max_pixel_bytes: 1073741824
//
// Keys that are missing keep their default value.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/mrjoshuak/go-riif/compression"
	"github.com/mrjoshuak/go-riif/internal/parallel"
	"github.com/mrjoshuak/go-riif/riif"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "RIIF_CONFIG"

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("config: invalid setting")

// Config holds every setting the commands read.
type Config struct {
	Compression Compression `yaml:"compression"`
	Parallel    Parallel    `yaml:"parallel"`
	View        View        `yaml:"view"`
	Decode      Decode      `yaml:"decode"`
}

// Compression configures the pixel stream.
type Compression struct {
	// Level is the zlib level, -2 (Huffman only) through 9.
	Level int `yaml:"level"`
}

// Parallel configures row filtering during encode.
type Parallel struct {
	Workers int `yaml:"workers"`
	Grain   int `yaml:"grain"`
}

// View configures the terminal preview.
type View struct {
	// Width is the preview width in columns. 0 uses the terminal width.
	Width int `yaml:"width"`
	// Zoom is the initial zoom factor. 0 fits the image to Width.
	Zoom float64 `yaml:"zoom"`
}

// Decode configures the output of decode mode.
type Decode struct {
	// Format is the file extension written by decode mode, without the dot.
	Format string `yaml:"format"`
	// MaxPixelBytes caps width*height*4 for both directions. 0 uses
	// riif.DefaultMaxPixelBytes, a negative value disables the cap.
	MaxPixelBytes int64 `yaml:"max_pixel_bytes"`
}

// Default returns the built-in settings.
func Default() *Config {
	pc := parallel.DefaultConfig()
	return &Config{
		Compression: Compression{Level: int(compression.CompressionLevelDefault)},
		Parallel:    Parallel{Workers: pc.NumWorkers, Grain: pc.GrainSize},
		Decode:      Decode{Format: "png", MaxPixelBytes: riif.DefaultMaxPixelBytes},
	}
}

// Load reads the file at path over the defaults. A missing file is not an
// error; the defaults are returned unchanged. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Path returns the config file named by flag, or by $RIIF_CONFIG when flag
// is empty.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(EnvVar)
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	if !compression.CompressionLevel(c.Compression.Level).Valid() {
		return fmt.Errorf("%w: compression.level %d not in [-2, 9]", ErrInvalid, c.Compression.Level)
	}
	if c.Parallel.Workers < 0 {
		return fmt.Errorf("%w: parallel.workers %d is negative", ErrInvalid, c.Parallel.Workers)
	}
	if c.Parallel.Grain < 0 {
		return fmt.Errorf("%w: parallel.grain %d is negative", ErrInvalid, c.Parallel.Grain)
	}
	if c.View.Width < 0 {
		return fmt.Errorf("%w: view.width %d is negative", ErrInvalid, c.View.Width)
	}
	if c.View.Zoom != 0 && (c.View.Zoom < 0.1 || c.View.Zoom > 3) {
		return fmt.Errorf("%w: view.zoom %g not in [0.1, 3]", ErrInvalid, c.View.Zoom)
	}
	if f := strings.TrimPrefix(c.Decode.Format, "."); f == "" || strings.ContainsAny(f, `/\`) {
		return fmt.Errorf("%w: decode.format %q", ErrInvalid, c.Decode.Format)
	}
	return nil
}

// RiifOptions returns the codec options the settings describe. Level 0
// selects a store-only codec rather than the default level.
func (c *Config) RiifOptions() *riif.Options {
	opts := &riif.Options{
		Level:         compression.CompressionLevel(c.Compression.Level),
		Workers:       c.Parallel.Workers,
		GrainSize:     c.Parallel.Grain,
		MaxPixelBytes: c.Decode.MaxPixelBytes,
	}
	if opts.Level == compression.CompressionLevelNone {
		opts.Codec = compression.NewZlib(compression.CompressionLevelNone)
	}
	return opts
}

// DecodeExt returns the decode output extension with a leading dot.
func (c *Config) DecodeExt() string {
	return "." + strings.ToLower(strings.TrimPrefix(c.Decode.Format, "."))
}

// Marshal returns c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
