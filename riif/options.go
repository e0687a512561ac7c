package riif

import (
	"github.com/mrjoshuak/go-riif/compression"
	"github.com/mrjoshuak/go-riif/internal/parallel"
)

// DefaultMaxPixelBytes is the default cap on decoded pixel data (1 GiB).
const DefaultMaxPixelBytes = 1 << 30

// Options configures encoding and decoding. A nil *Options means the
// defaults returned by DefaultOptions.
type Options struct {
	// Level is the zlib compression level used when Codec is nil. The zero
	// value selects compression.CompressionLevelDefault; to store pixels
	// without compression set Codec to
	// compression.NewZlib(compression.CompressionLevelNone).
	Level compression.CompressionLevel

	// Codec overrides the compression codec. Files written with anything
	// but zlib are not readable by other RIIF decoders.
	Codec compression.Codec

	// Workers is the number of goroutines that select row filters while
	// encoding. 0 uses GOMAXPROCS, 1 encodes on the calling goroutine.
	// The output does not depend on this value.
	Workers int

	// GrainSize is the minimum number of rows per worker before the
	// filter selection is split. 0 uses the default.
	GrainSize int

	// MaxPixelBytes bounds width*height*4. Decoding refuses larger headers
	// and encoding refuses larger bitmaps, so a file written with a given
	// limit always decodes under it. 0 means DefaultMaxPixelBytes; a
	// negative value disables the check.
	MaxPixelBytes int64
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() *Options {
	return &Options{
		Level: compression.CompressionLevelDefault,
	}
}

func (o *Options) codec() compression.Codec {
	if o == nil {
		return compression.DefaultCodec()
	}
	if o.Codec != nil {
		return o.Codec
	}
	if o.Level == compression.CompressionLevelNone {
		return compression.DefaultCodec()
	}
	return compression.NewZlib(o.Level)
}

func (o *Options) parallelConfig() parallel.Config {
	c := parallel.DefaultConfig()
	if o == nil {
		return c
	}
	c.NumWorkers = o.Workers
	if o.GrainSize > 0 {
		c.GrainSize = o.GrainSize
	}
	return c
}

func (o *Options) maxPixelBytes() int64 {
	if o == nil || o.MaxPixelBytes == 0 {
		return DefaultMaxPixelBytes
	}
	if o.MaxPixelBytes < 0 {
		return 0
	}
	return o.MaxPixelBytes
}
