// Package compression provides the whole-buffer compression step of RIIF.
//
// RIIF stores its filtered pixel rows as a single zlib stream. The Codec
// interface keeps the container code independent of the zlib
// implementation; Zlib is the only codec that produces conforming files.
package compression

// Codec compresses and decompresses a whole buffer in one pass.
type Codec interface {
	// Compress returns the compressed form of src.
	Compress(src []byte) ([]byte, error)

	// Decompress inflates src and returns exactly expectedSize bytes.
	// It fails with an error wrapping ErrZlibShort when the stream holds
	// fewer bytes, or ErrZlibCorrupted when it is malformed.
	Decompress(src []byte, expectedSize int) ([]byte, error)
}

// Zlib is a Codec producing zlib (RFC 1950) streams.
type Zlib struct {
	Level CompressionLevel
}

// NewZlib returns a zlib codec using the given level.
func NewZlib(level CompressionLevel) *Zlib {
	return &Zlib{Level: level}
}

// DefaultCodec returns the codec used when none is configured.
func DefaultCodec() Codec {
	return NewZlib(CompressionLevelDefault)
}

// Compress implements Codec.
func (z *Zlib) Compress(src []byte) ([]byte, error) {
	return ZlibCompressLevel(src, z.Level)
}

// Decompress implements Codec.
func (z *Zlib) Decompress(src []byte, expectedSize int) ([]byte, error) {
	return ZlibDecompress(src, expectedSize)
}
