package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// zlib errors
var (
	ErrZlibCorrupted = errors.New("compression: corrupted zlib data")
	ErrZlibShort     = errors.New("compression: zlib stream shorter than expected")
	ErrZlibOverflow  = errors.New("compression: zlib stream longer than expected")
	ErrInvalidLevel  = errors.New("compression: invalid compression level")
)

// CompressionLevel represents a zlib compression level.
// Valid values are -2 to 9, where:
//   - -2: Huffman-only compression (klauspost extension)
//   - -1: Default compression (level 6)
//   - 0: No compression (store)
//   - 1: Best speed
//   - 9: Best compression
type CompressionLevel int

// Standard compression levels
const (
	CompressionLevelHuffmanOnly CompressionLevel = -2 // Huffman-only (fastest, klauspost)
	CompressionLevelDefault     CompressionLevel = -1 // Default (level 6)
	CompressionLevelNone        CompressionLevel = 0  // No compression
	CompressionLevelBestSpeed   CompressionLevel = 1  // Best speed
	CompressionLevelBestSize    CompressionLevel = 9  // Best compression
)

// Valid reports whether l is accepted by the zlib writer.
func (l CompressionLevel) Valid() bool {
	return l >= CompressionLevelHuffmanOnly && l <= CompressionLevelBestSize
}

// FLevel represents the compression level category from the zlib header.
// This is a 2-bit field in the header indicating the general
// compression level category, not the exact level.
type FLevel int

const (
	FLevelFastest FLevel = 0 // Fastest algorithm (levels -2, 0, 1)
	FLevelFast    FLevel = 1 // Fast algorithm (levels 2, 3, 4, 5)
	FLevelDefault FLevel = 2 // Default algorithm (levels 6, -1)
	FLevelBest    FLevel = 3 // Maximum compression (levels 7, 8, 9)
)

func (fl FLevel) String() string {
	switch fl {
	case FLevelFastest:
		return "fastest"
	case FLevelFast:
		return "fast"
	case FLevelDefault:
		return "default"
	case FLevelBest:
		return "best"
	default:
		return fmt.Sprintf("FLevel(%d)", int(fl))
	}
}

// DetectZlibFLevel extracts the FLEVEL from zlib compressed data.
// Returns the FLevel and true if successful, or 0 and false if the
// data is too short or has an invalid header.
func DetectZlibFLevel(data []byte) (FLevel, bool) {
	if len(data) < 2 {
		return 0, false
	}

	cmf := data[0]
	flg := data[1]

	// Check compression method (must be 8 = deflate)
	if cmf&0x0f != 8 {
		return 0, false
	}

	// Check header checksum
	h := uint16(cmf)<<8 | uint16(flg)
	if h%31 != 0 {
		return 0, false
	}

	return FLevel((flg >> 6) & 0x03), true
}

// Pool for default-level zlib writers.
// Each pooled item contains both the writer and its destination buffer.
type zlibWriterPoolItem struct {
	writer *zlib.Writer
	buf    *bytes.Buffer
}

var zlibWriterPool = sync.Pool{
	New: func() any {
		buf := new(bytes.Buffer)
		w, _ := zlib.NewWriterLevel(buf, zlib.DefaultCompression)
		return &zlibWriterPoolItem{writer: w, buf: buf}
	},
}

// ZlibCompress compresses src at the default level.
func ZlibCompress(src []byte) ([]byte, error) {
	return ZlibCompressLevel(src, CompressionLevelDefault)
}

// ZlibCompressLevel compresses src at the given level.
//
// An empty src still produces a complete zlib stream (header, empty final
// block and checksum), so every RIIF file carries a well-formed stream.
func ZlibCompressLevel(src []byte, level CompressionLevel) ([]byte, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, int(level))
	}

	// Use pool for default level (most common case)
	if level == CompressionLevelDefault {
		item := zlibWriterPool.Get().(*zlibWriterPoolItem)
		item.buf.Reset()
		item.writer.Reset(item.buf)

		if _, err := item.writer.Write(src); err != nil {
			item.writer.Close()
			zlibWriterPool.Put(item)
			return nil, err
		}

		if err := item.writer.Close(); err != nil {
			zlibWriterPool.Put(item)
			return nil, err
		}

		result := make([]byte, item.buf.Len())
		copy(result, item.buf.Bytes())
		zlibWriterPool.Put(item)

		return result, nil
	}

	// Non-default level: create temporary writer
	buf := new(bytes.Buffer)
	w, err := zlib.NewWriterLevel(buf, int(level))
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(src); err != nil {
		w.Close()
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// zlibReaderPoolItem wraps a zlib reader for pooling
type zlibReaderPoolItem struct {
	reader io.ReadCloser
	srcBuf *bytes.Reader
}

var zlibReaderPool = sync.Pool{
	New: func() any {
		return &zlibReaderPoolItem{
			srcBuf: bytes.NewReader(nil),
		}
	},
}

// reset points the pooled reader at src and parses the zlib header.
func (item *zlibReaderPoolItem) reset(src []byte) error {
	item.srcBuf.Reset(src)

	var err error
	if item.reader != nil {
		if resetter, ok := item.reader.(zlib.Resetter); ok {
			if err = resetter.Reset(item.srcBuf, nil); err == nil {
				return nil
			}
			// A failed reset leaves the reader unusable
			item.reader = nil
			return headerError(err)
		}
		item.reader.Close()
	}

	item.reader, err = zlib.NewReader(item.srcBuf)
	if err != nil {
		item.reader = nil
		return headerError(err)
	}
	return nil
}

func headerError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated header", ErrZlibShort)
	}
	return fmt.Errorf("%w: %v", ErrZlibCorrupted, err)
}

// ZlibDecompress decompresses src, which must inflate to exactly
// expectedSize bytes.
func ZlibDecompress(src []byte, expectedSize int) ([]byte, error) {
	if expectedSize < 0 {
		return nil, fmt.Errorf("%w: negative expected size %d", ErrZlibCorrupted, expectedSize)
	}
	dst := make([]byte, expectedSize)
	if err := ZlibDecompressTo(dst, src); err != nil {
		return nil, err
	}
	return dst, nil
}

// ZlibDecompressTo decompresses src into dst. The stream must fill dst
// exactly and end with a valid checksum; a stream that stops early or is
// cut anywhere, including inside the trailing checksum, fails with
// ErrZlibShort. An empty dst still requires a complete empty stream.
func ZlibDecompressTo(dst, src []byte) error {
	if len(src) == 0 {
		return fmt.Errorf("%w: no data, want %d bytes", ErrZlibShort, len(dst))
	}

	item := zlibReaderPool.Get().(*zlibReaderPoolItem)
	defer zlibReaderPool.Put(item)

	if err := item.reset(src); err != nil {
		return err
	}

	n, err := io.ReadFull(item.reader, dst)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("%w: got %d of %d bytes", ErrZlibShort, n, len(dst))
		}
		return fmt.Errorf("%w: %v", ErrZlibCorrupted, err)
	}

	// Drive the reader to the end of the stream so the checksum is verified.
	var extra [1]byte
	for {
		m, err := item.reader.Read(extra[:])
		if m > 0 {
			return ErrZlibOverflow
		}
		switch {
		case err == nil:
			continue
		case err == io.EOF:
			return nil
		case err == io.ErrUnexpectedEOF:
			return fmt.Errorf("%w: truncated checksum", ErrZlibShort)
		default:
			return fmt.Errorf("%w: %v", ErrZlibCorrupted, err)
		}
	}
}

// ZlibInfo describes a zlib stream at the start of a buffer.
type ZlibInfo struct {
	// Inflated is the number of bytes the stream decompresses to.
	Inflated int64
	// Consumed is the number of input bytes the stream occupies.
	Consumed int
	// FLevel is the level category recorded in the header.
	FLevel FLevel
}

// InspectZlib decompresses the stream at the start of src, discarding the
// output, and reports its sizes. Bytes after the end of the stream are not
// read.
func InspectZlib(src []byte) (ZlibInfo, error) {
	var info ZlibInfo

	flevel, ok := DetectZlibFLevel(src)
	if !ok {
		if len(src) < 2 {
			return info, fmt.Errorf("%w: truncated header", ErrZlibShort)
		}
		return info, fmt.Errorf("%w: invalid header", ErrZlibCorrupted)
	}
	info.FLevel = flevel

	br := bytes.NewReader(src)
	zr, err := zlib.NewReader(br)
	if err != nil {
		return info, headerError(err)
	}
	defer zr.Close()

	n, err := io.Copy(io.Discard, zr)
	info.Inflated = n
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			return info, fmt.Errorf("%w: stream ends after %d bytes", ErrZlibShort, n)
		}
		return info, fmt.Errorf("%w: %v", ErrZlibCorrupted, err)
	}
	info.Consumed = len(src) - br.Len()
	return info, nil
}
