package compression

import (
	"bytes"
	"testing"
)

// FuzzZlibDecompress tests zlib decompression with arbitrary data.
func FuzzZlibDecompress(f *testing.F) {
	// Valid zlib headers
	f.Add([]byte{0x78, 0x9c}, 16) // Default compression
	f.Add([]byte{0x78, 0x01}, 16) // No compression
	f.Add([]byte{0x78, 0xda}, 16) // Best compression

	// Compressed empty data
	f.Add([]byte{0x78, 0x9c, 0x03, 0x00, 0x00, 0x00, 0x00, 0x01}, 0)
	f.Add([]byte{0x78, 0x9c, 0x03, 0x00, 0x00, 0x00, 0x00, 0x01}, 1)

	f.Fuzz(func(t *testing.T, data []byte, size int) {
		if size < 0 || size > 1<<20 {
			return
		}
		out, err := ZlibDecompress(data, size)
		if err == nil && len(out) != size {
			t.Errorf("got %d bytes without error, want %d", len(out), size)
		}
		_, _ = InspectZlib(data)
	})
}

// FuzzZlibRoundtrip tests zlib compress/decompress roundtrip.
func FuzzZlibRoundtrip(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("hello world"))
	f.Add(bytes.Repeat([]byte{0x42}, 1000))
	f.Add([]byte{0x01, 0x02, 0x03, 0x04, 0x05})

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 100000 {
			return
		}

		compressed, err := ZlibCompress(data)
		if err != nil {
			t.Fatalf("compress failed: %v", err)
		}

		decompressed, err := ZlibDecompress(compressed, len(data))
		if err != nil {
			t.Fatalf("roundtrip failed: compress succeeded but decompress failed: %v", err)
		}

		if !bytes.Equal(data, decompressed) {
			t.Errorf("roundtrip data mismatch")
		}
	})
}
