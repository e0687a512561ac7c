package xdr

import (
	"bytes"
	"testing"
)

// FuzzReaderReadUint32 tests integer reading against the position bookkeeping.
func FuzzReaderReadUint32(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x00, 0x00, 0x00})
	f.Add([]byte{0x01, 0x00, 0x00, 0x00})
	f.Add(bytes.Repeat([]byte{0xff}, 13))

	f.Fuzz(func(t *testing.T, data []byte) {
		r := NewReader(data)
		for {
			before := r.Len()
			_, err := r.ReadUint32()
			if err != nil {
				if before >= 4 {
					t.Fatalf("ReadUint32 failed with %d bytes left: %v", before, err)
				}
				if r.Len() != before {
					t.Fatalf("failed read consumed data")
				}
				return
			}
			if r.Len() != before-4 {
				t.Fatalf("Len() = %d after read, want %d", r.Len(), before-4)
			}
		}
	})
}

// FuzzReaderReadBytes tests slice reads with arbitrary sizes.
func FuzzReaderReadBytes(f *testing.F) {
	f.Add([]byte("RIIF"), 4)
	f.Add([]byte{}, 0)
	f.Add([]byte{1, 2}, 3)
	f.Add([]byte{1, 2}, -1)

	f.Fuzz(func(t *testing.T, data []byte, n int) {
		r := NewReader(data)
		b, err := r.ReadBytes(n)
		if err != nil {
			return
		}
		if !bytes.Equal(b, data[:n]) {
			t.Errorf("ReadBytes(%d) = %v, want %v", n, b, data[:n])
		}
	})
}
