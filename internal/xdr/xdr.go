// Package xdr provides little-endian binary encoding and decoding utilities
// for the fixed-layout parts of RIIF files.
//
// RIIF stores its header integers in little-endian byte order. The readers
// here are bounds checked so that a short or hostile input yields an error
// instead of a panic.
package xdr

import (
	"encoding/binary"
	"errors"
)

var (
	// ErrShortBuffer is returned when a read cannot complete because the
	// buffer holds fewer bytes than requested.
	ErrShortBuffer = errors.New("xdr: buffer too short")

	// ErrNegativeSize is returned when a size parameter is negative.
	ErrNegativeSize = errors.New("xdr: negative size")
)

// ByteOrder is the byte order used by RIIF files.
var ByteOrder = binary.LittleEndian

// Reader reads little-endian values from a byte slice.
// It maintains a read position and checks bounds on every operation.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader from a byte slice.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	if r.pos >= len(r.data) {
		return 0
	}
	return len(r.data) - r.pos
}

// ReadBytes reads n bytes into a new slice.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegativeSize
	}
	if n > r.Len() {
		return nil, ErrShortBuffer
	}
	result := make([]byte, n)
	copy(result, r.data[r.pos:r.pos+n])
	r.pos += n
	return result, nil
}

// ReadUint32 reads an unsigned 32-bit integer in little-endian order.
func (r *Reader) ReadUint32() (uint32, error) {
	if r.Len() < 4 {
		return 0, ErrShortBuffer
	}
	v := ByteOrder.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// Rest returns the unread bytes without copying and moves the position to
// the end of the data.
func (r *Reader) Rest() []byte {
	if r.pos >= len(r.data) {
		return nil
	}
	rest := r.data[r.pos:]
	r.pos = len(r.data)
	return rest
}

// BufferWriter provides a growing buffer for writing binary data.
type BufferWriter struct {
	buf []byte
}

// NewBufferWriter creates a BufferWriter with an initial capacity.
func NewBufferWriter(capacity int) *BufferWriter {
	return &BufferWriter{buf: make([]byte, 0, capacity)}
}

// Len returns the number of bytes written.
func (w *BufferWriter) Len() int {
	return len(w.buf)
}

// Bytes returns the written data.
// The returned slice is valid until the next write operation.
func (w *BufferWriter) Bytes() []byte {
	return w.buf
}

// WriteBytes appends a byte slice.
func (w *BufferWriter) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteUint32 appends an unsigned 32-bit integer in little-endian order.
func (w *BufferWriter) WriteUint32(v uint32) {
	w.buf = ByteOrder.AppendUint32(w.buf, v)
}
