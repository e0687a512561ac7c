package riif

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/mrjoshuak/go-riif/internal/xdr"
)

// Magic is the signature at the start of every RIIF file.
const Magic = "RIIF"

// HeaderSize is the size in bytes of the fixed header.
const HeaderSize = 12

// BytesPerPixel is the size of one RGBA pixel.
const BytesPerPixel = 4

// Header holds the image dimensions stored after the magic.
type Header struct {
	Width  uint32
	Height uint32
}

// PixelBytes returns the size of the unfiltered pixel data. The result
// wraps for sizes beyond 2^64 bytes, which decoding rejects.
func (h Header) PixelBytes() uint64 {
	return uint64(h.Width) * uint64(h.Height) * BytesPerPixel
}

// RowBytes returns the size of one row.
func (h Header) RowBytes() uint64 {
	return uint64(h.Width) * BytesPerPixel
}

// check verifies that an image of this size can be held in memory
// within limit bytes of pixel data.
func (h Header) check(limit int64) error {
	pixels := uint64(h.Width) * uint64(h.Height)
	if uint64(h.Width) > math.MaxInt || uint64(h.Height) > math.MaxInt || pixels > math.MaxInt/BytesPerPixel {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, h.Width, h.Height)
	}
	size := pixels * BytesPerPixel
	if limit > 0 && size > uint64(limit) {
		return fmt.Errorf("%w: %dx%d needs %d bytes, limit is %d", ErrTooLarge, h.Width, h.Height, size, limit)
	}
	return nil
}

// appendTo writes the magic and dimensions.
func (h Header) appendTo(w *xdr.BufferWriter) {
	w.WriteBytes([]byte(Magic))
	w.WriteUint32(h.Width)
	w.WriteUint32(h.Height)
}

// MarshalBinary returns the 12-byte encoded header.
func (h Header) MarshalBinary() ([]byte, error) {
	w := xdr.NewBufferWriter(HeaderSize)
	h.appendTo(w)
	return w.Bytes(), nil
}

// parseHeader reads the header from the start of r.
func parseHeader(r *xdr.Reader) (Header, error) {
	var h Header

	magic, err := r.ReadBytes(len(Magic))
	if err != nil {
		return h, fmt.Errorf("%w: header: %w", ErrTruncated, err)
	}
	if string(magic) != Magic {
		return h, fmt.Errorf("%w: bad magic %q", ErrInvalidFormat, magic)
	}

	if h.Width, err = r.ReadUint32(); err != nil {
		return h, fmt.Errorf("%w: header: %w", ErrTruncated, err)
	}
	if h.Height, err = r.ReadUint32(); err != nil {
		return h, fmt.Errorf("%w: header: %w", ErrTruncated, err)
	}
	return h, nil
}

// ReadHeader reads and validates the header from the start of a stream.
// Only HeaderSize bytes are consumed.
func ReadHeader(r io.Reader) (Header, error) {
	buf := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Header{}, err
	}
	return parseHeader(xdr.NewReader(buf[:n]))
}
