package riif

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/mrjoshuak/go-riif/compression"
	"github.com/mrjoshuak/go-riif/internal/xdr"
)

func init() {
	image.RegisterFormat("riif", Magic, Decode, DecodeConfig)
}

// Unmarshal decodes a complete RIIF file held in data.
//
// Any failure aborts the whole decode: a wrong magic or an undefined filter
// tag yields ErrInvalidFormat or ErrUnknownFilter, missing data yields
// ErrTruncated and a malformed pixel stream yields ErrCorrupt. The pixel
// stream must be a complete zlib stream even when the image is empty.
// Bytes after the end of the pixel stream are ignored.
func Unmarshal(data []byte, opts *Options) (*Bitmap, error) {
	r := xdr.NewReader(data)

	h, err := parseHeader(r)
	if err != nil {
		return nil, err
	}
	if err := h.check(opts.maxPixelBytes()); err != nil {
		return nil, err
	}

	tags, err := r.ReadBytes(int(h.Height))
	if err != nil {
		return nil, fmt.Errorf("%w: filter tags: want %d bytes, have %d", ErrTruncated, h.Height, r.Len())
	}

	size := int(h.PixelBytes())
	pix, err := opts.codec().Decompress(r.Rest(), size)
	if err != nil {
		if errors.Is(err, compression.ErrZlibShort) {
			return nil, fmt.Errorf("%w: pixel data: %w", ErrTruncated, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if len(pix) != size {
		return nil, fmt.Errorf("%w: pixel data: got %d bytes, want %d", ErrTruncated, len(pix), size)
	}

	b := &Bitmap{Width: int(h.Width), Height: int(h.Height), Pix: pix}
	if err := unfilterRows(tags, b.Pix, b.Stride()); err != nil {
		return nil, err
	}
	return b, nil
}

// DecodeBitmap reads a RIIF image from r. The reader is consumed to EOF.
func DecodeBitmap(r io.Reader, opts *Options) (*Bitmap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data, opts)
}

// Decode reads a RIIF image from r with default options. The concrete
// type of the result is *Bitmap.
func Decode(r io.Reader) (image.Image, error) {
	b, err := DecodeBitmap(r, nil)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// DecodeConfig returns the color model and dimensions of a RIIF image
// without decoding the pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	if err := h.check(-1); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}

// DecodeFile reads the RIIF image stored at path.
func DecodeFile(path string, opts *Options) (*Bitmap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data, opts)
}
