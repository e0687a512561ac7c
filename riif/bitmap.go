package riif

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Bitmap is an 8-bit RGBA raster with straight (non-premultiplied) alpha.
// Pixels are stored row-major, top row first, four bytes per pixel in
// R, G, B, A order with no padding between rows.
//
// Bitmap implements image.Image and draw.Image with color.NRGBAModel.
type Bitmap struct {
	Width  int
	Height int
	// Pix holds Width*Height*4 bytes.
	Pix []uint8
}

// NewBitmap returns a zeroed bitmap of the given size.
// Negative dimensions are treated as zero.
func NewBitmap(width, height int) *Bitmap {
	width = max(width, 0)
	height = max(height, 0)
	return &Bitmap{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*BytesPerPixel),
	}
}

// Stride returns the number of bytes in one row.
func (b *Bitmap) Stride() int {
	return b.Width * BytesPerPixel
}

// Row returns row y of the pixel data. The slice aliases Pix.
func (b *Bitmap) Row(y int) []byte {
	stride := b.Stride()
	return b.Pix[y*stride : (y+1)*stride : (y+1)*stride]
}

// Validate checks that the dimensions are representable in a RIIF header
// and that Pix has exactly the size they imply.
func (b *Bitmap) Validate() error {
	if b.Width < 0 || b.Height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrInvalidBitmap, b.Width, b.Height)
	}
	if uint64(b.Width) > math.MaxUint32 || uint64(b.Height) > math.MaxUint32 {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, b.Width, b.Height)
	}
	want := uint64(b.Width) * uint64(b.Height) * BytesPerPixel
	if uint64(len(b.Pix)) != want {
		return fmt.Errorf("%w: %dx%d needs %d bytes, have %d", ErrInvalidBitmap, b.Width, b.Height, want, len(b.Pix))
	}
	return nil
}

// Header returns the RIIF header describing b.
func (b *Bitmap) Header() Header {
	return Header{Width: uint32(b.Width), Height: uint32(b.Height)}
}

// Equal reports whether b and o have the same size and pixels.
func (b *Bitmap) Equal(o *Bitmap) bool {
	return b.Width == o.Width && b.Height == o.Height && bytes.Equal(b.Pix, o.Pix)
}

// ColorModel returns color.NRGBAModel.
func (b *Bitmap) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds returns the rectangle (0, 0)-(Width, Height).
func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// At returns the color of the pixel at (x, y).
func (b *Bitmap) At(x, y int) color.Color {
	return b.NRGBAAt(x, y)
}

// PixOffset returns the index of the first element of Pix for pixel (x, y).
func (b *Bitmap) PixOffset(x, y int) int {
	return y*b.Stride() + x*BytesPerPixel
}

// NRGBAAt returns the pixel at (x, y), or transparent black outside the bounds.
func (b *Bitmap) NRGBAAt(x, y int) color.NRGBA {
	if !(image.Point{x, y}.In(b.Bounds())) {
		return color.NRGBA{}
	}
	i := b.PixOffset(x, y)
	s := b.Pix[i : i+4 : i+4]
	return color.NRGBA{R: s[0], G: s[1], B: s[2], A: s[3]}
}

// Set sets the pixel at (x, y), converting c to straight alpha.
func (b *Bitmap) Set(x, y int, c color.Color) {
	b.SetNRGBA(x, y, color.NRGBAModel.Convert(c).(color.NRGBA))
}

// SetNRGBA sets the pixel at (x, y). Points outside the bounds are ignored.
func (b *Bitmap) SetNRGBA(x, y int, c color.NRGBA) {
	if !(image.Point{x, y}.In(b.Bounds())) {
		return
	}
	i := b.PixOffset(x, y)
	s := b.Pix[i : i+4 : i+4]
	s[0] = c.R
	s[1] = c.G
	s[2] = c.B
	s[3] = c.A
}

// ToNRGBA returns an *image.NRGBA sharing b's pixel data.
func (b *Bitmap) ToNRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Stride(),
		Rect:   b.Bounds(),
	}
}

// FromImage copies any image into a new Bitmap. The result's origin is
// (0, 0) whatever src's bounds are. Premultiplied sources are converted to
// straight alpha; channel and row order are otherwise preserved.
func FromImage(src image.Image) *Bitmap {
	r := src.Bounds()
	dst := NewBitmap(r.Dx(), r.Dy())

	switch m := src.(type) {
	case *Bitmap:
		copy(dst.Pix, m.Pix)
	case *image.NRGBA:
		dst.copyRows(m.Pix, m.PixOffset(r.Min.X, r.Min.Y), m.Stride)
	case *image.RGBA:
		// Premultiplied and straight alpha agree when every pixel is opaque.
		if m.Opaque() {
			dst.copyRows(m.Pix, m.PixOffset(r.Min.X, r.Min.Y), m.Stride)
			break
		}
		draw.Draw(dst.ToNRGBA(), dst.Bounds(), src, r.Min, draw.Src)
	default:
		draw.Draw(dst.ToNRGBA(), dst.Bounds(), src, r.Min, draw.Src)
	}
	return dst
}

// copyRows fills b from 4-byte pixels starting at pix[off], srcStride bytes
// apart.
func (b *Bitmap) copyRows(pix []uint8, off, srcStride int) {
	stride := b.Stride()
	for y := 0; y < b.Height; y++ {
		i := off + y*srcStride
		copy(b.Row(y), pix[i:i+stride])
	}
}

// asBitmap returns src itself when it already is a Bitmap, or a copy
// otherwise. Callers must not modify the result.
func asBitmap(src image.Image) *Bitmap {
	if b, ok := src.(*Bitmap); ok {
		return b
	}
	return FromImage(src)
}
