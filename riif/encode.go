package riif

import (
	"fmt"
	"image"
	"io"

	"github.com/mrjoshuak/go-riif/internal/atomicfile"
	"github.com/mrjoshuak/go-riif/internal/xdr"
)

// Marshal encodes b into a complete RIIF file. Bitmaps whose pixel data
// exceeds the MaxPixelBytes limit of opts fail with ErrTooLarge.
func Marshal(b *Bitmap, opts *Options) ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := b.Header().check(opts.maxPixelBytes()); err != nil {
		return nil, err
	}

	tags, filtered := filterRows(b, opts.parallelConfig())

	compressed, err := opts.codec().Compress(filtered)
	if err != nil {
		return nil, fmt.Errorf("riif: compress pixel data: %w", err)
	}

	w := xdr.NewBufferWriter(HeaderSize + len(tags) + len(compressed))
	b.Header().appendTo(w)
	w.WriteBytes(tags)
	w.WriteBytes(compressed)
	return w.Bytes(), nil
}

// Encode writes img to w in RIIF format. Images that are not a *Bitmap
// are converted with FromImage first.
func Encode(w io.Writer, img image.Image, opts *Options) error {
	data, err := Marshal(asBitmap(img), opts)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// EncodeFile writes img to path in RIIF format. The file is written to a
// temporary name in the same directory and renamed into place only after
// the whole image has been written, so a failed encode never leaves a
// partial file at path.
func EncodeFile(path string, img image.Image, opts *Options) error {
	return atomicfile.Write(path, 0o644, func(w io.Writer) error {
		return Encode(w, img, opts)
	})
}
