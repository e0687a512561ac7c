// Package imageio reads and writes the raster formats the riif command
// converts between.
//
// Load recognizes files by content for every format registered with the
// image package (PNG, JPEG, GIF, BMP, TIFF, WebP, JPEG 2000 and RIIF) and
// falls back to the file extension when no signature matches. Save picks
// the encoder from the file extension.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mrjoshuak/go-jpeg2000"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/mrjoshuak/go-riif/internal/atomicfile"
	"github.com/mrjoshuak/go-riif/riif"
)

// ErrUnsupported is returned for files whose format cannot be read or
// written.
var ErrUnsupported = errors.New("imageio: unsupported image format")

// JPEGQuality is the quality used when saving JPEG files.
const JPEGQuality = 90

// Format describes one file format. Decode or Encode is nil when the
// format cannot be read or written.
type Format struct {
	Name       string
	Extensions []string
	Decode     func(io.Reader) (image.Image, error)
	Encode     func(io.Writer, image.Image) error
}

var formats = map[string]*Format{}

// Register adds f under each of its extensions, replacing any format
// registered earlier for the same extension.
func Register(f *Format) {
	for _, ext := range f.Extensions {
		formats[strings.ToLower(ext)] = f
	}
}

func init() {
	Register(&Format{
		Name:       "png",
		Extensions: []string{".png"},
		Decode:     png.Decode,
		Encode: func(w io.Writer, img image.Image) error {
			enc := png.Encoder{CompressionLevel: png.BestCompression}
			return enc.Encode(w, img)
		},
	})
	Register(&Format{
		Name:       "jpeg",
		Extensions: []string{".jpg", ".jpeg"},
		Decode:     jpeg.Decode,
		Encode: func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
		},
	})
	Register(&Format{
		Name:       "gif",
		Extensions: []string{".gif"},
		Decode:     gif.Decode,
		Encode: func(w io.Writer, img image.Image) error {
			return gif.Encode(w, img, nil)
		},
	})
	Register(&Format{
		Name:       "bmp",
		Extensions: []string{".bmp"},
		Decode:     bmp.Decode,
		Encode:     bmp.Encode,
	})
	Register(&Format{
		Name:       "tiff",
		Extensions: []string{".tif", ".tiff"},
		Decode:     tiff.Decode,
		Encode: func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
		},
	})
	Register(&Format{
		Name:       "webp",
		Extensions: []string{".webp"},
		Decode: func(r io.Reader) (image.Image, error) {
			img, _, err := image.Decode(r)
			return img, err
		},
	})
	Register(jpeg2000Format("j2k", jpeg2000.FormatJ2K, ".j2k", ".j2c", ".jpc"))
	Register(jpeg2000Format("jp2", jpeg2000.FormatJP2, ".jp2"))
	Register(&Format{
		Name:       "riif",
		Extensions: []string{".riif"},
		Decode:     riif.Decode,
		Encode: func(w io.Writer, img image.Image) error {
			return riif.Encode(w, img, nil)
		},
	})
}

// jpeg2000Format writes lossless JPEG 2000 in the given container. Raw
// codestreams and JP2 files share one decoder.
func jpeg2000Format(name string, container jpeg2000.Format, exts ...string) *Format {
	return &Format{
		Name:       name,
		Extensions: exts,
		Decode:     jpeg2000.Decode,
		Encode: func(w io.Writer, img image.Image) error {
			return jpeg2000.Encode(w, img, &jpeg2000.Options{
				Format:   container,
				Lossless: true,
			})
		},
	}
}

// Lookup returns the format registered for the extension of path.
func Lookup(path string) (*Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := formats[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	return f, nil
}

// Extensions returns every registered extension in sorted order.
func Extensions() []string {
	exts := make([]string, 0, len(formats))
	for ext := range formats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Load decodes the image stored at path.
func Load(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, nil
	}
	if !errors.Is(err, image.ErrFormat) {
		return nil, fmt.Errorf("imageio: decode %s: %w", path, err)
	}

	// Formats without a registered signature are found by extension.
	f, lerr := Lookup(path)
	if lerr != nil || f.Decode == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	img, err = f.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupported, path, err)
	}
	return img, nil
}

// LoadBitmap decodes the image stored at path into a riif.Bitmap.
func LoadBitmap(path string) (*riif.Bitmap, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	if b, ok := img.(*riif.Bitmap); ok {
		return b, nil
	}
	return riif.FromImage(img), nil
}

// Save encodes img to path in the format named by its extension. The file
// appears at path only once it is complete.
func Save(img image.Image, path string) error {
	f, err := Lookup(path)
	if err != nil {
		return err
	}
	if f.Encode == nil {
		return fmt.Errorf("%w: %s cannot be written", ErrUnsupported, f.Name)
	}
	// Encoders have fast paths for *image.NRGBA that keep straight alpha.
	if b, ok := img.(*riif.Bitmap); ok && f.Name != "riif" {
		img = b.ToNRGBA()
	}
	return atomicfile.Write(path, 0o644, func(w io.Writer) error {
		return f.Encode(w, img)
	})
}
