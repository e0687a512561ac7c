package riif

import (
	"fmt"
	"io"

	"github.com/mrjoshuak/go-riif/compression"
	"github.com/mrjoshuak/go-riif/internal/xdr"
)

// Info describes the layout of a RIIF file without reconstructing pixels.
type Info struct {
	Header

	// FilterCounts counts the rows stored with each filter tag.
	FilterCounts [NumFilters]int

	// BadTagRows lists rows whose tag is not a defined filter.
	BadTagRows []int

	// CompressedSize is the size of the zlib stream.
	CompressedSize int

	// InflatedSize is the number of bytes the stream decompresses to.
	// A valid file has InflatedSize == PixelBytes().
	InflatedSize int64

	// Trailing is the number of bytes after the end of the stream.
	Trailing int

	// FLevel is the compression level category from the zlib header.
	FLevel compression.FLevel
}

// Valid reports whether the file is well formed: every tag is defined and
// the stream inflates to exactly the pixel data size.
func (i *Info) Valid() bool {
	return len(i.BadTagRows) == 0 && uint64(i.InflatedSize) == i.PixelBytes()
}

// Inspect parses the header and filter tags of a RIIF file and walks its
// zlib stream. Header and tag problems are returned as errors; a stream
// of the wrong length is reported through Info so callers can describe it.
func Inspect(r io.Reader) (*Info, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return InspectBytes(data)
}

// InspectBytes is like Inspect for a file held in memory.
func InspectBytes(data []byte) (*Info, error) {
	xr := xdr.NewReader(data)

	h, err := parseHeader(xr)
	if err != nil {
		return nil, err
	}
	if err := h.check(-1); err != nil {
		return nil, err
	}
	info := &Info{Header: h}

	tags, err := xr.ReadBytes(int(h.Height))
	if err != nil {
		return info, fmt.Errorf("%w: filter tags: want %d bytes, have %d", ErrTruncated, h.Height, xr.Len())
	}
	for y, tag := range tags {
		if int(tag) >= NumFilters {
			info.BadTagRows = append(info.BadTagRows, y)
			continue
		}
		info.FilterCounts[tag]++
	}

	stream := xr.Rest()
	zi, err := compression.InspectZlib(stream)
	info.FLevel = zi.FLevel
	info.InflatedSize = zi.Inflated
	if err != nil {
		info.CompressedSize = len(stream)
		return info, fmt.Errorf("%w: pixel data: %w", ErrCorrupt, err)
	}
	info.CompressedSize = zi.Consumed
	info.Trailing = len(stream) - zi.Consumed
	return info, nil
}
