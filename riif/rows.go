package riif

import (
	"errors"
	"image"

	"github.com/mrjoshuak/go-riif/internal/parallel"
	"github.com/mrjoshuak/go-riif/internal/predictor"
)

// NumFilters is the number of defined row filters. Valid tags are
// 0 through NumFilters-1.
const NumFilters = predictor.NumFilters

// FilterName returns the name of a filter tag ("None", "Sub", "Up",
// "Average" or "Paeth").
func FilterName(tag byte) string {
	return predictor.FilterType(tag).String()
}

// filterRows picks a filter for every row of b and returns the tags and
// the filtered rows.
func filterRows(b *Bitmap, cfg parallel.Config) (tags, filtered []byte) {
	return predictor.FilterImage(b.Pix, b.Stride(), b.Height, cfg)
}

// unfilterRows reverses the row filters of pix in place.
func unfilterRows(tags, pix []byte, stride int) error {
	err := predictor.UnfilterImage(tags, pix, stride)
	var re *predictor.RowError
	if errors.As(err, &re) {
		return &FilterError{Row: re.Row, Tag: byte(re.Type)}
	}
	return err
}

// FilterTags returns the filter tag the encoder chooses for each row of img.
func FilterTags(img image.Image, opts *Options) []byte {
	tags, _ := filterRows(asBitmap(img), opts.parallelConfig())
	return tags
}
