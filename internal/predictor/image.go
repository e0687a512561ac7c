package predictor

import (
	"fmt"

	"github.com/mrjoshuak/go-riif/internal/parallel"
)

// RowError reports an undefined filter type found while unfiltering.
type RowError struct {
	Row  int
	Type FilterType
}

func (e *RowError) Error() string {
	return fmt.Sprintf("predictor: unknown filter type %d in row %d", byte(e.Type), e.Row)
}

func (e *RowError) Unwrap() error {
	return ErrUnknownFilter
}

// FilterImage picks the best filter for each of height rows of pix and
// returns the chosen types as tags along with the filtered rows.
//
// The context of each row is the original row above it, so rows are
// independent and are split across workers according to cfg. The result
// does not depend on cfg.
func FilterImage(pix []byte, stride, height int, cfg parallel.Config) (tags, filtered []byte) {
	tags = make([]byte, height)
	filtered = make([]byte, stride*height)

	parallel.Chunks(height, cfg, func(start, end int) {
		sel := NewSelector(stride)
		for y := start; y < end; y++ {
			var prev []byte
			if y > 0 {
				prev = pix[(y-1)*stride : y*stride]
			}
			off := y * stride
			tags[y] = byte(sel.Best(filtered[off:off+stride], pix[off:off+stride], prev))
		}
	})
	return tags, filtered
}

// UnfilterImage reverses the filters of pix in place, one row per tag,
// top to bottom. The context of each row is the reconstructed row above.
func UnfilterImage(tags, pix []byte, stride int) error {
	var prev []byte
	for y, tag := range tags {
		row := pix[y*stride : (y+1)*stride]
		if err := Unfilter(row, prev, FilterType(tag)); err != nil {
			return &RowError{Row: y, Type: FilterType(tag)}
		}
		prev = row
	}
	return nil
}
