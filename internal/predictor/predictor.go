// Package predictor implements the row filters used by RIIF.
//
// Each row of an RGBA raster is transformed with one of five byte-wise
// predictors (the PNG set: None, Sub, Up, Average and Paeth). A filtered
// byte is the difference between the original byte and a prediction built
// from already-known neighbors, which tends to produce long runs of small
// values that compress well.
//
// Neighbors of byte i are:
//
//	a: curr[i-Stride]  left, same row
//	b: prev[i]         above
//	c: prev[i-Stride]  above-left
//
// Neighbors that fall outside the image read as zero. A nil prev row is the
// all-zero row above the first row.
package predictor

import (
	"errors"
	"fmt"
)

// Stride is the distance in bytes between a byte and its left neighbor.
// RIIF pixels are always 8-bit RGBA.
const Stride = 4

// ErrUnknownFilter is returned for filter tags outside the defined range.
var ErrUnknownFilter = errors.New("predictor: unknown filter type")

// FilterType identifies a row filter. The numeric value is the tag stored
// in the file.
type FilterType byte

// Filter types in tag order.
const (
	FilterNone FilterType = iota
	FilterSub
	FilterUp
	FilterAverage
	FilterPaeth
)

// NumFilters is the number of defined filter types.
const NumFilters = 5

// Valid reports whether t is a defined filter type.
func (t FilterType) Valid() bool {
	return t < NumFilters
}

func (t FilterType) String() string {
	switch t {
	case FilterNone:
		return "None"
	case FilterSub:
		return "Sub"
	case FilterUp:
		return "Up"
	case FilterAverage:
		return "Average"
	case FilterPaeth:
		return "Paeth"
	default:
		return fmt.Sprintf("FilterType(%d)", byte(t))
	}
}

// Paeth returns whichever of a, b and c is closest to a+b-c.
// Ties prefer a, then b.
func Paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))

	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Filter writes the filtered form of curr into dst using filter t.
// dst must be at least len(curr) bytes and must not alias curr.
// prev is the unfiltered row above curr, or nil for the first row.
func Filter(dst, curr, prev []byte, t FilterType) error {
	n := len(curr)
	if len(dst) < n {
		panic("predictor: dst row too short")
	}
	dst = dst[:n]
	if prev != nil && len(prev) < n {
		panic("predictor: prev row too short")
	}

	switch t {
	case FilterNone:
		copy(dst, curr)

	case FilterSub:
		i := 0
		for ; i < n && i < Stride; i++ {
			dst[i] = curr[i]
		}
		for ; i < n; i++ {
			dst[i] = curr[i] - curr[i-Stride]
		}

	case FilterUp:
		if prev == nil {
			copy(dst, curr)
			return nil
		}
		for i := 0; i < n; i++ {
			dst[i] = curr[i] - prev[i]
		}

	case FilterAverage:
		for i := 0; i < n; i++ {
			var a, b int
			if i >= Stride {
				a = int(curr[i-Stride])
			}
			if prev != nil {
				b = int(prev[i])
			}
			dst[i] = curr[i] - byte((a+b)/2)
		}

	case FilterPaeth:
		for i := 0; i < n; i++ {
			var a, b, c byte
			if i >= Stride {
				a = curr[i-Stride]
			}
			if prev != nil {
				b = prev[i]
				if i >= Stride {
					c = prev[i-Stride]
				}
			}
			dst[i] = curr[i] - Paeth(a, b, c)
		}

	default:
		return ErrUnknownFilter
	}

	return nil
}

// Unfilter reverses filter t on row in place.
// prev is the already reconstructed row above, or nil for the first row.
func Unfilter(row, prev []byte, t FilterType) error {
	n := len(row)
	if prev != nil && len(prev) < n {
		panic("predictor: prev row too short")
	}

	switch t {
	case FilterNone:

	case FilterSub:
		for i := Stride; i < n; i++ {
			row[i] += row[i-Stride]
		}

	case FilterUp:
		if prev == nil {
			return nil
		}
		for i := 0; i < n; i++ {
			row[i] += prev[i]
		}

	case FilterAverage:
		for i := 0; i < n; i++ {
			var a, b int
			if i >= Stride {
				a = int(row[i-Stride])
			}
			if prev != nil {
				b = int(prev[i])
			}
			row[i] += byte((a + b) / 2)
		}

	case FilterPaeth:
		for i := 0; i < n; i++ {
			var a, b, c byte
			if i >= Stride {
				a = row[i-Stride]
			}
			if prev != nil {
				b = prev[i]
				if i >= Stride {
					c = prev[i-Stride]
				}
			}
			row[i] += Paeth(a, b, c)
		}

	default:
		return ErrUnknownFilter
	}

	return nil
}
