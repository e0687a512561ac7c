package riif

import (
	"errors"
	"fmt"
)

// Errors returned by the codec. Lower-level causes are wrapped, so
// errors.Is matches both the sentinel here and the underlying error.
var (
	ErrInvalidFormat = errors.New("riif: invalid format")
	ErrUnknownFilter = errors.New("riif: unknown filter type")
	ErrTruncated     = errors.New("riif: truncated data")
	ErrCorrupt       = errors.New("riif: corrupt pixel data")
	ErrTooLarge      = errors.New("riif: image too large")
	ErrInvalidBitmap = errors.New("riif: invalid bitmap")
)

// FilterError reports a row whose filter tag is not defined.
type FilterError struct {
	Row int
	Tag byte
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("riif: unknown filter type %d in row %d", e.Tag, e.Row)
}

// Unwrap returns ErrUnknownFilter.
func (e *FilterError) Unwrap() error {
	return ErrUnknownFilter
}
