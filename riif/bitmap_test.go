package riif

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestNewBitmap(t *testing.T) {
	b := NewBitmap(3, 2)
	if b.Width != 3 || b.Height != 2 || len(b.Pix) != 24 {
		t.Errorf("NewBitmap(3, 2) = %dx%d with %d bytes", b.Width, b.Height, len(b.Pix))
	}
	if err := b.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	b = NewBitmap(-1, 5)
	if b.Width != 0 || b.Height != 5 || len(b.Pix) != 0 {
		t.Errorf("NewBitmap(-1, 5) = %dx%d with %d bytes", b.Width, b.Height, len(b.Pix))
	}
}

func TestBitmapValidate(t *testing.T) {
	tests := []struct {
		name string
		b    *Bitmap
		want error
	}{
		{"ok", &Bitmap{Width: 1, Height: 1, Pix: make([]byte, 4)}, nil},
		{"empty", &Bitmap{}, nil},
		{"negative", &Bitmap{Width: 1, Height: -1}, ErrInvalidBitmap},
		{"short", &Bitmap{Width: 2, Height: 1, Pix: make([]byte, 7)}, ErrInvalidBitmap},
		{"long", &Bitmap{Width: 2, Height: 1, Pix: make([]byte, 9)}, ErrInvalidBitmap},
		{"too wide", &Bitmap{Width: 1 << 33, Height: 0}, ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBitmapPixelAccess(t *testing.T) {
	b := NewBitmap(2, 2)
	c := color.NRGBA{R: 1, G: 2, B: 3, A: 4}
	b.SetNRGBA(1, 1, c)

	if got := b.NRGBAAt(1, 1); got != c {
		t.Errorf("NRGBAAt(1, 1) = %v, want %v", got, c)
	}
	if got := b.Pix[12:16]; got[0] != 1 || got[3] != 4 {
		t.Errorf("Pix[12:16] = %v", got)
	}

	// Out of bounds reads are transparent and writes are dropped.
	b.SetNRGBA(2, 0, c)
	b.SetNRGBA(-1, 0, c)
	if got := b.NRGBAAt(5, 5); got != (color.NRGBA{}) {
		t.Errorf("NRGBAAt(5, 5) = %v", got)
	}
	for i, v := range b.Pix[:12] {
		if v != 0 {
			t.Fatalf("Pix[%d] = %d after out of bounds write", i, v)
		}
	}

	// Premultiplied colors are stored straight.
	b.Set(0, 0, color.RGBA{R: 64, G: 0, B: 0, A: 128})
	if got := b.NRGBAAt(0, 0); got.A != 128 || got.R < 126 || got.R > 128 {
		t.Errorf("Set(RGBA) stored %v", got)
	}
}

func TestBitmapRowAliasesPix(t *testing.T) {
	b := NewBitmap(2, 3)
	row := b.Row(1)
	if len(row) != 8 || cap(row) != 8 {
		t.Fatalf("Row(1) len %d cap %d", len(row), cap(row))
	}
	row[0] = 9
	if b.Pix[8] != 9 {
		t.Error("Row does not alias Pix")
	}
}

func TestFromImage(t *testing.T) {
	t.Run("nrgba with offset bounds", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
		for i := range src.Pix {
			src.Pix[i] = byte(i)
		}
		sub := src.SubImage(image.Rect(1, 1, 3, 3))

		b := FromImage(sub)
		if b.Width != 2 || b.Height != 2 {
			t.Fatalf("size = %dx%d", b.Width, b.Height)
		}
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				want := src.NRGBAAt(x+1, y+1)
				if got := b.NRGBAAt(x, y); got != want {
					t.Errorf("(%d, %d) = %v, want %v", x, y, got, want)
				}
			}
		}
	})

	t.Run("rgba", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(10, 20, 12, 21))
		src.SetRGBA(10, 20, color.RGBA{200, 100, 50, 255})
		src.SetRGBA(11, 20, color.RGBA{0, 0, 0, 0})

		b := FromImage(src)
		if got := b.NRGBAAt(0, 0); got != (color.NRGBA{200, 100, 50, 255}) {
			t.Errorf("(0, 0) = %v", got)
		}
		if got := b.NRGBAAt(1, 0); got != (color.NRGBA{}) {
			t.Errorf("(1, 0) = %v", got)
		}
	})

	t.Run("opaque rgba with offset bounds", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(-2, 3, 7, 9))
		for i := range src.Pix {
			src.Pix[i] = byte(i * 37)
			if i%4 == 3 {
				src.Pix[i] = 0xff
			}
		}
		sub := src.SubImage(image.Rect(0, 4, 5, 8))

		b := FromImage(sub)
		if b.Width != 5 || b.Height != 4 {
			t.Fatalf("size = %dx%d", b.Width, b.Height)
		}
		r := sub.Bounds()
		for y := 0; y < b.Height; y++ {
			for x := 0; x < b.Width; x++ {
				want := color.NRGBAModel.Convert(sub.At(r.Min.X+x, r.Min.Y+y)).(color.NRGBA)
				if got := b.NRGBAAt(x, y); got != want {
					t.Errorf("(%d, %d) = %v, want %v", x, y, got, want)
				}
			}
		}
	})

	t.Run("gray", func(t *testing.T) {
		src := image.NewGray(image.Rect(0, 0, 1, 1))
		src.Pix[0] = 77
		b := FromImage(src)
		if got := b.NRGBAAt(0, 0); got != (color.NRGBA{77, 77, 77, 255}) {
			t.Errorf("(0, 0) = %v", got)
		}
	})

	t.Run("bitmap copy", func(t *testing.T) {
		src := NewBitmap(1, 1)
		src.Pix[0] = 5
		b := FromImage(src)
		b.Pix[0] = 6
		if src.Pix[0] != 5 {
			t.Error("FromImage(*Bitmap) shares pixel data")
		}
	})
}

func TestToNRGBA(t *testing.T) {
	b := NewBitmap(2, 2)
	m := b.ToNRGBA()
	m.SetNRGBA(1, 0, color.NRGBA{1, 2, 3, 4})
	if got := b.NRGBAAt(1, 0); got != (color.NRGBA{1, 2, 3, 4}) {
		t.Errorf("ToNRGBA does not share pixels: %v", got)
	}
}
