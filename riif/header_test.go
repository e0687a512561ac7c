package riif

import (
	"bytes"
	"errors"
	"testing"
)

func TestHeaderMarshal(t *testing.T) {
	h := Header{Width: 0x01020304, Height: 7}
	data, err := h.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{'R', 'I', 'I', 'F', 4, 3, 2, 1, 7, 0, 0, 0}
	if !bytes.Equal(data, want) {
		t.Errorf("MarshalBinary = %v, want %v", data, want)
	}

	got, err := ReadHeader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if got != h {
		t.Errorf("ReadHeader = %+v, want %+v", got, h)
	}
}

func TestReadHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"partial magic", []byte("RI"), ErrTruncated},
		{"magic only", []byte("RIIF"), ErrTruncated},
		{"missing height", []byte("RIIF\x01\x00\x00\x00\x01"), ErrTruncated},
		{"bad magic", []byte("PNG\x00\x01\x00\x00\x00\x01\x00\x00\x00"), ErrInvalidFormat},
		{"lowercase magic", []byte("riif\x01\x00\x00\x00\x01\x00\x00\x00"), ErrInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadHeader(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadHeader error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadHeaderConsumesOnlyHeader(t *testing.T) {
	data := []byte("RIIF\x02\x00\x00\x00\x03\x00\x00\x00rest")
	r := bytes.NewReader(data)
	if _, err := ReadHeader(r); err != nil {
		t.Fatal(err)
	}
	if r.Len() != 4 {
		t.Errorf("%d bytes left after ReadHeader, want 4", r.Len())
	}
}

func TestHeaderSizes(t *testing.T) {
	h := Header{Width: 0xFFFFFFFF, Height: 0xFFFFFFFF}
	if got := h.RowBytes(); got != 0xFFFFFFFF*4 {
		t.Errorf("RowBytes = %d", got)
	}
	if got := (Header{Width: 3, Height: 5}).PixelBytes(); got != 60 {
		t.Errorf("PixelBytes = %d, want 60", got)
	}
	if err := h.check(-1); !errors.Is(err, ErrTooLarge) {
		t.Errorf("check = %v, want ErrTooLarge", err)
	}
	if err := (Header{Width: 10, Height: 10}).check(399); !errors.Is(err, ErrTooLarge) {
		t.Errorf("check(399) = %v, want ErrTooLarge", err)
	}
	if err := (Header{Width: 10, Height: 10}).check(400); err != nil {
		t.Errorf("check(400) = %v", err)
	}
}
