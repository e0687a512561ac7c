package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/mrjoshuak/go-riif/riif"
)

func testImage(opaque bool) *riif.Bitmap {
	b := riif.NewBitmap(9, 7)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			a := uint8(255)
			if !opaque {
				a = uint8(100 + x*10)
			}
			b.SetNRGBA(x, y, color.NRGBA{uint8(x * 25), uint8(y * 30), uint8(x * y), a})
		}
	}
	return b
}

func TestSaveLoadLossless(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		ext    string
		opaque bool
	}{
		{".riif", false},
		{".png", false},
		{".png", true},
		{".tiff", false},
		{".bmp", true},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			src := testImage(tt.opaque)
			path := filepath.Join(dir, "img"+tt.ext)
			if err := Save(src, path); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := LoadBitmap(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !got.Equal(src) {
				t.Errorf("%s round trip changed pixels", tt.ext)
			}
		})
	}
}

func TestSaveLoadLossy(t *testing.T) {
	dir := t.TempDir()
	src := testImage(true)

	for _, ext := range []string{".jpg", ".gif", ".j2k", ".jp2"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "img"+ext)
			if err := Save(src, path); err != nil {
				t.Fatalf("Save: %v", err)
			}
			img, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if img.Bounds().Dx() != src.Width || img.Bounds().Dy() != src.Height {
				t.Errorf("size = %v, want %dx%d", img.Bounds(), src.Width, src.Height)
			}
		})
	}
}

func TestSaveJPEG2000Container(t *testing.T) {
	dir := t.TempDir()
	src := testImage(true)
	tests := []struct {
		ext    string
		prefix []byte
	}{
		{".jp2", []byte{0x00, 0x00, 0x00, 0x0c, 0x6a, 0x50, 0x20, 0x20}},
		{".j2k", []byte{0xff, 0x4f}},
		{".jpc", []byte{0xff, 0x4f}},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			path := filepath.Join(dir, "img"+tt.ext)
			if err := Save(src, path); err != nil {
				t.Fatalf("Save: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(data, tt.prefix) {
				t.Errorf("file starts % x, want % x", data[:min(len(data), len(tt.prefix))], tt.prefix)
			}

			// Content sniffing finds the format whatever the extension.
			renamed := filepath.Join(dir, "renamed"+tt.ext+".bin")
			if err := os.Rename(path, renamed); err != nil {
				t.Fatal(err)
			}
			got, err := LoadBitmap(renamed)
			if err != nil {
				t.Fatalf("LoadBitmap: %v", err)
			}
			if got.Width != src.Width || got.Height != src.Height {
				t.Errorf("size = %dx%d, want %dx%d", got.Width, got.Height, src.Width, src.Height)
			}
		})
	}
}

func TestLoadSniffsContent(t *testing.T) {
	// A RIIF file with the wrong extension is still recognized.
	dir := t.TempDir()
	path := filepath.Join(dir, "really-riif.png")
	src := testImage(false)
	if err := riif.EncodeFile(path, src, nil); err != nil {
		t.Fatal(err)
	}
	got, err := LoadBitmap(path)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(src) {
		t.Error("pixels differ")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: error = %v, want ErrNotExist", err)
	}

	junk := filepath.Join(dir, "junk.xyz")
	if err := os.WriteFile(junk, []byte("not an image at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(junk); !errors.Is(err, ErrUnsupported) {
		t.Errorf("junk: error = %v, want ErrUnsupported", err)
	}

	bad := filepath.Join(dir, "bad.riif")
	if err := os.WriteFile(bad, []byte("RIIF\x01\x00\x00\x00"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, riif.ErrTruncated) {
		t.Errorf("truncated riif: error = %v, want riif.ErrTruncated", err)
	}
}

func TestSaveErrors(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))

	if err := Save(img, filepath.Join(dir, "out.xyz")); !errors.Is(err, ErrUnsupported) {
		t.Errorf("unknown extension: error = %v, want ErrUnsupported", err)
	}
	path := filepath.Join(dir, "out.webp")
	if err := Save(img, path); !errors.Is(err, ErrUnsupported) {
		t.Errorf("webp: error = %v, want ErrUnsupported", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("failed Save left a file behind")
	}
}

func TestLookup(t *testing.T) {
	for path, name := range map[string]string{
		"a.PNG":       "png",
		"b.jpeg":      "jpeg",
		"dir/c.riif":  "riif",
		"d.tif":       "tiff",
		"e.jp2":       "jp2",
		"e.j2c":       "j2k",
		"f.final.bmp": "bmp",
	} {
		f, err := Lookup(path)
		if err != nil {
			t.Errorf("Lookup(%q): %v", path, err)
			continue
		}
		if f.Name != name {
			t.Errorf("Lookup(%q) = %s, want %s", path, f.Name, name)
		}
	}
	if _, err := Lookup("noext"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Lookup(noext) = %v", err)
	}

	exts := Extensions()
	for i := 1; i < len(exts); i++ {
		if exts[i-1] >= exts[i] {
			t.Fatalf("Extensions not sorted: %v", exts)
		}
	}
}
