// Package view renders images as truecolor previews in a terminal.
//
// Each character cell shows two vertically stacked pixels: the upper half
// block takes the top pixel as its foreground color and the bottom pixel
// as its background.
package view

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"strconv"

	"golang.org/x/image/draw"
)

// Zoom limits.
const (
	MinZoom = 0.1
	MaxZoom = 3.0
)

// DefaultColumns is the preview width used when the terminal width is unknown.
const DefaultColumns = 80

// Viewer displays an image. Implementations never modify img.
type Viewer interface {
	View(img image.Image, name string) error
}

// Terminal writes previews as ANSI escape sequences.
type Terminal struct {
	Out io.Writer

	// Columns is the available width in character cells.
	Columns int

	// Zoom scales the image. 0 fits the image to Columns without
	// enlarging it. Other values are clamped to [MinZoom, MaxZoom].
	Zoom float64

	// Background shows through transparent pixels.
	Background color.Color
}

// NewTerminal returns a Terminal writing to out. The width comes from
// $COLUMNS when columns is 0.
func NewTerminal(out io.Writer, columns int) *Terminal {
	if columns <= 0 {
		columns = DefaultColumns
		if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
			columns = n
		}
	}
	return &Terminal{Out: out, Columns: columns, Background: color.Black}
}

// ClampZoom limits z to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	return math.Min(math.Max(z, MinZoom), MaxZoom)
}

// FitZoom returns the zoom that fits width pixels into columns cells,
// never enlarging the image.
func FitZoom(width, columns int) float64 {
	if width <= 0 || columns <= 0 {
		return 1
	}
	return ClampZoom(math.Min(1, float64(columns)/float64(width)))
}

func (t *Terminal) zoom(width int) float64 {
	if t.Zoom == 0 {
		return FitZoom(width, t.Columns)
	}
	return ClampZoom(t.Zoom)
}

// Size returns the preview size in pixels for an image of the given size.
func (t *Terminal) Size(width, height int) (w, h int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	z := t.zoom(width)
	w = max(1, int(float64(width)*z))
	h = max(1, int(float64(height)*z))
	return w, h
}

// View writes a header line followed by the preview of img.
func (t *Terminal) View(img image.Image, name string) error {
	w := bufio.NewWriter(t.Out)

	var size int64 = -1
	if fi, err := os.Stat(name); err == nil && fi.Mode().IsRegular() {
		size = fi.Size()
	}
	fmt.Fprintln(w, Header(name, img.Bounds(), size))

	pw, ph := t.Size(img.Bounds().Dx(), img.Bounds().Dy())
	if pw == 0 {
		fmt.Fprintln(w, "(empty image)")
		return w.Flush()
	}

	canvas := image.NewRGBA(image.Rect(0, 0, pw, ph))
	bg := t.Background
	if bg == nil {
		bg = color.Black
	}
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.ApproxBiLinear.Scale(canvas, canvas.Bounds(), img, img.Bounds(), draw.Over, nil)

	writeBlocks(w, canvas)
	return w.Flush()
}

// writeBlocks emits two pixel rows per line of text.
func writeBlocks(w *bufio.Writer, m *image.RGBA) {
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := m.RGBAAt(x, y)
			if y+1 < b.Max.Y {
				bot := m.RGBAAt(x, y+1)
				fmt.Fprintf(w, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", top.R, top.G, top.B, bot.R, bot.G, bot.B)
			} else {
				fmt.Fprintf(w, "\x1b[38;2;%d;%d;%dm\x1b[49m▀", top.R, top.G, top.B)
			}
		}
		w.WriteString("\x1b[0m\n")
	}
}

// Header returns the title line for an image: its name, dimensions and,
// when size is not negative, the file size.
func Header(name string, bounds image.Rectangle, size int64) string {
	s := fmt.Sprintf("%s  %dx%d", name, bounds.Dx(), bounds.Dy())
	if size >= 0 {
		s += "  " + HumanSize(size)
	}
	return s
}

// HumanSize formats n bytes with a binary unit and two decimals,
// e.g. "1.50 KB".
func HumanSize(n int64) string {
	units := []string{"B", "KB", "MB", "GB"}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.2f %s", v, units[i])
}
