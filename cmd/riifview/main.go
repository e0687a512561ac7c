// riifview previews an image in the terminal.
//
// Usage:
//
//	riifview [-z <zoom>] [-w <columns>] <file>
//
// The file may be RIIF or any format riif -v accepts. Without -z the image
// is scaled down to fit the terminal width.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrjoshuak/go-riif/config"
	"github.com/mrjoshuak/go-riif/imageio"
	"github.com/mrjoshuak/go-riif/view"
)

func main() {
	cfg, err := config.Load(config.Path(""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	zoom := flag.Float64("z", cfg.View.Zoom, "zoom factor in [0.1, 3]; 0 fits the terminal")
	width := flag.Int("w", cfg.View.Width, "preview width in columns; 0 uses $COLUMNS")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: riifview [-z zoom] [-w columns] <file>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	if fi, err := os.Stat(path); err != nil || !fi.Mode().IsRegular() {
		fmt.Fprintf(os.Stderr, "Error: '%s' is not a valid file path.\n", path)
		os.Exit(1)
	}

	img, err := imageio.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: error: %v\n", path, err)
		os.Exit(1)
	}

	term := view.NewTerminal(os.Stdout, *width)
	term.Zoom = *zoom
	if err := term.View(img, path); err != nil {
		fmt.Fprintf(os.Stderr, "%s: error: %v\n", path, err)
		os.Exit(1)
	}
}
