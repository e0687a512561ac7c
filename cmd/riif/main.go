// riif converts images to and from the RIIF format and previews them.
//
// Usage:
//
//	riif [options] (-e|-d|-v) <file>
//
// Modes (exactly one):
//
//	-e, --encode  Encode an image to <base>.riif
//	-d, --decode  Save a RIIF file as <base>.png (see decode.format)
//	-v, --view    Preview a RIIF file or any supported image in the terminal
//
// Options:
//
//	--config <path>  YAML settings file (default $RIIF_CONFIG)
//	-q, --quiet      Do not print what was written.
//	-h, --help       Show this help message.
//	--version        Show version information.
//
// Exit codes:
//
//	0: Success
//	1: The conversion failed
//	2: Usage error
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrjoshuak/go-riif/config"
	"github.com/mrjoshuak/go-riif/imageio"
	"github.com/mrjoshuak/go-riif/riif"
	"github.com/mrjoshuak/go-riif/view"
)

const version = "1.0.0"

type mode int

const (
	modeNone mode = iota
	modeEncode
	modeDecode
	modeView
)

func (m mode) String() string {
	switch m {
	case modeEncode:
		return "--encode"
	case modeDecode:
		return "--decode"
	case modeView:
		return "--view"
	default:
		return "none"
	}
}

var errUsage = errors.New("usage error")

type options struct {
	mode       mode
	input      string
	configPath string
	quiet      bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stdout)
	if err != nil {
		if errors.Is(err, errHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printUsage(stderr)
		return 2
	}

	cfg, err := config.Load(config.Path(opts.configPath))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	switch opts.mode {
	case modeEncode:
		err = encode(opts, cfg, stdout)
	case modeDecode:
		err = decode(opts, cfg, stdout)
	case modeView:
		err = viewFile(opts, cfg, stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: error: %v\n", opts.input, err)
		return 1
	}
	return 0
}

var errHelp = errors.New("help requested")

func parseArgs(args []string, stdout io.Writer) (*options, error) {
	opts := &options{}
	setMode := func(m mode) error {
		if opts.mode != modeNone && opts.mode != m {
			return fmt.Errorf("%w: %s conflicts with %s", errUsage, m, opts.mode)
		}
		opts.mode = m
		return nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		var err error
		switch arg {
		case "-e", "--encode":
			err = setMode(modeEncode)
		case "-d", "--decode":
			err = setMode(modeDecode)
		case "-v", "--view":
			err = setMode(modeView)
		case "-q", "--quiet":
			opts.quiet = true
		case "--config":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%w: --config needs a path", errUsage)
			}
			i++
			opts.configPath = args[i]
		case "-h", "--help":
			printUsage(stdout)
			return nil, errHelp
		case "--version":
			fmt.Fprintf(stdout, "riif version %s\n", version)
			return nil, errHelp
		default:
			if strings.HasPrefix(arg, "--config=") {
				opts.configPath = strings.TrimPrefix(arg, "--config=")
				continue
			}
			if strings.HasPrefix(arg, "-") && arg != "-" {
				return nil, fmt.Errorf("%w: unknown option %s", errUsage, arg)
			}
			if opts.input != "" {
				return nil, fmt.Errorf("%w: more than one input file", errUsage)
			}
			opts.input = arg
		}
		if err != nil {
			return nil, err
		}
	}

	if opts.mode == modeNone {
		return nil, fmt.Errorf("%w: specify one of --encode, --decode or --view", errUsage)
	}
	if opts.input == "" {
		return nil, fmt.Errorf("%w: no input file specified", errUsage)
	}
	return opts, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage: riif [options] (-e|-d|-v) <file>

Convert images to and from RIIF and preview them.

Modes:
  -e, --encode     Encode an image to <base>.riif
  -d, --decode     Save a RIIF file as <base>.png
  -v, --view       Preview a RIIF file or image in the terminal

Options:
  --config <path>  YAML settings file (default $RIIF_CONFIG)
  -q, --quiet      Do not print what was written.
  -h, --help       Show this help message.
  --version        Show version information.

Examples:
  riif -e photo.png                Writes photo.riif
  riif -d photo.riif               Writes photo.png
  riif -v photo.riif               Shows a preview`)
}

// outputPath replaces the extension of input with ext.
func outputPath(input, ext string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}

func encode(opts *options, cfg *config.Config, stdout io.Writer) error {
	out := outputPath(opts.input, ".riif")
	if out == opts.input {
		return fmt.Errorf("refusing to overwrite input %s", out)
	}
	b, err := imageio.LoadBitmap(opts.input)
	if err != nil {
		return err
	}
	if err := riif.EncodeFile(out, b, cfg.RiifOptions()); err != nil {
		return err
	}
	if !opts.quiet {
		fmt.Fprintf(stdout, "Encoded '%s' to '%s'\n", opts.input, out)
	}
	return nil
}

func decode(opts *options, cfg *config.Config, stdout io.Writer) error {
	b, err := riif.DecodeFile(opts.input, cfg.RiifOptions())
	if err != nil {
		return err
	}
	out := outputPath(opts.input, cfg.DecodeExt())
	if out == opts.input {
		return fmt.Errorf("refusing to overwrite input %s", out)
	}
	if err := imageio.Save(b, out); err != nil {
		return err
	}
	if !opts.quiet {
		fmt.Fprintf(stdout, "Saved RIIF '%s' as %s '%s'\n", opts.input, strings.ToUpper(strings.TrimPrefix(cfg.DecodeExt(), ".")), out)
	}
	return nil
}

func viewFile(opts *options, cfg *config.Config, stdout io.Writer) error {
	img, err := imageio.Load(opts.input)
	if err != nil {
		return err
	}
	term := view.NewTerminal(stdout, cfg.View.Width)
	term.Zoom = cfg.View.Zoom

	var v view.Viewer = term
	return v.View(img, opts.input)
}
