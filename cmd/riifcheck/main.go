// riifcheck validates RIIF files.
//
// Usage:
//
//	riifcheck [-q|--quiet] [-s|--strict] <filename> [<filename> ...]
//
// Options:
//
//	-q, --quiet   Only output errors. Exit code indicates pass/fail.
//	-s, --strict  Also warn about rows whose stored filter differs from the
//	              one the reference encoder would choose.
//	-h, --help    Show this help message.
//	--version     Show version information.
//
// Exit codes:
//
//	0: All files valid
//	1: One or more files invalid
//	2: Error (file not found, etc.)
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrjoshuak/go-riif/compression"
	"github.com/mrjoshuak/go-riif/riif"
)

const version = "1.0.0"

// maxFileSize bounds the files riifcheck reads into memory.
const maxFileSize = 1 << 30

// maxListedRows caps how many offending rows are named in one message.
const maxListedRows = 8

// ValidationIssue represents a single validation problem found in a file.
type ValidationIssue struct {
	Severity string // "error" or "warning"
	Message  string
}

// ValidationResult contains all validation results for a file.
type ValidationResult struct {
	Filename string
	Issues   []ValidationIssue
	Checks   []string // List of checks performed
	Info     *riif.Info
}

// IsValid returns true if there are no errors (warnings are ok).
func (r *ValidationResult) IsValid() bool {
	return !r.HasErrors()
}

// HasErrors returns true if there are any error-level issues.
func (r *ValidationResult) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == "error" {
			return true
		}
	}
	return false
}

func (r *ValidationResult) addErrorf(format string, args ...any) {
	r.Issues = append(r.Issues, ValidationIssue{Severity: "error", Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarningf(format string, args ...any) {
	r.Issues = append(r.Issues, ValidationIssue{Severity: "warning", Message: fmt.Sprintf(format, args...)})
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	quiet := false
	strict := false
	files := []string{}

	for _, arg := range args {
		switch arg {
		case "-q", "--quiet":
			quiet = true
		case "-s", "--strict":
			strict = true
		case "-h", "--help":
			printUsage(stdout)
			return 0
		case "--version":
			fmt.Fprintf(stdout, "riifcheck version %s\n", version)
			fmt.Fprintln(stdout, "Part of go-riif - Pure Go RIIF codec")
			return 0
		default:
			if strings.HasPrefix(arg, "-") {
				fmt.Fprintf(stderr, "Unknown option: %s\n", arg)
				printUsage(stderr)
				return 2
			}
			files = append(files, arg)
		}
	}

	if len(files) == 0 {
		fmt.Fprintln(stderr, "Error: No input files specified")
		printUsage(stderr)
		return 2
	}

	validCount := 0
	errorOccurred := false

	for _, filename := range files {
		result, err := validateFile(filename, strict)
		if err != nil {
			if !quiet {
				fmt.Fprintf(stderr, "%s: error: %v\n", filename, err)
			}
			errorOccurred = true
			continue
		}

		if result.IsValid() {
			validCount++
		}

		if !quiet {
			printResult(stdout, result)
		} else if result.HasErrors() {
			for _, issue := range result.Issues {
				if issue.Severity == "error" {
					fmt.Fprintf(stderr, "%s: %s\n", filename, issue.Message)
				}
			}
		}
	}

	if len(files) > 1 && !quiet {
		fmt.Fprintf(stdout, "\nSummary: %d of %d files valid\n", validCount, len(files))
	}

	if errorOccurred {
		return 2
	}
	if validCount < len(files) {
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage: riifcheck [options] <filename> [<filename> ...]

Validate RIIF files.

Options:
  -q, --quiet    Only output errors. Exit code indicates pass/fail.
  -s, --strict   Also check that each row uses the filter the encoder would pick.
  -h, --help     Show this help message.
  --version      Show version information.

Exit codes:
  0: All files valid
  1: One or more files invalid
  2: Error (file not found, permission denied, etc.)

Examples:
  riifcheck image.riif                Validate a single file
  riifcheck -q *.riif                 Validate all RIIF files silently
  riifcheck -s image.riif             Validate with strict mode`)
}

func printResult(w io.Writer, result *ValidationResult) {
	if result.IsValid() {
		fmt.Fprintf(w, "%s: OK", result.Filename)
		if info := result.Info; info != nil {
			fmt.Fprintf(w, " (%dx%d, %d bytes compressed, zlib %s)", info.Width, info.Height, info.CompressedSize, info.FLevel)
		}
		fmt.Fprintln(w)
	} else {
		fmt.Fprintf(w, "%s: INVALID\n", result.Filename)
	}
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "  [%s] %s\n", strings.ToUpper(issue.Severity), issue.Message)
	}

	if len(result.Issues) > 0 {
		fmt.Fprintf(w, "  Checks performed: %s\n", strings.Join(result.Checks, ", "))
	}
}

// validateFile validates a single RIIF file and returns the results.
func validateFile(filename string, strict bool) (*ValidationResult, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if stat.Size() > maxFileSize {
		result := &ValidationResult{Filename: filename, Checks: []string{"file size"}}
		result.addErrorf("file too large for validation (%d bytes, max %d)", stat.Size(), maxFileSize)
		return result, nil
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return validateData(filename, data, strict), nil
}

// validateData runs every check against an in-memory file.
func validateData(filename string, data []byte, strict bool) *ValidationResult {
	result := &ValidationResult{
		Filename: filename,
		Issues:   []ValidationIssue{},
		Checks:   []string{},
	}

	// 1. Header
	result.Checks = append(result.Checks, "header")
	if len(data) < riif.HeaderSize {
		result.addErrorf("file too small to be a valid RIIF file (%d bytes)", len(data))
		return result
	}
	if !bytes.HasPrefix(data, []byte(riif.Magic)) {
		result.addErrorf("invalid magic number %q (expected %q)", data[:len(riif.Magic)], riif.Magic)
		return result
	}

	// 2. Filter tags and pixel stream layout
	result.Checks = append(result.Checks, "filter tags", "pixel stream")
	info, err := riif.InspectBytes(data)
	result.Info = info
	if err != nil {
		switch {
		case errors.Is(err, riif.ErrTooLarge):
			result.addErrorf("image dimensions overflow: %v", err)
		case errors.Is(err, riif.ErrTruncated):
			result.addErrorf("filter tags truncated: %v", err)
		default:
			result.addErrorf("pixel stream: %v", err)
		}
		if info == nil || errors.Is(err, riif.ErrTruncated) {
			return result
		}
	}

	if n := len(info.BadTagRows); n > 0 {
		result.addErrorf("%d rows have undefined filter tags (rows %s)", n, listRows(info.BadTagRows))
	}
	if err == nil {
		if want := info.PixelBytes(); uint64(info.InflatedSize) != want {
			result.addErrorf("pixel stream inflates to %d bytes, expected %d", info.InflatedSize, want)
		}
		if info.Trailing > 0 {
			result.addWarningf("%d bytes of trailing data after pixel stream", info.Trailing)
		}
		if strict && info.FLevel == compression.FLevelFastest && info.PixelBytes() > 0 && info.CompressedSize >= int(info.PixelBytes()) {
			result.addWarningf("pixel stream is stored without compression")
		}
	}

	if result.HasErrors() {
		return result
	}

	// 3. Full decode
	result.Checks = append(result.Checks, "decode")
	img, err := riif.Unmarshal(data, &riif.Options{MaxPixelBytes: -1})
	if err != nil {
		result.addErrorf("decode failed: %v", err)
		return result
	}

	// 4. Filter choice
	if strict {
		result.Checks = append(result.Checks, "filter choice")
		stored := data[riif.HeaderSize : riif.HeaderSize+img.Height]
		var differ []int
		for y, tag := range riif.FilterTags(img, nil) {
			if tag != stored[y] {
				differ = append(differ, y)
			}
		}
		if len(differ) > 0 {
			result.addWarningf("%d rows use a filter other than the lowest-sum choice (rows %s)", len(differ), listRows(differ))
		}
	}

	return result
}

func listRows(rows []int) string {
	parts := make([]string, 0, maxListedRows+1)
	for i, r := range rows {
		if i == maxListedRows {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, fmt.Sprint(r))
	}
	return strings.Join(parts, ", ")
}
