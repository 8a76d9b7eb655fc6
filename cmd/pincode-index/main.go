// Command pincode-index builds the postal-code index from a store CSV and
// prints it.
//
// Usage:
//
//	pincode-index [-format json|yaml] [-log-level info] [-max-size bytes] FILE
//
// FILE may be "-" to read stdin. Skipped rows are logged to stderr; the
// summary and index go to stdout. The exit code is 1 when the file cannot
// be read or contains no data.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JonMunkholm/storemap/internal/core"
	"github.com/JonMunkholm/storemap/internal/logging"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// output is what the command prints.
type output struct {
	Summary core.ParseSummary `json:"summary" yaml:"summary"`
	Index   core.PostalIndex  `json:"index" yaml:"index"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pincode-index", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", "json", "output format: json or yaml")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn, error")
	logFormat := fs.String("log-format", "text", "log format: text or json")
	maxSize := fs.Int64("max-size", 0, "reject input larger than this many bytes (0 = no limit)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 || (*format != "json" && *format != "yaml") {
		fs.Usage()
		return 2
	}

	logger := slog.New(logging.NewHandler(stderr, *logLevel, *logFormat))
	path := fs.Arg(0)

	text, err := readInput(path, stdin, *maxSize)
	if err != nil {
		logger.Error("read input failed", "file", path, "error", err)
		fmt.Fprintln(stderr, core.FormatUserError(err))
		return 1
	}

	index, summary := core.BuildIndex(text)
	if err := summary.Err(); err != nil {
		logger.Error("no data", "file", path, "error", err)
		fmt.Fprintln(stderr, summary.Error)
		return 1
	}

	for _, skip := range summary.Skipped {
		logger.Warn("skipping row", "line", skip.Line, "reason", skip.Reason, "text", skip.Text)
	}
	logger.Info("index built",
		"file", path,
		"processed_rows", summary.ProcessedRows,
		"skipped_rows", summary.SkippedRows,
		"postal_codes", index.Len(),
		"stores", index.StoreCount(),
	)

	if err := write(stdout, *format, output{Summary: summary, Index: index}); err != nil {
		logger.Error("write output failed", "error", err)
		return 1
	}
	return 0
}

func readInput(path string, stdin io.Reader, limit int64) (string, error) {
	if path == "-" {
		return core.ReadText(stdin, limit)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrReadFailed, err)
	}
	defer f.Close()
	return core.ReadText(f, limit)
}

func write(w io.Writer, format string, out output) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		return errors.New("unknown format " + format)
	}
}
