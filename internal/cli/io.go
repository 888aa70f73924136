package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tablekit/tablekit/pkg/arrowio"
	"github.com/tablekit/tablekit/pkg/errors"
	"github.com/tablekit/tablekit/pkg/table"
	"github.com/tablekit/tablekit/pkg/tableio"
)

// Table formats recognized by file extension.
const (
	formatCSV     = "csv"
	formatJSON    = "json"
	formatParquet = "parquet"
)

// readOptions holds the input flags shared by every command that reads a
// table from a file.
type readOptions struct {
	format  string // explicit format, overrides extension detection
	missing string // string read as null (CSV only)
	infer   bool   // run type inference on cells (CSV only)

	// kinds pins column kinds by name (recipes only; no flag).
	kinds map[string]table.Kind
}

// addReadFlags registers the shared input flags on cmd.
func addReadFlags(cmd *cobra.Command, opts *readOptions) {
	cmd.Flags().StringVar(&opts.format, "from", "", "input format: csv, json, parquet (default: by extension)")
	cmd.Flags().StringVar(&opts.missing, "missing", "", "string read as null in CSV input")
	cmd.Flags().BoolVar(&opts.infer, "infer", false, "infer column types in CSV input")
}

// detectFormat resolves the table format for path. An explicit format wins;
// otherwise the file extension decides. An empty path (stdout) and an
// extensionless path both default to CSV.
func detectFormat(path, format string) (string, error) {
	if format != "" {
		if err := errors.ValidateFormat(format); err != nil {
			return "", err
		}
		return format, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", "":
		return formatCSV, nil
	case ".json":
		return formatJSON, nil
	case ".parquet":
		return formatParquet, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot detect format of %s (expected a csv, json, or parquet extension)", path)
	}
}

// readTable loads a table from path, detecting the format by extension
// unless opts.format overrides it.
func readTable(path string, opts readOptions) (*table.Table, error) {
	format, err := detectFormat(path, opts.format)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()

	switch format {
	case formatCSV:
		return tableio.ReadCSV(f, tableio.CSVOptions{
			Missing: opts.missing,
			Infer:   opts.infer,
			Types:   opts.kinds,
		})
	case formatJSON:
		return tableio.ReadJSON(f)
	default:
		return arrowio.ReadParquet(f)
	}
}

// writeTable writes t to path in the format implied by its extension (or the
// explicit format). An empty path writes to stdout, defaulting to CSV.
func writeTable(t *table.Table, path, format string) error {
	format, err := detectFormat(path, format)
	if err != nil {
		return err
	}
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return writeTableTo(t, out, format)
}

// writeTableTo encodes t onto w in the given format.
func writeTableTo(t *table.Table, w io.Writer, format string) error {
	switch format {
	case formatCSV:
		return tableio.WriteCSV(t, w, tableio.CSVOptions{})
	case formatJSON:
		return tableio.WriteJSON(t, w)
	case formatParquet:
		return arrowio.WriteParquet(t, w)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
