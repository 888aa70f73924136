package tableio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/tablekit/tablekit/pkg/errors"
	"github.com/tablekit/tablekit/pkg/table"
)

// CSVOptions configures the CSV codec. The zero value reads and writes
// standard comma-separated files with empty cells as missing values.
type CSVOptions struct {
	// Comma is the field delimiter (default ',').
	Comma rune
	// Missing is the string that represents a missing value. Cells equal to
	// it decode as null, and nulls encode as it. The default is the empty
	// string.
	Missing string
	// Infer runs every cell through the type inference chain (int, float,
	// date, string). Without it all cells decode as strings.
	Infer bool
	// Types requests explicit kinds for specific columns, overriding Infer.
	// Cells that do not parse as the requested kind stay strings.
	Types map[string]table.Kind
}

// ReadCSV decodes a CSV document from r into a table.
//
// The first record is the header and defines the column names. All
// subsequent records must have the same number of fields; ragged input
// fails with INVALID_FORMAT, as do empty or duplicate header names. An
// input with only a header decodes as a zero-row table. ReadCSV does not
// close r.
func ReadCSV(r io.Reader, opts CSVOptions) (*table.Table, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "csv input is empty")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read csv header")
	}
	b, err := table.NewBuilder(header...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid csv header")
	}

	row := make([]table.Value, len(header))
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read csv record")
		}
		for i, field := range record {
			row[i] = decodeField(header[i], field, opts)
		}
		if err := b.AppendRow(row...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "append csv record")
		}
	}
	return b.Table()
}

func decodeField(column, field string, opts CSVOptions) table.Value {
	if field == opts.Missing {
		return table.Null()
	}
	if k, ok := opts.Types[column]; ok {
		if v, ok := table.ParseAs(field, k); ok {
			return v
		}
		return table.String(field)
	}
	if opts.Infer {
		return table.Infer(field)
	}
	return table.String(field)
}

// WriteCSV encodes a table as CSV: a header record with the column names,
// then one record per row using each value's display form. Nulls encode as
// the Missing string.
func WriteCSV(t *table.Table, w io.Writer, opts CSVOptions) error {
	cw := csv.NewWriter(w)
	if opts.Comma != 0 {
		cw.Comma = opts.Comma
	}

	if err := cw.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	cols := t.Columns()
	record := make([]string, len(cols))
	for r := 0; r < t.NumRows(); r++ {
		for i, c := range cols {
			v := c.Values[r]
			if v.IsNull {
				record[i] = opts.Missing
			} else {
				record[i] = v.Format()
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportCSV reads a CSV file at path and returns the decoded table.
// The error wraps the underlying cause with the file path for context.
func ImportCSV(path string, opts CSVOptions) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f, opts)
}

// ExportCSV writes a table to a CSV file at path.
// This is a convenience wrapper around [WriteCSV] for file-based output.
func ExportCSV(t *table.Table, path string, opts CSVOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteCSV(t, f, opts)
}
