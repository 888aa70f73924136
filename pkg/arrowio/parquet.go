package arrowio

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/tablekit/tablekit/pkg/errors"
	"github.com/tablekit/tablekit/pkg/table"
)

// WriteParquet encodes a table as Snappy-compressed Parquet. The Arrow
// schema is stored in the file metadata so that [ReadParquet] recovers the
// original column types, including timestamp precision.
func WriteParquet(t *table.Table, w io.Writer) error {
	rec, err := ToRecord(t)
	if err != nil {
		return err
	}
	defer rec.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	fw, err := pqarrow.NewFileWriter(rec.Schema(), w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return fmt.Errorf("write parquet data: %w", err)
	}
	// Close finalizes the footer; without it the file is unreadable.
	if err := fw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

// ReadParquet decodes a Parquet file into a table. Parquet needs random
// access for its footer, so the input is a ReaderAtSeeker (an *os.File or
// *bytes.Reader) rather than a plain io.Reader. Type mapping follows
// [FromRecord]. ReadParquet does not close r.
func ReadParquet(r parquet.ReaderAtSeeker) (*table.Table, error) {
	mem := memory.NewGoAllocator()
	pf, err := file.NewParquetReader(r, file.WithReadProps(parquet.NewReaderProperties(mem)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "open parquet data")
	}
	defer pf.Close()

	ar, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read parquet schema")
	}
	atbl, err := ar.ReadTable(context.Background())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read parquet data")
	}
	defer atbl.Release()

	// Collect values across however many record chunks the reader yields.
	schema := atbl.Schema()
	vals := make([][]table.Value, schema.NumFields())
	tr := array.NewTableReader(atbl, atbl.NumRows())
	defer tr.Release()
	for tr.Next() {
		rec := tr.Record()
		for i := 0; i < int(rec.NumCols()); i++ {
			col := rec.Column(i)
			for pos := 0; pos < col.Len(); pos++ {
				vals[i] = append(vals[i], cellValue(col, pos))
			}
		}
	}
	if err := tr.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read parquet data")
	}

	cols := make([]table.Column, schema.NumFields())
	for i := range cols {
		cols[i] = table.Column{Name: schema.Field(i).Name, Values: vals[i]}
	}
	t, err := table.New(cols...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid parquet schema")
	}
	return t, nil
}

// ImportParquet reads a Parquet file at path and returns the decoded table.
// The error wraps the underlying cause with the file path for context.
func ImportParquet(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadParquet(f)
}

// ExportParquet writes a table to a Parquet file at path.
// This is a convenience wrapper around [WriteParquet] for file-based output.
func ExportParquet(t *table.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteParquet(t, f)
}
