// Package tableio provides CSV and JSON codecs for tables.
//
// # Overview
//
// This package moves tables between their in-memory form and the two
// text formats the toolkit speaks natively:
//
//   - CSV: header record plus one record per row
//   - JSON: records orientation, an array of flat objects
//
// Both codecs round-trip: a table written with [WriteCSV] or [WriteJSON]
// reads back with [ReadCSV] or [ReadJSON] with values and column order
// intact (CSV needs Infer or Types to recover non-string kinds, since the
// format is untyped).
//
// For the columnar binary format (Parquet) see the arrowio package, which
// goes through Apache Arrow.
//
// # Missing Values
//
// The explicit missing value maps to the empty string in CSV (configurable
// via [CSVOptions].Missing) and to null in JSON. This keeps "no
// observation" distinct from "observed empty string" in JSON; CSV cannot
// express that distinction, so empty cells read back as missing.
//
// # Reading and Writing
//
// Use [ReadCSV] and [ReadJSON] to decode from any io.Reader, or
// [ImportCSV] and [ImportJSON] to read from a file path:
//
//	t, err := tableio.ImportCSV("confirmed.csv", tableio.CSVOptions{Infer: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Use [WriteCSV] and [WriteJSON] to encode to any io.Writer, or
// [ExportCSV] and [ExportJSON] for file-based output.
//
// # Errors
//
// Structural problems in the input (ragged records, duplicate headers,
// nested JSON values) fail with INVALID_FORMAT. File access errors wrap
// the underlying cause with the path for context.
package tableio
