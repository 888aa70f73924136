package tableio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/tablekit/tablekit/pkg/errors"
	"github.com/tablekit/tablekit/pkg/table"
)

// ReadJSON decodes a records-oriented JSON document from r into a table.
//
// The input must be an array of flat objects:
//
//	[
//	  {"country": "AU", "cases": 12},
//	  {"country": "NZ", "cases": 3}
//	]
//
// Columns are the union of all keys, ordered by first appearance; keys
// absent from an object decode as null for that row. Scalar mapping is
// string to string, number to int when integral and float otherwise,
// boolean to bool, and JSON null to the missing value. Nested arrays or
// objects fail with INVALID_FORMAT, as does anything that is not an array
// of objects. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*table.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var names []string
	index := make(map[string]int)
	var rows []map[string]table.Value

	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		row := make(map[string]table.Value)
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
			}
			key, ok := tok.(string)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "expected object key, got %v", tok)
			}
			val, err := decodeScalar(dec, key)
			if err != nil {
				return nil, err
			}
			if _, seen := index[key]; !seen {
				index[key] = len(names)
				names = append(names, key)
			}
			row[key] = val
		}
		if _, err := dec.Token(); err != nil { // closing '}'
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
		rows = append(rows, row)
	}
	if _, err := dec.Token(); err != nil { // closing ']'
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}

	cols := make([]table.Column, len(names))
	for i, name := range names {
		vals := make([]table.Value, len(rows))
		for r, row := range rows {
			if v, ok := row[name]; ok {
				vals[r] = v
			} else {
				vals[r] = table.Null()
			}
		}
		cols[i] = table.Column{Name: name, Values: vals}
	}
	t, err := table.New(cols...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid json records")
	}
	return t, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return errors.New(errors.ErrCodeInvalidFormat, "expected %q, got %v", want, tok)
	}
	return nil
}

func decodeScalar(dec *json.Decoder, key string) (table.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return table.Value{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json value for %q", key)
	}
	switch v := tok.(type) {
	case nil:
		return table.Null(), nil
	case string:
		return table.String(v), nil
	case bool:
		return table.Bool(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return table.Int(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return table.Value{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid number for %q", key)
		}
		return table.Float(f), nil
	case json.Delim:
		return table.Value{}, errors.New(errors.ErrCodeInvalidFormat, "nested values are not supported (key %q)", key)
	default:
		return table.Value{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported json value %v for %q", tok, key)
	}
}

// WriteJSON encodes a table as a records-oriented JSON array, one object
// per row with keys in column order. Nulls encode as JSON null, times as
// their display form. The output can be re-read with [ReadJSON] for
// round-trip processing.
func WriteJSON(t *table.Table, w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteString("[")
	cols := t.Columns()
	for r := 0; r < t.NumRows(); r++ {
		if r > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  {")
		for i, c := range cols {
			if i > 0 {
				buf.WriteString(", ")
			}
			key, err := json.Marshal(c.Name)
			if err != nil {
				return fmt.Errorf("encode key %q: %w", c.Name, err)
			}
			buf.Write(key)
			buf.WriteString(": ")
			val, err := marshalValue(c.Values[r])
			if err != nil {
				return fmt.Errorf("encode %s row %d: %w", c.Name, r, err)
			}
			buf.Write(val)
		}
		buf.WriteString("}")
	}
	if t.NumRows() > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")
	_, err := w.Write(buf.Bytes())
	return err
}

func marshalValue(v table.Value) ([]byte, error) {
	if v.IsNull {
		return []byte("null"), nil
	}
	switch v.Kind {
	case table.KindInt:
		i, _ := v.Raw.(int64)
		return []byte(strconv.FormatInt(i, 10)), nil
	case table.KindFloat, table.KindBool:
		return json.Marshal(v.Raw)
	default:
		return json.Marshal(v.Format())
	}
}

// ImportJSON reads a records-oriented JSON file at path and returns the
// decoded table.
func ImportJSON(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ExportJSON writes a table to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(t *table.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(t, f)
}
