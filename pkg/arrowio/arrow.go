package arrowio

import (
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/tablekit/tablekit/pkg/errors"
	"github.com/tablekit/tablekit/pkg/table"
)

// ToRecord converts a table into an Arrow record batch.
//
// Each column maps to an Arrow field: string to utf8, int to int64, float
// to float64, bool to boolean and time to microsecond timestamps. A column
// whose non-null cells do not share a single kind, or that has no non-null
// cells at all, degrades to utf8 with each cell encoded by its display
// form. Nulls are preserved as Arrow nulls and every field is nullable.
//
// The caller owns the returned record and must call Release on it.
func ToRecord(t *table.Table) (arrow.Record, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "table must not be nil")
	}

	mem := memory.NewGoAllocator()
	cols := t.Columns()
	fields := make([]arrow.Field, len(cols))
	arrs := make([]arrow.Array, len(cols))
	for i, c := range cols {
		dtype := columnType(c)
		fields[i] = arrow.Field{Name: c.Name, Type: dtype, Nullable: true}

		bldr := array.NewBuilder(mem, dtype)
		for _, v := range c.Values {
			appendValue(bldr, v)
		}
		arrs[i] = bldr.NewArray()
		bldr.Release()
	}

	schema := arrow.NewSchema(fields, nil)
	rec := array.NewRecord(schema, arrs, int64(t.NumRows()))
	for _, a := range arrs {
		a.Release()
	}
	return rec, nil
}

// columnType maps a column to its Arrow type. Columns whose non-null cells
// share a kind map to the matching primitive type; mixed or all-null
// columns degrade to utf8.
func columnType(c table.Column) arrow.DataType {
	k, ok := unifiedKind(c)
	if !ok {
		return arrow.BinaryTypes.String
	}
	switch k {
	case table.KindInt:
		return arrow.PrimitiveTypes.Int64
	case table.KindFloat:
		return arrow.PrimitiveTypes.Float64
	case table.KindBool:
		return arrow.FixedWidthTypes.Boolean
	case table.KindTime:
		return arrow.FixedWidthTypes.Timestamp_us
	default:
		return arrow.BinaryTypes.String
	}
}

// unifiedKind returns the kind shared by every non-null cell of a column
// and true, or false when the cells mix kinds or are all null.
func unifiedKind(c table.Column) (table.Kind, bool) {
	var kind table.Kind
	seen := false
	for _, v := range c.Values {
		if v.IsNull {
			continue
		}
		if !seen {
			kind, seen = v.Kind, true
			continue
		}
		if v.Kind != kind {
			return 0, false
		}
	}
	return kind, seen
}

// appendValue appends one cell to a builder created for its column's Arrow
// type. The string builder is the degradation target and accepts any kind
// via the cell's display form.
func appendValue(bldr array.Builder, v table.Value) {
	if v.IsNull {
		bldr.AppendNull()
		return
	}
	switch b := bldr.(type) {
	case *array.StringBuilder:
		b.Append(v.Format())
	case *array.Int64Builder:
		b.Append(v.Raw.(int64))
	case *array.Float64Builder:
		b.Append(v.Raw.(float64))
	case *array.BooleanBuilder:
		b.Append(v.Raw.(bool))
	case *array.TimestampBuilder:
		b.Append(arrow.Timestamp(v.Raw.(time.Time).UnixMicro()))
	}
}

// FromRecord converts an Arrow record batch into a table.
//
// Strings, integers of any width, unsigned integers, floats, booleans,
// dates and timestamps map to the corresponding value kinds, widening to
// int64 and float64 where needed. Any other Arrow type degrades to the
// element's string form rather than failing, so records produced by other
// systems always load.
func FromRecord(rec arrow.Record) (*table.Table, error) {
	cols := make([]table.Column, rec.NumCols())
	for i := range cols {
		col := rec.Column(i)
		vals := make([]table.Value, rec.NumRows())
		for pos := range vals {
			vals[pos] = cellValue(col, pos)
		}
		cols[i] = table.Column{Name: rec.ColumnName(i), Values: vals}
	}
	t, err := table.New(cols...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid record schema")
	}
	return t, nil
}

// cellValue extracts one element of an Arrow array as a table value.
func cellValue(col arrow.Array, pos int) table.Value {
	if col.IsNull(pos) {
		return table.Null()
	}

	switch col.DataType().ID() {
	case arrow.STRING:
		return table.String(col.(*array.String).Value(pos))

	case arrow.LARGE_STRING:
		return table.String(col.(*array.LargeString).Value(pos))

	case arrow.BINARY:
		return table.String(string(col.(*array.Binary).Value(pos)))

	case arrow.BOOL:
		return table.Bool(col.(*array.Boolean).Value(pos))

	case arrow.INT8:
		return table.Int(int64(col.(*array.Int8).Value(pos)))

	case arrow.INT16:
		return table.Int(int64(col.(*array.Int16).Value(pos)))

	case arrow.INT32:
		return table.Int(int64(col.(*array.Int32).Value(pos)))

	case arrow.INT64:
		return table.Int(col.(*array.Int64).Value(pos))

	case arrow.UINT8:
		return table.Int(int64(col.(*array.Uint8).Value(pos)))

	case arrow.UINT16:
		return table.Int(int64(col.(*array.Uint16).Value(pos)))

	case arrow.UINT32:
		return table.Int(int64(col.(*array.Uint32).Value(pos)))

	case arrow.UINT64:
		return table.Int(int64(col.(*array.Uint64).Value(pos)))

	case arrow.FLOAT32:
		return table.Float(float64(col.(*array.Float32).Value(pos)))

	case arrow.FLOAT64:
		return table.Float(col.(*array.Float64).Value(pos))

	case arrow.DATE32:
		return table.Time(col.(*array.Date32).Value(pos).ToTime())

	case arrow.DATE64:
		return table.Time(col.(*array.Date64).Value(pos).ToTime())

	case arrow.TIMESTAMP:
		ts := col.(*array.Timestamp)
		unit := ts.DataType().(*arrow.TimestampType).Unit
		return table.Time(ts.Value(pos).ToTime(unit))

	default:
		return table.String(col.ValueStr(pos))
	}
}
