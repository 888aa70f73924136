package table

import (
	"errors"
	"slices"
)

var (
	// ErrEmptyColumnName is returned by [New] and derivation methods when a
	// column name is empty. All columns must have non-empty names.
	ErrEmptyColumnName = errors.New("column name must not be empty")

	// ErrDuplicateColumn is returned by [New], [Table.WithColumn] and
	// [Table.Rename] when a column name is already in use. Column names must
	// be unique within a table.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrUnknownColumn is returned by derivation methods when a referenced
	// column does not exist in the table.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrRaggedColumns is returned by [New] and [Table.WithColumn] when
	// columns have different lengths. Tables are strictly rectangular.
	ErrRaggedColumns = errors.New("columns must have equal length")

	// ErrRowLength is returned by [Builder.AppendRow] when the number of
	// values does not match the number of columns.
	ErrRowLength = errors.New("row length must match column count")
)

// Column is a named, ordered sequence of values. Within a [Table] all
// columns have the same length.
type Column struct {
	Name   string  // Unique name within the table
	Values []Value // Cell values, one per row
}

// Table is an immutable rectangular dataset: an ordered sequence of named
// columns of equal length. Column order is significant and preserved by all
// operations.
//
// Tables are value-semantics at the API level: no method mutates the
// receiver, and derivation methods ([Table.WithColumn], [Table.Drop],
// [Table.Rename], [Table.Select]) return new tables that share value slices
// with the original where possible. Callers must therefore not modify value
// slices obtained from or passed into a table.
//
// The zero value is not usable - use [New] or [Builder] to create a valid
// Table. Read access is safe for concurrent use.
type Table struct {
	cols  []Column
	index map[string]int // name -> position in cols
}

// New creates a table from the given columns. It returns ErrEmptyColumnName
// if a column has no name, ErrDuplicateColumn if two columns share a name,
// or ErrRaggedColumns if the columns differ in length.
//
// The table takes ownership of the value slices: callers must not modify
// them after the call. A table with zero columns is valid and has zero rows.
func New(cols ...Column) (*Table, error) {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if c.Name == "" {
			return nil, ErrEmptyColumnName
		}
		if _, exists := index[c.Name]; exists {
			return nil, ErrDuplicateColumn
		}
		if len(c.Values) != len(cols[0].Values) {
			return nil, ErrRaggedColumns
		}
		index[c.Name] = i
	}
	return &Table{cols: slices.Clone(cols), index: index}, nil
}

// NumRows returns the number of rows. A table with no columns has zero rows.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Values)
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// ColumnNames returns the column names in table order.
// The returned slice is a copy and can be safely modified.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in table order. The outer slice is a copy, but
// the value slices are shared with the table and must not be modified.
func (t *Table) Columns() []Column { return slices.Clone(t.cols) }

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnIndex returns the position of the named column and true, or 0 and
// false if the column does not exist.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Column returns the named column and true, or a zero Column and false if it
// does not exist. The value slice is shared with the table.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.cols[i], true
}

// ColumnAt returns the column at position i. It panics if i is out of range,
// mirroring slice indexing.
func (t *Table) ColumnAt(i int) Column { return t.cols[i] }

// Cell returns the value at the given row in the named column and true, or a
// zero Value and false if the column does not exist or the row is out of
// range.
func (t *Table) Cell(row int, name string) (Value, bool) {
	i, ok := t.index[name]
	if !ok || row < 0 || row >= t.NumRows() {
		return Value{}, false
	}
	return t.cols[i].Values[row], true
}

// Row returns the values of row i across all columns, in column order.
// The returned slice is freshly allocated. It panics if i is out of range.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.cols))
	for c := range t.cols {
		row[c] = t.cols[c].Values[i]
	}
	return row
}

// WithColumn returns a new table with the column appended after the existing
// columns. Returns ErrEmptyColumnName, ErrDuplicateColumn or
// ErrRaggedColumns on invalid input. On a zero-column table any length is
// accepted and defines the row count.
func (t *Table) WithColumn(c Column) (*Table, error) {
	if c.Name == "" {
		return nil, ErrEmptyColumnName
	}
	if _, exists := t.index[c.Name]; exists {
		return nil, ErrDuplicateColumn
	}
	if len(t.cols) > 0 && len(c.Values) != t.NumRows() {
		return nil, ErrRaggedColumns
	}
	cols := make([]Column, 0, len(t.cols)+1)
	cols = append(cols, t.cols...)
	cols = append(cols, c)
	return New(cols...)
}

// Drop returns a new table without the named columns. Returns
// ErrUnknownColumn if any name does not exist. Dropping all columns yields a
// valid empty table.
func (t *Table) Drop(names ...string) (*Table, error) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := t.index[n]; !ok {
			return nil, ErrUnknownColumn
		}
		drop[n] = true
	}
	cols := make([]Column, 0, len(t.cols)-len(drop))
	for _, c := range t.cols {
		if !drop[c.Name] {
			cols = append(cols, c)
		}
	}
	return New(cols...)
}

// Rename returns a new table with one column renamed. Returns
// ErrUnknownColumn if oldName does not exist, ErrEmptyColumnName if newName
// is empty, or ErrDuplicateColumn if newName is already in use by another
// column. Renaming a column to its own name is a no-op.
func (t *Table) Rename(oldName, newName string) (*Table, error) {
	i, ok := t.index[oldName]
	if !ok {
		return nil, ErrUnknownColumn
	}
	if newName == "" {
		return nil, ErrEmptyColumnName
	}
	if j, exists := t.index[newName]; exists && j != i {
		return nil, ErrDuplicateColumn
	}
	cols := slices.Clone(t.cols)
	cols[i].Name = newName
	return New(cols...)
}

// Select returns a new table containing only the named columns, in the given
// order. Returns ErrUnknownColumn if a name does not exist or
// ErrDuplicateColumn if a name is repeated. Select is the column projection
// and reordering primitive.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		i, ok := t.index[n]
		if !ok {
			return nil, ErrUnknownColumn
		}
		cols = append(cols, t.cols[i])
	}
	return New(cols...)
}

// Equal reports whether two tables have identical column names in identical
// order and cell-wise equal values (per [Value.Equal]).
func Equal(a, b *Table) bool {
	if a.NumCols() != b.NumCols() || a.NumRows() != b.NumRows() {
		return false
	}
	for i, ca := range a.cols {
		cb := b.cols[i]
		if ca.Name != cb.Name {
			return false
		}
		for r := range ca.Values {
			if !ca.Values[r].Equal(cb.Values[r]) {
				return false
			}
		}
	}
	return true
}

// EqualUnordered reports whether two tables contain the same columns with
// cell-wise equal values, ignoring column order. Row order still matters.
func EqualUnordered(a, b *Table) bool {
	if a.NumCols() != b.NumCols() || a.NumRows() != b.NumRows() {
		return false
	}
	for _, ca := range a.cols {
		cb, ok := b.Column(ca.Name)
		if !ok {
			return false
		}
		for r := range ca.Values {
			if !ca.Values[r].Equal(cb.Values[r]) {
				return false
			}
		}
	}
	return true
}
