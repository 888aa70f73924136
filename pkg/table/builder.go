package table

// Builder assembles a [Table] row by row. It is the natural fit for codecs
// that read record-oriented input (CSV rows, JSON objects), where the schema
// is known up front but values arrive one row at a time.
//
// The zero value is not usable - use [NewBuilder]. Builder is not safe for
// concurrent use.
type Builder struct {
	names []string
	cols  [][]Value
	index map[string]int
}

// NewBuilder creates a builder for a table with the given column names.
// Returns ErrEmptyColumnName or ErrDuplicateColumn on invalid names. A
// builder with zero columns is valid and produces an empty table.
func NewBuilder(names ...string) (*Builder, error) {
	index := make(map[string]int, len(names))
	for i, n := range names {
		if n == "" {
			return nil, ErrEmptyColumnName
		}
		if _, exists := index[n]; exists {
			return nil, ErrDuplicateColumn
		}
		index[n] = i
	}
	return &Builder{
		names: names,
		cols:  make([][]Value, len(names)),
		index: index,
	}, nil
}

// AppendRow appends one row of values, in column order. Returns ErrRowLength
// if the number of values does not match the number of columns.
func (b *Builder) AppendRow(vals ...Value) error {
	if len(vals) != len(b.names) {
		return ErrRowLength
	}
	for i, v := range vals {
		b.cols[i] = append(b.cols[i], v)
	}
	return nil
}

// Set overwrites the value in the named column of the most recently appended
// row. Returns ErrUnknownColumn if the column does not exist. Set on an
// empty builder is a no-op.
func (b *Builder) Set(name string, v Value) error {
	i, ok := b.index[name]
	if !ok {
		return ErrUnknownColumn
	}
	if len(b.cols[i]) == 0 {
		return nil
	}
	b.cols[i][len(b.cols[i])-1] = v
	return nil
}

// NumRows returns the number of rows appended so far.
func (b *Builder) NumRows() int {
	if len(b.cols) == 0 {
		return 0
	}
	return len(b.cols[0])
}

// Table builds the assembled table. The builder must not be used afterwards,
// as the table takes ownership of the accumulated value slices.
func (b *Builder) Table() (*Table, error) {
	cols := make([]Column, len(b.names))
	for i, n := range b.names {
		cols[i] = Column{Name: n, Values: b.cols[i]}
	}
	return New(cols...)
}
