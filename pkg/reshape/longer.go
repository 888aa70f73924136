package reshape

import (
	"github.com/tablekit/tablekit/pkg/errors"
	"github.com/tablekit/tablekit/pkg/table"
)

// LongerOptions configures [Longer].
type LongerOptions struct {
	// IDColumns are the identifier columns carried through unchanged. Every
	// column not listed here is a measure column and gets melted.
	IDColumns []string
	// NamesTo is the name of the new key column that receives the former
	// measure column names.
	NamesTo string
	// ValuesTo is the name of the new value column that receives the former
	// cell values.
	ValuesTo string
}

// Longer reshapes a wide table into long form. Every measure column is
// melted into key/value rows: the column name goes into the key column, the
// cell value into the value column, and the identifier columns repeat on
// every emitted row.
//
//	Before: country | 1/22/20 | 1/23/20
//	After:  country | date | cases   (one row per country per date)
//
// The output has one row per (input row, measure column) pair and
// len(IDColumns)+2 columns. Rows are emitted per input row, then per measure
// column in table order, so identifier values repeat in consecutive runs.
// Identifier columns keep their original table order regardless of the order
// they are listed in.
//
// A table whose columns are all identifiers melts to zero rows; the key and
// value columns are still present. Duplicating identifier values across rows
// is required behavior, not an error: long form trades redundancy for
// uniformity.
//
// # Errors
//
// Longer returns a SCHEMA_ERROR when an identifier column is unknown or
// listed twice, when NamesTo or ValuesTo is empty or invalid, when the two
// collide with each other, or when either collides with a retained
// identifier column.
func Longer(t *table.Table, opts LongerOptions) (*table.Table, error) {
	ids, measures, err := partitionColumns(t, opts.IDColumns)
	if err != nil {
		return nil, err
	}
	if err := checkNewColumn(opts.NamesTo, ids); err != nil {
		return nil, err
	}
	if err := checkNewColumn(opts.ValuesTo, ids); err != nil {
		return nil, err
	}
	if opts.NamesTo == opts.ValuesTo {
		return nil, errors.New(errors.ErrCodeSchema, "key and value columns must differ: both are %q", opts.NamesTo)
	}

	n := t.NumRows() * len(measures)
	out := make([]table.Column, 0, len(ids)+2)
	for _, id := range ids {
		vals := make([]table.Value, 0, n)
		for r := 0; r < t.NumRows(); r++ {
			for range measures {
				vals = append(vals, id.Values[r])
			}
		}
		out = append(out, table.Column{Name: id.Name, Values: vals})
	}

	names := make([]table.Value, 0, n)
	values := make([]table.Value, 0, n)
	for r := 0; r < t.NumRows(); r++ {
		for _, m := range measures {
			names = append(names, table.String(m.Name))
			values = append(values, m.Values[r])
		}
	}
	out = append(out,
		table.Column{Name: opts.NamesTo, Values: names},
		table.Column{Name: opts.ValuesTo, Values: values},
	)
	return table.New(out...)
}

// partitionColumns splits t's columns into the listed identifiers and the
// remainder (the measures), both in table order.
func partitionColumns(t *table.Table, idColumns []string) (ids, rest []table.Column, err error) {
	idSet := make(map[string]bool, len(idColumns))
	for _, name := range idColumns {
		if !t.HasColumn(name) {
			return nil, nil, errors.New(errors.ErrCodeSchema, "unknown identifier column %q", name)
		}
		if idSet[name] {
			return nil, nil, errors.New(errors.ErrCodeSchema, "identifier column %q listed twice", name)
		}
		idSet[name] = true
	}
	for _, c := range t.Columns() {
		if idSet[c.Name] {
			ids = append(ids, c)
		} else {
			rest = append(rest, c)
		}
	}
	return ids, rest, nil
}

// checkNewColumn validates a to-be-created column name and rejects
// collisions with columns that remain in the output.
func checkNewColumn(name string, kept []table.Column) error {
	if err := errors.ValidateColumnName(name); err != nil {
		return errors.Wrap(errors.ErrCodeSchema, err, "invalid output column name %q", name)
	}
	for _, c := range kept {
		if c.Name == name {
			return errors.New(errors.ErrCodeSchema, "output column %q conflicts with an existing column", name)
		}
	}
	return nil
}
