package reshape

import (
	"github.com/tablekit/tablekit/pkg/errors"
	"github.com/tablekit/tablekit/pkg/table"
)

// LongerSplitOptions configures [LongerSplit].
type LongerSplitOptions struct {
	// IDColumns are the identifier columns carried through unchanged.
	IDColumns []string
	// NamesTo are the names of the key columns, one per piece of the split
	// measure column names.
	NamesTo []string
	// Sep splits the measure column names: a literal string, or a regular
	// expression when Regex is set. It must not be empty.
	Sep string
	// Regex interprets Sep as a regular expression.
	Regex bool
	// Convert runs type inference on every piece of the split names.
	Convert bool
	// Types requests an explicit kind per key column instead of inference.
	// When set, its length must equal len(NamesTo).
	Types []table.Kind
	// ValuesTo is the name of the new value column.
	ValuesTo string
	// Warn receives non-fatal coercion warnings (optional).
	Warn func(format string, args ...any)
}

// LongerSplit melts a wide table and splits the former column names in one
// step. It is exactly equivalent to [Longer] into a temporary key column
// followed by [Separate] on that column, but splits each measure column
// name once instead of once per row.
//
//	Before: country | ratio_1/22/20            (NamesTo: ["kind", "date"], Sep: "_")
//	After:  country | kind | date | value      (kind = "ratio", date = 1/22/20)
//
// Key columns appear between the identifiers and the value column, in
// NamesTo order, matching where [Separate] would put them. Conversion
// options apply to the split name pieces the same way they do in
// [Separate].
//
// # Errors
//
// LongerSplit fails with the union of [Longer] and [Separate] failure
// modes: SCHEMA_ERROR for unknown identifiers or invalid, colliding, or
// repeated output names, SPLIT_ARITY when a measure column name does not
// split into len(NamesTo) pieces, and INVALID_INPUT for an unparseable
// Regex separator. Arity failures surface before any rows are produced.
func LongerSplit(t *table.Table, opts LongerSplitOptions) (*table.Table, error) {
	ids, measures, err := partitionColumns(t, opts.IDColumns)
	if err != nil {
		return nil, err
	}
	if len(opts.NamesTo) == 0 {
		return nil, errors.New(errors.ErrCodeSchema, "longer-split needs at least one key column")
	}
	seen := make(map[string]bool, len(opts.NamesTo))
	for _, name := range opts.NamesTo {
		if err := checkNewColumn(name, ids); err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, errors.New(errors.ErrCodeSchema, "key column %q listed twice", name)
		}
		seen[name] = true
	}
	if err := checkNewColumn(opts.ValuesTo, ids); err != nil {
		return nil, err
	}
	if seen[opts.ValuesTo] {
		return nil, errors.New(errors.ErrCodeSchema, "value column %q collides with a key column", opts.ValuesTo)
	}
	if opts.Types != nil && len(opts.Types) != len(opts.NamesTo) {
		return nil, errors.New(errors.ErrCodeSchema, "types count %d does not match key column count %d", len(opts.Types), len(opts.NamesTo))
	}
	split, err := newSplitter(opts.Sep, opts.Regex, len(opts.NamesTo))
	if err != nil {
		return nil, err
	}
	conv := newConverter(opts.Convert, opts.Types, opts.Warn)

	// Split every measure column name up front: arity failures abort before
	// any output exists, and each name is converted exactly once.
	keys := make([][]table.Value, len(measures))
	for m, col := range measures {
		pieces, serr := split.split(col.Name, col.Name)
		if serr != nil {
			return nil, serr
		}
		vals := make([]table.Value, len(pieces))
		for i, piece := range pieces {
			vals[i] = conv.convert(col.Name, i, piece)
		}
		keys[m] = vals
	}

	n := t.NumRows() * len(measures)
	out := make([]table.Column, 0, len(ids)+len(opts.NamesTo)+1)
	for _, id := range ids {
		vals := make([]table.Value, 0, n)
		for r := 0; r < t.NumRows(); r++ {
			for range measures {
				vals = append(vals, id.Values[r])
			}
		}
		out = append(out, table.Column{Name: id.Name, Values: vals})
	}
	for k, name := range opts.NamesTo {
		vals := make([]table.Value, 0, n)
		for r := 0; r < t.NumRows(); r++ {
			for m := range measures {
				vals = append(vals, keys[m][k])
			}
		}
		out = append(out, table.Column{Name: name, Values: vals})
	}
	values := make([]table.Value, 0, n)
	for r := 0; r < t.NumRows(); r++ {
		for _, m := range measures {
			values = append(values, m.Values[r])
		}
	}
	out = append(out, table.Column{Name: opts.ValuesTo, Values: values})
	return table.New(out...)
}
