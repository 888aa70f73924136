package reshape

import (
	"strings"

	"github.com/tablekit/tablekit/pkg/errors"
	"github.com/tablekit/tablekit/pkg/table"
)

// UniteOptions configures [Unite].
type UniteOptions struct {
	// Columns are the source columns to merge, joined in the given order.
	// At least two are required.
	Columns []string
	// Into is the name of the merged column.
	Into string
	// Sep is the string placed between values. It may be empty.
	Sep string
}

// Unite merges several columns into one by joining their display forms with
// a separator, inverting [Separate] for values that do not contain the
// separator themselves.
//
//	Before: cases = 1, population = 2   (Into: "rate", Sep: "/")
//	After:  rate = "1/2"
//
// Values are joined in the order the source columns are listed, using their
// [table.Value.Format] form; null values contribute an empty string. The
// merged column is always a string column. It takes the table position of
// the first listed source column, and all source columns are removed.
//
// # Errors
//
// Unite returns a SCHEMA_ERROR when fewer than two source columns are
// given, a source column is unknown or listed twice, or the destination
// name is empty, invalid, or collides with a column that remains in the
// output. Reusing the name of one of the merged source columns is allowed.
func Unite(t *table.Table, opts UniteOptions) (*table.Table, error) {
	if len(opts.Columns) < 2 {
		return nil, errors.New(errors.ErrCodeSchema, "unite needs at least two source columns, got %d", len(opts.Columns))
	}
	srcSet := make(map[string]bool, len(opts.Columns))
	srcs := make([]table.Column, len(opts.Columns))
	for i, name := range opts.Columns {
		c, ok := t.Column(name)
		if !ok {
			return nil, errors.New(errors.ErrCodeSchema, "unknown column %q", name)
		}
		if srcSet[name] {
			return nil, errors.New(errors.ErrCodeSchema, "source column %q listed twice", name)
		}
		srcSet[name] = true
		srcs[i] = c
	}
	var kept []table.Column
	for _, c := range t.Columns() {
		if !srcSet[c.Name] {
			kept = append(kept, c)
		}
	}
	if err := checkNewColumn(opts.Into, kept); err != nil {
		return nil, err
	}

	n := t.NumRows()
	merged := make([]table.Value, n)
	parts := make([]string, len(srcs))
	for r := 0; r < n; r++ {
		for i, c := range srcs {
			parts[i] = c.Values[r].Format()
		}
		merged[r] = table.String(strings.Join(parts, opts.Sep))
	}

	// The merged column takes the position of the first listed source.
	out := make([]table.Column, 0, t.NumCols()-len(srcs)+1)
	for _, c := range t.Columns() {
		if c.Name == opts.Columns[0] {
			out = append(out, table.Column{Name: opts.Into, Values: merged})
			continue
		}
		if srcSet[c.Name] {
			continue
		}
		out = append(out, c)
	}
	return table.New(out...)
}
