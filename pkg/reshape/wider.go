package reshape

import (
	"strconv"
	"strings"

	"github.com/tablekit/tablekit/pkg/errors"
	"github.com/tablekit/tablekit/pkg/table"
)

// WiderOptions configures [Wider].
type WiderOptions struct {
	// IDColumns are the identifier columns that define output rows. Rows
	// with equal identifier tuples collapse into one output row.
	IDColumns []string
	// NamesFrom is the key column whose values become output column names.
	NamesFrom string
	// ValuesFrom is the value column whose cells fill the new columns.
	ValuesFrom string
}

// Wider reshapes a long table into wide form, inverting [Longer]. Rows are
// grouped by their identifier tuple; each distinct value in the key column
// becomes an output column, filled from the value column.
//
//	Before: country | date | cases   (one row per country per date)
//	After:  country | 1/22/20 | 1/23/20
//
// Output rows appear in first-appearance order of their identifier tuple,
// and new columns in first-appearance order of their key value, so a table
// produced by [Longer] widens back to its original layout. Identifier
// columns keep their original table order.
//
// When a (tuple, key) pair occurs more than once, the last occurrence wins
// and earlier values are silently dropped. Deduplicate or aggregate before
// widening if that matters for the data. When a combination is absent, the
// cell is filled with the explicit missing value ([table.Null]), keeping the
// output rectangular.
//
// Columns not listed as identifiers and not named by NamesFrom/ValuesFrom
// are dropped: they have no place in the wide layout.
//
// # Errors
//
// Wider returns a SCHEMA_ERROR when a referenced column is unknown or
// listed twice, when NamesFrom equals ValuesFrom or either is listed as an
// identifier, or when a key value is empty, not usable as a column name, or
// collides with an identifier column.
func Wider(t *table.Table, opts WiderOptions) (*table.Table, error) {
	if opts.NamesFrom == opts.ValuesFrom {
		return nil, errors.New(errors.ErrCodeSchema, "key and value columns must differ: both are %q", opts.NamesFrom)
	}
	namesCol, ok := t.Column(opts.NamesFrom)
	if !ok {
		return nil, errors.New(errors.ErrCodeSchema, "unknown key column %q", opts.NamesFrom)
	}
	valuesCol, ok := t.Column(opts.ValuesFrom)
	if !ok {
		return nil, errors.New(errors.ErrCodeSchema, "unknown value column %q", opts.ValuesFrom)
	}
	ids, _, err := partitionColumns(t, opts.IDColumns)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if id.Name == opts.NamesFrom || id.Name == opts.ValuesFrom {
			return nil, errors.New(errors.ErrCodeSchema, "column %q cannot be both identifier and key/value source", id.Name)
		}
	}

	type group struct {
		idVals []table.Value
		cells  map[string]table.Value
	}
	var groups []*group
	groupIndex := make(map[string]int)
	var newNames []string
	newNameSet := make(map[string]bool)

	for r := 0; r < t.NumRows(); r++ {
		key := namesCol.Values[r]
		name := key.Format()
		if key.IsNull || name == "" {
			return nil, errors.New(errors.ErrCodeSchema, "key column %q has an empty value at row %d", opts.NamesFrom, r)
		}
		if err := errors.ValidateColumnName(name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeSchema, err, "key column %q value %q is not usable as a column name", opts.NamesFrom, name)
		}
		for _, id := range ids {
			if id.Name == name {
				return nil, errors.New(errors.ErrCodeSchema, "key value %q collides with identifier column %q", name, id.Name)
			}
		}

		gk := groupKey(ids, r)
		gi, seen := groupIndex[gk]
		if !seen {
			idVals := make([]table.Value, len(ids))
			for i, id := range ids {
				idVals[i] = id.Values[r]
			}
			groups = append(groups, &group{idVals: idVals, cells: make(map[string]table.Value)})
			gi = len(groups) - 1
			groupIndex[gk] = gi
		}
		// Last write wins on duplicate (tuple, key) pairs.
		groups[gi].cells[name] = valuesCol.Values[r]
		if !newNameSet[name] {
			newNameSet[name] = true
			newNames = append(newNames, name)
		}
	}

	out := make([]table.Column, 0, len(ids)+len(newNames))
	for i, id := range ids {
		vals := make([]table.Value, len(groups))
		for g, grp := range groups {
			vals[g] = grp.idVals[i]
		}
		out = append(out, table.Column{Name: id.Name, Values: vals})
	}
	for _, name := range newNames {
		vals := make([]table.Value, len(groups))
		for g, grp := range groups {
			if v, ok := grp.cells[name]; ok {
				vals[g] = v
			} else {
				vals[g] = table.Null()
			}
		}
		out = append(out, table.Column{Name: name, Values: vals})
	}
	return table.New(out...)
}

// groupKey builds an injective string key for the identifier tuple of row r.
// Values are tagged with their kind and quoted, so distinct tuples cannot
// collide through formatting.
func groupKey(ids []table.Column, r int) string {
	var sb strings.Builder
	for _, id := range ids {
		v := id.Values[r]
		if v.IsNull {
			sb.WriteByte('n')
			continue
		}
		sb.WriteString(strconv.Itoa(int(v.Kind)))
		sb.WriteString(strconv.Quote(v.Format()))
	}
	return sb.String()
}
