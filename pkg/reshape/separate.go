package reshape

import (
	"regexp"
	"strings"

	"github.com/tablekit/tablekit/pkg/errors"
	"github.com/tablekit/tablekit/pkg/table"
)

// SeparateOptions configures [Separate].
type SeparateOptions struct {
	// Column is the source column to split. It is removed from the output.
	Column string
	// Into are the names of the destination columns, one per piece.
	Into []string
	// Sep is the separator: a literal string, or a regular expression when
	// Regex is set. It must not be empty.
	Sep string
	// Regex interprets Sep as a regular expression.
	Regex bool
	// Convert runs type inference on every piece (int, float, date, string).
	// Without it all pieces stay strings.
	Convert bool
	// Types requests an explicit kind per destination column instead of
	// inference. When set, its length must equal len(Into). Pieces that do
	// not parse as the requested kind stay strings and are reported through
	// Warn.
	Types []table.Kind
	// Warn receives non-fatal coercion warnings (optional).
	Warn func(format string, args ...any)
}

// Separate splits one column into several on a separator.
//
//	Before: rate = "1/2"          (Into: ["cases", "population"], Sep: "/")
//	After:  cases = "1", population = "2"
//
// The source column is removed and the destination columns take its
// position, so the split is invisible to the columns around it. Splitting
// follows SplitN semantics: the cell is split at most len(Into)-1 times, so
// extra separators stay in the last piece ("a/b/c" into two columns gives
// "a" and "b/c"). A cell that produces fewer pieces than destinations aborts
// the whole operation with a SPLIT_ARITY error; no partial output is
// produced. Null cells split into all-null destinations.
//
// With Convert set, each piece goes through the [table.Infer] fallback chain
// and lands in the narrowest kind that accepts it. With Types set, each
// piece is parsed as its requested kind instead; a piece that does not fit
// keeps its string form and fires a TYPE_COERCION warning through Warn.
// Conversion never fails the operation.
//
// # Errors
//
// Separate returns a SCHEMA_ERROR when the source column is unknown, the
// destination names are empty, invalid, repeated, or collide with remaining
// columns, the separator is empty, or Types has the wrong length. An
// unparseable Regex separator returns INVALID_INPUT. Arity failures return
// SPLIT_ARITY with an [errors.SplitError] cause naming the offending value.
func Separate(t *table.Table, opts SeparateOptions) (*table.Table, error) {
	src, ok := t.Column(opts.Column)
	if !ok {
		return nil, errors.New(errors.ErrCodeSchema, "unknown column %q", opts.Column)
	}
	if len(opts.Into) == 0 {
		return nil, errors.New(errors.ErrCodeSchema, "separate needs at least one destination column")
	}
	kept := keptColumns(t, opts.Column)
	seen := make(map[string]bool, len(opts.Into))
	for _, name := range opts.Into {
		if err := checkNewColumn(name, kept); err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, errors.New(errors.ErrCodeSchema, "destination column %q listed twice", name)
		}
		seen[name] = true
	}
	if opts.Types != nil && len(opts.Types) != len(opts.Into) {
		return nil, errors.New(errors.ErrCodeSchema, "types count %d does not match destination count %d", len(opts.Types), len(opts.Into))
	}
	split, err := newSplitter(opts.Sep, opts.Regex, len(opts.Into))
	if err != nil {
		return nil, err
	}
	conv := newConverter(opts.Convert, opts.Types, opts.Warn)

	n := t.NumRows()
	dest := make([][]table.Value, len(opts.Into))
	for i := range dest {
		dest[i] = make([]table.Value, n)
	}
	for r := 0; r < n; r++ {
		cell := src.Values[r]
		if cell.IsNull {
			for i := range dest {
				dest[i][r] = table.Null()
			}
			continue
		}
		pieces, serr := split.split(opts.Column, cell.Format())
		if serr != nil {
			return nil, serr
		}
		for i, piece := range pieces {
			dest[i][r] = conv.convert(opts.Column, i, piece)
		}
	}

	out := make([]table.Column, 0, t.NumCols()-1+len(opts.Into))
	for _, c := range t.Columns() {
		if c.Name != opts.Column {
			out = append(out, c)
			continue
		}
		for i, name := range opts.Into {
			out = append(out, table.Column{Name: name, Values: dest[i]})
		}
	}
	return table.New(out...)
}

// keptColumns returns t's columns without the named one.
func keptColumns(t *table.Table, drop string) []table.Column {
	var kept []table.Column
	for _, c := range t.Columns() {
		if c.Name != drop {
			kept = append(kept, c)
		}
	}
	return kept
}

// splitter splits cell text into a fixed number of pieces, with literal or
// regexp separators.
type splitter struct {
	sep string
	re  *regexp.Regexp
	n   int
}

func newSplitter(sep string, regex bool, n int) (*splitter, error) {
	if sep == "" {
		return nil, errors.New(errors.ErrCodeSchema, "separator must not be empty")
	}
	s := &splitter{sep: sep, n: n}
	if regex {
		re, err := regexp.Compile(sep)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid separator pattern %q", sep)
		}
		s.re = re
	}
	return s, nil
}

// split splits s into exactly n pieces. Underflow is a SPLIT_ARITY error
// carrying an [errors.SplitError]; overflow cannot happen because the final
// piece absorbs unsplit remainder.
func (sp *splitter) split(column, s string) ([]string, error) {
	var pieces []string
	if sp.re != nil {
		pieces = sp.re.Split(s, sp.n)
	} else {
		pieces = strings.SplitN(s, sp.sep, sp.n)
	}
	if len(pieces) < sp.n {
		return nil, errors.Wrap(errors.ErrCodeSplitArity, &errors.SplitError{
			Column: column,
			Value:  s,
			Want:   sp.n,
			Got:    len(pieces),
		}, "separate column %q", column)
	}
	return pieces, nil
}

// converter turns split pieces into typed values according to the Convert
// and Types options.
type converter struct {
	infer bool
	types []table.Kind
	warn  func(format string, args ...any)
}

func newConverter(infer bool, types []table.Kind, warn func(string, ...any)) *converter {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	return &converter{infer: infer, types: types, warn: warn}
}

func (c *converter) convert(column string, i int, piece string) table.Value {
	if c.types != nil {
		if v, ok := table.ParseAs(piece, c.types[i]); ok {
			return v
		}
		c.warn("%s: cannot parse %q as %s in column %q, keeping string",
			errors.ErrCodeTypeCoercion, piece, c.types[i], column)
		return table.String(piece)
	}
	if c.infer {
		return table.Infer(piece)
	}
	return table.String(piece)
}
