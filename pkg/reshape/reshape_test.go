package reshape

import (
	"testing"

	"github.com/tablekit/tablekit/pkg/table"
)

// Test helpers shared by the reshape tests.

func strCol(name string, vals ...string) table.Column {
	out := make([]table.Value, len(vals))
	for i, v := range vals {
		out[i] = table.String(v)
	}
	return table.Column{Name: name, Values: out}
}

func intCol(name string, vals ...int64) table.Column {
	out := make([]table.Value, len(vals))
	for i, v := range vals {
		out[i] = table.Int(v)
	}
	return table.Column{Name: name, Values: out}
}

func valCol(name string, vals ...table.Value) table.Column {
	return table.Column{Name: name, Values: vals}
}

func mkTable(t *testing.T, cols ...table.Column) *table.Table {
	t.Helper()
	tbl, err := table.New(cols...)
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}
	return tbl
}

func assertTablesEqual(t *testing.T, got, want *table.Table) {
	t.Helper()
	if !table.Equal(got, want) {
		t.Errorf("tables differ:\n got: %v %dx%d\nwant: %v %dx%d",
			got.ColumnNames(), got.NumRows(), got.NumCols(),
			want.ColumnNames(), want.NumRows(), want.NumCols())
		for r := 0; r < min(got.NumRows(), want.NumRows()); r++ {
			t.Logf(" got row %d: %v", r, formatRow(got, r))
			t.Logf("want row %d: %v", r, formatRow(want, r))
		}
	}
}

func formatRow(tbl *table.Table, r int) []string {
	row := tbl.Row(r)
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = v.Format()
	}
	return out
}

// Melting and widening invert each other: a wide table survives the round
// trip unchanged, including column order.
func TestLongerWiderRoundTrip(t *testing.T) {
	orig := mkTable(t,
		strCol("country", "AU", "NZ", "FJ"),
		intCol("1/22/20", 0, 0, 0),
		intCol("1/23/20", 4, 1, 0),
		intCol("1/24/20", 5, 1, 2),
	)

	long, err := Longer(orig, LongerOptions{
		IDColumns: []string{"country"},
		NamesTo:   "date",
		ValuesTo:  "cases",
	})
	if err != nil {
		t.Fatalf("Longer() error = %v", err)
	}

	wide, err := Wider(long, WiderOptions{
		IDColumns:  []string{"country"},
		NamesFrom:  "date",
		ValuesFrom: "cases",
	})
	if err != nil {
		t.Fatalf("Wider() error = %v", err)
	}

	assertTablesEqual(t, wide, orig)
}

// Uniting and separating invert each other as long as the values do not
// contain the separator.
func TestUniteSeparateRoundTrip(t *testing.T) {
	orig := mkTable(t,
		strCol("country", "AU", "NZ"),
		strCol("cases", "12", "3"),
		strCol("population", "2500", "470"),
	)

	united, err := Unite(orig, UniteOptions{
		Columns: []string{"cases", "population"},
		Into:    "rate",
		Sep:     "/",
	})
	if err != nil {
		t.Fatalf("Unite() error = %v", err)
	}
	if !united.HasColumn("rate") || united.NumCols() != 2 {
		t.Fatalf("Unite() columns = %v, want [country rate]", united.ColumnNames())
	}

	back, err := Separate(united, SeparateOptions{
		Column: "rate",
		Into:   []string{"cases", "population"},
		Sep:    "/",
	})
	if err != nil {
		t.Fatalf("Separate() error = %v", err)
	}

	assertTablesEqual(t, back, orig)
}

// The complete daily-cases scenario: two states, two observation dates,
// melted into one row per state per date in input order.
func TestLongerDailyCases(t *testing.T) {
	wide := mkTable(t,
		strCol("state", "NSW", "VIC"),
		intCol("1/22/20", 0, 1),
		intCol("1/23/20", 2, 3),
	)

	got, err := Longer(wide, LongerOptions{
		IDColumns: []string{"state"},
		NamesTo:   "date",
		ValuesTo:  "cases",
	})
	if err != nil {
		t.Fatalf("Longer() error = %v", err)
	}

	want := mkTable(t,
		strCol("state", "NSW", "NSW", "VIC", "VIC"),
		strCol("date", "1/22/20", "1/23/20", "1/22/20", "1/23/20"),
		intCol("cases", 0, 2, 1, 3),
	)
	assertTablesEqual(t, got, want)
}
