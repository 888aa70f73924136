package reshape

import (
	"testing"

	"github.com/tablekit/tablekit/pkg/errors"
	"github.com/tablekit/tablekit/pkg/table"
)

func TestWider(t *testing.T) {
	t.Run("basic pivot", func(t *testing.T) {
		long := mkTable(t,
			strCol("country", "AU", "AU", "NZ", "NZ"),
			strCol("year", "2020", "2021", "2020", "2021"),
			intCol("cases", 10, 20, 2, 4),
		)
		got, err := Wider(long, WiderOptions{
			IDColumns:  []string{"country"},
			NamesFrom:  "year",
			ValuesFrom: "cases",
		})
		if err != nil {
			t.Fatalf("Wider() error = %v", err)
		}
		want := mkTable(t,
			strCol("country", "AU", "NZ"),
			intCol("2020", 10, 2),
			intCol("2021", 20, 4),
		)
		assertTablesEqual(t, got, want)
	})

	t.Run("first appearance ordering", func(t *testing.T) {
		long := mkTable(t,
			strCol("id", "b", "a", "b", "a"),
			strCol("key", "y", "x", "x", "y"),
			intCol("value", 1, 2, 3, 4),
		)
		got, err := Wider(long, WiderOptions{
			IDColumns:  []string{"id"},
			NamesFrom:  "key",
			ValuesFrom: "value",
		})
		if err != nil {
			t.Fatalf("Wider() error = %v", err)
		}
		// Row order: b first (first appearance). Column order: y before x.
		want := mkTable(t,
			strCol("id", "b", "a"),
			intCol("y", 1, 4),
			intCol("x", 3, 2),
		)
		assertTablesEqual(t, got, want)
	})

	t.Run("missing combination filled with null", func(t *testing.T) {
		long := mkTable(t,
			strCol("id", "A", "A", "B"),
			strCol("key", "x", "y", "x"),
			intCol("value", 1, 2, 3),
		)
		got, err := Wider(long, WiderOptions{
			IDColumns:  []string{"id"},
			NamesFrom:  "key",
			ValuesFrom: "value",
		})
		if err != nil {
			t.Fatalf("Wider() error = %v", err)
		}
		if got.NumRows() != 2 || got.NumCols() != 3 {
			t.Fatalf("shape = %dx%d, want 2x3", got.NumRows(), got.NumCols())
		}
		v, ok := got.Cell(1, "y")
		if !ok {
			t.Fatal("Cell(1, y) ok = false, want true")
		}
		if !v.IsNull {
			t.Errorf("Cell(1, y) = %v, want null", v.Raw)
		}
	})

	t.Run("duplicate key keeps last value", func(t *testing.T) {
		long := mkTable(t,
			strCol("id", "A", "A"),
			strCol("key", "x", "x"),
			intCol("value", 1, 99),
		)
		got, err := Wider(long, WiderOptions{
			IDColumns:  []string{"id"},
			NamesFrom:  "key",
			ValuesFrom: "value",
		})
		if err != nil {
			t.Fatalf("Wider() error = %v", err)
		}
		if got.NumRows() != 1 {
			t.Fatalf("NumRows() = %d, want 1", got.NumRows())
		}
		v, _ := got.Cell(0, "x")
		if !v.Equal(table.Int(99)) {
			t.Errorf("Cell(0, x) = %v, want 99", v.Raw)
		}
	})

	t.Run("extra columns are dropped", func(t *testing.T) {
		long := mkTable(t,
			strCol("id", "A"),
			strCol("note", "ignored"),
			strCol("key", "x"),
			intCol("value", 1),
		)
		got, err := Wider(long, WiderOptions{
			IDColumns:  []string{"id"},
			NamesFrom:  "key",
			ValuesFrom: "value",
		})
		if err != nil {
			t.Fatalf("Wider() error = %v", err)
		}
		if got.HasColumn("note") {
			t.Errorf("columns = %v, want note dropped", got.ColumnNames())
		}
	})

	t.Run("no identifiers collapses to one row", func(t *testing.T) {
		long := mkTable(t,
			strCol("key", "x", "y"),
			intCol("value", 1, 2),
		)
		got, err := Wider(long, WiderOptions{NamesFrom: "key", ValuesFrom: "value"})
		if err != nil {
			t.Fatalf("Wider() error = %v", err)
		}
		if got.NumRows() != 1 || got.NumCols() != 2 {
			t.Errorf("shape = %dx%d, want 1x2", got.NumRows(), got.NumCols())
		}
	})

	t.Run("distinct tuples with equal display forms stay separate", func(t *testing.T) {
		long := mkTable(t,
			valCol("id", table.Int(1), table.String("1")),
			strCol("key", "x", "x"),
			intCol("value", 10, 20),
		)
		got, err := Wider(long, WiderOptions{
			IDColumns:  []string{"id"},
			NamesFrom:  "key",
			ValuesFrom: "value",
		})
		if err != nil {
			t.Fatalf("Wider() error = %v", err)
		}
		if got.NumRows() != 2 {
			t.Errorf("NumRows() = %d, want 2 (Int(1) and String(1) are different identifiers)", got.NumRows())
		}
	})
}

func TestWiderErrors(t *testing.T) {
	long := mkTable(t,
		strCol("id", "A", "A"),
		strCol("key", "x", "y"),
		intCol("value", 1, 2),
	)

	tests := []struct {
		name string
		tbl  *table.Table
		opts WiderOptions
		code errors.Code
	}{
		{
			name: "unknown key column",
			tbl:  long,
			opts: WiderOptions{IDColumns: []string{"id"}, NamesFrom: "nope", ValuesFrom: "value"},
			code: errors.ErrCodeSchema,
		},
		{
			name: "unknown value column",
			tbl:  long,
			opts: WiderOptions{IDColumns: []string{"id"}, NamesFrom: "key", ValuesFrom: "nope"},
			code: errors.ErrCodeSchema,
		},
		{
			name: "unknown identifier",
			tbl:  long,
			opts: WiderOptions{IDColumns: []string{"nope"}, NamesFrom: "key", ValuesFrom: "value"},
			code: errors.ErrCodeSchema,
		},
		{
			name: "key equals value column",
			tbl:  long,
			opts: WiderOptions{IDColumns: []string{"id"}, NamesFrom: "key", ValuesFrom: "key"},
			code: errors.ErrCodeSchema,
		},
		{
			name: "key column listed as identifier",
			tbl:  long,
			opts: WiderOptions{IDColumns: []string{"id", "key"}, NamesFrom: "key", ValuesFrom: "value"},
			code: errors.ErrCodeSchema,
		},
		{
			name: "empty key value",
			tbl: mkTable(t,
				strCol("id", "A"),
				strCol("key", ""),
				intCol("value", 1),
			),
			opts: WiderOptions{IDColumns: []string{"id"}, NamesFrom: "key", ValuesFrom: "value"},
			code: errors.ErrCodeSchema,
		},
		{
			name: "null key value",
			tbl: mkTable(t,
				strCol("id", "A"),
				valCol("key", table.Null()),
				intCol("value", 1),
			),
			opts: WiderOptions{IDColumns: []string{"id"}, NamesFrom: "key", ValuesFrom: "value"},
			code: errors.ErrCodeSchema,
		},
		{
			name: "key value collides with identifier column",
			tbl: mkTable(t,
				strCol("id", "A"),
				strCol("key", "id"),
				intCol("value", 1),
			),
			opts: WiderOptions{IDColumns: []string{"id"}, NamesFrom: "key", ValuesFrom: "value"},
			code: errors.ErrCodeSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Wider(tt.tbl, tt.opts)
			if err == nil {
				t.Fatal("Wider() error = nil, want error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Wider() error = %v, want code %s", err, tt.code)
			}
		})
	}
}
