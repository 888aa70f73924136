package tableio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tablekit/tablekit/pkg/errors"
	"github.com/tablekit/tablekit/pkg/table"
)

func strCol(name string, vals ...string) table.Column {
	out := make([]table.Value, len(vals))
	for i, v := range vals {
		out[i] = table.String(v)
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
	}
}

func TestReadCSV(t *testing.T) {
	t.Run("strings by default", func(t *testing.T) {
		in := "country,cases\nAU,12\nNZ,3\n"
		got, err := ReadCSV(strings.NewReader(in), CSVOptions{})
		if err != nil {
			t.Fatalf("ReadCSV() error = %v", err)
		}
		want := mkTable(t,
			strCol("country", "AU", "NZ"),
			strCol("cases", "12", "3"),
		)
		assertTablesEqual(t, got, want)
	})

	t.Run("header only", func(t *testing.T) {
		got, err := ReadCSV(strings.NewReader("a,b,c\n"), CSVOptions{})
		if err != nil {
			t.Fatalf("ReadCSV() error = %v", err)
		}
		if got.NumRows() != 0 || got.NumCols() != 3 {
			t.Errorf("shape = %dx%d, want 0x3", got.NumRows(), got.NumCols())
		}
	})

	t.Run("infer types", func(t *testing.T) {
		in := "id,score,day,note\n7,4.5,2020-01-22,ok\n"
		got, err := ReadCSV(strings.NewReader(in), CSVOptions{Infer: true})
		if err != nil {
			t.Fatalf("ReadCSV() error = %v", err)
		}
		want := mkTable(t,
			valCol("id", table.Int(7)),
			valCol("score", table.Float(4.5)),
			valCol("day", table.Time(time.Date(2020, 1, 22, 0, 0, 0, 0, time.UTC))),
			strCol("note", "ok"),
		)
		assertTablesEqual(t, got, want)
	})

	t.Run("explicit types override inference", func(t *testing.T) {
		in := "code,amount\n007,12\n"
		got, err := ReadCSV(strings.NewReader(in), CSVOptions{
			Infer: true,
			Types: map[string]table.Kind{"code": table.KindString},
		})
		if err != nil {
			t.Fatalf("ReadCSV() error = %v", err)
		}
		v, _ := got.Cell(0, "code")
		if v.Kind != table.KindString || v.Raw != "007" {
			t.Errorf("code = %v (%s), want 007 as string", v.Raw, v.Kind)
		}
		v, _ = got.Cell(0, "amount")
		if v.Kind != table.KindInt {
			t.Errorf("amount kind = %s, want int", v.Kind)
		}
	})

	t.Run("unparseable typed cell stays string", func(t *testing.T) {
		in := "n\nabc\n"
		got, err := ReadCSV(strings.NewReader(in), CSVOptions{
			Types: map[string]table.Kind{"n": table.KindInt},
		})
		if err != nil {
			t.Fatalf("ReadCSV() error = %v", err)
		}
		v, _ := got.Cell(0, "n")
		if v.Kind != table.KindString || v.Raw != "abc" {
			t.Errorf("n = %v (%s), want abc as string", v.Raw, v.Kind)
		}
	})

	t.Run("empty cell is missing", func(t *testing.T) {
		in := "a,b\nx,\n,y\n"
		got, err := ReadCSV(strings.NewReader(in), CSVOptions{})
		if err != nil {
			t.Fatalf("ReadCSV() error = %v", err)
		}
		want := mkTable(t,
			valCol("a", table.String("x"), table.Null()),
			valCol("b", table.Null(), table.String("y")),
		)
		assertTablesEqual(t, got, want)
	})

	t.Run("custom missing marker", func(t *testing.T) {
		in := "a,b\nx,NA\n"
		got, err := ReadCSV(strings.NewReader(in), CSVOptions{Missing: "NA"})
		if err != nil {
			t.Fatalf("ReadCSV() error = %v", err)
		}
		v, _ := got.Cell(0, "b")
		if !v.IsNull {
			t.Errorf("b = %v, want null", v.Raw)
		}
		// With a non-empty marker the empty string is an ordinary value.
		in = "a\n\"\"\n"
		got, err = ReadCSV(strings.NewReader(in), CSVOptions{Missing: "NA"})
		if err != nil {
			t.Fatalf("ReadCSV() error = %v", err)
		}
		v, _ = got.Cell(0, "a")
		if v.IsNull || v.Raw != "" {
			t.Errorf("a = %v (null=%v), want empty string", v.Raw, v.IsNull)
		}
	})

	t.Run("custom delimiter", func(t *testing.T) {
		in := "a;b\n1;2\n"
		got, err := ReadCSV(strings.NewReader(in), CSVOptions{Comma: ';', Infer: true})
		if err != nil {
			t.Fatalf("ReadCSV() error = %v", err)
		}
		want := mkTable(t,
			valCol("a", table.Int(1)),
			valCol("b", table.Int(2)),
		)
		assertTablesEqual(t, got, want)
	})
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"ragged record", "a,b\n1,2,3\n"},
		{"duplicate header", "a,a\n1,2\n"},
		{"empty header name", "a,\n1,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input), CSVOptions{})
			if err == nil {
				t.Fatal("ReadCSV() expected error, got nil")
			}
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error code = %v, want INVALID_FORMAT", errors.GetCode(err))
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	tbl := mkTable(t,
		valCol("country", table.String("AU"), table.String("NZ")),
		valCol("cases", table.Int(12), table.Null()),
		valCol("rate", table.Float(0.5), table.Float(1.25)),
	)

	t.Run("default options", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteCSV(tbl, &buf, CSVOptions{}); err != nil {
			t.Fatalf("WriteCSV() error = %v", err)
		}
		want := "country,cases,rate\nAU,12,0.5\nNZ,,1.25\n"
		if buf.String() != want {
			t.Errorf("WriteCSV() = %q, want %q", buf.String(), want)
		}
	})

	t.Run("missing marker and delimiter", func(t *testing.T) {
		var buf bytes.Buffer
		opts := CSVOptions{Comma: ';', Missing: "NA"}
		if err := WriteCSV(tbl, &buf, opts); err != nil {
			t.Fatalf("WriteCSV() error = %v", err)
		}
		want := "country;cases;rate\nAU;12;0.5\nNZ;NA;1.25\n"
		if buf.String() != want {
			t.Errorf("WriteCSV() = %q, want %q", buf.String(), want)
		}
	})
}

// A typed table survives write-then-read when inference is on. String
// values that look numeric are excluded: CSV is untyped, so they would
// come back as numbers.
func TestCSVRoundTrip(t *testing.T) {
	orig := mkTable(t,
		valCol("state", table.String("NSW"), table.String("VIC")),
		valCol("cases", table.Int(0), table.Int(3)),
		valCol("rate", table.Float(0.5), table.Null()),
		valCol("day",
			table.Time(time.Date(2020, 1, 22, 0, 0, 0, 0, time.UTC)),
			table.Time(time.Date(2020, 1, 23, 0, 0, 0, 0, time.UTC)),
		),
	)

	var buf bytes.Buffer
	if err := WriteCSV(orig, &buf, CSVOptions{}); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	got, err := ReadCSV(&buf, CSVOptions{Infer: true})
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	assertTablesEqual(t, got, orig)
}

func TestImportExportCSV(t *testing.T) {
	tbl := mkTable(t,
		strCol("country", "AU", "NZ"),
		valCol("cases", table.Int(12), table.Int(3)),
	)
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := ExportCSV(tbl, path, CSVOptions{}); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	got, err := ImportCSV(path, CSVOptions{Infer: true})
	if err != nil {
		t.Fatalf("ImportCSV() error = %v", err)
	}
	assertTablesEqual(t, got, tbl)

	if _, err := ImportCSV(filepath.Join(t.TempDir(), "missing.csv"), CSVOptions{}); err == nil {
		t.Error("ImportCSV() expected error for missing file, got nil")
	}
}
