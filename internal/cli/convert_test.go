package cli

import (
	"path/filepath"
	"testing"

	"github.com/tablekit/tablekit/pkg/arrowio"
	"github.com/tablekit/tablekit/pkg/table"
)

func TestConvertCommandCSVToParquet(t *testing.T) {
	in := writeTempFile(t, "data.csv", "country,cases\nAU,12\nNZ,7\n")
	out := filepath.Join(filepath.Dir(in), "data.parquet")

	if err := execute(t, "convert", "--infer", in, out); err != nil {
		t.Fatalf("convert error: %v", err)
	}

	got, err := arrowio.ImportParquet(out)
	if err != nil {
		t.Fatalf("ImportParquet() error: %v", err)
	}

	if got.NumRows() != 2 || got.NumCols() != 2 {
		t.Fatalf("converted table is %dx%d, want 2x2", got.NumRows(), got.NumCols())
	}
	v, _ := got.Cell(0, "cases")
	if v.Kind != table.KindInt {
		t.Errorf("cases kind = %v, want int (inference should survive parquet)", v.Kind)
	}
	if !v.Equal(table.Int(12)) {
		t.Errorf("cases[0] = %v, want 12", v)
	}
}

func TestConvertCommandParquetToJSON(t *testing.T) {
	dir := t.TempDir()
	pq := filepath.Join(dir, "data.parquet")
	src := mkTable(t,
		table.Column{Name: "country", Values: []table.Value{table.String("AU")}},
		table.Column{Name: "cases", Values: []table.Value{table.Int(12)}},
	)
	if err := arrowio.ExportParquet(src, pq); err != nil {
		t.Fatalf("ExportParquet() error: %v", err)
	}

	out := filepath.Join(dir, "data.json")
	if err := execute(t, "convert", pq, out); err != nil {
		t.Fatalf("convert error: %v", err)
	}

	want := "[\n  {\"country\": \"AU\", \"cases\": 12}\n]\n"
	if got := readFile(t, out); got != want {
		t.Errorf("convert output = %q, want %q", got, want)
	}
}

func TestConvertCommandUnknownExtension(t *testing.T) {
	in := writeTempFile(t, "data.csv", "a\n1\n")
	out := filepath.Join(filepath.Dir(in), "data.xlsx")

	if err := execute(t, "convert", in, out); err == nil {
		t.Error("convert to an unknown extension should fail")
	}
}
