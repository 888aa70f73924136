package table_test

import (
	"fmt"

	"github.com/tablekit/tablekit/pkg/table"
)

func ExampleNew() {
	// Build a small country/cases table column by column
	t, _ := table.New(
		table.Column{Name: "country", Values: []table.Value{table.String("AU"), table.String("NZ")}},
		table.Column{Name: "cases", Values: []table.Value{table.Int(12), table.Int(3)}},
	)

	fmt.Println("Rows:", t.NumRows())
	fmt.Println("Cols:", t.NumCols())
	fmt.Println("Names:", t.ColumnNames())
	// Output:
	// Rows: 2
	// Cols: 2
	// Names: [country cases]
}

func ExampleBuilder() {
	// Assemble a table row by row, as a codec would
	b, _ := table.NewBuilder("city", "temp")
	_ = b.AppendRow(table.String("Sydney"), table.Float(22.5))
	_ = b.AppendRow(table.String("Melbourne"), table.Float(18))

	t, _ := b.Table()
	v, _ := t.Cell(1, "temp")
	fmt.Println("Rows:", t.NumRows())
	fmt.Println("Melbourne:", v.Format())
	// Output:
	// Rows: 2
	// Melbourne: 18
}

func ExampleInfer() {
	// The inference chain tries int, float, date, then falls back to string
	for _, s := range []string{"42", "4.5", "1/22/20", "hello"} {
		v := table.Infer(s)
		fmt.Printf("%s -> %s\n", s, v.Kind)
	}
	// Output:
	// 42 -> int
	// 4.5 -> float
	// 1/22/20 -> time
	// hello -> string
}

func ExampleValue_Format() {
	fmt.Printf("%q\n", table.Int(42).Format())
	fmt.Printf("%q\n", table.Float(0.5).Format())
	fmt.Printf("%q\n", table.Null().Format())
	// Output:
	// "42"
	// "0.5"
	// ""
}
