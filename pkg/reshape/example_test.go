package reshape_test

import (
	"fmt"

	"github.com/tablekit/tablekit/pkg/reshape"
	"github.com/tablekit/tablekit/pkg/table"
)

func ExampleLonger() {
	// Daily case counts, one column per date
	wide, _ := table.New(
		table.Column{Name: "state", Values: []table.Value{table.String("NSW"), table.String("VIC")}},
		table.Column{Name: "1/22/20", Values: []table.Value{table.Int(0), table.Int(1)}},
		table.Column{Name: "1/23/20", Values: []table.Value{table.Int(0), table.Int(3)}},
	)

	long, _ := reshape.Longer(wide, reshape.LongerOptions{
		IDColumns: []string{"state"},
		NamesTo:   "date",
		ValuesTo:  "cases",
	})

	fmt.Println("Columns:", long.ColumnNames())
	for r := 0; r < long.NumRows(); r++ {
		state, _ := long.Cell(r, "state")
		date, _ := long.Cell(r, "date")
		cases, _ := long.Cell(r, "cases")
		fmt.Println(state.Format(), date.Format(), cases.Format())
	}
	// Output:
	// Columns: [state date cases]
	// NSW 1/22/20 0
	// NSW 1/23/20 0
	// VIC 1/22/20 1
	// VIC 1/23/20 3
}

func ExampleWider() {
	// One row per state per date
	long, _ := table.New(
		table.Column{Name: "state", Values: []table.Value{table.String("NSW"), table.String("NSW"), table.String("VIC")}},
		table.Column{Name: "date", Values: []table.Value{table.String("1/22/20"), table.String("1/23/20"), table.String("1/22/20")}},
		table.Column{Name: "cases", Values: []table.Value{table.Int(0), table.Int(0), table.Int(1)}},
	)

	wide, _ := reshape.Wider(long, reshape.WiderOptions{
		IDColumns:  []string{"state"},
		NamesFrom:  "date",
		ValuesFrom: "cases",
	})

	// VIC has no 1/23/20 observation: the cell is filled with null
	missing, _ := wide.Cell(1, "1/23/20")
	fmt.Println("Columns:", wide.ColumnNames())
	fmt.Println("Missing is null:", missing.IsNull)
	// Output:
	// Columns: [state 1/22/20 1/23/20]
	// Missing is null: true
}

func ExampleSeparate() {
	t, _ := table.New(
		table.Column{Name: "rate", Values: []table.Value{table.String("12/2500")}},
	)

	got, _ := reshape.Separate(t, reshape.SeparateOptions{
		Column:  "rate",
		Into:    []string{"cases", "population"},
		Sep:     "/",
		Convert: true,
	})

	cases, _ := got.Cell(0, "cases")
	population, _ := got.Cell(0, "population")
	fmt.Printf("cases: %s (%s)\n", cases.Format(), cases.Kind)
	fmt.Printf("population: %s (%s)\n", population.Format(), population.Kind)
	// Output:
	// cases: 12 (int)
	// population: 2500 (int)
}

func ExampleUnite() {
	t, _ := table.New(
		table.Column{Name: "century", Values: []table.Value{table.String("20")}},
		table.Column{Name: "year", Values: []table.Value{table.String("14")}},
	)

	got, _ := reshape.Unite(t, reshape.UniteOptions{
		Columns: []string{"century", "year"},
		Into:    "year",
	})

	v, _ := got.Cell(0, "year")
	fmt.Println("year:", v.Format())
	// Output:
	// year: 2014
}

func ExampleLongerSplit() {
	wide, _ := table.New(
		table.Column{Name: "country", Values: []table.Value{table.String("AU")}},
		table.Column{Name: "cases_2020", Values: []table.Value{table.Int(10)}},
		table.Column{Name: "deaths_2020", Values: []table.Value{table.Int(1)}},
	)

	long, _ := reshape.LongerSplit(wide, reshape.LongerSplitOptions{
		IDColumns: []string{"country"},
		NamesTo:   []string{"metric", "year"},
		Sep:       "_",
		Convert:   true,
		ValuesTo:  "value",
	})

	fmt.Println("Columns:", long.ColumnNames())
	for r := 0; r < long.NumRows(); r++ {
		metric, _ := long.Cell(r, "metric")
		year, _ := long.Cell(r, "year")
		value, _ := long.Cell(r, "value")
		fmt.Println(metric.Format(), year.Format(), value.Format())
	}
	// Output:
	// Columns: [country metric year value]
	// cases 2020 10
	// deaths 2020 1
}
