package cli

import (
	"github.com/spf13/cobra"

	"github.com/tablekit/tablekit/pkg/reshape"
	"github.com/tablekit/tablekit/pkg/table"
)

// reshapeFlags holds the flags shared by the direct reshape commands.
type reshapeFlags struct {
	input  string
	output string
	read   readOptions
}

// addReshapeFlags registers the shared input/output flags on cmd.
func addReshapeFlags(cmd *cobra.Command, flags *reshapeFlags) {
	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "input table (csv, json, or parquet)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (stdout if empty)")
	addReadFlags(cmd, &flags.read)
	_ = cmd.MarkFlagRequired("input")
}

// writeReshaped writes the result table and, when writing to a file, prints
// the outcome summary. Stdout output stays undecorated so it can be piped.
func writeReshaped(t *table.Table, output string) error {
	if err := writeTable(t, output, ""); err != nil {
		return err
	}
	if output != "" {
		printSuccess("Reshape complete")
		printFile(output)
		printStats(t.NumRows(), t.NumCols(), false)
	}
	return nil
}

// longerCommand creates the longer command for wide-to-long pivoting.
func (c *CLI) longerCommand() *cobra.Command {
	var flags reshapeFlags
	var (
		ids      string
		namesTo  string
		valuesTo string
		into     string
		sep      string
		types    string
		regex    bool
		convert  bool
	)

	cmd := &cobra.Command{
		Use:   "longer",
		Short: "Pivot value columns into key/value rows",
		Long: `Pivot value columns into key/value rows.

Every column not listed in --ids is melted: its name lands in the --names-to
column and its cell in the --values-to column, one output row per id row and
melted column. Column order follows the input; null cells are kept.

With --into the melted column names are additionally split on --sep, yielding
one key column per entry in --into instead of a single --names-to column.
--convert then infers types for the split pieces.

Examples:
  tablekit longer -i confirmed.csv --ids country --names-to date --values-to cases
  tablekit longer -i confirmed.csv --ids country --into month,day,year --sep / --convert --values-to cases`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTable(flags.input, flags.read)
			if err != nil {
				return err
			}

			var out *table.Table
			if into == "" {
				out, err = reshape.Longer(t, reshape.LongerOptions{
					IDColumns: splitList(ids),
					NamesTo:   namesTo,
					ValuesTo:  valuesTo,
				})
			} else {
				var kinds []table.Kind
				kinds, err = parseKindList(types)
				if err != nil {
					return err
				}
				out, err = reshape.LongerSplit(t, reshape.LongerSplitOptions{
					IDColumns: splitList(ids),
					NamesTo:   splitList(into),
					Sep:       sep,
					Regex:     regex,
					Convert:   convert,
					Types:     kinds,
					ValuesTo:  valuesTo,
					Warn:      printWarning,
				})
			}
			if err != nil {
				return err
			}
			return writeReshaped(out, flags.output)
		},
	}

	addReshapeFlags(cmd, &flags)
	cmd.Flags().StringVar(&ids, "ids", "", "identifier columns kept as-is (comma-separated)")
	cmd.Flags().StringVar(&namesTo, "names-to", "key", "name of the key column")
	cmd.Flags().StringVar(&valuesTo, "values-to", "value", "name of the value column")
	cmd.Flags().StringVar(&into, "into", "", "split column names into these key columns (comma-separated)")
	cmd.Flags().StringVar(&sep, "sep", "", "separator for --into (literal, or a pattern with --regex)")
	cmd.Flags().BoolVar(&regex, "regex", false, "treat --sep as a regular expression")
	cmd.Flags().BoolVar(&convert, "convert", false, "infer types for split key pieces")
	cmd.Flags().StringVar(&types, "types", "", "pin kinds for --into columns (comma-separated: string, int, float, bool, time)")

	return cmd
}

// widerCommand creates the wider command for long-to-wide pivoting.
func (c *CLI) widerCommand() *cobra.Command {
	var flags reshapeFlags
	var (
		ids        string
		namesFrom  string
		valuesFrom string
	)

	cmd := &cobra.Command{
		Use:   "wider",
		Short: "Pivot key/value rows into one column per key",
		Long: `Pivot key/value rows into one column per key.

Rows sharing the same --ids values collapse into a single output row; each
distinct value of --names-from becomes a column filled from --values-from.
Combinations that never occur become nulls. Two rows with the same ids and
key are an error.

Example:
  tablekit wider -i long.csv --ids country --names-from date --values-from cases`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTable(flags.input, flags.read)
			if err != nil {
				return err
			}
			out, err := reshape.Wider(t, reshape.WiderOptions{
				IDColumns:  splitList(ids),
				NamesFrom:  namesFrom,
				ValuesFrom: valuesFrom,
			})
			if err != nil {
				return err
			}
			return writeReshaped(out, flags.output)
		},
	}

	addReshapeFlags(cmd, &flags)
	cmd.Flags().StringVar(&ids, "ids", "", "identifier columns kept as-is (comma-separated)")
	cmd.Flags().StringVar(&namesFrom, "names-from", "", "column whose values become new column names")
	cmd.Flags().StringVar(&valuesFrom, "values-from", "", "column whose values fill the new columns")
	_ = cmd.MarkFlagRequired("names-from")
	_ = cmd.MarkFlagRequired("values-from")

	return cmd
}

// separateCommand creates the separate command for splitting a column.
func (c *CLI) separateCommand() *cobra.Command {
	var flags reshapeFlags
	var (
		column  string
		into    string
		sep     string
		types   string
		regex   bool
		convert bool
	)

	cmd := &cobra.Command{
		Use:   "separate",
		Short: "Split one column into several on a separator",
		Long: `Split one column into several on a separator.

Each cell of --column is split on --sep into exactly len(--into) pieces; a
cell that splits into a different count is an error naming the row. Null
cells produce all-null pieces. The new columns replace the source column in
place.

Example:
  tablekit separate -i tidy.csv --column date --into month,day,year --sep / --convert`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTable(flags.input, flags.read)
			if err != nil {
				return err
			}
			kinds, err := parseKindList(types)
			if err != nil {
				return err
			}
			out, err := reshape.Separate(t, reshape.SeparateOptions{
				Column:  column,
				Into:    splitList(into),
				Sep:     sep,
				Regex:   regex,
				Convert: convert,
				Types:   kinds,
				Warn:    printWarning,
			})
			if err != nil {
				return err
			}
			return writeReshaped(out, flags.output)
		},
	}

	addReshapeFlags(cmd, &flags)
	cmd.Flags().StringVar(&column, "column", "", "column to split")
	cmd.Flags().StringVar(&into, "into", "", "destination columns (comma-separated)")
	cmd.Flags().StringVar(&sep, "sep", "", "separator (literal, or a pattern with --regex)")
	cmd.Flags().BoolVar(&regex, "regex", false, "treat --sep as a regular expression")
	cmd.Flags().BoolVar(&convert, "convert", false, "infer types for the split pieces")
	cmd.Flags().StringVar(&types, "types", "", "pin kinds for --into columns (comma-separated: string, int, float, bool, time)")
	_ = cmd.MarkFlagRequired("column")
	_ = cmd.MarkFlagRequired("into")
	_ = cmd.MarkFlagRequired("sep")

	return cmd
}

// uniteCommand creates the unite command for joining columns.
func (c *CLI) uniteCommand() *cobra.Command {
	var flags reshapeFlags
	var (
		columns string
		into    string
		sep     string
	)

	cmd := &cobra.Command{
		Use:   "unite",
		Short: "Join several columns into one with a separator",
		Long: `Join several columns into one with a separator.

The --columns values are formatted and joined with --sep into a new --into
column, which takes the position of the first source column. Null cells join
as empty strings. The inverse of separate.

Example:
  tablekit unite -i split.csv --columns month,day,year --into date --sep /`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTable(flags.input, flags.read)
			if err != nil {
				return err
			}
			out, err := reshape.Unite(t, reshape.UniteOptions{
				Columns: splitList(columns),
				Into:    into,
				Sep:     sep,
			})
			if err != nil {
				return err
			}
			return writeReshaped(out, flags.output)
		},
	}

	addReshapeFlags(cmd, &flags)
	cmd.Flags().StringVar(&columns, "columns", "", "columns to join, in order (comma-separated)")
	cmd.Flags().StringVar(&into, "into", "", "name of the joined column")
	cmd.Flags().StringVar(&sep, "sep", "", "separator placed between values")
	_ = cmd.MarkFlagRequired("columns")
	_ = cmd.MarkFlagRequired("into")

	return cmd
}
