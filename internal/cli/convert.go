package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// convertCommand creates the convert command for format translation.
func (c *CLI) convertCommand() *cobra.Command {
	var read readOptions

	cmd := &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "Convert a table between csv, json, and parquet",
		Long: `Convert a table between formats.

Formats are detected from the file extensions; --from overrides detection for
the input. Parquet output preserves column kinds exactly, so use --infer (or
a typed input format) when converting from CSV, otherwise every column lands
as strings.

Examples:
  tablekit convert --infer confirmed.csv confirmed.parquet
  tablekit convert confirmed.parquet confirmed.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Logger.Infof("Converting %s", args[0])

			prog := newProgress(c.Logger)
			t, err := readTable(args[0], read)
			if err != nil {
				return err
			}
			if err := writeTable(t, args[1], ""); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Wrote %s: %d rows, %d cols", args[1], t.NumRows(), t.NumCols()))
			return nil
		},
	}

	addReadFlags(cmd, &read)

	return cmd
}
