package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tablekit/tablekit/pkg/recipe"
)

// runCommand creates the run command for executing recipe pipelines.
func (c *CLI) runCommand() *cobra.Command {
	var (
		output  string
		refresh bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "run [recipe.toml]",
		Short: "Run a reshape recipe",
		Long: `Run a reshape recipe.

A recipe is a TOML file describing an input table, an ordered list of reshape
steps, and an optional output location. Results are cached locally keyed on
the input data and the steps, so re-running an unchanged recipe is instant;
--refresh forces a recompute.

See the recipe package documentation for the file format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRecipe(cmd.Context(), args[0], output, refresh, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (overrides the recipe's [output] section)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRecipe loads the recipe, reads its input table, runs the steps, and
// writes the result.
func (c *CLI) runRecipe(ctx context.Context, path, output string, refresh, noCache bool) error {
	rcp, err := recipe.Load(path)
	if err != nil {
		return err
	}

	kinds, err := rcp.Input.Kinds()
	if err != nil {
		return err
	}
	t, err := readTable(rcp.Input.Path, readOptions{
		format:  rcp.Input.Format,
		missing: rcp.Input.Missing,
		infer:   rcp.Input.Infer,
		kinds:   kinds,
	})
	if err != nil {
		return fmt.Errorf("read input %s: %w", rcp.Input.Path, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Running %s...", name))
	spinner.Start()

	res, err := runner.Run(ctx, t, rcp, recipe.RunOptions{Refresh: refresh, Name: name})
	if err != nil {
		spinner.StopWithError("Recipe failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	// The -o flag replaces the recipe's whole [output] section, so its format
	// comes from the new extension rather than the recipe.
	outputPath, outputFormat := output, ""
	if outputPath == "" {
		outputPath, outputFormat = rcp.Output.Path, rcp.Output.Format
	}
	if err := writeTable(res.Table, outputPath, outputFormat); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	if outputPath != "" {
		printSuccess("Recipe complete")
		printFile(outputPath)
		printStats(res.Stats.OutputRows, res.Stats.OutputCols, res.CacheInfo.RunHit)
		printNewline()
		printNextStep("Preview", "tablekit view "+outputPath)
	}
	return nil
}
