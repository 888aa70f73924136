// Package recipe provides declarative reshape pipelines for tablekit.
//
// A recipe is a TOML file describing where a table comes from, the reshape
// steps to apply in order, and where the result goes. By centralizing this
// logic, the CLI and API share one execution path and one cache.
//
// # Recipe Format
//
//	[input]
//	path = "confirmed.csv"
//
//	[[step]]
//	op = "longer"
//	id_columns = ["Province/State", "Country/Region", "Lat", "Long"]
//	names_to = "date"
//	values_to = "cases"
//
//	[[step]]
//	op = "separate"
//	column = "date"
//	into = ["month", "day", "year"]
//	sep = "/"
//	convert = true
//
//	[output]
//	path = "tidy.csv"
//
// The destination key into is always a list; unite takes exactly one entry.
// Keys an operation does not use are ignored.
//
// # Usage
//
// Load a recipe and execute it against a table:
//
//	rcp, err := recipe.Load("tidy.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	runner := recipe.NewRunner(fileCache, nil, logger)
//	defer runner.Close()
//	result, err := runner.Run(ctx, tbl, rcp, recipe.RunOptions{})
//
// Reading the input file and writing the output file stay with the caller;
// the runner only transforms in-memory tables.
package recipe

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/tablekit/tablekit/pkg/errors"
	"github.com/tablekit/tablekit/pkg/table"
)

// Operation names for recipe steps.
const (
	OpLonger      = "longer"
	OpWider       = "wider"
	OpSeparate    = "separate"
	OpUnite       = "unite"
	OpLongerSplit = "longer_split"
)

// ValidOps is the set of supported step operations.
var ValidOps = map[string]bool{
	OpLonger:      true,
	OpWider:       true,
	OpSeparate:    true,
	OpUnite:       true,
	OpLongerSplit: true,
}

// Recipe is a declarative reshape pipeline: an input table, an ordered list
// of steps, and an optional output location.
type Recipe struct {
	Input  Input  `toml:"input" json:"input"`
	Steps  []Step `toml:"step" json:"steps,omitempty"`
	Output Output `toml:"output" json:"output"`
}

// Input describes where the recipe's table comes from.
type Input struct {
	// Path is the file to read. Required.
	Path string `toml:"path" json:"path"`
	// Format overrides detection by file extension (csv, json, parquet).
	Format string `toml:"format" json:"format,omitempty"`
	// Missing is the marker read as null (CSV only).
	Missing string `toml:"missing" json:"missing,omitempty"`
	// Infer runs type inference on cells (CSV only; off by default).
	Infer bool `toml:"infer" json:"infer,omitempty"`
	// Types pins column kinds by name, overriding inference (CSV only).
	// Values are kind names: string, int, float, bool, time.
	Types map[string]string `toml:"types" json:"types,omitempty"`
}

// Output describes where the result goes. A zero Output leaves the
// destination to the caller (the CLI writes to stdout).
type Output struct {
	Path   string `toml:"path" json:"path,omitempty"`
	Format string `toml:"format" json:"format,omitempty"`
}

// Step is one reshape operation. Op selects the operation; the remaining
// keys parameterize it.
type Step struct {
	Op string `toml:"op" json:"op"`

	// IDColumns are identifier columns (longer, wider, longer_split).
	IDColumns []string `toml:"id_columns" json:"id_columns,omitempty"`
	// Columns are the source columns to merge (unite).
	Columns []string `toml:"columns" json:"columns,omitempty"`
	// Column is the source column to split (separate).
	Column string `toml:"column" json:"column,omitempty"`
	// Into are the destination columns (separate, unite, longer_split).
	Into []string `toml:"into" json:"into,omitempty"`

	// NamesTo names the key column (longer).
	NamesTo string `toml:"names_to" json:"names_to,omitempty"`
	// ValuesTo names the value column (longer, longer_split).
	ValuesTo string `toml:"values_to" json:"values_to,omitempty"`
	// NamesFrom selects the key column (wider).
	NamesFrom string `toml:"names_from" json:"names_from,omitempty"`
	// ValuesFrom selects the value column (wider).
	ValuesFrom string `toml:"values_from" json:"values_from,omitempty"`

	// Sep is the separator: a literal string, or a regular expression when
	// Regex is set (separate, unite, longer_split).
	Sep   string `toml:"sep" json:"sep,omitempty"`
	Regex bool   `toml:"regex" json:"regex,omitempty"`
	// Convert runs type inference on split pieces (separate, longer_split).
	Convert bool `toml:"convert" json:"convert,omitempty"`
	// Types pins a kind per destination column instead of inference
	// (separate, longer_split). Values are kind names as in [Input].
	Types []string `toml:"types" json:"types,omitempty"`
}

// Load reads and validates a recipe file.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read recipe %s", path)
	}
	return parse(data)
}

// Parse reads and validates a recipe from r.
func Parse(r io.Reader) (*Recipe, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecipe, err, "read recipe")
	}
	return parse(data)
}

func parse(data []byte) (*Recipe, error) {
	var rcp Recipe
	if err := toml.Unmarshal(data, &rcp); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRecipe, err, "parse recipe")
	}
	if err := rcp.Validate(); err != nil {
		return nil, err
	}
	return &rcp, nil
}

// Validate checks the recipe for structural problems: unknown ops, missing
// required keys, bad type names, unsafe paths. It does not touch the
// filesystem. A recipe with no steps is valid and acts as a format
// conversion.
func (r *Recipe) Validate() error {
	if r.Input.Path == "" {
		return errors.New(errors.ErrCodeInvalidRecipe, "input.path is required")
	}
	if err := errors.ValidateRecipePath(r.Input.Path); err != nil {
		return fmt.Errorf("input.path: %w", err)
	}
	if r.Input.Format != "" {
		if err := errors.ValidateFormat(r.Input.Format); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRecipe, err, "input.format")
		}
	}
	if _, err := r.Input.Kinds(); err != nil {
		return err
	}
	if r.Output.Path != "" {
		if err := errors.ValidateRecipePath(r.Output.Path); err != nil {
			return fmt.Errorf("output.path: %w", err)
		}
	}
	if r.Output.Format != "" {
		if err := errors.ValidateFormat(r.Output.Format); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRecipe, err, "output.format")
		}
	}
	for i, s := range r.Steps {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

// Kinds converts the input's per-column type names to column kinds, in the
// shape codec options expect.
func (in Input) Kinds() (map[string]table.Kind, error) {
	if len(in.Types) == 0 {
		return nil, nil
	}
	kinds := make(map[string]table.Kind, len(in.Types))
	for col, name := range in.Types {
		k, err := table.ParseKind(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecipe, err, "input.types[%q]", col)
		}
		kinds[col] = k
	}
	return kinds, nil
}

// Validate checks that the step names a known operation and carries its
// required keys. The HTTP API validates incoming reshape requests with this
// too, so the rules stay in one place.
func (s Step) Validate() error {
	if !ValidOps[s.Op] {
		return errors.New(errors.ErrCodeInvalidRecipe,
			"unknown op: %q (expected longer, wider, separate, unite, or longer_split)", s.Op)
	}
	if _, err := s.kinds(); err != nil {
		return err
	}

	switch s.Op {
	case OpLonger:
		if s.NamesTo == "" {
			return errors.New(errors.ErrCodeInvalidRecipe, "longer requires names_to")
		}
		if s.ValuesTo == "" {
			return errors.New(errors.ErrCodeInvalidRecipe, "longer requires values_to")
		}
	case OpWider:
		if s.NamesFrom == "" {
			return errors.New(errors.ErrCodeInvalidRecipe, "wider requires names_from")
		}
		if s.ValuesFrom == "" {
			return errors.New(errors.ErrCodeInvalidRecipe, "wider requires values_from")
		}
	case OpSeparate:
		if s.Column == "" {
			return errors.New(errors.ErrCodeInvalidRecipe, "separate requires column")
		}
		if len(s.Into) == 0 {
			return errors.New(errors.ErrCodeInvalidRecipe, "separate requires into")
		}
		if s.Sep == "" {
			return errors.New(errors.ErrCodeInvalidRecipe, "separate requires sep")
		}
		if len(s.Types) > 0 && len(s.Types) != len(s.Into) {
			return errors.New(errors.ErrCodeInvalidRecipe,
				"types has %d entries for %d destinations", len(s.Types), len(s.Into))
		}
	case OpUnite:
		if len(s.Columns) < 2 {
			return errors.New(errors.ErrCodeInvalidRecipe, "unite requires at least two columns")
		}
		if len(s.Into) != 1 {
			return errors.New(errors.ErrCodeInvalidRecipe, "unite takes exactly one destination in into")
		}
	case OpLongerSplit:
		if len(s.Into) == 0 {
			return errors.New(errors.ErrCodeInvalidRecipe, "longer_split requires into")
		}
		if s.ValuesTo == "" {
			return errors.New(errors.ErrCodeInvalidRecipe, "longer_split requires values_to")
		}
		if s.Sep == "" {
			return errors.New(errors.ErrCodeInvalidRecipe, "longer_split requires sep")
		}
		if len(s.Types) > 0 && len(s.Types) != len(s.Into) {
			return errors.New(errors.ErrCodeInvalidRecipe,
				"types has %d entries for %d destinations", len(s.Types), len(s.Into))
		}
	}
	return nil
}

// kinds converts the step's type names to column kinds.
func (s Step) kinds() ([]table.Kind, error) {
	if len(s.Types) == 0 {
		return nil, nil
	}
	kinds := make([]table.Kind, len(s.Types))
	for i, name := range s.Types {
		k, err := table.ParseKind(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecipe, err, "types[%d]", i)
		}
		kinds[i] = k
	}
	return kinds, nil
}
