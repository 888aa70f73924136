// Package pkg provides the core libraries for Tablekit table reshaping.
//
// # Overview
//
// Tablekit moves tabular data between wide form (one observation spread
// across many columns) and long form (one observation per row), the way
// tidyverse pivot functions do. The pkg directory is organized into four
// main areas:
//
//  1. [table] - The immutable table value type and cell model
//  2. [reshape] - The reshape operations (pure functions over tables)
//  3. [tableio], [arrowio] - Format codecs at the boundary (CSV, JSON, Parquet)
//  4. [recipe] - Orchestration (declarative multi-step pipelines with caching)
//
// # Architecture
//
// The typical data flow through Tablekit:
//
//	CSV/JSON/Parquet file
//	         ↓
//	    [tableio] or [arrowio] package (decode into a table)
//	         ↓
//	    [reshape] package (pivot, split, and merge columns)
//	         ↓
//	    [tableio] or [arrowio] package (encode the result)
//	         ↓
//	    CSV/JSON/Parquet output
//
// # Quick Start
//
// Pivot a wide table into long form:
//
//	import (
//	    "os"
//	    "github.com/tablekit/tablekit/pkg/reshape"
//	    "github.com/tablekit/tablekit/pkg/tableio"
//	)
//
//	// 1. Read a wide table
//	f, _ := os.Open("confirmed.csv")
//	t, _ := tableio.ReadCSV(f, tableio.CSVOptions{Infer: true})
//
//	// 2. Pivot the date columns into rows
//	long, _ := reshape.Longer(t, reshape.LongerOptions{
//	    IDColumns: []string{"country"},
//	    NamesTo:   "date",
//	    ValuesTo:  "cases",
//	})
//
//	// 3. Write the tidy result
//	out, _ := os.Create("tidy.csv")
//	_ = tableio.WriteCSV(long, out, tableio.CSVOptions{})
//
// # Main Packages
//
// ## Core Domain Logic
//
// [table] - Immutable rectangular tables with ordered, uniquely named
// columns. Cells are typed values (string, int, float, bool, time) with
// explicit nulls, plus inference from strings.
//
// [reshape] - The reshape operations: Longer, Wider, Separate, Unite, and
// LongerSplit. Each is a pure function from a table and an options struct
// to a new table; inputs are never mutated.
//
// ## Boundary IO
//
// [tableio] - CSV and records-JSON codecs with missing-value markers and
// optional type inference on read.
//
// [arrowio] - Apache Arrow interop and Parquet read/write. Parquet files
// carry column kinds, so tables round-trip without re-inference.
//
// ## Infrastructure
//
// [errors] - Structured error codes shared by the library, CLI, and
// server. Every failure carries a stable machine-readable code.
//
// [cache] - Result caching with file, Redis, and null backends behind one
// interface, plus key derivation from table content and step parameters.
//
// [observability] - Hook interfaces for reshape, cache, and HTTP events
// with no-op defaults. Carries no metrics backend.
//
// [buildinfo] - Build-time version information set via ldflags.
//
// ## Orchestration
//
// [recipe] - Declarative TOML pipelines (input → steps → output) and a
// caching Runner used by both the CLI and the server, so a recipe behaves
// identically at every entry point.
//
// # Common Workflows
//
// Split one column into several:
//
//	parts, _ := reshape.Separate(t, reshape.SeparateOptions{
//	    Column:  "date",
//	    Into:    []string{"month", "day", "year"},
//	    Sep:     "/",
//	    Convert: true,
//	})
//
// Run a recipe with file-backed caching:
//
//	rcp, _ := recipe.Load("tidy.toml")
//	c, _ := cache.NewFileCache(dir)
//	runner := recipe.NewRunner(c, nil, logger)
//	defer runner.Close()
//	res, _ := runner.Run(ctx, t, rcp, recipe.RunOptions{Name: "tidy"})
//
// Exchange tables with Arrow-based tools:
//
//	_ = arrowio.ExportParquet(t, "table.parquet")
//	back, _ := arrowio.ImportParquet("table.parquet")
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...               # All tests
//	go test ./pkg/reshape/...       # Specific package
//	go test -run Example            # Examples only
//
// [table]: https://pkg.go.dev/github.com/tablekit/tablekit/pkg/table
// [reshape]: https://pkg.go.dev/github.com/tablekit/tablekit/pkg/reshape
// [tableio]: https://pkg.go.dev/github.com/tablekit/tablekit/pkg/tableio
// [arrowio]: https://pkg.go.dev/github.com/tablekit/tablekit/pkg/arrowio
// [recipe]: https://pkg.go.dev/github.com/tablekit/tablekit/pkg/recipe
// [errors]: https://pkg.go.dev/github.com/tablekit/tablekit/pkg/errors
// [cache]: https://pkg.go.dev/github.com/tablekit/tablekit/pkg/cache
// [observability]: https://pkg.go.dev/github.com/tablekit/tablekit/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/tablekit/tablekit/pkg/buildinfo
package pkg
