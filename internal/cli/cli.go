// Package cli implements the tablekit command-line interface.
//
// The CLI exposes the reshape engine as direct commands (longer, wider,
// separate, unite), recipe pipelines (run), table utilities (view, convert),
// and the HTTP server (serve). Reshape results are cached locally under the
// XDG cache directory; the cache command manages that directory.
//
// # Commands
//
// The main commands are:
//   - longer/wider: pivot between wide and long table layouts
//   - separate/unite: split and join columns on a separator
//   - run: execute a TOML recipe pipeline with caching
//   - view: preview a table in the terminal, optionally interactively
//   - convert: translate between csv, json, and parquet
//   - serve: start the dataset HTTP server
//   - cache: manage the local result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Commands log
// through the CLI's charmbracelet logger; status output (success lines, file
// paths, stats) goes to stdout through the ui helpers.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tablekit/tablekit/pkg/buildinfo"
	"github.com/tablekit/tablekit/pkg/cache"
	"github.com/tablekit/tablekit/pkg/recipe"
	"github.com/tablekit/tablekit/pkg/table"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "tablekit"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance logging to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "tablekit",
		Short:        "Tablekit reshapes tabular data between wide and long form",
		Long:         `Tablekit is a CLI tool for reshaping tabular data: pivoting between wide and long layouts, splitting and joining columns, and running declarative reshape recipes.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.longerCommand())
	root.AddCommand(c.widerCommand())
	root.AddCommand(c.separateCommand())
	root.AddCommand(c.uniteCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a recipe runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*recipe.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return recipe.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/tablekit/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Flag Helpers
// =============================================================================

// splitList parses a comma-separated flag value into trimmed names.
// Empty entries are dropped.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

// parseKindList resolves a comma-separated --types flag value into kinds.
// An empty value means no pinned kinds (inference decides).
func parseKindList(s string) ([]table.Kind, error) {
	names := splitList(s)
	if len(names) == 0 {
		return nil, nil
	}
	kinds := make([]table.Kind, len(names))
	for i, name := range names {
		k, err := table.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds[i] = k
	}
	return kinds, nil
}
