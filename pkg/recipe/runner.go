package recipe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tablekit/tablekit/pkg/arrowio"
	"github.com/tablekit/tablekit/pkg/buildinfo"
	"github.com/tablekit/tablekit/pkg/cache"
	"github.com/tablekit/tablekit/pkg/errors"
	"github.com/tablekit/tablekit/pkg/observability"
	"github.com/tablekit/tablekit/pkg/reshape"
	"github.com/tablekit/tablekit/pkg/table"
)

// Runner executes recipes with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different recipes.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// RunOptions contains per-run configuration.
type RunOptions struct {
	// Refresh recomputes the result even when a cached one exists. The
	// fresh result still replaces the cached entry.
	Refresh bool
	// Name identifies the run in logs and hooks, typically the recipe file
	// name. Defaults to "recipe".
	Name string
}

// Result contains the outputs of a recipe run.
type Result struct {
	// Table is the reshaped table.
	Table *table.Table

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the run came from cache.
	CacheInfo CacheInfo
}

// Stats contains recipe execution statistics.
type Stats struct {
	Steps      int
	InputRows  int
	InputCols  int
	OutputRows int
	OutputCols int
	RunTime    time.Duration
}

// CacheInfo tracks cache hits for a run.
type CacheInfo struct {
	RunHit bool // Whether the result came from cache
}

// Run applies the recipe's steps to t in order, with caching.
//
// The cache key covers the input table's content, the step list, and the
// engine version, so a hit is only possible for an identical computation.
// Reading rcp.Input and writing rcp.Output are the caller's concern.
func (r *Runner) Run(ctx context.Context, t *table.Table, rcp *Recipe, opts RunOptions) (*Result, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "table is nil")
	}
	if err := rcp.Validate(); err != nil {
		return nil, err
	}
	name := opts.Name
	if name == "" {
		name = "recipe"
	}

	start := time.Now()
	observability.Reshape().OnRunStart(ctx, name, len(rcp.Steps))

	result := &Result{
		Stats: Stats{
			Steps:     len(rcp.Steps),
			InputRows: t.NumRows(),
			InputCols: t.NumCols(),
		},
	}

	key, keyErr := r.runKey(t, rcp)
	if keyErr != nil {
		r.Logger.Debug("run not cacheable", "err", keyErr)
	}

	// Try cache first (unless refresh requested)
	if keyErr == nil && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if cached, err := decodeTable(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "run")
				result.Table = cached
				result.Stats.OutputRows = cached.NumRows()
				result.Stats.OutputCols = cached.NumCols()
				result.Stats.RunTime = time.Since(start)
				result.CacheInfo.RunHit = true
				observability.Reshape().OnRunComplete(ctx, name, result.Stats.RunTime, nil)
				return result, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "run")
	}

	warn := func(format string, args ...any) {
		r.Logger.Warnf(format, args...)
	}

	out := t
	for i, step := range rcp.Steps {
		stepStart := time.Now()
		observability.Reshape().OnStepStart(ctx, step.Op, out.NumRows(), out.NumCols())

		next, err := step.Apply(out, warn)

		rows, cols := 0, 0
		if next != nil {
			rows, cols = next.NumRows(), next.NumCols()
		}
		observability.Reshape().OnStepComplete(ctx, step.Op, rows, cols, time.Since(stepStart), err)

		if err != nil {
			observability.Reshape().OnRunComplete(ctx, name, time.Since(start), err)
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}

		r.Logger.Info("applied step",
			"op", step.Op,
			"rows", rows,
			"cols", cols,
			"duration", time.Since(stepStart))
		out = next
	}

	result.Table = out
	result.Stats.OutputRows = out.NumRows()
	result.Stats.OutputCols = out.NumCols()
	result.Stats.RunTime = time.Since(start)

	// Cache the result
	if keyErr == nil {
		if data, err := encodeTable(out); err == nil {
			_ = r.Cache.Set(ctx, key, data, cache.TTLRun)
			observability.Cache().OnCacheSet(ctx, "run", len(data))
		}
	}

	observability.Reshape().OnRunComplete(ctx, name, result.Stats.RunTime, nil)
	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// runKey computes the cache key for a run. The key covers the serialized
// input table, the step list, and the engine version, so upgrades and edits
// to either the data or the recipe invalidate old entries. Input and output
// locations deliberately stay out of the key.
func (r *Runner) runKey(t *table.Table, rcp *Recipe) (string, error) {
	payload, err := encodeTable(t)
	if err != nil {
		return "", err
	}
	steps, err := json.Marshal(rcp.Steps)
	if err != nil {
		return "", err
	}
	return r.Keyer.RunKey(cache.Hash(payload), cache.RunKeyOpts{
		Recipe:  string(steps),
		Version: buildinfo.Version,
	}), nil
}

// encodeTable serializes a table for hashing and cache storage. Parquet
// embeds the schema, so tables that differ only in column kinds hash
// differently.
func encodeTable(t *table.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := arrowio.WriteParquet(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeTable(data []byte) (*table.Table, error) {
	return arrowio.ReadParquet(bytes.NewReader(data))
}

// Apply runs a single step against a table. The step must have passed
// [Step.Validate]. warn receives non-fatal coercion warnings and may be nil.
func (s Step) Apply(t *table.Table, warn func(format string, args ...any)) (*table.Table, error) {
	switch s.Op {
	case OpLonger:
		return reshape.Longer(t, reshape.LongerOptions{
			IDColumns: s.IDColumns,
			NamesTo:   s.NamesTo,
			ValuesTo:  s.ValuesTo,
		})
	case OpWider:
		return reshape.Wider(t, reshape.WiderOptions{
			IDColumns:  s.IDColumns,
			NamesFrom:  s.NamesFrom,
			ValuesFrom: s.ValuesFrom,
		})
	case OpSeparate:
		kinds, err := s.kinds()
		if err != nil {
			return nil, err
		}
		return reshape.Separate(t, reshape.SeparateOptions{
			Column:  s.Column,
			Into:    s.Into,
			Sep:     s.Sep,
			Regex:   s.Regex,
			Convert: s.Convert,
			Types:   kinds,
			Warn:    warn,
		})
	case OpUnite:
		return reshape.Unite(t, reshape.UniteOptions{
			Columns: s.Columns,
			Into:    s.Into[0],
			Sep:     s.Sep,
		})
	case OpLongerSplit:
		kinds, err := s.kinds()
		if err != nil {
			return nil, err
		}
		return reshape.LongerSplit(t, reshape.LongerSplitOptions{
			IDColumns: s.IDColumns,
			NamesTo:   s.Into,
			Sep:       s.Sep,
			Regex:     s.Regex,
			Convert:   s.Convert,
			Types:     kinds,
			ValuesTo:  s.ValuesTo,
			Warn:      warn,
		})
	default:
		return nil, errors.New(errors.ErrCodeInvalidRecipe, "unknown op: %q", s.Op)
	}
}
