// Package cache provides byte-oriented result caching with pluggable
// backends: files for single-machine CLI use, Redis for shared service
// deployments, and a null backend for disabling caching entirely.
package cache

import (
	"context"
	"time"
)

// Default time-to-live per entry kind.
const (
	TTLTable   = 24 * time.Hour
	TTLRun     = 7 * 24 * time.Hour
	TTLReshape = 24 * time.Hour
)

// Cache stores opaque byte payloads under string keys. Implementations
// must be safe for concurrent use. A zero ttl means the entry never
// expires.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present; an absent key is not an error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores a value with the given time-to-live.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// Keyer generates cache keys for the domain objects worth caching:
// parsed input tables, pipeline runs and single reshape results.
type Keyer interface {
	// TableKey generates a key for a parsed input table, derived from the
	// raw serialized bytes and the format they were parsed as.
	TableKey(format string, data []byte) string

	// RunKey generates a key for a full pipeline run over a table.
	RunKey(tableHash string, opts RunKeyOpts) string

	// ReshapeKey generates a key for a single reshape operation result.
	ReshapeKey(tableHash string, opts ReshapeKeyOpts) string
}

// RunKeyOpts distinguishes pipeline runs over the same input table.
type RunKeyOpts struct {
	Recipe  string // Canonical serialization of the recipe
	Version string // Engine version, so upgrades invalidate old entries
}

// ReshapeKeyOpts distinguishes reshape results over the same input table.
type ReshapeKeyOpts struct {
	Op      string // Operation name (longer, wider, separate, unite)
	Options any    // The operation's options value
}

// DefaultKeyer is the standard key scheme. Table keys embed the content
// hash directly; run and reshape keys hash all their parameters so that
// any change produces a different key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// TableKey generates a key for a parsed input table.
func (k *DefaultKeyer) TableKey(format string, data []byte) string {
	return "table:" + format + ":" + Hash(data)
}

// RunKey generates a key for a full pipeline run.
func (k *DefaultKeyer) RunKey(tableHash string, opts RunKeyOpts) string {
	return hashKey("run", tableHash, opts)
}

// ReshapeKey generates a key for a single reshape result.
func (k *DefaultKeyer) ReshapeKey(tableHash string, opts ReshapeKeyOpts) string {
	return hashKey("reshape", tableHash, opts.Op, opts.Options)
}
