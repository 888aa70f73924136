package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation. The
// HTTP service uses it to keep per-deployment entries apart when several
// instances share one Redis, and tests use it to avoid cross-test
// collisions on a shared file cache.
//
// Example usage:
//
//	// Keys scoped to one deployment
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TableKey generates a prefixed key for a parsed input table.
func (k *ScopedKeyer) TableKey(format string, data []byte) string {
	return k.prefix + k.inner.TableKey(format, data)
}

// RunKey generates a prefixed key for a pipeline run.
func (k *ScopedKeyer) RunKey(tableHash string, opts RunKeyOpts) string {
	return k.prefix + k.inner.RunKey(tableHash, opts)
}

// ReshapeKey generates a prefixed key for a reshape result.
func (k *ScopedKeyer) ReshapeKey(tableHash string, opts ReshapeKeyOpts) string {
	return k.prefix + k.inner.ReshapeKey(tableHash, opts)
}
