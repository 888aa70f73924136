package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheClearCommand(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	// Seed the cache layout: sharded subdirectories with entry files.
	dir := filepath.Join(cacheHome, appName)
	for _, rel := range []string{"ab/one.json", "ab/two.json", "cd/three.json"} {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read cache dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir should be empty after clear, has %d entries", len(entries))
	}
}

func TestCacheClearCommandEmpty(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	// No cache directory exists yet; clear should succeed quietly.
	if err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear on missing dir error: %v", err)
	}
}

func TestCachePathCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if err := execute(t, "cache", "path"); err != nil {
		t.Fatalf("cache path error: %v", err)
	}
}
