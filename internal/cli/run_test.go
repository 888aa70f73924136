package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/tablekit/tablekit/pkg/errors"
)

// writeRecipe writes a longer recipe reading from input and writing to
// output, returning the recipe path.
func writeRecipe(t *testing.T, dir, input, output string) string {
	t.Helper()
	content := fmt.Sprintf(`[input]
path = %q

[[step]]
op = "longer"
id_columns = ["country"]
names_to = "date"
values_to = "cases"

[output]
path = %q
`, input, output)

	path := filepath.Join(dir, "recipe.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write recipe: %v", err)
	}
	return path
}

func TestRunCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir := t.TempDir()
	input := filepath.Join(dir, "confirmed.csv")
	if err := os.WriteFile(input, []byte(wideCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "tidy.csv")
	rcpPath := writeRecipe(t, dir, input, output)

	if err := execute(t, "run", rcpPath); err != nil {
		t.Fatalf("run error: %v", err)
	}

	want := "country,date,cases\nAU,1/22/20,0\nAU,1/23/20,4\nNZ,1/22/20,1\nNZ,1/23/20,2\n"
	if got := readFile(t, output); got != want {
		t.Errorf("run output = %q, want %q", got, want)
	}

	// Second run serves from the cache and must produce the same file.
	if err := os.Remove(output); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "run", rcpPath); err != nil {
		t.Fatalf("second run error: %v", err)
	}
	if got := readFile(t, output); got != want {
		t.Errorf("cached run output = %q, want %q", got, want)
	}
}

func TestRunCommandOutputOverride(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir := t.TempDir()
	input := filepath.Join(dir, "confirmed.csv")
	if err := os.WriteFile(input, []byte(wideCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	rcpPath := writeRecipe(t, dir, input, filepath.Join(dir, "ignored.csv"))

	override := filepath.Join(dir, "actual.json")
	if err := execute(t, "run", rcpPath, "-o", override, "--no-cache"); err != nil {
		t.Fatalf("run -o error: %v", err)
	}

	if _, err := os.Stat(override); err != nil {
		t.Errorf("run -o should write to the override path: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "ignored.csv")); !os.IsNotExist(err) {
		t.Error("run -o should not write the recipe's output path")
	}

	// The override's extension picks the format.
	got := readFile(t, override)
	if got[0] != '[' {
		t.Errorf("run -o with .json extension should write JSON, got %q", got[:1])
	}
}

func TestRunCommandMissingRecipe(t *testing.T) {
	err := execute(t, "run", filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("run should fail for a missing recipe")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("run error code = %v, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}

func TestRunCommandInvalidRecipe(t *testing.T) {
	rcpPath := writeTempFile(t, "recipe.toml", "[[step]]\nop = \"longer\"\n")

	err := execute(t, "run", rcpPath)
	if err == nil {
		t.Fatal("run should reject a recipe without input.path")
	}
	if !errors.Is(err, errors.ErrCodeInvalidRecipe) {
		t.Errorf("run error code = %v, want INVALID_RECIPE", errors.GetCode(err))
	}
}

func TestRunCommandStepFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "confirmed.csv")
	if err := os.WriteFile(input, []byte("continent,area\nOceania,8\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// The recipe's id column does not exist in this input.
	rcpPath := writeRecipe(t, dir, input, filepath.Join(dir, "out.csv"))

	err := execute(t, "run", rcpPath, "--no-cache")
	if err == nil {
		t.Fatal("run should surface step failures")
	}
	if !errors.Is(err, errors.ErrCodeSchema) {
		t.Errorf("run error code = %v, want SCHEMA_ERROR", errors.GetCode(err))
	}
}
