package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateColumnName validates a column name for safety and correctness.
// Names produced by reshape operations become real column headers, so the
// same rules apply to user-supplied names and to values promoted into names.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No null bytes
//   - Maximum length of 256 characters
//
// Duplicate detection is done separately by the table layer, which knows the
// full schema.
func ValidateColumnName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidColumn, "column name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidColumn, "column name too long (max 256 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidColumn, "column name contains invalid control characters")
		}
	}

	if strings.Contains(name, "\x00") {
		return New(ErrCodeInvalidColumn, "column name contains null bytes")
	}

	return nil
}

// ValidateFormat validates a serialization format name.
// Supported formats are csv, json, and parquet.
func ValidateFormat(format string) error {
	switch format {
	case "csv", "json", "parquet":
		return nil
	case "":
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	default:
		return New(ErrCodeInvalidFormat, "unsupported format: %q (expected csv, json, or parquet)", format)
	}
}

// datasetIDRegex matches dataset identifiers: UUIDs and other URL-safe tokens.
var datasetIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// ValidateDatasetID validates a dataset identifier for safety.
// IDs appear in URLs and storage keys, so the rules reject anything that
// could be used for path traversal or injection.
func ValidateDatasetID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "dataset id cannot be empty")
	}

	if len(id) > 64 {
		return New(ErrCodeInvalidInput, "dataset id too long (max 64 characters)")
	}

	if !datasetIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid dataset id: %q", id)
	}

	return nil
}

// ValidateRecipePath validates a file path referenced from a recipe for
// safety. It prevents path traversal and rejects unprintable characters.
// Absolute and relative paths are both accepted.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidateRecipePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidRecipe, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidRecipe, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidRecipe, "path contains invalid characters")
		}
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidRecipe, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
