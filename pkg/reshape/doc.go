// Package reshape provides the pivot operations that move tables between
// wide and long layouts.
//
// # Overview
//
// Time-series and observational data usually arrives wide: one row per
// subject, one column per observation point. Analysis tooling wants it
// long: one row per observation, with a key column saying what was
// observed. This package provides both directions plus the column
// surgery that goes with them:
//
//   - [Longer] melts measure columns into key/value rows
//   - [Wider] pivots key/value rows back into columns
//   - [Separate] splits one column into several on a separator
//   - [Unite] merges several columns into one
//   - [LongerSplit] composes melting with splitting the former column names
//
// All operations are pure functions: they never modify their input and
// return a fresh [table.Table]. They perform no I/O and no logging; codecs
// and command surfaces live elsewhere.
//
// # Round Trips
//
// The operations are designed to invert each other. [Wider] applied to the
// output of [Longer] (with matching options) reproduces the original table,
// and [Separate] recovers columns merged by [Unite] as long as the values do
// not contain the separator. [LongerSplit] produces exactly what [Longer]
// followed by [Separate] on the key column would.
//
// # Missing Values
//
// Widening fills absent (identifier, key) combinations with the explicit
// missing value ([table.Null]) rather than dropping rows or inventing
// zeros. Null cells flow through all operations unchanged - separating a
// null yields all-null pieces, and uniting formats nulls as empty strings.
//
// # Errors
//
// Structurally impossible requests (unknown columns, colliding or invalid
// output names, bad arity) fail with coded errors from the errors package:
// SCHEMA_ERROR and SPLIT_ARITY. Type conversion never fails an operation:
// values that do not parse stay strings, reported through the options'
// Warn callback as TYPE_COERCION warnings.
package reshape
