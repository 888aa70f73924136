// Package table provides the rectangular dataset value type that all of
// tablekit operates on.
//
// # Overview
//
// A [Table] is an ordered sequence of named columns of equal length. Column
// order is significant: it is preserved by codecs and reshape operations,
// and display surfaces render columns in table order. Cells are typed
// [Value] scalars with an explicit missing marker ([Null]), so "absent" is
// representable without overloading empty strings.
//
// Tables are immutable at the API level. Derivation methods such as
// [Table.WithColumn], [Table.Drop] and [Table.Select] return new tables that
// share value slices with the original, which keeps derivations cheap for
// wide tables. The flip side is an ownership rule: value slices handed to or
// obtained from a table must not be modified.
//
// # Basic Usage
//
// Create a table with [New] from complete columns, or assemble one row by
// row with [Builder]:
//
//	t, err := table.New(
//		table.Column{Name: "country", Values: []table.Value{table.String("AU")}},
//		table.Column{Name: "cases", Values: []table.Value{table.Int(12)}},
//	)
//
// Query shape and content with [Table.NumRows], [Table.NumCols],
// [Table.Column], [Table.Cell] and [Table.Row].
//
// # Type Inference
//
// [Infer] converts strings to the narrowest fitting kind using a fixed
// fallback chain: integer, then float, then date, then string. The chain
// never fails - unparseable input simply stays a string. [ParseAs] parses
// against one explicit kind instead, for callers that know the schema.
//
// # Concurrency
//
// Tables are safe for concurrent reads. Builders are not safe for
// concurrent use.
package table
