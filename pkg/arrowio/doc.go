// Package arrowio bridges tables to Apache Arrow and Parquet.
//
// # Overview
//
// Arrow is the interchange layer for columnar tooling: [ToRecord] and
// [FromRecord] convert between tables and Arrow record batches, and
// [WriteParquet] and [ReadParquet] use that bridge to persist tables as
// Parquet files. Text formats live in the tableio package; this package
// covers the binary columnar path.
//
// # Type Mapping
//
// Value kinds map to Arrow types one-to-one where possible:
//
//   - string   <-> utf8
//   - int      <-> int64
//   - float    <-> float64
//   - bool     <-> boolean
//   - time     <-> timestamp[us, UTC]
//
// Tables are looser than Arrow in one way: a column may mix kinds (after a
// partially-converted split, for example). Such columns degrade to utf8 on
// the way out, encoding each cell by its display form. On the way in,
// narrower Arrow types widen (int32 to int64, float32 to float64, dates to
// timestamps) and anything else degrades to its string form, so foreign
// files always load.
//
// # Memory
//
// Arrow records are reference counted. Callers own records returned by
// [ToRecord] and must Release them; tables returned by [FromRecord] and
// [ReadParquet] are plain Go values with no retained Arrow buffers.
package arrowio
