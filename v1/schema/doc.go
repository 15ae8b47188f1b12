// Package schema provides the in-memory catalog of model and field
// metadata used to validate and compile queries against projected ERP
// records.
//
// The catalog is built once at startup from a Source (the ERP's field
// definitions in production, a fabricated slice in tests) and passed by
// reference to the filter compiler and the graph integrity engine.
// Initialize is idempotent; Reload forces a full re-initialization.
//
// Besides per-model fields, the package owns the fixed contracts of the
// store-level system fields (point id, sync timestamp, model name, point
// type) and the shared payload key conventions, including the "_ptr"
// suffix for FK pointer fields.
//
// Lookups against unknown models never panic: they return a
// *ModelNotFoundError carrying the closest-matching known model names,
// computed with bounded edit distance.
package schema
