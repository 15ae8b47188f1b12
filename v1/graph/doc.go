// Package graph validates referential integrity of the projected FK
// graph.
//
// Records carry their foreign keys as encoded pointer fields. Validation
// runs in phases per model: scan every record point, decode the pointers
// (malformed ones are structural errors, not orphans), check that every
// referenced point exists, optionally reconcile against stored graph-edge
// points in both directions, and optionally repair orphans by
// re-fetching their targets from the source system.
//
// Models validate concurrently under a bounded worker pool, and a
// failure in one model is recorded on its report while the others keep
// going. Repairs for the same missing target are deduplicated across
// workers, and a target the source system no longer has is marked
// unrepairable rather than retried.
package graph
