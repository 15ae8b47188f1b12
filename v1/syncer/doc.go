// Package syncer projects ERP records into the vector store.
//
// A sync run is a three-stage pipeline: fetch pages records from the
// source, transform builds the point payload (system fields, business
// fields, FK pointer fields, the human-readable vector text), embed
// attaches vectors in batches, and upsert writes them. Stages run
// concurrently with bounded channels between them, so throughput is
// limited by the slowest stage rather than memory.
//
// Failure isolation follows one rule: a record that cannot be projected
// (identity overflow) or a batch that still fails after retries is
// recorded on the result and the run continues. Only configuration-level
// failures abort. When the caller's deadline expires mid-run the partial
// result comes back with its incomplete flag set.
//
// The syncer also serves as the integrity engine's repair fetcher and
// hosts heuristic FK field detection for models whose schemas don't
// declare their relations.
package syncer
