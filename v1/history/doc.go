// Package history persists validation runs and detected FK mappings on
// the local filesystem.
//
// Reports append to a JSONL file through a bounded non-blocking writer:
// the integrity engine must never stall on disk, so a full queue drops
// the report and counts the drop instead. FK mappings live in a single
// JSON document that keeps a .bak copy of its previous state on every
// save.
package history
