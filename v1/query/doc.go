// Package query streams filtered record scans out of the vector store
// and folds them into aggregates or pages.
//
// The engine deliberately never materializes a full result set: records
// flow page by page through the residual predicates into running
// accumulators (sum, count, min, max, with avg derived at the end), so
// memory stays bounded by the page size regardless of how many records
// match. Both the matched-record cap and an expiring deadline stop the
// scan with a partial, explicitly truncated result.
package query
