package vectordb

import "context"

// Service is the common interface for all vector stores.
// It provides a store-agnostic abstraction so the query and integrity
// engines never depend on a concrete store client, and tests can supply
// in-memory fakes.
//
// Example usage:
//
//	func NewEngine(db vectordb.Service) *Engine {
//	    return &Engine{db: db}
//	}
type Service interface {
	// Upsert writes points to a collection, chunking internally so large
	// batches never exceed the store's request limits.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Scroll returns one page of points matching a filter, in stable
	// store order. Successive calls with the returned cursor never skip
	// or duplicate points already returned for that cursor chain.
	Scroll(ctx context.Context, req ScrollRequest) (*ScrollResult, error)

	// Count returns the number of points matching a filter.
	Count(ctx context.Context, req CountRequest) (uint64, error)

	// GetPoints fetches points by id. Missing ids are simply absent from
	// the result; the call does not fail on them.
	GetPoints(ctx context.Context, collection string, ids []string, withPayload bool) ([]Point, error)

	// DeleteByFilter removes every point matching the filter.
	DeleteByFilter(ctx context.Context, collection string, filter *FilterSet) error

	// EnsureCollection creates a collection if it doesn't exist.
	// Safe to call multiple times.
	EnsureCollection(ctx context.Context, name string, vectorSize uint64) error

	// CreatePayloadIndex indexes a payload field so it becomes natively
	// filterable. Idempotent.
	CreatePayloadIndex(ctx context.Context, collection, field string, indexType PayloadIndexType) error

	// GetCollection retrieves metadata about a collection.
	GetCollection(ctx context.Context, name string) (*Collection, error)

	// ListCollections returns names of all collections.
	ListCollections(ctx context.Context) ([]string, error)
}
