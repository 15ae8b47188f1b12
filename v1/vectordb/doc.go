// Package vectordb defines store-agnostic types and the Service interface
// for the vector store backing the ERP projection.
//
// The store offers approximate nearest-neighbor search plus simple payload
// filters; everything relational on top of it (deterministic addressing,
// aggregation, referential integrity) is built by the other packages of
// this module against the Service interface, never against a concrete
// client. The qdrant package provides the production adapter.
//
// Filters use the FilterSet structure with Must (AND), Should (OR) and
// MustNot (NOT) clauses. Convenience constructors keep call sites short:
//
//	filter := vectordb.NewFilterSet(
//	    vectordb.Must(
//	        vectordb.NewMatch("model_name", "account.move.line"),
//	        vectordb.NewNumericRange("balance", vectordb.NumericRange{Gte: &min}),
//	    ),
//	)
//
// For testing, depend on the Service interface and supply a fake:
//
//	type fakeStore struct{ vectordb.Service }
//
//	func (f *fakeStore) Scroll(ctx context.Context, req vectordb.ScrollRequest) (*vectordb.ScrollResult, error) {
//	    return &vectordb.ScrollResult{Points: f.points}, nil
//	}
package vectordb
