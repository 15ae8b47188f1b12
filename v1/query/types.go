package query

import (
	"github.com/erpvec/erpvec/v1/filter"
	"github.com/erpvec/erpvec/v1/vectordb"
)

// AggOp is an aggregation operator.
type AggOp string

const (
	AggSum   AggOp = "sum"
	AggCount AggOp = "count"
	AggAvg   AggOp = "avg"
	AggMin   AggOp = "min"
	AggMax   AggOp = "max"
)

// Aggregation asks for one aggregate over a payload field. Count may
// leave Field empty to count matched records.
type Aggregation struct {
	Field string `json:"field,omitempty"`
	Op    AggOp  `json:"op"`
	Alias string `json:"alias"`
}

// AggregateRequest describes a filtered aggregation scan.
type AggregateRequest struct {
	// Filter is the compiled native filter.
	Filter *vectordb.FilterSet

	// Residual predicates applied in-memory before a record counts as
	// matched.
	Residual []filter.Predicate

	// Aggregations to accumulate per matched record.
	Aggregations []Aggregation

	// GroupBy keys the accumulators by the tuple of these payload
	// fields instead of a single scalar.
	GroupBy []string

	// MaxRecords caps how many matched records are folded in. Zero uses
	// the engine default.
	MaxRecords int
}

// GroupResult is one accumulator bucket. Without GroupBy there is exactly
// one bucket with a nil Key.
type GroupResult struct {
	// Key maps each groupBy field to its value for this bucket.
	Key map[string]any `json:"key,omitempty"`

	// Values maps aggregation aliases to their final values: int64 for
	// count, float64 for the rest.
	Values map[string]any `json:"values"`
}

// AggregateResult is the outcome of an aggregation scan.
type AggregateResult struct {
	Groups []GroupResult `json:"groups"`

	// TotalRecords is the number of records actually folded into the
	// aggregate: post-residual and capped, distinct from the possibly
	// larger number the store matched pre-residual.
	TotalRecords int `json:"totalRecords"`

	// Truncated marks a scan stopped by the record cap or the caller's
	// deadline. Aggregates then reflect only the scanned subset and must
	// be treated as a partial bound, not a final answer.
	Truncated bool `json:"truncated"`
}

// ScrollRequest asks for one page of matching records.
type ScrollRequest struct {
	Filter   *vectordb.FilterSet
	Residual []filter.Predicate
	Limit    int
	Cursor   string
}

// ScrollPage is one page of records plus continuation state.
type ScrollPage struct {
	Records []vectordb.Point `json:"records"`

	// Cursor continues the scan. Only meaningful while HasMore is true.
	Cursor string `json:"cursor,omitempty"`

	// HasMore is true whenever the store signals more pages exist.
	// A page may hold fewer than Limit records when residual predicates
	// filtered some out; callers keep scrolling while HasMore is set.
	HasMore bool `json:"hasMore"`
}
