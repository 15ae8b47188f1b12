package vectordb

import "time"

// FilterCondition is the interface all filter conditions implement.
// Each store adapter converts these to its native filter format.
type FilterCondition interface {
	// IsFilterCondition is a marker method to ensure type safety
	IsFilterCondition()
}

// FilterSet supports Must (AND), Should (OR), and MustNot (NOT) clauses.
//
// Example:
//
//	filters := &FilterSet{
//	    Must: &ConditionSet{
//	        Conditions: []FilterCondition{
//	            &MatchCondition{Field: "model_name", Value: "account.move.line"},
//	        },
//	    },
//	}
type FilterSet struct {
	// Must: All conditions must match (AND)
	Must *ConditionSet `json:"must,omitempty"`
	// Should: At least one condition must match (OR)
	Should *ConditionSet `json:"should,omitempty"`
	// MustNot: None of the conditions should match (NOT)
	MustNot *ConditionSet `json:"mustNot,omitempty"`
}

// ConditionSet holds a group of conditions for a single clause.
type ConditionSet struct {
	Conditions []FilterCondition `json:"conditions,omitempty"`
}

// ── Match Conditions ─────────────────────────────────────────────────────────

// MatchCondition represents an exact match filter (WHERE field = value).
// Supports string, bool, int and int64 values.
type MatchCondition struct {
	Field string `json:"field"`
	Value any    `json:"equalTo"`
}

func (c *MatchCondition) IsFilterCondition() {}

// MatchAnyCondition matches if the value is one of the given values.
// SQL equivalent: WHERE field IN (value1, value2, ...)
type MatchAnyCondition struct {
	Field  string `json:"field"`
	Values []any  `json:"anyOf"`
}

func (c *MatchAnyCondition) IsFilterCondition() {}

// MatchExceptCondition matches if the value is NOT one of the given values.
// SQL equivalent: WHERE field NOT IN (value1, value2, ...)
type MatchExceptCondition struct {
	Field  string `json:"field"`
	Values []any  `json:"noneOf"`
}

func (c *MatchExceptCondition) IsFilterCondition() {}

// MatchTextCondition matches points whose field contains the substring,
// using the store's full-text payload index.
// SQL equivalent: WHERE field LIKE '%substring%'
type MatchTextCondition struct {
	Field string `json:"field"`
	Text  string `json:"contains"`
}

func (c *MatchTextCondition) IsFilterCondition() {}

// ── Range Conditions ─────────────────────────────────────────────────────────

// NumericRange defines bounds for numeric filtering.
type NumericRange struct {
	Gt  *float64 `json:"greaterThan,omitempty"`
	Gte *float64 `json:"greaterThanOrEqualTo,omitempty"`
	Lt  *float64 `json:"lessThan,omitempty"`
	Lte *float64 `json:"lessThanOrEqualTo,omitempty"`
}

// TimeRange defines bounds for datetime filtering.
type TimeRange struct {
	Gt  *time.Time `json:"after,omitempty"`
	Gte *time.Time `json:"atOrAfter,omitempty"`
	Lt  *time.Time `json:"before,omitempty"`
	Lte *time.Time `json:"atOrBefore,omitempty"`
}

// NumericRangeCondition filters by numeric range.
// SQL equivalent: WHERE field >= min AND field <= max
type NumericRangeCondition struct {
	Field string       `json:"field"`
	Range NumericRange `json:"range"`
}

func (c *NumericRangeCondition) IsFilterCondition() {}

// TimeRangeCondition filters by datetime range.
// SQL equivalent: WHERE created_at >= '2024-01-01' AND created_at < '2025-01-01'
type TimeRangeCondition struct {
	Field string    `json:"field"`
	Range TimeRange `json:"range"`
}

func (c *TimeRangeCondition) IsFilterCondition() {}

// ── Null/Empty Conditions ────────────────────────────────────────────────────

// IsNullCondition checks if a field has a NULL value.
type IsNullCondition struct {
	Field string `json:"field"`
}

func (c *IsNullCondition) IsFilterCondition() {}

// IsEmptyCondition checks if a field is empty, null, or missing.
type IsEmptyCondition struct {
	Field string `json:"field"`
}

func (c *IsEmptyCondition) IsFilterCondition() {}
