package vectordb

// ── FilterSet Constructors ───────────────────────────────────────────────────

// NewFilterSet creates a FilterSet with the given clauses.
// Use with Must(), Should(), and MustNot() helpers.
//
// Example:
//
//	vectordb.NewFilterSet(
//	    vectordb.Must(vectordb.NewMatch("model_name", "res.partner")),
//	    vectordb.MustNot(vectordb.NewMatch("point_type", "graph_edge")),
//	)
func NewFilterSet(clauses ...func(*FilterSet)) *FilterSet {
	fs := &FilterSet{}
	for _, clause := range clauses {
		clause(fs)
	}
	return fs
}

// Must creates a Must clause (AND logic) with the given conditions.
func Must(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.Must = &ConditionSet{Conditions: conditions}
	}
}

// Should creates a Should clause (OR logic) with the given conditions.
func Should(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.Should = &ConditionSet{Conditions: conditions}
	}
}

// MustNot creates a MustNot clause (NOT logic) with the given conditions.
func MustNot(conditions ...FilterCondition) func(*FilterSet) {
	return func(fs *FilterSet) {
		fs.MustNot = &ConditionSet{Conditions: conditions}
	}
}

// AppendMust adds conditions to the Must clause of an existing FilterSet,
// creating the clause if needed.
func (fs *FilterSet) AppendMust(conditions ...FilterCondition) *FilterSet {
	if fs.Must == nil {
		fs.Must = &ConditionSet{}
	}
	fs.Must.Conditions = append(fs.Must.Conditions, conditions...)
	return fs
}

// ── Condition Constructors ───────────────────────────────────────────────────

// NewMatch creates an exact-match condition.
func NewMatch(field string, value any) *MatchCondition {
	return &MatchCondition{Field: field, Value: value}
}

// NewMatchAny creates an IN condition.
func NewMatchAny(field string, values ...any) *MatchAnyCondition {
	return &MatchAnyCondition{Field: field, Values: values}
}

// NewMatchExcept creates a NOT IN condition.
func NewMatchExcept(field string, values ...any) *MatchExceptCondition {
	return &MatchExceptCondition{Field: field, Values: values}
}

// NewMatchText creates a substring-match condition.
func NewMatchText(field, text string) *MatchTextCondition {
	return &MatchTextCondition{Field: field, Text: text}
}

// NewNumericRange creates a numeric range condition.
//
// Example:
//
//	min := float64(100)
//	cond := vectordb.NewNumericRange("balance", vectordb.NumericRange{Gte: &min})
func NewNumericRange(field string, r NumericRange) *NumericRangeCondition {
	return &NumericRangeCondition{Field: field, Range: r}
}

// NewTimeRange creates a datetime range condition.
func NewTimeRange(field string, r TimeRange) *TimeRangeCondition {
	return &TimeRangeCondition{Field: field, Range: r}
}

// NewIsNull creates an IS NULL condition.
func NewIsNull(field string) *IsNullCondition {
	return &IsNullCondition{Field: field}
}

// NewIsEmpty creates an is-empty condition.
func NewIsEmpty(field string) *IsEmptyCondition {
	return &IsEmptyCondition{Field: field}
}
