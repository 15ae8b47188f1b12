package filter

import (
	"time"

	"github.com/erpvec/erpvec/v1/schema"
	"github.com/erpvec/erpvec/v1/vectordb"
)

// Compile validates the condition list and splits it into a native store
// filter plus residual in-memory predicates.
//
// The native filter always pins model_name: a single physical collection
// holds heterogeneous model payloads, and cross-model leakage would be a
// correctness bug, not an edge case. Each explicit condition goes native
// when the store can evaluate it (the field is stored, indexed, and the
// operator/type pair maps onto a store filter); everything else becomes a
// residual predicate.
func Compile(catalog *schema.Catalog, model string, conditions []Condition) (*Compiled, error) {
	if err := Validate(catalog, model, conditions); err != nil {
		return nil, err
	}

	native := vectordb.NewFilterSet(
		vectordb.Must(vectordb.NewMatch(schema.PayloadModelName, model)),
	)
	compiled := &Compiled{Native: native}

	for _, c := range conditions {
		cond, negated, ok := nativeCondition(catalog, model, c)
		if !ok {
			compiled.Residual = append(compiled.Residual, NewPredicate(c))
			continue
		}
		if negated {
			if native.MustNot == nil {
				native.MustNot = &vectordb.ConditionSet{}
			}
			native.MustNot.Conditions = append(native.MustNot.Conditions, cond)
		} else {
			native.AppendMust(cond)
		}
	}

	return compiled, nil
}

// nativeCondition maps a validated condition onto a store filter clause.
// The boolean result reports whether a native mapping exists at all;
// negated marks conditions that belong in the MustNot clause.
func nativeCondition(catalog *schema.Catalog, model string, c Condition) (cond vectordb.FilterCondition, negated, ok bool) {
	ft, filterable := nativeFieldType(catalog, model, c.Field)
	if !filterable {
		return nil, false, false
	}

	switch c.Op {
	case schema.OpEq, schema.OpNeq:
		m, ok := matchCondition(ft, c)
		return m, c.Op == schema.OpNeq, ok
	case schema.OpIn:
		values := c.Value.([]any) // checked by Validate
		if len(values) == 0 {
			return nil, false, false
		}
		return vectordb.NewMatchAny(c.Field, values...), false, true
	case schema.OpContains:
		if !ft.TextLike() {
			return nil, false, false
		}
		return vectordb.NewMatchText(c.Field, c.Value.(string)), false, true
	case schema.OpGt, schema.OpGte, schema.OpLt, schema.OpLte:
		return rangeCondition(ft, c)
	default:
		return nil, false, false
	}
}

// nativeFieldType resolves the declared type of a field and whether the
// store can filter it at all: system fields other than the point id are
// always store-filterable; model fields must be stored and indexed.
func nativeFieldType(catalog *schema.Catalog, model, field string) (schema.FieldType, bool) {
	if sf, ok := catalog.SystemField(field); ok {
		// The point id is not a payload field; identity conditions are
		// evaluated in-memory against the point itself.
		if sf.Name == "id" {
			return sf.Type, false
		}
		return sf.Type, true
	}

	f, ok, err := catalog.Field(model, field)
	if err != nil || !ok {
		return "", false
	}
	if !f.Stored || !f.Indexed {
		return f.Type, false
	}
	return f.Type, true
}

// matchCondition builds an exact-match clause for types the store can
// match exactly. Floats and datetimes have no exact payload match and
// stay residual.
func matchCondition(ft schema.FieldType, c Condition) (vectordb.FilterCondition, bool) {
	switch ft {
	case schema.TypeChar, schema.TypeText, schema.TypeHTML, schema.TypeSelection:
		if s, ok := c.Value.(string); ok {
			return vectordb.NewMatch(c.Field, s), true
		}
	case schema.TypeBoolean:
		if b, ok := c.Value.(bool); ok {
			return vectordb.NewMatch(c.Field, b), true
		}
	case schema.TypeInteger, schema.TypeMany2One, schema.TypeOne2Many, schema.TypeMany2Many:
		if n, ok := asInt64(c.Value); ok {
			return vectordb.NewMatch(c.Field, n), true
		}
	}
	return nil, false
}

// rangeCondition builds a numeric or datetime range clause.
func rangeCondition(ft schema.FieldType, c Condition) (vectordb.FilterCondition, bool, bool) {
	switch {
	case ft == schema.TypeDate || ft == schema.TypeDatetime:
		t, ok := asTime(c.Value)
		if !ok {
			return nil, false, false
		}
		var r vectordb.TimeRange
		switch c.Op {
		case schema.OpGt:
			r.Gt = &t
		case schema.OpGte:
			r.Gte = &t
		case schema.OpLt:
			r.Lt = &t
		case schema.OpLte:
			r.Lte = &t
		}
		return vectordb.NewTimeRange(c.Field, r), false, true
	case ft.Orderable() || ft == schema.TypeMany2One:
		n, ok := asFloat64(c.Value)
		if !ok {
			return nil, false, false
		}
		var r vectordb.NumericRange
		switch c.Op {
		case schema.OpGt:
			r.Gt = &n
		case schema.OpGte:
			r.Gte = &n
		case schema.OpLt:
			r.Lt = &n
		case schema.OpLte:
			r.Lte = &n
		}
		return vectordb.NewNumericRange(c.Field, r), false, true
	default:
		return nil, false, false
	}
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// asTime parses the date layouts the source system emits.
func asTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
