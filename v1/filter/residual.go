package filter

import (
	"strings"
	"time"

	"github.com/erpvec/erpvec/v1/schema"
	"github.com/erpvec/erpvec/v1/vectordb"
)

// Predicate is a residual condition evaluated in-memory against each
// point the store returns. Kept as a struct (not a bare closure) so
// callers can report which conditions were applied post-scan.
type Predicate struct {
	Condition
}

// NewPredicate wraps a validated condition for in-memory evaluation.
func NewPredicate(c Condition) Predicate {
	return Predicate{Condition: c}
}

// Matches evaluates the predicate against one point. A missing payload
// field never matches, except under neq where absence means "not equal".
func (p Predicate) Matches(point vectordb.Point) bool {
	var actual any
	if p.Field == "id" {
		actual = point.ID
	} else {
		var ok bool
		actual, ok = point.Payload[p.Field]
		if !ok || actual == nil {
			return p.Op == schema.OpNeq
		}
	}

	switch p.Op {
	case schema.OpEq:
		return valuesEqual(actual, p.Value)
	case schema.OpNeq:
		return !valuesEqual(actual, p.Value)
	case schema.OpGt:
		return compareValues(actual, p.Value) > 0
	case schema.OpGte:
		return compareValues(actual, p.Value) >= 0
	case schema.OpLt:
		return compareValues(actual, p.Value) < 0
	case schema.OpLte:
		return compareValues(actual, p.Value) <= 0
	case schema.OpIn:
		return matchesAny(actual, p.Value)
	case schema.OpContains:
		needle, ok := p.Value.(string)
		if !ok {
			return false
		}
		haystack, ok := actual.(string)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
	default:
		return false
	}
}

// ApplyResidual filters one page of points through all predicates.
func ApplyResidual(points []vectordb.Point, predicates []Predicate) []vectordb.Point {
	if len(predicates) == 0 {
		return points
	}

	out := points[:0:0]
	for _, pt := range points {
		keep := true
		for _, pred := range predicates {
			if !pred.Matches(pt) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, pt)
		}
	}
	return out
}

// valuesEqual compares payload and condition values with numeric
// normalization: the store returns int64, JSON callers send float64.
func valuesEqual(a, b any) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
		return false
	}
	return a == b
}

// compareValues returns -1, 0 or 1 for a<b, a==b, a>b. Values that parse
// as datetimes compare as instants, numbers compare numerically, and
// anything else falls back to string ordering.
func compareValues(a, b any) int {
	if at, aok := parseAnyTime(a); aok {
		if bt, bok := parseAnyTime(b); bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			default:
				return 0
			}
		}
	}

	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	return strings.Compare(toString(a), toString(b))
}

// matchesAny implements the in operator: scalar payloads must equal one
// of the wanted values; sequence payloads match when the intersection is
// non-empty.
func matchesAny(actual, wanted any) bool {
	values, ok := wanted.([]any)
	if !ok {
		return false
	}

	if list, isList := actual.([]any); isList {
		for _, item := range list {
			for _, w := range values {
				if valuesEqual(item, w) {
					return true
				}
			}
		}
		return false
	}

	for _, w := range values {
		if valuesEqual(actual, w) {
			return true
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func parseAnyTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	return asTime(s)
}
