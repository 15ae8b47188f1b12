package filter

import (
	"fmt"
	"strings"

	"github.com/erpvec/erpvec/v1/schema"
	"github.com/erpvec/erpvec/v1/vectordb"
)

// Condition is one structured query condition as supplied by a caller.
type Condition struct {
	Field string    `json:"field"`
	Op    schema.Op `json:"op"`
	Value any       `json:"value"`
}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s %v", c.Field, c.Op, c.Value)
}

// Compiled is the result of compiling a condition list against a model:
// a native filter the store evaluates itself during a scan, plus the
// residual predicates the engine must evaluate in-memory because the
// store cannot.
type Compiled struct {
	// Native is the store-side filter. Always contains at least the
	// model-pin condition.
	Native *vectordb.FilterSet

	// Residual holds the conditions that must be applied per point after
	// the store returns a page.
	Residual []Predicate
}

// ValidationError reports a bad field/operator/value combination. It is
// surfaced immediately and never partially applied; when a plausible
// correction is derivable it carries a suggestion.
type ValidationError struct {
	Model       string
	Field       string
	Op          schema.Op
	Message     string
	Suggestions []string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("filter: %s.%s: %s", e.Model, e.Field, e.Message)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}
