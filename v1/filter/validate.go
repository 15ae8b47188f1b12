package filter

import (
	"fmt"

	"github.com/erpvec/erpvec/v1/schema"
)

// Validate checks every condition against the model's schema before any
// compilation happens. A violation fails the whole list: no filter is
// partially applied.
//
// Rules:
//   - the field must exist on the model or be a recognized system field;
//   - the operator must be in the field's legal operator set;
//   - "in" requires an array value, never a coerced scalar;
//   - "contains" requires a string value.
func Validate(catalog *schema.Catalog, model string, conditions []Condition) error {
	if _, err := catalog.Model(model); err != nil {
		return err
	}

	for _, c := range conditions {
		if err := validateCondition(catalog, model, c); err != nil {
			return err
		}
	}
	return nil
}

func validateCondition(catalog *schema.Catalog, model string, c Condition) error {
	ops, err := lookupOperators(catalog, model, c)
	if err != nil {
		return err
	}

	if !ops.Contains(c.Op) {
		return &ValidationError{
			Model:   model,
			Field:   c.Field,
			Op:      c.Op,
			Message: fmt.Sprintf("operator %q is not allowed (legal: %v)", c.Op, ops.List()),
		}
	}

	switch c.Op {
	case schema.OpIn:
		if _, ok := c.Value.([]any); !ok {
			return &ValidationError{
				Model:   model,
				Field:   c.Field,
				Op:      c.Op,
				Message: fmt.Sprintf("operator %q requires an array value, got %T", c.Op, c.Value),
			}
		}
	case schema.OpContains:
		if _, ok := c.Value.(string); !ok {
			return &ValidationError{
				Model:   model,
				Field:   c.Field,
				Op:      c.Op,
				Message: fmt.Sprintf("operator %q requires a string value, got %T", c.Op, c.Value),
			}
		}
	}
	return nil
}

func lookupOperators(catalog *schema.Catalog, model string, c Condition) (schema.OpSet, error) {
	if sf, ok := catalog.SystemField(c.Field); ok {
		return sf.Ops, nil
	}

	f, ok, err := catalog.Field(model, c.Field)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ValidationError{
			Model:       model,
			Field:       c.Field,
			Op:          c.Op,
			Message:     "unknown field",
			Suggestions: catalog.SuggestFields(model, c.Field),
		}
	}
	return schema.OperatorsForField(f), nil
}
