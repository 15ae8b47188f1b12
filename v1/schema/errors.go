package schema

import (
	"fmt"
	"strings"
)

// ModelNotFoundError reports a lookup against a model the catalog does not
// know, with the closest-matching known model names as suggestions.
type ModelNotFoundError struct {
	Model       string
	Suggestions []string
}

func (e *ModelNotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("schema: model %q not found", e.Model)
	}
	return fmt.Sprintf("schema: model %q not found (did you mean %s?)",
		e.Model, strings.Join(e.Suggestions, ", "))
}

// FieldNotFoundError reports a field lookup miss on a known model.
type FieldNotFoundError struct {
	Model       string
	Field       string
	Suggestions []string
}

func (e *FieldNotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("schema: field %q not found on model %q", e.Field, e.Model)
	}
	return fmt.Sprintf("schema: field %q not found on model %q (did you mean %s?)",
		e.Field, e.Model, strings.Join(e.Suggestions, ", "))
}
