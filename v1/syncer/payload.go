package syncer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/erpvec/erpvec/v1/addr"
	"github.com/erpvec/erpvec/v1/odoo"
	"github.com/erpvec/erpvec/v1/schema"
	"github.com/erpvec/erpvec/v1/vectordb"
)

// reference is one FK pointer a record carries, kept aside so edge
// points can be derived without re-parsing the payload.
type reference struct {
	field  string
	target string
}

// buildPoint projects one source record into its stored form. The vector
// is attached later by the embed stage. Identity overflow surfaces as an
// *addr.EncodingError and fails only this record.
func buildPoint(model *schema.ModelSchema, rec odoo.Record, now time.Time) (vectordb.Point, []reference, error) {
	recordID, ok := recordIDOf(rec)
	if !ok {
		return vectordb.Point{}, nil, fmt.Errorf("record has no id")
	}

	id, err := addr.Encode(addr.NamespaceData, model.ModelID, recordID)
	if err != nil {
		return vectordb.Point{}, nil, err
	}

	payload := map[string]any{
		schema.PayloadModelName: model.ModelName,
		schema.PayloadModelID:   model.ModelID,
		schema.PayloadRecordID:  recordID,
		schema.PayloadPointType: schema.PointTypeRecord,
		schema.PayloadSyncedAt:  now.UTC().Format(time.RFC3339),
	}

	var refs []reference
	var textParts []string

	for _, f := range model.Fields {
		if !f.Stored {
			continue
		}
		value, present := rec[f.Name]
		if !present || value == nil {
			continue
		}
		// The source encodes null as false for every non-boolean type.
		if value == false && f.Type != schema.TypeBoolean {
			continue
		}

		switch f.Type {
		case schema.TypeMany2One:
			targetID, display, ok := splitToOne(value)
			if !ok {
				continue
			}
			payload[f.Name] = targetID
			if display != "" {
				textParts = append(textParts, fmt.Sprintf("%s: %s", f.Name, display))
			}
			if f.FKTargetModelID > 0 {
				ptr, err := addr.Encode(addr.NamespaceData, f.FKTargetModelID, targetID)
				if err != nil {
					return vectordb.Point{}, nil, err
				}
				payload[schema.PtrField(f.Name)] = ptr
				refs = append(refs, reference{field: f.Name, target: ptr})
			}

		case schema.TypeOne2Many, schema.TypeMany2Many:
			targetIDs := toManyIDs(value)
			if len(targetIDs) == 0 {
				continue
			}
			stored := make([]any, len(targetIDs))
			for i, tid := range targetIDs {
				stored[i] = tid
			}
			payload[f.Name] = stored
			if f.FKTargetModelID > 0 {
				ptrs := make([]any, 0, len(targetIDs))
				for _, tid := range targetIDs {
					ptr, err := addr.Encode(addr.NamespaceData, f.FKTargetModelID, tid)
					if err != nil {
						return vectordb.Point{}, nil, err
					}
					ptrs = append(ptrs, ptr)
					refs = append(refs, reference{field: f.Name, target: ptr})
				}
				payload[schema.PtrField(f.Name)] = ptrs
			}

		default:
			payload[f.Name] = convertScalar(f.Type, value)
			if includeInText(f.Type) {
				textParts = append(textParts, fmt.Sprintf("%s: %v", f.Name, value))
			}
		}
	}

	sort.Strings(textParts)
	header := fmt.Sprintf("%s #%d", model.ModelName, recordID)
	payload[schema.PayloadVectorText] = strings.Join(append([]string{header}, textParts...), "\n")

	return vectordb.Point{ID: id, Payload: payload}, refs, nil
}

// buildSchemaPoint projects the model's own metadata as a point in the
// schema namespace, so the catalog can be rebuilt from the store alone.
func buildSchemaPoint(model *schema.ModelSchema, now time.Time) (vectordb.Point, error) {
	id, err := addr.Encode(addr.NamespaceSchema, model.ModelID, 0)
	if err != nil {
		return vectordb.Point{}, err
	}

	fields := make([]any, 0, len(model.Fields))
	for _, f := range model.Fields {
		entry := map[string]any{
			"name":    f.Name,
			"type":    string(f.Type),
			"stored":  f.Stored,
			"indexed": f.Indexed,
		}
		if f.FKTargetModelID > 0 {
			entry["fk_target_model_id"] = f.FKTargetModelID
		}
		fields = append(fields, entry)
	}

	return vectordb.Point{
		ID: id,
		Payload: map[string]any{
			schema.PayloadModelName:  model.ModelName,
			schema.PayloadModelID:    model.ModelID,
			schema.PayloadPointType:  schema.PointTypeSchema,
			schema.PayloadSyncedAt:   now.UTC().Format(time.RFC3339),
			schema.PayloadVectorText: fmt.Sprintf("schema of %s", model.ModelName),
			"fields":                 fields,
		},
	}, nil
}

func recordIDOf(rec odoo.Record) (int64, bool) {
	switch v := rec["id"].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

// splitToOne unpacks the source's [id, display_name] pair form.
func splitToOne(value any) (int64, string, bool) {
	pair, ok := value.([]any)
	if !ok || len(pair) == 0 {
		return 0, "", false
	}
	id, ok := asInt64(pair[0])
	if !ok {
		return 0, "", false
	}
	display := ""
	if len(pair) > 1 {
		display, _ = pair[1].(string)
	}
	return id, display, true
}

func toManyIDs(value any) []int64 {
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]int64, 0, len(list))
	for _, item := range list {
		if id, ok := asInt64(item); ok {
			out = append(out, id)
		}
	}
	return out
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

// convertScalar fixes up wire-format artifacts: integer fields arrive as
// float64 from JSON and are stored as integers so the store indexes them
// natively.
func convertScalar(t schema.FieldType, v any) any {
	if t == schema.TypeInteger {
		if id, ok := asInt64(v); ok {
			return id
		}
	}
	return v
}

func includeInText(t schema.FieldType) bool {
	return t.TextLike() || t == schema.TypeSelection || t == schema.TypeDate || t == schema.TypeDatetime
}
