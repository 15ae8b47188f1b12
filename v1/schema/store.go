package schema

import (
	"context"
	"fmt"
	"sort"

	"github.com/erpvec/erpvec/v1/vectordb"
)

// StoreSource rebuilds model metadata from the schema points the sync
// pipeline writes alongside the records. It lets read-only consumers
// construct a catalog from the vector store alone, with no connection
// to the source system.
type StoreSource struct {
	db         vectordb.Service
	collection string
	pageSize   int
}

// NewStoreSource builds a Source over the schema points in collection.
func NewStoreSource(db vectordb.Service, collection string) *StoreSource {
	return &StoreSource{
		db:         db,
		collection: collection,
		pageSize:   128,
	}
}

// LoadModels scrolls every schema point and decodes it back into a
// ModelSchema. A collection that was never synced yields an error, not
// an empty catalog: an empty catalog would silently reject every query.
func (s *StoreSource) LoadModels(ctx context.Context) ([]ModelSchema, error) {
	schemaFilter := vectordb.NewFilterSet(
		vectordb.Must(vectordb.NewMatch(PayloadPointType, PointTypeSchema)),
	)

	var models []ModelSchema
	cursor := ""
	for {
		page, err := s.db.Scroll(ctx, vectordb.ScrollRequest{
			CollectionName: s.collection,
			Filter:         schemaFilter,
			Limit:          s.pageSize,
			Cursor:         cursor,
			WithPayload:    true,
		})
		if err != nil {
			return nil, fmt.Errorf("schema: failed to scroll schema points: %w", err)
		}

		for _, pt := range page.Points {
			model, err := decodeSchemaPoint(pt)
			if err != nil {
				return nil, err
			}
			models = append(models, model)
		}

		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	if len(models) == 0 {
		return nil, fmt.Errorf("schema: collection %q holds no schema points; sync a model first", s.collection)
	}

	sort.Slice(models, func(i, j int) bool { return models[i].ModelName < models[j].ModelName })
	return models, nil
}

func decodeSchemaPoint(pt vectordb.Point) (ModelSchema, error) {
	name, _ := pt.Payload[PayloadModelName].(string)
	modelID, ok := payloadInt(pt.Payload[PayloadModelID])
	if name == "" || !ok {
		return ModelSchema{}, fmt.Errorf("schema: malformed schema point %s", pt.ID)
	}

	model := ModelSchema{
		ModelID:   modelID,
		ModelName: name,
	}

	rawFields, _ := pt.Payload["fields"].([]any)
	for _, raw := range rawFields {
		entry, ok := raw.(map[string]any)
		if !ok {
			return ModelSchema{}, fmt.Errorf("schema: malformed field entry on schema point %s", pt.ID)
		}

		fieldName, _ := entry["name"].(string)
		fieldType, _ := entry["type"].(string)
		if fieldName == "" || fieldType == "" {
			return ModelSchema{}, fmt.Errorf("schema: malformed field entry on schema point %s", pt.ID)
		}

		fd := FieldDescriptor{
			Name: fieldName,
			Type: FieldType(fieldType),
		}
		fd.Stored, _ = entry["stored"].(bool)
		fd.Indexed, _ = entry["indexed"].(bool)
		if target, ok := payloadInt(entry["fk_target_model_id"]); ok {
			fd.FKTargetModelID = target
		}

		model.Fields = append(model.Fields, fd)
	}

	return model, nil
}

// payloadInt normalizes the numeric forms a payload value can take after
// a store round-trip.
func payloadInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
