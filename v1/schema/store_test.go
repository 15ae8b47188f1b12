package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erpvec/erpvec/v1/vectordb"
)

// schemaPointStore serves a fixed set of schema points one per page, so
// the source's cursor loop is actually exercised.
type schemaPointStore struct {
	vectordb.Service

	points []vectordb.Point
}

func (s *schemaPointStore) Scroll(_ context.Context, req vectordb.ScrollRequest) (*vectordb.ScrollResult, error) {
	offset := 0
	if req.Cursor != "" {
		offset = int(req.Cursor[0] - '0')
	}
	if offset >= len(s.points) {
		return &vectordb.ScrollResult{}, nil
	}

	next := ""
	if offset+1 < len(s.points) {
		next = string(rune('0' + offset + 1))
	}
	return &vectordb.ScrollResult{
		Points:     []vectordb.Point{s.points[offset]},
		NextCursor: next,
	}, nil
}

func schemaPoint(modelID int64, name string, fields []any) vectordb.Point {
	return vectordb.Point{
		ID: "00" + name,
		Payload: map[string]any{
			PayloadModelName: name,
			PayloadModelID:   float64(modelID),
			PayloadPointType: PointTypeSchema,
			"fields":         fields,
		},
	}
}

func TestStoreSource_RebuildsCatalogFromSchemaPoints(t *testing.T) {
	store := &schemaPointStore{points: []vectordb.Point{
		schemaPoint(85, "account.move.line", []any{
			map[string]any{"name": "balance", "type": "monetary", "stored": true, "indexed": true},
			map[string]any{"name": "account_id", "type": "many2one", "stored": true, "indexed": true, "fk_target_model_id": float64(61)},
		}),
		schemaPoint(61, "account.account", []any{
			map[string]any{"name": "code", "type": "char", "stored": true, "indexed": true},
		}),
	}}

	models, err := NewStoreSource(store, "erp_records").LoadModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)

	assert.Equal(t, "account.account", models[0].ModelName, "models come back name-sorted")

	line := models[1]
	assert.Equal(t, int64(85), line.ModelID)
	require.Len(t, line.Fields, 2)
	assert.Equal(t, TypeMonetary, line.Fields[0].Type)
	assert.Equal(t, int64(61), line.Fields[1].FKTargetModelID)

	catalog := NewCatalog(SliceSource(models), nil)
	require.NoError(t, catalog.Initialize(context.Background()))
	name, ok := catalog.ModelByID(85)
	require.True(t, ok)
	assert.Equal(t, "account.move.line", name)
}

func TestStoreSource_EmptyCollection(t *testing.T) {
	_, err := NewStoreSource(&schemaPointStore{}, "erp_records").LoadModels(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no schema points")
}

func TestStoreSource_MalformedSchemaPoint(t *testing.T) {
	store := &schemaPointStore{points: []vectordb.Point{
		{ID: "bad", Payload: map[string]any{PayloadPointType: PointTypeSchema}},
	}}

	_, err := NewStoreSource(store, "erp_records").LoadModels(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}
