package odoo

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erpvec/erpvec/v1/schema"
)

func TestSchemaSource_LoadModels(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		call := decodeCall(t, r)
		if call.Method == "authenticate" {
			writeResult(w, 7)
			return
		}

		require.Equal(t, "execute_kw", call.Method)
		model, _ := call.Args[3].(string)
		method, _ := call.Args[4].(string)

		switch {
		case model == "ir.model" && method == "search_read":
			writeResult(w, []map[string]any{
				{"id": 61, "model": "account.account", "name": "Account"},
				{"id": 85, "model": "account.move.line", "name": "Journal Item"},
			})
		case model == "ir.model.fields" && method == "search_read":
			writeResult(w, []map[string]any{
				{"id": 4401, "model": "account.move.line"},
			})
		case model == "account.move.line" && method == "fields_get":
			writeResult(w, map[string]any{
				"name":    map[string]any{"type": "char", "store": true, "index": "trigram"},
				"balance": map[string]any{"type": "monetary", "store": true, "index": false},
				"account_id": map[string]any{
					"type": "many2one", "store": true, "index": true, "relation": "account.account",
				},
				"amount_residual": map[string]any{"type": "monetary", "store": false},
				"avatar":          map[string]any{"type": "image", "store": true},
			})
		default:
			t.Errorf("unexpected call: %s.%s", model, method)
		}
	})

	cfg := client.cfg
	cfg.Models = []string{"account.move.line"}
	source := NewSchemaSource(client, cfg, zap.NewNop())

	models, err := source.LoadModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)

	m := models[0]
	assert.Equal(t, int64(85), m.ModelID)
	assert.Equal(t, "account.move.line", m.ModelName)
	assert.Equal(t, int64(4401), m.PrimaryKeyFieldID)

	byName := make(map[string]schema.FieldDescriptor)
	for _, f := range m.Fields {
		byName[f.Name] = f
	}

	// The image field has no projection type and must be dropped.
	require.Len(t, byName, 4)

	assert.Equal(t, schema.TypeChar, byName["name"].Type)
	assert.True(t, byName["name"].Indexed, "string index kinds count as indexed")
	assert.False(t, byName["balance"].Indexed)
	assert.False(t, byName["amount_residual"].Stored)

	account := byName["account_id"]
	assert.Equal(t, schema.TypeMany2One, account.Type)
	assert.Equal(t, int64(61), account.FKTargetModelID)
}

func TestSchemaSource_ConfiguredModelMissing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		call := decodeCall(t, r)
		if call.Method == "authenticate" {
			writeResult(w, 7)
			return
		}
		model, _ := call.Args[3].(string)
		switch model {
		case "ir.model":
			writeResult(w, []map[string]any{{"id": 61, "model": "account.account", "name": "Account"}})
		case "ir.model.fields":
			writeResult(w, []map[string]any{})
		default:
			writeResult(w, map[string]any{})
		}
	})

	cfg := client.cfg
	cfg.Models = []string{"account.move.line"}
	source := NewSchemaSource(client, cfg, zap.NewNop())

	_, err := source.LoadModels(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account.move.line")
}
