package odoo

import (
	"context"
)

// Record is one ERP record as returned by search_read or read: field
// names mapped to JSON-decoded values. Relational many2one fields arrive
// as [id, display_name] pairs, to-many fields as id lists.
type Record map[string]any

// SearchOptions tune a SearchRead call.
type SearchOptions struct {
	Fields []string
	Limit  int
	Offset int
	Order  string
}

// SearchRead searches a model with a domain filter and reads matching
// records in one round trip. A nil domain matches everything.
func (c *Client) SearchRead(ctx context.Context, model string, domain []any, opts SearchOptions) ([]Record, error) {
	if domain == nil {
		domain = []any{}
	}
	kwargs := map[string]any{
		"limit":  opts.Limit,
		"offset": opts.Offset,
	}
	if len(opts.Fields) > 0 {
		kwargs["fields"] = opts.Fields
	}
	if opts.Order != "" {
		kwargs["order"] = opts.Order
	}

	var records []Record
	if err := c.Execute(ctx, model, "search_read", []any{domain}, kwargs, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SearchCount counts records matching the domain.
func (c *Client) SearchCount(ctx context.Context, model string, domain []any) (int64, error) {
	if domain == nil {
		domain = []any{}
	}
	var count int64
	if err := c.Execute(ctx, model, "search_count", []any{domain}, nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// Read fetches specific records by id. Ids unknown to the ERP are simply
// absent from the result.
func (c *Client) Read(ctx context.Context, model string, ids []int64, fields []string) ([]Record, error) {
	kwargs := map[string]any{}
	if len(fields) > 0 {
		kwargs["fields"] = fields
	}
	var records []Record
	if err := c.Execute(ctx, model, "read", []any{ids}, kwargs, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FieldInfo is one entry of a fields_get response.
type FieldInfo struct {
	String   string `json:"string"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Readonly bool   `json:"readonly"`
	Store    bool   `json:"store"`
	Relation string `json:"relation,omitempty"`

	// Index is false or an index kind string depending on the Odoo
	// version, hence the loose type.
	Index any `json:"index,omitempty"`
}

// Indexed reports whether the ERP maintains a database index for the
// field.
func (f FieldInfo) Indexed() bool {
	switch v := f.Index.(type) {
	case bool:
		return v
	case string:
		return v != ""
	default:
		return false
	}
}

var fieldAttributes = []string{"string", "type", "required", "readonly", "store", "index", "relation", "selection", "help"}

// FieldsGet returns the field definitions of a model.
func (c *Client) FieldsGet(ctx context.Context, model string) (map[string]FieldInfo, error) {
	var fields map[string]FieldInfo
	kwargs := map[string]any{"attributes": fieldAttributes}
	if err := c.Execute(ctx, model, "fields_get", []any{[]any{}}, kwargs, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// ModelInfo is one row of the ir.model registry.
type ModelInfo struct {
	ID    int64  `json:"id"`
	Model string `json:"model"`
	Name  string `json:"name"`
}

// ListModels returns the registered models in model-name order.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo
	kwargs := map[string]any{
		"fields": []string{"id", "model", "name"},
		"order":  "model",
	}
	if err := c.Execute(ctx, "ir.model", "search_read", []any{[]any{}}, kwargs, &models); err != nil {
		return nil, err
	}
	return models, nil
}

// TestConnection authenticates and reports basic instance facts.
func (c *Client) TestConnection(ctx context.Context) (map[string]any, error) {
	uid, err := c.Authenticate(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"status":   "success",
		"url":      c.cfg.URL,
		"database": c.cfg.Database,
		"user":     c.cfg.Username,
		"user_id":  uid,
	}, nil
}
