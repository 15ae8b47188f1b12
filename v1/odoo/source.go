package odoo

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/erpvec/erpvec/v1/schema"
)

// SchemaSource loads model metadata from a live Odoo instance so the
// catalog can validate filters against what the ERP actually exposes.
type SchemaSource struct {
	client *Client
	cfg    *Config
	logger *zap.Logger
}

var _ schema.Source = (*SchemaSource)(nil)

// NewSchemaSource builds a catalog source over the client.
func NewSchemaSource(client *Client, cfg *Config, logger *zap.Logger) *SchemaSource {
	return &SchemaSource{
		client: client,
		cfg:    cfg,
		logger: logger.Named("odoo_schema"),
	}
}

var fieldTypes = map[string]schema.FieldType{
	"char":      schema.TypeChar,
	"text":      schema.TypeText,
	"html":      schema.TypeHTML,
	"integer":   schema.TypeInteger,
	"float":     schema.TypeFloat,
	"monetary":  schema.TypeMonetary,
	"boolean":   schema.TypeBoolean,
	"date":      schema.TypeDate,
	"datetime":  schema.TypeDatetime,
	"selection": schema.TypeSelection,
	"many2one":  schema.TypeMany2One,
	"one2many":  schema.TypeOne2Many,
	"many2many": schema.TypeMany2Many,
	"binary":    schema.TypeBinary,
	"json":      schema.TypeJSON,
}

// LoadModels fetches the model registry plus per-model field definitions
// and converts them into catalog schemas. With cfg.Models set, only those
// models are loaded; a configured model missing from the registry fails
// the load rather than silently projecting nothing.
func (s *SchemaSource) LoadModels(ctx context.Context) ([]schema.ModelSchema, error) {
	registry, err := s.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load model registry: %w", err)
	}

	byName := make(map[string]ModelInfo, len(registry))
	for _, m := range registry {
		byName[m.Model] = m
	}

	selected := s.cfg.Models
	if len(selected) == 0 {
		selected = make([]string, 0, len(registry))
		for _, m := range registry {
			selected = append(selected, m.Model)
		}
	}
	sort.Strings(selected)

	pkFieldIDs, err := s.primaryKeyFieldIDs(ctx, selected)
	if err != nil {
		return nil, err
	}

	out := make([]schema.ModelSchema, 0, len(selected))
	for _, name := range selected {
		info, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("model %q is configured but not registered in the instance", name)
		}

		fields, err := s.client.FieldsGet(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("load fields of %s: %w", name, err)
		}

		out = append(out, schema.ModelSchema{
			ModelID:           info.ID,
			ModelName:         name,
			PrimaryKeyFieldID: pkFieldIDs[name],
			Fields:            s.convertFields(name, fields, byName),
		})
	}

	s.logger.Info("loaded model schemas", zap.Int("models", len(out)))
	return out, nil
}

// convertFields maps fields_get entries to descriptors in name order.
// Fields with types the projection can't represent are skipped.
func (s *SchemaSource) convertFields(model string, fields map[string]FieldInfo, byName map[string]ModelInfo) []schema.FieldDescriptor {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]schema.FieldDescriptor, 0, len(names))
	for _, name := range names {
		info := fields[name]
		ftype, ok := fieldTypes[info.Type]
		if !ok {
			s.logger.Debug("skipping field with unsupported type",
				zap.String("model", model),
				zap.String("field", name),
				zap.String("type", info.Type))
			continue
		}

		desc := schema.FieldDescriptor{
			Name:    name,
			Type:    ftype,
			Stored:  info.Store,
			Indexed: info.Indexed(),
		}
		if ftype.Relational() && info.Relation != "" {
			if target, ok := byName[info.Relation]; ok {
				desc.FKTargetModelID = target.ID
			}
		}
		out = append(out, desc)
	}
	return out
}

// primaryKeyFieldIDs resolves the ir.model.fields row id of each model's
// "id" column in a single round trip.
func (s *SchemaSource) primaryKeyFieldIDs(ctx context.Context, models []string) (map[string]int64, error) {
	domain := []any{
		[]any{"model", "in", models},
		[]any{"name", "=", "id"},
	}
	rows, err := s.client.SearchRead(ctx, "ir.model.fields", domain, SearchOptions{
		Fields: []string{"id", "model"},
		Limit:  len(models),
	})
	if err != nil {
		return nil, fmt.Errorf("load primary key field ids: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		model, _ := row["model"].(string)
		if id, ok := row["id"].(float64); ok && model != "" {
			out[model] = int64(id)
		}
	}
	return out, nil
}
