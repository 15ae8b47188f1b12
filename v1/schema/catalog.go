package schema

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Source supplies model/field metadata for the catalog. Implemented by the
// ERP client (fields_get over JSON-RPC) in production and by fabricated
// slices in tests.
type Source interface {
	LoadModels(ctx context.Context) ([]ModelSchema, error)
}

// SliceSource is a Source backed by an in-memory slice. Useful for tests
// and for catalogs restored from a snapshot file.
type SliceSource []ModelSchema

func (s SliceSource) LoadModels(_ context.Context) ([]ModelSchema, error) {
	return s, nil
}

// Catalog is the in-memory index of model and field metadata.
//
// It is explicitly constructed, initialized once, and passed by reference
// to the components that need it. After Initialize returns the catalog is
// read-only; Reload replaces the whole index under lock.
type Catalog struct {
	source Source
	logger *zap.Logger

	mu          sync.RWMutex
	initialized bool
	byName      map[string]*ModelSchema
	byID        map[int64]*ModelSchema
	fieldIndex  map[string]map[string]*FieldDescriptor
}

// NewCatalog constructs an uninitialized catalog over the given source.
func NewCatalog(source Source, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		source: source,
		logger: logger,
	}
}

// Initialize loads and indexes all model metadata exactly once. A second
// call is a no-op; use Reload to force a fresh load.
func (c *Catalog) Initialize(ctx context.Context) error {
	c.mu.RLock()
	done := c.initialized
	c.mu.RUnlock()
	if done {
		return nil
	}
	return c.Reload(ctx)
}

// Reload replaces the whole index from the source. Catalog reload is a
// full re-initialization: readers see either the old or the new index,
// never a mix.
func (c *Catalog) Reload(ctx context.Context) error {
	models, err := c.source.LoadModels(ctx)
	if err != nil {
		return fmt.Errorf("schema: failed to load models: %w", err)
	}

	byName := make(map[string]*ModelSchema, len(models))
	byID := make(map[int64]*ModelSchema, len(models))
	fieldIndex := make(map[string]map[string]*FieldDescriptor, len(models))

	for i := range models {
		m := &models[i]
		byName[m.ModelName] = m
		byID[m.ModelID] = m

		fields := make(map[string]*FieldDescriptor, len(m.Fields))
		for j := range m.Fields {
			fields[m.Fields[j].Name] = &m.Fields[j]
		}
		fieldIndex[m.ModelName] = fields
	}

	c.mu.Lock()
	c.byName = byName
	c.byID = byID
	c.fieldIndex = fieldIndex
	c.initialized = true
	c.mu.Unlock()

	c.logger.Info("schema catalog loaded", zap.Int("models", len(models)))
	return nil
}

// Model returns the schema for a model name. An unknown model is a benign
// miss: it returns a *ModelNotFoundError carrying the closest known model
// names, never panics.
func (c *Catalog) Model(name string) (*ModelSchema, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if m, ok := c.byName[name]; ok {
		return m, nil
	}
	return nil, &ModelNotFoundError{
		Model:       name,
		Suggestions: c.suggestModelsLocked(name, maxSuggestions),
	}
}

// Fields returns the ordered field descriptors of a model.
func (c *Catalog) Fields(model string) ([]FieldDescriptor, error) {
	m, err := c.Model(model)
	if err != nil {
		return nil, err
	}
	return m.Fields, nil
}

// Field looks up a single field on a model. The boolean is false when the
// field does not exist on a known model.
func (c *Catalog) Field(model, field string) (*FieldDescriptor, bool, error) {
	if _, err := c.Model(model); err != nil {
		return nil, false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.fieldIndex[model][field]
	return f, ok, nil
}

// ModelByID recovers a model name purely from a decoded identifier's model
// segment. The boolean is false when no model carries that id.
func (c *Catalog) ModelByID(modelID int64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if m, ok := c.byID[modelID]; ok {
		return m.ModelName, true
	}
	return "", false
}

// IsSystemField reports whether name is a store-level field that exists on
// every point independent of any model.
func (c *Catalog) IsSystemField(name string) bool {
	_, ok := systemFields[name]
	return ok
}

// SystemField returns the contract for a store-level field.
func (c *Catalog) SystemField(name string) (SystemField, bool) {
	f, ok := systemFields[name]
	return f, ok
}

// ValidOperators returns the legal operator set for a model field or a
// system field. System fields take precedence: their contract is
// independent of any model.
func (c *Catalog) ValidOperators(model, field string) (OpSet, error) {
	if sf, ok := systemFields[field]; ok {
		return sf.Ops, nil
	}

	f, ok, err := c.Field(model, field)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &FieldNotFoundError{
			Model:       model,
			Field:       field,
			Suggestions: c.SuggestFields(model, field),
		}
	}
	return operatorsForType(f.Type), nil
}

// Models returns all known model names in no particular order.
func (c *Catalog) Models() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	return names
}
