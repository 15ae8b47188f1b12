package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModels() SliceSource {
	return SliceSource{
		{
			ModelID:           85,
			ModelName:         "account.move.line",
			PrimaryKeyFieldID: 1,
			Fields: []FieldDescriptor{
				{Name: "name", Type: TypeChar, Stored: true, Indexed: true},
				{Name: "date", Type: TypeDate, Stored: true, Indexed: true},
				{Name: "balance", Type: TypeMonetary, Stored: true, Indexed: true},
				{Name: "account_id", Type: TypeMany2One, Stored: true, Indexed: true, FKTargetModelID: 61},
				{Name: "tag_ids", Type: TypeMany2Many, Stored: true, FKTargetModelID: 99},
				{Name: "amount_residual", Type: TypeMonetary, Stored: false},
			},
		},
		{
			ModelID:           61,
			ModelName:         "account.account",
			PrimaryKeyFieldID: 1,
			Fields: []FieldDescriptor{
				{Name: "name", Type: TypeChar, Stored: true, Indexed: true},
				{Name: "code", Type: TypeChar, Stored: true, Indexed: true},
			},
		},
	}
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := NewCatalog(testModels(), nil)
	require.NoError(t, c.Initialize(context.Background()))
	return c
}

func TestInitialize_Idempotent(t *testing.T) {
	loads := 0
	src := sourceFunc(func(ctx context.Context) ([]ModelSchema, error) {
		loads++
		return testModels(), nil
	})

	c := NewCatalog(src, nil)
	require.NoError(t, c.Initialize(context.Background()))
	require.NoError(t, c.Initialize(context.Background()))
	assert.Equal(t, 1, loads, "second Initialize must be a no-op")

	require.NoError(t, c.Reload(context.Background()))
	assert.Equal(t, 2, loads, "Reload must force a fresh load")
}

type sourceFunc func(ctx context.Context) ([]ModelSchema, error)

func (f sourceFunc) LoadModels(ctx context.Context) ([]ModelSchema, error) { return f(ctx) }

func TestModel_UnknownCarriesSuggestions(t *testing.T) {
	c := newTestCatalog(t)

	_, err := c.Model("account.move.lin")
	var notFound *ModelNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, notFound.Suggestions, "account.move.line")
}

func TestField_Lookup(t *testing.T) {
	c := newTestCatalog(t)

	f, ok, err := c.Field("account.move.line", "account_id")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, TypeMany2One, f.Type)
	assert.Equal(t, int64(61), f.FKTargetModelID)

	_, ok, err = c.Field("account.move.line", "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestModelByID(t *testing.T) {
	c := newTestCatalog(t)

	name, ok := c.ModelByID(85)
	require.True(t, ok)
	assert.Equal(t, "account.move.line", name)

	_, ok = c.ModelByID(12345)
	assert.False(t, ok)
}

func TestSuggestFields_OrderedByDistanceThenName(t *testing.T) {
	c := newTestCatalog(t)

	got := c.SuggestFields("account.move.line", "dat")
	require.NotEmpty(t, got)
	assert.Equal(t, "date", got[0])
}

func TestValidOperators(t *testing.T) {
	c := newTestCatalog(t)

	ops, err := c.ValidOperators("account.move.line", "date")
	require.NoError(t, err)
	assert.True(t, ops.Contains(OpGte))
	assert.False(t, ops.Contains(OpContains))

	ops, err = c.ValidOperators("account.move.line", "name")
	require.NoError(t, err)
	assert.True(t, ops.Contains(OpContains))
	assert.False(t, ops.Contains(OpGt))

	// System field contract is independent of any model.
	ops, err = c.ValidOperators("account.move.line", "synced_at")
	require.NoError(t, err)
	assert.True(t, ops.Contains(OpLt))
	assert.False(t, ops.Contains(OpIn))

	_, err = c.ValidOperators("account.move.line", "daet")
	var fieldErr *FieldNotFoundError
	require.ErrorAs(t, err, &fieldErr)
	assert.Contains(t, fieldErr.Suggestions, "date")
}

func TestIsSystemField(t *testing.T) {
	c := newTestCatalog(t)

	assert.True(t, c.IsSystemField("id"))
	assert.True(t, c.IsSystemField("synced_at"))
	assert.False(t, c.IsSystemField("balance"))
}

func TestModel_BenignMissDoesNotPanic(t *testing.T) {
	c := newTestCatalog(t)

	_, err := c.Model("completely.unrelated")
	require.Error(t, err)
	var notFound *ModelNotFoundError
	assert.True(t, errors.As(err, &notFound))
}
