package graph

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erpvec/erpvec/v1/schema"
	"github.com/erpvec/erpvec/v1/vectordb"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   int
	records map[string]vectordb.Point
}

func (f *fakeFetcher) FetchRecord(_ context.Context, modelID, recordID int64) (*vectordb.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for _, pt := range f.records {
		payload := pt.Payload
		if payload[schema.PayloadModelID] == modelID && payload[schema.PayloadRecordID] == recordID {
			cp := pt
			return &cp, nil
		}
	}
	return nil, nil
}

func TestValidate_RepairRestoresTarget(t *testing.T) {
	catalog := graphCatalog(t)
	missing := dataID(t, 61, 999)

	target := recordPoint(missing, "account.account", map[string]any{
		schema.PayloadModelID:  int64(61),
		schema.PayloadRecordID: int64(999),
		"code":                 "9990",
	})
	fetcher := &fakeFetcher{records: map[string]vectordb.Point{missing: target}}

	store := newMemStore(
		recordPoint(dataID(t, 85, 1), "account.move.line", map[string]any{
			schema.PtrField("account_id"): missing,
		}),
	)
	engine := newTestEngine(store, catalog, fetcher, nil)

	report, err := engine.Validate(context.Background(), Options{
		Models: []string{"account.move.line"},
		Repair: true,
	})
	require.NoError(t, err)

	mr := report.Models[0]
	require.Len(t, mr.Orphans, 1)
	assert.True(t, mr.Orphans[0].Repaired)
	assert.Equal(t, 1, mr.Repaired)
	assert.Zero(t, mr.Unrepairable)
	assert.Equal(t, 1, fetcher.calls)

	restored, err := store.GetPoints(context.Background(), "erp_records", []string{missing}, true)
	require.NoError(t, err)
	require.Len(t, restored, 1, "repaired target must be back in the store")
}

func TestValidate_RepairHandlesLegacyPointers(t *testing.T) {
	catalog := graphCatalog(t)
	// Pre-namespace spelling of account 999; the fetched record comes
	// back under the canonical three-segment id.
	legacy := "0061000000000999"
	canonical := dataID(t, 61, 999)

	target := recordPoint(canonical, "account.account", map[string]any{
		schema.PayloadModelID:  int64(61),
		schema.PayloadRecordID: int64(999),
		"code":                 "9990",
	})
	fetcher := &fakeFetcher{records: map[string]vectordb.Point{canonical: target}}

	store := newMemStore(
		recordPoint(dataID(t, 85, 1), "account.move.line", map[string]any{
			schema.PtrField("account_id"): legacy,
		}),
	)
	engine := newTestEngine(store, catalog, fetcher, nil)

	report, err := engine.Validate(context.Background(), Options{
		Models: []string{"account.move.line"},
		Repair: true,
	})
	require.NoError(t, err)

	mr := report.Models[0]
	require.Len(t, mr.Orphans, 1)
	assert.True(t, mr.Orphans[0].Repaired, "target written under the canonical id counts as repaired")
	assert.Equal(t, 1, mr.Repaired)
	assert.Zero(t, mr.Unrepairable)

	restored, err := store.GetPoints(context.Background(), "erp_records", []string{canonical}, false)
	require.NoError(t, err)
	require.Len(t, restored, 1, "repaired target must live at the canonical id")
}

func TestValidate_RepairMarksGoneTargetsUnrepairable(t *testing.T) {
	catalog := graphCatalog(t)
	missing := dataID(t, 61, 999)

	store := newMemStore(
		recordPoint(dataID(t, 85, 1), "account.move.line", map[string]any{
			schema.PtrField("account_id"): missing,
		}),
	)
	engine := newTestEngine(store, catalog, &fakeFetcher{}, nil)

	report, err := engine.Validate(context.Background(), Options{
		Models: []string{"account.move.line"},
		Repair: true,
	})
	require.NoError(t, err)

	mr := report.Models[0]
	require.Len(t, mr.Orphans, 1)
	assert.True(t, mr.Orphans[0].Unrepairable)
	assert.False(t, mr.Orphans[0].Repaired)
	assert.Equal(t, 1, mr.Unrepairable)
}

func TestValidate_NoFetcherSkipsRepair(t *testing.T) {
	catalog := graphCatalog(t)
	missing := dataID(t, 61, 999)
	store := newMemStore(
		recordPoint(dataID(t, 85, 1), "account.move.line", map[string]any{
			schema.PtrField("account_id"): missing,
		}),
	)
	engine := newTestEngine(store, catalog, nil, nil)

	report, err := engine.Validate(context.Background(), Options{
		Models: []string{"account.move.line"},
		Repair: true,
	})
	require.NoError(t, err)

	mr := report.Models[0]
	require.Len(t, mr.Orphans, 1)
	assert.False(t, mr.Orphans[0].Repaired)
	assert.False(t, mr.Orphans[0].Unrepairable)
}
