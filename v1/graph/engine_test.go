package graph

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erpvec/erpvec/v1/addr"
	"github.com/erpvec/erpvec/v1/schema"
	"github.com/erpvec/erpvec/v1/vectordb"
)

// memStore is an in-memory Service good enough for integrity scans:
// Scroll honors Must/MatchCondition filters over payload fields.
type memStore struct {
	mu     sync.Mutex
	points map[string]vectordb.Point
}

func newMemStore(points ...vectordb.Point) *memStore {
	s := &memStore{points: make(map[string]vectordb.Point)}
	for _, pt := range points {
		s.points[pt.ID] = pt
	}
	return s
}

func (s *memStore) matching(filter *vectordb.FilterSet) []vectordb.Point {
	ids := make([]string, 0, len(s.points))
	for id := range s.points {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []vectordb.Point
	for _, id := range ids {
		pt := s.points[id]
		keep := true
		if filter != nil && filter.Must != nil {
			for _, cond := range filter.Must.Conditions {
				match, ok := cond.(*vectordb.MatchCondition)
				if !ok {
					continue
				}
				if pt.Payload[match.Field] != match.Value {
					keep = false
					break
				}
			}
		}
		if keep {
			out = append(out, pt)
		}
	}
	return out
}

func (s *memStore) Scroll(_ context.Context, req vectordb.ScrollRequest) (*vectordb.ScrollResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.matching(req.Filter)
	offset := 0
	if req.Cursor != "" {
		offset, _ = strconv.Atoi(req.Cursor)
	}
	if offset >= len(all) {
		return &vectordb.ScrollResult{}, nil
	}
	end := offset + req.Limit
	next := ""
	if end >= len(all) {
		end = len(all)
	} else {
		next = strconv.Itoa(end)
	}
	return &vectordb.ScrollResult{Points: all[offset:end], NextCursor: next}, nil
}

func (s *memStore) GetPoints(_ context.Context, _ string, ids []string, _ bool) ([]vectordb.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []vectordb.Point
	for _, id := range ids {
		if pt, ok := s.points[id]; ok {
			out = append(out, pt)
		}
	}
	return out, nil
}

func (s *memStore) Upsert(_ context.Context, _ string, points []vectordb.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, pt := range points {
		s.points[pt.ID] = pt
	}
	return nil
}

func (s *memStore) Count(context.Context, vectordb.CountRequest) (uint64, error) { return 0, nil }
func (s *memStore) DeleteByFilter(context.Context, string, *vectordb.FilterSet) error {
	return nil
}
func (s *memStore) EnsureCollection(context.Context, string, uint64) error { return nil }
func (s *memStore) CreatePayloadIndex(context.Context, string, string, vectordb.PayloadIndexType) error {
	return nil
}
func (s *memStore) GetCollection(context.Context, string) (*vectordb.Collection, error) {
	return nil, nil
}
func (s *memStore) ListCollections(context.Context) ([]string, error) { return nil, nil }

func graphCatalog(t *testing.T) *schema.Catalog {
	t.Helper()
	c := schema.NewCatalog(schema.SliceSource{
		{
			ModelID:   85,
			ModelName: "account.move.line",
			Fields: []schema.FieldDescriptor{
				{Name: "name", Type: schema.TypeChar, Stored: true, Indexed: true},
				{Name: "account_id", Type: schema.TypeMany2One, Stored: true, Indexed: true, FKTargetModelID: 61},
				{Name: "tag_ids", Type: schema.TypeMany2Many, Stored: true, Indexed: true, FKTargetModelID: 99},
			},
		},
		{
			ModelID:   61,
			ModelName: "account.account",
			Fields: []schema.FieldDescriptor{
				{Name: "code", Type: schema.TypeChar, Stored: true, Indexed: true},
			},
		},
	}, nil)
	require.NoError(t, c.Initialize(context.Background()))
	return c
}

func dataID(t *testing.T, modelID, recordID int64) string {
	t.Helper()
	id, err := addr.Encode(addr.NamespaceData, modelID, recordID)
	require.NoError(t, err)
	return id
}

func recordPoint(id, modelName string, payload map[string]any) vectordb.Point {
	full := map[string]any{
		schema.PayloadModelName: modelName,
		schema.PayloadPointType: schema.PointTypeRecord,
	}
	for k, v := range payload {
		full[k] = v
	}
	return vectordb.Point{ID: id, Payload: full}
}

func newTestEngine(store vectordb.Service, catalog *schema.Catalog, fetcher Fetcher, sink Sink) *Engine {
	cfg := DefaultConfig().WithWorkers(2)
	cfg.PageSize = 2
	cfg.ExistenceBatch = 2
	return NewEngine(store, catalog, fetcher, sink, cfg, zap.NewNop())
}

func TestValidate_CleanGraph(t *testing.T) {
	catalog := graphCatalog(t)
	account := dataID(t, 61, 500)
	store := newMemStore(
		recordPoint(account, "account.account", map[string]any{"code": "1000"}),
		recordPoint(dataID(t, 85, 1), "account.move.line", map[string]any{
			schema.PtrField("account_id"): account,
		}),
	)
	engine := newTestEngine(store, catalog, nil, nil)

	report, err := engine.Validate(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalScanned)
	assert.Equal(t, 1, report.TotalReferences)
	assert.Zero(t, report.TotalMissing)
	for _, mr := range report.Models {
		assert.Empty(t, mr.StructuralErrors)
		assert.Empty(t, mr.Orphans)
	}
}

func TestValidate_LegacyPointerStillResolves(t *testing.T) {
	catalog := graphCatalog(t)
	// Pre-namespace 16-digit layout: model id + record id.
	legacy := "0061000000000500"
	store := newMemStore(
		recordPoint(legacy, "account.account", map[string]any{"code": "1000"}),
		recordPoint(dataID(t, 85, 1), "account.move.line", map[string]any{
			schema.PtrField("account_id"): legacy,
		}),
	)
	engine := newTestEngine(store, catalog, nil, nil)

	report, err := engine.Validate(context.Background(), Options{Models: []string{"account.move.line"}})
	require.NoError(t, err)

	mr := report.Models[0]
	assert.Empty(t, mr.StructuralErrors)
	assert.Zero(t, mr.MissingRefs)
}

func TestValidate_DetectsOrphans(t *testing.T) {
	catalog := graphCatalog(t)
	missing := dataID(t, 61, 999)
	store := newMemStore(
		recordPoint(dataID(t, 85, 1), "account.move.line", map[string]any{
			schema.PtrField("account_id"): missing,
		}),
	)
	engine := newTestEngine(store, catalog, nil, nil)

	report, err := engine.Validate(context.Background(), Options{Models: []string{"account.move.line"}})
	require.NoError(t, err)

	mr := report.Models[0]
	require.Len(t, mr.Orphans, 1)
	orphan := mr.Orphans[0]
	assert.Equal(t, missing, orphan.TargetPointID)
	assert.Equal(t, int64(61), orphan.TargetModelID)
	assert.Equal(t, int64(999), orphan.TargetRecordID)
	assert.False(t, orphan.Repaired)
}

func TestValidate_StructuralErrorsAreNotOrphans(t *testing.T) {
	catalog := graphCatalog(t)
	schemaID, err := addr.Encode(addr.NamespaceSchema, 61, 500)
	require.NoError(t, err)

	store := newMemStore(
		recordPoint(dataID(t, 85, 1), "account.move.line", map[string]any{
			schema.PtrField("account_id"): "12ab",
		}),
		recordPoint(dataID(t, 85, 2), "account.move.line", map[string]any{
			schema.PtrField("account_id"): schemaID,
		}),
	)
	engine := newTestEngine(store, catalog, nil, nil)

	report, err := engine.Validate(context.Background(), Options{Models: []string{"account.move.line"}})
	require.NoError(t, err)

	mr := report.Models[0]
	assert.Len(t, mr.StructuralErrors, 2)
	assert.Empty(t, mr.Orphans, "corruption must not be counted as orphans")
	assert.Zero(t, mr.References)
}

func TestValidate_OrphanLimitCapsReportNotCount(t *testing.T) {
	catalog := graphCatalog(t)
	store := newMemStore(
		recordPoint(dataID(t, 85, 1), "account.move.line", map[string]any{
			schema.PtrField("tag_ids"): []any{dataID(t, 99, 1), dataID(t, 99, 2), dataID(t, 99, 3)},
		}),
	)
	engine := newTestEngine(store, catalog, nil, nil)

	report, err := engine.Validate(context.Background(), Options{
		Models:      []string{"account.move.line"},
		OrphanLimit: 1,
	})
	require.NoError(t, err)

	mr := report.Models[0]
	assert.Len(t, mr.Orphans, 1)
	assert.Equal(t, 3, mr.MissingRefs)
	assert.True(t, mr.OrphanLimitHit)
}

// flakyStore fails scrolls for one model and delegates the rest.
type flakyStore struct {
	*memStore
	failModel string
}

func (s *flakyStore) Scroll(ctx context.Context, req vectordb.ScrollRequest) (*vectordb.ScrollResult, error) {
	if req.Filter != nil && req.Filter.Must != nil {
		for _, cond := range req.Filter.Must.Conditions {
			match, ok := cond.(*vectordb.MatchCondition)
			if ok && match.Field == schema.PayloadModelName && match.Value == s.failModel {
				return nil, errors.New("store hiccup")
			}
		}
	}
	return s.memStore.Scroll(ctx, req)
}

func TestValidate_ModelFailureDoesNotAbortRun(t *testing.T) {
	catalog := graphCatalog(t)
	account := dataID(t, 61, 500)
	store := &flakyStore{
		failModel: "account.account",
		memStore: newMemStore(
			recordPoint(account, "account.account", map[string]any{"code": "1000"}),
			recordPoint(dataID(t, 85, 1), "account.move.line", map[string]any{
				schema.PtrField("account_id"): account,
			}),
		),
	}
	engine := newTestEngine(store, catalog, nil, nil)

	report, err := engine.Validate(context.Background(), Options{
		Models: []string{"account.account", "account.move.line"},
	})
	require.NoError(t, err, "one failing model must not abort the run")
	require.Len(t, report.Models, 2)

	failed := report.Models[0]
	assert.Equal(t, "account.account", failed.ModelName)
	assert.Contains(t, failed.Error, "store hiccup")
	assert.Zero(t, failed.ScannedRecords)

	healthy := report.Models[1]
	assert.Equal(t, "account.move.line", healthy.ModelName)
	assert.Empty(t, healthy.Error)
	assert.Equal(t, 1, healthy.ScannedRecords)
	assert.Equal(t, 1, healthy.References)
	assert.Zero(t, healthy.MissingRefs)
	assert.False(t, report.Incomplete)
}

// stalledStore blocks every scroll until the caller's context ends.
type stalledStore struct {
	*memStore
}

func (s *stalledStore) Scroll(ctx context.Context, _ vectordb.ScrollRequest) (*vectordb.ScrollResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestValidate_DeadlineReturnsPartialReport(t *testing.T) {
	engine := newTestEngine(&stalledStore{newMemStore()}, graphCatalog(t), nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	report, err := engine.Validate(ctx, Options{Models: []string{"account.move.line"}})
	require.NoError(t, err, "deadline expiry must surface the partial report")
	assert.True(t, report.Incomplete)
	require.Len(t, report.Models, 1)
	assert.NotEmpty(t, report.Models[0].Error)
}

func TestValidate_CancelReturnsError(t *testing.T) {
	engine := newTestEngine(&stalledStore{newMemStore()}, graphCatalog(t), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Validate(ctx, Options{Models: []string{"account.move.line"}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestValidate_UnknownModel(t *testing.T) {
	engine := newTestEngine(newMemStore(), graphCatalog(t), nil, nil)

	_, err := engine.Validate(context.Background(), Options{Models: []string{"account.move.lin"}})
	var notFound *schema.ModelNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestValidate_ExtractPatterns(t *testing.T) {
	catalog := graphCatalog(t)
	shared := dataID(t, 61, 500)
	store := newMemStore(
		recordPoint(shared, "account.account", map[string]any{"code": "1000"}),
		recordPoint(dataID(t, 85, 1), "account.move.line", map[string]any{
			schema.PtrField("account_id"): shared,
		}),
		recordPoint(dataID(t, 85, 2), "account.move.line", map[string]any{
			schema.PtrField("account_id"): shared,
		}),
	)
	engine := newTestEngine(store, catalog, nil, nil)

	report, err := engine.Validate(context.Background(), Options{
		Models:          []string{"account.move.line"},
		ExtractPatterns: true,
	})
	require.NoError(t, err)

	mr := report.Models[0]
	require.Len(t, mr.Hints, 1)
	hint := mr.Hints[0]
	assert.Equal(t, "account_id", hint.Field)
	assert.Equal(t, "account.account", hint.TargetModel)
	assert.Equal(t, CardinalityManyToOne, hint.Cardinality)
	assert.Equal(t, 2, hint.References)
	assert.Equal(t, 1, hint.DistinctTargets)
}

func TestValidate_BidirectionalDrift(t *testing.T) {
	catalog := graphCatalog(t)
	account := dataID(t, 61, 500)
	line := dataID(t, 85, 1)

	// One stale edge (no record references it) and one reference with no
	// edge point.
	stale := NewEdgePoint("account.move.line", dataID(t, 85, 7), "account_id", account)
	store := newMemStore(
		recordPoint(account, "account.account", map[string]any{"code": "1000"}),
		recordPoint(line, "account.move.line", map[string]any{
			schema.PtrField("account_id"): account,
		}),
		stale,
	)
	engine := newTestEngine(store, catalog, nil, nil)

	report, err := engine.Validate(context.Background(), Options{
		Models:        []string{"account.move.line"},
		Bidirectional: true,
	})
	require.NoError(t, err)

	mr := report.Models[0]
	require.Len(t, mr.Drift, 2)

	kinds := map[DriftKind]Drift{}
	for _, d := range mr.Drift {
		kinds[d.Kind] = d
	}
	missing, ok := kinds[DriftMissingEdge]
	require.True(t, ok)
	assert.Equal(t, line, missing.SourcePointID)
	assert.Equal(t, EdgeID(line, "account_id", account), missing.EdgePointID)

	staleDrift, ok := kinds[DriftStaleEdge]
	require.True(t, ok)
	assert.Equal(t, stale.ID, staleDrift.EdgePointID)
}

type reportSink struct {
	mu      sync.Mutex
	reports []*Report
}

func (s *reportSink) RecordReport(_ context.Context, r *Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r)
	return nil
}

func TestValidate_ReportsGoToSink(t *testing.T) {
	catalog := graphCatalog(t)
	sink := &reportSink{}
	engine := newTestEngine(newMemStore(), catalog, nil, sink)

	_, err := engine.Validate(context.Background(), Options{})
	require.NoError(t, err)
	require.Len(t, sink.reports, 1)
	assert.Len(t, sink.reports[0].Models, 2)
}

func TestEdgeID_Deterministic(t *testing.T) {
	a := EdgeID("s", "f", "t")
	b := EdgeID("s", "f", "t")
	c := EdgeID("s", "f", "u")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
