package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erpvec/erpvec/v1/addr"
	"github.com/erpvec/erpvec/v1/embedding"
	"github.com/erpvec/erpvec/v1/odoo"
	"github.com/erpvec/erpvec/v1/schema"
	"github.com/erpvec/erpvec/v1/vectordb"
)

// fakeSource serves a fixed record set with offset/limit pagination.
type fakeSource struct {
	mu      sync.Mutex
	records []odoo.Record
	fetches int
}

func (f *fakeSource) SearchRead(_ context.Context, _ string, _ []any, opts odoo.SearchOptions) ([]odoo.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if opts.Offset >= len(f.records) {
		return nil, nil
	}
	end := opts.Offset + opts.Limit
	if end > len(f.records) {
		end = len(f.records)
	}
	return f.records[opts.Offset:end], nil
}

func (f *fakeSource) SearchCount(context.Context, string, []any) (int64, error) {
	return int64(len(f.records)), nil
}

func (f *fakeSource) Read(_ context.Context, _ string, ids []int64, _ []string) ([]odoo.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []odoo.Record
	for _, rec := range f.records {
		id, _ := recordIDOf(rec)
		for _, want := range ids {
			if id == want {
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

type fakeEmbedder struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, mode embedding.Mode) ([]float32, error) {
	vectors, err := f.EmbedBatch(ctx, []string{text}, mode)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string, _ embedding.Mode) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return nil, errors.New("inference unavailable")
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i]))}
	}
	return out, nil
}

// upsertStore records writes and index creation.
type upsertStore struct {
	mu      sync.Mutex
	points  map[string]vectordb.Point
	indexes map[string]vectordb.PayloadIndexType
	ensured []string
}

func newUpsertStore() *upsertStore {
	return &upsertStore{
		points:  make(map[string]vectordb.Point),
		indexes: make(map[string]vectordb.PayloadIndexType),
	}
}

func (s *upsertStore) Upsert(_ context.Context, _ string, points []vectordb.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, pt := range points {
		s.points[pt.ID] = pt
	}
	return nil
}

func (s *upsertStore) EnsureCollection(_ context.Context, name string, _ uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensured = append(s.ensured, name)
	return nil
}

func (s *upsertStore) CreatePayloadIndex(_ context.Context, _ string, field string, kind vectordb.PayloadIndexType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexes[field] = kind
	return nil
}

func (s *upsertStore) Scroll(context.Context, vectordb.ScrollRequest) (*vectordb.ScrollResult, error) {
	return &vectordb.ScrollResult{}, nil
}
func (s *upsertStore) Count(context.Context, vectordb.CountRequest) (uint64, error) { return 0, nil }
func (s *upsertStore) GetPoints(context.Context, string, []string, bool) ([]vectordb.Point, error) {
	return nil, nil
}
func (s *upsertStore) DeleteByFilter(context.Context, string, *vectordb.FilterSet) error { return nil }
func (s *upsertStore) GetCollection(context.Context, string) (*vectordb.Collection, error) {
	return nil, nil
}
func (s *upsertStore) ListCollections(context.Context) ([]string, error) { return nil, nil }

func syncCatalog(t *testing.T) *schema.Catalog {
	t.Helper()
	line := moveLineModel()
	c := schema.NewCatalog(schema.SliceSource{
		*line,
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

func lineRecords(n int) []odoo.Record {
	out := make([]odoo.Record, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, odoo.Record{
			"id":         float64(i),
			"name":       fmt.Sprintf("line %d", i),
			"account_id": []any{float64(500), "1000 Receivables"},
		})
	}
	return out
}

func newTestSyncer(source Source, store vectordb.Service, embedder Embedder, catalog *schema.Catalog) *Syncer {
	cfg := DefaultConfig().WithBatchSize(2)
	return NewSyncer(source, store, embedder, catalog, cfg, zap.NewNop())
}

func TestSyncModel_ProjectsAllRecords(t *testing.T) {
	store := newUpsertStore()
	s := newTestSyncer(&fakeSource{records: lineRecords(5)}, store, &fakeEmbedder{}, syncCatalog(t))

	result, err := s.SyncModel(context.Background(), Options{Model: "account.move.line"})
	require.NoError(t, err)

	assert.Equal(t, 5, result.Fetched)
	assert.Equal(t, 5, result.Synced)
	assert.Empty(t, result.FailedRecords)
	assert.Empty(t, result.FailedBatches)

	// 5 records + 1 schema metadata point.
	assert.Len(t, store.points, 6)

	recordID, err := addr.Encode(addr.NamespaceData, 85, 3)
	require.NoError(t, err)
	pt, ok := store.points[recordID]
	require.True(t, ok)
	assert.NotEmpty(t, pt.Vector, "every synced point carries its embedding")

	schemaID, err := addr.Encode(addr.NamespaceSchema, 85, 0)
	require.NoError(t, err)
	_, ok = store.points[schemaID]
	assert.True(t, ok, "schema metadata point must be written")

	assert.Equal(t, vectordb.IndexKeyword, store.indexes[schema.PayloadModelName])
	assert.Equal(t, vectordb.IndexInteger, store.indexes["account_id"])
}

func TestSyncModel_EdgePointsOptIn(t *testing.T) {
	store := newUpsertStore()
	s := newTestSyncer(&fakeSource{records: lineRecords(3)}, store, &fakeEmbedder{}, syncCatalog(t))

	result, err := s.SyncModel(context.Background(), Options{
		Model:     "account.move.line",
		WithEdges: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Edges)
	edges := 0
	for _, pt := range store.points {
		if pt.Payload[schema.PayloadPointType] == schema.PointTypeEdge {
			edges++
		}
	}
	assert.Equal(t, 3, edges)
}

func TestSyncModel_RecordFailureDoesNotAbortRun(t *testing.T) {
	records := lineRecords(4)
	records[1]["id"] = float64(addr.MaxRecordID + 1)

	store := newUpsertStore()
	s := newTestSyncer(&fakeSource{records: records}, store, &fakeEmbedder{}, syncCatalog(t))

	result, err := s.SyncModel(context.Background(), Options{Model: "account.move.line"})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Fetched)
	assert.Equal(t, 3, result.Synced)
	require.Len(t, result.FailedRecords, 1)
}

func TestSyncModel_EmbedFailureIsPerBatch(t *testing.T) {
	store := newUpsertStore()
	s := newTestSyncer(&fakeSource{records: lineRecords(4)}, store, &fakeEmbedder{fail: true}, syncCatalog(t))
	s.cfg.MaxRetries = 0

	result, err := s.SyncModel(context.Background(), Options{Model: "account.move.line"})
	require.NoError(t, err, "batch failures are reported, not returned")

	assert.Equal(t, 4, result.Fetched)
	assert.Zero(t, result.Synced)
	require.Len(t, result.FailedBatches, 2)
	for _, bf := range result.FailedBatches {
		assert.Equal(t, "embed", bf.Stage)
	}
}

func TestSyncModel_LimitCapsFetch(t *testing.T) {
	store := newUpsertStore()
	s := newTestSyncer(&fakeSource{records: lineRecords(10)}, store, &fakeEmbedder{}, syncCatalog(t))

	result, err := s.SyncModel(context.Background(), Options{Model: "account.move.line", Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Fetched)
	assert.Equal(t, 3, result.Synced)
}

// stallingSource serves the first page immediately, then blocks further
// pages until the caller's context ends.
type stallingSource struct {
	fakeSource
}

func (s *stallingSource) SearchRead(ctx context.Context, model string, domain []any, opts odoo.SearchOptions) ([]odoo.Record, error) {
	if opts.Offset > 0 {
		<-ctx.Done()
	}
	return s.fakeSource.SearchRead(ctx, model, domain, opts)
}

func TestSyncModel_DeadlineReturnsPartialResult(t *testing.T) {
	source := &stallingSource{fakeSource{records: lineRecords(6)}}
	s := newTestSyncer(source, newUpsertStore(), &fakeEmbedder{}, syncCatalog(t))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	result, err := s.SyncModel(ctx, Options{Model: "account.move.line"})
	require.NoError(t, err, "deadline expiry must surface the partial result")
	require.NotNil(t, result)

	assert.True(t, result.Incomplete)
	assert.NotZero(t, result.Fetched)
	assert.LessOrEqual(t, result.Synced, result.Fetched)
}

func TestSyncModel_CancelReturnsError(t *testing.T) {
	s := newTestSyncer(&fakeSource{records: lineRecords(2)}, newUpsertStore(), &fakeEmbedder{}, syncCatalog(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.SyncModel(ctx, Options{Model: "account.move.line"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSyncModel_UnknownModel(t *testing.T) {
	s := newTestSyncer(&fakeSource{}, newUpsertStore(), &fakeEmbedder{}, syncCatalog(t))

	_, err := s.SyncModel(context.Background(), Options{Model: "account.move.lin"})
	var notFound *schema.ModelNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestFetchRecord_ProjectsSingleRecord(t *testing.T) {
	source := &fakeSource{records: lineRecords(3)}
	s := newTestSyncer(source, newUpsertStore(), &fakeEmbedder{}, syncCatalog(t))

	pt, err := s.FetchRecord(context.Background(), 85, 2)
	require.NoError(t, err)
	require.NotNil(t, pt)

	wantID, _ := addr.Encode(addr.NamespaceData, 85, 2)
	assert.Equal(t, wantID, pt.ID)
	assert.NotEmpty(t, pt.Vector)
}

func TestFetchRecord_GoneRecord(t *testing.T) {
	s := newTestSyncer(&fakeSource{}, newUpsertStore(), &fakeEmbedder{}, syncCatalog(t))

	pt, err := s.FetchRecord(context.Background(), 85, 42)
	require.NoError(t, err)
	assert.Nil(t, pt)
}

func TestFetchRecord_UnknownModelID(t *testing.T) {
	s := newTestSyncer(&fakeSource{}, newUpsertStore(), &fakeEmbedder{}, syncCatalog(t))

	_, err := s.FetchRecord(context.Background(), 7777, 1)
	require.Error(t, err)
}
