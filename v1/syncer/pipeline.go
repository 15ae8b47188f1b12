package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/erpvec/erpvec/v1/embedding"
	"github.com/erpvec/erpvec/v1/graph"
	"github.com/erpvec/erpvec/v1/odoo"
	"github.com/erpvec/erpvec/v1/schema"
	"github.com/erpvec/erpvec/v1/vectordb"
)

// Syncer projects source records into the vector store.
type Syncer struct {
	source   Source
	db       vectordb.Service
	embedder Embedder
	catalog  *schema.Catalog
	cfg      *Config
	logger   *zap.Logger
}

// NewSyncer builds a sync pipeline.
func NewSyncer(source Source, db vectordb.Service, embedder Embedder, catalog *schema.Catalog, cfg *Config, logger *zap.Logger) *Syncer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Syncer{
		source:   source,
		db:       db,
		embedder: embedder,
		catalog:  catalog,
		cfg:      cfg,
		logger:   logger.Named("syncer"),
	}
}

type rawBatch struct {
	offset  int
	records []odoo.Record
}

type pointBatch struct {
	offset int
	points []vectordb.Point
	edges  []vectordb.Point
}

// SyncModel runs the full pipeline for one model: fetch pages from the
// source, transform them into points, embed, and upsert. The three
// stages run concurrently with bounded channels between them, so a slow
// embedding call applies back-pressure instead of unbounded buffering.
//
// Per-record and per-batch failures are collected on the result; only
// configuration-level failures (unknown model, store unreachable) abort
// the run. A deadline expiring mid-run returns the partial result with
// Incomplete set; explicit cancellation returns the context error.
func (s *Syncer) SyncModel(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	model, err := s.catalog.Model(opts.Model)
	if err != nil {
		return nil, err
	}
	if err := s.prepareCollection(ctx, model); err != nil {
		return nil, err
	}

	schemaPoint, err := buildSchemaPoint(model, start)
	if err != nil {
		return nil, fmt.Errorf("build schema point: %w", err)
	}
	if err := s.upsertWithRetry(ctx, []vectordb.Point{schemaPoint}); err != nil {
		return nil, fmt.Errorf("write schema point: %w", err)
	}

	result := &Result{Model: opts.Model}
	var mu sync.Mutex

	fields := storedFieldNames(model)
	rawCh := make(chan rawBatch, s.cfg.PipelineDepth)
	readyCh := make(chan pointBatch, s.cfg.PipelineDepth)

	g, gctx := errgroup.WithContext(ctx)

	// Fetch stage. A page that still fails after the client's own
	// retries ends fetching early: pagination past a hole would silently
	// skip records.
	g.Go(func() error {
		defer close(rawCh)
		offset := 0
		for {
			if err := gctx.Err(); err != nil {
				return err
			}

			limit := s.cfg.BatchSize
			if opts.Limit > 0 && opts.Limit-offset < limit {
				limit = opts.Limit - offset
			}
			if limit <= 0 {
				return nil
			}

			records, err := s.source.SearchRead(gctx, opts.Model, opts.Domain, odoo.SearchOptions{
				Fields: fields,
				Limit:  limit,
				Offset: offset,
				Order:  "id asc",
			})
			if err != nil {
				mu.Lock()
				result.FailedBatches = append(result.FailedBatches, BatchFailure{
					Offset: offset, Size: limit, Stage: "fetch", Reason: err.Error(),
				})
				mu.Unlock()
				return nil
			}
			if len(records) == 0 {
				return nil
			}

			mu.Lock()
			result.Fetched += len(records)
			mu.Unlock()

			select {
			case rawCh <- rawBatch{offset: offset, records: records}:
			case <-gctx.Done():
				return gctx.Err()
			}

			offset += len(records)
			if len(records) < limit {
				return nil
			}
		}
	})

	// Transform and embed stage.
	g.Go(func() error {
		defer close(readyCh)
		for batch := range rawCh {
			points, edges := s.transformBatch(model, batch.records, opts.WithEdges, result, &mu)
			if len(points) == 0 {
				continue
			}

			texts := make([]string, len(points))
			for i, pt := range points {
				texts[i], _ = pt.Payload[schema.PayloadVectorText].(string)
			}
			vectors, err := s.embedWithRetry(gctx, texts)
			if err != nil {
				mu.Lock()
				result.FailedBatches = append(result.FailedBatches, BatchFailure{
					Offset: batch.offset, Size: len(points), Stage: "embed", Reason: err.Error(),
				})
				mu.Unlock()
				continue
			}
			for i := range points {
				points[i].Vector = vectors[i]
			}

			select {
			case readyCh <- pointBatch{offset: batch.offset, points: points, edges: edges}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	// Upsert stage.
	g.Go(func() error {
		for batch := range readyCh {
			if err := s.upsertWithRetry(gctx, batch.points); err != nil {
				mu.Lock()
				result.FailedBatches = append(result.FailedBatches, BatchFailure{
					Offset: batch.offset, Size: len(batch.points), Stage: "upsert", Reason: err.Error(),
				})
				mu.Unlock()
				continue
			}
			mu.Lock()
			result.Synced += len(batch.points)
			mu.Unlock()

			if len(batch.edges) == 0 {
				continue
			}
			if err := s.upsertWithRetry(gctx, batch.edges); err != nil {
				mu.Lock()
				result.FailedBatches = append(result.FailedBatches, BatchFailure{
					Offset: batch.offset, Size: len(batch.edges), Stage: "edges", Reason: err.Error(),
				})
				mu.Unlock()
				continue
			}
			mu.Lock()
			result.Edges += len(batch.edges)
			mu.Unlock()
		}
		return nil
	})

	switch err := g.Wait(); {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded):
		result.Incomplete = true
		s.logger.Warn("sync deadline hit, returning partial result",
			zap.String("model", opts.Model),
			zap.Int("fetched", result.Fetched),
			zap.Int("synced", result.Synced))
	default:
		return nil, err
	}

	result.Duration = time.Since(start)
	s.logger.Info("sync finished",
		zap.String("model", opts.Model),
		zap.Int("fetched", result.Fetched),
		zap.Int("synced", result.Synced),
		zap.Int("edges", result.Edges),
		zap.Int("failed_records", len(result.FailedRecords)),
		zap.Int("failed_batches", len(result.FailedBatches)),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// transformBatch builds points for one raw batch. Records that cannot be
// projected (identity overflow, missing id) fail individually.
func (s *Syncer) transformBatch(model *schema.ModelSchema, records []odoo.Record, withEdges bool, result *Result, mu *sync.Mutex) ([]vectordb.Point, []vectordb.Point) {
	now := time.Now()
	points := make([]vectordb.Point, 0, len(records))
	var edges []vectordb.Point

	for _, rec := range records {
		pt, refs, err := buildPoint(model, rec, now)
		if err != nil {
			recordID, _ := recordIDOf(rec)
			mu.Lock()
			result.FailedRecords = append(result.FailedRecords, RecordFailure{
				RecordID: recordID, Reason: err.Error(),
			})
			mu.Unlock()
			continue
		}
		points = append(points, pt)

		if withEdges {
			for _, ref := range refs {
				edges = append(edges, graph.NewEdgePoint(model.ModelName, pt.ID, ref.field, ref.target))
			}
		}
	}
	return points, edges
}

// prepareCollection makes sure the collection and the payload indexes
// backing native filtering exist. Idempotent.
func (s *Syncer) prepareCollection(ctx context.Context, model *schema.ModelSchema) error {
	if err := s.db.EnsureCollection(ctx, s.cfg.Collection, s.cfg.VectorSize); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}

	system := map[string]vectordb.PayloadIndexType{
		schema.PayloadModelName: vectordb.IndexKeyword,
		schema.PayloadPointType: vectordb.IndexKeyword,
		schema.PayloadRecordID:  vectordb.IndexInteger,
		schema.PayloadSyncedAt:  vectordb.IndexDatetime,
	}
	for field, kind := range system {
		if err := s.db.CreatePayloadIndex(ctx, s.cfg.Collection, field, kind); err != nil {
			return fmt.Errorf("index %s: %w", field, err)
		}
	}

	for _, f := range model.Fields {
		if !f.Stored || !f.Indexed {
			continue
		}
		kind, ok := indexTypeFor(f.Type)
		if !ok {
			continue
		}
		if err := s.db.CreatePayloadIndex(ctx, s.cfg.Collection, f.Name, kind); err != nil {
			return fmt.Errorf("index %s: %w", f.Name, err)
		}
	}
	return nil
}

func indexTypeFor(t schema.FieldType) (vectordb.PayloadIndexType, bool) {
	switch t {
	case schema.TypeInteger, schema.TypeMany2One:
		return vectordb.IndexInteger, true
	case schema.TypeFloat, schema.TypeMonetary:
		return vectordb.IndexFloat, true
	case schema.TypeBoolean:
		return vectordb.IndexBool, true
	case schema.TypeDate, schema.TypeDatetime:
		return vectordb.IndexDatetime, true
	case schema.TypeChar, schema.TypeSelection:
		return vectordb.IndexKeyword, true
	case schema.TypeText, schema.TypeHTML:
		return vectordb.IndexText, true
	default:
		return "", false
	}
}

func (s *Syncer) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := backoff.Retry(func() error {
		vectors, err := s.embedder.EmbedBatch(ctx, texts, embedding.ModeDocument)
		if err != nil {
			return err
		}
		out = vectors
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.cfg.MaxRetries), ctx))
	return out, err
}

func (s *Syncer) upsertWithRetry(ctx context.Context, points []vectordb.Point) error {
	return backoff.Retry(func() error {
		return s.db.Upsert(ctx, s.cfg.Collection, points)
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.cfg.MaxRetries), ctx))
}

func storedFieldNames(model *schema.ModelSchema) []string {
	out := make([]string, 0, len(model.Fields))
	for _, f := range model.Fields {
		if f.Stored {
			out = append(out, f.Name)
		}
	}
	return out
}
