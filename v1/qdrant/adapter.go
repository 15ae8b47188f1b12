package qdrant

import (
	"context"
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"github.com/erpvec/erpvec/v1/vectordb"
)

// Adapter implements vectordb.Service on top of the Qdrant client.
// All exported methods are safe for concurrent use.
type Adapter struct {
	client *Client
	logger *zap.Logger
}

// NewAdapter wraps a connected Client in the store-agnostic interface.
func NewAdapter(client *Client, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{client: client, logger: logger}
}

var _ vectordb.Service = (*Adapter)(nil)

// Upsert writes points in chunks of upsertChunkSize to keep individual
// requests within the store's limits. Each chunk is a blocking upsert
// (Wait=true) so data is persisted before the next chunk is sent.
func (a *Adapter) Upsert(ctx context.Context, collection string, points []vectordb.Point) error {
	if len(points) == 0 {
		return nil
	}

	for start := 0; start < len(points); start += upsertChunkSize {
		end := start + upsertChunkSize
		if end > len(points) {
			end = len(points)
		}

		chunk := make([]*qdrant.PointStruct, 0, end-start)
		for _, p := range points[start:end] {
			chunk = append(chunk, &qdrant.PointStruct{
				Id:      toPointID(p.ID),
				Vectors: qdrant.NewVectors(p.Vector...),
				Payload: qdrant.NewValueMap(p.Payload),
			})
		}

		wait := true
		_, err := a.client.api.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: collection,
			Points:         chunk,
			Wait:           &wait,
		})
		if err != nil {
			return fmt.Errorf("qdrant: batch upsert failed at [%d:%d]: %w", start, end, err)
		}

		a.logger.Debug("upserted batch",
			zap.String("collection", collection),
			zap.Int("from", start),
			zap.Int("to", end))
	}

	return nil
}

// Scroll returns one page of points matching the filter. The low-level
// points API is used instead of the SDK convenience wrapper because the
// wrapper drops the next-page offset the pagination contract needs.
func (a *Adapter) Scroll(ctx context.Context, req vectordb.ScrollRequest) (*vectordb.ScrollResult, error) {
	if req.CollectionName == "" {
		return nil, fmt.Errorf("qdrant: collection name cannot be empty")
	}
	if req.Limit <= 0 {
		return nil, fmt.Errorf("qdrant: scroll limit must be greater than 0")
	}

	limit := uint32(req.Limit)
	scroll := &qdrant.ScrollPoints{
		CollectionName: req.CollectionName,
		Filter:         convertFilterSet(req.Filter),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(req.WithPayload),
		WithVectors:    qdrant.NewWithVectors(req.WithVector),
	}
	if req.Cursor != "" {
		scroll.Offset = toPointID(req.Cursor)
	}

	resp, err := a.client.api.GetPointsClient().Scroll(ctx, scroll)
	if err != nil {
		return nil, fmt.Errorf("qdrant: scroll failed: %w", err)
	}

	points := make([]vectordb.Point, 0, len(resp.GetResult()))
	for _, r := range resp.GetResult() {
		id, err := fromPointID(r.GetId())
		if err != nil {
			return nil, err
		}
		points = append(points, vectordb.Point{
			ID:      id,
			Vector:  r.GetVectors().GetVector().GetData(),
			Payload: convertPayload(r.GetPayload()),
		})
	}

	result := &vectordb.ScrollResult{Points: points}
	if next := resp.GetNextPageOffset(); next != nil {
		cursor, err := fromPointID(next)
		if err != nil {
			return nil, err
		}
		result.NextCursor = cursor
	}
	return result, nil
}

// Count returns the number of points matching the filter.
func (a *Adapter) Count(ctx context.Context, req vectordb.CountRequest) (uint64, error) {
	if req.CollectionName == "" {
		return 0, fmt.Errorf("qdrant: collection name cannot be empty")
	}

	count, err := a.client.api.Count(ctx, &qdrant.CountPoints{
		CollectionName: req.CollectionName,
		Filter:         convertFilterSet(req.Filter),
		Exact:          &req.Exact,
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant: count failed: %w", err)
	}
	return count, nil
}

// GetPoints fetches points by id. Ids with no stored point are absent
// from the result.
func (a *Adapter) GetPoints(ctx context.Context, collection string, ids []string, withPayload bool) ([]vectordb.Point, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	qids := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		qids = append(qids, toPointID(id))
	}

	resp, err := a.client.api.Get(ctx, &qdrant.GetPoints{
		CollectionName: collection,
		Ids:            qids,
		WithPayload:    qdrant.NewWithPayload(withPayload),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: get points failed: %w", err)
	}

	points := make([]vectordb.Point, 0, len(resp))
	for _, r := range resp {
		id, err := fromPointID(r.GetId())
		if err != nil {
			return nil, err
		}
		points = append(points, vectordb.Point{
			ID:      id,
			Payload: convertPayload(r.GetPayload()),
		})
	}
	return points, nil
}

// DeleteByFilter removes every point matching the filter. A nil filter is
// rejected so a missing filter can never wipe a whole collection.
func (a *Adapter) DeleteByFilter(ctx context.Context, collection string, filter *vectordb.FilterSet) error {
	converted := convertFilterSet(filter)
	if converted == nil {
		return fmt.Errorf("qdrant: refusing to delete without a filter")
	}

	wait := true
	resp, err := a.client.api.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{Filter: converted},
		},
		Wait: &wait,
	})
	if err != nil {
		return fmt.Errorf("qdrant: delete by filter failed: %w", err)
	}

	a.logger.Info("deleted points by filter",
		zap.String("collection", collection),
		zap.String("status", resp.GetStatus().String()))
	return nil
}

// EnsureCollection verifies a collection exists and creates it if missing.
// Safe to call multiple times.
func (a *Adapter) EnsureCollection(ctx context.Context, name string, vectorSize uint64) error {
	if name == "" {
		return fmt.Errorf("qdrant: collection name cannot be empty")
	}

	exists, err := a.client.api.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("qdrant: failed to check collection %q: %w", name, err)
	}
	if exists {
		return nil
	}

	err = a.client.api.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: failed to create collection %q: %w", name, err)
	}

	a.logger.Info("created collection",
		zap.String("collection", name),
		zap.Uint64("vector_size", vectorSize))
	return nil
}

// CreatePayloadIndex indexes a payload field so the store can filter on it
// natively. Idempotent on the store side.
func (a *Adapter) CreatePayloadIndex(ctx context.Context, collection, field string, indexType vectordb.PayloadIndexType) error {
	ft, err := convertIndexType(indexType)
	if err != nil {
		return err
	}

	wait := true
	_, err = a.client.api.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: collection,
		FieldName:      field,
		FieldType:      &ft,
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("qdrant: failed to index field %q: %w", field, err)
	}
	return nil
}

// GetCollection retrieves metadata about a collection as a decoupled
// struct, hiding the SDK's nested protobuf internals.
func (a *Adapter) GetCollection(ctx context.Context, name string) (*vectordb.Collection, error) {
	if name == "" {
		return nil, fmt.Errorf("qdrant: collection name cannot be empty")
	}

	info, err := a.client.api.GetCollectionInfo(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("qdrant: failed to get collection %q: %w", name, err)
	}

	size, distance := extractVectorDetails(info)
	return &vectordb.Collection{
		Name:       name,
		Status:     info.GetStatus().String(),
		VectorSize: size,
		Distance:   distance,
		PointCount: info.GetPointsCount(),
	}, nil
}

// ListCollections returns the names of all collections.
func (a *Adapter) ListCollections(ctx context.Context) ([]string, error) {
	names, err := a.client.api.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("qdrant: failed to list collections: %w", err)
	}
	return names, nil
}
