package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/erpvec/erpvec/v1/schema"
	"github.com/erpvec/erpvec/v1/vectordb"
)

// reconcile checks every decoded reference against the store and records
// orphans up to the per-model limit. With Bidirectional set it also
// compares forward references against stored edge points.
func (e *Engine) reconcile(ctx context.Context, mr *ModelReport, refs []Reference, opts Options) error {
	exists, err := e.checkExistence(ctx, refs)
	if err != nil {
		return err
	}

	limit := e.cfg.OrphanLimit
	if opts.OrphanLimit > 0 {
		limit = opts.OrphanLimit
	}

	for _, ref := range refs {
		if exists[ref.TargetPointID] {
			continue
		}
		mr.MissingRefs++
		if len(mr.Orphans) >= limit {
			mr.OrphanLimitHit = true
			continue
		}
		mr.Orphans = append(mr.Orphans, Orphan{
			SourcePointID:  ref.SourcePointID,
			Field:          ref.Field,
			TargetPointID:  ref.TargetPointID,
			TargetModelID:  ref.Target.ModelID,
			TargetRecordID: ref.Target.RecordID,
		})
	}

	if opts.Bidirectional {
		return e.reconcileEdges(ctx, mr, refs)
	}
	return nil
}

// checkExistence resolves which target points are present, batching
// lookups so one model with thousands of distinct targets doesn't turn
// into thousands of round trips.
func (e *Engine) checkExistence(ctx context.Context, refs []Reference) (map[string]bool, error) {
	unique := make(map[string]bool, len(refs))
	for _, ref := range refs {
		unique[ref.TargetPointID] = false
	}
	if len(unique) == 0 {
		return unique, nil
	}

	ids := make([]string, 0, len(unique))
	for id := range unique {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	batch := e.cfg.ExistenceBatch
	for start := 0; start < len(ids); start += batch {
		end := start + batch
		if end > len(ids) {
			end = len(ids)
		}
		points, err := e.db.GetPoints(ctx, e.cfg.Collection, ids[start:end], false)
		if err != nil {
			return nil, fmt.Errorf("existence check: %w", err)
		}
		for _, pt := range points {
			unique[pt.ID] = true
		}
	}
	return unique, nil
}

// reconcileEdges compares forward references with stored edge points in
// both directions: references without an edge and edges without a
// reference both count as drift.
func (e *Engine) reconcileEdges(ctx context.Context, mr *ModelReport, refs []Reference) error {
	stored := make(map[string]vectordb.Point)
	cursor := ""
	for {
		page, err := e.db.Scroll(ctx, vectordb.ScrollRequest{
			CollectionName: e.cfg.Collection,
			Filter:         edgeFilter(mr.ModelName),
			Limit:          e.cfg.PageSize,
			Cursor:         cursor,
			WithPayload:    true,
		})
		if err != nil {
			return fmt.Errorf("edge scan: %w", err)
		}
		for _, pt := range page.Points {
			stored[pt.ID] = pt
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	referenced := make(map[string]bool, len(refs))
	for _, ref := range refs {
		id := EdgeID(ref.SourcePointID, ref.Field, ref.TargetPointID)
		referenced[id] = true
		if _, ok := stored[id]; !ok {
			mr.Drift = append(mr.Drift, Drift{
				Kind:          DriftMissingEdge,
				SourcePointID: ref.SourcePointID,
				Field:         ref.Field,
				TargetPointID: ref.TargetPointID,
				EdgePointID:   id,
			})
		}
	}

	staleIDs := make([]string, 0)
	for id := range stored {
		if !referenced[id] {
			staleIDs = append(staleIDs, id)
		}
	}
	sort.Strings(staleIDs)
	for _, id := range staleIDs {
		pt := stored[id]
		source, _ := pt.Payload[PayloadEdgeSource].(string)
		field, _ := pt.Payload[PayloadEdgeField].(string)
		target, _ := pt.Payload[PayloadEdgeTarget].(string)
		mr.Drift = append(mr.Drift, Drift{
			Kind:          DriftStaleEdge,
			SourcePointID: source,
			Field:         field,
			TargetPointID: target,
			EdgePointID:   id,
		})
	}
	return nil
}

// extractHints derives the observed cardinality of each FK field. A field
// where no target is referenced twice behaves one-to-one; anything else
// is many-to-one.
func (e *Engine) extractHints(fkFields []schema.FieldDescriptor, refs []Reference) []CardinalityHint {
	type fieldStats struct {
		references int
		perTarget  map[string]int
	}
	stats := make(map[string]*fieldStats)
	for _, ref := range refs {
		st, ok := stats[ref.Field]
		if !ok {
			st = &fieldStats{perTarget: make(map[string]int)}
			stats[ref.Field] = st
		}
		st.references++
		st.perTarget[ref.TargetPointID]++
	}

	var hints []CardinalityHint
	for _, f := range fkFields {
		st, ok := stats[f.Name]
		if !ok {
			continue
		}

		cardinality := CardinalityOneToOne
		for _, n := range st.perTarget {
			if n > 1 {
				cardinality = CardinalityManyToOne
				break
			}
		}

		targetModel, _ := e.catalog.ModelByID(f.FKTargetModelID)

		hints = append(hints, CardinalityHint{
			Field:           f.Name,
			TargetModel:     targetModel,
			Cardinality:     cardinality,
			References:      st.references,
			DistinctTargets: len(st.perTarget),
		})
	}

	sort.Slice(hints, func(i, j int) bool { return hints[i].Field < hints[j].Field })
	return hints
}

func edgeFilter(modelName string) *vectordb.FilterSet {
	return vectordb.NewFilterSet(
		vectordb.Must(
			vectordb.NewMatch(schema.PayloadModelName, modelName),
			vectordb.NewMatch(schema.PayloadPointType, schema.PointTypeEdge),
		),
	)
}
