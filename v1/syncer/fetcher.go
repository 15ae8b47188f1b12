package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/erpvec/erpvec/v1/embedding"
	"github.com/erpvec/erpvec/v1/graph"
	"github.com/erpvec/erpvec/v1/schema"
	"github.com/erpvec/erpvec/v1/vectordb"
)

var _ graph.Fetcher = (*Syncer)(nil)

// FetchRecord pulls one record back out of the source system and
// projects it, so the integrity engine can repair an orphan reference.
// A record the source no longer has comes back as nil.
func (s *Syncer) FetchRecord(ctx context.Context, modelID, recordID int64) (*vectordb.Point, error) {
	name, ok := s.catalog.ModelByID(modelID)
	if !ok {
		return nil, fmt.Errorf("no catalog model with id %d", modelID)
	}
	model, err := s.catalog.Model(name)
	if err != nil {
		return nil, err
	}

	records, err := s.source.Read(ctx, name, []int64{recordID}, storedFieldNames(model))
	if err != nil {
		return nil, fmt.Errorf("read %s/%d: %w", name, recordID, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	pt, _, err := buildPoint(model, records[0], time.Now())
	if err != nil {
		return nil, fmt.Errorf("project %s/%d: %w", name, recordID, err)
	}

	text, _ := pt.Payload[schema.PayloadVectorText].(string)
	vector, err := s.embedder.Embed(ctx, text, embedding.ModeDocument)
	if err != nil {
		return nil, fmt.Errorf("embed %s/%d: %w", name, recordID, err)
	}
	pt.Vector = vector
	return &pt, nil
}
