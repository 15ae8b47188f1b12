package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/erpvec/erpvec/v1/addr"
	"github.com/erpvec/erpvec/v1/vectordb"
)

// repairOrphans re-fetches each orphan target from the source system and
// writes it back. Repair failures never fail the validation run: the
// orphan stays in the report, marked unrepairable where appropriate.
func (e *Engine) repairOrphans(ctx context.Context, mr *ModelReport) {
	for i := range mr.Orphans {
		orphan := &mr.Orphans[i]

		repaired, err := e.repairOne(ctx, orphan)
		if err != nil {
			e.logger.Warn("repair attempt failed",
				zap.String("target", orphan.TargetPointID),
				zap.Error(err))
			continue
		}

		if repaired {
			orphan.Repaired = true
			mr.Repaired++
		} else {
			orphan.Unrepairable = true
			mr.Unrepairable++
		}
	}
}

// repairOne resolves a single orphan target. Concurrent attempts for the
// same target collapse into one fetch via singleflight; every caller sees
// the shared outcome.
//
// Repairs are keyed and verified on the canonical identifier, not the
// pointer's spelling: a legacy pointer and a namespaced pointer at the
// same record collapse into one fetch, and the fetched point is written
// back under the canonical id. The legacy spelling itself stays dangling
// until a re-sync rewrites the pointer.
func (e *Engine) repairOne(ctx context.Context, orphan *Orphan) (bool, error) {
	canonical, err := addr.Encode(addr.NamespaceData, orphan.TargetModelID, orphan.TargetRecordID)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", orphan.TargetPointID, err)
	}

	result, err, _ := e.repairs.Do(canonical, func() (any, error) {
		point, err := e.fetcher.FetchRecord(ctx, orphan.TargetModelID, orphan.TargetRecordID)
		if err != nil {
			return false, fmt.Errorf("fetch %s: %w", canonical, err)
		}
		if point == nil {
			// The source system dropped the record too. Nothing to write
			// back; the reference is permanently dangling.
			return false, nil
		}

		if err := e.db.Upsert(ctx, e.cfg.Collection, []vectordb.Point{*point}); err != nil {
			return false, fmt.Errorf("write back %s: %w", canonical, err)
		}

		// One verification read. If the point still isn't visible the
		// repair did not take and retrying in the same run won't help.
		got, err := e.db.GetPoints(ctx, e.cfg.Collection, []string{canonical}, false)
		if err != nil {
			return false, fmt.Errorf("verify %s: %w", canonical, err)
		}
		return len(got) == 1, nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}
