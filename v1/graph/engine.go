package graph

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/erpvec/erpvec/v1/addr"
	"github.com/erpvec/erpvec/v1/schema"
	"github.com/erpvec/erpvec/v1/vectordb"
)

// Engine validates referential integrity of the projected FK graph.
type Engine struct {
	db      vectordb.Service
	catalog *schema.Catalog
	fetcher Fetcher
	sink    Sink
	cfg     *Config
	logger  *zap.Logger

	// repairs deduplicates concurrent repair attempts per target point:
	// when several models reference the same missing record, the source
	// system is asked exactly once.
	repairs singleflight.Group
}

// NewEngine builds an integrity engine. The fetcher and sink are
// optional: without a fetcher repairs are skipped, without a sink reports
// are only returned.
func NewEngine(db vectordb.Service, catalog *schema.Catalog, fetcher Fetcher, sink Sink, cfg *Config, logger *zap.Logger) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Engine{
		db:      db,
		catalog: catalog,
		fetcher: fetcher,
		sink:    sink,
		cfg:     cfg,
		logger:  logger.Named("graph"),
	}
}

// Validate runs scan, reconcile and optional repair over the selected
// models, bounded by the configured worker count. The report covers every
// selected model even when a model holds no records.
//
// A failure validating one model is recorded on its ModelReport and the
// remaining models still validate; only an unknown model name or explicit
// cancellation aborts the run. A deadline expiring mid-run returns the
// partial report with Incomplete set rather than an error.
func (e *Engine) Validate(ctx context.Context, opts Options) (*Report, error) {
	models := opts.Models
	if len(models) == 0 {
		models = e.catalog.Models()
	}
	for _, name := range models {
		if _, err := e.catalog.Model(name); err != nil {
			return nil, err
		}
	}

	report := &Report{
		StartedAt: time.Now().UTC(),
		Models:    make([]ModelReport, len(models)),
	}

	var incomplete atomic.Bool

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, name := range models {
		g.Go(func() error {
			mr, err := e.validateModel(gctx, name, opts)
			switch {
			case err == nil:
			case errors.Is(err, context.Canceled):
				return err
			case errors.Is(err, context.DeadlineExceeded):
				mr.Error = err.Error()
				incomplete.Store(true)
			default:
				mr.Error = err.Error()
				e.logger.Warn("model validation failed",
					zap.String("model", name), zap.Error(err))
			}
			report.Models[i] = *mr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Incomplete = incomplete.Load()
	report.FinishedAt = time.Now().UTC()
	for _, mr := range report.Models {
		report.TotalScanned += mr.ScannedRecords
		report.TotalReferences += mr.References
		report.TotalMissing += mr.MissingRefs
		report.TotalRepaired += mr.Repaired
	}

	e.logger.Info("validation finished",
		zap.Int("models", len(report.Models)),
		zap.Int("scanned", report.TotalScanned),
		zap.Int("missing", report.TotalMissing),
		zap.Int("repaired", report.TotalRepaired))

	if e.sink != nil {
		if err := e.sink.RecordReport(ctx, report); err != nil {
			e.logger.Warn("history sink rejected report", zap.Error(err))
		}
	}
	return report, nil
}

// validateModel runs the phases for one model. On error the report holds
// whatever was scanned up to the failure.
func (e *Engine) validateModel(ctx context.Context, modelName string, opts Options) (*ModelReport, error) {
	mr := &ModelReport{ModelName: modelName}

	model, err := e.catalog.Model(modelName)
	if err != nil {
		return mr, err
	}
	fkFields := model.FKFields()

	var refs []Reference
	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return mr, err
		}
		page, err := e.db.Scroll(ctx, vectordb.ScrollRequest{
			CollectionName: e.cfg.Collection,
			Filter:         recordFilter(modelName),
			Limit:          e.cfg.PageSize,
			Cursor:         cursor,
			WithPayload:    true,
		})
		if err != nil {
			return mr, fmt.Errorf("scan: %w", err)
		}

		for _, pt := range page.Points {
			mr.ScannedRecords++
			refs = append(refs, e.resolveReferences(pt, fkFields, mr)...)
		}

		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}
	mr.References = len(refs)

	if err := e.reconcile(ctx, mr, refs, opts); err != nil {
		return mr, err
	}

	if opts.ExtractPatterns {
		mr.Hints = e.extractHints(fkFields, refs)
	}

	if opts.Repair && e.fetcher != nil {
		e.repairOrphans(ctx, mr)
	}
	return mr, nil
}

// resolveReferences decodes the FK pointer payload of one record.
// Malformed pointers become structural errors; well-formed ones become
// references for the reconcile phase.
func (e *Engine) resolveReferences(pt vectordb.Point, fkFields []schema.FieldDescriptor, mr *ModelReport) []Reference {
	var out []Reference
	for _, f := range fkFields {
		raw, ok := pt.Payload[schema.PtrField(f.Name)]
		if !ok || raw == nil {
			continue
		}

		for _, value := range pointerValues(raw) {
			id, ok := value.(string)
			if !ok {
				mr.StructuralErrors = append(mr.StructuralErrors, StructuralError{
					SourcePointID: pt.ID,
					Field:         f.Name,
					RawValue:      fmt.Sprintf("%v", value),
					Reason:        "pointer is not a string",
				})
				continue
			}

			identity, err := addr.Decode(id)
			if err != nil {
				mr.StructuralErrors = append(mr.StructuralErrors, StructuralError{
					SourcePointID: pt.ID,
					Field:         f.Name,
					RawValue:      id,
					Reason:        err.Error(),
				})
				continue
			}
			if identity.Namespace != addr.NamespaceData {
				mr.StructuralErrors = append(mr.StructuralErrors, StructuralError{
					SourcePointID: pt.ID,
					Field:         f.Name,
					RawValue:      id,
					Reason:        fmt.Sprintf("pointer into %s namespace", identity.Namespace),
				})
				continue
			}

			out = append(out, Reference{
				SourcePointID: pt.ID,
				Field:         f.Name,
				TargetPointID: id,
				Target:        identity,
			})
		}
	}
	return out
}

// pointerValues normalizes a pointer payload: to-one fields hold one id,
// to-many fields hold a sequence.
func pointerValues(raw any) []any {
	if list, ok := raw.([]any); ok {
		return list
	}
	return []any{raw}
}

func recordFilter(modelName string) *vectordb.FilterSet {
	return vectordb.NewFilterSet(
		vectordb.Must(
			vectordb.NewMatch(schema.PayloadModelName, modelName),
			vectordb.NewMatch(schema.PayloadPointType, schema.PointTypeRecord),
		),
	)
}
