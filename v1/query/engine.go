package query

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/erpvec/erpvec/v1/filter"
	"github.com/erpvec/erpvec/v1/vectordb"
)

// Engine runs aggregation and scroll scans against a vector store. It
// never loads a full result set into memory: pages stream through the
// residual predicates and fold into running accumulators.
type Engine struct {
	db     vectordb.Service
	cfg    *Config
	logger *zap.Logger
}

// NewEngine builds a query engine over the given store.
func NewEngine(db vectordb.Service, cfg *Config, logger *zap.Logger) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Engine{
		db:     db,
		cfg:    cfg,
		logger: logger.Named("query"),
	}
}

// Aggregate cursor-scans every point matching the native filter, applies
// the residual predicates per page, and folds matched records into the
// requested accumulators. Averages are derived as sum over count at the
// end, never accumulated directly.
//
// Scanning stops once the matched-record cap is reached, with Truncated
// set. A context deadline expiring mid-scan also returns the partial
// aggregate with Truncated set rather than an error; explicit
// cancellation returns the context error.
func (e *Engine) Aggregate(ctx context.Context, req AggregateRequest) (*AggregateResult, error) {
	if err := validateAggregations(req.Aggregations); err != nil {
		return nil, err
	}

	maxRecords := req.MaxRecords
	if maxRecords <= 0 {
		maxRecords = e.cfg.MaxRecords
	}

	buckets := make(map[string]*bucket)
	matched := 0
	truncated := false
	cursor := ""

	for {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				e.logger.Warn("aggregation deadline hit, returning partial result",
					zap.Int("matched", matched))
				truncated = true
				break
			}
			return nil, err
		}

		page, err := e.db.Scroll(ctx, vectordb.ScrollRequest{
			CollectionName: e.cfg.Collection,
			Filter:         req.Filter,
			Limit:          e.cfg.PageSize,
			Cursor:         cursor,
			WithPayload:    true,
		})
		if err != nil {
			return nil, fmt.Errorf("aggregation scan failed: %w", err)
		}

		for _, pt := range filter.ApplyResidual(page.Points, req.Residual) {
			foldRecord(buckets, req, pt)
			matched++
			if matched >= maxRecords {
				truncated = true
				break
			}
		}

		if truncated || page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	return &AggregateResult{
		Groups:       finalizeBuckets(buckets, req.Aggregations),
		TotalRecords: matched,
		Truncated:    truncated,
	}, nil
}

// bucket is one group's running accumulators, keyed by alias.
type bucket struct {
	key    map[string]any
	states map[string]*aggState
}

type aggState struct {
	count int64
	sum   float64
	min   float64
	max   float64
	// seen counts numeric samples, so avg/min/max distinguish "no data"
	// from a zero value.
	seen int64
}

func foldRecord(buckets map[string]*bucket, req AggregateRequest, pt vectordb.Point) {
	key := groupKey(req.GroupBy, pt)
	b, ok := buckets[key]
	if !ok {
		b = &bucket{states: make(map[string]*aggState)}
		if len(req.GroupBy) > 0 {
			b.key = make(map[string]any, len(req.GroupBy))
			for _, field := range req.GroupBy {
				b.key[field] = pt.Payload[field]
			}
		}
		buckets[key] = b
	}

	for _, agg := range req.Aggregations {
		st, ok := b.states[agg.Alias]
		if !ok {
			st = &aggState{}
			b.states[agg.Alias] = st
		}

		if agg.Op == AggCount {
			if agg.Field == "" || pt.Payload[agg.Field] != nil {
				st.count++
			}
			continue
		}

		v, ok := numericValue(pt.Payload[agg.Field])
		if !ok {
			continue
		}
		if st.seen == 0 || v < st.min {
			st.min = v
		}
		if st.seen == 0 || v > st.max {
			st.max = v
		}
		st.sum += v
		st.seen++
	}
}

// finalizeBuckets derives final values and orders groups by key for
// deterministic output.
func finalizeBuckets(buckets map[string]*bucket, aggs []Aggregation) []GroupResult {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]GroupResult, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		values := make(map[string]any, len(aggs))
		for _, agg := range aggs {
			st := b.states[agg.Alias]
			switch agg.Op {
			case AggCount:
				values[agg.Alias] = st.count
			case AggSum:
				values[agg.Alias] = st.sum
			case AggAvg:
				if st.seen == 0 {
					values[agg.Alias] = nil
				} else {
					values[agg.Alias] = st.sum / float64(st.seen)
				}
			case AggMin:
				if st.seen == 0 {
					values[agg.Alias] = nil
				} else {
					values[agg.Alias] = st.min
				}
			case AggMax:
				if st.seen == 0 {
					values[agg.Alias] = nil
				} else {
					values[agg.Alias] = st.max
				}
			}
		}
		groups = append(groups, GroupResult{Key: b.key, Values: values})
	}
	return groups
}

func validateAggregations(aggs []Aggregation) error {
	if len(aggs) == 0 {
		return errors.New("at least one aggregation is required")
	}
	seen := make(map[string]bool, len(aggs))
	for _, agg := range aggs {
		switch agg.Op {
		case AggSum, AggCount, AggAvg, AggMin, AggMax:
		default:
			return fmt.Errorf("unknown aggregation operator %q", agg.Op)
		}
		if agg.Op != AggCount && agg.Field == "" {
			return fmt.Errorf("aggregation %q requires a field", agg.Op)
		}
		if agg.Alias == "" {
			return fmt.Errorf("aggregation %q on %q has no alias", agg.Op, agg.Field)
		}
		if seen[agg.Alias] {
			return fmt.Errorf("duplicate aggregation alias %q", agg.Alias)
		}
		seen[agg.Alias] = true
	}
	return nil
}

// groupKey builds a stable string key from the groupBy tuple. The unit
// separator keeps distinct tuples from colliding.
func groupKey(groupBy []string, pt vectordb.Point) string {
	if len(groupBy) == 0 {
		return ""
	}
	parts := make([]string, len(groupBy))
	for i, field := range groupBy {
		parts[i] = fmt.Sprintf("%v", pt.Payload[field])
	}
	return strings.Join(parts, "\x1f")
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
