package syncer

import (
	"context"
	"time"

	"github.com/erpvec/erpvec/v1/embedding"
	"github.com/erpvec/erpvec/v1/odoo"
)

// Source is the slice of the ERP client the pipeline needs.
type Source interface {
	SearchRead(ctx context.Context, model string, domain []any, opts odoo.SearchOptions) ([]odoo.Record, error)
	SearchCount(ctx context.Context, model string, domain []any) (int64, error)
	Read(ctx context.Context, model string, ids []int64, fields []string) ([]odoo.Record, error)
}

// Embedder is the slice of the embedding client the pipeline needs.
type Embedder interface {
	Embed(ctx context.Context, text string, mode embedding.Mode) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string, mode embedding.Mode) ([][]float32, error)
}

// Options select what one sync run does.
type Options struct {
	// Model is the source model to sync.
	Model string

	// Domain optionally restricts which records sync, in source domain
	// notation. Nil syncs everything.
	Domain []any

	// Limit caps fetched records. Zero syncs all matches.
	Limit int

	// WithEdges also writes one graph-edge point per FK reference.
	WithEdges bool
}

// RecordFailure is one record the run could not project.
type RecordFailure struct {
	RecordID int64  `json:"recordId"`
	Reason   string `json:"reason"`
}

// BatchFailure is one batch that failed wholesale after retries.
type BatchFailure struct {
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
	Stage  string `json:"stage"`
	Reason string `json:"reason"`
}

// Result summarizes one sync run. Per-record and per-batch failures are
// collected here instead of aborting the run.
type Result struct {
	Model    string        `json:"model"`
	Fetched  int           `json:"fetched"`
	Synced   int           `json:"synced"`
	Edges    int           `json:"edges"`
	Duration time.Duration `json:"duration"`

	FailedRecords []RecordFailure `json:"failedRecords,omitempty"`
	FailedBatches []BatchFailure  `json:"failedBatches,omitempty"`

	// Incomplete is set when the caller's deadline expired mid-run; the
	// counters cover only what went through before the cutoff.
	Incomplete bool `json:"incomplete,omitempty"`
}

// FKCandidate is one field FK detection believes points at another model.
type FKCandidate struct {
	Field          string   `json:"field"`
	TargetModel    string   `json:"targetModel,omitempty"`
	Confidence     float64  `json:"confidence"`
	Classification string   `json:"classification"`
	Reasons        []string `json:"reasons"`
}
