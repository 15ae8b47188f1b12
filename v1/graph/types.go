package graph

import (
	"context"
	"time"

	"github.com/erpvec/erpvec/v1/addr"
	"github.com/erpvec/erpvec/v1/vectordb"
)

// Fetcher pulls a single record back out of the source system so a
// dangling reference can be repaired. A nil point with a nil error means
// the source system no longer has the record.
type Fetcher interface {
	FetchRecord(ctx context.Context, modelID, recordID int64) (*vectordb.Point, error)
}

// Sink receives finished validation reports.
type Sink interface {
	RecordReport(ctx context.Context, report *Report) error
}

// Reference is one decoded FK pointer found on a scanned record.
type Reference struct {
	SourcePointID string        `json:"sourcePointId"`
	Field         string        `json:"field"`
	TargetPointID string        `json:"targetPointId"`
	Target        addr.Identity `json:"-"`
}

// StructuralError is a pointer value that could not be decoded at all:
// wrong layout, non-numeric, or pointing outside the data namespace.
// These are corruption, not orphans, and are never repaired.
type StructuralError struct {
	SourcePointID string `json:"sourcePointId"`
	Field         string `json:"field"`
	RawValue      string `json:"rawValue"`
	Reason        string `json:"reason"`
}

// Orphan is a well-formed reference whose target point does not exist.
type Orphan struct {
	SourcePointID  string `json:"sourcePointId"`
	Field          string `json:"field"`
	TargetPointID  string `json:"targetPointId"`
	TargetModelID  int64  `json:"targetModelId"`
	TargetRecordID int64  `json:"targetRecordId"`

	// Repaired is set when the target was re-fetched from the source
	// system and written back.
	Repaired bool `json:"repaired,omitempty"`

	// Unrepairable is set when the source system no longer has the
	// target, or a repair attempt still left the point missing.
	Unrepairable bool `json:"unrepairable,omitempty"`
}

// DriftKind classifies a mismatch between forward references and the
// stored graph-edge points.
type DriftKind string

const (
	// DriftMissingEdge: a record references a target but no edge point
	// records the relation.
	DriftMissingEdge DriftKind = "missing_edge"

	// DriftStaleEdge: an edge point records a relation no record holds
	// anymore.
	DriftStaleEdge DriftKind = "stale_edge"
)

// Drift is one bidirectional mismatch.
type Drift struct {
	Kind          DriftKind `json:"kind"`
	SourcePointID string    `json:"sourcePointId"`
	Field         string    `json:"field"`
	TargetPointID string    `json:"targetPointId"`
	EdgePointID   string    `json:"edgePointId"`
}

// Cardinality is the observed shape of a reference field.
type Cardinality string

const (
	CardinalityOneToOne  Cardinality = "one_to_one"
	CardinalityManyToOne Cardinality = "many_to_one"
)

// CardinalityHint summarizes the observed reference pattern of one field.
type CardinalityHint struct {
	Field           string      `json:"field"`
	TargetModel     string      `json:"targetModel"`
	Cardinality     Cardinality `json:"cardinality"`
	References      int         `json:"references"`
	DistinctTargets int         `json:"distinctTargets"`
}

// ModelReport is the validation outcome for one model.
type ModelReport struct {
	ModelName      string `json:"modelName"`
	ScannedRecords int    `json:"scannedRecords"`
	References     int    `json:"references"`

	StructuralErrors []StructuralError `json:"structuralErrors,omitempty"`

	// Orphans holds up to the configured per-model limit; MissingRefs is
	// the full count regardless of the limit.
	Orphans        []Orphan `json:"orphans,omitempty"`
	MissingRefs    int      `json:"missingRefs"`
	OrphanLimitHit bool     `json:"orphanLimitHit,omitempty"`

	Drift []Drift           `json:"drift,omitempty"`
	Hints []CardinalityHint `json:"hints,omitempty"`

	Repaired     int `json:"repaired"`
	Unrepairable int `json:"unrepairable"`

	// Error is set when this model's validation failed partway. The
	// counters above cover only what was scanned before the failure.
	Error string `json:"error,omitempty"`
}

// Report is the outcome of one validation run.
type Report struct {
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
	Models     []ModelReport `json:"models"`

	TotalScanned    int `json:"totalScanned"`
	TotalReferences int `json:"totalReferences"`
	TotalMissing    int `json:"totalMissing"`
	TotalRepaired   int `json:"totalRepaired"`

	// Incomplete is set when the caller's deadline expired before every
	// model finished; the totals cover only what was scanned.
	Incomplete bool `json:"incomplete,omitempty"`
}

// Options select what one validation run does.
type Options struct {
	// Models restricts validation to these models. Empty validates every
	// catalog model.
	Models []string

	// Repair re-fetches orphan targets from the source system and writes
	// them back.
	Repair bool

	// Bidirectional also reconciles forward references against stored
	// graph-edge points.
	Bidirectional bool

	// ExtractPatterns derives cardinality hints from observed references.
	ExtractPatterns bool

	// OrphanLimit overrides the configured per-model orphan cap when
	// positive.
	OrphanLimit int
}
