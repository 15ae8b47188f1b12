package qdrant

import (
	"testing"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/erpvec/erpvec/v1/vectordb"
)

func TestConvertFilterSet_Nil(t *testing.T) {
	if result := convertFilterSet(nil); result != nil {
		t.Errorf("expected nil, got %v", result)
	}
}

func TestConvertFilterSet_Empty(t *testing.T) {
	if result := convertFilterSet(&vectordb.FilterSet{}); result != nil {
		t.Errorf("expected nil, got %v", result)
	}
}

func TestConvertFilterSet_MustWithMatch(t *testing.T) {
	filters := vectordb.NewFilterSet(
		vectordb.Must(vectordb.NewMatch("model_name", "res.partner")),
	)
	result := convertFilterSet(filters)

	if result == nil {
		t.Fatal("expected filter, got nil")
	}
	if len(result.Must) != 1 {
		t.Errorf("expected 1 Must condition, got %d", len(result.Must))
	}
}

func TestConvertFilterSet_MixedConditionTypes(t *testing.T) {
	// model_name = "account.move.line" AND balance >= 100 AND posted = true
	min := float64(100)
	filters := vectordb.NewFilterSet(
		vectordb.Must(
			vectordb.NewMatch("model_name", "account.move.line"),
			vectordb.NewNumericRange("balance", vectordb.NumericRange{Gte: &min}),
			vectordb.NewMatch("posted", true),
		),
	)
	result := convertFilterSet(filters)

	if result == nil {
		t.Fatal("expected filter, got nil")
	}
	if len(result.Must) != 3 {
		t.Errorf("expected 3 Must conditions, got %d", len(result.Must))
	}
}

func TestConvertFilterSet_EmptyRangeDropped(t *testing.T) {
	filters := vectordb.NewFilterSet(
		vectordb.Must(vectordb.NewNumericRange("balance", vectordb.NumericRange{})),
	)
	if result := convertFilterSet(filters); result != nil {
		t.Errorf("expected nil for empty range, got %v", result)
	}
}

func TestConvertFilterSet_TimeRange(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	filters := vectordb.NewFilterSet(
		vectordb.Must(vectordb.NewTimeRange("date", vectordb.TimeRange{Gte: &from})),
	)
	result := convertFilterSet(filters)

	if result == nil {
		t.Fatal("expected filter, got nil")
	}
	if len(result.Must) != 1 {
		t.Errorf("expected 1 Must condition, got %d", len(result.Must))
	}
}

func TestConvertFilterSet_MatchAnyInts(t *testing.T) {
	filters := vectordb.NewFilterSet(
		vectordb.Must(vectordb.NewMatchAny("record_id", 1, 2, 3)),
	)
	result := convertFilterSet(filters)

	if result == nil {
		t.Fatal("expected filter, got nil")
	}
	if len(result.Must) != 1 {
		t.Errorf("expected 1 Must condition, got %d", len(result.Must))
	}
}

func TestConvertFilterSet_MustNot(t *testing.T) {
	filters := vectordb.NewFilterSet(
		vectordb.MustNot(vectordb.NewMatch("point_type", "graph_edge")),
	)
	result := convertFilterSet(filters)

	if result == nil {
		t.Fatal("expected filter, got nil")
	}
	if len(result.MustNot) != 1 {
		t.Errorf("expected 1 MustNot condition, got %d", len(result.MustNot))
	}
}

func TestPointID_RoundTrip(t *testing.T) {
	// Digit-string ids travel as numeric point ids.
	id := toPointID("200085000000000319")
	if _, ok := id.PointIdOptions.(*qdrant.PointId_Num); !ok {
		t.Fatalf("expected numeric point id, got %T", id.PointIdOptions)
	}
	back, err := fromPointID(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back != "200085000000000319" {
		t.Errorf("round trip mismatch: got %s", back)
	}

	// Everything else travels as a UUID id.
	id = toPointID("7c9e6679-7425-40de-944b-e07fc1f90ae7")
	if _, ok := id.PointIdOptions.(*qdrant.PointId_Uuid); !ok {
		t.Fatalf("expected uuid point id, got %T", id.PointIdOptions)
	}
}

func TestExtractValue_Nested(t *testing.T) {
	payload := qdrant.NewValueMap(map[string]any{
		"model_name": "res.partner",
		"record_id":  int64(42),
		"tag_ids":    []any{int64(1), int64(2)},
	})

	converted := convertPayload(payload)
	if converted["model_name"] != "res.partner" {
		t.Errorf("expected model_name res.partner, got %v", converted["model_name"])
	}
	if converted["record_id"] != int64(42) {
		t.Errorf("expected record_id 42, got %v", converted["record_id"])
	}
	tags, ok := converted["tag_ids"].([]any)
	if !ok || len(tags) != 2 {
		t.Errorf("expected 2 tag ids, got %v", converted["tag_ids"])
	}
}

func TestConvertIndexType_Unknown(t *testing.T) {
	if _, err := convertIndexType("geo"); err == nil {
		t.Error("expected error for unknown index type")
	}
}
