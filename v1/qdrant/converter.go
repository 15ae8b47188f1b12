package qdrant

import (
	"fmt"
	"strconv"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/erpvec/erpvec/v1/vectordb"
)

// ── Filter Conversion ────────────────────────────────────────────────────────

// convertFilterSet converts a vectordb.FilterSet to a Qdrant filter.
func convertFilterSet(filters *vectordb.FilterSet) *qdrant.Filter {
	if filters == nil {
		return nil
	}

	filter := &qdrant.Filter{}

	if filters.Must != nil {
		filter.Must = convertConditionSet(filters.Must)
	}
	if filters.Should != nil {
		filter.Should = convertConditionSet(filters.Should)
	}
	if filters.MustNot != nil {
		filter.MustNot = convertConditionSet(filters.MustNot)
	}

	// Return nil if no conditions were added
	if len(filter.Must) == 0 && len(filter.Should) == 0 && len(filter.MustNot) == 0 {
		return nil
	}

	return filter
}

// convertConditionSet converts a vectordb.ConditionSet to Qdrant conditions.
func convertConditionSet(cs *vectordb.ConditionSet) []*qdrant.Condition {
	if cs == nil {
		return nil
	}

	var conditions []*qdrant.Condition
	for _, c := range cs.Conditions {
		for _, cond := range convertCondition(c) {
			if cond != nil {
				conditions = append(conditions, cond)
			}
		}
	}
	return conditions
}

// convertCondition converts a single vectordb.FilterCondition to Qdrant conditions.
func convertCondition(c vectordb.FilterCondition) []*qdrant.Condition {
	switch cond := c.(type) {
	case *vectordb.MatchCondition:
		return convertMatchCondition(cond)
	case *vectordb.MatchAnyCondition:
		return convertMatchAnyCondition(cond)
	case *vectordb.MatchExceptCondition:
		return convertMatchExceptCondition(cond)
	case *vectordb.MatchTextCondition:
		return []*qdrant.Condition{qdrant.NewMatchText(cond.Field, cond.Text)}
	case *vectordb.NumericRangeCondition:
		return convertNumericRangeCondition(cond)
	case *vectordb.TimeRangeCondition:
		return convertTimeRangeCondition(cond)
	case *vectordb.IsNullCondition:
		return []*qdrant.Condition{qdrant.NewIsNull(cond.Field)}
	case *vectordb.IsEmptyCondition:
		return []*qdrant.Condition{qdrant.NewIsEmpty(cond.Field)}
	default:
		return nil
	}
}

func convertMatchCondition(c *vectordb.MatchCondition) []*qdrant.Condition {
	switch v := c.Value.(type) {
	case string:
		return []*qdrant.Condition{qdrant.NewMatch(c.Field, v)}
	case bool:
		return []*qdrant.Condition{qdrant.NewMatchBool(c.Field, v)}
	case int:
		return []*qdrant.Condition{qdrant.NewMatchInt(c.Field, int64(v))}
	case int64:
		return []*qdrant.Condition{qdrant.NewMatchInt(c.Field, v)}
	case float64:
		// Handle JSON numbers which are float64 by default
		return []*qdrant.Condition{qdrant.NewMatchInt(c.Field, int64(v))}
	default:
		return nil
	}
}

func convertMatchAnyCondition(c *vectordb.MatchAnyCondition) []*qdrant.Condition {
	strs, ints, ok := splitValues(c.Values)
	if !ok {
		return nil
	}
	if strs != nil {
		return []*qdrant.Condition{qdrant.NewMatchKeywords(c.Field, strs...)}
	}
	return []*qdrant.Condition{qdrant.NewMatchInts(c.Field, ints...)}
}

func convertMatchExceptCondition(c *vectordb.MatchExceptCondition) []*qdrant.Condition {
	strs, ints, ok := splitValues(c.Values)
	if !ok {
		return nil
	}
	if strs != nil {
		return []*qdrant.Condition{qdrant.NewMatchExceptKeywords(c.Field, strs...)}
	}
	return []*qdrant.Condition{qdrant.NewMatchExceptInts(c.Field, ints...)}
}

// splitValues detects the element type from the first value and converts
// the whole slice. Mixed-type slices convert as far as the detected type
// allows; anything else is dropped.
func splitValues(values []any) (strs []string, ints []int64, ok bool) {
	if len(values) == 0 {
		return nil, nil, false
	}

	switch values[0].(type) {
	case string:
		strs = make([]string, 0, len(values))
		for _, v := range values {
			if s, isStr := v.(string); isStr {
				strs = append(strs, s)
			}
		}
		return strs, nil, true
	case int, int64, float64:
		ints = make([]int64, 0, len(values))
		for _, v := range values {
			switch n := v.(type) {
			case int:
				ints = append(ints, int64(n))
			case int64:
				ints = append(ints, n)
			case float64:
				ints = append(ints, int64(n))
			}
		}
		return nil, ints, true
	default:
		return nil, nil, false
	}
}

func convertNumericRangeCondition(c *vectordb.NumericRangeCondition) []*qdrant.Condition {
	r := &qdrant.Range{
		Gt:  c.Range.Gt,
		Gte: c.Range.Gte,
		Lt:  c.Range.Lt,
		Lte: c.Range.Lte,
	}
	if r.Gt == nil && r.Gte == nil && r.Lt == nil && r.Lte == nil {
		return nil
	}
	return []*qdrant.Condition{qdrant.NewRange(c.Field, r)}
}

func convertTimeRangeCondition(c *vectordb.TimeRangeCondition) []*qdrant.Condition {
	r := &qdrant.DatetimeRange{
		Gt:  toTimestamp(c.Range.Gt),
		Gte: toTimestamp(c.Range.Gte),
		Lt:  toTimestamp(c.Range.Lt),
		Lte: toTimestamp(c.Range.Lte),
	}
	if r.Gt == nil && r.Gte == nil && r.Lt == nil && r.Lte == nil {
		return nil
	}
	return []*qdrant.Condition{qdrant.NewDatetimeRange(c.Field, r)}
}

func toTimestamp(t *time.Time) *timestamppb.Timestamp {
	if t == nil {
		return nil
	}
	return timestamppb.New(*t)
}

// ── Point ID Conversion ──────────────────────────────────────────────────────

// toPointID converts a codec-produced identifier to a Qdrant point id.
// Digit-string ids become numeric point ids; anything else (graph-edge
// UUIDs) is passed through as a UUID id.
func toPointID(id string) *qdrant.PointId {
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		return qdrant.NewIDNum(n)
	}
	return qdrant.NewID(id)
}

// fromPointID extracts a string id from Qdrant's PointId type.
func fromPointID(id *qdrant.PointId) (string, error) {
	if id == nil {
		return "", fmt.Errorf("qdrant: nil point id")
	}
	switch v := id.PointIdOptions.(type) {
	case *qdrant.PointId_Num:
		return strconv.FormatUint(v.Num, 10), nil
	case *qdrant.PointId_Uuid:
		return v.Uuid, nil
	default:
		return "", fmt.Errorf("qdrant: unexpected PointId type: %T", v)
	}
}

// ── Payload Conversion ───────────────────────────────────────────────────────

// convertPayload converts Qdrant's protobuf payload to a generic map.
func convertPayload(payload map[string]*qdrant.Value) map[string]any {
	if payload == nil {
		return nil
	}
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		result[k] = extractValue(v)
	}
	return result
}

// extractValue recursively converts a Qdrant Value to a Go native type.
func extractValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch val := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_NullValue:
		return nil
	case *qdrant.Value_StructValue:
		if val.StructValue == nil {
			return nil
		}
		return convertPayload(val.StructValue.Fields)
	case *qdrant.Value_ListValue:
		if val.ListValue == nil {
			return nil
		}
		items := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			items[i] = extractValue(item)
		}
		return items
	default:
		return nil
	}
}

// ── Misc Conversion ──────────────────────────────────────────────────────────

func convertIndexType(t vectordb.PayloadIndexType) (qdrant.FieldType, error) {
	switch t {
	case vectordb.IndexKeyword:
		return qdrant.FieldType_FieldTypeKeyword, nil
	case vectordb.IndexInteger:
		return qdrant.FieldType_FieldTypeInteger, nil
	case vectordb.IndexFloat:
		return qdrant.FieldType_FieldTypeFloat, nil
	case vectordb.IndexBool:
		return qdrant.FieldType_FieldTypeBool, nil
	case vectordb.IndexDatetime:
		return qdrant.FieldType_FieldTypeDatetime, nil
	case vectordb.IndexText:
		return qdrant.FieldType_FieldTypeText, nil
	default:
		return 0, fmt.Errorf("qdrant: unknown payload index type %q", t)
	}
}

// extractVectorDetails safely extracts the vector size and distance metric
// from a CollectionInfo. Qdrant nests vector configuration behind several
// "oneof" wrappers; missing or unexpected shapes yield (0, "").
func extractVectorDetails(info *qdrant.CollectionInfo) (int, string) {
	if info == nil ||
		info.Config == nil ||
		info.Config.Params == nil ||
		info.Config.Params.VectorsConfig == nil ||
		info.Config.Params.VectorsConfig.Config == nil {
		return 0, ""
	}

	if cfg, ok := info.Config.Params.VectorsConfig.Config.(*qdrant.VectorsConfig_Params); ok {
		return int(cfg.Params.Size), cfg.Params.Distance.String()
	}

	return 0, ""
}
